package puesto

import (
	"time"

	"github.com/google/uuid"
)

type Puesto struct {
	ID          uuid.UUID `gorm:"column:id;type:uuid;primaryKey"`
	Name        string    `gorm:"column:name;size:255;not null;uniqueIndex:uq_puesto_name"`
	Description string    `gorm:"column:description;type:text"`
	CreatedAt   time.Time `gorm:"column:created_at;autoCreateTime"`
	UpdatedAt   time.Time `gorm:"column:updated_at;autoUpdateTime"`
}

func (Puesto) TableName() string {
	return "puestos"
}

// PuestoWithCount is a read model: the puesto plus how many collaborators hold it.
type PuestoWithCount struct {
	Puesto
	CollaboratorCount int64 `gorm:"column:collaborator_count"`
}
