package collaborator

import (
	"time"

	"github.com/google/uuid"
)

type Collaborator struct {
	ID        uuid.UUID  `gorm:"type:uuid;primaryKey"`
	Number    string     `gorm:"size:32;not null;uniqueIndex:uq_collaborator_number"`
	Name      string     `gorm:"size:255;not null;index"`
	PuestoID  *uuid.UUID `gorm:"type:uuid;index"`
	Active    bool       `gorm:"not null;default:true"`
	CreatedAt time.Time
	UpdatedAt time.Time
}

func (Collaborator) TableName() string {
	return "collaborators"
}

func (c Collaborator) StatusLabel() string {
	if c.Active {
		return "Activo"
	}
	return "Inactivo"
}
