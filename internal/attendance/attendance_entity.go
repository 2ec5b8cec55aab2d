package attendance

import (
	"time"

	attendanceerrors "go-colaboradores/internal/attendance/errors"

	"github.com/google/uuid"
)

const (
	TypeEntrada = "entrada"
	TypeComida  = "comida"
	TypeSalida  = "salida"

	SubtypeInicio = "inicio"
	SubtypeFin    = "fin"
)

// AttendanceRecord is append-only. There is no unique index on
// (user, location, day, kind); duplicates are prevented by a read-before-write.
type AttendanceRecord struct {
	ID             uuid.UUID `gorm:"column:id;type:uuid;primaryKey"`
	UserID         uuid.UUID `gorm:"column:user_id;type:uuid;not null;index:idx_attendance_user_time,priority:1"`
	LocationID     uuid.UUID `gorm:"column:location_id;type:uuid;not null;index"`
	Type           string    `gorm:"column:type;type:varchar(10);not null"`
	Subtype        string    `gorm:"column:subtype;type:varchar(10);not null;default:''"`
	RecordedAt     time.Time `gorm:"column:recorded_at;type:timestamptz;not null;index:idx_attendance_user_time,priority:2"`
	DistanceMeters *float64  `gorm:"column:distance_meters"`
	WithinRange    bool      `gorm:"column:within_range;not null"`
	CreatedAt      time.Time `gorm:"column:created_at"`
}

func (AttendanceRecord) TableName() string {
	return "attendance_records"
}

func (r AttendanceRecord) Kind() Kind {
	return Kind{Type: r.Type, Subtype: r.Subtype}
}

// Kind is a record type plus, for comida only, its subtype.
type Kind struct {
	Type    string
	Subtype string
}

func (k Kind) Validate() error {
	switch k.Type {
	case TypeEntrada, TypeSalida:
		if k.Subtype != "" {
			return attendanceerrors.ErrSubtypeNotAllowed
		}
	case TypeComida:
		if k.Subtype != SubtypeInicio && k.Subtype != SubtypeFin {
			return attendanceerrors.ErrSubtypeRequired
		}
	default:
		return attendanceerrors.ErrInvalidType
	}
	return nil
}

func (k Kind) String() string {
	if k.Subtype == "" {
		return k.Type
	}
	return k.Type + "/" + k.Subtype
}
