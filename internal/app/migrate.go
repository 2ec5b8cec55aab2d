package app

import (
	"go-colaboradores/internal/attendance"
	"go-colaboradores/internal/collaborator"
	"go-colaboradores/internal/location"
	"go-colaboradores/internal/messaging/kafka"
	"go-colaboradores/internal/puesto"
	"go-colaboradores/internal/shared/counter"
	"go-colaboradores/internal/user"

	"gorm.io/gorm"
)

// models are migrated in dependency order.
var models = []any{
	&location.Location{},
	&user.User{},
	&location.UserLocation{},
	&puesto.Puesto{},
	&collaborator.Collaborator{},
	&counter.Counter{},
	&attendance.AttendanceRecord{},
	&kafka.OutboxEvent{},
}

func migrate(db *gorm.DB) error {
	return db.AutoMigrate(models...)
}
