package location

import (
	"time"

	"go-colaboradores/internal/geofence"

	"github.com/google/uuid"
)

const DefaultRadiusMeters = 10.0

type Location struct {
	ID           uuid.UUID `gorm:"column:id;type:uuid;primaryKey"`
	Name         string    `gorm:"column:name;size:255;not null;uniqueIndex:uq_location_name"`
	Description  string    `gorm:"column:description;type:text"`
	Latitude     float64   `gorm:"column:latitude;not null"`
	Longitude    float64   `gorm:"column:longitude;not null"`
	RadiusMeters float64   `gorm:"column:radius_meters;not null"`
	Active       bool      `gorm:"column:active;not null"`
	CreatedAt    time.Time `gorm:"column:created_at;autoCreateTime"`
	UpdatedAt    time.Time `gorm:"column:updated_at;autoUpdateTime"`
}

func (Location) TableName() string {
	return "locations"
}

func (l Location) Center() geofence.GeoPoint {
	return geofence.GeoPoint{Latitude: l.Latitude, Longitude: l.Longitude}
}

func (l Location) Target() geofence.Target {
	return geofence.Target{Center: l.Center(), RadiusMeters: l.RadiusMeters}
}

// UserLocation is the assignment set between users and locations.
type UserLocation struct {
	UserID     uuid.UUID `gorm:"column:user_id;type:uuid;primaryKey"`
	LocationID uuid.UUID `gorm:"column:location_id;type:uuid;primaryKey"`
	CreatedAt  time.Time `gorm:"column:created_at;autoCreateTime"`
}

func (UserLocation) TableName() string {
	return "user_locations"
}
