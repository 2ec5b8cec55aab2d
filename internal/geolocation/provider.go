// Package geolocation acquires the current device position for an attendance
// attempt. Providers never return cached fixes older than Options.MaxAge plus
// Options.Timeout.
package geolocation

//go:generate mockgen -source=provider.go -destination=mock/provider_mock.go -package=mock

import (
	"context"
	"errors"
	"time"

	"go-colaboradores/internal/geofence"
)

type Options struct {
	HighAccuracy bool          `json:"enable_high_accuracy"`
	Timeout      time.Duration `json:"-"`
	MaxAge       time.Duration `json:"-"`
}

// OptionsView is the JSON form served to devices, in milliseconds.
type OptionsView struct {
	EnableHighAccuracy bool  `json:"enable_high_accuracy"`
	TimeoutMs          int64 `json:"timeout"`
	MaximumAgeMs       int64 `json:"maximum_age"`
}

func (o Options) View() OptionsView {
	return OptionsView{
		EnableHighAccuracy: o.HighAccuracy,
		TimeoutMs:          o.Timeout.Milliseconds(),
		MaximumAgeMs:       o.MaxAge.Milliseconds(),
	}
}

// Freshness is the oldest a fix may be and still be accepted.
func (o Options) Freshness() time.Duration {
	return o.MaxAge + o.Timeout
}

// MaxClockSkew is how far ahead of the server clock a device timestamp may be.
const MaxClockSkew = 5 * time.Second

// checkAge returns the age of a fix captured at capturedAt, or a
// PositionUnavailable error when it is stale or stamped in the future.
func checkAge(now, capturedAt time.Time, opts Options) (time.Duration, error) {
	age := now.Sub(capturedAt)
	if age < -MaxClockSkew {
		return 0, NewPositionError(PositionUnavailable, errors.New("fix is dated in the future"))
	}
	if age > opts.Freshness() {
		return 0, NewPositionError(PositionUnavailable, errors.New("fix is stale"))
	}
	if age < 0 {
		age = 0
	}
	return age, nil
}

type Provider interface {
	CurrentPosition(ctx context.Context, opts Options) (geofence.GeoPoint, error)
}

// UnsupportedProvider is used when no positioning source is configured.
type UnsupportedProvider struct{}

func (UnsupportedProvider) CurrentPosition(context.Context, Options) (geofence.GeoPoint, error) {
	return geofence.GeoPoint{}, NewPositionError(Unsupported, nil)
}
