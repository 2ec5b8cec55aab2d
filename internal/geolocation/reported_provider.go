package geolocation

import (
	"context"
	"errors"
	"time"

	"go-colaboradores/internal/geofence"
)

// DeviceReport is the device's answer to a geolocation request, sent along with
// the check-in. Either coordinates or an error code are present.
type DeviceReport struct {
	Latitude    *float64   `json:"latitude"`
	Longitude   *float64   `json:"longitude"`
	Accuracy    float64    `json:"accuracy"`
	CapturedAt  *time.Time `json:"captured_at"`
	ErrorCode   int        `json:"error_code"`
	Unsupported bool       `json:"unsupported"`
}

// ReportedProvider serves a single device report.
type ReportedProvider struct {
	report DeviceReport
	now    func() time.Time
}

func NewReportedProvider(report DeviceReport, now func() time.Time) *ReportedProvider {
	if now == nil {
		now = time.Now
	}
	return &ReportedProvider{report: report, now: now}
}

func (p *ReportedProvider) CurrentPosition(ctx context.Context, opts Options) (geofence.GeoPoint, error) {
	if err := ctx.Err(); err != nil {
		return geofence.GeoPoint{}, NewPositionError(Timeout, err)
	}

	r := p.report
	if r.Unsupported {
		return geofence.GeoPoint{}, NewPositionError(Unsupported, nil)
	}
	if r.ErrorCode != 0 {
		return geofence.GeoPoint{}, NewPositionError(KindFromCode(r.ErrorCode), nil)
	}
	if r.Latitude == nil || r.Longitude == nil {
		return geofence.GeoPoint{}, NewPositionError(PositionUnavailable, errors.New("no coordinates reported"))
	}

	if r.CapturedAt != nil {
		if _, err := checkAge(p.now(), *r.CapturedAt, opts); err != nil {
			return geofence.GeoPoint{}, err
		}
	}

	point := geofence.GeoPoint{Latitude: *r.Latitude, Longitude: *r.Longitude}
	if err := point.Validate(); err != nil {
		return geofence.GeoPoint{}, NewPositionError(PositionUnavailable, err)
	}
	return point, nil
}
