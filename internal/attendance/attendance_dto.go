package attendance

import (
	"time"

	"go-colaboradores/internal/geofence"
	"go-colaboradores/internal/geolocation"
	"go-colaboradores/internal/location"
	"go-colaboradores/internal/notify"
)

type CheckInRequest struct {
	LocationID string                   `json:"location_id" binding:"omitempty,uuid"`
	Type       string                   `json:"type" binding:"required,oneof=entrada comida salida"`
	Subtype    string                   `json:"subtype" binding:"omitempty,oneof=inicio fin"`
	Position   *geolocation.DeviceReport `json:"position"`
}

type SavePositionRequest struct {
	Latitude   *float64   `json:"latitude" binding:"required,gte=-90,lte=90"`
	Longitude  *float64   `json:"longitude" binding:"required,gte=-180,lte=180"`
	Accuracy   float64    `json:"accuracy" binding:"gte=0"`
	CapturedAt *time.Time `json:"captured_at"`
}

type VerifySiteRequest struct {
	Position *geolocation.DeviceReport `json:"position"`
}

type RecordsQuery struct {
	Month      string `form:"month"`
	Day        string `form:"day"`
	UserID     string `form:"user_id" binding:"omitempty,uuid"`
	LocationID string `form:"location_id" binding:"omitempty,uuid"`
	Type       string `form:"type" binding:"omitempty,oneof=entrada comida salida"`
}

type ReportQuery struct {
	Month  string `form:"month"`
	Day    string `form:"day"`
	UserID string `form:"user_id" binding:"omitempty,uuid"`
	Type   string `form:"type" binding:"omitempty,oneof=entrada comida salida"`
}

type LocationSummary struct {
	ID           string  `json:"id"`
	Name         string  `json:"name"`
	Latitude     float64 `json:"latitude"`
	Longitude    float64 `json:"longitude"`
	RadiusMeters float64 `json:"radius_meters"`
}

type LocationsResponse struct {
	State      State             `json:"state"`
	Locations  []LocationSummary `json:"locations"`
	SelectedID string            `json:"selected_id,omitempty"`
}

type RecordResponse struct {
	ID             string   `json:"id"`
	UserID         string   `json:"user_id"`
	LocationID     string   `json:"location_id"`
	Type           string   `json:"type"`
	Subtype        string   `json:"subtype,omitempty"`
	RecordedAt     string   `json:"recorded_at"`
	DistanceMeters *float64 `json:"distance_meters"`
	WithinRange    bool     `json:"within_range"`
}

type EvaluationResponse struct {
	DistanceMeters float64 `json:"distance_meters"`
	AllowedMeters  float64 `json:"allowed_meters"`
	WithinRange    bool    `json:"within_range"`
	Policy         string  `json:"policy"`
}

type CheckInResponse struct {
	State        State               `json:"state"`
	Retriable    bool                `json:"retriable"`
	Location     *LocationSummary    `json:"location,omitempty"`
	Record       *RecordResponse     `json:"record,omitempty"`
	Evaluation   *EvaluationResponse `json:"evaluation,omitempty"`
	Notification notify.Notification `json:"notification"`
}

type TodayResponse struct {
	Date       string           `json:"date"`
	LocationID string           `json:"location_id"`
	Records    []RecordResponse `json:"records"`
	Completed  []string         `json:"completed"`
}

type VerifySiteResponse struct {
	Evaluation   EvaluationResponse  `json:"evaluation"`
	Notification notify.Notification `json:"notification"`
}

type ReportSlot struct {
	Time         string `json:"time"`
	LocalTime    string `json:"local_time"`
	LocationName string `json:"location_name"`
	Punctuality  string `json:"punctuality,omitempty"`
}

type ReportRow struct {
	UserID       string      `json:"user_id"`
	UserName     string      `json:"user_name"`
	Date         string      `json:"date"`
	LocationName string      `json:"location_name"`
	Entrada      *ReportSlot `json:"entrada,omitempty"`
	ComidaInicio *ReportSlot `json:"comida_inicio,omitempty"`
	ComidaFin    *ReportSlot `json:"comida_fin,omitempty"`
	Salida       *ReportSlot `json:"salida,omitempty"`
}

func toLocationSummary(l location.Location) LocationSummary {
	return LocationSummary{
		ID:           l.ID.String(),
		Name:         l.Name,
		Latitude:     l.Latitude,
		Longitude:    l.Longitude,
		RadiusMeters: l.RadiusMeters,
	}
}

func toRecordResponse(r AttendanceRecord) RecordResponse {
	return RecordResponse{
		ID:             r.ID.String(),
		UserID:         r.UserID.String(),
		LocationID:     r.LocationID.String(),
		Type:           r.Type,
		Subtype:        r.Subtype,
		RecordedAt:     r.RecordedAt.UTC().Format(time.RFC3339),
		DistanceMeters: r.DistanceMeters,
		WithinRange:    r.WithinRange,
	}
}

func toEvaluationResponse(e geofence.Evaluation) EvaluationResponse {
	return EvaluationResponse{
		DistanceMeters: e.DistanceMeters,
		AllowedMeters:  e.AllowedMeters,
		WithinRange:    e.WithinRange,
		Policy:         e.Policy,
	}
}
