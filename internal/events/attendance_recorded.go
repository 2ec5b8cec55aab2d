package events

import "time"

const AttendanceRecordedTopic = "attendance.recorded.v1"

type AttendanceRecordedEvent struct {
	EventType      string    `json:"event_type"`
	RequestID      string    `json:"request_id,omitempty"`
	RecordID       string    `json:"record_id"`
	UserID         string    `json:"user_id"`
	LocationID     string    `json:"location_id"`
	Type           string    `json:"type"`
	Subtype        string    `json:"subtype,omitempty"`
	DistanceMeters *float64  `json:"distance_meters"`
	WithinRange    bool      `json:"within_range"`
	RecordedAt     time.Time `json:"recorded_at"`
	OccurredAt     time.Time `json:"occurred_at"`
}
