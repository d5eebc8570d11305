package journey

import "time"

// MinIntervalSeconds is the lowest sampling interval a journey may be
// opened with.
const MinIntervalSeconds = 5

// Journey transitions open -> closed exactly once and is never reopened.
// EndTime is nil while the journey is open.
type Journey struct {
	ID              string     `json:"id"`
	VehicleID       string     `json:"vehicle_id"`
	Description     string     `json:"description,omitempty"`
	StartTime       time.Time  `json:"start_time"`
	EndTime         *time.Time `json:"end_time,omitempty"`
	IsCompleted     bool       `json:"is_completed"`
	IntervalSeconds int        `json:"interval"`
	CreatedAt       time.Time  `json:"created_at"`
}

// Point is one accepted coordinate sample. Points are append-only.
type Point struct {
	ID         int64     `json:"id"`
	JourneyID  string    `json:"journey_id"`
	RecordedAt time.Time `json:"recorded_at"`
	Latitude   float64   `json:"latitude"`
	Longitude  float64   `json:"longitude"`
	CreatedAt  time.Time `json:"created_at"`
}

// Detail is the journey view with derived metrics.
type Detail struct {
	JourneyID            string     `json:"journey_id"`
	VehicleID            string     `json:"vehicle_id"`
	StartTime            time.Time  `json:"start_time"`
	EndTime              *time.Time `json:"end_time,omitempty"`
	TotalDistance        float64    `json:"total_distance"`
	TotalDurationMinutes float64    `json:"total_duration"`
	PointCount           int        `json:"point_count"`
}
