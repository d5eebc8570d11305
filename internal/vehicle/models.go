package vehicle

import "time"

// Vehicle is immutable after registration and always belongs to one client.
type Vehicle struct {
	ID           string    `json:"id"`
	ClientID     string    `json:"client_id"`
	VIN          string    `json:"vin"`
	Model        string    `json:"model"`
	Manufacturer string    `json:"manufacturer"`
	LicensePlate string    `json:"license_plate"`
	Year         int       `json:"year"`
	CreatedAt    time.Time `json:"created_at"`
}

// Statistics are fleet totals folded over every journey of one vehicle.
// Distance is planar degree-space, duration is minutes.
type Statistics struct {
	VehicleID            string  `json:"vehicle_id"`
	TotalDistance        float64 `json:"total_distance"`
	TotalDurationMinutes float64 `json:"total_duration_minutes"`
	JourneyCount         int     `json:"journey_count"`
}
