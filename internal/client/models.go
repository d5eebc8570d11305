package client

import "time"

// Client is immutable after registration; there is no update or delete.
type Client struct {
	ID        string    `json:"id"`
	FirstName string    `json:"first_name"`
	LastName  string    `json:"last_name"`
	Email     string    `json:"email"`
	BirthDate string    `json:"birth_date"`
	CreatedAt time.Time `json:"created_at"`
}

// DateLayout is the wire format for birth dates.
const DateLayout = "2006-01-02"
