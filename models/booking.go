package models

import "time"

// ConfirmedBooking is the itinerary handed off once the user confirms it.
type ConfirmedBooking struct {
	SessionID   string    `json:"session_id"`
	Origin      string    `json:"origin"`
	Destination string    `json:"destination"`
	Passengers  string    `json:"passengers"`
	Class       string    `json:"class"`
	ConfirmedAt time.Time `json:"confirmed_at"`
}
