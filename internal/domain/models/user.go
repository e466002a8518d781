package models

import "time"

// User is the profile record behind every driver and passenger. Rating is
// stored but never written by any flow; TripsCount is incremented when the
// user publishes a trip.
type User struct {
	ID         int64     `json:"id"`
	Name       string    `json:"name"`
	Email      string    `json:"email"`
	Phone      string    `json:"phone"`
	Rating     float64   `json:"rating"`
	TripsCount int       `json:"tripsCount"`
	Verified   bool      `json:"verified"`
	PushToken  string    `json:"-"`
	CreatedAt  time.Time `json:"createdAt"`
}
