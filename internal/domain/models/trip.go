package models

import "time"

// Trip is a driver-published carpooling offer. Date and Time are always
// stored canonically: ISO date (YYYY-MM-DD) and 24h clock (HH:MM).
type Trip struct {
	ID               int64     `json:"id"`
	Departure        string    `json:"departure"`
	Destination      string    `json:"destination"`
	Date             string    `json:"date"`
	Time             string    `json:"time"`
	Price            int64     `json:"price"`
	AvailableSeats   int       `json:"availableSeats"`
	DriverID         int64     `json:"driverId"`
	DriverName       string    `json:"driverName"`
	DriverRating     float64   `json:"driverRating"`
	DriverTripsCount int       `json:"driverTripsCount"`
	Status           string    `json:"status"`
	CreatedAt        time.Time `json:"createdAt"`
}

// TripInput carries the publish form fields before normalization.
type TripInput struct {
	Departure   string `json:"departure"`
	Destination string `json:"destination"`
	Date        string `json:"date"`
	Time        string `json:"time"`
	Price       int64  `json:"price"`
	Seats       int    `json:"seats"`
}

// TripAggregates is recomputed from the live set of confirmed bookings;
// nothing here is persisted, so the numbers cannot drift.
type TripAggregates struct {
	PassengerCount   int   `json:"passengerCount"`
	TotalSeatsBooked int   `json:"totalSeatsBooked"`
	TotalRevenue     int64 `json:"totalRevenue"`
}
