package models

import "time"

// Booking is a passenger's reservation of seats on a trip. TotalPrice is
// frozen at booking time and never recomputed from the trip.
type Booking struct {
	ID             int64     `json:"id"`
	TripID         int64     `json:"tripId"`
	PassengerID    int64     `json:"passengerId"`
	PassengerName  string    `json:"passengerName"`
	PassengerPhone string    `json:"passengerPhone"`
	DriverID       int64     `json:"driverId"`
	SeatsBooked    int       `json:"seatsBooked"`
	TotalPrice     int64     `json:"totalPrice"`
	Status         string    `json:"status"`
	CreatedAt      time.Time `json:"createdAt"`
}

// BookingTrip is the slice of trip data joined onto a passenger's booking
// list. Nil when the trip has been deleted since.
type BookingTrip struct {
	Departure   string `json:"departure"`
	Destination string `json:"destination"`
	Date        string `json:"date"`
	Time        string `json:"time"`
	DriverName  string `json:"driverName"`
}

type BookingWithTrip struct {
	Booking
	Trip *BookingTrip `json:"trip,omitempty"`
}
