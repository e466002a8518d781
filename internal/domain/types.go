package domain

// TripStatusActive is the only status trips are ever published with.
const TripStatusActive = "active"

// BookingStatusConfirmed is the only status bookings are ever assigned.
const BookingStatusConfirmed = "confirmed"

// MaxSeatsPerTrip caps the seat count a driver can publish.
const MaxSeatsPerTrip = 8
