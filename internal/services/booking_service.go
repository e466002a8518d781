package services

import (
	"database/sql"
	"fmt"

	intconfig "yoon/internal/config"
	"yoon/internal/domain"
	"yoon/internal/domain/models"
	"yoon/internal/repositories"
	"yoon/internal/utils"
)

// BookingService keeps trips.available_seats consistent with the sum of
// confirmed bookings. Creation and cancellation run inside a single
// transaction with a locking re-read of the trip row, so two passengers
// racing for the last seats serialize instead of both passing the
// availability check.
type BookingService struct {
	TripRepo    repositories.TripRepository
	BookingRepo repositories.BookingRepository
	UserRepo    repositories.UserRepository
	Notifier    Notifier
	DB          *sql.DB
	RequestID   string
}

func (s BookingService) db() *sql.DB {
	if s.DB != nil {
		return s.DB
	}
	return intconfig.DB
}

// CreateBooking reserves seats on a trip for a passenger. On success the
// trip owner is notified best-effort; a failed push never fails the
// booking.
func (s BookingService) CreateBooking(tripID, passengerID int64, seats int) (models.Booking, error) {
	if passengerID <= 0 {
		return models.Booking{}, domain.NotAuthenticatedError{}
	}
	if tripID <= 0 {
		return models.Booking{}, domain.TripNotFoundError{}
	}
	if seats <= 0 {
		return models.Booking{}, domain.InvalidSeatCountError{Msg: "le nombre de places doit être au moins 1"}
	}

	tx, err := s.db().Begin()
	if err != nil {
		return models.Booking{}, domain.RepositoryError{Op: "begin", Err: err}
	}
	defer tx.Rollback()

	trip, err := s.TripRepo.GetForUpdate(tx, tripID)
	if err != nil {
		if domain.IsNotFound(err) {
			return models.Booking{}, domain.TripNotFoundError{Err: err}
		}
		return models.Booking{}, err
	}

	if trip.DriverID == passengerID {
		return models.Booking{}, domain.SelfBookingError{}
	}
	if seats > trip.AvailableSeats {
		return models.Booking{}, domain.InvalidSeatCountError{
			Msg: fmt.Sprintf("veuillez saisir un nombre entre 1 et %d", trip.AvailableSeats),
		}
	}

	exists, err := s.BookingRepo.HasConfirmed(tx, tripID, passengerID)
	if err != nil {
		return models.Booking{}, err
	}
	if exists {
		return models.Booking{}, domain.DuplicateBookingError{}
	}

	passenger, err := s.UserRepo.GetByID(tx, passengerID)
	if err != nil {
		if domain.IsNotFound(err) {
			return models.Booking{}, domain.NotAuthenticatedError{Err: err}
		}
		return models.Booking{}, err
	}

	booking := models.Booking{
		TripID:         tripID,
		PassengerID:    passengerID,
		PassengerName:  passenger.Name,
		PassengerPhone: passenger.Phone,
		DriverID:       trip.DriverID,
		SeatsBooked:    seats,
		TotalPrice:     int64(seats) * trip.Price,
		Status:         domain.BookingStatusConfirmed,
		CreatedAt:      utils.NowUTC(),
	}

	booking.ID, err = s.BookingRepo.Insert(tx, booking)
	if err != nil {
		return models.Booking{}, err
	}

	applied, err := s.TripRepo.AdjustSeats(tx, tripID, -seats)
	if err != nil {
		return models.Booking{}, err
	}
	if !applied {
		// Cannot happen under the row lock, but the guard stays as the
		// invariant of record: seats never go negative.
		return models.Booking{}, domain.InvalidSeatCountError{Msg: "plus assez de places disponibles"}
	}

	if err := tx.Commit(); err != nil {
		return models.Booking{}, domain.RepositoryError{Op: "commit", Err: err}
	}

	utils.LogEvent(s.RequestID, "booking", "create",
		fmt.Sprintf("booking_id=%d trip_id=%d seats=%d total=%d", booking.ID, tripID, seats, booking.TotalPrice))

	s.notifyDriver(trip, passenger, seats)

	return booking, nil
}

// CancelBooking deletes the passenger's booking and restores the trip's
// seats by exactly the booked count, in one transaction.
func (s BookingService) CancelBooking(bookingID, passengerID int64) error {
	if passengerID <= 0 {
		return domain.NotAuthenticatedError{}
	}
	if bookingID <= 0 {
		return domain.NotFoundError{Resource: "réservation"}
	}

	tx, err := s.db().Begin()
	if err != nil {
		return domain.RepositoryError{Op: "begin", Err: err}
	}
	defer tx.Rollback()

	booking, err := s.BookingRepo.GetByID(tx, bookingID)
	if err != nil {
		return err
	}
	if booking.PassengerID != passengerID {
		// Other users' bookings stay invisible.
		return domain.NotFoundError{Resource: "réservation"}
	}

	if err := s.BookingRepo.Delete(tx, bookingID); err != nil {
		return err
	}

	// A restore can only miss when the trip row is already gone, which the
	// FK cascade makes unreachable; tolerated rather than failed.
	if _, err := s.TripRepo.AdjustSeats(tx, booking.TripID, booking.SeatsBooked); err != nil {
		return err
	}

	if err := tx.Commit(); err != nil {
		return domain.RepositoryError{Op: "commit", Err: err}
	}

	utils.LogEvent(s.RequestID, "booking", "cancel",
		fmt.Sprintf("booking_id=%d trip_id=%d seats_restored=%d", bookingID, booking.TripID, booking.SeatsBooked))
	return nil
}

// TripAggregates recomputes passengerCount / totalSeatsBooked /
// totalRevenue from the confirmed bookings of the trip.
func (s BookingService) TripAggregates(tripID int64) (models.TripAggregates, error) {
	if tripID <= 0 {
		return models.TripAggregates{}, domain.TripNotFoundError{}
	}
	return s.BookingRepo.AggregatesByTrip(s.db(), tripID)
}

func (s BookingService) notifyDriver(trip models.Trip, passenger models.User, seats int) {
	if s.Notifier == nil {
		return
	}

	driver, err := s.UserRepo.GetByID(nil, trip.DriverID)
	if err != nil {
		utils.LogError(s.RequestID, "booking", "notify_lookup", err)
		return
	}
	if driver.PushToken == "" {
		utils.LogEvent(s.RequestID, "booking", "notify_skip",
			fmt.Sprintf("driver_id=%d sans push token", trip.DriverID))
		return
	}

	plural := ""
	if seats > 1 {
		plural = "s"
	}
	body := fmt.Sprintf("%s a réservé %d place%s pour %s → %s",
		passenger.Name, seats, plural, trip.Departure, trip.Destination)

	err = s.Notifier.Send(driver.PushToken, "🎉 Nouvelle réservation !", body, map[string]string{
		"screen": "/my-trips",
		"tripId": fmt.Sprintf("%d", trip.ID),
	})
	if err != nil {
		utils.LogError(s.RequestID, "booking", "notify_send", err)
	}
}
