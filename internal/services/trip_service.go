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

type TripService struct {
	TripRepo    repositories.TripRepository
	BookingRepo repositories.BookingRepository
	UserRepo    repositories.UserRepository
	DB          *sql.DB
	RequestID   string
}

func (s TripService) db() *sql.DB {
	if s.DB != nil {
		return s.DB
	}
	return intconfig.DB
}

// Publish validates and stores a new trip. Driver display fields are
// denormalized onto the row at publish time, and the driver's trip counter
// moves in the same transaction.
func (s TripService) Publish(driverID int64, in models.TripInput) (models.Trip, error) {
	if driverID <= 0 {
		return models.Trip{}, domain.NotAuthenticatedError{}
	}

	in.Departure = utils.NormalizeSpace(in.Departure)
	in.Destination = utils.NormalizeSpace(in.Destination)

	if in.Departure == "" || in.Destination == "" || in.Date == "" || in.Time == "" {
		return models.Trip{}, domain.ValidationError{Msg: "veuillez remplir tous les champs"}
	}
	if in.Price <= 0 {
		return models.Trip{}, domain.ValidationError{Field: "price", Msg: "le prix doit être un nombre valide"}
	}
	if in.Seats < 1 || in.Seats > domain.MaxSeatsPerTrip {
		return models.Trip{}, domain.ValidationError{Field: "seats", Msg: "le nombre de places doit être entre 1 et 8"}
	}

	date, err := utils.NormalizeDate(in.Date)
	if err != nil {
		return models.Trip{}, domain.ValidationError{Field: "date", Msg: err.Error()}
	}
	clock, err := utils.NormalizeClock(in.Time)
	if err != nil {
		return models.Trip{}, domain.ValidationError{Field: "time", Msg: err.Error()}
	}

	driver, err := s.UserRepo.GetByID(nil, driverID)
	if err != nil {
		if domain.IsNotFound(err) {
			return models.Trip{}, domain.NotAuthenticatedError{Err: err}
		}
		return models.Trip{}, err
	}

	trip := models.Trip{
		Departure:        in.Departure,
		Destination:      in.Destination,
		Date:             date,
		Time:             clock,
		Price:            in.Price,
		AvailableSeats:   in.Seats,
		DriverID:         driverID,
		DriverName:       driver.Name,
		DriverRating:     driver.Rating,
		DriverTripsCount: driver.TripsCount,
		Status:           domain.TripStatusActive,
		CreatedAt:        utils.NowUTC(),
	}

	tx, err := s.db().Begin()
	if err != nil {
		return models.Trip{}, domain.RepositoryError{Op: "begin", Err: err}
	}
	defer tx.Rollback()

	trip.ID, err = s.TripRepo.Insert(tx, trip)
	if err != nil {
		return models.Trip{}, err
	}
	if err := s.UserRepo.IncrementTripsCount(tx, driverID); err != nil {
		return models.Trip{}, err
	}

	if err := tx.Commit(); err != nil {
		return models.Trip{}, domain.RepositoryError{Op: "commit", Err: err}
	}

	utils.LogEvent(s.RequestID, "trip", "publish",
		fmt.Sprintf("trip_id=%d route=%s->%s seats=%d", trip.ID, trip.Departure, trip.Destination, in.Seats))
	return trip, nil
}

func (s TripService) Get(tripID int64) (models.Trip, error) {
	trip, err := s.TripRepo.GetByID(tripID)
	if domain.IsNotFound(err) {
		return models.Trip{}, domain.TripNotFoundError{Err: err}
	}
	return trip, err
}

func (s TripService) Search(departure, destination, date string) ([]models.Trip, error) {
	if d := utils.TrimOrEmpty(date); d != "" {
		normalized, err := utils.NormalizeDate(d)
		if err != nil {
			return nil, domain.ValidationError{Field: "date", Msg: err.Error()}
		}
		date = normalized
	}
	return s.TripRepo.Search(departure, destination, date)
}

func (s TripService) ListByDriver(driverID int64) ([]models.Trip, error) {
	if driverID <= 0 {
		return nil, domain.NotAuthenticatedError{}
	}
	return s.TripRepo.ListByDriver(driverID)
}

// Delete removes a driver's trip together with its bookings, so no booking
// is left pointing at a missing trip.
func (s TripService) Delete(tripID, requesterID int64) error {
	if requesterID <= 0 {
		return domain.NotAuthenticatedError{}
	}

	tx, err := s.db().Begin()
	if err != nil {
		return domain.RepositoryError{Op: "begin", Err: err}
	}
	defer tx.Rollback()

	trip, err := s.TripRepo.GetForUpdate(tx, tripID)
	if err != nil {
		if domain.IsNotFound(err) {
			return domain.TripNotFoundError{Err: err}
		}
		return err
	}
	if trip.DriverID != requesterID {
		// Non-owners see the same response as a missing trip.
		return domain.TripNotFoundError{}
	}

	if _, err := tx.Exec(`DELETE FROM bookings WHERE trip_id = ?`, tripID); err != nil {
		return domain.RepositoryError{Op: "bookings.delete_by_trip", Err: err}
	}
	if err := s.TripRepo.Delete(tx, tripID); err != nil {
		return err
	}

	if err := tx.Commit(); err != nil {
		return domain.RepositoryError{Op: "commit", Err: err}
	}

	utils.LogEvent(s.RequestID, "trip", "delete", fmt.Sprintf("trip_id=%d", tripID))
	return nil
}
