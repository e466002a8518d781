package repositories

import (
	"database/sql"
	"errors"
	"strings"

	intconfig "yoon/internal/config"
	intdb "yoon/internal/db"
	"yoon/internal/domain"
	"yoon/internal/domain/models"
)

const tripColumns = `id, departure, destination, trip_date, trip_time, price, available_seats,
		driver_id, driver_name, driver_rating, driver_trips_count, status, created_at`

type TripRepository struct {
	DB *sql.DB
}

func (r TripRepository) db() intdb.Querier {
	if r.DB != nil {
		return r.DB
	}
	return intconfig.DB
}

func scanTrip(row interface{ Scan(dest ...any) error }) (models.Trip, error) {
	var t models.Trip
	err := row.Scan(
		&t.ID,
		&t.Departure,
		&t.Destination,
		&t.Date,
		&t.Time,
		&t.Price,
		&t.AvailableSeats,
		&t.DriverID,
		&t.DriverName,
		&t.DriverRating,
		&t.DriverTripsCount,
		&t.Status,
		&t.CreatedAt,
	)
	return t, err
}

func (r TripRepository) GetByID(id int64) (models.Trip, error) {
	return r.get(r.db(), id, false)
}

// GetForUpdate locks the trip row for the remainder of the transaction so
// concurrent seat mutations serialize per trip.
func (r TripRepository) GetForUpdate(q intdb.Querier, id int64) (models.Trip, error) {
	return r.get(q, id, true)
}

func (r TripRepository) get(q intdb.Querier, id int64, lock bool) (models.Trip, error) {
	query := `SELECT ` + tripColumns + ` FROM trips WHERE id = ?`
	if lock {
		query += ` FOR UPDATE`
	}
	t, err := scanTrip(q.QueryRow(query, id))
	if errors.Is(err, sql.ErrNoRows) {
		return models.Trip{}, domain.NotFoundError{Resource: "trajet", Err: err}
	}
	if err != nil {
		return models.Trip{}, domain.RepositoryError{Op: "trips.get", Err: err}
	}
	return t, nil
}

func (r TripRepository) Insert(q intdb.Querier, t models.Trip) (int64, error) {
	res, err := q.Exec(`
		INSERT INTO trips
		(departure, destination, trip_date, trip_time, price, available_seats,
		 driver_id, driver_name, driver_rating, driver_trips_count, status, created_at)
		VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, NOW())
	`,
		t.Departure,
		t.Destination,
		t.Date,
		t.Time,
		t.Price,
		t.AvailableSeats,
		t.DriverID,
		t.DriverName,
		t.DriverRating,
		t.DriverTripsCount,
		t.Status,
	)
	if err != nil {
		return 0, domain.RepositoryError{Op: "trips.insert", Err: err}
	}
	id, _ := res.LastInsertId()
	return id, nil
}

// AdjustSeats applies an atomic seat-count delta. The guard keeps
// available_seats from ever going negative; callers inspect the returned
// flag to tell a missing row or an exhausted trip from a clean apply.
func (r TripRepository) AdjustSeats(q intdb.Querier, tripID int64, delta int) (bool, error) {
	res, err := q.Exec(`
		UPDATE trips
		SET available_seats = available_seats + ?
		WHERE id = ? AND available_seats + ? >= 0
	`, delta, tripID, delta)
	if err != nil {
		return false, domain.RepositoryError{Op: "trips.adjust_seats", Err: err}
	}
	n, err := res.RowsAffected()
	if err != nil {
		return false, domain.RepositoryError{Op: "trips.adjust_seats", Err: err}
	}
	return n > 0, nil
}

func (r TripRepository) Delete(q intdb.Querier, id int64) error {
	if _, err := q.Exec(`DELETE FROM trips WHERE id = ?`, id); err != nil {
		return domain.RepositoryError{Op: "trips.delete", Err: err}
	}
	return nil
}

// Search filters active trips by case-insensitive substring on the route
// endpoints, optionally pinned to a date.
func (r TripRepository) Search(departure, destination, date string) ([]models.Trip, error) {
	query := `SELECT ` + tripColumns + ` FROM trips WHERE status = ?`
	args := []any{domain.TripStatusActive}

	if departure = strings.TrimSpace(departure); departure != "" {
		query += ` AND LOWER(departure) LIKE ?`
		args = append(args, "%"+strings.ToLower(departure)+"%")
	}
	if destination = strings.TrimSpace(destination); destination != "" {
		query += ` AND LOWER(destination) LIKE ?`
		args = append(args, "%"+strings.ToLower(destination)+"%")
	}
	if date = strings.TrimSpace(date); date != "" {
		query += ` AND trip_date = ?`
		args = append(args, date)
	}
	query += ` ORDER BY created_at DESC`

	return r.list(query, args...)
}

func (r TripRepository) ListByDriver(driverID int64) ([]models.Trip, error) {
	query := `SELECT ` + tripColumns + ` FROM trips WHERE driver_id = ? ORDER BY trip_date DESC, trip_time DESC`
	return r.list(query, driverID)
}

func (r TripRepository) list(query string, args ...any) ([]models.Trip, error) {
	rows, err := r.db().Query(query, args...)
	if err != nil {
		return nil, domain.RepositoryError{Op: "trips.list", Err: err}
	}
	defer rows.Close()

	out := []models.Trip{}
	for rows.Next() {
		t, err := scanTrip(rows)
		if err != nil {
			return nil, domain.RepositoryError{Op: "trips.list", Err: err}
		}
		out = append(out, t)
	}
	if err := rows.Err(); err != nil {
		return nil, domain.RepositoryError{Op: "trips.list", Err: err}
	}
	return out, nil
}
