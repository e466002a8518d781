package repositories

import (
	"database/sql"
	"errors"

	"github.com/go-sql-driver/mysql"

	intconfig "yoon/internal/config"
	intdb "yoon/internal/db"
	"yoon/internal/domain"
	"yoon/internal/domain/models"
)

const bookingColumns = `id, trip_id, passenger_id, passenger_name, passenger_phone,
		driver_id, seats_booked, total_price, status, created_at`

type BookingRepository struct {
	DB *sql.DB
}

func (r BookingRepository) db() intdb.Querier {
	if r.DB != nil {
		return r.DB
	}
	return intconfig.DB
}

func scanBooking(row interface{ Scan(dest ...any) error }) (models.Booking, error) {
	var b models.Booking
	err := row.Scan(
		&b.ID,
		&b.TripID,
		&b.PassengerID,
		&b.PassengerName,
		&b.PassengerPhone,
		&b.DriverID,
		&b.SeatsBooked,
		&b.TotalPrice,
		&b.Status,
		&b.CreatedAt,
	)
	return b, err
}

func (r BookingRepository) GetByID(q intdb.Querier, id int64) (models.Booking, error) {
	b, err := scanBooking(q.QueryRow(`SELECT `+bookingColumns+` FROM bookings WHERE id = ?`, id))
	if errors.Is(err, sql.ErrNoRows) {
		return models.Booking{}, domain.NotFoundError{Resource: "réservation", Err: err}
	}
	if err != nil {
		return models.Booking{}, domain.RepositoryError{Op: "bookings.get", Err: err}
	}
	return b, nil
}

// HasConfirmed reports whether the passenger already holds a confirmed
// booking on the trip.
func (r BookingRepository) HasConfirmed(q intdb.Querier, tripID, passengerID int64) (bool, error) {
	var one int
	err := q.QueryRow(`
		SELECT 1 FROM bookings
		WHERE trip_id = ? AND passenger_id = ? AND status = ?
		LIMIT 1
	`, tripID, passengerID, domain.BookingStatusConfirmed).Scan(&one)
	if errors.Is(err, sql.ErrNoRows) {
		return false, nil
	}
	if err != nil {
		return false, domain.RepositoryError{Op: "bookings.has_confirmed", Err: err}
	}
	return true, nil
}

// Insert writes the booking row. The unique key on (trip_id, passenger_id)
// backs the duplicate check; a 1062 from racing writers surfaces as a
// DuplicateBookingError.
func (r BookingRepository) Insert(q intdb.Querier, b models.Booking) (int64, error) {
	res, err := q.Exec(`
		INSERT INTO bookings
		(trip_id, passenger_id, passenger_name, passenger_phone,
		 driver_id, seats_booked, total_price, status, created_at)
		VALUES (?, ?, ?, ?, ?, ?, ?, ?, NOW())
	`,
		b.TripID,
		b.PassengerID,
		b.PassengerName,
		b.PassengerPhone,
		b.DriverID,
		b.SeatsBooked,
		b.TotalPrice,
		b.Status,
	)
	if err != nil {
		var me *mysql.MySQLError
		if errors.As(err, &me) && me.Number == 1062 {
			return 0, domain.DuplicateBookingError{Err: err}
		}
		return 0, domain.RepositoryError{Op: "bookings.insert", Err: err}
	}
	id, _ := res.LastInsertId()
	return id, nil
}

func (r BookingRepository) Delete(q intdb.Querier, id int64) error {
	if _, err := q.Exec(`DELETE FROM bookings WHERE id = ?`, id); err != nil {
		return domain.RepositoryError{Op: "bookings.delete", Err: err}
	}
	return nil
}

// ListByPassenger returns the passenger's bookings newest first, each
// joined with its trip's display fields. The join is LEFT so a booking
// whose trip was deleted still shows up, without trip data.
func (r BookingRepository) ListByPassenger(passengerID int64) ([]models.BookingWithTrip, error) {
	rows, err := r.db().Query(`
		SELECT b.id, b.trip_id, b.passenger_id, b.passenger_name, b.passenger_phone,
		       b.driver_id, b.seats_booked, b.total_price, b.status, b.created_at,
		       t.departure, t.destination, t.trip_date, t.trip_time, t.driver_name
		FROM bookings b
		LEFT JOIN trips t ON t.id = b.trip_id
		WHERE b.passenger_id = ?
		ORDER BY b.created_at DESC
	`, passengerID)
	if err != nil {
		return nil, domain.RepositoryError{Op: "bookings.list_by_passenger", Err: err}
	}
	defer rows.Close()

	out := []models.BookingWithTrip{}
	for rows.Next() {
		var b models.BookingWithTrip
		var dep, dst, date, clock, driver sql.NullString
		if err := rows.Scan(
			&b.ID,
			&b.TripID,
			&b.PassengerID,
			&b.PassengerName,
			&b.PassengerPhone,
			&b.DriverID,
			&b.SeatsBooked,
			&b.TotalPrice,
			&b.Status,
			&b.CreatedAt,
			&dep, &dst, &date, &clock, &driver,
		); err != nil {
			return nil, domain.RepositoryError{Op: "bookings.list_by_passenger", Err: err}
		}
		if dep.Valid {
			b.Trip = &models.BookingTrip{
				Departure:   dep.String,
				Destination: dst.String,
				Date:        date.String,
				Time:        clock.String,
				DriverName:  driver.String,
			}
		}
		out = append(out, b)
	}
	if err := rows.Err(); err != nil {
		return nil, domain.RepositoryError{Op: "bookings.list_by_passenger", Err: err}
	}
	return out, nil
}

// ListByTrip returns the confirmed bookings of a trip in booking order,
// which is what the driver's passenger list renders.
func (r BookingRepository) ListByTrip(tripID int64) ([]models.Booking, error) {
	rows, err := r.db().Query(`
		SELECT `+bookingColumns+` FROM bookings
		WHERE trip_id = ? AND status = ?
		ORDER BY created_at ASC
	`, tripID, domain.BookingStatusConfirmed)
	if err != nil {
		return nil, domain.RepositoryError{Op: "bookings.list_by_trip", Err: err}
	}
	defer rows.Close()

	out := []models.Booking{}
	for rows.Next() {
		b, err := scanBooking(rows)
		if err != nil {
			return nil, domain.RepositoryError{Op: "bookings.list_by_trip", Err: err}
		}
		out = append(out, b)
	}
	if err := rows.Err(); err != nil {
		return nil, domain.RepositoryError{Op: "bookings.list_by_trip", Err: err}
	}
	return out, nil
}

// AggregatesByTrip recomputes passenger/seat/revenue totals from the live
// confirmed set in one query.
func (r BookingRepository) AggregatesByTrip(q intdb.Querier, tripID int64) (models.TripAggregates, error) {
	var agg models.TripAggregates
	err := q.QueryRow(`
		SELECT COUNT(*), COALESCE(SUM(seats_booked), 0), COALESCE(SUM(total_price), 0)
		FROM bookings
		WHERE trip_id = ? AND status = ?
	`, tripID, domain.BookingStatusConfirmed).Scan(
		&agg.PassengerCount,
		&agg.TotalSeatsBooked,
		&agg.TotalRevenue,
	)
	if err != nil {
		return models.TripAggregates{}, domain.RepositoryError{Op: "bookings.aggregates", Err: err}
	}
	return agg, nil
}
