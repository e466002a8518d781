package services

import (
	"testing"
	"time"

	"github.com/DATA-DOG/go-sqlmock"

	"yoon/internal/domain"
	"yoon/internal/repositories"
)

type notifyCall struct {
	Token string
	Title string
	Body  string
	Data  map[string]string
}

type notifierStub struct {
	calls []notifyCall
	err   error
}

func (n *notifierStub) Send(token, title, body string, data map[string]string) error {
	n.calls = append(n.calls, notifyCall{Token: token, Title: title, Body: body, Data: data})
	return n.err
}

func newBookingService(t *testing.T) (BookingService, sqlmock.Sqlmock, *notifierStub) {
	t.Helper()
	db, mock, err := sqlmock.New()
	if err != nil {
		t.Fatalf("sqlmock init error: %v", err)
	}
	t.Cleanup(func() { db.Close() })

	stub := &notifierStub{}
	svc := BookingService{
		TripRepo:    repositories.TripRepository{DB: db},
		BookingRepo: repositories.BookingRepository{DB: db},
		UserRepo:    repositories.UserRepository{DB: db},
		Notifier:    stub,
		DB:          db,
	}
	return svc, mock, stub
}

var tripCols = []string{
	"id", "departure", "destination", "trip_date", "trip_time", "price", "available_seats",
	"driver_id", "driver_name", "driver_rating", "driver_trips_count", "status", "created_at",
}

var userCols = []string{
	"id", "name", "email", "phone", "rating", "trips_count", "verified", "push_token", "created_at",
}

func tripRow(id int64, price int64, seats int, driverID int64) *sqlmock.Rows {
	return sqlmock.NewRows(tripCols).AddRow(
		id, "Dakar", "Thiès", "2025-06-01", "08:00", price, seats,
		driverID, "Moussa", 4.5, 12, "active", time.Now(),
	)
}

func userRow(id int64, name, phone, pushToken string) *sqlmock.Rows {
	return sqlmock.NewRows(userCols).AddRow(
		id, name, name+"@example.com", phone, 0.0, 0, false, pushToken, time.Now(),
	)
}

func TestCreateBookingSuccess(t *testing.T) {
	svc, mock, stub := newBookingService(t)

	mock.ExpectBegin()
	mock.ExpectQuery("SELECT (.+) FROM trips WHERE id = (.+) FOR UPDATE").
		WithArgs(int64(1)).
		WillReturnRows(tripRow(1, 2500, 3, 9))
	mock.ExpectQuery("SELECT 1 FROM bookings").
		WithArgs(int64(1), int64(42), "confirmed").
		WillReturnRows(sqlmock.NewRows([]string{"1"}))
	mock.ExpectQuery("SELECT id, name, email, phone").
		WithArgs(int64(42)).
		WillReturnRows(userRow(42, "Awa", "771234567", ""))
	mock.ExpectExec("INSERT INTO bookings").
		WithArgs(int64(1), int64(42), "Awa", "771234567", int64(9), 2, int64(5000), "confirmed").
		WillReturnResult(sqlmock.NewResult(7, 1))
	mock.ExpectExec("UPDATE trips").
		WithArgs(-2, int64(1), -2).
		WillReturnResult(sqlmock.NewResult(0, 1))
	mock.ExpectCommit()

	// driver lookup for the best-effort notification, after commit
	mock.ExpectQuery("SELECT id, name, email, phone").
		WithArgs(int64(9)).
		WillReturnRows(userRow(9, "Moussa", "770000000", "ExponentPushToken[abc]"))

	booking, err := svc.CreateBooking(1, 42, 2)
	if err != nil {
		t.Fatalf("expected success, got %v", err)
	}
	if booking.ID != 7 {
		t.Fatalf("booking id not assigned, got %d", booking.ID)
	}
	if booking.TotalPrice != 5000 {
		t.Fatalf("total price should freeze at seats*price: got %d want 5000", booking.TotalPrice)
	}
	if booking.Status != domain.BookingStatusConfirmed {
		t.Fatalf("unexpected status %q", booking.Status)
	}

	if len(stub.calls) != 1 {
		t.Fatalf("expected 1 notification, got %d", len(stub.calls))
	}
	if stub.calls[0].Token != "ExponentPushToken[abc]" {
		t.Fatalf("notification sent to wrong token: %s", stub.calls[0].Token)
	}

	if err := mock.ExpectationsWereMet(); err != nil {
		t.Fatalf("unmet expectations: %v", err)
	}
}

func TestCreateBookingDuplicateFailsWithoutWrites(t *testing.T) {
	svc, mock, stub := newBookingService(t)

	mock.ExpectBegin()
	mock.ExpectQuery("SELECT (.+) FROM trips WHERE id = (.+) FOR UPDATE").
		WithArgs(int64(1)).
		WillReturnRows(tripRow(1, 2500, 1, 9))
	mock.ExpectQuery("SELECT 1 FROM bookings").
		WithArgs(int64(1), int64(42), "confirmed").
		WillReturnRows(sqlmock.NewRows([]string{"1"}).AddRow(1))
	mock.ExpectRollback()

	_, err := svc.CreateBooking(1, 42, 1)
	if !domain.IsDuplicateBooking(err) {
		t.Fatalf("expected DuplicateBookingError, got %v", err)
	}
	if len(stub.calls) != 0 {
		t.Fatalf("no notification expected on failure")
	}
	if err := mock.ExpectationsWereMet(); err != nil {
		t.Fatalf("unmet expectations: %v", err)
	}
}

func TestCreateBookingOwnTripRejected(t *testing.T) {
	svc, mock, _ := newBookingService(t)

	mock.ExpectBegin()
	mock.ExpectQuery("SELECT (.+) FROM trips WHERE id = (.+) FOR UPDATE").
		WithArgs(int64(1)).
		WillReturnRows(tripRow(1, 2500, 5, 42))
	mock.ExpectRollback()

	_, err := svc.CreateBooking(1, 42, 1)
	if !domain.IsSelfBooking(err) {
		t.Fatalf("expected SelfBookingError, got %v", err)
	}
	if err := mock.ExpectationsWereMet(); err != nil {
		t.Fatalf("unmet expectations: %v", err)
	}
}

func TestCreateBookingSeatsExceedAvailability(t *testing.T) {
	svc, mock, _ := newBookingService(t)

	mock.ExpectBegin()
	mock.ExpectQuery("SELECT (.+) FROM trips WHERE id = (.+) FOR UPDATE").
		WithArgs(int64(1)).
		WillReturnRows(tripRow(1, 2500, 3, 9))
	mock.ExpectRollback()

	_, err := svc.CreateBooking(1, 42, 5)
	if !domain.IsInvalidSeatCount(err) {
		t.Fatalf("expected InvalidSeatCountError, got %v", err)
	}
	if err := mock.ExpectationsWereMet(); err != nil {
		t.Fatalf("unmet expectations: %v", err)
	}
}

func TestCreateBookingZeroSeatsFailsBeforeAnyQuery(t *testing.T) {
	svc, mock, _ := newBookingService(t)

	_, err := svc.CreateBooking(1, 42, 0)
	if !domain.IsInvalidSeatCount(err) {
		t.Fatalf("expected InvalidSeatCountError, got %v", err)
	}
	_, err = svc.CreateBooking(1, 42, -3)
	if !domain.IsInvalidSeatCount(err) {
		t.Fatalf("expected InvalidSeatCountError, got %v", err)
	}

	// zero side effects: no Begin was ever expected or issued
	if err := mock.ExpectationsWereMet(); err != nil {
		t.Fatalf("validation should not touch the repository: %v", err)
	}
}

func TestCreateBookingMissingUserNotAuthenticated(t *testing.T) {
	svc, mock, _ := newBookingService(t)

	_, err := svc.CreateBooking(1, 0, 1)
	if !domain.IsNotAuthenticated(err) {
		t.Fatalf("expected NotAuthenticatedError, got %v", err)
	}
	if err := mock.ExpectationsWereMet(); err != nil {
		t.Fatalf("unexpected repository access: %v", err)
	}
}

func TestCreateBookingTripGone(t *testing.T) {
	svc, mock, _ := newBookingService(t)

	mock.ExpectBegin()
	mock.ExpectQuery("SELECT (.+) FROM trips WHERE id = (.+) FOR UPDATE").
		WithArgs(int64(77)).
		WillReturnRows(sqlmock.NewRows(tripCols))
	mock.ExpectRollback()

	_, err := svc.CreateBooking(77, 42, 1)
	if !domain.IsTripNotFound(err) {
		t.Fatalf("expected TripNotFoundError, got %v", err)
	}
	if err := mock.ExpectationsWereMet(); err != nil {
		t.Fatalf("unmet expectations: %v", err)
	}
}

func TestCreateBookingExactlyAvailableSeats(t *testing.T) {
	svc, mock, _ := newBookingService(t)

	mock.ExpectBegin()
	mock.ExpectQuery("SELECT (.+) FROM trips WHERE id = (.+) FOR UPDATE").
		WithArgs(int64(1)).
		WillReturnRows(tripRow(1, 1000, 3, 9))
	mock.ExpectQuery("SELECT 1 FROM bookings").
		WithArgs(int64(1), int64(42), "confirmed").
		WillReturnRows(sqlmock.NewRows([]string{"1"}))
	mock.ExpectQuery("SELECT id, name, email, phone").
		WithArgs(int64(42)).
		WillReturnRows(userRow(42, "Awa", "771234567", ""))
	mock.ExpectExec("INSERT INTO bookings").
		WithArgs(int64(1), int64(42), "Awa", "771234567", int64(9), 3, int64(3000), "confirmed").
		WillReturnResult(sqlmock.NewResult(8, 1))
	mock.ExpectExec("UPDATE trips").
		WithArgs(-3, int64(1), -3).
		WillReturnResult(sqlmock.NewResult(0, 1))
	mock.ExpectCommit()
	mock.ExpectQuery("SELECT id, name, email, phone").
		WithArgs(int64(9)).
		WillReturnRows(userRow(9, "Moussa", "770000000", ""))

	booking, err := svc.CreateBooking(1, 42, 3)
	if err != nil {
		t.Fatalf("booking the last seats should succeed, got %v", err)
	}
	if booking.SeatsBooked != 3 {
		t.Fatalf("unexpected seat count %d", booking.SeatsBooked)
	}
	if err := mock.ExpectationsWereMet(); err != nil {
		t.Fatalf("unmet expectations: %v", err)
	}
}

func TestCreateBookingNotificationFailureDoesNotFailBooking(t *testing.T) {
	svc, mock, stub := newBookingService(t)
	stub.err = errDeliberate{}

	mock.ExpectBegin()
	mock.ExpectQuery("SELECT (.+) FROM trips WHERE id = (.+) FOR UPDATE").
		WithArgs(int64(1)).
		WillReturnRows(tripRow(1, 2500, 3, 9))
	mock.ExpectQuery("SELECT 1 FROM bookings").
		WithArgs(int64(1), int64(42), "confirmed").
		WillReturnRows(sqlmock.NewRows([]string{"1"}))
	mock.ExpectQuery("SELECT id, name, email, phone").
		WithArgs(int64(42)).
		WillReturnRows(userRow(42, "Awa", "771234567", ""))
	mock.ExpectExec("INSERT INTO bookings").
		WillReturnResult(sqlmock.NewResult(7, 1))
	mock.ExpectExec("UPDATE trips").
		WillReturnResult(sqlmock.NewResult(0, 1))
	mock.ExpectCommit()
	mock.ExpectQuery("SELECT id, name, email, phone").
		WithArgs(int64(9)).
		WillReturnRows(userRow(9, "Moussa", "770000000", "ExponentPushToken[abc]"))

	if _, err := svc.CreateBooking(1, 42, 1); err != nil {
		t.Fatalf("notification failure must not fail the booking: %v", err)
	}
	if len(stub.calls) != 1 {
		t.Fatalf("notifier should still have been invoked")
	}
	if err := mock.ExpectationsWereMet(); err != nil {
		t.Fatalf("unmet expectations: %v", err)
	}
}

type errDeliberate struct{}

func (errDeliberate) Error() string { return "push gateway down" }

var bookingCols = []string{
	"id", "trip_id", "passenger_id", "passenger_name", "passenger_phone",
	"driver_id", "seats_booked", "total_price", "status", "created_at",
}

func TestCancelBookingRestoresSeats(t *testing.T) {
	svc, mock, _ := newBookingService(t)

	mock.ExpectBegin()
	mock.ExpectQuery("SELECT (.+) FROM bookings WHERE id = (.+)").
		WithArgs(int64(7)).
		WillReturnRows(sqlmock.NewRows(bookingCols).
			AddRow(7, 1, 42, "Awa", "771234567", 9, 2, 5000, "confirmed", time.Now()))
	mock.ExpectExec("DELETE FROM bookings").
		WithArgs(int64(7)).
		WillReturnResult(sqlmock.NewResult(0, 1))
	mock.ExpectExec("UPDATE trips").
		WithArgs(2, int64(1), 2).
		WillReturnResult(sqlmock.NewResult(0, 1))
	mock.ExpectCommit()

	if err := svc.CancelBooking(7, 42); err != nil {
		t.Fatalf("expected cancellation to succeed, got %v", err)
	}
	if err := mock.ExpectationsWereMet(); err != nil {
		t.Fatalf("unmet expectations: %v", err)
	}
}

func TestCancelBookingOfAnotherPassengerHidden(t *testing.T) {
	svc, mock, _ := newBookingService(t)

	mock.ExpectBegin()
	mock.ExpectQuery("SELECT (.+) FROM bookings WHERE id = (.+)").
		WithArgs(int64(7)).
		WillReturnRows(sqlmock.NewRows(bookingCols).
			AddRow(7, 1, 42, "Awa", "771234567", 9, 2, 5000, "confirmed", time.Now()))
	mock.ExpectRollback()

	err := svc.CancelBooking(7, 99)
	if !domain.IsNotFound(err) {
		t.Fatalf("expected NotFoundError for foreign booking, got %v", err)
	}
	if err := mock.ExpectationsWereMet(); err != nil {
		t.Fatalf("unmet expectations: %v", err)
	}
}

func TestTripAggregates(t *testing.T) {
	svc, mock, _ := newBookingService(t)

	mock.ExpectQuery("SELECT COUNT(.+) FROM bookings").
		WithArgs(int64(1), "confirmed").
		WillReturnRows(sqlmock.NewRows([]string{"count", "seats", "revenue"}).AddRow(2, 3, 3000))

	agg, err := svc.TripAggregates(1)
	if err != nil {
		t.Fatalf("expected aggregates, got %v", err)
	}
	if agg.PassengerCount != 2 || agg.TotalSeatsBooked != 3 || agg.TotalRevenue != 3000 {
		t.Fatalf("wrong aggregates: %+v", agg)
	}
	if err := mock.ExpectationsWereMet(); err != nil {
		t.Fatalf("unmet expectations: %v", err)
	}
}
