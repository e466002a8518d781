package services

import (
	"testing"

	"github.com/DATA-DOG/go-sqlmock"

	"yoon/internal/domain"
	"yoon/internal/domain/models"
	"yoon/internal/repositories"
)

func newTripService(t *testing.T) (TripService, sqlmock.Sqlmock) {
	t.Helper()
	db, mock, err := sqlmock.New()
	if err != nil {
		t.Fatalf("sqlmock init error: %v", err)
	}
	t.Cleanup(func() { db.Close() })

	svc := TripService{
		TripRepo:    repositories.TripRepository{DB: db},
		BookingRepo: repositories.BookingRepository{DB: db},
		UserRepo:    repositories.UserRepository{DB: db},
		DB:          db,
	}
	return svc, mock
}

func TestPublishValidation(t *testing.T) {
	svc, mock := newTripService(t)

	valid := models.TripInput{
		Departure:   "Dakar",
		Destination: "Thiès",
		Date:        "2025-06-01",
		Time:        "08:00",
		Price:       2500,
		Seats:       3,
	}

	cases := []struct {
		name   string
		mutate func(*models.TripInput)
	}{
		{"empty departure", func(in *models.TripInput) { in.Departure = "   " }},
		{"empty destination", func(in *models.TripInput) { in.Destination = "" }},
		{"empty date", func(in *models.TripInput) { in.Date = "" }},
		{"empty time", func(in *models.TripInput) { in.Time = "" }},
		{"zero price", func(in *models.TripInput) { in.Price = 0 }},
		{"negative price", func(in *models.TripInput) { in.Price = -500 }},
		{"zero seats", func(in *models.TripInput) { in.Seats = 0 }},
		{"too many seats", func(in *models.TripInput) { in.Seats = 9 }},
		{"garbage date", func(in *models.TripInput) { in.Date = "bientôt" }},
		{"garbage time", func(in *models.TripInput) { in.Time = "le matin" }},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			in := valid
			tc.mutate(&in)
			_, err := svc.Publish(10, in)
			if !domain.IsValidation(err) {
				t.Fatalf("expected ValidationError, got %v", err)
			}
		})
	}

	if _, err := svc.Publish(0, valid); !domain.IsNotAuthenticated(err) {
		t.Fatalf("expected NotAuthenticatedError for anonymous driver, got %v", err)
	}

	// none of the rejected inputs may reach the database
	if err := mock.ExpectationsWereMet(); err != nil {
		t.Fatalf("validation should not touch the repository: %v", err)
	}
}

func TestPublishNormalizesDateAndTime(t *testing.T) {
	svc, mock := newTripService(t)

	mock.ExpectQuery("SELECT id, name, email, phone").
		WithArgs(int64(10)).
		WillReturnRows(userRow(10, "Moussa", "770000000", ""))
	mock.ExpectBegin()
	mock.ExpectExec("INSERT INTO trips").
		WithArgs("Dakar", "Thiès", "2025-03-01", "08:00", int64(2500), 3,
			int64(10), "Moussa", 0.0, 0, "active").
		WillReturnResult(sqlmock.NewResult(3, 1))
	mock.ExpectExec("UPDATE users SET trips_count").
		WithArgs(int64(10)).
		WillReturnResult(sqlmock.NewResult(0, 1))
	mock.ExpectCommit()

	trip, err := svc.Publish(10, models.TripInput{
		Departure:   "  Dakar ",
		Destination: "Thiès",
		Date:        "01/03/2025",
		Time:        "8:00",
		Price:       2500,
		Seats:       3,
	})
	if err != nil {
		t.Fatalf("expected publish to succeed, got %v", err)
	}
	if trip.ID != 3 {
		t.Fatalf("trip id not assigned, got %d", trip.ID)
	}
	if trip.Date != "2025-03-01" || trip.Time != "08:00" {
		t.Fatalf("date/time not normalized: %s %s", trip.Date, trip.Time)
	}
	if trip.Status != domain.TripStatusActive {
		t.Fatalf("unexpected status %q", trip.Status)
	}
	if err := mock.ExpectationsWereMet(); err != nil {
		t.Fatalf("unmet expectations: %v", err)
	}
}

func TestDeleteTripCascadesBookings(t *testing.T) {
	svc, mock := newTripService(t)

	mock.ExpectBegin()
	mock.ExpectQuery("SELECT (.+) FROM trips WHERE id = (.+) FOR UPDATE").
		WithArgs(int64(5)).
		WillReturnRows(tripRow(5, 2500, 3, 10))
	mock.ExpectExec("DELETE FROM bookings WHERE trip_id").
		WithArgs(int64(5)).
		WillReturnResult(sqlmock.NewResult(0, 2))
	mock.ExpectExec("DELETE FROM trips").
		WithArgs(int64(5)).
		WillReturnResult(sqlmock.NewResult(0, 1))
	mock.ExpectCommit()

	if err := svc.Delete(5, 10); err != nil {
		t.Fatalf("expected owner delete to succeed, got %v", err)
	}
	if err := mock.ExpectationsWereMet(); err != nil {
		t.Fatalf("unmet expectations: %v", err)
	}
}

func TestDeleteTripByNonOwnerHidden(t *testing.T) {
	svc, mock := newTripService(t)

	mock.ExpectBegin()
	mock.ExpectQuery("SELECT (.+) FROM trips WHERE id = (.+) FOR UPDATE").
		WithArgs(int64(5)).
		WillReturnRows(tripRow(5, 2500, 3, 10))
	mock.ExpectRollback()

	err := svc.Delete(5, 99)
	if !domain.IsTripNotFound(err) {
		t.Fatalf("foreign trip must look missing, got %v", err)
	}
	if err := mock.ExpectationsWereMet(); err != nil {
		t.Fatalf("unmet expectations: %v", err)
	}
}

func TestSearchNormalizesDateFilter(t *testing.T) {
	svc, mock := newTripService(t)

	mock.ExpectQuery("SELECT (.+) FROM trips WHERE status = (.+) AND trip_date = (.+)").
		WithArgs("active", "2025-03-01").
		WillReturnRows(tripRow(1, 2500, 3, 9))

	trips, err := svc.Search("", "", "01/03/2025")
	if err != nil {
		t.Fatalf("expected search to succeed, got %v", err)
	}
	if len(trips) != 1 {
		t.Fatalf("expected 1 trip, got %d", len(trips))
	}
	if err := mock.ExpectationsWereMet(); err != nil {
		t.Fatalf("unmet expectations: %v", err)
	}
}
