package services

import (
	"bytes"
	"database/sql"
	"fmt"

	"github.com/phpdave11/gofpdf"

	intconfig "yoon/internal/config"
	"yoon/internal/domain"
	"yoon/internal/domain/models"
	"yoon/internal/repositories"
	"yoon/internal/utils"
)

// DocsService renders booking e-tickets for passengers and passenger
// manifests for drivers.
type DocsService struct {
	TripRepo    repositories.TripRepository
	BookingRepo repositories.BookingRepository
	RequestID   string
	DB          *sql.DB
}

func (s DocsService) db() *sql.DB {
	if s.DB != nil {
		return s.DB
	}
	return intconfig.DB
}

func (s DocsService) BookingTicket(bookingID, passengerID int64) ([]byte, string, error) {
	booking, err := s.BookingRepo.GetByID(s.db(), bookingID)
	if err != nil {
		return nil, "", err
	}
	if booking.PassengerID != passengerID {
		return nil, "", domain.NotFoundError{Resource: "réservation"}
	}
	trip, err := s.TripRepo.GetByID(booking.TripID)
	if err != nil {
		if domain.IsNotFound(err) {
			return nil, "", domain.TripNotFoundError{Err: err}
		}
		return nil, "", err
	}

	utils.LogEvent(s.RequestID, "docs", "ticket", fmt.Sprintf("booking_id=%d", bookingID))

	out, err := buildTicketPDF(booking, trip)
	if err != nil {
		return nil, "", domain.InternalError{Msg: "génération du billet impossible", Err: err}
	}
	return out, fmt.Sprintf("billet-%d.pdf", bookingID), nil
}

func (s DocsService) TripManifest(tripID, driverID int64) ([]byte, string, error) {
	trip, err := s.TripRepo.GetByID(tripID)
	if err != nil {
		if domain.IsNotFound(err) {
			return nil, "", domain.TripNotFoundError{Err: err}
		}
		return nil, "", err
	}
	if trip.DriverID != driverID {
		return nil, "", domain.TripNotFoundError{}
	}

	bookings, err := s.BookingRepo.ListByTrip(tripID)
	if err != nil {
		return nil, "", err
	}
	agg, err := s.BookingRepo.AggregatesByTrip(s.db(), tripID)
	if err != nil {
		return nil, "", err
	}

	utils.LogEvent(s.RequestID, "docs", "manifest", fmt.Sprintf("trip_id=%d passengers=%d", tripID, agg.PassengerCount))

	out, err := buildManifestPDF(trip, bookings, agg)
	if err != nil {
		return nil, "", domain.InternalError{Msg: "génération du manifeste impossible", Err: err}
	}
	return out, fmt.Sprintf("manifeste-%d.pdf", tripID), nil
}

func buildTicketPDF(b models.Booking, t models.Trip) ([]byte, error) {
	pdf := gofpdf.New("P", "mm", "A4", "")
	tr := pdf.UnicodeTranslatorFromDescriptor("")
	pdf.AddPage()

	pdf.SetFont("Helvetica", "B", 20)
	pdf.Cell(0, 12, "Yoon — Covoiturage")
	pdf.Ln(14)

	pdf.SetFont("Helvetica", "B", 14)
	pdf.Cell(0, 10, tr(fmt.Sprintf("Billet n°%d", b.ID)))
	pdf.Ln(12)

	pdf.SetFont("Helvetica", "", 12)
	plural := ""
	if b.SeatsBooked > 1 {
		plural = "s"
	}
	lines := [][2]string{
		{"Trajet", fmt.Sprintf("%s → %s", t.Departure, t.Destination)},
		{"Date", t.Date + " à " + t.Time},
		{"Passager", b.PassengerName},
		{"Places", fmt.Sprintf("%d place%s", b.SeatsBooked, plural)},
		{"Conducteur", t.DriverName},
		{"Prix total", utils.FormatCFA(b.TotalPrice)},
	}
	for _, line := range lines {
		pdf.SetFont("Helvetica", "B", 12)
		pdf.CellFormat(40, 8, tr(line[0]), "", 0, "L", false, 0, "")
		pdf.SetFont("Helvetica", "", 12)
		pdf.CellFormat(0, 8, tr(line[1]), "", 1, "L", false, 0, "")
	}

	pdf.Ln(8)
	pdf.SetFont("Helvetica", "I", 10)
	pdf.Cell(0, 6, tr("Réservé via Yoon"))

	var buf bytes.Buffer
	if err := pdf.Output(&buf); err != nil {
		return nil, err
	}
	return buf.Bytes(), nil
}

func buildManifestPDF(t models.Trip, bookings []models.Booking, agg models.TripAggregates) ([]byte, error) {
	pdf := gofpdf.New("P", "mm", "A4", "")
	tr := pdf.UnicodeTranslatorFromDescriptor("")
	pdf.AddPage()

	pdf.SetFont("Helvetica", "B", 18)
	pdf.Cell(0, 10, tr("Liste des passagers"))
	pdf.Ln(12)

	pdf.SetFont("Helvetica", "", 12)
	pdf.Cell(0, 8, tr(fmt.Sprintf("%s → %s, le %s à %s", t.Departure, t.Destination, t.Date, t.Time)))
	pdf.Ln(12)

	pdf.SetFont("Helvetica", "B", 11)
	pdf.CellFormat(60, 8, "Nom", "1", 0, "L", false, 0, "")
	pdf.CellFormat(45, 8, tr("Téléphone"), "1", 0, "L", false, 0, "")
	pdf.CellFormat(25, 8, "Places", "1", 0, "C", false, 0, "")
	pdf.CellFormat(45, 8, "Montant", "1", 1, "R", false, 0, "")

	pdf.SetFont("Helvetica", "", 11)
	for _, b := range bookings {
		pdf.CellFormat(60, 8, tr(b.PassengerName), "1", 0, "L", false, 0, "")
		pdf.CellFormat(45, 8, tr(b.PassengerPhone), "1", 0, "L", false, 0, "")
		pdf.CellFormat(25, 8, fmt.Sprintf("%d", b.SeatsBooked), "1", 0, "C", false, 0, "")
		pdf.CellFormat(45, 8, tr(utils.FormatCFA(b.TotalPrice)), "1", 1, "R", false, 0, "")
	}

	pdf.Ln(6)
	pdf.SetFont("Helvetica", "B", 12)
	pdf.Cell(0, 8, tr(fmt.Sprintf("%d passager(s), %d place(s) réservée(s)", agg.PassengerCount, agg.TotalSeatsBooked)))
	pdf.Ln(8)
	pdf.Cell(0, 8, tr("Revenu total: "+utils.FormatCFA(agg.TotalRevenue)))

	var buf bytes.Buffer
	if err := pdf.Output(&buf); err != nil {
		return nil, err
	}
	return buf.Bytes(), nil
}
