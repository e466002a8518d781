package handlers

import (
	"net/http"

	"yoon/internal/http/middleware"
	"yoon/internal/repositories"
	"yoon/internal/services"

	"github.com/gin-gonic/gin"
)

// ExpoPushURL is set by the router from the environment.
var ExpoPushURL string

func bookingService(c *gin.Context) services.BookingService {
	return services.BookingService{
		Notifier:  services.NewExpoNotifier(ExpoPushURL),
		RequestID: middleware.GetRequestID(c),
	}
}

type createBookingRequest struct {
	TripID int64 `json:"tripId"`
	Seats  int   `json:"seats"`
}

// POST /api/bookings
func CreateBooking(c *gin.Context) {
	var req createBookingRequest
	if !BindJSONOrError(c, &req) {
		return
	}

	booking, err := bookingService(c).CreateBooking(req.TripID, middleware.UserID(c), req.Seats)
	if err != nil {
		RespondDomainError(c, err)
		return
	}

	c.JSON(http.StatusCreated, gin.H{
		"message": "votre réservation a été confirmée !",
		"booking": booking,
	})
}

// GET /api/bookings — the authenticated passenger's bookings.
func MyBookings(c *gin.Context) {
	repo := repositories.BookingRepository{}
	bookings, err := repo.ListByPassenger(middleware.UserID(c))
	if err != nil {
		RespondDomainError(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"bookings": bookings})
}

// DELETE /api/bookings/:id
func CancelBooking(c *gin.Context) {
	if err := bookingService(c).CancelBooking(paramID(c), middleware.UserID(c)); err != nil {
		RespondDomainError(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"message": "réservation annulée"})
}
