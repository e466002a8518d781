package handlers

import (
	"net/http"
	"strconv"

	"yoon/internal/domain/models"
	"yoon/internal/http/middleware"
	"yoon/internal/services"

	"github.com/gin-gonic/gin"
)

func tripService(c *gin.Context) services.TripService {
	return services.TripService{RequestID: middleware.GetRequestID(c)}
}

// POST /api/trips
func PublishTrip(c *gin.Context) {
	var in models.TripInput
	if !BindJSONOrError(c, &in) {
		return
	}

	trip, err := tripService(c).Publish(middleware.UserID(c), in)
	if err != nil {
		RespondDomainError(c, err)
		return
	}
	c.JSON(http.StatusCreated, gin.H{
		"message": "votre trajet a été publié avec succès !",
		"trip":    trip,
	})
}

// GET /api/trips?departure=&destination=&date=
func SearchTrips(c *gin.Context) {
	trips, err := tripService(c).Search(
		c.Query("departure"),
		c.Query("destination"),
		c.Query("date"),
	)
	if err != nil {
		RespondDomainError(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"trips": trips})
}

// GET /api/trips/:id
func GetTrip(c *gin.Context) {
	id := paramID(c)
	trip, err := tripService(c).Get(id)
	if err != nil {
		RespondDomainError(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"trip": trip})
}

// GET /api/my-trips
func MyTrips(c *gin.Context) {
	trips, err := tripService(c).ListByDriver(middleware.UserID(c))
	if err != nil {
		RespondDomainError(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"trips": trips})
}

// DELETE /api/trips/:id
func DeleteTrip(c *gin.Context) {
	if err := tripService(c).Delete(paramID(c), middleware.UserID(c)); err != nil {
		RespondDomainError(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"message": "trajet supprimé"})
}

// GET /api/trips/:id/passengers — driver's view of a trip's confirmed
// bookings plus the recomputed totals.
func TripPassengers(c *gin.Context) {
	id := paramID(c)
	svc := services.BookingService{RequestID: middleware.GetRequestID(c)}

	trip, err := tripService(c).Get(id)
	if err != nil {
		RespondDomainError(c, err)
		return
	}
	if trip.DriverID != middleware.UserID(c) {
		RespondError(c, http.StatusNotFound, "trajet introuvable", nil)
		return
	}

	passengers, err := svc.BookingRepo.ListByTrip(id)
	if err != nil {
		RespondDomainError(c, err)
		return
	}
	agg, err := svc.TripAggregates(id)
	if err != nil {
		RespondDomainError(c, err)
		return
	}

	c.JSON(http.StatusOK, gin.H{
		"passengers": passengers,
		"stats":      agg,
	})
}

func paramID(c *gin.Context) int64 {
	id, _ := strconv.ParseInt(c.Param("id"), 10, 64)
	return id
}
