package handlers

import (
	"net/http"

	"yoon/internal/domain"

	"github.com/gin-gonic/gin"
)

// RespondDomainError maps domain errors to HTTP responses. Every booking
// failure mode gets a distinct code so the app can branch on it.
func RespondDomainError(c *gin.Context, err error) {
	switch {
	case domain.IsNotAuthenticated(err):
		respond(c, http.StatusUnauthorized, "not_authenticated", err)
	case domain.IsInvalidSeatCount(err):
		respond(c, http.StatusBadRequest, "invalid_seat_count", err)
	case domain.IsSelfBooking(err):
		respond(c, http.StatusConflict, "self_booking", err)
	case domain.IsDuplicateBooking(err):
		respond(c, http.StatusConflict, "duplicate_booking", err)
	case domain.IsTripNotFound(err):
		respond(c, http.StatusNotFound, "trip_not_found", err)
	case domain.IsValidation(err):
		respond(c, http.StatusBadRequest, "validation_error", err)
	case domain.IsNotFound(err):
		respond(c, http.StatusNotFound, "not_found", err)
	case domain.IsConflict(err):
		respond(c, http.StatusConflict, "conflict", err)
	default:
		// Repository and internal errors stay generic for the user.
		c.JSON(http.StatusInternalServerError, gin.H{
			"message": "une erreur est survenue, veuillez réessayer",
			"code":    "internal_error",
		})
	}
}

func respond(c *gin.Context, status int, code string, err error) {
	c.JSON(status, gin.H{
		"message": err.Error(),
		"code":    code,
	})
}
