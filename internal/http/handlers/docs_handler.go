package handlers

import (
	"net/http"

	"yoon/internal/http/middleware"
	"yoon/internal/services"

	"github.com/gin-gonic/gin"
)

func docsService(c *gin.Context) services.DocsService {
	return services.DocsService{RequestID: middleware.GetRequestID(c)}
}

// GET /api/bookings/:id/ticket
func BookingTicket(c *gin.Context) {
	out, filename, err := docsService(c).BookingTicket(paramID(c), middleware.UserID(c))
	if err != nil {
		RespondDomainError(c, err)
		return
	}
	c.Header("Content-Disposition", `attachment; filename="`+filename+`"`)
	c.Data(http.StatusOK, "application/pdf", out)
}

// GET /api/trips/:id/manifest
func TripManifest(c *gin.Context) {
	out, filename, err := docsService(c).TripManifest(paramID(c), middleware.UserID(c))
	if err != nil {
		RespondDomainError(c, err)
		return
	}
	c.Header("Content-Disposition", `attachment; filename="`+filename+`"`)
	c.Data(http.StatusOK, "application/pdf", out)
}
