package api

import (
	"log"
	stdhttp "net/http"
	"time"

	intconfig "yoon/internal/config"
	h "yoon/internal/http/handlers"
	"yoon/internal/http/middleware"

	"github.com/gin-contrib/cors"
	"github.com/gin-gonic/gin"
)

func NewRouter(env intconfig.Env) *gin.Engine {
	middleware.SetSecret(env.JWTSecret)
	h.ExpoPushURL = env.ExpoPushURL

	r := gin.New()
	r.Use(middleware.RequestID(), middleware.Logger(), gin.Recovery(), corsMiddleware(env))

	if err := r.SetTrustedProxies(nil); err != nil {
		log.Printf("warning: failed to set trusted proxies: %v", err)
	}

	r.NoRoute(func(c *gin.Context) {
		c.JSON(stdhttp.StatusNotFound, gin.H{
			"message": "route introuvable",
			"path":    c.Request.URL.Path,
			"method":  c.Request.Method,
		})
	})

	api := r.Group("/api")
	{
		api.GET("/health", h.Health)
		api.GET("/db-check", h.DBCheck)

		auth := api.Group("/auth")
		auth.POST("/register", h.Register)
		auth.POST("/login", h.Login)
		auth.POST("/pin/verify", h.VerifyPin)

		// Trip search and details are readable without a session, like the
		// app's explore tab.
		api.GET("/trips", h.SearchTrips)
		api.GET("/trips/:id", h.GetTrip)

		authed := api.Group("", middleware.RequireAuth())
		{
			authed.POST("/auth/pin", h.SetPin)
			authed.GET("/auth/pin", h.HasPin)

			authed.GET("/users/me", h.Me)
			authed.PUT("/users/me", h.UpdateMe)
			authed.PUT("/users/me/push-token", h.UpdatePushToken)

			authed.POST("/trips", h.PublishTrip)
			authed.DELETE("/trips/:id", h.DeleteTrip)
			authed.GET("/trips/:id/passengers", h.TripPassengers)
			authed.GET("/trips/:id/manifest", h.TripManifest)
			authed.GET("/my-trips", h.MyTrips)

			authed.POST("/bookings", h.CreateBooking)
			authed.GET("/bookings", h.MyBookings)
			authed.DELETE("/bookings/:id", h.CancelBooking)
			authed.GET("/bookings/:id/ticket", h.BookingTicket)
		}
	}

	return r
}

func corsMiddleware(env intconfig.Env) gin.HandlerFunc {
	cfg := cors.Config{
		AllowMethods:     []string{"GET", "POST", "PUT", "DELETE", "OPTIONS"},
		AllowHeaders:     []string{"Content-Type", "Authorization", "Accept", "Origin"},
		AllowCredentials: true,
		MaxAge:           24 * time.Hour,
	}
	if len(env.CORSOrigins) > 0 {
		cfg.AllowOrigins = env.CORSOrigins
	} else {
		cfg.AllowAllOrigins = true
		cfg.AllowCredentials = false
	}
	return cors.New(cfg)
}
