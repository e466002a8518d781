package handlers

import (
	"net/http"
	"strings"

	"yoon/internal/http/middleware"
	"yoon/internal/repositories"
	"yoon/internal/utils"

	"github.com/gin-gonic/gin"
)

// GET /api/users/me
func Me(c *gin.Context) {
	repo := repositories.UserRepository{}
	user, err := repo.GetByID(nil, middleware.UserID(c))
	if err != nil {
		RespondDomainError(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"user": user})
}

type updateProfileRequest struct {
	Name  string `json:"name"`
	Phone string `json:"phone"`
}

// PUT /api/users/me
func UpdateMe(c *gin.Context) {
	var req updateProfileRequest
	if !BindJSONOrError(c, &req) {
		return
	}
	req.Name = strings.TrimSpace(req.Name)
	req.Phone = strings.TrimSpace(req.Phone)
	if req.Name == "" || req.Phone == "" {
		RespondError(c, http.StatusBadRequest, "veuillez remplir tous les champs", nil)
		return
	}

	repo := repositories.UserRepository{}
	if err := repo.UpdateProfile(middleware.UserID(c), req.Name, req.Phone); err != nil {
		RespondDomainError(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"message": "profil mis à jour"})
}

type pushTokenRequest struct {
	Token string `json:"token"`
}

// PUT /api/users/me/push-token — stores the Expo token the device
// registered so drivers can be notified of new bookings.
func UpdatePushToken(c *gin.Context) {
	var req pushTokenRequest
	if !BindJSONOrError(c, &req) {
		return
	}

	repo := repositories.UserRepository{}
	if err := repo.UpdatePushToken(middleware.UserID(c), strings.TrimSpace(req.Token)); err != nil {
		RespondDomainError(c, err)
		return
	}

	utils.LogEvent(middleware.GetRequestID(c), "users", "push_token", "token mis à jour")
	c.JSON(http.StatusOK, gin.H{"message": "token enregistré"})
}
