package handlers

import (
	"database/sql"
	"errors"
	"net/http"
	"regexp"
	"strings"

	intconfig "yoon/internal/config"
	"yoon/internal/http/middleware"
	"yoon/internal/repositories"
	"yoon/internal/utils"

	"github.com/gin-gonic/gin"
	"github.com/go-sql-driver/mysql"
	"golang.org/x/crypto/bcrypt"
)

// AuthUser is the user payload returned alongside a token.
type AuthUser struct {
	ID         int64   `json:"id"`
	Name       string  `json:"name"`
	Email      string  `json:"email"`
	Phone      string  `json:"phone"`
	Rating     float64 `json:"rating"`
	TripsCount int     `json:"tripsCount"`
	Verified   bool    `json:"verified"`
}

type registerRequest struct {
	Name     string `json:"name"`
	Email    string `json:"email"`
	Phone    string `json:"phone"`
	Password string `json:"password"`
}

// POST /api/auth/register
func Register(c *gin.Context) {
	var req registerRequest
	if !BindJSONOrError(c, &req) {
		return
	}

	req.Name = strings.TrimSpace(req.Name)
	req.Email = strings.ToLower(strings.TrimSpace(req.Email))
	req.Phone = strings.TrimSpace(req.Phone)

	if req.Name == "" || req.Email == "" || req.Phone == "" || req.Password == "" {
		RespondError(c, http.StatusBadRequest, "veuillez remplir tous les champs", nil)
		return
	}
	if len(req.Password) < 6 {
		RespondError(c, http.StatusBadRequest, "le mot de passe doit contenir au moins 6 caractères", nil)
		return
	}

	var exists int
	err := intconfig.DB.QueryRow(`SELECT COUNT(*) FROM users WHERE email = ?`, req.Email).Scan(&exists)
	if err != nil {
		RespondError(c, http.StatusInternalServerError, "vérification du compte impossible", err)
		return
	}
	if exists > 0 {
		RespondError(c, http.StatusConflict, "cette adresse email est déjà utilisée", nil)
		return
	}

	hash, err := bcrypt.GenerateFromPassword([]byte(req.Password), bcrypt.DefaultCost)
	if err != nil {
		RespondError(c, http.StatusInternalServerError, "création du compte impossible", err)
		return
	}

	res, err := intconfig.DB.Exec(`
		INSERT INTO users (name, email, phone, password_hash, rating, trips_count, verified, created_at)
		VALUES (?, ?, ?, ?, 0, 0, 0, NOW())
	`, req.Name, req.Email, req.Phone, string(hash))
	if err != nil {
		// uniq_email backstops the pre-check against racing registrations
		var me *mysql.MySQLError
		if errors.As(err, &me) && me.Number == 1062 {
			RespondError(c, http.StatusConflict, "cette adresse email est déjà utilisée", nil)
			return
		}
		RespondError(c, http.StatusInternalServerError, "création du compte impossible", err)
		return
	}

	id, _ := res.LastInsertId()
	token, err := middleware.GenerateToken(id)
	if err != nil {
		RespondError(c, http.StatusInternalServerError, "création de la session impossible", err)
		return
	}

	utils.LogEvent(middleware.GetRequestID(c), "auth", "register", req.Email)
	c.JSON(http.StatusCreated, gin.H{
		"token": token,
		"user": AuthUser{
			ID:    id,
			Name:  req.Name,
			Email: req.Email,
			Phone: req.Phone,
		},
	})
}

type loginRequest struct {
	Email    string `json:"email"`
	Password string `json:"password"`
}

// POST /api/auth/login
func Login(c *gin.Context) {
	var req loginRequest
	if !BindJSONOrError(c, &req) {
		return
	}
	req.Email = strings.ToLower(strings.TrimSpace(req.Email))

	user, passwordHash, _, err := lookupByEmail(req.Email)
	if err != nil {
		if err == sql.ErrNoRows {
			RespondError(c, http.StatusUnauthorized, "email ou mot de passe incorrect", nil)
		} else {
			RespondError(c, http.StatusInternalServerError, "connexion impossible", err)
		}
		return
	}

	if bcrypt.CompareHashAndPassword([]byte(passwordHash), []byte(req.Password)) != nil {
		RespondError(c, http.StatusUnauthorized, "email ou mot de passe incorrect", nil)
		return
	}

	token, err := middleware.GenerateToken(user.ID)
	if err != nil {
		RespondError(c, http.StatusInternalServerError, "création de la session impossible", err)
		return
	}

	utils.LogEvent(middleware.GetRequestID(c), "auth", "login", req.Email)
	c.JSON(http.StatusOK, gin.H{"token": token, "user": user})
}

var pinPattern = regexp.MustCompile(`^[0-9]{4}$`)

type setPinRequest struct {
	Pin string `json:"pin"`
}

// POST /api/auth/pin — stores the 4-digit unlock PIN, hashed.
func SetPin(c *gin.Context) {
	var req setPinRequest
	if !BindJSONOrError(c, &req) {
		return
	}
	if !pinPattern.MatchString(req.Pin) {
		RespondError(c, http.StatusBadRequest, "le PIN doit contenir 4 chiffres", nil)
		return
	}

	hash, err := bcrypt.GenerateFromPassword([]byte(req.Pin), bcrypt.DefaultCost)
	if err != nil {
		RespondError(c, http.StatusInternalServerError, "enregistrement du PIN impossible", err)
		return
	}

	repo := repositories.UserRepository{}
	if err := repo.SetPinHash(middleware.UserID(c), string(hash)); err != nil {
		RespondDomainError(c, err)
		return
	}

	utils.LogEvent(middleware.GetRequestID(c), "auth", "set_pin", "")
	c.JSON(http.StatusOK, gin.H{"message": "PIN configuré avec succès"})
}

// GET /api/auth/pin
func HasPin(c *gin.Context) {
	repo := repositories.UserRepository{}
	has, err := repo.HasPin(middleware.UserID(c))
	if err != nil {
		RespondDomainError(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"hasPin": has})
}

type verifyPinRequest struct {
	Email string `json:"email"`
	Pin   string `json:"pin"`
}

// POST /api/auth/pin/verify — the PIN/biometric unlock path: exchanges a
// correct PIN for a fresh session token.
func VerifyPin(c *gin.Context) {
	var req verifyPinRequest
	if !BindJSONOrError(c, &req) {
		return
	}
	req.Email = strings.ToLower(strings.TrimSpace(req.Email))

	user, _, pinHash, err := lookupByEmail(req.Email)
	if err != nil {
		if err == sql.ErrNoRows {
			RespondError(c, http.StatusUnauthorized, "PIN incorrect", nil)
		} else {
			RespondError(c, http.StatusInternalServerError, "connexion impossible", err)
		}
		return
	}
	if pinHash == "" {
		RespondError(c, http.StatusUnauthorized, "aucun PIN configuré pour ce compte", nil)
		return
	}
	if bcrypt.CompareHashAndPassword([]byte(pinHash), []byte(req.Pin)) != nil {
		RespondError(c, http.StatusUnauthorized, "PIN incorrect", nil)
		return
	}

	token, err := middleware.GenerateToken(user.ID)
	if err != nil {
		RespondError(c, http.StatusInternalServerError, "création de la session impossible", err)
		return
	}

	utils.LogEvent(middleware.GetRequestID(c), "auth", "pin_login", req.Email)
	c.JSON(http.StatusOK, gin.H{"token": token, "user": user})
}

func lookupByEmail(email string) (AuthUser, string, string, error) {
	var (
		user     AuthUser
		pwHash   string
		pinHash  sql.NullString
		verified int
	)
	err := intconfig.DB.QueryRow(`
		SELECT id, name, email, phone, rating, trips_count, verified, password_hash, pin_hash
		FROM users WHERE email = ?
	`, email).Scan(
		&user.ID,
		&user.Name,
		&user.Email,
		&user.Phone,
		&user.Rating,
		&user.TripsCount,
		&verified,
		&pwHash,
		&pinHash,
	)
	user.Verified = verified == 1
	return user, pwHash, pinHash.String, err
}
