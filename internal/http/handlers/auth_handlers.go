package handlers

import (
	"errors"
	"log"
	"net/http"
	"strings"
	"time"

	"golang.org/x/crypto/bcrypt"

	"github.com/mvaldes-dev/stockpile/internal/auth"
	"github.com/mvaldes-dev/stockpile/internal/models"
	"github.com/mvaldes-dev/stockpile/internal/repo"
)

func validCredentials(username, password string) bool {
	return strings.TrimSpace(username) != "" && len(password) >= 8
}

func registerUser(w http.ResponseWriter, username, password, role string) {
	if !validCredentials(username, password) {
		http.Error(w, "username is required and password must be at least 8 characters", http.StatusBadRequest)
		return
	}

	if _, err := userRepo.GetByUsername(username); err == nil {
		http.Error(w, "username already taken", http.StatusConflict)
		return
	} else if !errors.Is(err, repo.ErrUserNotFound) {
		http.Error(w, "could not check username", http.StatusInternalServerError)
		return
	}

	hash, err := bcrypt.GenerateFromPassword([]byte(password), bcrypt.DefaultCost)
	if err != nil {
		http.Error(w, "could not hash password", http.StatusInternalServerError)
		return
	}

	now := time.Now()
	user, err := userRepo.CreateUser(models.User{
		Username:     username,
		PasswordHash: string(hash),
		Role:         role,
		CreatedAt:    now,
		UpdatedAt:    now,
	})
	if err != nil {
		http.Error(w, "could not create user", http.StatusInternalServerError)
		return
	}

	token, err := auth.GenerateToken(user)
	if err != nil {
		http.Error(w, "could not generate token", http.StatusInternalServerError)
		return
	}

	writeJSON(w, http.StatusCreated, RegisterResult{
		Message: "user registered",
		Token:   token,
	})
}

// RegisterHandler godoc
// @Summary Register a new user
// @Description Self-registration always yields the "user" role
// @Tags auth
// @Accept json
// @Produce json
// @Param credentials body CredentialsRequest true "Username and password"
// @Success 201 {object} RegisterResult
// @Failure 400 {string} string "Invalid input"
// @Failure 409 {string} string "Username taken"
// @Router /register [post]
func RegisterHandler(w http.ResponseWriter, r *http.Request) {
	var req CredentialsRequest
	if err := readJSON(w, r, &req); err != nil {
		http.Error(w, "invalid input", http.StatusBadRequest)
		return
	}
	registerUser(w, req.Username, req.Password, "user")
}

// RegisterAsAdminHandler godoc
// @Summary Register a user with an explicit role
// @Description Admin-only; the router enforces the role requirement
// @Tags auth
// @Accept json
// @Produce json
// @Param user body RegisterAsAdminRequest true "Username, password and role"
// @Success 201 {object} RegisterResult
// @Failure 400 {string} string "Invalid input"
// @Failure 409 {string} string "Username taken"
// @Router /admin/users [post]
// @Security BearerAuth
func RegisterAsAdminHandler(w http.ResponseWriter, r *http.Request) {
	var req RegisterAsAdminRequest
	if err := readJSON(w, r, &req); err != nil {
		http.Error(w, "invalid input", http.StatusBadRequest)
		return
	}
	if req.Role != "user" && req.Role != "admin" {
		http.Error(w, "role must be 'user' or 'admin'", http.StatusBadRequest)
		return
	}
	registerUser(w, req.Username, req.Password, req.Role)
}

// LoginHandler godoc
// @Summary Log in and receive an access and a refresh token
// @Tags auth
// @Accept json
// @Produce json
// @Param credentials body CredentialsRequest true "Username and password"
// @Success 200 {object} LoginResult
// @Failure 400 {string} string "Invalid input"
// @Failure 401 {string} string "Invalid credentials"
// @Router /login [post]
func LoginHandler(w http.ResponseWriter, r *http.Request) {
	var req CredentialsRequest
	if err := readJSON(w, r, &req); err != nil {
		http.Error(w, "invalid input", http.StatusBadRequest)
		return
	}

	user, err := userRepo.GetByUsername(req.Username)
	if err != nil {
		// Same response for unknown user and bad password.
		http.Error(w, "invalid credentials", http.StatusUnauthorized)
		return
	}
	if err := bcrypt.CompareHashAndPassword([]byte(user.PasswordHash), []byte(req.Password)); err != nil {
		http.Error(w, "invalid credentials", http.StatusUnauthorized)
		return
	}

	token, err := auth.GenerateToken(user)
	if err != nil {
		http.Error(w, "could not generate token", http.StatusInternalServerError)
		return
	}

	refresh, err := auth.IssueRefreshToken(user.Username, refreshTokenTTL)
	if err != nil {
		log.Printf("could not issue refresh token for %s: %v", user.Username, err)
		http.Error(w, "could not issue refresh token", http.StatusInternalServerError)
		return
	}

	writeJSON(w, http.StatusOK, LoginResult{Token: token, RefreshToken: refresh})
}

// RefreshHandler godoc
// @Summary Exchange a refresh token for a new access token
// @Description The old refresh token is revoked and a new one is issued
// @Tags auth
// @Accept json
// @Produce json
// @Param token body RefreshRequest true "Refresh token"
// @Success 200 {object} LoginResult
// @Failure 400 {string} string "Invalid input"
// @Failure 401 {string} string "Invalid or expired refresh token"
// @Router /refresh [post]
func RefreshHandler(w http.ResponseWriter, r *http.Request) {
	var req RefreshRequest
	if err := readJSON(w, r, &req); err != nil {
		http.Error(w, "invalid input", http.StatusBadRequest)
		return
	}

	username, ok := auth.RedeemRefreshToken(req.RefreshToken)
	if !ok {
		http.Error(w, "invalid or expired refresh token", http.StatusUnauthorized)
		return
	}

	user, err := userRepo.GetByUsername(username)
	if err != nil {
		http.Error(w, "invalid or expired refresh token", http.StatusUnauthorized)
		return
	}

	token, err := auth.GenerateToken(user)
	if err != nil {
		http.Error(w, "could not generate token", http.StatusInternalServerError)
		return
	}

	auth.RevokeRefreshToken(req.RefreshToken)
	refresh, err := auth.IssueRefreshToken(user.Username, refreshTokenTTL)
	if err != nil {
		http.Error(w, "could not issue refresh token", http.StatusInternalServerError)
		return
	}

	writeJSON(w, http.StatusOK, LoginResult{Token: token, RefreshToken: refresh})
}
