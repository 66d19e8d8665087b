package handlers

import (
	"errors"
	"net/http"
	"strings"

	"github.com/rohits-web03/referly/internal/api/middleware"
	"github.com/rohits-web03/referly/internal/auth"
	"github.com/rohits-web03/referly/internal/models"
	"github.com/rohits-web03/referly/internal/repositories"
	"github.com/rohits-web03/referly/internal/utils"
)

const (
	msgFieldsRequired     = "Sabhi fields zaroori hain"
	msgPasswordTooShort   = "Password kam se kam 6 characters ka hona chahiye"
	msgPasswordTooLong    = "Password 72 characters se zyada nahi ho sakta"
	msgEmailRegistered    = "Email pehle se registered hai"
	msgInvalidReferral    = "Invalid Referral ID"
	msgInvalidCredentials = "Email ya password galat hai"

	minPasswordLength = 6
)

type signupRequest struct {
	Name         string `json:"name"`
	Email        string `json:"email"`
	Password     string `json:"password"`
	ReferralID   string `json:"referralId"`
	ReferrerName string `json:"referrerName"`
}

type signupResponse struct {
	Message string `json:"message"`
	UserID  string `json:"userId"`
}

// POST /api/signup
// Signup godoc
// @Summary Register a new user under a referrer
// @Tags Auth
// @Accept json
// @Produce json
// @Param body body signupRequest true "Signup details"
// @Success 201 {object} signupResponse
// @Failure 400 {object} utils.Payload
// @Router /api/signup [post]
func (h *Handler) Signup(w http.ResponseWriter, r *http.Request) error {
	var input signupRequest
	if err := decodeJSON(w, r, &input, maxJSONBody); err != nil {
		return err
	}

	name := strings.TrimSpace(input.Name)
	email := strings.ToLower(strings.TrimSpace(input.Email))
	password := strings.TrimSpace(input.Password)
	referralID := strings.ToUpper(strings.TrimSpace(input.ReferralID))
	referrerName := strings.TrimSpace(input.ReferrerName)

	if name == "" || email == "" || password == "" || referralID == "" || referrerName == "" {
		return ValidationError(msgFieldsRequired)
	}
	if len([]rune(password)) < minPasswordLength {
		return ValidationError(msgPasswordTooShort)
	}

	ctx := r.Context()

	existing, err := h.store.FindUserByEmail(ctx, email)
	if err != nil {
		return err
	}
	if existing != nil {
		return Conflict(msgEmailRegistered)
	}

	referrer, err := h.store.FindUserByUserID(ctx, referralID)
	if err != nil {
		return err
	}
	if referrer == nil {
		return ValidationError(msgInvalidReferral)
	}

	hashed, err := auth.HashPassword(password)
	if err != nil {
		if auth.IsPasswordTooLong(err) {
			return ValidationError(msgPasswordTooLong)
		}
		return err
	}

	userID, err := utils.GenerateUserID()
	if err != nil {
		return err
	}

	newUser := models.User{
		Name:         name,
		Email:        email,
		Password:     hashed,
		UserID:       userID,
		ReferredBy:   &referralID,
		ReferrerName: &referrerName,
		IsAdmin:      false,
	}

	if err := h.store.CreateUser(ctx, &newUser); err != nil {
		// lost a race with a concurrent signup for the same email
		if errors.Is(err, repositories.ErrDuplicateUser) {
			return Conflict(msgEmailRegistered)
		}
		return err
	}

	utils.JSONResponse(w, http.StatusCreated, signupResponse{
		Message: "Signup successful",
		UserID:  newUser.UserID,
	})
	return nil
}

type loginRequest struct {
	Email    string `json:"email"`
	Password string `json:"password"`
}

type loginResponse struct {
	Token string      `json:"token"`
	User  userProfile `json:"user"`
}

// POST /api/login
// Login godoc
// @Summary Exchange credentials for a bearer token
// @Tags Auth
// @Accept json
// @Produce json
// @Param body body loginRequest true "Credentials"
// @Success 200 {object} loginResponse
// @Failure 401 {object} utils.Payload
// @Router /api/login [post]
func (h *Handler) Login(w http.ResponseWriter, r *http.Request) error {
	var input loginRequest
	if err := decodeJSON(w, r, &input, maxJSONBody); err != nil {
		return err
	}

	email := strings.ToLower(strings.TrimSpace(input.Email))
	password := strings.TrimSpace(input.Password)

	user, err := h.store.FindUserByEmail(r.Context(), email)
	if err != nil {
		return err
	}
	// Same message for unknown email and wrong password.
	if user == nil || !auth.CheckPassword(password, user.Password) {
		return Unauthorized(msgInvalidCredentials)
	}

	token, err := h.tokens.Issue(user.UserID)
	if err != nil {
		return err
	}

	utils.JSONResponse(w, http.StatusOK, loginResponse{
		Token: token,
		User:  profileOf(user),
	})
	return nil
}

type verifyResponse struct {
	User userProfile `json:"user"`
}

// GET /api/verify
// Verify godoc
// @Summary Return the profile bound to the caller's token
// @Tags Auth
// @Produce json
// @Security BearerAuth
// @Success 200 {object} verifyResponse
// @Failure 401 {object} utils.Payload
// @Failure 403 {object} utils.Payload
// @Router /api/verify [get]
func (h *Handler) Verify(w http.ResponseWriter, r *http.Request) error {
	user := middleware.CurrentUser(r.Context())
	if user == nil {
		return Unauthorized("Invalid token")
	}

	utils.JSONResponse(w, http.StatusOK, verifyResponse{User: profileOf(user)})
	return nil
}
