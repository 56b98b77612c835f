package handlers

import (
	"encoding/json"
	"net/http"

	"github.com/rs/zerolog/log"
	"github.com/usamakj/auth-app-be/internal/auth"
	"github.com/usamakj/auth-app-be/internal/models"
	"github.com/usamakj/auth-app-be/internal/services"
)

// AuthHandler handles HTTP requests for registration and authentication.
type AuthHandler struct {
	users  services.UserServiceProvider
	tokens *auth.TokenManager
	events services.EventServiceProvider
}

// NewAuthHandler creates a new AuthHandler.
func NewAuthHandler(users services.UserServiceProvider, tokens *auth.TokenManager, events services.EventServiceProvider) *AuthHandler {
	return &AuthHandler{users: users, tokens: tokens, events: events}
}

// RegisterPayload defines the structure for registration requests.
type RegisterPayload struct {
	Username  string `json:"username"`
	Email     string `json:"email"`
	Password  string `json:"password"`
	FirstName string `json:"firstName"`
	LastName  string `json:"lastName"`
}

// LoginPayload defines the structure for login requests. Identifier may be a
// username or an email.
type LoginPayload struct {
	Identifier string `json:"identifier"`
	Password   string `json:"password"`
}

// AvailabilityPayload defines the structure for availability checks.
type AvailabilityPayload struct {
	Email    string `json:"email"`
	Username string `json:"username"`
}

// sessionData is the payload returned on successful register/login.
type sessionData struct {
	User  models.User `json:"user"`
	Token string      `json:"token"`
}

// Register handles new user registration.
func (h *AuthHandler) Register(w http.ResponseWriter, r *http.Request) {
	var payload RegisterPayload
	if err := json.NewDecoder(r.Body).Decode(&payload); err != nil {
		Fail(w, http.StatusBadRequest, "Invalid request body")
		return
	}

	user, err := h.users.Register(payload.Username, payload.Email, payload.Password, payload.FirstName, payload.LastName)
	if err != nil {
		log.Warn().Err(err).Str("email", payload.Email).Msg("Failed to register user")
		Error(w, err)
		return
	}

	token, err := h.tokens.Issue(user.ID)
	if err != nil {
		log.Error().Err(err).Str("user_id", user.ID).Msg("Failed to generate token")
		Fail(w, http.StatusInternalServerError, "Failed to generate token")
		return
	}

	if err := h.events.CreateEvent("user.registered", "info", "User "+user.Username+" registered", &user.ID); err != nil {
		log.Warn().Err(err).Msg("Failed to record registration event")
	}

	JSON(w, http.StatusCreated, "User registered successfully", sessionData{User: user, Token: token})
}

// Login handles user authentication and token generation.
func (h *AuthHandler) Login(w http.ResponseWriter, r *http.Request) {
	var payload LoginPayload
	if err := json.NewDecoder(r.Body).Decode(&payload); err != nil {
		Fail(w, http.StatusBadRequest, "Invalid request body")
		return
	}

	user, err := h.users.Authenticate(payload.Identifier, payload.Password)
	if err != nil {
		log.Warn().Err(err).Str("identifier", payload.Identifier).Msg("Failed authentication attempt")
		Error(w, err)
		return
	}

	token, err := h.tokens.Issue(user.ID)
	if err != nil {
		log.Error().Err(err).Str("user_id", user.ID).Msg("Failed to generate token")
		Fail(w, http.StatusInternalServerError, "Failed to generate token")
		return
	}

	if err := h.events.CreateEvent("user.login", "info", "User "+user.Username+" logged in", &user.ID); err != nil {
		log.Warn().Err(err).Msg("Failed to record login event")
	}

	JSON(w, http.StatusOK, "Login successful", sessionData{User: user, Token: token})
}

// GetProfile returns the authenticated user's account.
func (h *AuthHandler) GetProfile(w http.ResponseWriter, r *http.Request) {
	user, ok := auth.UserFromContext(r.Context())
	if !ok {
		Fail(w, http.StatusUnauthorized, "Authentication required")
		return
	}

	JSON(w, http.StatusOK, "Profile retrieved successfully", map[string]any{"user": user})
}

// CheckAvailability reports whether an email and/or username are free to use.
func (h *AuthHandler) CheckAvailability(w http.ResponseWriter, r *http.Request) {
	var payload AvailabilityPayload
	if err := json.NewDecoder(r.Body).Decode(&payload); err != nil {
		Fail(w, http.StatusBadRequest, "Invalid request body")
		return
	}

	result, err := h.users.CheckAvailability(payload.Email, payload.Username)
	if err != nil {
		Error(w, err)
		return
	}

	JSON(w, http.StatusOK, "Availability check completed", result)
}
