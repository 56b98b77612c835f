package services

import (
	"database/sql"
	"regexp"
	"strings"
	"time"

	"github.com/google/uuid"
	"github.com/usamakj/auth-app-be/internal/apperr"
	"github.com/usamakj/auth-app-be/internal/models"
	"golang.org/x/crypto/bcrypt"
)

// MinPasswordLength is the minimum accepted password length on registration.
const MinPasswordLength = 6

var emailPattern = regexp.MustCompile(`^[^\s@]+@[^\s@]+\.[^\s@]+$`)

// AvailabilityStatus reports whether a single identity field is free to use.
type AvailabilityStatus struct {
	Available bool   `json:"available"`
	Message   string `json:"message"`
}

// AvailabilityResult holds per-field availability checks; a field is nil when
// it was not requested.
type AvailabilityResult struct {
	Email    *AvailabilityStatus `json:"email,omitempty"`
	Username *AvailabilityStatus `json:"username,omitempty"`
}

// UserServiceProvider defines the interface for user services.
type UserServiceProvider interface {
	Register(username, email, password, firstName, lastName string) (models.User, error)
	Authenticate(identifier, password string) (models.User, error)
	CheckAvailability(email, username string) (AvailabilityResult, error)
	GetUserByID(id string) (models.User, error)
}

// UserService provides business logic for user accounts and credentials.
type UserService struct {
	db *sql.DB
}

// NewUserService creates a new UserService.
func NewUserService(db *sql.DB) *UserService {
	return &UserService{db: db}
}

// Register validates input, checks uniqueness of email and username, hashes
// the password and creates the account. Email is lowercased on write.
func (s *UserService) Register(username, email, password, firstName, lastName string) (models.User, error) {
	var fields []string
	if strings.TrimSpace(username) == "" {
		fields = append(fields, "Username is required")
	}
	email = strings.ToLower(strings.TrimSpace(email))
	if email == "" {
		fields = append(fields, "Email is required")
	} else if !emailPattern.MatchString(email) {
		fields = append(fields, "Email is not a valid address")
	}
	if password == "" {
		fields = append(fields, "Password is required")
	} else if len(password) < MinPasswordLength {
		fields = append(fields, "Password must be at least 6 characters")
	}
	if strings.TrimSpace(firstName) == "" {
		fields = append(fields, "First name is required")
	}
	if strings.TrimSpace(lastName) == "" {
		fields = append(fields, "Last name is required")
	}
	if len(fields) > 0 {
		return models.User{}, apperr.Validation("Validation failed", fields...)
	}

	// Pre-check both fields for friendly per-field conflict messages. The
	// UNIQUE constraints below remain the source of truth if a concurrent
	// registration wins the race.
	var exists int
	if err := s.db.QueryRow("SELECT COUNT(1) FROM users WHERE email = ?", email).Scan(&exists); err != nil {
		return models.User{}, apperr.Internal("Internal server error during registration", err)
	}
	if exists > 0 {
		return models.User{}, apperr.Conflict("User already registered with this email address")
	}
	if err := s.db.QueryRow("SELECT COUNT(1) FROM users WHERE username = ?", username).Scan(&exists); err != nil {
		return models.User{}, apperr.Internal("Internal server error during registration", err)
	}
	if exists > 0 {
		return models.User{}, apperr.Conflict("Username is already taken")
	}

	hashedPassword, err := bcrypt.GenerateFromPassword([]byte(password), bcrypt.DefaultCost)
	if err != nil {
		return models.User{}, apperr.Internal("Internal server error during registration", err)
	}

	user := models.User{
		ID:           uuid.New().String(),
		Username:     username,
		Email:        email,
		PasswordHash: string(hashedPassword),
		FirstName:    firstName,
		LastName:     lastName,
		IsActive:     true,
		CreatedAt:    time.Now().UTC(),
	}

	stmt, err := s.db.Prepare("INSERT INTO users(id, username, email, password_hash, first_name, last_name, is_active, created_at) VALUES(?, ?, ?, ?, ?, ?, 1, ?)")
	if err != nil {
		return models.User{}, apperr.Internal("Internal server error during registration", err)
	}
	defer stmt.Close()

	if _, err = stmt.Exec(user.ID, user.Username, user.Email, user.PasswordHash, user.FirstName, user.LastName, sqlTime(user.CreatedAt)); err != nil {
		if strings.Contains(err.Error(), "UNIQUE constraint failed: users.email") {
			return models.User{}, apperr.Conflict("User already registered with this email address")
		}
		if strings.Contains(err.Error(), "UNIQUE constraint failed: users.username") {
			return models.User{}, apperr.Conflict("Username is already taken")
		}
		return models.User{}, apperr.Internal("Internal server error during registration", err)
	}

	// Return user without password hash
	user.PasswordHash = ""
	return user, nil
}

// Authenticate verifies credentials for an identifier that may be either a
// username or an email. A single disjunctive lookup keeps the "no such user"
// and "wrong password" paths close in timing.
func (s *UserService) Authenticate(identifier, password string) (models.User, error) {
	if identifier == "" || password == "" {
		return models.User{}, apperr.Validation("Email/username and password are required")
	}

	var user models.User
	row := s.db.QueryRow(
		"SELECT id, username, email, password_hash, first_name, last_name, is_active, last_login, created_at FROM users WHERE username = ? OR email = ?",
		identifier, strings.ToLower(identifier),
	)
	err := row.Scan(&user.ID, &user.Username, &user.Email, &user.PasswordHash, &user.FirstName, &user.LastName, &user.IsActive, &user.LastLogin, &user.CreatedAt)
	if err != nil {
		if err == sql.ErrNoRows {
			return models.User{}, apperr.Unauthorized("Invalid credentials")
		}
		return models.User{}, apperr.Internal("Internal server error during login", err)
	}

	if !user.IsActive {
		return models.User{}, apperr.Unauthorized("Account is deactivated")
	}

	if err := bcrypt.CompareHashAndPassword([]byte(user.PasswordHash), []byte(password)); err != nil {
		return models.User{}, apperr.Unauthorized("Invalid credentials")
	}

	now := time.Now().UTC()
	if _, err := s.db.Exec("UPDATE users SET last_login = ? WHERE id = ?", sqlTime(now), user.ID); err != nil {
		return models.User{}, apperr.Internal("Internal server error during login", err)
	}
	user.LastLogin = &now

	// Don't send the password hash to the client
	user.PasswordHash = ""
	return user, nil
}

// CheckAvailability reports whether the given email and/or username are free.
// Each field is checked independently and only when provided.
func (s *UserService) CheckAvailability(email, username string) (AvailabilityResult, error) {
	var result AvailabilityResult

	if email != "" {
		var count int
		if err := s.db.QueryRow("SELECT COUNT(1) FROM users WHERE email = ?", strings.ToLower(email)).Scan(&count); err != nil {
			return AvailabilityResult{}, apperr.Internal("Internal server error", err)
		}
		status := AvailabilityStatus{Available: count == 0, Message: "Email is available"}
		if count > 0 {
			status.Message = "Email is already registered"
		}
		result.Email = &status
	}

	if username != "" {
		var count int
		if err := s.db.QueryRow("SELECT COUNT(1) FROM users WHERE username = ?", username).Scan(&count); err != nil {
			return AvailabilityResult{}, apperr.Internal("Internal server error", err)
		}
		status := AvailabilityStatus{Available: count == 0, Message: "Username is available"}
		if count > 0 {
			status.Message = "Username is already taken"
		}
		result.Username = &status
	}

	return result, nil
}

// GetUserByID retrieves a single user by their ID, without the password hash.
func (s *UserService) GetUserByID(id string) (models.User, error) {
	var user models.User
	row := s.db.QueryRow("SELECT id, username, email, first_name, last_name, is_active, last_login, created_at FROM users WHERE id = ?", id)
	err := row.Scan(&user.ID, &user.Username, &user.Email, &user.FirstName, &user.LastName, &user.IsActive, &user.LastLogin, &user.CreatedAt)
	if err != nil {
		if err == sql.ErrNoRows {
			return models.User{}, apperr.NotFound("User not found")
		}
		return models.User{}, apperr.Internal("Internal server error", err)
	}
	return user, nil
}
