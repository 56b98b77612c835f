package models

import "time"

// User represents a user account in the system.
type User struct {
	ID           string     `json:"id"`
	Username     string     `json:"username"`
	Email        string     `json:"email"`
	PasswordHash string     `json:"-"` // Never expose this to the client
	FirstName    string     `json:"firstName"`
	LastName     string     `json:"lastName"`
	IsActive     bool       `json:"isActive"`
	LastLogin    *time.Time `json:"lastLogin,omitempty"`
	CreatedAt    time.Time  `json:"createdAt"`
}

// FullName returns the display name snapshotted onto comments at creation time.
func (u User) FullName() string {
	return u.FirstName + " " + u.LastName
}
