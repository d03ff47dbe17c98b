package models

import (
	"time"

	"github.com/google/uuid"
)

// Organizer is an account that may register players, report results
// and clear the tournament. Reading standings and pairings needs no account.
type Organizer struct {
	// ID is the unique identifier for the organizer (UUID format).
	ID string

	// Email is used for login and is unique.
	Email string

	DisplayName string

	// PasswordHash is the bcrypt hash of the organizer's password.
	PasswordHash string

	// CreatedAt and UpdatedAt are Unix timestamps.
	CreatedAt int64
	UpdatedAt int64
}

// NewOrganizer builds an organizer with a fresh id and timestamps.
func NewOrganizer(email, displayName, passwordHash string) *Organizer {
	now := time.Now().Unix()
	return &Organizer{
		ID:           uuid.New().String(),
		Email:        email,
		DisplayName:  displayName,
		PasswordHash: passwordHash,
		CreatedAt:    now,
		UpdatedAt:    now,
	}
}
