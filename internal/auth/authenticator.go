package auth

import (
	"context"

	"github.com/mmynk/tournament/internal/models"
)

// Authenticator defines the interface for organizer authentication.
// This abstraction allows swapping between different auth methods
// without changing the service layer code.
type Authenticator interface {
	// Register creates a new organizer account with the given email and credential.
	Register(ctx context.Context, email, displayName, credential string) (*models.Organizer, error)

	// Authenticate verifies the organizer's credentials and returns the account if successful.
	Authenticate(ctx context.Context, email, credential string) (*models.Organizer, error)

	// ValidateCredential checks if the credential meets the implementation's requirements.
	ValidateCredential(credential string) error
}
