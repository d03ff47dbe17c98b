// Package storage provides abstractions for persistent tournament storage.
package storage

import (
	"context"
	"errors"

	"github.com/mmynk/tournament/internal/models"
)

var (
	// ErrUnavailable reports that the database could not be reached.
	ErrUnavailable = errors.New("storage unavailable")

	// ErrConstraint reports a write rejected by a schema constraint,
	// such as a match naming a player that does not exist.
	ErrConstraint = errors.New("constraint violation")

	// ErrNotFound reports a lookup that matched no row.
	ErrNotFound = errors.New("not found")
)

// Store defines the interface for tournament storage operations.
// This abstraction allows swapping storage backends (SQLite, PostgreSQL)
// without changing the service layer.
//
// Every method is a self-contained unit of work: it acquires what it needs
// from the underlying pool, commits if it wrote, and releases everything
// before returning.
type Store interface {
	// DeleteMatches removes every match record.
	DeleteMatches(ctx context.Context) error

	// DeletePlayers removes every player. Their matches go with them.
	DeletePlayers(ctx context.Context) error

	// CountPlayers returns the number of registered players.
	CountPlayers(ctx context.Context) (int, error)

	// RegisterPlayer persists a new player.
	// The player.ID field will be populated by the store.
	RegisterPlayer(ctx context.Context, player *models.Player) error

	// ReportMatch records the outcome of a single match.
	ReportMatch(ctx context.Context, match models.Match) error

	// PlayerStandings returns one entry per registered player,
	// ordered by wins descending. Order among equal wins is unspecified.
	PlayerStandings(ctx context.Context) ([]models.Standing, error)

	// ListPlayers returns every registered player ordered by id.
	ListPlayers(ctx context.Context) ([]models.Player, error)

	// ListMatches returns every recorded match in the order it was reported.
	ListMatches(ctx context.Context) ([]models.Match, error)

	// Close releases any resources held by the store.
	Close() error
}

// OrganizerStore persists organizer accounts.
type OrganizerStore interface {
	CreateOrganizer(ctx context.Context, organizer *models.Organizer) error

	// GetOrganizerByEmail returns ErrNotFound when no organizer uses the email.
	GetOrganizerByEmail(ctx context.Context, email string) (*models.Organizer, error)

	// GetOrganizerByID returns ErrNotFound when the id is unknown.
	GetOrganizerByID(ctx context.Context, id string) (*models.Organizer, error)
}
