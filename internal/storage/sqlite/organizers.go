package sqlite

import (
	"context"
	"database/sql"
	"errors"
	"fmt"

	"github.com/mmynk/tournament/internal/models"
	"github.com/mmynk/tournament/internal/storage"
)

// CreateOrganizer inserts a new organizer into the database.
// A duplicate email is reported as storage.ErrConstraint.
func (s *SQLiteStore) CreateOrganizer(ctx context.Context, organizer *models.Organizer) error {
	query := `
		INSERT INTO organizers (id, email, display_name, password_hash, created_at, updated_at)
		VALUES (?, ?, ?, ?, ?, ?)
	`

	_, err := s.db.ExecContext(ctx, query,
		organizer.ID,
		organizer.Email,
		organizer.DisplayName,
		organizer.PasswordHash,
		organizer.CreatedAt,
		organizer.UpdatedAt,
	)
	if err != nil {
		return fmt.Errorf("failed to create organizer: %w", classify(err))
	}

	return nil
}

// GetOrganizerByEmail retrieves an organizer by email address.
func (s *SQLiteStore) GetOrganizerByEmail(ctx context.Context, email string) (*models.Organizer, error) {
	return s.getOrganizer(ctx, "email", email)
}

// GetOrganizerByID retrieves an organizer by id.
func (s *SQLiteStore) GetOrganizerByID(ctx context.Context, id string) (*models.Organizer, error) {
	return s.getOrganizer(ctx, "id", id)
}

// getOrganizer looks an organizer up by one column. column is never user input.
func (s *SQLiteStore) getOrganizer(ctx context.Context, column, value string) (*models.Organizer, error) {
	query := `
		SELECT id, email, display_name, password_hash, created_at, updated_at
		FROM organizers
		WHERE ` + column + ` = ?`

	o := &models.Organizer{}
	err := s.db.QueryRowContext(ctx, query, value).Scan(
		&o.ID,
		&o.Email,
		&o.DisplayName,
		&o.PasswordHash,
		&o.CreatedAt,
		&o.UpdatedAt,
	)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, fmt.Errorf("organizer %s: %w", value, storage.ErrNotFound)
	}
	if err != nil {
		return nil, fmt.Errorf("failed to get organizer by %s: %w", column, classify(err))
	}

	return o, nil
}
