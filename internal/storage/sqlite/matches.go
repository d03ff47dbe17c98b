package sqlite

import (
	"context"
	"fmt"

	"github.com/mmynk/tournament/internal/models"
)

// ReportMatch records a single result. Unknown player ids and self-matches
// are rejected by the schema and surface as storage.ErrConstraint.
func (s *SQLiteStore) ReportMatch(ctx context.Context, match models.Match) error {
	_, err := s.db.ExecContext(ctx,
		"INSERT INTO matches (winner, loser) VALUES (?, ?)",
		match.Winner, match.Loser,
	)
	if err != nil {
		return fmt.Errorf("failed to insert match: %w", classify(err))
	}
	return nil
}

// DeleteMatches removes every match record.
func (s *SQLiteStore) DeleteMatches(ctx context.Context) error {
	if _, err := s.db.ExecContext(ctx, "DELETE FROM matches"); err != nil {
		return fmt.Errorf("failed to delete matches: %w", classify(err))
	}
	return nil
}

// ListMatches returns all matches in the order they were reported.
func (s *SQLiteStore) ListMatches(ctx context.Context) ([]models.Match, error) {
	rows, err := s.db.QueryContext(ctx, "SELECT winner, loser FROM matches ORDER BY id")
	if err != nil {
		return nil, fmt.Errorf("failed to list matches: %w", classify(err))
	}
	defer rows.Close()

	var matches []models.Match
	for rows.Next() {
		var m models.Match
		if err := rows.Scan(&m.Winner, &m.Loser); err != nil {
			return nil, fmt.Errorf("failed to scan match: %w", err)
		}
		matches = append(matches, m)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("failed to iterate matches: %w", err)
	}

	return matches, nil
}
