package sqlite

import (
	"context"
	"fmt"

	"github.com/mmynk/tournament/internal/models"
)

// RegisterPlayer inserts a new player and fills in the id SQLite assigned.
func (s *SQLiteStore) RegisterPlayer(ctx context.Context, player *models.Player) error {
	result, err := s.db.ExecContext(ctx,
		"INSERT INTO players (name) VALUES (?)",
		player.Name,
	)
	if err != nil {
		return fmt.Errorf("failed to insert player: %w", classify(err))
	}

	id, err := result.LastInsertId()
	if err != nil {
		return fmt.Errorf("failed to read player id: %w", err)
	}
	player.ID = id

	return nil
}

// CountPlayers returns the number of registered players.
func (s *SQLiteStore) CountPlayers(ctx context.Context) (int, error) {
	var count int
	if err := s.db.QueryRowContext(ctx, "SELECT COUNT(*) FROM players").Scan(&count); err != nil {
		return 0, fmt.Errorf("failed to count players: %w", classify(err))
	}
	return count, nil
}

// DeletePlayers removes every player. Matches referencing them cascade.
func (s *SQLiteStore) DeletePlayers(ctx context.Context) error {
	if _, err := s.db.ExecContext(ctx, "DELETE FROM players"); err != nil {
		return fmt.Errorf("failed to delete players: %w", classify(err))
	}
	return nil
}

// ListPlayers returns all players in registration order.
func (s *SQLiteStore) ListPlayers(ctx context.Context) ([]models.Player, error) {
	rows, err := s.db.QueryContext(ctx, "SELECT id, name FROM players ORDER BY id")
	if err != nil {
		return nil, fmt.Errorf("failed to list players: %w", classify(err))
	}
	defer rows.Close()

	var players []models.Player
	for rows.Next() {
		var p models.Player
		if err := rows.Scan(&p.ID, &p.Name); err != nil {
			return nil, fmt.Errorf("failed to scan player: %w", err)
		}
		players = append(players, p)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("failed to iterate players: %w", err)
	}

	return players, nil
}

// PlayerStandings reads the wins_matches view joined back to players.
func (s *SQLiteStore) PlayerStandings(ctx context.Context) ([]models.Standing, error) {
	query := `
		SELECT p.id, p.name, w.wins, w.matches
		FROM players p
		JOIN wins_matches w ON w.id = p.id
		ORDER BY w.wins DESC
	`

	rows, err := s.db.QueryContext(ctx, query)
	if err != nil {
		return nil, fmt.Errorf("failed to get standings: %w", classify(err))
	}
	defer rows.Close()

	standings := []models.Standing{}
	for rows.Next() {
		var st models.Standing
		if err := rows.Scan(&st.ID, &st.Name, &st.Wins, &st.Matches); err != nil {
			return nil, fmt.Errorf("failed to scan standing: %w", err)
		}
		standings = append(standings, st)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("failed to iterate standings: %w", err)
	}

	return standings, nil
}
