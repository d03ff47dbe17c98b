package swiss

import (
	"context"
	"errors"
	"fmt"

	"github.com/mmynk/tournament/internal/models"
)

// ErrInvalidPlayerCount is returned when pairing an odd number of players.
var ErrInvalidPlayerCount = errors.New("invalid player count: pairing needs an even number of players")

// StandingsReader is the part of storage the pairing engine needs.
type StandingsReader interface {
	PlayerStandings(ctx context.Context) ([]models.Standing, error)
}

// Pair matches each player with the neighbour below them in the standings:
// positions (0,1), (2,3), (4,5) and so on. Standings must already be ranked.
func Pair(standings []models.Standing) ([]models.Pairing, error) {
	if len(standings)%2 != 0 {
		return nil, fmt.Errorf("%w: got %d", ErrInvalidPlayerCount, len(standings))
	}

	pairings := make([]models.Pairing, 0, len(standings)/2)
	for i := 0; i < len(standings); i += 2 {
		first, second := standings[i], standings[i+1]
		pairings = append(pairings, models.Pairing{
			ID1:   first.ID,
			Name1: first.Name,
			ID2:   second.ID,
			Name2: second.Name,
		})
	}

	return pairings, nil
}

// NextRound reads the current standings, ranks them and pairs them.
func NextRound(ctx context.Context, r StandingsReader) ([]models.Pairing, error) {
	standings, err := r.PlayerStandings(ctx)
	if err != nil {
		return nil, fmt.Errorf("failed to get standings: %w", err)
	}

	Rank(standings)
	return Pair(standings)
}

// ValidatePairings checks that every player in standings appears in exactly
// one pairing and that no pairing names anyone else.
func ValidatePairings(standings []models.Standing, pairings []models.Pairing) error {
	if len(pairings)*2 != len(standings) {
		return fmt.Errorf("expected %d pairings for %d players, got %d",
			len(standings)/2, len(standings), len(pairings))
	}

	seen := make(map[int64]int, len(standings))
	for _, st := range standings {
		seen[st.ID] = 0
	}
	for _, p := range pairings {
		for _, id := range []int64{p.ID1, p.ID2} {
			n, ok := seen[id]
			if !ok {
				return fmt.Errorf("player %d is paired but not in standings", id)
			}
			if n > 0 {
				return fmt.Errorf("player %d is paired more than once", id)
			}
			seen[id] = n + 1
		}
	}

	return nil
}
