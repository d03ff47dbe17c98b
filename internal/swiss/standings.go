// Package swiss computes tournament standings and Swiss-system pairings.
// It performs no I/O of its own.
package swiss

import (
	"sort"

	"github.com/mmynk/tournament/internal/models"
)

// BuildStandings aggregates raw players and matches into standings.
// Every player gets an entry, including those who have not played.
// Matches naming an unknown player are skipped.
// The result is ranked with Rank; players with equal wins keep id order.
func BuildStandings(players []models.Player, matches []models.Match) []models.Standing {
	index := make(map[int64]*models.Standing, len(players))
	standings := make([]models.Standing, len(players))
	for i, p := range players {
		standings[i] = models.Standing{ID: p.ID, Name: p.Name}
	}
	sort.SliceStable(standings, func(i, j int) bool {
		return standings[i].ID < standings[j].ID
	})
	for i := range standings {
		index[standings[i].ID] = &standings[i]
	}

	for _, m := range matches {
		winner := index[m.Winner]
		loser := index[m.Loser]
		if winner == nil || loser == nil {
			continue
		}
		winner.Wins++
		winner.Matches++
		loser.Matches++
	}

	Rank(standings)
	return standings
}

// Rank orders standings by wins, most first.
// The sort is stable, so ties stay in the order they arrived in.
func Rank(standings []models.Standing) {
	sort.SliceStable(standings, func(i, j int) bool {
		return standings[i].Wins > standings[j].Wins
	})
}

// IsRanked reports whether no entry has more wins than the one before it.
func IsRanked(standings []models.Standing) bool {
	for i := 1; i < len(standings); i++ {
		if standings[i].Wins > standings[i-1].Wins {
			return false
		}
	}
	return true
}
