package postgres

import (
	"context"
	"errors"
	"os"
	"path/filepath"
	"testing"

	"github.com/glebarez/sqlite"

	"github.com/mmynk/tournament/internal/models"
	"github.com/mmynk/tournament/internal/storage"
	"github.com/mmynk/tournament/internal/swiss"
)

// newTestStore runs against PostgreSQL when TOURNAMENT_POSTGRES_DSN is set
// and against a pure-Go SQLite file otherwise.
func newTestStore(t *testing.T) *GormStore {
	t.Helper()

	var (
		store *GormStore
		err   error
	)
	if dsn := os.Getenv("TOURNAMENT_POSTGRES_DSN"); dsn != "" {
		store, err = New(dsn)
	} else {
		dbPath := filepath.Join(t.TempDir(), "test.db")
		store, err = Open(sqlite.Open(dbPath + "?_pragma=foreign_keys(1)"))
	}
	if err != nil {
		t.Fatalf("Failed to create store: %v", err)
	}
	t.Cleanup(func() { store.Close() })

	ctx := context.Background()
	if err := store.DeleteMatches(ctx); err != nil {
		t.Fatalf("DeleteMatches failed: %v", err)
	}
	if err := store.DeletePlayers(ctx); err != nil {
		t.Fatalf("DeletePlayers failed: %v", err)
	}
	return store
}

func TestGormStoreScenario(t *testing.T) {
	store := newTestStore(t)
	ctx := context.Background()

	count, err := store.CountPlayers(ctx)
	if err != nil {
		t.Fatalf("CountPlayers failed: %v", err)
	}
	if count != 0 {
		t.Fatalf("Expected empty store, got %d players", count)
	}

	names := []string{"Twilight Sparkle", "Fluttershy", "Applejack", "Pinkie Pie"}
	ids := make([]int64, len(names))
	for i, name := range names {
		p := &models.Player{Name: name}
		if err := store.RegisterPlayer(ctx, p); err != nil {
			t.Fatalf("RegisterPlayer failed: %v", err)
		}
		ids[i] = p.ID
	}

	count, err = store.CountPlayers(ctx)
	if err != nil {
		t.Fatalf("CountPlayers failed: %v", err)
	}
	if count != len(names) {
		t.Errorf("Expected %d players, got %d", len(names), count)
	}

	standings, err := store.PlayerStandings(ctx)
	if err != nil {
		t.Fatalf("PlayerStandings failed: %v", err)
	}
	for _, st := range standings {
		if st.Wins != 0 || st.Matches != 0 {
			t.Errorf("Player %d: got %d/%d before any match", st.ID, st.Wins, st.Matches)
		}
	}

	for _, m := range []models.Match{{Winner: ids[0], Loser: ids[1]}, {Winner: ids[2], Loser: ids[3]}} {
		if err := store.ReportMatch(ctx, m); err != nil {
			t.Fatalf("ReportMatch failed: %v", err)
		}
	}

	pairings, err := swiss.NextRound(ctx, store)
	if err != nil {
		t.Fatalf("NextRound failed: %v", err)
	}
	if len(pairings) != 2 {
		t.Fatalf("Expected 2 pairings, got %d", len(pairings))
	}

	winners := map[int64]bool{ids[0]: true, ids[2]: true}
	if !winners[pairings[0].ID1] || !winners[pairings[0].ID2] {
		t.Errorf("Expected winners paired together, got %+v", pairings[0])
	}
	if winners[pairings[1].ID1] || winners[pairings[1].ID2] {
		t.Errorf("Expected losers paired together, got %+v", pairings[1])
	}
}

func TestGormStoreReportMatchConstraints(t *testing.T) {
	store := newTestStore(t)
	ctx := context.Background()

	alice := &models.Player{Name: "Alice"}
	bob := &models.Player{Name: "Bob"}
	for _, p := range []*models.Player{alice, bob} {
		if err := store.RegisterPlayer(ctx, p); err != nil {
			t.Fatalf("RegisterPlayer failed: %v", err)
		}
	}

	tests := []struct {
		name  string
		match models.Match
	}{
		{"unknown winner", models.Match{Winner: bob.ID + 1000, Loser: bob.ID}},
		{"unknown loser", models.Match{Winner: alice.ID, Loser: bob.ID + 1000}},
		{"player against self", models.Match{Winner: alice.ID, Loser: alice.ID}},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			err := store.ReportMatch(ctx, tt.match)
			if !errors.Is(err, storage.ErrConstraint) {
				t.Errorf("Expected ErrConstraint, got %v", err)
			}
		})
	}

	matches, err := store.ListMatches(ctx)
	if err != nil {
		t.Fatalf("ListMatches failed: %v", err)
	}
	if len(matches) != 0 {
		t.Errorf("Rejected matches were stored: %+v", matches)
	}
}

func TestGormStoreDeletePlayersCascades(t *testing.T) {
	store := newTestStore(t)
	ctx := context.Background()

	a := &models.Player{Name: "Alice"}
	b := &models.Player{Name: "Bob"}
	for _, p := range []*models.Player{a, b} {
		if err := store.RegisterPlayer(ctx, p); err != nil {
			t.Fatalf("RegisterPlayer failed: %v", err)
		}
	}
	if err := store.ReportMatch(ctx, models.Match{Winner: a.ID, Loser: b.ID}); err != nil {
		t.Fatalf("ReportMatch failed: %v", err)
	}

	if err := store.DeletePlayers(ctx); err != nil {
		t.Fatalf("DeletePlayers failed: %v", err)
	}

	matches, err := store.ListMatches(ctx)
	if err != nil {
		t.Fatalf("ListMatches failed: %v", err)
	}
	if len(matches) != 0 {
		t.Errorf("Expected no matches after DeletePlayers, got %d", len(matches))
	}
}

func TestGormStoreOrganizers(t *testing.T) {
	store := newTestStore(t)
	ctx := context.Background()

	o := models.NewOrganizer("", "Director", "hash")
	o.Email = o.ID + "@example.com"
	if err := store.CreateOrganizer(ctx, o); err != nil {
		t.Fatalf("CreateOrganizer failed: %v", err)
	}

	got, err := store.GetOrganizerByID(ctx, o.ID)
	if err != nil {
		t.Fatalf("GetOrganizerByID failed: %v", err)
	}
	if got.Email != o.Email || got.CreatedAt != o.CreatedAt {
		t.Errorf("Got %+v, want %+v", got, o)
	}

	if _, err := store.GetOrganizerByEmail(ctx, "missing@example.com"); !errors.Is(err, storage.ErrNotFound) {
		t.Errorf("Expected ErrNotFound, got %v", err)
	}
}
