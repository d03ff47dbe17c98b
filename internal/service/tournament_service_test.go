package service

import (
	"context"
	"io"
	"log/slog"
	"net/http"
	"net/http/httptest"
	"path/filepath"
	"testing"
	"time"

	"connectrpc.com/connect"
	dto "github.com/prometheus/client_model/go"
	"google.golang.org/protobuf/types/known/emptypb"

	"github.com/mmynk/tournament/internal/auth"
	"github.com/mmynk/tournament/internal/metrics"
	"github.com/mmynk/tournament/internal/middleware"
	"github.com/mmynk/tournament/internal/storage/sqlite"
	"github.com/mmynk/tournament/pkg/api"
)

type testClients struct {
	tournament api.TournamentServiceClient
	auth       api.AuthServiceClient
	token      string
}

// setupTestServer creates a test server with a fresh SQLite database and a
// registered organizer whose token is returned in the clients.
func setupTestServer(t *testing.T) *testClients {
	t.Helper()

	store, err := sqlite.New(filepath.Join(t.TempDir(), "test.db"))
	if err != nil {
		t.Fatalf("failed to create store: %v", err)
	}

	jwtManager := auth.NewJWTManager("test-secret", time.Hour)
	interceptors := connect.WithInterceptors(
		middleware.LoggingInterceptor(),
		middleware.RequireAuthFor(jwtManager, api.WriteProcedures...),
	)

	logger := slog.New(slog.NewTextHandler(io.Discard, nil))
	authSvc := NewAuthService(auth.NewPasswordAuthenticator(store), jwtManager, logger)
	tournamentSvc := NewTournamentService(store)

	mux := http.NewServeMux()
	mux.Handle(api.NewAuthServiceHandler(authSvc, interceptors))
	mux.Handle(api.NewTournamentServiceHandler(tournamentSvc, interceptors))

	server := httptest.NewServer(mux)
	t.Cleanup(func() {
		server.Close()
		store.Close()
	})

	clients := &testClients{
		tournament: api.NewTournamentServiceClient(http.DefaultClient, server.URL),
		auth:       api.NewAuthServiceClient(http.DefaultClient, server.URL),
	}

	resp, err := clients.auth.Register(context.Background(), connect.NewRequest(&api.RegisterRequest{
		Email:       "td@example.com",
		DisplayName: "Tournament Director",
		Password:    "correct-horse",
	}))
	if err != nil {
		t.Fatalf("Register failed: %v", err)
	}
	clients.token = resp.Msg.Token

	return clients
}

// authed wraps msg in a request carrying the organizer token.
func authed[T any](c *testClients, msg *T) *connect.Request[T] {
	req := connect.NewRequest(msg)
	req.Header().Set("Authorization", "Bearer "+c.token)
	return req
}

func empty() *emptypb.Empty { return &emptypb.Empty{} }

func registerPlayers(t *testing.T, c *testClients, names ...string) []int64 {
	t.Helper()

	ids := make([]int64, len(names))
	for i, name := range names {
		resp, err := c.tournament.RegisterPlayer(context.Background(), authed(c, &api.RegisterPlayerRequest{Name: name}))
		if err != nil {
			t.Fatalf("RegisterPlayer(%q) failed: %v", name, err)
		}
		ids[i] = resp.Msg.Player.Id
	}
	return ids
}

func reportMatch(t *testing.T, c *testClients, winner, loser int64) {
	t.Helper()

	_, err := c.tournament.ReportMatch(context.Background(), authed(c, &api.ReportMatchRequest{Winner: winner, Loser: loser}))
	if err != nil {
		t.Fatalf("ReportMatch(%d, %d) failed: %v", winner, loser, err)
	}
}

func standings(t *testing.T, c *testClients) []*api.Standing {
	t.Helper()

	resp, err := c.tournament.PlayerStandings(context.Background(), connect.NewRequest(empty()))
	if err != nil {
		t.Fatalf("PlayerStandings failed: %v", err)
	}
	return resp.Msg.Standings
}

func countPlayers(t *testing.T, c *testClients) int64 {
	t.Helper()

	resp, err := c.tournament.CountPlayers(context.Background(), connect.NewRequest(empty()))
	if err != nil {
		t.Fatalf("CountPlayers failed: %v", err)
	}
	return resp.Msg.GetValue()
}

func TestDeleteLeavesEmptyTournament(t *testing.T) {
	c := setupTestServer(t)
	ctx := context.Background()

	ids := registerPlayers(t, c, "Alice", "Bob")
	reportMatch(t, c, ids[0], ids[1])

	if _, err := c.tournament.DeletePlayers(ctx, authed(c, empty())); err != nil {
		t.Fatalf("DeletePlayers failed: %v", err)
	}
	if _, err := c.tournament.DeleteMatches(ctx, authed(c, empty())); err != nil {
		t.Fatalf("DeleteMatches failed: %v", err)
	}

	if n := countPlayers(t, c); n != 0 {
		t.Errorf("expected 0 players, got %d", n)
	}
	if st := standings(t, c); len(st) != 0 {
		t.Errorf("expected empty standings, got %d entries", len(st))
	}
}

func TestRegisterPlayerCounts(t *testing.T) {
	c := setupTestServer(t)

	for n := 1; n <= 5; n++ {
		registerPlayers(t, c, "Player")
		if got := countPlayers(t, c); got != int64(n) {
			t.Errorf("after %d registrations: count = %d", n, got)
		}
	}
}

func TestNewPlayerHasEmptyRecord(t *testing.T) {
	c := setupTestServer(t)

	ids := registerPlayers(t, c, "Melpomene Murray", "Randy Schwartz")

	st := standings(t, c)
	if len(st) != 2 {
		t.Fatalf("expected 2 standings, got %d", len(st))
	}
	for _, s := range st {
		if s.Wins != 0 || s.Matches != 0 {
			t.Errorf("player %d: %d/%d, want 0/0", s.Id, s.Wins, s.Matches)
		}
		if s.Id != ids[0] && s.Id != ids[1] {
			t.Errorf("unexpected player id %d", s.Id)
		}
	}
}

func TestReportMatchUpdatesRecords(t *testing.T) {
	c := setupTestServer(t)

	ids := registerPlayers(t, c, "Bruno Walton", "Boots O'Neal", "Cathy Burton", "Diane Grant")
	reportMatch(t, c, ids[0], ids[1])
	reportMatch(t, c, ids[2], ids[3])

	st := standings(t, c)
	for i := 1; i < len(st); i++ {
		if st[i].Wins > st[i-1].Wins {
			t.Errorf("standings not sorted by wins at %d: %+v", i, st)
		}
	}

	wantWins := map[int64]int32{ids[0]: 1, ids[1]: 0, ids[2]: 1, ids[3]: 0}
	for _, s := range st {
		if s.Matches != 1 {
			t.Errorf("player %d: matches = %d, want 1", s.Id, s.Matches)
		}
		if s.Wins != wantWins[s.Id] {
			t.Errorf("player %d: wins = %d, want %d", s.Id, s.Wins, wantWins[s.Id])
		}
	}
}

func TestSwissPairings(t *testing.T) {
	c := setupTestServer(t)
	ctx := context.Background()

	ids := registerPlayers(t, c, "Twilight Sparkle", "Fluttershy", "Applejack", "Pinkie Pie")
	reportMatch(t, c, ids[0], ids[1])
	reportMatch(t, c, ids[2], ids[3])

	st := standings(t, c)
	top := map[int64]bool{st[0].Id: true, st[1].Id: true}
	if !top[ids[0]] || !top[ids[2]] {
		t.Errorf("expected winners %d and %d ranked first, got %+v", ids[0], ids[2], st)
	}

	resp, err := c.tournament.SwissPairings(ctx, connect.NewRequest(empty()))
	if err != nil {
		t.Fatalf("SwissPairings failed: %v", err)
	}

	pairings := resp.Msg.Pairings
	if len(pairings) != 2 {
		t.Fatalf("expected 2 pairings, got %d", len(pairings))
	}

	pairOf := func(a, b int64) [2]int64 {
		if a > b {
			a, b = b, a
		}
		return [2]int64{a, b}
	}
	got := map[[2]int64]bool{}
	seen := map[int64]int{}
	for _, p := range pairings {
		got[pairOf(p.Id1, p.Id2)] = true
		seen[p.Id1]++
		seen[p.Id2]++
	}
	if !got[pairOf(ids[0], ids[2])] || !got[pairOf(ids[1], ids[3])] {
		t.Errorf("unexpected pairings %+v", pairings)
	}
	for _, id := range ids {
		if seen[id] != 1 {
			t.Errorf("player %d appears %d times", id, seen[id])
		}
	}
}

func TestSwissPairingsOddCount(t *testing.T) {
	c := setupTestServer(t)

	registerPlayers(t, c, "Alice", "Bob", "Charlie")

	_, err := c.tournament.SwissPairings(context.Background(), connect.NewRequest(empty()))
	if connect.CodeOf(err) != connect.CodeFailedPrecondition {
		t.Errorf("expected FailedPrecondition, got %v", err)
	}
}

func TestReportMatchRejectedByStorage(t *testing.T) {
	c := setupTestServer(t)

	ids := registerPlayers(t, c, "Alice")

	tests := []struct {
		name  string
		match *api.ReportMatchRequest
	}{
		{"unknown loser", &api.ReportMatchRequest{Winner: ids[0], Loser: ids[0] + 100}},
		{"self match", &api.ReportMatchRequest{Winner: ids[0], Loser: ids[0]}},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := c.tournament.ReportMatch(context.Background(), authed(c, tt.match))
			if connect.CodeOf(err) != connect.CodeFailedPrecondition {
				t.Errorf("expected FailedPrecondition, got %v", err)
			}
		})
	}
}

func TestRegisterPlayerValidation(t *testing.T) {
	c := setupTestServer(t)

	_, err := c.tournament.RegisterPlayer(context.Background(), authed(c, &api.RegisterPlayerRequest{Name: "   "}))
	if connect.CodeOf(err) != connect.CodeInvalidArgument {
		t.Errorf("expected InvalidArgument, got %v", err)
	}
}

func TestRegisterPlayerKeepsName(t *testing.T) {
	c := setupTestServer(t)

	name := "  Bruno Walton "
	resp, err := c.tournament.RegisterPlayer(context.Background(), authed(c, &api.RegisterPlayerRequest{Name: name}))
	if err != nil {
		t.Fatalf("RegisterPlayer failed: %v", err)
	}
	if resp.Msg.Player.Name != name {
		t.Errorf("registered name = %q, want %q", resp.Msg.Player.Name, name)
	}

	st := standings(t, c)
	if len(st) != 1 || st[0].Name != name {
		t.Errorf("standings = %+v, want one player named %q", st, name)
	}
}

// rejectedCount reads the Unauthenticated counter for a procedure.
func rejectedCount(t *testing.T, procedure string) float64 {
	t.Helper()

	var m dto.Metric
	counter := metrics.RPCRequests.WithLabelValues(procedure, connect.CodeUnauthenticated.String())
	if err := counter.Write(&m); err != nil {
		t.Fatalf("failed to read counter: %v", err)
	}
	return m.GetCounter().GetValue()
}

func TestWritesRequireOrganizer(t *testing.T) {
	c := setupTestServer(t)
	ctx := context.Background()

	t.Run("anonymous write rejected", func(t *testing.T) {
		before := rejectedCount(t, api.TournamentServiceRegisterPlayerProcedure)
		_, err := c.tournament.RegisterPlayer(ctx, connect.NewRequest(&api.RegisterPlayerRequest{Name: "Mallory"}))
		if connect.CodeOf(err) != connect.CodeUnauthenticated {
			t.Errorf("expected Unauthenticated, got %v", err)
		}
		if after := rejectedCount(t, api.TournamentServiceRegisterPlayerProcedure); after != before+1 {
			t.Errorf("rejected call not counted: before %v, after %v", before, after)
		}
		if n := countPlayers(t, c); n != 0 {
			t.Errorf("anonymous registration was stored: count = %d", n)
		}
	})

	t.Run("bad token rejected", func(t *testing.T) {
		req := connect.NewRequest(empty())
		req.Header().Set("Authorization", "Bearer not-a-token")
		_, err := c.tournament.DeleteMatches(ctx, req)
		if connect.CodeOf(err) != connect.CodeUnauthenticated {
			t.Errorf("expected Unauthenticated, got %v", err)
		}
	})

	t.Run("anonymous read allowed", func(t *testing.T) {
		standings(t, c)
	})
}

func TestAuthService(t *testing.T) {
	c := setupTestServer(t)
	ctx := context.Background()

	t.Run("login returns a working token", func(t *testing.T) {
		resp, err := c.auth.Login(ctx, connect.NewRequest(&api.LoginRequest{
			Email:    "td@example.com",
			Password: "correct-horse",
		}))
		if err != nil {
			t.Fatalf("Login failed: %v", err)
		}
		if resp.Msg.Organizer.Email != "td@example.com" {
			t.Errorf("email: got %q", resp.Msg.Organizer.Email)
		}

		c2 := &testClients{tournament: c.tournament, token: resp.Msg.Token}
		registerPlayers(t, c2, "Logged In")
	})

	t.Run("wrong password", func(t *testing.T) {
		_, err := c.auth.Login(ctx, connect.NewRequest(&api.LoginRequest{
			Email:    "td@example.com",
			Password: "battery-staple",
		}))
		if connect.CodeOf(err) != connect.CodeUnauthenticated {
			t.Errorf("expected Unauthenticated, got %v", err)
		}
	})

	t.Run("duplicate email", func(t *testing.T) {
		_, err := c.auth.Register(ctx, connect.NewRequest(&api.RegisterRequest{
			Email:       "td@example.com",
			DisplayName: "Again",
			Password:    "another-password",
		}))
		if connect.CodeOf(err) != connect.CodeAlreadyExists {
			t.Errorf("expected AlreadyExists, got %v", err)
		}
	})
}
