package service

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"strings"

	"connectrpc.com/connect"
	"google.golang.org/protobuf/types/known/emptypb"
	"google.golang.org/protobuf/types/known/wrapperspb"

	"github.com/mmynk/tournament/internal/metrics"
	"github.com/mmynk/tournament/internal/models"
	"github.com/mmynk/tournament/internal/storage"
	"github.com/mmynk/tournament/internal/swiss"
	"github.com/mmynk/tournament/pkg/api"
)

// Ensure TournamentService implements the Connect handler interface
var _ api.TournamentServiceHandler = (*TournamentService)(nil)

// TournamentService implements the Connect TournamentService
type TournamentService struct {
	store storage.Store
}

// NewTournamentService creates a new TournamentService with the given storage backend.
func NewTournamentService(store storage.Store) *TournamentService {
	return &TournamentService{store: store}
}

// toConnectError maps domain and storage errors onto Connect codes.
func toConnectError(err error) *connect.Error {
	switch {
	case errors.Is(err, swiss.ErrInvalidPlayerCount):
		return connect.NewError(connect.CodeFailedPrecondition, err)
	case errors.Is(err, storage.ErrConstraint):
		return connect.NewError(connect.CodeFailedPrecondition, err)
	case errors.Is(err, storage.ErrNotFound):
		return connect.NewError(connect.CodeNotFound, err)
	case errors.Is(err, storage.ErrUnavailable):
		return connect.NewError(connect.CodeUnavailable, err)
	case errors.Is(err, context.Canceled):
		return connect.NewError(connect.CodeCanceled, err)
	case errors.Is(err, context.DeadlineExceeded):
		return connect.NewError(connect.CodeDeadlineExceeded, err)
	}
	return connect.NewError(connect.CodeInternal, err)
}

// DeleteMatches removes every match record.
func (s *TournamentService) DeleteMatches(ctx context.Context, req *connect.Request[emptypb.Empty]) (*connect.Response[emptypb.Empty], error) {
	slog.Info("DeleteMatches request received")

	if err := s.store.DeleteMatches(ctx); err != nil {
		slog.Error("DeleteMatches failed", "error", err)
		return nil, toConnectError(err)
	}

	slog.Info("Matches deleted")
	return connect.NewResponse(&emptypb.Empty{}), nil
}

// DeletePlayers removes every player and, with them, every match.
func (s *TournamentService) DeletePlayers(ctx context.Context, req *connect.Request[emptypb.Empty]) (*connect.Response[emptypb.Empty], error) {
	slog.Info("DeletePlayers request received")

	if err := s.store.DeletePlayers(ctx); err != nil {
		slog.Error("DeletePlayers failed", "error", err)
		return nil, toConnectError(err)
	}

	slog.Info("Players deleted")
	return connect.NewResponse(&emptypb.Empty{}), nil
}

// CountPlayers returns the number of registered players.
func (s *TournamentService) CountPlayers(ctx context.Context, req *connect.Request[emptypb.Empty]) (*connect.Response[wrapperspb.Int64Value], error) {
	count, err := s.store.CountPlayers(ctx)
	if err != nil {
		slog.Error("CountPlayers failed", "error", err)
		return nil, toConnectError(err)
	}

	slog.Debug("CountPlayers successful", "count", count)
	return connect.NewResponse(wrapperspb.Int64(int64(count))), nil
}

// RegisterPlayer adds a player. Names need not be unique and are stored
// as given; only blank names are rejected.
func (s *TournamentService) RegisterPlayer(ctx context.Context, req *connect.Request[api.RegisterPlayerRequest]) (*connect.Response[api.RegisterPlayerResponse], error) {
	name := req.Msg.Name
	slog.Info("RegisterPlayer request received", "name", name)

	if strings.TrimSpace(name) == "" {
		return nil, connect.NewError(connect.CodeInvalidArgument, fmt.Errorf("name required"))
	}

	player := &models.Player{Name: name}
	if err := s.store.RegisterPlayer(ctx, player); err != nil {
		slog.Error("RegisterPlayer failed", "name", name, "error", err)
		return nil, toConnectError(err)
	}
	metrics.PlayersRegistered.Inc()

	slog.Info("Player registered", "player_id", player.ID, "name", player.Name)

	return connect.NewResponse(&api.RegisterPlayerResponse{
		Player: &api.Player{Id: player.ID, Name: player.Name},
	}), nil
}

// ReportMatch records a result. The players are not checked here; the
// store rejects ids it does not know.
func (s *TournamentService) ReportMatch(ctx context.Context, req *connect.Request[api.ReportMatchRequest]) (*connect.Response[emptypb.Empty], error) {
	slog.Info("ReportMatch request received", "winner", req.Msg.Winner, "loser", req.Msg.Loser)

	match := models.Match{Winner: req.Msg.Winner, Loser: req.Msg.Loser}
	if err := s.store.ReportMatch(ctx, match); err != nil {
		slog.Error("ReportMatch failed", "winner", match.Winner, "loser", match.Loser, "error", err)
		return nil, toConnectError(err)
	}
	metrics.MatchesReported.Inc()

	slog.Info("Match reported", "winner", match.Winner, "loser", match.Loser)
	return connect.NewResponse(&emptypb.Empty{}), nil
}

// PlayerStandings returns every player ranked by wins.
func (s *TournamentService) PlayerStandings(ctx context.Context, req *connect.Request[emptypb.Empty]) (*connect.Response[api.PlayerStandingsResponse], error) {
	standings, err := s.store.PlayerStandings(ctx)
	if err != nil {
		slog.Error("PlayerStandings failed", "error", err)
		return nil, toConnectError(err)
	}
	swiss.Rank(standings)

	pbStandings := make([]*api.Standing, len(standings))
	for i, st := range standings {
		pbStandings[i] = &api.Standing{
			Id:      st.ID,
			Name:    st.Name,
			Wins:    int32(st.Wins),
			Matches: int32(st.Matches),
		}
	}

	slog.Info("PlayerStandings successful", "players_count", len(standings))

	return connect.NewResponse(&api.PlayerStandingsResponse{
		Standings: pbStandings,
	}), nil
}

// SwissPairings pairs adjacent players in the current standings.
func (s *TournamentService) SwissPairings(ctx context.Context, req *connect.Request[emptypb.Empty]) (*connect.Response[api.SwissPairingsResponse], error) {
	slog.Info("SwissPairings request received")

	pairings, err := swiss.NextRound(ctx, s.store)
	if err != nil {
		slog.Error("SwissPairings failed", "error", err)
		return nil, toConnectError(err)
	}
	metrics.RoundPairings.Set(float64(len(pairings)))

	pbPairings := make([]*api.Pairing, len(pairings))
	for i, p := range pairings {
		pbPairings[i] = &api.Pairing{
			Id1:   p.ID1,
			Name1: p.Name1,
			Id2:   p.ID2,
			Name2: p.Name2,
		}
	}

	slog.Info("SwissPairings successful", "pairings_count", len(pairings))

	return connect.NewResponse(&api.SwissPairingsResponse{
		Pairings: pbPairings,
	}), nil
}
