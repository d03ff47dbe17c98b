package api

import (
	"context"
	"net/http"
	"strings"

	"connectrpc.com/connect"
	"google.golang.org/protobuf/types/known/emptypb"
	"google.golang.org/protobuf/types/known/wrapperspb"
)

const (
	// TournamentServiceName is the fully-qualified name of the TournamentService service.
	TournamentServiceName = "swiss.v1.TournamentService"
	// AuthServiceName is the fully-qualified name of the AuthService service.
	AuthServiceName = "swiss.v1.AuthService"
)

// Procedure paths, as mounted on an http.ServeMux.
const (
	TournamentServiceDeleteMatchesProcedure   = "/swiss.v1.TournamentService/DeleteMatches"
	TournamentServiceDeletePlayersProcedure   = "/swiss.v1.TournamentService/DeletePlayers"
	TournamentServiceCountPlayersProcedure    = "/swiss.v1.TournamentService/CountPlayers"
	TournamentServiceRegisterPlayerProcedure  = "/swiss.v1.TournamentService/RegisterPlayer"
	TournamentServiceReportMatchProcedure     = "/swiss.v1.TournamentService/ReportMatch"
	TournamentServicePlayerStandingsProcedure = "/swiss.v1.TournamentService/PlayerStandings"
	TournamentServiceSwissPairingsProcedure   = "/swiss.v1.TournamentService/SwissPairings"

	AuthServiceRegisterProcedure = "/swiss.v1.AuthService/Register"
	AuthServiceLoginProcedure    = "/swiss.v1.AuthService/Login"
)

// WriteProcedures change tournament state and need an organizer token.
var WriteProcedures = []string{
	TournamentServiceDeleteMatchesProcedure,
	TournamentServiceDeletePlayersProcedure,
	TournamentServiceRegisterPlayerProcedure,
	TournamentServiceReportMatchProcedure,
}

// TournamentServiceHandler is implemented by the server side of swiss.v1.TournamentService.
type TournamentServiceHandler interface {
	DeleteMatches(context.Context, *connect.Request[emptypb.Empty]) (*connect.Response[emptypb.Empty], error)
	DeletePlayers(context.Context, *connect.Request[emptypb.Empty]) (*connect.Response[emptypb.Empty], error)
	CountPlayers(context.Context, *connect.Request[emptypb.Empty]) (*connect.Response[wrapperspb.Int64Value], error)
	RegisterPlayer(context.Context, *connect.Request[RegisterPlayerRequest]) (*connect.Response[RegisterPlayerResponse], error)
	ReportMatch(context.Context, *connect.Request[ReportMatchRequest]) (*connect.Response[emptypb.Empty], error)
	PlayerStandings(context.Context, *connect.Request[emptypb.Empty]) (*connect.Response[PlayerStandingsResponse], error)
	SwissPairings(context.Context, *connect.Request[emptypb.Empty]) (*connect.Response[SwissPairingsResponse], error)
}

// TournamentServiceClient is a client for swiss.v1.TournamentService.
type TournamentServiceClient interface {
	DeleteMatches(context.Context, *connect.Request[emptypb.Empty]) (*connect.Response[emptypb.Empty], error)
	DeletePlayers(context.Context, *connect.Request[emptypb.Empty]) (*connect.Response[emptypb.Empty], error)
	CountPlayers(context.Context, *connect.Request[emptypb.Empty]) (*connect.Response[wrapperspb.Int64Value], error)
	RegisterPlayer(context.Context, *connect.Request[RegisterPlayerRequest]) (*connect.Response[RegisterPlayerResponse], error)
	ReportMatch(context.Context, *connect.Request[ReportMatchRequest]) (*connect.Response[emptypb.Empty], error)
	PlayerStandings(context.Context, *connect.Request[emptypb.Empty]) (*connect.Response[PlayerStandingsResponse], error)
	SwissPairings(context.Context, *connect.Request[emptypb.Empty]) (*connect.Response[SwissPairingsResponse], error)
}

// AuthServiceHandler is implemented by the server side of swiss.v1.AuthService.
type AuthServiceHandler interface {
	Register(context.Context, *connect.Request[RegisterRequest]) (*connect.Response[RegisterResponse], error)
	Login(context.Context, *connect.Request[LoginRequest]) (*connect.Response[LoginResponse], error)
}

// AuthServiceClient is a client for swiss.v1.AuthService.
type AuthServiceClient interface {
	Register(context.Context, *connect.Request[RegisterRequest]) (*connect.Response[RegisterResponse], error)
	Login(context.Context, *connect.Request[LoginRequest]) (*connect.Response[LoginResponse], error)
}

func handlerOptions(opts []connect.HandlerOption) []connect.HandlerOption {
	return append([]connect.HandlerOption{connect.WithCodec(jsonCodec{})}, opts...)
}

func clientOptions(opts []connect.ClientOption) []connect.ClientOption {
	return append([]connect.ClientOption{connect.WithCodec(jsonCodec{})}, opts...)
}

// NewTournamentServiceHandler builds an HTTP handler from the service
// implementation. It returns the path on which to mount the handler and the
// handler itself.
func NewTournamentServiceHandler(svc TournamentServiceHandler, opts ...connect.HandlerOption) (string, http.Handler) {
	opts = handlerOptions(opts)
	routes := map[string]http.Handler{
		TournamentServiceDeleteMatchesProcedure:   connect.NewUnaryHandler(TournamentServiceDeleteMatchesProcedure, svc.DeleteMatches, opts...),
		TournamentServiceDeletePlayersProcedure:   connect.NewUnaryHandler(TournamentServiceDeletePlayersProcedure, svc.DeletePlayers, opts...),
		TournamentServiceCountPlayersProcedure:    connect.NewUnaryHandler(TournamentServiceCountPlayersProcedure, svc.CountPlayers, opts...),
		TournamentServiceRegisterPlayerProcedure:  connect.NewUnaryHandler(TournamentServiceRegisterPlayerProcedure, svc.RegisterPlayer, opts...),
		TournamentServiceReportMatchProcedure:     connect.NewUnaryHandler(TournamentServiceReportMatchProcedure, svc.ReportMatch, opts...),
		TournamentServicePlayerStandingsProcedure: connect.NewUnaryHandler(TournamentServicePlayerStandingsProcedure, svc.PlayerStandings, opts...),
		TournamentServiceSwissPairingsProcedure:   connect.NewUnaryHandler(TournamentServiceSwissPairingsProcedure, svc.SwissPairings, opts...),
	}
	return "/" + TournamentServiceName + "/", router(routes)
}

// NewAuthServiceHandler builds an HTTP handler for AuthService.
func NewAuthServiceHandler(svc AuthServiceHandler, opts ...connect.HandlerOption) (string, http.Handler) {
	opts = handlerOptions(opts)
	routes := map[string]http.Handler{
		AuthServiceRegisterProcedure: connect.NewUnaryHandler(AuthServiceRegisterProcedure, svc.Register, opts...),
		AuthServiceLoginProcedure:    connect.NewUnaryHandler(AuthServiceLoginProcedure, svc.Login, opts...),
	}
	return "/" + AuthServiceName + "/", router(routes)
}

func router(routes map[string]http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		h, ok := routes[r.URL.Path]
		if !ok {
			http.NotFound(w, r)
			return
		}
		h.ServeHTTP(w, r)
	})
}

// NewTournamentServiceClient constructs a client for swiss.v1.TournamentService.
// baseURL is the server root, for example http://localhost:8080.
func NewTournamentServiceClient(httpClient connect.HTTPClient, baseURL string, opts ...connect.ClientOption) TournamentServiceClient {
	baseURL = strings.TrimRight(baseURL, "/")
	opts = clientOptions(opts)
	return &tournamentServiceClient{
		deleteMatches:   connect.NewClient[emptypb.Empty, emptypb.Empty](httpClient, baseURL+TournamentServiceDeleteMatchesProcedure, opts...),
		deletePlayers:   connect.NewClient[emptypb.Empty, emptypb.Empty](httpClient, baseURL+TournamentServiceDeletePlayersProcedure, opts...),
		countPlayers:    connect.NewClient[emptypb.Empty, wrapperspb.Int64Value](httpClient, baseURL+TournamentServiceCountPlayersProcedure, opts...),
		registerPlayer:  connect.NewClient[RegisterPlayerRequest, RegisterPlayerResponse](httpClient, baseURL+TournamentServiceRegisterPlayerProcedure, opts...),
		reportMatch:     connect.NewClient[ReportMatchRequest, emptypb.Empty](httpClient, baseURL+TournamentServiceReportMatchProcedure, opts...),
		playerStandings: connect.NewClient[emptypb.Empty, PlayerStandingsResponse](httpClient, baseURL+TournamentServicePlayerStandingsProcedure, opts...),
		swissPairings:   connect.NewClient[emptypb.Empty, SwissPairingsResponse](httpClient, baseURL+TournamentServiceSwissPairingsProcedure, opts...),
	}
}

type tournamentServiceClient struct {
	deleteMatches   *connect.Client[emptypb.Empty, emptypb.Empty]
	deletePlayers   *connect.Client[emptypb.Empty, emptypb.Empty]
	countPlayers    *connect.Client[emptypb.Empty, wrapperspb.Int64Value]
	registerPlayer  *connect.Client[RegisterPlayerRequest, RegisterPlayerResponse]
	reportMatch     *connect.Client[ReportMatchRequest, emptypb.Empty]
	playerStandings *connect.Client[emptypb.Empty, PlayerStandingsResponse]
	swissPairings   *connect.Client[emptypb.Empty, SwissPairingsResponse]
}

func (c *tournamentServiceClient) DeleteMatches(ctx context.Context, req *connect.Request[emptypb.Empty]) (*connect.Response[emptypb.Empty], error) {
	return c.deleteMatches.CallUnary(ctx, req)
}

func (c *tournamentServiceClient) DeletePlayers(ctx context.Context, req *connect.Request[emptypb.Empty]) (*connect.Response[emptypb.Empty], error) {
	return c.deletePlayers.CallUnary(ctx, req)
}

func (c *tournamentServiceClient) CountPlayers(ctx context.Context, req *connect.Request[emptypb.Empty]) (*connect.Response[wrapperspb.Int64Value], error) {
	return c.countPlayers.CallUnary(ctx, req)
}

func (c *tournamentServiceClient) RegisterPlayer(ctx context.Context, req *connect.Request[RegisterPlayerRequest]) (*connect.Response[RegisterPlayerResponse], error) {
	return c.registerPlayer.CallUnary(ctx, req)
}

func (c *tournamentServiceClient) ReportMatch(ctx context.Context, req *connect.Request[ReportMatchRequest]) (*connect.Response[emptypb.Empty], error) {
	return c.reportMatch.CallUnary(ctx, req)
}

func (c *tournamentServiceClient) PlayerStandings(ctx context.Context, req *connect.Request[emptypb.Empty]) (*connect.Response[PlayerStandingsResponse], error) {
	return c.playerStandings.CallUnary(ctx, req)
}

func (c *tournamentServiceClient) SwissPairings(ctx context.Context, req *connect.Request[emptypb.Empty]) (*connect.Response[SwissPairingsResponse], error) {
	return c.swissPairings.CallUnary(ctx, req)
}

// NewAuthServiceClient constructs a client for swiss.v1.AuthService.
func NewAuthServiceClient(httpClient connect.HTTPClient, baseURL string, opts ...connect.ClientOption) AuthServiceClient {
	baseURL = strings.TrimRight(baseURL, "/")
	opts = clientOptions(opts)
	return &authServiceClient{
		register: connect.NewClient[RegisterRequest, RegisterResponse](httpClient, baseURL+AuthServiceRegisterProcedure, opts...),
		login:    connect.NewClient[LoginRequest, LoginResponse](httpClient, baseURL+AuthServiceLoginProcedure, opts...),
	}
}

type authServiceClient struct {
	register *connect.Client[RegisterRequest, RegisterResponse]
	login    *connect.Client[LoginRequest, LoginResponse]
}

func (c *authServiceClient) Register(ctx context.Context, req *connect.Request[RegisterRequest]) (*connect.Response[RegisterResponse], error) {
	return c.register.CallUnary(ctx, req)
}

func (c *authServiceClient) Login(ctx context.Context, req *connect.Request[LoginRequest]) (*connect.Response[LoginResponse], error) {
	return c.login.CallUnary(ctx, req)
}
