package service

import (
	"context"
	"errors"
	"log/slog"

	"connectrpc.com/connect"

	"github.com/mmynk/tournament/internal/auth"
	"github.com/mmynk/tournament/internal/models"
	"github.com/mmynk/tournament/pkg/api"
)

// Ensure AuthService implements the Connect handler interface
var _ api.AuthServiceHandler = (*AuthService)(nil)

// AuthService implements the AuthService RPC interface.
type AuthService struct {
	authenticator auth.Authenticator
	jwtManager    *auth.JWTManager
	logger        *slog.Logger
}

// NewAuthService creates a new authentication service.
func NewAuthService(authenticator auth.Authenticator, jwtManager *auth.JWTManager, logger *slog.Logger) *AuthService {
	return &AuthService{
		authenticator: authenticator,
		jwtManager:    jwtManager,
		logger:        logger,
	}
}

func toAPIOrganizer(o *models.Organizer) *api.Organizer {
	return &api.Organizer{
		Id:          o.ID,
		Email:       o.Email,
		DisplayName: o.DisplayName,
		CreatedAt:   o.CreatedAt,
	}
}

// Register creates a new organizer account.
func (s *AuthService) Register(ctx context.Context, req *connect.Request[api.RegisterRequest]) (*connect.Response[api.RegisterResponse], error) {
	s.logger.Info("Register request", "email", req.Msg.Email)

	if req.Msg.Email == "" || req.Msg.DisplayName == "" {
		return nil, connect.NewError(connect.CodeInvalidArgument, auth.ErrInvalidCredentials)
	}

	organizer, err := s.authenticator.Register(ctx, req.Msg.Email, req.Msg.DisplayName, req.Msg.Password)
	if err != nil {
		s.logger.Error("Registration failed", "email", req.Msg.Email, "error", err)
		switch {
		case errors.Is(err, auth.ErrEmailExists):
			return nil, connect.NewError(connect.CodeAlreadyExists, err)
		case errors.Is(err, auth.ErrWeakPassword):
			return nil, connect.NewError(connect.CodeInvalidArgument, err)
		}
		return nil, toConnectError(err)
	}

	token, err := s.jwtManager.Generate(organizer)
	if err != nil {
		s.logger.Error("Failed to generate token", "organizer_id", organizer.ID, "error", err)
		return nil, connect.NewError(connect.CodeInternal, err)
	}

	s.logger.Info("Organizer registered", "organizer_id", organizer.ID, "email", organizer.Email)
	return connect.NewResponse(&api.RegisterResponse{
		Organizer: toAPIOrganizer(organizer),
		Token:     token,
	}), nil
}

// Login authenticates an organizer and returns a JWT token.
func (s *AuthService) Login(ctx context.Context, req *connect.Request[api.LoginRequest]) (*connect.Response[api.LoginResponse], error) {
	s.logger.Info("Login request", "email", req.Msg.Email)

	if req.Msg.Email == "" || req.Msg.Password == "" {
		return nil, connect.NewError(connect.CodeInvalidArgument, auth.ErrInvalidCredentials)
	}

	organizer, err := s.authenticator.Authenticate(ctx, req.Msg.Email, req.Msg.Password)
	if err != nil {
		s.logger.Warn("Login failed", "email", req.Msg.Email, "error", err)
		return nil, connect.NewError(connect.CodeUnauthenticated, auth.ErrInvalidCredentials)
	}

	token, err := s.jwtManager.Generate(organizer)
	if err != nil {
		s.logger.Error("Failed to generate token", "organizer_id", organizer.ID, "error", err)
		return nil, connect.NewError(connect.CodeInternal, err)
	}

	s.logger.Info("Organizer logged in", "organizer_id", organizer.ID)
	return connect.NewResponse(&api.LoginResponse{
		Organizer: toAPIOrganizer(organizer),
		Token:     token,
	}), nil
}
