package middleware

import (
	"context"
	"strings"

	"connectrpc.com/connect"

	"github.com/mmynk/tournament/internal/auth"
)

// contextKey is a custom type for context keys to avoid collisions.
type contextKey string

const (
	// OrganizerIDKey is the context key for the authenticated organizer id.
	OrganizerIDKey contextKey = "organizer_id"
	// EmailKey is the context key for the authenticated organizer's email.
	EmailKey contextKey = "email"
)

// GetOrganizerID extracts the organizer id from the context.
// Returns empty string if not found.
func GetOrganizerID(ctx context.Context) string {
	id, _ := ctx.Value(OrganizerIDKey).(string)
	return id
}

// GetEmail extracts the organizer email from the context.
// Returns empty string if not found.
func GetEmail(ctx context.Context) string {
	email, _ := ctx.Value(EmailKey).(string)
	return email
}

// bearerToken pulls the token out of an "Authorization: Bearer <token>" header.
func bearerToken(header string) (string, bool) {
	parts := strings.Split(header, " ")
	if len(parts) != 2 || parts[0] != "Bearer" || parts[1] == "" {
		return "", false
	}
	return parts[1], true
}

func withClaims(ctx context.Context, claims *auth.Claims) context.Context {
	if c, ok := ctx.Value(callerKey{}).(*caller); ok {
		c.organizerID = claims.OrganizerID
	}
	ctx = context.WithValue(ctx, OrganizerIDKey, claims.OrganizerID)
	return context.WithValue(ctx, EmailKey, claims.Email)
}

// RequireAuth returns an interceptor that rejects calls without a valid
// organizer token and adds the organizer to the request context.
func RequireAuth(jwtManager *auth.JWTManager) connect.UnaryInterceptorFunc {
	return func(next connect.UnaryFunc) connect.UnaryFunc {
		return func(ctx context.Context, req connect.AnyRequest) (connect.AnyResponse, error) {
			authHeader := req.Header().Get("Authorization")
			if authHeader == "" {
				return nil, connect.NewError(connect.CodeUnauthenticated, auth.ErrMissingToken)
			}

			tokenString, ok := bearerToken(authHeader)
			if !ok {
				return nil, connect.NewError(connect.CodeUnauthenticated, auth.ErrInvalidToken)
			}

			claims, err := jwtManager.Validate(tokenString)
			if err != nil {
				return nil, connect.NewError(connect.CodeUnauthenticated, err)
			}

			return next(withClaims(ctx, claims), req)
		}
	}
}

// OptionalAuth returns an interceptor that records the organizer when a
// valid token is present and lets anonymous calls through otherwise.
func OptionalAuth(jwtManager *auth.JWTManager) connect.UnaryInterceptorFunc {
	return func(next connect.UnaryFunc) connect.UnaryFunc {
		return func(ctx context.Context, req connect.AnyRequest) (connect.AnyResponse, error) {
			if tokenString, ok := bearerToken(req.Header().Get("Authorization")); ok {
				// Invalid tokens are ignored here.
				if claims, err := jwtManager.Validate(tokenString); err == nil {
					ctx = withClaims(ctx, claims)
				}
			}
			return next(ctx, req)
		}
	}
}

// RequireAuthFor applies RequireAuth to the listed procedures and
// OptionalAuth to every other one.
func RequireAuthFor(jwtManager *auth.JWTManager, procedures ...string) connect.UnaryInterceptorFunc {
	protected := make(map[string]bool, len(procedures))
	for _, p := range procedures {
		protected[p] = true
	}
	require := RequireAuth(jwtManager)
	optional := OptionalAuth(jwtManager)

	return func(next connect.UnaryFunc) connect.UnaryFunc {
		requireNext := require(next)
		optionalNext := optional(next)
		return func(ctx context.Context, req connect.AnyRequest) (connect.AnyResponse, error) {
			if protected[req.Spec().Procedure] {
				return requireNext(ctx, req)
			}
			return optionalNext(ctx, req)
		}
	}
}
