package middleware

import (
	"context"
	"errors"
	"log/slog"
	"time"

	"connectrpc.com/connect"

	"github.com/mmynk/tournament/internal/metrics"
)

type callerKey struct{}

// caller is filled in by the auth interceptors running inside logging.
type caller struct {
	organizerID string
}

// LoggingInterceptor returns a Connect interceptor that logs every RPC call
// and records it in the RPC metrics. It must be the outermost interceptor
// so calls rejected by auth are logged too.
func LoggingInterceptor() connect.UnaryInterceptorFunc {
	return func(next connect.UnaryFunc) connect.UnaryFunc {
		return func(ctx context.Context, req connect.AnyRequest) (connect.AnyResponse, error) {
			start := time.Now()
			procedure := req.Spec().Procedure

			c := &caller{}
			resp, err := next(context.WithValue(ctx, callerKey{}, c), req)
			organizerID := c.organizerID // empty for anonymous calls

			elapsed := time.Since(start)
			duration := elapsed.Milliseconds()
			metrics.RPCDuration.WithLabelValues(procedure).Observe(elapsed.Seconds())

			if err != nil {
				var connectErr *connect.Error
				if errors.As(err, &connectErr) {
					metrics.RPCRequests.WithLabelValues(procedure, connectErr.Code().String()).Inc()
					slog.Warn("RPC error",
						"procedure", procedure,
						"code", connectErr.Code(),
						"error", connectErr.Message(),
						"organizer_id", organizerID,
						"duration_ms", duration,
					)
				} else {
					metrics.RPCRequests.WithLabelValues(procedure, connect.CodeUnknown.String()).Inc()
					slog.Error("RPC error",
						"procedure", procedure,
						"error", err,
						"organizer_id", organizerID,
						"duration_ms", duration,
					)
				}
			} else {
				metrics.RPCRequests.WithLabelValues(procedure, "ok").Inc()
				slog.Info("RPC ok",
					"procedure", procedure,
					"organizer_id", organizerID,
					"duration_ms", duration,
				)
			}

			return resp, err
		}
	}
}
