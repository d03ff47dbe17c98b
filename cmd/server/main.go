package main

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"connectrpc.com/connect"
	"golang.org/x/net/http2"
	"golang.org/x/net/http2/h2c"

	"github.com/mmynk/tournament/internal/auth"
	"github.com/mmynk/tournament/internal/config"
	"github.com/mmynk/tournament/internal/metrics"
	"github.com/mmynk/tournament/internal/middleware"
	"github.com/mmynk/tournament/internal/service"
	"github.com/mmynk/tournament/internal/storage"
	"github.com/mmynk/tournament/internal/storage/postgres"
	"github.com/mmynk/tournament/internal/storage/sqlite"
	"github.com/mmynk/tournament/pkg/api"
	"github.com/mmynk/tournament/pkg/logging"
)

// tournamentStore is what the server needs from a storage backend.
type tournamentStore interface {
	storage.Store
	storage.OrganizerStore
}

func openStore(cfg *config.Config) (tournamentStore, error) {
	switch cfg.DBDriver {
	case config.DriverPostgres:
		return postgres.New(cfg.DatabaseURL)
	default:
		return sqlite.New(cfg.DBPath)
	}
}

func main() {
	cfg, err := config.Load()
	if err != nil {
		slog.Error("Failed to load config", "error", err)
		os.Exit(1)
	}

	logging.SetupWithLevel(logging.ParseLevel(cfg.LogLevel))

	store, err := openStore(cfg)
	if err != nil {
		slog.Error("Failed to initialize storage", "driver", cfg.DBDriver, "error", err)
		os.Exit(1)
	}
	defer store.Close()
	slog.Info("Storage initialized", "driver", cfg.DBDriver)

	if cfg.EphemeralSecret {
		slog.Warn("JWT_SECRET not set, using a random secret; organizer tokens will not survive a restart")
	}
	jwtManager := auth.NewJWTManager(cfg.JWTSecret, cfg.TokenTTL)

	// Logging is outermost so rejected writes are logged and counted.
	interceptors := connect.WithInterceptors(
		middleware.LoggingInterceptor(),
		middleware.RequireAuthFor(jwtManager, api.WriteProcedures...),
	)

	mux := http.NewServeMux()

	tournamentPath, tournamentHandler := api.NewTournamentServiceHandler(service.NewTournamentService(store), interceptors)
	mux.Handle(tournamentPath, tournamentHandler)

	authSvc := service.NewAuthService(auth.NewPasswordAuthenticator(store), jwtManager, slog.Default())
	authPath, authHandler := api.NewAuthServiceHandler(authSvc, interceptors)
	mux.Handle(authPath, authHandler)

	mux.Handle("/metrics", metrics.Handler())
	mux.HandleFunc("/healthz", func(w http.ResponseWriter, r *http.Request) {
		if _, err := store.CountPlayers(r.Context()); err != nil {
			http.Error(w, "storage unavailable", http.StatusServiceUnavailable)
			return
		}
		w.WriteHeader(http.StatusOK)
	})

	// Wrap with h2c for HTTP/2 without TLS
	handler := h2c.NewHandler(loggingMiddleware(corsMiddleware(mux)), &http2.Server{})

	server := &http.Server{
		Addr:              cfg.Addr(),
		Handler:           handler,
		ReadHeaderTimeout: 10 * time.Second,
	}

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	go func() {
		slog.Info("Connect server starting", "address", server.Addr, "url", fmt.Sprintf("http://localhost%s", server.Addr))
		if err := server.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			slog.Error("Server failed", "error", err)
			stop()
		}
	}()

	<-ctx.Done()
	slog.Info("Shutting down")

	shutdownCtx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()
	if err := server.Shutdown(shutdownCtx); err != nil {
		slog.Error("Shutdown failed", "error", err)
	}
}

// loggingMiddleware logs plain HTTP traffic at debug level; RPCs are
// logged by the Connect interceptor.
func loggingMiddleware(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		start := time.Now()

		next.ServeHTTP(w, r)

		slog.Debug("Request completed",
			"method", r.Method,
			"path", r.URL.Path,
			"remote_addr", r.RemoteAddr,
			"duration_ms", time.Since(start).Milliseconds(),
		)
	})
}

// corsMiddleware adds CORS headers for browser access
func corsMiddleware(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Access-Control-Allow-Origin", "*")
		w.Header().Set("Access-Control-Allow-Methods", "POST, GET, OPTIONS")
		w.Header().Set("Access-Control-Allow-Headers", "Authorization, Content-Type, Connect-Protocol-Version, Connect-Timeout-Ms")
		w.Header().Set("Access-Control-Expose-Headers", "Connect-Protocol-Version, Connect-Timeout-Ms")

		if r.Method == http.MethodOptions {
			w.WriteHeader(http.StatusOK)
			return
		}

		next.ServeHTTP(w, r)
	})
}
