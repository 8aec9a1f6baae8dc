package main

import (
	"context"
	"database/sql"
	"fmt"
	"log/slog"
	"net/http"
	"os"
	"os/signal"
	"syscall"

	"github.com/jagadeeswar-N-G/agent-nexus/internal/agents"
	"github.com/jagadeeswar-N-G/agent-nexus/internal/auth"
	"github.com/jagadeeswar-N-G/agent-nexus/internal/collaborations"
	"github.com/jagadeeswar-N-G/agent-nexus/internal/config"
	"github.com/jagadeeswar-N-G/agent-nexus/internal/matching"
	"github.com/jagadeeswar-N-G/agent-nexus/migrations"
	"github.com/jagadeeswar-N-G/agent-nexus/pkg/handlers"
	"github.com/jagadeeswar-N-G/agent-nexus/pkg/logging"
	"github.com/jagadeeswar-N-G/agent-nexus/pkg/middleware"
	"github.com/jagadeeswar-N-G/agent-nexus/pkg/routes"

	_ "github.com/jackc/pgx/v5/stdlib"
)

// challengeSweepDivisor derives the store sweep interval from the challenge TTL.
const challengeSweepDivisor = 2

func main() {
	cfg, err := config.Load()
	if err != nil {
		fmt.Fprintf(os.Stderr, "failed to load configuration: %v\n", err)
		os.Exit(1)
	}
	if err := cfg.Finalize(); err != nil {
		fmt.Fprintf(os.Stderr, "invalid configuration: %v\n", err)
		os.Exit(1)
	}

	logger := logging.New(&cfg.Logging)

	db, err := openDB(cfg.Database)
	if err != nil {
		logger.Error("failed to open database", "error", err)
		os.Exit(1)
	}
	defer db.Close()

	if err := migrations.Run(db); err != nil {
		logger.Error("failed to apply migrations", "error", err)
		os.Exit(1)
	}

	srv := &http.Server{
		Addr:         cfg.Server.Addr(),
		Handler:      buildHandler(cfg, db, logger),
		ReadTimeout:  cfg.Server.ReadTimeoutDuration(),
		WriteTimeout: cfg.Server.WriteTimeoutDuration(),
	}

	shutdownError := make(chan error)

	go func() {
		quit := make(chan os.Signal, 1)
		signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
		<-quit

		logger.Info("shutting down server")

		ctx, cancel := context.WithTimeout(context.Background(), cfg.ShutdownTimeoutDuration())
		defer cancel()

		shutdownError <- srv.Shutdown(ctx)
	}()

	logger.Info("starting server", "addr", srv.Addr)

	err = srv.ListenAndServe()
	if err != nil && err != http.ErrServerClosed {
		logger.Error("server error", "error", err)
		os.Exit(1)
	}

	err = <-shutdownError
	if err != nil {
		logger.Error("shutdown error", "error", err)
		os.Exit(1)
	}

	logger.Info("server stopped")
}

func openDB(cfg config.DatabaseConfig) (*sql.DB, error) {
	db, err := sql.Open("pgx", cfg.DSN())
	if err != nil {
		return nil, fmt.Errorf("failed to open database: %w", err)
	}

	db.SetMaxOpenConns(cfg.MaxOpenConns)
	db.SetMaxIdleConns(cfg.MaxIdleConns)
	db.SetConnMaxLifetime(cfg.ConnMaxLifetimeDuration())

	ctx, cancel := context.WithTimeout(context.Background(), cfg.ConnTimeoutDuration())
	defer cancel()

	if err = db.PingContext(ctx); err != nil {
		return nil, fmt.Errorf("failed to ping database: %w", err)
	}

	return db, nil
}

func buildHandler(cfg *config.Config, db *sql.DB, logger *slog.Logger) http.Handler {
	agentSystem := agents.New(db, logger, cfg.Pagination)

	challengeStore := auth.NewPostgresChallengeStore(db, logger, cfg.Auth.ChallengeTTLDuration()/challengeSweepDivisor)
	challenges := auth.NewChallenges(challengeStore, cfg.Auth.ChallengeTTLDuration(), logger)
	verifier := auth.NewVerifier(agentSystem, challengeStore, logger)
	sessions := auth.NewSessions([]byte(cfg.Auth.SessionSecret), cfg.Auth.SessionTTLDuration(), cfg.Auth.RefreshGraceDuration(), agentSystem, logger)
	sessionGuard := auth.NewMiddleware(sessions, agentSystem, logger)

	gate := collaborations.NewGate(
		cfg.Safety.MaxMessageLength,
		cfg.Safety.RateLimit,
		cfg.Safety.RateWindowDuration(),
		logger,
	)
	collabSystem := collaborations.New(db, logger, cfg.Pagination, gate, agentSystem)

	router := routes.New(logger)
	router.RegisterGroup(agents.NewHandler(agentSystem, logger, cfg.Pagination, sessionGuard.RequireSession).Routes())
	router.RegisterGroup(auth.NewHandler(challenges, verifier, sessions, agentSystem, sessionGuard, logger).Routes())
	router.RegisterGroup(matching.NewHandler(agentSystem, logger, sessionGuard.RequireSession).Routes())
	router.RegisterGroup(collaborations.NewHandler(collabSystem, logger, cfg.Pagination, sessionGuard.RequireSession).Routes())
	router.RegisterRoute(routes.Route{Method: "GET", Pattern: "/healthz", Handler: healthz(db)})

	chain := middleware.New()
	chain.Use(middleware.Logger(logger))
	chain.Use(middleware.CORS(&cfg.CORS))
	chain.Use(middleware.MaxBody(cfg.Server.MaxBodyBytes()))

	return chain.Wrap(router.Build())
}

func healthz(db *sql.DB) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		if err := db.PingContext(r.Context()); err != nil {
			handlers.RespondJSON(w, http.StatusServiceUnavailable, map[string]string{"status": "unavailable"})
			return
		}
		handlers.RespondJSON(w, http.StatusOK, map[string]string{"status": "ok"})
	}
}
