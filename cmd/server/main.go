package main

import (
	"context"
	"errors"
	"log/slog"
	"net/http"
	"os"
	"os/signal"
	"syscall"

	"github.com/jackc/pgx/v5/pgxpool"
	"github.com/joho/godotenv"

	"github.com/roxaf/stockmatch/internal/audit"
	"github.com/roxaf/stockmatch/internal/config"
	"github.com/roxaf/stockmatch/internal/logging"
	"github.com/roxaf/stockmatch/internal/match"
	"github.com/roxaf/stockmatch/internal/web"
)

func main() {
	// Load .env file if it exists (Overload overwrites existing env vars)
	if err := godotenv.Overload(); err != nil {
		slog.Info("no .env file found, using environment variables")
	}

	cfg, err := config.Load()
	if err != nil {
		slog.Error("failed to load configuration", "error", err)
		os.Exit(1)
	}

	logging.Setup(cfg.Logging.Level, cfg.Logging.Format)

	slog.Info("configuration loaded",
		"port", cfg.Server.Port,
		"max_upload_bytes", cfg.Upload.MaxFileSize,
		"run_history", cfg.Database.URL != "",
	)

	ctx := context.Background()

	// Run history is optional: no DATABASE_URL means a nil recorder, which
	// is a no-op throughout.
	var recorder *audit.Recorder
	if cfg.Database.URL != "" {
		poolConfig, err := pgxpool.ParseConfig(cfg.Database.URL)
		if err != nil {
			slog.Error("failed to parse database URL", "error", err)
			os.Exit(1)
		}
		poolConfig.MaxConns = int32(cfg.Database.MaxConns)

		pool, err := pgxpool.NewWithConfig(ctx, poolConfig)
		if err != nil {
			slog.Error("failed to connect to database", "error", err)
			os.Exit(1)
		}
		defer pool.Close()

		if err := pool.Ping(ctx); err != nil {
			slog.Error("failed to ping database", "error", err)
			os.Exit(1)
		}

		recorder = audit.New(pool)
		if err := recorder.EnsureSchema(ctx); err != nil {
			slog.Error("failed to prepare run history schema", "error", err)
			os.Exit(1)
		}
		slog.Info("run history enabled")
	}

	engine := match.NewEngine(keywordsFromConfig(cfg.Matching), slog.Default())
	server := web.NewServer(engine, recorder, cfg)

	// Graceful shutdown
	go func() {
		sigCh := make(chan os.Signal, 1)
		signal.Notify(sigCh, syscall.SIGINT, syscall.SIGTERM)
		<-sigCh

		slog.Info("shutting down...")
		shutdownCtx, cancel := context.WithTimeout(context.Background(), cfg.Server.ShutdownTimeout)
		defer cancel()
		if err := server.Shutdown(shutdownCtx); err != nil {
			slog.Error("shutdown error", "error", err)
		}
	}()

	slog.Info("starting server", "host", cfg.Server.Host, "port", cfg.Server.Port)
	if err := server.Start(); err != nil && !errors.Is(err, http.ErrServerClosed) {
		slog.Error("server stopped", "error", err)
		os.Exit(1)
	}
}

// keywordsFromConfig applies per-role keyword overrides on top of the
// built-in defaults.
func keywordsFromConfig(mc config.MatchingConfig) match.Keywords {
	kw := match.DefaultKeywords()
	overrides := map[match.Role][]string{
		match.RoleClient:     mc.ClientKeywords,
		match.RoleItemFamily: mc.FamilyKeywords,
		match.RoleWeight:     mc.WeightKeywords,
		match.RoleWidth:      mc.WidthKeywords,
		match.RolePriority:   mc.PriorityKeywords,
	}
	for role, list := range overrides {
		if len(list) > 0 {
			kw[role] = list
		}
	}
	return kw
}
