package main

import (
	"context"
	"fmt"
	"io"
	"log/slog"
	"os"
	"os/signal"
	"syscall"

	"github.com/joho/godotenv"
	"github.com/redis/go-redis/v9"
	"golang.org/x/sync/errgroup"

	"github.com/taletrail/trailgen/internal/ai"
	"github.com/taletrail/trailgen/internal/config"
	"github.com/taletrail/trailgen/internal/database"
	"github.com/taletrail/trailgen/internal/migrations"
	"github.com/taletrail/trailgen/internal/server"
)

func main() {
	ctx, cancel := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer cancel()

	if err := run(ctx, os.Stdout); err != nil {
		fmt.Fprintf(os.Stderr, "error: %v\n", err)
		os.Exit(1)
	}
}

func run(ctx context.Context, stdout io.Writer) error {
	_ = godotenv.Load()

	cfg, err := config.Load()
	if err != nil {
		return fmt.Errorf("loading config: %w", err)
	}

	logger := slog.New(slog.NewJSONHandler(stdout, &slog.HandlerOptions{
		Level: cfg.LogLevel,
	}))

	// --- Database ---
	db, dialect, err := database.Open(ctx, cfg.DatabaseURL)
	if err != nil {
		return fmt.Errorf("connecting to database: %w", err)
	}
	defer db.Close()

	if err := migrations.Run(db, dialect); err != nil {
		return fmt.Errorf("running migrations: %w", err)
	}
	logger.Info("connected to database", "dialect", dialect)

	store, err := server.NewSQLStore(ctx, db, dialect)
	if err != nil {
		return fmt.Errorf("initializing store: %w", err)
	}

	// --- Redis (optional) ---
	var rdb *redis.Client
	if cfg.RedisURL != "" {
		rdb, err = openRedis(ctx, cfg.RedisURL)
		if err != nil {
			return fmt.Errorf("connecting to redis: %w", err)
		}
		defer rdb.Close()
		logger.Info("connected to redis")
	}

	// --- Content generation ---
	aiOpts := ai.Options{BaseURL: cfg.AIBaseURL, APIKey: cfg.AIAPIKey, Model: cfg.AIModel}
	providers := func(name string) (ai.Provider, error) {
		if name == "" {
			name = cfg.AIProvider
		}
		return ai.New(name, aiOpts)
	}

	// --- HTTP Server ---
	srv := server.New(cfg.HTTPAddr, logger, server.Deps{
		Store:    store,
		Auth:     server.NewAuth(cfg.JWTSecret, cfg.TokenTTL),
		Provider: providers,
		DB:       db,
		Redis:    rdb,
	})

	// --- Run ---
	g, gctx := errgroup.WithContext(ctx)

	g.Go(func() error {
		logger.Info("starting http server", "addr", cfg.HTTPAddr)
		return srv.Run(gctx)
	})

	g.Go(func() error {
		<-gctx.Done()
		logger.Info("shutting down http server")
		return srv.Shutdown(context.Background())
	})

	return g.Wait()
}

func openRedis(ctx context.Context, rawURL string) (*redis.Client, error) {
	opt, err := redis.ParseURL(rawURL)
	if err != nil {
		return nil, fmt.Errorf("parsing redis url: %w", err)
	}
	rdb := redis.NewClient(opt)
	if err := rdb.Ping(ctx).Err(); err != nil {
		rdb.Close()
		return nil, fmt.Errorf("pinging redis: %w", err)
	}
	return rdb, nil
}
