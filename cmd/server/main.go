package main

import (
	"context"
	"fmt"
	"io"
	"log/slog"
	"os"
	"os/signal"
	"syscall"

	"github.com/redis/go-redis/v9"
	"golang.org/x/sync/errgroup"

	"github.com/itinera/console/internal/config"
	"github.com/itinera/console/internal/database"
	"github.com/itinera/console/internal/draft"
	"github.com/itinera/console/internal/geocode"
	"github.com/itinera/console/internal/itinera"
	"github.com/itinera/console/internal/migrations"
	"github.com/itinera/console/internal/server"
	"github.com/itinera/console/internal/session"
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
	cfg, err := config.Load()
	if err != nil {
		return fmt.Errorf("loading config: %w", err)
	}

	logger := slog.New(slog.NewJSONHandler(stdout, &slog.HandlerOptions{
		Level: cfg.LogLevel,
	}))

	// --- SQLite ---
	db, err := database.Open(ctx, cfg.DBPath)
	if err != nil {
		return fmt.Errorf("connecting to sqlite: %w", err)
	}
	defer db.Close()

	if err := migrations.Run(db); err != nil {
		return fmt.Errorf("running migrations: %w", err)
	}
	logger.Info("connected to sqlite", "path", cfg.DBPath)

	// --- Redis ---
	rdb, err := openRedis(ctx, cfg.RedisURL)
	if err != nil {
		return fmt.Errorf("connecting to redis: %w", err)
	}
	defer rdb.Close()
	logger.Info("connected to redis")

	// --- Upstream API + geocoder ---
	upstream := itinera.New(cfg.UpstreamURL, cfg.UpstreamTimeout)
	geocoder := geocode.New(cfg.GeocodeURL)
	logger.Info("upstream configured", "url", cfg.UpstreamURL)

	// --- Drafts and sessions ---
	drafts, err := draft.NewRegistry("")
	if err != nil {
		return fmt.Errorf("creating draft registry: %w", err)
	}

	sessions := session.NewManager(db, session.DeriveSealKey(cfg.SessionSecret))
	defer sessions.Close()
	sessions.OnLogout = func(sessionID, userID string) {
		logger.Info("session ended", "session_id", sessionID)
		drafts.DiscardAllForOwner(userID)
	}
	if err := sessions.Hydrate(ctx); err != nil {
		return fmt.Errorf("hydrating sessions: %w", err)
	}

	// --- HTTP Server ---
	srv := server.New(cfg.HTTPAddr, logger, server.Deps{
		Upstream: upstream,
		Geocoder: geocoder,
		Sessions: sessions,
		Drafts:   drafts,
		Tags:     server.NewTagCache(rdb, upstream, cfg.TagCacheTTL, logger),
		Broker:   server.NewBroker(),
		DB:       db,
		Redis:    rdb,
		SPADir:   cfg.SPADir,
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
