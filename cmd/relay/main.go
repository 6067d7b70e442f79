package main

import (
	"context"
	"flag"
	"fmt"
	"log/slog"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/jackc/pgx/v5/pgxpool"
	"golang.org/x/sync/errgroup"

	"github.com/Jrooker06/orb-scanner-api-Realtime/internal/api"
	"github.com/Jrooker06/orb-scanner-api-Realtime/internal/cache"
	"github.com/Jrooker06/orb-scanner-api-Realtime/internal/config"
	"github.com/Jrooker06/orb-scanner-api-Realtime/internal/database"
	"github.com/Jrooker06/orb-scanner-api-Realtime/internal/relay"
	"github.com/Jrooker06/orb-scanner-api-Realtime/internal/server"
	"github.com/Jrooker06/orb-scanner-api-Realtime/internal/session"
	"github.com/Jrooker06/orb-scanner-api-Realtime/internal/upstream"
	"github.com/Jrooker06/orb-scanner-api-Realtime/internal/version"
	"github.com/Jrooker06/orb-scanner-api-Realtime/internal/writer"
)

func main() {
	configPath := flag.String("config", "configs/relay.local.yaml", "path to config file")
	flag.Parse()

	// Set up structured logging
	logger := slog.New(slog.NewTextHandler(os.Stdout, &slog.HandlerOptions{
		Level: slog.LevelDebug,
	}))
	slog.SetDefault(logger)

	logger.Info("starting relay",
		"version", version.Version,
		"commit", version.Commit,
		"config", *configPath,
	)

	// Load configuration
	cfg, err := config.LoadAndValidate(*configPath)
	if err != nil {
		logger.Error("failed to load config", "error", err)
		os.Exit(1)
	}

	logger.Info("configuration loaded",
		"port", cfg.Server.Port,
		"feed_ws_url", cfg.Feed.WSURL,
		"archive_enabled", cfg.Archive.Enabled,
	)

	// Create context with cancellation
	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	// Handle shutdown signals
	sigCh := make(chan os.Signal, 1)
	signal.Notify(sigCh, syscall.SIGINT, syscall.SIGTERM)
	go func() {
		sig := <-sigCh
		logger.Info("received shutdown signal", "signal", sig)
		cancel()
	}()

	// Response cache for the REST proxy
	store, err := cache.New(cfg.Cache, logger)
	if err != nil {
		logger.Error("failed to create cache", "error", err)
		os.Exit(1)
	}
	defer store.Close()

	// Optional frame archive
	var (
		archiver relay.Archiver
		pool     *pgxpool.Pool
		frames   *writer.FrameWriter
	)
	if cfg.Archive.Enabled {
		logger.Info("connecting to database",
			"host", cfg.Database.Host,
			"port", cfg.Database.Port,
			"database", cfg.Database.Name,
		)

		pool, err = database.Connect(ctx, cfg.Database)
		if err != nil {
			logger.Error("failed to connect to database", "error", err)
			os.Exit(1)
		}
		defer pool.Close()
		logger.Info("database connected")

		frames = writer.NewFrameWriter(writer.WriterConfig{
			BatchSize:     cfg.Archive.BatchSize,
			FlushInterval: cfg.Archive.FlushInterval,
			BufferSize:    cfg.Archive.BufferSize,
		}, pool, logger)
		if err := frames.Start(ctx); err != nil {
			logger.Error("failed to start frame writer", "error", err)
			os.Exit(1)
		}
		defer func() {
			stopCtx, stopCancel := context.WithTimeout(context.Background(), 10*time.Second)
			defer stopCancel()
			frames.Stop(stopCtx)
		}()
		archiver = frames
	}

	// Feed link. Dialing happens lazily on the first client connect.
	link := upstream.NewLink(upstream.LinkConfig{
		URL:          cfg.Feed.WSURL,
		APIKey:       cfg.Feed.APIKey,
		DialTimeout:  cfg.Feed.DialTimeout,
		WriteTimeout: cfg.Feed.WriteTimeout,
		PingInterval: cfg.Feed.PingInterval,
		PingTimeout:  cfg.Feed.PingTimeout,
		BufferSize:   cfg.Feed.BufferSize,
	}, logger)
	defer link.Close()

	registry := session.NewRegistry()
	rel := relay.New(link, registry, archiver, relay.Config{FeedAPIKey: cfg.Feed.APIKey}, logger)

	// REST client for the proxy endpoints
	market := api.NewClient(
		cfg.Feed.RestURL,
		cfg.Feed.APIKey,
		api.WithLogger(logger),
		api.WithTimeout(cfg.Server.RequestTimeout),
	)

	srv := server.New(server.Config{
		Port:              cfg.Server.Port,
		RequestTimeout:    cfg.Server.RequestTimeout,
		FeedKeyConfigured: cfg.Feed.APIKey != "",
		Sessions: session.Config{
			SendBuffer:   cfg.Sessions.SendBuffer,
			WriteTimeout: cfg.Sessions.WriteTimeout,
			PingInterval: cfg.Sessions.PingInterval,
			PongTimeout:  cfg.Sessions.PongTimeout,
		},
	}, rel, market, store, pool, logger)

	g, gctx := errgroup.WithContext(ctx)

	g.Go(func() error {
		return rel.Run(gctx)
	})

	g.Go(func() error {
		if err := srv.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			return err
		}
		return nil
	})

	g.Go(func() error {
		<-gctx.Done()
		shutdownCtx, shutdownCancel := context.WithTimeout(context.Background(), 10*time.Second)
		defer shutdownCancel()
		return srv.Shutdown(shutdownCtx)
	})

	logger.Info("relay running",
		"ws_url", fmt.Sprintf("ws://localhost:%d/ws", cfg.Server.Port),
		"health_url", fmt.Sprintf("http://localhost:%d/api/health", cfg.Server.Port),
	)

	if err := g.Wait(); err != nil {
		logger.Error("relay exited with error", "error", err)
		os.Exit(1)
	}

	logger.Info("relay stopped")
}
