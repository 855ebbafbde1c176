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

	"golang.org/x/sync/errgroup"

	"github.com/terra-clan/skillsprint/internal/api"
	"github.com/terra-clan/skillsprint/internal/catalog"
	"github.com/terra-clan/skillsprint/internal/config"
	"github.com/terra-clan/skillsprint/internal/mentor"
	"github.com/terra-clan/skillsprint/internal/monitor"
	"github.com/terra-clan/skillsprint/internal/services"
	"github.com/terra-clan/skillsprint/internal/storage"
	"github.com/terra-clan/skillsprint/internal/store"
)

func main() {
	// Setup structured logging
	level := new(slog.LevelVar)
	logger := slog.New(slog.NewJSONHandler(os.Stdout, &slog.HandlerOptions{
		Level: level,
	}))
	slog.SetDefault(logger)

	// Load configuration
	cfg, err := config.Load()
	if err != nil {
		slog.Error("failed to load config", "error", err)
		os.Exit(1)
	}
	level.Set(cfg.Log.SlogLevel())

	slog.Info("starting skillsprint",
		"host", cfg.Server.Host,
		"port", cfg.Server.Port,
		"quota_backend", cfg.Mentor.QuotaBackend,
	)

	// Create context for initialization
	initCtx, initCancel := context.WithTimeout(context.Background(), 30*time.Second)
	defer initCancel()

	// Load catalog seed
	seed, err := loadSeed(cfg.Seed.Dir)
	if err != nil {
		slog.Error("failed to load seed", "error", err)
		os.Exit(1)
	}

	st := store.New(seed, store.WithRequireVisibility(cfg.Outreach.RequireVisibility))

	// Initialize service registry and quota backend
	registry := services.NewRegistry()
	defer registry.CloseAll()

	var (
		quota  mentor.QuotaStore
		purger monitor.Purger
	)

	switch cfg.Mentor.QuotaBackend {
	case config.QuotaBackendRedis:
		redisProvider, err := services.NewRedisProvider(initCtx, cfg.Redis.Address, cfg.Redis.Password, cfg.Redis.DB)
		if err != nil {
			slog.Error("failed to create redis provider", "error", err)
			os.Exit(1)
		}
		registry.Register("redis", redisProvider)
		quota = mentor.NewRedisQuota(redisProvider.Client())

	case config.QuotaBackendPostgres:
		// Run database migrations
		slog.Info("running database migrations", "dir", cfg.Database.MigrationsDir)
		if err := storage.MigrateFromDSN(initCtx, cfg.Database.DSN, cfg.Database.MigrationsDir); err != nil {
			slog.Error("failed to run migrations", "error", err)
			os.Exit(1)
		}

		postgresProvider, err := services.NewPostgresProvider(initCtx, cfg.Database.DSN)
		if err != nil {
			slog.Error("failed to create postgres provider", "error", err)
			os.Exit(1)
		}
		registry.Register("postgres", postgresProvider)
		quota = postgresProvider.Repository()
		purger = postgresProvider.Repository()

	default:
		quota = mentor.NewMemoryQuota()
	}

	generator := mentor.NewHTTPGenerator(cfg.Mentor.APIKey, mentor.WithGeneratorURL(cfg.Mentor.APIURL))
	if generator == nil {
		slog.Warn("MENTOR_API_KEY not set, mentor suggestions will use fallback text")
	}
	mentorSvc := mentor.NewService(generator, quota,
		mentor.WithDailyLimit(cfg.Mentor.DailyLimit),
		mentor.WithLocation(cfg.Mentor.Location()),
	)

	// Initialize risk monitor
	var monitorOpts []monitor.Option
	if purger != nil {
		monitorOpts = append(monitorOpts, monitor.WithPurger(purger))
	}
	riskMonitor := monitor.New(st, cfg.Monitor.Interval, monitorOpts...)

	// Setup HTTP server
	server := api.NewServer(cfg.Server, cfg.RateLimit, st, mentorSvc, registry)
	defer server.Close()

	httpServer := &http.Server{
		Addr:         fmt.Sprintf("%s:%d", cfg.Server.Host, cfg.Server.Port),
		Handler:      server.Router(),
		ReadTimeout:  15 * time.Second,
		WriteTimeout: 0, // event feed connections are long-lived
		IdleTimeout:  60 * time.Second,
	}

	// Cancel on interrupt signal
	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	g, gctx := errgroup.WithContext(ctx)

	g.Go(func() error {
		return riskMonitor.Run(gctx)
	})

	g.Go(func() error {
		slog.Info("HTTP server starting", "addr", httpServer.Addr)
		if err := httpServer.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			return fmt.Errorf("http server: %w", err)
		}
		return nil
	})

	g.Go(func() error {
		<-gctx.Done()
		slog.Info("shutting down gracefully...")

		// Disconnect websocket clients before draining
		server.Close()

		shutdownCtx, shutdownCancel := context.WithTimeout(context.Background(), 30*time.Second)
		defer shutdownCancel()
		return httpServer.Shutdown(shutdownCtx)
	})

	if err := g.Wait(); err != nil {
		slog.Error("skillsprint stopped with error", "error", err)
		os.Exit(1)
	}

	slog.Info("skillsprint stopped")
}

// loadSeed reads the seed directory when present, otherwise the embedded demo seed
func loadSeed(dir string) (*catalog.Seed, error) {
	if dir != "" {
		if info, err := os.Stat(dir); err == nil && info.IsDir() {
			slog.Info("loading seed", "dir", dir)
			return catalog.NewDirLoader(dir).Load()
		}
		slog.Warn("seed directory not found, using embedded seed", "dir", dir)
	}
	return catalog.NewDefaultLoader().Load()
}
