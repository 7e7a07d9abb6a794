package main

import (
	"context"
	"errors"
	"log"
	"log/slog"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/jackc/pgx/v5/pgxpool"
	"github.com/jonboulle/clockwork"

	"github.com/EfraimFeinstein/find-the-expert/internal/app"
	"github.com/EfraimFeinstein/find-the-expert/internal/config"
	"github.com/EfraimFeinstein/find-the-expert/internal/database"
	"github.com/EfraimFeinstein/find-the-expert/internal/logging"
	"github.com/EfraimFeinstein/find-the-expert/internal/redis"
	"github.com/EfraimFeinstein/find-the-expert/internal/retrieval"
	"github.com/EfraimFeinstein/find-the-expert/internal/scoring"
	"github.com/EfraimFeinstein/find-the-expert/internal/server"
)

func setupConfig() *config.Config {
	cfg, err := config.Load()
	if err != nil {
		// Use log before slog is initialized
		log.Fatalf("Failed to load config: %v", err)
	}
	return cfg
}

func setupDB(cfg *config.Config) *pgxpool.Pool {
	ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()

	pool, err := database.Connect(ctx, cfg.DatabaseURL)
	if err != nil {
		slog.Error("Failed to connect to database", "error", err)
		os.Exit(1)
	}

	if err := database.RunMigrations(ctx, pool); err != nil {
		slog.Error("Failed to run migrations", "error", err)
		os.Exit(1)
	}

	return pool
}

func refreshPrescoring(pool *pgxpool.Pool) {
	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Minute)
	defer cancel()

	start := time.Now()
	if err := database.RefreshPrescoring(ctx, pool); err != nil {
		slog.Error("Failed to refresh prescoring tables", "error", err)
		os.Exit(1)
	}
	slog.Info("Prescoring tables refreshed", "duration_ms", time.Since(start).Milliseconds())
}

func setupRedis(ctx context.Context, cfg *config.Config) *redis.Client {
	client, err := redis.NewClient(ctx, cfg.RedisURL)
	if err != nil {
		slog.Error("Failed to connect to Redis", "error", err)
		os.Exit(1)
	}
	return client
}

func runGracefulShutdown(srv *server.Server) <-chan struct{} {
	done := make(chan struct{})
	sigChan := make(chan os.Signal, 1)
	signal.Notify(sigChan, os.Interrupt, syscall.SIGTERM)

	go func() {
		<-sigChan
		slog.Info("Shutdown signal received, cleaning up...")

		shutdownCtx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
		defer cancel()
		if err := srv.Shutdown(shutdownCtx); err != nil {
			slog.Error("Server shutdown error", "error", err)
		}

		close(done)
	}()

	return done
}

func main() {
	clock := clockwork.NewRealClock()

	cfg := setupConfig()

	// Initialize structured logging
	logging.InitLogger(cfg.LogLevel, cfg.LogFormat)
	slog.Info("Application starting", "env", cfg.AppEnv, "port", cfg.Port)

	pool := setupDB(cfg)
	defer pool.Close()

	refreshPrescoring(pool)

	// Redis is optional: without it every query scores directly.
	var redisClient *redis.Client
	if cfg.RedisURL != "" {
		redisClient = setupRedis(context.Background(), cfg)
		defer func() { _ = redisClient.Close() }()
	}

	pipeline := scoring.NewPipeline(
		database.NewAnswerRepo(pool),
		database.NewSignalRepo(pool),
		database.NewUserRepo(pool),
		scoring.Config{
			AcceptedBonus:    cfg.AcceptedBonus,
			SentimentFactor:  cfg.SentimentFactor,
			CutoffPercentile: cfg.CutoffPercentile,
			NStars:           cfg.Stars,
		},
	)

	retriever := retrieval.NewClient(cfg.RetrievalURL)

	// Pass nil explicitly to avoid typed-nil interface values.
	var cache app.RankingCache
	if redisClient != nil {
		cache = redis.NewResultCache(redisClient.Underlying(), cfg.CacheTTL)
	}

	appSvc := app.NewService(retriever, pipeline, cache, cfg.RetrievalCutoff, clock)

	var srv *server.Server
	if redisClient != nil {
		srv = server.NewServer(cfg, appSvc, pool, redisClient)
	} else {
		srv = server.NewServer(cfg, appSvc, pool, nil)
	}

	done := runGracefulShutdown(srv)

	slog.Info("Server starting", "port", cfg.Port)
	if err := srv.Start(); err != nil && !errors.Is(err, http.ErrServerClosed) {
		slog.Error("Server error", "error", err)
		os.Exit(1)
	}

	<-done
}
