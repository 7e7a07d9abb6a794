package server

import (
	"context"
	"fmt"
	"log/slog"
	"time"

	"github.com/labstack/echo/v4"
	"github.com/labstack/echo/v4/middleware"

	"github.com/EfraimFeinstein/find-the-expert/internal/config"
	"github.com/EfraimFeinstein/find-the-expert/internal/domain"
	apperrors "github.com/EfraimFeinstein/find-the-expert/internal/errors"
)

// expertService is the application layer surface the handlers need.
type expertService interface {
	QueryExperts(ctx context.Context, query string) (*domain.Ranking, error)
}

// postgresHealthChecker is a minimal interface for PostgreSQL health checks
type postgresHealthChecker interface {
	Ping(ctx context.Context) error
}

// redisHealthChecker is a minimal interface for Redis health checks.
// Nil when Redis is not configured; readiness then skips the check.
type redisHealthChecker interface {
	Ping(ctx context.Context) error
}

type Server struct {
	echo        *echo.Echo
	config      *config.Config
	app         expertService
	db          postgresHealthChecker
	redis       redisHealthChecker
	rateLimiter *QueryRateLimiter
	startTime   time.Time
}

// NewServer wires the HTTP surface. redis may be nil when no cache is configured.
func NewServer(cfg *config.Config, app expertService, db postgresHealthChecker, redis redisHealthChecker) *Server {
	e := echo.New()
	e.HideBanner = true
	e.HidePort = true

	e.Use(middleware.RequestLoggerWithConfig(middleware.RequestLoggerConfig{
		LogStatus:  true,
		LogURI:     true,
		LogMethod:  true,
		LogLatency: true,
		LogValuesFunc: func(c echo.Context, v middleware.RequestLoggerValues) error {
			slog.Info("Request",
				"method", v.Method,
				"uri", v.URI,
				"status", v.Status,
				"latency_ms", v.Latency.Milliseconds(),
			)
			return nil
		},
	}))
	e.Use(middleware.Recover())
	e.Use(apperrors.Middleware())

	srv := &Server{
		echo:        e,
		config:      cfg,
		app:         app,
		db:          db,
		redis:       redis,
		rateLimiter: NewQueryRateLimiter(cfg.RateLimitPerSecond, cfg.RateLimitBurst),
		startTime:   time.Now(),
	}

	srv.registerRoutes()
	return srv
}

func (s *Server) Start() error {
	slog.Info("Starting server", "port", s.config.Port)
	return s.echo.Start(fmt.Sprintf(":%s", s.config.Port))
}

func (s *Server) Shutdown(ctx context.Context) error {
	return s.echo.Shutdown(ctx)
}
