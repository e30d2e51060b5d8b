package app

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"os"
	"strings"
	"time"

	"github.com/gin-contrib/cors"
	"github.com/gin-gonic/gin"

	"github.com/feedfolio/core/internal/config"
	"github.com/feedfolio/core/internal/middleware"
	"github.com/feedfolio/core/internal/modules/content/feed"
	pkgredis "github.com/feedfolio/core/internal/pkg/redis"
	"github.com/feedfolio/core/internal/store"
	"go.uber.org/zap"
)

// App holds all application dependencies.
type App struct {
	cfg    *config.AppConfig
	router *gin.Engine
	feed   *feed.Service
	rc     *pkgredis.Client
	logger *zap.Logger
}

// New initializes the application: config → DynamoDB → Redis → routes.
func New(ctx context.Context, logger *zap.Logger, cfg *config.AppConfig) (*App, error) {
	if cfg == nil {
		return nil, errors.New("config is nil")
	}
	if err := applyRuntimeSettings(cfg); err != nil {
		return nil, err
	}

	adapter, err := store.New(ctx, cfg, logger)
	if err != nil {
		return nil, fmt.Errorf("dynamodb: %w", err)
	}

	rc, err := pkgredis.Connect(cfg.RedisURL())
	if err != nil {
		// Redis is an optimization here, not a dependency. The feed service
		// falls back to scanning on every request.
		logger.Warn("redis unavailable, running without corpus cache", zap.Error(err))
		rc = nil
	}

	if cfg.IsDev() {
		gin.SetMode(gin.DebugMode)
	} else {
		gin.SetMode(gin.ReleaseMode)
	}
	router := gin.New()
	router.HandleMethodNotAllowed = true
	router.Use(gin.Recovery())
	router.Use(middleware.Logger(logger))
	router.Use(cors.New(corsConfig(cfg)))

	feedSvc := feed.NewService(adapter, rc, time.Duration(cfg.CacheTTLSec)*time.Second, logger)

	app := &App{cfg: cfg, router: router, feed: feedSvc, rc: rc, logger: logger}
	app.registerRoutes()

	return app, nil
}

func applyRuntimeSettings(cfg *config.AppConfig) error {
	tz := strings.TrimSpace(cfg.Timezone)
	if tz == "" {
		return nil
	}
	loc, err := parseTimezoneLocation(tz)
	if err != nil {
		return fmt.Errorf("invalid timezone %q: %w", tz, err)
	}
	time.Local = loc
	_ = os.Setenv("TZ", tz)
	return nil
}

// Addr returns the listen address.
func (a *App) Addr() string { return fmt.Sprintf(":%d", a.cfg.Port) }

// Router returns the HTTP handler.
func (a *App) Router() http.Handler { return a.router }

// Shutdown releases held connections.
func (a *App) Shutdown() {
	if a.rc != nil {
		_ = a.rc.Close()
	}
}

var processStart = time.Now()
