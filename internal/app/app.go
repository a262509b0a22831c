package app

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"time"

	"github.com/gin-contrib/cors"
	"github.com/gin-gonic/gin"
	"github.com/mx-space/sitecms/internal/config"
	"github.com/mx-space/sitecms/internal/database"
	"github.com/mx-space/sitecms/internal/middleware"
	"github.com/mx-space/sitecms/internal/pkg/assetstore"
	pkgcron "github.com/mx-space/sitecms/internal/pkg/cron"
	pkgredis "github.com/mx-space/sitecms/internal/pkg/redis"
	"go.uber.org/zap"
	"gorm.io/gorm"
)

// Deps are the external resources the application runs on. Only DB is required.
type Deps struct {
	DB    *gorm.DB
	Store assetstore.Store
	Redis *pkgredis.Client
}

// App holds all application dependencies.
type App struct {
	cfg    *config.AppConfig
	router *gin.Engine
	db     *gorm.DB
	redis  *pkgredis.Client
	logger *zap.Logger
	loc    *time.Location
	sched  *pkgcron.Scheduler
	cancel context.CancelFunc
}

// New initializes the application: DB → asset store → Redis → routes, and
// starts the background jobs.
func New(logger *zap.Logger, cfg *config.AppConfig) (*App, error) {
	if cfg == nil {
		return nil, errors.New("config is nil")
	}
	if logger == nil {
		logger = zap.NewNop()
	}

	db, err := database.Connect(cfg, logger)
	if err != nil {
		return nil, fmt.Errorf("database: %w", err)
	}

	deps := Deps{DB: db, Store: assetstore.Disabled()}
	if cfg.Media.Enabled() {
		store, err := assetstore.NewS3(cfg.Media)
		if err != nil {
			_ = database.Close(db)
			return nil, fmt.Errorf("asset store: %w", err)
		}
		deps.Store = store
	} else {
		logger.Warn("media bucket is not configured, uploads are disabled")
	}

	if cfg.Redis.Enabled() {
		rc, err := pkgredis.Connect(context.Background(), cfg.RedisURL)
		if err != nil {
			_ = database.Close(db)
			return nil, fmt.Errorf("redis: %w", err)
		}
		deps.Redis = rc
	}

	a, err := NewWithDeps(logger, cfg, deps)
	if err != nil {
		if deps.Redis != nil {
			_ = deps.Redis.Close()
		}
		_ = database.Close(db)
		return nil, err
	}
	a.startJobs()
	return a, nil
}

// NewWithDeps builds the router on top of already opened resources.
// Background jobs are registered but not started.
func NewWithDeps(logger *zap.Logger, cfg *config.AppConfig, deps Deps) (*App, error) {
	if cfg == nil {
		return nil, errors.New("config is nil")
	}
	if deps.DB == nil {
		return nil, errors.New("database is nil")
	}
	if logger == nil {
		logger = zap.NewNop()
	}
	if deps.Store == nil {
		deps.Store = assetstore.Disabled()
	}

	loc, err := applyRuntimeSettings(cfg, logger)
	if err != nil {
		return nil, err
	}

	if cfg.IsDev() {
		gin.SetMode(gin.DebugMode)
	} else {
		gin.SetMode(gin.ReleaseMode)
	}
	router := gin.New()
	router.HandleMethodNotAllowed = true
	router.Use(middleware.Recovery(logger))
	router.Use(middleware.Logger(logger, "/api/ping"))
	router.Use(cors.New(corsConfig(cfg)))
	router.Use(middleware.SecurityHeaders())
	router.Use(middleware.BodyLimit(cfg.BodyLimitBytes()))

	a := &App{
		cfg:    cfg,
		router: router,
		db:     deps.DB,
		redis:  deps.Redis,
		logger: logger,
		loc:    loc,
		sched:  pkgcron.New(logger),
	}
	if err := a.registerRoutes(deps.Store); err != nil {
		return nil, err
	}
	return a, nil
}

func (a *App) startJobs() {
	ctx, cancel := context.WithCancel(context.Background())
	a.cancel = cancel
	a.sched.Start(ctx)
}

// Addr returns the listen address.
func (a *App) Addr() string { return fmt.Sprintf(":%d", a.cfg.Port) }

// Router returns the HTTP handler.
func (a *App) Router() http.Handler { return a.router }

// Scheduler exposes the background jobs.
func (a *App) Scheduler() *pkgcron.Scheduler { return a.sched }

// Shutdown stops background jobs and releases Redis and the database pool.
func (a *App) Shutdown() {
	if a.cancel != nil {
		a.cancel()
		a.sched.Wait()
	}
	if a.redis != nil {
		if err := a.redis.Close(); err != nil {
			a.logger.Warn("close redis", zap.Error(err))
		}
	}
	if err := database.Close(a.db); err != nil {
		a.logger.Warn("close database", zap.Error(err))
	}
}
