// Package bootstrap wires configuration, infrastructure and handlers into a
// runnable App.
package bootstrap

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/go-redis/redis/v8"
	"github.com/hibiken/asynq"
	"github.com/sirupsen/logrus"
	"gorm.io/gorm"

	httpHandler "catalog-admin/internal/handler/http"
	wsHandler "catalog-admin/internal/handler/websocket"
	"catalog-admin/internal/hub"
	rediscache "catalog-admin/internal/infra/cache/redis"
	gormpersistence "catalog-admin/internal/infra/persistence/gorm"
	"catalog-admin/internal/infra/setup"
	"catalog-admin/internal/middleware"
	"catalog-admin/internal/repository"
	"catalog-admin/internal/service"
	"catalog-admin/internal/worker"
)

// App holds every long-lived component.
type App struct {
	Config       *Config
	Log          *logrus.Logger
	DB           *gorm.DB
	RedisClient  *redis.Client
	AsynqClient  *asynq.Client
	WorkerServer *worker.WorkerServer
	Hub          *hub.Hub
	HttpServer   *http.Server

	cache  *rediscache.RedisCache
	cancel context.CancelFunc
}

// NewApp loads the configuration and builds the App.
func NewApp() (*App, error) {
	cfg, err := LoadConfig()
	if err != nil {
		return nil, fmt.Errorf("failed to load config: %w", err)
	}
	return NewAppWithConfig(cfg)
}

// NewAppWithConfig builds the App from cfg. Nothing runs until Start.
func NewAppWithConfig(cfg *Config) (*App, error) {
	log := NewLogger(cfg)
	log.WithFields(logrus.Fields{
		"env":    cfg.AppEnv,
		"driver": cfg.DBDriver,
		"redis":  cfg.RedisEnabled(),
		"auth":   cfg.AuthEnabled(),
	}).Info("Configuration loaded")

	app := &App{Config: cfg, Log: log}
	ok := false
	defer func() {
		if !ok {
			app.closeInfra()
		}
	}()

	db, err := setup.InitDB(setup.DBOptions{
		Driver:          cfg.DBDriver,
		DSN:             cfg.DatabaseURL,
		MaxOpenConns:    cfg.DBMaxOpenConns,
		MaxIdleConns:    cfg.DBMaxIdleConns,
		ConnMaxLifetime: time.Hour,
		LogQueries:      log.IsLevelEnabled(logrus.TraceLevel),
	})
	if err != nil {
		return nil, fmt.Errorf("failed to init DB: %w", err)
	}
	app.DB = db
	if err := setup.MigrateDB(db); err != nil {
		return nil, fmt.Errorf("failed to migrate DB: %w", err)
	}
	store := gormpersistence.NewGormStore(db)

	app.Hub = hub.NewHub()

	var (
		listingCache repository.ListingCache
		limiter      middleware.RateLimiter
		invalidator  service.Invalidator = app.Hub
	)
	if cfg.RedisEnabled() {
		redisClient, err := setup.InitRedis(cfg.RedisAddr, cfg.RedisPassword, cfg.RedisDB)
		if err != nil {
			return nil, fmt.Errorf("failed to init Redis: %w", err)
		}
		app.RedisClient = redisClient
		app.cache = rediscache.NewRedisCache(redisClient, cfg.KeyPrefix, cfg.ListingCacheTTL)
		listingCache = app.cache
		limiter = app.cache

		redisClientOpt := asynq.RedisClientOpt{
			Addr:     cfg.RedisAddr,
			Password: cfg.RedisPassword,
			DB:       cfg.RedisDB,
		}
		app.AsynqClient = asynq.NewClient(redisClientOpt)
		invalidator = worker.NewDispatcher(app.AsynqClient, "critical")
		revalidate := worker.NewRevalidateHandler(app.cache, app.cache)
		app.WorkerServer = worker.NewWorkerServer(redisClientOpt, revalidate, cfg.WorkerConcurrency, log)
	}

	postService := service.NewPostService(store, listingCache, invalidator)

	var authHandler *httpHandler.AuthHandler
	if cfg.AuthEnabled() {
		authService, err := service.NewAuthService(cfg.OperatorPasswordHash, cfg.JWTSecret, cfg.JWTExpiryHours)
		if err != nil {
			return nil, fmt.Errorf("failed to create AuthService: %w", err)
		}
		authHandler = httpHandler.NewAuthHandler(authService, cfg.JWTExpiryHours*3600, cfg.IsProduction())
	}

	if cfg.IsProduction() {
		gin.SetMode(gin.ReleaseMode)
	}
	router := NewRouter(RouterDeps{
		Config:      cfg,
		Log:         log,
		Posts:       httpHandler.NewPostHandler(postService),
		Forms:       httpHandler.NewFormHandler(postService, "/"),
		Auth:        authHandler,
		WebSocket:   wsHandler.NewWebSocketHandler(app.Hub, cfg.CORSAllowedOrigins),
		RateLimiter: limiter,
	})

	app.HttpServer = &http.Server{
		Addr:              ":" + cfg.ServerPort,
		Handler:           router,
		ReadHeaderTimeout: 10 * time.Second,
		IdleTimeout:       120 * time.Second,
	}

	ok = true
	log.Info("Application assembled successfully")
	return app, nil
}

// Start launches the hub, the worker, the change subscription and the HTTP server.
func (a *App) Start() error {
	ctx, cancel := context.WithCancel(context.Background())
	a.cancel = cancel

	go a.Hub.Run(ctx)

	if a.WorkerServer != nil {
		if err := a.WorkerServer.Start(); err != nil {
			cancel()
			return err
		}
	}
	if a.cache != nil {
		go func() {
			if err := a.cache.SubscribeChanges(ctx, a.Hub.HandleChange); err != nil {
				a.Log.WithError(err).Error("Change subscription stopped")
			}
		}()
	}

	go func() {
		a.Log.Infof("HTTP server starting to listen on %s", a.HttpServer.Addr)
		if err := a.HttpServer.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			a.Log.Fatalf("Failed to start HTTP server: %v", err)
		}
		a.Log.Info("HTTP server stopped listening.")
	}()
	return nil
}

// Shutdown stops accepting requests, drains the worker and closes connections.
func (a *App) Shutdown() {
	a.Log.Info("Shutting down application...")

	if a.HttpServer != nil {
		ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
		defer cancel()
		if err := a.HttpServer.Shutdown(ctx); err != nil {
			a.Log.Errorf("Error shutting down HTTP server: %v", err)
		}
	}
	if a.WorkerServer != nil {
		a.WorkerServer.Shutdown()
	}
	if a.cancel != nil {
		a.cancel()
	}
	a.closeInfra()

	a.Log.Info("Application shutdown complete.")
}

func (a *App) closeInfra() {
	if a.AsynqClient != nil {
		if err := a.AsynqClient.Close(); err != nil {
			a.Log.Errorf("Error closing Asynq client: %v", err)
		}
		a.AsynqClient = nil
	}
	if a.RedisClient != nil {
		if err := a.RedisClient.Close(); err != nil {
			a.Log.Errorf("Error closing Redis connection: %v", err)
		}
		a.RedisClient = nil
	}
	if a.DB != nil {
		if err := setup.CloseDB(a.DB); err != nil {
			a.Log.Errorf("Error closing database connection: %v", err)
		}
		a.DB = nil
	}
}
