package main

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"time"

	"tasktracker/internal/config"
	"tasktracker/internal/database"
	"tasktracker/internal/middleware"
	"tasktracker/internal/monitoring"
	"tasktracker/internal/repositories"
	"tasktracker/internal/router"
	"tasktracker/internal/services"
	"tasktracker/internal/session"

	"github.com/gin-gonic/gin"
	"github.com/sirupsen/logrus"
	gormlogger "gorm.io/gorm/logger"
)

type application struct {
	cfg      *config.Config
	log      *logrus.Logger
	db       *database.DatabasePool
	sessions *session.RefreshStore
	limiter  *middleware.IPRateLimiter
	server   *http.Server
	stop     chan struct{}
}

func newApplication(ctx context.Context, cfg *config.Config, log *logrus.Logger) (*application, error) {
	if cfg.IsProduction() {
		gin.SetMode(gin.ReleaseMode)
	}

	gormLevel := gormlogger.Warn
	if log.IsLevelEnabled(logrus.DebugLevel) {
		gormLevel = gormlogger.Info
	}

	db, err := database.NewDatabasePool(&database.PoolConfig{
		Driver:          cfg.Database.Driver,
		DSN:             cfg.DatabaseDSN(),
		MaxOpenConns:    cfg.Database.MaxOpenConns,
		MaxIdleConns:    cfg.Database.MaxIdleConns,
		ConnMaxLifetime: cfg.Database.ConnMaxLifetime,
		ConnMaxIdleTime: cfg.Database.ConnMaxIdleTime,
		LogLevel:        gormLevel,
	})
	if err != nil {
		return nil, fmt.Errorf("failed to open database: %w", err)
	}
	if err := db.Migrate(ctx); err != nil {
		_ = db.Close()
		return nil, fmt.Errorf("failed to migrate database: %w", err)
	}

	sessions := session.NewRefreshStore(&session.StoreConfig{
		Addr:         cfg.RedisAddr(),
		Password:     cfg.Redis.Password,
		DB:           cfg.Redis.DB,
		PoolSize:     cfg.Redis.PoolSize,
		MinIdleConns: cfg.Redis.MinIdleConns,
		MaxRetries:   cfg.Redis.MaxRetries,
		DialTimeout:  cfg.Redis.DialTimeout,
		ReadTimeout:  cfg.Redis.ReadTimeout,
		WriteTimeout: cfg.Redis.WriteTimeout,
	})
	if err := sessions.Health(ctx); err != nil {
		log.WithError(err).Warn("redis is not reachable; token refresh will fail until it is")
	}

	users := repositories.NewUserRepository(db.DB)
	accounts := services.NewAccountService(users, cfg.Auth.BCryptCost, log)
	tasks := services.NewTaskService(repositories.NewTaskRepository(db.DB), log)
	tokens := services.NewTokenService(services.TokenConfig{
		Secret:          cfg.Auth.JWTSecret,
		Issuer:          cfg.Auth.Issuer,
		AccessTokenTTL:  cfg.Auth.AccessTokenTTL,
		RefreshTokenTTL: cfg.Auth.RefreshTokenTTL,
	}, sessions, accounts)

	monitor := monitoring.NewMonitor(log)
	monitor.RegisterHealthCheck("database", db.HealthContext)
	monitor.RegisterHealthCheck("redis", sessions.Health)

	app := &application{
		cfg:      cfg,
		log:      log,
		db:       db,
		sessions: sessions,
		stop:     make(chan struct{}),
	}

	if cfg.RateLimit.Enabled {
		app.limiter = middleware.NewIPRateLimiter(cfg.RateLimit.RequestsPerMin, cfg.RateLimit.BurstSize, cfg.RateLimit.CleanupInterval)
	}

	engine := router.SetupRouter(router.Dependencies{
		Accounts:    accounts,
		Tasks:       tasks,
		Tokens:      tokens,
		Monitor:     monitor,
		AuthLimiter: app.limiter,
		CORSOrigins: cfg.Server.CORSOrigins,
		Log:         log,
	})

	app.server = &http.Server{
		Addr:         cfg.ServerAddr(),
		Handler:      engine,
		ReadTimeout:  cfg.Server.ReadTimeout,
		WriteTimeout: cfg.Server.WriteTimeout,
		IdleTimeout:  cfg.Server.IdleTimeout,
	}
	return app, nil
}

// run serves until ctx is cancelled, then drains in-flight requests.
func (a *application) run(ctx context.Context) error {
	if a.limiter != nil {
		go a.limiter.RunCleanup(a.cfg.RateLimit.CleanupInterval, a.stop)
	}

	errCh := make(chan error, 1)
	go func() {
		a.log.WithField("addr", a.server.Addr).Info("server listening")
		if err := a.server.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			errCh <- err
		}
		close(errCh)
	}()

	select {
	case err := <-errCh:
		a.close()
		return err
	case <-ctx.Done():
	}

	a.log.Info("shutting down")
	shutdownCtx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()

	err := a.server.Shutdown(shutdownCtx)
	a.close()
	return err
}

func (a *application) close() {
	close(a.stop)
	if err := a.sessions.Close(); err != nil {
		a.log.WithError(err).Warn("failed to close redis client")
	}
	if err := a.db.Close(); err != nil {
		a.log.WithError(err).Warn("failed to close database")
	}
}
