package main

import (
	"context"
	"log"
	"time"

	"github.com/valyala/fasthttp"
	"go.uber.org/zap"

	apiHandler "github.com/taskdeck/backend/api/handler"
	"github.com/taskdeck/backend/internal/config"
	"github.com/taskdeck/backend/internal/infrastructure/monitor"
	pgInfra "github.com/taskdeck/backend/internal/infrastructure/postgres"
	redisInfra "github.com/taskdeck/backend/internal/infrastructure/redis"
	"github.com/taskdeck/backend/internal/infrastructure/weathercache"
	"github.com/taskdeck/backend/internal/middleware"
	"github.com/taskdeck/backend/internal/router"
	"github.com/taskdeck/backend/internal/services/lifecycle"
	"github.com/taskdeck/backend/internal/services/reminder"
	"github.com/taskdeck/backend/pkg/httpcontext"
	"github.com/taskdeck/backend/pkg/logger"
	"github.com/taskdeck/backend/repository/openweather"
	"github.com/taskdeck/backend/repository/postgres"
	redisRepo "github.com/taskdeck/backend/repository/redis"
	authUC "github.com/taskdeck/backend/usecase/auth"
	"github.com/taskdeck/backend/usecase/tasksync"
)

func main() {
	cfg, err := config.Load()
	if err != nil {
		log.Fatalf("config error: %v", err)
	}

	zapLogger, err := logger.New(logger.Config{
		Level:    cfg.Logger.Level,
		Encoding: cfg.Logger.Encoding,
	})
	if err != nil {
		log.Fatalf("logger error: %v", err)
	}
	defer zapLogger.Sync()

	appCtx, cancel := context.WithCancel(context.Background())
	defer cancel()

	manager := lifecycle.New(cfg.Context.ShutdownTimeout, zapLogger)
	manager.Listen(cancel)

	if err := pgInfra.RunMigrations(cfg, zapLogger); err != nil {
		zapLogger.Fatal("migrations failed", zap.Error(err))
	}

	pool, err := pgInfra.NewPool(appCtx, cfg.Database, zapLogger)
	if err != nil {
		zapLogger.Fatal("postgres connection failed", zap.Error(err))
	}
	manager.Register("postgres", func(ctx context.Context) error {
		pool.Close()
		return nil
	})

	redisClient, err := redisInfra.NewClient(cfg.Redis)
	if err != nil {
		zapLogger.Fatal("redis connection failed", zap.Error(err))
	}
	manager.Register("redis", func(ctx context.Context) error {
		return redisClient.Close()
	})

	snapshotCache, err := weathercache.Open(cfg.Cache.Path)
	if err != nil {
		zapLogger.Fatal("failed to open weather cache", zap.Error(err))
	}
	manager.Register("weather_cache", func(ctx context.Context) error {
		return snapshotCache.Close()
	})
	if err := snapshotCache.Prune(time.Now().Add(-cfg.Cache.Retention)); err != nil {
		zapLogger.Warn("weather cache prune failed", zap.Error(err))
	}

	mon := monitor.New(pool, redisClient, snapshotCache, 10*time.Second, zapLogger)
	mon.Start()
	manager.Register("monitor", func(ctx context.Context) error {
		mon.Stop()
		return nil
	})

	userRepo := postgres.NewUserRepository(pool)
	sessionRepo := redisRepo.NewSessionRepository(redisClient, cfg.Session.TTL)

	weatherClient := openweather.NewClient(openweather.Config{
		BaseURL: cfg.Weather.BaseURL,
		APIKey:  cfg.Weather.APIKey,
		Timeout: cfg.Weather.Timeout,
	}, zapLogger)

	cores := tasksync.NewManager(func(userID string) *tasksync.Core {
		core := tasksync.New(
			postgres.NewTaskStore(pool, userID),
			weatherClient,
			authUC.ContextProvider{},
			snapshotCache,
			zapLogger.Named("tasksync"),
		)
		if snapshots, err := snapshotCache.All(); err == nil {
			core.SeedWeather(snapshots)
		}
		return core
	}, zapLogger)
	manager.Register("task_cores", func(ctx context.Context) error {
		cores.Shutdown()
		return nil
	})

	reminderWorker := reminder.NewWorker(
		postgres.NewReminderQueries(pool),
		zapLogger,
		reminder.Config{Interval: cfg.Reminder.Interval},
	)
	reminderWorker.Start()
	manager.Register("reminder_worker", func(ctx context.Context) error {
		reminderWorker.Stop(ctx)
		return nil
	})

	authUseCase := authUC.New(userRepo, sessionRepo, cfg.JWT.Secret, cfg.JWT.Issuer, zapLogger)

	ctxAdapter := httpcontext.NewAdapter(cfg.Context.RequestTimeout)

	handlers := router.Handlers{
		Auth:    apiHandler.NewAuthHandler(authUseCase, cores, ctxAdapter, zapLogger, cfg.Session.TTL),
		Task:    apiHandler.NewTaskHandler(cores, ctxAdapter, zapLogger),
		Weather: apiHandler.NewWeatherHandler(cores, ctxAdapter, zapLogger),
		Health:  apiHandler.NewHealthHandler(mon, ctxAdapter, zapLogger),
	}

	authMiddleware := middleware.SessionAuth(cfg.JWT.Secret, authUseCase, zapLogger)
	r := router.New(handlers, authMiddleware)

	server := &fasthttp.Server{
		Handler:      r.Handler,
		ReadTimeout:  cfg.HTTP.ReadTimeout,
		WriteTimeout: cfg.HTTP.WriteTimeout,
		IdleTimeout:  cfg.HTTP.IdleTimeout,
		Name:         cfg.AppName,
	}

	go func() {
		zapLogger.Info("server started", zap.String("address", cfg.Address()))
		if err := server.ListenAndServe(cfg.Address()); err != nil {
			zapLogger.Fatal("server crashed", zap.Error(err))
		}
	}()

	manager.Register("http_server", func(ctx context.Context) error {
		return server.Shutdown()
	})

	<-appCtx.Done()

	if err := manager.Shutdown(context.Background()); err != nil {
		zapLogger.Error("graceful shutdown error", zap.Error(err))
	}
}
