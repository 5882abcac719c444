package main

import (
	"context"
	"log"
	"time"

	"github.com/valyala/fasthttp"
	"go.uber.org/zap"

	apiHandler "github.com/marketgo/backend/api/handler"
	"github.com/marketgo/backend/internal/config"
	"github.com/marketgo/backend/internal/infrastructure/buffer"
	"github.com/marketgo/backend/internal/infrastructure/monitor"
	pgInfra "github.com/marketgo/backend/internal/infrastructure/postgres"
	redisInfra "github.com/marketgo/backend/internal/infrastructure/redis"
	"github.com/marketgo/backend/internal/middleware"
	"github.com/marketgo/backend/internal/router"
	"github.com/marketgo/backend/internal/services"
	"github.com/marketgo/backend/internal/services/lifecycle"
	"github.com/marketgo/backend/pkg/httpcontext"
	"github.com/marketgo/backend/pkg/logger"
	"github.com/marketgo/backend/repository/postgres"
	redisRepo "github.com/marketgo/backend/repository/redis"
	orderUC "github.com/marketgo/backend/usecase/order"
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

	bufferStore, err := buffer.Open(cfg.Buffer.Path, "events")
	if err != nil {
		zapLogger.Fatal("failed to open event buffer", zap.Error(err))
	}
	manager.Register("buffer", func(ctx context.Context) error {
		return bufferStore.Close()
	})

	mon := monitor.New(pool, redisClient, bufferStore, 10*time.Second, zapLogger)
	mon.Start()
	manager.Register("monitor", func(ctx context.Context) error {
		mon.Stop()
		return nil
	})

	orderRepo := postgres.NewOrderRepository(pool)
	catalogStore := postgres.NewCatalogStore(pool)
	eventRepo := postgres.NewEventRepository(pool)
	orderCache := redisRepo.NewOrderCache(redisClient, cfg.Cache.OrderTTL)

	eventRecorder := services.NewEventRecorder(
		bufferStore,
		mon,
		eventRepo,
		zapLogger,
		services.RecorderConfig{
			Interval:   cfg.Recorder.Interval,
			BatchSize:  cfg.Recorder.BatchSize,
			MaxRetries: cfg.Recorder.MaxRetries,
		},
	)
	eventRecorder.Start()
	manager.Register("event_recorder", func(ctx context.Context) error {
		eventRecorder.Stop(ctx)
		return nil
	})

	eventBridge := services.NewEventBridge(eventRecorder)

	orderUseCase := orderUC.New(orderRepo, catalogStore, orderCache, eventBridge, eventRepo, zapLogger)

	ctxAdapter := httpcontext.NewAdapter(cfg.Context.RequestTimeout)

	handlers := router.Handlers{
		Order:   apiHandler.NewOrderHandler(orderUseCase, ctxAdapter, zapLogger),
		Catalog: apiHandler.NewCatalogHandler(catalogStore, ctxAdapter, zapLogger),
		Health:  apiHandler.NewHealthHandler(mon, ctxAdapter, zapLogger),
	}

	authMiddleware := middleware.JWTAuth(cfg.JWT.Secret, zapLogger)
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
