package main

import (
	"context"
	"log"

	"github.com/jonboulle/clockwork"
	"github.com/valyala/fasthttp"
	"go.uber.org/zap"

	apiHandler "github.com/fastygo/gac-shell/api/handler"
	"github.com/fastygo/gac-shell/domain"
	"github.com/fastygo/gac-shell/internal/config"
	"github.com/fastygo/gac-shell/internal/infrastructure/buffer"
	"github.com/fastygo/gac-shell/internal/infrastructure/monitor"
	pgInfra "github.com/fastygo/gac-shell/internal/infrastructure/postgres"
	redisInfra "github.com/fastygo/gac-shell/internal/infrastructure/redis"
	"github.com/fastygo/gac-shell/internal/middleware"
	"github.com/fastygo/gac-shell/internal/router"
	"github.com/fastygo/gac-shell/internal/services"
	"github.com/fastygo/gac-shell/internal/services/lifecycle"
	"github.com/fastygo/gac-shell/pkg/httpcontext"
	"github.com/fastygo/gac-shell/pkg/logger"
	"github.com/fastygo/gac-shell/pkg/routes"
	"github.com/fastygo/gac-shell/pkg/token"
	"github.com/fastygo/gac-shell/repository/postgres"
	redisRepo "github.com/fastygo/gac-shell/repository/redis"
	authUC "github.com/fastygo/gac-shell/usecase/auth"
	"github.com/fastygo/gac-shell/usecase/shell"
	workOrderUC "github.com/fastygo/gac-shell/usecase/workorder"
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

	clock := clockwork.NewRealClock()
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
		pgInfra.Close(pool, zapLogger)
		return nil
	})

	redisClient, err := redisInfra.NewClient(appCtx, cfg.Redis, zapLogger)
	if err != nil {
		zapLogger.Fatal("redis connection failed", zap.Error(err))
	}
	manager.RegisterCloser("redis", redisClient)

	bufferStore, err := buffer.Open(cfg.Buffer.Path, buffer.Options{Clock: clock})
	if err != nil {
		zapLogger.Fatal("failed to open buffer store", zap.Error(err))
	}
	manager.RegisterCloser("buffer", bufferStore)

	mon := monitor.New(monitor.Dependencies{
		Postgres: monitor.PingFunc(pool.Ping),
		Redis:    monitor.PingFunc(redisInfra.Pinger(redisClient)),
		Buffer:   bufferStore,
	}, cfg.Context.MonitorInterval, clock, zapLogger)
	mon.Start()
	manager.Register("monitor", func(ctx context.Context) error {
		mon.Stop()
		return nil
	})

	userRepo := postgres.NewUserRepository(pool)
	workOrderRepo := postgres.NewWorkOrderRepository(pool)
	sessionRepo := redisRepo.NewSessionRepository(redisClient, cfg.JWT.SessionTTL)
	listCache := redisRepo.NewWorkOrderListCache(redisClient, cfg.Shell.CacheTTL)

	workOrderQuery := workOrderUC.NewQuery(workOrderRepo, listCache, clock, cfg.Shell.QueryStaleTime, zapLogger)

	bufferProcessor := services.NewBufferProcessor(
		bufferStore,
		mon,
		workOrderRepo,
		workOrderQuery,
		zapLogger,
		services.ProcessorConfig{
			Interval:   cfg.Buffer.SyncInterval,
			BatchSize:  cfg.Buffer.BatchSize,
			MaxRetries: cfg.Buffer.MaxRetry,
			Retention:  cfg.Buffer.Retention,
		},
	)
	bufferProcessor.Start()
	manager.Register("buffer_processor", func(ctx context.Context) error {
		bufferProcessor.Stop(ctx)
		return nil
	})

	bufferBridge := services.NewBufferBridge(bufferProcessor)

	signer := token.NewSigner(cfg.JWT.Secret, cfg.JWT.Issuer)
	authUseCase := authUC.New(userRepo, sessionRepo, signer, clock, zapLogger)
	workOrderUseCase := workOrderUC.New(workOrderRepo, bufferBridge, workOrderQuery, clock, zapLogger)

	if cfg.Bootstrap.UserID != "" {
		if err := authUseCase.EnsureUser(appCtx, &domain.User{
			ID:       cfg.Bootstrap.UserID,
			FullName: cfg.Bootstrap.FullName,
			Email:    cfg.Bootstrap.Email,
			Role:     cfg.Bootstrap.Role,
		}); err != nil {
			zapLogger.Fatal("bootstrap user failed", zap.Error(err))
		}
	}

	catalog := shell.DefaultCatalog(routes.Build)
	shellFactory := shell.NewFactory(catalog, authUseCase, workOrderQuery)

	ctxAdapter := httpcontext.NewAdapter(cfg.Context.RequestTimeout)

	handlers := router.Handlers{
		Auth:      apiHandler.NewAuthHandler(authUseCase, ctxAdapter, zapLogger, cfg.JWT.SessionTTL, cfg.JWT.CookieName),
		WorkOrder: apiHandler.NewWorkOrderHandler(workOrderUseCase, ctxAdapter, zapLogger),
		Shell:     apiHandler.NewShellHandler(shellFactory, ctxAdapter, zapLogger, cfg.Shell.RenderBudget),
		Health:    apiHandler.NewHealthHandler(mon, ctxAdapter, zapLogger),
	}

	r := router.New(handlers, catalog, router.Options{
		RequireAuth:  middleware.JWTAuth(signer, cfg.JWT.CookieName, zapLogger),
		OptionalAuth: middleware.OptionalJWT(signer, cfg.JWT.CookieName, zapLogger),
		Metrics:      cfg.HTTP.EnableMetrics,
	})

	server := &fasthttp.Server{
		Handler:      r.Handler,
		ReadTimeout:  cfg.HTTP.ReadTimeout,
		WriteTimeout: cfg.HTTP.WriteTimeout,
		IdleTimeout:  cfg.HTTP.IdleTimeout,
		Concurrency:  cfg.HTTP.MaxConn,
		Name:         cfg.AppName,
	}

	go func() {
		zapLogger.Info("server started",
			zap.String("address", cfg.Address()),
			zap.Int("pages", catalog.Len()),
		)
		if err := server.ListenAndServe(cfg.Address()); err != nil {
			zapLogger.Fatal("server crashed", zap.Error(err))
		}
	}()

	manager.Register("http_server", func(ctx context.Context) error {
		return server.ShutdownWithContext(ctx)
	})

	<-appCtx.Done()

	if err := manager.Shutdown(context.Background()); err != nil {
		zapLogger.Error("graceful shutdown error", zap.Error(err))
	}
}
