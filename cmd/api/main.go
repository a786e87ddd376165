package main

import (
	"context"
	"net/http"
	"os"

	"github.com/joho/godotenv"
	"github.com/prometheus/client_golang/prometheus"

	"github.com/marisolvega/skinroutine-backend/api/routes"
	"github.com/marisolvega/skinroutine-backend/internal/auth"
	"github.com/marisolvega/skinroutine-backend/internal/steps"
	"github.com/marisolvega/skinroutine-backend/internal/users"
	"github.com/marisolvega/skinroutine-backend/pkg/auth/session"
	"github.com/marisolvega/skinroutine-backend/pkg/config"
	"github.com/marisolvega/skinroutine-backend/pkg/db"
	"github.com/marisolvega/skinroutine-backend/pkg/logger"
	"github.com/marisolvega/skinroutine-backend/pkg/metrics"
	"github.com/marisolvega/skinroutine-backend/pkg/migrate"
	"github.com/marisolvega/skinroutine-backend/pkg/redis"
)

func main() {
	logg := logger.New(logger.Options{ServiceName: "api"})

	if err := godotenv.Load(); err != nil {
		logg.Warn(context.Background(), ".env file not found, relying on environment")
	}

	cfg, err := config.Load()
	if err != nil {
		logg.Error(context.Background(), "failed to load config", err)
		os.Exit(1)
	}

	logg = logger.New(logger.Options{
		ServiceName: "api",
		Level:       logger.ParseLevel(cfg.App.LogLevel),
		WarnStack:   cfg.App.LogWarnStack,
	})

	dbClient, err := db.New(context.Background(), cfg.DB, logg)
	if err != nil {
		logg.Error(context.Background(), "failed to bootstrap database", err)
		os.Exit(1)
	}
	defer func() {
		if err := dbClient.Close(); err != nil {
			logg.Error(context.Background(), "error closing database", err)
		}
	}()

	if err := migrate.MaybeRunDev(context.Background(), cfg, logg, dbClient); err != nil {
		logg.Error(context.Background(), "failed to run dev migrations", err)
		os.Exit(1)
	}

	redisClient, err := redis.New(context.Background(), cfg.Redis, logg)
	if err != nil {
		logg.Error(context.Background(), "failed to bootstrap redis", err)
		os.Exit(1)
	}
	defer func() {
		if err := redisClient.Close(); err != nil {
			logg.Error(context.Background(), "error closing redis", err)
		}
	}()

	sessionManager, err := session.NewManager(redisClient, cfg.JWT)
	if err != nil {
		logg.Error(context.Background(), "failed to create session manager", err)
		os.Exit(1)
	}

	accountRepo := users.NewRepository(dbClient.DB())
	stepRepo := steps.NewRepository(dbClient.DB())

	authService, err := auth.NewService(auth.ServiceParams{
		AccountRepo:    accountRepo,
		SessionManager: sessionManager,
		JWTConfig:      cfg.JWT,
	})
	if err != nil {
		logg.Error(context.Background(), "failed to create auth service", err)
		os.Exit(1)
	}

	registerService, err := auth.NewDBRegisterService(dbClient, cfg.Password)
	if err != nil {
		logg.Error(context.Background(), "failed to create register service", err)
		os.Exit(1)
	}

	usersService, err := users.NewService(users.ServiceParams{
		AccountRepo:    accountRepo,
		StepRepo:       stepRepo,
		PasswordConfig: cfg.Password,
	})
	if err != nil {
		logg.Error(context.Background(), "failed to create users service", err)
		os.Exit(1)
	}

	stepsService, err := steps.NewService(stepRepo)
	if err != nil {
		logg.Error(context.Background(), "failed to create steps service", err)
		os.Exit(1)
	}

	registry := prometheus.NewRegistry()
	httpMetrics := metrics.NewHTTPMetrics(registry)

	port := os.Getenv("PORT")
	if port == "" {
		port = cfg.App.Port
	}
	addr := ":" + port
	ctx := logg.WithFields(context.Background(), map[string]any{
		"env":  cfg.App.Env,
		"addr": addr,
	})
	logg.Info(ctx, "starting api server")

	server := &http.Server{
		Addr: addr,
		Handler: routes.NewRouter(routes.RouterParams{
			Config:          cfg,
			Logger:          logg,
			DBPinger:        dbClient,
			RedisPinger:     redisClient,
			RateLimiter:     redisClient,
			SessionChecker:  sessionManager,
			HTTPMetrics:     httpMetrics,
			MetricsGatherer: registry,
			AuthService:     authService,
			RegisterService: registerService,
			UsersService:    usersService,
			StepsService:    stepsService,
		}),
	}

	if err := server.ListenAndServe(); err != nil && err != http.ErrServerClosed {
		logg.Error(ctx, "api server stopped unexpectedly", err)
		os.Exit(1)
	}
}
