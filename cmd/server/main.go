package main

import (
	"context"
	"fmt"
	"net/http"
	"os"
	"os/signal"
	"syscall"

	goredis "github.com/redis/go-redis/v9"
	"github.com/rs/zerolog"
	"github.com/rs/zerolog/log"

	httpAdapter "github.com/druiz/poscaja/internal/adapter/http"
	"github.com/druiz/poscaja/internal/adapter/http/handler"
	postgresRepo "github.com/druiz/poscaja/internal/adapter/repository/postgres"
	redisRepo "github.com/druiz/poscaja/internal/adapter/repository/redis"
	"github.com/druiz/poscaja/internal/infrastructure/auth"
	"github.com/druiz/poscaja/internal/infrastructure/config"
	"github.com/druiz/poscaja/internal/infrastructure/metrics"
	"github.com/druiz/poscaja/internal/infrastructure/postgres"
	"github.com/druiz/poscaja/internal/infrastructure/redis"
	"github.com/druiz/poscaja/internal/usecase"
)

func main() {
	// Setup logger
	zerolog.TimeFieldFormat = zerolog.TimeFormatUnix
	logger := log.Output(zerolog.ConsoleWriter{Out: os.Stderr})
	log.Logger = logger

	// Load configuration
	cfg, err := config.Load()
	if err != nil {
		log.Fatal().Err(err).Msg("failed to load configuration")
	}

	level, err := zerolog.ParseLevel(cfg.LogLevel)
	if err != nil {
		level = zerolog.InfoLevel
	}
	zerolog.SetGlobalLevel(level)

	if cfg.JWTSecret == "" {
		log.Fatal().Msg("JWT_SECRET must be set")
	}

	if cfg.DebugErrors {
		handler.EnableDebugErrors()
	}

	ctx := context.Background()

	// Connect to PostgreSQL
	pool, err := postgres.NewPool(ctx, cfg.DatabaseURL, cfg.DatabaseMaxConns, cfg.DatabaseMinConns)
	if err != nil {
		log.Fatal().Err(err).Msg("failed to connect to postgres")
	}
	defer pool.Close()
	log.Info().Msg("connected to postgres")

	// Apply migrations
	if err := postgres.RunMigrations(cfg.DatabaseURL, cfg.MigrationsPath); err != nil {
		log.Fatal().Err(err).Msg("failed to run migrations")
	}

	// Closed-date cache (optional)
	var (
		cache       usecase.Cache
		redisClient *goredis.Client
	)

	if cfg.CacheEnabled {
		redisClient, err = redis.NewClient(ctx, cfg.RedisURL)
		if err != nil {
			log.Fatal().Err(err).Msg("failed to connect to redis")
		}
		defer redisClient.Close()
		log.Info().Msg("connected to redis")

		cache = redisRepo.NewCache(redisClient)
	}

	// Initialize repositories
	creditRepo := postgresRepo.NewCreditRepository(pool)
	paymentRepo := postgresRepo.NewPaymentRepository(pool)
	closureRepo := postgresRepo.NewClosureRepository(pool)
	userRepo := postgresRepo.NewUserRepository(pool)
	auditRepo := postgresRepo.NewAuditRepository(pool)
	txManager := postgresRepo.NewTxManager(pool)
	idGen := postgresRepo.NewULIDGenerator()

	// Initialize use cases
	ledgerUC := usecase.NewLedgerUseCase(txManager, creditRepo, paymentRepo, auditRepo, idGen)
	registrarUC := usecase.NewRegistrarUseCase(closureRepo, auditRepo, idGen, cache)
	userUC := usecase.NewUserUseCase(userRepo, idGen)

	// Initialize handlers
	m := metrics.New()
	jwtManager := auth.NewJWTManager(cfg.JWTSecret, cfg.JWTExpiration)
	authHandler := handler.NewAuthHandler(userUC, jwtManager, m)
	creditHandler := handler.NewCreditHandler(ledgerUC, m)
	closureHandler := handler.NewClosureHandler(registrarUC, m)
	healthHandler := handler.NewHealthHandler(pool, redisClient)

	// Create router
	router := httpAdapter.NewRouter(httpAdapter.RouterConfig{
		AuthHandler:    authHandler,
		CreditHandler:  creditHandler,
		ClosureHandler: closureHandler,
		HealthHandler:  healthHandler,
		JWTManager:     jwtManager,
		Logger:         logger,
	})

	// Create server
	server := &http.Server{
		Addr:         fmt.Sprintf(":%s", cfg.HTTPPort),
		Handler:      router,
		ReadTimeout:  cfg.HTTPReadTimeout,
		WriteTimeout: cfg.HTTPWriteTimeout,
	}

	// Start server in goroutine
	go func() {
		log.Info().Str("port", cfg.HTTPPort).Msg("starting server")
		if err := server.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			log.Fatal().Err(err).Msg("server failed")
		}
	}()

	// Wait for interrupt signal
	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	<-quit

	log.Info().Msg("shutting down server...")

	shutdownCtx, cancel := context.WithTimeout(context.Background(), cfg.HTTPShutdownTimeout)
	defer cancel()

	if err := server.Shutdown(shutdownCtx); err != nil {
		log.Fatal().Err(err).Msg("server forced to shutdown")
	}

	log.Info().Msg("server stopped")
}
