package main

import (
	"context"
	"errors"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/jmoiron/sqlx"
	_ "github.com/lib/pq"
	"github.com/redis/go-redis/v9"
	"github.com/rs/zerolog/log"
	"github.com/segyhp/coop-billing/internal/config"
	"github.com/segyhp/coop-billing/internal/handler"
	"github.com/segyhp/coop-billing/internal/repository"
	"github.com/segyhp/coop-billing/internal/service"
	"github.com/segyhp/coop-billing/pkg/response"
)

func main() {
	// Load configuration
	cfg, err := config.Load()
	if err != nil {
		log.Fatal().Err(err).Msg("Failed to load configuration")
	}

	cfg.SetupLogger()

	// Initialize database
	db, err := initDB(cfg)
	if err != nil {
		log.Fatal().Err(err).Msg("Failed to initialize database")
	}
	defer db.Close()
	log.Info().Msg("Connected to database")

	// Initialize Redis
	redisClient, err := initRedis(cfg)
	if err != nil {
		log.Fatal().Err(err).Msg("Failed to initialize redis")
	}
	defer redisClient.Close()

	// Initialize repositories
	loanRepo := repository.NewLoanRepository(db)
	applicationRepo := repository.NewApplicationRepository(db)
	paymentRepo := repository.NewPaymentRepository(db)
	savingsRepo := repository.NewSavingsRepository(db)
	cashRepo := repository.NewCashBookRepository(db)
	txManager := repository.NewTxManager(db)

	// Initialize services
	billingService := service.NewBillingService(loanRepo, paymentRepo, savingsRepo, txManager, cfg)
	applicationService := service.NewApplicationService(applicationRepo, loanRepo, savingsRepo, txManager, cfg)
	cashBookService := service.NewCashBookService(cashRepo, repository.NewTransportLog(redisClient), cfg)

	billingHandler := handler.NewBillingHandler(billingService)
	applicationHandler := handler.NewApplicationHandler(applicationService)
	cashBookHandler := handler.NewCashBookHandler(cashBookService)
	healthHandler := handler.NewHealthHandler(db, redisClient, cfg.GetHealthTimeout())

	router := handler.NewRouter(billingHandler, applicationHandler, cashBookHandler, healthHandler)

	server := &http.Server{
		Addr:         cfg.Server.Host + ":" + cfg.Server.Port,
		Handler:      response.CORSMiddleware(router),
		ReadTimeout:  cfg.GetReadTimeout(),
		WriteTimeout: cfg.GetWriteTimeout(),
	}

	// Start server in a goroutine
	go func() {
		log.Info().Str("addr", server.Addr).Str("env", cfg.Server.Env).Msg("Server starting")
		if err := server.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			log.Fatal().Err(err).Msg("Server failed to start")
		}
	}()

	// Wait for interrupt signal to gracefully shutdown
	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	<-quit
	log.Info().Msg("Shutting down server...")

	ctx, cancel := context.WithTimeout(context.Background(), 30*time.Second)
	defer cancel()

	if err := server.Shutdown(ctx); err != nil {
		log.Error().Err(err).Msg("Server forced to shutdown")
	}

	log.Info().Msg("Server exited")
}

func initDB(cfg *config.Config) (*sqlx.DB, error) {
	db, err := sqlx.Connect("postgres", cfg.Database.DSN())
	if err != nil {
		return nil, err
	}

	db.SetMaxOpenConns(cfg.Database.MaxOpenConns)
	db.SetMaxIdleConns(cfg.Database.MaxIdleConns)
	db.SetConnMaxLifetime(cfg.GetConnMaxLifetime())

	return db, nil
}

func initRedis(cfg *config.Config) (*redis.Client, error) {
	if cfg.Redis.URL != "" {
		opts, err := redis.ParseURL(cfg.Redis.URL)
		if err != nil {
			return nil, err
		}
		return redis.NewClient(opts), nil
	}

	return redis.NewClient(&redis.Options{
		Addr:     cfg.Redis.Addr(),
		Password: cfg.Redis.Password,
		DB:       cfg.Redis.DB,
	}), nil
}
