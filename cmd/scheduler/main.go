package main

import (
	"context"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/jmoiron/sqlx"
	_ "github.com/lib/pq"
	"github.com/redis/go-redis/v9"
	"github.com/robfig/cron/v3"
	"github.com/rs/zerolog/log"
	"github.com/segyhp/coop-billing/internal/config"
	"github.com/segyhp/coop-billing/internal/repository"
	"github.com/segyhp/coop-billing/internal/service"
	"github.com/segyhp/coop-billing/pkg/utils"
)

// jobTimeout bounds a single run of a scheduled job
const jobTimeout = 10 * time.Minute

func main() {
	// Load configuration
	cfg, err := config.Load()
	if err != nil {
		log.Fatal().Err(err).Msg("Failed to load configuration")
	}

	cfg.SetupLogger()

	log.Info().Msg("Starting billing scheduler...")

	db, err := sqlx.Connect("postgres", cfg.Database.DSN())
	if err != nil {
		log.Fatal().Err(err).Msg("Failed to initialize database")
	}
	defer db.Close()
	db.SetMaxOpenConns(cfg.Database.MaxOpenConns)
	db.SetMaxIdleConns(cfg.Database.MaxIdleConns)
	db.SetConnMaxLifetime(cfg.GetConnMaxLifetime())

	redisOpts := &redis.Options{Addr: cfg.Redis.Addr(), Password: cfg.Redis.Password, DB: cfg.Redis.DB}
	if cfg.Redis.URL != "" {
		if redisOpts, err = redis.ParseURL(cfg.Redis.URL); err != nil {
			log.Fatal().Err(err).Msg("Failed to parse REDIS_URL")
		}
	}
	redisClient := redis.NewClient(redisOpts)
	defer redisClient.Close()

	reminderService := service.NewReminderService(
		repository.NewLoanRepository(db),
		repository.NewReminderLog(redisClient),
		cfg,
	)

	// Jobs run on the business calendar
	loc := cfg.GetLocation()
	logger := cronLogger{logger: log.Logger}
	c := cron.New(
		cron.WithSeconds(),
		cron.WithLocation(loc),
		cron.WithLogger(logger),
		cron.WithChain(cron.Recover(logger), cron.SkipIfStillRunning(logger)),
	)

	setupCronJobs(c, cfg, reminderService, loc)

	c.Start()
	log.Info().Str("timezone", loc.String()).Msg("Scheduler started successfully")

	// Wait for interrupt signal to gracefully shutdown
	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	<-quit

	log.Info().Msg("Shutting down scheduler...")
	<-c.Stop().Done()
	log.Info().Msg("Scheduler stopped")
}

func setupCronJobs(c *cron.Cron, cfg *config.Config, reminders *service.ReminderService, loc *time.Location) {
	// Daily sweep flags loans Macet or restores them to Aktif
	_, err := c.AddFunc(cfg.Scheduler.DelinquencySpec, func() {
		ctx, cancel := context.WithTimeout(context.Background(), jobTimeout)
		defer cancel()

		today := utils.TruncateToDate(time.Now().In(loc))
		log.Info().Str("today", today.Format(utils.DateLayout)).Msg("Running delinquency sweep")
		if _, err := reminders.SweepDelinquency(ctx, today); err != nil {
			log.Error().Err(err).Msg("Delinquency sweep finished with errors")
		}
	})
	if err != nil {
		log.Fatal().Err(err).Str("spec", cfg.Scheduler.DelinquencySpec).Msg("Error scheduling delinquency sweep")
	}

	// Working-day morning reminders for upcoming and overdue installments
	_, err = c.AddFunc(cfg.Scheduler.ReminderSpec, func() {
		ctx, cancel := context.WithTimeout(context.Background(), jobTimeout)
		defer cancel()

		today := utils.TruncateToDate(time.Now().In(loc))
		sent, err := reminders.SendDueReminders(ctx, today)
		if err != nil {
			log.Error().Err(err).Int("sent", sent).Msg("Reminder run finished with errors")
			return
		}
		log.Info().Int("sent", sent).Msg("Reminder run finished")
	})
	if err != nil {
		log.Fatal().Err(err).Str("spec", cfg.Scheduler.ReminderSpec).Msg("Error scheduling reminder job")
	}

	log.Info().Msg("Cron jobs scheduled successfully")
}
