package main

import (
	"context"
	"log"
	"os/signal"
	"syscall"

	"github.com/jackc/pgx/v5/pgxpool"
	"go.uber.org/zap"

	"github.com/glazehaus/studio_scheduler/internal/app"
	"github.com/glazehaus/studio_scheduler/internal/config"
	"github.com/glazehaus/studio_scheduler/internal/controller/httpapi"
	"github.com/glazehaus/studio_scheduler/internal/notify"
	"github.com/glazehaus/studio_scheduler/internal/repository"
	"github.com/glazehaus/studio_scheduler/internal/service"
)

func main() {
	cfg, err := config.Load()
	if err != nil {
		log.Fatalf("Failed to load config: %v", err)
	}

	logger := app.NewLogger(cfg.Environment)
	defer logger.Sync()

	logger.Info("Starting studio scheduler",
		zap.String("environment", cfg.Environment),
		zap.String("http_addr", cfg.HTTPAddr))

	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	pool, err := pgxpool.New(ctx, cfg.DBDSN)
	if err != nil {
		logger.Fatal("Failed to create database pool", zap.Error(err))
	}
	defer pool.Close()

	migrator, err := app.NewMigrator(pool, cfg.MigrationsPath)
	if err != nil {
		logger.Fatal("Failed to create migrator", zap.Error(err))
	}
	if err := migrator.Run(ctx); err != nil {
		logger.Fatal("Failed to apply migrations", zap.Error(err))
	}
	migrator.Close()

	bookingRepo := repository.NewBookingRepository(pool)
	productRepo := repository.NewProductRepository(pool)
	instructorRepo := repository.NewInstructorRepository(pool)
	availabilityRepo := repository.NewAvailabilityRepository(pool)

	scheduleService := service.NewScheduleService(bookingRepo, productRepo, instructorRepo, availabilityRepo, logger)

	notifier, err := notify.NewTelegramNotifier(cfg.TelegramToken, cfg.TelegramStaffChatID, logger)
	if err != nil {
		logger.Fatal("Failed to create staff notifier", zap.Error(err))
	}
	if notifier == nil {
		logger.Info("Staff notifications disabled")
	}

	var staffNotifier service.StaffNotifier
	if notifier != nil {
		staffNotifier = notifier
	}
	rescheduleService := service.NewRescheduleService(scheduleService, bookingRepo, staffNotifier, logger)

	sweeper := app.NewScheduler(scheduleService, cfg.SweepHorizonDays, logger)
	sweeper.Start(ctx)
	defer sweeper.Stop()

	router := httpapi.NewRouter(scheduleService, rescheduleService, instructorRepo, cfg.Environment, cfg.UIHorizonDays, logger)

	errChan := make(chan error, 1)
	go func() {
		errChan <- router.Run(cfg.HTTPAddr)
	}()

	select {
	case err := <-errChan:
		logger.Fatal("HTTP server failed", zap.Error(err))
	case <-ctx.Done():
		logger.Info("Shutting down")
	}
}
