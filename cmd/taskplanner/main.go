package main

import (
	"context"
	"log"
	"log/slog"
	"os"
	"os/signal"
	"syscall"
	"time"

	"taskplanner/internal/config"
	"taskplanner/internal/notify"
	"taskplanner/internal/repository"
	"taskplanner/internal/service"
)

func main() {
	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	cfg, err := config.Load()
	if err != nil {
		log.Fatalf("config: %v", err)
	}

	loc := time.Local
	if cfg.Timezone != "" {
		loc, err = time.LoadLocation(cfg.Timezone)
		if err != nil {
			log.Fatalf("timezone: %v", err)
		}
	}

	db, err := repository.NewDB(cfg.DatabaseURL)
	if err != nil {
		log.Fatalf("db: %v", err)
	}
	sqlDB, err := db.DB()
	if err == nil {
		defer sqlDB.Close()
	}

	logger := slog.New(slog.NewTextHandler(os.Stdout, nil))
	store := repository.NewStore(db)
	taskSvc := service.NewTaskService(store, logger)

	var pusher service.BriefingPusher
	if cfg.TelegramToken != "" {
		telegram, err := notify.New(cfg.TelegramToken, logger)
		if err != nil {
			log.Fatalf("telegram: %v", err)
		}
		pusher = telegram
	}

	batchSvc := service.NewBatchService(store, taskSvc, pusher, loc, cfg.RetentionDays, logger)

	scheduler := service.NewSchedulerService(loc)
	if _, err := scheduler.ScheduleDaily(cfg.BatchTime, func() {
		jobCtx, cancel := context.WithTimeout(context.Background(), 5*time.Minute)
		defer cancel()
		if err := batchSvc.RunDailyBatch(jobCtx, time.Now()); err != nil {
			logger.Error("daily batch failed", "error", err)
		}
	}); err != nil {
		log.Fatalf("schedule daily batch: %v", err)
	}
	scheduler.Start()
	defer scheduler.Stop()

	logger.Info("task planner started", "batch_time", cfg.BatchTime, "timezone", loc.String())
	<-ctx.Done()
	logger.Info("shutdown complete")
}
