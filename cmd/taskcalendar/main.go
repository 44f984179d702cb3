package main

import (
	"context"
	"errors"
	"log"
	"os"
	"os/signal"
	"syscall"
	"time"

	"go.uber.org/zap"

	"task-calendar/internal/bot"
	"task-calendar/internal/config"
	"task-calendar/internal/logger"
	"task-calendar/internal/repository"
	"task-calendar/internal/service"
)

func main() {
	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	cfg, err := config.Load()
	if err != nil {
		log.Fatalf("config: %v", err)
	}

	zl, err := logger.New(cfg.LogDevelopment)
	if err != nil {
		log.Fatalf("logger: %v", err)
	}
	defer logger.Sync(zl)

	db, err := repository.NewDB(cfg.DatabaseURL, zl)
	if err != nil {
		zl.Fatal("open database", zap.String("dsn", cfg.DatabaseURL), zap.Error(err))
	}
	sqlDB, err := db.DB()
	if err == nil {
		defer sqlDB.Close()
	}

	store := repository.NewTaskRepository(db)
	taskSvc := service.NewTaskService(store, zl)
	calendarSvc := service.NewCalendarService(store, zl)
	agendaSvc := service.NewAgendaService(store, zl)

	telegramBot, err := bot.New(cfg.TelegramToken, cfg.OwnerID, taskSvc, calendarSvc, agendaSvc, zl)
	if err != nil {
		zl.Fatal("create bot", zap.Error(err))
	}

	scheduler := service.NewSchedulerService(time.Local, zl)
	if _, err := scheduler.ScheduleDaily("today-panel", cfg.TodayRefreshAt, telegramBot.RefreshTodayPanel); err != nil {
		zl.Fatal("schedule today refresh", zap.String("at", cfg.TodayRefreshAt), zap.Error(err))
	}
	scheduler.Start()
	defer scheduler.Stop()

	zl.Info("task calendar started", zap.String("database", cfg.DatabaseURL))
	if err := telegramBot.Start(ctx); err != nil && !errors.Is(err, context.Canceled) {
		zl.Error("bot stopped with error", zap.Error(err))
	}
	zl.Info("shutdown complete")
}
