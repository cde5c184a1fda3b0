package main

import (
	"context"
	"flag"
	"log"
	"os"
	"os/signal"
	"syscall"
	"time"

	"habit-reminder/internal/config"
	"habit-reminder/internal/database"
	"habit-reminder/internal/logger"
	"habit-reminder/internal/notifier"
	"habit-reminder/internal/reminder"
	"habit-reminder/internal/scheduler"
)

func main() {
	var once bool
	flag.BoolVar(&once, "once", false, "Run a single reminder sweep and exit")
	flag.Parse()

	// Загружаем конфигурацию
	cfg, err := config.Load()
	if err != nil {
		log.Fatalf("Failed to load config: %v", err)
	}

	// Инициализируем логгер
	logger := logger.New(cfg.LogLevel)

	// Подключаемся к базе данных
	db, err := database.New(cfg.DatabaseURL, logger)
	if err != nil {
		logger.Fatalf("Failed to connect to database: %v", err)
	}
	defer db.Close()

	if cfg.RunMigrations {
		if err := db.CreateTables(); err != nil {
			logger.Fatalf("Failed to create tables: %v", err)
		}
	}

	tg, err := notifier.NewTelegram(cfg.APIToken, cfg.TelegramAPIEndpoint, logger)
	if err != nil {
		logger.Fatalf("Failed to create notifier: %v", err)
	}

	policy, err := reminder.NewPolicy(cfg.ReminderPolicy, cfg.Location)
	if err != nil {
		logger.Fatalf("Failed to create reminder policy: %v", err)
	}

	sweep := reminder.NewSweep(db, tg, policy, logger)

	// Создаем контекст, отменяемый по сигналу
	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	if once {
		if _, err := sweep.Run(ctx); err != nil {
			logger.Errorf("Reminder sweep failed: %v", err)
			os.Exit(1)
		}
		return
	}

	sched, err := scheduler.New(cfg.SweepSchedule, cfg.Location, sweep, logger)
	if err != nil {
		logger.Fatalf("Failed to create scheduler: %v", err)
	}
	sched.Start()

	// Ждем сигнала для graceful shutdown
	<-ctx.Done()
	logger.Info("Shutting down...")

	shutdownCtx, cancel := context.WithTimeout(context.Background(), 30*time.Second)
	defer cancel()
	if err := sched.Stop(shutdownCtx); err != nil {
		logger.Errorf("Failed to stop scheduler: %v", err)
	}
}
