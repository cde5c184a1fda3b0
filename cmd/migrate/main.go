package main

import (
	"flag"
	"fmt"
	"log"

	"habit-reminder/internal/config"
	"habit-reminder/internal/database"
	"habit-reminder/internal/logger"
)

func main() {
	var down bool
	flag.BoolVar(&down, "down", false, "Roll back the last applied migration")
	flag.Parse()

	// Загружаем конфигурацию
	cfg, err := config.Load()
	if err != nil {
		log.Fatalf("Failed to load config: %v", err)
	}

	logger := logger.New(cfg.LogLevel)

	// Подключаемся к базе данных
	db, err := database.New(cfg.DatabaseURL, logger)
	if err != nil {
		log.Fatalf("Failed to connect to database: %v", err)
	}
	defer db.Close()

	if down {
		if err := db.RollbackLastMigration(); err != nil {
			log.Fatalf("Failed to roll back migration: %v", err)
		}
		fmt.Println("✅ Last migration rolled back")
		return
	}

	fmt.Println("🚀 Creating tables and running migrations...")

	// Таблицы создаются, если их нет, затем применяются миграции
	if err := db.CreateTables(); err != nil {
		log.Fatalf("Failed to run migrations: %v", err)
	}

	fmt.Println("✅ All migrations completed successfully!")
}
