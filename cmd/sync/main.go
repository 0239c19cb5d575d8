package main

import (
	"context"
	"os"
	"os/signal"
	"syscall"

	"healthmon-backend/cmd/bootstrap"
	"healthmon-backend/config"
	"healthmon-backend/internal/infrastructure/database"
)

// Runs a single Google Sheets reconciliation and exits.
func main() {
	log := bootstrap.SetupLogger()

	cfg, err := config.LoadConfig()
	if err != nil {
		log.Fatalf("Failed to load config: %v", err)
	}

	db, err := database.NewPostgresConnection(cfg.DB)
	if err != nil {
		log.Fatalf("Failed to connect to database: %v", err)
	}

	if cfg.DB.AutoMigrate {
		if err := database.Migrate(database.MigrationURL(cfg.DB)); err != nil {
			log.Fatalf("Failed to migrate database: %v", err)
		}
	}

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	sheetSync, err := bootstrap.NewSheetSync(ctx, cfg, db, log)
	if err != nil {
		log.Fatalf("Failed to init sheet sync: %v", err)
	}

	report, err := sheetSync.Run(ctx)
	if err != nil {
		log.Fatalf("Sheet sync failed: %v", err)
	}

	if sqlDB, err := db.DB(); err == nil {
		sqlDB.Close()
	}

	failed := 0
	for _, e := range report.Entities {
		if e.Error != "" {
			failed++
		}
	}
	if failed > 0 {
		log.Warnf("Sheet sync finished with %d unreadable tab(s)", failed)
		os.Exit(1)
	}
	log.Info("Sheet sync finished")
}
