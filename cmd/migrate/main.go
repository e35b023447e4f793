package main

import (
	"os"

	"airdrop-tracker-be/internal/config"
	"airdrop-tracker-be/internal/model"
	"airdrop-tracker-be/pkg/database"

	"github.com/fatih/color"
)

func main() {
	// 1. Load Configuration
	cfg := config.Load()
	if cfg.Database.Connection == "" {
		color.Red("Error: DB_CONNECTION_STRING is not set")
		os.Exit(1)
	}

	// 2. Connect to Database using existing GORM helpers
	db, err := database.NewGormDB(cfg.Database.Driver, cfg.Database.Connection)
	if err != nil {
		color.Red("Error: Failed to connect to database: %v", err)
		os.Exit(1)
	}

	color.Cyan("Starting GORM migration (%s)...", cfg.Database.Driver)

	// 3. Extensions (postgres only)
	if cfg.Database.Driver != database.DriverSQLite {
		color.Yellow("Step 1: Setting up extensions...")
		if err := db.Exec(`CREATE EXTENSION IF NOT EXISTS pgcrypto;`).Error; err != nil {
			color.Yellow("Warn: Failed to create pgcrypto extension: %v. Continuing...", err)
		}
	}

	// 4. AutoMigrate All Models
	models := model.All()
	color.Yellow("Step 2: Running AutoMigrate for %d tables...", len(models))
	if err := db.AutoMigrate(models...); err != nil {
		color.Red("Error: AutoMigrate failed: %v", err)
		os.Exit(1)
	}

	color.Green("✅ Success: Database migration completed.")
}
