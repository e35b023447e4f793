package main

import (
	"context"
	"log"
	"os"
	"os/signal"
	"syscall"

	"airdrop-tracker-be/internal/bootstrap"
	"airdrop-tracker-be/internal/config"
	"airdrop-tracker-be/internal/model"
	"airdrop-tracker-be/internal/server"
	"airdrop-tracker-be/internal/tracer"
	"airdrop-tracker-be/pkg/database"
)

func main() {
	// 0. Tracer (no-op unless OTEL_ENABLED=true)
	shutdownTracer := tracer.InitTracer()
	defer shutdownTracer(context.Background())

	// 1. Load Configuration
	cfg := config.Load()

	// 2. Initialize Database
	gormDB, err := database.NewGormDB(cfg.Database.Driver, cfg.Database.Connection)
	if err != nil {
		log.Panicf("Unable to connect to GORM DB: %v", err)
	}
	if cfg.Database.Driver == database.DriverSQLite {
		// Local mode has no separate migrate step.
		if err := gormDB.AutoMigrate(model.All()...); err != nil {
			log.Panicf("Auto migration failed: %v", err)
		}
	}

	// 3. Bootstrap Dependencies (Container)
	container := bootstrap.NewContainer(gormDB, cfg)
	defer container.Close()

	// 4. Start Background Services
	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()
	container.Start(ctx)

	// 5. Initialize Server
	srv := server.New(cfg, container)
	go func() {
		<-ctx.Done()
		log.Println("Shutting down...")
		if err := srv.Shutdown(); err != nil {
			log.Printf("Shutdown error: %v", err)
		}
	}()

	// 6. Run Server
	if err := srv.Run(); err != nil {
		log.Printf("Server stopped: %v", err)
	}
}
