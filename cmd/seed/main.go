package main

import (
	"context"
	"os"
	"strings"
	"time"

	"airdrop-tracker-be/internal/config"
	"airdrop-tracker-be/internal/entity"
	"airdrop-tracker-be/internal/repository/specification"
	"airdrop-tracker-be/internal/repository/unitofwork"
	"airdrop-tracker-be/pkg/database"

	"github.com/fatih/color"
	"github.com/google/uuid"
	"golang.org/x/crypto/bcrypt"
)

// Creates the first admin account, or promotes an existing user with the
// same email. Safe to run more than once.
func main() {
	cfg := config.Load()
	if cfg.Database.Connection == "" {
		color.Red("Error: DB_CONNECTION_STRING is not set")
		os.Exit(1)
	}

	email := strings.ToLower(strings.TrimSpace(os.Getenv("SEED_ADMIN_EMAIL")))
	username := strings.TrimSpace(os.Getenv("SEED_ADMIN_USERNAME"))
	password := os.Getenv("SEED_ADMIN_PASSWORD")
	if email == "" || password == "" {
		color.Red("Error: SEED_ADMIN_EMAIL and SEED_ADMIN_PASSWORD are required")
		os.Exit(1)
	}
	if username == "" {
		username = "admin"
	}

	db, err := database.NewGormDB(cfg.Database.Driver, cfg.Database.Connection)
	if err != nil {
		color.Red("Error: Failed to connect to database: %v", err)
		os.Exit(1)
	}

	ctx, cancel := context.WithTimeout(context.Background(), 30*time.Second)
	defer cancel()

	uow := unitofwork.NewRepositoryFactory(db).NewUnitOfWork(ctx)
	if err := uow.Begin(ctx); err != nil {
		color.Red("Error: %v", err)
		os.Exit(1)
	}
	defer uow.Rollback()

	users := uow.UserRepository()
	existing, err := users.FindOne(ctx, specification.ByEmail{Email: email})
	if err != nil {
		color.Red("Error: Failed to look up %s: %v", email, err)
		os.Exit(1)
	}

	if existing != nil {
		if existing.IsAdmin && existing.EmailVerified {
			color.Yellow("%s is already an admin, nothing to do", email)
			return
		}
		existing.IsAdmin = true
		existing.EmailVerified = true
		existing.VerificationToken = nil
		if err := users.Update(ctx, existing); err != nil {
			color.Red("Error: Failed to promote %s: %v", email, err)
			os.Exit(1)
		}
		if err := uow.Commit(); err != nil {
			color.Red("Error: %v", err)
			os.Exit(1)
		}
		color.Green("✅ Promoted %s to admin", email)
		return
	}

	taken, err := users.FindOne(ctx, specification.ByUsername{Username: username})
	if err != nil {
		color.Red("Error: %v", err)
		os.Exit(1)
	}
	if taken != nil {
		color.Red("Error: username %q is already taken, set SEED_ADMIN_USERNAME", username)
		os.Exit(1)
	}

	hash, err := bcrypt.GenerateFromPassword([]byte(password), bcrypt.DefaultCost)
	if err != nil {
		color.Red("Error: Failed to hash password: %v", err)
		os.Exit(1)
	}

	admin := &entity.User{
		Id:            uuid.New(),
		Username:      username,
		Email:         email,
		PasswordHash:  string(hash),
		EmailVerified: true,
		IsAdmin:       true,
		Level:         1,
	}
	if err := users.Create(ctx, admin); err != nil {
		color.Red("Error: Failed to create admin: %v", err)
		os.Exit(1)
	}
	if err := uow.Commit(); err != nil {
		color.Red("Error: %v", err)
		os.Exit(1)
	}

	color.Green("✅ Created admin %s (%s)", username, email)
}
