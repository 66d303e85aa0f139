// Command seed-admin creates an administrator account. The register
// endpoint never grants the admin role, so the first admin has to be
// seeded directly against the database.
package main

import (
	"context"
	"database/sql"
	"flag"
	"fmt"
	"log"
	"time"

	_ "github.com/jackc/pgx/v5/stdlib" // Register pgx driver for database/sql
	"github.com/Jorik-creator/microvolunteer/internal/config"
	"github.com/Jorik-creator/microvolunteer/internal/domain"
	"github.com/Jorik-creator/microvolunteer/internal/platform/logger"
	"github.com/Jorik-creator/microvolunteer/internal/platform/postgres"
)

func main() {
	email := flag.String("email", "", "email address for the admin account")
	displayName := flag.String("name", "Administrator", "display name for the admin account")
	password := flag.String("password", "", "password for the admin account")
	flag.Parse()

	if *email == "" || *password == "" {
		log.Fatal("both -email and -password are required")
	}

	cfg, err := config.Load()
	if err != nil {
		log.Fatalf("failed to load configuration: %v", err)
	}

	appLogger, err := logger.Setup(cfg.Server)
	if err != nil {
		log.Fatalf("failed to set up logger: %v", err)
	}

	db, err := sql.Open("pgx", cfg.Database.URL)
	if err != nil {
		log.Fatalf("failed to open database connection: %v", err)
	}
	defer func() {
		if err := db.Close(); err != nil {
			appLogger.Error("error closing database connection", "error", err)
		}
	}()

	ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()

	user, err := domain.NewUser(*email, *displayName, *password, domain.RoleAdmin)
	if err != nil {
		log.Fatalf("invalid admin account data: %v", err)
	}

	userStore := postgres.NewPostgresUserStore(db, cfg.Auth.BcryptCost, appLogger)
	if err := userStore.Create(ctx, user); err != nil {
		log.Fatalf("failed to create admin account: %v", err)
	}

	fmt.Printf("Admin account created: %s (%s)\n", user.Email, user.ID)
}
