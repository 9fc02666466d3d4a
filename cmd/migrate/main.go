package main

import (
	"context"
	"database/sql"
	"flag"
	"fmt"
	"os"
	"path/filepath"
	"strconv"
	"time"

	"github.com/joho/godotenv"
	_ "github.com/lib/pq"
	"github.com/rs/zerolog/log"

	"editorial-backend/internal/config"
	"editorial-backend/internal/domains/admin"
	adminRepo "editorial-backend/internal/domains/admin/repository"
	adminService "editorial-backend/internal/domains/admin/service"
	"editorial-backend/internal/infrastructure/database"
	"editorial-backend/pkg/jwt"
	"editorial-backend/pkg/logger"
)

func main() {
	var (
		migrationsPath string
		seedAdmin      bool
		adminEmail     string
		adminName      string
	)

	flag.StringVar(&migrationsPath, "path", "migrations", "Path to the migrations directory")
	flag.BoolVar(&seedAdmin, "seed-admin", false, "Create an admin account after migrating (password from SEED_ADMIN_PASSWORD)")
	flag.StringVar(&adminEmail, "admin-email", "", "Email of the seeded admin")
	flag.StringVar(&adminName, "admin-name", "Editor", "Display name of the seeded admin")
	flag.Usage = printUsage
	flag.Parse()

	_ = godotenv.Load()
	logger.Init(os.Getenv("APP_ENV"))

	command := "up"
	if flag.NArg() > 0 {
		command = flag.Arg(0)
	}

	absPath, err := filepath.Abs(migrationsPath)
	if err != nil {
		log.Fatal().Err(err).Msg("Invalid migrations path")
	}

	dbConfig, err := config.LoadDatabaseConfig()
	if err != nil {
		log.Fatal().Err(err).Msg("Failed to load database config")
	}

	db, err := sql.Open("postgres", dbConfig.DSN())
	if err != nil {
		log.Fatal().Err(err).Msg("Failed to open database")
	}
	defer db.Close()

	if err := db.Ping(); err != nil {
		log.Fatal().Err(err).Msg("Failed to ping database")
	}

	m, err := database.NewMigrator(db, absPath)
	if err != nil {
		log.Fatal().Err(err).Msg("Failed to create migrator")
	}
	defer m.Close()

	if err := run(m, command, flag.Args()); err != nil {
		log.Fatal().Err(err).Str("command", command).Msg("Migration failed")
	}

	if seedAdmin {
		if err := seed(dbConfig, adminEmail, adminName, os.Getenv("SEED_ADMIN_PASSWORD")); err != nil {
			log.Fatal().Err(err).Msg("Failed to seed admin")
		}
	}
}

func run(m *database.Migrator, command string, args []string) error {
	switch command {
	case "up":
		return m.Up()
	case "down":
		return m.Down()
	case "steps":
		if len(args) < 2 {
			return fmt.Errorf("steps requires a count")
		}
		n, err := strconv.Atoi(args[1])
		if err != nil {
			return fmt.Errorf("invalid step count %q: %w", args[1], err)
		}
		return m.Steps(n)
	case "force":
		if len(args) < 2 {
			return fmt.Errorf("force requires a version")
		}
		v, err := strconv.Atoi(args[1])
		if err != nil {
			return fmt.Errorf("invalid version %q: %w", args[1], err)
		}
		return m.Force(v)
	case "version":
		v, dirty, err := m.Version()
		if err != nil {
			return err
		}
		log.Info().Uint("version", v).Bool("dirty", dirty).Msg("Current migration version")
		return nil
	default:
		printUsage()
		return fmt.Errorf("unknown command %q", command)
	}
}

// seed creates the first admin so the review surface can be reached at all.
func seed(dbConfig *database.DBConfig, email, name, password string) error {
	ctx, cancel := context.WithTimeout(context.Background(), 30*time.Second)
	defer cancel()

	pg := database.NewPostgresDB(dbConfig)
	if err := pg.Connect(ctx); err != nil {
		return err
	}
	defer pg.Close()

	cfg, err := config.Load()
	if err != nil {
		return err
	}

	svc := adminService.NewAdminService(
		adminRepo.NewPostgresRepository(pg.Pool),
		jwt.NewManager(cfg.JWT.Secret, cfg.JWT.AccessTokenExpiry),
	)

	created, err := svc.CreateAdmin(ctx, admin.CreateAdminRequest{
		Email:    email,
		Name:     name,
		Password: password,
	})
	if err != nil {
		return err
	}

	log.Info().Str("id", created.ID.String()).Str("email", created.Email).Msg("Admin created")
	return nil
}

func printUsage() {
	fmt.Fprintln(os.Stderr, `Usage: migrate [flags] <command> [args]

Commands:
  up              Apply all pending migrations (default)
  down            Roll back all migrations
  steps <n>       Apply n migrations, negative rolls back
  force <v>       Set the version without running migrations
  version         Print the current version

Flags:`)
	flag.PrintDefaults()
}
