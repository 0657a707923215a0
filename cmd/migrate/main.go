// Package main applies or inspects the versioned SQL migrations
package main

import (
	"database/sql"
	"flag"
	"fmt"
	"os"

	_ "github.com/jackc/pgx/v5/stdlib"
	"github.com/sousa/mealplan/internal/infrastructure/config"
	"github.com/sousa/mealplan/internal/infrastructure/persistence/migrations"
	"github.com/sousa/mealplan/pkg/logger"
	"go.uber.org/zap"
)

func main() {
	configPath := flag.String("config", os.Getenv(config.EnvPrefix+"_CONFIG"), "Configuration file path")
	steps := flag.Int("steps", 0, "Apply n migrations (negative rolls back)")
	force := flag.Int("force", -1, "Force the schema version without running migrations")
	flag.Usage = func() {
		fmt.Fprintf(flag.CommandLine.Output(), "usage: migrate [flags] up|down|reset|status|version\n")
		flag.PrintDefaults()
	}
	flag.Parse()

	command := flag.Arg(0)
	if command == "" {
		command = "up"
	}

	if err := run(*configPath, command, *steps, *force); err != nil {
		fmt.Fprintf(os.Stderr, "migrate: %v\n", err)
		os.Exit(1)
	}
}

func run(configPath, command string, steps, force int) error {
	cfg, err := config.Load(configPath)
	if err != nil {
		return err
	}
	if cfg.Database.Driver != "postgres" {
		return fmt.Errorf("SQL migrations target postgres, configured driver is %q", cfg.Database.Driver)
	}

	log, err := logger.New(logger.Config{
		Level:       cfg.App.LogLevel,
		Format:      cfg.App.LogFormat,
		Development: cfg.App.Debug,
	})
	if err != nil {
		return err
	}
	defer func() { _ = log.Sync() }()

	db, err := sql.Open("pgx", cfg.GetDSN())
	if err != nil {
		return fmt.Errorf("failed to open database: %w", err)
	}
	defer db.Close()

	m, err := migrations.New(db, cfg.Database.Database, log.Logger)
	if err != nil {
		return err
	}
	defer m.Close()

	switch {
	case force >= 0:
		return m.Force(force)
	case steps != 0:
		return m.Steps(steps)
	}

	switch command {
	case "up":
		return m.Up()
	case "down":
		return m.Down()
	case "reset":
		return m.Reset()
	case "version":
		version, dirty, err := m.Version()
		if err != nil {
			return err
		}
		log.Info("Schema version", zap.Uint("version", version), zap.Bool("dirty", dirty))
		fmt.Printf("version=%d dirty=%t\n", version, dirty)
		return nil
	case "status":
		status, err := m.Status()
		if err != nil {
			return err
		}
		fmt.Printf("%+v\n", *status)
		return nil
	default:
		return fmt.Errorf("unknown command %q", command)
	}
}
