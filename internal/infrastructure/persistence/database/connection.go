// Package database opens the relational store behind the repositories and
// manages its connection pool, read replicas and schema.
package database

import (
	"context"
	"database/sql"
	"fmt"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/collectors"
	"github.com/sousa/mealplan/internal/infrastructure/config"
	gormModels "github.com/sousa/mealplan/internal/infrastructure/persistence/gorm"
	"github.com/sousa/mealplan/internal/infrastructure/persistence/migrations"
	"go.uber.org/zap"
	"gorm.io/driver/mysql"
	"gorm.io/driver/postgres"
	"gorm.io/driver/sqlite"
	"gorm.io/gorm"
	"gorm.io/plugin/dbresolver"
)

// ConnectionManager owns the gorm handle and the pools beneath it
type ConnectionManager struct {
	config  *config.Config
	logger  *zap.Logger
	db      *gorm.DB
	writeDB *sql.DB
	monitor *QueryMonitor
}

// NewConnectionManager opens the configured database, registers replicas and
// brings the schema up to date.
func NewConnectionManager(cfg *config.Config, observer QueryObserver, log *zap.Logger) (*ConnectionManager, error) {
	log = log.Named("database")
	cm := &ConnectionManager{
		config:  cfg,
		logger:  log,
		monitor: NewQueryMonitor(observer, cfg.Database.SlowQueryThreshold, log),
	}

	if err := cm.initializePrimaryConnection(); err != nil {
		return nil, fmt.Errorf("failed to initialize primary connection: %w", err)
	}

	if err := cm.initializeReadReplicas(); err != nil {
		log.Warn("Failed to initialize read replicas", zap.Error(err))
	}

	if err := cm.monitor.Install(cm.db); err != nil {
		log.Warn("Failed to install query monitoring", zap.Error(err))
	}

	if err := cm.migrate(); err != nil {
		_ = cm.Close()
		return nil, err
	}

	log.Info("Database connection manager initialized",
		zap.String("driver", cfg.Database.Driver),
		zap.Int("max_open_conns", cfg.Database.MaxOpenConns),
		zap.Int("max_idle_conns", cfg.Database.MaxIdleConns),
		zap.Int("replicas", len(cfg.Database.Replicas)),
	)

	return cm, nil
}

func (cm *ConnectionManager) dialector(dsn string) (gorm.Dialector, error) {
	switch cm.config.Database.Driver {
	case "postgres":
		return postgres.Open(dsn), nil
	case "mysql":
		return mysql.Open(dsn), nil
	case "sqlite":
		return sqlite.Open(sqliteDSN(dsn)), nil
	default:
		return nil, fmt.Errorf("unsupported database driver %q", cm.config.Database.Driver)
	}
}

// initializePrimaryConnection sets up the primary database connection
func (cm *ConnectionManager) initializePrimaryConnection() error {
	dialector, err := cm.dialector(cm.config.GetDSN())
	if err != nil {
		return err
	}

	db, err := gorm.Open(dialector, &gorm.Config{
		Logger:                 NewGormLogger(cm.logger, cm.config.Database.SlowQueryThreshold, cm.config.App.Debug),
		SkipDefaultTransaction: true,
		TranslateError:         true,
	})
	if err != nil {
		return fmt.Errorf("failed to connect to database: %w", err)
	}

	sqlDB, err := db.DB()
	if err != nil {
		return fmt.Errorf("failed to get underlying sql.DB: %w", err)
	}

	if cm.config.Database.Driver == "sqlite" {
		// sqlite serialises writers; one connection avoids SQLITE_BUSY
		sqlDB.SetMaxOpenConns(1)
	} else {
		sqlDB.SetMaxOpenConns(cm.config.Database.MaxOpenConns)
		sqlDB.SetMaxIdleConns(cm.config.Database.MaxIdleConns)
	}
	sqlDB.SetConnMaxLifetime(cm.config.Database.ConnMaxLifetime)
	sqlDB.SetConnMaxIdleTime(cm.config.Database.ConnMaxIdleTime)

	ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()
	if err := sqlDB.PingContext(ctx); err != nil {
		return fmt.Errorf("failed to ping database: %w", err)
	}

	cm.db = db
	cm.writeDB = sqlDB
	return nil
}

// initializeReadReplicas routes reads to the configured replicas
func (cm *ConnectionManager) initializeReadReplicas() error {
	dsns := cm.config.ReplicaDSNs()
	if len(dsns) == 0 {
		return nil
	}

	replicas := make([]gorm.Dialector, 0, len(dsns))
	for _, dsn := range dsns {
		d, err := cm.dialector(dsn)
		if err != nil {
			return err
		}
		replicas = append(replicas, d)
	}

	err := cm.db.Use(dbresolver.Register(dbresolver.Config{
		Replicas: replicas,
		Policy:   dbresolver.RandomPolicy{},
	}).
		SetMaxOpenConns(cm.config.Database.MaxOpenConns).
		SetMaxIdleConns(cm.config.Database.MaxIdleConns).
		SetConnMaxLifetime(cm.config.Database.ConnMaxLifetime))
	if err != nil {
		return fmt.Errorf("failed to register read replicas: %w", err)
	}

	cm.logger.Info("Read replicas configured", zap.Int("replica_count", len(dsns)))
	return nil
}

// migrate runs the versioned SQL migrations on postgres and AutoMigrate
// elsewhere.
func (cm *ConnectionManager) migrate() error {
	if !cm.config.Database.AutoMigrate {
		return nil
	}

	if cm.config.Database.Driver == "postgres" {
		m, err := migrations.New(cm.writeDB, cm.config.Database.Database, cm.logger)
		if err != nil {
			return err
		}
		// Closing the migrator would close writeDB too.
		return m.Up()
	}

	if err := cm.db.AutoMigrate(gormModels.AllModels()...); err != nil {
		return fmt.Errorf("failed to migrate database: %w", err)
	}
	return nil
}

// DB returns the main database connection
func (cm *ConnectionManager) DB() *gorm.DB {
	return cm.db
}

// SQLDB returns the primary pool
func (cm *ConnectionManager) SQLDB() *sql.DB {
	return cm.writeDB
}

// Collector exposes pool statistics to Prometheus
func (cm *ConnectionManager) Collector() prometheus.Collector {
	return collectors.NewDBStatsCollector(cm.writeDB, cm.config.Database.Database)
}

// HealthCheck pings the primary database
func (cm *ConnectionManager) HealthCheck(ctx context.Context) error {
	if err := cm.writeDB.PingContext(ctx); err != nil {
		return fmt.Errorf("primary database ping failed: %w", err)
	}
	return nil
}

// Close closes all database connections
func (cm *ConnectionManager) Close() error {
	if cm.writeDB == nil {
		return nil
	}
	if err := cm.writeDB.Close(); err != nil {
		cm.logger.Error("Failed to close primary database", zap.Error(err))
		return err
	}
	return nil
}

// sqliteDSN enables foreign keys and a busy timeout on file databases
func sqliteDSN(path string) string {
	if path == "" || path == ":memory:" {
		return "file::memory:?_foreign_keys=on"
	}
	return fmt.Sprintf("file:%s?_foreign_keys=on&_busy_timeout=5000", path)
}
