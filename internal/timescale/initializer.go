// Package timescale initializes the TimescaleDB store: extension, telemetry
// and orbit hypertables, the maneuver table, and their indexes.
package timescale

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"time"

	"gorm.io/driver/postgres"
	"gorm.io/gorm"
	gormlogger "gorm.io/gorm/logger"
)

// Config holds the TimescaleDB connection parameters.
type Config struct {
	Logger   *slog.Logger
	Host     string
	User     string
	Password string
	DBName   string
	SSLMode  string
	Port     int
}

// DSN builds the postgres connection string for the configuration.
func (c *Config) DSN() string {
	return fmt.Sprintf("host=%s port=%d user=%s password=%s dbname=%s sslmode=%s",
		c.Host, c.Port, c.User, c.Password, c.DBName, c.SSLMode)
}

// Initializer applies the idempotent TimescaleDB setup sequence.
type Initializer struct {
	logger *slog.Logger
	cfg    *Config
}

// NewInitializer creates an Initializer from the given configuration.
func NewInitializer(cfg *Config) (*Initializer, error) {
	if cfg == nil {
		return nil, errors.New("timescale config cannot be nil")
	}
	if cfg.Logger == nil {
		return nil, errors.New("logger cannot be nil")
	}
	if cfg.Host == "" {
		return nil, errors.New("host cannot be empty")
	}
	if cfg.Port <= 0 {
		return nil, errors.New("port must be positive")
	}
	if cfg.User == "" {
		return nil, errors.New("user cannot be empty")
	}
	if cfg.DBName == "" {
		return nil, errors.New("database name cannot be empty")
	}
	if cfg.SSLMode == "" {
		cfg.SSLMode = "disable"
	}
	return &Initializer{logger: cfg.Logger, cfg: cfg}, nil
}

// Initialize connects to TimescaleDB and applies the setup sequence:
// extension, tables, hypertable conversion, indexes. Every step is safe to
// re-run. A connection failure or an unexpected DDL failure is returned to
// the caller; the "already a hypertable" condition is tolerated.
func (i *Initializer) Initialize(ctx context.Context) error {
	db, err := i.connect()
	if err != nil {
		return err
	}
	defer i.close(db)

	return i.Apply(ctx, db)
}

// Apply runs the DDL sequence against an open connection: extension,
// tables, hypertable conversion, indexes.
func (i *Initializer) Apply(ctx context.Context, db *gorm.DB) error {
	if err := i.ensureExtension(ctx, db); err != nil {
		return err
	}

	for _, ddl := range tableDDL {
		if err := db.WithContext(ctx).Exec(ddl).Error; err != nil {
			return fmt.Errorf("failed to create table: %w", err)
		}
	}

	for _, table := range Hypertables() {
		stmt := fmt.Sprintf("SELECT create_hypertable('%s', 'time', if_not_exists => TRUE)", table)
		if err := db.WithContext(ctx).Exec(stmt).Error; err != nil {
			if !IsAlreadyHypertable(err) {
				return fmt.Errorf("failed to convert %s to hypertable: %w", table, err)
			}
			i.logger.Debug("table is already a hypertable", "table", table)
		}
	}

	for _, ddl := range indexDDL {
		if err := db.WithContext(ctx).Exec(ddl).Error; err != nil {
			return fmt.Errorf("failed to create index: %w", err)
		}
	}

	i.logger.Info("timescaledb tables, hypertables and indexes created")
	return nil
}

// ensureExtension installs the timescaledb extension when it is not yet
// present in pg_extension.
func (i *Initializer) ensureExtension(ctx context.Context, db *gorm.DB) error {
	var name string
	err := db.WithContext(ctx).
		Raw("SELECT extname FROM pg_extension WHERE extname = 'timescaledb'").
		Scan(&name).Error
	if err != nil {
		return fmt.Errorf("failed to query pg_extension: %w", err)
	}
	if name != "" {
		i.logger.Debug("timescaledb extension already installed")
		return nil
	}

	if err := db.WithContext(ctx).Exec("CREATE EXTENSION IF NOT EXISTS timescaledb CASCADE").Error; err != nil {
		return fmt.Errorf("failed to create timescaledb extension: %w", err)
	}
	i.logger.Info("timescaledb extension created")
	return nil
}

// connect opens a gorm connection with a quiet logger and verifies it with
// a ping before any DDL is attempted.
func (i *Initializer) connect() (*gorm.DB, error) {
	i.logger.Info("connecting to timescaledb",
		"host", i.cfg.Host,
		"port", i.cfg.Port,
		"dbname", i.cfg.DBName,
	)

	db, err := gorm.Open(postgres.Open(i.cfg.DSN()), &gorm.Config{
		Logger: gormlogger.Default.LogMode(gormlogger.Silent),
		NowFunc: func() time.Time {
			return time.Now().UTC()
		},
	})
	if err != nil {
		return nil, fmt.Errorf("failed to connect to timescaledb: %w", err)
	}

	sqlDB, err := db.DB()
	if err != nil {
		return nil, fmt.Errorf("failed to get database instance: %w", err)
	}
	sqlDB.SetMaxIdleConns(2)
	sqlDB.SetMaxOpenConns(5)
	sqlDB.SetConnMaxLifetime(time.Hour)

	if err := sqlDB.Ping(); err != nil {
		return nil, fmt.Errorf("failed to ping timescaledb: %w", err)
	}
	return db, nil
}

func (i *Initializer) close(db *gorm.DB) {
	sqlDB, err := db.DB()
	if err != nil {
		return
	}
	if err := sqlDB.Close(); err != nil {
		i.logger.Warn("failed to close timescaledb connection", "error", err)
	}
}
