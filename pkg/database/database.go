// Package database provides PostgreSQL connection management with lifecycle
// integration and embedded schema migrations.
package database

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"io/fs"
	"log/slog"

	"github.com/golang-migrate/migrate/v4"
	"github.com/golang-migrate/migrate/v4/database/postgres"
	"github.com/golang-migrate/migrate/v4/source/iofs"
	_ "github.com/jackc/pgx/v5/stdlib"

	"github.com/inkblot-io/inkblot/pkg/lifecycle"
)

// ErrNotReady indicates the database has not completed startup.
var ErrNotReady = errors.New("database not ready")

// System manages a database connection pool and its lifecycle.
type System interface {
	Connection() *sql.DB
	Start(lc *lifecycle.Coordinator) error
}

type system struct {
	db         *sql.DB
	migrations fs.FS
	logger     *slog.Logger
}

// New opens a connection pool from the configuration and verifies connectivity.
// Migrations are applied during Start, not here.
func New(cfg *Config, migrations fs.FS, logger *slog.Logger) (System, error) {
	db, err := sql.Open("pgx", cfg.Dsn())
	if err != nil {
		return nil, fmt.Errorf("open database: %w", err)
	}

	db.SetMaxOpenConns(cfg.MaxOpenConns)
	db.SetMaxIdleConns(cfg.MaxIdleConns)
	db.SetConnMaxLifetime(cfg.ConnMaxLifetimeDuration())

	ctx, cancel := context.WithTimeout(context.Background(), cfg.ConnTimeoutDuration())
	defer cancel()

	if err := db.PingContext(ctx); err != nil {
		db.Close()
		return nil, fmt.Errorf("ping database: %w", err)
	}

	return &system{
		db:         db,
		migrations: migrations,
		logger:     logger.With("system", "database"),
	}, nil
}

func (s *system) Connection() *sql.DB {
	return s.db
}

// Start applies pending migrations and registers connection teardown.
func (s *system) Start(lc *lifecycle.Coordinator) error {
	lc.OnStartup(func() {
		if err := s.migrate(); err != nil {
			s.logger.Error("migration failed", "error", err)
			return
		}
		s.logger.Info("database ready")
	})

	lc.OnShutdown(func() {
		<-lc.Context().Done()
		if err := s.db.Close(); err != nil {
			s.logger.Error("database close failed", "error", err)
		}
	})

	return nil
}

func (s *system) migrate() error {
	source, err := iofs.New(s.migrations, ".")
	if err != nil {
		return fmt.Errorf("migration source: %w", err)
	}

	driver, err := postgres.WithInstance(s.db, &postgres.Config{})
	if err != nil {
		return fmt.Errorf("migration driver: %w", err)
	}

	m, err := migrate.NewWithInstance("iofs", source, "postgres", driver)
	if err != nil {
		return fmt.Errorf("migration init: %w", err)
	}

	if err := m.Up(); err != nil && !errors.Is(err, migrate.ErrNoChange) {
		return fmt.Errorf("migration up: %w", err)
	}
	return nil
}
