// Package migration applies the shared and per-tenant schema migrations with golang-migrate.
package migration

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"net/url"
	"path/filepath"

	"github.com/erp/erpcore/internal/domain/tenant"
	"github.com/golang-migrate/migrate/v4"
	"github.com/golang-migrate/migrate/v4/database/postgres"
	_ "github.com/golang-migrate/migrate/v4/source/file"
	"github.com/google/uuid"
	"github.com/lib/pq"
	"go.uber.org/zap"
)

// Scope selects which migration set runs
type Scope string

const (
	// ScopeShared holds the tenant registry in the public schema
	ScopeShared Scope = "shared"
	// ScopeTenant holds the business tables replicated in every tenant schema
	ScopeTenant Scope = "tenant"
)

// Target is one schema a migration set is applied to
type Target struct {
	Scope  Scope
	Schema string
}

// SharedTarget returns the target for the public schema
func SharedTarget() Target {
	return Target{Scope: ScopeShared, Schema: tenant.SharedSchema}
}

// TenantTarget validates schema and returns a tenant target
func TenantTarget(schema string) (Target, error) {
	if _, err := tenant.NewNamespace(uuid.Nil, schema); err != nil {
		return Target{}, fmt.Errorf("invalid tenant schema %q: %w", schema, err)
	}
	return Target{Scope: ScopeTenant, Schema: schema}, nil
}

// SourcePath returns the directory holding the target's migrations under root
func (t Target) SourcePath(root string) string {
	return filepath.Join(root, string(t.Scope))
}

// DSN points dsn at the target schema. Tenant connections fall back to public
// for shared lookups; the version table lives in the target schema.
func (t Target) DSN(dsn string) (string, error) {
	u, err := url.Parse(dsn)
	if err != nil {
		return "", fmt.Errorf("parse database url: %w", err)
	}
	q := u.Query()
	if t.Scope == ScopeTenant {
		q.Set("search_path", t.Schema+","+tenant.SharedSchema)
	} else {
		q.Set("search_path", t.Schema)
	}
	u.RawQuery = q.Encode()
	return u.String(), nil
}

// EnsureSchema creates the target schema when it does not exist
func EnsureSchema(ctx context.Context, db *sql.DB, target Target) error {
	if target.Scope != ScopeTenant {
		return nil
	}
	if _, err := db.ExecContext(ctx, "CREATE SCHEMA IF NOT EXISTS "+pq.QuoteIdentifier(target.Schema)); err != nil {
		return fmt.Errorf("create schema %s: %w", target.Schema, err)
	}
	return nil
}

// Migrator handles database migrations using golang-migrate
type Migrator struct {
	migrate *migrate.Migrate
	target  Target
	logger  *zap.Logger
}

// New creates a Migrator for target over db. db must already use the target's search path.
func New(db *sql.DB, root string, target Target, logger *zap.Logger) (*Migrator, error) {
	driver, err := postgres.WithInstance(db, &postgres.Config{SchemaName: target.Schema})
	if err != nil {
		return nil, fmt.Errorf("failed to create postgres driver: %w", err)
	}

	m, err := migrate.NewWithDatabaseInstance(
		fmt.Sprintf("file://%s", target.SourcePath(root)),
		"postgres",
		driver,
	)
	if err != nil {
		return nil, fmt.Errorf("failed to create migrate instance: %w", err)
	}

	return &Migrator{
		migrate: m,
		target:  target,
		logger:  logger.With(zap.String("scope", string(target.Scope)), zap.String("schema", target.Schema)),
	}, nil
}

// Up runs all pending migrations
func (m *Migrator) Up() error {
	m.logger.Info("Running migrations up")

	err := m.migrate.Up()
	if errors.Is(err, migrate.ErrNoChange) {
		m.logger.Info("No migrations to apply")
		return nil
	}
	if err != nil {
		return fmt.Errorf("migration up failed: %w", err)
	}

	version, dirty, err := m.Version()
	if err != nil {
		return err
	}
	m.logger.Info("Migrations completed",
		zap.Uint("version", version),
		zap.Bool("dirty", dirty),
	)
	return nil
}

// Down rolls back all migrations
func (m *Migrator) Down() error {
	m.logger.Info("Running migrations down")

	err := m.migrate.Down()
	if errors.Is(err, migrate.ErrNoChange) {
		m.logger.Info("No migrations to roll back")
		return nil
	}
	if err != nil {
		return fmt.Errorf("migration down failed: %w", err)
	}

	m.logger.Info("All migrations rolled back")
	return nil
}

// Steps applies n migrations (positive = up, negative = down)
func (m *Migrator) Steps(n int) error {
	m.logger.Info("Running migration steps", zap.Int("steps", n))

	err := m.migrate.Steps(n)
	if errors.Is(err, migrate.ErrNoChange) {
		m.logger.Info("No migrations to apply")
		return nil
	}
	if err != nil {
		return fmt.Errorf("migration steps failed: %w", err)
	}

	version, dirty, err := m.Version()
	if err != nil {
		return err
	}
	m.logger.Info("Migration steps completed",
		zap.Uint("version", version),
		zap.Bool("dirty", dirty),
	)
	return nil
}

// Version returns the current migration version, 0 when nothing is applied
func (m *Migrator) Version() (uint, bool, error) {
	version, dirty, err := m.migrate.Version()
	if errors.Is(err, migrate.ErrNilVersion) {
		return 0, false, nil
	}
	if err != nil {
		return 0, false, fmt.Errorf("failed to get migration version: %w", err)
	}
	return version, dirty, nil
}

// Force sets the migration version without running migrations.
// Only for repairing a dirty state.
func (m *Migrator) Force(version int) error {
	m.logger.Warn("Forcing migration version", zap.Int("version", version))

	if err := m.migrate.Force(version); err != nil {
		return fmt.Errorf("failed to force version %d: %w", version, err)
	}

	m.logger.Info("Migration version forced", zap.Int("version", version))
	return nil
}

// Close closes the migrator and releases resources
func (m *Migrator) Close() error {
	sourceErr, dbErr := m.migrate.Close()
	if sourceErr != nil {
		return fmt.Errorf("failed to close source: %w", sourceErr)
	}
	if dbErr != nil {
		return fmt.Errorf("failed to close database: %w", dbErr)
	}
	return nil
}
