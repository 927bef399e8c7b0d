// Package integration runs the services against a real PostgreSQL started with testcontainers.
package integration

import (
	"context"
	"database/sql"
	"fmt"
	"os"
	"path/filepath"
	"runtime"
	"testing"
	"time"

	"github.com/erp/erpcore/internal/domain/tenant"
	"github.com/erp/erpcore/internal/infrastructure/migration"
	"github.com/google/uuid"
	_ "github.com/lib/pq"
	"github.com/stretchr/testify/require"
	"github.com/testcontainers/testcontainers-go"
	tcpostgres "github.com/testcontainers/testcontainers-go/modules/postgres"
	"github.com/testcontainers/testcontainers-go/wait"
	"go.uber.org/zap/zaptest"
	gormpostgres "gorm.io/driver/postgres"
	"gorm.io/gorm"
	"gorm.io/gorm/logger"
)

// TestDB is a migrated PostgreSQL container
type TestDB struct {
	DB   *gorm.DB
	DSN  string
	root string
	t    *testing.T
}

// NewTestDB starts a fresh container and applies the shared migrations
func NewTestDB(t *testing.T) *TestDB {
	t.Helper()
	if testing.Short() {
		t.Skip("integration test needs docker")
	}

	ctx := context.Background()
	container, err := tcpostgres.Run(ctx,
		"postgres:16-alpine",
		tcpostgres.WithDatabase("erp_test"),
		tcpostgres.WithUsername("postgres"),
		tcpostgres.WithPassword("admin123"),
		testcontainers.WithWaitStrategy(
			wait.ForLog("database system is ready to accept connections").
				WithOccurrence(2).
				WithStartupTimeout(60*time.Second)),
	)
	require.NoError(t, err, "Failed to start PostgreSQL container")
	t.Cleanup(func() {
		if err := container.Terminate(context.Background()); err != nil {
			t.Logf("Warning: Failed to terminate container: %v", err)
		}
	})

	dsn, err := container.ConnectionString(ctx, "sslmode=disable")
	require.NoError(t, err)

	tdb := &TestDB{DSN: dsn, root: findMigrationsPath(t), t: t}
	tdb.migrate(migration.SharedTarget())

	gormConfig := &gorm.Config{
		Logger:                 logger.Default.LogMode(logger.Silent),
		SkipDefaultTransaction: true,
	}
	if os.Getenv("TEST_DB_DEBUG") != "" {
		gormConfig.Logger = logger.Default.LogMode(logger.Info)
	}
	db, err := gorm.Open(gormpostgres.Open(dsn), gormConfig)
	require.NoError(t, err, "Failed to connect to database")

	sqlDB, err := db.DB()
	require.NoError(t, err)
	sqlDB.SetMaxOpenConns(10)
	t.Cleanup(func() { _ = sqlDB.Close() })

	tdb.DB = db
	return tdb
}

// CreateTenant registers an active tenant and migrates its schema
func (tdb *TestDB) CreateTenant(name, schema string) tenant.Namespace {
	tdb.t.Helper()

	target, err := migration.TenantTarget(schema)
	require.NoError(tdb.t, err)
	tdb.migrate(target)

	id := uuid.New()
	require.NoError(tdb.t, tdb.DB.Exec(
		`INSERT INTO public.tenants (id, name, schema_name, status) VALUES (?, ?, ?, 'active')`,
		id, name, schema,
	).Error)

	ns, err := tenant.NewNamespace(id, schema)
	require.NoError(tdb.t, err)
	return ns
}

// SetTenantStatus changes a tenant's registry status
func (tdb *TestDB) SetTenantStatus(id uuid.UUID, status tenant.Status) {
	tdb.t.Helper()
	require.NoError(tdb.t, tdb.DB.Exec(`UPDATE public.tenants SET status = ? WHERE id = ?`, string(status), id).Error)
}

func (tdb *TestDB) migrate(target migration.Target) {
	tdb.t.Helper()
	ctx := context.Background()

	admin, err := sql.Open("postgres", tdb.DSN)
	require.NoError(tdb.t, err)
	defer admin.Close()
	require.NoError(tdb.t, migration.EnsureSchema(ctx, admin, target))

	dsn, err := target.DSN(tdb.DSN)
	require.NoError(tdb.t, err)
	db, err := sql.Open("postgres", dsn)
	require.NoError(tdb.t, err)
	defer db.Close()

	m, err := migration.New(db, tdb.root, target, zaptest.NewLogger(tdb.t))
	require.NoError(tdb.t, err, fmt.Sprintf("migrator for %s", target.Schema))
	defer m.Close()
	require.NoError(tdb.t, m.Up())
}

func findMigrationsPath(t *testing.T) string {
	t.Helper()
	_, filename, _, ok := runtime.Caller(0)
	require.True(t, ok)

	dir := filepath.Dir(filename)
	for i := 0; i < 5; i++ {
		candidate := filepath.Join(dir, "migrations")
		if _, err := os.Stat(filepath.Join(candidate, string(migration.ScopeTenant))); err == nil {
			return candidate
		}
		dir = filepath.Dir(dir)
	}
	t.Fatal("Could not find migrations directory")
	return ""
}
