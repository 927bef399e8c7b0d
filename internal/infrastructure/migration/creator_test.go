package migration

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestSanitizeName(t *testing.T) {
	tests := []struct {
		input    string
		expected string
	}{
		{"add stock index", "add_stock_index"},
		{"Add-Stock-Index", "add_stock_index"},
		{"add__stock__index", "add_stock_index"},
		{"   spaces   ", "spaces"},
		{"special!@#$chars", "specialchars"},
		{"_leading", "leading"},
		{"", ""},
	}

	for _, tt := range tests {
		t.Run(tt.input, func(t *testing.T) {
			assert.Equal(t, tt.expected, sanitizeName(tt.input))
		})
	}
}

func TestCreateMigration_NumbersPerScope(t *testing.T) {
	root := t.TempDir()
	tenantDir := filepath.Join(root, "tenant")
	require.NoError(t, os.MkdirAll(tenantDir, 0o755))
	for _, f := range []string{"000001_init.up.sql", "000001_init.down.sql", "000004_orders.up.sql", "000004_orders.down.sql"} {
		require.NoError(t, os.WriteFile(filepath.Join(tenantDir, f), []byte("--"), 0o644))
	}

	mf, err := CreateMigration(root, ScopeTenant, "add stock index", "Speed up key lookups")
	require.NoError(t, err)
	assert.Equal(t, "000005", mf.Version)
	assert.Equal(t, filepath.Join(tenantDir, "000005_add_stock_index.up.sql"), mf.UpPath)
	assert.Equal(t, filepath.Join(tenantDir, "000005_add_stock_index.down.sql"), mf.DownPath)

	up, err := os.ReadFile(mf.UpPath)
	require.NoError(t, err)
	assert.Contains(t, string(up), "Scope: tenant")
	assert.Contains(t, string(up), "Speed up key lookups")

	down, err := os.ReadFile(mf.DownPath)
	require.NoError(t, err)
	assert.Contains(t, string(down), "Rollback")

	shared, err := CreateMigration(root, ScopeShared, "tenant plans", "")
	require.NoError(t, err)
	assert.Equal(t, "000001", shared.Version)
}

func TestCreateMigration_Rejects(t *testing.T) {
	root := t.TempDir()

	_, err := CreateMigration(root, Scope("global"), "x", "")
	assert.Error(t, err)

	_, err = CreateMigration(root, ScopeTenant, "!!!", "")
	assert.Error(t, err)

	require.NoError(t, os.MkdirAll(filepath.Join(root, "tenant"), 0o755))
	require.NoError(t, os.WriteFile(filepath.Join(root, "tenant", "latest_thing.up.sql"), []byte("--"), 0o644))
	_, err = CreateMigration(root, ScopeTenant, "next", "")
	assert.Error(t, err)
}

func TestListMigrations(t *testing.T) {
	dir := t.TempDir()
	for _, f := range []string{
		"000002_add_orders.up.sql",
		"000002_add_orders.down.sql",
		"000001_init.up.sql",
		"000001_init.down.sql",
		"README.md",
		".gitkeep",
	} {
		require.NoError(t, os.WriteFile(filepath.Join(dir, f), []byte("--"), 0o644))
	}
	require.NoError(t, os.Mkdir(filepath.Join(dir, "subdir.up.sql"), 0o755))

	migrations, err := ListMigrations(dir)
	require.NoError(t, err)
	assert.Equal(t, []string{"000001_init", "000002_add_orders"}, migrations)

	missing, err := ListMigrations(filepath.Join(dir, "nope"))
	require.NoError(t, err)
	assert.Empty(t, missing)
}

func TestTargets(t *testing.T) {
	shared := SharedTarget()
	assert.Equal(t, ScopeShared, shared.Scope)
	assert.Equal(t, "public", shared.Schema)
	assert.Equal(t, filepath.Join("migrations", "shared"), shared.SourcePath("migrations"))

	target, err := TenantTarget("tenant_acme")
	require.NoError(t, err)
	dsn, err := target.DSN("postgres://u:p@localhost:5432/erp?sslmode=disable")
	require.NoError(t, err)
	assert.Contains(t, dsn, "search_path=tenant_acme%2Cpublic")
	assert.Contains(t, dsn, "sslmode=disable")

	for _, bad := range []string{"public", "tenant_", "Tenant_A", "tenant_a;drop"} {
		_, err := TenantTarget(bad)
		assert.Error(t, err, bad)
	}
}
