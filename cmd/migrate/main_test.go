package main

import (
	"context"
	"os"
	"path/filepath"
	"testing"

	"github.com/erp/erpcore/internal/infrastructure/migration"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap/zaptest"
)

func TestRun_FileCommands(t *testing.T) {
	root := t.TempDir()
	opts := options{root: root, scope: migration.ScopeTenant}
	log := zaptest.NewLogger(t)
	ctx := context.Background()

	require.NoError(t, run(ctx, opts, []string{"create", "add_stock_index", "Speed up key lookups"}, log))
	require.NoError(t, run(ctx, opts, []string{"create", "add_order_note"}, log))

	entries, err := os.ReadDir(filepath.Join(root, "tenant"))
	require.NoError(t, err)
	assert.Len(t, entries, 4)
	assert.FileExists(t, filepath.Join(root, "tenant", "000002_add_order_note.up.sql"))

	require.NoError(t, run(ctx, opts, []string{"list"}, log))
}

func TestRun_UsageErrors(t *testing.T) {
	log := zaptest.NewLogger(t)
	ctx := context.Background()
	opts := options{root: t.TempDir(), scope: migration.ScopeShared}

	tests := []struct {
		name string
		opts options
		args []string
	}{
		{"no command", opts, nil},
		{"create without name", opts, []string{"create"}},
		{"unknown scope", options{root: opts.root, scope: "global"}, []string{"up"}},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.ErrorIs(t, run(ctx, tt.opts, tt.args, log), errUsage)
		})
	}
}

func TestRun_RejectsBadTenantSchema(t *testing.T) {
	opts := options{root: t.TempDir(), scope: migration.ScopeTenant, schema: "public; drop table"}

	err := run(context.Background(), opts, []string{"up"}, zaptest.NewLogger(t))
	require.Error(t, err)
	assert.NotErrorIs(t, err, errUsage)
}

func TestIntArg(t *testing.T) {
	n, err := intArg([]string{"-2"}, "step count")
	require.NoError(t, err)
	assert.Equal(t, -2, n)

	_, err = intArg(nil, "version")
	assert.ErrorIs(t, err, errUsage)

	_, err = intArg([]string{"two"}, "version")
	assert.Error(t, err)
}
