package tenant

import (
	"context"
	"strings"
	"testing"

	"github.com/erp/erpcore/internal/domain/shared"
	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestNewNamespace(t *testing.T) {
	tests := []struct {
		schema string
		valid  bool
	}{
		{"tenant_acme", true},
		{"tenant_a1_b2", true},
		{"public", false},
		{"tenant_", false},
		{"tenant_ACME", false},
		{`tenant_x"; drop table orders; --`, false},
		{"tenant_x.orders", false},
		{"tenant_" + strings.Repeat("a", 56), false},
	}
	for _, tt := range tests {
		t.Run(tt.schema, func(t *testing.T) {
			ns, err := NewNamespace(uuid.New(), tt.schema)
			if tt.valid {
				require.NoError(t, err)
				assert.Equal(t, tt.schema, ns.Schema())
				assert.False(t, ns.IsShared())
				return
			}
			assert.ErrorIs(t, err, shared.ErrNamespaceResolution)
			assert.True(t, ns.IsZero())
		})
	}
}

func TestIdentity_Validate(t *testing.T) {
	assert.NoError(t, Identity{Scope: ScopeSuperAdmin}.Validate())
	assert.NoError(t, Identity{Scope: ScopeTenant, TenantID: uuid.New()}.Validate())
	assert.ErrorIs(t, Identity{Scope: ScopeTenant}.Validate(), shared.ErrUnauthenticated)
	assert.ErrorIs(t, Identity{}.Validate(), shared.ErrUnauthenticated)
}

func TestNamespaceContext(t *testing.T) {
	_, ok := NamespaceFromContext(context.Background())
	assert.False(t, ok)

	ctx := WithNamespace(context.Background(), Namespace{})
	_, ok = NamespaceFromContext(ctx)
	assert.False(t, ok)

	ctx = WithNamespace(context.Background(), SharedNamespace())
	ns, ok := NamespaceFromContext(ctx)
	require.True(t, ok)
	assert.True(t, ns.IsShared())
}
