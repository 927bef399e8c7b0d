package tenant

import (
	"context"
	"errors"
	"testing"

	"github.com/erp/erpcore/internal/domain/shared"
	"github.com/erp/erpcore/internal/domain/tenant"
	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"
)

type MockTenantRepository struct {
	mock.Mock
}

func (m *MockTenantRepository) FindByID(ctx context.Context, id uuid.UUID) (*tenant.Tenant, error) {
	args := m.Called(ctx, id)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*tenant.Tenant), args.Error(1)
}

func TestResolver_Resolve(t *testing.T) {
	ctx := context.Background()
	activeID := uuid.New()
	lockedID := uuid.New()
	badSchemaID := uuid.New()
	missingID := uuid.New()
	brokenID := uuid.New()

	repo := new(MockTenantRepository)
	repo.On("FindByID", mock.Anything, activeID).
		Return(&tenant.Tenant{ID: activeID, SchemaName: "tenant_acme", Status: tenant.StatusActive}, nil)
	repo.On("FindByID", mock.Anything, lockedID).
		Return(&tenant.Tenant{ID: lockedID, SchemaName: "tenant_locked", Status: tenant.StatusLocked}, nil)
	repo.On("FindByID", mock.Anything, badSchemaID).
		Return(&tenant.Tenant{ID: badSchemaID, SchemaName: `public"; drop schema x; --`, Status: tenant.StatusActive}, nil)
	repo.On("FindByID", mock.Anything, missingID).
		Return(nil, shared.NewNotFoundError("tenant", missingID))
	repo.On("FindByID", mock.Anything, brokenID).
		Return(nil, errors.New("connection refused"))

	r := NewResolver(repo, nil)

	t.Run("tenant identity resolves its schema", func(t *testing.T) {
		ns, err := r.Resolve(ctx, tenant.Identity{Scope: tenant.ScopeTenant, TenantID: activeID}, uuid.Nil)
		require.NoError(t, err)
		assert.Equal(t, "tenant_acme", ns.Schema())
		assert.Equal(t, activeID, ns.TenantID())
	})

	t.Run("super admin without target gets the shared namespace", func(t *testing.T) {
		ns, err := r.Resolve(ctx, tenant.Identity{Scope: tenant.ScopeSuperAdmin}, uuid.Nil)
		require.NoError(t, err)
		assert.True(t, ns.IsShared())
	})

	t.Run("super admin acting as a tenant", func(t *testing.T) {
		ns, err := r.Resolve(ctx, tenant.Identity{Scope: tenant.ScopeSuperAdmin}, activeID)
		require.NoError(t, err)
		assert.Equal(t, "tenant_acme", ns.Schema())

		_, err = r.Resolve(ctx, tenant.Identity{Scope: tenant.ScopeSuperAdmin}, lockedID)
		assert.ErrorIs(t, err, shared.ErrTenantInactive)
	})

	t.Run("tenant cannot act as another tenant", func(t *testing.T) {
		_, err := r.Resolve(ctx, tenant.Identity{Scope: tenant.ScopeTenant, TenantID: activeID}, lockedID)
		assert.ErrorIs(t, err, shared.ErrNamespaceResolution)
	})

	t.Run("failures", func(t *testing.T) {
		_, err := r.Resolve(ctx, tenant.Identity{}, uuid.Nil)
		assert.ErrorIs(t, err, shared.ErrUnauthenticated)

		_, err = r.Resolve(ctx, tenant.Identity{Scope: tenant.ScopeTenant, TenantID: lockedID}, uuid.Nil)
		assert.ErrorIs(t, err, shared.ErrTenantInactive)

		_, err = r.Resolve(ctx, tenant.Identity{Scope: tenant.ScopeTenant, TenantID: badSchemaID}, uuid.Nil)
		assert.ErrorIs(t, err, shared.ErrNamespaceResolution)

		_, err = r.Resolve(ctx, tenant.Identity{Scope: tenant.ScopeTenant, TenantID: missingID}, uuid.Nil)
		assert.ErrorIs(t, err, shared.ErrNamespaceResolution)

		_, err = r.Resolve(ctx, tenant.Identity{Scope: tenant.ScopeTenant, TenantID: brokenID}, uuid.Nil)
		require.Error(t, err)
		var de *shared.DomainError
		assert.False(t, errors.As(err, &de))
	})
}
