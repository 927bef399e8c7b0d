// Package tenant resolves verified identities to the storage namespace a request runs in.
package tenant

import (
	"context"
	"errors"
	"fmt"

	"github.com/erp/erpcore/internal/domain/shared"
	"github.com/erp/erpcore/internal/domain/tenant"
	"github.com/google/uuid"
	"go.uber.org/zap"
)

// Resolver maps an identity to exactly one namespace
type Resolver struct {
	tenants tenant.Repository
	logger  *zap.Logger
}

// NewResolver creates a new Resolver
func NewResolver(tenants tenant.Repository, logger *zap.Logger) *Resolver {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &Resolver{tenants: tenants, logger: logger}
}

// Resolve returns the namespace for identity.
//
// A super admin gets the shared namespace unless actAs names a tenant, in which
// case that tenant is resolved with the same checks as a tenant identity.
// A tenant identity may only act as itself.
func (r *Resolver) Resolve(ctx context.Context, identity tenant.Identity, actAs uuid.UUID) (tenant.Namespace, error) {
	if err := identity.Validate(); err != nil {
		return tenant.Namespace{}, err
	}

	switch identity.Scope {
	case tenant.ScopeSuperAdmin:
		if actAs == uuid.Nil {
			return tenant.SharedNamespace(), nil
		}
		return r.ResolveTenant(ctx, actAs)
	default:
		if actAs != uuid.Nil && actAs != identity.TenantID {
			return tenant.Namespace{}, shared.ErrNamespaceResolution.
				WithDetail("tenant_id", actAs.String()).
				WithDetail("reason", "cross-tenant access")
		}
		return r.ResolveTenant(ctx, identity.TenantID)
	}
}

// ResolveTenant loads the tenant record and validates its schema name
func (r *Resolver) ResolveTenant(ctx context.Context, tenantID uuid.UUID) (tenant.Namespace, error) {
	t, err := r.tenants.FindByID(ctx, tenantID)
	if err != nil {
		if errors.Is(err, shared.ErrNotFound) {
			return tenant.Namespace{}, shared.ErrNamespaceResolution.
				WithDetail("tenant_id", tenantID.String()).
				WithDetail("reason", "unknown tenant")
		}
		return tenant.Namespace{}, fmt.Errorf("load tenant %s: %w", tenantID, err)
	}

	if !t.IsActive() {
		return tenant.Namespace{}, shared.ErrTenantInactive.
			WithDetail("tenant_id", tenantID.String()).
			WithDetail("status", string(t.Status))
	}

	ns, err := tenant.NewNamespace(t.ID, t.SchemaName)
	if err != nil {
		r.logger.Warn("Tenant schema rejected by allow-list",
			zap.String("tenant_id", tenantID.String()),
			zap.String("schema", t.SchemaName),
		)
		return tenant.Namespace{}, err
	}
	return ns, nil
}
