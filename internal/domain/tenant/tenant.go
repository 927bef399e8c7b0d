// Package tenant models tenant identity and the storage namespace a request is bound to.
package tenant

import (
	"context"
	"regexp"

	"github.com/erp/erpcore/internal/domain/shared"
	"github.com/google/uuid"
)

// Scope is the breadth of an authenticated identity
type Scope string

const (
	ScopeSuperAdmin Scope = "super_admin"
	ScopeTenant     Scope = "tenant"
)

// Status of a tenant account
type Status string

const (
	StatusActive Status = "active"
	StatusLocked Status = "locked"
)

// SharedSchema is the unrestricted namespace holding tenant metadata
const SharedSchema = "public"

var schemaPattern = regexp.MustCompile(`^tenant_[a-z0-9_]{1,55}$`)

// Identity is an already-verified caller identity
type Identity struct {
	Scope    Scope
	TenantID uuid.UUID
	UserID   string
}

// Validate checks that the identity names a usable scope
func (i Identity) Validate() error {
	switch i.Scope {
	case ScopeSuperAdmin:
		return nil
	case ScopeTenant:
		if i.TenantID == uuid.Nil {
			return shared.ErrUnauthenticated.WithDetail("reason", "missing tenant id")
		}
		return nil
	default:
		return shared.ErrUnauthenticated.WithDetail("reason", "unknown scope")
	}
}

// Tenant is the shared-namespace record describing one tenant
type Tenant struct {
	ID         uuid.UUID
	Name       string
	SchemaName string
	Status     Status
	PlanID     *uuid.UUID
}

// IsActive reports whether the tenant may access its data
func (t *Tenant) IsActive() bool {
	return t.Status == StatusActive
}

// Namespace is a validated schema identifier. The zero value is invalid.
type Namespace struct {
	schema   string
	tenantID uuid.UUID
}

// NewNamespace validates schema against the tenant allow-list
func NewNamespace(tenantID uuid.UUID, schema string) (Namespace, error) {
	if !schemaPattern.MatchString(schema) {
		return Namespace{}, shared.ErrNamespaceResolution.WithDetail("schema", schema)
	}
	return Namespace{schema: schema, tenantID: tenantID}, nil
}

// SharedNamespace returns the unrestricted namespace used by super admins
func SharedNamespace() Namespace {
	return Namespace{schema: SharedSchema}
}

// Schema returns the raw, validated schema name
func (n Namespace) Schema() string {
	return n.schema
}

// TenantID returns the owning tenant, uuid.Nil for the shared namespace
func (n Namespace) TenantID() uuid.UUID {
	return n.tenantID
}

// IsShared reports whether this is the unrestricted namespace
func (n Namespace) IsShared() bool {
	return n.schema == SharedSchema
}

// IsZero reports whether the namespace was never resolved
func (n Namespace) IsZero() bool {
	return n.schema == ""
}

// Repository reads tenant metadata from the shared namespace
type Repository interface {
	FindByID(ctx context.Context, id uuid.UUID) (*Tenant, error)
}
