package middleware

import (
	"context"
	"errors"

	"github.com/erp/erpcore/internal/domain/shared"
	"github.com/erp/erpcore/internal/domain/tenant"
	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/trace"
	"go.uber.org/zap"
)

// TenantHeaderKey names the tenant a super admin acts as
const TenantHeaderKey = "X-Tenant-ID"

// NamespaceResolver maps an identity to the namespace a request runs in
type NamespaceResolver interface {
	Resolve(ctx context.Context, identity tenant.Identity, actAs uuid.UUID) (tenant.Namespace, error)
}

// TenantNamespaceConfig holds configuration for the namespace middleware
type TenantNamespaceConfig struct {
	Resolver NamespaceResolver
	// RequireTenant rejects the shared namespace. Business routes set it
	// because tenant tables do not exist outside a tenant schema.
	RequireTenant bool
	Logger        *zap.Logger
}

// TenantNamespace resolves the caller's namespace once and binds it to the
// request context. It must run after Authenticate.
func TenantNamespace(cfg TenantNamespaceConfig) gin.HandlerFunc {
	log := cfg.Logger
	if log == nil {
		log = zap.NewNop()
	}

	return func(c *gin.Context) {
		identity, ok := GetIdentity(c)
		if !ok {
			abortWithError(c, shared.ErrUnauthenticated)
			return
		}

		actAs := uuid.Nil
		if header := c.GetHeader(TenantHeaderKey); header != "" {
			id, err := uuid.Parse(header)
			if err != nil {
				abortWithError(c, shared.NewValidationError("invalid %s header", TenantHeaderKey).
					WithDetail("header", TenantHeaderKey))
				return
			}
			actAs = id
		}

		ctx := c.Request.Context()
		ns, err := cfg.Resolver.Resolve(ctx, identity, actAs)
		if err != nil {
			var domainErr *shared.DomainError
			if errors.As(err, &domainErr) {
				log.Warn("Namespace resolution rejected",
					zap.String("code", domainErr.Code),
					zap.String("user_id", identity.UserID),
				)
				abortWithError(c, domainErr)
				return
			}
			log.Error("Namespace resolution failed", zap.Error(err))
			abortInternal(c)
			return
		}

		if cfg.RequireTenant && ns.IsShared() {
			abortWithError(c, shared.ErrNamespaceResolution.
				WithDetail("reason", "tenant required").
				WithDetail("header", TenantHeaderKey))
			return
		}

		span := trace.SpanFromContext(ctx)
		if span.IsRecording() {
			span.SetAttributes(attribute.String("tenant.schema", ns.Schema()))
			if !ns.IsShared() {
				span.SetAttributes(attribute.String("tenant.id", ns.TenantID().String()))
			}
		}

		c.Request = c.Request.WithContext(tenant.WithNamespace(ctx, ns))
		c.Next()
	}
}
