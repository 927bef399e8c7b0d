package middleware

import (
	"context"
	"errors"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/erp/erpcore/internal/domain/shared"
	"github.com/erp/erpcore/internal/domain/tenant"
	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"
	"go.opentelemetry.io/otel/attribute"
	sdktrace "go.opentelemetry.io/otel/sdk/trace"
	"go.opentelemetry.io/otel/sdk/trace/tracetest"
)

type MockNamespaceResolver struct {
	mock.Mock
}

func (m *MockNamespaceResolver) Resolve(ctx context.Context, identity tenant.Identity, actAs uuid.UUID) (tenant.Namespace, error) {
	args := m.Called(ctx, identity, actAs)
	return args.Get(0).(tenant.Namespace), args.Error(1)
}

func tenantRouter(resolver NamespaceResolver, identity *tenant.Identity, requireTenant bool, tp *sdktrace.TracerProvider) *gin.Engine {
	r := gin.New()
	if tp != nil {
		r.Use(Tracing(TracingConfig{ServiceName: "test", Enabled: true, TracerProvider: tp}))
	}
	r.Use(func(c *gin.Context) {
		if identity != nil {
			c.Set(identityKey, *identity)
		}
		c.Next()
	})
	r.Use(TenantNamespace(TenantNamespaceConfig{Resolver: resolver, RequireTenant: requireTenant}))
	r.GET("/ns", func(c *gin.Context) {
		ns, ok := tenant.NamespaceFromContext(c.Request.Context())
		if !ok {
			c.Status(http.StatusInternalServerError)
			return
		}
		c.String(http.StatusOK, ns.Schema())
	})
	return r
}

func TestTenantNamespace(t *testing.T) {
	tenantID := uuid.New()
	tenantIdentity := tenant.Identity{Scope: tenant.ScopeTenant, TenantID: tenantID, UserID: "u"}
	admin := tenant.Identity{Scope: tenant.ScopeSuperAdmin, UserID: "root"}
	acme, err := tenant.NewNamespace(tenantID, "tenant_acme")
	require.NoError(t, err)

	t.Run("binds the resolved namespace", func(t *testing.T) {
		resolver := new(MockNamespaceResolver)
		resolver.On("Resolve", mock.Anything, tenantIdentity, uuid.Nil).Return(acme, nil).Once()

		w := httptest.NewRecorder()
		tenantRouter(resolver, &tenantIdentity, true, nil).ServeHTTP(w, httptest.NewRequest(http.MethodGet, "/ns", nil))

		assert.Equal(t, http.StatusOK, w.Code)
		assert.Equal(t, "tenant_acme", w.Body.String())
		resolver.AssertExpectations(t)
	})

	t.Run("passes the header as the acting tenant", func(t *testing.T) {
		resolver := new(MockNamespaceResolver)
		resolver.On("Resolve", mock.Anything, admin, tenantID).Return(acme, nil).Once()

		req := httptest.NewRequest(http.MethodGet, "/ns", nil)
		req.Header.Set(TenantHeaderKey, tenantID.String())
		w := httptest.NewRecorder()
		tenantRouter(resolver, &admin, true, nil).ServeHTTP(w, req)

		assert.Equal(t, http.StatusOK, w.Code)
		resolver.AssertExpectations(t)
	})

	t.Run("shared namespace rejected when a tenant is required", func(t *testing.T) {
		resolver := new(MockNamespaceResolver)
		resolver.On("Resolve", mock.Anything, admin, uuid.Nil).Return(tenant.SharedNamespace(), nil)

		w := httptest.NewRecorder()
		tenantRouter(resolver, &admin, true, nil).ServeHTTP(w, httptest.NewRequest(http.MethodGet, "/ns", nil))
		assert.Equal(t, http.StatusForbidden, w.Code)
		assert.Equal(t, shared.CodeNamespaceResolution, decodeEnvelope(t, w).Error.Code)

		w = httptest.NewRecorder()
		tenantRouter(resolver, &admin, false, nil).ServeHTTP(w, httptest.NewRequest(http.MethodGet, "/ns", nil))
		assert.Equal(t, http.StatusOK, w.Code)
		assert.Equal(t, tenant.SharedSchema, w.Body.String())
	})

	t.Run("invalid header", func(t *testing.T) {
		resolver := new(MockNamespaceResolver)
		req := httptest.NewRequest(http.MethodGet, "/ns", nil)
		req.Header.Set(TenantHeaderKey, "tenant_acme")
		w := httptest.NewRecorder()
		tenantRouter(resolver, &admin, true, nil).ServeHTTP(w, req)

		assert.Equal(t, http.StatusBadRequest, w.Code)
		assert.Equal(t, shared.CodeValidation, decodeEnvelope(t, w).Error.Code)
		resolver.AssertNotCalled(t, "Resolve", mock.Anything, mock.Anything, mock.Anything)
	})

	t.Run("resolver errors map to the envelope", func(t *testing.T) {
		tests := []struct {
			err    error
			status int
			code   string
		}{
			{shared.ErrTenantInactive.WithDetail("status", "locked"), http.StatusForbidden, shared.CodeTenantInactive},
			{shared.ErrNamespaceResolution, http.StatusForbidden, shared.CodeNamespaceResolution},
			{errors.New("connection refused"), http.StatusInternalServerError, "ERR_INTERNAL"},
		}
		for _, tt := range tests {
			resolver := new(MockNamespaceResolver)
			resolver.On("Resolve", mock.Anything, tenantIdentity, uuid.Nil).Return(tenant.Namespace{}, tt.err)

			w := httptest.NewRecorder()
			tenantRouter(resolver, &tenantIdentity, true, nil).ServeHTTP(w, httptest.NewRequest(http.MethodGet, "/ns", nil))

			assert.Equal(t, tt.status, w.Code)
			env := decodeEnvelope(t, w)
			assert.Equal(t, tt.code, env.Error.Code)
			assert.NotContains(t, env.Error.Message, "connection refused")
		}
	})

	t.Run("requires an identity", func(t *testing.T) {
		w := httptest.NewRecorder()
		tenantRouter(new(MockNamespaceResolver), nil, true, nil).ServeHTTP(w, httptest.NewRequest(http.MethodGet, "/ns", nil))
		assert.Equal(t, http.StatusUnauthorized, w.Code)
	})

	t.Run("tags the request span", func(t *testing.T) {
		recorder := tracetest.NewSpanRecorder()
		tp := sdktrace.NewTracerProvider(sdktrace.WithSpanProcessor(recorder))
		resolver := new(MockNamespaceResolver)
		resolver.On("Resolve", mock.Anything, tenantIdentity, uuid.Nil).Return(acme, nil)

		w := httptest.NewRecorder()
		tenantRouter(resolver, &tenantIdentity, true, tp).ServeHTTP(w, httptest.NewRequest(http.MethodGet, "/ns", nil))
		require.Equal(t, http.StatusOK, w.Code)

		spans := recorder.Ended()
		require.Len(t, spans, 1)
		assert.Contains(t, spans[0].Attributes(), attribute.String("tenant.schema", "tenant_acme"))
		assert.Contains(t, spans[0].Attributes(), attribute.String("tenant.id", tenantID.String()))
	})
}
