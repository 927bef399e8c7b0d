package auth

import (
	"testing"
	"time"

	"github.com/erp/erpcore/internal/domain/tenant"
	"github.com/erp/erpcore/internal/infrastructure/config"
	"github.com/golang-jwt/jwt/v5"
	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

var testJWTConfig = config.JWTConfig{
	Secret: "test-secret-key-that-is-at-least-32-chars",
	Issuer: "erp-core",
}

func TestTokenVerifier_Verify(t *testing.T) {
	verifier := NewTokenVerifier(testJWTConfig)
	tenantID := uuid.New()

	t.Run("tenant token", func(t *testing.T) {
		token, err := IssueToken(testJWTConfig, tenant.Identity{Scope: tenant.ScopeTenant, TenantID: tenantID, UserID: "u-1"}, time.Hour)
		require.NoError(t, err)

		identity, err := verifier.Verify(token)
		require.NoError(t, err)
		assert.Equal(t, tenant.ScopeTenant, identity.Scope)
		assert.Equal(t, tenantID, identity.TenantID)
		assert.Equal(t, "u-1", identity.UserID)
	})

	t.Run("super admin token without tenant", func(t *testing.T) {
		token, err := IssueToken(testJWTConfig, tenant.Identity{Scope: tenant.ScopeSuperAdmin, UserID: "root"}, time.Hour)
		require.NoError(t, err)

		identity, err := verifier.Verify(token)
		require.NoError(t, err)
		assert.Equal(t, tenant.ScopeSuperAdmin, identity.Scope)
		assert.Equal(t, uuid.Nil, identity.TenantID)
	})

	t.Run("expired token", func(t *testing.T) {
		token, err := IssueToken(testJWTConfig, tenant.Identity{Scope: tenant.ScopeTenant, TenantID: tenantID, UserID: "u-1"}, -time.Minute)
		require.NoError(t, err)

		_, err = verifier.Verify(token)
		assert.ErrorIs(t, err, ErrExpiredToken)
	})

	t.Run("wrong secret", func(t *testing.T) {
		other := testJWTConfig
		other.Secret = "another-secret-key-that-is-32-chars-long"
		token, err := IssueToken(other, tenant.Identity{Scope: tenant.ScopeTenant, TenantID: tenantID, UserID: "u-1"}, time.Hour)
		require.NoError(t, err)

		_, err = verifier.Verify(token)
		assert.ErrorIs(t, err, ErrInvalidToken)
	})

	t.Run("wrong issuer", func(t *testing.T) {
		other := testJWTConfig
		other.Issuer = "someone-else"
		token, err := IssueToken(other, tenant.Identity{Scope: tenant.ScopeTenant, TenantID: tenantID, UserID: "u-1"}, time.Hour)
		require.NoError(t, err)

		_, err = verifier.Verify(token)
		assert.ErrorIs(t, err, ErrInvalidToken)
	})

	t.Run("tenant scope without tenant id", func(t *testing.T) {
		token, err := IssueToken(testJWTConfig, tenant.Identity{Scope: tenant.ScopeTenant, UserID: "u-1"}, time.Hour)
		require.NoError(t, err)

		_, err = verifier.Verify(token)
		assert.ErrorIs(t, err, ErrMissingTenantID)
	})

	t.Run("rejects non-HMAC algorithms", func(t *testing.T) {
		token := jwt.NewWithClaims(jwt.SigningMethodNone, Claims{UserID: "u-1", TenantID: tenantID.String()})
		signed, err := token.SignedString(jwt.UnsafeAllowNoneSignatureType)
		require.NoError(t, err)

		_, err = verifier.Verify(signed)
		assert.ErrorIs(t, err, ErrInvalidToken)
	})

	t.Run("garbage", func(t *testing.T) {
		_, err := verifier.Verify("not-a-token")
		assert.ErrorIs(t, err, ErrInvalidToken)
	})
}

func TestClaims_Identity(t *testing.T) {
	tests := []struct {
		name    string
		claims  Claims
		wantErr error
	}{
		{"missing user", Claims{TenantID: uuid.NewString()}, ErrMissingUserID},
		{"bad tenant id", Claims{UserID: "u", TenantID: "not-a-uuid"}, ErrInvalidClaims},
		{"unknown scope", Claims{UserID: "u", Scope: "root", TenantID: uuid.NewString()}, ErrInvalidClaims},
		{"default scope is tenant", Claims{UserID: "u", TenantID: uuid.NewString()}, nil},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			identity, err := tt.claims.Identity()
			if tt.wantErr != nil {
				assert.ErrorIs(t, err, tt.wantErr)
				return
			}
			require.NoError(t, err)
			assert.Equal(t, tenant.ScopeTenant, identity.Scope)
		})
	}
}
