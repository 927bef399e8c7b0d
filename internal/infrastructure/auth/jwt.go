// Package auth verifies the access tokens issued by the identity provider and
// turns them into caller identities.
package auth

import (
	"errors"
	"fmt"
	"time"

	"github.com/erp/erpcore/internal/domain/tenant"
	"github.com/erp/erpcore/internal/infrastructure/config"
	"github.com/golang-jwt/jwt/v5"
	"github.com/google/uuid"
)

// Common errors
var (
	ErrInvalidToken     = errors.New("invalid token")
	ErrExpiredToken     = errors.New("token has expired")
	ErrTokenNotYetValid = errors.New("token is not yet valid")
	ErrInvalidClaims    = errors.New("invalid token claims")
	ErrMissingTenantID  = errors.New("missing tenant_id in claims")
	ErrMissingUserID    = errors.New("missing user_id in claims")
)

// Claims represents the custom JWT claims of an access token
type Claims struct {
	jwt.RegisteredClaims
	Scope    string `json:"scope"`
	TenantID string `json:"tenant_id,omitempty"`
	UserID   string `json:"user_id"`
}

// TokenVerifier validates HS256 access tokens
type TokenVerifier struct {
	secret []byte
	issuer string
	now    func() time.Time
}

// NewTokenVerifier creates a verifier for tokens signed with cfg.Secret
func NewTokenVerifier(cfg config.JWTConfig) *TokenVerifier {
	return &TokenVerifier{
		secret: []byte(cfg.Secret),
		issuer: cfg.Issuer,
		now:    time.Now,
	}
}

// Verify parses the token and returns the identity it carries.
// Tenant-scoped tokens must name a tenant; super admin tokens may omit it.
func (v *TokenVerifier) Verify(tokenString string) (tenant.Identity, error) {
	opts := []jwt.ParserOption{
		jwt.WithValidMethods([]string{jwt.SigningMethodHS256.Alg()}),
		jwt.WithTimeFunc(v.now),
	}
	if v.issuer != "" {
		opts = append(opts, jwt.WithIssuer(v.issuer))
	}

	token, err := jwt.ParseWithClaims(tokenString, &Claims{}, func(*jwt.Token) (any, error) {
		return v.secret, nil
	}, opts...)
	if err != nil {
		switch {
		case errors.Is(err, jwt.ErrTokenExpired):
			return tenant.Identity{}, ErrExpiredToken
		case errors.Is(err, jwt.ErrTokenNotValidYet):
			return tenant.Identity{}, ErrTokenNotYetValid
		default:
			return tenant.Identity{}, ErrInvalidToken
		}
	}

	claims, ok := token.Claims.(*Claims)
	if !ok || !token.Valid {
		return tenant.Identity{}, ErrInvalidClaims
	}
	return claims.Identity()
}

// Identity converts the claims into a caller identity
func (c *Claims) Identity() (tenant.Identity, error) {
	if c.UserID == "" {
		return tenant.Identity{}, ErrMissingUserID
	}

	identity := tenant.Identity{Scope: tenant.Scope(c.Scope), UserID: c.UserID}
	if identity.Scope == "" {
		identity.Scope = tenant.ScopeTenant
	}
	if c.TenantID != "" {
		id, err := uuid.Parse(c.TenantID)
		if err != nil {
			return tenant.Identity{}, fmt.Errorf("%w: tenant_id", ErrInvalidClaims)
		}
		identity.TenantID = id
	}
	if identity.Scope == tenant.ScopeTenant && identity.TenantID == uuid.Nil {
		return tenant.Identity{}, ErrMissingTenantID
	}
	if err := identity.Validate(); err != nil {
		return tenant.Identity{}, fmt.Errorf("%w: %v", ErrInvalidClaims, err)
	}
	return identity, nil
}

// IssueToken signs an access token for identity. The server never issues
// tokens itself; this serves operator tooling and tests.
func IssueToken(cfg config.JWTConfig, identity tenant.Identity, ttl time.Duration) (string, error) {
	now := time.Now()
	claims := Claims{
		RegisteredClaims: jwt.RegisteredClaims{
			ID:        uuid.NewString(),
			Issuer:    cfg.Issuer,
			Subject:   identity.UserID,
			IssuedAt:  jwt.NewNumericDate(now),
			NotBefore: jwt.NewNumericDate(now),
			ExpiresAt: jwt.NewNumericDate(now.Add(ttl)),
		},
		Scope:  string(identity.Scope),
		UserID: identity.UserID,
	}
	if identity.TenantID != uuid.Nil {
		claims.TenantID = identity.TenantID.String()
	}
	return jwt.NewWithClaims(jwt.SigningMethodHS256, claims).SignedString([]byte(cfg.Secret))
}
