package middleware

import (
	"errors"
	"strings"

	"github.com/erp/erpcore/internal/domain/shared"
	"github.com/erp/erpcore/internal/domain/tenant"
	"github.com/erp/erpcore/internal/infrastructure/auth"
	"github.com/erp/erpcore/internal/infrastructure/logger"
	"github.com/gin-gonic/gin"
	"go.uber.org/zap"
)

// Auth header constants
const (
	AuthHeaderKey = "Authorization"
	BearerPrefix  = "Bearer "
	identityKey   = "identity"
)

// IdentityVerifier turns a bearer token into a verified identity
type IdentityVerifier interface {
	Verify(token string) (tenant.Identity, error)
}

// Authenticate verifies the bearer token and stores the caller identity.
// Requests without a valid token are rejected with 401.
func Authenticate(verifier IdentityVerifier, log *zap.Logger) gin.HandlerFunc {
	if log == nil {
		log = zap.NewNop()
	}

	return func(c *gin.Context) {
		header := c.GetHeader(AuthHeaderKey)
		if header == "" {
			abortWithError(c, shared.ErrUnauthenticated.WithDetail("reason", "missing authorization header"))
			return
		}
		if !strings.HasPrefix(header, BearerPrefix) {
			abortWithError(c, shared.ErrUnauthenticated.WithDetail("reason", "invalid authorization header format"))
			return
		}

		token := strings.TrimSpace(strings.TrimPrefix(header, BearerPrefix))
		identity, err := verifier.Verify(token)
		if err != nil {
			log.Warn("Token verification failed",
				zap.Error(err),
				zap.String("path", c.Request.URL.Path),
			)
			abortWithError(c, shared.ErrUnauthenticated.WithDetail("reason", authFailureReason(err)))
			return
		}

		c.Set(identityKey, identity)
		c.Request = c.Request.WithContext(logger.WithUserID(c.Request.Context(), identity.UserID))
		c.Next()
	}
}

func authFailureReason(err error) string {
	switch {
	case errors.Is(err, auth.ErrExpiredToken):
		return "token expired"
	case errors.Is(err, auth.ErrTokenNotYetValid):
		return "token not yet valid"
	default:
		return "invalid token"
	}
}

// GetIdentity returns the identity stored by Authenticate
func GetIdentity(c *gin.Context) (tenant.Identity, bool) {
	v, ok := c.Get(identityKey)
	if !ok {
		return tenant.Identity{}, false
	}
	identity, ok := v.(tenant.Identity)
	return identity, ok
}
