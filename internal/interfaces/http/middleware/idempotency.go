package middleware

import (
	"github.com/erp/erpcore/internal/domain/shared"
	"github.com/gin-gonic/gin"
)

// Idempotency constants
const (
	IdempotencyHeaderKey = "Idempotency-Key"
	MaxIdempotencyKeyLen = 128
	idempotencyKey       = "idempotency_key"
)

// IdempotencyKey validates the optional Idempotency-Key header and makes it
// available to handlers through GetIdempotencyKey.
func IdempotencyKey() gin.HandlerFunc {
	return func(c *gin.Context) {
		key := c.GetHeader(IdempotencyHeaderKey)
		if key == "" {
			c.Next()
			return
		}
		if len(key) > MaxIdempotencyKeyLen {
			abortWithError(c, shared.NewValidationError("%s must be at most %d characters", IdempotencyHeaderKey, MaxIdempotencyKeyLen).
				WithDetail("header", IdempotencyHeaderKey))
			return
		}
		c.Set(idempotencyKey, key)
		c.Next()
	}
}

// GetIdempotencyKey returns the request's idempotency key, or "" when absent
func GetIdempotencyKey(c *gin.Context) string {
	return c.GetString(idempotencyKey)
}
