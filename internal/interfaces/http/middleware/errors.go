package middleware

import (
	"github.com/erp/erpcore/internal/domain/shared"
	"github.com/erp/erpcore/internal/infrastructure/logger"
	"github.com/erp/erpcore/internal/interfaces/http/dto"
	"github.com/gin-gonic/gin"
)

// abortWithError stops the chain and writes err in the standard envelope
func abortWithError(c *gin.Context, err *shared.DomainError) {
	requestID := logger.GetRequestID(c.Request.Context())
	c.AbortWithStatusJSON(dto.GetHTTPStatus(err.Code), dto.NewDomainErrorResponse(err, requestID))
}

// abortInternal stops the chain with an opaque 500
func abortInternal(c *gin.Context) {
	resp := dto.NewErrorResponse(dto.ErrCodeInternal, "An unexpected error occurred")
	resp.Error.RequestID = logger.GetRequestID(c.Request.Context())
	c.AbortWithStatusJSON(dto.GetHTTPStatus(dto.ErrCodeInternal), resp)
}
