// Package handler adapts HTTP requests to the application services.
package handler

import (
	"errors"
	"net/http"

	"github.com/erp/erpcore/internal/domain/shared"
	"github.com/erp/erpcore/internal/infrastructure/logger"
	"github.com/erp/erpcore/internal/interfaces/http/dto"
	"github.com/erp/erpcore/internal/interfaces/http/middleware"
	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
	"go.uber.org/zap"
)

// BaseHandler provides common handler utilities
type BaseHandler struct{}

// Success sends a success response
func (h *BaseHandler) Success(c *gin.Context, data any) {
	c.JSON(http.StatusOK, dto.NewSuccessResponse(data))
}

// Created sends a 201 created response
func (h *BaseHandler) Created(c *gin.Context, data any) {
	c.JSON(http.StatusCreated, dto.NewSuccessResponse(data))
}

// Page sends a paginated success response
func Page[T any](c *gin.Context, page shared.Paginated[T]) {
	c.JSON(http.StatusOK, dto.NewPageResponse(page))
}

// BadRequest sends a 400 validation error
func (h *BaseHandler) BadRequest(c *gin.Context, err *shared.DomainError) {
	h.HandleError(c, err)
}

// HandleError converts an error to the envelope.
// Domain errors keep their code and details; anything else is logged and
// reported as ERR_INTERNAL so that driver messages never reach clients.
func (h *BaseHandler) HandleError(c *gin.Context, err error) {
	if err == nil {
		return
	}

	ctx := c.Request.Context()
	requestID := logger.GetRequestID(ctx)

	var domainErr *shared.DomainError
	if errors.As(err, &domainErr) {
		code := dto.NormalizeErrorCode(domainErr.Code)
		if dto.IsServerError(code) {
			logger.L(ctx).Error("Request failed", zap.String("code", code), zap.Error(err))
		}
		c.JSON(dto.GetHTTPStatus(code), dto.NewDomainErrorResponse(domainErr, requestID))
		return
	}

	logger.L(ctx).Error("Request failed", zap.Error(err))
	resp := dto.NewErrorResponse(dto.ErrCodeInternal, "An unexpected error occurred")
	resp.Error.RequestID = requestID
	c.JSON(http.StatusInternalServerError, resp)
}

// bindJSON binds the body into req, writing a 400 on failure
func bindJSON(c *gin.Context, req any) bool {
	if err := c.ShouldBindJSON(req); err != nil {
		middleware.HandleValidationError(c, err)
		return false
	}
	return true
}

// bindQuery binds query parameters into req, writing a 400 on failure
func bindQuery(c *gin.Context, req any) bool {
	if err := c.ShouldBindQuery(req); err != nil {
		middleware.HandleValidationError(c, err)
		return false
	}
	return true
}

// pathID parses the named path parameter as a UUID
func (h *BaseHandler) pathID(c *gin.Context, name string) (uuid.UUID, bool) {
	id, err := uuid.Parse(c.Param(name))
	if err != nil {
		h.BadRequest(c, shared.NewValidationError("invalid %s", name).WithDetail("field", name))
		return uuid.Nil, false
	}
	return id, true
}

// optionalUUID parses a query value already checked by the uuid binding tag
func optionalUUID(s string) *uuid.UUID {
	if s == "" {
		return nil
	}
	id, err := uuid.Parse(s)
	if err != nil {
		return nil
	}
	return &id
}

// actorID returns the caller's user id when it is a UUID.
// Identities from external providers may carry opaque user ids, which are not recorded.
func actorID(c *gin.Context) *uuid.UUID {
	identity, ok := middleware.GetIdentity(c)
	if !ok {
		return nil
	}
	return optionalUUID(identity.UserID)
}
