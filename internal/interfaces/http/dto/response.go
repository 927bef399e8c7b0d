package dto

import (
	"github.com/erp/erpcore/internal/domain/shared"
)

// Response represents the standard API envelope
type Response struct {
	Success bool       `json:"success"`
	Data    any        `json:"data,omitempty"`
	Error   *ErrorInfo `json:"error,omitempty"`
	Meta    *Meta      `json:"meta,omitempty"`
}

// ErrorInfo represents error details
type ErrorInfo struct {
	Code      string             `json:"code"`
	Message   string             `json:"message"`
	Details   map[string]any     `json:"details,omitempty"`
	Fields    []ValidationDetail `json:"fields,omitempty"`
	RequestID string             `json:"request_id,omitempty"`
}

// ValidationDetail describes one rejected request field
type ValidationDetail struct {
	Field   string `json:"field"`
	Message string `json:"message"`
}

// Meta represents pagination metadata
type Meta struct {
	Total      int64 `json:"total"`
	Page       int   `json:"page"`
	PageSize   int   `json:"page_size"`
	TotalPages int   `json:"total_pages"`
}

// NewSuccessResponse creates a success response
func NewSuccessResponse(data any) Response {
	return Response{
		Success: true,
		Data:    data,
	}
}

// NewPageResponse creates a success response from a paginated result
func NewPageResponse[T any](page shared.Paginated[T]) Response {
	return Response{
		Success: true,
		Data:    page.Items,
		Meta: &Meta{
			Total:      page.Total,
			Page:       page.Page,
			PageSize:   page.PageSize,
			TotalPages: page.TotalPages,
		},
	}
}

// NewErrorResponse creates an error response
func NewErrorResponse(code, message string) Response {
	return Response{
		Success: false,
		Error: &ErrorInfo{
			Code:    code,
			Message: message,
		},
	}
}

// NewDomainErrorResponse renders a domain error with its details
func NewDomainErrorResponse(err *shared.DomainError, requestID string) Response {
	return Response{
		Success: false,
		Error: &ErrorInfo{
			Code:      err.Code,
			Message:   err.Message,
			Details:   err.Details,
			RequestID: requestID,
		},
	}
}

// NewValidationErrorResponse creates a validation error response with per-field details
func NewValidationErrorResponse(message, requestID string, fields []ValidationDetail) Response {
	return Response{
		Success: false,
		Error: &ErrorInfo{
			Code:      shared.CodeValidation,
			Message:   message,
			Fields:    fields,
			RequestID: requestID,
		},
	}
}

// ListQuery holds the paging parameters shared by list endpoints
type ListQuery struct {
	Page     int    `form:"page" binding:"omitempty,min=1"`
	PageSize int    `form:"page_size" binding:"omitempty,min=1,max=100"`
	OrderBy  string `form:"order_by" binding:"omitempty,oneof=created_at updated_at"`
	OrderDir string `form:"order_dir" binding:"omitempty,oneof=asc desc"`
}

// Filter converts the query into a normalized domain filter
func (q ListQuery) Filter() shared.Filter {
	return shared.Filter{
		Page:     q.Page,
		PageSize: q.PageSize,
		OrderBy:  q.OrderBy,
		OrderDir: q.OrderDir,
	}.Normalize()
}
