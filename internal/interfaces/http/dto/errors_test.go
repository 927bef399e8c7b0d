package dto

import (
	"encoding/json"
	"net/http"
	"testing"

	"github.com/erp/erpcore/internal/domain/shared"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestGetHTTPStatus(t *testing.T) {
	tests := []struct {
		code     string
		expected int
	}{
		{shared.CodeValidation, http.StatusBadRequest},
		{shared.CodeInsufficientStock, http.StatusUnprocessableEntity},
		{shared.CodeInvalidTransition, http.StatusUnprocessableEntity},
		{shared.CodeNotFound, http.StatusNotFound},
		{shared.CodeConsistencyViolation, http.StatusInternalServerError},
		{shared.CodeUnauthenticated, http.StatusUnauthorized},
		{shared.CodeTenantInactive, http.StatusForbidden},
		{shared.CodeNamespaceResolution, http.StatusForbidden},
		{shared.CodeUnknownTargetType, http.StatusBadRequest},
		{shared.CodeDuplicateRequest, http.StatusConflict},
		{ErrCodeInternal, http.StatusInternalServerError},
		{ErrCodeRequestTooLarge, http.StatusRequestEntityTooLarge},
		{"SOMETHING_ELSE", http.StatusInternalServerError},
	}

	for _, tt := range tests {
		t.Run(tt.code, func(t *testing.T) {
			assert.Equal(t, tt.expected, GetHTTPStatus(tt.code))
		})
	}
}

func TestNormalizeErrorCode(t *testing.T) {
	assert.Equal(t, shared.CodeNotFound, NormalizeErrorCode(shared.CodeNotFound))
	assert.Equal(t, ErrCodeInternal, NormalizeErrorCode("PG_DEADLOCK"))
	assert.True(t, IsServerError(shared.CodeConsistencyViolation))
	assert.False(t, IsServerError(shared.CodeInsufficientStock))
}

func TestNewDomainErrorResponse(t *testing.T) {
	err := shared.ErrInsufficientStock.
		WithDetail("available", int64(5)).
		WithDetail("requested", int64(7))

	body, jsonErr := json.Marshal(NewDomainErrorResponse(err, "req-1"))
	require.NoError(t, jsonErr)

	var decoded map[string]any
	require.NoError(t, json.Unmarshal(body, &decoded))
	assert.Equal(t, false, decoded["success"])
	assert.NotContains(t, decoded, "data")

	errObj := decoded["error"].(map[string]any)
	assert.Equal(t, shared.CodeInsufficientStock, errObj["code"])
	assert.Equal(t, "req-1", errObj["request_id"])
	details := errObj["details"].(map[string]any)
	assert.Equal(t, float64(5), details["available"])
	assert.Equal(t, float64(7), details["requested"])
}

func TestNewPageResponse(t *testing.T) {
	page := shared.NewPaginated([]string{"a", "b"}, 5, 1, 2)
	resp := NewPageResponse(page)

	assert.True(t, resp.Success)
	assert.Equal(t, []string{"a", "b"}, resp.Data)
	require.NotNil(t, resp.Meta)
	assert.Equal(t, int64(5), resp.Meta.Total)
	assert.Equal(t, 3, resp.Meta.TotalPages)
}

func TestListQuery_Filter(t *testing.T) {
	f := ListQuery{PageSize: 500}.Filter()
	assert.Equal(t, 1, f.Page)
	assert.Equal(t, 100, f.PageSize)
	assert.Equal(t, "created_at", f.OrderBy)
	assert.Equal(t, "desc", f.OrderDir)

	f = ListQuery{Page: 3, PageSize: 10, OrderDir: "asc"}.Filter()
	assert.Equal(t, 20, f.Offset())
	assert.Equal(t, "asc", f.OrderDir)
}
