package testutil

import (
	"bytes"
	"encoding/json"
	"io"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// PerformRequest sends a request through handler and records the response.
// body is JSON-encoded when non-nil.
func PerformRequest(t *testing.T, handler http.Handler, method, path string, body any, headers map[string]string) *httptest.ResponseRecorder {
	t.Helper()

	var reader io.Reader
	if body != nil {
		reader = ToJSONReader(t, body)
	}
	req := httptest.NewRequest(method, path, reader)
	if body != nil {
		req.Header.Set("Content-Type", "application/json")
	}
	for k, v := range headers {
		req.Header.Set(k, v)
	}

	w := httptest.NewRecorder()
	handler.ServeHTTP(w, req)
	return w
}

// JSONBody parses a recorded response body as a JSON object.
func JSONBody(t *testing.T, w *httptest.ResponseRecorder) map[string]any {
	t.Helper()

	var result map[string]any
	err := json.Unmarshal(w.Body.Bytes(), &result)
	require.NoError(t, err, "Failed to parse JSON response: %s", w.Body.String())
	return result
}

// JSONResponseAs parses the response body into the provided type.
func JSONResponseAs[T any](t *testing.T, w *httptest.ResponseRecorder) T {
	t.Helper()

	var result T
	err := json.Unmarshal(w.Body.Bytes(), &result)
	require.NoError(t, err, "Failed to parse JSON response")
	return result
}

// AssertSuccessResponse asserts the response is a successful API envelope and returns its data.
func AssertSuccessResponse(t *testing.T, w *httptest.ResponseRecorder) any {
	t.Helper()

	resp := JSONBody(t, w)
	assert.Equal(t, true, resp["success"], "Expected success to be true: %s", w.Body.String())
	assert.Nil(t, resp["error"], "Expected no error")
	return resp["data"]
}

// AssertErrorResponse asserts the response is an error envelope carrying expectedCode.
func AssertErrorResponse(t *testing.T, w *httptest.ResponseRecorder, expectedStatus int, expectedCode string) map[string]any {
	t.Helper()

	assert.Equal(t, expectedStatus, w.Code, "Unexpected status code: %s", w.Body.String())
	resp := JSONBody(t, w)
	assert.Equal(t, false, resp["success"], "Expected success to be false")

	errMap, ok := resp["error"].(map[string]any)
	require.True(t, ok, "Expected error object in response")
	assert.Equal(t, expectedCode, errMap["code"], "Unexpected error code")
	return errMap
}

// ToJSONReader converts a value to a JSON io.Reader.
func ToJSONReader(t *testing.T, v any) io.Reader {
	t.Helper()

	data, err := json.Marshal(v)
	require.NoError(t, err, "Failed to marshal to JSON")
	return bytes.NewReader(data)
}
