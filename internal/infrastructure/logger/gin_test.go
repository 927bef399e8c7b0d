package logger

import (
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/gin-gonic/gin"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
	"go.uber.org/zap/zapcore"
	"go.uber.org/zap/zaptest/observer"
)

func init() {
	gin.SetMode(gin.TestMode)
}

func TestGinMiddleware(t *testing.T) {
	core, recorded := observer.New(zapcore.InfoLevel)
	r := gin.New()
	r.Use(GinMiddleware(zap.New(core)))

	var seenID string
	r.GET("/orders", func(c *gin.Context) {
		seenID = GetRequestID(c.Request.Context())
		c.Status(http.StatusOK)
	})
	r.GET("/missing", func(c *gin.Context) {
		c.Status(http.StatusNotFound)
	})

	t.Run("propagates an incoming request id", func(t *testing.T) {
		req := httptest.NewRequest(http.MethodGet, "/orders?page=2", nil)
		req.Header.Set(RequestIDHeader, "abc-123")
		w := httptest.NewRecorder()
		r.ServeHTTP(w, req)

		assert.Equal(t, "abc-123", seenID)
		assert.Equal(t, "abc-123", w.Header().Get(RequestIDHeader))

		entry := recorded.TakeAll()[0]
		assert.Equal(t, zapcore.InfoLevel, entry.Level)
		assert.Equal(t, "abc-123", entry.ContextMap()["request_id"])
		assert.Equal(t, "page=2", entry.ContextMap()["query"])
	})

	t.Run("generates a request id", func(t *testing.T) {
		w := httptest.NewRecorder()
		r.ServeHTTP(w, httptest.NewRequest(http.MethodGet, "/orders", nil))
		assert.NotEmpty(t, w.Header().Get(RequestIDHeader))
		recorded.TakeAll()
	})

	t.Run("client errors log at warn", func(t *testing.T) {
		w := httptest.NewRecorder()
		r.ServeHTTP(w, httptest.NewRequest(http.MethodGet, "/missing", nil))
		entries := recorded.TakeAll()
		require.Len(t, entries, 1)
		assert.Equal(t, zapcore.WarnLevel, entries[0].Level)
	})
}

func TestRecovery(t *testing.T) {
	core, recorded := observer.New(zapcore.ErrorLevel)
	r := gin.New()
	r.Use(Recovery(zap.New(core)))
	r.GET("/panic", func(c *gin.Context) {
		panic("boom")
	})

	w := httptest.NewRecorder()
	r.ServeHTTP(w, httptest.NewRequest(http.MethodGet, "/panic", nil))

	assert.Equal(t, http.StatusInternalServerError, w.Code)
	assert.Contains(t, w.Body.String(), "ERR_INTERNAL")
	require.Len(t, recorded.All(), 1)
	assert.Equal(t, "Panic recovered", recorded.All()[0].Message)
}
