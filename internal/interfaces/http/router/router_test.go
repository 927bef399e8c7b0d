package router

import (
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/gin-gonic/gin"
	"github.com/stretchr/testify/assert"
)

func init() {
	gin.SetMode(gin.TestMode)
}

func TestRouterSetup(t *testing.T) {
	engine := gin.New()
	var calls []string
	r := NewRouter(engine, WithAPIVersion("v2"), WithMiddleware(func(c *gin.Context) {
		calls = append(calls, c.FullPath())
		c.Next()
	}))

	group := NewDomainGroup("test", "/test").
		GET("/ping", func(c *gin.Context) { c.String(http.StatusOK, "pong") }).
		POST("/ping", func(c *gin.Context) { c.Status(http.StatusCreated) }).
		PUT("/ping/:id", func(c *gin.Context) { c.String(http.StatusOK, c.Param("id")) })
	r.Register(group).Setup()

	assert.Equal(t, "test", group.Name())
	assert.Equal(t, "/test", group.Prefix())

	tests := []struct {
		method string
		path   string
		status int
		body   string
	}{
		{http.MethodGet, "/api/v2/test/ping", http.StatusOK, "pong"},
		{http.MethodPost, "/api/v2/test/ping", http.StatusCreated, ""},
		{http.MethodPut, "/api/v2/test/ping/42", http.StatusOK, "42"},
		{http.MethodGet, "/api/v1/test/ping", http.StatusNotFound, ""},
	}
	for _, tt := range tests {
		w := httptest.NewRecorder()
		engine.ServeHTTP(w, httptest.NewRequest(tt.method, tt.path, nil))
		assert.Equal(t, tt.status, w.Code, tt.path)
		if tt.body != "" {
			assert.Equal(t, tt.body, w.Body.String())
		}
	}
	assert.Equal(t, []string{"/api/v2/test/ping", "/api/v2/test/ping", "/api/v2/test/ping/:id"}, calls)
}
