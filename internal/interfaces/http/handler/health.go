package handler

import (
	"context"
	"net/http"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/redis/go-redis/v9"
	"go.uber.org/zap"
	"gorm.io/gorm"
)

const healthCheckTimeout = 2 * time.Second

// HealthHandler reports whether the server's dependencies are reachable
type HealthHandler struct {
	db      *gorm.DB
	redis   *redis.Client
	version string
	logger  *zap.Logger
}

// NewHealthHandler creates a new HealthHandler; redisClient may be nil
func NewHealthHandler(db *gorm.DB, redisClient *redis.Client, version string, logger *zap.Logger) *HealthHandler {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &HealthHandler{db: db, redis: redisClient, version: version, logger: logger}
}

// HealthResponse is the body of GET /health
type HealthResponse struct {
	Status   string            `json:"status"`
	Version  string            `json:"version,omitempty"`
	Services map[string]string `json:"services"`
}

// Check handles GET /health
func (h *HealthHandler) Check(c *gin.Context) {
	ctx, cancel := context.WithTimeout(c.Request.Context(), healthCheckTimeout)
	defer cancel()

	resp := HealthResponse{Status: "healthy", Version: h.version, Services: map[string]string{}}
	status := http.StatusOK

	if err := h.pingDB(ctx); err != nil {
		h.logger.Warn("Database health check failed", zap.Error(err))
		resp.Services["database"] = "unhealthy"
		resp.Status = "unhealthy"
		status = http.StatusServiceUnavailable
	} else {
		resp.Services["database"] = "healthy"
	}

	if h.redis != nil {
		if err := h.redis.Ping(ctx).Err(); err != nil {
			h.logger.Warn("Redis health check failed", zap.Error(err))
			resp.Services["redis"] = "unhealthy"
			resp.Status = "unhealthy"
			status = http.StatusServiceUnavailable
		} else {
			resp.Services["redis"] = "healthy"
		}
	}

	c.JSON(status, resp)
}

func (h *HealthHandler) pingDB(ctx context.Context) error {
	sqlDB, err := h.db.DB()
	if err != nil {
		return err
	}
	return sqlDB.PingContext(ctx)
}
