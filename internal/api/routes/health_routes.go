package routes

import (
	"net/http"
	"time"

	"github.com/Alejandro-Araujo/habitjourney-backend/internal/infrastructure/cache"
	"github.com/Alejandro-Araujo/habitjourney-backend/internal/infrastructure/persistence/postgres/connection"
	"github.com/gin-gonic/gin"
)

// HealthResponse represents the health check response structure
type HealthResponse struct {
	Status    string    `json:"status"`
	Timestamp time.Time `json:"timestamp"`
}

// SetupHealthRoutes registers health check endpoints
func SetupHealthRoutes(router *gin.Engine, db *connection.Database, redis *cache.RedisClient) {
	router.GET("/health", func(c *gin.Context) {
		c.JSON(http.StatusOK, HealthResponse{
			Status:    "healthy",
			Timestamp: time.Now().UTC(),
		})
	})

	router.GET("/health/ready", func(c *gin.Context) {
		status := "ready"
		code := http.StatusOK

		if sqlDB, err := db.DB.DB(); err != nil || sqlDB.PingContext(c.Request.Context()) != nil {
			status = "database unavailable"
			code = http.StatusServiceUnavailable
		} else if redis != nil && !redis.IsHealthy() {
			status = "cache unavailable"
			code = http.StatusServiceUnavailable
		}

		c.JSON(code, HealthResponse{
			Status:    status,
			Timestamp: time.Now().UTC(),
		})
	})
}
