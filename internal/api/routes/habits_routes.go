package routes

import (
	"github.com/Alejandro-Araujo/habitjourney-backend/internal/api/handlers"
	"github.com/Alejandro-Araujo/habitjourney-backend/internal/api/middleware"
	"github.com/gin-contrib/gzip"
	"github.com/gin-gonic/gin"
)

type HabitsRoutes struct {
	handler *handlers.HabitsHandler
}

func NewHabitsRoutes(handler *handlers.HabitsHandler) *HabitsRoutes {
	return &HabitsRoutes{
		handler: handler,
	}
}

// RegisterRoutes registers all habit-related routes
func (h *HabitsRoutes) RegisterRoutes(router *gin.Engine, cache *middleware.CacheMiddleware) {
	habits := router.Group("/api/habits")
	habits.Use(middleware.RequireUser())

	// List and filter - specific routes first
	// Apply compression for large data responses like heatmaps and dashboards
	habits.GET("", cache.CacheResponse(), gzip.Gzip(gzip.DefaultCompression), h.handler.ListHabits)
	habits.POST("", cache.CacheInvalidate("habits:*"), h.handler.CreateHabit)
	habits.GET("/due-today", gzip.Gzip(gzip.DefaultCompression), h.handler.GetHabitsDueToday)
	habits.GET("/heatmap", cache.CacheResponse(), gzip.Gzip(gzip.DefaultCompression), h.handler.GetHabitHeatmap)
	habits.GET("/dashboard", gzip.Gzip(gzip.DefaultCompression), h.handler.GetDashboardMetrics)

	// CRUD operations with parameters
	habits.GET("/:id", cache.CacheResponse(), h.handler.GetHabit)
	habits.PUT("/:id", cache.CacheInvalidate("habits:*"), h.handler.UpdateHabit)
	habits.DELETE("/:id", cache.CacheInvalidate("habits:*"), h.handler.DeleteHabit)
	habits.POST("/:id/archive", cache.CacheInvalidate("habits:*"), h.handler.ArchiveHabit)
	habits.POST("/:id/unarchive", cache.CacheInvalidate("habits:*"), h.handler.UnarchiveHabit)

	// Progress and statistics
	habits.POST("/:id/progress", cache.CacheInvalidate("habits:*"), h.handler.RecordProgress)
	habits.GET("/:id/logs", gzip.Gzip(gzip.DefaultCompression), h.handler.GetHabitLogs)
	habits.GET("/:id/stats", cache.CacheResponse(), h.handler.GetHabitStats)
	habits.GET("/:id/completion-rate", h.handler.GetCompletionRate)
}
