package main

import (
	"context"
	"fmt"
	"log"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/Alejandro-Araujo/habitjourney-backend/internal/api/handlers"
	"github.com/Alejandro-Araujo/habitjourney-backend/internal/api/middleware"
	"github.com/Alejandro-Araujo/habitjourney-backend/internal/api/routes"
	"github.com/Alejandro-Araujo/habitjourney-backend/internal/domain/habits"
	"github.com/Alejandro-Araujo/habitjourney-backend/internal/infrastructure/cache"
	"github.com/Alejandro-Araujo/habitjourney-backend/internal/infrastructure/persistence/postgres/connection"
	"github.com/Alejandro-Araujo/habitjourney-backend/internal/infrastructure/persistence/postgres/migrations"
	"github.com/Alejandro-Araujo/habitjourney-backend/internal/infrastructure/scheduler"
	"github.com/Alejandro-Araujo/habitjourney-backend/pkg/config"
	"github.com/Alejandro-Araujo/habitjourney-backend/pkg/logger"
	"github.com/gin-contrib/cors"
	"github.com/gin-gonic/gin"
	"github.com/prometheus/client_golang/prometheus/promhttp"
	"go.uber.org/zap"
)

// RequestLoggerMiddleware logs all incoming HTTP requests
func RequestLoggerMiddleware(log *logger.Logger) gin.HandlerFunc {
	return func(c *gin.Context) {
		start := time.Now()
		path := c.Request.URL.Path
		method := c.Request.Method

		log.Info("Request started",
			zap.String("path", path),
			zap.String("method", method),
			zap.String("client_ip", c.ClientIP()),
		)

		c.Next()

		log.Info("Request completed",
			zap.String("path", path),
			zap.String("method", method),
			zap.Int("status", c.Writer.Status()),
			zap.Duration("latency", time.Since(start)),
		)
	}
}

func main() {
	// Load configuration
	cfg, err := config.LoadConfig("") // Empty string will make it search in default locations
	if err != nil {
		log.Fatalf("Failed to load configuration: %v", err)
	}

	// Initialize logger
	appLog := logger.NewLoggerWithLevel(cfg.Logging.Level)
	defer appLog.Sync()

	appLog.Info("Configuration loaded successfully")
	appLog.Info("Server mode: " + cfg.Server.Mode)

	// Set up Gin
	if cfg.Server.Mode == "production" {
		gin.SetMode(gin.ReleaseMode)
	} else {
		gin.SetMode(gin.DebugMode)
	}
	gin.DefaultWriter = os.Stdout

	router := gin.New()

	// Add middleware
	router.Use(gin.Recovery())
	router.Use(RequestLoggerMiddleware(appLog))
	router.Use(func(c *gin.Context) {
		c.Writer.Header().Set("Content-Type", "application/json; charset=utf-8")
		c.Next()
	})
	router.Use(cors.New(cors.Config{
		AllowOrigins: cfg.CORS.AllowedOrigins,
		AllowMethods: cfg.CORS.AllowedMethods,
		AllowHeaders: append(cfg.CORS.AllowedHeaders,
			"Accept-Encoding",
			"Content-Encoding",
			"Content-Type",
			"X-User-ID",
			"X-Forwarded-For",
			"X-Real-IP",
		),
		ExposeHeaders: []string{
			"Content-Length",
			"Content-Encoding",
			"Content-Type",
			"Vary",
		},
		AllowCredentials: cfg.CORS.AllowCredentials,
		MaxAge:           12 * time.Hour,
	}))

	metricsMiddleware := middleware.NewMetricsMiddleware()
	router.Use(metricsMiddleware.CollectMetrics())

	// Add Prometheus metrics endpoint
	router.GET("/metrics", gin.WrapH(promhttp.Handler()))

	// Connect to database
	db, err := connection.NewDatabase(cfg)
	if err != nil {
		appLog.Fatal("Failed to connect to database", zap.Error(err))
	}
	appLog.Info("Database connection established")

	// Run migrations
	if err := migrations.Migrate(db); err != nil {
		appLog.Fatal("Failed to run migrations", zap.Error(err))
	}
	appLog.Info("Database migrations completed")

	// Initialize Redis. The cache layer is optional: the service and the
	// cache middleware both tolerate a nil client, so a missing Redis only
	// costs caching and dashboard events, not availability.
	var redisClient *cache.RedisClient
	redisClient, err = cache.NewRedisClient(cache.NewConfigFromEnv(cfg))
	if err != nil {
		appLog.Warn("Redis unavailable, continuing without cache", zap.Error(err))
		redisClient = nil
	} else {
		defer redisClient.Close()
		appLog.Info("Redis connection established")
	}

	// Initialize repository and service
	habitsRepo := habits.NewRepository(db)
	habitsService := habits.NewService(habitsRepo, redisClient, appLog.Logger)

	// Initialize and start the scheduler for the nightly rollover
	habitScheduler := scheduler.NewScheduler(habitsService, appLog)
	habitScheduler.Start()
	appLog.Info("Habit scheduler started successfully")

	// Initialize handlers and routes
	habitsHandler := handlers.NewHabitsHandler(habitsService)
	cacheMiddleware := middleware.NewCacheMiddleware(redisClient, "habitjourney", 5*time.Minute)

	habitsRoutes := routes.NewHabitsRoutes(habitsHandler)
	habitsRoutes.RegisterRoutes(router, cacheMiddleware)
	appLog.Info("Registered habits routes at /api/habits")

	routes.SetupHealthRoutes(router, db, redisClient)
	appLog.Info("Registered health check routes at /health and /health/ready")

	// Start server
	server := &http.Server{
		Addr:    fmt.Sprintf(":%d", cfg.Server.Port),
		Handler: router,
	}

	// Graceful shutdown
	go func() {
		appLog.Info(fmt.Sprintf("Server starting on port %d", cfg.Server.Port))

		err := server.ListenAndServe()
		if err != nil && err != http.ErrServerClosed {
			appLog.Fatal("Failed to start server", zap.Error(err))
		}
	}()

	// Wait for interrupt signal
	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	<-quit

	// Shutdown with timeout
	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()

	appLog.Info("Shutting down server...")
	if err := server.Shutdown(ctx); err != nil {
		appLog.Fatal("Server forced to shutdown", zap.Error(err))
	}

	appLog.Info("Server exited properly")
}
