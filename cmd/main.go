package main

import (
	"strconv"
	"time"

	"pharmacy-warehouse/internal/cache"
	"pharmacy-warehouse/internal/handler"
	"pharmacy-warehouse/internal/inventory"
	"pharmacy-warehouse/internal/middleware"
	"pharmacy-warehouse/internal/model"
	"pharmacy-warehouse/pkg/config"
	"pharmacy-warehouse/pkg/database"
	"pharmacy-warehouse/pkg/jwtutil"
	"pharmacy-warehouse/pkg/logger"
	"pharmacy-warehouse/prometheus"

	"github.com/labstack/echo/v4"
	echomiddleware "github.com/labstack/echo/v4/middleware"
	"github.com/prometheus/client_golang/prometheus/promhttp"
	"go.uber.org/zap"
)

func main() {
	// Load configuration from .env file and environment variables
	cfg, err := config.Load()
	if err != nil {
		panic("Failed to load configuration: " + err.Error())
	}

	// Initialize logger with config
	logger.InitLogger(cfg)
	log := logger.GetLogger()
	log.Info("Starting pharmacy warehouse service...", zap.String("environment", cfg.Server.Env))

	// Initialize JWT utilities
	jwtutil.Initialize(&cfg.JWT)
	log.Info("JWT utilities initialized")

	// Initialize Prometheus metrics
	prometheus.InitMetrics(cfg)
	log.Info("Prometheus metrics initialized")

	// Initialize database and run migrations
	db, err := database.InitDB(&cfg.DB)
	if err != nil {
		log.Fatal("Failed to initialize database", zap.Error(err))
	}
	if err := database.MigrateModels(&model.Supplier{}, &model.Medicine{}); err != nil {
		log.Fatal("Failed to run migrations", zap.Error(err))
	}
	log.Info("Database connection established and migrations completed",
		zap.String("db_host", cfg.DB.Host),
		zap.String("db_name", cfg.DB.DBName))

	// Optional redis cache for the medicine list
	redisClient, err := cache.InitRedis(&cfg.Redis)
	if err != nil {
		log.Warn("Redis unreachable, continuing without cache", zap.Error(err))
	}
	medicineCache := cache.NewMedicineCache(redisClient, cfg.Redis.CacheTTL, log)
	if medicineCache != nil {
		log.Info("Medicine list cache enabled", zap.String("redis_addr", cfg.Redis.Addr))
	}

	// Wire the inventory service over the gorm store
	store := inventory.NewStore(db)
	svc := inventory.NewService(store, log)

	medicineHandler := handler.NewMedicineHandler(svc, medicineCache)
	supplierHandler := handler.NewSupplierHandler(svc)

	// Create Echo instance
	e := echo.New()

	// Middleware
	e.Use(echomiddleware.Recover())
	e.Use(echomiddleware.CORS())
	e.Use(middleware.RequestIDMiddleware)

	// Request logging and metrics middleware
	e.Use(func(next echo.HandlerFunc) echo.HandlerFunc {
		return func(c echo.Context) error {
			start := time.Now()

			// Process request
			err := next(c)

			// Calculate duration
			duration := time.Since(start).Seconds()
			status := c.Response().Status

			// Log request details
			log := logger.FromContext(c)
			log.Info("HTTP Request",
				zap.String("method", c.Request().Method),
				zap.String("path", c.Request().URL.Path),
				zap.Int("status", status),
				zap.Float64("duration_s", duration),
				zap.String("ip", c.RealIP()),
			)

			prometheus.HttpRequestsTotal.WithLabelValues(
				c.Request().Method,
				c.Path(),
				strconv.Itoa(status),
			).Inc()

			prometheus.HttpRequestDuration.WithLabelValues(
				c.Request().Method,
				c.Path(),
				strconv.Itoa(status),
			).Observe(duration)

			return err
		}
	})

	// Routes
	// Public routes that don't require authentication
	e.GET("/", handler.Hello)
	e.GET("/health", handler.Hello)

	// Prometheus metrics endpoint
	e.GET("/metrics", echo.WrapHandler(promhttp.Handler()))

	// API routes that require authentication
	api := e.Group("/api")
	api.Use(middleware.AuthMiddleware)

	// Mutations additionally require a warehouse role
	mutating := middleware.RequireRole("admin", "manager")

	medicineHandler.Register(api.Group("/medicines"), mutating)
	supplierHandler.Register(api.Group("/suppliers"), mutating)

	// Start server
	port := cfg.Server.Port
	log.Info("Starting server", zap.String("port", port))
	if err := e.Start(":" + port); err != nil {
		log.Fatal("Failed to start server", zap.Error(err))
	}
}
