package main

import (
	"context"
	"log"
	"net/http"
	"time"

	"github.com/gin-contrib/cors"
	"github.com/gin-gonic/gin"
	"github.com/joho/godotenv"
	"github.com/redis/go-redis/v9"
	"github.com/sirupsen/logrus"

	"github.com/agrihub/inventory-service/internal/audit"
	"github.com/agrihub/inventory-service/internal/cache"
	"github.com/agrihub/inventory-service/internal/config"
	"github.com/agrihub/inventory-service/internal/events"
	"github.com/agrihub/inventory-service/internal/handlers"
	"github.com/agrihub/inventory-service/internal/metrics"
	"github.com/agrihub/inventory-service/internal/middleware"
	"github.com/agrihub/inventory-service/internal/models"
	"github.com/agrihub/inventory-service/internal/repository"
	"github.com/agrihub/inventory-service/internal/scheduler"
	"github.com/agrihub/inventory-service/internal/services"
	"github.com/agrihub/inventory-service/internal/ws"
)

func main() {
	// Load .env file if present
	if err := godotenv.Load(); err != nil {
		log.Println("No .env file found, using environment variables")
	}

	// Load configuration
	cfg := config.Load()

	// Initialize logger
	logger := logrus.New()
	if cfg.LogFormat == "json" {
		logger.SetFormatter(&logrus.JSONFormatter{})
	} else {
		logger.SetFormatter(&logrus.TextFormatter{})
	}

	switch cfg.LogLevel {
	case "debug":
		logger.SetLevel(logrus.DebugLevel)
	case "warn":
		logger.SetLevel(logrus.WarnLevel)
	case "error":
		logger.SetLevel(logrus.ErrorLevel)
	default:
		logger.SetLevel(logrus.InfoLevel)
	}

	logger.Info("Starting Inventory Service...")

	// Initialize database
	db, err := config.InitDB(cfg)
	if err != nil {
		logger.WithError(err).Fatal("Failed to connect to database")
	}
	logger.Info("Connected to database")

	if err := db.AutoMigrate(
		&models.Tenant{},
		&models.User{},
		&models.Product{},
		&models.StockMovement{},
		&models.AuditLogEntry{},
		&models.DashboardPreference{},
	); err != nil {
		logger.WithError(err).Fatal("Failed to run migrations")
	}

	// Optional redis layer behind the in-process cache
	var redisClient *redis.Client
	if cfg.RedisURL != "" {
		opts, err := redis.ParseURL(cfg.RedisURL)
		if err != nil {
			logger.WithError(err).Warn("Invalid REDIS_URL, running with local cache only")
		} else {
			redisClient = redis.NewClient(opts)
			pingCtx, cancel := context.WithTimeout(context.Background(), 3*time.Second)
			if err := redisClient.Ping(pingCtx).Err(); err != nil {
				logger.WithError(err).Warn("Redis unreachable, running with local cache only")
				redisClient = nil
			} else {
				logger.Info("Connected to redis")
			}
			cancel()
		}
	}
	metricsCache := cache.New(redisClient, logger, cfg.CacheTTL)

	// Optional NATS layer; the service runs without it, just without
	// cross-instance refresh signals.
	var natsClient *events.Client
	if cfg.NATSUrl != "" {
		natsCfg := events.DefaultConfig()
		natsCfg.URL = cfg.NATSUrl
		natsClient, err = events.NewClient(natsCfg, logger)
		if err != nil {
			logger.WithError(err).Warn("Failed to connect to NATS (events disabled)")
			natsClient = nil
		}
	}
	publisher := events.NewPublisher(natsClient, logger)

	// Repositories
	movementRepo := repository.NewMovementRepository(db, logger)
	tenantRepo := repository.NewTenantRepository(db)
	preferenceRepo := repository.NewPreferenceRepository(db)
	auditRepo := repository.NewAuditRepository(db)

	// Services
	recorder := audit.NewRecorder(auditRepo, logger)
	aggregationService := services.NewAggregationService(movementRepo, metricsCache, cfg.LowStockThreshold, logger)
	movementService := services.NewMovementService(movementRepo, metricsCache, publisher, recorder, logger)
	preferenceService := services.NewPreferenceService(preferenceRepo, recorder, logger)
	auditService := services.NewAuditService(auditRepo, logger)

	// Websocket hub fed by the event stream
	hub := ws.NewHub(logger)
	go hub.Run()

	var subscriber *events.Subscriber
	if natsClient != nil {
		subscriber = events.NewSubscriber(natsClient, logger)
		err := subscriber.Start(func(env events.Envelope) {
			// Writes on other instances invalidate this instance's
			// local cache and wake the tenant's dashboards.
			if env.Type == events.TypeMovementRecorded {
				ctx, cancel := context.WithTimeout(context.Background(), 3*time.Second)
				metricsCache.InvalidateTenant(ctx, env.TenantID)
				cancel()
			}
			hub.BroadcastToTenant(env.TenantID, ws.RefreshMessage{
				Type:     env.Type,
				TenantID: env.TenantID,
				Payload:  env.Payload,
			})
		})
		if err != nil {
			logger.WithError(err).Warn("Failed to subscribe to inventory events")
		}
	}

	// Low-stock sweep
	sweeper := scheduler.New(tenantRepo, movementRepo, publisher, cfg.LowStockThreshold, logger)
	if err := sweeper.Start(cfg.SweepSchedule); err != nil {
		logger.WithError(err).Warn("Failed to start low-stock sweep")
	}

	// Handlers
	dashboardHandlers := handlers.NewDashboardHandlers(aggregationService, logger)
	movementHandlers := handlers.NewMovementHandlers(movementService, logger)
	preferenceHandlers := handlers.NewPreferenceHandlers(preferenceService, logger)
	auditHandlers := handlers.NewAuditHandlers(auditService, logger)
	wsHandlers := handlers.NewWSHandlers(hub, logger)

	// Setup router
	if cfg.IsProduction() {
		gin.SetMode(gin.ReleaseMode)
	}

	router := gin.New()

	// Apply middleware
	router.Use(middleware.RecoveryMiddleware(logger))
	router.Use(middleware.LoggerMiddleware(logger))
	router.Use(cors.New(cors.Config{
		AllowOrigins:  cfg.AllowOrigins,
		AllowMethods:  []string{"GET", "POST", "PUT", "OPTIONS"},
		AllowHeaders:  []string{"Origin", "Content-Type", "X-User-ID", "X-User-Email", "X-User-Role", "X-Tenant-ID"},
		ExposeHeaders: []string{"Content-Length"},
		MaxAge:        12 * time.Hour,
	}))

	// Health check endpoints (no tenant required)
	router.GET("/health", func(c *gin.Context) {
		c.JSON(http.StatusOK, gin.H{"status": "healthy", "service": "inventory-service"})
	})
	router.GET("/ready", func(c *gin.Context) {
		sqlDB, err := db.DB()
		if err != nil {
			c.JSON(http.StatusServiceUnavailable, gin.H{"status": "not ready", "error": "database error"})
			return
		}
		if err := sqlDB.Ping(); err != nil {
			c.JSON(http.StatusServiceUnavailable, gin.H{"status": "not ready", "error": "database ping failed"})
			return
		}
		c.JSON(http.StatusOK, gin.H{"status": "ready"})
	})
	router.GET("/metrics", metrics.Handler())

	// Websocket endpoint (identity + tenant required)
	router.GET("/ws",
		middleware.AuthMiddleware(),
		middleware.TenantMiddleware(tenantRepo, logger),
		wsHandlers.Connect)

	// API routes (identity + tenant required)
	api := router.Group("/api/v1")
	api.Use(middleware.AuthMiddleware())
	api.Use(middleware.TenantMiddleware(tenantRepo, logger))
	{
		dashboard := api.Group("/dashboard")
		{
			dashboard.GET("/inventory", dashboardHandlers.GetInventoryMetrics)
			dashboard.GET("/alerts", dashboardHandlers.GetStockAlerts)
			dashboard.GET("/financial", dashboardHandlers.GetFinancialMetrics)
			dashboard.GET("/trends", dashboardHandlers.GetTrends)
			dashboard.GET("/top/:kind", dashboardHandlers.GetTopEntities)
			dashboard.GET("/comparison", dashboardHandlers.GetComparison)
			dashboard.GET("/recent", dashboardHandlers.GetRecentTransactions)
		}

		movements := api.Group("/movements")
		{
			movements.POST("/in", movementHandlers.RecordStockIn)
			movements.POST("/out", movementHandlers.RecordStockOut)
			movements.GET("", movementHandlers.ListMovements)
		}

		api.GET("/preferences", preferenceHandlers.GetPreferences)
		api.PUT("/preferences", preferenceHandlers.SavePreferences)

		api.GET("/audit", auditHandlers.ListAuditEntries)
	}

	// Start server
	addr := cfg.GetServerAddress()
	logger.WithField("address", addr).Info("Inventory Service listening")
	if err := router.Run(addr); err != nil {
		logger.WithError(err).Fatal("Failed to start server")
	}
}
