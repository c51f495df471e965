package main

import (
	"context"
	"fmt"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/gin-gonic/gin"
	"go.uber.org/zap"

	"github.com/yatube/yatube/internal/auth"
	"github.com/yatube/yatube/internal/cache"
	"github.com/yatube/yatube/internal/db"
	"github.com/yatube/yatube/internal/media"
	"github.com/yatube/yatube/internal/web"
	"github.com/yatube/yatube/pkg/config"
	"github.com/yatube/yatube/pkg/logging"
	"github.com/yatube/yatube/pkg/telemetry"
)

func main() {
	// Load configuration
	cfg, err := config.Load()
	if err != nil {
		fmt.Fprintf(os.Stderr, "Failed to load configuration: %v\n", err)
		os.Exit(1)
	}

	// Initialize logger
	if err := logging.InitLogger(&cfg.Logging); err != nil {
		fmt.Fprintf(os.Stderr, "Failed to initialize logger: %v\n", err)
		os.Exit(1)
	}
	defer logging.GetLogger().Sync()

	logger := logging.GetLogger()
	logger.Info("Starting Yatube server")

	// Initialize telemetry
	telemetryShutdown, err := telemetry.Init(&cfg.Telemetry)
	if err != nil {
		logger.Fatal("Failed to initialize telemetry", zap.Error(err))
	}
	defer telemetryShutdown()

	metrics, err := telemetry.NewMetrics(cfg.Telemetry.ServiceName)
	if err != nil {
		logger.Fatal("Failed to register metrics", zap.Error(err))
	}

	// Initialize database
	database, err := db.New(&cfg.Database, cfg.Logging.Level, cfg.Telemetry.ServiceName)
	if err != nil {
		logger.Fatal("Failed to connect to database", zap.Error(err))
	}
	defer database.Close()

	if cfg.Database.AutoMigrate {
		ctx, cancel := context.WithTimeout(context.Background(), time.Minute)
		err := database.Migrate(ctx)
		cancel()
		if err != nil {
			logger.Fatal("Failed to migrate database", zap.Error(err))
		}
		logger.Info("Database schema migrated")
	}

	// Initialize page cache; without Redis each process keeps its own
	redisCache, err := cache.New(&cfg.Redis)
	if err != nil {
		logger.Fatal("Failed to connect to Redis", zap.Error(err))
	}
	defer redisCache.Close()

	health := map[string]web.HealthCheck{"database": database.Health}
	var pageCache cache.Store = cache.NewMemory()
	if redisCache != nil {
		pageCache = redisCache
		health["redis"] = redisCache.Health
	}

	sessions := auth.NewSessions(cfg.Session.Secret, cfg.Session.TTL, cfg.Session.CookieName, cfg.Session.Secure)

	router, err := web.NewRouter(web.Deps{
		Stores:    web.NewStores(db.NewRepositories(database.DB)),
		Sessions:  sessions,
		Media:     media.NewStorage(cfg.Media.Root, cfg.Media.URL),
		PageCache: pageCache,
		Metrics:   metrics,
		Health:    health,
	}, web.Options{
		PageSize:       cfg.Blog.PageSize,
		IndexCacheTTL:  cfg.Blog.IndexCacheTTL,
		MaxUploadBytes: cfg.Server.MaxUploadBytes,
		SecureCookies:  cfg.Session.Secure,
	})
	if err != nil {
		logger.Fatal("Failed to create router", zap.Error(err))
	}

	// Create Gin router
	if cfg.Logging.Level == "DEBUG" {
		gin.SetMode(gin.DebugMode)
	} else {
		gin.SetMode(gin.ReleaseMode)
	}

	engine := gin.New()
	router.SetupRoutes(engine)

	// Create HTTP server
	srv := &http.Server{
		Addr:         fmt.Sprintf("%s:%d", cfg.Server.Host, cfg.Server.Port),
		Handler:      engine,
		ReadTimeout:  cfg.Server.ReadTimeout,
		WriteTimeout: cfg.Server.WriteTimeout,
	}

	// Start server in goroutine
	go func() {
		logger.Info("Server starting", zap.String("address", srv.Addr))
		if err := srv.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			logger.Fatal("Server failed to start", zap.Error(err))
		}
	}()

	// Wait for interrupt signal
	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	<-quit

	logger.Info("Shutting down server...")

	// Graceful shutdown
	ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()

	if err := srv.Shutdown(ctx); err != nil {
		logger.Fatal("Server forced to shutdown", zap.Error(err))
	}

	logger.Info("Server exited")
}
