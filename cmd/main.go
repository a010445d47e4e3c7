package main

import (
	"context"
	"errors"
	"fmt"
	"log"
	"net/http"
	"os"
	"os/signal"
	"strconv"
	"syscall"
	"time"

	"github.com/labstack/echo/v4"
	echoMiddleware "github.com/labstack/echo/v4/middleware"

	"freshtrack/internal/caching"
	"freshtrack/internal/handlers"
	"freshtrack/internal/jobs"
	"freshtrack/internal/jobs/background"
	"freshtrack/internal/middleware"
	"freshtrack/internal/models"
	"freshtrack/internal/notify"
	"freshtrack/internal/repositories"
	"freshtrack/internal/services"
	"freshtrack/pkg/database"
)

const version = "1.0.0"

func main() {
	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	// Database connection
	databaseURL := os.Getenv("DATABASE_URL")
	if databaseURL == "" {
		log.Fatal("DATABASE_URL environment variable is required")
	}

	pool, err := database.NewPool(databaseURL)
	if err != nil {
		log.Fatalf("Failed to connect to database: %v", err)
	}
	defer pool.Close()

	// JWT configuration
	jwtSecret := os.Getenv("JWT_SECRET")
	if jwtSecret == "" {
		log.Fatal("JWT_SECRET environment variable is required")
	}

	// Redis configuration
	redisAddr := os.Getenv("REDIS_ADDR")
	if redisAddr == "" {
		redisAddr = "localhost:6379" // Default Redis address
	}
	redisPassword := os.Getenv("REDIS_PASSWORD")
	redisDB := 0 // Default DB
	if redisDBStr := os.Getenv("REDIS_DB"); redisDBStr != "" {
		if db, err := strconv.Atoi(redisDBStr); err == nil {
			redisDB = db
		}
	}

	// MinIO configuration
	minioEndpoint := os.Getenv("MINIO_ENDPOINT")
	if minioEndpoint == "" {
		minioEndpoint = "localhost:9000" // Default MinIO endpoint
	}
	minioAccessKey := os.Getenv("MINIO_ACCESS_KEY")
	if minioAccessKey == "" {
		minioAccessKey = "minioadmin" // Default for development
	}
	minioSecretKey := os.Getenv("MINIO_SECRET_KEY")
	if minioSecretKey == "" {
		minioSecretKey = "minioadmin" // Default for development
	}
	useSSL := os.Getenv("MINIO_USE_SSL") == "true"

	// Notification stream configuration
	notifyStream := os.Getenv("NOTIFY_STREAM")
	if notifyStream == "" {
		notifyStream = "freshtrack:expiry-notifications"
	}
	visibilityTimeout := 30 * time.Second
	if vtStr := os.Getenv("NOTIFY_VISIBILITY_TIMEOUT"); vtStr != "" {
		if vt, err := time.ParseDuration(vtStr); err == nil {
			visibilityTimeout = vt
		}
	}

	reconcileInterval := time.Hour
	if riStr := os.Getenv("RECONCILE_INTERVAL"); riStr != "" {
		if ri, err := time.ParseDuration(riStr); err == nil {
			reconcileInterval = ri
		}
	}

	// Initialize MinIO service
	minioSvc, err := services.NewMinioService(minioEndpoint, minioAccessKey, minioSecretKey, useSSL)
	if err != nil {
		log.Fatalf("Failed to initialize MinIO service: %v", err)
	}

	// Create repositories
	batchRepo := repositories.NewBatchRepo(pool)
	supplyRequestRepo := repositories.NewSupplyRequestRepo(pool)
	userRepo := repositories.NewUserRepo(pool)

	// Create cache service
	cacheSvc := caching.NewRedisCacheService(redisAddr, redisPassword, redisDB)

	// Create services
	metricsSvc := services.NewMetricsService(cacheSvc, batchRepo)
	batchSvc := services.NewBatchService(batchRepo, minioSvc, cacheSvc, metricsSvc)
	supplyRequestSvc := services.NewSupplyRequestService(supplyRequestRepo)
	authSvc := services.NewAuthService(userRepo, jwtSecret)

	// Notification pipeline
	hostname, _ := os.Hostname()
	dispatcher := notify.NewStreamDispatcher(cacheSvc.Client(), notifyStream, "freshtrack-consumers", hostname, visibilityTimeout)
	consumer := notify.NewConsumer(dispatcher, notify.NewLogNotifier())
	go consumer.Run(ctx)

	// Background reconciliation
	reconciler := jobs.NewExpiryReconciler(batchRepo, cacheSvc, dispatcher)
	scheduler := background.NewJobScheduler(reconciler, reconcileInterval)
	if err := scheduler.Start(); err != nil {
		log.Fatalf("Failed to start job scheduler: %v", err)
	}

	// Create handlers
	authHandlers := handlers.NewAuthHandlers(authSvc)
	batchHandlers := handlers.NewBatchHandlers(batchSvc, metricsSvc)
	supplyRequestHandlers := handlers.NewSupplyRequestHandlers(supplyRequestSvc)
	metricsHandlers := handlers.NewMetricsHandlers(metricsSvc)
	healthHandlers := handlers.NewHealthHandlers(pool, cacheSvc, minioSvc)

	// Create Echo instance
	e := echo.New()
	e.HideBanner = true

	// Global middleware
	e.Use(echoMiddleware.Logger())
	e.Use(echoMiddleware.Recover())
	e.Use(echoMiddleware.CORS())
	e.Use(echoMiddleware.RemoveTrailingSlash())

	// Health endpoints (no auth required)
	e.GET("/health", healthHandlers.HealthCheck)
	e.GET("/health/ready", healthHandlers.DetailedHealthCheck)

	// API routes
	v1 := e.Group("/v1")

	// Authentication routes (no JWT required for signup/login)
	auth := v1.Group("/auth")
	auth.POST("/signup", authHandlers.Signup)
	auth.POST("/login", authHandlers.Login)

	// Protected routes
	protected := v1.Group("")
	protected.Use(middleware.JWTMiddleware(jwtSecret))

	// Batch routes
	protected.GET("/batches", batchHandlers.ListBatches)
	protected.POST("/batches", batchHandlers.CreateBatch)
	protected.GET("/batches/:batch_id", batchHandlers.GetBatch)
	protected.PUT("/batches/:batch_id", batchHandlers.UpdateBatch)
	protected.DELETE("/batches/:batch_id", batchHandlers.DeleteBatch, middleware.RequireRole(models.RoleManufacturer))
	protected.POST("/batches/:batch_id/image", batchHandlers.UploadBatchImage)

	// Supply request routes
	protected.GET("/supply-requests", supplyRequestHandlers.ListRequests)
	protected.GET("/supply-requests/:id", supplyRequestHandlers.GetRequest)
	protected.POST("/supply-requests", supplyRequestHandlers.CreateRequest, middleware.RequireRole(models.RoleSupplier))
	protected.POST("/supply-requests/:id/respond", supplyRequestHandlers.RespondToRequest, middleware.RequireRole(models.RoleManufacturer))

	// Metrics routes
	protected.GET("/metrics", metricsHandlers.GetSummary)
	protected.GET("/metrics/counters", metricsHandlers.GetCounters)

	// Start server
	port := 8080
	if portStr := os.Getenv("PORT"); portStr != "" {
		if p, err := strconv.Atoi(portStr); err == nil {
			port = p
		}
	}

	go func() {
		log.Printf("Starting freshtrack %s on port %d", version, port)
		if err := e.Start(fmt.Sprintf(":%d", port)); err != nil && !errors.Is(err, http.ErrServerClosed) {
			log.Fatalf("Server failed: %v", err)
		}
	}()

	<-ctx.Done()
	log.Println("Shutting down")

	shutdownCtx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()
	if err := e.Shutdown(shutdownCtx); err != nil {
		log.Printf("Server shutdown error: %v", err)
	}
	if err := scheduler.Stop(); err != nil {
		log.Printf("Scheduler shutdown error: %v", err)
	}
}
