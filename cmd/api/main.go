package main

import (
	"context"
	"log"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/joho/godotenv"
	"go.uber.org/zap"

	"io.winapps.myspot/internal/db"
	firebaseutil "io.winapps.myspot/internal/firebase"
	"io.winapps.myspot/internal/handlers"
	"io.winapps.myspot/internal/middleware"
	"io.winapps.myspot/internal/notify"
	"io.winapps.myspot/internal/store"
)

func main() {
	// Load environment variables from .env file
	if err := godotenv.Load(); err != nil {
		log.Println("No .env file found, using system environment variables")
	}

	zapLogger, err := zap.NewProduction()
	if err != nil {
		log.Fatalf("Failed to initialize logger: %v", err)
	}
	defer zapLogger.Sync()
	logger := zapLogger.Sugar()

	// Initialize Firebase
	firebaseApp, err := firebaseutil.InitFirebase()
	if err != nil {
		logger.Fatalf("Failed to initialize Firebase: %v", err)
	}

	fcmClient, err := firebaseutil.GetMessagingClient(firebaseApp)
	if err != nil {
		logger.Fatalf("Failed to initialize FCM client: %v", err)
	}

	// Initialize PostgreSQL
	postgresDB, err := db.InitPostgres()
	if err != nil {
		logger.Fatalf("Failed to initialize PostgreSQL: %v", err)
	}
	defer postgresDB.Close()

	// Initialize Redis
	redisClient, err := db.InitRedis()
	if err != nil {
		logger.Fatalf("Failed to initialize Redis: %v", err)
	}
	defer redisClient.Close()

	// Initialize storage layers
	catalogStore := store.NewCatalogStore(postgresDB, redisClient)
	imageDir := os.Getenv("IMAGE_DIR")
	if imageDir == "" {
		imageDir = "./internal/images"
	}
	imageStore, err := store.NewImageStore(imageDir)
	if err != nil {
		logger.Fatalf("Failed to initialize image store: %v", err)
	}

	// Push notifications: publish fan-out plus the daily digest
	notifier := notify.NewNotifier(postgresDB, fcmClient, logger)
	digestCron := notifier.StartDigestScheduler()
	defer digestCron.Stop()

	// Initialize Gin router
	router := gin.New()
	router.Use(middleware.RequestIDMiddleware())
	router.Use(middleware.RequestLoggingMiddleware(logger))
	router.Use(middleware.RecoveryMiddleware(logger))

	// Add CORS middleware for mobile app
	router.Use(func(c *gin.Context) {
		c.Header("Access-Control-Allow-Origin", "*")
		c.Header("Access-Control-Allow-Methods", "GET, POST, PUT, DELETE, OPTIONS")
		c.Header("Access-Control-Allow-Headers", "Origin, Content-Type, Content-Length, Accept-Encoding, X-CSRF-Token, Authorization")

		if c.Request.Method == "OPTIONS" {
			c.AbortWithStatus(204)
			return
		}

		c.Next()
	})

	// Initialize handlers
	catalogHandler := handlers.NewCatalogHandler(catalogStore, imageStore, notifier, logger)
	subscriptionsHandler := handlers.NewSubscriptionsHandler(postgresDB, logger)

	authRequired := middleware.AuthMiddleware(firebaseApp, postgresDB, redisClient)

	// Define routes
	v1 := router.Group("/api/v1")
	{
		catalog := v1.Group("/catalog")
		{
			// Browsing the shared catalog is public
			catalog.POST("/search", catalogHandler.SearchCatalog)
			catalog.GET("/spots/:id", catalogHandler.GetSpot)

			// Mutations require a signed-in user
			catalog.PUT("/spots/:id", authRequired, catalogHandler.SaveSpot)
			catalog.DELETE("/spots/:id", authRequired, catalogHandler.DeleteSpot)
			catalog.POST("/images", authRequired, catalogHandler.UploadImage)
		}

		subscriptions := v1.Group("/subscriptions")
		subscriptions.Use(authRequired)
		{
			subscriptions.POST("/register", subscriptionsHandler.RegisterSubscription)
		}
	}

	// Health check endpoint
	router.GET("/health", func(c *gin.Context) {
		c.JSON(http.StatusOK, gin.H{"status": "ok"})
	})

	// Serve spot image attachments
	router.Static("/images", imageDir)

	// Create HTTP server
	srv := &http.Server{
		Addr:    ":9091",
		Handler: router,
	}

	// Start server in a goroutine
	go func() {
		logger.Infow("server starting", "addr", srv.Addr)
		if err := srv.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			logger.Fatalf("Failed to start server: %v", err)
		}
	}()

	// Wait for interrupt signal to gracefully shutdown the server
	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	<-quit
	logger.Info("shutting down server")

	// Give a 5 second timeout for graceful shutdown
	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()

	if err := srv.Shutdown(ctx); err != nil {
		logger.Fatalf("Server forced to shutdown: %v", err)
	}

	logger.Info("server exited")
}
