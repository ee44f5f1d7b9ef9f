package main

import (
	"context"
	"fmt"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/gin-contrib/cors"
	"github.com/gin-gonic/gin"
	"github.com/mssola/user_agent"
	"github.com/sirupsen/logrus"
	"github.com/viaflight/layover-planner/internal/config"
	"github.com/viaflight/layover-planner/internal/database"
	"github.com/viaflight/layover-planner/internal/handlers"
	"github.com/viaflight/layover-planner/internal/middleware"
	"github.com/viaflight/layover-planner/internal/services"
	"github.com/viaflight/layover-planner/pkg/jwt"
	"github.com/viaflight/layover-planner/pkg/places"
)

var (
	version   = "1.0.0"
	buildTime = "unknown"
)

func main() {
	// Initialize logger
	logger := logrus.New()
	logger.SetFormatter(&logrus.JSONFormatter{})
	logger.SetOutput(os.Stdout)

	logger.Info("Starting Layover Planner Backend")
	logger.Infof("Version: %s, Build Time: %s", version, buildTime)

	// Load configuration
	cfg, err := config.Load()
	if err != nil {
		logger.Fatalf("Failed to load configuration: %v", err)
	}

	// Set log level
	logLevel, err := logrus.ParseLevel(cfg.Server.LogLevel)
	if err != nil {
		logger.Warn("Invalid log level, using INFO")
		logLevel = logrus.InfoLevel
	}
	logger.SetLevel(logLevel)

	// Set Gin mode
	if cfg.Server.Environment == "production" {
		gin.SetMode(gin.ReleaseMode)
	} else {
		gin.SetMode(gin.DebugMode)
	}

	// Initialize the embedded facility store. A failed seed load is not
	// fatal: queries keep retrying initialization and answer empty until
	// the dump becomes readable.
	logger.Info("Initializing facility store...")
	facilityStore := database.NewFacilityStore(cfg.Facilities.DBPath, cfg.Facilities.SeedPath, logger)
	if err := facilityStore.Initialize(); err != nil {
		logger.WithError(err).Warn("Facility store initialization deferred")
	} else {
		logger.Info("Facility store ready")
	}
	defer facilityStore.Close()

	// Open the local fallback store
	localStore, err := database.OpenLocalStore(cfg.Local.Path, logger)
	if err != nil {
		logger.Fatalf("Failed to open local store: %v", err)
	}
	defer localStore.Close()
	logger.Info("Local store ready")

	// Connect the optional remote backend
	var (
		scheduleRepo *database.ScheduleRepository
		reviewRepo   *database.ReviewRepository
	)
	if cfg.Remote.Enabled() {
		logger.Info("Connecting to remote backend...")
		remoteDB, err := database.NewRemoteConnection(cfg.Remote)
		if err != nil {
			logger.WithError(err).Warn("Remote backend unavailable, running local-only")
		} else {
			defer remoteDB.Close()
			scheduleRepo = database.NewScheduleRepository(remoteDB)
			reviewRepo = database.NewReviewRepository(remoteDB)
			logger.Info("Remote backend connected")
		}
	} else {
		logger.Info("No remote backend configured, running local-only")
	}

	// Initialize services
	logger.Info("Initializing services...")
	policy := services.DefaultFallbackPolicy()
	policy.RemoteTimeout = cfg.Fallback.RemoteTimeout
	policy.MirrorOnWrite = cfg.Fallback.MirrorOnWrite
	policy.FallbackOnEmptyRead = cfg.Fallback.FallbackOnEmptyRead

	jwtService := jwt.NewService(cfg.JWT.Secret, cfg.JWT.AccessTokenExpiry)
	facilityService := services.NewFacilityService(facilityStore, logger)
	scheduleService := services.NewScheduleService(scheduleRepo, localStore, policy, logger)
	reviewService := services.NewReviewService(reviewRepo, localStore, policy, logger)

	var placeProvider places.Provider
	if cfg.Places.Mode == "production" {
		logger.Info("Initializing place details provider in production mode...")
		placeProvider = places.NewGoogleGateway(places.GoogleConfig{
			BaseURL: cfg.Places.BaseURL,
			APIKey:  cfg.Places.APIKey,
		})
	} else {
		logger.Info("Place details provider in development mode (canned responses)")
		placeProvider = places.NewDevGateway()
	}
	logger.Info("Services initialized")

	// Initialize handlers
	facilityHandler := handlers.NewFacilityHandler(facilityService)
	scheduleHandler := handlers.NewScheduleHandler(scheduleService)
	reviewHandler := handlers.NewReviewHandler(reviewService)
	placeHandler := handlers.NewPlaceHandler(placeProvider, logger)

	// Initialize Gin router
	router := gin.New()

	// Middleware
	router.Use(gin.Recovery())
	router.Use(requestLogger(logger))

	// CORS configuration
	corsConfig := cors.Config{
		AllowOrigins:     cfg.CORS.AllowedOrigins,
		AllowMethods:     cfg.CORS.AllowedMethods,
		AllowHeaders:     cfg.CORS.AllowedHeaders,
		ExposeHeaders:    []string{"Content-Length"},
		AllowCredentials: true,
		MaxAge:           12 * time.Hour,
	}
	router.Use(cors.New(corsConfig))

	// Identity is optional everywhere: anonymous requests pass through and
	// carry their user id explicitly
	router.Use(middleware.OptionalAuth(jwtService))

	// Health check endpoint
	router.GET("/health", healthCheckHandler(facilityStore, localStore))

	// API v1 routes
	v1 := router.Group("/api/v1")
	{
		// Airport and facility routes
		airports := v1.Group("/airports")
		{
			airports.GET("/:code", facilityHandler.GetAirport)
			airports.GET("/:code/categories", facilityHandler.ListCategories)
			airports.GET("/:code/facilities", facilityHandler.ListFacilities)
			airports.GET("/:code/facilities/search", facilityHandler.SearchFacilities)
			airports.GET("/:code/facilities/open", facilityHandler.ListOpenFacilities)
		}

		// Saved schedule routes
		schedules := v1.Group("/schedules")
		{
			schedules.POST("", scheduleHandler.SaveSchedule)
			schedules.GET("", scheduleHandler.ListSchedules)
			schedules.GET("/:id", scheduleHandler.GetSchedule)
			schedules.PATCH("/:id/name", scheduleHandler.RenameSchedule)
			schedules.DELETE("/:id", scheduleHandler.DeleteSchedule)
		}

		// Trip review routes
		reviews := v1.Group("/reviews")
		{
			reviews.POST("", reviewHandler.SubmitReview)
			reviews.GET("", reviewHandler.ListReviews)
			reviews.GET("/:id", reviewHandler.GetReview)
			reviews.DELETE("/:id", reviewHandler.DeleteReview)
			reviews.POST("/:id/likes", reviewHandler.LikeReview)
			reviews.GET("/:id/likes", reviewHandler.ListLikes)
		}
		v1.DELETE("/likes/:like_id", reviewHandler.UnlikeReview)

		// Place details passthrough
		v1.GET("/places/:id", placeHandler.GetPlace)
	}

	// Create HTTP server
	srv := &http.Server{
		Addr:         fmt.Sprintf(":%s", cfg.Server.Port),
		Handler:      router,
		ReadTimeout:  15 * time.Second,
		WriteTimeout: 15 * time.Second,
		IdleTimeout:  60 * time.Second,
	}

	// Start server in a goroutine
	go func() {
		logger.Infof("Server starting on port %s", cfg.Server.Port)
		if err := srv.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			logger.Fatalf("Failed to start server: %v", err)
		}
	}()

	// Wait for interrupt signal to gracefully shutdown the server
	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	<-quit

	logger.Info("Shutting down server...")

	// Graceful shutdown with timeout
	ctx, cancel := context.WithTimeout(context.Background(), 30*time.Second)
	defer cancel()

	if err := srv.Shutdown(ctx); err != nil {
		logger.Errorf("Server forced to shutdown: %v", err)
	}

	logger.Info("Server exited successfully")
}

// requestLogger middleware for logging HTTP requests
func requestLogger(logger *logrus.Logger) gin.HandlerFunc {
	return func(c *gin.Context) {
		start := time.Now()
		path := c.Request.URL.Path
		query := c.Request.URL.RawQuery

		c.Next()

		latency := time.Since(start)

		fields := logrus.Fields{
			"status":     c.Writer.Status(),
			"method":     c.Request.Method,
			"path":       path,
			"query":      query,
			"ip":         c.ClientIP(),
			"latency_ms": latency.Milliseconds(),
			"user_agent": c.Request.UserAgent(),
		}

		if rawUA := c.Request.UserAgent(); rawUA != "" {
			ua := user_agent.New(rawUA)
			browser, browserVersion := ua.Browser()
			fields["browser"] = browser
			fields["browser_version"] = browserVersion
			fields["os"] = ua.OS()
			fields["mobile"] = ua.Mobile()
		}

		if userCtx, ok := middleware.GetUserContext(c); ok {
			fields["user_id"] = userCtx.UserID
		}

		entry := logger.WithFields(fields)

		if len(c.Errors) > 0 {
			for i, err := range c.Errors {
				entry = entry.WithField(fmt.Sprintf("error_%d", i), err.Error())
			}
			entry.Error("Request failed with errors")
		} else {
			status := c.Writer.Status()
			if status >= 500 {
				entry.Error("Request completed with server error")
			} else if status >= 400 {
				entry.Warn("Request completed with client error")
			} else {
				entry.Info("Request completed successfully")
			}
		}
	}
}

// healthCheckHandler reports the state of both storage tiers
func healthCheckHandler(facilityStore *database.FacilityStore, localStore *database.LocalStore) gin.HandlerFunc {
	return func(c *gin.Context) {
		facilitiesStatus := "healthy"
		if !facilityStore.Ready() {
			facilitiesStatus = "initializing"
		}

		localStatus := "healthy"
		if err := localStore.Ping(); err != nil {
			c.JSON(http.StatusServiceUnavailable, gin.H{
				"status":      "unhealthy",
				"facilities":  facilitiesStatus,
				"local_store": "unhealthy",
				"error":       err.Error(),
			})
			return
		}

		c.JSON(http.StatusOK, gin.H{
			"status":      "healthy",
			"facilities":  facilitiesStatus,
			"local_store": localStatus,
			"version":     version,
			"timestamp":   time.Now().Unix(),
		})
	}
}
