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
	"github.com/sirupsen/logrus"

	"github.com/flightsync/booking-backend/internal/config"
	"github.com/flightsync/booking-backend/internal/database"
	"github.com/flightsync/booking-backend/internal/events"
	"github.com/flightsync/booking-backend/internal/handlers"
	"github.com/flightsync/booking-backend/internal/middleware"
	"github.com/flightsync/booking-backend/internal/services"
	"github.com/flightsync/booking-backend/pkg/jwt"
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

	logger.Info("Starting FlightSync Booking Backend")
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

	// Initialize database connection
	logger.Info("Connecting to database...")
	db, err := database.NewConnection(cfg.Database)
	if err != nil {
		logger.Fatalf("Failed to connect to database: %v", err)
	}
	defer db.Close()
	logger.Info("Database connection established")

	// Initialize change event notifier
	var notifier events.Notifier
	if cfg.Broker.URL != "" {
		amqpNotifier, err := events.NewAMQPNotifier(cfg.Broker.URL, cfg.Broker.QueueName, logger)
		if err != nil {
			logger.Warnf("Failed to connect to event broker, change events disabled: %v", err)
			notifier = events.NoopNotifier{}
		} else {
			logger.Infof("Change events publishing to queue %s", cfg.Broker.QueueName)
			notifier = amqpNotifier
		}
	} else {
		logger.Info("No event broker configured, change events disabled")
		notifier = events.NoopNotifier{}
	}
	defer notifier.Close()

	// Initialize repositories
	flightRepo := database.NewFlightRepository(db.DB)
	priceRepo := database.NewPriceRepository(db)
	customerRepo := database.NewCustomerRepository(db)
	sessionRepo := database.NewSessionRepository(db)
	loyaltyRepo := database.NewLoyaltyRepository(db.DB)
	bookingRepo := database.NewBookingRepository(db.DB, loyaltyRepo)
	paymentRepo := database.NewPaymentRepository(db.DB)
	reviewRepo := database.NewReviewRepository(db)
	searchRepo := database.NewSearchRepository(db)
	analyticsRepo := database.NewAnalyticsRepository(db)

	// Initialize services
	logger.Info("Initializing services...")
	jwtManager := jwt.NewManager(cfg.JWT.Secret, cfg.JWT.TokenExpiry, cfg.JWT.Issuer)
	rateLimitService := services.NewRateLimitService(db)
	authService := services.NewAuthService(customerRepo, sessionRepo, rateLimitService, jwtManager, logger)
	customerService := services.NewCustomerService(customerRepo, logger)
	loyaltyService := services.NewLoyaltyService(loyaltyRepo, customerRepo, notifier, logger)
	bookingService := services.NewBookingService(bookingRepo, notifier, logger)
	pricingService := services.NewPricingService(flightRepo, notifier, logger)
	flightService := services.NewFlightService(flightRepo, priceRepo, searchRepo, logger)
	reviewService := services.NewReviewService(reviewRepo, bookingRepo, loyaltyService, logger)
	paymentService := services.NewPaymentService(paymentRepo, bookingRepo, logger)
	analyticsService := services.NewAnalyticsService(analyticsRepo)
	logger.Info("Services initialized")

	// Background jobs
	cronService := services.NewCronService(pricingService, rateLimitService, logger)
	if err := cronService.Start(); err != nil {
		logger.Fatalf("Failed to start scheduled jobs: %v", err)
	}
	defer cronService.Stop()

	// Initialize handlers
	authHandler := handlers.NewAuthHandler(authService)
	customerHandler := handlers.NewCustomerHandler(customerService, loyaltyService, bookingService)
	flightHandler := handlers.NewFlightHandler(flightService, reviewService)
	bookingHandler := handlers.NewBookingHandler(bookingService)
	paymentHandler := handlers.NewPaymentHandler(paymentService)
	reviewHandler := handlers.NewReviewHandler(reviewService)
	adminHandler := handlers.NewAdminHandler(flightService, bookingService, pricingService, analyticsService, cronService)

	// Initialize Gin router
	router := gin.New()
	router.Use(gin.Recovery())
	if cfg.Security.EnableRequestLog {
		router.Use(requestLogger(logger))
	}

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

	// Health check endpoint
	router.GET("/health", healthCheckHandler(db))

	// API v1 routes
	v1 := router.Group("/api/v1")
	{
		// Authentication routes (public)
		auth := v1.Group("/auth")
		{
			auth.POST("/register", authHandler.Register)
			auth.POST("/login", authHandler.Login)
		}

		// Flight routes (public)
		flights := v1.Group("/flights")
		{
			flights.GET("/search", flightHandler.Search)
			flights.POST("/search", flightHandler.Search)
			flights.GET("/:id", flightHandler.GetFlight)
			flights.GET("/:id/reviews", flightHandler.GetReviews)
		}

		// Customer routes (protected)
		customers := v1.Group("/customers")
		customers.Use(middleware.AuthMiddleware(jwtManager))
		{
			customers.GET("/me", customerHandler.GetProfile)
			customers.PUT("/me", customerHandler.UpdateProfile)
			customers.GET("/me/dashboard", customerHandler.GetDashboard)
			customers.GET("/me/bookings", customerHandler.GetMyBookings)
			customers.GET("/me/loyalty", customerHandler.GetLoyalty)
			customers.POST("/me/loyalty/redeem", customerHandler.RedeemPoints)
		}

		// Booking routes (protected)
		bookings := v1.Group("/bookings")
		bookings.Use(middleware.AuthMiddleware(jwtManager))
		{
			bookings.POST("", bookingHandler.Create)
			bookings.GET("/upcoming", bookingHandler.Upcoming)
			bookings.GET("/:id", bookingHandler.Get)
			bookings.POST("/:id/cancel", bookingHandler.Cancel)
		}

		// Payment routes (protected)
		payments := v1.Group("/payments")
		payments.Use(middleware.AuthMiddleware(jwtManager))
		{
			payments.POST("", paymentHandler.Create)
			payments.GET("/:id", paymentHandler.Get)
			payments.POST("/:id/refund", paymentHandler.Refund)
		}

		// Review routes (protected)
		reviews := v1.Group("/reviews")
		reviews.Use(middleware.AuthMiddleware(jwtManager))
		{
			reviews.POST("", reviewHandler.Create)
			reviews.POST("/:id/helpful", reviewHandler.MarkHelpful)
		}

		// Admin routes (protected, admin role required)
		admin := v1.Group("/admin")
		admin.Use(middleware.AuthMiddleware(jwtManager), middleware.RequireAdmin())
		{
			admin.GET("/flights", adminHandler.ListFlights)
			admin.POST("/flights", adminHandler.CreateFlight)
			admin.PUT("/flights/:id", adminHandler.UpdateFlight)
			admin.POST("/flights/:id/cancel", adminHandler.ForceCancelFlight)
			admin.POST("/pricing/refresh/:id", adminHandler.RefreshPrice)
			admin.POST("/pricing/refresh-all", adminHandler.RefreshAllPrices)
			admin.GET("/analytics/revenue", adminHandler.RevenueStats)
			admin.GET("/analytics/routes", adminHandler.RouteStats)
			admin.GET("/jobs", adminHandler.JobStatus)
		}
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

		entry := logger.WithFields(fields)

		status := c.Writer.Status()
		switch {
		case status >= 500:
			entry.Error("Request completed with server error")
		case status >= 400:
			entry.Warn("Request completed with client error")
		default:
			entry.Info("Request completed successfully")
		}
	}
}

// healthCheckHandler returns a health check endpoint
func healthCheckHandler(db database.DB) gin.HandlerFunc {
	return func(c *gin.Context) {
		if err := db.Ping(); err != nil {
			c.JSON(http.StatusServiceUnavailable, gin.H{
				"status":   "unhealthy",
				"database": "unhealthy",
				"error":    err.Error(),
			})
			return
		}

		c.JSON(http.StatusOK, gin.H{
			"status":    "healthy",
			"database":  "healthy",
			"version":   version,
			"timestamp": time.Now().Unix(),
		})
	}
}
