package main

import (
	"context"
	"log"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"agency-svc/cache"
	"agency-svc/checkout"
	"agency-svc/database"
	"agency-svc/handlers"
	"agency-svc/kafka"
	"agency-svc/middleware"
	"agency-svc/processor"
	"agency-svc/store"

	"github.com/gin-gonic/gin"
	"go.opentelemetry.io/contrib/instrumentation/github.com/gin-gonic/gin/otelgin"
	"go.uber.org/zap"
)

func main() {
	// Initialize logger
	logger, err := zap.NewProduction()
	if err != nil {
		log.Fatalf("Failed to initialize logger: %v", err)
	}
	defer logger.Sync()

	// Initialize database
	db, err := database.InitDB(logger)
	if err != nil {
		logger.Fatal("Failed to initialize database", zap.Error(err))
	}
	defer db.Close()

	// Initialize Redis cache
	redisClient, err := cache.InitRedis(logger)
	if err != nil {
		logger.Fatal("Failed to initialize Redis", zap.Error(err))
	}
	defer redisClient.Close()

	// Initialize Kafka producer
	producer, err := kafka.InitProducer(logger)
	if err != nil {
		logger.Fatal("Failed to initialize Kafka producer", zap.Error(err))
	}
	defer producer.Close()

	// Initialize OpenTelemetry
	shutdownTracing, err := middleware.InitTracing("agency-svc")
	if err != nil {
		logger.Fatal("Failed to initialize tracing", zap.Error(err))
	}
	defer shutdownTracing()

	// The payment processor is optional at startup: without a credential the
	// brochure endpoints still work and checkout requests report a
	// configuration error.
	var proc processor.Client
	if apiKey := os.Getenv("STRIPE_SECRET_KEY"); apiKey != "" {
		proc = processor.NewStripeClient(apiKey)
	} else {
		logger.Warn("STRIPE_SECRET_KEY not set, checkout endpoints disabled")
	}

	baseURL := os.Getenv("SITE_BASE_URL")
	if baseURL == "" {
		logger.Warn("SITE_BASE_URL not set, hosted checkout disabled")
	}

	paymentStore := store.NewPaymentStore(db)
	checkoutService := checkout.NewService(proc, paymentStore, baseURL, logger)

	// Setup Gin router
	router := gin.New()
	router.Use(gin.Recovery())
	// OpenTelemetry middleware must be first to extract trace context
	router.Use(otelgin.Middleware("agency-svc"))
	router.Use(middleware.LoggerMiddleware(logger))
	router.Use(middleware.MetricsMiddleware())

	// Health check endpoint
	router.GET("/health", handlers.HealthCheck)

	// Metrics endpoint
	router.GET("/metrics", middleware.PrometheusHandler())

	// Checkout and payment endpoints
	paymentHandler := handlers.NewPaymentHandler(checkoutService, paymentStore, redisClient, producer, logger)
	router.POST("/checkout/payment-intent", paymentHandler.CreatePaymentIntent)
	router.POST("/checkout/session", paymentHandler.CreateCheckoutSession)
	router.POST("/payments/verify", paymentHandler.VerifyPayment)
	router.GET("/payments", paymentHandler.ListPayments)
	router.GET("/payments/:sessionID", paymentHandler.GetPayment)

	// Consultation and service selection endpoints
	consultationHandler := handlers.NewConsultationHandler(db, logger)
	router.POST("/consultations", consultationHandler.SubmitConsultation)
	router.GET("/consultations", consultationHandler.ListConsultations)
	router.POST("/service-selections", consultationHandler.SelectService)

	// Start server
	srv := &http.Server{
		Addr:    ":8080",
		Handler: router,
	}

	// Graceful shutdown
	go func() {
		if err := srv.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			logger.Fatal("Failed to start server", zap.Error(err))
		}
	}()

	logger.Info("Agency Service started on :8080")

	// Wait for interrupt signal
	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	<-quit

	logger.Info("Shutting down server...")

	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()

	if err := srv.Shutdown(ctx); err != nil {
		logger.Fatal("Server forced to shutdown", zap.Error(err))
	}

	logger.Info("Server exited")
}
