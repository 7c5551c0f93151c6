package handlers

import (
	"encoding/json"
	"errors"
	"net/http"
	"time"

	"agency-svc/cache"
	"agency-svc/checkout"
	"agency-svc/kafka"
	"agency-svc/middleware"
	"agency-svc/models"
	"agency-svc/store"

	"github.com/IBM/sarama"
	"github.com/gin-gonic/gin"
	"github.com/redis/go-redis/v9"
	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/attribute"
	"go.uber.org/zap"
)

const paymentEventsTopic = "payment_events"

type PaymentHandler struct {
	checkout    *checkout.Service
	store       *store.PaymentStore
	redisClient *redis.Client
	producer    sarama.SyncProducer
	logger      *zap.Logger
}

// NewPaymentHandler wires the checkout service and payment store behind the
// HTTP surface. redisClient and producer may be nil; caching and event
// publishing are then skipped.
func NewPaymentHandler(svc *checkout.Service, paymentStore *store.PaymentStore, redisClient *redis.Client, producer sarama.SyncProducer, logger *zap.Logger) *PaymentHandler {
	return &PaymentHandler{
		checkout:    svc,
		store:       paymentStore,
		redisClient: redisClient,
		producer:    producer,
		logger:      logger,
	}
}

func (h *PaymentHandler) CreatePaymentIntent(c *gin.Context) {
	ctx, span := otel.Tracer("agency-svc").Start(c.Request.Context(), "CreatePaymentIntent")
	defer span.End()

	var req models.CreatePaymentIntentRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}

	span.SetAttributes(attribute.String("service.id", req.ServiceID))

	resp, err := h.checkout.CreatePaymentIntent(ctx, req)
	if err != nil {
		span.RecordError(err)
		h.writeCheckoutError(c, err)
		return
	}

	span.SetAttributes(attribute.Bool("discount.applied", resp.DiscountApplied))
	c.JSON(http.StatusOK, resp)
}

func (h *PaymentHandler) CreateCheckoutSession(c *gin.Context) {
	ctx, span := otel.Tracer("agency-svc").Start(c.Request.Context(), "CreateCheckoutSession")
	defer span.End()

	var req models.CreateCheckoutSessionRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}

	span.SetAttributes(
		attribute.String("service.id", req.ServiceID),
		attribute.Bool("recurring", req.IsRecurring),
	)

	resp, err := h.checkout.CreateCheckoutSession(ctx, req)
	if err != nil {
		span.RecordError(err)
		h.writeCheckoutError(c, err)
		return
	}

	c.JSON(http.StatusOK, resp)
}

func (h *PaymentHandler) VerifyPayment(c *gin.Context) {
	ctx, span := otel.Tracer("agency-svc").Start(c.Request.Context(), "VerifyPayment")
	defer span.End()

	var req models.VerifyPaymentRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}

	span.SetAttributes(attribute.String("session.id", req.SessionID))

	resp, err := h.checkout.VerifyPayment(ctx, req.SessionID)
	if err != nil {
		span.RecordError(err)
		h.writeCheckoutError(c, err)
		return
	}

	if resp.Success {
		middleware.RecordPaymentVerified("paid")
		h.publishPaymentRecorded(c, resp, req.SessionID)
	} else {
		middleware.RecordPaymentVerified("unpaid")
	}

	c.JSON(http.StatusOK, resp)
}

func (h *PaymentHandler) publishPaymentRecorded(c *gin.Context, resp models.VerifyPaymentResponse, sessionID string) {
	if h.producer == nil {
		return
	}

	event := models.PaymentEvent{
		SessionID:     sessionID,
		CustomerEmail: resp.CustomerEmail,
		ServiceName:   resp.ServiceName,
		AmountCents:   resp.AmountCents,
		PaymentStatus: "paid",
		EventType:     "payment_recorded",
	}
	if err := kafka.PublishPaymentEvent(c.Request.Context(), h.producer, paymentEventsTopic, event, h.logger); err != nil {
		// The payment is already persisted; a publish failure is logged
		// but does not fail the verification.
		traceID := middleware.GetTraceID(c.Request.Context())
		h.logger.Error("Failed to publish payment event", zap.String("trace_id", traceID), zap.Error(err))
	}
}

func (h *PaymentHandler) ListPayments(c *gin.Context) {
	ctx, span := otel.Tracer("agency-svc").Start(c.Request.Context(), "ListPayments")
	defer span.End()

	payments, err := h.store.List(ctx)
	if err != nil {
		span.RecordError(err)
		traceID := middleware.GetTraceID(ctx)
		h.logger.Error("Failed to list payments", zap.String("trace_id", traceID), zap.Error(err))
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Internal server error"})
		return
	}

	span.SetAttributes(attribute.Int("payments.count", len(payments)))
	c.JSON(http.StatusOK, payments)
}

func (h *PaymentHandler) GetPayment(c *gin.Context) {
	ctx, span := otel.Tracer("agency-svc").Start(c.Request.Context(), "GetPayment")
	defer span.End()

	sessionID := c.Param("sessionID")
	span.SetAttributes(attribute.String("session.id", sessionID))

	if h.redisClient != nil {
		if cachedData, err := cache.GetPayment(ctx, h.redisClient, sessionID); err == nil {
			var rec models.PaymentRecord
			if err := json.Unmarshal(cachedData, &rec); err == nil {
				span.SetAttributes(attribute.Bool("cache.hit", true))
				c.JSON(http.StatusOK, rec)
				return
			}
		}
		span.SetAttributes(attribute.Bool("cache.hit", false))
	}

	rec, err := h.store.GetBySession(ctx, sessionID)
	if err != nil {
		span.RecordError(err)
		traceID := middleware.GetTraceID(ctx)
		h.logger.Error("Failed to get payment", zap.String("trace_id", traceID), zap.Error(err))
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Internal server error"})
		return
	}
	if rec == nil {
		c.JSON(http.StatusNotFound, gin.H{"error": "Payment not found"})
		return
	}

	if h.redisClient != nil {
		// Records are immutable after insert, a short TTL is plenty.
		cache.SetPayment(ctx, h.redisClient, sessionID, rec, 5*time.Minute)
	}

	c.JSON(http.StatusOK, rec)
}

func (h *PaymentHandler) writeCheckoutError(c *gin.Context, err error) {
	traceID := middleware.GetTraceID(c.Request.Context())

	switch {
	case errors.Is(err, checkout.ErrInvalidPrice):
		c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid price value"})
	case errors.Is(err, checkout.ErrNotConfigured):
		h.logger.Error("Checkout not configured", zap.String("trace_id", traceID), zap.Error(err))
		c.JSON(http.StatusServiceUnavailable, gin.H{"error": "Payment processing is not configured"})
	case errors.Is(err, checkout.ErrProcessorUnavailable):
		h.logger.Error("Payment processor error", zap.String("trace_id", traceID), zap.Error(err))
		c.JSON(http.StatusBadGateway, gin.H{"error": "Payment processor unavailable"})
	default:
		h.logger.Error("Checkout error", zap.String("trace_id", traceID), zap.Error(err))
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Internal server error"})
	}
}
