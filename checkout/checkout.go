// Package checkout drives the payment lifecycle: intent creation, hosted
// session creation, and post-payment verification.
package checkout

import (
	"context"
	"errors"
	"fmt"
	"math"
	"strconv"

	"agency-svc/catalog"
	"agency-svc/models"
	"agency-svc/processor"
	"agency-svc/promo"

	"go.uber.org/zap"
)

var (
	ErrInvalidPrice         = errors.New("invalid price")
	ErrNotConfigured        = errors.New("payment processing not configured")
	ErrProcessorUnavailable = errors.New("payment processor unavailable")
)

const currency = "usd"

// PaymentRecorder persists verified payments. Insert must be idempotent per
// session so repeated verifications cannot duplicate a record.
type PaymentRecorder interface {
	Insert(ctx context.Context, rec models.PaymentRecord) error
}

type Service struct {
	proc    processor.Client
	store   PaymentRecorder
	baseURL string
	logger  *zap.Logger
}

// NewService wires the checkout flows. proc may be nil when no processor
// credential is configured; every operation then fails with ErrNotConfigured.
func NewService(proc processor.Client, store PaymentRecorder, baseURL string, logger *zap.Logger) *Service {
	return &Service{
		proc:    proc,
		store:   store,
		baseURL: baseURL,
		logger:  logger,
	}
}

func (s *Service) CreatePaymentIntent(ctx context.Context, req models.CreatePaymentIntentRequest) (models.CreatePaymentIntentResponse, error) {
	if s.proc == nil {
		return models.CreatePaymentIntentResponse{}, ErrNotConfigured
	}
	if math.IsNaN(req.Price) || math.IsInf(req.Price, 0) {
		return models.CreatePaymentIntentResponse{}, ErrInvalidPrice
	}

	finalAmount := req.Price
	discountMessage := ""
	discountApplied := false

	if req.PromoCode != "" {
		result, err := promo.Apply(req.PromoCode, req.Price)
		if err != nil {
			// An unrecognized code must not fail the purchase; the
			// customer simply pays full price.
			s.logger.Warn("Ignoring invalid promo code", zap.String("promo_code", req.PromoCode))
		} else {
			finalAmount = result.DiscountedPrice
			discountMessage = result.Message
			discountApplied = true
		}
	}

	intent, err := s.proc.CreateIntent(ctx, processor.IntentParams{
		AmountCents: toCents(finalAmount),
		Currency:    currency,
		Metadata: map[string]string{
			"service_id":       req.ServiceID,
			"service_name":     req.ServiceName,
			"customer_email":   req.CustomerEmail,
			"customer_name":    req.CustomerName,
			"promo_code":       req.PromoCode,
			"original_price":   strconv.FormatFloat(req.Price, 'f', -1, 64),
			"discounted_price": strconv.FormatFloat(finalAmount, 'f', -1, 64),
			"discount_applied": strconv.FormatBool(discountApplied),
		},
	})
	if err != nil {
		return models.CreatePaymentIntentResponse{}, fmt.Errorf("%w: %v", ErrProcessorUnavailable, err)
	}

	return models.CreatePaymentIntentResponse{
		ClientSecret:    intent.ClientSecret,
		DiscountedPrice: finalAmount,
		DiscountMessage: discountMessage,
		DiscountApplied: discountApplied,
	}, nil
}

func (s *Service) CreateCheckoutSession(ctx context.Context, req models.CreateCheckoutSessionRequest) (models.CreateCheckoutSessionResponse, error) {
	if s.proc == nil {
		return models.CreateCheckoutSessionResponse{}, ErrNotConfigured
	}
	if s.baseURL == "" {
		return models.CreateCheckoutSessionResponse{}, fmt.Errorf("%w: site base URL not set", ErrNotConfigured)
	}
	if math.IsNaN(req.Price) || math.IsInf(req.Price, 0) {
		return models.CreateCheckoutSessionResponse{}, ErrInvalidPrice
	}

	sess, err := s.proc.CreateSession(ctx, processor.SessionParams{
		ServiceName:   req.ServiceName,
		Description:   catalog.Description(req.ServiceID),
		AmountCents:   toCents(req.Price),
		Currency:      currency,
		Recurring:     req.IsRecurring,
		CustomerEmail: req.CustomerEmail,
		SuccessURL:    s.baseURL + "?success=true&session_id={CHECKOUT_SESSION_ID}",
		CancelURL:     s.baseURL + "?canceled=true",
		Metadata: map[string]string{
			"service_id":   req.ServiceID,
			"service_name": req.ServiceName,
		},
	})
	if err != nil {
		return models.CreateCheckoutSessionResponse{}, fmt.Errorf("%w: %v", ErrProcessorUnavailable, err)
	}

	return models.CreateCheckoutSessionResponse{
		SessionID: sess.ID,
		URL:       sess.URL,
	}, nil
}

// VerifyPayment reads the terminal state of a checkout session. Only a "paid"
// session produces a payment record; a remote failure propagates instead of
// being reported as an unpaid session.
func (s *Service) VerifyPayment(ctx context.Context, sessionID string) (models.VerifyPaymentResponse, error) {
	if s.proc == nil {
		return models.VerifyPaymentResponse{}, ErrNotConfigured
	}

	sess, err := s.proc.GetSession(ctx, sessionID)
	if err != nil {
		return models.VerifyPaymentResponse{}, fmt.Errorf("%w: %v", ErrProcessorUnavailable, err)
	}

	if sess.PaymentStatus != processor.StatusPaid {
		return models.VerifyPaymentResponse{Success: false}, nil
	}

	rec := models.PaymentRecord{
		SessionID:     sessionID,
		CustomerEmail: sess.CustomerEmail,
		ServiceName:   sess.Metadata["service_name"],
		AmountCents:   sess.AmountCents,
		PaymentStatus: sess.PaymentStatus,
	}
	if err := s.store.Insert(ctx, rec); err != nil {
		return models.VerifyPaymentResponse{}, fmt.Errorf("failed to record payment: %w", err)
	}

	s.logger.Info("Payment verified",
		zap.String("session_id", sessionID),
		zap.Int64("amount_cents", sess.AmountCents),
	)

	return models.VerifyPaymentResponse{
		Success:       true,
		CustomerEmail: sess.CustomerEmail,
		ServiceName:   sess.Metadata["service_name"],
		AmountCents:   sess.AmountCents,
	}, nil
}

// toCents converts a major-unit amount to cents with ordinary rounding.
func toCents(amount float64) int64 {
	return int64(math.Round(amount * 100))
}
