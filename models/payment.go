package models

import "time"

// PaymentRecord is an append-only row written after a checkout session is
// verified as paid. Amounts are in cents, exactly as reported by the processor.
type PaymentRecord struct {
	ID            int       `json:"id"`
	SessionID     string    `json:"session_id"`
	CustomerEmail string    `json:"customer_email"`
	ServiceName   string    `json:"service_name"`
	AmountCents   int64     `json:"amount_cents"`
	PaymentStatus string    `json:"payment_status"`
	CreatedAt     time.Time `json:"created_at"`
}

type PaymentEvent struct {
	SessionID     string `json:"session_id"`
	CustomerEmail string `json:"customer_email"`
	ServiceName   string `json:"service_name"`
	AmountCents   int64  `json:"amount_cents"`
	PaymentStatus string `json:"payment_status"`
	EventType     string `json:"event_type"` // payment_recorded
}

type CreatePaymentIntentRequest struct {
	ServiceID     string  `json:"service_id" binding:"required"`
	ServiceName   string  `json:"service_name" binding:"required"`
	Price         float64 `json:"price"`
	CustomerEmail string  `json:"customer_email"`
	CustomerName  string  `json:"customer_name"`
	PromoCode     string  `json:"promo_code"`
}

type CreatePaymentIntentResponse struct {
	ClientSecret    string  `json:"client_secret"`
	DiscountedPrice float64 `json:"discounted_price"`
	DiscountMessage string  `json:"discount_message,omitempty"`
	DiscountApplied bool    `json:"discount_applied"`
}

type CreateCheckoutSessionRequest struct {
	ServiceID     string  `json:"service_id" binding:"required"`
	ServiceName   string  `json:"service_name" binding:"required"`
	Price         float64 `json:"price"`
	IsRecurring   bool    `json:"is_recurring"`
	CustomerEmail string  `json:"customer_email"`
	CustomerName  string  `json:"customer_name"`
}

type CreateCheckoutSessionResponse struct {
	SessionID string `json:"session_id"`
	URL       string `json:"url"`
}

type VerifyPaymentRequest struct {
	SessionID string `json:"session_id" binding:"required"`
}

type VerifyPaymentResponse struct {
	Success       bool   `json:"success"`
	CustomerEmail string `json:"customer_email,omitempty"`
	ServiceName   string `json:"service_name,omitempty"`
	AmountCents   int64  `json:"amount_cents,omitempty"`
}
