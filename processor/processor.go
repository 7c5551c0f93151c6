// Package processor abstracts the remote payment processor so services can be
// tested against a fake and the real client swapped in at startup.
package processor

import "context"

// StatusPaid is the session payment status that marks a completed purchase.
const StatusPaid = "paid"

// IntentParams describes a card payment intent. Amounts are in cents.
type IntentParams struct {
	AmountCents int64
	Currency    string
	Metadata    map[string]string
}

type Intent struct {
	ID           string
	ClientSecret string
}

// SessionParams describes a hosted checkout session with a single line item.
type SessionParams struct {
	ServiceName   string
	Description   string
	AmountCents   int64
	Currency      string
	Recurring     bool
	CustomerEmail string
	SuccessURL    string
	CancelURL     string
	Metadata      map[string]string
}

type Session struct {
	ID            string
	URL           string
	PaymentStatus string
	CustomerEmail string
	AmountCents   int64
	Metadata      map[string]string
}

type Client interface {
	CreateIntent(ctx context.Context, params IntentParams) (Intent, error)
	CreateSession(ctx context.Context, params SessionParams) (Session, error)
	GetSession(ctx context.Context, id string) (Session, error)
}
