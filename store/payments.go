// Package store holds the persistence layer for verified payments.
package store

import (
	"context"
	"database/sql"
	"fmt"

	"agency-svc/models"
)

type PaymentStore struct {
	db *sql.DB
}

func NewPaymentStore(db *sql.DB) *PaymentStore {
	return &PaymentStore{db: db}
}

// Insert appends a payment record. The ON CONFLICT clause makes the write
// idempotent per session: a concurrent second verification of the same
// session leaves a single row.
func (s *PaymentStore) Insert(ctx context.Context, rec models.PaymentRecord) error {
	_, err := s.db.ExecContext(ctx,
		`INSERT INTO payments (session_id, customer_email, service_name, amount_cents, payment_status)
		 VALUES ($1, $2, $3, $4, $5)
		 ON CONFLICT (session_id) DO NOTHING`,
		rec.SessionID, rec.CustomerEmail, rec.ServiceName, rec.AmountCents, rec.PaymentStatus,
	)
	if err != nil {
		return fmt.Errorf("failed to insert payment: %w", err)
	}
	return nil
}

// GetBySession returns the payment for a session, or nil when none exists.
func (s *PaymentStore) GetBySession(ctx context.Context, sessionID string) (*models.PaymentRecord, error) {
	var rec models.PaymentRecord
	err := s.db.QueryRowContext(ctx,
		"SELECT id, session_id, customer_email, service_name, amount_cents, payment_status, created_at FROM payments WHERE session_id = $1",
		sessionID,
	).Scan(&rec.ID, &rec.SessionID, &rec.CustomerEmail, &rec.ServiceName, &rec.AmountCents, &rec.PaymentStatus, &rec.CreatedAt)
	if err == sql.ErrNoRows {
		return nil, nil
	}
	if err != nil {
		return nil, fmt.Errorf("failed to get payment: %w", err)
	}
	return &rec, nil
}

// List returns all payments, newest first.
func (s *PaymentStore) List(ctx context.Context) ([]models.PaymentRecord, error) {
	rows, err := s.db.QueryContext(ctx,
		"SELECT id, session_id, customer_email, service_name, amount_cents, payment_status, created_at FROM payments ORDER BY created_at DESC, id DESC",
	)
	if err != nil {
		return nil, fmt.Errorf("failed to list payments: %w", err)
	}
	defer rows.Close()

	var payments []models.PaymentRecord
	for rows.Next() {
		var rec models.PaymentRecord
		if err := rows.Scan(&rec.ID, &rec.SessionID, &rec.CustomerEmail, &rec.ServiceName, &rec.AmountCents, &rec.PaymentStatus, &rec.CreatedAt); err != nil {
			return nil, fmt.Errorf("failed to scan payment: %w", err)
		}
		payments = append(payments, rec)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("failed to read payments: %w", err)
	}
	return payments, nil
}
