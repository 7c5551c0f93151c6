package store

import (
	"context"
	"database/sql"
	"testing"
	"time"

	"agency-svc/models"

	"github.com/DATA-DOG/go-sqlmock"
)

func setupStoreTest(t *testing.T) (*PaymentStore, sqlmock.Sqlmock, *sql.DB) {
	db, mock, err := sqlmock.New()
	if err != nil {
		t.Fatalf("Failed to create mock database: %v", err)
	}
	return NewPaymentStore(db), mock, db
}

func TestPaymentStore_Insert(t *testing.T) {
	store, mock, db := setupStoreTest(t)
	defer db.Close()

	mock.ExpectExec("INSERT INTO payments").
		WithArgs("cs_abc123", "customer@example.com", "Website Development", int64(250000), "paid").
		WillReturnResult(sqlmock.NewResult(1, 1))

	err := store.Insert(context.Background(), models.PaymentRecord{
		SessionID:     "cs_abc123",
		CustomerEmail: "customer@example.com",
		ServiceName:   "Website Development",
		AmountCents:   250000,
		PaymentStatus: "paid",
	})
	if err != nil {
		t.Fatalf("Insert returned error: %v", err)
	}

	if err := mock.ExpectationsWereMet(); err != nil {
		t.Errorf("Database expectations were not met: %v", err)
	}
}

func TestPaymentStore_Insert_DuplicateSessionIsNoop(t *testing.T) {
	store, mock, db := setupStoreTest(t)
	defer db.Close()

	// ON CONFLICT DO NOTHING reports zero affected rows; Insert still succeeds.
	mock.ExpectExec("INSERT INTO payments").
		WithArgs("cs_abc123", "customer@example.com", "Website Development", int64(250000), "paid").
		WillReturnResult(sqlmock.NewResult(0, 0))

	err := store.Insert(context.Background(), models.PaymentRecord{
		SessionID:     "cs_abc123",
		CustomerEmail: "customer@example.com",
		ServiceName:   "Website Development",
		AmountCents:   250000,
		PaymentStatus: "paid",
	})
	if err != nil {
		t.Fatalf("Insert returned error: %v", err)
	}

	if err := mock.ExpectationsWereMet(); err != nil {
		t.Errorf("Database expectations were not met: %v", err)
	}
}

func TestPaymentStore_GetBySession_Found(t *testing.T) {
	store, mock, db := setupStoreTest(t)
	defer db.Close()

	rows := sqlmock.NewRows([]string{"id", "session_id", "customer_email", "service_name", "amount_cents", "payment_status", "created_at"}).
		AddRow(1, "cs_abc123", "customer@example.com", "Website Development", int64(250000), "paid", time.Now())

	mock.ExpectQuery("SELECT id, session_id, customer_email, service_name, amount_cents, payment_status, created_at FROM payments WHERE session_id = \\$1").
		WithArgs("cs_abc123").
		WillReturnRows(rows)

	rec, err := store.GetBySession(context.Background(), "cs_abc123")
	if err != nil {
		t.Fatalf("GetBySession returned error: %v", err)
	}
	if rec == nil {
		t.Fatal("Expected a payment record, got nil")
	}
	if rec.SessionID != "cs_abc123" {
		t.Errorf("Expected session id cs_abc123, got %q", rec.SessionID)
	}
	if rec.AmountCents != 250000 {
		t.Errorf("Expected amount 250000, got %d", rec.AmountCents)
	}

	if err := mock.ExpectationsWereMet(); err != nil {
		t.Errorf("Database expectations were not met: %v", err)
	}
}

func TestPaymentStore_GetBySession_NotFound(t *testing.T) {
	store, mock, db := setupStoreTest(t)
	defer db.Close()

	mock.ExpectQuery("SELECT id, session_id, customer_email, service_name, amount_cents, payment_status, created_at FROM payments WHERE session_id = \\$1").
		WithArgs("cs_missing").
		WillReturnError(sql.ErrNoRows)

	rec, err := store.GetBySession(context.Background(), "cs_missing")
	if err != nil {
		t.Fatalf("GetBySession returned error: %v", err)
	}
	if rec != nil {
		t.Errorf("Expected nil for an unknown session, got %+v", rec)
	}

	if err := mock.ExpectationsWereMet(); err != nil {
		t.Errorf("Database expectations were not met: %v", err)
	}
}

func TestPaymentStore_List_NewestFirst(t *testing.T) {
	store, mock, db := setupStoreTest(t)
	defer db.Close()

	now := time.Now()
	rows := sqlmock.NewRows([]string{"id", "session_id", "customer_email", "service_name", "amount_cents", "payment_status", "created_at"}).
		AddRow(3, "cs_three", "c@example.com", "Pro Maintenance", int64(19900), "paid", now).
		AddRow(2, "cs_two", "b@example.com", "Basic Maintenance", int64(9900), "paid", now.Add(-time.Hour)).
		AddRow(1, "cs_one", "a@example.com", "Website Development", int64(250000), "paid", now.Add(-2*time.Hour))

	mock.ExpectQuery("SELECT id, session_id, customer_email, service_name, amount_cents, payment_status, created_at FROM payments ORDER BY created_at DESC, id DESC").
		WillReturnRows(rows)

	payments, err := store.List(context.Background())
	if err != nil {
		t.Fatalf("List returned error: %v", err)
	}
	if len(payments) != 3 {
		t.Fatalf("Expected 3 payments, got %d", len(payments))
	}
	for i := 1; i < len(payments); i++ {
		if payments[i].CreatedAt.After(payments[i-1].CreatedAt) {
			t.Errorf("Payments not in newest-first order at index %d", i)
		}
	}

	if err := mock.ExpectationsWereMet(); err != nil {
		t.Errorf("Database expectations were not met: %v", err)
	}
}
