package handlers

import (
	"bytes"
	"context"
	"database/sql"
	"encoding/json"
	"errors"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"agency-svc/checkout"
	"agency-svc/models"
	"agency-svc/processor"
	"agency-svc/store"

	"github.com/DATA-DOG/go-sqlmock"
	"github.com/gin-gonic/gin"
	"go.uber.org/zap"
	"go.uber.org/zap/zaptest"
)

// fakeProcessor implements processor.Client for handler tests.
type fakeProcessor struct {
	createIntentFunc func(ctx context.Context, params processor.IntentParams) (processor.Intent, error)
	getSessionFunc   func(ctx context.Context, id string) (processor.Session, error)
}

func (f *fakeProcessor) CreateIntent(ctx context.Context, params processor.IntentParams) (processor.Intent, error) {
	if f.createIntentFunc != nil {
		return f.createIntentFunc(ctx, params)
	}
	return processor.Intent{ID: "pi_test", ClientSecret: "pi_test_secret"}, nil
}

func (f *fakeProcessor) CreateSession(ctx context.Context, params processor.SessionParams) (processor.Session, error) {
	return processor.Session{ID: "cs_test", URL: "https://checkout.example.com/cs_test"}, nil
}

func (f *fakeProcessor) GetSession(ctx context.Context, id string) (processor.Session, error) {
	if f.getSessionFunc != nil {
		return f.getSessionFunc(ctx, id)
	}
	return processor.Session{ID: id}, nil
}

func setupPaymentTest(t *testing.T, proc processor.Client) (sqlmock.Sqlmock, *sql.DB, *gin.Engine) {
	db, mock, err := sqlmock.New()
	if err != nil {
		t.Fatalf("Failed to create mock database: %v", err)
	}

	logger := zaptest.NewLogger(t, zaptest.Level(zap.InfoLevel))
	paymentStore := store.NewPaymentStore(db)
	svc := checkout.NewService(proc, paymentStore, "https://agency.example.com", logger)
	handler := NewPaymentHandler(svc, paymentStore, nil, nil, logger)

	gin.SetMode(gin.TestMode)
	router := gin.New()
	router.POST("/checkout/payment-intent", handler.CreatePaymentIntent)
	router.POST("/checkout/session", handler.CreateCheckoutSession)
	router.POST("/payments/verify", handler.VerifyPayment)
	router.GET("/payments", handler.ListPayments)
	router.GET("/payments/:sessionID", handler.GetPayment)

	return mock, db, router
}

func TestPaymentHandler_CreatePaymentIntent_Success(t *testing.T) {
	mock, db, router := setupPaymentTest(t, &fakeProcessor{})
	defer db.Close()

	reqBody := models.CreatePaymentIntentRequest{
		ServiceID:   "website",
		ServiceName: "Website Development",
		Price:       2500,
	}

	body, _ := json.Marshal(reqBody)
	req := httptest.NewRequest(http.MethodPost, "/checkout/payment-intent", bytes.NewBuffer(body))
	req.Header.Set("Content-Type", "application/json")
	w := httptest.NewRecorder()

	router.ServeHTTP(w, req)

	if w.Code != http.StatusOK {
		t.Errorf("Expected status %d, got %d", http.StatusOK, w.Code)
	}

	var resp models.CreatePaymentIntentResponse
	if err := json.Unmarshal(w.Body.Bytes(), &resp); err != nil {
		t.Fatalf("Failed to decode response: %v", err)
	}
	if resp.ClientSecret != "pi_test_secret" {
		t.Errorf("Expected client secret pi_test_secret, got %q", resp.ClientSecret)
	}

	if err := mock.ExpectationsWereMet(); err != nil {
		t.Errorf("Database expectations were not met: %v", err)
	}
}

func TestPaymentHandler_CreatePaymentIntent_MissingFields(t *testing.T) {
	mock, db, router := setupPaymentTest(t, &fakeProcessor{})
	defer db.Close()

	req := httptest.NewRequest(http.MethodPost, "/checkout/payment-intent", bytes.NewBufferString(`{"price": 100}`))
	req.Header.Set("Content-Type", "application/json")
	w := httptest.NewRecorder()

	router.ServeHTTP(w, req)

	if w.Code != http.StatusBadRequest {
		t.Errorf("Expected status %d, got %d", http.StatusBadRequest, w.Code)
	}

	if err := mock.ExpectationsWereMet(); err != nil {
		t.Errorf("Unexpected database calls were made: %v", err)
	}
}

func TestPaymentHandler_CreatePaymentIntent_NotConfigured(t *testing.T) {
	mock, db, router := setupPaymentTest(t, nil)
	defer db.Close()

	reqBody := models.CreatePaymentIntentRequest{
		ServiceID:   "website",
		ServiceName: "Website Development",
		Price:       100,
	}

	body, _ := json.Marshal(reqBody)
	req := httptest.NewRequest(http.MethodPost, "/checkout/payment-intent", bytes.NewBuffer(body))
	req.Header.Set("Content-Type", "application/json")
	w := httptest.NewRecorder()

	router.ServeHTTP(w, req)

	if w.Code != http.StatusServiceUnavailable {
		t.Errorf("Expected status %d, got %d", http.StatusServiceUnavailable, w.Code)
	}

	if err := mock.ExpectationsWereMet(); err != nil {
		t.Errorf("Unexpected database calls were made: %v", err)
	}
}

func TestPaymentHandler_VerifyPayment_Paid(t *testing.T) {
	proc := &fakeProcessor{
		getSessionFunc: func(ctx context.Context, id string) (processor.Session, error) {
			return processor.Session{
				ID:            id,
				PaymentStatus: "paid",
				CustomerEmail: "customer@example.com",
				AmountCents:   250000,
				Metadata:      map[string]string{"service_name": "Website Development"},
			}, nil
		},
	}
	mock, db, router := setupPaymentTest(t, proc)
	defer db.Close()

	mock.ExpectExec("INSERT INTO payments").
		WithArgs("cs_abc123", "customer@example.com", "Website Development", int64(250000), "paid").
		WillReturnResult(sqlmock.NewResult(1, 1))

	body, _ := json.Marshal(models.VerifyPaymentRequest{SessionID: "cs_abc123"})
	req := httptest.NewRequest(http.MethodPost, "/payments/verify", bytes.NewBuffer(body))
	req.Header.Set("Content-Type", "application/json")
	w := httptest.NewRecorder()

	router.ServeHTTP(w, req)

	if w.Code != http.StatusOK {
		t.Errorf("Expected status %d, got %d", http.StatusOK, w.Code)
	}

	var resp models.VerifyPaymentResponse
	if err := json.Unmarshal(w.Body.Bytes(), &resp); err != nil {
		t.Fatalf("Failed to decode response: %v", err)
	}
	if !resp.Success {
		t.Error("Expected success true for a paid session")
	}
	if resp.AmountCents != 250000 {
		t.Errorf("Expected amount 250000, got %d", resp.AmountCents)
	}

	if err := mock.ExpectationsWereMet(); err != nil {
		t.Errorf("Database expectations were not met: %v", err)
	}
}

func TestPaymentHandler_VerifyPayment_Unpaid(t *testing.T) {
	proc := &fakeProcessor{
		getSessionFunc: func(ctx context.Context, id string) (processor.Session, error) {
			return processor.Session{ID: id, PaymentStatus: "unpaid"}, nil
		},
	}
	mock, db, router := setupPaymentTest(t, proc)
	defer db.Close()

	// No database expectations - an unpaid session writes nothing.
	body, _ := json.Marshal(models.VerifyPaymentRequest{SessionID: "cs_abc123"})
	req := httptest.NewRequest(http.MethodPost, "/payments/verify", bytes.NewBuffer(body))
	req.Header.Set("Content-Type", "application/json")
	w := httptest.NewRecorder()

	router.ServeHTTP(w, req)

	if w.Code != http.StatusOK {
		t.Errorf("Expected status %d, got %d", http.StatusOK, w.Code)
	}

	var resp models.VerifyPaymentResponse
	if err := json.Unmarshal(w.Body.Bytes(), &resp); err != nil {
		t.Fatalf("Failed to decode response: %v", err)
	}
	if resp.Success {
		t.Error("Expected success false for an unpaid session")
	}

	if err := mock.ExpectationsWereMet(); err != nil {
		t.Errorf("Unexpected database calls were made: %v", err)
	}
}

func TestPaymentHandler_VerifyPayment_ProcessorError(t *testing.T) {
	proc := &fakeProcessor{
		getSessionFunc: func(ctx context.Context, id string) (processor.Session, error) {
			return processor.Session{}, errors.New("timeout")
		},
	}
	mock, db, router := setupPaymentTest(t, proc)
	defer db.Close()

	body, _ := json.Marshal(models.VerifyPaymentRequest{SessionID: "cs_abc123"})
	req := httptest.NewRequest(http.MethodPost, "/payments/verify", bytes.NewBuffer(body))
	req.Header.Set("Content-Type", "application/json")
	w := httptest.NewRecorder()

	router.ServeHTTP(w, req)

	if w.Code != http.StatusBadGateway {
		t.Errorf("Expected status %d, got %d", http.StatusBadGateway, w.Code)
	}

	if err := mock.ExpectationsWereMet(); err != nil {
		t.Errorf("Unexpected database calls were made: %v", err)
	}
}

func TestPaymentHandler_GetPayment_Found(t *testing.T) {
	mock, db, router := setupPaymentTest(t, &fakeProcessor{})
	defer db.Close()

	rows := sqlmock.NewRows([]string{"id", "session_id", "customer_email", "service_name", "amount_cents", "payment_status", "created_at"}).
		AddRow(1, "cs_abc123", "customer@example.com", "Website Development", int64(250000), "paid", time.Now())

	mock.ExpectQuery("SELECT id, session_id, customer_email, service_name, amount_cents, payment_status, created_at FROM payments WHERE session_id = \\$1").
		WithArgs("cs_abc123").
		WillReturnRows(rows)

	req := httptest.NewRequest(http.MethodGet, "/payments/cs_abc123", nil)
	w := httptest.NewRecorder()

	router.ServeHTTP(w, req)

	if w.Code != http.StatusOK {
		t.Errorf("Expected status %d, got %d", http.StatusOK, w.Code)
	}

	if err := mock.ExpectationsWereMet(); err != nil {
		t.Errorf("Database expectations were not met: %v", err)
	}
}

func TestPaymentHandler_GetPayment_NotFound(t *testing.T) {
	mock, db, router := setupPaymentTest(t, &fakeProcessor{})
	defer db.Close()

	mock.ExpectQuery("SELECT id, session_id, customer_email, service_name, amount_cents, payment_status, created_at FROM payments WHERE session_id = \\$1").
		WithArgs("cs_missing").
		WillReturnError(sql.ErrNoRows)

	req := httptest.NewRequest(http.MethodGet, "/payments/cs_missing", nil)
	w := httptest.NewRecorder()

	router.ServeHTTP(w, req)

	if w.Code != http.StatusNotFound {
		t.Errorf("Expected status %d, got %d", http.StatusNotFound, w.Code)
	}

	if err := mock.ExpectationsWereMet(); err != nil {
		t.Errorf("Database expectations were not met: %v", err)
	}
}

func TestPaymentHandler_ListPayments(t *testing.T) {
	mock, db, router := setupPaymentTest(t, &fakeProcessor{})
	defer db.Close()

	rows := sqlmock.NewRows([]string{"id", "session_id", "customer_email", "service_name", "amount_cents", "payment_status", "created_at"}).
		AddRow(2, "cs_two", "b@example.com", "Basic Maintenance", int64(9900), "paid", time.Now()).
		AddRow(1, "cs_one", "a@example.com", "Website Development", int64(250000), "paid", time.Now().Add(-time.Hour))

	mock.ExpectQuery("SELECT id, session_id, customer_email, service_name, amount_cents, payment_status, created_at FROM payments ORDER BY created_at DESC, id DESC").
		WillReturnRows(rows)

	req := httptest.NewRequest(http.MethodGet, "/payments", nil)
	w := httptest.NewRecorder()

	router.ServeHTTP(w, req)

	if w.Code != http.StatusOK {
		t.Errorf("Expected status %d, got %d", http.StatusOK, w.Code)
	}

	var payments []models.PaymentRecord
	if err := json.Unmarshal(w.Body.Bytes(), &payments); err != nil {
		t.Fatalf("Failed to decode response: %v", err)
	}
	if len(payments) != 2 {
		t.Errorf("Expected 2 payments, got %d", len(payments))
	}

	if err := mock.ExpectationsWereMet(); err != nil {
		t.Errorf("Database expectations were not met: %v", err)
	}
}
