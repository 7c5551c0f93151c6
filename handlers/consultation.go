package handlers

import (
	"database/sql"
	"net/http"

	"agency-svc/middleware"
	"agency-svc/models"

	"github.com/gin-gonic/gin"
	"go.uber.org/zap"
)

type ConsultationHandler struct {
	db     *sql.DB
	logger *zap.Logger
}

func NewConsultationHandler(db *sql.DB, logger *zap.Logger) *ConsultationHandler {
	return &ConsultationHandler{
		db:     db,
		logger: logger,
	}
}

func (h *ConsultationHandler) SubmitConsultation(c *gin.Context) {
	var req models.ConsultationRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}

	var consultation models.Consultation
	err := h.db.QueryRowContext(c.Request.Context(),
		"INSERT INTO consultations (name, email, message, service) VALUES ($1, $2, $3, $4) RETURNING id, name, email, message, service, submitted_at",
		req.Name, req.Email, req.Message, req.Service,
	).Scan(&consultation.ID, &consultation.Name, &consultation.Email, &consultation.Message, &consultation.Service, &consultation.SubmittedAt)
	if err != nil {
		traceID := middleware.GetTraceID(c.Request.Context())
		h.logger.Error("Failed to save consultation", zap.String("trace_id", traceID), zap.Error(err))
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Internal server error"})
		return
	}

	h.logger.Info("Consultation submitted", zap.String("email", req.Email))
	c.JSON(http.StatusCreated, consultation)
}

func (h *ConsultationHandler) ListConsultations(c *gin.Context) {
	rows, err := h.db.QueryContext(c.Request.Context(),
		"SELECT id, name, email, message, service, submitted_at FROM consultations ORDER BY submitted_at DESC, id DESC",
	)
	if err != nil {
		traceID := middleware.GetTraceID(c.Request.Context())
		h.logger.Error("Failed to list consultations", zap.String("trace_id", traceID), zap.Error(err))
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Internal server error"})
		return
	}
	defer rows.Close()

	var consultations []models.Consultation
	for rows.Next() {
		var consultation models.Consultation
		if err := rows.Scan(&consultation.ID, &consultation.Name, &consultation.Email, &consultation.Message, &consultation.Service, &consultation.SubmittedAt); err != nil {
			h.logger.Error("Failed to scan consultation", zap.Error(err))
			continue
		}
		consultations = append(consultations, consultation)
	}

	c.JSON(http.StatusOK, consultations)
}

func (h *ConsultationHandler) SelectService(c *gin.Context) {
	var req models.ServiceSelectionRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}

	var selection models.ServiceSelection
	err := h.db.QueryRowContext(c.Request.Context(),
		"INSERT INTO service_selections (service, tier, customer_email, customer_name, price) VALUES ($1, $2, $3, $4, $5) RETURNING id, service, tier, customer_email, customer_name, price, selected_at",
		req.Service, req.Tier, req.CustomerEmail, req.CustomerName, req.Price,
	).Scan(&selection.ID, &selection.Service, &selection.Tier, &selection.CustomerEmail, &selection.CustomerName, &selection.Price, &selection.SelectedAt)
	if err != nil {
		traceID := middleware.GetTraceID(c.Request.Context())
		h.logger.Error("Failed to save service selection", zap.String("trace_id", traceID), zap.Error(err))
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Internal server error"})
		return
	}

	h.logger.Info("Service selected",
		zap.String("service", req.Service),
		zap.String("customer_email", req.CustomerEmail),
	)
	c.JSON(http.StatusCreated, selection)
}
