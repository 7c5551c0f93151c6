package models

import "time"

type Consultation struct {
	ID          int       `json:"id"`
	Name        string    `json:"name"`
	Email       string    `json:"email"`
	Message     string    `json:"message"`
	Service     string    `json:"service,omitempty"`
	SubmittedAt time.Time `json:"submitted_at"`
}

type ConsultationRequest struct {
	Name    string `json:"name" binding:"required"`
	Email   string `json:"email" binding:"required,email"`
	Message string `json:"message" binding:"required"`
	Service string `json:"service"`
}

// ServiceSelection is a write-only audit snapshot of what a prospective
// customer picked before entering checkout.
type ServiceSelection struct {
	ID            int       `json:"id"`
	Service       string    `json:"service"`
	Tier          string    `json:"tier,omitempty"`
	CustomerEmail string    `json:"customer_email"`
	CustomerName  string    `json:"customer_name"`
	Price         float64   `json:"price"`
	SelectedAt    time.Time `json:"selected_at"`
}

type ServiceSelectionRequest struct {
	Service       string  `json:"service" binding:"required"`
	Tier          string  `json:"tier"`
	CustomerEmail string  `json:"customer_email" binding:"required,email"`
	CustomerName  string  `json:"customer_name" binding:"required"`
	Price         float64 `json:"price" binding:"required"`
}
