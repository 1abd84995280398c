package dto

import (
	"time"

	"github.com/soporteit/support-desk/internal/domain"
)

// CreateTicketRequest is the public intake payload.
type CreateTicketRequest struct {
	Name        string `json:"name"`
	Email       string `json:"email"`
	Phone       string `json:"phone"`
	Service     string `json:"service"`
	Priority    string `json:"priority"`
	Description string `json:"description"`
}

// UpdateTicketRequest replaces the editable ticket fields.
type UpdateTicketRequest struct {
	Name        string  `json:"name"`
	Email       string  `json:"email"`
	Phone       string  `json:"phone"`
	Service     string  `json:"service"`
	Priority    string  `json:"priority"`
	Description string  `json:"description"`
	Status      string  `json:"status"`
	Technician  *string `json:"technician"`
}

// UpdateStatusRequest payload.
type UpdateStatusRequest struct {
	Status string `json:"status"`
}

// AssignTechnicianRequest payload.
type AssignTechnicianRequest struct {
	Technician string `json:"technician"`
}

// TicketResponse is the wire shape of a ticket.
type TicketResponse struct {
	ID          int64                 `json:"id"`
	TicketID    string                `json:"ticket_id"`
	Name        string                `json:"name"`
	Email       string                `json:"email"`
	Phone       string                `json:"phone"`
	Service     string                `json:"service"`
	Priority    domain.TicketPriority `json:"priority"`
	Description string                `json:"description"`
	Status      domain.TicketStatus   `json:"status"`
	Technician  *string               `json:"technician"`
	CreatedAt   time.Time             `json:"created_at"`
	UpdatedAt   time.Time             `json:"updated_at"`
	Archived    bool                  `json:"archived"`
	ArchivedBy  *string               `json:"archived_by,omitempty"`
	ArchivedAt  *time.Time            `json:"archived_at,omitempty"`
}

// WhatsAppLinks are the shortcuts handed to the client after intake.
type WhatsAppLinks struct {
	Status string `json:"status"`
	Close  string `json:"close"`
	Query  string `json:"query"`
}

// CreateTicketResponse acknowledges an intake.
type CreateTicketResponse struct {
	TicketID    string        `json:"ticket_id"`
	Status      string        `json:"status"`
	Message     string        `json:"message"`
	WhatsAppURL string        `json:"whatsapp_url"`
	WhatsApp    WhatsAppLinks `json:"whatsapp"`
}
