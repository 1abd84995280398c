package dto

import "time"

// WhatsAppContactRequest payload. Both fields are optional.
type WhatsAppContactRequest struct {
	Phone   string `json:"phone"`
	Message string `json:"message"`
}

// WhatsAppContactResponse represents a logged contact.
type WhatsAppContactResponse struct {
	ID        int64     `json:"id"`
	TicketID  string    `json:"ticket_id"`
	Phone     string    `json:"phone"`
	Message   string    `json:"message"`
	SentBy    string    `json:"sent_by"`
	ContactAt time.Time `json:"contact_at"`
	Link      string    `json:"link,omitempty"`
}
