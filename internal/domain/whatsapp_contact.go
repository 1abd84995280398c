package domain

import "time"

// WhatsAppContact is an append-only record of a client contact.
type WhatsAppContact struct {
	ID         int64
	TicketCode string
	Phone      string
	Message    string
	SentBy     string
	ContactAt  time.Time
}
