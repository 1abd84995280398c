package domain

import "time"

// Note is an internal annotation attached to a ticket.
type Note struct {
	ID         int64
	TicketCode string
	Body       string
	Author     string
	CreatedAt  time.Time
	ArchiveInfo
}
