package dto

import "time"

// CreateNoteRequest payload. Author defaults to the caller.
type CreateNoteRequest struct {
	Note   string `json:"note"`
	Author string `json:"author"`
}

// NoteResponse represents a ticket note.
type NoteResponse struct {
	ID         int64      `json:"id"`
	TicketID   string     `json:"ticket_id"`
	Note       string     `json:"note"`
	Author     string     `json:"author"`
	CreatedAt  time.Time  `json:"created_at"`
	Archived   bool       `json:"archived"`
	ArchivedBy *string    `json:"archived_by,omitempty"`
	ArchivedAt *time.Time `json:"archived_at,omitempty"`
}
