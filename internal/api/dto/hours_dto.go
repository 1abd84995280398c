package dto

import "time"

// WorkHoursRequest payload for creating or replacing an entry.
type WorkHoursRequest struct {
	TechnicianID   *int64  `json:"technician_id"`
	TechnicianName string  `json:"technician_name"`
	Hours          float64 `json:"hours"`
	Description    string  `json:"description"`
}

// WorkHoursResponse represents a time entry.
type WorkHoursResponse struct {
	ID             int64     `json:"id"`
	TicketID       string    `json:"ticket_id"`
	TechnicianID   *int64    `json:"technician_id"`
	TechnicianName string    `json:"technician_name"`
	Hours          float64   `json:"hours"`
	Description    string    `json:"description"`
	RecordedBy     string    `json:"recorded_by"`
	RecordedAt     time.Time `json:"recorded_at"`
	UpdatedAt      time.Time `json:"updated_at"`
}

// TotalHoursResponse reports the hours logged on a ticket.
type TotalHoursResponse struct {
	TicketID   string  `json:"ticket_id"`
	TotalHours float64 `json:"total_hours"`
}

// TechnicianHoursResponse aggregates hours per technician.
type TechnicianHoursResponse struct {
	TechnicianName string  `json:"technician_name"`
	TotalHours     float64 `json:"total_hours"`
	Entries        int     `json:"entries"`
}
