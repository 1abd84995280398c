package domain

import "time"

// WorkHourEntry records time a technician spent on a ticket.
type WorkHourEntry struct {
	ID             int64
	TicketCode     string
	TechnicianID   *int64
	TechnicianName string
	Hours          float64
	Description    string
	RecordedBy     string
	RecordedAt     time.Time
	UpdatedAt      time.Time
}

// TechnicianHours aggregates logged hours per technician.
type TechnicianHours struct {
	TechnicianName string
	TotalHours     float64
	Entries        int
}
