package domain

import (
	"strings"
	"time"
)

// TicketStatus enumerates lifecycle states for tickets.
type TicketStatus string

const (
	TicketStatusPending    TicketStatus = "pendiente"
	TicketStatusInProgress TicketStatus = "en_proceso"
	TicketStatusResolved   TicketStatus = "resuelto"
	TicketStatusClosed     TicketStatus = "cerrado"
)

// TicketStatuses lists every accepted status in lifecycle order.
var TicketStatuses = []TicketStatus{
	TicketStatusPending,
	TicketStatusInProgress,
	TicketStatusResolved,
	TicketStatusClosed,
}

var statusAliases = map[string]TicketStatus{
	"pendiente":   TicketStatusPending,
	"pending":     TicketStatusPending,
	"en_proceso":  TicketStatusInProgress,
	"in_progress": TicketStatusInProgress,
	"resuelto":    TicketStatusResolved,
	"resolved":    TicketStatusResolved,
	"cerrado":     TicketStatusClosed,
	"closed":      TicketStatusClosed,
}

// ParseTicketStatus normalises a status value, accepting English aliases.
func ParseTicketStatus(raw string) (TicketStatus, bool) {
	status, ok := statusAliases[strings.ToLower(strings.TrimSpace(raw))]
	return status, ok
}

// TicketPriority enumerates urgency levels.
type TicketPriority string

const (
	TicketPriorityLow    TicketPriority = "baja"
	TicketPriorityMedium TicketPriority = "media"
	TicketPriorityHigh   TicketPriority = "alta"
	TicketPriorityUrgent TicketPriority = "urgente"
)

var priorityAliases = map[string]TicketPriority{
	"baja":    TicketPriorityLow,
	"low":     TicketPriorityLow,
	"media":   TicketPriorityMedium,
	"medium":  TicketPriorityMedium,
	"alta":    TicketPriorityHigh,
	"high":    TicketPriorityHigh,
	"urgente": TicketPriorityUrgent,
	"urgent":  TicketPriorityUrgent,
}

// ParseTicketPriority normalises a priority value. Empty input yields the default.
func ParseTicketPriority(raw string) (TicketPriority, bool) {
	raw = strings.ToLower(strings.TrimSpace(raw))
	if raw == "" {
		return TicketPriorityMedium, true
	}
	priority, ok := priorityAliases[raw]
	return priority, ok
}

// Ticket is the aggregate for support requests.
type Ticket struct {
	ID          int64
	Code        string
	Name        string
	Email       string
	Phone       string
	Service     string
	Priority    TicketPriority
	Description string
	Status      TicketStatus
	Technician  *string
	CreatedAt   time.Time
	UpdatedAt   time.Time
	ArchiveInfo
}
