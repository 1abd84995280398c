package memory

import (
	"context"
	"sort"
	"time"

	"github.com/jackc/pgx/v5"

	"github.com/soporteit/support-desk/internal/domain"
	"github.com/soporteit/support-desk/internal/repository"
)

type ticketRepository struct {
	store *Store
}

// NewTicketRepository returns a TicketRepository over the store.
func NewTicketRepository(store *Store) repository.TicketRepository {
	return &ticketRepository{store: store}
}

func (r *ticketRepository) Create(_ context.Context, ticket *domain.Ticket) error {
	r.store.mu.Lock()
	defer r.store.mu.Unlock()
	if _, exists := r.store.tickets[ticket.Code]; exists {
		return uniqueViolation("tickets_ticket_id_key")
	}
	now := time.Now()
	ticket.ID = r.store.nextID()
	ticket.CreatedAt = now
	ticket.UpdatedAt = now
	stored := *ticket
	r.store.tickets[ticket.Code] = &stored
	return nil
}

func (r *ticketRepository) Update(_ context.Context, ticket *domain.Ticket) error {
	r.store.mu.Lock()
	defer r.store.mu.Unlock()
	stored, ok := r.activeLocked(ticket.Code)
	if !ok {
		return pgx.ErrNoRows
	}
	stored.Name = ticket.Name
	stored.Email = ticket.Email
	stored.Phone = ticket.Phone
	stored.Service = ticket.Service
	stored.Priority = ticket.Priority
	stored.Description = ticket.Description
	stored.Status = ticket.Status
	stored.Technician = ticket.Technician
	stored.UpdatedAt = time.Now()
	ticket.UpdatedAt = stored.UpdatedAt
	return nil
}

func (r *ticketRepository) UpdateStatus(_ context.Context, code string, status domain.TicketStatus) error {
	r.store.mu.Lock()
	defer r.store.mu.Unlock()
	stored, ok := r.activeLocked(code)
	if !ok {
		return pgx.ErrNoRows
	}
	stored.Status = status
	stored.UpdatedAt = time.Now()
	return nil
}

func (r *ticketRepository) AssignTechnician(_ context.Context, code, technician string) error {
	r.store.mu.Lock()
	defer r.store.mu.Unlock()
	stored, ok := r.activeLocked(code)
	if !ok {
		return pgx.ErrNoRows
	}
	stored.Technician = ptr(technician)
	stored.UpdatedAt = time.Now()
	return nil
}

func (r *ticketRepository) GetByCode(_ context.Context, code string) (*domain.Ticket, error) {
	r.store.mu.RLock()
	defer r.store.mu.RUnlock()
	stored, ok := r.store.tickets[code]
	if !ok {
		return nil, pgx.ErrNoRows
	}
	cp := *stored
	return &cp, nil
}

func (r *ticketRepository) List(_ context.Context, filter repository.TicketFilter) ([]domain.Ticket, error) {
	r.store.mu.RLock()
	defer r.store.mu.RUnlock()
	result := []domain.Ticket{}
	for _, t := range r.store.tickets {
		if t.Archived != filter.Archived {
			continue
		}
		if filter.Status != nil && t.Status != *filter.Status {
			continue
		}
		result = append(result, *t)
	}
	sort.Slice(result, func(i, j int) bool { return result[i].ID > result[j].ID })
	return result, nil
}

func (r *ticketRepository) Archive(_ context.Context, code, actor string) error {
	r.store.mu.Lock()
	defer r.store.mu.Unlock()
	stored, ok := r.activeLocked(code)
	if !ok {
		return pgx.ErrNoRows
	}
	now := time.Now()
	stored.MarkArchived(actor, now)
	stored.UpdatedAt = now
	return nil
}

func (r *ticketRepository) Restore(_ context.Context, code string) error {
	r.store.mu.Lock()
	defer r.store.mu.Unlock()
	stored, ok := r.store.tickets[code]
	if !ok || !stored.IsArchived() {
		return pgx.ErrNoRows
	}
	stored.Clear()
	stored.UpdatedAt = time.Now()
	return nil
}

func (r *ticketRepository) DeleteCascade(_ context.Context, code string) error {
	r.store.mu.Lock()
	defer r.store.mu.Unlock()
	if _, ok := r.store.tickets[code]; !ok {
		return pgx.ErrNoRows
	}
	for id, n := range r.store.notes {
		if n.TicketCode == code {
			delete(r.store.notes, id)
		}
	}
	for id, c := range r.store.contacts {
		if c.TicketCode == code {
			delete(r.store.contacts, id)
		}
	}
	for id, h := range r.store.hours {
		if h.TicketCode == code {
			delete(r.store.hours, id)
		}
	}
	delete(r.store.tickets, code)
	return nil
}

func (r *ticketRepository) activeLocked(code string) (*domain.Ticket, bool) {
	stored, ok := r.store.tickets[code]
	if !ok || stored.IsArchived() {
		return nil, false
	}
	return stored, true
}
