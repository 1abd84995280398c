package memory

import (
	"context"
	"sort"
	"time"

	"github.com/soporteit/support-desk/internal/domain"
	"github.com/soporteit/support-desk/internal/repository"
)

type whatsAppContactRepository struct {
	store *Store
}

// NewWhatsAppContactRepository returns a WhatsAppContactRepository over the store.
func NewWhatsAppContactRepository(store *Store) repository.WhatsAppContactRepository {
	return &whatsAppContactRepository{store: store}
}

func (r *whatsAppContactRepository) Create(_ context.Context, contact *domain.WhatsAppContact) error {
	r.store.mu.Lock()
	defer r.store.mu.Unlock()
	if _, ok := r.store.tickets[contact.TicketCode]; !ok {
		return foreignKeyViolation("whatsapp_contactos_ticket_id_fkey")
	}
	contact.ID = r.store.nextID()
	contact.ContactAt = time.Now()
	stored := *contact
	r.store.contacts[contact.ID] = &stored
	return nil
}

func (r *whatsAppContactRepository) ListByTicket(_ context.Context, ticketCode string) ([]domain.WhatsAppContact, error) {
	r.store.mu.RLock()
	defer r.store.mu.RUnlock()
	result := []domain.WhatsAppContact{}
	for _, c := range r.store.contacts {
		if c.TicketCode == ticketCode {
			result = append(result, *c)
		}
	}
	sort.Slice(result, func(i, j int) bool { return result[i].ID > result[j].ID })
	return result, nil
}
