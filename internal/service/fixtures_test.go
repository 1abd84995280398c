package service

import (
	"context"
	"sync"
	"testing"

	"github.com/stretchr/testify/require"
	"golang.org/x/crypto/bcrypt"

	"github.com/soporteit/support-desk/internal/domain"
	"github.com/soporteit/support-desk/internal/events"
	"github.com/soporteit/support-desk/internal/repository"
	"github.com/soporteit/support-desk/internal/repository/memory"
	"github.com/soporteit/support-desk/internal/whatsapp"
)

const testBcryptCost = bcrypt.MinCost

// syncDispatcher records events and runs handlers inline.
type syncDispatcher struct {
	mu        sync.Mutex
	published []events.Event
	handlers  map[events.EventType][]events.EventHandler
}

func newSyncDispatcher() *syncDispatcher {
	return &syncDispatcher{handlers: map[events.EventType][]events.EventHandler{}}
}

func (d *syncDispatcher) Publish(ctx context.Context, event events.Event) error {
	d.mu.Lock()
	d.published = append(d.published, event)
	handlers := append([]events.EventHandler{}, d.handlers[event.Type]...)
	d.mu.Unlock()
	for _, h := range handlers {
		_ = h(ctx, event)
	}
	return nil
}

func (d *syncDispatcher) Subscribe(eventType events.EventType, handler events.EventHandler) {
	d.mu.Lock()
	defer d.mu.Unlock()
	d.handlers[eventType] = append(d.handlers[eventType], handler)
}

func (d *syncDispatcher) Close() {}

func (d *syncDispatcher) types() []events.EventType {
	d.mu.Lock()
	defer d.mu.Unlock()
	out := make([]events.EventType, 0, len(d.published))
	for _, e := range d.published {
		out = append(out, e.Type)
	}
	return out
}

type fixture struct {
	repos      repository.Set
	dispatcher *syncDispatcher
	tickets    *TicketService
	notes      *NoteService
	hours      *WorkHoursService
	catalog    *CatalogService
	users      *UserService
	whatsapp   *WhatsAppService
}

func newFixture(t *testing.T) *fixture {
	t.Helper()
	repos := memory.NewSet()
	dispatcher := newSyncDispatcher()
	catalog := NewCatalogService(repos.Catalog, nil)
	_, err := catalog.SeedDefaults(context.Background())
	require.NoError(t, err)

	return &fixture{
		repos:      repos,
		dispatcher: dispatcher,
		tickets: NewTicketService(TicketDependencies{
			TicketRepo:  repos.Tickets,
			CatalogRepo: repos.Catalog,
			Dispatcher:  dispatcher,
		}),
		notes:    NewNoteService(repos.Tickets, repos.Notes),
		hours:    NewWorkHoursService(repos.Tickets, repos.WorkHours),
		catalog:  catalog,
		users:    NewUserService(repos.Users, testBcryptCost),
		whatsapp: NewWhatsAppService(repos.Tickets, repos.Contacts, whatsapp.NewLinkBuilder("ES", "624620893")),
	}
}

func intakeInput() TicketCreateInput {
	return TicketCreateInput{
		Name:        "Ana",
		Email:       "ana@x.com",
		Phone:       "600111222",
		Service:     "reparacion",
		Description: "no enciende",
	}
}

func (f *fixture) createTicket(t *testing.T) *domain.Ticket {
	t.Helper()
	ticket, err := f.tickets.CreateTicket(context.Background(), intakeInput())
	require.NoError(t, err)
	return ticket
}
