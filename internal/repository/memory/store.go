// Package memory provides process-local repositories used when no database
// is configured and by tests.
package memory

import (
	"sync"

	"github.com/jackc/pgx/v5/pgconn"

	"github.com/soporteit/support-desk/internal/domain"
	"github.com/soporteit/support-desk/internal/repository"
)

// Store holds every table behind a single lock so cascades stay consistent.
type Store struct {
	mu       sync.RWMutex
	seq      int64
	tickets  map[string]*domain.Ticket
	notes    map[int64]*domain.Note
	hours    map[int64]*domain.WorkHourEntry
	services map[int64]*domain.ServiceCategory
	users    map[int64]*domain.User
	contacts map[int64]*domain.WhatsAppContact
}

// NewStore returns an empty store.
func NewStore() *Store {
	return &Store{
		tickets:  map[string]*domain.Ticket{},
		notes:    map[int64]*domain.Note{},
		hours:    map[int64]*domain.WorkHourEntry{},
		services: map[int64]*domain.ServiceCategory{},
		users:    map[int64]*domain.User{},
		contacts: map[int64]*domain.WhatsAppContact{},
	}
}

func (s *Store) nextID() int64 {
	s.seq++
	return s.seq
}

func uniqueViolation(constraint string) error {
	return &pgconn.PgError{Code: "23505", ConstraintName: constraint, Message: "duplicate key value violates unique constraint"}
}

func foreignKeyViolation(constraint string) error {
	return &pgconn.PgError{Code: "23503", ConstraintName: constraint, Message: "insert or update violates foreign key constraint"}
}

func ptr[T any](v T) *T {
	return &v
}

// NewSet builds in-memory repositories over a fresh store.
func NewSet() repository.Set {
	return NewSetFrom(NewStore())
}

// NewSetFrom builds in-memory repositories over an existing store.
func NewSetFrom(store *Store) repository.Set {
	return repository.Set{
		Tickets:   NewTicketRepository(store),
		Notes:     NewNoteRepository(store),
		WorkHours: NewWorkHoursRepository(store),
		Catalog:   NewCatalogRepository(store),
		Users:     NewUserRepository(store),
		Contacts:  NewWhatsAppContactRepository(store),
	}
}
