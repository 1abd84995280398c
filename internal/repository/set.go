package repository

import "github.com/jackc/pgx/v5/pgxpool"

// Set bundles every repository the services depend on.
type Set struct {
	Tickets   TicketRepository
	Notes     NoteRepository
	WorkHours WorkHoursRepository
	Catalog   CatalogRepository
	Users     UserRepository
	Contacts  WhatsAppContactRepository
}

// NewPostgresSet builds pgx-backed repositories sharing one pool.
func NewPostgresSet(pool *pgxpool.Pool) Set {
	return Set{
		Tickets:   NewTicketRepository(pool),
		Notes:     NewNoteRepository(pool),
		WorkHours: NewWorkHoursRepository(pool),
		Catalog:   NewCatalogRepository(pool),
		Users:     NewUserRepository(pool),
		Contacts:  NewWhatsAppContactRepository(pool),
	}
}
