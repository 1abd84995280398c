package repository

import (
	"context"

	"github.com/jackc/pgx/v5/pgxpool"

	"github.com/soporteit/support-desk/internal/domain"
)

// WhatsAppContactRepository stores the append-only contact log.
type WhatsAppContactRepository interface {
	Create(ctx context.Context, contact *domain.WhatsAppContact) error
	ListByTicket(ctx context.Context, ticketCode string) ([]domain.WhatsAppContact, error)
}

type whatsAppContactRepository struct {
	pool *pgxpool.Pool
}

// NewWhatsAppContactRepository builds repository.
func NewWhatsAppContactRepository(pool *pgxpool.Pool) WhatsAppContactRepository {
	return &whatsAppContactRepository{pool: pool}
}

func (r *whatsAppContactRepository) Create(ctx context.Context, contact *domain.WhatsAppContact) error {
	const query = `
        INSERT INTO whatsapp_contactos (ticket_id, telefono, mensaje, enviado_por)
        VALUES ($1,$2,$3,$4)
        RETURNING id, fecha_contacto`
	return r.pool.QueryRow(ctx, query,
		contact.TicketCode,
		contact.Phone,
		contact.Message,
		contact.SentBy,
	).Scan(&contact.ID, &contact.ContactAt)
}

func (r *whatsAppContactRepository) ListByTicket(ctx context.Context, ticketCode string) ([]domain.WhatsAppContact, error) {
	const query = `
        SELECT id, ticket_id, telefono, mensaje, enviado_por, fecha_contacto
        FROM whatsapp_contactos WHERE ticket_id=$1 ORDER BY fecha_contacto DESC`
	rows, err := r.pool.Query(ctx, query, ticketCode)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	result := []domain.WhatsAppContact{}
	for rows.Next() {
		var c domain.WhatsAppContact
		if err := rows.Scan(&c.ID, &c.TicketCode, &c.Phone, &c.Message, &c.SentBy, &c.ContactAt); err != nil {
			return nil, err
		}
		result = append(result, c)
	}
	return result, rows.Err()
}
