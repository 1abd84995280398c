package repository

import (
	"context"
	"fmt"
	"strings"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"

	"github.com/soporteit/support-desk/internal/domain"
)

const ticketTable = "tickets"

const ticketColumns = `id, ticket_id, nombre, email, telefono, servicio, prioridad, descripcion, estado,
               tecnico_asignado, fecha_creacion, fecha_actualizacion, archivado, archivado_por, fecha_archivado`

// TicketFilter narrows ticket listings.
type TicketFilter struct {
	Archived bool
	Status   *domain.TicketStatus
}

// TicketRepository encapsulates ticket persistence.
type TicketRepository interface {
	Create(ctx context.Context, ticket *domain.Ticket) error
	Update(ctx context.Context, ticket *domain.Ticket) error
	UpdateStatus(ctx context.Context, code string, status domain.TicketStatus) error
	AssignTechnician(ctx context.Context, code, technician string) error
	GetByCode(ctx context.Context, code string) (*domain.Ticket, error)
	List(ctx context.Context, filter TicketFilter) ([]domain.Ticket, error)
	Archive(ctx context.Context, code, actor string) error
	Restore(ctx context.Context, code string) error
	DeleteCascade(ctx context.Context, code string) error
}

type ticketRepository struct {
	pool     *pgxpool.Pool
	archiver archiver
}

// NewTicketRepository instantiates repository.
func NewTicketRepository(pool *pgxpool.Pool) TicketRepository {
	return &ticketRepository{pool: pool, archiver: archiver{table: ticketTable, keyCol: "ticket_id"}}
}

func (r *ticketRepository) Create(ctx context.Context, ticket *domain.Ticket) error {
	const query = `
        INSERT INTO tickets (ticket_id, nombre, email, telefono, servicio, prioridad, descripcion, estado, tecnico_asignado)
        VALUES ($1,$2,$3,$4,$5,$6,$7,$8,$9)
        RETURNING id, fecha_creacion, fecha_actualizacion`
	return r.pool.QueryRow(ctx, query,
		ticket.Code,
		ticket.Name,
		ticket.Email,
		ticket.Phone,
		ticket.Service,
		ticket.Priority,
		ticket.Description,
		ticket.Status,
		ticket.Technician,
	).Scan(&ticket.ID, &ticket.CreatedAt, &ticket.UpdatedAt)
}

func (r *ticketRepository) Update(ctx context.Context, ticket *domain.Ticket) error {
	const query = `
        UPDATE tickets SET nombre=$1, email=$2, telefono=$3, servicio=$4, prioridad=$5, descripcion=$6,
            estado=$7, tecnico_asignado=$8, fecha_actualizacion=NOW()
        WHERE ticket_id=$9 AND archivado=FALSE
        RETURNING fecha_actualizacion`
	err := r.pool.QueryRow(ctx, query,
		ticket.Name,
		ticket.Email,
		ticket.Phone,
		ticket.Service,
		ticket.Priority,
		ticket.Description,
		ticket.Status,
		ticket.Technician,
		ticket.Code,
	).Scan(&ticket.UpdatedAt)
	return err
}

func (r *ticketRepository) UpdateStatus(ctx context.Context, code string, status domain.TicketStatus) error {
	const query = `
        UPDATE tickets SET estado=$1, fecha_actualizacion=NOW()
        WHERE ticket_id=$2 AND archivado=FALSE`
	return execOne(ctx, r.pool, query, status, code)
}

func (r *ticketRepository) AssignTechnician(ctx context.Context, code, technician string) error {
	const query = `
        UPDATE tickets SET tecnico_asignado=$1, fecha_actualizacion=NOW()
        WHERE ticket_id=$2 AND archivado=FALSE`
	return execOne(ctx, r.pool, query, technician, code)
}

func (r *ticketRepository) GetByCode(ctx context.Context, code string) (*domain.Ticket, error) {
	query := `SELECT ` + ticketColumns + ` FROM tickets WHERE ticket_id=$1`
	ticket, err := scanTicket(r.pool.QueryRow(ctx, query, code))
	if err != nil {
		return nil, err
	}
	return ticket, nil
}

func (r *ticketRepository) List(ctx context.Context, filter TicketFilter) ([]domain.Ticket, error) {
	clauses := []string{"archivado=$1"}
	args := []any{filter.Archived}
	if filter.Status != nil {
		args = append(args, *filter.Status)
		clauses = append(clauses, fmt.Sprintf("estado=$%d", len(args)))
	}

	order := "fecha_creacion DESC"
	if filter.Archived {
		order = "fecha_archivado DESC"
	}
	query := fmt.Sprintf(`SELECT %s FROM tickets WHERE %s ORDER BY %s`,
		ticketColumns, strings.Join(clauses, " AND "), order)

	rows, err := r.pool.Query(ctx, query, args...)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	result := []domain.Ticket{}
	for rows.Next() {
		ticket, err := scanTicket(rows)
		if err != nil {
			return nil, err
		}
		result = append(result, *ticket)
	}
	return result, rows.Err()
}

func (r *ticketRepository) Archive(ctx context.Context, code, actor string) error {
	return r.archiver.archive(ctx, r.pool, code, actor)
}

func (r *ticketRepository) Restore(ctx context.Context, code string) error {
	return r.archiver.restore(ctx, r.pool, code)
}

// DeleteCascade removes the ticket and its children in a single transaction.
func (r *ticketRepository) DeleteCascade(ctx context.Context, code string) error {
	tx, err := r.pool.Begin(ctx)
	if err != nil {
		return err
	}
	defer tx.Rollback(ctx) //nolint:errcheck

	children := []string{
		`DELETE FROM notas WHERE ticket_id=$1`,
		`DELETE FROM whatsapp_contactos WHERE ticket_id=$1`,
		`DELETE FROM horas_trabajo WHERE ticket_id=$1`,
	}
	for _, stmt := range children {
		if _, err := tx.Exec(ctx, stmt, code); err != nil {
			return err
		}
	}
	if err := execOne(ctx, tx, `DELETE FROM tickets WHERE ticket_id=$1`, code); err != nil {
		return err
	}
	return tx.Commit(ctx)
}

func scanTicket(row pgx.Row) (*domain.Ticket, error) {
	var ticket domain.Ticket
	if err := row.Scan(
		&ticket.ID,
		&ticket.Code,
		&ticket.Name,
		&ticket.Email,
		&ticket.Phone,
		&ticket.Service,
		&ticket.Priority,
		&ticket.Description,
		&ticket.Status,
		&ticket.Technician,
		&ticket.CreatedAt,
		&ticket.UpdatedAt,
		&ticket.Archived,
		&ticket.ArchivedBy,
		&ticket.ArchivedAt,
	); err != nil {
		return nil, err
	}
	return &ticket, nil
}
