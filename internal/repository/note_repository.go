package repository

import (
	"context"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"

	"github.com/soporteit/support-desk/internal/domain"
)

const noteColumns = `id, ticket_id, nota, autor, fecha_creacion, archivado, archivado_por, fecha_archivado`

// NoteRepository manages ticket notes.
type NoteRepository interface {
	Create(ctx context.Context, note *domain.Note) error
	GetByID(ctx context.Context, id int64) (*domain.Note, error)
	ListByTicket(ctx context.Context, ticketCode string, includeArchived bool) ([]domain.Note, error)
	Archive(ctx context.Context, id int64, actor string) error
	Restore(ctx context.Context, id int64) error
	Delete(ctx context.Context, id int64) error
}

type noteRepository struct {
	pool     *pgxpool.Pool
	archiver archiver
}

// NewNoteRepository builds repository.
func NewNoteRepository(pool *pgxpool.Pool) NoteRepository {
	return &noteRepository{pool: pool, archiver: archiver{table: "notas", keyCol: "id"}}
}

func (r *noteRepository) Create(ctx context.Context, note *domain.Note) error {
	const query = `
        INSERT INTO notas (ticket_id, nota, autor)
        VALUES ($1,$2,$3)
        RETURNING id, fecha_creacion`
	return r.pool.QueryRow(ctx, query,
		note.TicketCode,
		note.Body,
		note.Author,
	).Scan(&note.ID, &note.CreatedAt)
}

func (r *noteRepository) GetByID(ctx context.Context, id int64) (*domain.Note, error) {
	query := `SELECT ` + noteColumns + ` FROM notas WHERE id=$1`
	return scanNote(r.pool.QueryRow(ctx, query, id))
}

func (r *noteRepository) ListByTicket(ctx context.Context, ticketCode string, includeArchived bool) ([]domain.Note, error) {
	query := `SELECT ` + noteColumns + ` FROM notas WHERE ticket_id=$1 AND (archivado=FALSE OR $2) ORDER BY fecha_creacion ASC`
	rows, err := r.pool.Query(ctx, query, ticketCode, includeArchived)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	result := []domain.Note{}
	for rows.Next() {
		note, err := scanNote(rows)
		if err != nil {
			return nil, err
		}
		result = append(result, *note)
	}
	return result, rows.Err()
}

func (r *noteRepository) Archive(ctx context.Context, id int64, actor string) error {
	return r.archiver.archive(ctx, r.pool, id, actor)
}

func (r *noteRepository) Restore(ctx context.Context, id int64) error {
	return r.archiver.restore(ctx, r.pool, id)
}

func (r *noteRepository) Delete(ctx context.Context, id int64) error {
	return execOne(ctx, r.pool, `DELETE FROM notas WHERE id=$1`, id)
}

func scanNote(row pgx.Row) (*domain.Note, error) {
	var note domain.Note
	if err := row.Scan(
		&note.ID,
		&note.TicketCode,
		&note.Body,
		&note.Author,
		&note.CreatedAt,
		&note.Archived,
		&note.ArchivedBy,
		&note.ArchivedAt,
	); err != nil {
		return nil, err
	}
	return &note, nil
}
