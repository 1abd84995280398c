package repository

import (
	"context"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"

	"github.com/soporteit/support-desk/internal/domain"
)

// WorkHoursRepository persists technician time entries.
type WorkHoursRepository interface {
	Create(ctx context.Context, entry *domain.WorkHourEntry) error
	Update(ctx context.Context, entry *domain.WorkHourEntry) error
	Delete(ctx context.Context, id int64) error
	GetByID(ctx context.Context, id int64) (*domain.WorkHourEntry, error)
	ListByTicket(ctx context.Context, ticketCode string) ([]domain.WorkHourEntry, error)
	TotalForTicket(ctx context.Context, ticketCode string) (float64, error)
	TotalsByTechnician(ctx context.Context, ticketCode *string) ([]domain.TechnicianHours, error)
}

type workHoursRepository struct {
	pool *pgxpool.Pool
}

// NewWorkHoursRepository builds repository.
func NewWorkHoursRepository(pool *pgxpool.Pool) WorkHoursRepository {
	return &workHoursRepository{pool: pool}
}

func (r *workHoursRepository) Create(ctx context.Context, entry *domain.WorkHourEntry) error {
	const query = `
        INSERT INTO horas_trabajo (ticket_id, tecnico_id, tecnico_nombre, horas, descripcion, registrado_por)
        VALUES ($1,$2,$3,$4,$5,$6)
        RETURNING id, fecha_registro, fecha_actualizacion`
	return r.pool.QueryRow(ctx, query,
		entry.TicketCode,
		entry.TechnicianID,
		entry.TechnicianName,
		entry.Hours,
		entry.Description,
		entry.RecordedBy,
	).Scan(&entry.ID, &entry.RecordedAt, &entry.UpdatedAt)
}

func (r *workHoursRepository) Update(ctx context.Context, entry *domain.WorkHourEntry) error {
	const query = `
        UPDATE horas_trabajo SET tecnico_id=$1, tecnico_nombre=$2, horas=$3, descripcion=$4, fecha_actualizacion=NOW()
        WHERE id=$5
        RETURNING fecha_actualizacion`
	return r.pool.QueryRow(ctx, query,
		entry.TechnicianID,
		entry.TechnicianName,
		entry.Hours,
		entry.Description,
		entry.ID,
	).Scan(&entry.UpdatedAt)
}

func (r *workHoursRepository) Delete(ctx context.Context, id int64) error {
	return execOne(ctx, r.pool, `DELETE FROM horas_trabajo WHERE id=$1`, id)
}

func (r *workHoursRepository) GetByID(ctx context.Context, id int64) (*domain.WorkHourEntry, error) {
	const query = `
        SELECT id, ticket_id, tecnico_id, tecnico_nombre, horas::float8, descripcion, registrado_por, fecha_registro, fecha_actualizacion
        FROM horas_trabajo WHERE id=$1`
	return scanWorkHours(r.pool.QueryRow(ctx, query, id))
}

func (r *workHoursRepository) ListByTicket(ctx context.Context, ticketCode string) ([]domain.WorkHourEntry, error) {
	const query = `
        SELECT id, ticket_id, tecnico_id, tecnico_nombre, horas::float8, descripcion, registrado_por, fecha_registro, fecha_actualizacion
        FROM horas_trabajo WHERE ticket_id=$1 ORDER BY fecha_registro DESC`
	rows, err := r.pool.Query(ctx, query, ticketCode)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	result := []domain.WorkHourEntry{}
	for rows.Next() {
		entry, err := scanWorkHours(rows)
		if err != nil {
			return nil, err
		}
		result = append(result, *entry)
	}
	return result, rows.Err()
}

func (r *workHoursRepository) TotalForTicket(ctx context.Context, ticketCode string) (float64, error) {
	const query = `SELECT COALESCE(SUM(horas), 0)::float8 FROM horas_trabajo WHERE ticket_id=$1`
	var total float64
	if err := r.pool.QueryRow(ctx, query, ticketCode).Scan(&total); err != nil {
		return 0, err
	}
	return total, nil
}

func (r *workHoursRepository) TotalsByTechnician(ctx context.Context, ticketCode *string) ([]domain.TechnicianHours, error) {
	const query = `
        SELECT tecnico_nombre, SUM(horas)::float8, COUNT(*)
        FROM horas_trabajo
        WHERE $1::text IS NULL OR ticket_id=$1
        GROUP BY tecnico_nombre
        ORDER BY tecnico_nombre ASC`
	rows, err := r.pool.Query(ctx, query, ticketCode)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	result := []domain.TechnicianHours{}
	for rows.Next() {
		var item domain.TechnicianHours
		if err := rows.Scan(&item.TechnicianName, &item.TotalHours, &item.Entries); err != nil {
			return nil, err
		}
		result = append(result, item)
	}
	return result, rows.Err()
}

func scanWorkHours(row pgx.Row) (*domain.WorkHourEntry, error) {
	var entry domain.WorkHourEntry
	if err := row.Scan(
		&entry.ID,
		&entry.TicketCode,
		&entry.TechnicianID,
		&entry.TechnicianName,
		&entry.Hours,
		&entry.Description,
		&entry.RecordedBy,
		&entry.RecordedAt,
		&entry.UpdatedAt,
	); err != nil {
		return nil, err
	}
	return &entry, nil
}
