package repository

import (
	"context"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"

	"github.com/soporteit/support-desk/internal/domain"
)

// CatalogRepository persists service categories.
type CatalogRepository interface {
	Create(ctx context.Context, svc *domain.ServiceCategory) error
	Update(ctx context.Context, svc *domain.ServiceCategory) error
	Delete(ctx context.Context, id int64) error
	GetByID(ctx context.Context, id int64) (*domain.ServiceCategory, error)
	GetByCode(ctx context.Context, code string) (*domain.ServiceCategory, error)
	List(ctx context.Context, activeOnly bool) ([]domain.ServiceCategory, error)
	Count(ctx context.Context) (int, error)
}

type catalogRepository struct {
	pool *pgxpool.Pool
}

// NewCatalogRepository builds repository.
func NewCatalogRepository(pool *pgxpool.Pool) CatalogRepository {
	return &catalogRepository{pool: pool}
}

func (r *catalogRepository) Create(ctx context.Context, svc *domain.ServiceCategory) error {
	const query = `
        INSERT INTO servicios (codigo, nombre, descripcion, activo)
        VALUES ($1,$2,$3,$4)
        RETURNING id`
	return r.pool.QueryRow(ctx, query, svc.Code, svc.Name, svc.Description, svc.Active).Scan(&svc.ID)
}

func (r *catalogRepository) Update(ctx context.Context, svc *domain.ServiceCategory) error {
	const query = `UPDATE servicios SET codigo=$1, nombre=$2, descripcion=$3, activo=$4 WHERE id=$5`
	return execOne(ctx, r.pool, query, svc.Code, svc.Name, svc.Description, svc.Active, svc.ID)
}

func (r *catalogRepository) Delete(ctx context.Context, id int64) error {
	return execOne(ctx, r.pool, `DELETE FROM servicios WHERE id=$1`, id)
}

func (r *catalogRepository) GetByID(ctx context.Context, id int64) (*domain.ServiceCategory, error) {
	const query = `SELECT id, codigo, nombre, descripcion, activo FROM servicios WHERE id=$1`
	return scanService(r.pool.QueryRow(ctx, query, id))
}

func (r *catalogRepository) GetByCode(ctx context.Context, code string) (*domain.ServiceCategory, error) {
	const query = `SELECT id, codigo, nombre, descripcion, activo FROM servicios WHERE codigo=$1`
	return scanService(r.pool.QueryRow(ctx, query, code))
}

func (r *catalogRepository) List(ctx context.Context, activeOnly bool) ([]domain.ServiceCategory, error) {
	const query = `
        SELECT id, codigo, nombre, descripcion, activo FROM servicios
        WHERE activo=TRUE OR NOT $1
        ORDER BY nombre ASC`
	rows, err := r.pool.Query(ctx, query, activeOnly)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	result := []domain.ServiceCategory{}
	for rows.Next() {
		svc, err := scanService(rows)
		if err != nil {
			return nil, err
		}
		result = append(result, *svc)
	}
	return result, rows.Err()
}

func (r *catalogRepository) Count(ctx context.Context) (int, error) {
	var n int
	if err := r.pool.QueryRow(ctx, `SELECT COUNT(*) FROM servicios`).Scan(&n); err != nil {
		return 0, err
	}
	return n, nil
}

func scanService(row pgx.Row) (*domain.ServiceCategory, error) {
	var svc domain.ServiceCategory
	if err := row.Scan(&svc.ID, &svc.Code, &svc.Name, &svc.Description, &svc.Active); err != nil {
		return nil, err
	}
	return &svc, nil
}
