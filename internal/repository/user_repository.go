package repository

import (
	"context"
	"time"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"

	"github.com/soporteit/support-desk/internal/domain"
)

const userColumns = `id, username, password_hash, password_scheme, nombre_completo, email, rol, activo, fecha_creacion, ultimo_acceso`

// UserRepository defines persistence access for staff accounts.
type UserRepository interface {
	Create(ctx context.Context, user *domain.User) error
	Update(ctx context.Context, user *domain.User) error
	Delete(ctx context.Context, id int64) error
	GetByID(ctx context.Context, id int64) (*domain.User, error)
	GetByUsername(ctx context.Context, username string) (*domain.User, error)
	List(ctx context.Context) ([]domain.User, error)
	ListByScheme(ctx context.Context, scheme domain.PasswordScheme) ([]domain.User, error)
	UpdateCredential(ctx context.Context, id int64, hash string, scheme domain.PasswordScheme) error
	TouchLastAccess(ctx context.Context, id int64, at time.Time) error
}

type userRepository struct {
	pool *pgxpool.Pool
}

// NewUserRepository returns a Postgres-backed implementation.
func NewUserRepository(pool *pgxpool.Pool) UserRepository {
	return &userRepository{pool: pool}
}

func (r *userRepository) Create(ctx context.Context, user *domain.User) error {
	const query = `
        INSERT INTO usuarios (username, password_hash, password_scheme, nombre_completo, email, rol, activo)
        VALUES ($1, $2, $3, $4, $5, $6, $7)
        RETURNING id, fecha_creacion`

	return r.pool.QueryRow(ctx, query,
		user.Username,
		user.PasswordHash,
		user.PasswordScheme,
		user.FullName,
		user.Email,
		user.Role,
		user.Active,
	).Scan(&user.ID, &user.CreatedAt)
}

func (r *userRepository) Update(ctx context.Context, user *domain.User) error {
	const query = `
        UPDATE usuarios SET username=$1, password_hash=$2, password_scheme=$3, nombre_completo=$4,
            email=$5, rol=$6, activo=$7
        WHERE id=$8`

	return execOne(ctx, r.pool, query,
		user.Username,
		user.PasswordHash,
		user.PasswordScheme,
		user.FullName,
		user.Email,
		user.Role,
		user.Active,
		user.ID,
	)
}

func (r *userRepository) Delete(ctx context.Context, id int64) error {
	return execOne(ctx, r.pool, `DELETE FROM usuarios WHERE id=$1`, id)
}

func (r *userRepository) GetByID(ctx context.Context, id int64) (*domain.User, error) {
	query := `SELECT ` + userColumns + ` FROM usuarios WHERE id=$1`
	return scanUser(r.pool.QueryRow(ctx, query, id))
}

func (r *userRepository) GetByUsername(ctx context.Context, username string) (*domain.User, error) {
	query := `SELECT ` + userColumns + ` FROM usuarios WHERE username=$1`
	return scanUser(r.pool.QueryRow(ctx, query, username))
}

func (r *userRepository) List(ctx context.Context) ([]domain.User, error) {
	return r.query(ctx, `SELECT `+userColumns+` FROM usuarios ORDER BY fecha_creacion ASC`)
}

func (r *userRepository) ListByScheme(ctx context.Context, scheme domain.PasswordScheme) ([]domain.User, error) {
	return r.query(ctx, `SELECT `+userColumns+` FROM usuarios WHERE password_scheme=$1 ORDER BY id ASC`, scheme)
}

func (r *userRepository) UpdateCredential(ctx context.Context, id int64, hash string, scheme domain.PasswordScheme) error {
	const query = `UPDATE usuarios SET password_hash=$1, password_scheme=$2 WHERE id=$3`
	return execOne(ctx, r.pool, query, hash, scheme, id)
}

func (r *userRepository) TouchLastAccess(ctx context.Context, id int64, at time.Time) error {
	return execOne(ctx, r.pool, `UPDATE usuarios SET ultimo_acceso=$1 WHERE id=$2`, at, id)
}

func (r *userRepository) query(ctx context.Context, query string, args ...any) ([]domain.User, error) {
	rows, err := r.pool.Query(ctx, query, args...)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	result := []domain.User{}
	for rows.Next() {
		user, err := scanUser(rows)
		if err != nil {
			return nil, err
		}
		result = append(result, *user)
	}
	return result, rows.Err()
}

func scanUser(row pgx.Row) (*domain.User, error) {
	var user domain.User
	if err := row.Scan(
		&user.ID,
		&user.Username,
		&user.PasswordHash,
		&user.PasswordScheme,
		&user.FullName,
		&user.Email,
		&user.Role,
		&user.Active,
		&user.CreatedAt,
		&user.LastAccessAt,
	); err != nil {
		return nil, err
	}
	return &user, nil
}
