package memory

import (
	"context"
	"sort"
	"time"

	"github.com/jackc/pgx/v5"

	"github.com/soporteit/support-desk/internal/domain"
	"github.com/soporteit/support-desk/internal/repository"
)

type userRepository struct {
	store *Store
}

// NewUserRepository returns a UserRepository over the store.
func NewUserRepository(store *Store) repository.UserRepository {
	return &userRepository{store: store}
}

func (r *userRepository) Create(_ context.Context, user *domain.User) error {
	r.store.mu.Lock()
	defer r.store.mu.Unlock()
	if r.usernameTakenLocked(user.Username, 0) {
		return uniqueViolation("usuarios_username_key")
	}
	user.ID = r.store.nextID()
	user.CreatedAt = time.Now()
	stored := *user
	r.store.users[user.ID] = &stored
	return nil
}

func (r *userRepository) Update(_ context.Context, user *domain.User) error {
	r.store.mu.Lock()
	defer r.store.mu.Unlock()
	stored, ok := r.store.users[user.ID]
	if !ok {
		return pgx.ErrNoRows
	}
	if r.usernameTakenLocked(user.Username, user.ID) {
		return uniqueViolation("usuarios_username_key")
	}
	updated := *user
	updated.CreatedAt = stored.CreatedAt
	updated.LastAccessAt = stored.LastAccessAt
	r.store.users[user.ID] = &updated
	return nil
}

func (r *userRepository) Delete(_ context.Context, id int64) error {
	r.store.mu.Lock()
	defer r.store.mu.Unlock()
	if _, ok := r.store.users[id]; !ok {
		return pgx.ErrNoRows
	}
	delete(r.store.users, id)
	return nil
}

func (r *userRepository) GetByID(_ context.Context, id int64) (*domain.User, error) {
	r.store.mu.RLock()
	defer r.store.mu.RUnlock()
	stored, ok := r.store.users[id]
	if !ok {
		return nil, pgx.ErrNoRows
	}
	cp := *stored
	return &cp, nil
}

func (r *userRepository) GetByUsername(_ context.Context, username string) (*domain.User, error) {
	r.store.mu.RLock()
	defer r.store.mu.RUnlock()
	for _, u := range r.store.users {
		if u.Username == username {
			cp := *u
			return &cp, nil
		}
	}
	return nil, pgx.ErrNoRows
}

func (r *userRepository) List(_ context.Context) ([]domain.User, error) {
	return r.filter(func(domain.User) bool { return true }), nil
}

func (r *userRepository) ListByScheme(_ context.Context, scheme domain.PasswordScheme) ([]domain.User, error) {
	return r.filter(func(u domain.User) bool { return u.PasswordScheme == scheme }), nil
}

func (r *userRepository) UpdateCredential(_ context.Context, id int64, hash string, scheme domain.PasswordScheme) error {
	r.store.mu.Lock()
	defer r.store.mu.Unlock()
	stored, ok := r.store.users[id]
	if !ok {
		return pgx.ErrNoRows
	}
	stored.PasswordHash = hash
	stored.PasswordScheme = scheme
	return nil
}

func (r *userRepository) TouchLastAccess(_ context.Context, id int64, at time.Time) error {
	r.store.mu.Lock()
	defer r.store.mu.Unlock()
	stored, ok := r.store.users[id]
	if !ok {
		return pgx.ErrNoRows
	}
	stored.LastAccessAt = ptr(at)
	return nil
}

func (r *userRepository) filter(keep func(domain.User) bool) []domain.User {
	r.store.mu.RLock()
	defer r.store.mu.RUnlock()
	result := []domain.User{}
	for _, u := range r.store.users {
		if keep(*u) {
			result = append(result, *u)
		}
	}
	sort.Slice(result, func(i, j int) bool { return result[i].ID < result[j].ID })
	return result
}

func (r *userRepository) usernameTakenLocked(username string, exceptID int64) bool {
	for id, u := range r.store.users {
		if u.Username == username && id != exceptID {
			return true
		}
	}
	return false
}
