package memory

import (
	"context"
	"sort"

	"github.com/jackc/pgx/v5"

	"github.com/soporteit/support-desk/internal/domain"
	"github.com/soporteit/support-desk/internal/repository"
)

type catalogRepository struct {
	store *Store
}

// NewCatalogRepository returns a CatalogRepository over the store.
func NewCatalogRepository(store *Store) repository.CatalogRepository {
	return &catalogRepository{store: store}
}

func (r *catalogRepository) Create(_ context.Context, svc *domain.ServiceCategory) error {
	r.store.mu.Lock()
	defer r.store.mu.Unlock()
	if r.codeTakenLocked(svc.Code, 0) {
		return uniqueViolation("servicios_codigo_key")
	}
	svc.ID = r.store.nextID()
	stored := *svc
	r.store.services[svc.ID] = &stored
	return nil
}

func (r *catalogRepository) Update(_ context.Context, svc *domain.ServiceCategory) error {
	r.store.mu.Lock()
	defer r.store.mu.Unlock()
	if _, ok := r.store.services[svc.ID]; !ok {
		return pgx.ErrNoRows
	}
	if r.codeTakenLocked(svc.Code, svc.ID) {
		return uniqueViolation("servicios_codigo_key")
	}
	stored := *svc
	r.store.services[svc.ID] = &stored
	return nil
}

func (r *catalogRepository) Delete(_ context.Context, id int64) error {
	r.store.mu.Lock()
	defer r.store.mu.Unlock()
	if _, ok := r.store.services[id]; !ok {
		return pgx.ErrNoRows
	}
	delete(r.store.services, id)
	return nil
}

func (r *catalogRepository) GetByID(_ context.Context, id int64) (*domain.ServiceCategory, error) {
	r.store.mu.RLock()
	defer r.store.mu.RUnlock()
	stored, ok := r.store.services[id]
	if !ok {
		return nil, pgx.ErrNoRows
	}
	cp := *stored
	return &cp, nil
}

func (r *catalogRepository) GetByCode(_ context.Context, code string) (*domain.ServiceCategory, error) {
	r.store.mu.RLock()
	defer r.store.mu.RUnlock()
	for _, svc := range r.store.services {
		if svc.Code == code {
			cp := *svc
			return &cp, nil
		}
	}
	return nil, pgx.ErrNoRows
}

func (r *catalogRepository) List(_ context.Context, activeOnly bool) ([]domain.ServiceCategory, error) {
	r.store.mu.RLock()
	defer r.store.mu.RUnlock()
	result := []domain.ServiceCategory{}
	for _, svc := range r.store.services {
		if activeOnly && !svc.Active {
			continue
		}
		result = append(result, *svc)
	}
	sort.Slice(result, func(i, j int) bool { return result[i].Name < result[j].Name })
	return result, nil
}

func (r *catalogRepository) Count(_ context.Context) (int, error) {
	r.store.mu.RLock()
	defer r.store.mu.RUnlock()
	return len(r.store.services), nil
}

func (r *catalogRepository) codeTakenLocked(code string, exceptID int64) bool {
	for id, svc := range r.store.services {
		if svc.Code == code && id != exceptID {
			return true
		}
	}
	return false
}
