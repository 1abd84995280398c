package memory

import (
	"context"
	"sort"
	"time"

	"github.com/jackc/pgx/v5"

	"github.com/soporteit/support-desk/internal/domain"
	"github.com/soporteit/support-desk/internal/repository"
)

type workHoursRepository struct {
	store *Store
}

// NewWorkHoursRepository returns a WorkHoursRepository over the store.
func NewWorkHoursRepository(store *Store) repository.WorkHoursRepository {
	return &workHoursRepository{store: store}
}

func (r *workHoursRepository) Create(_ context.Context, entry *domain.WorkHourEntry) error {
	r.store.mu.Lock()
	defer r.store.mu.Unlock()
	if _, ok := r.store.tickets[entry.TicketCode]; !ok {
		return foreignKeyViolation("horas_trabajo_ticket_id_fkey")
	}
	now := time.Now()
	entry.ID = r.store.nextID()
	entry.RecordedAt = now
	entry.UpdatedAt = now
	stored := *entry
	r.store.hours[entry.ID] = &stored
	return nil
}

func (r *workHoursRepository) Update(_ context.Context, entry *domain.WorkHourEntry) error {
	r.store.mu.Lock()
	defer r.store.mu.Unlock()
	stored, ok := r.store.hours[entry.ID]
	if !ok {
		return pgx.ErrNoRows
	}
	stored.TechnicianID = entry.TechnicianID
	stored.TechnicianName = entry.TechnicianName
	stored.Hours = entry.Hours
	stored.Description = entry.Description
	stored.UpdatedAt = time.Now()
	entry.UpdatedAt = stored.UpdatedAt
	return nil
}

func (r *workHoursRepository) Delete(_ context.Context, id int64) error {
	r.store.mu.Lock()
	defer r.store.mu.Unlock()
	if _, ok := r.store.hours[id]; !ok {
		return pgx.ErrNoRows
	}
	delete(r.store.hours, id)
	return nil
}

func (r *workHoursRepository) GetByID(_ context.Context, id int64) (*domain.WorkHourEntry, error) {
	r.store.mu.RLock()
	defer r.store.mu.RUnlock()
	stored, ok := r.store.hours[id]
	if !ok {
		return nil, pgx.ErrNoRows
	}
	cp := *stored
	return &cp, nil
}

func (r *workHoursRepository) ListByTicket(_ context.Context, ticketCode string) ([]domain.WorkHourEntry, error) {
	r.store.mu.RLock()
	defer r.store.mu.RUnlock()
	result := []domain.WorkHourEntry{}
	for _, h := range r.store.hours {
		if h.TicketCode == ticketCode {
			result = append(result, *h)
		}
	}
	sort.Slice(result, func(i, j int) bool { return result[i].ID > result[j].ID })
	return result, nil
}

func (r *workHoursRepository) TotalForTicket(_ context.Context, ticketCode string) (float64, error) {
	r.store.mu.RLock()
	defer r.store.mu.RUnlock()
	var total float64
	for _, h := range r.store.hours {
		if h.TicketCode == ticketCode {
			total += h.Hours
		}
	}
	return total, nil
}

func (r *workHoursRepository) TotalsByTechnician(_ context.Context, ticketCode *string) ([]domain.TechnicianHours, error) {
	r.store.mu.RLock()
	defer r.store.mu.RUnlock()
	byName := map[string]*domain.TechnicianHours{}
	for _, h := range r.store.hours {
		if ticketCode != nil && h.TicketCode != *ticketCode {
			continue
		}
		agg, ok := byName[h.TechnicianName]
		if !ok {
			agg = &domain.TechnicianHours{TechnicianName: h.TechnicianName}
			byName[h.TechnicianName] = agg
		}
		agg.TotalHours += h.Hours
		agg.Entries++
	}
	result := make([]domain.TechnicianHours, 0, len(byName))
	for _, agg := range byName {
		result = append(result, *agg)
	}
	sort.Slice(result, func(i, j int) bool { return result[i].TechnicianName < result[j].TechnicianName })
	return result, nil
}
