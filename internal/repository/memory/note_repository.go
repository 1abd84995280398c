package memory

import (
	"context"
	"sort"
	"time"

	"github.com/jackc/pgx/v5"

	"github.com/soporteit/support-desk/internal/domain"
	"github.com/soporteit/support-desk/internal/repository"
)

type noteRepository struct {
	store *Store
}

// NewNoteRepository returns a NoteRepository over the store.
func NewNoteRepository(store *Store) repository.NoteRepository {
	return &noteRepository{store: store}
}

func (r *noteRepository) Create(_ context.Context, note *domain.Note) error {
	r.store.mu.Lock()
	defer r.store.mu.Unlock()
	if _, ok := r.store.tickets[note.TicketCode]; !ok {
		return foreignKeyViolation("notas_ticket_id_fkey")
	}
	note.ID = r.store.nextID()
	note.CreatedAt = time.Now()
	stored := *note
	r.store.notes[note.ID] = &stored
	return nil
}

func (r *noteRepository) GetByID(_ context.Context, id int64) (*domain.Note, error) {
	r.store.mu.RLock()
	defer r.store.mu.RUnlock()
	stored, ok := r.store.notes[id]
	if !ok {
		return nil, pgx.ErrNoRows
	}
	cp := *stored
	return &cp, nil
}

func (r *noteRepository) ListByTicket(_ context.Context, ticketCode string, includeArchived bool) ([]domain.Note, error) {
	r.store.mu.RLock()
	defer r.store.mu.RUnlock()
	result := []domain.Note{}
	for _, n := range r.store.notes {
		if n.TicketCode != ticketCode || (n.Archived && !includeArchived) {
			continue
		}
		result = append(result, *n)
	}
	sort.Slice(result, func(i, j int) bool { return result[i].ID < result[j].ID })
	return result, nil
}

func (r *noteRepository) Archive(_ context.Context, id int64, actor string) error {
	r.store.mu.Lock()
	defer r.store.mu.Unlock()
	stored, ok := r.store.notes[id]
	if !ok || stored.IsArchived() {
		return pgx.ErrNoRows
	}
	stored.MarkArchived(actor, time.Now())
	return nil
}

func (r *noteRepository) Restore(_ context.Context, id int64) error {
	r.store.mu.Lock()
	defer r.store.mu.Unlock()
	stored, ok := r.store.notes[id]
	if !ok || !stored.IsArchived() {
		return pgx.ErrNoRows
	}
	stored.Clear()
	return nil
}

func (r *noteRepository) Delete(_ context.Context, id int64) error {
	r.store.mu.Lock()
	defer r.store.mu.Unlock()
	if _, ok := r.store.notes[id]; !ok {
		return pgx.ErrNoRows
	}
	delete(r.store.notes, id)
	return nil
}
