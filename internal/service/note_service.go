package service

import (
	"context"
	"errors"
	"strings"

	"github.com/jackc/pgx/v5"

	"github.com/soporteit/support-desk/internal/domain"
	"github.com/soporteit/support-desk/internal/repository"
	apperrors "github.com/soporteit/support-desk/pkg/util/errorutil"
	"github.com/soporteit/support-desk/pkg/util/validation"
)

// NoteService manages internal notes attached to tickets.
type NoteService struct {
	tickets repository.TicketRepository
	notes   repository.NoteRepository
}

// NoteInput describes a new note.
type NoteInput struct {
	Body   string `json:"note" validate:"required"`
	Author string `json:"author" validate:"required,max=100"`
}

// NewNoteService constructs the service.
func NewNoteService(tickets repository.TicketRepository, notes repository.NoteRepository) *NoteService {
	return &NoteService{tickets: tickets, notes: notes}
}

// AddNote appends a note to an active ticket.
func (s *NoteService) AddNote(ctx context.Context, code string, input NoteInput) (*domain.Note, error) {
	input.Body = strings.TrimSpace(input.Body)
	input.Author = strings.TrimSpace(input.Author)
	if err := validation.Struct(input); err != nil {
		return nil, err
	}
	if err := requireActiveTicket(ctx, s.tickets, code); err != nil {
		return nil, err
	}
	note := &domain.Note{TicketCode: code, Body: input.Body, Author: input.Author}
	if err := s.notes.Create(ctx, note); err != nil {
		return nil, apperrors.MapError(err)
	}
	return note, nil
}

// ListNotes returns a ticket's notes in creation order.
func (s *NoteService) ListNotes(ctx context.Context, code string, includeArchived bool) ([]domain.Note, error) {
	if _, err := s.tickets.GetByCode(ctx, code); err != nil {
		return nil, ticketError(err, code)
	}
	notes, err := s.notes.ListByTicket(ctx, code, includeArchived)
	if err != nil {
		return nil, apperrors.MapError(err)
	}
	return notes, nil
}

// ArchiveNote hides a note from the default listing.
func (s *NoteService) ArchiveNote(ctx context.Context, id int64, actor string) error {
	if err := s.requireActiveNote(ctx, id); err != nil {
		return err
	}
	return noteError(s.notes.Archive(ctx, id, actor), id)
}

// RestoreNote brings an archived note back.
func (s *NoteService) RestoreNote(ctx context.Context, id int64) error {
	if err := s.requireActiveNote(ctx, id); err != nil {
		return err
	}
	return noteError(s.notes.Restore(ctx, id), id)
}

// DeleteNote permanently removes a note.
func (s *NoteService) DeleteNote(ctx context.Context, id int64) error {
	if err := s.requireActiveNote(ctx, id); err != nil {
		return err
	}
	return noteError(s.notes.Delete(ctx, id), id)
}

// requireActiveNote rejects changes to notes of archived tickets.
func (s *NoteService) requireActiveNote(ctx context.Context, id int64) error {
	note, err := s.notes.GetByID(ctx, id)
	if err != nil {
		return noteError(err, id)
	}
	return requireActiveTicket(ctx, s.tickets, note.TicketCode)
}

func noteError(err error, id int64) error {
	if err == nil {
		return nil
	}
	if errors.Is(err, pgx.ErrNoRows) {
		return apperrors.NewNotFound("note", map[string]any{"id": id})
	}
	return apperrors.MapError(err)
}

func requireActiveTicket(ctx context.Context, tickets repository.TicketRepository, code string) error {
	ticket, err := tickets.GetByCode(ctx, code)
	if err != nil {
		return ticketError(err, code)
	}
	if ticket.IsArchived() {
		return ticketError(pgx.ErrNoRows, code)
	}
	return nil
}
