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

// WorkHoursService records and aggregates technician time on tickets.
type WorkHoursService struct {
	tickets repository.TicketRepository
	hours   repository.WorkHoursRepository
}

// WorkHoursInput describes a time entry. RecordedBy is ignored on update.
type WorkHoursInput struct {
	TechnicianID   *int64  `json:"technician_id"`
	TechnicianName string  `json:"technician_name" validate:"required,max=100"`
	Hours          float64 `json:"hours" validate:"min=0.01,max=9999"`
	Description    string  `json:"description"`
	RecordedBy     string  `json:"-"`
}

// NewWorkHoursService constructs the service.
func NewWorkHoursService(tickets repository.TicketRepository, hours repository.WorkHoursRepository) *WorkHoursService {
	return &WorkHoursService{tickets: tickets, hours: hours}
}

// AddWorkHours logs time against an active ticket.
func (s *WorkHoursService) AddWorkHours(ctx context.Context, code string, input WorkHoursInput) (*domain.WorkHourEntry, error) {
	input = trimHoursInput(input)
	if err := validation.Struct(input); err != nil {
		return nil, err
	}
	if err := requireActiveTicket(ctx, s.tickets, code); err != nil {
		return nil, err
	}
	entry := &domain.WorkHourEntry{
		TicketCode:     code,
		TechnicianID:   input.TechnicianID,
		TechnicianName: input.TechnicianName,
		Hours:          input.Hours,
		Description:    input.Description,
		RecordedBy:     input.RecordedBy,
	}
	if err := s.hours.Create(ctx, entry); err != nil {
		return nil, apperrors.MapError(err)
	}
	return entry, nil
}

// UpdateWorkHours replaces technician, hours and description of an entry.
func (s *WorkHoursService) UpdateWorkHours(ctx context.Context, id int64, input WorkHoursInput) (*domain.WorkHourEntry, error) {
	input = trimHoursInput(input)
	if err := validation.Struct(input); err != nil {
		return nil, err
	}
	entry, err := s.activeEntry(ctx, id)
	if err != nil {
		return nil, err
	}
	entry.TechnicianID = input.TechnicianID
	entry.TechnicianName = input.TechnicianName
	entry.Hours = input.Hours
	entry.Description = input.Description
	if err := s.hours.Update(ctx, entry); err != nil {
		return nil, hoursError(err, id)
	}
	return entry, nil
}

// DeleteWorkHours removes an entry.
func (s *WorkHoursService) DeleteWorkHours(ctx context.Context, id int64) error {
	if _, err := s.activeEntry(ctx, id); err != nil {
		return err
	}
	return hoursError(s.hours.Delete(ctx, id), id)
}

// activeEntry loads an entry whose ticket still accepts changes.
func (s *WorkHoursService) activeEntry(ctx context.Context, id int64) (*domain.WorkHourEntry, error) {
	entry, err := s.hours.GetByID(ctx, id)
	if err != nil {
		return nil, hoursError(err, id)
	}
	if err := requireActiveTicket(ctx, s.tickets, entry.TicketCode); err != nil {
		return nil, err
	}
	return entry, nil
}

// ListWorkHours lists a ticket's entries, newest first.
func (s *WorkHoursService) ListWorkHours(ctx context.Context, code string) ([]domain.WorkHourEntry, error) {
	if _, err := s.tickets.GetByCode(ctx, code); err != nil {
		return nil, ticketError(err, code)
	}
	entries, err := s.hours.ListByTicket(ctx, code)
	if err != nil {
		return nil, apperrors.MapError(err)
	}
	return entries, nil
}

// TotalHoursForTicket sums every entry of a ticket.
func (s *WorkHoursService) TotalHoursForTicket(ctx context.Context, code string) (float64, error) {
	if _, err := s.tickets.GetByCode(ctx, code); err != nil {
		return 0, ticketError(err, code)
	}
	total, err := s.hours.TotalForTicket(ctx, code)
	if err != nil {
		return 0, apperrors.MapError(err)
	}
	return total, nil
}

// HoursByTechnician aggregates hours per technician, optionally for one ticket.
func (s *WorkHoursService) HoursByTechnician(ctx context.Context, code *string) ([]domain.TechnicianHours, error) {
	if code != nil {
		if _, err := s.tickets.GetByCode(ctx, *code); err != nil {
			return nil, ticketError(err, *code)
		}
	}
	totals, err := s.hours.TotalsByTechnician(ctx, code)
	if err != nil {
		return nil, apperrors.MapError(err)
	}
	return totals, nil
}

func hoursError(err error, id int64) error {
	if err == nil {
		return nil
	}
	if errors.Is(err, pgx.ErrNoRows) {
		return apperrors.NewNotFound("work hours entry", map[string]any{"id": id})
	}
	return apperrors.MapError(err)
}

func trimHoursInput(in WorkHoursInput) WorkHoursInput {
	in.TechnicianName = strings.TrimSpace(in.TechnicianName)
	in.Description = strings.TrimSpace(in.Description)
	in.RecordedBy = strings.TrimSpace(in.RecordedBy)
	return in
}
