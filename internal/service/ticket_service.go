package service

import (
	"context"
	"errors"
	"strings"
	"time"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"
	"go.uber.org/zap"

	"github.com/soporteit/support-desk/internal/domain"
	"github.com/soporteit/support-desk/internal/events"
	"github.com/soporteit/support-desk/internal/observability"
	"github.com/soporteit/support-desk/internal/repository"
	apperrors "github.com/soporteit/support-desk/pkg/util/errorutil"
	"github.com/soporteit/support-desk/pkg/util/validation"
)

const maxCodeAttempts = 3

// TicketService coordinates ticket workflows.
type TicketService struct {
	tickets    repository.TicketRepository
	catalog    repository.CatalogRepository
	dispatcher events.Dispatcher
	codes      *CodeGenerator
	metrics    *observability.Metrics
	logger     *zap.Logger
}

// TicketDependencies bundles collaborators for the ticket service.
type TicketDependencies struct {
	TicketRepo  repository.TicketRepository
	CatalogRepo repository.CatalogRepository
	Dispatcher  events.Dispatcher
	Codes       *CodeGenerator
	Metrics     *observability.Metrics
	Logger      *zap.Logger
}

// TicketCreateInput describes a public intake submission.
type TicketCreateInput struct {
	Name        string `json:"name" validate:"required,max=255"`
	Email       string `json:"email" validate:"required,email,max=255"`
	Phone       string `json:"phone" validate:"required,max=50"`
	Service     string `json:"service" validate:"required,max=100"`
	Priority    string `json:"priority"`
	Description string `json:"description" validate:"required"`
}

// TicketUpdateInput replaces the editable fields of a ticket.
type TicketUpdateInput struct {
	Name        string  `json:"name" validate:"required,max=255"`
	Email       string  `json:"email" validate:"required,email,max=255"`
	Phone       string  `json:"phone" validate:"required,max=50"`
	Service     string  `json:"service" validate:"required,max=100"`
	Priority    string  `json:"priority"`
	Description string  `json:"description" validate:"required"`
	Status      string  `json:"status" validate:"required"`
	Technician  *string `json:"technician"`
}

// NewTicketService constructs the service.
func NewTicketService(deps TicketDependencies) *TicketService {
	codes := deps.Codes
	if codes == nil {
		codes = NewCodeGenerator()
	}
	logger := deps.Logger
	if logger == nil {
		logger = zap.NewNop()
	}
	return &TicketService{
		tickets:    deps.TicketRepo,
		catalog:    deps.CatalogRepo,
		dispatcher: deps.Dispatcher,
		codes:      codes,
		metrics:    deps.Metrics,
		logger:     logger,
	}
}

// CreateTicket stores a new pending ticket and schedules notifications.
func (s *TicketService) CreateTicket(ctx context.Context, input TicketCreateInput) (*domain.Ticket, error) {
	input = trimCreateInput(input)
	if err := validation.Struct(input); err != nil {
		return nil, err
	}
	priority, err := parsePriority(input.Priority)
	if err != nil {
		return nil, err
	}
	if err := s.ensureService(ctx, input.Service); err != nil {
		return nil, err
	}

	ticket := &domain.Ticket{
		Name:        input.Name,
		Email:       input.Email,
		Phone:       input.Phone,
		Service:     input.Service,
		Priority:    priority,
		Description: input.Description,
		Status:      domain.TicketStatusPending,
	}

	for attempt := 1; ; attempt++ {
		code, err := s.codes.Next()
		if err != nil {
			return nil, apperrors.NewInternalError(err)
		}
		ticket.Code = code
		err = s.tickets.Create(ctx, ticket)
		if err == nil {
			break
		}
		if !apperrors.IsUniqueViolation(err) || attempt >= maxCodeAttempts {
			return nil, apperrors.MapError(err)
		}
		s.logger.Warn("ticket code collision, retrying", zap.String("ticket_id", code), zap.Int("attempt", attempt))
	}

	s.metrics.RecordTicketCreated()
	s.publishEvent(ctx, events.Event{
		Type:       events.EventTicketCreated,
		TicketCode: ticket.Code,
		Payload:    events.TicketCreatedPayload{Ticket: *ticket},
	})
	return ticket, nil
}

// GetTicket returns a ticket regardless of archive state.
func (s *TicketService) GetTicket(ctx context.Context, code string) (*domain.Ticket, error) {
	ticket, err := s.tickets.GetByCode(ctx, code)
	if err != nil {
		return nil, ticketError(err, code)
	}
	return ticket, nil
}

// ListActive lists non-archived tickets, newest first. An empty status lists all.
func (s *TicketService) ListActive(ctx context.Context, status string) ([]domain.Ticket, error) {
	filter := repository.TicketFilter{}
	if strings.TrimSpace(status) != "" {
		parsed, err := parseStatus(status)
		if err != nil {
			return nil, err
		}
		filter.Status = &parsed
	}
	tickets, err := s.tickets.List(ctx, filter)
	if err != nil {
		return nil, apperrors.MapError(err)
	}
	return tickets, nil
}

// ListArchived lists archived tickets, most recently archived first.
func (s *TicketService) ListArchived(ctx context.Context) ([]domain.Ticket, error) {
	tickets, err := s.tickets.List(ctx, repository.TicketFilter{Archived: true})
	if err != nil {
		return nil, apperrors.MapError(err)
	}
	return tickets, nil
}

// UpdateStatus moves an active ticket to any of the four states.
func (s *TicketService) UpdateStatus(ctx context.Context, code, rawStatus, actor string) (*domain.Ticket, error) {
	status, err := parseStatus(rawStatus)
	if err != nil {
		return nil, err
	}
	current, err := s.activeTicket(ctx, code)
	if err != nil {
		return nil, err
	}
	if err := s.tickets.UpdateStatus(ctx, code, status); err != nil {
		return nil, ticketError(err, code)
	}
	if current.Status != status {
		s.publishEvent(ctx, events.Event{
			Type:       events.EventTicketStatusChanged,
			TicketCode: code,
			Actor:      actor,
			Payload:    events.TicketStatusChangedPayload{OldStatus: current.Status, NewStatus: status},
		})
	}
	return s.GetTicket(ctx, code)
}

// UpdateTicket replaces every editable field of an active ticket.
func (s *TicketService) UpdateTicket(ctx context.Context, code string, input TicketUpdateInput, actor string) (*domain.Ticket, error) {
	input = trimUpdateInput(input)
	if err := validation.Struct(input); err != nil {
		return nil, err
	}
	status, err := parseStatus(input.Status)
	if err != nil {
		return nil, err
	}
	priority, err := parsePriority(input.Priority)
	if err != nil {
		return nil, err
	}
	current, err := s.activeTicket(ctx, code)
	if err != nil {
		return nil, err
	}
	if input.Service != current.Service {
		if err := s.ensureService(ctx, input.Service); err != nil {
			return nil, err
		}
	}

	updated := *current
	updated.Name = input.Name
	updated.Email = input.Email
	updated.Phone = input.Phone
	updated.Service = input.Service
	updated.Priority = priority
	updated.Description = input.Description
	updated.Status = status
	updated.Technician = input.Technician
	if err := s.tickets.Update(ctx, &updated); err != nil {
		return nil, ticketError(err, code)
	}

	if current.Status != status {
		s.publishEvent(ctx, events.Event{
			Type:       events.EventTicketStatusChanged,
			TicketCode: code,
			Actor:      actor,
			Payload:    events.TicketStatusChangedPayload{OldStatus: current.Status, NewStatus: status},
		})
	}
	return &updated, nil
}

// AssignTechnician records the technician responsible for an active ticket.
func (s *TicketService) AssignTechnician(ctx context.Context, code, technician, actor string) (*domain.Ticket, error) {
	technician = strings.TrimSpace(technician)
	if technician == "" {
		return nil, apperrors.NewValidationError("validation failed", map[string]any{"technician": "technician is required"})
	}
	if err := s.tickets.AssignTechnician(ctx, code, technician); err != nil {
		return nil, ticketError(err, code)
	}
	s.publishEvent(ctx, events.Event{
		Type:       events.EventTicketAssigned,
		TicketCode: code,
		Actor:      actor,
		Payload:    events.TicketAssignedPayload{Technician: technician},
	})
	return s.GetTicket(ctx, code)
}

// ArchiveTicket soft-deletes an active ticket.
func (s *TicketService) ArchiveTicket(ctx context.Context, code, actor string) error {
	if err := s.tickets.Archive(ctx, code, actor); err != nil {
		return ticketError(err, code)
	}
	s.publishEvent(ctx, events.Event{Type: events.EventTicketArchived, TicketCode: code, Actor: actor})
	return nil
}

// RestoreTicket returns an archived ticket to the active list.
func (s *TicketService) RestoreTicket(ctx context.Context, code, actor string) error {
	if err := s.tickets.Restore(ctx, code); err != nil {
		return ticketError(err, code)
	}
	s.publishEvent(ctx, events.Event{Type: events.EventTicketRestored, TicketCode: code, Actor: actor})
	return nil
}

// DeleteTicket permanently removes a ticket with its notes, contacts and hours.
func (s *TicketService) DeleteTicket(ctx context.Context, code string) error {
	if err := s.tickets.DeleteCascade(ctx, code); err != nil {
		return ticketError(err, code)
	}
	return nil
}

func (s *TicketService) activeTicket(ctx context.Context, code string) (*domain.Ticket, error) {
	ticket, err := s.tickets.GetByCode(ctx, code)
	if err != nil {
		return nil, ticketError(err, code)
	}
	if ticket.IsArchived() {
		return nil, ticketError(pgx.ErrNoRows, code)
	}
	return ticket, nil
}

func (s *TicketService) ensureService(ctx context.Context, code string) error {
	svc, err := s.catalog.GetByCode(ctx, code)
	if errors.Is(err, pgx.ErrNoRows) || (err == nil && !svc.Active) {
		return apperrors.NewValidationError("validation failed", map[string]any{"service": "service is not offered"})
	}
	if err != nil {
		return apperrors.MapError(err)
	}
	return nil
}

func (s *TicketService) publishEvent(ctx context.Context, event events.Event) {
	if s.dispatcher == nil {
		return
	}
	if event.ID == "" {
		event.ID = uuid.NewString()
	}
	if event.Timestamp.IsZero() {
		event.Timestamp = time.Now().UTC()
	}
	if err := s.dispatcher.Publish(ctx, event); err != nil {
		s.logger.Warn("publish event failed", zap.String("event_type", string(event.Type)), zap.Error(err))
	}
}

func ticketError(err error, code string) error {
	if errors.Is(err, pgx.ErrNoRows) {
		return apperrors.NewNotFound("ticket", map[string]any{"ticket_id": code})
	}
	return apperrors.MapError(err)
}

func parseStatus(raw string) (domain.TicketStatus, error) {
	status, ok := domain.ParseTicketStatus(raw)
	if !ok {
		return "", apperrors.NewInvalidState("invalid status", map[string]any{
			"status":  raw,
			"allowed": domain.TicketStatuses,
		})
	}
	return status, nil
}

func parsePriority(raw string) (domain.TicketPriority, error) {
	priority, ok := domain.ParseTicketPriority(raw)
	if !ok {
		return "", apperrors.NewInvalidState("invalid priority", map[string]any{"priority": raw})
	}
	return priority, nil
}

func trimCreateInput(in TicketCreateInput) TicketCreateInput {
	in.Name = strings.TrimSpace(in.Name)
	in.Email = strings.TrimSpace(in.Email)
	in.Phone = strings.TrimSpace(in.Phone)
	in.Service = strings.TrimSpace(in.Service)
	in.Description = strings.TrimSpace(in.Description)
	return in
}

func trimUpdateInput(in TicketUpdateInput) TicketUpdateInput {
	in.Name = strings.TrimSpace(in.Name)
	in.Email = strings.TrimSpace(in.Email)
	in.Phone = strings.TrimSpace(in.Phone)
	in.Service = strings.TrimSpace(in.Service)
	in.Description = strings.TrimSpace(in.Description)
	if in.Technician != nil {
		name := strings.TrimSpace(*in.Technician)
		if name == "" {
			in.Technician = nil
		} else {
			in.Technician = &name
		}
	}
	return in
}
