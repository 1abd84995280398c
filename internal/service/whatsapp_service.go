package service

import (
	"context"
	"strings"

	"github.com/jackc/pgx/v5"

	"github.com/soporteit/support-desk/internal/domain"
	"github.com/soporteit/support-desk/internal/repository"
	"github.com/soporteit/support-desk/internal/whatsapp"
	apperrors "github.com/soporteit/support-desk/pkg/util/errorutil"
	"github.com/soporteit/support-desk/pkg/util/validation"
)

// WhatsAppService logs client contacts and renders wa.me links.
type WhatsAppService struct {
	tickets  repository.TicketRepository
	contacts repository.WhatsAppContactRepository
	links    *whatsapp.LinkBuilder
}

// ContactInput describes an outbound contact. Phone defaults to the
// ticket's phone and Message to a general query text.
type ContactInput struct {
	Phone   string `json:"phone" validate:"max=50"`
	Message string `json:"message"`
	SentBy  string `json:"-" validate:"required"`
}

// ContactResult pairs the stored log entry with the link to open.
type ContactResult struct {
	Contact domain.WhatsAppContact
	Link    string
}

// TicketLinks are the company-line shortcuts offered to the client.
type TicketLinks struct {
	Status string `json:"status"`
	Close  string `json:"close"`
	Query  string `json:"query"`
}

// NewWhatsAppService constructs the service.
func NewWhatsAppService(tickets repository.TicketRepository, contacts repository.WhatsAppContactRepository, links *whatsapp.LinkBuilder) *WhatsAppService {
	return &WhatsAppService{tickets: tickets, contacts: contacts, links: links}
}

// RecordContact appends a contact log entry and returns the wa.me link.
func (s *WhatsAppService) RecordContact(ctx context.Context, code string, input ContactInput) (*ContactResult, error) {
	input.Phone = strings.TrimSpace(input.Phone)
	input.Message = strings.TrimSpace(input.Message)
	input.SentBy = strings.TrimSpace(input.SentBy)
	if err := validation.Struct(input); err != nil {
		return nil, err
	}
	ticket, err := s.tickets.GetByCode(ctx, code)
	if err != nil {
		return nil, ticketError(err, code)
	}
	if ticket.IsArchived() {
		return nil, ticketError(pgx.ErrNoRows, code)
	}
	if input.Phone == "" {
		input.Phone = ticket.Phone
	}
	if input.Message == "" {
		input.Message = whatsapp.GeneralQueryText(code)
	}

	link, err := s.links.Link(input.Phone, input.Message)
	if err != nil {
		return nil, apperrors.NewValidationError("validation failed", map[string]any{"phone": "phone is not a valid number"})
	}

	contact := &domain.WhatsAppContact{
		TicketCode: code,
		Phone:      input.Phone,
		Message:    input.Message,
		SentBy:     input.SentBy,
	}
	if err := s.contacts.Create(ctx, contact); err != nil {
		return nil, apperrors.MapError(err)
	}
	return &ContactResult{Contact: *contact, Link: link}, nil
}

// ListContacts returns a ticket's contact log, newest first.
func (s *WhatsAppService) ListContacts(ctx context.Context, code string) ([]domain.WhatsAppContact, error) {
	if _, err := s.tickets.GetByCode(ctx, code); err != nil {
		return nil, ticketError(err, code)
	}
	contacts, err := s.contacts.ListByTicket(ctx, code)
	if err != nil {
		return nil, apperrors.MapError(err)
	}
	return contacts, nil
}

// CompanyLinks renders the company-line shortcuts for a ticket.
// Links that cannot be built are left empty.
func (s *WhatsAppService) CompanyLinks(code string) TicketLinks {
	status, _ := s.links.CompanyLink(whatsapp.StatusQueryText(code))
	closeLink, _ := s.links.CompanyLink(whatsapp.CloseRequestText(code))
	query, _ := s.links.CompanyLink(whatsapp.GeneralQueryText(code))
	return TicketLinks{Status: status, Close: closeLink, Query: query}
}

// ClientLink renders a link from support to the client about a ticket.
func (s *WhatsAppService) ClientLink(phone, code string) string {
	link, _ := s.links.Link(phone, "Hola, le contactamos sobre su ticket "+code)
	return link
}
