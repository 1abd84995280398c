package handlers

import (
	"strconv"

	"github.com/gofiber/fiber/v2"

	"github.com/soporteit/support-desk/internal/api/dto"
	"github.com/soporteit/support-desk/internal/auth"
	"github.com/soporteit/support-desk/internal/domain"
	apperrors "github.com/soporteit/support-desk/pkg/util/errorutil"
)

func parseBody(c *fiber.Ctx, out any) error {
	if err := c.BodyParser(out); err != nil {
		return apperrors.NewValidationError("invalid payload", nil)
	}
	return nil
}

func paramID(c *fiber.Ctx) (int64, error) {
	id, err := strconv.ParseInt(c.Params("id"), 10, 64)
	if err != nil || id <= 0 {
		return 0, apperrors.NewValidationError("invalid id", map[string]any{"id": c.Params("id")})
	}
	return id, nil
}

func principal(c *fiber.Ctx) (*auth.Principal, error) {
	p, ok := auth.PrincipalFromContext(c)
	if !ok {
		return nil, apperrors.NewUnauthorized("authentication required")
	}
	return p, nil
}

func ticketResponse(t *domain.Ticket) dto.TicketResponse {
	return dto.TicketResponse{
		ID:          t.ID,
		TicketID:    t.Code,
		Name:        t.Name,
		Email:       t.Email,
		Phone:       t.Phone,
		Service:     t.Service,
		Priority:    t.Priority,
		Description: t.Description,
		Status:      t.Status,
		Technician:  t.Technician,
		CreatedAt:   t.CreatedAt,
		UpdatedAt:   t.UpdatedAt,
		Archived:    t.Archived,
		ArchivedBy:  t.ArchivedBy,
		ArchivedAt:  t.ArchivedAt,
	}
}

func ticketResponses(tickets []domain.Ticket) []dto.TicketResponse {
	items := make([]dto.TicketResponse, 0, len(tickets))
	for i := range tickets {
		items = append(items, ticketResponse(&tickets[i]))
	}
	return items
}

func noteResponse(n *domain.Note) dto.NoteResponse {
	return dto.NoteResponse{
		ID:         n.ID,
		TicketID:   n.TicketCode,
		Note:       n.Body,
		Author:     n.Author,
		CreatedAt:  n.CreatedAt,
		Archived:   n.Archived,
		ArchivedBy: n.ArchivedBy,
		ArchivedAt: n.ArchivedAt,
	}
}

func workHoursResponse(e *domain.WorkHourEntry) dto.WorkHoursResponse {
	return dto.WorkHoursResponse{
		ID:             e.ID,
		TicketID:       e.TicketCode,
		TechnicianID:   e.TechnicianID,
		TechnicianName: e.TechnicianName,
		Hours:          e.Hours,
		Description:    e.Description,
		RecordedBy:     e.RecordedBy,
		RecordedAt:     e.RecordedAt,
		UpdatedAt:      e.UpdatedAt,
	}
}

func serviceResponse(s *domain.ServiceCategory) dto.ServiceResponse {
	return dto.ServiceResponse{
		ID:          s.ID,
		Code:        s.Code,
		Name:        s.Name,
		Description: s.Description,
		Active:      s.Active,
	}
}

func userResponse(u *domain.User) dto.UserResponse {
	return dto.UserResponse{
		ID:           u.ID,
		Username:     u.Username,
		FullName:     u.FullName,
		Email:        u.Email,
		Role:         u.Role,
		Active:       u.Active,
		CreatedAt:    u.CreatedAt,
		LastAccessAt: u.LastAccessAt,
	}
}

func contactResponse(c *domain.WhatsAppContact, link string) dto.WhatsAppContactResponse {
	return dto.WhatsAppContactResponse{
		ID:        c.ID,
		TicketID:  c.TicketCode,
		Phone:     c.Phone,
		Message:   c.Message,
		SentBy:    c.SentBy,
		ContactAt: c.ContactAt,
		Link:      link,
	}
}
