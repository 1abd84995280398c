package handlers

import (
	"github.com/gofiber/fiber/v2"

	"github.com/soporteit/support-desk/internal/api/dto"
	"github.com/soporteit/support-desk/internal/domain"
	"github.com/soporteit/support-desk/internal/service"
)

// TicketsHandler manages ticket intake and lifecycle endpoints.
type TicketsHandler struct {
	service  *service.TicketService
	whatsapp *service.WhatsAppService
}

// NewTicketsHandler constructs handler.
func NewTicketsHandler(ticketService *service.TicketService, whatsappService *service.WhatsAppService) *TicketsHandler {
	return &TicketsHandler{service: ticketService, whatsapp: whatsappService}
}

// CreateTicket POST /tickets.
func (h *TicketsHandler) CreateTicket(c *fiber.Ctx) error {
	var req dto.CreateTicketRequest
	if err := parseBody(c, &req); err != nil {
		return err
	}
	ticket, err := h.service.CreateTicket(c.UserContext(), service.TicketCreateInput{
		Name:        req.Name,
		Email:       req.Email,
		Phone:       req.Phone,
		Service:     req.Service,
		Priority:    req.Priority,
		Description: req.Description,
	})
	if err != nil {
		return err
	}

	links := h.whatsapp.CompanyLinks(ticket.Code)
	return c.Status(fiber.StatusCreated).JSON(fiber.Map{"data": dto.CreateTicketResponse{
		TicketID:    ticket.Code,
		Status:      string(domain.TicketStatusPending),
		Message:     "Ticket creado exitosamente",
		WhatsAppURL: links.Status,
		WhatsApp:    dto.WhatsAppLinks{Status: links.Status, Close: links.Close, Query: links.Query},
	}})
}

// ListTickets GET /tickets.
func (h *TicketsHandler) ListTickets(c *fiber.Ctx) error {
	tickets, err := h.service.ListActive(c.UserContext(), c.Query("status"))
	if err != nil {
		return err
	}
	return c.JSON(fiber.Map{"data": ticketResponses(tickets)})
}

// ListArchived GET /tickets/archived.
func (h *TicketsHandler) ListArchived(c *fiber.Ctx) error {
	tickets, err := h.service.ListArchived(c.UserContext())
	if err != nil {
		return err
	}
	return c.JSON(fiber.Map{"data": ticketResponses(tickets)})
}

// GetTicket GET /tickets/:code.
func (h *TicketsHandler) GetTicket(c *fiber.Ctx) error {
	ticket, err := h.service.GetTicket(c.UserContext(), c.Params("code"))
	if err != nil {
		return err
	}
	return c.JSON(fiber.Map{"data": ticketResponse(ticket)})
}

// UpdateStatus PATCH /tickets/:code/status.
func (h *TicketsHandler) UpdateStatus(c *fiber.Ctx) error {
	p, err := principal(c)
	if err != nil {
		return err
	}
	var req dto.UpdateStatusRequest
	if err := parseBody(c, &req); err != nil {
		return err
	}
	ticket, err := h.service.UpdateStatus(c.UserContext(), c.Params("code"), req.Status, p.Username)
	if err != nil {
		return err
	}
	return c.JSON(fiber.Map{"data": ticketResponse(ticket)})
}

// UpdateTicket PUT /tickets/:code.
func (h *TicketsHandler) UpdateTicket(c *fiber.Ctx) error {
	p, err := principal(c)
	if err != nil {
		return err
	}
	var req dto.UpdateTicketRequest
	if err := parseBody(c, &req); err != nil {
		return err
	}
	ticket, err := h.service.UpdateTicket(c.UserContext(), c.Params("code"), service.TicketUpdateInput{
		Name:        req.Name,
		Email:       req.Email,
		Phone:       req.Phone,
		Service:     req.Service,
		Priority:    req.Priority,
		Description: req.Description,
		Status:      req.Status,
		Technician:  req.Technician,
	}, p.Username)
	if err != nil {
		return err
	}
	return c.JSON(fiber.Map{"data": ticketResponse(ticket)})
}

// AssignTechnician PATCH /tickets/:code/assign.
func (h *TicketsHandler) AssignTechnician(c *fiber.Ctx) error {
	p, err := principal(c)
	if err != nil {
		return err
	}
	var req dto.AssignTechnicianRequest
	if err := parseBody(c, &req); err != nil {
		return err
	}
	ticket, err := h.service.AssignTechnician(c.UserContext(), c.Params("code"), req.Technician, p.Username)
	if err != nil {
		return err
	}
	return c.JSON(fiber.Map{"data": ticketResponse(ticket)})
}

// ArchiveTicket DELETE /tickets/:code.
func (h *TicketsHandler) ArchiveTicket(c *fiber.Ctx) error {
	p, err := principal(c)
	if err != nil {
		return err
	}
	if err := h.service.ArchiveTicket(c.UserContext(), c.Params("code"), p.Username); err != nil {
		return err
	}
	return c.JSON(fiber.Map{"data": fiber.Map{"ticket_id": c.Params("code"), "archived": true}})
}

// RestoreTicket POST /tickets/:code/restore.
func (h *TicketsHandler) RestoreTicket(c *fiber.Ctx) error {
	p, err := principal(c)
	if err != nil {
		return err
	}
	if err := h.service.RestoreTicket(c.UserContext(), c.Params("code"), p.Username); err != nil {
		return err
	}
	return c.JSON(fiber.Map{"data": fiber.Map{"ticket_id": c.Params("code"), "archived": false}})
}

// DeleteTicket DELETE /tickets/:code/permanent.
func (h *TicketsHandler) DeleteTicket(c *fiber.Ctx) error {
	if err := h.service.DeleteTicket(c.UserContext(), c.Params("code")); err != nil {
		return err
	}
	return c.SendStatus(fiber.StatusNoContent)
}
