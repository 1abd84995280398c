package handlers

import (
	"github.com/gofiber/fiber/v2"

	"github.com/soporteit/support-desk/internal/api/dto"
	"github.com/soporteit/support-desk/internal/service"
)

// WhatsAppHandler exposes the contact log of a ticket.
type WhatsAppHandler struct {
	service *service.WhatsAppService
}

// NewWhatsAppHandler constructs handler.
func NewWhatsAppHandler(whatsappService *service.WhatsAppService) *WhatsAppHandler {
	return &WhatsAppHandler{service: whatsappService}
}

// RecordContact POST /tickets/:code/whatsapp.
func (h *WhatsAppHandler) RecordContact(c *fiber.Ctx) error {
	p, err := principal(c)
	if err != nil {
		return err
	}
	var req dto.WhatsAppContactRequest
	if len(c.Body()) > 0 {
		if err := parseBody(c, &req); err != nil {
			return err
		}
	}
	result, err := h.service.RecordContact(c.UserContext(), c.Params("code"), service.ContactInput{
		Phone:   req.Phone,
		Message: req.Message,
		SentBy:  p.Username,
	})
	if err != nil {
		return err
	}
	return c.Status(fiber.StatusCreated).JSON(fiber.Map{"data": contactResponse(&result.Contact, result.Link)})
}

// ListContacts GET /tickets/:code/whatsapp.
func (h *WhatsAppHandler) ListContacts(c *fiber.Ctx) error {
	contacts, err := h.service.ListContacts(c.UserContext(), c.Params("code"))
	if err != nil {
		return err
	}
	items := make([]dto.WhatsAppContactResponse, 0, len(contacts))
	for i := range contacts {
		items = append(items, contactResponse(&contacts[i], ""))
	}
	return c.JSON(fiber.Map{"data": items})
}
