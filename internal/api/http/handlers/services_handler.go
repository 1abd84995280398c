package handlers

import (
	"github.com/gofiber/fiber/v2"

	"github.com/soporteit/support-desk/internal/api/dto"
	"github.com/soporteit/support-desk/internal/service"
)

// ServicesHandler exposes the service catalog.
type ServicesHandler struct {
	service *service.CatalogService
}

// NewServicesHandler constructs handler.
func NewServicesHandler(catalogService *service.CatalogService) *ServicesHandler {
	return &ServicesHandler{service: catalogService}
}

// List GET /services. Pass active=true to hide disabled entries.
func (h *ServicesHandler) List(c *fiber.Ctx) error {
	services, err := h.service.List(c.UserContext(), c.QueryBool("active", false))
	if err != nil {
		return err
	}
	items := make([]dto.ServiceResponse, 0, len(services))
	for i := range services {
		items = append(items, serviceResponse(&services[i]))
	}
	return c.JSON(fiber.Map{"data": items})
}

// Create POST /services.
func (h *ServicesHandler) Create(c *fiber.Ctx) error {
	var req dto.ServiceRequest
	if err := parseBody(c, &req); err != nil {
		return err
	}
	svc, err := h.service.Create(c.UserContext(), serviceInput(req))
	if err != nil {
		return err
	}
	return c.Status(fiber.StatusCreated).JSON(fiber.Map{"data": serviceResponse(svc)})
}

// Update PUT /services/:id.
func (h *ServicesHandler) Update(c *fiber.Ctx) error {
	id, err := paramID(c)
	if err != nil {
		return err
	}
	var req dto.ServiceRequest
	if err := parseBody(c, &req); err != nil {
		return err
	}
	svc, err := h.service.Update(c.UserContext(), id, serviceInput(req))
	if err != nil {
		return err
	}
	return c.JSON(fiber.Map{"data": serviceResponse(svc)})
}

// Delete DELETE /services/:id.
func (h *ServicesHandler) Delete(c *fiber.Ctx) error {
	id, err := paramID(c)
	if err != nil {
		return err
	}
	if err := h.service.Delete(c.UserContext(), id); err != nil {
		return err
	}
	return c.SendStatus(fiber.StatusNoContent)
}

func serviceInput(req dto.ServiceRequest) service.ServiceInput {
	return service.ServiceInput{
		Code:        req.Code,
		Name:        req.Name,
		Description: req.Description,
		Active:      req.Active,
	}
}
