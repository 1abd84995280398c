package handlers

import (
	"github.com/gofiber/fiber/v2"

	"github.com/soporteit/support-desk/internal/api/dto"
	"github.com/soporteit/support-desk/internal/service"
)

// HoursHandler exposes work hour endpoints.
type HoursHandler struct {
	service *service.WorkHoursService
}

// NewHoursHandler constructs handler.
func NewHoursHandler(hoursService *service.WorkHoursService) *HoursHandler {
	return &HoursHandler{service: hoursService}
}

// AddHours POST /tickets/:code/hours.
func (h *HoursHandler) AddHours(c *fiber.Ctx) error {
	p, err := principal(c)
	if err != nil {
		return err
	}
	var req dto.WorkHoursRequest
	if err := parseBody(c, &req); err != nil {
		return err
	}
	entry, err := h.service.AddWorkHours(c.UserContext(), c.Params("code"), service.WorkHoursInput{
		TechnicianID:   req.TechnicianID,
		TechnicianName: req.TechnicianName,
		Hours:          req.Hours,
		Description:    req.Description,
		RecordedBy:     p.Username,
	})
	if err != nil {
		return err
	}
	return c.Status(fiber.StatusCreated).JSON(fiber.Map{"data": workHoursResponse(entry)})
}

// ListHours GET /tickets/:code/hours.
func (h *HoursHandler) ListHours(c *fiber.Ctx) error {
	entries, err := h.service.ListWorkHours(c.UserContext(), c.Params("code"))
	if err != nil {
		return err
	}
	items := make([]dto.WorkHoursResponse, 0, len(entries))
	for i := range entries {
		items = append(items, workHoursResponse(&entries[i]))
	}
	return c.JSON(fiber.Map{"data": items})
}

// TotalHours GET /tickets/:code/hours/total.
func (h *HoursHandler) TotalHours(c *fiber.Ctx) error {
	code := c.Params("code")
	total, err := h.service.TotalHoursForTicket(c.UserContext(), code)
	if err != nil {
		return err
	}
	return c.JSON(fiber.Map{"data": dto.TotalHoursResponse{TicketID: code, TotalHours: total}})
}

// ByTechnician GET /hours/by-technician.
func (h *HoursHandler) ByTechnician(c *fiber.Ctx) error {
	var code *string
	if v := c.Query("ticket"); v != "" {
		code = &v
	}
	totals, err := h.service.HoursByTechnician(c.UserContext(), code)
	if err != nil {
		return err
	}
	items := make([]dto.TechnicianHoursResponse, 0, len(totals))
	for _, t := range totals {
		items = append(items, dto.TechnicianHoursResponse{
			TechnicianName: t.TechnicianName,
			TotalHours:     t.TotalHours,
			Entries:        t.Entries,
		})
	}
	return c.JSON(fiber.Map{"data": items})
}

// UpdateHours PUT /hours/:id.
func (h *HoursHandler) UpdateHours(c *fiber.Ctx) error {
	id, err := paramID(c)
	if err != nil {
		return err
	}
	var req dto.WorkHoursRequest
	if err := parseBody(c, &req); err != nil {
		return err
	}
	entry, err := h.service.UpdateWorkHours(c.UserContext(), id, service.WorkHoursInput{
		TechnicianID:   req.TechnicianID,
		TechnicianName: req.TechnicianName,
		Hours:          req.Hours,
		Description:    req.Description,
	})
	if err != nil {
		return err
	}
	return c.JSON(fiber.Map{"data": workHoursResponse(entry)})
}

// DeleteHours DELETE /hours/:id.
func (h *HoursHandler) DeleteHours(c *fiber.Ctx) error {
	id, err := paramID(c)
	if err != nil {
		return err
	}
	if err := h.service.DeleteWorkHours(c.UserContext(), id); err != nil {
		return err
	}
	return c.SendStatus(fiber.StatusNoContent)
}
