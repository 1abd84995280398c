package handlers

import (
	"strings"

	"github.com/gofiber/fiber/v2"

	"github.com/soporteit/support-desk/internal/api/dto"
	"github.com/soporteit/support-desk/internal/service"
)

// NotesHandler exposes ticket note endpoints.
type NotesHandler struct {
	service *service.NoteService
}

// NewNotesHandler constructs handler.
func NewNotesHandler(noteService *service.NoteService) *NotesHandler {
	return &NotesHandler{service: noteService}
}

// AddNote POST /tickets/:code/notes.
func (h *NotesHandler) AddNote(c *fiber.Ctx) error {
	p, err := principal(c)
	if err != nil {
		return err
	}
	var req dto.CreateNoteRequest
	if err := parseBody(c, &req); err != nil {
		return err
	}
	author := strings.TrimSpace(req.Author)
	if author == "" {
		author = p.Username
	}
	note, err := h.service.AddNote(c.UserContext(), c.Params("code"), service.NoteInput{Body: req.Note, Author: author})
	if err != nil {
		return err
	}
	return c.Status(fiber.StatusCreated).JSON(fiber.Map{"data": noteResponse(note)})
}

// ListNotes GET /tickets/:code/notes.
// Archived notes are listed for admins only.
func (h *NotesHandler) ListNotes(c *fiber.Ctx) error {
	p, err := principal(c)
	if err != nil {
		return err
	}
	includeArchived := c.QueryBool("archived", false) && p.IsAdmin()
	notes, err := h.service.ListNotes(c.UserContext(), c.Params("code"), includeArchived)
	if err != nil {
		return err
	}
	items := make([]dto.NoteResponse, 0, len(notes))
	for i := range notes {
		items = append(items, noteResponse(&notes[i]))
	}
	return c.JSON(fiber.Map{"data": items})
}

// DeleteNote DELETE /notes/:id. Archives unless hard=true.
func (h *NotesHandler) DeleteNote(c *fiber.Ctx) error {
	p, err := principal(c)
	if err != nil {
		return err
	}
	id, err := paramID(c)
	if err != nil {
		return err
	}
	if c.QueryBool("hard", false) {
		if err := h.service.DeleteNote(c.UserContext(), id); err != nil {
			return err
		}
		return c.SendStatus(fiber.StatusNoContent)
	}
	if err := h.service.ArchiveNote(c.UserContext(), id, p.Username); err != nil {
		return err
	}
	return c.JSON(fiber.Map{"data": fiber.Map{"id": id, "archived": true}})
}

// RestoreNote POST /notes/:id/restore.
func (h *NotesHandler) RestoreNote(c *fiber.Ctx) error {
	id, err := paramID(c)
	if err != nil {
		return err
	}
	if err := h.service.RestoreNote(c.UserContext(), id); err != nil {
		return err
	}
	return c.JSON(fiber.Map{"data": fiber.Map{"id": id, "archived": false}})
}
