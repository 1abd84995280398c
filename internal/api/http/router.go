package http

import (
	"github.com/gofiber/fiber/v2"
	"github.com/gofiber/fiber/v2/middleware/adaptor"
	"github.com/prometheus/client_golang/prometheus/promhttp"

	"github.com/soporteit/support-desk/internal/api/http/handlers"
	"github.com/soporteit/support-desk/internal/auth"
	"github.com/soporteit/support-desk/internal/observability"
)

// RouteConfig bundles dependencies for route registration.
type RouteConfig struct {
	Health         *handlers.HealthHandler
	Tickets        *handlers.TicketsHandler
	Notes          *handlers.NotesHandler
	Hours          *handlers.HoursHandler
	WhatsApp       *handlers.WhatsAppHandler
	Services       *handlers.ServicesHandler
	Users          *handlers.UsersHandler
	Session        *handlers.SessionHandler
	AuthMiddleware *auth.AuthMiddleware
	Policy         *auth.Policy
	IntakeLimiter  fiber.Handler
	Metrics        *observability.Metrics
}

// RegisterRoutes wires HTTP routes.
func RegisterRoutes(app *fiber.App, cfg RouteConfig) {
	app.Get("/health/live", cfg.Health.Live)
	app.Get("/health/ready", cfg.Health.Ready)
	if cfg.Metrics != nil {
		app.Get("/metrics", adaptor.HTTPHandler(promhttp.HandlerFor(cfg.Metrics.Registry(), promhttp.HandlerOpts{})))
	}

	app.Post("/login", cfg.Session.Login)
	app.Post("/logout", cfg.AuthMiddleware.Optional, cfg.Session.Logout)
	app.Get("/session", cfg.AuthMiddleware.Optional, cfg.Session.Session)

	intake := []fiber.Handler{cfg.Tickets.CreateTicket}
	if cfg.IntakeLimiter != nil {
		intake = append([]fiber.Handler{cfg.IntakeLimiter}, intake...)
	}
	app.Post("/tickets", intake...)

	// guard authenticates the caller and checks the permission table.
	guard := func(resource, action string, h fiber.Handler) []fiber.Handler {
		return []fiber.Handler{
			cfg.AuthMiddleware.Handle,
			auth.RequirePermission(cfg.Policy, resource, action),
			h,
		}
	}
	// adminOnly pins destructive and account routes to admins whatever the
	// permission table grants.
	adminOnly := func(resource, action string, h fiber.Handler) []fiber.Handler {
		return []fiber.Handler{
			cfg.AuthMiddleware.Handle,
			auth.RequireAdmin(),
			auth.RequirePermission(cfg.Policy, resource, action),
			h,
		}
	}

	// archived must be registered before the :code routes.
	app.Get("/tickets/archived", guard(auth.ResourceTickets, auth.ActionArchive, cfg.Tickets.ListArchived)...)
	app.Get("/tickets", guard(auth.ResourceTickets, auth.ActionRead, cfg.Tickets.ListTickets)...)
	app.Get("/tickets/:code", guard(auth.ResourceTickets, auth.ActionRead, cfg.Tickets.GetTicket)...)
	app.Patch("/tickets/:code/status", guard(auth.ResourceTickets, auth.ActionWrite, cfg.Tickets.UpdateStatus)...)
	app.Put("/tickets/:code", guard(auth.ResourceTickets, auth.ActionWrite, cfg.Tickets.UpdateTicket)...)
	app.Patch("/tickets/:code/assign", guard(auth.ResourceTickets, auth.ActionWrite, cfg.Tickets.AssignTechnician)...)
	app.Delete("/tickets/:code/permanent", adminOnly(auth.ResourceTickets, auth.ActionDelete, cfg.Tickets.DeleteTicket)...)
	app.Delete("/tickets/:code", guard(auth.ResourceTickets, auth.ActionArchive, cfg.Tickets.ArchiveTicket)...)
	app.Post("/tickets/:code/restore", guard(auth.ResourceTickets, auth.ActionArchive, cfg.Tickets.RestoreTicket)...)

	app.Post("/tickets/:code/notes", guard(auth.ResourceNotes, auth.ActionWrite, cfg.Notes.AddNote)...)
	app.Get("/tickets/:code/notes", guard(auth.ResourceNotes, auth.ActionRead, cfg.Notes.ListNotes)...)
	app.Delete("/notes/:id", guard(auth.ResourceNotes, auth.ActionArchive, cfg.Notes.DeleteNote)...)
	app.Post("/notes/:id/restore", guard(auth.ResourceNotes, auth.ActionArchive, cfg.Notes.RestoreNote)...)

	app.Post("/tickets/:code/hours", guard(auth.ResourceHours, auth.ActionWrite, cfg.Hours.AddHours)...)
	app.Get("/tickets/:code/hours/total", guard(auth.ResourceHours, auth.ActionRead, cfg.Hours.TotalHours)...)
	app.Get("/tickets/:code/hours", guard(auth.ResourceHours, auth.ActionRead, cfg.Hours.ListHours)...)
	app.Get("/hours/by-technician", guard(auth.ResourceHours, auth.ActionRead, cfg.Hours.ByTechnician)...)
	app.Put("/hours/:id", guard(auth.ResourceHours, auth.ActionWrite, cfg.Hours.UpdateHours)...)
	app.Delete("/hours/:id", guard(auth.ResourceHours, auth.ActionDelete, cfg.Hours.DeleteHours)...)

	app.Post("/tickets/:code/whatsapp", guard(auth.ResourceWhatsApp, auth.ActionWrite, cfg.WhatsApp.RecordContact)...)
	app.Get("/tickets/:code/whatsapp", guard(auth.ResourceWhatsApp, auth.ActionRead, cfg.WhatsApp.ListContacts)...)

	app.Get("/services", guard(auth.ResourceServices, auth.ActionRead, cfg.Services.List)...)
	app.Post("/services", guard(auth.ResourceServices, auth.ActionManage, cfg.Services.Create)...)
	app.Put("/services/:id", guard(auth.ResourceServices, auth.ActionManage, cfg.Services.Update)...)
	app.Delete("/services/:id", guard(auth.ResourceServices, auth.ActionManage, cfg.Services.Delete)...)

	app.Get("/users", guard(auth.ResourceUsers, auth.ActionRead, cfg.Users.List)...)
	app.Post("/users", adminOnly(auth.ResourceUsers, auth.ActionManage, cfg.Users.Create)...)
	app.Put("/users/:id", adminOnly(auth.ResourceUsers, auth.ActionManage, cfg.Users.Update)...)
	app.Delete("/users/:id", adminOnly(auth.ResourceUsers, auth.ActionManage, cfg.Users.Delete)...)
}
