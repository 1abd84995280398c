package service

import (
	"context"
	"fmt"
	"strings"

	"go.uber.org/zap"

	"github.com/soporteit/support-desk/internal/config"
	"github.com/soporteit/support-desk/internal/events"
	"github.com/soporteit/support-desk/internal/notification"
	"github.com/soporteit/support-desk/internal/observability"
)

const (
	notifyClient  = "client_confirmation"
	notifySupport = "support_alert"
)

// NotificationService turns domain events into emails. Delivery failures are
// logged and counted, never returned to the request that caused them.
type NotificationService struct {
	dispatcher events.Dispatcher
	renderer   *notification.Renderer
	mailer     notification.Mailer
	catalog    *CatalogService
	whatsapp   *WhatsAppService
	cfg        config.NotificationConfig
	metrics    *observability.Metrics
	logger     *zap.Logger
}

// NotificationDependencies bundles collaborators for the notification service.
type NotificationDependencies struct {
	Dispatcher events.Dispatcher
	Renderer   *notification.Renderer
	Mailer     notification.Mailer
	Catalog    *CatalogService
	WhatsApp   *WhatsAppService
	Metrics    *observability.Metrics
	Logger     *zap.Logger
}

// NewNotificationService creates the service.
func NewNotificationService(cfg config.NotificationConfig, deps NotificationDependencies) *NotificationService {
	logger := deps.Logger
	if logger == nil {
		logger = zap.NewNop()
	}
	return &NotificationService{
		dispatcher: deps.Dispatcher,
		renderer:   deps.Renderer,
		mailer:     deps.Mailer,
		catalog:    deps.Catalog,
		whatsapp:   deps.WhatsApp,
		cfg:        cfg,
		metrics:    deps.Metrics,
		logger:     logger,
	}
}

// RegisterHandlers subscribes to events.
func (n *NotificationService) RegisterHandlers() {
	if n.dispatcher == nil {
		return
	}
	n.dispatcher.Subscribe(events.EventTicketCreated, n.handleTicketCreated)
	n.dispatcher.Subscribe(events.EventTicketStatusChanged, n.logEvent)
	n.dispatcher.Subscribe(events.EventTicketAssigned, n.logEvent)
	n.dispatcher.Subscribe(events.EventTicketArchived, n.logEvent)
	n.dispatcher.Subscribe(events.EventTicketRestored, n.logEvent)
}

func (n *NotificationService) handleTicketCreated(ctx context.Context, event events.Event) error {
	payload, ok := event.Payload.(events.TicketCreatedPayload)
	if !ok {
		return fmt.Errorf("unexpected payload %T for %s", event.Payload, event.Type)
	}
	view := n.ticketView(ctx, payload)

	client, err := n.renderer.ClientConfirmation(view)
	if err != nil {
		return err
	}
	n.deliver(ctx, notifyClient, event.TicketCode, client)

	if strings.TrimSpace(n.cfg.SupportEmail) == "" {
		return nil
	}
	support, err := n.renderer.SupportNotification(n.cfg.SupportEmail, view)
	if err != nil {
		return err
	}
	n.deliver(ctx, notifySupport, event.TicketCode, support)
	return nil
}

func (n *NotificationService) deliver(ctx context.Context, kind, ticketCode string, msg notification.Message) {
	err := n.mailer.Send(ctx, msg)
	n.metrics.RecordNotification(kind, err)
	if err != nil {
		n.logger.Error("email delivery failed",
			zap.String("kind", kind),
			zap.String("ticket_id", ticketCode),
			zap.Error(err))
		return
	}
	n.logger.Info("email delivered", zap.String("kind", kind), zap.String("ticket_id", ticketCode))
}

func (n *NotificationService) ticketView(ctx context.Context, payload events.TicketCreatedPayload) notification.TicketView {
	ticket := payload.Ticket
	view := notification.TicketView{
		Code:        ticket.Code,
		Name:        ticket.Name,
		Email:       ticket.Email,
		Phone:       ticket.Phone,
		Service:     ticket.Service,
		Priority:    notification.PriorityLabel(ticket.Priority),
		PriorityKey: string(ticket.Priority),
		Description: ticket.Description,
		CompanyName: n.cfg.CompanyName,
		PanelNote:   "Acceda al panel de administración para gestionar este ticket.",
	}
	if n.catalog != nil {
		view.Service = n.catalog.NameFor(ctx, ticket.Service)
	}
	if n.whatsapp != nil {
		links := n.whatsapp.CompanyLinks(ticket.Code)
		view.StatusLink = links.Status
		view.CloseLink = links.Close
		view.QueryLink = links.Query
		view.ClientLink = n.whatsapp.ClientLink(ticket.Phone, ticket.Code)
	}
	return view
}

func (n *NotificationService) logEvent(_ context.Context, event events.Event) error {
	n.logger.Info("ticket event",
		zap.String("event_type", string(event.Type)),
		zap.String("ticket_id", event.TicketCode),
		zap.String("actor", event.Actor),
		zap.Any("payload", event.Payload))
	return nil
}
