package notification

import (
	"bytes"
	"fmt"
	"html"
	"html/template"
	"strings"
	texttemplate "text/template"

	"github.com/microcosm-cc/bluemonday"

	"github.com/soporteit/support-desk/internal/domain"
)

// TicketView is the data handed to ticket email templates.
type TicketView struct {
	Code        string
	Name        string
	Email       string
	Phone       string
	Service     string
	Priority    string
	PriorityKey string
	Description string
	CompanyName string
	StatusLink  string
	CloseLink   string
	QueryLink   string
	ClientLink  string
	PanelNote   string
}

var priorityLabels = map[domain.TicketPriority]string{
	domain.TicketPriorityLow:    "Baja",
	domain.TicketPriorityMedium: "Media",
	domain.TicketPriorityHigh:   "Alta",
	domain.TicketPriorityUrgent: "Urgente",
}

// PriorityLabel returns the display label for a priority.
func PriorityLabel(p domain.TicketPriority) string {
	if label, ok := priorityLabels[p]; ok {
		return label
	}
	return string(p)
}

const clientHTML = `<!DOCTYPE html>
<html>
<body style="font-family: Arial, sans-serif; color: #333;">
  <h1>Ticket recibido</h1>
  <p>Estimado/a <strong>{{.Name}}</strong>,</p>
  <p>Hemos recibido su solicitud de servicio y nuestro equipo técnico la revisará a la brevedad.</p>
  <table>
    <tr><td>Nº de Ticket:</td><td><strong>{{.Code}}</strong></td></tr>
    <tr><td>Servicio:</td><td>{{.Service}}</td></tr>
    <tr><td>Prioridad:</td><td class="priority-{{.PriorityKey}}">{{.Priority}}</td></tr>
    <tr><td>Estado:</td><td>Pendiente</td></tr>
    <tr><td>Descripción:</td><td>{{.Description}}</td></tr>
  </table>
  <p>Nos pondremos en contacto con usted al número <strong>{{.Phone}}</strong> o a este correo electrónico.</p>
  {{if .StatusLink}}<p><a href="{{.StatusLink}}">Consultar estado por WhatsApp</a></p>{{end}}
  {{if .CloseLink}}<p><a href="{{.CloseLink}}">Solicitar cierre</a></p>{{end}}
  {{if .QueryLink}}<p><a href="{{.QueryLink}}">Consulta general</a></p>{{end}}
  <p><em>Guarde este número de ticket para futuras consultas: <strong>{{.Code}}</strong></em></p>
  <p><strong>{{.CompanyName}}</strong><br>Este es un mensaje automático, por favor no responda a este correo.</p>
</body>
</html>`

const clientPlain = `Estimado/a {{.Name}},

Hemos recibido su solicitud de servicio.

Nº de Ticket: {{.Code}}
Servicio: {{.Service}}
Prioridad: {{.Priority}}
Estado: Pendiente
Descripción: {{.Description}}

Nos pondremos en contacto con usted al número {{.Phone}} o a este correo electrónico.
{{if .StatusLink}}
Consultar estado por WhatsApp: {{.StatusLink}}
{{end}}
{{.CompanyName}}
`

const supportHTML = `<!DOCTYPE html>
<html>
<body style="font-family: Arial, sans-serif; color: #333;">
  <h1>Nuevo ticket {{.Code}}</h1>
  <table>
    <tr><td>Prioridad:</td><td class="priority-{{.PriorityKey}}"><strong>{{.Priority}}</strong></td></tr>
    <tr><td>Cliente:</td><td>{{.Name}}</td></tr>
    <tr><td>Email:</td><td><a href="mailto:{{.Email}}">{{.Email}}</a></td></tr>
    <tr><td>Teléfono:</td><td>{{.Phone}}</td></tr>
    <tr><td>Servicio:</td><td>{{.Service}}</td></tr>
    <tr><td>Descripción:</td><td>{{.Description}}</td></tr>
  </table>
  {{if .ClientLink}}<p><a href="{{.ClientLink}}">Contactar al cliente por WhatsApp</a></p>{{end}}
  <p>{{.PanelNote}}</p>
</body>
</html>`

const supportPlain = `Nuevo ticket {{.Code}} [{{.Priority}}]

Cliente: {{.Name}}
Email: {{.Email}}
Teléfono: {{.Phone}}
Servicio: {{.Service}}
Descripción: {{.Description}}
{{if .ClientLink}}
WhatsApp: {{.ClientLink}}
{{end}}`

// Renderer turns ticket views into email messages. User-supplied text is
// stripped of markup before it reaches a template.
type Renderer struct {
	sanitizer    *bluemonday.Policy
	clientHTML   *template.Template
	clientPlain  *texttemplate.Template
	supportHTML  *template.Template
	supportPlain *texttemplate.Template
}

// NewRenderer parses the embedded templates.
func NewRenderer() (*Renderer, error) {
	r := &Renderer{sanitizer: bluemonday.StrictPolicy()}
	var err error
	if r.clientHTML, err = template.New("client_html").Parse(clientHTML); err != nil {
		return nil, fmt.Errorf("parse client html template: %w", err)
	}
	if r.clientPlain, err = texttemplate.New("client_plain").Parse(clientPlain); err != nil {
		return nil, fmt.Errorf("parse client plain template: %w", err)
	}
	if r.supportHTML, err = template.New("support_html").Parse(supportHTML); err != nil {
		return nil, fmt.Errorf("parse support html template: %w", err)
	}
	if r.supportPlain, err = texttemplate.New("support_plain").Parse(supportPlain); err != nil {
		return nil, fmt.Errorf("parse support plain template: %w", err)
	}
	return r, nil
}

// ClientConfirmation renders the acknowledgement sent to the submitter.
func (r *Renderer) ClientConfirmation(view TicketView) (Message, error) {
	view = r.sanitize(view)
	htmlBody, plain, err := r.render(r.clientHTML, r.clientPlain, view)
	if err != nil {
		return Message{}, err
	}
	return Message{
		To:      view.Email,
		Subject: fmt.Sprintf("Confirmación de Ticket %s - %s", view.Code, view.CompanyName),
		HTML:    htmlBody,
		Plain:   plain,
	}, nil
}

// SupportNotification renders the alert sent to the support mailbox.
func (r *Renderer) SupportNotification(to string, view TicketView) (Message, error) {
	view = r.sanitize(view)
	htmlBody, plain, err := r.render(r.supportHTML, r.supportPlain, view)
	if err != nil {
		return Message{}, err
	}
	return Message{
		To:      to,
		Subject: fmt.Sprintf("[%s] Nuevo Ticket %s", strings.ToUpper(view.Priority), view.Code),
		HTML:    htmlBody,
		Plain:   plain,
	}, nil
}

func (r *Renderer) sanitize(view TicketView) TicketView {
	view.Name = r.stripMarkup(view.Name)
	view.Email = r.stripMarkup(view.Email)
	view.Phone = r.stripMarkup(view.Phone)
	view.Description = r.stripMarkup(view.Description)
	return view
}

// stripMarkup removes tags and returns plain text; the templates escape it once.
func (r *Renderer) stripMarkup(value string) string {
	return html.UnescapeString(r.sanitizer.Sanitize(value))
}

func (r *Renderer) render(h *template.Template, p *texttemplate.Template, view TicketView) (string, string, error) {
	var htmlBuf, plainBuf bytes.Buffer
	if err := h.Execute(&htmlBuf, view); err != nil {
		return "", "", fmt.Errorf("render html: %w", err)
	}
	if err := p.Execute(&plainBuf, view); err != nil {
		return "", "", fmt.Errorf("render plain: %w", err)
	}
	return htmlBuf.String(), plainBuf.String(), nil
}
