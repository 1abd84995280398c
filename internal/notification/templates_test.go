package notification

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/soporteit/support-desk/internal/domain"
)

func sampleView() TicketView {
	return TicketView{
		Code:        "TKT-ABC-1234",
		Name:        "Ana",
		Email:       "ana@x.com",
		Phone:       "600111222",
		Service:     "Reparación de Equipos",
		Priority:    PriorityLabel(domain.TicketPriorityHigh),
		PriorityKey: string(domain.TicketPriorityHigh),
		Description: `no enciende <script>alert("x")</script>`,
		CompanyName: "Soporte IT",
		StatusLink:  "https://wa.me/34624620893?text=hola",
	}
}

func TestClientConfirmation(t *testing.T) {
	r, err := NewRenderer()
	require.NoError(t, err)

	msg, err := r.ClientConfirmation(sampleView())
	require.NoError(t, err)
	assert.Equal(t, "ana@x.com", msg.To)
	assert.Equal(t, "Confirmación de Ticket TKT-ABC-1234 - Soporte IT", msg.Subject)
	assert.Contains(t, msg.HTML, "TKT-ABC-1234")
	assert.Contains(t, msg.HTML, "https://wa.me/34624620893?text=hola")
	assert.NotContains(t, msg.HTML, "<script>")
	assert.NotContains(t, msg.Plain, "<script>")
	assert.Contains(t, msg.Plain, "no enciende")
}

func TestSupportNotificationSubject(t *testing.T) {
	r, err := NewRenderer()
	require.NoError(t, err)

	msg, err := r.SupportNotification("soporte@x.com", sampleView())
	require.NoError(t, err)
	assert.Equal(t, "soporte@x.com", msg.To)
	assert.Equal(t, "[ALTA] Nuevo Ticket TKT-ABC-1234", msg.Subject)
	assert.Contains(t, msg.HTML, "mailto:ana@x.com")
}

func TestPriorityLabelFallsBack(t *testing.T) {
	assert.Equal(t, "Urgente", PriorityLabel(domain.TicketPriorityUrgent))
	assert.Equal(t, "otra", PriorityLabel("otra"))
}

func TestSanitizedTextIsEscapedOnce(t *testing.T) {
	r, err := NewRenderer()
	require.NoError(t, err)

	view := sampleView()
	view.Name = "O'Brien & Co"
	msg, err := r.ClientConfirmation(view)
	require.NoError(t, err)
	assert.Contains(t, msg.Plain, "O'Brien & Co")
	assert.Contains(t, msg.HTML, "O&#39;Brien &amp; Co")
}
