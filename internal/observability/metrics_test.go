package observability

import (
	"errors"
	"testing"
	"time"

	"github.com/prometheus/client_golang/prometheus/testutil"
	"github.com/stretchr/testify/assert"
)

func TestMetricsCounters(t *testing.T) {
	m := NewMetrics("desk_test")

	m.RecordRequest("/tickets", "POST", 201, 15*time.Millisecond)
	m.RecordRequest("/tickets", "POST", 201, 5*time.Millisecond)
	m.RecordError("/tickets/:code/status", "PATCH", "INVALID_STATE")
	m.RecordTicketCreated()
	m.RecordNotification("client_confirmation", nil)
	m.RecordNotification("client_confirmation", errors.New("smtp down"))

	assert.Equal(t, 2.0, testutil.ToFloat64(m.requestCount.WithLabelValues("/tickets", "POST", "201")))
	assert.Equal(t, 1.0, testutil.ToFloat64(m.errorCount.WithLabelValues("/tickets/:code/status", "PATCH", "INVALID_STATE")))
	assert.Equal(t, 1.0, testutil.ToFloat64(m.ticketsCreated))
	assert.Equal(t, 1.0, testutil.ToFloat64(m.notifications.WithLabelValues("client_confirmation", "failed")))
}

func TestNilMetricsIsSafe(t *testing.T) {
	var m *Metrics
	assert.NotPanics(t, func() {
		m.RecordRequest("/", "GET", 200, time.Millisecond)
		m.RecordError("/", "GET", "NOT_FOUND")
		m.RecordTicketCreated()
		m.RecordNotification("support", nil)
	})
}
