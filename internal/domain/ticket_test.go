package domain

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
)

func TestParseTicketStatus(t *testing.T) {
	cases := map[string]TicketStatus{
		"pendiente":   TicketStatusPending,
		"in_progress": TicketStatusInProgress,
		" Resolved ":  TicketStatusResolved,
		"cerrado":     TicketStatusClosed,
	}
	for raw, want := range cases {
		got, ok := ParseTicketStatus(raw)
		assert.True(t, ok, raw)
		assert.Equal(t, want, got, raw)
	}

	_, ok := ParseTicketStatus("reopened")
	assert.False(t, ok)
	_, ok = ParseTicketStatus("")
	assert.False(t, ok)
}

func TestParseTicketPriorityDefaultsToMedium(t *testing.T) {
	got, ok := ParseTicketPriority("")
	assert.True(t, ok)
	assert.Equal(t, TicketPriorityMedium, got)

	got, ok = ParseTicketPriority("urgent")
	assert.True(t, ok)
	assert.Equal(t, TicketPriorityUrgent, got)

	_, ok = ParseTicketPriority("critical")
	assert.False(t, ok)
}

func TestArchiveInfo(t *testing.T) {
	var info ArchiveInfo
	assert.False(t, info.IsArchived())

	at := time.Date(2024, 5, 1, 10, 0, 0, 0, time.UTC)
	info.MarkArchived("admin", at)
	assert.True(t, info.IsArchived())
	assert.Equal(t, "admin", *info.ArchivedBy)
	assert.Equal(t, at, *info.ArchivedAt)

	info.Clear()
	assert.False(t, info.IsArchived())
	assert.Nil(t, info.ArchivedBy)
	assert.Nil(t, info.ArchivedAt)
}

func TestSessionExpired(t *testing.T) {
	now := time.Now()
	s := Session{ExpiresAt: now.Add(time.Minute)}
	assert.False(t, s.Expired(now))
	assert.True(t, s.Expired(now.Add(time.Minute)))
}
