package service

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	apperrors "github.com/soporteit/support-desk/pkg/util/errorutil"
)

func TestAddWorkHoursRejectsNonPositive(t *testing.T) {
	f := newFixture(t)
	ticket := f.createTicket(t)

	for _, hours := range []float64{0, -1.5, 0.001} {
		_, err := f.hours.AddWorkHours(context.Background(), ticket.Code, WorkHoursInput{TechnicianName: "Luis", Hours: hours})
		require.Error(t, err, "hours=%v", hours)
		assert.True(t, apperrors.IsCode(err, apperrors.CodeValidation))
	}

	entries, err := f.hours.ListWorkHours(context.Background(), ticket.Code)
	require.NoError(t, err)
	assert.Empty(t, entries)
}

func TestWorkHoursTotals(t *testing.T) {
	f := newFixture(t)
	ctx := context.Background()
	ticket := f.createTicket(t)
	other := f.createTicket(t)

	logged := []WorkHoursInput{
		{TechnicianName: "Luis", Hours: 1.5, RecordedBy: "admin"},
		{TechnicianName: "Marta", Hours: 2.25, RecordedBy: "admin"},
		{TechnicianName: "Luis", Hours: 0.25, RecordedBy: "luis"},
	}
	for _, in := range logged {
		_, err := f.hours.AddWorkHours(ctx, ticket.Code, in)
		require.NoError(t, err)
	}
	_, err := f.hours.AddWorkHours(ctx, other.Code, WorkHoursInput{TechnicianName: "Luis", Hours: 3})
	require.NoError(t, err)

	total, err := f.hours.TotalHoursForTicket(ctx, ticket.Code)
	require.NoError(t, err)
	assert.InDelta(t, 4.0, total, 1e-9)

	perTech, err := f.hours.HoursByTechnician(ctx, &ticket.Code)
	require.NoError(t, err)
	require.Len(t, perTech, 2)
	assert.Equal(t, "Luis", perTech[0].TechnicianName)
	assert.InDelta(t, 1.75, perTech[0].TotalHours, 1e-9)
	assert.Equal(t, 2, perTech[0].Entries)

	everywhere, err := f.hours.HoursByTechnician(ctx, nil)
	require.NoError(t, err)
	var sum float64
	for _, agg := range everywhere {
		sum += agg.TotalHours
	}
	assert.InDelta(t, 7.0, sum, 1e-9)
}

func TestUpdateAndDeleteWorkHours(t *testing.T) {
	f := newFixture(t)
	ctx := context.Background()
	ticket := f.createTicket(t)

	entry, err := f.hours.AddWorkHours(ctx, ticket.Code, WorkHoursInput{TechnicianName: "Luis", Hours: 1})
	require.NoError(t, err)

	_, err = f.hours.UpdateWorkHours(ctx, entry.ID, WorkHoursInput{TechnicianName: "Luis", Hours: 0})
	assert.True(t, apperrors.IsCode(err, apperrors.CodeValidation))

	updated, err := f.hours.UpdateWorkHours(ctx, entry.ID, WorkHoursInput{TechnicianName: "Marta", Hours: 2.5, Description: "cableado"})
	require.NoError(t, err)
	assert.Equal(t, "Marta", updated.TechnicianName)

	total, err := f.hours.TotalHoursForTicket(ctx, ticket.Code)
	require.NoError(t, err)
	assert.InDelta(t, 2.5, total, 1e-9)

	require.NoError(t, f.hours.DeleteWorkHours(ctx, entry.ID))
	assert.True(t, apperrors.IsCode(f.hours.DeleteWorkHours(ctx, entry.ID), apperrors.CodeNotFound))
}

func TestWorkHoursReadOnlyOnArchivedTicket(t *testing.T) {
	f := newFixture(t)
	ctx := context.Background()
	ticket := f.createTicket(t)

	entry, err := f.hours.AddWorkHours(ctx, ticket.Code, WorkHoursInput{TechnicianName: "Luis", Hours: 1})
	require.NoError(t, err)
	require.NoError(t, f.tickets.ArchiveTicket(ctx, ticket.Code, "admin"))

	_, err = f.hours.UpdateWorkHours(ctx, entry.ID, WorkHoursInput{TechnicianName: "Luis", Hours: 3})
	assert.True(t, apperrors.IsCode(err, apperrors.CodeNotFound))
	assert.True(t, apperrors.IsCode(f.hours.DeleteWorkHours(ctx, entry.ID), apperrors.CodeNotFound))

	total, err := f.hours.TotalHoursForTicket(ctx, ticket.Code)
	require.NoError(t, err)
	assert.InDelta(t, 1.0, total, 1e-9)

	require.NoError(t, f.tickets.RestoreTicket(ctx, ticket.Code, "admin"))
	require.NoError(t, f.hours.DeleteWorkHours(ctx, entry.ID))
}
