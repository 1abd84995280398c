package repository_test

import (
	"context"
	"os"
	"testing"
	"time"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"

	"github.com/soporteit/support-desk/internal/domain"
	"github.com/soporteit/support-desk/internal/persistence"
	"github.com/soporteit/support-desk/internal/repository"
)

func setupPostgres(t *testing.T) repository.Set {
	t.Helper()
	dsn := os.Getenv("TEST_POSTGRES_DSN")
	if dsn == "" {
		t.Skip("TEST_POSTGRES_DSN not set; skipping postgres integration tests")
	}
	ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()

	pool, err := pgxpool.New(ctx, dsn)
	if err != nil {
		t.Skipf("postgres not reachable: %v", err)
	}
	if err := pool.Ping(ctx); err != nil {
		pool.Close()
		t.Skipf("postgres not reachable: %v", err)
	}
	t.Cleanup(pool.Close)

	require.NoError(t, persistence.RunMigrations(ctx, pool, zap.NewNop()))
	_, err = pool.Exec(ctx, `TRUNCATE horas_trabajo, whatsapp_contactos, notas, tickets, servicios, usuarios RESTART IDENTITY CASCADE`)
	require.NoError(t, err)
	return repository.NewPostgresSet(pool)
}

func TestPostgresTicketLifecycle(t *testing.T) {
	repos := setupPostgres(t)
	ctx := context.Background()

	ticket := &domain.Ticket{
		Code:        "TKT-PG1-ABCD",
		Name:        "Ana",
		Email:       "ana@x.com",
		Phone:       "600111222",
		Service:     "reparacion",
		Priority:    domain.TicketPriorityMedium,
		Description: "no enciende",
		Status:      domain.TicketStatusPending,
	}
	require.NoError(t, repos.Tickets.Create(ctx, ticket))
	assert.NotZero(t, ticket.ID)

	require.NoError(t, repos.Tickets.UpdateStatus(ctx, ticket.Code, domain.TicketStatusInProgress))
	require.NoError(t, repos.Tickets.Archive(ctx, ticket.Code, "admin"))
	assert.ErrorIs(t, repos.Tickets.UpdateStatus(ctx, ticket.Code, domain.TicketStatusClosed), pgx.ErrNoRows)

	archived, err := repos.Tickets.List(ctx, repository.TicketFilter{Archived: true})
	require.NoError(t, err)
	require.Len(t, archived, 1)
	assert.Equal(t, domain.TicketStatusInProgress, archived[0].Status)

	require.NoError(t, repos.Tickets.Restore(ctx, ticket.Code))

	note := &domain.Note{TicketCode: ticket.Code, Body: "revisado", Author: "luis"}
	require.NoError(t, repos.Notes.Create(ctx, note))
	require.NoError(t, repos.WorkHours.Create(ctx, &domain.WorkHourEntry{
		TicketCode: ticket.Code, TechnicianName: "luis", Hours: 1.25, RecordedBy: "luis",
	}))
	total, err := repos.WorkHours.TotalForTicket(ctx, ticket.Code)
	require.NoError(t, err)
	assert.InDelta(t, 1.25, total, 1e-9)

	require.NoError(t, repos.Tickets.DeleteCascade(ctx, ticket.Code))
	_, err = repos.Notes.GetByID(ctx, note.ID)
	assert.ErrorIs(t, err, pgx.ErrNoRows)
}
