//go:build integration

package postgres

import (
	"context"
	"runtime"
	"testing"
	"time"

	"github.com/NomadCrew/portfolio-backend/db"
	"github.com/NomadCrew/portfolio-backend/logger"
	"github.com/jackc/pgx/v5/pgxpool"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/testcontainers/testcontainers-go"
	tcpostgres "github.com/testcontainers/testcontainers-go/modules/postgres"
)

func setupTestDatabase(t *testing.T) *pgxpool.Pool {
	t.Helper()
	if runtime.GOOS == "windows" {
		t.Skip("Skipping integration test on Windows - rootless Docker is not supported")
	}
	logger.IsTest = true

	ctx := context.Background()
	container, err := tcpostgres.Run(ctx, "postgres:16-alpine",
		tcpostgres.WithDatabase("portfolio"),
		tcpostgres.WithUsername("test"),
		tcpostgres.WithPassword("test"),
		tcpostgres.BasicWaitStrategies(),
	)
	testcontainers.CleanupContainer(t, container)
	require.NoError(t, err)

	connURL, err := container.ConnectionString(ctx, "sslmode=disable")
	require.NoError(t, err)
	require.NoError(t, db.RunMigrations(connURL))

	pool, err := pgxpool.New(ctx, connURL)
	require.NoError(t, err)
	t.Cleanup(pool.Close)
	return pool
}

func TestMessageStore_Integration(t *testing.T) {
	pool := setupTestDatabase(t)
	s := NewMessageStore(pool)
	ctx := context.Background()

	require.NoError(t, s.Ping(ctx))

	first := createTestMessage()
	id, err := s.SaveMessage(ctx, first)
	require.NoError(t, err)
	assert.NotZero(t, id)
	assert.False(t, first.CreatedAt.IsZero())

	time.Sleep(10 * time.Millisecond)
	second := createTestMessage()
	second.Subject = "Second subject here"
	_, err = s.SaveMessage(ctx, second)
	require.NoError(t, err)

	count, err := s.CountMessages(ctx)
	require.NoError(t, err)
	assert.Equal(t, 2, count)

	messages, err := s.ListMessages(ctx, 10, 0)
	require.NoError(t, err)
	require.Len(t, messages, 2)
	assert.Equal(t, "Second subject here", messages[0].Subject)
	assert.True(t, messages[1].SubmittedAt.Equal(first.SubmittedAt))

	messages, err = s.ListMessages(ctx, 1, 1)
	require.NoError(t, err)
	require.Len(t, messages, 1)
	assert.Equal(t, first.ID, messages[0].ID)
}
