package postgres

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/NomadCrew/portfolio-backend/internal/store"
	"github.com/NomadCrew/portfolio-backend/types"
	"github.com/pashagolub/pgxmock/v4"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func newMockStore(t *testing.T) (*MessageStore, pgxmock.PgxPoolIface) {
	t.Helper()
	mock, err := pgxmock.NewPool()
	require.NoError(t, err)
	t.Cleanup(mock.Close)
	return NewMessageStore(mock), mock
}

func createTestMessage() *types.ArchivedMessage {
	return &types.ArchivedMessage{
		Name:        "John Doe",
		Email:       "john@example.com",
		Subject:     "Web Development Project",
		Message:     "I need a portfolio site.",
		Provider:    "emailjs",
		RequestID:   "req-1",
		SubmittedAt: time.Date(2025, 3, 1, 12, 0, 0, 0, time.UTC),
	}
}

func TestMessageStore_SaveMessage(t *testing.T) {
	ctx := context.Background()

	t.Run("successful insert", func(t *testing.T) {
		s, mock := newMockStore(t)
		msg := createTestMessage()
		created := time.Date(2025, 3, 1, 12, 0, 1, 0, time.UTC)

		mock.ExpectQuery("INSERT INTO contact_messages").
			WithArgs(msg.Name, msg.Email, msg.Subject, msg.Message, msg.Provider, msg.RequestID, msg.SubmittedAt).
			WillReturnRows(pgxmock.NewRows([]string{"id", "created_at"}).AddRow(int64(42), created))

		id, err := s.SaveMessage(ctx, msg)
		require.NoError(t, err)
		assert.Equal(t, int64(42), id)
		assert.Equal(t, int64(42), msg.ID)
		assert.Equal(t, created, msg.CreatedAt)
		assert.NoError(t, mock.ExpectationsWereMet())
	})

	t.Run("database error", func(t *testing.T) {
		s, mock := newMockStore(t)
		msg := createTestMessage()

		mock.ExpectQuery("INSERT INTO contact_messages").
			WithArgs(msg.Name, msg.Email, msg.Subject, msg.Message, msg.Provider, msg.RequestID, msg.SubmittedAt).
			WillReturnError(errors.New("connection refused"))

		_, err := s.SaveMessage(ctx, msg)
		require.Error(t, err)
		assert.Contains(t, err.Error(), "failed to save contact message")
		assert.NoError(t, mock.ExpectationsWereMet())
	})

	t.Run("nil message", func(t *testing.T) {
		s, _ := newMockStore(t)
		_, err := s.SaveMessage(ctx, nil)
		assert.ErrorIs(t, err, store.ErrInvalidArgument)
	})
}

func TestMessageStore_ListMessages(t *testing.T) {
	ctx := context.Background()
	columns := []string{"id", "name", "email", "subject", "message", "provider", "request_id", "submitted_at", "created_at"}
	now := time.Date(2025, 3, 1, 12, 0, 0, 0, time.UTC)

	t.Run("returns rows in order", func(t *testing.T) {
		s, mock := newMockStore(t)

		mock.ExpectQuery("SELECT (.+) FROM contact_messages").
			WithArgs(10, 0).
			WillReturnRows(pgxmock.NewRows(columns).
				AddRow(int64(2), "Jane", "jane@example.com", "Second subject", "Second message", "resend", "", now, now).
				AddRow(int64(1), "John", "john@example.com", "First subject", "First message", "emailjs", "req-1", now, now))

		messages, err := s.ListMessages(ctx, 10, 0)
		require.NoError(t, err)
		require.Len(t, messages, 2)
		assert.Equal(t, int64(2), messages[0].ID)
		assert.Equal(t, "resend", messages[0].Provider)
		assert.Equal(t, "req-1", messages[1].RequestID)
		assert.NoError(t, mock.ExpectationsWereMet())
	})

	t.Run("empty result", func(t *testing.T) {
		s, mock := newMockStore(t)

		mock.ExpectQuery("SELECT (.+) FROM contact_messages").
			WithArgs(5, 5).
			WillReturnRows(pgxmock.NewRows(columns))

		messages, err := s.ListMessages(ctx, 5, 5)
		require.NoError(t, err)
		assert.NotNil(t, messages)
		assert.Empty(t, messages)
	})

	t.Run("query error", func(t *testing.T) {
		s, mock := newMockStore(t)

		mock.ExpectQuery("SELECT (.+) FROM contact_messages").
			WithArgs(10, 0).
			WillReturnError(errors.New("timeout"))

		_, err := s.ListMessages(ctx, 10, 0)
		require.Error(t, err)
		assert.Contains(t, err.Error(), "failed to list contact messages")
	})

	t.Run("invalid paging", func(t *testing.T) {
		s, _ := newMockStore(t)
		_, err := s.ListMessages(ctx, 0, 0)
		assert.ErrorIs(t, err, store.ErrInvalidArgument)
		_, err = s.ListMessages(ctx, 10, -1)
		assert.ErrorIs(t, err, store.ErrInvalidArgument)
	})
}

func TestMessageStore_CountAndPing(t *testing.T) {
	ctx := context.Background()
	s, mock := newMockStore(t)

	mock.ExpectQuery("SELECT COUNT").
		WillReturnRows(pgxmock.NewRows([]string{"count"}).AddRow(7))
	count, err := s.CountMessages(ctx)
	require.NoError(t, err)
	assert.Equal(t, 7, count)

	mock.ExpectPing()
	assert.NoError(t, s.Ping(ctx))

	mock.ExpectPing().WillReturnError(errors.New("down"))
	assert.Error(t, s.Ping(ctx))

	assert.NoError(t, mock.ExpectationsWereMet())
}
