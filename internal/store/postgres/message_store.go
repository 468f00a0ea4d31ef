package postgres

import (
	"context"
	"fmt"

	"github.com/NomadCrew/portfolio-backend/internal/store"
	"github.com/NomadCrew/portfolio-backend/types"
	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgconn"
)

// Ensure MessageStore implements store.MessageArchive
var _ store.MessageArchive = (*MessageStore)(nil)

// DBTX is the subset of *pgxpool.Pool used by the store. pgxmock pools
// satisfy it as well.
type DBTX interface {
	Exec(ctx context.Context, sql string, args ...any) (pgconn.CommandTag, error)
	Query(ctx context.Context, sql string, args ...any) (pgx.Rows, error)
	QueryRow(ctx context.Context, sql string, args ...any) pgx.Row
	Ping(ctx context.Context) error
}

// MessageStore archives contact messages in PostgreSQL.
type MessageStore struct {
	db DBTX
}

// NewMessageStore creates a message store backed by db.
func NewMessageStore(db DBTX) *MessageStore {
	return &MessageStore{db: db}
}

const insertMessageQuery = `
	INSERT INTO contact_messages (name, email, subject, message, provider, request_id, submitted_at)
	VALUES ($1, $2, $3, $4, $5, $6, $7)
	RETURNING id, created_at`

// SaveMessage inserts msg and fills in its ID and CreatedAt.
func (s *MessageStore) SaveMessage(ctx context.Context, msg *types.ArchivedMessage) (int64, error) {
	if msg == nil {
		return 0, fmt.Errorf("save message: %w", store.ErrInvalidArgument)
	}

	err := s.db.QueryRow(ctx, insertMessageQuery,
		msg.Name,
		msg.Email,
		msg.Subject,
		msg.Message,
		msg.Provider,
		msg.RequestID,
		msg.SubmittedAt,
	).Scan(&msg.ID, &msg.CreatedAt)
	if err != nil {
		return 0, fmt.Errorf("failed to save contact message: %w", err)
	}
	return msg.ID, nil
}

const listMessagesQuery = `
	SELECT id, name, email, subject, message, provider, request_id, submitted_at, created_at
	FROM contact_messages
	ORDER BY created_at DESC, id DESC
	LIMIT $1 OFFSET $2`

// ListMessages returns up to limit messages, newest first.
func (s *MessageStore) ListMessages(ctx context.Context, limit, offset int) ([]types.ArchivedMessage, error) {
	if limit <= 0 || offset < 0 {
		return nil, fmt.Errorf("list messages: %w", store.ErrInvalidArgument)
	}

	rows, err := s.db.Query(ctx, listMessagesQuery, limit, offset)
	if err != nil {
		return nil, fmt.Errorf("failed to list contact messages: %w", err)
	}
	defer rows.Close()

	messages := make([]types.ArchivedMessage, 0, limit)
	for rows.Next() {
		var m types.ArchivedMessage
		if err := rows.Scan(
			&m.ID,
			&m.Name,
			&m.Email,
			&m.Subject,
			&m.Message,
			&m.Provider,
			&m.RequestID,
			&m.SubmittedAt,
			&m.CreatedAt,
		); err != nil {
			return nil, fmt.Errorf("failed to scan contact message: %w", err)
		}
		messages = append(messages, m)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("failed to iterate contact messages: %w", err)
	}
	return messages, nil
}

// CountMessages returns the number of archived messages.
func (s *MessageStore) CountMessages(ctx context.Context) (int, error) {
	var count int
	if err := s.db.QueryRow(ctx, `SELECT COUNT(*) FROM contact_messages`).Scan(&count); err != nil {
		return 0, fmt.Errorf("failed to count contact messages: %w", err)
	}
	return count, nil
}

// Ping checks the database connection.
func (s *MessageStore) Ping(ctx context.Context) error {
	return s.db.Ping(ctx)
}
