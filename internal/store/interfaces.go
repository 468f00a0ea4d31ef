package store

import (
	"context"

	"github.com/NomadCrew/portfolio-backend/types"
)

// MessageArchive keeps a copy of every delivered contact message.
type MessageArchive interface {
	// SaveMessage stores msg and returns its generated ID.
	SaveMessage(ctx context.Context, msg *types.ArchivedMessage) (int64, error)
	// ListMessages returns archived messages, newest first.
	ListMessages(ctx context.Context, limit, offset int) ([]types.ArchivedMessage, error)
	// CountMessages returns the number of archived messages.
	CountMessages(ctx context.Context) (int, error)
	Ping(ctx context.Context) error
}
