package handlers

import (
	"context"
	"errors"
	"net/http"
	"testing"
	"time"

	"github.com/NomadCrew/portfolio-backend/types"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"
)

type MockMessageArchive struct {
	mock.Mock
}

func (m *MockMessageArchive) SaveMessage(ctx context.Context, msg *types.ArchivedMessage) (int64, error) {
	args := m.Called(ctx, msg)
	return args.Get(0).(int64), args.Error(1)
}

func (m *MockMessageArchive) ListMessages(ctx context.Context, limit, offset int) ([]types.ArchivedMessage, error) {
	args := m.Called(ctx, limit, offset)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]types.ArchivedMessage), args.Error(1)
}

func (m *MockMessageArchive) CountMessages(ctx context.Context) (int, error) {
	args := m.Called(ctx)
	return args.Int(0), args.Error(1)
}

func (m *MockMessageArchive) Ping(ctx context.Context) error {
	return m.Called(ctx).Error(0)
}

func TestListMessagesHandler(t *testing.T) {
	now := time.Date(2025, 3, 1, 12, 0, 0, 0, time.UTC)

	t.Run("default paging", func(t *testing.T) {
		archive := new(MockMessageArchive)
		router := newTestRouter()
		router.GET("/v1/admin/messages", NewAdminHandler(archive).ListMessagesHandler)

		archive.On("ListMessages", mock.Anything, 20, 0).Return([]types.ArchivedMessage{
			{ID: 2, Name: "Jane", Email: "jane@example.com", Provider: "resend", SubmittedAt: now, CreatedAt: now},
		}, nil).Once()
		archive.On("CountMessages", mock.Anything).Return(1, nil).Once()

		w := doJSON(t, router, http.MethodGet, "/v1/admin/messages", nil)
		require.Equal(t, http.StatusOK, w.Code)
		list := decode[types.ArchivedMessageList](t, w)
		require.Len(t, list.Messages, 1)
		assert.Equal(t, int64(2), list.Messages[0].ID)
		assert.Equal(t, types.Pagination{Limit: 20, Offset: 0, Total: 1}, list.Pagination)
		archive.AssertExpectations(t)
	})

	t.Run("invalid limit", func(t *testing.T) {
		archive := new(MockMessageArchive)
		router := newTestRouter()
		router.GET("/v1/admin/messages", NewAdminHandler(archive).ListMessagesHandler)

		w := doJSON(t, router, http.MethodGet, "/v1/admin/messages?limit=500", nil)
		assert.Equal(t, http.StatusBadRequest, w.Code)
		archive.AssertNotCalled(t, "ListMessages", mock.Anything, mock.Anything, mock.Anything)
	})

	t.Run("database error", func(t *testing.T) {
		archive := new(MockMessageArchive)
		router := newTestRouter()
		router.GET("/v1/admin/messages", NewAdminHandler(archive).ListMessagesHandler)

		archive.On("ListMessages", mock.Anything, 10, 5).Return(nil, errors.New("connection reset")).Once()

		w := doJSON(t, router, http.MethodGet, "/v1/admin/messages?limit=10&offset=5", nil)
		assert.Equal(t, http.StatusInternalServerError, w.Code)
		assert.NotContains(t, w.Body.String(), "connection reset")
	})
}
