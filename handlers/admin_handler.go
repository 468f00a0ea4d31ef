package handlers

import (
	"net/http"

	apperrors "github.com/NomadCrew/portfolio-backend/errors"
	"github.com/NomadCrew/portfolio-backend/internal/store"
	"github.com/NomadCrew/portfolio-backend/types"
	"github.com/gin-gonic/gin"
)

type AdminHandler struct {
	archive store.MessageArchive
}

func NewAdminHandler(archive store.MessageArchive) *AdminHandler {
	return &AdminHandler{archive: archive}
}

// ListMessagesHandler returns archived contact messages, newest first.
// @Summary List archived contact messages
// @Tags admin
// @Produce json
// @Param limit query int false "Page size" default(20)
// @Param offset query int false "Offset" default(0)
// @Success 200 {object} types.ArchivedMessageList
// @Failure 400 {object} types.ErrorResponse "Invalid paging parameters"
// @Failure 401 {object} types.ErrorResponse "Missing or invalid operator token"
// @Failure 500 {object} types.ErrorResponse "Database error"
// @Router /v1/admin/messages [get]
// @Security BearerAuth
func (h *AdminHandler) ListMessagesHandler(c *gin.Context) {
	var params types.PaginationParams
	if err := c.ShouldBindQuery(&params); err != nil {
		_ = c.Error(apperrors.ValidationFailed("Invalid paging parameters", err.Error()))
		return
	}

	ctx := c.Request.Context()
	messages, err := h.archive.ListMessages(ctx, params.Limit, params.Offset)
	if err != nil {
		_ = c.Error(apperrors.NewDatabaseError(err))
		return
	}
	total, err := h.archive.CountMessages(ctx)
	if err != nil {
		_ = c.Error(apperrors.NewDatabaseError(err))
		return
	}

	c.JSON(http.StatusOK, types.ArchivedMessageList{
		Messages: messages,
		Pagination: types.Pagination{
			Limit:  params.Limit,
			Offset: params.Offset,
			Total:  total,
		},
	})
}
