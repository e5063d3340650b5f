package handler

import (
	"errors"
	"net/http"
	"strings"
	"time"

	"github.com/labstack/echo/v4"

	"github.com/venuehub/venue-reservation/internal/model"
	"github.com/venuehub/venue-reservation/internal/pagination"
	"github.com/venuehub/venue-reservation/internal/repository"
	"github.com/venuehub/venue-reservation/internal/session"
)

// MessageHandler serves a user's own messages.  New and edited messages
// enter the pending state and stay invisible to the public listing until
// an administrator passes them.
type MessageHandler struct {
	Messages *repository.MessageRepo
}

func NewMessageHandler(m *repository.MessageRepo) *MessageHandler {
	if m == nil {
		panic("nil repository passed to NewMessageHandler")
	}
	return &MessageHandler{Messages: m}
}

type messageReq struct {
	Content string `json:"content"`
}

// ListMine returns one strict page of the caller's messages in every
// state, newest first.
func (h *MessageHandler) ListMine(c echo.Context) error {
	p, ok := requirePrincipal(c, session.RoleUser)
	if !ok {
		return nil
	}
	req := pageFromQuery(c, pagination.PublicPageSize)
	offset, err := pagination.Strict(req)
	if err != nil {
		return c.JSON(http.StatusBadRequest, echo.Map{"error": "invalid page"})
	}
	items, total, err := h.Messages.ListByUser(c.Request().Context(), p.UserID, offset, req.Size)
	if err != nil {
		return c.JSON(http.StatusInternalServerError, echo.Map{"error": "database error"})
	}
	return c.JSON(http.StatusOK, pageOf(items, req.Page, total, req.Size))
}

// Create stores a new message in the pending state.
func (h *MessageHandler) Create(c echo.Context) error {
	p, ok := requirePrincipal(c, session.RoleUser)
	if !ok {
		return nil
	}
	var req messageReq
	if err := c.Bind(&req); err != nil {
		return c.JSON(http.StatusBadRequest, echo.Map{"error": "invalid body"})
	}
	content := strings.TrimSpace(req.Content)
	if content == "" {
		return c.JSON(http.StatusBadRequest, echo.Map{"error": "content required"})
	}
	m := &model.Message{UserID: p.UserID, Content: content, Time: time.Now().UTC()}
	if err := h.Messages.Create(c.Request().Context(), m); err != nil {
		return c.JSON(http.StatusInternalServerError, echo.Map{"error": "create message failed"})
	}
	return c.JSON(http.StatusCreated, m)
}

// Update rewrites one of the caller's messages and resets it to pending
// for a fresh moderation pass.
func (h *MessageHandler) Update(c echo.Context) error {
	p, ok := requirePrincipal(c, session.RoleUser)
	if !ok {
		return nil
	}
	id, err := pathID(c)
	if err != nil {
		return c.JSON(http.StatusBadRequest, echo.Map{"error": "invalid id"})
	}
	var req messageReq
	if err := c.Bind(&req); err != nil {
		return c.JSON(http.StatusBadRequest, echo.Map{"error": "invalid body"})
	}
	content := strings.TrimSpace(req.Content)
	if content == "" {
		return c.JSON(http.StatusBadRequest, echo.Map{"error": "content required"})
	}
	if err := h.Messages.UpdateContent(c.Request().Context(), id, p.UserID, content); err != nil {
		switch {
		case errors.Is(err, repository.ErrMessageNotFound):
			return c.JSON(http.StatusNotFound, echo.Map{"error": "message not found"})
		case errors.Is(err, repository.ErrForbidden):
			return c.JSON(http.StatusForbidden, echo.Map{"error": "forbidden"})
		default:
			return c.JSON(http.StatusInternalServerError, echo.Map{"error": "update message failed"})
		}
	}
	return c.NoContent(http.StatusNoContent)
}

// Delete removes one of the caller's messages.
func (h *MessageHandler) Delete(c echo.Context) error {
	p, ok := requirePrincipal(c, session.RoleUser)
	if !ok {
		return nil
	}
	id, err := pathID(c)
	if err != nil {
		return c.JSON(http.StatusBadRequest, echo.Map{"error": "invalid id"})
	}
	if err := h.Messages.DeleteByIDAndUser(c.Request().Context(), id, p.UserID); err != nil {
		switch {
		case errors.Is(err, repository.ErrMessageNotFound):
			return c.JSON(http.StatusNotFound, echo.Map{"error": "message not found"})
		case errors.Is(err, repository.ErrForbidden):
			return c.JSON(http.StatusForbidden, echo.Map{"error": "forbidden"})
		default:
			return c.JSON(http.StatusInternalServerError, echo.Map{"error": "delete message failed"})
		}
	}
	return c.NoContent(http.StatusNoContent)
}
