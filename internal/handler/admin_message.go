package handler

import (
	"errors"
	"net/http"

	"github.com/labstack/echo/v4"

	"github.com/venuehub/venue-reservation/internal/model"
	"github.com/venuehub/venue-reservation/internal/pagination"
	"github.com/venuehub/venue-reservation/internal/repository"
	"github.com/venuehub/venue-reservation/internal/session"
)

// AdminMessageHandler moderates user messages.
type AdminMessageHandler struct {
	Messages *repository.MessageRepo
}

func NewAdminMessageHandler(m *repository.MessageRepo) *AdminMessageHandler {
	if m == nil {
		panic("nil repository passed to NewAdminMessageHandler")
	}
	return &AdminMessageHandler{Messages: m}
}

// List returns one strict page of messages awaiting moderation.
func (h *AdminMessageHandler) List(c echo.Context) error {
	if _, ok := requirePrincipal(c, session.RoleAdmin); !ok {
		return nil
	}
	req := pageFromQuery(c, pagination.AdminPageSize)
	offset, err := pagination.Strict(req)
	if err != nil {
		return c.JSON(http.StatusBadRequest, echo.Map{"error": "invalid page"})
	}
	items, total, err := h.Messages.ListByState(c.Request().Context(), model.MessageStatePending, offset, req.Size)
	if err != nil {
		return c.JSON(http.StatusInternalServerError, echo.Map{"error": "database error"})
	}
	return c.JSON(http.StatusOK, pageOf(items, req.Page, total, req.Size))
}

// Pass marks a message as approved, making it publicly visible.
func (h *AdminMessageHandler) Pass(c echo.Context) error {
	return h.moderate(c, model.MessageStatePassed)
}

// Reject marks a message as rejected.
func (h *AdminMessageHandler) Reject(c echo.Context) error {
	return h.moderate(c, model.MessageStateRejected)
}

func (h *AdminMessageHandler) moderate(c echo.Context, state int) error {
	if _, ok := requirePrincipal(c, session.RoleAdmin); !ok {
		return nil
	}
	id, err := pathID(c)
	if err != nil {
		return c.JSON(http.StatusBadRequest, echo.Map{"error": "invalid id"})
	}
	if err := h.Messages.SetState(c.Request().Context(), id, state); err != nil {
		if errors.Is(err, repository.ErrMessageNotFound) {
			return c.JSON(http.StatusNotFound, echo.Map{"error": "message not found"})
		}
		return c.JSON(http.StatusInternalServerError, echo.Map{"error": "moderate message failed"})
	}
	return c.NoContent(http.StatusNoContent)
}

// Delete removes a message outright.
func (h *AdminMessageHandler) Delete(c echo.Context) error {
	if _, ok := requirePrincipal(c, session.RoleAdmin); !ok {
		return nil
	}
	id, err := pathID(c)
	if err != nil {
		return c.JSON(http.StatusBadRequest, echo.Map{"error": "invalid id"})
	}
	if err := h.Messages.DeleteByID(c.Request().Context(), id); err != nil {
		if errors.Is(err, repository.ErrMessageNotFound) {
			return c.JSON(http.StatusNotFound, echo.Map{"error": "message not found"})
		}
		return c.JSON(http.StatusInternalServerError, echo.Map{"error": "delete message failed"})
	}
	return c.NoContent(http.StatusNoContent)
}
