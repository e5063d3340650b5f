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

// AdminNewsHandler manages published news items.
type AdminNewsHandler struct {
	News *repository.NewsRepo
}

func NewAdminNewsHandler(n *repository.NewsRepo) *AdminNewsHandler {
	if n == nil {
		panic("nil repository passed to NewAdminNewsHandler")
	}
	return &AdminNewsHandler{News: n}
}

type newsReq struct {
	Title   string `json:"title"`
	Content string `json:"content"`
}

// List returns one strict page of news, newest first.
func (h *AdminNewsHandler) List(c echo.Context) error {
	if _, ok := requirePrincipal(c, session.RoleAdmin); !ok {
		return nil
	}
	req := pageFromQuery(c, pagination.AdminPageSize)
	offset, err := pagination.Strict(req)
	if err != nil {
		return c.JSON(http.StatusBadRequest, echo.Map{"error": "invalid page"})
	}
	items, total, err := h.News.List(c.Request().Context(), offset, req.Size)
	if err != nil {
		return c.JSON(http.StatusInternalServerError, echo.Map{"error": "database error"})
	}
	return c.JSON(http.StatusOK, pageOf(items, req.Page, total, req.Size))
}

// Create publishes a news item stamped with the current time.
func (h *AdminNewsHandler) Create(c echo.Context) error {
	if _, ok := requirePrincipal(c, session.RoleAdmin); !ok {
		return nil
	}
	var req newsReq
	if err := c.Bind(&req); err != nil {
		return c.JSON(http.StatusBadRequest, echo.Map{"error": "invalid body"})
	}
	title := strings.TrimSpace(req.Title)
	if title == "" {
		return c.JSON(http.StatusBadRequest, echo.Map{"error": "title required"})
	}
	n := &model.News{Title: title, Content: req.Content, Time: time.Now().UTC()}
	if err := h.News.Create(c.Request().Context(), n); err != nil {
		return c.JSON(http.StatusInternalServerError, echo.Map{"error": "create news failed"})
	}
	return c.JSON(http.StatusCreated, n)
}

// Update rewrites a news item's title and content.
func (h *AdminNewsHandler) Update(c echo.Context) error {
	if _, ok := requirePrincipal(c, session.RoleAdmin); !ok {
		return nil
	}
	id, err := pathID(c)
	if err != nil {
		return c.JSON(http.StatusBadRequest, echo.Map{"error": "invalid id"})
	}
	var req newsReq
	if err := c.Bind(&req); err != nil {
		return c.JSON(http.StatusBadRequest, echo.Map{"error": "invalid body"})
	}
	title := strings.TrimSpace(req.Title)
	if title == "" {
		return c.JSON(http.StatusBadRequest, echo.Map{"error": "title required"})
	}
	n := &model.News{ID: id, Title: title, Content: req.Content}
	if err := h.News.Update(c.Request().Context(), n); err != nil {
		if errors.Is(err, repository.ErrNewsNotFound) {
			return c.JSON(http.StatusNotFound, echo.Map{"error": "news not found"})
		}
		return c.JSON(http.StatusInternalServerError, echo.Map{"error": "update news failed"})
	}
	return c.NoContent(http.StatusNoContent)
}

// Delete removes a news item.
func (h *AdminNewsHandler) Delete(c echo.Context) error {
	if _, ok := requirePrincipal(c, session.RoleAdmin); !ok {
		return nil
	}
	id, err := pathID(c)
	if err != nil {
		return c.JSON(http.StatusBadRequest, echo.Map{"error": "invalid id"})
	}
	if err := h.News.DeleteByID(c.Request().Context(), id); err != nil {
		if errors.Is(err, repository.ErrNewsNotFound) {
			return c.JSON(http.StatusNotFound, echo.Map{"error": "news not found"})
		}
		return c.JSON(http.StatusInternalServerError, echo.Map{"error": "delete news failed"})
	}
	return c.NoContent(http.StatusNoContent)
}
