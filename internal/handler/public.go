// This file defines handlers for the public browsing API.  These routes let
// unauthenticated visitors browse venues, news and passed messages.  Public
// listings use the clamped page policy: an out-of-range page number snaps to
// the nearest valid page instead of failing.

package handler

import (
	"errors"
	"net/http"

	"github.com/labstack/echo/v4"

	"github.com/venuehub/venue-reservation/internal/booking"
	"github.com/venuehub/venue-reservation/internal/model"
	"github.com/venuehub/venue-reservation/internal/pagination"
	"github.com/venuehub/venue-reservation/internal/repository"
)

// PublicHandler aggregates repositories needed for unauthenticated browsing.
type PublicHandler struct {
	Venues   *repository.VenueRepo
	News     *repository.NewsRepo
	Messages *repository.MessageRepo
}

func NewPublicHandler(v *repository.VenueRepo, n *repository.NewsRepo, m *repository.MessageRepo) *PublicHandler {
	if v == nil || n == nil || m == nil {
		panic("nil repository passed to NewPublicHandler")
	}
	return &PublicHandler{Venues: v, News: n, Messages: m}
}

// publicVenue is a venue as exposed to unauthenticated clients.
type publicVenue struct {
	ID          uint64 `json:"id"`
	Name        string `json:"name"`
	Description string `json:"description"`
	Price       uint32 `json:"price"`
	Picture     string `json:"picture"`
	Address     string `json:"address"`
	OpenTime    string `json:"open_time"`
	CloseTime   string `json:"close_time"`
}

func toPublicVenue(v model.Venue) publicVenue {
	return publicVenue{
		ID: v.ID, Name: v.Name, Description: v.Description, Price: v.Price,
		Picture: v.Picture, Address: v.Address, OpenTime: v.OpenTime, CloseTime: v.CloseTime,
	}
}

// clampedList fetches one clamped page of a public listing.  The first
// fetch optimistically uses the requested page; its total then resolves
// the clamp, so only an out-of-range page costs a second query.
func clampedList[T any](req pagination.Request, list func(offset, limit int) ([]T, int64, error)) (items []T, page int, total int64, err error) {
	if req.Page < 1 {
		req.Page = 1
	}
	items, total, err = list((req.Page-1)*req.Size, req.Size)
	if err != nil {
		return nil, 0, 0, err
	}
	page, offset := pagination.Clamped(req, pagination.TotalPages(total, req.Size))
	if page != req.Page {
		items, total, err = list(offset, req.Size)
		if err != nil {
			return nil, 0, 0, err
		}
	}
	return items, page, total, nil
}

// ListVenues returns one page of venues ordered by id.  The page number is
// clamped, so page 0 and page 10000 both resolve to a valid page.
func (h *PublicHandler) ListVenues(c echo.Context) error {
	ctx := c.Request().Context()
	req := pageFromQuery(c, pagination.PublicPageSize)

	venues, page, total, err := clampedList(req, func(offset, limit int) ([]model.Venue, int64, error) {
		return h.Venues.List(ctx, offset, limit)
	})
	if err != nil {
		return c.JSON(http.StatusInternalServerError, echo.Map{"error": "database error"})
	}
	out := make([]publicVenue, 0, len(venues))
	for _, v := range venues {
		out = append(out, toPublicVenue(v))
	}
	return c.JSON(http.StatusOK, pageOf(out, page, total, req.Size))
}

// GetVenue returns one venue by id.
func (h *PublicHandler) GetVenue(c echo.Context) error {
	id, err := pathID(c)
	if err != nil {
		return c.JSON(http.StatusBadRequest, echo.Map{"error": "invalid id"})
	}
	v, err := h.Venues.GetByID(c.Request().Context(), id)
	if err != nil {
		if errors.Is(err, booking.ErrVenueNotFound) {
			return c.JSON(http.StatusNotFound, echo.Map{"error": "venue not found"})
		}
		return c.JSON(http.StatusInternalServerError, echo.Map{"error": "database error"})
	}
	return c.JSON(http.StatusOK, toPublicVenue(*v))
}

// ListNews returns one clamped page of news, newest first.
func (h *PublicHandler) ListNews(c echo.Context) error {
	ctx := c.Request().Context()
	req := pageFromQuery(c, pagination.PublicPageSize)

	items, page, total, err := clampedList(req, func(offset, limit int) ([]model.News, int64, error) {
		return h.News.List(ctx, offset, limit)
	})
	if err != nil {
		return c.JSON(http.StatusInternalServerError, echo.Map{"error": "database error"})
	}
	return c.JSON(http.StatusOK, pageOf(items, page, total, req.Size))
}

// GetNews returns one news item by id.
func (h *PublicHandler) GetNews(c echo.Context) error {
	id, err := pathID(c)
	if err != nil {
		return c.JSON(http.StatusBadRequest, echo.Map{"error": "invalid id"})
	}
	n, err := h.News.GetByID(c.Request().Context(), id)
	if err != nil {
		if errors.Is(err, repository.ErrNewsNotFound) {
			return c.JSON(http.StatusNotFound, echo.Map{"error": "news not found"})
		}
		return c.JSON(http.StatusInternalServerError, echo.Map{"error": "database error"})
	}
	return c.JSON(http.StatusOK, n)
}

// ListMessages returns one clamped page of moderated messages, newest first.
// Only messages in the passed state are visible here.
func (h *PublicHandler) ListMessages(c echo.Context) error {
	ctx := c.Request().Context()
	req := pageFromQuery(c, pagination.PublicPageSize)

	items, page, total, err := clampedList(req, func(offset, limit int) ([]repository.MessageDetail, int64, error) {
		return h.Messages.ListByState(ctx, model.MessageStatePassed, offset, limit)
	})
	if err != nil {
		return c.JSON(http.StatusInternalServerError, echo.Map{"error": "database error"})
	}
	return c.JSON(http.StatusOK, pageOf(items, page, total, req.Size))
}
