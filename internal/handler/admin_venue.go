package handler

import (
	"errors"
	"net/http"
	"strings"

	"github.com/labstack/echo/v4"

	"github.com/venuehub/venue-reservation/internal/booking"
	"github.com/venuehub/venue-reservation/internal/model"
	"github.com/venuehub/venue-reservation/internal/pagination"
	"github.com/venuehub/venue-reservation/internal/repository"
	"github.com/venuehub/venue-reservation/internal/session"
)

// AdminVenueHandler manages the venue catalogue.
type AdminVenueHandler struct {
	Venues *repository.VenueRepo
}

func NewAdminVenueHandler(v *repository.VenueRepo) *AdminVenueHandler {
	if v == nil {
		panic("nil repository passed to NewAdminVenueHandler")
	}
	return &AdminVenueHandler{Venues: v}
}

type venueReq struct {
	Name        string `json:"name"`
	Description string `json:"description"`
	Price       uint32 `json:"price"`
	Picture     string `json:"picture"`
	Address     string `json:"address"`
	OpenTime    string `json:"open_time"`  // "HH:MM"
	CloseTime   string `json:"close_time"` // "HH:MM"
}

func (r *venueReq) toModel() (*model.Venue, error) {
	name := strings.TrimSpace(r.Name)
	if name == "" {
		return nil, errors.New("name required")
	}
	if err := booking.ValidateWallClock(r.OpenTime); err != nil {
		return nil, errors.New("invalid open_time")
	}
	if err := booking.ValidateWallClock(r.CloseTime); err != nil {
		return nil, errors.New("invalid close_time")
	}
	return &model.Venue{
		Name:        name,
		Description: r.Description,
		Price:       r.Price,
		Picture:     strings.TrimSpace(r.Picture),
		Address:     strings.TrimSpace(r.Address),
		OpenTime:    r.OpenTime,
		CloseTime:   r.CloseTime,
	}, nil
}

// List returns one strict page of venues ordered by id.
func (h *AdminVenueHandler) List(c echo.Context) error {
	if _, ok := requirePrincipal(c, session.RoleAdmin); !ok {
		return nil
	}
	req := pageFromQuery(c, pagination.AdminPageSize)
	offset, err := pagination.Strict(req)
	if err != nil {
		return c.JSON(http.StatusBadRequest, echo.Map{"error": "invalid page"})
	}
	items, total, err := h.Venues.List(c.Request().Context(), offset, req.Size)
	if err != nil {
		return c.JSON(http.StatusInternalServerError, echo.Map{"error": "database error"})
	}
	out := make([]publicVenue, 0, len(items))
	for _, v := range items {
		out = append(out, toPublicVenue(v))
	}
	return c.JSON(http.StatusOK, pageOf(out, req.Page, total, req.Size))
}

// Create adds a venue.  Venue names are unique.
func (h *AdminVenueHandler) Create(c echo.Context) error {
	if _, ok := requirePrincipal(c, session.RoleAdmin); !ok {
		return nil
	}
	var req venueReq
	if err := c.Bind(&req); err != nil {
		return c.JSON(http.StatusBadRequest, echo.Map{"error": "invalid body"})
	}
	v, err := req.toModel()
	if err != nil {
		return c.JSON(http.StatusBadRequest, echo.Map{"error": err.Error()})
	}
	if err := h.Venues.Create(c.Request().Context(), v); err != nil {
		if errors.Is(err, repository.ErrVenueNameExists) {
			return c.JSON(http.StatusConflict, echo.Map{"error": "venue name already exists"})
		}
		return c.JSON(http.StatusInternalServerError, echo.Map{"error": "create venue failed"})
	}
	return c.JSON(http.StatusCreated, toPublicVenue(*v))
}

// Update rewrites a venue.
func (h *AdminVenueHandler) Update(c echo.Context) error {
	if _, ok := requirePrincipal(c, session.RoleAdmin); !ok {
		return nil
	}
	id, err := pathID(c)
	if err != nil {
		return c.JSON(http.StatusBadRequest, echo.Map{"error": "invalid id"})
	}
	var req venueReq
	if err := c.Bind(&req); err != nil {
		return c.JSON(http.StatusBadRequest, echo.Map{"error": "invalid body"})
	}
	v, err := req.toModel()
	if err != nil {
		return c.JSON(http.StatusBadRequest, echo.Map{"error": err.Error()})
	}
	v.ID = id
	if err := h.Venues.Update(c.Request().Context(), v); err != nil {
		switch {
		case errors.Is(err, booking.ErrVenueNotFound):
			return c.JSON(http.StatusNotFound, echo.Map{"error": "venue not found"})
		case errors.Is(err, repository.ErrVenueNameExists):
			return c.JSON(http.StatusConflict, echo.Map{"error": "venue name already exists"})
		default:
			return c.JSON(http.StatusInternalServerError, echo.Map{"error": "update venue failed"})
		}
	}
	return c.NoContent(http.StatusNoContent)
}

// Delete removes a venue.  A venue that still has orders cannot be
// deleted and yields a conflict.
func (h *AdminVenueHandler) Delete(c echo.Context) error {
	if _, ok := requirePrincipal(c, session.RoleAdmin); !ok {
		return nil
	}
	id, err := pathID(c)
	if err != nil {
		return c.JSON(http.StatusBadRequest, echo.Map{"error": "invalid id"})
	}
	if err := h.Venues.DeleteByID(c.Request().Context(), id); err != nil {
		switch {
		case errors.Is(err, booking.ErrVenueNotFound):
			return c.JSON(http.StatusNotFound, echo.Map{"error": "venue not found"})
		case errors.Is(err, repository.ErrConflict):
			return c.JSON(http.StatusConflict, echo.Map{"error": "venue has existing orders"})
		default:
			return c.JSON(http.StatusInternalServerError, echo.Map{"error": "delete venue failed"})
		}
	}
	return c.NoContent(http.StatusNoContent)
}
