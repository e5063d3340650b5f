package handler

import (
	"errors"
	"net/http"
	"strings"

	"github.com/labstack/echo/v4"

	"github.com/venuehub/venue-reservation/internal/config"
	"github.com/venuehub/venue-reservation/internal/model"
	"github.com/venuehub/venue-reservation/internal/pagination"
	"github.com/venuehub/venue-reservation/internal/repository"
	"github.com/venuehub/venue-reservation/internal/session"
)

// AdminUserHandler manages user accounts.
type AdminUserHandler struct {
	Cfg   config.Config
	Users *repository.UserRepo
}

func NewAdminUserHandler(cfg config.Config, u *repository.UserRepo) *AdminUserHandler {
	if u == nil {
		panic("nil repository passed to NewAdminUserHandler")
	}
	return &AdminUserHandler{Cfg: cfg, Users: u}
}

type adminUserReq struct {
	Handle   string `json:"handle"`
	Password string `json:"password"`
	Name     string `json:"name"`
	Email    string `json:"email"`
	Phone    string `json:"phone"`
}

type adminUserResp struct {
	ID     uint64 `json:"id"`
	Handle string `json:"handle"`
	Name   string `json:"name"`
	Email  string `json:"email"`
	Phone  string `json:"phone"`
	Admin  bool   `json:"admin"`
}

func toAdminUser(u model.User) adminUserResp {
	return adminUserResp{
		ID: u.ID, Handle: u.Handle, Name: u.Name,
		Email: u.Email, Phone: u.Phone, Admin: u.IsAdmin,
	}
}

// List returns one strict page of users ordered by id.
func (h *AdminUserHandler) List(c echo.Context) error {
	if _, ok := requirePrincipal(c, session.RoleAdmin); !ok {
		return nil
	}
	req := pageFromQuery(c, pagination.AdminPageSize)
	offset, err := pagination.Strict(req)
	if err != nil {
		return c.JSON(http.StatusBadRequest, echo.Map{"error": "invalid page"})
	}
	items, total, err := h.Users.List(c.Request().Context(), offset, req.Size)
	if err != nil {
		return c.JSON(http.StatusInternalServerError, echo.Map{"error": "database error"})
	}
	out := make([]adminUserResp, 0, len(items))
	for _, u := range items {
		out = append(out, toAdminUser(u))
	}
	return c.JSON(http.StatusOK, pageOf(out, req.Page, total, req.Size))
}

// Create provisions a new user account.
func (h *AdminUserHandler) Create(c echo.Context) error {
	if _, ok := requirePrincipal(c, session.RoleAdmin); !ok {
		return nil
	}
	var req adminUserReq
	if err := c.Bind(&req); err != nil {
		return c.JSON(http.StatusBadRequest, echo.Map{"error": "invalid body"})
	}
	handle := strings.ToLower(strings.TrimSpace(req.Handle))
	if handle == "" || req.Password == "" {
		return c.JSON(http.StatusBadRequest, echo.Map{"error": "handle/password required"})
	}
	u := &model.User{
		Handle: handle,
		Name:   strings.TrimSpace(req.Name),
		Email:  strings.TrimSpace(req.Email),
		Phone:  strings.TrimSpace(req.Phone),
	}
	if _, err := h.Users.Create(c.Request().Context(), u, req.Password, h.Cfg.BcryptCost); err != nil {
		if errors.Is(err, repository.ErrHandleExists) {
			return c.JSON(http.StatusConflict, echo.Map{"error": "handle already exists"})
		}
		return c.JSON(http.StatusInternalServerError, echo.Map{"error": "create user failed"})
	}
	return c.JSON(http.StatusCreated, toAdminUser(*u))
}

// Update rewrites a user's profile fields.  The password changes only
// when a new one is supplied.
func (h *AdminUserHandler) Update(c echo.Context) error {
	if _, ok := requirePrincipal(c, session.RoleAdmin); !ok {
		return nil
	}
	id, err := pathID(c)
	if err != nil {
		return c.JSON(http.StatusBadRequest, echo.Map{"error": "invalid id"})
	}
	var req adminUserReq
	if err := c.Bind(&req); err != nil {
		return c.JSON(http.StatusBadRequest, echo.Map{"error": "invalid body"})
	}
	u := &model.User{
		ID:    id,
		Name:  strings.TrimSpace(req.Name),
		Email: strings.TrimSpace(req.Email),
		Phone: strings.TrimSpace(req.Phone),
	}
	if err := h.Users.UpdateProfile(c.Request().Context(), u, req.Password, h.Cfg.BcryptCost); err != nil {
		if errors.Is(err, repository.ErrUserNotFound) {
			return c.JSON(http.StatusNotFound, echo.Map{"error": "user not found"})
		}
		return c.JSON(http.StatusInternalServerError, echo.Map{"error": "update user failed"})
	}
	return c.NoContent(http.StatusNoContent)
}

// Delete removes a user account.
func (h *AdminUserHandler) Delete(c echo.Context) error {
	if _, ok := requirePrincipal(c, session.RoleAdmin); !ok {
		return nil
	}
	id, err := pathID(c)
	if err != nil {
		return c.JSON(http.StatusBadRequest, echo.Map{"error": "invalid id"})
	}
	if err := h.Users.DeleteByID(c.Request().Context(), id); err != nil {
		if errors.Is(err, repository.ErrUserNotFound) {
			return c.JSON(http.StatusNotFound, echo.Map{"error": "user not found"})
		}
		return c.JSON(http.StatusInternalServerError, echo.Map{"error": "delete user failed"})
	}
	return c.NoContent(http.StatusNoContent)
}
