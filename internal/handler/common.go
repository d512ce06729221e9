// Package handler implements the HTTP layer. Each handler bundles the
// repositories it needs; request DTOs live next to the handler that
// binds them.
package handler

import (
	"context"
	"errors"
	"net/http"
	"strconv"
	"time"

	"github.com/labstack/echo/v4"

	"github.com/minhvt/bus-ticketing/internal/middleware"
	"github.com/minhvt/bus-ticketing/internal/model"
	"github.com/minhvt/bus-ticketing/internal/repository"
)

const dbTimeout = 5 * time.Second

// reqCtx derives a bounded context for DB work from the request.
func reqCtx(c echo.Context) (context.Context, context.CancelFunc) {
	return context.WithTimeout(c.Request().Context(), dbTimeout)
}

// writeErr maps storage sentinel errors onto HTTP statuses. Anything
// unrecognized becomes a 500 with a generic message so driver details
// never leak to clients.
func writeErr(c echo.Context, err error) error {
	switch {
	case errors.Is(err, repository.ErrNotFound):
		return c.JSON(http.StatusNotFound, echo.Map{"error": "not found"})
	case errors.Is(err, repository.ErrConflict):
		return c.JSON(http.StatusConflict, echo.Map{"error": "conflict"})
	case errors.Is(err, repository.ErrRestricted):
		return c.JSON(http.StatusConflict, echo.Map{"error": "restricted by dependent records"})
	case errors.Is(err, repository.ErrForbidden):
		return c.JSON(http.StatusForbidden, echo.Map{"error": "forbidden"})
	}
	return c.JSON(http.StatusInternalServerError, echo.Map{"error": "internal error"})
}

func badRequest(c echo.Context, msg string) error {
	return c.JSON(http.StatusBadRequest, echo.Map{"error": msg})
}

// pathID parses a positive numeric path parameter.
func pathID(c echo.Context, name string) (uint64, error) {
	id, err := strconv.ParseUint(c.Param(name), 10, 64)
	if err != nil || id == 0 {
		return 0, errors.New("invalid id")
	}
	return id, nil
}

// pageParams reads ?page and ?page_size with sane defaults and caps.
func pageParams(c echo.Context) (page, pageSize int) {
	page, _ = strconv.Atoi(c.QueryParam("page"))
	if page < 1 {
		page = 1
	}
	pageSize, _ = strconv.Atoi(c.QueryParam("page_size"))
	if pageSize < 1 {
		pageSize = 20
	}
	if pageSize > 100 {
		pageSize = 100
	}
	return page, pageSize
}

// pagedResp is the list envelope for paginated endpoints.
type pagedResp struct {
	Items    any `json:"items"`
	Total    int `json:"total"`
	Page     int `json:"page"`
	PageSize int `json:"page_size"`
}

// caller returns the authenticated user's identity, or a nil error
// with ok=false when the auth middleware did not run on this route.
func caller(c echo.Context) (uint64, model.Role, bool) {
	uid, ok1 := middleware.UserID(c)
	role, ok2 := middleware.Role(c)
	return uid, role, ok1 && ok2
}

// isOwnerOrAdmin reports whether the caller owns the resource or is an
// admin. Handlers use it for the owner-or-admin access rule on
// reservations, notifications and profiles.
func isOwnerOrAdmin(c echo.Context, ownerID uint64) bool {
	uid, role, ok := caller(c)
	if !ok {
		return false
	}
	return uid == ownerID || role == model.RoleAdmin
}
