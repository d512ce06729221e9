package middleware

import (
	"net/http"

	"github.com/labstack/echo/v4"

	"github.com/minhvt/bus-ticketing/internal/model"
)

// RequireRole enforces that the authenticated caller holds one of the
// given roles. Callers that passed JWTAuth but lack the role get a 403,
// distinct from the 401 an unauthenticated request receives.
func RequireRole(roles ...model.Role) echo.MiddlewareFunc {
	allowed := make(map[model.Role]bool, len(roles))
	for _, r := range roles {
		allowed[r] = true
	}
	return func(next echo.HandlerFunc) echo.HandlerFunc {
		return func(c echo.Context) error {
			role, ok := Role(c)
			if !ok {
				return c.JSON(http.StatusUnauthorized, echo.Map{"error": "unauthorized"})
			}
			if !allowed[role] {
				return c.JSON(http.StatusForbidden, echo.Map{"error": "forbidden"})
			}
			return next(c)
		}
	}
}
