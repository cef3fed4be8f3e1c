package middleware

import (
	"net/http"

	"github.com/labstack/echo/v4"

	"github.com/maxcrm/maxcrm-api/internal/model"
)

// RequireRole enforces that the authenticated user's role is one
// of the allowed set. It assumes Auth already stored the role in
// the context; an unknown or missing role yields 403.
func RequireRole(roles ...string) echo.MiddlewareFunc {
	allowed := make(map[string]bool, len(roles))
	for _, r := range roles {
		allowed[r] = true
	}
	return func(next echo.HandlerFunc) echo.HandlerFunc {
		return func(c echo.Context) error {
			role, ok := c.Get("role").(string)
			if !ok || !allowed[role] {
				return c.JSON(http.StatusForbidden, model.Fail("Forbidden"))
			}
			return next(c)
		}
	}
}
