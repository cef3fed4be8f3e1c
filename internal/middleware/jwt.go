package middleware

import (
	"context"
	"errors"
	"net/http"
	"strings"
	"time"

	"github.com/labstack/echo/v4"

	"github.com/maxcrm/maxcrm-api/internal/model"
	"github.com/maxcrm/maxcrm-api/internal/repository"
	"github.com/maxcrm/maxcrm-api/internal/utils"
)

// UserSource resolves a token subject to a full user row. The auth
// middleware uses it to reject tokens whose user has since been
// deleted.
type UserSource interface {
	GetByID(ctx context.Context, id uint64) (*model.User, error)
}

// Auth returns an Echo middleware that validates a Bearer access
// token, resolves the acting user from the store and attaches it
// to the request context. A missing token yields 401; an invalid,
// expired or orphaned token yields 403. Handlers read the identity
// via CurrentUser.
func Auth(secret string, users UserSource) echo.MiddlewareFunc {
	return func(next echo.HandlerFunc) echo.HandlerFunc {
		return func(c echo.Context) error {
			header := c.Request().Header.Get("Authorization")
			if !strings.HasPrefix(header, "Bearer ") {
				return c.JSON(http.StatusUnauthorized, model.Fail("Access token required"))
			}
			raw := strings.TrimPrefix(header, "Bearer ")

			claims, err := utils.ParseAccessToken(secret, raw)
			if err != nil {
				return c.JSON(http.StatusForbidden, model.Fail("Invalid or expired token"))
			}

			ctx, cancel := context.WithTimeout(c.Request().Context(), 5*time.Second)
			defer cancel()
			u, err := users.GetByID(ctx, claims.UserID)
			if err != nil {
				if errors.Is(err, repository.ErrUserNotFound) {
					return c.JSON(http.StatusForbidden, model.Fail("Invalid or expired token"))
				}
				return c.JSON(http.StatusInternalServerError, model.Fail("Internal server error"))
			}

			c.Set("user", u)
			c.Set("user_id", u.ID)
			c.Set("role", u.Role)
			return next(c)
		}
	}
}

// CurrentUser returns the user attached by Auth, or false when the
// request did not pass through it.
func CurrentUser(c echo.Context) (*model.User, bool) {
	u, ok := c.Get("user").(*model.User)
	return u, ok
}
