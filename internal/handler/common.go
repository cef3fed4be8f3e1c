// Package handler contains the HTTP layer: thin Echo handlers
// that parse parameters, validate input, call the services and map
// results onto the uniform response envelope.
package handler

import (
	"errors"
	"net/http"
	"strconv"
	"strings"

	"github.com/labstack/echo/v4"

	"github.com/maxcrm/maxcrm-api/internal/middleware"
	"github.com/maxcrm/maxcrm-api/internal/model"
	"github.com/maxcrm/maxcrm-api/internal/repository"
)

// currentUID extracts the authenticated user's id attached by the
// auth middleware.
func currentUID(c echo.Context) (uint64, error) {
	u, ok := middleware.CurrentUser(c)
	if !ok {
		return 0, errors.New("no authenticated user in context")
	}
	return u.ID, nil
}

// parseID parses a numeric path parameter.
func parseID(c echo.Context, name string) (uint64, error) {
	return strconv.ParseUint(c.Param(name), 10, 64)
}

// pageParams reads ?page and ?limit, leaving normalization to the
// service layer.
func pageParams(c echo.Context) (int, int) {
	page, _ := strconv.Atoi(c.QueryParam("page"))
	limit, _ := strconv.Atoi(c.QueryParam("limit"))
	return page, limit
}

// fail is shorthand for a failure envelope with the given status.
func fail(c echo.Context, status int, msg string) error {
	return c.JSON(status, model.Fail(msg))
}

// respondErr maps service errors onto HTTP responses. The
// not-found sentinels become 404s; everything else is a 500 with a
// generic message (the detail is only logged).
func respondErr(c echo.Context, err error) error {
	switch {
	case errors.Is(err, repository.ErrContactNotFound):
		return fail(c, http.StatusNotFound, "Contact not found")
	case errors.Is(err, repository.ErrCompanyNotFound):
		return fail(c, http.StatusNotFound, "Company not found")
	case errors.Is(err, repository.ErrDealNotFound):
		return fail(c, http.StatusNotFound, "Deal not found")
	}
	c.Logger().Error(err)
	return fail(c, http.StatusInternalServerError, "Internal server error")
}

// validEmail applies the minimal shape check used across handlers.
func validEmail(s string) bool {
	at := strings.Index(s, "@")
	return at > 0 && at < len(s)-1
}
