package handler

import (
	"net/http"
	"strings"

	"github.com/labstack/echo/v4"

	"github.com/maxcrm/maxcrm-api/internal/model"
	"github.com/maxcrm/maxcrm-api/internal/service"
)

// ContactHandler exposes CRUD and search over the caller's contacts.
type ContactHandler struct {
	Svc *service.ContactService
}

func NewContactHandler(svc *service.ContactService) *ContactHandler {
	return &ContactHandler{Svc: svc}
}

// List handles GET /v1/contacts?page&limit.
func (h *ContactHandler) List(c echo.Context) error {
	uid, err := currentUID(c)
	if err != nil {
		return fail(c, http.StatusUnauthorized, "Access token required")
	}
	page, limit := pageParams(c)
	items, pg, err := h.Svc.List(c.Request().Context(), uid, page, limit)
	if err != nil {
		return respondErr(c, err)
	}
	return c.JSON(http.StatusOK, model.Response{Success: true, Data: items, Pagination: pg})
}

// Get handles GET /v1/contacts/:id.
func (h *ContactHandler) Get(c echo.Context) error {
	uid, err := currentUID(c)
	if err != nil {
		return fail(c, http.StatusUnauthorized, "Access token required")
	}
	id, err := parseID(c, "id")
	if err != nil {
		return fail(c, http.StatusBadRequest, "Invalid id")
	}
	contact, err := h.Svc.Get(c.Request().Context(), id, uid)
	if err != nil {
		return respondErr(c, err)
	}
	return c.JSON(http.StatusOK, model.OK(contact))
}

// Search handles GET /v1/contacts/search?q=.
func (h *ContactHandler) Search(c echo.Context) error {
	uid, err := currentUID(c)
	if err != nil {
		return fail(c, http.StatusUnauthorized, "Access token required")
	}
	q := strings.TrimSpace(c.QueryParam("q"))
	if q == "" {
		return fail(c, http.StatusBadRequest, "Search query is required")
	}
	items, err := h.Svc.Search(c.Request().Context(), q, uid)
	if err != nil {
		return respondErr(c, err)
	}
	return c.JSON(http.StatusOK, model.OK(items))
}

// Create handles POST /v1/contacts. The owning user id always
// comes from the token, never from the body.
func (h *ContactHandler) Create(c echo.Context) error {
	uid, err := currentUID(c)
	if err != nil {
		return fail(c, http.StatusUnauthorized, "Access token required")
	}
	var body struct {
		FirstName string  `json:"firstName"`
		LastName  string  `json:"lastName"`
		Email     string  `json:"email"`
		Phone     *string `json:"phone"`
		CompanyID *uint64 `json:"companyId"`
	}
	if err := c.Bind(&body); err != nil {
		return fail(c, http.StatusBadRequest, "Invalid request body")
	}
	body.FirstName = strings.TrimSpace(body.FirstName)
	body.LastName = strings.TrimSpace(body.LastName)
	body.Email = strings.ToLower(strings.TrimSpace(body.Email))
	if body.FirstName == "" || body.LastName == "" {
		return fail(c, http.StatusBadRequest, "First and last name are required")
	}
	if !validEmail(body.Email) {
		return fail(c, http.StatusBadRequest, "Valid email is required")
	}

	contact := &model.Contact{
		FirstName: body.FirstName,
		LastName:  body.LastName,
		Email:     body.Email,
		Phone:     body.Phone,
		CompanyID: body.CompanyID,
	}
	if err := h.Svc.Create(c.Request().Context(), uid, contact); err != nil {
		return respondErr(c, err)
	}
	return c.JSON(http.StatusCreated, model.OKMessage(contact, "Contact created successfully"))
}

// Update handles PUT /v1/contacts/:id with partial-field
// semantics: only keys present in the body are written.
func (h *ContactHandler) Update(c echo.Context) error {
	uid, err := currentUID(c)
	if err != nil {
		return fail(c, http.StatusUnauthorized, "Access token required")
	}
	id, err := parseID(c, "id")
	if err != nil {
		return fail(c, http.StatusBadRequest, "Invalid id")
	}
	var patch model.ContactPatch
	if err := c.Bind(&patch); err != nil {
		return fail(c, http.StatusBadRequest, "Invalid request body")
	}
	if patch.FirstName != nil && strings.TrimSpace(*patch.FirstName) == "" {
		return fail(c, http.StatusBadRequest, "First name cannot be empty")
	}
	if patch.LastName != nil && strings.TrimSpace(*patch.LastName) == "" {
		return fail(c, http.StatusBadRequest, "Last name cannot be empty")
	}
	if patch.Email != nil && !validEmail(*patch.Email) {
		return fail(c, http.StatusBadRequest, "Valid email is required")
	}

	contact, err := h.Svc.Update(c.Request().Context(), id, uid, patch)
	if err != nil {
		return respondErr(c, err)
	}
	return c.JSON(http.StatusOK, model.OKMessage(contact, "Contact updated successfully"))
}

// Delete handles DELETE /v1/contacts/:id.
func (h *ContactHandler) Delete(c echo.Context) error {
	uid, err := currentUID(c)
	if err != nil {
		return fail(c, http.StatusUnauthorized, "Access token required")
	}
	id, err := parseID(c, "id")
	if err != nil {
		return fail(c, http.StatusBadRequest, "Invalid id")
	}
	if err := h.Svc.Delete(c.Request().Context(), id, uid); err != nil {
		return respondErr(c, err)
	}
	return c.JSON(http.StatusOK, model.Response{Success: true, Message: "Contact deleted successfully"})
}
