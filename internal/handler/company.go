package handler

import (
	"net/http"
	"strings"

	"github.com/labstack/echo/v4"

	"github.com/maxcrm/maxcrm-api/internal/model"
	"github.com/maxcrm/maxcrm-api/internal/service"
)

// CompanyHandler exposes CRUD and search over the caller's
// companies plus the company-to-contacts relationship read.
type CompanyHandler struct {
	Svc      *service.CompanyService
	Contacts *service.ContactService
}

func NewCompanyHandler(svc *service.CompanyService, contacts *service.ContactService) *CompanyHandler {
	return &CompanyHandler{Svc: svc, Contacts: contacts}
}

// List handles GET /v1/companies?page&limit.
func (h *CompanyHandler) List(c echo.Context) error {
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

// Get handles GET /v1/companies/:id.
func (h *CompanyHandler) Get(c echo.Context) error {
	uid, err := currentUID(c)
	if err != nil {
		return fail(c, http.StatusUnauthorized, "Access token required")
	}
	id, err := parseID(c, "id")
	if err != nil {
		return fail(c, http.StatusBadRequest, "Invalid id")
	}
	company, err := h.Svc.Get(c.Request().Context(), id, uid)
	if err != nil {
		return respondErr(c, err)
	}
	return c.JSON(http.StatusOK, model.OK(company))
}

// Search handles GET /v1/companies/search?q=.
func (h *CompanyHandler) Search(c echo.Context) error {
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

// ListContacts handles GET /v1/companies/:id/contacts. The company
// is fetched first so a foreign company id 404s instead of
// returning an empty list.
func (h *CompanyHandler) ListContacts(c echo.Context) error {
	uid, err := currentUID(c)
	if err != nil {
		return fail(c, http.StatusUnauthorized, "Access token required")
	}
	id, err := parseID(c, "id")
	if err != nil {
		return fail(c, http.StatusBadRequest, "Invalid id")
	}
	if _, err := h.Svc.Get(c.Request().Context(), id, uid); err != nil {
		return respondErr(c, err)
	}
	items, err := h.Contacts.ByCompany(c.Request().Context(), id, uid)
	if err != nil {
		return respondErr(c, err)
	}
	return c.JSON(http.StatusOK, model.OK(items))
}

// Create handles POST /v1/companies.
func (h *CompanyHandler) Create(c echo.Context) error {
	uid, err := currentUID(c)
	if err != nil {
		return fail(c, http.StatusUnauthorized, "Access token required")
	}
	var body struct {
		Name     string  `json:"name"`
		Website  *string `json:"website"`
		Industry *string `json:"industry"`
		Size     *string `json:"size"`
	}
	if err := c.Bind(&body); err != nil {
		return fail(c, http.StatusBadRequest, "Invalid request body")
	}
	body.Name = strings.TrimSpace(body.Name)
	if body.Name == "" {
		return fail(c, http.StatusBadRequest, "Name is required")
	}

	company := &model.Company{
		Name:     body.Name,
		Website:  body.Website,
		Industry: body.Industry,
		Size:     body.Size,
	}
	if err := h.Svc.Create(c.Request().Context(), uid, company); err != nil {
		return respondErr(c, err)
	}
	return c.JSON(http.StatusCreated, model.OKMessage(company, "Company created successfully"))
}

// Update handles PUT /v1/companies/:id.
func (h *CompanyHandler) Update(c echo.Context) error {
	uid, err := currentUID(c)
	if err != nil {
		return fail(c, http.StatusUnauthorized, "Access token required")
	}
	id, err := parseID(c, "id")
	if err != nil {
		return fail(c, http.StatusBadRequest, "Invalid id")
	}
	var patch model.CompanyPatch
	if err := c.Bind(&patch); err != nil {
		return fail(c, http.StatusBadRequest, "Invalid request body")
	}
	if patch.Name != nil && strings.TrimSpace(*patch.Name) == "" {
		return fail(c, http.StatusBadRequest, "Name cannot be empty")
	}

	company, err := h.Svc.Update(c.Request().Context(), id, uid, patch)
	if err != nil {
		return respondErr(c, err)
	}
	return c.JSON(http.StatusOK, model.OKMessage(company, "Company updated successfully"))
}

// Delete handles DELETE /v1/companies/:id.
func (h *CompanyHandler) Delete(c echo.Context) error {
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
	return c.JSON(http.StatusOK, model.Response{Success: true, Message: "Company deleted successfully"})
}
