package handler

import (
	"net/http"
	"strings"
	"time"

	"github.com/labstack/echo/v4"

	"github.com/maxcrm/maxcrm-api/internal/model"
	"github.com/maxcrm/maxcrm-api/internal/service"
)

// DealHandler exposes CRUD, search, relationship reads and the
// stats endpoint over the caller's deals.
type DealHandler struct {
	Svc *service.DealService
}

func NewDealHandler(svc *service.DealService) *DealHandler {
	return &DealHandler{Svc: svc}
}

// List handles GET /v1/deals?page&limit.
func (h *DealHandler) List(c echo.Context) error {
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

// Get handles GET /v1/deals/:id.
func (h *DealHandler) Get(c echo.Context) error {
	uid, err := currentUID(c)
	if err != nil {
		return fail(c, http.StatusUnauthorized, "Access token required")
	}
	id, err := parseID(c, "id")
	if err != nil {
		return fail(c, http.StatusBadRequest, "Invalid id")
	}
	deal, err := h.Svc.Get(c.Request().Context(), id, uid)
	if err != nil {
		return respondErr(c, err)
	}
	return c.JSON(http.StatusOK, model.OK(deal))
}

// Search handles GET /v1/deals/search?q=.
func (h *DealHandler) Search(c echo.Context) error {
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

// ByStage handles GET /v1/deals/stage/:stage.
func (h *DealHandler) ByStage(c echo.Context) error {
	uid, err := currentUID(c)
	if err != nil {
		return fail(c, http.StatusUnauthorized, "Access token required")
	}
	stage := c.Param("stage")
	if !model.ValidStage(stage) {
		return fail(c, http.StatusBadRequest, "Invalid stage")
	}
	items, err := h.Svc.ByStage(c.Request().Context(), stage, uid)
	if err != nil {
		return respondErr(c, err)
	}
	return c.JSON(http.StatusOK, model.OK(items))
}

// ByContact handles GET /v1/deals/contact/:id.
func (h *DealHandler) ByContact(c echo.Context) error {
	uid, err := currentUID(c)
	if err != nil {
		return fail(c, http.StatusUnauthorized, "Access token required")
	}
	id, err := parseID(c, "id")
	if err != nil {
		return fail(c, http.StatusBadRequest, "Invalid id")
	}
	items, err := h.Svc.ByContact(c.Request().Context(), id, uid)
	if err != nil {
		return respondErr(c, err)
	}
	return c.JSON(http.StatusOK, model.OK(items))
}

// ByCompany handles GET /v1/deals/company/:id.
func (h *DealHandler) ByCompany(c echo.Context) error {
	uid, err := currentUID(c)
	if err != nil {
		return fail(c, http.StatusUnauthorized, "Access token required")
	}
	id, err := parseID(c, "id")
	if err != nil {
		return fail(c, http.StatusBadRequest, "Invalid id")
	}
	items, err := h.Svc.ByCompany(c.Request().Context(), id, uid)
	if err != nil {
		return respondErr(c, err)
	}
	return c.JSON(http.StatusOK, model.OK(items))
}

// Stats handles GET /v1/deals/stats.
func (h *DealHandler) Stats(c echo.Context) error {
	uid, err := currentUID(c)
	if err != nil {
		return fail(c, http.StatusUnauthorized, "Access token required")
	}
	stats, err := h.Svc.Stats(c.Request().Context(), uid)
	if err != nil {
		return respondErr(c, err)
	}
	return c.JSON(http.StatusOK, model.OK(stats))
}

// Create handles POST /v1/deals. Value must be strictly positive
// and the stage must be one of the six pipeline stages; both are
// rejected here before any store access.
func (h *DealHandler) Create(c echo.Context) error {
	uid, err := currentUID(c)
	if err != nil {
		return fail(c, http.StatusUnauthorized, "Access token required")
	}
	var body struct {
		Title             string     `json:"title"`
		Value             *float64   `json:"value"`
		Stage             string     `json:"stage"`
		ContactID         *uint64    `json:"contactId"`
		CompanyID         *uint64    `json:"companyId"`
		ExpectedCloseDate *time.Time `json:"expectedCloseDate"`
	}
	if err := c.Bind(&body); err != nil {
		return fail(c, http.StatusBadRequest, "Invalid request body")
	}
	body.Title = strings.TrimSpace(body.Title)
	if body.Title == "" {
		return fail(c, http.StatusBadRequest, "Title is required")
	}
	if body.Value == nil || *body.Value <= 0 {
		return fail(c, http.StatusBadRequest, "Value must be a positive number")
	}
	if !model.ValidStage(body.Stage) {
		return fail(c, http.StatusBadRequest, "Invalid stage")
	}

	deal := &model.Deal{
		Title:             body.Title,
		Value:             *body.Value,
		Stage:             body.Stage,
		ContactID:         body.ContactID,
		CompanyID:         body.CompanyID,
		ExpectedCloseDate: body.ExpectedCloseDate,
	}
	if err := h.Svc.Create(c.Request().Context(), uid, deal); err != nil {
		return respondErr(c, err)
	}
	return c.JSON(http.StatusCreated, model.OKMessage(deal, "Deal created successfully"))
}

// Update handles PUT /v1/deals/:id.
func (h *DealHandler) Update(c echo.Context) error {
	uid, err := currentUID(c)
	if err != nil {
		return fail(c, http.StatusUnauthorized, "Access token required")
	}
	id, err := parseID(c, "id")
	if err != nil {
		return fail(c, http.StatusBadRequest, "Invalid id")
	}
	var patch model.DealPatch
	if err := c.Bind(&patch); err != nil {
		return fail(c, http.StatusBadRequest, "Invalid request body")
	}
	if patch.Title != nil && strings.TrimSpace(*patch.Title) == "" {
		return fail(c, http.StatusBadRequest, "Title cannot be empty")
	}
	if patch.Value != nil && *patch.Value <= 0 {
		return fail(c, http.StatusBadRequest, "Value must be a positive number")
	}
	if patch.Stage != nil && !model.ValidStage(*patch.Stage) {
		return fail(c, http.StatusBadRequest, "Invalid stage")
	}

	deal, err := h.Svc.Update(c.Request().Context(), id, uid, patch)
	if err != nil {
		return respondErr(c, err)
	}
	return c.JSON(http.StatusOK, model.OKMessage(deal, "Deal updated successfully"))
}

// Delete handles DELETE /v1/deals/:id.
func (h *DealHandler) Delete(c echo.Context) error {
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
	return c.JSON(http.StatusOK, model.Response{Success: true, Message: "Deal deleted successfully"})
}
