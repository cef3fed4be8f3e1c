package handler

import (
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/labstack/echo/v4"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/maxcrm/maxcrm-api/internal/model"
)

// Validation rejections happen before any service access, so a
// zero-value handler is enough for these tests.

func authedCtx(method, target, body string) (echo.Context, *httptest.ResponseRecorder) {
	c, rec := jsonCtx(method, target, body)
	c.Set("user", &model.User{ID: 7, Email: "a@x.com", Role: model.RoleUser})
	return c, rec
}

func TestDealCreateRejectsNonPositiveValue(t *testing.T) {
	for _, body := range []string{
		`{"title":"Big deal","value":-5,"stage":"lead"}`,
		`{"title":"Big deal","value":0,"stage":"lead"}`,
		`{"title":"Big deal","stage":"lead"}`,
	} {
		h := &DealHandler{}
		c, rec := authedCtx(http.MethodPost, "/v1/deals", body)
		require.NoError(t, h.Create(c))
		assert.Equal(t, http.StatusBadRequest, rec.Code, body)
		assert.Contains(t, rec.Body.String(), "Value must be a positive number", body)
	}
}

func TestDealCreateRejectsUnknownStage(t *testing.T) {
	h := &DealHandler{}
	c, rec := authedCtx(http.MethodPost, "/v1/deals",
		`{"title":"Big deal","value":100,"stage":"daydream"}`)
	require.NoError(t, h.Create(c))
	assert.Equal(t, http.StatusBadRequest, rec.Code)
	assert.Contains(t, rec.Body.String(), "Invalid stage")
}

func TestDealCreateRequiresTitle(t *testing.T) {
	h := &DealHandler{}
	c, rec := authedCtx(http.MethodPost, "/v1/deals",
		`{"title":"   ","value":100,"stage":"lead"}`)
	require.NoError(t, h.Create(c))
	assert.Equal(t, http.StatusBadRequest, rec.Code)
	assert.Contains(t, rec.Body.String(), "Title is required")
}

func TestDealCreateWithoutAuthContext(t *testing.T) {
	h := &DealHandler{}
	c, rec := jsonCtx(http.MethodPost, "/v1/deals",
		`{"title":"Big deal","value":100,"stage":"lead"}`)
	require.NoError(t, h.Create(c))
	assert.Equal(t, http.StatusUnauthorized, rec.Code)
}

func TestDealUpdateValidatesProvidedFieldsOnly(t *testing.T) {
	h := &DealHandler{}

	c, rec := authedCtx(http.MethodPut, "/v1/deals/3", `{"value":-1}`)
	c.SetParamNames("id")
	c.SetParamValues("3")
	require.NoError(t, h.Update(c))
	assert.Equal(t, http.StatusBadRequest, rec.Code)
	assert.Contains(t, rec.Body.String(), "Value must be a positive number")

	c, rec = authedCtx(http.MethodPut, "/v1/deals/3", `{"stage":"daydream"}`)
	c.SetParamNames("id")
	c.SetParamValues("3")
	require.NoError(t, h.Update(c))
	assert.Equal(t, http.StatusBadRequest, rec.Code)
	assert.Contains(t, rec.Body.String(), "Invalid stage")
}

func TestDealGetRejectsNonNumericID(t *testing.T) {
	h := &DealHandler{}
	c, rec := authedCtx(http.MethodGet, "/v1/deals/abc", "")
	c.SetParamNames("id")
	c.SetParamValues("abc")
	require.NoError(t, h.Get(c))
	assert.Equal(t, http.StatusBadRequest, rec.Code)
	assert.Contains(t, rec.Body.String(), "Invalid id")
}

func TestDealSearchRequiresQuery(t *testing.T) {
	h := &DealHandler{}
	c, rec := authedCtx(http.MethodGet, "/v1/deals/search?q=++", "")
	require.NoError(t, h.Search(c))
	assert.Equal(t, http.StatusBadRequest, rec.Code)
	assert.Contains(t, rec.Body.String(), "Search query is required")
}
