package handler

import (
	"database/sql"
	"encoding/json"
	"errors"
	"net/http"
	"net/http/httptest"
	"regexp"
	"strings"
	"testing"
	"time"

	"github.com/DATA-DOG/go-sqlmock"
	"github.com/labstack/echo/v4"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"golang.org/x/crypto/bcrypt"

	"github.com/maxcrm/maxcrm-api/internal/config"
	"github.com/maxcrm/maxcrm-api/internal/model"
	"github.com/maxcrm/maxcrm-api/internal/repository"
	"github.com/maxcrm/maxcrm-api/internal/utils"
)

func newAuthHandler(t *testing.T) (*AuthHandler, sqlmock.Sqlmock) {
	t.Helper()
	db, mock, err := sqlmock.New()
	require.NoError(t, err)
	t.Cleanup(func() { _ = db.Close() })
	cfg := config.Config{JWTSecret: "unit-test-secret", TokenTTLDays: 7, BcryptCost: bcrypt.MinCost}
	return NewAuthHandler(cfg, repository.NewUserRepo(db)), mock
}

func jsonCtx(method, target, body string) (echo.Context, *httptest.ResponseRecorder) {
	e := echo.New()
	req := httptest.NewRequest(method, target, strings.NewReader(body))
	req.Header.Set(echo.HeaderContentType, echo.MIMEApplicationJSON)
	rec := httptest.NewRecorder()
	return e.NewContext(req, rec), rec
}

func TestRegisterValidation(t *testing.T) {
	cases := []struct {
		name string
		body string
		want string
	}{
		{"bad email", `{"email":"nope","password":"secret123","firstName":"A","lastName":"B"}`, "Valid email is required"},
		{"short password", `{"email":"a@x.com","password":"short","firstName":"A","lastName":"B"}`, "Password must be at least 8 characters"},
		{"missing names", `{"email":"a@x.com","password":"secret123"}`, "First and last name are required"},
		{"bad role", `{"email":"a@x.com","password":"secret123","firstName":"A","lastName":"B","role":"superuser"}`, "Invalid role"},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			h, _ := newAuthHandler(t)
			c, rec := jsonCtx(http.MethodPost, "/v1/auth/register", tc.body)
			require.NoError(t, h.Register(c))
			assert.Equal(t, http.StatusBadRequest, rec.Code)
			assert.Contains(t, rec.Body.String(), tc.want)
		})
	}
}

func TestRegisterReturnsUserAndToken(t *testing.T) {
	h, mock := newAuthHandler(t)
	now := time.Now()

	mock.ExpectExec(regexp.QuoteMeta("INSERT INTO users")).
		WithArgs("a@x.com", sqlmock.AnyArg(), "Alice", "Smith", model.RoleUser).
		WillReturnResult(sqlmock.NewResult(1, 1))
	mock.ExpectQuery(regexp.QuoteMeta("FROM users WHERE id = ? LIMIT 1")).
		WithArgs(1).
		WillReturnRows(sqlmock.NewRows([]string{
			"id", "email", "password_hash", "first_name", "last_name", "role", "created_at", "updated_at",
		}).AddRow(1, "a@x.com", "hash", "Alice", "Smith", model.RoleUser, now, now))

	c, rec := jsonCtx(http.MethodPost, "/v1/auth/register",
		`{"email":"A@x.com","password":"secret123","firstName":"Alice","lastName":"Smith"}`)
	require.NoError(t, h.Register(c))

	assert.Equal(t, http.StatusCreated, rec.Code)
	body := rec.Body.String()
	assert.Contains(t, body, `"success":true`)
	assert.Contains(t, body, `"token":`)
	// The stored hash never leaves the API.
	assert.NotContains(t, body, "password_hash")
	require.NoError(t, mock.ExpectationsWereMet())
}

func TestRegisterDuplicateEmail(t *testing.T) {
	h, mock := newAuthHandler(t)

	mock.ExpectExec(regexp.QuoteMeta("INSERT INTO users")).
		WillReturnError(errors.New("Error 1062 (23000): Duplicate entry 'a@x.com' for key 'users.email'"))

	c, rec := jsonCtx(http.MethodPost, "/v1/auth/register",
		`{"email":"a@x.com","password":"secret123","firstName":"Alice","lastName":"Smith"}`)
	require.NoError(t, h.Register(c))

	assert.Equal(t, http.StatusBadRequest, rec.Code)
	assert.Contains(t, rec.Body.String(), "User with this email already exists")
	require.NoError(t, mock.ExpectationsWereMet())
}

func TestLoginWrongPasswordAndUnknownUserLookAlike(t *testing.T) {
	now := time.Now()
	hash, err := utils.HashPassword("correct-horse", bcrypt.MinCost)
	require.NoError(t, err)

	h, mock := newAuthHandler(t)
	mock.ExpectQuery(regexp.QuoteMeta("FROM users WHERE email = ? LIMIT 1")).
		WithArgs("a@x.com").
		WillReturnRows(sqlmock.NewRows([]string{
			"id", "email", "password_hash", "first_name", "last_name", "role", "created_at", "updated_at",
		}).AddRow(1, "a@x.com", hash, "Alice", "Smith", model.RoleUser, now, now))

	c, rec := jsonCtx(http.MethodPost, "/v1/auth/login", `{"email":"a@x.com","password":"wrong"}`)
	require.NoError(t, h.Login(c))
	assert.Equal(t, http.StatusUnauthorized, rec.Code)
	assert.Contains(t, rec.Body.String(), "Invalid credentials")

	h2, mock2 := newAuthHandler(t)
	mock2.ExpectQuery(regexp.QuoteMeta("FROM users WHERE email = ? LIMIT 1")).
		WithArgs("ghost@x.com").
		WillReturnError(sql.ErrNoRows)

	c2, rec2 := jsonCtx(http.MethodPost, "/v1/auth/login", `{"email":"ghost@x.com","password":"whatever"}`)
	require.NoError(t, h2.Login(c2))
	assert.Equal(t, http.StatusUnauthorized, rec2.Code)
	assert.Contains(t, rec2.Body.String(), "Invalid credentials")
}

func TestLoginIssuesParsableToken(t *testing.T) {
	now := time.Now()
	hash, err := utils.HashPassword("correct-horse", bcrypt.MinCost)
	require.NoError(t, err)

	h, mock := newAuthHandler(t)
	mock.ExpectQuery(regexp.QuoteMeta("FROM users WHERE email = ? LIMIT 1")).
		WithArgs("a@x.com").
		WillReturnRows(sqlmock.NewRows([]string{
			"id", "email", "password_hash", "first_name", "last_name", "role", "created_at", "updated_at",
		}).AddRow(9, "a@x.com", hash, "Alice", "Smith", model.RoleManager, now, now))

	c, rec := jsonCtx(http.MethodPost, "/v1/auth/login", `{"email":"a@x.com","password":"correct-horse"}`)
	require.NoError(t, h.Login(c))
	require.Equal(t, http.StatusOK, rec.Code)

	var resp struct {
		Data struct {
			Token string `json:"token"`
		} `json:"data"`
	}
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &resp))
	claims, err := utils.ParseAccessToken("unit-test-secret", resp.Data.Token)
	require.NoError(t, err)
	assert.Equal(t, uint64(9), claims.UserID)
	assert.Equal(t, model.RoleManager, claims.Role)
}

func TestMeWithoutAuthContext(t *testing.T) {
	h, _ := newAuthHandler(t)
	c, rec := jsonCtx(http.MethodGet, "/v1/auth/me", "")
	require.NoError(t, h.Me(c))
	assert.Equal(t, http.StatusUnauthorized, rec.Code)
}

func TestMeReturnsCurrentUser(t *testing.T) {
	h, _ := newAuthHandler(t)
	c, rec := jsonCtx(http.MethodGet, "/v1/auth/me", "")
	c.Set("user", &model.User{ID: 9, Email: "a@x.com", Role: model.RoleUser})
	require.NoError(t, h.Me(c))
	assert.Equal(t, http.StatusOK, rec.Code)
	assert.Contains(t, rec.Body.String(), `"a@x.com"`)
}
