package handler

import (
	"context"
	"errors"
	"net/http"
	"strings"
	"time"

	"github.com/labstack/echo/v4"

	"github.com/maxcrm/maxcrm-api/internal/config"
	"github.com/maxcrm/maxcrm-api/internal/middleware"
	"github.com/maxcrm/maxcrm-api/internal/model"
	"github.com/maxcrm/maxcrm-api/internal/repository"
	"github.com/maxcrm/maxcrm-api/internal/utils"
)

// AuthHandler bundles dependencies for the auth endpoints.
type AuthHandler struct {
	Cfg   config.Config
	Users *repository.UserRepo
}

func NewAuthHandler(cfg config.Config, users *repository.UserRepo) *AuthHandler {
	return &AuthHandler{Cfg: cfg, Users: users}
}

type registerReq struct {
	Email     string `json:"email"`
	Password  string `json:"password"`
	FirstName string `json:"firstName"`
	LastName  string `json:"lastName"`
	Role      string `json:"role"`
}

type loginReq struct {
	Email    string `json:"email"`
	Password string `json:"password"`
}

// authData is the payload returned by register and login.
type authData struct {
	User  *model.User `json:"user"`
	Token string      `json:"token"`
}

// Register creates a user and returns a signed token immediately.
// A duplicate email is a 400, matching the validation failures.
func (h *AuthHandler) Register(c echo.Context) error {
	var req registerReq
	if err := c.Bind(&req); err != nil {
		return fail(c, http.StatusBadRequest, "Invalid request body")
	}
	req.Email = strings.ToLower(strings.TrimSpace(req.Email))
	req.FirstName = strings.TrimSpace(req.FirstName)
	req.LastName = strings.TrimSpace(req.LastName)

	if !validEmail(req.Email) {
		return fail(c, http.StatusBadRequest, "Valid email is required")
	}
	if len(req.Password) < 8 {
		return fail(c, http.StatusBadRequest, "Password must be at least 8 characters")
	}
	if req.FirstName == "" || req.LastName == "" {
		return fail(c, http.StatusBadRequest, "First and last name are required")
	}
	role := req.Role
	if role == "" {
		role = model.RoleUser
	}
	if !model.ValidRole(role) {
		return fail(c, http.StatusBadRequest, "Invalid role")
	}

	ctx, cancel := context.WithTimeout(c.Request().Context(), 5*time.Second)
	defer cancel()

	u, err := h.Users.Create(ctx, req.Email, req.Password, req.FirstName, req.LastName, role, h.Cfg.BcryptCost)
	if err != nil {
		if errors.Is(err, repository.ErrEmailExists) {
			return fail(c, http.StatusBadRequest, "User with this email already exists")
		}
		return respondErr(c, err)
	}

	tok, err := utils.NewAccessToken(h.Cfg.JWTSecret, u, h.Cfg.TokenTTLDays)
	if err != nil {
		return respondErr(c, err)
	}
	return c.JSON(http.StatusCreated,
		model.OKMessage(authData{User: u, Token: tok.Token}, "User registered successfully"))
}

// Login verifies credentials and returns a fresh token. A missing
// user and a wrong password are indistinguishable to the caller.
func (h *AuthHandler) Login(c echo.Context) error {
	var req loginReq
	if err := c.Bind(&req); err != nil {
		return fail(c, http.StatusBadRequest, "Invalid request body")
	}
	req.Email = strings.ToLower(strings.TrimSpace(req.Email))
	if req.Email == "" || req.Password == "" {
		return fail(c, http.StatusBadRequest, "Email and password are required")
	}

	ctx, cancel := context.WithTimeout(c.Request().Context(), 5*time.Second)
	defer cancel()

	u, err := h.Users.GetByEmail(ctx, req.Email)
	if err != nil {
		if errors.Is(err, repository.ErrUserNotFound) {
			return fail(c, http.StatusUnauthorized, "Invalid credentials")
		}
		return respondErr(c, err)
	}
	if !utils.VerifyPassword(u.PasswordHash, req.Password) {
		return fail(c, http.StatusUnauthorized, "Invalid credentials")
	}

	tok, err := utils.NewAccessToken(h.Cfg.JWTSecret, u, h.Cfg.TokenTTLDays)
	if err != nil {
		return respondErr(c, err)
	}
	return c.JSON(http.StatusOK, model.OK(authData{User: u, Token: tok.Token}))
}

// Me returns the profile of the authenticated user resolved by the
// auth middleware.
func (h *AuthHandler) Me(c echo.Context) error {
	u, ok := middleware.CurrentUser(c)
	if !ok {
		return fail(c, http.StatusUnauthorized, "Access token required")
	}
	return c.JSON(http.StatusOK, model.OK(u))
}
