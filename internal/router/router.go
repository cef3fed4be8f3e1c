// Package router wires HTTP routes to their handlers and applies
// the middleware chain for the protected API surface.
package router

import (
	"github.com/labstack/echo/v4"
	"github.com/redis/go-redis/v9"

	"github.com/maxcrm/maxcrm-api/internal/config"
	"github.com/maxcrm/maxcrm-api/internal/handler"
	"github.com/maxcrm/maxcrm-api/internal/middleware"
	"github.com/maxcrm/maxcrm-api/internal/model"
)

// Handlers bundles everything Register needs.
type Handlers struct {
	Auth      *handler.AuthHandler
	Contacts  *handler.ContactHandler
	Companies *handler.CompanyHandler
	Deals     *handler.DealHandler
	Users     middleware.UserSource
}

// Register sets up the public endpoints (health, register, login)
// and the bearer-protected /v1 API. Every protected route runs
// through token validation, user resolution, role checking, rate
// limiting and the per-user response cache, in that order.
func Register(e *echo.Echo, h Handlers, cfg config.Config, rdb *redis.Client) {
	e.GET("/healthz", handler.Health)

	pub := e.Group("/v1/auth")
	pub.POST("/register", h.Auth.Register)
	pub.POST("/login", h.Auth.Login)

	api := e.Group("/v1")
	api.Use(middleware.Auth(cfg.JWTSecret, h.Users))
	api.Use(middleware.RequireRole(model.RoleAdmin, model.RoleManager, model.RoleSalesRep, model.RoleUser))
	api.Use(middleware.RateLimit(config.LoadRateLimitConfig(), rdb))
	api.Use(middleware.ResponseCache(config.LoadCacheConfig(), rdb))

	api.GET("/auth/me", h.Auth.Me)

	api.GET("/contacts", h.Contacts.List)
	api.GET("/contacts/search", h.Contacts.Search)
	api.GET("/contacts/:id", h.Contacts.Get)
	api.POST("/contacts", h.Contacts.Create)
	api.PUT("/contacts/:id", h.Contacts.Update)
	api.DELETE("/contacts/:id", h.Contacts.Delete)

	api.GET("/companies", h.Companies.List)
	api.GET("/companies/search", h.Companies.Search)
	api.GET("/companies/:id", h.Companies.Get)
	api.GET("/companies/:id/contacts", h.Companies.ListContacts)
	api.POST("/companies", h.Companies.Create)
	api.PUT("/companies/:id", h.Companies.Update)
	api.DELETE("/companies/:id", h.Companies.Delete)

	api.GET("/deals", h.Deals.List)
	api.GET("/deals/search", h.Deals.Search)
	api.GET("/deals/stats", h.Deals.Stats)
	api.GET("/deals/stage/:stage", h.Deals.ByStage)
	api.GET("/deals/contact/:id", h.Deals.ByContact)
	api.GET("/deals/company/:id", h.Deals.ByCompany)
	api.GET("/deals/:id", h.Deals.Get)
	api.POST("/deals", h.Deals.Create)
	api.PUT("/deals/:id", h.Deals.Update)
	api.DELETE("/deals/:id", h.Deals.Delete)
}
