package api

import (
	"github.com/labstack/echo-contrib/echoprometheus"
	"github.com/labstack/echo/v4"
	echomiddleware "github.com/labstack/echo/v4/middleware"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/rs/zerolog"
	echoSwagger "github.com/swaggo/echo-swagger"

	_ "github.com/snipbox/snippet-api/internal/api/docs"
	"github.com/snipbox/snippet-api/internal/api/handler"
	"github.com/snipbox/snippet-api/internal/api/middleware"
	"github.com/snipbox/snippet-api/internal/core/ports"
)

// Dependencies are the services and probes the router wires into handlers.
type Dependencies struct {
	Accounts ports.AccountService
	Roles    ports.RoleService
	Snippets ports.SnippetService
	Auth     ports.AuthService
	Tokens   ports.TokenVerifier
	Checks   map[string]handler.Check
	Log      zerolog.Logger

	// Registerer receives the HTTP request metrics. Nil means the default
	// Prometheus registerer.
	Registerer prometheus.Registerer
}

// NewRouter builds and returns the Echo instance with all routes registered.
func NewRouter(deps Dependencies) *echo.Echo {
	e := echo.New()
	e.HideBanner = true
	e.Validator = handler.NewValidator()
	e.HTTPErrorHandler = NewHTTPErrorHandler(deps.Log)

	// --- Global middleware ---
	e.Use(echomiddleware.Recover())
	e.Use(echomiddleware.RequestID())
	e.Use(echomiddleware.Logger())
	e.Use(echoprometheus.NewMiddlewareWithConfig(echoprometheus.MiddlewareConfig{
		Subsystem:  "snipbox",
		Registerer: deps.Registerer,
		Skipper: func(c echo.Context) bool {
			return c.Path() == "/metrics"
		},
	}))

	// --- Operational endpoints ---
	healthHandler := handler.NewHealthHandler()
	healthDepsHandler := handler.NewHealthDependenciesHandler(deps.Checks)

	e.GET("/health", healthHandler.Liveness)            // is the process alive?
	e.GET("/health/ready", healthDepsHandler.Readiness) // are the dependencies up?
	e.GET("/metrics", echoprometheus.NewHandler())
	e.GET("/swagger/*", echoSwagger.WrapHandler)

	// --- API ---
	// Credentials never rejects; each service asks the authorization engine.
	api := e.Group("/api", middleware.Credentials(deps.Tokens))

	accounts := handler.NewAccountHandler(deps.Accounts)
	api.POST("/accounts/user", accounts.CreateUser)
	api.POST("/accounts/admin", accounts.CreateAdmin)
	api.GET("/accounts", accounts.List)
	api.GET("/accounts/:id", accounts.Get)
	api.PUT("/accounts/:id", accounts.Update)
	api.DELETE("/accounts/:id", accounts.Delete)

	roles := handler.NewRoleHandler(deps.Roles)
	api.POST("/account-types", roles.Create)
	api.GET("/account-types", roles.List)
	api.GET("/account-types/:id", roles.Get)
	api.PUT("/account-types/:id", roles.Update)
	api.DELETE("/account-types/:id", roles.Delete)

	snippets := handler.NewSnippetHandler(deps.Snippets)
	api.POST("/snippets", snippets.Create)
	api.GET("/snippets", snippets.List)
	api.GET("/snippets/count", snippets.Count)
	api.GET("/snippets/:id", snippets.Get)
	api.GET("/snippets/:username/:snippet", snippets.Raw)
	api.PUT("/snippets/:id", snippets.Update)
	api.DELETE("/snippets/:id", snippets.Delete)

	auth := handler.NewAuthHandler(deps.Auth)
	api.POST("/auth", auth.Login)
	api.PUT("/auth", auth.Refresh)

	return e
}
