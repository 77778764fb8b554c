package api

import (
	"github.com/labstack/echo-contrib/echoprometheus"
	"github.com/labstack/echo/v4"
	echomiddleware "github.com/labstack/echo/v4/middleware"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/rs/zerolog"
	echoSwagger "github.com/swaggo/echo-swagger"

	_ "github.com/cobranzacloud/cobranza-cloud/docs"
	"github.com/cobranzacloud/cobranza-cloud/internal/api/handler"
	"github.com/cobranzacloud/cobranza-cloud/internal/api/middleware"
	"github.com/cobranzacloud/cobranza-cloud/internal/core/domain"
	"github.com/cobranzacloud/cobranza-cloud/internal/core/ports"
)

// RouterDeps carries everything the HTTP layer needs.
type RouterDeps struct {
	Tokens     middleware.TokenValidator
	Auth       ports.AuthService
	Connectors ports.ConnectorService
	Sync       ports.SyncService
	Cartera    ports.CarteraService
	Checks     []handler.DependencyCheck

	Production   bool
	RateLimitRPS float64
	// Registry receives the HTTP metrics and backs /metrics. Nil means the
	// default Prometheus registry, where the domain metrics live.
	Registry *prometheus.Registry
}

// NewRouter builds and returns the Echo instance with all routes registered.
func NewRouter(deps RouterDeps, log zerolog.Logger) *echo.Echo {
	e := echo.New()
	e.HideBanner = true
	e.HidePort = true
	e.Validator = handler.NewValidator()
	e.HTTPErrorHandler = NewHTTPErrorHandler(log, deps.Production)

	var (
		registerer prometheus.Registerer = prometheus.DefaultRegisterer
		gatherer   prometheus.Gatherer   = prometheus.DefaultGatherer
	)
	if deps.Registry != nil {
		registerer, gatherer = deps.Registry, deps.Registry
	}

	// --- Global middleware ---
	e.Use(echomiddleware.Recover())
	e.Use(echomiddleware.RequestID())
	e.Use(middleware.RequestLogger(log))
	e.Use(echoprometheus.NewMiddlewareWithConfig(echoprometheus.MiddlewareConfig{
		Namespace:                 "cobranza",
		Subsystem:                 "http",
		Registerer:                registerer,
		DoNotUseRequestPathFor404: true,
	}))

	// --- Handlers ---
	authHandler := handler.NewAuthHandler(deps.Auth)
	connectorHandler := handler.NewConnectorHandler(deps.Connectors)
	syncHandler := handler.NewSyncHandler(deps.Sync)
	carteraHandler := handler.NewCarteraHandler(deps.Cartera)
	healthHandler := handler.NewHealthHandler()
	healthDepsHandler := handler.NewHealthDependenciesHandler(deps.Checks...)

	authenticated := middleware.Auth(deps.Tokens)
	throttled := middleware.RateLimit(deps.RateLimitRPS)
	carteraRead := middleware.RequirePolicy(domain.PolicyCarteraRead)

	// --- Operational endpoints (no auth required) ---
	e.GET("/health", healthHandler.Liveness)            // liveness  – is the process alive?
	e.GET("/health/ready", healthDepsHandler.Readiness) // readiness – are dependencies up?
	e.GET("/metrics", echoprometheus.NewHandlerWithConfig(echoprometheus.HandlerConfig{Gatherer: gatherer}))
	e.GET("/swagger/*", echoSwagger.WrapHandler)

	api := e.Group("/api")

	// --- Auth ---
	auth := api.Group("/auth")
	auth.POST("/register", authHandler.Register, throttled)
	auth.POST("/login", authHandler.Login, throttled)
	auth.POST("/refresh", authHandler.Refresh, throttled)
	auth.POST("/logout", authHandler.Logout, authenticated, middleware.RequireUser())
	auth.GET("/me", authHandler.Me, authenticated, middleware.RequireUser())

	// --- Connectors ---
	connectors := api.Group("/connectors")
	connectors.GET("", connectorHandler.List, authenticated, middleware.RequirePolicy(domain.PolicyConnectorsRead))
	connectors.POST("/link-code", connectorHandler.LinkCode, authenticated, middleware.RequireUser())
	connectors.POST("/register", connectorHandler.Register, throttled)
	connectors.POST("/refresh", connectorHandler.Refresh, throttled)
	connectors.POST("/heartbeat", connectorHandler.Heartbeat, authenticated, middleware.RequireConnector(domain.PermHeartbeatWrite))

	// --- Sync (connector-only) ---
	api.POST("/sync/cartera", syncHandler.SyncCartera, authenticated, middleware.RequireConnector(domain.PermSyncWrite))

	// --- Cartera reads ---
	cartera := api.Group("/cartera", authenticated, carteraRead)
	cartera.GET("/resumen", carteraHandler.Resumen)
	cartera.GET("/antiguedad", carteraHandler.Antiguedad)
	cartera.POST("/refresh", carteraHandler.Refresh)

	clientes := api.Group("/clientes", authenticated, carteraRead)
	clientes.GET("", carteraHandler.ListClientes)
	clientes.GET("/:id", carteraHandler.GetCliente)

	return e
}
