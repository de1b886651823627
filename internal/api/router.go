package api

import (
	"github.com/labstack/echo-contrib/echoprometheus"
	"github.com/labstack/echo/v4"
	echomiddleware "github.com/labstack/echo/v4/middleware"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/rs/zerolog"
	echoSwagger "github.com/swaggo/echo-swagger"

	"github.com/unla-grupo16/turnos-auth/internal/api/handler"
	"github.com/unla-grupo16/turnos-auth/internal/api/middleware"
	"github.com/unla-grupo16/turnos-auth/internal/core/domain"
	"github.com/unla-grupo16/turnos-auth/internal/core/ports"
)

// Dependencies are the collaborators the HTTP layer is built from.
type Dependencies struct {
	AuthService   ports.AuthService
	ClientService ports.ClientService
	Tokens        middleware.TokenParser
	HealthChecks  map[string]handler.HealthCheck
	Log           zerolog.Logger

	// Registerer receives the HTTP request metrics. Nil means the default
	// Prometheus registry, which also holds the domain metrics.
	Registerer prometheus.Registerer
}

// NewRouter builds and returns the Echo instance with all routes registered.
func NewRouter(deps Dependencies) *echo.Echo {
	e := echo.New()
	e.HideBanner = true
	e.HidePort = true
	e.Validator = handler.NewValidator()
	e.HTTPErrorHandler = NewHTTPErrorHandler(deps.Log)

	// --- Global middleware ---
	e.Use(echomiddleware.Recover())
	e.Use(echomiddleware.RequestID())
	e.Use(requestLogger(deps.Log))
	e.Use(echoprometheus.NewMiddlewareWithConfig(echoprometheus.MiddlewareConfig{
		Subsystem:  "turnos_auth",
		Registerer: registerer(deps.Registerer),
	}))

	// --- Handlers ---
	authHandler := handler.NewAuthHandler(deps.AuthService, deps.ClientService)
	clientHandler := handler.NewClientHandler(deps.ClientService, deps.Log)
	healthHandler := handler.NewHealthHandler(deps.HealthChecks)

	// --- Auth routes (public) ---
	auth := e.Group("/api/auth")
	auth.POST("/login", authHandler.Login)
	auth.POST("/register", authHandler.Register)

	// --- Client management (admin only) ---
	admin := e.Group("/api/admin",
		middleware.Auth(deps.Tokens),
		middleware.RBAC(domain.RoleAdmin),
	)
	admin.GET("/clientes", clientHandler.List)
	admin.PATCH("/clientes/:id/baja", clientHandler.Deactivate)
	admin.PATCH("/clientes/:id/alta", clientHandler.Activate)
	admin.PUT("/clientes/:id", clientHandler.Edit)

	// --- Operational endpoints (no auth required) ---
	e.GET("/health", healthHandler.Liveness)        // liveness  – is the process alive?
	e.GET("/health/ready", healthHandler.Readiness) // readiness – are dependencies up?
	e.GET("/metrics", echoprometheus.NewHandler())
	e.GET("/swagger/*", echoSwagger.WrapHandler)

	return e
}

func registerer(r prometheus.Registerer) prometheus.Registerer {
	if r == nil {
		return prometheus.DefaultRegisterer
	}
	return r
}

// requestLogger emits one zerolog event per request.
func requestLogger(log zerolog.Logger) echo.MiddlewareFunc {
	return echomiddleware.RequestLoggerWithConfig(echomiddleware.RequestLoggerConfig{
		LogMethod:    true,
		LogURI:       true,
		LogStatus:    true,
		LogLatency:   true,
		LogRequestID: true,
		LogError:     true,
		HandleError:  true,
		LogValuesFunc: func(_ echo.Context, v echomiddleware.RequestLoggerValues) error {
			ev := log.Info()
			if v.Error != nil {
				ev = log.Warn().Err(v.Error)
			}
			ev.Str("method", v.Method).
				Str("uri", v.URI).
				Int("status", v.Status).
				Dur("latency", v.Latency).
				Str("request_id", v.RequestID).
				Msg("request")
			return nil
		},
	})
}
