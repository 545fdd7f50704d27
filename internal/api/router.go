package api

import (
	"github.com/labstack/echo-contrib/echoprometheus"
	"github.com/labstack/echo/v4"
	echomiddleware "github.com/labstack/echo/v4/middleware"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/rs/zerolog"
	echoSwagger "github.com/swaggo/echo-swagger"

	_ "github.com/alkewallet/wallet-service/docs"
	"github.com/alkewallet/wallet-service/internal/api/handler"
	"github.com/alkewallet/wallet-service/internal/api/middleware"
	"github.com/alkewallet/wallet-service/internal/core/ports"
	"github.com/alkewallet/wallet-service/internal/infrastructure/http/handlers"
)

// Dependencies are the already wired services the router exposes.
type Dependencies struct {
	Accounts     ports.AccountService
	Contacts     ports.ContactService
	Ledger       ports.LedgerService
	Transactions ports.TransactionService
	Sessions     ports.SessionStore

	JWTSecret    string
	PageSize     int
	HealthChecks map[string]handlers.Check
	Logger       zerolog.Logger

	// Registerer and Gatherer default to the global Prometheus registry.
	Registerer prometheus.Registerer
	Gatherer   prometheus.Gatherer
}

// NewRouter builds and returns the Echo instance with all routes registered.
func NewRouter(deps Dependencies) *echo.Echo {
	if deps.Registerer == nil {
		deps.Registerer = prometheus.DefaultRegisterer
	}
	if deps.Gatherer == nil {
		deps.Gatherer = prometheus.DefaultGatherer
	}
	log := deps.Logger

	e := echo.New()
	e.HideBanner = true
	e.HidePort = true
	e.Validator = handler.NewValidator()
	e.HTTPErrorHandler = NewHTTPErrorHandler(log)

	// --- Global middleware ---
	e.Use(echomiddleware.Recover())
	e.Use(echomiddleware.RequestID())
	e.Use(echomiddleware.RequestLoggerWithConfig(echomiddleware.RequestLoggerConfig{
		LogMethod:    true,
		LogURI:       true,
		LogStatus:    true,
		LogLatency:   true,
		LogRequestID: true,
		LogError:     true,
		HandleError:  true,
		LogValuesFunc: func(c echo.Context, v echomiddleware.RequestLoggerValues) error {
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
	}))
	e.Use(echoprometheus.NewMiddlewareWithConfig(echoprometheus.MiddlewareConfig{
		Subsystem:  "http",
		Registerer: deps.Registerer,
		Skipper: func(c echo.Context) bool {
			return c.Path() == "/metrics"
		},
	}))

	// --- Handlers ---
	authHandler := handler.NewAuthHandler(deps.Accounts)
	walletHandler := handler.NewWalletHandler(deps.Accounts, deps.Transactions, deps.Ledger, deps.PageSize)
	contactHandler := handler.NewContactHandler(deps.Contacts)
	authMiddleware := middleware.Auth(deps.JWTSecret, deps.Sessions)

	// --- Operational endpoints (no auth required) ---
	healthHandler := handlers.NewHealthHandler()
	healthDepsHandler := handlers.NewHealthDependenciesHandler(deps.HealthChecks)

	e.GET("/health", healthHandler.Liveness)            // liveness  – is the process alive?
	e.GET("/health/ready", healthDepsHandler.Readiness) // readiness – are dependencies up?
	e.GET("/metrics", echoprometheus.NewHandlerWithConfig(echoprometheus.HandlerConfig{Gatherer: deps.Gatherer}))
	e.GET("/swagger/*", echoSwagger.WrapHandler)

	// --- Auth routes ---
	e.POST("/auth/register", authHandler.Register)
	e.POST("/auth/login", authHandler.Login)
	e.POST("/auth/logout", authHandler.Logout, authMiddleware)

	// --- Wallet routes ---
	v1 := e.Group("/v1", authMiddleware)
	v1.GET("/account", walletHandler.Account)
	v1.GET("/summary", walletHandler.Summary)
	v1.POST("/deposits", walletHandler.Deposit)
	v1.POST("/transfers", walletHandler.Transfer)
	v1.GET("/transactions", walletHandler.Transactions)
	v1.GET("/transactions/recent", walletHandler.Recent)
	v1.GET("/contacts", contactHandler.List)
	v1.POST("/contacts", contactHandler.Add)

	return e
}
