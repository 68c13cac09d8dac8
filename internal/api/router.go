package api

import (
	"github.com/labstack/echo-contrib/echoprometheus"
	"github.com/labstack/echo/v4"
	echomiddleware "github.com/labstack/echo/v4/middleware"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/rs/zerolog"
	echoSwagger "github.com/swaggo/echo-swagger"

	"github.com/v-pascoal/radar-hub/internal/api/handler"
	"github.com/v-pascoal/radar-hub/internal/api/middleware"
	"github.com/v-pascoal/radar-hub/internal/core/domain"
	"github.com/v-pascoal/radar-hub/internal/core/ports"

	_ "github.com/v-pascoal/radar-hub/docs"
)

// Dependencies are the services and probes the HTTP layer is built from.
type Dependencies struct {
	Identity    ports.IdentityService
	Cases       ports.CaseService
	Wallet      ports.WalletService
	Tokens      ports.TokenManager
	ReviewerKey string
	// Readiness lists the backends pinged by /health/ready, by name.
	Readiness map[string]ports.Pinger
	// Registerer receives the HTTP metrics. Nil means the default registry.
	Registerer prometheus.Registerer
	Log        zerolog.Logger
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
		Subsystem:  "radarhub",
		Registerer: deps.Registerer,
	}))

	// --- Handlers ---
	authHandler := handler.NewAuthHandler(deps.Identity)
	userHandler := handler.NewUserHandler(deps.Identity)
	reviewHandler := handler.NewReviewHandler(deps.Identity)
	caseHandler := handler.NewCaseHandler(deps.Cases)
	walletHandler := handler.NewWalletHandler(deps.Wallet)

	auth := middleware.Auth(deps.Tokens, deps.Identity)
	clientOnly := middleware.RBAC(domain.RoleClient)
	proOnly := middleware.RBAC(domain.RoleProfessional)

	v1 := e.Group("/v1")

	// --- Auth routes (public) ---
	v1.POST("/auth/code/request", authHandler.RequestCode)
	v1.POST("/auth/code/verify", authHandler.VerifyCode)

	// --- Users ---
	users := v1.Group("/users", auth)
	users.GET("/me", userHandler.Me)
	users.PUT("/:id", userHandler.Update)

	// --- Cases ---
	cases := v1.Group("/cases", auth)
	cases.POST("", caseHandler.Submit, clientOnly)
	cases.GET("/mine", caseHandler.ListMine)
	cases.GET("/:id", caseHandler.Get)
	cases.PUT("/:id", caseHandler.Update, clientOnly)
	cases.POST("/:id/claim", caseHandler.Claim, proOnly)
	cases.POST("/:id/decline", caseHandler.Decline, proOnly)
	cases.PUT("/:id/status", caseHandler.RecordStatus, proOnly)
	cases.GET("/:id/timeline", caseHandler.Timeline)

	v1.GET("/opportunities", caseHandler.Opportunities, auth, proOnly)
	v1.GET("/wallet/:professionalId", walletHandler.Stats, auth, proOnly)

	// --- External reviewer ---
	review := v1.Group("/review", middleware.ReviewerKey(deps.ReviewerKey))
	review.PUT("/users/:id/verification", reviewHandler.Review)

	// --- Health probes (no auth required) ---
	healthHandler := handler.NewHealthHandler()
	readinessHandler := handler.NewReadinessHandler(deps.Readiness)

	e.GET("/health", healthHandler.Liveness)           // liveness: is the process alive?
	e.GET("/health/ready", readinessHandler.Readiness) // readiness: are dependencies up?
	e.GET("/metrics", echoprometheus.NewHandler())
	e.GET("/swagger/*", echoSwagger.WrapHandler)

	return e
}

// requestLogger writes one zerolog line per request.
func requestLogger(log zerolog.Logger) echo.MiddlewareFunc {
	return echomiddleware.RequestLoggerWithConfig(echomiddleware.RequestLoggerConfig{
		LogMethod:    true,
		LogURI:       true,
		LogStatus:    true,
		LogLatency:   true,
		LogRequestID: true,
		LogError:     true,
		HandleError:  true,
		LogValuesFunc: func(c echo.Context, v echomiddleware.RequestLoggerValues) error {
			ev := log.Info()
			if v.Status >= 500 {
				ev = log.Error()
			}
			if v.Error != nil {
				ev = ev.Err(v.Error)
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
