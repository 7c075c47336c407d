package api

import (
	"strings"
	"time"

	"github.com/labstack/echo-contrib/echoprometheus"
	"github.com/labstack/echo/v4"
	echomiddleware "github.com/labstack/echo/v4/middleware"
	"github.com/rs/zerolog"
	echoSwagger "github.com/swaggo/echo-swagger"
	"golang.org/x/time/rate"

	"github.com/eventify/ticketing/internal/api/handler"
	"github.com/eventify/ticketing/internal/api/middleware"
	"github.com/eventify/ticketing/internal/core/domain"
	"github.com/eventify/ticketing/internal/core/ports"
	_ "github.com/eventify/ticketing/internal/docs"
	"github.com/eventify/ticketing/internal/pkg/metrics"
)

// Dependencies are the services the HTTP layer is built on.
type Dependencies struct {
	Auth      ports.AuthService
	Dashboard ports.DashboardService
	Sessions  ports.SessionResolver
	Tokens    ports.TokenVerifier
	Health    map[string]handler.Pinger
}

// Options tunes the HTTP layer.
type Options struct {
	// StoreRole makes the route guard re-read the account on every request.
	StoreRole    bool
	SecureCookie bool
	CookieMaxAge time.Duration
	// AuthRate and AuthBurst limit register and login per client IP.
	// A zero AuthRate disables the limiter.
	AuthRate  float64
	AuthBurst int
	Log       zerolog.Logger
}

// NewRouter builds and returns the Echo instance with all routes registered.
func NewRouter(deps Dependencies, opts Options) *echo.Echo {
	e := echo.New()
	e.HideBanner = true
	e.HidePort = true
	e.Validator = handler.NewValidator()
	e.HTTPErrorHandler = NewHTTPErrorHandler(opts.Log)

	// --- Global middleware ---
	e.Use(echomiddleware.Recover())
	e.Use(echomiddleware.RequestID())
	e.Use(requestLogger(opts.Log))
	e.Use(echoprometheus.NewMiddlewareWithConfig(echoprometheus.MiddlewareConfig{
		Subsystem: "ticketing",
		Skipper:   skipInfra,
	}))
	e.Use(middleware.Guard(middleware.GuardConfig{
		Skipper:   skipInfra,
		Verifier:  deps.Tokens,
		Resolver:  deps.Sessions,
		StoreRole: opts.StoreRole,
		Log:       opts.Log,
	}))

	// --- Handlers ---
	cookie := handler.CookieConfig{Secure: opts.SecureCookie, MaxAge: opts.CookieMaxAge}
	authHandler := handler.NewAuthHandler(deps.Auth, deps.Sessions, cookie)
	dashboardHandler := handler.NewDashboardHandler(deps.Dashboard)
	pageHandler := handler.NewPageHandler(deps.Sessions, deps.Dashboard)
	healthHandler := handler.NewHealthHandler(deps.Health)

	// --- Auth API ---
	apiGroup := e.Group("/api")
	credentials := authRateLimiter(opts.AuthRate, opts.AuthBurst)
	apiGroup.POST("/auth/register", authHandler.Register, credentials...)
	apiGroup.POST("/auth/login", authHandler.Login, credentials...)
	apiGroup.POST("/auth/logout", authHandler.Logout)
	apiGroup.GET("/auth/me", authHandler.Me)
	apiGroup.PUT("/user/profile", authHandler.UpdateProfile, middleware.Authenticated())

	// --- Organizer dashboard API ---
	dashboard := apiGroup.Group("/dashboard", middleware.RequireRole(deps.Sessions, domain.RoleOrganizer))
	dashboard.GET("/stats", dashboardHandler.Stats)
	dashboard.GET("/events", dashboardHandler.ListEvents)
	dashboard.POST("/events", dashboardHandler.CreateEvent)

	// --- Pages ---
	e.GET(domain.PathPublicHome, pageHandler.Events)
	e.GET(domain.PathOrganizerHome, pageHandler.Landing("organizer-dashboard"))
	e.GET(domain.PathProviderHome, pageHandler.Landing("provider-dashboard"))
	e.GET(domain.PathAdminHome, pageHandler.Landing("admin-dashboard"))
	e.GET("/profile", pageHandler.Landing("profile"))
	e.GET(middleware.LoginPath, pageHandler.AuthPage("login"))
	e.GET(middleware.RegisterPath, pageHandler.AuthPage("register"))

	// --- Health probes, metrics and docs (no auth required) ---
	e.GET("/health", healthHandler.Liveness)        // liveness  – is the process alive?
	e.GET("/health/ready", healthHandler.Readiness) // readiness – are dependencies up?
	e.GET("/metrics", echoprometheus.NewHandler())
	e.GET("/swagger/*", echoSwagger.WrapHandler)

	return e
}

// skipInfra exempts probes, metrics and docs from the guard and from
// request metrics.
func skipInfra(c echo.Context) bool {
	p := c.Request().URL.Path
	return p == "/metrics" || strings.HasPrefix(p, "/health") || strings.HasPrefix(p, "/swagger")
}

// authRateLimiter caps credential submissions per client IP in memory.
func authRateLimiter(limit float64, burst int) []echo.MiddlewareFunc {
	if limit <= 0 {
		return nil
	}
	if burst < 1 {
		burst = 1
	}
	store := echomiddleware.NewRateLimiterMemoryStoreWithConfig(echomiddleware.RateLimiterMemoryStoreConfig{
		Rate:      rate.Limit(limit),
		Burst:     burst,
		ExpiresIn: 10 * time.Minute,
	})
	return []echo.MiddlewareFunc{echomiddleware.RateLimiterWithConfig(echomiddleware.RateLimiterConfig{
		Store: store,
		IdentifierExtractor: func(c echo.Context) (string, error) {
			return c.RealIP(), nil
		},
		DenyHandler: func(c echo.Context, identifier string, err error) error {
			metrics.LoginsTotal.WithLabelValues("rate_limited").Inc()
			return domain.ErrTooManyAttempts
		},
	})}
}

func requestLogger(log zerolog.Logger) echo.MiddlewareFunc {
	return echomiddleware.RequestLoggerWithConfig(echomiddleware.RequestLoggerConfig{
		LogURI:       true,
		LogMethod:    true,
		LogStatus:    true,
		LogLatency:   true,
		LogRequestID: true,
		LogRemoteIP:  true,
		LogError:     true,
		HandleError:  true,
		Skipper:      skipInfra,
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
				Str("remote_ip", v.RemoteIP).
				Msg("request")
			return nil
		},
	})
}
