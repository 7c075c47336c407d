package middleware

import (
	"net/http"
	"net/url"
	"strings"

	"github.com/labstack/echo/v4"
	echomiddleware "github.com/labstack/echo/v4/middleware"
	"github.com/rs/zerolog"

	"github.com/eventify/ticketing/internal/core/domain"
	"github.com/eventify/ticketing/internal/core/ports"
	"github.com/eventify/ticketing/internal/pkg/metrics"
)

// Auth page paths.
const (
	LoginPath    = "/auth/login"
	RegisterPath = "/auth/register"
)

// PathClass groups request paths by how the guard treats them.
type PathClass int

const (
	PathOther PathClass = iota
	PathProtected
	PathPublicAuth
)

var (
	protectedPrefixes  = []string{"/dashboard", "/profile", "/provider", "/admin"}
	publicAuthPrefixes = []string{LoginPath, RegisterPath}
)

// Classify maps a request path to its PathClass by prefix.
func Classify(path string) PathClass {
	for _, p := range protectedPrefixes {
		if strings.HasPrefix(path, p) {
			return PathProtected
		}
	}
	for _, p := range publicAuthPrefixes {
		if strings.HasPrefix(path, p) {
			return PathPublicAuth
		}
	}
	return PathOther
}

// LoginRedirect is the login page URL that returns to path afterwards.
// Slashes in path are kept literal.
func LoginRedirect(path string) string {
	return LoginPath + "?callbackUrl=" + strings.ReplaceAll(url.QueryEscape(path), "%2F", "/")
}

// GuardConfig configures Guard.
type GuardConfig struct {
	Skipper  echomiddleware.Skipper
	Verifier ports.TokenVerifier
	// Resolver is required when StoreRole is set.
	Resolver ports.SessionResolver
	// StoreRole re-reads the account on every request instead of trusting
	// the role embedded in the token. Deleted accounts count as logged out.
	StoreRole bool
	Log       zerolog.Logger
}

// Guard decides, before any handler runs, whether a request may proceed:
// anonymous requests to protected pages go to the login page, logged-in
// requests to the auth pages go to their role's landing page, everything
// else passes. On a pass with a valid token the session is attached to the
// context.
func Guard(cfg GuardConfig) echo.MiddlewareFunc {
	if cfg.Skipper == nil {
		cfg.Skipper = echomiddleware.DefaultSkipper
	}

	return func(next echo.HandlerFunc) echo.HandlerFunc {
		return func(c echo.Context) error {
			if cfg.Skipper(c) {
				return next(c)
			}

			path := c.Request().URL.Path
			class := Classify(path)
			token := TokenFromRequest(c.Request())

			session, user, authed, failed := cfg.authenticate(c, token)
			if failed {
				if class == PathProtected {
					return redirect(c, LoginPath, "redirect_login")
				}
				metrics.GuardDecisionsTotal.WithLabelValues("allow").Inc()
				return next(c)
			}

			switch {
			case !authed && class == PathProtected:
				return redirect(c, LoginRedirect(path), "redirect_login")
			case authed && class == PathPublicAuth:
				return redirect(c, domain.LandingPath(session.Role), "redirect_home")
			}

			if authed {
				SetSession(c, session, token)
				if user != nil {
					SetCurrentUser(c, user)
				}
			}
			metrics.GuardDecisionsTotal.WithLabelValues("allow").Inc()
			return next(c)
		}
	}
}

// authenticate verifies token and, under StoreRole, reloads the account.
// failed is set when verification panicked.
func (cfg GuardConfig) authenticate(c echo.Context, token string) (session domain.Session, user *domain.CurrentUser, authed, failed bool) {
	if token == "" {
		return domain.Session{}, nil, false, false
	}

	defer func() {
		if r := recover(); r != nil {
			cfg.Log.Error().
				Interface("panic", r).
				Str("path", c.Request().URL.Path).
				Msg("token verification panicked")
			session, user, authed, failed = domain.Session{}, nil, false, true
		}
	}()

	session, ok := cfg.Verifier.Verify(token)
	if !ok {
		return domain.Session{}, nil, false, false
	}
	if !cfg.StoreRole {
		return session, nil, true, false
	}

	user, ok = cfg.Resolver.Resolve(c.Request().Context(), session)
	if !ok {
		return domain.Session{}, nil, false, false
	}
	session.Role = user.Role
	session.Email = user.Email
	return session, user, true, false
}

func redirect(c echo.Context, to, decision string) error {
	metrics.GuardDecisionsTotal.WithLabelValues(decision).Inc()
	return c.Redirect(http.StatusFound, to)
}
