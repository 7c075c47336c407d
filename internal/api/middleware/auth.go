package middleware

import (
	"net/http"
	"strings"

	"github.com/labstack/echo/v4"

	"github.com/eventify/ticketing/internal/core/domain"
)

// CookieName is the cookie carrying the auth token.
const CookieName = "auth-token"

const (
	sessionKey     = "session"
	tokenKey       = "auth_token"
	currentUserKey = "current_user"
)

// TokenFromRequest returns the auth token of r: the auth-token cookie
// first, then an "Authorization: Bearer" header. Empty when neither is set.
func TokenFromRequest(r *http.Request) string {
	if ck, err := r.Cookie(CookieName); err == nil && ck.Value != "" {
		return ck.Value
	}

	parts := strings.SplitN(r.Header.Get(echo.HeaderAuthorization), " ", 2)
	if len(parts) == 2 && strings.EqualFold(parts[0], "bearer") {
		return strings.TrimSpace(parts[1])
	}
	return ""
}

// SessionFrom returns the session the guard verified for this request.
func SessionFrom(c echo.Context) (domain.Session, bool) {
	s, ok := c.Get(sessionKey).(domain.Session)
	return s, ok
}

// TokenFrom returns the raw token the guard verified for this request.
func TokenFrom(c echo.Context) string {
	t, _ := c.Get(tokenKey).(string)
	return t
}

// CurrentUserFrom returns the account loaded for this request, if any
// middleware has resolved it.
func CurrentUserFrom(c echo.Context) (*domain.CurrentUser, bool) {
	u, ok := c.Get(currentUserKey).(*domain.CurrentUser)
	return u, ok && u != nil
}

// Authenticated rejects requests the guard did not attach a session to.
// API routes use it instead of a login redirect.
func Authenticated() echo.MiddlewareFunc {
	return func(next echo.HandlerFunc) echo.HandlerFunc {
		return func(c echo.Context) error {
			if _, ok := SessionFrom(c); !ok {
				return domain.ErrUnauthorized
			}
			return next(c)
		}
	}
}

// SetSession attaches a verified session and its raw token to c.
func SetSession(c echo.Context, s domain.Session, token string) {
	c.Set(sessionKey, s)
	c.Set(tokenKey, token)
}

// SetCurrentUser attaches an already resolved account to c.
func SetCurrentUser(c echo.Context, u *domain.CurrentUser) {
	c.Set(currentUserKey, u)
}
