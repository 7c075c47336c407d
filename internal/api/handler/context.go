package handler

import (
	"github.com/labstack/echo/v4"

	"github.com/eventify/ticketing/internal/api/middleware"
	"github.com/eventify/ticketing/internal/core/domain"
)

// ctxSession returns the session the route guard verified, failing fast
// with ErrUnauthorized before any service call when there is none.
func ctxSession(c echo.Context) (domain.Session, error) {
	s, ok := middleware.SessionFrom(c)
	if !ok || s.UserID == "" {
		return domain.Session{}, domain.ErrUnauthorized
	}
	return s, nil
}

// ctxCurrentUser returns the account RequireRole loaded for this request.
func ctxCurrentUser(c echo.Context) (*domain.CurrentUser, error) {
	u, ok := middleware.CurrentUserFrom(c)
	if !ok {
		return nil, domain.ErrUnauthorized
	}
	return u, nil
}

// requestToken returns the token the guard verified, or whatever the
// request carries when the guard did not attach one.
func requestToken(c echo.Context) string {
	if t := middleware.TokenFrom(c); t != "" {
		return t
	}
	return middleware.TokenFromRequest(c.Request())
}
