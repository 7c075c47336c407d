package middleware

import (
	"github.com/labstack/echo/v4"

	"github.com/eventify/ticketing/internal/core/domain"
	"github.com/eventify/ticketing/internal/core/ports"
)

// RequireRole loads the account behind the request token and lets the
// request through only when its stored role is one of allowed. The token's
// embedded role is not consulted.
func RequireRole(resolver ports.SessionResolver, allowed ...domain.Role) echo.MiddlewareFunc {
	set := make(map[domain.Role]struct{}, len(allowed))
	for _, r := range allowed {
		set[r] = struct{}{}
	}

	return func(next echo.HandlerFunc) echo.HandlerFunc {
		return func(c echo.Context) error {
			user, ok := CurrentUserFrom(c)
			if !ok {
				token := TokenFrom(c)
				if token == "" {
					token = TokenFromRequest(c.Request())
				}
				user, ok = resolver.CurrentUser(c.Request().Context(), token)
				if !ok {
					return domain.ErrUnauthorized
				}
				SetCurrentUser(c, user)
			}

			if _, allowed := set[user.Role]; !allowed {
				return domain.ErrUnauthorized
			}
			return next(c)
		}
	}
}
