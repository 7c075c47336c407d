package handler

import (
	"net/http"

	"github.com/labstack/echo/v4"

	"github.com/eventify/ticketing/internal/api/middleware"
	"github.com/eventify/ticketing/internal/core/domain"
	"github.com/eventify/ticketing/internal/core/ports"
)

// PageHandler renders the browser-facing pages as JSON envelopes.
type PageHandler struct {
	sessions ports.SessionResolver
	events   ports.DashboardService
}

func NewPageHandler(sessions ports.SessionResolver, events ports.DashboardService) *PageHandler {
	return &PageHandler{sessions: sessions, events: events}
}

// Events handles GET /events, the public listing and the default landing page.
//
// @Summary      Upcoming published events
// @Tags         pages
// @Produce      json
// @Success      200  {object}  pageResponse
// @Router       /events [get]
func (h *PageHandler) Events(c echo.Context) error {
	events, err := h.events.ListPublished(c.Request().Context())
	if err != nil {
		return err
	}

	user, _ := h.currentUser(c)
	return c.JSON(http.StatusOK, pageResponse{
		Page: "events",
		User: user,
		Data: publicEventsResponse{Events: events},
	})
}

// Landing returns the handler for a signed-in page. An account that no
// longer resolves is sent to the login page.
func (h *PageHandler) Landing(page string) echo.HandlerFunc {
	return func(c echo.Context) error {
		user, ok := h.currentUser(c)
		if !ok {
			return c.Redirect(http.StatusFound, middleware.LoginRedirect(c.Request().URL.Path))
		}
		return c.JSON(http.StatusOK, pageResponse{Page: page, User: user})
	}
}

// AuthPage returns the handler for the login and register pages. The route
// guard has already sent signed-in visitors to their landing page.
func (h *PageHandler) AuthPage(page string) echo.HandlerFunc {
	return func(c echo.Context) error {
		resp := pageResponse{Page: page}
		if cb := c.QueryParam("callbackUrl"); cb != "" {
			resp.Data = map[string]string{"callbackUrl": cb}
		}
		return c.JSON(http.StatusOK, resp)
	}
}

func (h *PageHandler) currentUser(c echo.Context) (*domain.CurrentUser, bool) {
	if u, ok := middleware.CurrentUserFrom(c); ok {
		return u, true
	}
	token := requestToken(c)
	if token == "" {
		return nil, false
	}
	return h.sessions.CurrentUser(c.Request().Context(), token)
}
