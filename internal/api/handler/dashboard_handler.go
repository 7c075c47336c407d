package handler

import (
	"net/http"

	"github.com/labstack/echo/v4"

	"github.com/eventify/ticketing/internal/core/ports"
)

// DashboardHandler serves the organizer dashboard API. Routes are mounted
// behind middleware.RequireRole, which attaches the organizer's account.
type DashboardHandler struct {
	service ports.DashboardService
}

func NewDashboardHandler(service ports.DashboardService) *DashboardHandler {
	return &DashboardHandler{service: service}
}

// Stats handles GET /api/dashboard/stats.
//
// @Summary      Organizer statistics
// @Tags         dashboard
// @Produce      json
// @Security     BearerAuth
// @Success      200  {object}  domain.DashboardStats
// @Failure      401  {object}  errorResponse
// @Router       /api/dashboard/stats [get]
func (h *DashboardHandler) Stats(c echo.Context) error {
	user, err := ctxCurrentUser(c)
	if err != nil {
		return err
	}

	stats, err := h.service.Stats(c.Request().Context(), user.ID)
	if err != nil {
		return err
	}
	return c.JSON(http.StatusOK, stats)
}

// ListEvents handles GET /api/dashboard/events.
//
// @Summary      Organizer events with sales
// @Tags         dashboard
// @Produce      json
// @Security     BearerAuth
// @Success      200  {object}  eventsResponse
// @Failure      401  {object}  errorResponse
// @Router       /api/dashboard/events [get]
func (h *DashboardHandler) ListEvents(c echo.Context) error {
	user, err := ctxCurrentUser(c)
	if err != nil {
		return err
	}

	events, err := h.service.ListEvents(c.Request().Context(), user.ID)
	if err != nil {
		return err
	}
	return c.JSON(http.StatusOK, eventsResponse{Events: events})
}

// CreateEvent handles POST /api/dashboard/events.
//
// @Summary      Create and publish an event
// @Tags         dashboard
// @Accept       json
// @Produce      json
// @Security     BearerAuth
// @Param        body  body      createEventRequest  true  "Event"
// @Success      201   {object}  domain.Event
// @Failure      400   {object}  errorResponse
// @Failure      401   {object}  errorResponse
// @Router       /api/dashboard/events [post]
func (h *DashboardHandler) CreateEvent(c echo.Context) error {
	user, err := ctxCurrentUser(c)
	if err != nil {
		return err
	}

	var req createEventRequest
	if err := c.Bind(&req); err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, "invalid payload")
	}
	if err := c.Validate(&req); err != nil {
		return err
	}

	event, err := h.service.CreateEvent(c.Request().Context(), user.ID, toCreateEventInput(req))
	if err != nil {
		return err
	}
	return c.JSON(http.StatusCreated, event)
}
