package handler

import (
	"time"

	"github.com/eventify/ticketing/internal/core/domain"
)

type venueRequest struct {
	Name    string `json:"name"    validate:"required,min=2"`
	Address string `json:"address" validate:"required,min=5"`
	City    string `json:"city"    validate:"required,min=2"`
	State   string `json:"state"   validate:"required,min=2"`
	Zip     string `json:"zip"     validate:"required,min=5"`
}

type ticketTypeRequest struct {
	Name        string  `json:"name"        validate:"required,min=2"`
	Price       float64 `json:"price"       validate:"gte=0"`
	Description string  `json:"description"`
}

type createEventRequest struct {
	Title       string              `json:"title"       validate:"required,min=2"`
	Description string              `json:"description" validate:"required,min=10"`
	Date        time.Time           `json:"date"        validate:"required"`
	Image       string              `json:"image"       validate:"required,url"`
	Venue       venueRequest        `json:"venue"       validate:"required"`
	TicketTypes []ticketTypeRequest `json:"ticketTypes" validate:"required,min=1,dive"`
}

type eventsResponse struct {
	Events []domain.EventSummary `json:"events"`
}

type publicEventsResponse struct {
	Events []*domain.Event `json:"events"`
}

// pageResponse is the JSON envelope the page routes render.
type pageResponse struct {
	Page string              `json:"page"`
	User *domain.CurrentUser `json:"user,omitempty"`
	Data any                 `json:"data,omitempty"`
}
