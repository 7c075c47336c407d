package ports

import (
	"context"
	"time"

	"github.com/eventify/ticketing/internal/core/domain"
)

// VenueInput holds the venue an event is created with.
type VenueInput struct {
	Name    string
	Address string
	City    string
	State   string
	Zip     string
}

// TicketTypeInput holds one ticket category.
type TicketTypeInput struct {
	Name        string
	Price       float64
	Description string
}

// CreateEventInput carries everything needed to publish an event.
type CreateEventInput struct {
	Title       string
	Description string
	Date        time.Time
	Image       string
	Venue       VenueInput
	TicketTypes []TicketTypeInput
}

// DashboardService defines the organizer dashboard and public listing use cases.
type DashboardService interface {
	Stats(ctx context.Context, organizerID string) (*domain.DashboardStats, error)
	ListEvents(ctx context.Context, organizerID string) ([]domain.EventSummary, error)
	CreateEvent(ctx context.Context, organizerID string, in CreateEventInput) (*domain.Event, error)
	ListPublished(ctx context.Context) ([]*domain.Event, error)
}
