package ports

import (
	"context"
	"time"

	"github.com/eventify/ticketing/internal/core/domain"
)

// EventRepository handles events and the venues they are created with.
type EventRepository interface {
	// CountByOrganizer counts the organizer's events. When from is non-zero
	// only events dated at or after it are counted.
	CountByOrganizer(ctx context.Context, organizerID string, from time.Time) (int64, error)

	// ListSummaries returns the organizer's events, newest date first, each
	// with its ticket count and revenue.
	ListSummaries(ctx context.Context, organizerID string) ([]domain.EventSummary, error)

	// CreateWithVenue inserts the venue and then the event that references it.
	CreateWithVenue(ctx context.Context, event *domain.Event, venue *domain.Venue) (*domain.Event, error)

	// ListPublished returns published events dated at or after from.
	ListPublished(ctx context.Context, from time.Time, limit int) ([]*domain.Event, error)
}

// TicketRepository aggregates ticket sales.
type TicketRepository interface {
	// ActiveSales counts ACTIVE tickets for the organizer's events and sums
	// their prices.
	ActiveSales(ctx context.Context, organizerID string) (count int64, revenue float64, err error)
}
