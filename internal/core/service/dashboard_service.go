package service

import (
	"context"
	"fmt"
	"strings"
	"time"

	"github.com/rs/zerolog"
	"golang.org/x/sync/errgroup"

	"github.com/eventify/ticketing/internal/core/domain"
	"github.com/eventify/ticketing/internal/core/ports"
)

const publishedListLimit = 50

// DashboardService implements the organizer dashboard and the public listing.
type DashboardService struct {
	events  ports.EventRepository
	tickets ports.TicketRepository
	log     zerolog.Logger
	now     func() time.Time
}

func NewDashboardService(events ports.EventRepository, tickets ports.TicketRepository, log zerolog.Logger) *DashboardService {
	return &DashboardService{events: events, tickets: tickets, log: log, now: time.Now}
}

// Stats runs the three dashboard aggregates concurrently.
func (s *DashboardService) Stats(ctx context.Context, organizerID string) (*domain.DashboardStats, error) {
	var stats domain.DashboardStats
	now := s.now().UTC()

	g, gctx := errgroup.WithContext(ctx)
	g.Go(func() error {
		n, err := s.events.CountByOrganizer(gctx, organizerID, time.Time{})
		stats.TotalEvents = n
		return err
	})
	g.Go(func() error {
		n, err := s.events.CountByOrganizer(gctx, organizerID, now)
		stats.ActiveEvents = n
		return err
	})
	g.Go(func() error {
		count, revenue, err := s.tickets.ActiveSales(gctx, organizerID)
		stats.TotalTicketsSold = count
		stats.TotalRevenue = revenue
		return err
	})
	if err := g.Wait(); err != nil {
		return nil, fmt.Errorf("dashboard stats: %w", err)
	}
	return &stats, nil
}

func (s *DashboardService) ListEvents(ctx context.Context, organizerID string) ([]domain.EventSummary, error) {
	events, err := s.events.ListSummaries(ctx, organizerID)
	if err != nil {
		return nil, fmt.Errorf("dashboard events: %w", err)
	}
	if events == nil {
		events = []domain.EventSummary{}
	}
	return events, nil
}

// CreateEvent publishes a new event together with its venue. Every ticket
// type starts with domain.DefaultTicketQuantity seats.
func (s *DashboardService) CreateEvent(ctx context.Context, organizerID string, in ports.CreateEventInput) (*domain.Event, error) {
	if strings.TrimSpace(in.Title) == "" || in.Date.IsZero() || len(in.TicketTypes) == 0 {
		return nil, domain.ErrInvalidEvent
	}

	ticketTypes := make([]domain.TicketType, 0, len(in.TicketTypes))
	for _, tt := range in.TicketTypes {
		if tt.Price < 0 {
			return nil, domain.ErrInvalidEvent
		}
		ticketTypes = append(ticketTypes, domain.TicketType{
			Name:              tt.Name,
			Price:             tt.Price,
			Description:       tt.Description,
			Quantity:          domain.DefaultTicketQuantity,
			AvailableQuantity: domain.DefaultTicketQuantity,
		})
	}

	venue := &domain.Venue{
		Name:    in.Venue.Name,
		Address: in.Venue.Address,
		City:    in.Venue.City,
		State:   in.Venue.State,
		Zip:     in.Venue.Zip,
	}
	event := &domain.Event{
		Title:       strings.TrimSpace(in.Title),
		Description: in.Description,
		Date:        in.Date.UTC(),
		Image:       in.Image,
		Status:      domain.EventPublished,
		OrganizerID: organizerID,
		TicketTypes: ticketTypes,
		CreatedAt:   s.now().UTC(),
	}

	created, err := s.events.CreateWithVenue(ctx, event, venue)
	if err != nil {
		s.log.Error().Err(err).Str("organizer_id", organizerID).Msg("failed to create event")
		return nil, err
	}

	s.log.Info().Str("event_id", created.ID).Str("organizer_id", organizerID).Msg("event created")
	return created, nil
}

// ListPublished returns upcoming published events for public browsing.
func (s *DashboardService) ListPublished(ctx context.Context) ([]*domain.Event, error) {
	events, err := s.events.ListPublished(ctx, s.now().UTC(), publishedListLimit)
	if err != nil {
		return nil, fmt.Errorf("list published events: %w", err)
	}
	if events == nil {
		events = []*domain.Event{}
	}
	return events, nil
}
