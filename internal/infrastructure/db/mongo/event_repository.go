package mongo

import (
	"context"
	"fmt"
	"time"

	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/bson/primitive"
	"go.mongodb.org/mongo-driver/mongo"

	"github.com/eventify/ticketing/internal/core/domain"
)

const (
	eventsCollection  = "events"
	venuesCollection  = "venues"
	ticketsCollection = "tickets"
)

// EventRepository implements ports.EventRepository using MongoDB.
type EventRepository struct {
	db *mongo.Database
}

func NewEventRepository(db *mongo.Database) *EventRepository {
	return &EventRepository{db: db}
}

type venueDoc struct {
	ID       primitive.ObjectID `bson:"_id,omitempty"`
	Name     string             `bson:"name"`
	Address  string             `bson:"address"`
	City     string             `bson:"city"`
	State    string             `bson:"state"`
	Zip      string             `bson:"zip"`
	Capacity int                `bson:"capacity,omitempty"`
}

type eventDoc struct {
	ID          primitive.ObjectID  `bson:"_id,omitempty"`
	Title       string              `bson:"title"`
	Description string              `bson:"description"`
	Date        time.Time           `bson:"date"`
	Image       string              `bson:"image"`
	Status      string              `bson:"status"`
	OrganizerID string              `bson:"organizer_id"`
	VenueID     primitive.ObjectID  `bson:"venue_id"`
	TicketTypes []domain.TicketType `bson:"ticket_types"`
	CreatedAt   time.Time           `bson:"created_at"`

	// Populated by $lookup only.
	Venue *venueDoc `bson:"venue,omitempty"`
}

type summaryDoc struct {
	ID          primitive.ObjectID `bson:"_id"`
	Title       string             `bson:"title"`
	Date        time.Time          `bson:"date"`
	Status      string             `bson:"status"`
	TicketsSold int64              `bson:"tickets_sold"`
	Revenue     float64            `bson:"revenue"`
}

func (r *EventRepository) CountByOrganizer(ctx context.Context, organizerID string, from time.Time) (int64, error) {
	ctx, cancel := context.WithTimeout(ctx, defaultTimeout)
	defer cancel()

	filter := bson.M{"organizer_id": organizerID}
	if !from.IsZero() {
		filter["date"] = bson.M{"$gte": from}
	}

	n, err := r.db.Collection(eventsCollection).CountDocuments(ctx, filter)
	if err != nil {
		return 0, fmt.Errorf("count events: %w", err)
	}
	return n, nil
}

// ListSummaries joins every event with its tickets to compute sales figures.
func (r *EventRepository) ListSummaries(ctx context.Context, organizerID string) ([]domain.EventSummary, error) {
	ctx, cancel := context.WithTimeout(ctx, defaultTimeout)
	defer cancel()

	pipeline := mongo.Pipeline{
		{{Key: "$match", Value: bson.D{{Key: "organizer_id", Value: organizerID}}}},
		{{Key: "$sort", Value: bson.D{{Key: "date", Value: -1}}}},
		{{Key: "$lookup", Value: bson.D{
			{Key: "from", Value: ticketsCollection},
			{Key: "localField", Value: "_id"},
			{Key: "foreignField", Value: "event_id"},
			{Key: "as", Value: "tickets"},
		}}},
		{{Key: "$project", Value: bson.D{
			{Key: "title", Value: 1},
			{Key: "date", Value: 1},
			{Key: "status", Value: 1},
			{Key: "tickets_sold", Value: bson.D{{Key: "$size", Value: "$tickets"}}},
			{Key: "revenue", Value: bson.D{{Key: "$sum", Value: "$tickets.price"}}},
		}}},
	}

	cur, err := r.db.Collection(eventsCollection).Aggregate(ctx, pipeline)
	if err != nil {
		return nil, fmt.Errorf("aggregate event summaries: %w", err)
	}
	defer cur.Close(ctx)

	var docs []summaryDoc
	if err := cur.All(ctx, &docs); err != nil {
		return nil, fmt.Errorf("decode event summaries: %w", err)
	}

	out := make([]domain.EventSummary, 0, len(docs))
	for _, d := range docs {
		out = append(out, domain.EventSummary{
			ID:          d.ID.Hex(),
			Title:       d.Title,
			Date:        d.Date,
			Status:      domain.EventStatus(d.Status),
			TicketsSold: d.TicketsSold,
			Revenue:     d.Revenue,
		})
	}
	return out, nil
}

// CreateWithVenue is not transactional: when the event insert fails the
// venue is removed on a best-effort basis.
func (r *EventRepository) CreateWithVenue(ctx context.Context, event *domain.Event, venue *domain.Venue) (*domain.Event, error) {
	ctx, cancel := context.WithTimeout(ctx, defaultTimeout)
	defer cancel()

	vdoc := venueDoc{
		Name:     venue.Name,
		Address:  venue.Address,
		City:     venue.City,
		State:    venue.State,
		Zip:      venue.Zip,
		Capacity: venue.Capacity,
	}
	vres, err := r.db.Collection(venuesCollection).InsertOne(ctx, vdoc)
	if err != nil {
		return nil, fmt.Errorf("insert venue: %w", err)
	}
	venueID, _ := vres.InsertedID.(primitive.ObjectID)

	edoc := eventDoc{
		Title:       event.Title,
		Description: event.Description,
		Date:        event.Date,
		Image:       event.Image,
		Status:      string(event.Status),
		OrganizerID: event.OrganizerID,
		VenueID:     venueID,
		TicketTypes: event.TicketTypes,
		CreatedAt:   event.CreatedAt,
	}
	eres, err := r.db.Collection(eventsCollection).InsertOne(ctx, edoc)
	if err != nil {
		_, _ = r.db.Collection(venuesCollection).DeleteOne(ctx, bson.M{"_id": venueID})
		return nil, fmt.Errorf("insert event: %w", err)
	}
	edoc.ID, _ = eres.InsertedID.(primitive.ObjectID)
	vdoc.ID = venueID
	edoc.Venue = &vdoc

	return edoc.toDomain(), nil
}

func (r *EventRepository) ListPublished(ctx context.Context, from time.Time, limit int) ([]*domain.Event, error) {
	ctx, cancel := context.WithTimeout(ctx, defaultTimeout)
	defer cancel()

	pipeline := mongo.Pipeline{
		{{Key: "$match", Value: bson.D{
			{Key: "status", Value: string(domain.EventPublished)},
			{Key: "date", Value: bson.D{{Key: "$gte", Value: from}}},
		}}},
		{{Key: "$sort", Value: bson.D{{Key: "date", Value: 1}}}},
		{{Key: "$limit", Value: int64(limit)}},
		{{Key: "$lookup", Value: bson.D{
			{Key: "from", Value: venuesCollection},
			{Key: "localField", Value: "venue_id"},
			{Key: "foreignField", Value: "_id"},
			{Key: "as", Value: "venue"},
		}}},
		{{Key: "$unwind", Value: bson.D{
			{Key: "path", Value: "$venue"},
			{Key: "preserveNullAndEmptyArrays", Value: true},
		}}},
	}

	cur, err := r.db.Collection(eventsCollection).Aggregate(ctx, pipeline)
	if err != nil {
		return nil, fmt.Errorf("aggregate published events: %w", err)
	}
	defer cur.Close(ctx)

	var docs []eventDoc
	if err := cur.All(ctx, &docs); err != nil {
		return nil, fmt.Errorf("decode published events: %w", err)
	}

	out := make([]*domain.Event, 0, len(docs))
	for i := range docs {
		out = append(out, docs[i].toDomain())
	}
	return out, nil
}

func (d *eventDoc) toDomain() *domain.Event {
	e := &domain.Event{
		ID:          d.ID.Hex(),
		Title:       d.Title,
		Description: d.Description,
		Date:        d.Date.UTC(),
		Image:       d.Image,
		Status:      domain.EventStatus(d.Status),
		OrganizerID: d.OrganizerID,
		TicketTypes: d.TicketTypes,
		CreatedAt:   d.CreatedAt.UTC(),
	}
	if d.Venue != nil {
		e.Venue = &domain.Venue{
			ID:       d.Venue.ID.Hex(),
			Name:     d.Venue.Name,
			Address:  d.Venue.Address,
			City:     d.Venue.City,
			State:    d.Venue.State,
			Zip:      d.Venue.Zip,
			Capacity: d.Venue.Capacity,
		}
	}
	return e
}
