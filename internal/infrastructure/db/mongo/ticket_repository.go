package mongo

import (
	"context"
	"fmt"

	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/mongo"

	"github.com/eventify/ticketing/internal/core/domain"
)

// TicketRepository implements ports.TicketRepository using MongoDB.
type TicketRepository struct {
	db *mongo.Database
}

func NewTicketRepository(db *mongo.Database) *TicketRepository {
	return &TicketRepository{db: db}
}

// ActiveSales resolves the organizer's event ids first, then groups the
// ACTIVE tickets that belong to them.
func (r *TicketRepository) ActiveSales(ctx context.Context, organizerID string) (int64, float64, error) {
	ctx, cancel := context.WithTimeout(ctx, defaultTimeout)
	defer cancel()

	eventIDs, err := r.db.Collection(eventsCollection).Distinct(ctx, "_id", bson.M{"organizer_id": organizerID})
	if err != nil {
		return 0, 0, fmt.Errorf("distinct event ids: %w", err)
	}
	if len(eventIDs) == 0 {
		return 0, 0, nil
	}

	pipeline := mongo.Pipeline{
		{{Key: "$match", Value: bson.D{
			{Key: "event_id", Value: bson.D{{Key: "$in", Value: eventIDs}}},
			{Key: "status", Value: string(domain.TicketActive)},
		}}},
		{{Key: "$group", Value: bson.D{
			{Key: "_id", Value: nil},
			{Key: "count", Value: bson.D{{Key: "$sum", Value: 1}}},
			{Key: "revenue", Value: bson.D{{Key: "$sum", Value: "$price"}}},
		}}},
	}

	cur, err := r.db.Collection(ticketsCollection).Aggregate(ctx, pipeline)
	if err != nil {
		return 0, 0, fmt.Errorf("aggregate ticket sales: %w", err)
	}
	defer cur.Close(ctx)

	var rows []struct {
		Count   int64   `bson:"count"`
		Revenue float64 `bson:"revenue"`
	}
	if err := cur.All(ctx, &rows); err != nil {
		return 0, 0, fmt.Errorf("decode ticket sales: %w", err)
	}
	if len(rows) == 0 {
		return 0, 0, nil
	}
	return rows[0].Count, rows[0].Revenue, nil
}
