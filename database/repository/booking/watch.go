package bookingRepo

import (
	"context"
	"fmt"

	"charterdesk/models"

	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"
)

// changeEvent is the slice of a change-stream document the watcher cares about.
type changeEvent struct {
	OperationType string         `bson:"operationType"`
	FullDocument  models.Booking `bson:"fullDocument"`
}

// Watch tails the bookings change stream and pushes full-document snapshots
// onto out. Partial updates are resolved to the whole document via
// updateLookup, so every delivery is the new authoritative state.
func (r *MongoBookingRepo) Watch(ctx context.Context, out chan<- models.Booking) error {
	opts := options.ChangeStream().SetFullDocument(options.UpdateLookup)
	stream, err := r.coll.Watch(ctx, mongo.Pipeline{
		bson.D{{Key: "$match", Value: bson.M{
			"operationType": bson.M{"$in": bson.A{"insert", "update", "replace"}},
		}}},
	}, opts)
	if err != nil {
		return fmt.Errorf("failed to open booking change stream: %w", err)
	}
	defer stream.Close(ctx)

	for stream.Next(ctx) {
		var ev changeEvent
		if err := stream.Decode(&ev); err != nil {
			return fmt.Errorf("failed to decode change event: %w", err)
		}
		if ev.FullDocument.ID == "" {
			continue
		}
		select {
		case out <- ev.FullDocument:
		case <-ctx.Done():
			return ctx.Err()
		}
	}
	if err := stream.Err(); err != nil && ctx.Err() == nil {
		return fmt.Errorf("booking change stream failed: %w", err)
	}
	return ctx.Err()
}
