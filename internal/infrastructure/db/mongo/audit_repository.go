package mongo

import (
	"context"
	"time"

	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/mongo"

	"github.com/unla-grupo16/turnos-auth/internal/core/domain"
)

// AuditRepository persists lifecycle events to the account_events collection.
type AuditRepository struct {
	coll *mongo.Collection
}

func NewAuditRepository(db *mongo.Database) *AuditRepository {
	return &AuditRepository{coll: db.Collection(collectionEvents)}
}

func (r *AuditRepository) InsertEvent(ctx context.Context, event *domain.AccountEvent) error {
	doc := bson.M{
		"person_id":   event.PersonID,
		"account_id":  event.AccountID,
		"transition":  string(event.Transition),
		"occurred_at": event.OccurredAt.UTC(),
		"recorded_at": time.Now().UTC(),
	}

	_, err := r.coll.InsertOne(ctx, doc)
	return err
}
