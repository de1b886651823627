package mongo

import (
	"context"
	"fmt"
	"time"

	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"

	"github.com/unla-grupo16/turnos-auth/internal/core/domain"
)

// AppointmentRepository reads appointments owned by the scheduling side of
// the system; this service never writes them.
type AppointmentRepository struct {
	coll *mongo.Collection
}

func NewAppointmentRepository(db *mongo.Database) *AppointmentRepository {
	return &AppointmentRepository{coll: db.Collection(collectionAppointments)}
}

type appointmentDoc struct {
	ID        string    `bson:"_id"`
	PersonID  string    `bson:"person_id"`
	StartsAt  time.Time `bson:"starts_at"`
	Available bool      `bson:"available"`
}

func (r *AppointmentRepository) ListByPerson(ctx context.Context, personID string) ([]domain.Appointment, error) {
	opts := options.Find().SetSort(bson.D{{Key: "starts_at", Value: 1}})
	cur, err := r.coll.Find(ctx, bson.M{"person_id": personID}, opts)
	if err != nil {
		return nil, fmt.Errorf("list appointments: %w", err)
	}
	defer cur.Close(ctx)

	var docs []appointmentDoc
	if err := cur.All(ctx, &docs); err != nil {
		return nil, fmt.Errorf("decode appointments: %w", err)
	}

	out := make([]domain.Appointment, 0, len(docs))
	for _, d := range docs {
		out = append(out, domain.Appointment{
			ID:        d.ID,
			PersonID:  d.PersonID,
			StartsAt:  d.StartsAt,
			Available: d.Available,
		})
	}
	return out, nil
}
