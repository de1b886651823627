package mongo

import (
	"context"
	"errors"
	"fmt"

	"github.com/google/uuid"
	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"

	"github.com/unla-grupo16/turnos-auth/internal/core/domain"
)

type RoleRepository struct {
	coll *mongo.Collection
}

func NewRoleRepository(db *mongo.Database) *RoleRepository {
	return &RoleRepository{coll: db.Collection(collectionRoles)}
}

func (r *RoleRepository) FindByType(ctx context.Context, t domain.RoleType) (*domain.Role, error) {
	var doc roleDoc
	if err := r.coll.FindOne(ctx, bson.M{"type": string(t)}).Decode(&doc); err != nil {
		if errors.Is(err, mongo.ErrNoDocuments) {
			return nil, domain.ErrRoleNotConfigured
		}
		return nil, fmt.Errorf("find role: %w", err)
	}
	return &domain.Role{ID: doc.ID, Type: domain.RoleType(doc.Type)}, nil
}

// EnsureRoles inserts any of the given role types that are missing. Existing
// roles keep their ids.
func (r *RoleRepository) EnsureRoles(ctx context.Context, types ...domain.RoleType) error {
	for _, t := range types {
		_, err := r.coll.UpdateOne(ctx,
			bson.M{"type": string(t)},
			bson.M{"$setOnInsert": bson.M{"_id": uuid.NewString()}},
			options.Update().SetUpsert(true),
		)
		if err != nil {
			return fmt.Errorf("ensure role %s: %w", t, err)
		}
	}
	return nil
}
