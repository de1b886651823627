package mongo

import (
	"context"
	"errors"
	"fmt"
	"time"

	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/mongo"

	"github.com/unla-grupo16/turnos-auth/internal/core/domain"
)

type PersonRepository struct {
	coll *mongo.Collection
}

func NewPersonRepository(db *mongo.Database) *PersonRepository {
	return &PersonRepository{coll: db.Collection(collectionPersons)}
}

type personDoc struct {
	ID         string    `bson:"_id"`
	FirstName  string    `bson:"first_name"`
	LastName   string    `bson:"last_name"`
	Phone      string    `bson:"phone"`
	DocumentID *string   `bson:"document_id,omitempty"`
	Active     bool      `bson:"active"`
	CreatedAt  time.Time `bson:"created_at"`
	UpdatedAt  time.Time `bson:"updated_at"`
}

func (d personDoc) toDomain() *domain.Person {
	return &domain.Person{
		ID:         d.ID,
		FirstName:  d.FirstName,
		LastName:   d.LastName,
		Phone:      d.Phone,
		DocumentID: d.DocumentID,
		Active:     d.Active,
		CreatedAt:  d.CreatedAt,
		UpdatedAt:  d.UpdatedAt,
	}
}

func (r *PersonRepository) FindByID(ctx context.Context, id string) (*domain.Person, error) {
	var doc personDoc
	if err := r.coll.FindOne(ctx, bson.M{"_id": id}).Decode(&doc); err != nil {
		if errors.Is(err, mongo.ErrNoDocuments) {
			return nil, domain.ErrPersonNotFound
		}
		return nil, fmt.Errorf("find person: %w", err)
	}
	return doc.toDomain(), nil
}

func (r *PersonRepository) Create(ctx context.Context, p *domain.Person) error {
	doc := personDoc{
		ID:         p.ID,
		FirstName:  p.FirstName,
		LastName:   p.LastName,
		Phone:      p.Phone,
		DocumentID: p.DocumentID,
		Active:     p.Active,
		CreatedAt:  p.CreatedAt.UTC(),
		UpdatedAt:  p.UpdatedAt.UTC(),
	}
	if _, err := r.coll.InsertOne(ctx, doc); err != nil {
		return fmt.Errorf("insert person: %w", err)
	}
	return nil
}

func (r *PersonRepository) Save(ctx context.Context, p *domain.Person) error {
	set := bson.M{
		"first_name": p.FirstName,
		"last_name":  p.LastName,
		"phone":      p.Phone,
		"active":     p.Active,
		"updated_at": time.Now().UTC(),
	}
	update := bson.M{"$set": set}
	if p.DocumentID != nil {
		set["document_id"] = *p.DocumentID
	} else {
		update["$unset"] = bson.M{"document_id": ""}
	}

	res, err := r.coll.UpdateOne(ctx, bson.M{"_id": p.ID}, update)
	if err != nil {
		return fmt.Errorf("update person: %w", err)
	}
	if res.MatchedCount == 0 {
		return domain.ErrPersonNotFound
	}
	return nil
}
