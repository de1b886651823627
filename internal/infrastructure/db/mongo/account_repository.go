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

type AccountRepository struct {
	coll *mongo.Collection
}

func NewAccountRepository(db *mongo.Database) *AccountRepository {
	return &AccountRepository{coll: db.Collection(collectionAccounts)}
}

type roleDoc struct {
	ID   string `bson:"_id"`
	Type string `bson:"type"`
}

type accountDoc struct {
	ID           string    `bson:"_id"`
	Email        string    `bson:"email"`
	PasswordHash string    `bson:"password_hash"`
	Enabled      bool      `bson:"enabled"`
	Roles        []roleDoc `bson:"roles"`
	PersonID     string    `bson:"person_id,omitempty"`
	CreatedAt    time.Time `bson:"created_at"`
	UpdatedAt    time.Time `bson:"updated_at"`
}

func toAccountDoc(a *domain.Account) accountDoc {
	roles := make([]roleDoc, 0, len(a.Roles))
	for _, r := range a.Roles {
		roles = append(roles, roleDoc{ID: r.ID, Type: string(r.Type)})
	}
	return accountDoc{
		ID:           a.ID,
		Email:        a.Email,
		PasswordHash: a.PasswordHash,
		Enabled:      a.Enabled,
		Roles:        roles,
		PersonID:     a.PersonID,
		CreatedAt:    a.CreatedAt.UTC(),
		UpdatedAt:    a.UpdatedAt.UTC(),
	}
}

// toDomain refuses documents carrying a role type the service does not know,
// so a corrupt record can never grant or hide a role.
func (d accountDoc) toDomain() (*domain.Account, error) {
	roles := make([]domain.Role, 0, len(d.Roles))
	for _, r := range d.Roles {
		rt := domain.RoleType(r.Type)
		if !rt.Valid() {
			return nil, fmt.Errorf("account %s: unknown role type %q", d.ID, r.Type)
		}
		roles = append(roles, domain.Role{ID: r.ID, Type: rt})
	}
	return &domain.Account{
		ID:           d.ID,
		Email:        d.Email,
		PasswordHash: d.PasswordHash,
		Enabled:      d.Enabled,
		Roles:        roles,
		PersonID:     d.PersonID,
		CreatedAt:    d.CreatedAt,
		UpdatedAt:    d.UpdatedAt,
	}, nil
}

func (r *AccountRepository) FindByEmail(ctx context.Context, email string) (*domain.Account, error) {
	return r.findOne(ctx, bson.M{"email": email})
}

func (r *AccountRepository) FindByPersonID(ctx context.Context, personID string) (*domain.Account, error) {
	return r.findOne(ctx, bson.M{"person_id": personID})
}

func (r *AccountRepository) findOne(ctx context.Context, filter bson.M) (*domain.Account, error) {
	var doc accountDoc
	if err := r.coll.FindOne(ctx, filter).Decode(&doc); err != nil {
		if errors.Is(err, mongo.ErrNoDocuments) {
			return nil, domain.ErrAccountNotFound
		}
		return nil, fmt.Errorf("find account: %w", err)
	}
	return doc.toDomain()
}

// ListByRole returns accounts holding role, ordered by email.
func (r *AccountRepository) ListByRole(ctx context.Context, role domain.RoleType) ([]*domain.Account, error) {
	cur, err := r.coll.Find(ctx, bson.M{"roles.type": string(role)}, sortByEmail())
	if err != nil {
		return nil, fmt.Errorf("list accounts: %w", err)
	}
	defer cur.Close(ctx)

	var docs []accountDoc
	if err := cur.All(ctx, &docs); err != nil {
		return nil, fmt.Errorf("decode accounts: %w", err)
	}

	out := make([]*domain.Account, 0, len(docs))
	for _, d := range docs {
		a, err := d.toDomain()
		if err != nil {
			return nil, err
		}
		out = append(out, a)
	}
	return out, nil
}

// Create inserts the account; the unique email index turns a concurrent
// duplicate into domain.ErrDuplicateEmail.
func (r *AccountRepository) Create(ctx context.Context, a *domain.Account) error {
	if _, err := r.coll.InsertOne(ctx, toAccountDoc(a)); err != nil {
		if mongo.IsDuplicateKeyError(err) {
			return domain.ErrDuplicateEmail
		}
		return fmt.Errorf("insert account: %w", err)
	}
	return nil
}

// Save overwrites the mutable account fields.
func (r *AccountRepository) Save(ctx context.Context, a *domain.Account) error {
	res, err := r.coll.UpdateOne(ctx,
		bson.M{"_id": a.ID},
		bson.M{"$set": bson.M{
			"email":      a.Email,
			"enabled":    a.Enabled,
			"updated_at": time.Now().UTC(),
		}},
	)
	if err != nil {
		if mongo.IsDuplicateKeyError(err) {
			return domain.ErrDuplicateEmail
		}
		return fmt.Errorf("update account: %w", err)
	}
	if res.MatchedCount == 0 {
		return domain.ErrAccountNotFound
	}
	return nil
}
