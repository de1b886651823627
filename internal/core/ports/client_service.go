package ports

import (
	"context"
	"time"
)

// RegisterClientInput carries the self-registration form.
type RegisterClientInput struct {
	FirstName string
	LastName  string
	Email     string
	Password  string
	Phone     string
}

// EditClientInput carries the admin-editable profile fields.
type EditClientInput struct {
	FirstName  string
	LastName   string
	DocumentID *string
	Email      string
}

// ClientDetail is the admin view of a client and its linked account.
type ClientDetail struct {
	PersonID      string
	AccountID     string
	FirstName     string
	LastName      string
	Phone         string
	DocumentID    *string
	Email         string
	AccountActive bool
	PersonActive  bool
	CreatedAt     time.Time
}

// ClientList partitions clients by login eligibility.
type ClientList struct {
	Active   []ClientDetail
	Disabled []ClientDetail
}

// ClientService drives the client lifecycle.
type ClientService interface {
	Register(ctx context.Context, input RegisterClientInput) error
	Deactivate(ctx context.Context, personID string) error
	Activate(ctx context.Context, personID string) error
	Edit(ctx context.Context, personID string, input EditClientInput) (*ClientDetail, error)
	List(ctx context.Context) (*ClientList, error)
}
