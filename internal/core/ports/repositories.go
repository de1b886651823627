package ports

import (
	"context"

	"github.com/unla-grupo16/turnos-auth/internal/core/domain"
)

// AccountRepository persists login identities.
type AccountRepository interface {
	// FindByEmail returns domain.ErrAccountNotFound when no account matches.
	FindByEmail(ctx context.Context, email string) (*domain.Account, error)
	// FindByPersonID returns domain.ErrAccountNotFound when no account links the person.
	FindByPersonID(ctx context.Context, personID string) (*domain.Account, error)
	// ListByRole returns every account holding the given role.
	ListByRole(ctx context.Context, role domain.RoleType) ([]*domain.Account, error)
	// Create must report a unique email violation as domain.ErrDuplicateEmail.
	Create(ctx context.Context, account *domain.Account) error
	// Save overwrites email and enabled flag.
	Save(ctx context.Context, account *domain.Account) error
}

// PersonRepository persists client profiles.
type PersonRepository interface {
	// FindByID returns domain.ErrPersonNotFound when the person does not exist.
	FindByID(ctx context.Context, id string) (*domain.Person, error)
	Create(ctx context.Context, person *domain.Person) error
	Save(ctx context.Context, person *domain.Person) error
}

// RoleRepository reads role reference data.
type RoleRepository interface {
	// FindByType returns domain.ErrRoleNotConfigured when the role is missing.
	FindByType(ctx context.Context, t domain.RoleType) (*domain.Role, error)
}

// AppointmentRepository reads the appointments owned by a person.
type AppointmentRepository interface {
	ListByPerson(ctx context.Context, personID string) ([]domain.Appointment, error)
}

// Transactor runs fn as one atomic unit. Repository calls made with the
// context handed to fn join the unit; any error returned by fn rolls it back.
type Transactor interface {
	WithinTransaction(ctx context.Context, fn func(ctx context.Context) error) error
}

// AuditRepository stores lifecycle audit records.
type AuditRepository interface {
	InsertEvent(ctx context.Context, event *domain.AccountEvent) error
}
