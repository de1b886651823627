package service

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/google/uuid"
	"github.com/rs/zerolog"

	"github.com/unla-grupo16/turnos-auth/internal/core/domain"
	"github.com/unla-grupo16/turnos-auth/internal/core/ports"
)

// RegistrationGuard abstracts the short-lived per-email lock (Redis). It only
// narrows the duplicate-registration window; the unique index is authoritative.
// Acquire returns a token identifying this holder; Release only drops the lock
// while it still carries that token.
type RegistrationGuard interface {
	Acquire(ctx context.Context, email string) (token string, acquired bool, err error)
	Release(ctx context.Context, email, token string) error
}

// AuditPublisher accepts lifecycle events for asynchronous persistence.
type AuditPublisher interface {
	Publish(event domain.AccountEvent)
}

type noopGuard struct{}

func (noopGuard) Acquire(context.Context, string) (string, bool, error) { return "", true, nil }
func (noopGuard) Release(context.Context, string, string) error         { return nil }

type noopPublisher struct{}

func (noopPublisher) Publish(domain.AccountEvent) {}

// ClientRepositories groups the stores the lifecycle manager works against.
type ClientRepositories struct {
	Accounts     ports.AccountRepository
	Persons      ports.PersonRepository
	Roles        ports.RoleRepository
	Appointments ports.AppointmentRepository
	Tx           ports.Transactor
}

// ClientService implements registration, activation, deactivation and editing.
type ClientService struct {
	repos  ClientRepositories
	hasher ports.PasswordHasher
	guard  RegistrationGuard
	audit  AuditPublisher
	log    zerolog.Logger
	now    func() time.Time
}

// NewClientService builds a ClientService. guard and audit may be nil.
func NewClientService(
	repos ClientRepositories,
	hasher ports.PasswordHasher,
	guard RegistrationGuard,
	audit AuditPublisher,
	log zerolog.Logger,
) *ClientService {
	if guard == nil {
		guard = noopGuard{}
	}
	if audit == nil {
		audit = noopPublisher{}
	}
	return &ClientService{
		repos:  repos,
		hasher: hasher,
		guard:  guard,
		audit:  audit,
		log:    log,
		now:    func() time.Time { return time.Now().UTC() },
	}
}

// Register creates a Person and its Account in one transaction.
func (s *ClientService) Register(ctx context.Context, in ports.RegisterClientInput) error {
	email := domain.NormalizeEmail(in.Email)

	// 1. Narrow the race window. Neither a guard failure nor a lock held by
	// another request decides the outcome; the pre-check and the unique index do.
	token, acquired, err := s.guard.Acquire(ctx, email)
	switch {
	case err != nil:
		s.log.Warn().Err(err).Str("email", email).Msg("registration lock unavailable, continuing")
	case !acquired:
		s.log.Info().Str("email", email).Msg("registration already in flight for email, continuing")
	default:
		defer func() {
			if relErr := s.guard.Release(context.WithoutCancel(ctx), email, token); relErr != nil {
				s.log.Warn().Err(relErr).Str("email", email).Msg("failed to release registration lock")
			}
		}()
	}

	// 2. Pre-check. The insert below still maps a unique violation to the same error.
	if _, err := s.repos.Accounts.FindByEmail(ctx, email); err == nil {
		return fmt.Errorf("register: %w", domain.ErrDuplicateEmail)
	} else if !errors.Is(err, domain.ErrAccountNotFound) {
		return fmt.Errorf("register: lookup email: %w", err)
	}

	// 3. Default role must exist in reference data.
	role, err := s.repos.Roles.FindByType(ctx, domain.RoleClient)
	if err != nil {
		if errors.Is(err, domain.ErrRoleNotConfigured) {
			s.log.Error().Str("role", string(domain.RoleClient)).Msg("default client role missing from reference data")
		}
		return fmt.Errorf("register: %w", err)
	}

	hash, err := s.hasher.Hash(in.Password)
	if err != nil {
		return fmt.Errorf("register: hash password: %w", err)
	}

	now := s.now()
	person := &domain.Person{
		ID:        uuid.NewString(),
		FirstName: in.FirstName,
		LastName:  in.LastName,
		Phone:     in.Phone,
		Active:    true,
		CreatedAt: now,
		UpdatedAt: now,
	}
	account := &domain.Account{
		ID:           uuid.NewString(),
		Email:        email,
		PasswordHash: hash,
		Enabled:      true,
		Roles:        []domain.Role{*role},
		PersonID:     person.ID,
		CreatedAt:    now,
		UpdatedAt:    now,
	}

	// 4. Both entities or neither.
	err = s.repos.Tx.WithinTransaction(ctx, func(ctx context.Context) error {
		if err := s.repos.Persons.Create(ctx, person); err != nil {
			return fmt.Errorf("create person: %w", err)
		}
		if err := s.repos.Accounts.Create(ctx, account); err != nil {
			return fmt.Errorf("create account: %w", err)
		}
		return nil
	})
	if err != nil {
		return fmt.Errorf("register: %w", err)
	}

	s.audit.Publish(domain.AccountEvent{
		PersonID:   person.ID,
		AccountID:  account.ID,
		Transition: domain.TransitionRegistered,
		OccurredAt: now,
	})
	s.log.Info().Str("person_id", person.ID).Str("account_id", account.ID).Msg("client registered")
	return nil
}

// Deactivate disables login for the person's account. It is refused while
// any of the person's appointments is booked.
func (s *ClientService) Deactivate(ctx context.Context, personID string) error {
	var accountID string
	err := s.repos.Tx.WithinTransaction(ctx, func(ctx context.Context) error {
		if _, err := s.repos.Persons.FindByID(ctx, personID); err != nil {
			return err
		}

		appts, err := s.repos.Appointments.ListByPerson(ctx, personID)
		if err != nil {
			return fmt.Errorf("list appointments: %w", err)
		}
		if domain.HasBookedAppointment(appts) {
			return domain.ErrActiveAppointments
		}

		account, err := s.linkedAccount(ctx, personID)
		if err != nil {
			return err
		}
		accountID = account.ID

		account.Enabled = false
		return s.repos.Accounts.Save(ctx, account)
	})
	if err != nil {
		return fmt.Errorf("deactivate %s: %w", personID, err)
	}

	s.publishTransition(personID, accountID, domain.TransitionDeactivated)
	return nil
}

// Activate re-enables login for the person's account.
func (s *ClientService) Activate(ctx context.Context, personID string) error {
	var accountID string
	err := s.repos.Tx.WithinTransaction(ctx, func(ctx context.Context) error {
		if _, err := s.repos.Persons.FindByID(ctx, personID); err != nil {
			return err
		}

		account, err := s.linkedAccount(ctx, personID)
		if err != nil {
			return err
		}
		accountID = account.ID

		account.Enabled = true
		return s.repos.Accounts.Save(ctx, account)
	})
	if err != nil {
		return fmt.Errorf("activate %s: %w", personID, err)
	}

	s.publishTransition(personID, accountID, domain.TransitionActivated)
	return nil
}

// Edit overwrites the profile fields and the linked account's email.
func (s *ClientService) Edit(ctx context.Context, personID string, in ports.EditClientInput) (*ports.ClientDetail, error) {
	var detail ports.ClientDetail
	err := s.repos.Tx.WithinTransaction(ctx, func(ctx context.Context) error {
		person, err := s.repos.Persons.FindByID(ctx, personID)
		if err != nil {
			return err
		}
		account, err := s.linkedAccount(ctx, personID)
		if err != nil {
			return err
		}

		person.FirstName = in.FirstName
		person.LastName = in.LastName
		person.DocumentID = in.DocumentID
		account.Email = domain.NormalizeEmail(in.Email)

		if err := s.repos.Persons.Save(ctx, person); err != nil {
			return fmt.Errorf("save person: %w", err)
		}
		if err := s.repos.Accounts.Save(ctx, account); err != nil {
			return fmt.Errorf("save account: %w", err)
		}

		detail = toClientDetail(person, account)
		return nil
	})
	if err != nil {
		return nil, fmt.Errorf("edit %s: %w", personID, err)
	}
	return &detail, nil
}

// List returns every client split by login eligibility.
func (s *ClientService) List(ctx context.Context) (*ports.ClientList, error) {
	accounts, err := s.repos.Accounts.ListByRole(ctx, domain.RoleClient)
	if err != nil {
		return nil, fmt.Errorf("list clients: %w", err)
	}

	out := &ports.ClientList{
		Active:   make([]ports.ClientDetail, 0, len(accounts)),
		Disabled: make([]ports.ClientDetail, 0),
	}
	for _, account := range accounts {
		if account.PersonID == "" {
			continue
		}
		person, err := s.repos.Persons.FindByID(ctx, account.PersonID)
		if err != nil {
			if errors.Is(err, domain.ErrPersonNotFound) {
				s.log.Warn().Str("account_id", account.ID).Str("person_id", account.PersonID).Msg("client account without person")
				continue
			}
			return nil, fmt.Errorf("list clients: %w", err)
		}

		d := toClientDetail(person, account)
		if account.Enabled {
			out.Active = append(out.Active, d)
		} else {
			out.Disabled = append(out.Disabled, d)
		}
	}
	return out, nil
}

func (s *ClientService) linkedAccount(ctx context.Context, personID string) (*domain.Account, error) {
	account, err := s.repos.Accounts.FindByPersonID(ctx, personID)
	if err != nil {
		if errors.Is(err, domain.ErrAccountNotFound) {
			return nil, domain.ErrLinkedAccountNotFound
		}
		return nil, fmt.Errorf("find linked account: %w", err)
	}
	return account, nil
}

func (s *ClientService) publishTransition(personID, accountID string, t domain.AccountTransition) {
	s.audit.Publish(domain.AccountEvent{
		PersonID:   personID,
		AccountID:  accountID,
		Transition: t,
		OccurredAt: s.now(),
	})
	s.log.Info().Str("person_id", personID).Str("transition", string(t)).Msg("account transition applied")
}

func toClientDetail(p *domain.Person, a *domain.Account) ports.ClientDetail {
	return ports.ClientDetail{
		PersonID:      p.ID,
		AccountID:     a.ID,
		FirstName:     p.FirstName,
		LastName:      p.LastName,
		Phone:         p.Phone,
		DocumentID:    p.DocumentID,
		Email:         a.Email,
		AccountActive: a.Enabled,
		PersonActive:  p.Active,
		CreatedAt:     p.CreatedAt,
	}
}
