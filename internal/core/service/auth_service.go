package service

import (
	"context"
	"errors"
	"fmt"
	"sync"

	"github.com/rs/zerolog"

	"github.com/unla-grupo16/turnos-auth/internal/core/domain"
	"github.com/unla-grupo16/turnos-auth/internal/core/ports"
)

// PasswordVerifier checks credentials against the stored password hash.
type PasswordVerifier struct {
	accounts ports.AccountRepository
	hasher   ports.PasswordHasher

	dummyOnce sync.Once
	dummyHash string
}

func NewPasswordVerifier(accounts ports.AccountRepository, hasher ports.PasswordHasher) *PasswordVerifier {
	return &PasswordVerifier{accounts: accounts, hasher: hasher}
}

// VerifyCredentials does not distinguish unknown emails from bad passwords.
func (v *PasswordVerifier) VerifyCredentials(ctx context.Context, email, password string) error {
	email = domain.NormalizeEmail(email)
	if email == "" || password == "" {
		return domain.ErrInvalidCredentials
	}

	account, err := v.accounts.FindByEmail(ctx, email)
	if err != nil {
		if errors.Is(err, domain.ErrAccountNotFound) {
			v.burnVerify(password)
			return domain.ErrInvalidCredentials
		}
		return fmt.Errorf("verify credentials: %w", err)
	}

	if v.hasher.Verify(account.PasswordHash, password) != nil {
		return domain.ErrInvalidCredentials
	}
	return nil
}

// burnVerify runs a full hash comparison for unknown emails so they take as
// long to reject as a wrong password.
func (v *PasswordVerifier) burnVerify(password string) {
	v.dummyOnce.Do(func() {
		v.dummyHash, _ = v.hasher.Hash("unknown-account-placeholder")
	})
	if v.dummyHash != "" {
		_ = v.hasher.Verify(v.dummyHash, password)
	}
}

// AuthService implements login.
type AuthService struct {
	verifier ports.CredentialVerifier
	accounts ports.AccountRepository
	persons  ports.PersonRepository
	issuer   ports.TokenIssuer
	log      zerolog.Logger
}

func NewAuthService(
	verifier ports.CredentialVerifier,
	accounts ports.AccountRepository,
	persons ports.PersonRepository,
	issuer ports.TokenIssuer,
	log zerolog.Logger,
) *AuthService {
	return &AuthService{
		verifier: verifier,
		accounts: accounts,
		persons:  persons,
		issuer:   issuer,
		log:      log,
	}
}

// Authenticate verifies credentials, checks login eligibility and issues a token.
// It never mutates state.
func (s *AuthService) Authenticate(ctx context.Context, email, password string) (*ports.LoginResult, error) {
	email = domain.NormalizeEmail(email)
	if err := s.verifier.VerifyCredentials(ctx, email, password); err != nil {
		return nil, err
	}

	account, err := s.accounts.FindByEmail(ctx, email)
	if err != nil {
		if errors.Is(err, domain.ErrAccountNotFound) {
			s.log.Error().Str("email", email).Msg("verified credentials without backing account")
		}
		return nil, fmt.Errorf("authenticate: %w", err)
	}

	if !account.Enabled {
		return nil, domain.ErrAccountDisabled
	}

	id, name, err := s.displayIdentity(ctx, account)
	if err != nil {
		return nil, fmt.Errorf("authenticate: %w", err)
	}

	token, err := s.issuer.Issue(domain.IdentityClaims{
		Subject:   account.Email,
		AccountID: account.ID,
		Roles:     account.RoleTypes(),
	})
	if err != nil {
		return nil, fmt.Errorf("authenticate: issue token: %w", err)
	}

	return &ports.LoginResult{
		Token: token,
		Email: account.Email,
		Role:  ResolveDisplayRole(account.Roles),
		ID:    id,
		Name:  name,
	}, nil
}

// displayIdentity prefers the linked person and falls back to the account itself.
func (s *AuthService) displayIdentity(ctx context.Context, account *domain.Account) (string, string, error) {
	if account.PersonID == "" {
		return account.ID, account.Email, nil
	}

	person, err := s.persons.FindByID(ctx, account.PersonID)
	if err != nil {
		if errors.Is(err, domain.ErrPersonNotFound) {
			s.log.Warn().Str("account_id", account.ID).Str("person_id", account.PersonID).Msg("linked person missing, using account identity")
			return account.ID, account.Email, nil
		}
		return "", "", err
	}
	return person.ID, person.FullName(), nil
}
