package service

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/rs/zerolog"
	"golang.org/x/crypto/bcrypt"

	"github.com/unla-grupo16/turnos-auth/internal/core/domain"
	"github.com/unla-grupo16/turnos-auth/internal/infrastructure/security"
)

const testPassword = "secret1"

func newAuthFixture(t *testing.T) (*memStore, *stubIssuer, *AuthService) {
	t.Helper()
	store := newMemStore()
	hasher := security.NewBcryptHasher(bcrypt.MinCost)

	hash, err := hasher.Hash(testPassword)
	if err != nil {
		t.Fatalf("hash: %v", err)
	}

	store.seedPerson(&domain.Person{ID: "p-1", FirstName: "Ana", LastName: "Diaz", Active: true})
	store.seedAccount(&domain.Account{
		ID:           "a-1",
		Email:        "ana@x.com",
		PasswordHash: hash,
		Enabled:      true,
		Roles:        []domain.Role{{ID: "r-c", Type: domain.RoleClient}},
		PersonID:     "p-1",
	})
	store.seedAccount(&domain.Account{
		ID:           "a-2",
		Email:        "admin@x.com",
		PasswordHash: hash,
		Enabled:      true,
		Roles:        []domain.Role{{ID: "r-c", Type: domain.RoleClient}, {ID: "r-a", Type: domain.RoleAdmin}},
	})
	store.seedAccount(&domain.Account{
		ID:           "a-3",
		Email:        "off@x.com",
		PasswordHash: hash,
		Enabled:      false,
		Roles:        []domain.Role{{ID: "r-c", Type: domain.RoleClient}},
	})

	issuer := &stubIssuer{}
	accounts := memAccounts{store}
	svc := NewAuthService(NewPasswordVerifier(accounts, hasher), accounts, memPersons{store}, issuer, zerolog.Nop())
	return store, issuer, svc
}

func TestAuthService_Authenticate_Success_WithPerson(t *testing.T) {
	_, issuer, svc := newAuthFixture(t)

	res, err := svc.Authenticate(context.Background(), "ana@x.com", testPassword)
	if err != nil {
		t.Fatalf("authenticate: %v", err)
	}
	if res.Token != "token-for-ana@x.com" {
		t.Fatalf("unexpected token: %s", res.Token)
	}
	if res.Email != "ana@x.com" || res.Role != "CLIENT" {
		t.Fatalf("unexpected result: %+v", res)
	}
	if res.ID != "p-1" || res.Name != "Ana Diaz" {
		t.Fatalf("expected person identity, got id=%s name=%s", res.ID, res.Name)
	}
	if len(issuer.issued) != 1 || issuer.issued[0].AccountID != "a-1" {
		t.Fatalf("unexpected issued claims: %+v", issuer.issued)
	}
}

func TestAuthService_Authenticate_Success_WithoutPerson(t *testing.T) {
	_, issuer, svc := newAuthFixture(t)

	res, err := svc.Authenticate(context.Background(), "admin@x.com", testPassword)
	if err != nil {
		t.Fatalf("authenticate: %v", err)
	}
	if res.ID != "a-2" || res.Name != "admin@x.com" {
		t.Fatalf("expected account identity fallback, got id=%s name=%s", res.ID, res.Name)
	}
	if res.Role != "ADMIN" {
		t.Fatalf("expected ADMIN display role, got %s", res.Role)
	}
	roles := issuer.issued[0].Roles
	if len(roles) != 2 || roles[0] != "ADMIN" || roles[1] != "CLIENT" {
		t.Fatalf("expected full role set in token claims, got %v", roles)
	}
}

func TestAuthService_Authenticate_NormalizesEmail(t *testing.T) {
	_, _, svc := newAuthFixture(t)

	if _, err := svc.Authenticate(context.Background(), "  ANA@x.com ", testPassword); err != nil {
		t.Fatalf("authenticate: %v", err)
	}
}

func TestAuthService_Authenticate_InvalidPassword(t *testing.T) {
	_, issuer, svc := newAuthFixture(t)

	if _, err := svc.Authenticate(context.Background(), "ana@x.com", "nope"); !errors.Is(err, domain.ErrInvalidCredentials) {
		t.Fatalf("expected ErrInvalidCredentials, got %v", err)
	}
	if len(issuer.issued) != 0 {
		t.Fatalf("no token should be issued")
	}
}

func TestAuthService_Authenticate_UnknownEmailLooksLikeBadPassword(t *testing.T) {
	_, _, svc := newAuthFixture(t)

	if _, err := svc.Authenticate(context.Background(), "ghost@x.com", testPassword); !errors.Is(err, domain.ErrInvalidCredentials) {
		t.Fatalf("expected ErrInvalidCredentials, got %v", err)
	}
}

func TestPasswordVerifier_UnknownEmailStillComparesHash(t *testing.T) {
	store, _, _ := newAuthFixture(t)
	hasher := &countingHasher{PasswordHasher: security.NewBcryptHasher(bcrypt.MinCost)}
	verifier := NewPasswordVerifier(memAccounts{store}, hasher)

	for i := 0; i < 2; i++ {
		if err := verifier.VerifyCredentials(context.Background(), "ghost@x.com", testPassword); !errors.Is(err, domain.ErrInvalidCredentials) {
			t.Fatalf("expected ErrInvalidCredentials, got %v", err)
		}
	}
	if hasher.verifies != 2 {
		t.Fatalf("expected a hash comparison per unknown email, got %d", hasher.verifies)
	}

	if err := verifier.VerifyCredentials(context.Background(), "ana@x.com", testPassword); err != nil {
		t.Fatalf("known account: %v", err)
	}
	if hasher.verifies != 3 {
		t.Fatalf("expected 3 comparisons, got %d", hasher.verifies)
	}
}

func TestAuthService_Authenticate_EmptyInput(t *testing.T) {
	_, _, svc := newAuthFixture(t)

	if _, err := svc.Authenticate(context.Background(), "", ""); !errors.Is(err, domain.ErrInvalidCredentials) {
		t.Fatalf("expected ErrInvalidCredentials, got %v", err)
	}
}

func TestAuthService_Authenticate_Disabled(t *testing.T) {
	_, issuer, svc := newAuthFixture(t)

	_, err := svc.Authenticate(context.Background(), "off@x.com", testPassword)
	if !errors.Is(err, domain.ErrAccountDisabled) {
		t.Fatalf("expected ErrAccountDisabled, got %v", err)
	}
	if errors.Is(err, domain.ErrInvalidCredentials) {
		t.Fatalf("disabled account must not be reported as invalid credentials")
	}
	if len(issuer.issued) != 0 {
		t.Fatalf("no token should be issued")
	}
}

func TestAuthService_Authenticate_DisabledWithWrongPassword(t *testing.T) {
	_, _, svc := newAuthFixture(t)

	if _, err := svc.Authenticate(context.Background(), "off@x.com", "nope"); !errors.Is(err, domain.ErrInvalidCredentials) {
		t.Fatalf("expected ErrInvalidCredentials, got %v", err)
	}
}

type acceptAll struct{}

func (acceptAll) VerifyCredentials(context.Context, string, string) error { return nil }

func TestAuthService_Authenticate_AccountMissingAfterVerification(t *testing.T) {
	store := newMemStore()
	svc := NewAuthService(acceptAll{}, memAccounts{store}, memPersons{store}, &stubIssuer{}, zerolog.Nop())

	if _, err := svc.Authenticate(context.Background(), "ghost@x.com", "x"); !errors.Is(err, domain.ErrAccountNotFound) {
		t.Fatalf("expected ErrAccountNotFound, got %v", err)
	}
}

func TestAuthService_Authenticate_LinkedPersonMissingFallsBack(t *testing.T) {
	store, _, svc := newAuthFixture(t)
	delete(store.persons, "p-1")

	res, err := svc.Authenticate(context.Background(), "ana@x.com", testPassword)
	if err != nil {
		t.Fatalf("authenticate: %v", err)
	}
	if res.ID != "a-1" || res.Name != "ana@x.com" {
		t.Fatalf("expected account identity fallback, got %+v", res)
	}
}

func TestAuthService_Authenticate_IssuerFailure(t *testing.T) {
	store, _, _ := newAuthFixture(t)
	hasher := security.NewBcryptHasher(bcrypt.MinCost)
	accounts := memAccounts{store}
	svc := NewAuthService(NewPasswordVerifier(accounts, hasher), accounts, memPersons{store}, &stubIssuer{err: errBoom}, zerolog.Nop())

	if _, err := svc.Authenticate(context.Background(), "ana@x.com", testPassword); !errors.Is(err, errBoom) {
		t.Fatalf("expected issuer error, got %v", err)
	}
}

func TestAuthService_Authenticate_StoreFailure(t *testing.T) {
	store := newMemStore()
	accounts := erroringAccounts{memAccounts: memAccounts{store}, err: errBoom}
	verifier := NewPasswordVerifier(accounts, security.NewBcryptHasher(bcrypt.MinCost))
	svc := NewAuthService(verifier, accounts, memPersons{store}, &stubIssuer{}, zerolog.Nop())

	_, err := svc.Authenticate(context.Background(), "ana@x.com", testPassword)
	if !errors.Is(err, errBoom) || errors.Is(err, domain.ErrInvalidCredentials) {
		t.Fatalf("expected store error to surface, got %v", err)
	}
}

func TestAuthService_Authenticate_DoesNotMutate(t *testing.T) {
	store, _, svc := newAuthFixture(t)
	before := *store.account("a-1")

	_, _ = svc.Authenticate(context.Background(), "ana@x.com", testPassword)
	_, _ = svc.Authenticate(context.Background(), "ana@x.com", "bad")

	after := store.account("a-1")
	if after.Enabled != before.Enabled || after.PasswordHash != before.PasswordHash || after.Email != before.Email {
		t.Fatalf("authenticate mutated the account: %+v -> %+v", before, after)
	}
	if store.commits != 0 || store.rollbacks != 0 {
		t.Fatalf("authenticate must not open a transaction")
	}
}

func TestAuthService_Authenticate_RealTokenCarriesRoles(t *testing.T) {
	store, _, _ := newAuthFixture(t)
	hasher := security.NewBcryptHasher(bcrypt.MinCost)
	accounts := memAccounts{store}
	jwtIssuer := security.NewJWTIssuer("secret", "turnos", time.Hour)
	svc := NewAuthService(NewPasswordVerifier(accounts, hasher), accounts, memPersons{store}, jwtIssuer, zerolog.Nop())

	res, err := svc.Authenticate(context.Background(), "admin@x.com", testPassword)
	if err != nil {
		t.Fatalf("authenticate: %v", err)
	}
	claims, err := jwtIssuer.Parse(res.Token)
	if err != nil {
		t.Fatalf("parse: %v", err)
	}
	if claims.Subject != "admin@x.com" || len(claims.Roles) != 2 {
		t.Fatalf("unexpected claims: %+v", claims)
	}
}
