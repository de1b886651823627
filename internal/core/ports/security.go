package ports

import (
	"context"

	"github.com/unla-grupo16/turnos-auth/internal/core/domain"
)

// PasswordHasher is a one-way hash with verification.
type PasswordHasher interface {
	Hash(plain string) (string, error)
	// Verify returns nil only when plain matches hash.
	Verify(hash, plain string) error
}

// TokenIssuer signs a time-bounded token for the given identity.
type TokenIssuer interface {
	Issue(claims domain.IdentityClaims) (string, error)
}

// CredentialVerifier checks an email/password pair. It must return
// domain.ErrInvalidCredentials for both unknown emails and wrong passwords.
type CredentialVerifier interface {
	VerifyCredentials(ctx context.Context, email, password string) error
}
