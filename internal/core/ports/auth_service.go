package ports

import "context"

// LoginResult is returned by a successful authentication.
type LoginResult struct {
	Token string
	Email string
	Role  string
	ID    string
	Name  string
}

// AuthService authenticates login requests.
type AuthService interface {
	Authenticate(ctx context.Context, email, password string) (*LoginResult, error)
}
