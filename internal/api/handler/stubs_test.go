package handler

import (
	"context"

	"github.com/unla-grupo16/turnos-auth/internal/core/ports"
)

type stubAuthService struct {
	authenticateFn func(ctx context.Context, email, password string) (*ports.LoginResult, error)
}

func (s *stubAuthService) Authenticate(ctx context.Context, email, password string) (*ports.LoginResult, error) {
	return s.authenticateFn(ctx, email, password)
}

type stubClientService struct {
	registerFn   func(ctx context.Context, in ports.RegisterClientInput) error
	deactivateFn func(ctx context.Context, personID string) error
	activateFn   func(ctx context.Context, personID string) error
	editFn       func(ctx context.Context, personID string, in ports.EditClientInput) (*ports.ClientDetail, error)
	listFn       func(ctx context.Context) (*ports.ClientList, error)
}

func (s *stubClientService) Register(ctx context.Context, in ports.RegisterClientInput) error {
	return s.registerFn(ctx, in)
}

func (s *stubClientService) Deactivate(ctx context.Context, personID string) error {
	return s.deactivateFn(ctx, personID)
}

func (s *stubClientService) Activate(ctx context.Context, personID string) error {
	return s.activateFn(ctx, personID)
}

func (s *stubClientService) Edit(ctx context.Context, personID string, in ports.EditClientInput) (*ports.ClientDetail, error) {
	return s.editFn(ctx, personID, in)
}

func (s *stubClientService) List(ctx context.Context) (*ports.ClientList, error) {
	return s.listFn(ctx)
}
