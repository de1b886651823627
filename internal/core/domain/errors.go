package domain

import (
	"errors"
	"fmt"
)

var (
	ErrInvalidCredentials    = errors.New("invalid credentials")
	ErrAccountDisabled       = errors.New("account is disabled")
	ErrAccountNotFound       = errors.New("account not found")
	ErrPersonNotFound        = errors.New("person not found")
	ErrLinkedAccountNotFound = errors.New("linked account not found")
	ErrDuplicateEmail        = errors.New("email already registered")
	ErrBusinessRule          = errors.New("business rule violation")
	ErrRoleNotConfigured     = errors.New("role not configured")
	ErrValidation            = errors.New("validation failed")
)

// ErrActiveAppointments blocks deactivating a person who still holds a booked
// appointment.
var ErrActiveAppointments = fmt.Errorf("%w: cannot deactivate a person with active appointments", ErrBusinessRule)
