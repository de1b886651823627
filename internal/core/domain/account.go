package domain

import (
	"sort"
	"strings"
	"time"
)

// RoleType is the closed set of authorization labels an Account can hold.
type RoleType string

const (
	RoleClient RoleType = "CLIENT"
	RoleAdmin  RoleType = "ADMIN"
)

// Valid reports whether r is one of the known role types.
func (r RoleType) Valid() bool {
	switch r {
	case RoleClient, RoleAdmin:
		return true
	default:
		return false
	}
}

// Role is reference data; accounts share roles and never mutate them.
type Role struct {
	ID   string   `json:"id"`
	Type RoleType `json:"type"`
}

// Account is the login identity. PersonID is empty when no profile is linked.
type Account struct {
	ID           string    `json:"id"`
	Email        string    `json:"email"`
	PasswordHash string    `json:"-"`
	Enabled      bool      `json:"enabled"`
	Roles        []Role    `json:"roles"`
	PersonID     string    `json:"person_id,omitempty"`
	CreatedAt    time.Time `json:"created_at"`
	UpdatedAt    time.Time `json:"updated_at"`
}

// RoleTypes returns the account's role labels in sorted order.
func (a *Account) RoleTypes() []string {
	out := make([]string, 0, len(a.Roles))
	for _, r := range a.Roles {
		out = append(out, string(r.Type))
	}
	sort.Strings(out)
	return out
}

// HasRole reports whether the account holds the given role.
func (a *Account) HasRole(t RoleType) bool {
	for _, r := range a.Roles {
		if r.Type == t {
			return true
		}
	}
	return false
}

// IdentityClaims is what gets bound into an issued token.
type IdentityClaims struct {
	Subject   string
	AccountID string
	Roles     []string
}

// NormalizeEmail trims and lower-cases an address so lookups and the unique
// index agree on identity.
func NormalizeEmail(email string) string {
	return strings.ToLower(strings.TrimSpace(email))
}
