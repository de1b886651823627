package service

import (
	"sort"

	"github.com/unla-grupo16/turnos-auth/internal/core/domain"
)

// ResolveDisplayRole picks the single role label shown to the client after
// login. Type names are sorted so the answer does not depend on storage order.
// An empty set falls back to CLIENT. This is for display only: authorization
// checks use the full role set carried in the token.
func ResolveDisplayRole(roles []domain.Role) string {
	if len(roles) == 0 {
		return string(domain.RoleClient)
	}
	names := make([]string, 0, len(roles))
	for _, r := range roles {
		names = append(names, string(r.Type))
	}
	sort.Strings(names)
	return names[0]
}
