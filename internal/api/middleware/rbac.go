package middleware

import (
	"net/http"

	"github.com/labstack/echo/v4"

	"github.com/unla-grupo16/turnos-auth/internal/core/domain"
)

// RBAC lets the request through when the caller holds any of allowedRoles.
// Authenticated callers without one get the access-denial response.
func RBAC(allowedRoles ...domain.RoleType) echo.MiddlewareFunc {
	allowed := make(map[string]struct{}, len(allowedRoles))
	for _, r := range allowedRoles {
		allowed[string(r)] = struct{}{}
	}

	return func(next echo.HandlerFunc) echo.HandlerFunc {
		return func(c echo.Context) error {
			roles, ok := c.Get(ContextKeyRoles).([]string)
			if !ok {
				return echo.NewHTTPError(http.StatusUnauthorized, "missing authentication claims")
			}
			for _, r := range roles {
				if _, ok := allowed[r]; ok {
					return next(c)
				}
			}
			return ReportAccessDenied(c)
		}
	}
}
