package handler

import (
	"net/http"

	"github.com/labstack/echo/v4"

	"github.com/unla-grupo16/turnos-auth/internal/api/middleware"
)

// ctxActor returns the email of the authenticated caller injected by the Auth
// middleware. An empty value means the middleware did not run.
func ctxActor(c echo.Context) (string, error) {
	email, _ := c.Get(middleware.ContextKeyEmail).(string)
	if email == "" {
		return "", echo.NewHTTPError(http.StatusUnauthorized, "missing authentication claims")
	}
	return email, nil
}
