package middleware

import (
	"net/http"
	"time"

	"github.com/labstack/echo/v4"

	"github.com/unla-grupo16/turnos-auth/internal/api/metrics"
)

const (
	accessDeniedTitle   = "Acceso Denegado"
	accessDeniedMessage = "No tienes permisos para acceder a este recurso"
)

// AccessDenial is the body returned to authenticated callers that lack the
// role a resource requires.
type AccessDenial struct {
	Timestamp string `json:"timestamp"`
	Status    int    `json:"estado"`
	Error     string `json:"error"`
	Message   string `json:"mensaje"`
	Path      string `json:"path"`
}

// NewAccessDenial builds the denial record for path at the given instant.
func NewAccessDenial(path string, at time.Time) AccessDenial {
	return AccessDenial{
		Timestamp: at.Format(time.RFC3339),
		Status:    http.StatusForbidden,
		Error:     accessDeniedTitle,
		Message:   accessDeniedMessage,
		Path:      path,
	}
}

// ReportAccessDenied writes a 403 with the denial record. It leaves the
// caller's authentication untouched.
func ReportAccessDenied(c echo.Context) error {
	req := c.Request()
	metrics.AccessDeniedTotal.WithLabelValues(req.Method).Inc()

	if c.Response().Committed {
		return nil
	}
	return c.JSON(http.StatusForbidden, NewAccessDenial(req.URL.Path, time.Now()))
}
