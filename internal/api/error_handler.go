package api

import (
	"errors"
	"fmt"
	"net/http"
	"strings"
	"time"

	"github.com/labstack/echo/v4"
	"github.com/rs/zerolog"

	"github.com/unla-grupo16/turnos-auth/internal/core/domain"
)

// errorResponse is the canonical error envelope for all API errors.
type errorResponse struct {
	Timestamp string `json:"timestamp"`
	Status    int    `json:"estado"`
	Error     string `json:"error"`
	Message   string `json:"mensaje"`
	Path      string `json:"path"`
}

// NewHTTPErrorHandler returns an echo.HTTPErrorHandler that:
//   - Maps known domain errors to their HTTP status codes.
//   - Logs unexpected errors internally without leaking details to the client.
//   - Renders the same JSON envelope for every failure.
func NewHTTPErrorHandler(log zerolog.Logger) echo.HTTPErrorHandler {
	return func(err error, c echo.Context) {
		if c.Response().Committed {
			return
		}

		code, title, msg := resolveError(err, log, c)
		_ = c.JSON(code, errorResponse{
			Timestamp: time.Now().Format(time.RFC3339),
			Status:    code,
			Error:     title,
			Message:   msg,
			Path:      c.Request().URL.Path,
		})
	}
}

func resolveError(err error, log zerolog.Logger, c echo.Context) (int, string, string) {
	// Echo's own errors (bind failures, 404 from router, auth middleware).
	var he *echo.HTTPError
	if errors.As(err, &he) {
		return he.Code, http.StatusText(he.Code), fmt.Sprintf("%v", he.Message)
	}

	switch {
	case errors.Is(err, domain.ErrValidation):
		return http.StatusBadRequest, "Solicitud Invalida", validationMessage(err)
	case errors.Is(err, domain.ErrActiveAppointments):
		return http.StatusBadRequest, "Regla de Negocio", "No se puede dar de baja un cliente con turnos activos"
	case errors.Is(err, domain.ErrBusinessRule):
		return http.StatusBadRequest, "Regla de Negocio", "La operacion no esta permitida"
	case errors.Is(err, domain.ErrInvalidCredentials):
		return http.StatusUnauthorized, "No Autorizado", "Credenciales invalidas"
	case errors.Is(err, domain.ErrAccountDisabled):
		return http.StatusForbidden, "Usuario Deshabilitado", "El usuario esta deshabilitado"
	case errors.Is(err, domain.ErrAccountNotFound):
		return http.StatusNotFound, "Recurso No Encontrado", "Usuario no encontrado"
	case errors.Is(err, domain.ErrPersonNotFound):
		return http.StatusNotFound, "Recurso No Encontrado", "Cliente no encontrado"
	case errors.Is(err, domain.ErrLinkedAccountNotFound):
		return http.StatusNotFound, "Recurso No Encontrado", "El cliente no tiene un usuario asociado"
	case errors.Is(err, domain.ErrDuplicateEmail):
		return http.StatusConflict, "Conflicto", "El email ya esta registrado"
	case errors.Is(err, domain.ErrRoleNotConfigured):
		log.Error().
			Err(err).
			Str("method", c.Request().Method).
			Str("path", c.Path()).
			Msg("default role missing from store")
		return http.StatusInternalServerError, "Error Interno", "Error de configuracion del servidor"
	}

	// Unexpected error: log the real cause, return a generic message.
	log.Error().
		Err(err).
		Str("method", c.Request().Method).
		Str("path", c.Path()).
		Msg("unhandled error")

	return http.StatusInternalServerError, "Error Interno", "Error inesperado"
}

// validationMessage keeps only the field messages of a validation failure.
func validationMessage(err error) string {
	msg := err.Error()
	if i := strings.Index(msg, domain.ErrValidation.Error()+": "); i >= 0 {
		return msg[i+len(domain.ErrValidation.Error())+2:]
	}
	return msg
}
