package handler

import (
	"errors"
	"net/http"
	"time"

	"github.com/labstack/echo/v4"

	"github.com/unla-grupo16/turnos-auth/internal/api/metrics"
	"github.com/unla-grupo16/turnos-auth/internal/core/domain"
	"github.com/unla-grupo16/turnos-auth/internal/core/ports"
)

type AuthHandler struct {
	authService   ports.AuthService
	clientService ports.ClientService
}

func NewAuthHandler(authService ports.AuthService, clientService ports.ClientService) *AuthHandler {
	return &AuthHandler{authService: authService, clientService: clientService}
}

// Login authenticates a user and returns a JWT token.
//
// @Summary      Autenticar usuario y generar JWT
// @Tags         auth
// @Accept       json
// @Produce      json
// @Param        body  body      loginRequest  true  "Credenciales"
// @Success      200   {object}  loginResponse
// @Failure      400   {object}  api.errorResponse
// @Failure      401   {object}  api.errorResponse
// @Failure      403   {object}  api.errorResponse
// @Failure      404   {object}  api.errorResponse
// @Failure      500   {object}  api.errorResponse
// @Router       /api/auth/login [post]
func (h *AuthHandler) Login(c echo.Context) error {
	var req loginRequest
	if err := c.Bind(&req); err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, "invalid payload")
	}
	if err := c.Validate(&req); err != nil {
		return err
	}

	res, err := h.authService.Authenticate(c.Request().Context(), req.Email, req.Password)
	metrics.LoginAttemptsTotal.WithLabelValues(loginOutcome(err)).Inc()
	if err != nil {
		return err
	}

	return c.JSON(http.StatusOK, toLoginResponse(res))
}

// Register creates a client account.
//
// @Summary      Registrar un nuevo cliente en el sistema
// @Tags         auth
// @Accept       json
// @Produce      json
// @Param        body  body      registerRequest  true  "Datos del cliente"
// @Success      200   {object}  registerResponse
// @Failure      400   {object}  api.errorResponse
// @Failure      409   {object}  api.errorResponse
// @Failure      500   {object}  api.errorResponse
// @Router       /api/auth/register [post]
func (h *AuthHandler) Register(c echo.Context) error {
	var req registerRequest
	if err := c.Bind(&req); err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, "invalid payload")
	}
	if err := c.Validate(&req); err != nil {
		return err
	}

	err := h.clientService.Register(c.Request().Context(), toRegisterInput(req))
	metrics.RegistrationsTotal.WithLabelValues(registrationOutcome(err)).Inc()
	if err != nil {
		return err
	}

	return c.JSON(http.StatusOK, registerResponse{
		Message:   "Cliente registrado exitosamente",
		Email:     domain.NormalizeEmail(req.Email),
		Timestamp: time.Now().UTC(),
	})
}

func loginOutcome(err error) string {
	switch {
	case err == nil:
		return "success"
	case errors.Is(err, domain.ErrInvalidCredentials):
		return "invalid_credentials"
	case errors.Is(err, domain.ErrAccountDisabled):
		return "disabled"
	case errors.Is(err, domain.ErrAccountNotFound):
		return "not_found"
	default:
		return "error"
	}
}

func registrationOutcome(err error) string {
	switch {
	case err == nil:
		return "success"
	case errors.Is(err, domain.ErrDuplicateEmail):
		return "duplicate"
	default:
		return "error"
	}
}
