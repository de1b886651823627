package handler

import (
	"context"
	"errors"
	"net/http"

	"github.com/labstack/echo/v4"
	"github.com/rs/zerolog"

	"github.com/unla-grupo16/turnos-auth/internal/api/metrics"
	"github.com/unla-grupo16/turnos-auth/internal/core/domain"
	"github.com/unla-grupo16/turnos-auth/internal/core/ports"
)

// ClientHandler serves the admin client-management routes.
type ClientHandler struct {
	service ports.ClientService
	log     zerolog.Logger
}

func NewClientHandler(service ports.ClientService, log zerolog.Logger) *ClientHandler {
	return &ClientHandler{service: service, log: log}
}

// List returns clients split by whether their account can log in.
//
// @Summary      Listar clientes activos y dados de baja
// @Tags         clientes
// @Produce      json
// @Security     BearerAuth
// @Success      200  {object}  clientListResponse
// @Failure      401  {object}  api.errorResponse
// @Failure      403  {object}  middleware.AccessDenial
// @Router       /api/admin/clientes [get]
func (h *ClientHandler) List(c echo.Context) error {
	list, err := h.service.List(c.Request().Context())
	if err != nil {
		return err
	}
	return c.JSON(http.StatusOK, clientListResponse{
		Active:   toClientResponses(list.Active),
		Disabled: toClientResponses(list.Disabled),
	})
}

// Deactivate disables the client's account.
//
// @Summary      Dar de baja un cliente
// @Tags         clientes
// @Security     BearerAuth
// @Param        id   path  string  true  "ID de la persona"
// @Success      204
// @Failure      400  {object}  api.errorResponse
// @Failure      403  {object}  middleware.AccessDenial
// @Failure      404  {object}  api.errorResponse
// @Router       /api/admin/clientes/{id}/baja [patch]
func (h *ClientHandler) Deactivate(c echo.Context) error {
	return h.transition(c, domain.TransitionDeactivated, h.service.Deactivate)
}

// Activate re-enables the client's account.
//
// @Summary      Dar de alta un cliente
// @Tags         clientes
// @Security     BearerAuth
// @Param        id   path  string  true  "ID de la persona"
// @Success      204
// @Failure      403  {object}  middleware.AccessDenial
// @Failure      404  {object}  api.errorResponse
// @Router       /api/admin/clientes/{id}/alta [patch]
func (h *ClientHandler) Activate(c echo.Context) error {
	return h.transition(c, domain.TransitionActivated, h.service.Activate)
}

func (h *ClientHandler) transition(
	c echo.Context,
	tr domain.AccountTransition,
	apply func(ctx context.Context, personID string) error,
) error {
	actor, err := ctxActor(c)
	if err != nil {
		return err
	}
	personID := c.Param("id")

	err = apply(c.Request().Context(), personID)
	metrics.LifecycleTransitionsTotal.WithLabelValues(string(tr), transitionOutcome(err)).Inc()
	if err != nil {
		return err
	}

	h.log.Info().
		Str("actor", actor).
		Str("person_id", personID).
		Str("transition", string(tr)).
		Msg("client lifecycle changed")
	return c.NoContent(http.StatusNoContent)
}

// Edit overwrites a client's profile and login email.
//
// @Summary      Editar un cliente
// @Tags         clientes
// @Accept       json
// @Produce      json
// @Security     BearerAuth
// @Param        id    path      string             true  "ID de la persona"
// @Param        body  body      editClientRequest  true  "Datos editables"
// @Success      200   {object}  clientResponse
// @Failure      400   {object}  api.errorResponse
// @Failure      403   {object}  middleware.AccessDenial
// @Failure      404   {object}  api.errorResponse
// @Failure      409   {object}  api.errorResponse
// @Router       /api/admin/clientes/{id} [put]
func (h *ClientHandler) Edit(c echo.Context) error {
	actor, err := ctxActor(c)
	if err != nil {
		return err
	}

	var req editClientRequest
	if err := c.Bind(&req); err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, "invalid payload")
	}
	if err := c.Validate(&req); err != nil {
		return err
	}

	detail, err := h.service.Edit(c.Request().Context(), c.Param("id"), toEditInput(req))
	if err != nil {
		return err
	}

	h.log.Info().
		Str("actor", actor).
		Str("person_id", detail.PersonID).
		Msg("client edited")
	return c.JSON(http.StatusOK, toClientResponse(*detail))
}

func transitionOutcome(err error) string {
	switch {
	case err == nil:
		return "success"
	case errors.Is(err, domain.ErrBusinessRule):
		return "blocked"
	case errors.Is(err, domain.ErrPersonNotFound), errors.Is(err, domain.ErrLinkedAccountNotFound):
		return "not_found"
	default:
		return "error"
	}
}
