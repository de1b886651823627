package handler

import (
	"context"
	"encoding/json"
	"errors"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/labstack/echo/v4"
	"github.com/prometheus/client_golang/prometheus/testutil"
	"github.com/rs/zerolog"

	"github.com/unla-grupo16/turnos-auth/internal/api/metrics"
	"github.com/unla-grupo16/turnos-auth/internal/api/middleware"
	"github.com/unla-grupo16/turnos-auth/internal/core/domain"
	"github.com/unla-grupo16/turnos-auth/internal/core/ports"
)

func adminContext(e *echo.Echo, method, target, body, id string) (echo.Context, *httptest.ResponseRecorder) {
	c, rec := jsonContext(e, method, target, body)
	c.Set(middleware.ContextKeyEmail, "admin@example.com")
	c.Set(middleware.ContextKeyRoles, []string{"ADMIN"})
	if id != "" {
		c.SetParamNames("id")
		c.SetParamValues(id)
	}
	return c, rec
}

func TestClientHandler_List(t *testing.T) {
	e := newEcho()
	created := time.Date(2025, 5, 1, 10, 0, 0, 0, time.UTC)
	stub := &stubClientService{
		listFn: func(context.Context) (*ports.ClientList, error) {
			return &ports.ClientList{
				Active:   []ports.ClientDetail{{PersonID: "p-1", Email: "ana@x.com", AccountActive: true, CreatedAt: created}},
				Disabled: []ports.ClientDetail{{PersonID: "p-2", Email: "bob@x.com"}},
			}, nil
		},
	}
	handler := NewClientHandler(stub, zerolog.Nop())

	c, rec := adminContext(e, http.MethodGet, "/api/admin/clientes", "", "")
	if err := handler.List(c); err != nil {
		t.Fatalf("handler error: %v", err)
	}
	if rec.Code != http.StatusOK {
		t.Fatalf("expected 200, got %d", rec.Code)
	}

	var resp struct {
		Activos    []map[string]any `json:"activos"`
		BajaLogica []map[string]any `json:"bajaLogica"`
	}
	if err := json.Unmarshal(rec.Body.Bytes(), &resp); err != nil {
		t.Fatalf("invalid json: %v", err)
	}
	if len(resp.Activos) != 1 || resp.Activos[0]["idPersona"] != "p-1" || resp.Activos[0]["usuarioActivo"] != true {
		t.Fatalf("unexpected activos: %+v", resp.Activos)
	}
	if len(resp.BajaLogica) != 1 || resp.BajaLogica[0]["email"] != "bob@x.com" {
		t.Fatalf("unexpected bajaLogica: %+v", resp.BajaLogica)
	}
}

func TestClientHandler_ListEmptyRendersArrays(t *testing.T) {
	e := newEcho()
	stub := &stubClientService{
		listFn: func(context.Context) (*ports.ClientList, error) { return &ports.ClientList{}, nil },
	}
	handler := NewClientHandler(stub, zerolog.Nop())

	c, rec := adminContext(e, http.MethodGet, "/api/admin/clientes", "", "")
	if err := handler.List(c); err != nil {
		t.Fatalf("handler error: %v", err)
	}
	want := `{"activos":[],"bajaLogica":[]}`
	if got := rec.Body.String(); got != want+"\n" {
		t.Fatalf("body = %q, want %q", got, want)
	}
}

func TestClientHandler_Deactivate(t *testing.T) {
	e := newEcho()
	var gotID string
	stub := &stubClientService{
		deactivateFn: func(_ context.Context, personID string) error {
			gotID = personID
			return nil
		},
	}
	handler := NewClientHandler(stub, zerolog.Nop())
	before := testutil.ToFloat64(metrics.LifecycleTransitionsTotal.WithLabelValues("deactivated", "success"))

	c, rec := adminContext(e, http.MethodPatch, "/api/admin/clientes/p-1/baja", "", "p-1")
	if err := handler.Deactivate(c); err != nil {
		t.Fatalf("handler error: %v", err)
	}
	if rec.Code != http.StatusNoContent {
		t.Fatalf("expected 204, got %d", rec.Code)
	}
	if gotID != "p-1" {
		t.Fatalf("person id = %q", gotID)
	}
	after := testutil.ToFloat64(metrics.LifecycleTransitionsTotal.WithLabelValues("deactivated", "success"))
	if after-before != 1 {
		t.Fatalf("transition counter delta = %v", after-before)
	}
}

func TestClientHandler_DeactivateBlocked(t *testing.T) {
	e := newEcho()
	stub := &stubClientService{
		deactivateFn: func(context.Context, string) error {
			return domain.ErrActiveAppointments
		},
	}
	handler := NewClientHandler(stub, zerolog.Nop())
	before := testutil.ToFloat64(metrics.LifecycleTransitionsTotal.WithLabelValues("deactivated", "blocked"))

	c, _ := adminContext(e, http.MethodPatch, "/api/admin/clientes/p-1/baja", "", "p-1")
	if err := handler.Deactivate(c); !errors.Is(err, domain.ErrBusinessRule) {
		t.Fatalf("expected business rule error, got %v", err)
	}
	after := testutil.ToFloat64(metrics.LifecycleTransitionsTotal.WithLabelValues("deactivated", "blocked"))
	if after-before != 1 {
		t.Fatalf("blocked counter delta = %v", after-before)
	}
}

func TestClientHandler_Activate(t *testing.T) {
	e := newEcho()
	stub := &stubClientService{
		activateFn: func(_ context.Context, personID string) error {
			if personID != "p-9" {
				t.Fatalf("person id = %q", personID)
			}
			return domain.ErrPersonNotFound
		},
	}
	handler := NewClientHandler(stub, zerolog.Nop())

	c, _ := adminContext(e, http.MethodPatch, "/api/admin/clientes/p-9/alta", "", "p-9")
	if err := handler.Activate(c); !errors.Is(err, domain.ErrPersonNotFound) {
		t.Fatalf("expected person not found, got %v", err)
	}
}

func TestClientHandler_RequiresIdentity(t *testing.T) {
	e := newEcho()
	stub := &stubClientService{
		activateFn: func(context.Context, string) error {
			t.Fatalf("should not be called")
			return nil
		},
	}
	handler := NewClientHandler(stub, zerolog.Nop())

	c, _ := jsonContext(e, http.MethodPatch, "/api/admin/clientes/p-1/alta", "")
	var he *echo.HTTPError
	if err := handler.Activate(c); !errors.As(err, &he) || he.Code != http.StatusUnauthorized {
		t.Fatalf("expected 401, got %v", err)
	}
}

func TestClientHandler_Edit(t *testing.T) {
	e := newEcho()
	stub := &stubClientService{
		editFn: func(_ context.Context, personID string, in ports.EditClientInput) (*ports.ClientDetail, error) {
			if personID != "p-1" || in.FirstName != "Ana" || in.DocumentID == nil || *in.DocumentID != "30111222" {
				t.Fatalf("unexpected input: %s %+v", personID, in)
			}
			return &ports.ClientDetail{PersonID: personID, FirstName: in.FirstName, LastName: in.LastName, DocumentID: in.DocumentID, Email: in.Email}, nil
		},
	}
	handler := NewClientHandler(stub, zerolog.Nop())

	body := `{"nombre":"Ana","apellido":"Diaz","dni":"30111222","email":"ana.diaz@x.com"}`
	c, rec := adminContext(e, http.MethodPut, "/api/admin/clientes/p-1", body, "p-1")
	if err := handler.Edit(c); err != nil {
		t.Fatalf("handler error: %v", err)
	}
	if rec.Code != http.StatusOK {
		t.Fatalf("expected 200, got %d", rec.Code)
	}

	var resp map[string]any
	if err := json.Unmarshal(rec.Body.Bytes(), &resp); err != nil {
		t.Fatalf("invalid json: %v", err)
	}
	if resp["dni"] != "30111222" || resp["email"] != "ana.diaz@x.com" {
		t.Fatalf("unexpected payload: %+v", resp)
	}
}

func TestClientHandler_EditValidation(t *testing.T) {
	e := newEcho()
	stub := &stubClientService{
		editFn: func(context.Context, string, ports.EditClientInput) (*ports.ClientDetail, error) {
			t.Fatalf("should not be called")
			return nil, nil
		},
	}
	handler := NewClientHandler(stub, zerolog.Nop())

	body := `{"nombre":"Ana","apellido":"Diaz","email":"nope"}`
	c, _ := adminContext(e, http.MethodPut, "/api/admin/clientes/p-1", body, "p-1")
	if err := handler.Edit(c); !errors.Is(err, domain.ErrValidation) {
		t.Fatalf("expected validation error, got %v", err)
	}
}
