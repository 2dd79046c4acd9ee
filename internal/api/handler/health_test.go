package handler

import (
	"context"
	"errors"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/labstack/echo/v4"
)

func TestHealthHandler_Liveness(t *testing.T) {
	e := echo.New()
	rec := httptest.NewRecorder()
	c := e.NewContext(httptest.NewRequest(http.MethodGet, "/health", nil), rec)

	if err := NewHealthHandler().Liveness(c); err != nil {
		t.Fatalf("handler error: %v", err)
	}
	if rec.Code != http.StatusOK {
		t.Fatalf("expected 200, got %d", rec.Code)
	}

	resp := decode(t, rec)
	if resp["success"] != true || resp["message"] != "API is running" {
		t.Fatalf("unexpected body: %+v", resp)
	}
}

func TestHealthDependenciesHandler_Readiness(t *testing.T) {
	ok := func(context.Context) error { return nil }
	down := func(context.Context) error { return errors.New("connection refused") }

	cases := []struct {
		name   string
		checks []dependencyCheck
		code   int
	}{
		{"all up", []dependencyCheck{{"mongodb", ok}, {"redis", ok}}, http.StatusOK},
		{"mongo only", []dependencyCheck{{"mongodb", ok}}, http.StatusOK},
		{"redis down", []dependencyCheck{{"mongodb", ok}, {"redis", down}}, http.StatusServiceUnavailable},
	}

	for _, tc := range cases {
		e := echo.New()
		rec := httptest.NewRecorder()
		c := e.NewContext(httptest.NewRequest(http.MethodGet, "/health/ready", nil), rec)

		h := &HealthDependenciesHandler{checks: tc.checks}
		if err := h.Readiness(c); err != nil {
			t.Fatalf("%s: handler error: %v", tc.name, err)
		}
		if rec.Code != tc.code {
			t.Errorf("%s: expected %d, got %d", tc.name, tc.code, rec.Code)
		}

		resp := decode(t, rec)
		deps := resp["data"].(map[string]any)
		if len(deps) != len(tc.checks) {
			t.Errorf("%s: expected %d dependencies, got %v", tc.name, len(tc.checks), deps)
		}
	}
}

func TestNewHealthDependenciesHandler_SkipsNilRedis(t *testing.T) {
	h := NewHealthDependenciesHandler(nil, nil)
	if len(h.checks) != 1 || h.checks[0].name != "mongodb" {
		t.Fatalf("expected only the mongodb check, got %+v", h.checks)
	}
}
