package handler

import (
	"context"
	"encoding/json"
	"errors"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/gin-gonic/gin"

	"ai-writer-api/internal/infrastructure/llm"
)

type fakeChecker struct {
	err error
}

func (f fakeChecker) HealthCheck(ctx context.Context) error {
	return f.err
}

func serveReady(t *testing.T, h *HealthHandler) (int, readinessResponse) {
	t.Helper()
	gin.SetMode(gin.TestMode)

	r := gin.New()
	r.GET("/ready", h.Ready)

	w := httptest.NewRecorder()
	r.ServeHTTP(w, httptest.NewRequest(http.MethodGet, "/ready", nil))

	var resp readinessResponse
	if err := json.Unmarshal(w.Body.Bytes(), &resp); err != nil {
		t.Fatalf("decode: %v", err)
	}
	return w.Code, resp
}

func TestReady(t *testing.T) {
	configured := llm.NewMockGateway("mock", "mock")

	tests := []struct {
		name       string
		deps       []dependency
		wantStatus int
		wantState  string
		wantLLM    string
	}{
		{
			name:       "no storage",
			wantStatus: http.StatusOK,
			wantState:  "ok",
			wantLLM:    "ok",
		},
		{
			name: "all healthy",
			deps: []dependency{
				{name: "postgres", checker: fakeChecker{}, required: true},
				{name: "redis", checker: fakeChecker{}, required: true},
			},
			wantStatus: http.StatusOK,
			wantState:  "ok",
			wantLLM:    "ok",
		},
		{
			name: "required dependency down",
			deps: []dependency{
				{name: "postgres", checker: fakeChecker{}, required: true},
				{name: "redis", checker: fakeChecker{err: errors.New("connection refused")}, required: true},
			},
			wantStatus: http.StatusServiceUnavailable,
			wantState:  "not_ready",
			wantLLM:    "ok",
		},
		{
			name: "optional dependency down",
			deps: []dependency{
				{name: "redis", checker: fakeChecker{err: errors.New("timeout")}},
			},
			wantStatus: http.StatusOK,
			wantState:  "ok",
			wantLLM:    "ok",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			h := &HealthHandler{version: "test", deps: tt.deps, gateway: configured}
			code, resp := serveReady(t, h)
			if code != tt.wantStatus {
				t.Errorf("status = %d, expected %d", code, tt.wantStatus)
			}
			if resp.Status != tt.wantState {
				t.Errorf("state = %q, expected %q", resp.Status, tt.wantState)
			}
			if resp.Checks["llm"] == nil || resp.Checks["llm"].Status != tt.wantLLM {
				t.Errorf("llm check = %+v", resp.Checks["llm"])
			}
			for _, dep := range tt.deps {
				check := resp.Checks[dep.name]
				if check == nil {
					t.Fatalf("missing check %q", dep.name)
				}
				if (dep.checker.(fakeChecker).err != nil) != (check.Status == "error") {
					t.Errorf("%s check = %+v", dep.name, check)
				}
			}
		})
	}
}

func TestReadyUnconfiguredGateway(t *testing.T) {
	h := NewHealthHandler("test", nil, nil, nil)
	code, resp := serveReady(t, h)
	if code != http.StatusOK {
		t.Errorf("status = %d, expected 200", code)
	}
	if resp.Checks["llm"].Status != "degraded" {
		t.Errorf("llm check = %+v, expected degraded", resp.Checks["llm"])
	}
}
