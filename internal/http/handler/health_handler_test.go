package handler

import (
	"context"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/sandeepkv93/codereview-portal/internal/health"
)

type staticChecker health.CheckResult

func (c staticChecker) Check(context.Context) health.CheckResult { return health.CheckResult(c) }

func TestHealthReady(t *testing.T) {
	up := NewHealthHandler(health.NewProbeRunner(0, 0, staticChecker{Name: "mongo", Healthy: true}))
	rr := httptest.NewRecorder()
	up.Ready(rr, httptest.NewRequest(http.MethodGet, "/health/ready", nil))
	if rr.Code != http.StatusOK {
		t.Fatalf("expected 200, got %d", rr.Code)
	}

	down := NewHealthHandler(health.NewProbeRunner(0, 0, staticChecker{Name: "mongo", Error: "timeout"}))
	rr = httptest.NewRecorder()
	down.Ready(rr, httptest.NewRequest(http.MethodGet, "/health/ready", nil))
	if rr.Code != http.StatusServiceUnavailable {
		t.Fatalf("expected 503, got %d", rr.Code)
	}
	if body := decodeBody(t, rr); body["code"] != "DEPENDENCY_UNREADY" {
		t.Fatalf("unexpected body %v", body)
	}
}

func TestHealthLive(t *testing.T) {
	rr := httptest.NewRecorder()
	NewHealthHandler(nil).Live(rr, httptest.NewRequest(http.MethodGet, "/health/live", nil))
	if rr.Code != http.StatusOK {
		t.Fatalf("expected 200, got %d", rr.Code)
	}
}
