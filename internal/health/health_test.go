package health

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"
)

func TestServer_HealthReportsDegradedCheck(t *testing.T) {
	s := NewServer(0, "v1.2.3")
	s.RegisterCheck("ethereum", func(context.Context) (bool, string) { return true, "block 19000000" })
	s.RegisterCheck("runner", func(context.Context) (bool, string) { return false, "no cycle yet" })

	srv := httptest.NewServer(s.Handler())
	defer srv.Close()

	resp, err := http.Get(srv.URL + "/health")
	if err != nil {
		t.Fatalf("GET /health: %v", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusServiceUnavailable {
		t.Errorf("status = %d, want 503", resp.StatusCode)
	}

	var status Status
	if err := json.NewDecoder(resp.Body).Decode(&status); err != nil {
		t.Fatalf("decode: %v", err)
	}
	if status.Status != "degraded" || status.Version != "v1.2.3" {
		t.Errorf("status = %+v", status)
	}
	if !status.Checks["ethereum"].Healthy || status.Checks["runner"].Healthy {
		t.Errorf("checks = %+v", status.Checks)
	}
}

func TestServer_ReadyAndLive(t *testing.T) {
	s := NewServer(0, "dev")
	srv := httptest.NewServer(s.Handler())
	defer srv.Close()

	for _, path := range []string{"/ready", "/live"} {
		resp, err := http.Get(srv.URL + path)
		if err != nil {
			t.Fatalf("GET %s: %v", path, err)
		}
		resp.Body.Close()
		if resp.StatusCode != http.StatusOK {
			t.Errorf("%s status = %d, want 200", path, resp.StatusCode)
		}
	}
}
