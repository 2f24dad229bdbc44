package httpclient

import (
	"context"
	"errors"
	"net/http"
	"net/http/httptest"
	"testing"
)

func TestRequest_GetWithQueryHeadersAndResult(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if r.URL.Path != "/simple/price" {
			t.Errorf("path = %s", r.URL.Path)
		}
		if got := r.URL.Query().Get("ids"); got != "balancer,aura-finance" {
			t.Errorf("ids = %q", got)
		}
		if got := r.Header.Get("Accept"); got != "application/json" {
			t.Errorf("Accept = %q", got)
		}
		if got := r.Header.Get("X-Extra"); got != "1" {
			t.Errorf("X-Extra = %q", got)
		}
		w.Write([]byte(`{"balancer":{"usd":2.5}}`))
	}))
	defer server.Close()

	client, err := NewInstrumentedClient(
		WithBaseURL(server.URL),
		WithProviderName("test"),
		WithHeaders(map[string]string{"Accept": "application/json"}),
	)
	if err != nil {
		t.Fatalf("NewInstrumentedClient() error = %v", err)
	}

	var out map[string]map[string]float64
	resp, err := client.NewRequest().
		SetHeader("X-Extra", "1").
		SetQueryParam("ids", "balancer,aura-finance").
		SetResult(&out).
		Get(context.Background(), "/simple/price")
	if err != nil {
		t.Fatalf("Get() error = %v", err)
	}
	if resp.IsError() {
		t.Fatalf("status = %d", resp.StatusCode)
	}
	if out["balancer"]["usd"] != 2.5 {
		t.Errorf("decoded = %v", out)
	}
}

func TestRequest_ErrorHandler(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusTooManyRequests)
		w.Write([]byte(`{"status":"throttled"}`))
	}))
	defer server.Close()

	client, err := NewInstrumentedClient()
	if err != nil {
		t.Fatalf("NewInstrumentedClient() error = %v", err)
	}

	errThrottled := errors.New("throttled")
	resp, err := client.NewRequest(
		WithLabels(NewLabel("endpoint", "price")),
		WithResponseErrorHandler(func(status int, body []byte) error {
			if status == http.StatusTooManyRequests {
				return errThrottled
			}
			return nil
		}),
	).Post(context.Background(), server.URL)

	if !errors.Is(err, errThrottled) {
		t.Fatalf("err = %v, want throttled", err)
	}
	if resp == nil || resp.String() != `{"status":"throttled"}` {
		t.Errorf("expected response body to be returned with handler error")
	}
}
