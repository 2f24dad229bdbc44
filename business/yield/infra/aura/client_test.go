package aura

import (
	"context"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/fd1az/aura-yield/internal/logger"
)

type mockLogger struct{}

func (m *mockLogger) Debug(ctx context.Context, msg string, args ...any)              {}
func (m *mockLogger) Info(ctx context.Context, msg string, args ...any)               {}
func (m *mockLogger) Warn(ctx context.Context, msg string, args ...any)               {}
func (m *mockLogger) Error(ctx context.Context, msg string, args ...any)              {}
func (m *mockLogger) Debugc(ctx context.Context, caller int, msg string, args ...any) {}
func (m *mockLogger) Infoc(ctx context.Context, caller int, msg string, args ...any)  {}
func (m *mockLogger) Warnc(ctx context.Context, caller int, msg string, args ...any)  {}
func (m *mockLogger) Errorc(ctx context.Context, caller int, msg string, args ...any) {}

var _ logger.LoggerInterface = (*mockLogger)(nil)

// Keys are deliberately out of alphabetical order.
const aprsBody = `{
	"pools": [
		[{"id": "ignored", "aprs": {"breakdown": {"Swap fees": 99}}}],
		[
			{"id": "42", "aprs": {"total": 10, "breakdown": {"Z reward": 1, "Swap fees": 2, "wstETH": "3", "A bonus": 4.5}}},
			{"id": "auraBal", "aprs": {"breakdown": {"AURA": 7, "BAL": 8, "bb-a-USD": 0.25, "Swap fees": "1.75"}}},
			{"id": "77", "aprs": {"breakdown": {"AURA": 1, "BAL": 2}}},
			{"id": "broken", "aprs": {"breakdown": [1, 2]}}
		]
	]
}`

func dec(vs ...string) []decimal.Decimal {
	out := make([]decimal.Decimal, len(vs))
	for i, v := range vs {
		out[i] = decimal.RequireFromString(v)
	}
	return out
}

func assertValues(t *testing.T, want, got []decimal.Decimal) {
	t.Helper()
	require.NotNil(t, got)
	require.Len(t, got, len(want), "got %v", got)
	for i := range want {
		assert.True(t, want[i].Equal(got[i]), "[%d] = %s, want %s", i, got[i], want[i])
	}
}

func serve(t *testing.T, status int, body string) *CacheClient {
	t.Helper()
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, "/aura/aprs", r.URL.Path)
		assert.Equal(t, "https://app.aura.finance/", r.Header.Get("origin"))
		assert.Equal(t, "cors", r.Header.Get("sec-fetch-mode"))
		w.WriteHeader(status)
		_, _ = w.Write([]byte(body))
	}))
	t.Cleanup(server.Close)

	c, err := NewCacheClient(Config{BaseURL: server.URL, CompositePoolIDs: []string{"auraBal"}}, &mockLogger{})
	require.NoError(t, err)
	return c
}

func TestCacheClient_SwapApy(t *testing.T) {
	c := serve(t, http.StatusOK, aprsBody)
	ctx := context.Background()

	tests := []struct {
		name   string
		poolID string
		want   []decimal.Decimal
	}{
		{"slices from swap fees in document order", "42", dec("2", "3", "4.5")},
		{"composite takes the last two", "auraBal", dec("0.25", "1.75")},
		{"no swap fees entry", "77", dec()},
		{"unknown pool", "nope", dec()},
		{"breakdown not an object", "broken", dec("0")},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assertValues(t, tt.want, c.SwapApy(ctx, tt.poolID))
		})
	}
}

func TestCacheClient_SwapApy_Degraded(t *testing.T) {
	tests := []struct {
		name   string
		status int
		body   string
	}{
		{"malformed json", http.StatusOK, `{"pools": [`},
		{"html", http.StatusOK, `<html>rate limited</html>`},
		{"missing second pools entry", http.StatusOK, `{"pools": [[]]}`},
		{"no pools key", http.StatusOK, `{"data": 1}`},
		{"server error", http.StatusInternalServerError, `{"pools": []}`},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			c := serve(t, tt.status, tt.body)
			assertValues(t, dec("0"), c.SwapApy(context.Background(), "42"))
		})
	}
}

func TestCacheClient_SwapApy_Unreachable(t *testing.T) {
	c, err := NewCacheClient(Config{BaseURL: "http://127.0.0.1:1"}, &mockLogger{})
	require.NoError(t, err)

	assertValues(t, dec("0"), c.SwapApy(context.Background(), "42"))
}

func TestParseBreakdown_PreservesOrder(t *testing.T) {
	b, found, err := ParseBreakdown([]byte(aprsBody), "42")
	require.NoError(t, err)
	require.True(t, found)

	names := make([]string, len(b))
	for i, e := range b {
		names[i] = e.Name
	}
	assert.Equal(t, []string{"Z reward", "Swap fees", "wstETH", "A bonus"}, names)
}
