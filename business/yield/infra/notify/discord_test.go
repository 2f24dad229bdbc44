package notify

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/fd1az/aura-yield/business/yield/domain"
	"github.com/fd1az/aura-yield/internal/apperror"
	"github.com/fd1az/aura-yield/internal/logger"
)

type mockLogger struct{ warnings int }

func (m *mockLogger) Debug(ctx context.Context, msg string, args ...any)              {}
func (m *mockLogger) Info(ctx context.Context, msg string, args ...any)               {}
func (m *mockLogger) Warn(ctx context.Context, msg string, args ...any)               { m.warnings++ }
func (m *mockLogger) Error(ctx context.Context, msg string, args ...any)              {}
func (m *mockLogger) Debugc(ctx context.Context, caller int, msg string, args ...any) {}
func (m *mockLogger) Infoc(ctx context.Context, caller int, msg string, args ...any)  {}
func (m *mockLogger) Warnc(ctx context.Context, caller int, msg string, args ...any)  {}
func (m *mockLogger) Errorc(ctx context.Context, caller int, msg string, args ...any) {}

var _ logger.LoggerInterface = (*mockLogger)(nil)

var lowAlert = domain.Alert{Pool: "auraBAL", Reason: domain.ReasonLowAPY, APY: decimal.RequireFromString("1.234")}

func TestDiscordNotifier_Posts(t *testing.T) {
	var got message
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, http.MethodPost, r.Method)
		assert.Equal(t, "application/json", r.Header.Get("Content-Type"))
		require.NoError(t, json.NewDecoder(r.Body).Decode(&got))
		w.WriteHeader(http.StatusNoContent)
	}))
	defer server.Close()

	n, err := NewDiscordNotifier(server.URL+"/api/webhooks/1/x", "aura-yield", &mockLogger{})
	require.NoError(t, err)

	require.NoError(t, n.Notify(context.Background(), lowAlert))
	assert.True(t, strings.HasPrefix(got.Content, "[aura-yield] auraBAL: APY 1.23%"), got.Content)
}

func TestDiscordNotifier_NoURLOnlyLogs(t *testing.T) {
	log := &mockLogger{}
	n, err := NewDiscordNotifier("", "", log)
	require.NoError(t, err)

	require.NoError(t, n.Notify(context.Background(), lowAlert))
	assert.Equal(t, 1, log.warnings)
}

func TestDiscordNotifier_Rejected(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusUnauthorized)
		_, _ = w.Write([]byte(`{"message": "Invalid Webhook Token"}`))
	}))
	defer server.Close()

	n, err := NewDiscordNotifier(server.URL, "", &mockLogger{})
	require.NoError(t, err)

	err = n.Notify(context.Background(), lowAlert)
	require.Error(t, err)
	assert.Equal(t, apperror.CodeNotifyFailed, apperror.GetCode(err))
}
