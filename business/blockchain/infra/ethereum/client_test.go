package ethereum

import (
	"context"
	"errors"
	"math/big"
	"testing"
	"time"

	"github.com/ethereum/go-ethereum"
	"github.com/ethereum/go-ethereum/common"
	"github.com/ethereum/go-ethereum/core/types"

	"github.com/fd1az/aura-yield/business/blockchain/domain"
	"github.com/fd1az/aura-yield/internal/apperror"
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

type fakeBackend struct {
	callOut   []byte
	callErr   error
	header    *types.Header
	headerErr error
	calls     int
}

func (f *fakeBackend) CallContract(ctx context.Context, msg ethereum.CallMsg, blockNumber *big.Int) ([]byte, error) {
	f.calls++
	return f.callOut, f.callErr
}

func (f *fakeBackend) HeaderByNumber(ctx context.Context, number *big.Int) (*types.Header, error) {
	return f.header, f.headerErr
}

func newTestClient(t *testing.T, b Backend) *Client {
	t.Helper()
	cfg := ClientConfig{HTTPURL: "http://localhost:8545", RequestTimeout: time.Second}
	c, err := NewClient(cfg, b, &mockLogger{})
	if err != nil {
		t.Fatalf("NewClient() error = %v", err)
	}
	return c
}

func TestClient_CallContract(t *testing.T) {
	to := common.HexToAddress("0x00A7BA8Ae7bca0B10A32Ea1f8e2a1Da980c6CAd2")
	msg := ethereum.CallMsg{To: &to, Data: []byte{0x7b, 0x0a, 0x47, 0xee}}

	t.Run("success marks connected", func(t *testing.T) {
		b := &fakeBackend{callOut: []byte{1, 2, 3}}
		c := newTestClient(t, b)
		if c.State() != domain.StateDisconnected {
			t.Fatalf("initial state = %s", c.State())
		}

		out, err := c.CallContract(context.Background(), msg, nil)
		if err != nil {
			t.Fatalf("CallContract() error = %v", err)
		}
		if len(out) != 3 {
			t.Errorf("len(out) = %d, want 3", len(out))
		}
		if c.State() != domain.StateConnected {
			t.Errorf("state = %s, want connected", c.State())
		}
	})

	t.Run("failure wraps as rpc error", func(t *testing.T) {
		b := &fakeBackend{callErr: errors.New("connection refused")}
		c := newTestClient(t, b)

		_, err := c.CallContract(context.Background(), msg, nil)
		if err == nil {
			t.Fatal("expected error")
		}
		if apperror.GetCode(err) != apperror.CodeRPCError {
			t.Errorf("code = %s, want %s", apperror.GetCode(err), apperror.CodeRPCError)
		}
	})

	t.Run("reverts do not trip the breaker", func(t *testing.T) {
		b := &fakeBackend{callErr: errors.New("execution reverted")}
		c := newTestClient(t, b)

		for i := 0; i < 10; i++ {
			_, _ = c.CallContract(context.Background(), msg, nil)
		}
		if b.calls != 10 {
			t.Errorf("backend calls = %d, want 10", b.calls)
		}
	})

	t.Run("node failures open the breaker", func(t *testing.T) {
		b := &fakeBackend{callErr: errors.New("502 bad gateway")}
		c := newTestClient(t, b)

		var last error
		for i := 0; i < 8; i++ {
			_, last = c.CallContract(context.Background(), msg, nil)
		}
		if b.calls != 5 {
			t.Errorf("backend calls = %d, want 5", b.calls)
		}
		if apperror.GetCode(last) != apperror.CodeCircuitOpen {
			t.Errorf("code = %s, want %s", apperror.GetCode(last), apperror.CodeCircuitOpen)
		}
		if c.State() != domain.StateDegraded {
			t.Errorf("state = %s, want degraded", c.State())
		}
	})
}

func TestClient_LatestBlock(t *testing.T) {
	b := &fakeBackend{header: &types.Header{
		Number: big.NewInt(19_000_000),
		Time:   1_700_000_000,
	}}
	c := newTestClient(t, b)

	block, err := c.LatestBlock(context.Background())
	if err != nil {
		t.Fatalf("LatestBlock() error = %v", err)
	}
	if block.Number != 19_000_000 {
		t.Errorf("Number = %d", block.Number)
	}
	if !block.Timestamp.Equal(time.Unix(1_700_000_000, 0)) {
		t.Errorf("Timestamp = %v", block.Timestamp)
	}

	b.headerErr = errors.New("dial tcp: refused")
	if _, err := c.LatestBlock(context.Background()); apperror.GetCode(err) != apperror.CodeRPCConnectionFailed {
		t.Errorf("code = %s, want %s", apperror.GetCode(err), apperror.CodeRPCConnectionFailed)
	}
	if c.State() != domain.StateDisconnected {
		t.Errorf("state = %s, want disconnected", c.State())
	}
}

func TestIsNodeHealthy(t *testing.T) {
	tests := []struct {
		err  error
		want bool
	}{
		{nil, true},
		{context.Canceled, true},
		{errors.New("execution reverted: BAL#001"), true},
		{errors.New("i/o timeout"), false},
		{context.DeadlineExceeded, false},
	}
	for _, tt := range tests {
		if got := isNodeHealthy(tt.err); got != tt.want {
			t.Errorf("isNodeHealthy(%v) = %v, want %v", tt.err, got, tt.want)
		}
	}
}
