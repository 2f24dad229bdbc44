package logger

import (
	"bytes"
	"context"
	"encoding/json"
	"testing"
)

func TestLogger_LevelFilteringAndFields(t *testing.T) {
	var buf bytes.Buffer
	log := New(&buf, LevelInfo, "aura-yield", func(context.Context) string { return "abc123" })

	ctx := context.Background()
	log.Debug(ctx, "hidden")
	log.Info(ctx, "pool computed", "pool", "aurabal", "apy", "12.5")

	lines := bytes.Split(bytes.TrimSpace(buf.Bytes()), []byte("\n"))
	if len(lines) != 1 {
		t.Fatalf("expected 1 line, got %d: %s", len(lines), buf.String())
	}

	var rec map[string]any
	if err := json.Unmarshal(lines[0], &rec); err != nil {
		t.Fatalf("invalid json: %v", err)
	}

	want := map[string]string{
		"msg":      "pool computed",
		"service":  "aura-yield",
		"pool":     "aurabal",
		"trace_id": "abc123",
		"level":    "INFO",
	}
	for k, v := range want {
		if rec[k] != v {
			t.Errorf("%s = %v, want %v", k, rec[k], v)
		}
	}
	if _, ok := rec["file"]; !ok {
		t.Error("expected file attribute")
	}
}

func TestParseLevel(t *testing.T) {
	tests := map[string]Level{
		"debug":   LevelDebug,
		"warn":    LevelWarn,
		"error":   LevelError,
		"info":    LevelInfo,
		"verbose": LevelInfo,
	}
	for in, want := range tests {
		if got := ParseLevel(in); got != want {
			t.Errorf("ParseLevel(%q) = %v, want %v", in, got, want)
		}
	}
}
