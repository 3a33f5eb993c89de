package logger

import (
	"bytes"
	"context"
	"encoding/json"
	"log/slog"
	"testing"
)

func TestParseLevel(t *testing.T) {
	cases := map[string]slog.Level{"debug": slog.LevelDebug, "WARN": slog.LevelWarn, "error": slog.LevelError, "": slog.LevelInfo}
	for in, want := range cases {
		got, ok := ParseLevel(in)
		if !ok || got != want {
			t.Errorf("ParseLevel(%q): expected %v, got %v (ok=%v)", in, want, got, ok)
		}
	}
	if _, ok := ParseLevel("loud"); ok {
		t.Error("expected an unknown level to be rejected")
	}
}

func TestContextLoggerCarriesFields(t *testing.T) {
	var buf bytes.Buffer
	ctx := ToContext(context.Background(), New(&buf, slog.LevelInfo))
	ctx = With(ctx, "userID", "u-1")

	InfoFromContext(ctx, "hello")

	var line map[string]any
	if err := json.Unmarshal(buf.Bytes(), &line); err != nil {
		t.Fatalf("expected a JSON log line, got %q: %v", buf.String(), err)
	}
	if line["userID"] != "u-1" || line["msg"] != "hello" {
		t.Errorf("expected msg and userID in the log line, got %v", line)
	}
}

func TestFromContextFallsBackToGlobal(t *testing.T) {
	if FromContext(context.Background()) != L {
		t.Error("expected the global logger without a contextual one")
	}
}
