package logger

import (
	"bytes"
	"context"
	"log/slog"
	"strings"
	"testing"
)

func TestLevelFromVerbosity(t *testing.T) {
	cases := []struct {
		verbose, quiet int
		want           string
	}{
		{0, 0, "warn"},
		{1, 0, "info"},
		{2, 0, "debug"},
		{5, 0, "debug"},
		{0, 1, "error"},
		{0, 4, "error"},
		{2, 1, "info"},
	}
	for _, tc := range cases {
		if got := LevelFromVerbosity(tc.verbose, tc.quiet); got != tc.want {
			t.Errorf("LevelFromVerbosity(%d, %d) = %q, want %q", tc.verbose, tc.quiet, got, tc.want)
		}
	}
}

func TestJSONHandlerFiltersByLevel(t *testing.T) {
	var buf bytes.Buffer
	log := slog.New(NewHandler("warn", "json", &buf))
	log.Info("hidden")
	log.Warn("shown", "key", "value")

	out := buf.String()
	if strings.Contains(out, "hidden") {
		t.Errorf("info record written at warn level: %s", out)
	}
	if !strings.Contains(out, `"msg":"shown"`) || !strings.Contains(out, `"key":"value"`) {
		t.Errorf("warn record missing from output: %s", out)
	}
}

func TestTextHandlerWritesMessage(t *testing.T) {
	var buf bytes.Buffer
	log := slog.New(NewHandler("debug", "text", &buf))
	log.Debug("loaded entries", "count", 3)

	if !strings.Contains(buf.String(), "loaded entries") {
		t.Errorf("expected message in text output, got %q", buf.String())
	}
}

func TestFromContextAddsSession(t *testing.T) {
	var buf bytes.Buffer
	prev := slog.Default()
	t.Cleanup(func() { slog.SetDefault(prev) })
	Setup("info", "json", &buf)

	ctx := WithSession(context.Background(), "abc123")
	FromContext(ctx).Info("hello")

	if !strings.Contains(buf.String(), `"session":"abc123"`) {
		t.Errorf("session attribute missing: %s", buf.String())
	}
}
