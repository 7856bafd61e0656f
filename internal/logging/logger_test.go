package logging

import (
	"bytes"
	"strings"
	"testing"

	"github.com/rs/zerolog"
)

func TestInitJSON(t *testing.T) {
	var buf bytes.Buffer
	Init(Config{Level: "debug", Format: "json", Output: &buf})
	t.Cleanup(func() { Init(Config{}) })

	l := Logger()
	l.Debug().Str("k", "v").Msg("hello")

	out := buf.String()
	if !strings.Contains(out, `"message":"hello"`) {
		t.Errorf("expected message in output, got: %s", out)
	}
	if !strings.Contains(out, `"k":"v"`) {
		t.Errorf("expected field in output, got: %s", out)
	}
}

func TestInitLevelFilters(t *testing.T) {
	var buf bytes.Buffer
	Init(Config{Level: "warn", Output: &buf})
	t.Cleanup(func() { Init(Config{}) })

	l := Logger()
	l.Info().Msg("dropped")
	if buf.Len() != 0 {
		t.Errorf("expected info to be filtered at warn level, got: %s", buf.String())
	}
	l.Warn().Msg("kept")
	if !strings.Contains(buf.String(), "kept") {
		t.Errorf("expected warn message, got: %s", buf.String())
	}
}

func TestComponent(t *testing.T) {
	var buf bytes.Buffer
	Init(Config{Output: &buf})
	t.Cleanup(func() { Init(Config{}) })

	l := Component("snapshot")
	l.Info().Msg("built")
	if !strings.Contains(buf.String(), `"component":"snapshot"`) {
		t.Errorf("expected component field, got: %s", buf.String())
	}
}

func TestParseLevel(t *testing.T) {
	tests := []struct {
		input string
		want  zerolog.Level
	}{
		{"trace", zerolog.TraceLevel},
		{"DEBUG", zerolog.DebugLevel},
		{"info", zerolog.InfoLevel},
		{"warning", zerolog.WarnLevel},
		{"error", zerolog.ErrorLevel},
		{"disabled", zerolog.Disabled},
		{"bogus", zerolog.InfoLevel},
		{"", zerolog.InfoLevel},
	}
	for _, tt := range tests {
		if got := parseLevel(tt.input); got != tt.want {
			t.Errorf("parseLevel(%q) = %v, want %v", tt.input, got, tt.want)
		}
	}
}
