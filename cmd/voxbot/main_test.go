package main

import (
	"bytes"
	"strings"
	"testing"
)

func TestNewLoggerBeforeConfig(t *testing.T) {
	var buf bytes.Buffer
	logger := newLogger(&buf, "")

	logger.Debug("hidden")
	logger.Error("Failed to load config", "path", "voxbot.yaml")

	out := buf.String()
	if strings.Contains(out, "hidden") {
		t.Errorf("empty level must default to info, got %q", out)
	}
	if !strings.Contains(out, "ERR") || !strings.Contains(out, "Failed to load config") || !strings.Contains(out, "path=voxbot.yaml") {
		t.Errorf("expected a tint formatted error line, got %q", out)
	}
}

func TestNewLoggerLevels(t *testing.T) {
	tests := map[string]bool{
		"debug": true,
		"info":  false,
		"warn":  false,
		"bogus": false,
		"":      false,
	}
	for level, wantDebug := range tests {
		var buf bytes.Buffer
		newLogger(&buf, level).Debug("detail line")
		if got := strings.Contains(buf.String(), "detail line"); got != wantDebug {
			t.Errorf("level %q: debug emitted = %v, want %v", level, got, wantDebug)
		}
	}
}
