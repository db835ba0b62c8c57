package logger

import (
	"bytes"
	"strings"
	"testing"
)

func TestParseLevel(t *testing.T) {
	cases := []struct {
		input string
		want  Level
	}{
		{"debug", LevelDebug},
		{"DEBUG", LevelDebug},
		{"info", LevelInfo},
		{"warn", LevelWarn},
		{"warning", LevelWarn},
		{"error", LevelError},
		{"unknown", LevelInfo},
		{"", LevelInfo},
	}
	for _, c := range cases {
		if got := parseLevel(c.input); got != c.want {
			t.Errorf("parseLevel(%q) = %v, want %v", c.input, got, c.want)
		}
	}
}

func TestLevelFiltering(t *testing.T) {
	var buf bytes.Buffer
	l := NewWithWriter("engine", "warn", &buf)

	l.Info("build", "hidden")
	if buf.Len() > 0 {
		t.Fatalf("info should be suppressed at warn level, got: %s", buf.String())
	}

	l.Warnf("expand", "took %d passes", 12)
	out := buf.String()
	if !strings.Contains(out, "took 12 passes") {
		t.Errorf("warn message missing: %s", out)
	}
	if !strings.Contains(out, "ENGINE") {
		t.Errorf("module should be uppercased: %s", out)
	}
}

func TestModuleSharesOutput(t *testing.T) {
	var buf bytes.Buffer
	l := NewWithWriter("engine", "debug", &buf).Module("store")
	l.Debug("open", "ok")
	if !strings.Contains(buf.String(), "STORE") {
		t.Errorf("expected child module name, got: %s", buf.String())
	}
}

func TestNilLoggerDiscards(t *testing.T) {
	var l *Logger
	l.Info("any", "nothing happens")
	l.Errorf("any", "%d", 1)
	if l.Enabled(LevelError) {
		t.Error("nil logger should not be enabled")
	}
	if l.Module("x") != nil {
		t.Error("child of nil logger should be nil")
	}
}
