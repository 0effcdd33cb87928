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
		{"debug", DebugLevel},
		{"INFO", InfoLevel},
		{" warn ", WarnLevel},
		{"error", ErrorLevel},
		{"", WarnLevel},
	}
	for _, tc := range cases {
		got, err := ParseLevel(tc.input)
		if err != nil {
			t.Fatalf("ParseLevel(%q) error: %v", tc.input, err)
		}
		if got != tc.want {
			t.Fatalf("ParseLevel(%q) = %q, want %q", tc.input, got, tc.want)
		}
	}
	if _, err := ParseLevel("trace"); err == nil {
		t.Fatalf("expected error for unknown level")
	}
}

func TestNewRespectsLevel(t *testing.T) {
	var buf bytes.Buffer
	log := New(&buf, WarnLevel)
	log.Debug("hidden")
	log.Warn("shown", "path", "/tmp/a.php")

	out := buf.String()
	if strings.Contains(out, "hidden") {
		t.Fatalf("debug message leaked at warn level: %q", out)
	}
	if !strings.Contains(out, "shown") || !strings.Contains(out, "/tmp/a.php") {
		t.Fatalf("warn message missing: %q", out)
	}
}

func TestOrNop(t *testing.T) {
	OrNop(nil).Error("nothing happens")
}

func TestSetLevel(t *testing.T) {
	var buf bytes.Buffer
	log := New(&buf, WarnLevel)
	lv, ok := log.(Leveler)
	if !ok {
		t.Fatalf("charm logger should implement Leveler")
	}
	lv.SetLevel(DebugLevel)
	log.Debug("now visible")
	if !strings.Contains(buf.String(), "now visible") {
		t.Fatalf("debug message missing after SetLevel: %q", buf.String())
	}
}
