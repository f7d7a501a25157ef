package logging

import (
	"bytes"
	"strings"
	"testing"
)

func TestConsoleHandlerOutput(t *testing.T) {
	var buf bytes.Buffer
	logger, err := New(Options{Level: "info", Format: "console", Output: &buf})
	if err != nil {
		t.Fatal(err)
	}

	logger = NewComponentLogger(logger, "dispatch")
	logger.Info("group complete", Args(String("source", "el"), Int("jobs", 4))...)

	out := buf.String()
	for _, want := range []string{"INFO", "dispatch: group complete", "source=el", "jobs=4"} {
		if !strings.Contains(out, want) {
			t.Errorf("output %q missing %q", out, want)
		}
	}
}

func TestLevelFiltering(t *testing.T) {
	var buf bytes.Buffer
	logger, err := New(Options{Level: "warn", Format: "console", Output: &buf})
	if err != nil {
		t.Fatal(err)
	}

	logger.Info("dropped")
	logger.Warn("kept")

	out := buf.String()
	if strings.Contains(out, "dropped") {
		t.Errorf("info record should have been filtered: %q", out)
	}
	if !strings.Contains(out, "kept") {
		t.Errorf("warn record missing: %q", out)
	}
}

func TestUnsupportedFormat(t *testing.T) {
	if _, err := New(Options{Format: "xml"}); err == nil {
		t.Fatal("expected error for unsupported format")
	}
}

func TestQuoting(t *testing.T) {
	var buf bytes.Buffer
	logger, err := New(Options{Format: "console", Output: &buf})
	if err != nil {
		t.Fatal(err)
	}
	logger.Info("msg", Args(String("cmd", "kty main el en"))...)
	if !strings.Contains(buf.String(), `cmd="kty main el en"`) {
		t.Errorf("values with spaces should be quoted: %q", buf.String())
	}
}
