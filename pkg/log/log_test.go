package log

import (
	"bytes"
	"encoding/json"
	"strings"
	"testing"
)

func TestParseLevel(t *testing.T) {
	cases := map[string]Level{
		"debug":   DebugLevel,
		"info":    InfoLevel,
		"":        InfoLevel,
		"WARN":    WarnLevel,
		"warning": WarnLevel,
		"error":   ErrorLevel,
	}
	for in, want := range cases {
		got, err := ParseLevel(in)
		if err != nil {
			t.Fatalf("ParseLevel(%q): %v", in, err)
		}
		if got != want {
			t.Fatalf("ParseLevel(%q) = %v, want %v", in, got, want)
		}
	}
	if _, err := ParseLevel("loud"); err == nil {
		t.Fatal("expected error for unknown level")
	}
}

func TestLevelFiltering(t *testing.T) {
	var buf bytes.Buffer
	l := New(Options{Level: WarnLevel, Writer: &buf})
	l.Debug("quiet")
	l.Info("quiet")
	l.Warn("loud")
	out := buf.String()
	if strings.Contains(out, "quiet") {
		t.Fatalf("below-threshold lines emitted:\n%s", out)
	}
	if !strings.Contains(out, "loud") {
		t.Fatalf("warn line missing:\n%s", out)
	}
}

func TestJSONFormatAndFields(t *testing.T) {
	var buf bytes.Buffer
	l := New(Options{Format: "json", Writer: &buf}).With(Component("doclog"))
	l.Info("appended", Str("dataset", "node"), Uint64("seq", 7))

	var line map[string]any
	if err := json.Unmarshal(buf.Bytes(), &line); err != nil {
		t.Fatalf("output is not JSON: %v\n%s", err, buf.String())
	}
	if line["msg"] != "appended" || line["dataset"] != "node" || line["component"] != "doclog" {
		t.Fatalf("unexpected line: %v", line)
	}
	if line["seq"] != float64(7) {
		t.Fatalf("seq = %v", line["seq"])
	}
}

func TestDiscardIsSilent(t *testing.T) {
	// Must not panic or write anywhere visible.
	l := Discard()
	l.Error("dropped", Err(nil))
	l.With(Str("k", "v")).Info("dropped too")
}
