package logging

import (
	"bytes"
	"log"
	"log/slog"
	"strings"
	"testing"
)

func TestParseLevel(t *testing.T) {
	tests := map[string]slog.Level{
		"debug":   slog.LevelDebug,
		"warning": slog.LevelWarn,
		"WARN":    slog.LevelWarn,
		"error":   slog.LevelError,
		"bogus":   slog.LevelInfo,
	}
	for in, want := range tests {
		if got := ParseLevel(in); got != want {
			t.Fatalf("ParseLevel(%q) = %v; want %v", in, got, want)
		}
	}
}

func TestParseFormat(t *testing.T) {
	tests := map[string]Format{
		"tint":   FormatText,
		" JSON ": FormatJSON,
		"":       FormatAuto,
	}
	for in, want := range tests {
		if got := ParseFormat(in); got != want {
			t.Fatalf("ParseFormat(%q) = %q; want %q", in, got, want)
		}
	}
}

func TestNewHandler_AutoFallsBackToJSONOffTerminal(t *testing.T) {
	var buf bytes.Buffer
	logger := slog.New(NewHandler(&buf, FormatAuto, slog.LevelInfo))

	logger.Debug("hidden")
	Component(logger, "surface").Info("shown", "k", 1)

	out := buf.String()
	if strings.Contains(out, "hidden") {
		t.Fatalf("debug record leaked at info level: %s", out)
	}
	for _, want := range []string{`"msg":"shown"`, `"k":1`, `"component":"surface"`} {
		if !strings.Contains(out, want) {
			t.Fatalf("output %q lacks %s", out, want)
		}
	}
	if IsTTY(&buf) {
		t.Fatal("IsTTY(buffer) = true")
	}
}

func TestSetup_StandardLogIsDebugOnly(t *testing.T) {
	prev := slog.Default()
	prevFlags, prevOut := log.Flags(), log.Writer()
	t.Cleanup(func() {
		slog.SetDefault(prev)
		log.SetFlags(prevFlags)
		log.SetOutput(prevOut)
	})

	var quiet bytes.Buffer
	Setup(&quiet, FormatJSON, slog.LevelInfo)
	log.Print("library chatter")
	if quiet.Len() != 0 {
		t.Fatalf("standard log output at info level: %s", quiet.String())
	}

	var loud bytes.Buffer
	Setup(&loud, FormatJSON, slog.LevelDebug)
	log.Print("library chatter")
	out := loud.String()
	if !strings.Contains(out, `"level":"DEBUG"`) || !strings.Contains(out, `"component":"stdlog"`) {
		t.Fatalf("standard log output = %q; want a debug record tagged stdlog", out)
	}
}
