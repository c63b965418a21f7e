package logging

import (
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/rs/zerolog"
)

func TestParseLevel(t *testing.T) {
	cases := map[string]zerolog.Level{
		"":        zerolog.InfoLevel,
		"DEBUG":   zerolog.DebugLevel,
		"warning": zerolog.WarnLevel,
		" error ": zerolog.ErrorLevel,
	}
	for in, want := range cases {
		got, err := ParseLevel(in)
		if err != nil {
			t.Fatalf("ParseLevel(%q): unexpected error %v", in, err)
		}
		if got != want {
			t.Fatalf("ParseLevel(%q): expected %s, got %s", in, want, got)
		}
	}
	if _, err := ParseLevel("loud"); err == nil {
		t.Fatal("expected error for unknown level")
	}
}

func TestSetupWritesJSONToFile(t *testing.T) {
	path := filepath.Join(t.TempDir(), "logs", "app.log")
	logger, closer, err := Setup(Options{Level: "info", Path: path})
	if err != nil {
		t.Fatalf("setup: %v", err)
	}
	logger.Debug().Msg("hidden")
	logger.Info().Str("category", "golang").Msg("fetch complete")
	if err := closer.Close(); err != nil {
		t.Fatalf("close: %v", err)
	}

	data, err := os.ReadFile(path)
	if err != nil {
		t.Fatalf("read log: %v", err)
	}
	out := string(data)
	if !strings.Contains(out, `"message":"fetch complete"`) || !strings.Contains(out, `"category":"golang"`) {
		t.Fatalf("expected structured entry, got %q", out)
	}
	if strings.Contains(out, "hidden") {
		t.Fatalf("expected debug entry filtered, got %q", out)
	}
}
