package config

import (
	"errors"
	"os"
	"path/filepath"
	"strings"
	"testing"
	"time"
)

func writeConfig(t *testing.T, body string) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), "config.yaml")
	if err := os.WriteFile(path, []byte(body), 0644); err != nil {
		t.Fatalf("WriteFile() error = %v", err)
	}
	return path
}

func TestDefaultConfig_Valid(t *testing.T) {
	cfg := DefaultConfig()
	if err := cfg.Validate(); err != nil {
		t.Fatalf("Validate() error = %v", err)
	}
	if got := cfg.Background(); got != 0x1a1a1a {
		t.Fatalf("Background() = %#x; want 0x1a1a1a", got)
	}
	if got := cfg.PollInterval(); got != 16*time.Millisecond {
		t.Fatalf("PollInterval() = %v; want 16ms", got)
	}
	if got := cfg.ErrorDuration(); got != 3*time.Second {
		t.Fatalf("ErrorDuration() = %v; want 3s", got)
	}
}

func TestLoadFromPath_MissingFileUsesDefaults(t *testing.T) {
	res, err := LoadFromPath(filepath.Join(t.TempDir(), "nope.yaml"))
	if err != nil {
		t.Fatalf("LoadFromPath() error = %v", err)
	}
	if res.File != "" {
		t.Fatalf("File = %q; want empty for a missing file", res.File)
	}
	if res.Config.Gallery.ThumbnailSize != DefaultThumbnailSize {
		t.Fatalf("ThumbnailSize = %d; want %d", res.Config.Gallery.ThumbnailSize, DefaultThumbnailSize)
	}
}

func TestLoadFromPath_EmptyFileUsesDefaults(t *testing.T) {
	res, err := LoadFromPath(writeConfig(t, "# empty\n"))
	if err != nil {
		t.Fatalf("LoadFromPath() error = %v", err)
	}
	if res.Config.Window.DefaultWidth != DefaultWindowWidth {
		t.Fatalf("DefaultWidth = %d; want %d", res.Config.Window.DefaultWidth, DefaultWindowWidth)
	}
}

func TestLoadFromPath_OverridesNestedKeys(t *testing.T) {
	path := writeConfig(t, strings.Join([]string{
		"log_level: debug",
		"background_color: \"#000000\"",
		"viewer:",
		"  fit_to_window: true",
		"gallery:",
		"  thumbnail_size: 128",
		"",
	}, "\n"))

	res, err := LoadFromPath(path)
	if err != nil {
		t.Fatalf("LoadFromPath() error = %v", err)
	}
	cfg := res.Config
	if cfg.LogLevel != "debug" {
		t.Fatalf("LogLevel = %q; want debug", cfg.LogLevel)
	}
	if cfg.Background() != 0 {
		t.Fatalf("Background() = %#x; want 0", cfg.Background())
	}
	if !cfg.Viewer.FitToWindow {
		t.Fatal("FitToWindow = false; want true")
	}
	if cfg.Viewer.ZoomStep != DefaultZoomStep {
		t.Fatalf("ZoomStep = %v; want default %v", cfg.Viewer.ZoomStep, DefaultZoomStep)
	}
	if cfg.Gallery.ThumbnailSize != 128 {
		t.Fatalf("ThumbnailSize = %d; want 128", cfg.Gallery.ThumbnailSize)
	}
	if line := res.Sources["gallery.thumbnail_size"].Line; line != 6 {
		t.Fatalf("thumbnail_size line = %d; want 6", line)
	}
}

func TestLoadFromPath_UnknownKeyRejected(t *testing.T) {
	_, err := LoadFromPath(writeConfig(t, "no_such_key: 1\n"))
	if err == nil || !strings.Contains(err.Error(), "no_such_key") {
		t.Fatalf("LoadFromPath() error = %v; want one naming no_such_key", err)
	}
}

func TestLoadFromPath_ValidationErrorCarriesPosition(t *testing.T) {
	path := writeConfig(t, "log_level: info\nviewer:\n  zoom_step: 0.5\n")

	_, err := LoadFromPath(path)
	var verr *ValidationError
	if !errors.As(err, &verr) {
		t.Fatalf("LoadFromPath() error = %v; want *ValidationError", err)
	}
	if verr.Path != "viewer.zoom_step" {
		t.Fatalf("Path = %q; want viewer.zoom_step", verr.Path)
	}
	if verr.Source.Kind != SourceFile || verr.Source.Line != 3 {
		t.Fatalf("Source = %+v; want file line 3", verr.Source)
	}
	if !strings.Contains(err.Error(), ":3:") {
		t.Fatalf("error %q does not carry the line", err)
	}
}

func TestParseColor(t *testing.T) {
	tests := []struct {
		in      string
		want    uint32
		wantErr bool
	}{
		{"#1A2b3c", 0x1a2b3c, false},
		{"red", 0, true},
		{"#12345g", 0, true},
	}
	for _, tt := range tests {
		got, err := ParseColor(tt.in)
		if (err != nil) != tt.wantErr {
			t.Fatalf("ParseColor(%q) error = %v; wantErr %v", tt.in, err, tt.wantErr)
		}
		if !tt.wantErr && got != tt.want {
			t.Fatalf("ParseColor(%q) = %#x; want %#x", tt.in, got, tt.want)
		}
	}
}

func TestDefaultConfigPath_PrefersXDGConfigHome(t *testing.T) {
	dir := t.TempDir()
	t.Setenv("XDG_CONFIG_HOME", dir)

	got, err := DefaultConfigPath()
	if err != nil {
		t.Fatalf("DefaultConfigPath() error = %v", err)
	}
	if want := filepath.Join(dir, "wlview", "config.yaml"); got != want {
		t.Fatalf("DefaultConfigPath() = %q; want %q", got, want)
	}
}

func TestExplain_ReportsFileSourceAndDefaults(t *testing.T) {
	res, err := LoadFromPath(writeConfig(t, "viewer:\n  zoom_step: 1.5\n"))
	if err != nil {
		t.Fatalf("LoadFromPath() error = %v", err)
	}

	value, src, err := Explain(res, "viewer.zoom_step")
	if err != nil {
		t.Fatalf("Explain(zoom_step) error = %v", err)
	}
	if value != 1.5 || src.Kind != SourceFile || src.Line != 2 {
		t.Fatalf("Explain(zoom_step) = %v, %+v; want 1.5 from file line 2", value, src)
	}

	value, src, err = Explain(res, "wallpaper.namespace")
	if err != nil {
		t.Fatalf("Explain(namespace) error = %v", err)
	}
	if value != DefaultNamespace || src.Kind != SourceDefault {
		t.Fatalf("Explain(namespace) = %v, %+v; want the default", value, src)
	}

	for _, key := range []string{"viewer.nope", "log_level.deeper"} {
		if _, _, err := Explain(res, key); err == nil {
			t.Fatalf("Explain(%q) should fail", key)
		}
	}
}
