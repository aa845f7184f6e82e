package config

import (
	"fmt"
	"strconv"
	"strings"
	"time"
)

// Defaults shared with the rendering and gallery code.
const (
	DefaultBackgroundColor = "#1a1a1a"
	DefaultWindowWidth     = 800
	DefaultWindowHeight    = 600
	DefaultThumbnailSize   = 200
	DefaultPollIntervalMS  = 16
	DefaultZoomStep        = 1.25
	DefaultPanSpeed        = 600.0
	DefaultErrorMS         = 3000
	DefaultToastMS         = 1500
	DefaultScanDepth       = 8
	DefaultNamespace       = "wallpaper"
)

// WindowConfig controls the interactive toplevel window.
type WindowConfig struct {
	Title         string `yaml:"title"`
	AppID         string `yaml:"app_id"`
	DefaultWidth  int    `yaml:"default_width"`
	DefaultHeight int    `yaml:"default_height"`
}

// ViewerConfig controls single-image viewing.
type ViewerConfig struct {
	ZoomStep    float64 `yaml:"zoom_step"`
	PanSpeed    float64 `yaml:"pan_speed"` // pixels per second
	FitToWindow bool    `yaml:"fit_to_window"`
}

// GalleryConfig controls the thumbnail grid.
type GalleryConfig struct {
	ThumbnailSize  int `yaml:"thumbnail_size"`
	PollIntervalMS int `yaml:"poll_interval_ms"`
}

// MessagesConfig controls how long overlays stay visible.
type MessagesConfig struct {
	ErrorMS int `yaml:"error_ms"`
	ToastMS int `yaml:"toast_ms"`
}

// WallpaperConfig controls background surfaces.
type WallpaperConfig struct {
	Namespace string `yaml:"namespace"`
}

// ScanConfig controls directory expansion of command-line paths.
type ScanConfig struct {
	MaxDepth int `yaml:"max_depth"`
}

// Config is the effective runtime configuration.
type Config struct {
	LogLevel        string          `yaml:"log_level"`
	LogFormat       string          `yaml:"log_format"`
	BackgroundColor string          `yaml:"background_color"`
	Window          WindowConfig    `yaml:"window"`
	Viewer          ViewerConfig    `yaml:"viewer"`
	Gallery         GalleryConfig   `yaml:"gallery"`
	Messages        MessagesConfig  `yaml:"messages"`
	Wallpaper       WallpaperConfig `yaml:"wallpaper"`
	Scan            ScanConfig      `yaml:"scan"`
}

// DefaultConfig returns the configuration used when no file is present.
func DefaultConfig() *Config {
	return &Config{
		LogLevel:        "info",
		LogFormat:       "auto",
		BackgroundColor: DefaultBackgroundColor,
		Window: WindowConfig{
			Title:         "wlview",
			AppID:         "wlview",
			DefaultWidth:  DefaultWindowWidth,
			DefaultHeight: DefaultWindowHeight,
		},
		Viewer: ViewerConfig{
			ZoomStep: DefaultZoomStep,
			PanSpeed: DefaultPanSpeed,
		},
		Gallery: GalleryConfig{
			ThumbnailSize:  DefaultThumbnailSize,
			PollIntervalMS: DefaultPollIntervalMS,
		},
		Messages: MessagesConfig{
			ErrorMS: DefaultErrorMS,
			ToastMS: DefaultToastMS,
		},
		Wallpaper: WallpaperConfig{Namespace: DefaultNamespace},
		Scan:      ScanConfig{MaxDepth: DefaultScanDepth},
	}
}

// Validate checks the effective configuration.
func (c *Config) Validate() error {
	switch c.LogLevel {
	case "debug", "info", "warning", "error":
	default:
		return &ValidationError{Path: "log_level", Err: fmt.Errorf("log_level must be one of: debug, info, warning, error")}
	}
	switch c.LogFormat {
	case "auto", "text", "json":
	default:
		return &ValidationError{Path: "log_format", Err: fmt.Errorf("log_format must be one of: auto, text, json")}
	}
	if _, err := ParseColor(c.BackgroundColor); err != nil {
		return &ValidationError{Path: "background_color", Err: err}
	}
	if c.Window.DefaultWidth <= 0 || c.Window.DefaultHeight <= 0 {
		return &ValidationError{Path: "window", Err: fmt.Errorf("default_width and default_height must be > 0")}
	}
	if strings.TrimSpace(c.Window.AppID) == "" {
		return &ValidationError{Path: "window.app_id", Err: fmt.Errorf("app_id must not be empty")}
	}
	if c.Viewer.ZoomStep <= 1 {
		return &ValidationError{Path: "viewer.zoom_step", Err: fmt.Errorf("zoom_step must be > 1")}
	}
	if c.Viewer.PanSpeed <= 0 {
		return &ValidationError{Path: "viewer.pan_speed", Err: fmt.Errorf("pan_speed must be > 0")}
	}
	if c.Gallery.ThumbnailSize < 16 {
		return &ValidationError{Path: "gallery.thumbnail_size", Err: fmt.Errorf("thumbnail_size must be >= 16")}
	}
	if c.Gallery.PollIntervalMS <= 0 {
		return &ValidationError{Path: "gallery.poll_interval_ms", Err: fmt.Errorf("poll_interval_ms must be > 0")}
	}
	if c.Messages.ErrorMS < 0 || c.Messages.ToastMS < 0 {
		return &ValidationError{Path: "messages", Err: fmt.Errorf("message durations must be >= 0")}
	}
	if strings.TrimSpace(c.Wallpaper.Namespace) == "" {
		return &ValidationError{Path: "wallpaper.namespace", Err: fmt.Errorf("namespace must not be empty")}
	}
	if c.Scan.MaxDepth < 0 {
		return &ValidationError{Path: "scan.max_depth", Err: fmt.Errorf("max_depth must be >= 0")}
	}
	return nil
}

// PollInterval returns the thumbnail poll interval.
func (c *Config) PollInterval() time.Duration {
	return time.Duration(c.Gallery.PollIntervalMS) * time.Millisecond
}

// ErrorDuration returns how long error messages stay on screen.
func (c *Config) ErrorDuration() time.Duration {
	return time.Duration(c.Messages.ErrorMS) * time.Millisecond
}

// ToastDuration returns how long toasts stay on screen.
func (c *Config) ToastDuration() time.Duration {
	return time.Duration(c.Messages.ToastMS) * time.Millisecond
}

// Background returns the background color as 0x00RRGGBB.
func (c *Config) Background() uint32 {
	v, err := ParseColor(c.BackgroundColor)
	if err != nil {
		return 0x1a1a1a
	}
	return v
}

// ParseColor parses "#rrggbb" into 0x00RRGGBB.
func ParseColor(s string) (uint32, error) {
	hex := strings.TrimPrefix(strings.TrimSpace(s), "#")
	if len(hex) != 6 {
		return 0, fmt.Errorf("color %q must be in #rrggbb form", s)
	}
	v, err := strconv.ParseUint(hex, 16, 32)
	if err != nil {
		return 0, fmt.Errorf("color %q: %w", s, err)
	}
	return uint32(v), nil
}
