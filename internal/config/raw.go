package config

// Raw* types mirror the YAML file with pointer fields so that absent keys
// keep their defaults.

type RawWindow struct {
	Title         *string `yaml:"title"`
	AppID         *string `yaml:"app_id"`
	DefaultWidth  *int    `yaml:"default_width"`
	DefaultHeight *int    `yaml:"default_height"`
}

type RawViewer struct {
	ZoomStep    *float64 `yaml:"zoom_step"`
	PanSpeed    *float64 `yaml:"pan_speed"`
	FitToWindow *bool    `yaml:"fit_to_window"`
}

type RawGallery struct {
	ThumbnailSize  *int `yaml:"thumbnail_size"`
	PollIntervalMS *int `yaml:"poll_interval_ms"`
}

type RawMessages struct {
	ErrorMS *int `yaml:"error_ms"`
	ToastMS *int `yaml:"toast_ms"`
}

type RawWallpaper struct {
	Namespace *string `yaml:"namespace"`
}

type RawScan struct {
	MaxDepth *int `yaml:"max_depth"`
}

type RawConfig struct {
	LogLevel        *string       `yaml:"log_level"`
	LogFormat       *string       `yaml:"log_format"`
	BackgroundColor *string       `yaml:"background_color"`
	Window          *RawWindow    `yaml:"window"`
	Viewer          *RawViewer    `yaml:"viewer"`
	Gallery         *RawGallery   `yaml:"gallery"`
	Messages        *RawMessages  `yaml:"messages"`
	Wallpaper       *RawWallpaper `yaml:"wallpaper"`
	Scan            *RawScan      `yaml:"scan"`
}

// apply overlays the set fields of raw onto cfg.
func (raw RawConfig) apply(cfg *Config) {
	set(&cfg.LogLevel, raw.LogLevel)
	set(&cfg.LogFormat, raw.LogFormat)
	set(&cfg.BackgroundColor, raw.BackgroundColor)
	if w := raw.Window; w != nil {
		set(&cfg.Window.Title, w.Title)
		set(&cfg.Window.AppID, w.AppID)
		set(&cfg.Window.DefaultWidth, w.DefaultWidth)
		set(&cfg.Window.DefaultHeight, w.DefaultHeight)
	}
	if v := raw.Viewer; v != nil {
		set(&cfg.Viewer.ZoomStep, v.ZoomStep)
		set(&cfg.Viewer.PanSpeed, v.PanSpeed)
		set(&cfg.Viewer.FitToWindow, v.FitToWindow)
	}
	if g := raw.Gallery; g != nil {
		set(&cfg.Gallery.ThumbnailSize, g.ThumbnailSize)
		set(&cfg.Gallery.PollIntervalMS, g.PollIntervalMS)
	}
	if m := raw.Messages; m != nil {
		set(&cfg.Messages.ErrorMS, m.ErrorMS)
		set(&cfg.Messages.ToastMS, m.ToastMS)
	}
	if w := raw.Wallpaper; w != nil {
		set(&cfg.Wallpaper.Namespace, w.Namespace)
	}
	if s := raw.Scan; s != nil {
		set(&cfg.Scan.MaxDepth, s.MaxDepth)
	}
}

func set[T any](dst *T, src *T) {
	if src != nil {
		*dst = *src
	}
}
