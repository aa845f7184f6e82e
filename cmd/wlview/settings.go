package main

import (
	"fmt"
	"log/slog"
	"os"
	"strings"

	"github.com/spf13/cobra"
	"github.com/spf13/viper"

	"github.com/1broseidon/wlview/internal/config"
	"github.com/1broseidon/wlview/internal/logging"
)

// bindViper wires a command's flags into v with the WLVIEW_* env prefix.
//
// Precedence (lowest → highest): defaults → config file → WLVIEW_* env vars → flags
func bindViper(cmd *cobra.Command, v *viper.Viper) error {
	v.SetEnvPrefix("WLVIEW")
	v.SetEnvKeyReplacer(strings.NewReplacer("-", "_"))
	v.AutomaticEnv()

	if err := v.BindPFlags(cmd.Flags()); err != nil {
		return fmt.Errorf("binding flags: %w", err)
	}
	return nil
}

// addConfigFlag adds the --config flag to a command.
func addConfigFlag(cmd *cobra.Command) {
	cmd.Flags().String("config", "", "path to config file (default: ~/.config/wlview/config.yaml)")
}

// addLoggingFlags adds the standard logging flags to a command.
func addLoggingFlags(cmd *cobra.Command) {
	cmd.Flags().String("log-format", "", "log format: auto|text|json")
	cmd.Flags().String("log-level", "", "log level: debug|info|warning|error")
}

// overrides maps flag names onto config setters. Only flags a command
// defines and the user set take effect.
var overrides = map[string]func(*config.Config, *viper.Viper, string){
	"log-level":      func(c *config.Config, v *viper.Viper, k string) { c.LogLevel = v.GetString(k) },
	"log-format":     func(c *config.Config, v *viper.Viper, k string) { c.LogFormat = v.GetString(k) },
	"background":     func(c *config.Config, v *viper.Viper, k string) { c.BackgroundColor = v.GetString(k) },
	"fit":            func(c *config.Config, v *viper.Viper, k string) { c.Viewer.FitToWindow = v.GetBool(k) },
	"thumbnail-size": func(c *config.Config, v *viper.Viper, k string) { c.Gallery.ThumbnailSize = v.GetInt(k) },
	"max-depth":      func(c *config.Config, v *viper.Viper, k string) { c.Scan.MaxDepth = v.GetInt(k) },
	"namespace":      func(c *config.Config, v *viper.Viper, k string) { c.Wallpaper.Namespace = v.GetString(k) },
}

// loadSettings reads the config file and applies env and flag overrides.
func loadSettings(v *viper.Viper) (*config.LoadResult, error) {
	path := v.GetString("config")
	if path == "" {
		p, err := config.DefaultConfigPath()
		if err != nil {
			return nil, err
		}
		path = p
	}
	res, err := config.LoadFromPath(path)
	if err != nil {
		return nil, err
	}

	for key, apply := range overrides {
		if v.IsSet(key) && v.GetString(key) != "" {
			apply(res.Config, v, key)
		}
	}
	if err := res.Config.Validate(); err != nil {
		return nil, fmt.Errorf("flags: %w", err)
	}
	return res, nil
}

// setupLogging configures slog from the effective settings.
func setupLogging(cfg *config.Config) *slog.Logger {
	return logging.Setup(os.Stderr, logging.ParseFormat(cfg.LogFormat), logging.ParseLevel(cfg.LogLevel))
}

// prepare binds flags, loads settings and sets up logging for a command.
func prepare(cmd *cobra.Command) (*config.Config, *slog.Logger, error) {
	v := viper.New()
	if err := bindViper(cmd, v); err != nil {
		return nil, nil, err
	}
	res, err := loadSettings(v)
	if err != nil {
		return nil, nil, err
	}
	log := setupLogging(res.Config)
	if res.File != "" {
		log.Debug("config loaded", "file", res.File)
	}
	return res.Config, log, nil
}
