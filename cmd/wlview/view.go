package main

import (
	"context"
	"log/slog"
	"os"
	"os/signal"
	"syscall"

	"github.com/spf13/cobra"

	"github.com/1broseidon/wlview/internal/app"
	"github.com/1broseidon/wlview/internal/config"
	"github.com/1broseidon/wlview/internal/imageio"
	"github.com/1broseidon/wlview/internal/wayland"
)

func newViewCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "wlview [file|dir]...",
		Short: "Image viewer for Wayland compositors",
		Long: `wlview shows images in a window, with zoom, pan, rotation, animated GIF
playback and a thumbnail gallery (Enter toggles it).

Directories are scanned recursively for jpg, png, gif, webp, bmp and tiff
files. "wlview wallpaper <image>" covers every monitor with one image instead.

The config file lives at ~/.config/wlview/config.yaml. Flags can also be set
via WLVIEW_<FLAG> env vars.`,
		Args:         cobra.ArbitraryArgs,
		SilenceUsage: true,
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg, log, err := prepare(cmd)
			if err != nil {
				return err
			}
			paths := imageio.CollectPaths(args, cfg.Scan.MaxDepth, log)
			if len(paths) == 0 {
				log.Warn("no supported images found", "args", len(args))
			}
			return runApp(cmd.Context(), cfg, log, func(a *app.App) error {
				return a.StartViewer(paths)
			})
		},
	}
	addConfigFlag(cmd)
	addLoggingFlags(cmd)
	cmd.Flags().Bool("fit", false, "upscale small images to fit the window")
	cmd.Flags().Int("thumbnail-size", 0, "gallery thumbnail size in pixels")
	cmd.Flags().Int("max-depth", 0, "directory recursion depth")
	cmd.Flags().String("background", "", "background color as #rrggbb")
	return cmd
}

// runApp connects, starts the app and runs it until quit or a signal.
func runApp(ctx context.Context, cfg *config.Config, log *slog.Logger, start func(*app.App) error) error {
	ctx, stop := signal.NotifyContext(ctx, os.Interrupt, syscall.SIGTERM)
	defer stop()

	client, err := wayland.Connect(log)
	if err != nil {
		log.Error("cannot reach the compositor", "error", err)
		return err
	}
	a := app.New(client, app.Config{Settings: cfg, Logger: log})
	defer func() {
		if err := a.Close(); err != nil {
			log.Debug("disconnect failed", "error", err)
		}
	}()

	if err := start(a); err != nil {
		log.Error("startup failed", "error", err)
		return err
	}
	if err := a.Run(ctx); err != nil {
		log.Error("event loop failed", "error", err)
		return err
	}
	log.Debug("exiting")
	return nil
}
