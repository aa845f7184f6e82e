package main

import (
	"github.com/spf13/cobra"

	"github.com/1broseidon/wlview/internal/app"
)

func newWallpaperCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "wallpaper <image>",
		Short: "Cover every monitor with an image",
		Long: `wallpaper creates one background surface per monitor, scales the image to
cover it and crops the overflow evenly. It needs the wlr layer-shell protocol
(sway, river, Hyprland and other wlroots compositors) and runs until the
compositor closes the surfaces or it is interrupted.`,
		Args:         cobra.ExactArgs(1),
		SilenceUsage: true,
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg, log, err := prepare(cmd)
			if err != nil {
				return err
			}
			return runApp(cmd.Context(), cfg, log, func(a *app.App) error {
				return a.StartWallpaper(args[0])
			})
		},
	}
	addConfigFlag(cmd)
	addLoggingFlags(cmd)
	cmd.Flags().String("namespace", "", "layer-shell namespace")
	cmd.Flags().String("background", "", "background color as #rrggbb")
	return cmd
}
