package main

import (
	"context"
	"fmt"
	"image"
	"time"

	"github.com/disintegration/imaging"
	"github.com/spf13/cobra"

	"github.com/i474232898/live-wallpaper/internal/imagery"
	"github.com/i474232898/live-wallpaper/internal/wallpaper"
)

// renderCmd represents the render command
var renderCmd = &cobra.Command{
	Use:   "render",
	Short: "Render one capture to a file without touching the desktop",
	Example: `  live-wallpaper render --at 20230601120000 -o earth.png
  live-wallpaper render --kind border --scale 2 -o borders.png`,
	RunE: func(cmd *cobra.Command, args []string) error {
		cfg, err := LoadConfig(cmd)
		if err != nil {
			return err
		}

		kindStr, _ := cmd.Flags().GetString("kind")
		kind, err := imagery.ParseTileKind(kindStr)
		if err != nil {
			return err
		}

		ctx, cancel := context.WithTimeout(cmd.Context(), cfg.RunTimeout)
		defer cancel()

		renderer, err := newRenderer(cfg)
		if err != nil {
			return err
		}

		at, err := captureTime(ctx, cmd, renderer, cfg.Satellite)
		if err != nil {
			return err
		}

		var img image.Image
		switch kind {
		case imagery.KindBorder:
			img, err = renderer.FetchAndStitch(ctx, imagery.KindBorder, at, cfg.Scale, cfg.Satellite)
		default:
			var comp imagery.Composite
			comp, err = renderer.Render(ctx, cfg.Satellite, at)
			img = comp.Image
		}
		if err != nil {
			return err
		}

		if cfg.FitWidth > 0 && cfg.FitHeight > 0 {
			img = imaging.Fit(img, cfg.FitWidth, cfg.FitHeight, imaging.Lanczos)
		}

		abs, err := wallpaper.WriteImage(cfg.OutputPath, img)
		if err != nil {
			return err
		}

		size := img.Bounds().Size()
		fmt.Fprintln(cmd.OutOrStdout(), okStyle.Render("wrote ")+abs+
			dimStyle.Render(fmt.Sprintf(" (%s %s@%s, %dx%d)", kind, cfg.Satellite, imagery.FormatTimestamp(at), size.X, size.Y)))
		return nil
	},
}

// captureTime returns the --at timestamp, or the latest published capture when unset.
func captureTime(ctx context.Context, cmd *cobra.Command, renderer *imagery.Renderer, satellite string) (time.Time, error) {
	raw, _ := cmd.Flags().GetString("at")
	if raw != "" {
		return imagery.ParseTimestamp(raw)
	}

	dates, err := renderer.ListDates(ctx, satellite)
	if err != nil {
		return time.Time{}, err
	}
	if len(dates) == 0 {
		return time.Time{}, fmt.Errorf("%s: %w", satellite, imagery.ErrNoDates)
	}
	return dates[len(dates)-1], nil
}

func init() {
	rootCmd.AddCommand(renderCmd)
	renderCmd.Flags().String("at", "", "Capture time as YYYYMMDDhhmmss (default latest)")
	renderCmd.Flags().String("kind", "planet", "Tile layer: planet or border")
}
