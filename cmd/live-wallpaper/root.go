package main

import (
	"os"

	"github.com/spf13/cobra"
)

// rootCmd represents the base command when called without any subcommands
var rootCmd = &cobra.Command{
	Use:   "live-wallpaper",
	Short: "Full-disk satellite imagery as a live desktop wallpaper",
	Long: `live-wallpaper downloads the latest full-disk satellite image from the
RAMMB/CIRA slider, stitches its 8x8 tile grid into one picture and sets it as
the desktop background, on a schedule.

Configuration is read from a TOML file, .env, environment variables and
command-line flags. Flags take precedence over environment variables.`,
	SilenceUsage: true,
}

// Execute adds all child commands to the root command and sets flags appropriately.
func Execute() {
	if err := rootCmd.Execute(); err != nil {
		os.Exit(1)
	}
}

func init() {
	f := rootCmd.PersistentFlags()
	f.String("config", "", "TOML config file (default ~/.config/live-wallpaper/config.toml)")
	f.StringP("satellite", "s", "", "Satellite to render, e.g. meteosat-11, goes-16, himawari")
	f.Int("scale", 0, "Zoom level of the tile grid")
	f.String("product", "", "Imagery product, e.g. geocolor")
	f.String("base-url", "", "Tile server base URL")
	f.StringP("output", "o", "", "Output image path; the extension picks the format")
	f.Bool("set-wallpaper", true, "Apply the image as the desktop wallpaper")
	f.Bool("borders", false, "Overlay country borders")
	f.Int("fit-width", 0, "Shrink the image to fit this width (0 = native)")
	f.Int("fit-height", 0, "Shrink the image to fit this height (0 = native)")
	f.String("fetch-mode", "", "Tile fetch strategy: sequential or concurrent")
	f.Int("concurrency", 0, "Maximum tile requests in flight in concurrent mode")
	f.String("missing-tiles", "", "Missing tile policy: fail or placeholder")
	f.Duration("http-timeout", 0, "Timeout of a single HTTP request")
	f.Int("http-retries", 0, "Retries after a transport error or 5xx answer")
}
