package main

import (
	"context"
	"fmt"
	"time"

	"github.com/spf13/cobra"
)

// onceCmd represents the once command
var onceCmd = &cobra.Command{
	Use:   "once",
	Short: "Run a single wallpaper update and exit",
	Long: `Fetch the latest image, write it to the output path and apply it as the
wallpaper. The exit status is non-zero if any step failed; in that case the
previous output file is left untouched.

With --set-wallpaper=false the image is only written to disk.`,
	RunE: func(cmd *cobra.Command, args []string) error {
		cfg, err := LoadConfig(cmd)
		if err != nil {
			return err
		}

		ctx, cancel := context.WithTimeout(cmd.Context(), cfg.RunTimeout)
		defer cancel()

		service, err := newService(ctx, cfg)
		if err != nil {
			return err
		}

		rec, err := service.Run(ctx)
		out := cmd.OutOrStdout()
		if err != nil {
			fmt.Fprintln(out, errStyle.Render("update failed: ")+err.Error())
			return err
		}

		fmt.Fprintln(out, titleStyle.Render(rec.Satellite)+" "+latestStyle.Render(rec.ImageTime.Format(time.RFC3339)))
		fmt.Fprintln(out, okStyle.Render("wrote ")+rec.OutputPath+dimStyle.Render(fmt.Sprintf(" (%dx%d, %s)",
			rec.Width, rec.Height, rec.FinishedAt.Sub(rec.StartedAt).Round(time.Millisecond))))
		for _, dst := range rec.Published {
			fmt.Fprintln(out, okStyle.Render("published ")+dst)
		}
		return nil
	},
}

func init() {
	rootCmd.AddCommand(onceCmd)
}
