package main

import (
	"context"
	"fmt"
	"time"

	"github.com/spf13/cobra"

	"github.com/i474232898/live-wallpaper/internal/imagery"
)

// datesCmd represents the dates command
var datesCmd = &cobra.Command{
	Use:   "dates",
	Short: "List the capture times published for a satellite",
	RunE: func(cmd *cobra.Command, args []string) error {
		cfg, err := LoadConfig(cmd)
		if err != nil {
			return err
		}

		renderer, err := newRenderer(cfg)
		if err != nil {
			return err
		}

		ctx, cancel := context.WithTimeout(cmd.Context(), cfg.HTTPTimeout)
		defer cancel()

		dates, err := renderer.ListDates(ctx, cfg.Satellite)
		if err != nil {
			return err
		}

		limit, _ := cmd.Flags().GetInt("limit")
		printDates(cmd, cfg.Satellite, dates, limit)
		return nil
	},
}

func printDates(cmd *cobra.Command, satellite string, dates []time.Time, limit int) {
	out := cmd.OutOrStdout()
	fmt.Fprintln(out, titleStyle.Render(satellite)+dimStyle.Render(fmt.Sprintf(" %d captures", len(dates))))
	if len(dates) == 0 {
		fmt.Fprintln(out, dimStyle.Render("  no dates available"))
		return
	}

	start := 0
	if limit > 0 && len(dates) > limit {
		start = len(dates) - limit
	}
	for i := start; i < len(dates); i++ {
		line := fmt.Sprintf("  %s  %s", imagery.FormatTimestamp(dates[i]), dates[i].Format(time.RFC3339))
		if i == len(dates)-1 {
			fmt.Fprintln(out, latestStyle.Render(line+"  latest"))
			continue
		}
		fmt.Fprintln(out, line)
	}
}

func init() {
	rootCmd.AddCommand(datesCmd)
	datesCmd.Flags().Int("limit", 0, "Show only the most recent N captures (0 = all)")
}
