package main

import (
	"context"
	"log"
	"os/signal"
	"syscall"
	"time"

	"github.com/spf13/cobra"

	httpapi "github.com/i474232898/live-wallpaper/internal/api/http"
	"github.com/i474232898/live-wallpaper/internal/scheduler"
)

// serveCmd represents the serve command
var serveCmd = &cobra.Command{
	Use:   "serve",
	Short: "Update the wallpaper on a schedule and serve the status API",
	Long: `Run one wallpaper update immediately, then keep updating on the configured
schedule ("every 15 minutes", "every 2h", "15m" or a cron expression).

The status API exposes:
  - /health
  - /api/v1/wallpaper/status, /history, /image
  - POST /api/v1/wallpaper/refresh
  - /api/v1/satellites/:satellite/dates`,
	RunE: func(cmd *cobra.Command, args []string) error {
		cfg, err := LoadConfig(cmd)
		if err != nil {
			return err
		}

		schedule, err := scheduler.ParseSchedule(cfg.Schedule)
		if err != nil {
			return err
		}

		ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
		defer stop()

		service, err := newService(ctx, cfg)
		if err != nil {
			return err
		}

		// Scheduler that periodically updates the wallpaper.
		sched := scheduler.New(schedule, cfg.RunTimeout, service)
		if err := sched.Start(); err != nil {
			return err
		}
		defer sched.Stop()

		app := httpapi.NewApp(service, sched)

		go func() {
			log.Printf("INFO: serving %s wallpaper status on :%s", cfg.Satellite, cfg.Port)
			if err := app.Listen(":" + cfg.Port); err != nil {
				log.Printf("fiber server stopped: %v", err)
			}
		}()

		// Wait for termination signal
		<-ctx.Done()

		shutdownCtx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
		defer cancel()

		if err := app.ShutdownWithContext(shutdownCtx); err != nil {
			log.Printf("error during shutdown: %v", err)
		}
		return nil
	},
}

func init() {
	rootCmd.AddCommand(serveCmd)
	serveCmd.Flags().String("schedule", "", `Update schedule, e.g. "every 15 minutes"`)
	serveCmd.Flags().StringP("port", "p", "", "Port of the status API")
}
