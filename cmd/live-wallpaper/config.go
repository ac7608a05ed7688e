package main

import (
	"github.com/spf13/cobra"

	"github.com/i474232898/live-wallpaper/internal/config"
)

// LoadConfig loads configuration from file and environment and applies command flags.
// Flags take precedence over environment variables.
func LoadConfig(cmd *cobra.Command) (*config.AppConfig, error) {
	path, _ := cmd.Flags().GetString("config")

	cfg, err := config.Load(path)
	if err != nil {
		return nil, err
	}

	overrideString(cmd, "satellite", &cfg.Satellite)
	overrideInt(cmd, "scale", &cfg.Scale)
	overrideString(cmd, "product", &cfg.Product)
	overrideString(cmd, "base-url", &cfg.TileBaseURL)
	overrideString(cmd, "output", &cfg.OutputPath)
	overrideBool(cmd, "set-wallpaper", &cfg.SetWallpaper)
	overrideBool(cmd, "borders", &cfg.Borders)
	overrideInt(cmd, "fit-width", &cfg.FitWidth)
	overrideInt(cmd, "fit-height", &cfg.FitHeight)
	overrideString(cmd, "fetch-mode", &cfg.FetchMode)
	overrideInt(cmd, "concurrency", &cfg.FetchConcurrency)
	overrideString(cmd, "missing-tiles", &cfg.MissingTiles)
	overrideInt(cmd, "http-retries", &cfg.HTTPRetries)
	overrideString(cmd, "schedule", &cfg.Schedule)
	overrideString(cmd, "port", &cfg.Port)

	if cmd.Flags().Changed("http-timeout") {
		cfg.HTTPTimeout, _ = cmd.Flags().GetDuration("http-timeout")
	}

	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	return cfg, nil
}

// overrideString replaces dst with the flag value if the flag was explicitly set.
func overrideString(cmd *cobra.Command, flagName string, dst *string) {
	if cmd.Flags().Lookup(flagName) != nil && cmd.Flags().Changed(flagName) {
		*dst, _ = cmd.Flags().GetString(flagName)
	}
}

func overrideInt(cmd *cobra.Command, flagName string, dst *int) {
	if cmd.Flags().Lookup(flagName) != nil && cmd.Flags().Changed(flagName) {
		*dst, _ = cmd.Flags().GetInt(flagName)
	}
}

func overrideBool(cmd *cobra.Command, flagName string, dst *bool) {
	if cmd.Flags().Lookup(flagName) != nil && cmd.Flags().Changed(flagName) {
		*dst, _ = cmd.Flags().GetBool(flagName)
	}
}
