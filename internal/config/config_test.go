package config

import (
	"os"
	"path/filepath"
	"strings"
	"testing"
	"time"
)

// isolate clears every variable Load reads so the host environment cannot leak in.
func isolate(t *testing.T) {
	t.Helper()
	t.Setenv("HOME", t.TempDir())
	for _, k := range []string{
		EnvConfigPath, "SATELLITE", "PRODUCT", "TILE_BASE_URL", "SCALE", "SCHEDULE", "OUTPUT_PATH",
		"SET_WALLPAPER", "FIT_WIDTH", "FIT_HEIGHT", "BORDERS", "FETCH_MODE", "FETCH_CONCURRENCY",
		"MISSING_TILES", "HTTP_TIMEOUT", "HTTP_RETRIES", "RUN_TIMEOUT", "STORE_MAX_HISTORY",
		"STORE_MAX_AGE", "PORT", "S3_ENDPOINT", "S3_REGION", "S3_BUCKET", "S3_KEY",
		"S3_ACCESS_KEY", "S3_SECRET_KEY",
	} {
		t.Setenv(k, "")
	}
}

func writeFile(t *testing.T, content string) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), "config.toml")
	if err := os.WriteFile(path, []byte(content), 0o644); err != nil {
		t.Fatal(err)
	}
	return path
}

func TestLoad_Defaults(t *testing.T) {
	isolate(t)

	cfg, err := Load("")
	if err != nil {
		t.Fatalf("Load returned error: %v", err)
	}
	if cfg.Satellite != "meteosat-11" || cfg.Scale != 3 || cfg.Schedule != "every 15 minutes" {
		t.Errorf("unexpected defaults: %+v", cfg)
	}
	if cfg.FetchMode != "concurrent" || cfg.FetchConcurrency != 64 || cfg.MissingTiles != "fail" {
		t.Errorf("unexpected fetch defaults: %+v", cfg)
	}
	if err := cfg.Validate(); err != nil {
		t.Fatalf("defaults do not validate: %v", err)
	}
	if cfg.S3.Enabled() {
		t.Error("S3 enabled without a bucket")
	}
}

func TestLoad_FileThenEnv(t *testing.T) {
	isolate(t)
	path := writeFile(t, `
satellite = "goes-16"
scale = 4
schedule = "every 30 minutes"
output_path = "/tmp/wall.jpg"
borders = true

[fetch]
mode = "sequential"
timeout = "10s"

[store]
max_age = "6h"

[s3]
bucket = "wallpapers"
`)
	t.Setenv("SCALE", "2")
	t.Setenv("HTTP_TIMEOUT", "45s")

	cfg, err := Load(path)
	if err != nil {
		t.Fatalf("Load returned error: %v", err)
	}

	if cfg.Satellite != "goes-16" {
		t.Errorf("Satellite = %q, want goes-16 from file", cfg.Satellite)
	}
	if cfg.Scale != 2 {
		t.Errorf("Scale = %d, want 2 from env", cfg.Scale)
	}
	if cfg.HTTPTimeout != 45*time.Second {
		t.Errorf("HTTPTimeout = %v, want 45s from env", cfg.HTTPTimeout)
	}
	if cfg.StoreMaxAge != 6*time.Hour || cfg.FetchMode != "sequential" || !cfg.Borders {
		t.Errorf("file values not applied: %+v", cfg)
	}
	if !cfg.S3.Enabled() || cfg.S3Key() != "wall.jpg" {
		t.Errorf("S3 = %+v key %q, want bucket wallpapers and key wall.jpg", cfg.S3, cfg.S3Key())
	}
	if err := cfg.Validate(); err != nil {
		t.Fatalf("Validate returned error: %v", err)
	}
}

func TestLoad_ConfigPathFromEnv(t *testing.T) {
	isolate(t)
	t.Setenv(EnvConfigPath, writeFile(t, `satellite = "himawari-9"`))

	cfg, err := Load("")
	if err != nil {
		t.Fatalf("Load returned error: %v", err)
	}
	if cfg.Satellite != "himawari-9" {
		t.Errorf("Satellite = %q, want himawari-9", cfg.Satellite)
	}
}

func TestLoad_Errors(t *testing.T) {
	t.Run("missing explicit file", func(t *testing.T) {
		isolate(t)
		if _, err := Load(filepath.Join(t.TempDir(), "nope.toml")); err == nil {
			t.Fatal("Load with missing explicit file returned nil error")
		}
	})
	t.Run("bad toml", func(t *testing.T) {
		isolate(t)
		_, err := Load(writeFile(t, `satellite = `))
		if err == nil || !strings.Contains(err.Error(), "parse config") {
			t.Fatalf("error = %v, want parse config error", err)
		}
	})
	t.Run("bad file duration", func(t *testing.T) {
		isolate(t)
		if _, err := Load(writeFile(t, "run_timeout = \"soon\"")); err == nil {
			t.Fatal("Load with bad run_timeout returned nil error")
		}
	})
	t.Run("bad env duration", func(t *testing.T) {
		isolate(t)
		t.Setenv("RUN_TIMEOUT", "forever")
		if _, err := Load(""); err == nil {
			t.Fatal("Load with bad RUN_TIMEOUT returned nil error")
		}
	})
}

func TestValidate(t *testing.T) {
	tests := []struct {
		name   string
		mutate func(*AppConfig)
	}{
		{"fetch mode", func(c *AppConfig) { c.FetchMode = "parallel" }},
		{"missing tiles", func(c *AppConfig) { c.MissingTiles = "skip" }},
		{"schedule", func(c *AppConfig) { c.Schedule = "whenever" }},
		{"output format", func(c *AppConfig) { c.OutputPath = "earth.webp" }},
		{"base url", func(c *AppConfig) { c.TileBaseURL = "not a url" }},
		{"concurrency", func(c *AppConfig) { c.FetchConcurrency = 0 }},
		{"scale", func(c *AppConfig) { c.Scale = 100 }},
		{"port", func(c *AppConfig) { c.Port = "http" }},
		{"s3 endpoint", func(c *AppConfig) { c.S3.Endpoint = "::" }},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			cfg := Default()
			tt.mutate(cfg)
			if err := cfg.Validate(); err == nil {
				t.Fatalf("Validate accepted invalid %s", tt.name)
			}
		})
	}

	cfg := Default()
	cfg.FetchMode = " Sequential "
	if err := cfg.Validate(); err != nil || cfg.FetchMode != "sequential" {
		t.Errorf("Validate(%q) = %v, normalised to %q", " Sequential ", err, cfg.FetchMode)
	}
}
