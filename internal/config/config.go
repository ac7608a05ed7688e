package config

import (
	"errors"
	"fmt"
	"log"
	"os"
	"path/filepath"
	"strconv"
	"strings"
	"time"

	"github.com/go-playground/validator/v10"
	"github.com/joho/godotenv"
	toml "github.com/pelletier/go-toml/v2"

	"github.com/i474232898/live-wallpaper/internal/imagery"
	"github.com/i474232898/live-wallpaper/internal/scheduler"
	"github.com/i474232898/live-wallpaper/internal/wallpaper"
)

// EnvConfigPath names the environment variable pointing at a TOML config file.
const EnvConfigPath = "LIVE_WALLPAPER_CONFIG"

const defaultConfigPath = "~/.config/live-wallpaper/config.toml"

type AppConfig struct {
	Satellite   string `validate:"required"`
	Product     string `validate:"required"`
	TileBaseURL string `validate:"required,url"`
	Scale       int    `validate:"gte=0,lte=99"`

	// Schedule is a phrase ("every 15 minutes"), a Go duration or a cron expression.
	Schedule   string        `validate:"required"`
	RunTimeout time.Duration `validate:"gt=0"`

	OutputPath   string `validate:"required"`
	SetWallpaper bool
	FitWidth     int `validate:"gte=0"`
	FitHeight    int `validate:"gte=0"`
	Borders      bool

	FetchMode        string `validate:"oneof=sequential concurrent"`
	FetchConcurrency int    `validate:"gte=1,lte=64"`
	MissingTiles     string `validate:"oneof=fail placeholder"`

	HTTPTimeout time.Duration `validate:"gt=0"`
	HTTPRetries int           `validate:"gte=0,lte=10"`

	// In-memory store retention.
	StoreMaxHistory int           `validate:"gte=0"` // max number of runs per satellite (0 = unlimited)
	StoreMaxAge     time.Duration `validate:"gte=0"` // max age of runs (0 = unlimited)

	Port string `validate:"required,numeric"`

	S3 S3Config
}

// S3Config enables mirroring the composite to an S3-compatible bucket when Bucket is set.
type S3Config struct {
	Endpoint  string `validate:"omitempty,url"`
	Region    string
	Bucket    string
	Key       string
	AccessKey string
	SecretKey string
}

// Enabled reports whether an S3 bucket is configured.
func (c S3Config) Enabled() bool {
	return c.Bucket != ""
}

// Default returns the configuration used when nothing else is set.
func Default() *AppConfig {
	return &AppConfig{
		Satellite:        imagery.DefaultSatellite,
		Product:          imagery.DefaultProduct,
		TileBaseURL:      imagery.DefaultBaseURL,
		Scale:            3,
		Schedule:         "every 15 minutes",
		RunTimeout:       5 * time.Minute,
		OutputPath:       "earth.png",
		SetWallpaper:     true,
		FetchMode:        string(imagery.FetchConcurrent),
		FetchConcurrency: imagery.GridRows * imagery.GridCols,
		MissingTiles:     string(imagery.MissingFail),
		HTTPTimeout:      30 * time.Second,
		StoreMaxHistory:  96, // roughly 24h at 15-minute intervals
		StoreMaxAge:      24 * time.Hour,
		Port:             "8080",
		S3:               S3Config{Region: "us-east-1"},
	}
}

// Load builds the configuration from defaults, an optional TOML file, .env and
// the environment, in increasing order of precedence.
func Load(path string) (*AppConfig, error) {
	if err := godotenv.Load(); err != nil {
		log.Printf("INFO: No .env file found or error loading it: %v", err)
	}

	cfg := Default()

	explicit := strings.TrimSpace(path) != ""
	if !explicit {
		path = os.Getenv(EnvConfigPath)
		explicit = path != ""
	}
	if !explicit {
		path = defaultConfigPath
	}

	resolved, err := expandPath(path)
	if err != nil {
		return nil, err
	}
	// The default location is optional; an explicitly named file is not.
	if err := cfg.applyFile(resolved); err != nil && (explicit || !errors.Is(err, os.ErrNotExist)) {
		return nil, err
	}

	if err := cfg.applyEnv(); err != nil {
		return nil, err
	}

	return cfg, nil
}

type fileConfig struct {
	Satellite   *string `toml:"satellite"`
	Product     *string `toml:"product"`
	TileBaseURL *string `toml:"tile_base_url"`
	Scale       *int    `toml:"scale"`

	Schedule   *string `toml:"schedule"`
	RunTimeout *string `toml:"run_timeout"`

	OutputPath   *string `toml:"output_path"`
	SetWallpaper *bool   `toml:"set_wallpaper"`
	FitWidth     *int    `toml:"fit_width"`
	FitHeight    *int    `toml:"fit_height"`
	Borders      *bool   `toml:"borders"`

	Fetch struct {
		Mode         *string `toml:"mode"`
		Concurrency  *int    `toml:"concurrency"`
		MissingTiles *string `toml:"missing_tiles"`
		Timeout      *string `toml:"timeout"`
		Retries      *int    `toml:"retries"`
	} `toml:"fetch"`

	Store struct {
		MaxHistory *int    `toml:"max_history"`
		MaxAge     *string `toml:"max_age"`
	} `toml:"store"`

	Port *string `toml:"port"`

	S3 struct {
		Endpoint  *string `toml:"endpoint"`
		Region    *string `toml:"region"`
		Bucket    *string `toml:"bucket"`
		Key       *string `toml:"key"`
		AccessKey *string `toml:"access_key"`
		SecretKey *string `toml:"secret_key"`
	} `toml:"s3"`
}

func (c *AppConfig) applyFile(path string) error {
	data, err := os.ReadFile(path)
	if err != nil {
		return fmt.Errorf("read config: %w", err)
	}

	var raw fileConfig
	if err := toml.Unmarshal(data, &raw); err != nil {
		return fmt.Errorf("parse config: %w", err)
	}

	setString(&c.Satellite, raw.Satellite)
	setString(&c.Product, raw.Product)
	setString(&c.TileBaseURL, raw.TileBaseURL)
	setInt(&c.Scale, raw.Scale)
	setString(&c.Schedule, raw.Schedule)
	setString(&c.OutputPath, raw.OutputPath)
	setBool(&c.SetWallpaper, raw.SetWallpaper)
	setInt(&c.FitWidth, raw.FitWidth)
	setInt(&c.FitHeight, raw.FitHeight)
	setBool(&c.Borders, raw.Borders)
	setString(&c.FetchMode, raw.Fetch.Mode)
	setInt(&c.FetchConcurrency, raw.Fetch.Concurrency)
	setString(&c.MissingTiles, raw.Fetch.MissingTiles)
	setInt(&c.HTTPRetries, raw.Fetch.Retries)
	setInt(&c.StoreMaxHistory, raw.Store.MaxHistory)
	setString(&c.Port, raw.Port)
	setString(&c.S3.Endpoint, raw.S3.Endpoint)
	setString(&c.S3.Region, raw.S3.Region)
	setString(&c.S3.Bucket, raw.S3.Bucket)
	setString(&c.S3.Key, raw.S3.Key)
	setString(&c.S3.AccessKey, raw.S3.AccessKey)
	setString(&c.S3.SecretKey, raw.S3.SecretKey)

	durations := []struct {
		name string
		dst  *time.Duration
		src  *string
	}{
		{"run_timeout", &c.RunTimeout, raw.RunTimeout},
		{"fetch.timeout", &c.HTTPTimeout, raw.Fetch.Timeout},
		{"store.max_age", &c.StoreMaxAge, raw.Store.MaxAge},
	}
	for _, d := range durations {
		if d.src == nil {
			continue
		}
		v, err := time.ParseDuration(strings.TrimSpace(*d.src))
		if err != nil {
			return fmt.Errorf("parse config: invalid %s: %w", d.name, err)
		}
		*d.dst = v
	}

	return nil
}

func (c *AppConfig) applyEnv() error {
	c.Satellite = getenvDefault("SATELLITE", c.Satellite)
	c.Product = getenvDefault("PRODUCT", c.Product)
	c.TileBaseURL = getenvDefault("TILE_BASE_URL", c.TileBaseURL)
	c.Scale = getenvInt("SCALE", c.Scale)
	c.Schedule = getenvDefault("SCHEDULE", c.Schedule)
	c.OutputPath = getenvDefault("OUTPUT_PATH", c.OutputPath)
	c.SetWallpaper = getenvBool("SET_WALLPAPER", c.SetWallpaper)
	c.FitWidth = getenvInt("FIT_WIDTH", c.FitWidth)
	c.FitHeight = getenvInt("FIT_HEIGHT", c.FitHeight)
	c.Borders = getenvBool("BORDERS", c.Borders)
	c.FetchMode = getenvDefault("FETCH_MODE", c.FetchMode)
	c.FetchConcurrency = getenvInt("FETCH_CONCURRENCY", c.FetchConcurrency)
	c.MissingTiles = getenvDefault("MISSING_TILES", c.MissingTiles)
	c.HTTPRetries = getenvInt("HTTP_RETRIES", c.HTTPRetries)
	c.StoreMaxHistory = getenvInt("STORE_MAX_HISTORY", c.StoreMaxHistory)
	c.Port = getenvDefault("PORT", c.Port)

	c.S3.Endpoint = getenvDefault("S3_ENDPOINT", c.S3.Endpoint)
	c.S3.Region = getenvDefault("S3_REGION", c.S3.Region)
	c.S3.Bucket = getenvDefault("S3_BUCKET", c.S3.Bucket)
	c.S3.Key = getenvDefault("S3_KEY", c.S3.Key)
	c.S3.AccessKey = getenvDefault("S3_ACCESS_KEY", c.S3.AccessKey)
	c.S3.SecretKey = getenvDefault("S3_SECRET_KEY", c.S3.SecretKey)

	var err error
	if c.HTTPTimeout, err = getenvDuration("HTTP_TIMEOUT", c.HTTPTimeout); err != nil {
		return err
	}
	if c.RunTimeout, err = getenvDuration("RUN_TIMEOUT", c.RunTimeout); err != nil {
		return err
	}
	if c.StoreMaxAge, err = getenvDuration("STORE_MAX_AGE", c.StoreMaxAge); err != nil {
		return err
	}
	return nil
}

// Validate checks field ranges, the schedule syntax and the output format.
func (c *AppConfig) Validate() error {
	c.FetchMode = strings.ToLower(strings.TrimSpace(c.FetchMode))
	c.MissingTiles = strings.ToLower(strings.TrimSpace(c.MissingTiles))

	if err := validator.New().Struct(c); err != nil {
		return fmt.Errorf("invalid config: %w", err)
	}
	if _, err := scheduler.ParseSchedule(c.Schedule); err != nil {
		return fmt.Errorf("invalid SCHEDULE: %w", err)
	}
	if _, err := wallpaper.OutputFormat(c.OutputPath); err != nil {
		return fmt.Errorf("invalid OUTPUT_PATH: %w", err)
	}
	return nil
}

// S3Key returns the object key the composite is mirrored to.
func (c *AppConfig) S3Key() string {
	if c.S3.Key != "" {
		return c.S3.Key
	}
	return filepath.Base(c.OutputPath)
}

func setString(dst *string, src *string) {
	if src != nil {
		*dst = strings.TrimSpace(*src)
	}
}

func setInt(dst *int, src *int) {
	if src != nil {
		*dst = *src
	}
}

func setBool(dst *bool, src *bool) {
	if src != nil {
		*dst = *src
	}
}

func getenvDefault(key, def string) string {
	if v := os.Getenv(key); v != "" {
		return v
	}
	return def
}

func getenvInt(key string, def int) int {
	if v := os.Getenv(key); v != "" {
		n, err := strconv.Atoi(v)
		if err == nil {
			return n
		}
	}
	return def
}

func getenvBool(key string, def bool) bool {
	if v := os.Getenv(key); v != "" {
		b, err := strconv.ParseBool(v)
		if err == nil {
			return b
		}
	}
	return def
}

func getenvDuration(key string, def time.Duration) (time.Duration, error) {
	v := os.Getenv(key)
	if v == "" {
		return def, nil
	}
	d, err := time.ParseDuration(v)
	if err != nil {
		return 0, fmt.Errorf("invalid %s: %w", key, err)
	}
	return d, nil
}

func expandPath(path string) (string, error) {
	trimmed := strings.TrimSpace(path)
	if strings.HasPrefix(trimmed, "~") {
		home, err := os.UserHomeDir()
		if err != nil {
			return "", fmt.Errorf("resolve home dir: %w", err)
		}
		trimmed = filepath.Join(home, strings.TrimPrefix(trimmed, "~"))
	}
	return filepath.Abs(trimmed)
}
