package main

import (
	"context"
	"fmt"
	"log"
	"net/http"

	"github.com/i474232898/live-wallpaper/internal/config"
	"github.com/i474232898/live-wallpaper/internal/imagery"
	"github.com/i474232898/live-wallpaper/internal/imagery/rammb"
	"github.com/i474232898/live-wallpaper/internal/publish"
	"github.com/i474232898/live-wallpaper/internal/store"
	"github.com/i474232898/live-wallpaper/internal/wallpaper"
)

// newRenderer wires the tile client into an imagery.Renderer.
func newRenderer(cfg *config.AppConfig) (*imagery.Renderer, error) {
	mode, err := imagery.ParseFetchMode(cfg.FetchMode)
	if err != nil {
		return nil, err
	}
	missing, err := imagery.ParseMissingTilePolicy(cfg.MissingTiles)
	if err != nil {
		return nil, err
	}

	// Shared HTTP client for outbound tile and metadata calls.
	httpClient := &http.Client{
		Timeout: cfg.HTTPTimeout,
	}
	urls := imagery.NewURLBuilder(cfg.TileBaseURL, cfg.Product)
	client := rammb.NewClient(httpClient, urls, cfg.HTTPRetries)

	return imagery.NewRenderer(client, urls, imagery.RenderOptions{
		Scale: cfg.Scale,
		Fetch: imagery.FetchOptions{
			Mode:           mode,
			MaxConcurrency: cfg.FetchConcurrency,
		},
		Missing: missing,
		Borders: cfg.Borders,
	}), nil
}

// newService wires renderer, setter, store and publishers into a wallpaper.Service.
func newService(ctx context.Context, cfg *config.AppConfig) (*wallpaper.Service, error) {
	renderer, err := newRenderer(cfg)
	if err != nil {
		return nil, err
	}

	var setter wallpaper.Setter = wallpaper.NopSetter{}
	if cfg.SetWallpaper {
		setter = wallpaper.NewPlatformSetter()
	}

	// In-memory store with configured retention.
	memStore := store.NewMemoryStore(cfg.StoreMaxHistory, cfg.StoreMaxAge)

	var pubs []wallpaper.Publisher
	if cfg.S3.Enabled() {
		client, err := publish.NewS3Client(ctx, publish.S3Config{
			Endpoint:  cfg.S3.Endpoint,
			Region:    cfg.S3.Region,
			AccessKey: cfg.S3.AccessKey,
			SecretKey: cfg.S3.SecretKey,
			Bucket:    cfg.S3.Bucket,
			Key:       cfg.S3Key(),
		})
		if err != nil {
			return nil, fmt.Errorf("s3 publisher: %w", err)
		}
		p := publish.NewS3Publisher(client, cfg.S3.Bucket, cfg.S3Key())
		if err := p.EnsureBucket(ctx); err != nil {
			log.Printf("ERROR: %v", err)
		}
		pubs = append(pubs, p)
	}

	return wallpaper.NewService(renderer, setter, memStore, pubs, wallpaper.Options{
		Satellite:  cfg.Satellite,
		OutputPath: cfg.OutputPath,
		FitWidth:   cfg.FitWidth,
		FitHeight:  cfg.FitHeight,
	}), nil
}
