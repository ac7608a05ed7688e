package imagery

import (
	"context"
	"fmt"
	"image"
	"image/color"
	"log"
	"strings"
	"time"

	"github.com/disintegration/imaging"
)

// MissingTilePolicy decides what happens when a grid tile cannot be fetched.
type MissingTilePolicy string

const (
	// MissingFail aborts the stitch with a TileFetchError.
	MissingFail MissingTilePolicy = "fail"
	// MissingPlaceholder puts a blank tile of the grid's tile size at the missing position.
	MissingPlaceholder MissingTilePolicy = "placeholder"
)

// ParseMissingTilePolicy maps a config string to a MissingTilePolicy.
func ParseMissingTilePolicy(s string) (MissingTilePolicy, error) {
	switch MissingTilePolicy(strings.ToLower(strings.TrimSpace(s))) {
	case MissingFail, "":
		return MissingFail, nil
	case MissingPlaceholder:
		return MissingPlaceholder, nil
	default:
		return "", fmt.Errorf("unknown missing tile policy %q (want fail or placeholder)", s)
	}
}

// RenderOptions controls how RenderLatest builds a composite.
type RenderOptions struct {
	Scale   int
	Fetch   FetchOptions
	Missing MissingTilePolicy
	// Borders overlays the white country-border layer on the planet image.
	Borders bool
}

// Renderer turns remote tiles into composite images.
type Renderer struct {
	source Source
	urls   URLBuilder
	opts   RenderOptions
}

// NewRenderer creates a new Renderer.
func NewRenderer(source Source, urls URLBuilder, opts RenderOptions) *Renderer {
	if opts.Missing == "" {
		opts.Missing = MissingFail
	}
	if opts.Fetch.Mode == "" {
		opts.Fetch.Mode = FetchConcurrent
	}
	return &Renderer{
		source: source,
		urls:   urls,
		opts:   opts,
	}
}

// ListDates delegates to the underlying source.
func (r *Renderer) ListDates(ctx context.Context, satellite string) ([]time.Time, error) {
	return r.source.ListDates(ctx, satellite)
}

// RenderLatest stitches the most recent capture published for satellite.
func (r *Renderer) RenderLatest(ctx context.Context, satellite string) (Composite, error) {
	dates, err := r.source.ListDates(ctx, satellite)
	if err != nil {
		return Composite{}, fmt.Errorf("list dates for %s: %w", satellite, err)
	}
	if len(dates) == 0 {
		return Composite{}, fmt.Errorf("%s: %w", satellite, ErrNoDates)
	}

	latest := dates[len(dates)-1]
	return r.Render(ctx, satellite, latest)
}

// Render stitches the capture at a specific time, applying the border overlay when configured.
func (r *Renderer) Render(ctx context.Context, satellite string, at time.Time) (Composite, error) {
	planet, err := r.FetchAndStitch(ctx, KindPlanet, at, r.opts.Scale, satellite)
	if err != nil {
		return Composite{}, err
	}

	if r.opts.Borders {
		borders, err := r.FetchAndStitch(ctx, KindBorder, at, r.opts.Scale, satellite)
		if err != nil {
			return Composite{}, fmt.Errorf("borders: %w", err)
		}
		if borders.Bounds().Size() != planet.Bounds().Size() {
			return Composite{}, &DimensionMismatchError{
				Reason: "border overlay size differs from planet image",
				Want:   planet.Bounds().Size(),
				Got:    borders.Bounds().Size(),
			}
		}
		planet = imaging.Overlay(planet, borders, image.Pt(0, 0), 1.0)
	}

	return Composite{
		Image:     planet,
		Satellite: satellite,
		Timestamp: at.UTC(),
	}, nil
}

// FetchAndStitch downloads the full tile grid of one layer and stitches it.
func (r *Renderer) FetchAndStitch(ctx context.Context, kind TileKind, at time.Time, scale int, satellite string) (*image.NRGBA, error) {
	urls := r.urls.GridURLs(kind, at, scale, satellite)

	started := time.Now()
	results := FetchAll(ctx, r.source, urls, r.opts.Fetch)
	log.Printf("imagery: fetched %d %s tiles for %s@%s in %s (%s)",
		len(results), kind, satellite, FormatTimestamp(at), time.Since(started).Round(time.Millisecond), r.opts.Fetch.Mode)

	grid, err := r.assembleGrid(results)
	if err != nil {
		return nil, err
	}
	return Stitch(grid)
}

// assembleGrid decodes results (row-major) into a GridRows x GridCols grid.
// Errors are reported for the first failing coordinate in row-major order,
// so the outcome does not depend on which request finished first.
func (r *Renderer) assembleGrid(results []TileResult) ([][]image.Image, error) {
	if len(results) != GridRows*GridCols {
		return nil, fmt.Errorf("expected %d tiles, got %d", GridRows*GridCols, len(results))
	}

	grid := make([][]image.Image, GridRows)
	for row := range grid {
		grid[row] = make([]image.Image, GridCols)
	}

	var (
		missing  []Coord
		tileSize image.Point
	)
	for i, res := range results {
		coord := Coord{Row: i / GridCols, Col: i % GridCols}
		if res.Err != nil {
			if r.opts.Missing != MissingPlaceholder {
				return nil, &TileFetchError{Coord: coord, URL: res.URL, Err: res.Err}
			}
			missing = append(missing, coord)
			continue
		}

		img, err := DecodeTile(coord, res.Data)
		if err != nil {
			return nil, err
		}
		if tileSize == (image.Point{}) {
			tileSize = img.Bounds().Size()
		}
		grid[coord.Row][coord.Col] = img
	}

	if len(missing) == 0 {
		return grid, nil
	}
	if tileSize == (image.Point{}) {
		first := missing[0]
		res := results[first.Row*GridCols+first.Col]
		return nil, &TileFetchError{Coord: first, URL: res.URL, Err: res.Err}
	}

	log.Printf("imagery: substituting %d missing tiles with %dx%d placeholders: %v",
		len(missing), tileSize.X, tileSize.Y, missing)
	for _, coord := range missing {
		grid[coord.Row][coord.Col] = imaging.New(tileSize.X, tileSize.Y, color.NRGBA{A: 0xff})
	}
	return grid, nil
}
