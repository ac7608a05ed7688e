package wallpaper

import (
	"context"
	"fmt"
	"image"
	"log"
	"sync"
	"time"

	"github.com/disintegration/imaging"
	"github.com/google/uuid"
)

// Options configures a Service.
type Options struct {
	Satellite  string
	OutputPath string

	// FitWidth and FitHeight shrink the composite to fit the screen, keeping
	// the aspect ratio. Zero leaves it at native resolution.
	FitWidth  int
	FitHeight int
}

// Service runs wallpaper update cycles and keeps their history.
type Service struct {
	renderer   Renderer
	setter     Setter
	store      Store
	publishers []Publisher
	opts       Options

	// mu serialises cycles started outside the scheduler (API refresh, CLI).
	mu  sync.Mutex
	now func() time.Time
}

// NewService creates a new Service. A nil setter leaves the desktop alone and
// a nil store keeps no history.
func NewService(renderer Renderer, setter Setter, store Store, publishers []Publisher, opts Options) *Service {
	if setter == nil {
		setter = NopSetter{}
	}
	if store == nil {
		store = nopStore{}
	}
	return &Service{
		renderer:   renderer,
		setter:     setter,
		store:      store,
		publishers: publishers,
		opts:       opts,
		now:        func() time.Time { return time.Now().UTC() },
	}
}

// Satellite returns the satellite this service renders.
func (s *Service) Satellite() string {
	return s.opts.Satellite
}

// OutputPath returns the configured output file.
func (s *Service) OutputPath() string {
	return s.opts.OutputPath
}

// Run performs one update cycle: render the latest composite, write it to the
// output path and apply it as the wallpaper. On failure the previous output
// file is left in place. The returned record is also saved to the store.
func (s *Service) Run(ctx context.Context) (RunRecord, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	rec := RunRecord{
		ID:        uuid.NewString(),
		Satellite: s.opts.Satellite,
		StartedAt: s.now(),
	}

	err := s.run(ctx, &rec)
	rec.FinishedAt = s.now()
	if err != nil {
		rec.Error = err.Error()
	}
	s.store.Save(rec)
	if err != nil {
		return rec, err
	}

	log.Printf("wallpaper: %s@%s applied from %s (%dx%d) in %s",
		rec.Satellite, rec.ImageTime.Format(time.RFC3339), rec.OutputPath, rec.Width, rec.Height,
		rec.FinishedAt.Sub(rec.StartedAt).Round(time.Millisecond))
	return rec, nil
}

func (s *Service) run(ctx context.Context, rec *RunRecord) error {
	comp, err := s.renderer.RenderLatest(ctx, s.opts.Satellite)
	if err != nil {
		return fmt.Errorf("render %s: %w", s.opts.Satellite, err)
	}
	rec.ImageTime = comp.Timestamp

	var img image.Image = comp.Image
	if s.opts.FitWidth > 0 && s.opts.FitHeight > 0 {
		img = imaging.Fit(img, s.opts.FitWidth, s.opts.FitHeight, imaging.Lanczos)
	}
	size := img.Bounds().Size()
	rec.Width, rec.Height = size.X, size.Y

	abs, err := WriteImage(s.opts.OutputPath, img)
	if err != nil {
		return err
	}
	rec.OutputPath = abs

	if err := s.setter.SetWallpaper(ctx, abs); err != nil {
		return err
	}

	for _, p := range s.publishers {
		if err := p.Publish(ctx, *rec); err != nil {
			log.Printf("wallpaper: publish to %s failed: %v", p.Name(), err)
			continue
		}
		rec.Published = append(rec.Published, p.Name())
	}
	return nil
}

// ListDates delegates to the renderer.
func (s *Service) ListDates(ctx context.Context, satellite string) ([]time.Time, error) {
	return s.renderer.ListDates(ctx, satellite)
}

// GetLatest delegates to the underlying store.
func (s *Service) GetLatest(satellite string) (RunRecord, error) {
	return s.store.GetLatest(satellite)
}

// GetRange delegates to the underlying store.
func (s *Service) GetRange(satellite string, from, to time.Time) ([]RunRecord, error) {
	return s.store.GetRange(satellite, from, to)
}
