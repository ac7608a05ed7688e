package wallpaper

import (
	"context"
	"errors"
	"time"

	"github.com/i474232898/live-wallpaper/internal/imagery"
)

// RunRecord describes one wallpaper update cycle.
type RunRecord struct {
	ID         string    `json:"id"`
	Satellite  string    `json:"satellite"`
	ImageTime  time.Time `json:"imageTime,omitempty"` // capture time of the composite, UTC
	StartedAt  time.Time `json:"startedAt"`
	FinishedAt time.Time `json:"finishedAt"`
	OutputPath string    `json:"outputPath,omitempty"`
	Width      int       `json:"width,omitempty"`
	Height     int       `json:"height,omitempty"`
	Error      string    `json:"error,omitempty"`

	// Published lists the destinations the composite was mirrored to.
	Published []string `json:"published,omitempty"`
}

// Succeeded reports whether the cycle wrote the output file.
func (r RunRecord) Succeeded() bool {
	return r.Error == ""
}

// Renderer produces composites from the remote imagery.
type Renderer interface {
	RenderLatest(ctx context.Context, satellite string) (imagery.Composite, error)
	ListDates(ctx context.Context, satellite string) ([]time.Time, error)
}

// ErrNoHistory is returned by a Store that has no runs to report.
var ErrNoHistory = errors.New("no wallpaper run history")

// Store is the contract the in-memory store (and any future persistent store) must satisfy.
type Store interface {
	Save(rec RunRecord)
	GetLatest(satellite string) (RunRecord, error)
	GetRange(satellite string, from, to time.Time) ([]RunRecord, error)
}

// nopStore keeps nothing.
type nopStore struct{}

func (nopStore) Save(RunRecord) {}

func (nopStore) GetLatest(string) (RunRecord, error) { return RunRecord{}, ErrNoHistory }

func (nopStore) GetRange(string, time.Time, time.Time) ([]RunRecord, error) {
	return nil, ErrNoHistory
}

// Publisher mirrors a written composite somewhere else.
type Publisher interface {
	Name() string
	Publish(ctx context.Context, rec RunRecord) error
}
