package imagery

import (
	"context"
	"time"
)

// DateSource lists the capture times a satellite currently has imagery for.
type DateSource interface {
	ListDates(ctx context.Context, satellite string) ([]time.Time, error)
}

// TileFetcher downloads the raw bytes behind a tile URL.
// A non-success response must be reported as an error wrapping ErrRemoteUnavailable.
type TileFetcher interface {
	FetchTile(ctx context.Context, url string) ([]byte, error)
}

// Source abstracts a remote imagery server (e.g. RAMMB/CIRA SLIDER).
type Source interface {
	DateSource
	TileFetcher
}
