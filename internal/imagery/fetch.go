package imagery

import (
	"context"
	"fmt"
	"strings"
	"sync"

	"golang.org/x/sync/semaphore"
)

// FetchMode selects how the tiles of a grid are requested.
type FetchMode string

const (
	// FetchSequential keeps at most one request in flight.
	FetchSequential FetchMode = "sequential"
	// FetchConcurrent issues requests without waiting for earlier ones,
	// up to FetchOptions.MaxConcurrency at a time.
	FetchConcurrent FetchMode = "concurrent"
)

// ParseFetchMode maps a config string to a FetchMode.
func ParseFetchMode(s string) (FetchMode, error) {
	switch FetchMode(strings.ToLower(strings.TrimSpace(s))) {
	case FetchSequential:
		return FetchSequential, nil
	case FetchConcurrent, "":
		return FetchConcurrent, nil
	default:
		return "", fmt.Errorf("unknown fetch mode %q (want sequential or concurrent)", s)
	}
}

// FetchOptions configures FetchAll.
type FetchOptions struct {
	Mode FetchMode
	// MaxConcurrency caps in-flight requests in concurrent mode. Zero means no cap
	// beyond the number of URLs.
	MaxConcurrency int
}

func (o FetchOptions) limit(total int) int64 {
	if o.Mode == FetchSequential {
		return 1
	}
	if o.MaxConcurrency <= 0 || o.MaxConcurrency > total {
		return int64(total)
	}
	return int64(o.MaxConcurrency)
}

// TileResult is the outcome of fetching one URL.
type TileResult struct {
	URL  string
	Data []byte
	Err  error
}

// FetchAll downloads every URL and returns one result per URL, at the same index.
// Results are placed by request position, never by completion order.
func FetchAll(ctx context.Context, fetcher TileFetcher, urls []string, opts FetchOptions) []TileResult {
	results := make([]TileResult, len(urls))
	if len(urls) == 0 {
		return results
	}

	sem := semaphore.NewWeighted(opts.limit(len(urls)))
	var wg sync.WaitGroup

	for i, u := range urls {
		results[i].URL = u

		if err := sem.Acquire(ctx, 1); err != nil {
			results[i].Err = err
			continue
		}

		wg.Add(1)
		go func(idx int, tileURL string) {
			defer wg.Done()
			defer sem.Release(1)

			data, err := fetcher.FetchTile(ctx, tileURL)
			results[idx].Data = data
			results[idx].Err = err
		}(i, u)
	}

	wg.Wait()
	return results
}
