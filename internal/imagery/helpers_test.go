package imagery

import (
	"bytes"
	"context"
	"fmt"
	"image"
	"image/color"
	"image/png"
	"sync"
	"sync/atomic"
	"testing"
	"time"

	"github.com/disintegration/imaging"
)

// tileColor gives every grid position a distinct colour so misplaced tiles are visible.
func tileColor(row, col int) color.NRGBA {
	return color.NRGBA{R: uint8(row * 30), G: uint8(col * 30), B: uint8(100 + row + col), A: 0xff}
}

func solidTile(w, h int, c color.Color) *image.NRGBA {
	return imaging.New(w, h, c)
}

func encodePNG(t *testing.T, img image.Image) []byte {
	t.Helper()
	var buf bytes.Buffer
	if err := png.Encode(&buf, img); err != nil {
		t.Fatalf("encode png: %v", err)
	}
	return buf.Bytes()
}

// fakeSource serves pre-encoded tiles keyed by URL and records request concurrency.
type fakeSource struct {
	dates []time.Time
	tiles map[string][]byte
	delay time.Duration

	mu       sync.Mutex
	requests []string
	inFlight int32
	peak     int32
}

func newFakeSource(t *testing.T, b URLBuilder, kind TileKind, at time.Time, scale int, satellite string, tileW, tileH int) *fakeSource {
	t.Helper()
	src := &fakeSource{
		dates: []time.Time{at},
		tiles: make(map[string][]byte),
	}
	for row := 0; row < GridRows; row++ {
		for col := 0; col < GridCols; col++ {
			u := b.TileURL(kind, row, col, at, scale, satellite)
			src.tiles[u] = encodePNG(t, solidTile(tileW, tileH, tileColor(row, col)))
		}
	}
	return src
}

func (f *fakeSource) ListDates(ctx context.Context, satellite string) ([]time.Time, error) {
	return f.dates, nil
}

func (f *fakeSource) FetchTile(ctx context.Context, url string) ([]byte, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}
	n := atomic.AddInt32(&f.inFlight, 1)
	defer atomic.AddInt32(&f.inFlight, -1)
	for {
		p := atomic.LoadInt32(&f.peak)
		if n <= p || atomic.CompareAndSwapInt32(&f.peak, p, n) {
			break
		}
	}

	f.mu.Lock()
	f.requests = append(f.requests, url)
	f.mu.Unlock()

	if f.delay > 0 {
		time.Sleep(f.delay)
	}

	data, ok := f.tiles[url]
	if !ok {
		return nil, fmt.Errorf("%w: %s returned status 404", ErrRemoteUnavailable, url)
	}
	return data, nil
}
