// Package rammb talks to the RAMMB/CIRA slider service, which publishes
// full-disk satellite imagery as 8x8 grids of PNG tiles.
package rammb

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"sort"
	"strconv"
	"time"

	"github.com/i474232898/live-wallpaper/internal/imagery"
	"github.com/sony/gobreaker"
)

// DefaultUserAgent identifies the client to the tile server.
const DefaultUserAgent = "live-wallpaper/1.0 (+https://github.com/i474232898/live-wallpaper)"

// Client implements imagery.Source over HTTP.
type Client struct {
	httpCfg HTTPClientConfig
	urls    imagery.URLBuilder
	circuit *gobreaker.CircuitBreaker
}

// NewClient builds a client. retries is the number of extra attempts made after
// a transport error or 5xx answer; zero disables retrying.
func NewClient(client *http.Client, urls imagery.URLBuilder, retries int) *Client {
	if retries < 0 {
		retries = 0
	}
	return &Client{
		httpCfg: HTTPClientConfig{
			Client: client,
			Backoff: BackoffConfig{
				MaxRetries:      retries,
				InitialInterval: 500 * time.Millisecond,
				MaxInterval:     5 * time.Second,
			},
			UserAgent: DefaultUserAgent,
		},
		urls:    urls,
		circuit: newCircuitBreaker("rammb"),
	}
}

var _ imagery.Source = (*Client)(nil)

type datesPayload struct {
	TimestampsInt *[]int64 `json:"timestamps_int"`
}

// ListDates returns the capture times published for satellite, oldest first.
func (c *Client) ListDates(ctx context.Context, satellite string) ([]time.Time, error) {
	u := c.urls.DatesURL(satellite)

	body, err := doRequest(ctx, c.httpCfg, c.circuit, u)
	if err != nil {
		return nil, fmt.Errorf("%w: %w", imagery.ErrRemoteUnavailable, err)
	}

	var payload datesPayload
	dec := json.NewDecoder(bytes.NewReader(body))
	if err := dec.Decode(&payload); err != nil {
		return nil, fmt.Errorf("%w: decode %s: %v", imagery.ErrMalformedResponse, u, err)
	}
	if payload.TimestampsInt == nil {
		return nil, fmt.Errorf("%w: %s has no timestamps_int field", imagery.ErrMalformedResponse, u)
	}

	dates := make([]time.Time, 0, len(*payload.TimestampsInt))
	for _, raw := range *payload.TimestampsInt {
		ts, err := imagery.ParseTimestamp(strconv.FormatInt(raw, 10))
		if err != nil {
			return nil, fmt.Errorf("%w: %w", imagery.ErrMalformedResponse, err)
		}
		dates = append(dates, ts)
	}

	sort.Slice(dates, func(i, j int) bool { return dates[i].Before(dates[j]) })
	return dates, nil
}

// FetchTile downloads one tile payload. Any non-2xx answer is reported as
// imagery.ErrRemoteUnavailable.
func (c *Client) FetchTile(ctx context.Context, url string) ([]byte, error) {
	body, err := doRequest(ctx, c.httpCfg, c.circuit, url)
	if err != nil {
		return nil, fmt.Errorf("%w: %w", imagery.ErrRemoteUnavailable, err)
	}
	return body, nil
}
