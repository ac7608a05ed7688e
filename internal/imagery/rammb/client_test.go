package rammb

import (
	"context"
	"errors"
	"net/http"
	"net/http/httptest"
	"sync/atomic"
	"testing"
	"time"

	"github.com/i474232898/live-wallpaper/internal/imagery"
)

func newTestClient(t *testing.T, handler http.HandlerFunc, retries int) *Client {
	t.Helper()
	srv := httptest.NewServer(handler)
	t.Cleanup(srv.Close)

	c := NewClient(srv.Client(), imagery.NewURLBuilder(srv.URL, ""), retries)
	c.httpCfg.Backoff.InitialInterval = time.Millisecond
	return c
}

func TestListDates_SortsAscending(t *testing.T) {
	c := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
		if r.URL.Path != "/data/json/meteosat-11/full_disk/natural_color/latest_times.json" {
			http.NotFound(w, r)
			return
		}
		if ua := r.Header.Get("User-Agent"); ua != DefaultUserAgent {
			t.Errorf("User-Agent = %q, want %q", ua, DefaultUserAgent)
		}
		_, _ = w.Write([]byte(`{"timestamps_int": [20230601120000, 20230101000000]}`))
	}, 0)

	dates, err := c.ListDates(context.Background(), "meteosat-11")
	if err != nil {
		t.Fatalf("ListDates returned error: %v", err)
	}

	want := []time.Time{
		time.Date(2023, time.January, 1, 0, 0, 0, 0, time.UTC),
		time.Date(2023, time.June, 1, 12, 0, 0, 0, time.UTC),
	}
	if len(dates) != len(want) {
		t.Fatalf("got %d dates, want %d", len(dates), len(want))
	}
	for i := range want {
		if !dates[i].Equal(want[i]) {
			t.Errorf("dates[%d] = %v, want %v", i, dates[i], want[i])
		}
	}
}

func TestListDates_EmptyListIsValid(t *testing.T) {
	c := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
		_, _ = w.Write([]byte(`{"timestamps_int": []}`))
	}, 0)

	dates, err := c.ListDates(context.Background(), "meteosat-11")
	if err != nil {
		t.Fatalf("ListDates returned error: %v", err)
	}
	if len(dates) != 0 {
		t.Errorf("got %d dates, want none", len(dates))
	}
}

func TestListDates_Errors(t *testing.T) {
	tests := []struct {
		name    string
		status  int
		body    string
		wantErr error
	}{
		{"server error", http.StatusInternalServerError, `{}`, imagery.ErrRemoteUnavailable},
		{"not found", http.StatusNotFound, `{}`, imagery.ErrRemoteUnavailable},
		{"invalid json", http.StatusOK, `{"timestamps_int": [`, imagery.ErrMalformedResponse},
		{"missing field", http.StatusOK, `{"timestamps": [20230101000000]}`, imagery.ErrMalformedResponse},
		{"wrong shape", http.StatusOK, `{"timestamps_int": "20230101000000"}`, imagery.ErrMalformedResponse},
		{"bad date value", http.StatusOK, `{"timestamps_int": [20231399000000]}`, imagery.ErrMalformedResponse},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			c := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
				w.WriteHeader(tt.status)
				_, _ = w.Write([]byte(tt.body))
			}, 0)

			_, err := c.ListDates(context.Background(), "meteosat-11")
			if !errors.Is(err, tt.wantErr) {
				t.Fatalf("error = %v, want %v", err, tt.wantErr)
			}
		})
	}
}

func TestFetchTile(t *testing.T) {
	c := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
		if r.URL.Path == "/tile.png" {
			_, _ = w.Write([]byte("png-bytes"))
			return
		}
		http.NotFound(w, r)
	}, 0)

	base := c.urls.BaseURL
	data, err := c.FetchTile(context.Background(), base+"/tile.png")
	if err != nil {
		t.Fatalf("FetchTile returned error: %v", err)
	}
	if string(data) != "png-bytes" {
		t.Errorf("FetchTile = %q, want png-bytes", data)
	}

	_, err = c.FetchTile(context.Background(), base+"/missing.png")
	if !errors.Is(err, imagery.ErrRemoteUnavailable) {
		t.Fatalf("missing tile error = %v, want ErrRemoteUnavailable", err)
	}
}

func TestFetchTile_RetriesServerErrorsOnly(t *testing.T) {
	var calls int32
	c := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
		n := atomic.AddInt32(&calls, 1)
		if r.URL.Path == "/gone.png" {
			http.NotFound(w, r)
			return
		}
		if n < 3 {
			w.WriteHeader(http.StatusBadGateway)
			return
		}
		_, _ = w.Write([]byte("ok"))
	}, 2)

	base := c.urls.BaseURL
	if _, err := c.FetchTile(context.Background(), base+"/flaky.png"); err != nil {
		t.Fatalf("FetchTile after retries: %v", err)
	}
	if got := atomic.LoadInt32(&calls); got != 3 {
		t.Errorf("server saw %d calls, want 3", got)
	}

	atomic.StoreInt32(&calls, 0)
	if _, err := c.FetchTile(context.Background(), base+"/gone.png"); err == nil {
		t.Fatal("FetchTile of 404 returned nil error")
	}
	if got := atomic.LoadInt32(&calls); got != 1 {
		t.Errorf("404 was requested %d times, want 1", got)
	}
}

func TestFetchTile_NotFoundDoesNotTripBreaker(t *testing.T) {
	c := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
		http.NotFound(w, r)
	}, 0)

	for i := 0; i < 20; i++ {
		_, _ = c.FetchTile(context.Background(), c.urls.BaseURL+"/missing.png")
	}
	_, err := c.FetchTile(context.Background(), c.urls.BaseURL+"/missing.png")
	if errors.Is(err, errCircuitOpen) {
		t.Fatalf("breaker opened after 404s: %v", err)
	}
}

func TestFetchTile_ServerErrorsTripBreaker(t *testing.T) {
	c := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusServiceUnavailable)
	}, 0)

	var err error
	for i := 0; i < 11; i++ {
		_, err = c.FetchTile(context.Background(), c.urls.BaseURL+"/tile.png")
	}
	if !errors.Is(err, errCircuitOpen) {
		t.Fatalf("error after repeated 503s = %v, want circuit open", err)
	}
	if !errors.Is(err, imagery.ErrRemoteUnavailable) {
		t.Errorf("error %v does not wrap ErrRemoteUnavailable", err)
	}
}
