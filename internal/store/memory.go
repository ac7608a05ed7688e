package store

import (
	"fmt"
	"sync"
	"time"

	"github.com/i474232898/live-wallpaper/internal/wallpaper"
)

var (
	// ErrNotFound is returned when no run matches a query. It wraps
	// wallpaper.ErrNoHistory so callers can match either.
	ErrNotFound = fmt.Errorf("%w for satellite", wallpaper.ErrNoHistory)
)

// RunHistory is the run log of one satellite, oldest first. Failed runs are
// kept alongside successful ones so the status API can show why the wallpaper
// went stale.
type RunHistory struct {
	Runs []wallpaper.RunRecord
}

// MemoryStore keeps run metadata in memory. No imagery is stored: a record
// only points at the output file, which the next successful run replaces.
type MemoryStore struct {
	mu sync.RWMutex

	data map[string]*RunHistory // by satellite

	maxHistory int           // runs kept per satellite, <= 0 for unlimited
	maxAge     time.Duration // runs older than this are dropped, <= 0 to keep all

	now func() time.Time
}

var _ wallpaper.Store = (*MemoryStore)(nil)

// NewMemoryStore creates a MemoryStore. At the default 15-minute schedule,
// maxHistory 96 and maxAge 24h describe the same day of runs.
func NewMemoryStore(maxHistory int, maxAge time.Duration) *MemoryStore {
	return &MemoryStore{
		data:       make(map[string]*RunHistory),
		maxHistory: maxHistory,
		maxAge:     maxAge,
		now:        time.Now,
	}
}

// Save appends rec to its satellite's log and trims the log. Records are
// expected in StartedAt order, which holds because runs never overlap.
func (s *MemoryStore) Save(rec wallpaper.RunRecord) {
	s.mu.Lock()
	defer s.mu.Unlock()

	history, ok := s.data[rec.Satellite]
	if !ok {
		history = &RunHistory{}
		s.data[rec.Satellite] = history
	}

	history.Runs = append(history.Runs, rec)

	// Count limit first, then age.
	if s.maxHistory > 0 && len(history.Runs) > s.maxHistory {
		over := len(history.Runs) - s.maxHistory
		history.Runs = append([]wallpaper.RunRecord(nil), history.Runs[over:]...)
	}

	// The newest record survives even when it is older than maxAge, so a
	// long outage still reports its last attempt.
	if s.maxAge > 0 {
		cutoff := s.now().Add(-s.maxAge)
		i := 0
		for ; i < len(history.Runs)-1; i++ {
			if !history.Runs[i].StartedAt.Before(cutoff) {
				break
			}
		}
		if i > 0 {
			history.Runs = history.Runs[i:]
		}
	}
}

// GetLatest returns the last run recorded for satellite, failed or not.
func (s *MemoryStore) GetLatest(satellite string) (wallpaper.RunRecord, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	history, ok := s.data[satellite]
	if !ok || len(history.Runs) == 0 {
		return wallpaper.RunRecord{}, ErrNotFound
	}
	return history.Runs[len(history.Runs)-1], nil
}

// GetRange returns the runs for satellite whose StartedAt falls in [from, to],
// oldest first. An empty result is ErrNotFound.
func (s *MemoryStore) GetRange(satellite string, from, to time.Time) ([]wallpaper.RunRecord, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	history, ok := s.data[satellite]
	if !ok || len(history.Runs) == 0 {
		return nil, ErrNotFound
	}

	var result []wallpaper.RunRecord
	for _, run := range history.Runs {
		if !run.StartedAt.Before(from) && !run.StartedAt.After(to) {
			result = append(result, run)
		}
	}

	if len(result) == 0 {
		return nil, ErrNotFound
	}

	return result, nil
}
