package store

import (
	"errors"
	"sync"
	"time"

	"github.com/nievasdev/brazilgas/internal/fuel"
)

var (
	// ErrNotFound is returned when no dataset has been loaded yet.
	ErrNotFound = errors.New("no dataset loaded")
)

// MemoryStore is a concurrency-safe in-memory holder of the current dataset
// and the history of past loads.
type MemoryStore struct {
	mu sync.RWMutex

	current *fuel.Dataset
	history []fuel.LoadSummary

	// retention configuration for history
	maxHistory int           // max number of load summaries kept
	maxAge     time.Duration // optional max age of load summaries
	now        func() time.Time
}

// NewMemoryStore creates a new MemoryStore with optional history limits.
// If maxHistory is <= 0, it is treated as unlimited.
func NewMemoryStore(maxHistory int, maxAge time.Duration) *MemoryStore {
	return &MemoryStore{
		maxHistory: maxHistory,
		maxAge:     maxAge,
		now:        time.Now,
	}
}

// SaveDataset replaces the current dataset and appends to the load history.
func (s *MemoryStore) SaveDataset(ds fuel.Dataset, summary fuel.LoadSummary) {
	s.mu.Lock()
	defer s.mu.Unlock()

	s.current = &ds
	s.history = append(s.history, summary)

	// Enforce retention by count.
	if s.maxHistory > 0 && len(s.history) > s.maxHistory {
		over := len(s.history) - s.maxHistory
		s.history = append([]fuel.LoadSummary(nil), s.history[over:]...)
	}

	// Enforce retention by age. The newest entry always survives.
	if s.maxAge > 0 {
		cutoff := s.now().Add(-s.maxAge)
		i := 0
		for ; i < len(s.history)-1; i++ {
			if !s.history[i].LoadedAt.Before(cutoff) {
				break
			}
		}
		if i > 0 {
			s.history = append([]fuel.LoadSummary(nil), s.history[i:]...)
		}
	}
}

// Latest returns the dataset currently being served.
func (s *MemoryStore) Latest() (fuel.Dataset, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	if s.current == nil {
		return fuel.Dataset{}, ErrNotFound
	}
	return *s.current, nil
}

// History returns past load summaries, oldest first.
func (s *MemoryStore) History() []fuel.LoadSummary {
	s.mu.RLock()
	defer s.mu.RUnlock()

	return append([]fuel.LoadSummary(nil), s.history...)
}
