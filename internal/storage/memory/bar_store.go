// Package memory provides in-memory store implementations used by tests and
// fixture-driven runs.
package memory

import (
	"context"
	"sort"
	"sync"
	"time"

	"github.com/TheNeuroneLab/CryptoBot/internal/domain"
	"github.com/TheNeuroneLab/CryptoBot/internal/storage"
)

// barKey identifies one bar inside a symbol's series.
type barKey struct {
	symbol string
	ts     time.Time
}

// BarStore is an in-memory implementation of storage.BarStore.
type BarStore struct {
	mu   sync.RWMutex
	data map[string][]domain.Bar // keyed by symbol, kept sorted by timestamp
	keys map[barKey]struct{}
}

// NewBarStore creates a new in-memory bar store.
func NewBarStore() *BarStore {
	return &BarStore{
		data: make(map[string][]domain.Bar),
		keys: make(map[barKey]struct{}),
	}
}

// Compile-time interface check.
var _ storage.BarStore = (*BarStore)(nil)

// Insert adds a single bar. Returns ErrDuplicateKey if (symbol, timestamp) exists.
func (s *BarStore) Insert(_ context.Context, bar domain.Bar) error {
	if bar.Symbol == "" || bar.Timestamp.IsZero() {
		return storage.ErrInvalidInput
	}

	s.mu.Lock()
	defer s.mu.Unlock()
	return s.insertLocked(bar)
}

// InsertBulk adds multiple bars atomically. Fails entire batch on any duplicate.
func (s *BarStore) InsertBulk(_ context.Context, bars []domain.Bar) error {
	for _, b := range bars {
		if b.Symbol == "" || b.Timestamp.IsZero() {
			return storage.ErrInvalidInput
		}
	}

	s.mu.Lock()
	defer s.mu.Unlock()

	seen := make(map[barKey]struct{}, len(bars))
	for _, b := range bars {
		k := barKey{symbol: b.Symbol, ts: b.Timestamp.UTC()}
		if _, dup := s.keys[k]; dup {
			return storage.ErrDuplicateKey
		}
		if _, dup := seen[k]; dup {
			return storage.ErrDuplicateKey
		}
		seen[k] = struct{}{}
	}
	for _, b := range bars {
		if err := s.insertLocked(b); err != nil {
			return err
		}
	}
	return nil
}

func (s *BarStore) insertLocked(bar domain.Bar) error {
	k := barKey{symbol: bar.Symbol, ts: bar.Timestamp.UTC()}
	if _, exists := s.keys[k]; exists {
		return storage.ErrDuplicateKey
	}
	s.keys[k] = struct{}{}

	series := append(s.data[bar.Symbol], bar)
	sort.Slice(series, func(i, j int) bool {
		return series[i].Timestamp.Before(series[j].Timestamp)
	})
	s.data[bar.Symbol] = series
	return nil
}

// GetBySymbol retrieves all bars for a symbol, ordered by timestamp ASC.
func (s *BarStore) GetBySymbol(_ context.Context, symbol string) ([]domain.Bar, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	// Return a copy to prevent external mutation
	return append([]domain.Bar(nil), s.data[symbol]...), nil
}

// GetByTimeRange retrieves bars for a symbol within [start, end] (inclusive).
func (s *BarStore) GetByTimeRange(_ context.Context, symbol string, start, end time.Time) ([]domain.Bar, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	var out []domain.Bar
	for _, b := range s.data[symbol] {
		if b.Timestamp.Before(start) || b.Timestamp.After(end) {
			continue
		}
		out = append(out, b)
	}
	return out, nil
}

// LatestTimestamp returns the newest bar timestamp for a symbol.
func (s *BarStore) LatestTimestamp(_ context.Context, symbol string) (time.Time, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	series := s.data[symbol]
	if len(series) == 0 {
		return time.Time{}, storage.ErrNotFound
	}
	return series[len(series)-1].Timestamp, nil
}
