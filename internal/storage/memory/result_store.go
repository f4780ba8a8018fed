package memory

import (
	"context"
	"sync"

	"github.com/TheNeuroneLab/CryptoBot/internal/domain"
	"github.com/TheNeuroneLab/CryptoBot/internal/storage"
)

// ResultStore is an in-memory implementation of storage.MetricResultStore.
// Rows are append-only in insertion order, which preserves catalogue order
// within one run.
type ResultStore struct {
	mu   sync.RWMutex
	rows []domain.MetricRow
}

// NewResultStore creates a new in-memory metric result store.
func NewResultStore() *ResultStore {
	return &ResultStore{}
}

// Compile-time interface check.
var _ storage.MetricResultStore = (*ResultStore)(nil)

// InsertRows appends flattened metric rows for one run.
func (s *ResultStore) InsertRows(_ context.Context, rows []domain.MetricRow) error {
	for _, r := range rows {
		if r.Symbol == "" || r.Metric == "" {
			return storage.ErrInvalidInput
		}
	}

	s.mu.Lock()
	defer s.mu.Unlock()
	s.rows = append(s.rows, rows...)
	return nil
}

// GetBySymbolGroup retrieves rows for a symbol and group in insertion order.
func (s *ResultStore) GetBySymbolGroup(_ context.Context, symbol string, group domain.AnalysisGroup) ([]domain.MetricRow, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	var out []domain.MetricRow
	for _, r := range s.rows {
		if r.Symbol == symbol && r.Group == group {
			out = append(out, r)
		}
	}
	return out, nil
}
