package storage

import (
	"context"
	"time"

	"github.com/TheNeuroneLab/CryptoBot/internal/domain"
)

// BarStore provides access to daily OHLCV bar storage.
type BarStore interface {
	// Insert adds a single bar. Returns ErrDuplicateKey if (symbol, timestamp) exists.
	Insert(ctx context.Context, bar domain.Bar) error

	// InsertBulk adds multiple bars atomically. Fails entire batch on any duplicate.
	InsertBulk(ctx context.Context, bars []domain.Bar) error

	// GetBySymbol retrieves all bars for a symbol, ordered by timestamp ASC.
	GetBySymbol(ctx context.Context, symbol string) ([]domain.Bar, error)

	// GetByTimeRange retrieves bars for a symbol within [start, end] (inclusive),
	// ordered by timestamp ASC.
	GetByTimeRange(ctx context.Context, symbol string, start, end time.Time) ([]domain.Bar, error)

	// LatestTimestamp returns the newest bar timestamp for a symbol.
	// Returns ErrNotFound when no bars exist, so ingestion can resume.
	LatestTimestamp(ctx context.Context, symbol string) (time.Time, error)
}

// MetricResultStore provides access to computed metric row storage.
type MetricResultStore interface {
	// InsertRows appends flattened metric rows for one run.
	InsertRows(ctx context.Context, rows []domain.MetricRow) error

	// GetBySymbolGroup retrieves rows for a symbol and group, catalogue
	// order preserved within one as-of timestamp.
	GetBySymbolGroup(ctx context.Context, symbol string, group domain.AnalysisGroup) ([]domain.MetricRow, error)
}
