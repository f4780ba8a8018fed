package postgres

import (
	"context"
	"fmt"
	"time"

	"github.com/jackc/pgx/v5"

	"github.com/TheNeuroneLab/CryptoBot/internal/domain"
	"github.com/TheNeuroneLab/CryptoBot/internal/storage"
)

// BarStore implements storage.BarStore using PostgreSQL. Missing OHLCV
// fields are stored as SQL NULL and come back as NaN.
type BarStore struct {
	pool *Pool
}

// NewBarStore creates a new BarStore.
func NewBarStore(pool *Pool) *BarStore {
	return &BarStore{pool: pool}
}

// Compile-time interface check.
var _ storage.BarStore = (*BarStore)(nil)

const insertBarQuery = `
	INSERT INTO bars (
		symbol, ts, open, high, low, close, volume, quote_volume, taker_buy_quote
	) VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9)
`

const selectBarColumns = `
	symbol, ts, open, high, low, close, volume, quote_volume, taker_buy_quote
`

// Insert adds a single bar. Returns ErrDuplicateKey if (symbol, ts) exists.
func (s *BarStore) Insert(ctx context.Context, bar domain.Bar) error {
	if bar.Symbol == "" || bar.Timestamp.IsZero() {
		return storage.ErrInvalidInput
	}

	_, err := s.pool.Exec(ctx, insertBarQuery, insertArgs(bar)...)
	if err != nil {
		if violatesUniqueKey(err) {
			return storage.ErrDuplicateKey
		}
		return fmt.Errorf("insert bar: %w", err)
	}
	return nil
}

// InsertBulk adds multiple bars atomically. Fails entire batch on any duplicate.
func (s *BarStore) InsertBulk(ctx context.Context, bars []domain.Bar) error {
	if len(bars) == 0 {
		return nil
	}
	for _, b := range bars {
		if b.Symbol == "" || b.Timestamp.IsZero() {
			return storage.ErrInvalidInput
		}
	}

	tx, err := s.pool.Begin(ctx)
	if err != nil {
		return fmt.Errorf("begin tx: %w", err)
	}
	defer tx.Rollback(ctx)

	for _, b := range bars {
		if _, err := tx.Exec(ctx, insertBarQuery, insertArgs(b)...); err != nil {
			if violatesUniqueKey(err) {
				return storage.ErrDuplicateKey
			}
			return fmt.Errorf("insert bar in bulk: %w", err)
		}
	}

	if err := tx.Commit(ctx); err != nil {
		return fmt.Errorf("commit tx: %w", err)
	}
	return nil
}

// GetBySymbol retrieves all bars for a symbol, ordered by timestamp ASC.
func (s *BarStore) GetBySymbol(ctx context.Context, symbol string) ([]domain.Bar, error) {
	query := `SELECT ` + selectBarColumns + `
		FROM bars
		WHERE symbol = $1
		ORDER BY ts ASC
	`

	rows, err := s.pool.Query(ctx, query, symbol)
	if err != nil {
		return nil, fmt.Errorf("get bars by symbol: %w", err)
	}
	defer rows.Close()

	return scanBars(rows)
}

// GetByTimeRange retrieves bars for a symbol within [start, end] (inclusive).
func (s *BarStore) GetByTimeRange(ctx context.Context, symbol string, start, end time.Time) ([]domain.Bar, error) {
	query := `SELECT ` + selectBarColumns + `
		FROM bars
		WHERE symbol = $1 AND ts >= $2 AND ts <= $3
		ORDER BY ts ASC
	`

	rows, err := s.pool.Query(ctx, query, symbol, start, end)
	if err != nil {
		return nil, fmt.Errorf("get bars by time range: %w", err)
	}
	defer rows.Close()

	return scanBars(rows)
}

// LatestTimestamp returns the newest bar timestamp for a symbol.
func (s *BarStore) LatestTimestamp(ctx context.Context, symbol string) (time.Time, error) {
	var ts time.Time
	err := s.pool.QueryRow(ctx,
		`SELECT ts FROM bars WHERE symbol = $1 ORDER BY ts DESC LIMIT 1`, symbol,
	).Scan(&ts)
	if err != nil {
		if noRows(err) {
			return time.Time{}, storage.ErrNotFound
		}
		return time.Time{}, fmt.Errorf("latest bar timestamp: %w", err)
	}
	return ts, nil
}

// insertArgs maps a bar to insert parameters, NaN fields becoming NULL.
func insertArgs(b domain.Bar) []any {
	return []any{
		b.Symbol,
		b.Timestamp.UTC(),
		nullable(b.Open),
		nullable(b.High),
		nullable(b.Low),
		nullable(b.Close),
		nullable(b.Volume),
		nullable(b.QuoteVolume),
		nullable(b.TakerBuyQuote),
	}
}

// scanBars scans multiple rows into a slice of Bar.
func scanBars(rows pgx.Rows) ([]domain.Bar, error) {
	var bars []domain.Bar

	for rows.Next() {
		var (
			bar                                                 domain.Bar
			open, high, low, cls, volume, quoteVol, takerBuyVol *float64
		)

		err := rows.Scan(
			&bar.Symbol,
			&bar.Timestamp,
			&open,
			&high,
			&low,
			&cls,
			&volume,
			&quoteVol,
			&takerBuyVol,
		)
		if err != nil {
			return nil, fmt.Errorf("scan bar row: %w", err)
		}

		bar.Open = fromNullable(open)
		bar.High = fromNullable(high)
		bar.Low = fromNullable(low)
		bar.Close = fromNullable(cls)
		bar.Volume = fromNullable(volume)
		bar.QuoteVolume = fromNullable(quoteVol)
		bar.TakerBuyQuote = fromNullable(takerBuyVol)

		bars = append(bars, bar)
	}

	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("iterate bar rows: %w", err)
	}

	return bars, nil
}
