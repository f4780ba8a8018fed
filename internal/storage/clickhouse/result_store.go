package clickhouse

import (
	"context"
	"fmt"
	"time"

	"github.com/TheNeuroneLab/CryptoBot/internal/domain"
	"github.com/TheNeuroneLab/CryptoBot/internal/storage"
)

// ResultStore implements storage.MetricResultStore using ClickHouse. Rows
// carry a per-batch sequence number so catalogue order survives MergeTree
// reordering.
type ResultStore struct {
	conn *Conn
}

// NewResultStore creates a new ResultStore.
func NewResultStore(conn *Conn) *ResultStore {
	return &ResultStore{conn: conn}
}

// Compile-time interface check.
var _ storage.MetricResultStore = (*ResultStore)(nil)

// InsertRows appends flattened metric rows for one run.
func (s *ResultStore) InsertRows(ctx context.Context, rows []domain.MetricRow) error {
	if len(rows) == 0 {
		return nil
	}
	for _, r := range rows {
		if r.Symbol == "" || r.Metric == "" {
			return storage.ErrInvalidInput
		}
	}

	batch, err := s.conn.PrepareBatch(ctx, `
		INSERT INTO metric_rows (
			symbol, metric_group, seq, metric, value, status, as_of
		)
	`)
	if err != nil {
		return fmt.Errorf("prepare batch: %w", err)
	}

	for i, r := range rows {
		err = batch.Append(
			r.Symbol,
			string(r.Group),
			uint16(i),
			r.Metric,
			r.Value,
			string(r.Status),
			r.AsOf.UTC(),
		)
		if err != nil {
			return fmt.Errorf("append metric row: %w", err)
		}
	}

	if err := batch.Send(); err != nil {
		return fmt.Errorf("send metric row batch: %w", err)
	}
	return nil
}

// GetBySymbolGroup retrieves rows for a symbol and group, catalogue order
// preserved within one as-of timestamp.
func (s *ResultStore) GetBySymbolGroup(ctx context.Context, symbol string, group domain.AnalysisGroup) ([]domain.MetricRow, error) {
	query := `
		SELECT symbol, metric_group, metric, value, status, as_of
		FROM metric_rows
		WHERE symbol = ? AND metric_group = ?
		ORDER BY as_of ASC, seq ASC
	`

	rows, err := s.conn.Query(ctx, query, symbol, string(group))
	if err != nil {
		return nil, fmt.Errorf("get metric rows: %w", err)
	}
	defer rows.Close()

	var out []domain.MetricRow
	for rows.Next() {
		var (
			r          domain.MetricRow
			grp, state string
			asOf       time.Time
		)
		if err := rows.Scan(&r.Symbol, &grp, &r.Metric, &r.Value, &state, &asOf); err != nil {
			return nil, fmt.Errorf("scan metric row: %w", err)
		}
		r.Group = domain.AnalysisGroup(grp)
		r.Status = domain.Status(state)
		r.AsOf = asOf
		out = append(out, r)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("iterate metric rows: %w", err)
	}
	return out, nil
}
