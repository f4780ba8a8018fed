package memory

import (
	"context"
	"math"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/TheNeuroneLab/CryptoBot/internal/domain"
	"github.com/TheNeuroneLab/CryptoBot/internal/storage"
)

func TestResultStore_RoundTrip(t *testing.T) {
	ctx := context.Background()
	store := NewResultStore()
	asof := time.Date(2024, 6, 1, 0, 0, 0, 0, time.UTC)

	rows := []domain.MetricRow{
		{Symbol: "AAVEUSDT", Group: domain.GroupFundamental, Metric: "NVT Ratio", Value: 16000, Status: domain.StatusOK, AsOf: asof},
		{Symbol: "AAVEUSDT", Group: domain.GroupFundamental, Metric: "Mayer Multiple", Value: math.NaN(), Status: domain.StatusInsufficientHistory, AsOf: asof},
		{Symbol: "AAVEUSDT", Group: domain.GroupQuantitative, Metric: "Sharpe Ratio", Value: 1.2, Status: domain.StatusOK, AsOf: asof},
	}
	require.NoError(t, store.InsertRows(ctx, rows))

	got, err := store.GetBySymbolGroup(ctx, "AAVEUSDT", domain.GroupFundamental)
	require.NoError(t, err)
	require.Len(t, got, 2)
	// Insertion order preserved: catalogue order within a run.
	assert.Equal(t, "NVT Ratio", got[0].Metric)
	assert.Equal(t, "Mayer Multiple", got[1].Metric)
	assert.True(t, math.IsNaN(got[1].Value))
	assert.Equal(t, domain.StatusInsufficientHistory, got[1].Status)
}

func TestResultStore_InvalidInput(t *testing.T) {
	ctx := context.Background()
	store := NewResultStore()

	err := store.InsertRows(ctx, []domain.MetricRow{{Symbol: "AAVEUSDT"}})
	assert.ErrorIs(t, err, storage.ErrInvalidInput)
}
