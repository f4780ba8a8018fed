// Command analyze loads stored daily bars, evaluates all four metric groups
// and writes the CSV files and markdown report per asset. Computed rows are
// persisted to ClickHouse when a DSN is configured.
package main

import (
	"context"
	"flag"
	"fmt"
	"math"
	"os"
	"time"

	"github.com/rs/zerolog"

	"github.com/TheNeuroneLab/CryptoBot/internal/config"
	"github.com/TheNeuroneLab/CryptoBot/internal/domain"
	"github.com/TheNeuroneLab/CryptoBot/internal/metrics"
	"github.com/TheNeuroneLab/CryptoBot/internal/reporting"
	"github.com/TheNeuroneLab/CryptoBot/internal/series"
	"github.com/TheNeuroneLab/CryptoBot/internal/storage"
	chstore "github.com/TheNeuroneLab/CryptoBot/internal/storage/clickhouse"
	"github.com/TheNeuroneLab/CryptoBot/internal/storage/memory"
	"github.com/TheNeuroneLab/CryptoBot/internal/storage/migrations"
	pgstore "github.com/TheNeuroneLab/CryptoBot/internal/storage/postgres"
)

func main() {
	configPath := flag.String("config", "config.yaml", "Path to the YAML configuration file")
	useFixtures := flag.Bool("use-fixtures", false, "Analyze synthetic in-memory bars instead of stored data")
	flag.Parse()

	log := zerolog.New(zerolog.ConsoleWriter{Out: os.Stderr, TimeFormat: time.RFC3339}).
		With().Timestamp().Logger()

	ctx := context.Background()

	cfg, err := config.Load(*configPath)
	if err != nil {
		log.Fatal().Err(err).Msg("load config")
	}

	barStore, cleanup, err := openBarStore(ctx, cfg, *useFixtures)
	if err != nil {
		log.Fatal().Err(err).Msg("open bar store")
	}
	defer cleanup()

	var resultStore storage.MetricResultStore
	if cfg.Storage.ClickhouseDSN != "" && !*useFixtures {
		conn, err := migrations.RunClickhouseMigrations(ctx, cfg.Storage.ClickhouseDSN)
		if err != nil {
			log.Fatal().Err(err).Msg("apply clickhouse migrations")
		}
		defer conn.Close()
		resultStore = chstore.NewResultStore(conn)
	}

	start, end := cfg.Window(time.Now())
	generator := reporting.NewGenerator(cfg.Output.Dir)

	// Per-asset series feed both the single-asset groups and the peer set.
	var peerSet domain.PeerSet
	bySymbol := make(map[string]*series.Series)
	for _, asset := range cfg.Assets {
		bars, err := barStore.GetByTimeRange(ctx, asset.Symbol, start, end)
		if err != nil {
			log.Fatal().Err(err).Str("symbol", asset.Symbol).Msg("load bars")
		}
		peerSet.Assets = append(peerSet.Assets, domain.PeerAsset{
			Symbol: asset.Symbol,
			Bars:   bars,
			Params: cfg.ParametersFor(asset),
		})

		s, err := series.New(asset.Symbol, bars)
		if err != nil {
			log.Warn().Err(err).Str("symbol", asset.Symbol).Msg("series rejected, asset skipped")
			continue
		}
		bySymbol[asset.Symbol] = s
	}

	peer := metrics.NewAggregator(domain.StaticParameters{}).Peer(peerSet)
	for _, failure := range peer.Failures {
		log.Warn().Err(failure.Err).Str("symbol", failure.Symbol).Msg("peer analysis skipped asset")
	}

	for _, asset := range cfg.Assets {
		s, ok := bySymbol[asset.Symbol]
		if !ok {
			continue
		}
		agg := metrics.NewAggregator(cfg.ParametersFor(asset))

		report := &reporting.Report{
			Symbol:       asset.Symbol,
			Fundamental:  agg.Fundamental(s),
			Technical:    agg.Technical(s),
			Quantitative: agg.Quantitative(s),
			Peer:         peer,
		}
		if err := generator.Write(report); err != nil {
			log.Fatal().Err(err).Str("symbol", asset.Symbol).Msg("write report")
		}
		log.Info().Str("symbol", asset.Symbol).Str("dir", cfg.Output.Dir).Msg("report written")

		if resultStore != nil {
			if err := persistRows(ctx, resultStore, report); err != nil {
				log.Fatal().Err(err).Str("symbol", asset.Symbol).Msg("persist metric rows")
			}
		}
	}

	if resultStore != nil {
		for _, symbol := range peer.Symbols {
			if err := resultStore.InsertRows(ctx, peer.Results[symbol].Rows()); err != nil {
				log.Fatal().Err(err).Str("symbol", symbol).Msg("persist peer rows")
			}
		}
	}
}

// openBarStore connects to Postgres, or loads deterministic demo bars into a
// memory store when fixtures are requested.
func openBarStore(ctx context.Context, cfg *config.Config, useFixtures bool) (storage.BarStore, func(), error) {
	if useFixtures {
		store := memory.NewBarStore()
		start, _ := cfg.Window(time.Now())
		for _, asset := range cfg.Assets {
			if err := store.InsertBulk(ctx, fixtureBars(asset.Symbol, start, 250)); err != nil {
				return nil, nil, err
			}
		}
		return store, func() {}, nil
	}

	if cfg.Storage.PostgresDSN == "" {
		return nil, nil, fmt.Errorf("storage.postgres_dsn is required without --use-fixtures")
	}
	pool, err := pgstore.NewPool(ctx, cfg.Storage.PostgresDSN)
	if err != nil {
		return nil, nil, err
	}
	return pgstore.NewBarStore(pool), pool.Close, nil
}

// persistRows flattens the single-asset groups into the result store.
func persistRows(ctx context.Context, store storage.MetricResultStore, report *reporting.Report) error {
	for _, group := range []*domain.GroupResult{
		report.Fundamental,
		&report.Technical.GroupResult,
		report.Quantitative,
	} {
		if err := store.InsertRows(ctx, group.Rows()); err != nil {
			return err
		}
	}
	return nil
}

// fixtureBars builds a deterministic oscillating daily series for demo runs.
func fixtureBars(symbol string, start time.Time, n int) []domain.Bar {
	bars := make([]domain.Bar, n)
	for i := range bars {
		price := 100 + 10*math.Sin(float64(i)/9)
		volume := 5000 + 500*math.Cos(float64(i)/7)
		bars[i] = domain.Bar{
			Symbol:        symbol,
			Timestamp:     start.AddDate(0, 0, i),
			Open:          price,
			High:          price * 1.01,
			Low:           price * 0.99,
			Close:         price,
			Volume:        volume,
			QuoteVolume:   price * volume,
			TakerBuyQuote: price * volume * 0.55,
		}
	}
	return bars
}
