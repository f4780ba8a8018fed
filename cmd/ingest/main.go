// Command ingest backfills daily Binance klines into the Postgres bar store
// and can optionally keep following the live kline stream.
package main

import (
	"context"
	"errors"
	"flag"
	"math"
	"os"
	"os/signal"
	"path/filepath"
	"strconv"
	"strings"
	"sync"
	"syscall"
	"time"

	"github.com/rs/zerolog"

	"github.com/TheNeuroneLab/CryptoBot/internal/binance"
	"github.com/TheNeuroneLab/CryptoBot/internal/config"
	"github.com/TheNeuroneLab/CryptoBot/internal/domain"
	"github.com/TheNeuroneLab/CryptoBot/internal/storage"
	"github.com/TheNeuroneLab/CryptoBot/internal/storage/migrations"
	pgstore "github.com/TheNeuroneLab/CryptoBot/internal/storage/postgres"
)

func main() {
	configPath := flag.String("config", "config.yaml", "Path to the YAML configuration file")
	follow := flag.Bool("follow", false, "Keep following the live kline stream after the backfill")
	csvDir := flag.String("csv-dir", "", "Write fetched bars to <symbol>_bars.csv in this directory instead of Postgres")
	flag.Parse()

	log := zerolog.New(zerolog.ConsoleWriter{Out: os.Stderr, TimeFormat: time.RFC3339}).
		With().Timestamp().Logger()

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	cfg, err := config.Load(*configPath)
	if err != nil {
		log.Fatal().Err(err).Msg("load config")
	}
	if *csvDir != "" {
		client := binance.NewClient(binance.WithBaseURL(cfg.Binance.BaseURL))
		start, end := cfg.Window(time.Now())
		for _, asset := range cfg.Assets {
			if err := dumpCSV(ctx, log, client, asset.Symbol, start, end, *csvDir); err != nil {
				log.Fatal().Err(err).Str("symbol", asset.Symbol).Msg("dump bars csv")
			}
		}
		return
	}

	if cfg.Storage.PostgresDSN == "" {
		log.Fatal().Msg("storage.postgres_dsn is required for ingestion")
	}

	pool, err := pgstore.NewPool(ctx, cfg.Storage.PostgresDSN)
	if err != nil {
		log.Fatal().Err(err).Msg("connect postgres")
	}
	defer pool.Close()

	if err := migrations.RunPostgresMigrations(ctx, pool); err != nil {
		log.Fatal().Err(err).Msg("apply postgres migrations")
	}

	store := pgstore.NewBarStore(pool)
	client := binance.NewClient(binance.WithBaseURL(cfg.Binance.BaseURL))
	start, end := cfg.Window(time.Now())

	for _, asset := range cfg.Assets {
		if err := backfill(ctx, log, client, store, asset.Symbol, start, end); err != nil {
			log.Fatal().Err(err).Str("symbol", asset.Symbol).Msg("backfill")
		}
	}

	if !*follow {
		return
	}

	streamCfg := binance.DefaultStreamConfig()
	streamCfg.URL = cfg.Binance.StreamURL

	var wg sync.WaitGroup
	for _, asset := range cfg.Assets {
		wg.Add(1)
		go func(symbol string) {
			defer wg.Done()
			followStream(ctx, log, store, symbol, &streamCfg)
		}(asset.Symbol)
	}
	wg.Wait()
}

// backfill fetches the missing daily bars for one symbol and stores them.
// Ingestion resumes after the newest stored bar, so re-runs are incremental.
func backfill(ctx context.Context, log zerolog.Logger, client *binance.Client, store storage.BarStore, symbol string, start, end time.Time) error {
	latest, err := store.LatestTimestamp(ctx, symbol)
	switch {
	case err == nil:
		if resume := latest.AddDate(0, 0, 1); resume.After(start) {
			start = resume
		}
	case errors.Is(err, storage.ErrNotFound):
		// Empty store, full backfill.
	default:
		return err
	}
	if start.After(end) {
		log.Info().Str("symbol", symbol).Msg("already up to date")
		return nil
	}

	bars, err := client.DailyBars(ctx, symbol, start, end)
	if err != nil {
		return err
	}
	bars = dropOpenCandle(bars, time.Now().UTC())
	if len(bars) == 0 {
		log.Info().Str("symbol", symbol).Msg("no closed bars in range")
		return nil
	}

	if err := store.InsertBulk(ctx, bars); err != nil {
		return err
	}
	log.Info().
		Str("symbol", symbol).
		Int("bars", len(bars)).
		Time("from", bars[0].Timestamp).
		Time("to", bars[len(bars)-1].Timestamp).
		Msg("backfill complete")
	return nil
}

// dropOpenCandle removes the trailing in-progress daily candle. Binance
// returns the current day's kline before it closes; storing it would freeze
// a partial bar.
func dropOpenCandle(bars []domain.Bar, now time.Time) []domain.Bar {
	for len(bars) > 0 {
		last := bars[len(bars)-1]
		if !last.Timestamp.AddDate(0, 0, 1).After(now) {
			break
		}
		bars = bars[:len(bars)-1]
	}
	return bars
}

// dumpCSV fetches the range and writes it as <symbol>_bars.csv, NaN fields
// left empty.
func dumpCSV(ctx context.Context, log zerolog.Logger, client *binance.Client, symbol string, start, end time.Time, dir string) error {
	bars, err := client.DailyBars(ctx, symbol, start, end)
	if err != nil {
		return err
	}
	bars = dropOpenCandle(bars, time.Now().UTC())

	if err := os.MkdirAll(dir, 0o755); err != nil {
		return err
	}
	var sb strings.Builder
	sb.WriteString("Timestamp,Open,High,Low,Close,Volume,QuoteVolume,TakerBuyQuote\n")
	for _, b := range bars {
		sb.WriteString(b.Timestamp.UTC().Format(time.RFC3339))
		for _, v := range []float64{b.Open, b.High, b.Low, b.Close, b.Volume, b.QuoteVolume, b.TakerBuyQuote} {
			sb.WriteByte(',')
			if !math.IsNaN(v) {
				sb.WriteString(strconv.FormatFloat(v, 'g', -1, 64))
			}
		}
		sb.WriteByte('\n')
	}

	path := filepath.Join(dir, strings.ToLower(symbol)+"_bars.csv")
	if err := os.WriteFile(path, []byte(sb.String()), 0o644); err != nil {
		return err
	}
	log.Info().Str("symbol", symbol).Int("bars", len(bars)).Str("path", path).Msg("bars written")
	return nil
}

// followStream inserts closed candles from the websocket stream until the
// context is cancelled. Duplicates are skipped, not fatal: the backfill may
// already hold the first streamed candle.
func followStream(ctx context.Context, log zerolog.Logger, store storage.BarStore, symbol string, streamCfg *binance.StreamConfig) {
	bars, err := binance.StreamDailyBars(ctx, symbol, streamCfg)
	if err != nil {
		log.Error().Err(err).Str("symbol", symbol).Msg("open kline stream")
		return
	}
	log.Info().Str("symbol", symbol).Msg("following live klines")

	for bar := range bars {
		err := store.Insert(ctx, bar)
		switch {
		case err == nil:
			log.Info().Str("symbol", symbol).Time("ts", bar.Timestamp).Msg("stored streamed bar")
		case errors.Is(err, storage.ErrDuplicateKey):
			log.Debug().Str("symbol", symbol).Time("ts", bar.Timestamp).Msg("streamed bar already stored")
		default:
			log.Error().Err(err).Str("symbol", symbol).Msg("store streamed bar")
			return
		}
	}
	log.Info().Str("symbol", symbol).Msg("kline stream closed")
}
