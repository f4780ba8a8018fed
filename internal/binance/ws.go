package binance

import (
	"context"
	"encoding/json"
	"fmt"
	"strings"
	"time"

	"github.com/gorilla/websocket"

	"github.com/TheNeuroneLab/CryptoBot/internal/domain"
)

// DefaultStreamURL is the Binance combined-stream websocket base.
const DefaultStreamURL = "wss://stream.binance.com:9443/ws"

// wsKlineEvent is the kline stream payload envelope.
type wsKlineEvent struct {
	EventType string `json:"e"`
	Symbol    string `json:"s"`
	Kline     struct {
		OpenTime      int64  `json:"t"`
		Open          string `json:"o"`
		High          string `json:"h"`
		Low           string `json:"l"`
		Close         string `json:"c"`
		Volume        string `json:"v"`
		QuoteVolume   string `json:"q"`
		TakerBuyQuote string `json:"Q"`
		Closed        bool   `json:"x"`
	} `json:"k"`
}

// StreamConfig configures the kline stream.
type StreamConfig struct {
	// URL is the websocket endpoint base.
	URL string
	// HandshakeTimeout bounds the dial.
	HandshakeTimeout time.Duration
	// ReadTimeout is the per-message read deadline.
	ReadTimeout time.Duration
}

// DefaultStreamConfig returns default stream configuration.
func DefaultStreamConfig() StreamConfig {
	return StreamConfig{
		URL:              DefaultStreamURL,
		HandshakeTimeout: 10 * time.Second,
		ReadTimeout:      90 * time.Second,
	}
}

// StreamDailyBars subscribes to the <symbol>@kline_1d stream and emits only
// closed candles as bars on the returned channel. The channel closes when
// the context is cancelled or the connection fails.
func StreamDailyBars(ctx context.Context, symbol string, config *StreamConfig) (<-chan domain.Bar, error) {
	cfg := DefaultStreamConfig()
	if config != nil {
		cfg = *config
	}

	endpoint := fmt.Sprintf("%s/%s@kline_%s", cfg.URL, strings.ToLower(symbol), Interval1d)
	dialer := websocket.Dialer{HandshakeTimeout: cfg.HandshakeTimeout}
	conn, _, err := dialer.DialContext(ctx, endpoint, nil)
	if err != nil {
		return nil, fmt.Errorf("websocket dial %s: %w", endpoint, err)
	}

	out := make(chan domain.Bar)
	go func() {
		defer close(out)
		defer conn.Close()

		// Unblock the read loop on cancel.
		go func() {
			<-ctx.Done()
			conn.Close()
		}()

		for {
			if cfg.ReadTimeout > 0 {
				_ = conn.SetReadDeadline(time.Now().Add(cfg.ReadTimeout))
			}
			_, msg, err := conn.ReadMessage()
			if err != nil {
				return
			}

			var event wsKlineEvent
			if err := json.Unmarshal(msg, &event); err != nil {
				continue
			}
			if event.EventType != "kline" || !event.Kline.Closed {
				continue
			}

			bar := domain.Bar{
				Symbol:        event.Symbol,
				Timestamp:     time.UnixMilli(event.Kline.OpenTime).UTC(),
				Open:          parseDecimal(event.Kline.Open),
				High:          parseDecimal(event.Kline.High),
				Low:           parseDecimal(event.Kline.Low),
				Close:         parseDecimal(event.Kline.Close),
				Volume:        parseDecimal(event.Kline.Volume),
				QuoteVolume:   parseDecimal(event.Kline.QuoteVolume),
				TakerBuyQuote: parseDecimal(event.Kline.TakerBuyQuote),
			}

			select {
			case out <- bar:
			case <-ctx.Done():
				return
			}
		}
	}()

	return out, nil
}
