// Package binance retrieves daily klines from the Binance spot API, over
// REST for history and over websocket for a live follow.
package binance

import (
	"encoding/json"
	"fmt"
	"math"
	"strconv"
	"time"

	"github.com/TheNeuroneLab/CryptoBot/internal/domain"
)

// Interval1d is the only kline interval the engine consumes.
const Interval1d = "1d"

// kline is one element of the array-form kline payload:
// [ openTime, open, high, low, close, volume, closeTime, quoteVolume,
//   trades, takerBuyBase, takerBuyQuote, ignore ]
type kline struct {
	OpenTime      int64
	Open          float64
	High          float64
	Low           float64
	Close         float64
	Volume        float64
	QuoteVolume   float64
	TakerBuyQuote float64
}

// UnmarshalJSON decodes the positional kline array. Numeric fields arrive as
// strings; unparsable or absent ones become NaN rather than failing the bar.
func (k *kline) UnmarshalJSON(data []byte) error {
	var raw []json.RawMessage
	if err := json.Unmarshal(data, &raw); err != nil {
		return fmt.Errorf("decode kline array: %w", err)
	}
	if len(raw) < 7 {
		return fmt.Errorf("kline array too short: %d elements", len(raw))
	}

	if err := json.Unmarshal(raw[0], &k.OpenTime); err != nil {
		return fmt.Errorf("decode kline open time: %w", err)
	}
	k.Open = floatField(raw[1])
	k.High = floatField(raw[2])
	k.Low = floatField(raw[3])
	k.Close = floatField(raw[4])
	k.Volume = floatField(raw[5])

	k.QuoteVolume = math.NaN()
	if len(raw) > 7 {
		k.QuoteVolume = floatField(raw[7])
	}
	k.TakerBuyQuote = math.NaN()
	if len(raw) > 10 {
		k.TakerBuyQuote = floatField(raw[10])
	}
	return nil
}

// floatField parses a quoted decimal; NaN when missing or malformed.
func floatField(raw json.RawMessage) float64 {
	var s string
	if err := json.Unmarshal(raw, &s); err != nil {
		return math.NaN()
	}
	return parseDecimal(s)
}

// parseDecimal parses a decimal string; NaN when empty or malformed.
func parseDecimal(s string) float64 {
	v, err := strconv.ParseFloat(s, 64)
	if err != nil {
		return math.NaN()
	}
	return v
}

// bar converts a kline into the domain bar for a symbol.
func (k *kline) bar(symbol string) domain.Bar {
	return domain.Bar{
		Symbol:        symbol,
		Timestamp:     time.UnixMilli(k.OpenTime).UTC(),
		Open:          k.Open,
		High:          k.High,
		Low:           k.Low,
		Close:         k.Close,
		Volume:        k.Volume,
		QuoteVolume:   k.QuoteVolume,
		TakerBuyQuote: k.TakerBuyQuote,
	}
}
