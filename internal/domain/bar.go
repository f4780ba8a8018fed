package domain

import (
	"math"
	"time"
)

// Bar represents one daily OHLCV candle for a symbol.
// Missing fields are NaN, never zero: a zero-volume bar and a bar with no
// volume data are different facts.
type Bar struct {
	Symbol        string
	Timestamp     time.Time // bar open time, UTC
	Open          float64
	High          float64
	Low           float64
	Close         float64
	Volume        float64 // base-asset volume
	QuoteVolume   float64 // volume in the quote currency as reported by the venue
	TakerBuyQuote float64 // taker buy volume in quote currency; NaN when not supplied
}

// HasTakerBuyQuote reports whether the bar carries taker buy data.
func (b Bar) HasTakerBuyQuote() bool {
	return !math.IsNaN(b.TakerBuyQuote)
}
