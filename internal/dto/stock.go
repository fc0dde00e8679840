package dto

import "time"

// PriceBar is one daily OHLCV bar. Date carries calendar-day semantics only;
// bars within a series are strictly ascending and unique by date.
type PriceBar struct {
	Date   time.Time `json:"date"`
	Open   float64   `json:"open"`
	High   float64   `json:"high"`
	Low    float64   `json:"low"`
	Close  float64   `json:"close"`
	Volume float64   `json:"volume"`
}

// Instrument bundles a symbol's price history with the fundamentals the
// quality filters need. MarketCap and PERatio are zero when unavailable.
type Instrument struct {
	Symbol    string     `json:"symbol"`
	Sector    string     `json:"sector,omitempty"`
	MarketCap float64    `json:"market_cap,omitempty"`
	PERatio   float64    `json:"pe_ratio,omitempty"`
	Bars      []PriceBar `json:"bars"`
}

// StockSnapshot is the point-in-time view of one instrument that the signal
// engine evaluates: latest price, derived indicators and fundamentals.
type StockSnapshot struct {
	Symbol         string     `json:"symbol"`
	Price          float64    `json:"price"`
	Change         float64    `json:"change"`
	ChangePercent  float64    `json:"change_percent"`
	Volume         float64    `json:"volume"`
	MA200          float64    `json:"ma200"`
	MA50           float64    `json:"ma50"`
	RSI            float64    `json:"rsi"`
	MarketCap      float64    `json:"market_cap"`
	PERatio        float64    `json:"pe_ratio"`
	Timestamp      time.Time  `json:"timestamp"`
	HistoricalData []PriceBar `json:"historical_data,omitempty"`
}

// AvgVolume returns the 20-day average volume from the snapshot's history, or
// the current volume when fewer than 20 bars are attached.
func (s *StockSnapshot) AvgVolume() float64 {
	const lookback = 20
	if len(s.HistoricalData) < lookback {
		return s.Volume
	}
	var sum float64
	for _, bar := range s.HistoricalData[len(s.HistoricalData)-lookback:] {
		sum += bar.Volume
	}
	return sum / lookback
}
