package dto

import "time"

// StrategyConfig is an immutable snapshot of the rule thresholds for one
// evaluation or simulation run. The engine takes values as supplied and does
// not validate range sanity; out-of-range values degrade gracefully.
type StrategyConfig struct {
	DipThreshold      float64        `json:"dip_threshold"`
	RSIOversold       float64        `json:"rsi_oversold"`
	RSIOverbought     float64        `json:"rsi_overbought"`
	TrendFilterPeriod int            `json:"trend_filter_period"`
	TargetGainPercent float64        `json:"target_gain_percent"`
	StopLossPercent   float64        `json:"stop_loss_percent"`
	MaxHoldingDays    int            `json:"max_holding_days"`
	QualityFilters    QualityFilters `json:"quality_filters"`
	Allocation        Allocation     `json:"allocation"`
	// RiskFreeRate is the annual rate used in the Sharpe ratio. Zero or
	// negative falls back to the engine default.
	RiskFreeRate float64 `json:"risk_free_rate"`
}

type QualityFilters struct {
	MinMarketCap float64 `json:"min_market_cap"`
	MaxPERatio   float64 `json:"max_pe_ratio"`
	MinVolume    float64 `json:"min_volume"`
}

type Allocation struct {
	MaxPositions         int     `json:"max_positions"`
	PositionSizeFraction float64 `json:"position_size_fraction"`
	MaxSectorExposure    float64 `json:"max_sector_exposure"`
}

// DefaultStrategyConfig mirrors the stock dip-buying defaults: buy a 5% dip in
// an uptrend when RSI is oversold, target +10%, stop −8%, hold at most 30 days.
func DefaultStrategyConfig() StrategyConfig {
	return StrategyConfig{
		DipThreshold:      -5,
		RSIOversold:       30,
		RSIOverbought:     70,
		TrendFilterPeriod: 200,
		TargetGainPercent: 10,
		StopLossPercent:   8,
		MaxHoldingDays:    30,
		QualityFilters: QualityFilters{
			MinMarketCap: 10_000_000_000,
			MaxPERatio:   35,
			MinVolume:    1_000_000,
		},
		Allocation: Allocation{
			MaxPositions:         10,
			PositionSizeFraction: 0.1,
			MaxSectorExposure:    0.3,
		},
		RiskFreeRate: 0.05,
	}
}

type SignalType string

const (
	SignalBuy  SignalType = "BUY"
	SignalSell SignalType = "SELL"
	SignalHold SignalType = "HOLD"
)

// TradingSignal is one actionable evaluation result, scored 0-100 for ranking.
type TradingSignal struct {
	ID             string     `json:"id"`
	Symbol         string     `json:"symbol"`
	SignalType     SignalType `json:"signal_type"`
	SignalStrength int        `json:"signal_strength"`
	Reasons        []string   `json:"reasons"`
	EntryPrice     float64    `json:"entry_price"`
	TargetPrice    float64    `json:"target_price"`
	StopLoss       float64    `json:"stop_loss"`
	Timestamp      time.Time  `json:"timestamp"`
}
