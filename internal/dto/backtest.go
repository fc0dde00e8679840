package dto

import "time"

type TradeSide string

const (
	TradeBuy  TradeSide = "BUY"
	TradeSell TradeSide = "SELL"
)

// Position is one open holding. Owned exclusively by the simulator's book (or
// the live portfolio service) while active; it becomes a Trade on exit.
type Position struct {
	ID            string    `json:"id"`
	Symbol        string    `json:"symbol"`
	EntryPrice    float64   `json:"entry_price"`
	CurrentPrice  float64   `json:"current_price"`
	Shares        int64     `json:"shares"`
	EntryDate     time.Time `json:"entry_date"`
	UnrealizedPnL float64   `json:"unrealized_pnl"`
	PercentGain   float64   `json:"percent_gain"`
	Sector        string    `json:"sector,omitempty"`
}

// Value returns the mark-to-market value of the position.
func (p *Position) Value() float64 {
	return p.CurrentPrice * float64(p.Shares)
}

// Trade is an append-only ledger entry, immutable once written. PnL and
// PercentGain are set on SELL trades only.
type Trade struct {
	ID          string    `json:"id"`
	Symbol      string    `json:"symbol"`
	Side        TradeSide `json:"side"`
	Price       float64   `json:"price"`
	Shares      int64     `json:"shares"`
	Date        time.Time `json:"date"`
	PnL         *float64  `json:"pnl,omitempty"`
	PercentGain *float64  `json:"percent_gain,omitempty"`
}

// EquityCurvePoint records the total mark-to-market portfolio value for one
// simulated trading day.
type EquityCurvePoint struct {
	Date  time.Time `json:"date"`
	Value float64   `json:"value"`
}

// BacktestResult summarizes one simulation run.
type BacktestResult struct {
	TotalReturn      float64            `json:"total_return"`
	AnnualizedReturn float64            `json:"annualized_return"`
	SharpeRatio      float64            `json:"sharpe_ratio"`
	MaxDrawdown      float64            `json:"max_drawdown"`
	WinRate          float64            `json:"win_rate"`
	AvgWinPercent    float64            `json:"avg_win_percent"`
	AvgLossPercent   float64            `json:"avg_loss_percent"`
	TotalTrades      int                `json:"total_trades"`
	ProfitableTrades int                `json:"profitable_trades"`
	Trades           []Trade            `json:"trades"`
	EquityCurve      []EquityCurvePoint `json:"equity_curve"`
}

// BacktestRequest is the HTTP payload for running a backtest over fetched
// history. Config falls back to the strategy defaults when omitted.
type BacktestRequest struct {
	Symbols        []string        `json:"symbols" validate:"required,min=1"`
	InitialCapital float64         `json:"initial_capital" validate:"gt=0"`
	Config         *StrategyConfig `json:"config,omitempty"`
}
