package model

import (
	"time"

	"gorm.io/datatypes"
)

type BacktestRun struct {
	ID               uint           `gorm:"primaryKey" json:"id"`
	Symbols          string         `gorm:"not null" json:"symbols"`
	InitialCapital   float64        `gorm:"not null" json:"initial_capital"`
	TotalReturn      float64        `gorm:"not null" json:"total_return"`
	AnnualizedReturn float64        `gorm:"not null" json:"annualized_return"`
	SharpeRatio      float64        `gorm:"not null" json:"sharpe_ratio"`
	MaxDrawdown      float64        `gorm:"not null" json:"max_drawdown"`
	WinRate          float64        `gorm:"not null" json:"win_rate"`
	TotalTrades      int            `gorm:"not null" json:"total_trades"`
	ProfitableTrades int            `gorm:"not null" json:"profitable_trades"`
	Config           datatypes.JSON  `gorm:"type:jsonb" json:"config"`
	EquityCurve      datatypes.JSON  `gorm:"type:jsonb" json:"equity_curve"`
	Trades           []BacktestTrade `gorm:"foreignKey:BacktestRunID" json:"trades,omitempty"`
	CreatedAt        time.Time       `gorm:"autoCreateTime" json:"created_at"`
}

func (BacktestRun) TableName() string {
	return "backtest_runs"
}

type BacktestTrade struct {
	ID            uint      `gorm:"primaryKey" json:"id"`
	BacktestRunID uint      `gorm:"not null;index" json:"backtest_run_id"`
	Symbol        string    `gorm:"not null" json:"symbol"`
	Side          string    `gorm:"not null" json:"side"`
	Price         float64   `gorm:"not null" json:"price"`
	Shares        int64     `gorm:"not null" json:"shares"`
	TradeDate     time.Time `gorm:"not null" json:"trade_date"`
	PnL           *float64  `json:"pnl"`
	PercentGain   *float64  `json:"percent_gain"`
	CreatedAt     time.Time `gorm:"autoCreateTime" json:"created_at"`
}

func (BacktestTrade) TableName() string {
	return "backtest_trades"
}
