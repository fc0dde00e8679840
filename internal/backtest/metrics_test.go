package backtest

import (
	"testing"
	"time"

	"stock-strategy/internal/dto"
	"stock-strategy/pkg/utils"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestSharpeRatio(t *testing.T) {
	tests := []struct {
		name         string
		dailyReturns []float64
		riskFreeRate float64
		want         float64
		delta        float64
	}{
		{
			name:         "empty series",
			dailyReturns: nil,
			riskFreeRate: 0.05,
			want:         0,
		},
		{
			name:         "zero volatility",
			dailyReturns: []float64{0.001, 0.001, 0.001},
			riskFreeRate: 0.05,
			want:         0,
		},
		{
			name: "positive excess return",
			// mean 0.001, annualized 0.252; population stdev of
			// {0.002, 0, 0.002, 0} is 0.001, annualized 0.015874.
			dailyReturns: []float64{0.002, 0, 0.002, 0},
			riskFreeRate: 0.05,
			want:         (0.252 - 0.05) / 0.015874507,
			delta:        1e-6,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := SharpeRatio(tt.dailyReturns, tt.riskFreeRate)
			if tt.delta == 0 {
				assert.Equal(t, tt.want, got)
			} else {
				assert.InDelta(t, tt.want, got, tt.delta)
			}
		})
	}
}

func TestMaxDrawdown(t *testing.T) {
	tests := []struct {
		name   string
		equity []float64
		want   float64
	}{
		{
			name:   "empty curve",
			equity: nil,
			want:   0,
		},
		{
			name:   "monotonic rise",
			equity: []float64{100, 101, 105, 110},
			want:   0,
		},
		{
			name:   "single drawdown",
			equity: []float64{100, 110, 99, 108},
			want:   10,
		},
		{
			name:   "later deeper drawdown wins",
			equity: []float64{100, 110, 99, 121, 100.65},
			want:   (121 - 100.65) / 121 * 100,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.InDelta(t, tt.want, MaxDrawdown(tt.equity), 1e-9)
		})
	}
}

func TestCalculateMetrics_WinStatsCountSellsOnly(t *testing.T) {
	day := func(i int) time.Time {
		return time.Date(2024, 1, 1, 0, 0, 0, 0, time.UTC).AddDate(0, 0, i)
	}

	state := &simulationState{
		trades: []dto.Trade{
			{Symbol: "A", Side: dto.TradeBuy, Price: 100, Shares: 10, Date: day(0)},
			{Symbol: "A", Side: dto.TradeSell, Price: 110, Shares: 10, Date: day(5),
				PnL: utils.ToPointer(100.0), PercentGain: utils.ToPointer(10.0)},
			{Symbol: "B", Side: dto.TradeBuy, Price: 50, Shares: 20, Date: day(1)},
			{Symbol: "B", Side: dto.TradeSell, Price: 46, Shares: 20, Date: day(6),
				PnL: utils.ToPointer(-80.0), PercentGain: utils.ToPointer(-8.0)},
			{Symbol: "C", Side: dto.TradeSell, Price: 70, Shares: 5, Date: day(7),
				PnL: utils.ToPointer(0.0), PercentGain: utils.ToPointer(0.0)},
		},
		equityCurve: []dto.EquityCurvePoint{
			{Date: day(0), Value: 10000},
			{Date: day(1), Value: 10100},
			{Date: day(2), Value: 10020},
		},
	}

	result := calculateMetrics(state, 10000, DefaultRiskFreeRate)

	// BUY trades never count toward trade statistics.
	assert.Equal(t, 3, result.TotalTrades)
	assert.Equal(t, 1, result.ProfitableTrades)
	// A break-even sell is not a win.
	assert.InDelta(t, 100.0/3, result.WinRate, 1e-9)
	assert.InDelta(t, 10, result.AvgWinPercent, 1e-9)
	assert.InDelta(t, -4, result.AvgLossPercent, 1e-9)

	assert.InDelta(t, 0.2, result.TotalReturn, 1e-9)
	require.Len(t, result.Trades, 5)
}

func TestCalculateMetrics_EmptyRun(t *testing.T) {
	state := &simulationState{}
	result := calculateMetrics(state, 10000, DefaultRiskFreeRate)

	assert.Zero(t, result.TotalReturn)
	assert.Zero(t, result.AnnualizedReturn)
	assert.Zero(t, result.SharpeRatio)
	assert.Zero(t, result.MaxDrawdown)
	assert.Zero(t, result.WinRate)
	assert.Zero(t, result.TotalTrades)
}
