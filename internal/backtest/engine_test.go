package backtest

import (
	"testing"
	"time"

	"stock-strategy/internal/dto"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

var testStart = time.Date(2023, 1, 2, 0, 0, 0, 0, time.UTC)

func dailyBars(closes []float64, volume float64) []dto.PriceBar {
	bars := make([]dto.PriceBar, len(closes))
	for i, c := range closes {
		bars[i] = dto.PriceBar{
			Date:   testStart.AddDate(0, 0, i),
			Open:   c,
			High:   c,
			Low:    c,
			Close:  c,
			Volume: volume,
		}
	}
	return bars
}

func repeat(value float64, n int) []float64 {
	out := make([]float64, n)
	for i := range out {
		out[i] = value
	}
	return out
}

// dipSeries builds a history that qualifies for entry on its last bar: a long
// low base, a jump to a flat shelf (so the trend MA sits below price and
// recent deltas are zero), then one sharp down day.
func dipSeries(baseLen int, base float64, shelfLen int, shelf, dipClose float64) []float64 {
	closes := append(repeat(base, baseLen), repeat(shelf, shelfLen)...)
	return append(closes, dipClose)
}

func TestRun_FlatSeriesNeverTrades(t *testing.T) {
	bars := dailyBars(repeat(100, 220), 2_000_000)

	result, err := RunSingle("AAPL", bars, 100_000, dto.DefaultStrategyConfig())
	require.NoError(t, err)

	assert.Zero(t, result.TotalTrades)
	assert.Empty(t, result.Trades)
	assert.Zero(t, result.TotalReturn)
	assert.Zero(t, result.MaxDrawdown)

	require.Len(t, result.EquityCurve, 20)
	for _, point := range result.EquityCurve {
		assert.InDelta(t, 100_000, point.Value, 1e-9)
	}
}

func TestRun_DipDayOpensOnePosition(t *testing.T) {
	// 190 bars at 40, 20 bars at 54, then a -7.4% dip to 50. Price stays above
	// the 200-bar mean (~41), the flat shelf keeps RSI at zero, and the dip
	// clears the -5% threshold.
	closes := dipSeries(190, 40, 20, 54, 50)
	bars := dailyBars(closes, 2_000_000)

	result, err := RunSingle("AAPL", bars, 100_000, dto.DefaultStrategyConfig())
	require.NoError(t, err)

	require.Len(t, result.Trades, 2)

	buy := result.Trades[0]
	assert.Equal(t, dto.TradeBuy, buy.Side)
	assert.Equal(t, "AAPL", buy.Symbol)
	assert.InDelta(t, 50, buy.Price, 1e-9)
	// 10% of 100k at $50 floors to 200 shares.
	assert.Equal(t, int64(200), buy.Shares)
	assert.Equal(t, testStart.AddDate(0, 0, 210), buy.Date)

	// The run ends on the entry day, so the position is force-closed at the
	// last close with zero realized PnL.
	sell := result.Trades[1]
	assert.Equal(t, dto.TradeSell, sell.Side)
	assert.InDelta(t, 50, sell.Price, 1e-9)
	require.NotNil(t, sell.PnL)
	assert.InDelta(t, 0, *sell.PnL, 1e-9)

	assert.Equal(t, 1, result.TotalTrades)
	assert.Zero(t, result.ProfitableTrades)
	assert.InDelta(t, 0, result.TotalReturn, 1e-9)
}

func TestRun_TargetGainExit(t *testing.T) {
	// Entry at 50 on the dip day, then a jump to 56 (> 55 target) the next day.
	closes := append(dipSeries(190, 40, 20, 54, 50), 56)
	bars := dailyBars(closes, 2_000_000)

	result, err := RunSingle("AAPL", bars, 100_000, dto.DefaultStrategyConfig())
	require.NoError(t, err)

	require.Len(t, result.Trades, 2)
	sell := result.Trades[1]
	assert.Equal(t, dto.TradeSell, sell.Side)
	assert.InDelta(t, 56, sell.Price, 1e-9)
	assert.Equal(t, testStart.AddDate(0, 0, 211), sell.Date)

	require.NotNil(t, sell.PnL)
	assert.InDelta(t, 6*200, *sell.PnL, 1e-9)

	assert.Equal(t, 1, result.TotalTrades)
	assert.Equal(t, 1, result.ProfitableTrades)
	assert.InDelta(t, 100, result.WinRate, 1e-9)
	require.NotNil(t, sell.PercentGain)
	assert.InDelta(t, 12, *sell.PercentGain, 1e-9)
}

func TestRun_StopLossExit(t *testing.T) {
	// Entry at 50, stop at 46; next day craters to 45. The crater day is
	// itself a qualifying dip, so after the stop-out the engine re-enters at
	// 45 on the same day's entry pass and the finalizer closes that position.
	closes := append(dipSeries(190, 40, 20, 54, 50), 45)
	bars := dailyBars(closes, 2_000_000)

	result, err := RunSingle("AAPL", bars, 100_000, dto.DefaultStrategyConfig())
	require.NoError(t, err)

	require.Len(t, result.Trades, 4)

	stopOut := result.Trades[1]
	assert.Equal(t, dto.TradeSell, stopOut.Side)
	assert.InDelta(t, 45, stopOut.Price, 1e-9)
	require.NotNil(t, stopOut.PnL)
	assert.InDelta(t, -5*200, *stopOut.PnL, 1e-9)

	reentry := result.Trades[2]
	assert.Equal(t, dto.TradeBuy, reentry.Side)
	assert.InDelta(t, 45, reentry.Price, 1e-9)

	assert.Equal(t, 2, result.TotalTrades)
	assert.Zero(t, result.ProfitableTrades)
	assert.Zero(t, result.WinRate)
	assert.Greater(t, result.MaxDrawdown, 0.0)
}

func TestRun_MaxHoldingDaysForcesExit(t *testing.T) {
	// After entry at 50, the price wobbles between 49.9 and 50 so neither the
	// target, the stop, nor the RSI can trigger; only the holding clock can.
	closes := dipSeries(190, 40, 20, 54, 50)
	for i := 0; i < 40; i++ {
		if i%2 == 0 {
			closes = append(closes, 49.9)
		} else {
			closes = append(closes, 50)
		}
	}
	bars := dailyBars(closes, 2_000_000)

	result, err := RunSingle("AAPL", bars, 100_000, dto.DefaultStrategyConfig())
	require.NoError(t, err)

	require.NotEmpty(t, result.Trades)
	buy := result.Trades[0]
	require.Equal(t, dto.TradeBuy, buy.Side)
	entryDay := buy.Date

	var sell *dto.Trade
	for i := range result.Trades {
		if result.Trades[i].Side == dto.TradeSell {
			sell = &result.Trades[i]
			break
		}
	}
	require.NotNil(t, sell)
	// Calendar days, not bar count: exit fires exactly 30 days after entry.
	assert.Equal(t, entryDay.AddDate(0, 0, 30), sell.Date)
}

func TestRun_CashConservation(t *testing.T) {
	closes := append(dipSeries(190, 40, 20, 54, 50), 56, 55, 54)
	bars := dailyBars(closes, 2_000_000)

	initialCapital := 100_000.0
	result, err := RunSingle("AAPL", bars, initialCapital, dto.DefaultStrategyConfig())
	require.NoError(t, err)

	// Replay the ledger: every BUY debits cash, every SELL credits it. The
	// final equity point must equal the replayed cash once the book is empty.
	cash := initialCapital
	for _, trade := range result.Trades {
		amount := trade.Price * float64(trade.Shares)
		if trade.Side == dto.TradeBuy {
			cash -= amount
		} else {
			cash += amount
		}
	}

	require.NotEmpty(t, result.EquityCurve)
	expectedFinal := initialCapital * (1 + result.TotalReturn/100)
	assert.InDelta(t, cash, expectedFinal, 1e-6)
}

func TestRun_PositionCapAndTieBreak(t *testing.T) {
	cfg := dto.DefaultStrategyConfig()
	cfg.Allocation.MaxPositions = 1

	closes := dipSeries(190, 40, 20, 54, 50)
	instruments := []dto.Instrument{
		{Symbol: "ZZZ", Bars: dailyBars(closes, 2_000_000)},
		{Symbol: "AAA", Bars: dailyBars(closes, 2_000_000)},
	}

	result, err := Run(instruments, 100_000, cfg)
	require.NoError(t, err)

	var buys []dto.Trade
	for _, trade := range result.Trades {
		if trade.Side == dto.TradeBuy {
			buys = append(buys, trade)
		}
	}
	require.Len(t, buys, 1)
	// Identical scores: input order breaks the tie.
	assert.Equal(t, "ZZZ", buys[0].Symbol)
}

func TestRun_Deterministic(t *testing.T) {
	closes := append(dipSeries(190, 40, 20, 54, 50), 52, 49, 56, 51)
	bars := dailyBars(closes, 2_000_000)

	first, err := RunSingle("AAPL", bars, 100_000, dto.DefaultStrategyConfig())
	require.NoError(t, err)
	second, err := RunSingle("AAPL", bars, 100_000, dto.DefaultStrategyConfig())
	require.NoError(t, err)

	assert.Equal(t, first, second)
}

func TestRun_InsufficientHistory(t *testing.T) {
	bars := dailyBars(repeat(100, 150), 2_000_000)

	_, err := RunSingle("AAPL", bars, 100_000, dto.DefaultStrategyConfig())
	assert.ErrorIs(t, err, ErrNoData)
}

func TestRun_NoInstruments(t *testing.T) {
	_, err := Run(nil, 100_000, dto.DefaultStrategyConfig())
	assert.ErrorIs(t, err, ErrNoData)
}

func TestRun_UnorderedSeriesRejected(t *testing.T) {
	bars := dailyBars(repeat(100, 220), 2_000_000)
	bars[10].Date = bars[9].Date

	_, err := RunSingle("AAPL", bars, 100_000, dto.DefaultStrategyConfig())
	assert.ErrorIs(t, err, ErrUnorderedSeries)
}

func TestRun_QualityFiltersVetoKnownFundamentals(t *testing.T) {
	closes := dipSeries(190, 40, 20, 54, 50)

	smallCap := []dto.Instrument{{
		Symbol:    "TINY",
		MarketCap: 1_000_000_000,
		Bars:      dailyBars(closes, 2_000_000),
	}}
	result, err := Run(smallCap, 100_000, dto.DefaultStrategyConfig())
	require.NoError(t, err)
	assert.Empty(t, result.Trades)

	richPE := []dto.Instrument{{
		Symbol:  "PRCY",
		PERatio: 80,
		Bars:    dailyBars(closes, 2_000_000),
	}}
	result, err = Run(richPE, 100_000, dto.DefaultStrategyConfig())
	require.NoError(t, err)
	assert.Empty(t, result.Trades)

	thinVolume := []dto.Instrument{{
		Symbol: "THIN",
		Bars:   dailyBars(closes, 100_000),
	}}
	result, err = Run(thinVolume, 100_000, dto.DefaultStrategyConfig())
	require.NoError(t, err)
	assert.Empty(t, result.Trades)
}

func TestRunSeries_OrdersBySymbol(t *testing.T) {
	closes := dipSeries(190, 40, 20, 54, 50)
	cfg := dto.DefaultStrategyConfig()
	cfg.Allocation.MaxPositions = 1

	series := map[string][]dto.PriceBar{
		"ZZZ": dailyBars(closes, 2_000_000),
		"AAA": dailyBars(closes, 2_000_000),
	}

	result, err := RunSeries(series, 100_000, cfg)
	require.NoError(t, err)

	var buys []dto.Trade
	for _, trade := range result.Trades {
		if trade.Side == dto.TradeBuy {
			buys = append(buys, trade)
		}
	}
	require.Len(t, buys, 1)
	assert.Equal(t, "AAA", buys[0].Symbol)
}

func TestRun_ConfiguredRiskFreeRate(t *testing.T) {
	// One winning trade gives the equity curve nonzero volatility, so the
	// Sharpe ratio moves when the risk-free rate does.
	closes := append(dipSeries(190, 40, 20, 54, 50), 56)
	bars := dailyBars(closes, 2_000_000)

	baseline, err := RunSingle("AAPL", bars, 100_000, dto.DefaultStrategyConfig())
	require.NoError(t, err)
	require.NotZero(t, baseline.SharpeRatio)

	high := dto.DefaultStrategyConfig()
	high.RiskFreeRate = 0.50
	highResult, err := RunSingle("AAPL", bars, 100_000, high)
	require.NoError(t, err)
	assert.Less(t, highResult.SharpeRatio, baseline.SharpeRatio)

	// An unset rate falls back to the default.
	unset := dto.DefaultStrategyConfig()
	unset.RiskFreeRate = 0
	unsetResult, err := RunSingle("AAPL", bars, 100_000, unset)
	require.NoError(t, err)
	assert.InDelta(t, baseline.SharpeRatio, unsetResult.SharpeRatio, 1e-12)
}

func TestRun_FutureBarsDoNotChangeThePast(t *testing.T) {
	// Appending future bars must not alter any decision already made: the
	// trade ledger and equity curve over the shared days stay identical.
	closes := append(dipSeries(190, 40, 20, 54, 50), 56)
	bars := dailyBars(closes, 2_000_000)

	extended := append(closes[:len(closes):len(closes)], repeat(56, 10)...)
	extendedBars := dailyBars(extended, 2_000_000)

	short, err := RunSingle("AAPL", bars, 100_000, dto.DefaultStrategyConfig())
	require.NoError(t, err)
	long, err := RunSingle("AAPL", extendedBars, 100_000, dto.DefaultStrategyConfig())
	require.NoError(t, err)

	// The position closed at the target before the extension starts, and the
	// flat tail never dips, so the ledgers match in full.
	assert.Equal(t, short.Trades, long.Trades)

	require.GreaterOrEqual(t, len(long.EquityCurve), len(short.EquityCurve))
	for i, point := range short.EquityCurve {
		assert.Equal(t, point.Date, long.EquityCurve[i].Date)
		assert.InDelta(t, point.Value, long.EquityCurve[i].Value, 1e-9)
	}
}
