package backtest

import (
	"math"

	"stock-strategy/internal/dto"
)

// tradingDaysPerYear annualizes daily statistics.
const tradingDaysPerYear = 252

// calculateMetrics derives the run summary from the trade ledger and equity
// curve. Trade statistics count SELL trades only; a win is strictly positive
// realized PnL.
func calculateMetrics(state *simulationState, initialCapital, riskFreeRate float64) *dto.BacktestResult {
	finalValue := initialCapital
	if len(state.equityCurve) > 0 {
		finalValue = state.equityCurve[len(state.equityCurve)-1].Value
	}

	totalReturn := (finalValue - initialCapital) / initialCapital * 100

	years := float64(len(state.equityCurve)) / tradingDaysPerYear
	annualizedReturn := 0.0
	if years > 0 {
		annualizedReturn = (math.Pow(finalValue/initialCapital, 1/years) - 1) * 100
	}

	dailyReturns := make([]float64, 0, len(state.equityCurve))
	for i := 1; i < len(state.equityCurve); i++ {
		prev := state.equityCurve[i-1].Value
		curr := state.equityCurve[i].Value
		dailyReturns = append(dailyReturns, (curr-prev)/prev)
	}

	var sellTrades []dto.Trade
	for _, trade := range state.trades {
		if trade.Side == dto.TradeSell {
			sellTrades = append(sellTrades, trade)
		}
	}

	var wins, losses int
	var winPercentSum, lossPercentSum float64
	for _, trade := range sellTrades {
		pnl := 0.0
		if trade.PnL != nil {
			pnl = *trade.PnL
		}
		percentGain := 0.0
		if trade.PercentGain != nil {
			percentGain = *trade.PercentGain
		}
		if pnl > 0 {
			wins++
			winPercentSum += percentGain
		} else {
			losses++
			lossPercentSum += percentGain
		}
	}

	winRate := 0.0
	if len(sellTrades) > 0 {
		winRate = float64(wins) / float64(len(sellTrades)) * 100
	}
	avgWinPercent := 0.0
	if wins > 0 {
		avgWinPercent = winPercentSum / float64(wins)
	}
	avgLossPercent := 0.0
	if losses > 0 {
		avgLossPercent = lossPercentSum / float64(losses)
	}

	return &dto.BacktestResult{
		TotalReturn:      totalReturn,
		AnnualizedReturn: annualizedReturn,
		SharpeRatio:      SharpeRatio(dailyReturns, riskFreeRate),
		MaxDrawdown:      MaxDrawdown(equityValues(state.equityCurve)),
		WinRate:          winRate,
		AvgWinPercent:    avgWinPercent,
		AvgLossPercent:   avgLossPercent,
		TotalTrades:      len(sellTrades),
		ProfitableTrades: wins,
		Trades:           state.trades,
		EquityCurve:      state.equityCurve,
	}
}

// SharpeRatio annualizes the mean daily return, subtracts the annual
// risk-free rate, and divides by the annualized population standard
// deviation. Zero volatility or an empty series yields 0.
func SharpeRatio(dailyReturns []float64, riskFreeRate float64) float64 {
	if len(dailyReturns) == 0 {
		return 0
	}

	var sum float64
	for _, r := range dailyReturns {
		sum += r
	}
	avgReturn := sum / float64(len(dailyReturns))
	annualizedReturn := avgReturn * tradingDaysPerYear

	var variance float64
	for _, r := range dailyReturns {
		variance += (r - avgReturn) * (r - avgReturn)
	}
	variance /= float64(len(dailyReturns))
	stdDev := math.Sqrt(variance) * math.Sqrt(tradingDaysPerYear)

	if stdDev == 0 {
		return 0
	}
	return (annualizedReturn - riskFreeRate) / stdDev
}

// MaxDrawdown returns the largest peak-to-trough decline of the equity curve
// as a percentage. A monotonically non-decreasing curve yields 0.
func MaxDrawdown(equityCurve []float64) float64 {
	if len(equityCurve) == 0 {
		return 0
	}

	maxDrawdown := 0.0
	peak := equityCurve[0]
	for _, value := range equityCurve {
		if value > peak {
			peak = value
		}
		drawdown := (peak - value) / peak
		if drawdown > maxDrawdown {
			maxDrawdown = drawdown
		}
	}
	return maxDrawdown * 100
}

func equityValues(curve []dto.EquityCurvePoint) []float64 {
	values := make([]float64, len(curve))
	for i, point := range curve {
		values[i] = point.Value
	}
	return values
}
