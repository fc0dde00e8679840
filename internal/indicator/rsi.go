package indicator

import (
	"math"

	"stock-strategy/internal/dto"
)

const DefaultRSIPeriod = 14

// RelativeStrengthIndex computes the point-in-time RSI over the trailing
// period daily deltas: gains and losses are the magnitudes of positive and
// negative deltas, a zero delta counts as neither. Returns the neutral 50 when
// history is shorter than period+1 bars, 100 when the average loss is exactly
// zero, and rounds to two decimal places otherwise.
//
// This trailing-window form and RelativeStrengthIndexSeries below are
// intentionally separate code paths with slightly different gain accounting;
// do not unify them.
func RelativeStrengthIndex(bars []dto.PriceBar, period int) float64 {
	if period <= 0 || len(bars) < period+1 {
		return 50
	}

	var gains, losses float64
	for i := len(bars) - period; i < len(bars); i++ {
		change := bars[i].Close - bars[i-1].Close
		if change > 0 {
			gains += change
		} else {
			losses += math.Abs(change)
		}
	}

	avgGain := gains / float64(period)
	avgLoss := losses / float64(period)

	if avgLoss == 0 {
		return 100
	}

	rs := avgGain / avgLoss
	rsi := 100 - (100 / (1 + rs))

	return math.Round(rsi*100) / 100
}

// RelativeStrengthIndexSeries computes Wilder-smoothed RSI for every bar. The
// seed averages the first period deltas (a zero delta counted on the gain
// side), then each later bar applies the recursive update
// avg = (avg*(period-1) + delta) / period with strictly positive deltas as
// gains. Indexes before the seed carry NoValue.
func RelativeStrengthIndexSeries(bars []dto.PriceBar, period int) []float64 {
	series := make([]float64, len(bars))
	for i := range series {
		series[i] = NoValue
	}
	if period <= 0 || len(bars) < period+1 {
		return series
	}

	var gains, losses float64
	for i := 1; i <= period; i++ {
		change := bars[i].Close - bars[i-1].Close
		if change >= 0 {
			gains += change
		} else {
			losses += math.Abs(change)
		}
	}

	avgGain := gains / float64(period)
	avgLoss := losses / float64(period)
	series[period] = rsiFromAverages(avgGain, avgLoss)

	for i := period + 1; i < len(bars); i++ {
		change := bars[i].Close - bars[i-1].Close
		var gain, loss float64
		if change > 0 {
			gain = change
		}
		if change < 0 {
			loss = math.Abs(change)
		}

		avgGain = (avgGain*float64(period-1) + gain) / float64(period)
		avgLoss = (avgLoss*float64(period-1) + loss) / float64(period)
		series[i] = rsiFromAverages(avgGain, avgLoss)
	}

	return series
}

func rsiFromAverages(avgGain, avgLoss float64) float64 {
	if avgLoss == 0 {
		return 100
	}
	return 100 - (100 / (1 + avgGain/avgLoss))
}
