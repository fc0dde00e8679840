// Package indicator provides the pure technical-indicator computations used by
// the signal engine and the backtest simulator. Every function is
// deterministic and reads only the bars it is given, so evaluating "as of" a
// date never sees later data.
package indicator

import (
	"math"

	"stock-strategy/internal/dto"
)

// NoValue marks positions of a series that precede the indicator's seed
// window.
var NoValue = math.NaN()

// HasValue reports whether v is a real indicator value rather than the
// insufficient-history sentinel.
func HasValue(v float64) bool {
	return !math.IsNaN(v)
}

// Closes extracts the close column from a bar series.
func Closes(bars []dto.PriceBar) []float64 {
	closes := make([]float64, len(bars))
	for i, bar := range bars {
		closes[i] = bar.Close
	}
	return closes
}

// MovingAverage returns the arithmetic mean of the last period closes, or 0
// when fewer than period bars exist. Zero doubles as the "no value" sentinel
// for single-value indicators; callers guard with ma > 0.
func MovingAverage(bars []dto.PriceBar, period int) float64 {
	if period <= 0 || len(bars) < period {
		return 0
	}
	var sum float64
	for _, bar := range bars[len(bars)-period:] {
		sum += bar.Close
	}
	return sum / float64(period)
}

// MovingAverageSeries returns one trailing mean per bar, NoValue before the
// window fills.
func MovingAverageSeries(bars []dto.PriceBar, period int) []float64 {
	series := make([]float64, len(bars))
	for i := range series {
		series[i] = NoValue
	}
	if period <= 0 || len(bars) < period {
		return series
	}

	var window float64
	for i, bar := range bars {
		window += bar.Close
		if i >= period {
			window -= bars[i-period].Close
		}
		if i >= period-1 {
			series[i] = window / float64(period)
		}
	}
	return series
}

// ExponentialMovingAverage seeds with the simple average of the first period
// values, then applies the 2/(period+1) multiplier forward. Returns 0 when
// history is insufficient.
func ExponentialMovingAverage(values []float64, period int) float64 {
	if period <= 0 || len(values) < period {
		return 0
	}

	multiplier := 2 / float64(period+1)
	var ema float64
	for _, v := range values[:period] {
		ema += v
	}
	ema /= float64(period)

	for _, v := range values[period:] {
		ema = (v-ema)*multiplier + ema
	}
	return ema
}

// ExponentialMovingAverageSeries returns the EMA at every index, NoValue
// before the seed window fills.
func ExponentialMovingAverageSeries(values []float64, period int) []float64 {
	series := make([]float64, len(values))
	for i := range series {
		series[i] = NoValue
	}
	if period <= 0 || len(values) < period {
		return series
	}

	multiplier := 2 / float64(period+1)
	var ema float64
	for _, v := range values[:period] {
		ema += v
	}
	ema /= float64(period)
	series[period-1] = ema

	for i := period; i < len(values); i++ {
		ema = (values[i]-ema)*multiplier + ema
		series[i] = ema
	}
	return series
}
