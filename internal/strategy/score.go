package strategy

import (
	"fmt"
	"math"

	"stock-strategy/internal/dto"
)

// SignalStrength scores a candidate 0-100 for ranking only, never for
// eligibility: up to 30 points for depth below RSI 30, up to 30 for the dip
// size (3 per percent), up to 20 for volume expansion, plus a flat 20 when
// price sits above the trend MA.
func SignalStrength(rsi, dipPercent, volumeRatio float64, aboveMA bool) int {
	var strength float64

	if rsi < 30 {
		strength += 30 - rsi
	}

	strength += math.Min(math.Abs(dipPercent)*3, 30)
	strength += math.Min(volumeRatio*10, 20)

	if aboveMA {
		strength += 20
	}

	return int(math.Min(math.Round(strength), 100))
}

// TargetPrice returns the exit target for an entry price.
func TargetPrice(entryPrice, targetGainPercent float64) float64 {
	return entryPrice * (1 + targetGainPercent/100)
}

// StopLossPrice returns the protective stop for an entry price.
func StopLossPrice(entryPrice, stopLossPercent float64) float64 {
	return entryPrice * (1 - stopLossPercent/100)
}

// BuySignal builds a ranked BUY signal from a snapshot that already passed
// EvaluateEntry.
func BuySignal(data *dto.StockSnapshot, cfg dto.StrategyConfig) dto.TradingSignal {
	eval := EvaluateEntry(data, cfg)

	volumeRatio := 1.0
	if avg := data.AvgVolume(); avg > 0 {
		volumeRatio = data.Volume / avg
	}

	strength := SignalStrength(data.RSI, data.ChangePercent, volumeRatio, data.Price > data.MA200)

	return dto.TradingSignal{
		ID:             fmt.Sprintf("%s-%d", data.Symbol, data.Timestamp.Unix()),
		Symbol:         data.Symbol,
		SignalType:     dto.SignalBuy,
		SignalStrength: strength,
		Reasons:        eval.Reasons,
		EntryPrice:     data.Price,
		TargetPrice:    TargetPrice(data.Price, cfg.TargetGainPercent),
		StopLoss:       StopLossPrice(data.Price, cfg.StopLossPercent),
		Timestamp:      data.Timestamp,
	}
}

// SellSignal builds a SELL signal for an open position. Sell signals always
// rank at full strength.
func SellSignal(position *dto.Position, data *dto.StockSnapshot, cfg dto.StrategyConfig) dto.TradingSignal {
	eval := EvaluateExit(position, data, data.Timestamp, cfg)

	return dto.TradingSignal{
		ID:             fmt.Sprintf("%s-sell-%d", data.Symbol, data.Timestamp.Unix()),
		Symbol:         data.Symbol,
		SignalType:     dto.SignalSell,
		SignalStrength: 100,
		Reasons:        eval.Reasons,
		EntryPrice:     position.EntryPrice,
		TargetPrice:    data.Price,
		StopLoss:       StopLossPrice(position.EntryPrice, cfg.StopLossPercent),
		Timestamp:      data.Timestamp,
	}
}
