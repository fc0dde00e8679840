package strategy

import (
	"fmt"
	"time"

	"stock-strategy/internal/dto"
	"stock-strategy/pkg/utils"
)

// ExitEvaluation carries the sell verdict and every condition that fired.
type ExitEvaluation struct {
	Meets   bool
	Reasons []string
}

// EvaluateExit checks the four sell conditions for an open position: RSI
// overbought, target gain reached, stop loss breached, or the maximum holding
// period elapsed. Any single condition is sufficient.
func EvaluateExit(position *dto.Position, data *dto.StockSnapshot, asOf time.Time, cfg dto.StrategyConfig) ExitEvaluation {
	var reasons []string

	daysSinceEntry := utils.CalendarDaysBetween(position.EntryDate, asOf)

	if data.RSI > cfg.RSIOverbought {
		reasons = append(reasons, fmt.Sprintf("RSI %.1f > %.0f (overbought)", data.RSI, cfg.RSIOverbought))
	}

	targetPrice := TargetPrice(position.EntryPrice, cfg.TargetGainPercent)
	if data.Price >= targetPrice {
		reasons = append(reasons, fmt.Sprintf("Target hit: $%.2f >= $%.2f", data.Price, targetPrice))
	}

	stopLoss := StopLossPrice(position.EntryPrice, cfg.StopLossPercent)
	if data.Price <= stopLoss {
		reasons = append(reasons, fmt.Sprintf("Stop loss triggered: $%.2f <= $%.2f", data.Price, stopLoss))
	}

	if daysSinceEntry >= cfg.MaxHoldingDays {
		reasons = append(reasons, fmt.Sprintf("Max holding period reached (%d days)", daysSinceEntry))
	}

	return ExitEvaluation{
		Meets:   len(reasons) > 0,
		Reasons: reasons,
	}
}
