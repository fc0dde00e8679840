// Package strategy implements the mean-reversion signal rules: entry and exit
// evaluation against a StrategyConfig, signal-strength scoring, and
// portfolio-level constraint filtering. Everything here is pure; callers
// supply snapshots and positions.
package strategy

import (
	"fmt"

	"stock-strategy/internal/dto"
)

// EntryEvaluation carries the verdict plus the human-readable reasons shown in
// signal listings and Telegram alerts.
type EntryEvaluation struct {
	Meets   bool
	Reasons []string
}

// EvaluateEntry checks the four buy conditions: dip, trend filter, oversold
// RSI, and quality filters. An instrument qualifies only when every check
// passes; the verdict requires zero failing reasons, never a reason count
// alone. A missing 200-day MA counts against the entry.
func EvaluateEntry(data *dto.StockSnapshot, cfg dto.StrategyConfig) EntryEvaluation {
	var reasons, failReasons []string

	if data.ChangePercent <= cfg.DipThreshold {
		reasons = append(reasons, fmt.Sprintf("Dropped %.2f%% (threshold: %.0f%%)", data.ChangePercent, cfg.DipThreshold))
	} else {
		failReasons = append(failReasons, fmt.Sprintf("No significant dip (%.2f%% > %.0f%%)", data.ChangePercent, cfg.DipThreshold))
	}

	if data.MA200 > 0 && data.Price > data.MA200 {
		reasons = append(reasons, fmt.Sprintf("Price $%.2f above 200-MA $%.2f", data.Price, data.MA200))
	} else {
		failReasons = append(failReasons, "Price below 200-MA (trend filter)")
	}

	if data.RSI < cfg.RSIOversold {
		reasons = append(reasons, fmt.Sprintf("RSI %.1f < %.0f (oversold)", data.RSI, cfg.RSIOversold))
	} else {
		failReasons = append(failReasons, fmt.Sprintf("RSI not oversold (%.1f >= %.0f)", data.RSI, cfg.RSIOversold))
	}

	qualityFails := qualityFilterFailures(data.MarketCap, data.PERatio, data.Volume, cfg.QualityFilters)
	if len(qualityFails) == 0 {
		reasons = append(reasons, "Passes quality filters")
	} else {
		failReasons = append(failReasons, qualityFails...)
	}

	meets := len(failReasons) == 0 && len(reasons) >= 3

	if meets {
		return EntryEvaluation{Meets: true, Reasons: reasons}
	}
	return EntryEvaluation{Meets: false, Reasons: failReasons}
}

// qualityFilterFailures returns one reason per failing quality filter. A P/E
// at or below zero means the ratio is unavailable and passes.
func qualityFilterFailures(marketCap, peRatio, volume float64, filters dto.QualityFilters) []string {
	var reasons []string

	if marketCap < filters.MinMarketCap {
		reasons = append(reasons, fmt.Sprintf("Market cap $%.1fB < $%.0fB", marketCap/1e9, filters.MinMarketCap/1e9))
	}

	if peRatio > filters.MaxPERatio && peRatio > 0 {
		reasons = append(reasons, fmt.Sprintf("P/E ratio %.1f > %.0f", peRatio, filters.MaxPERatio))
	}

	if volume < filters.MinVolume {
		reasons = append(reasons, fmt.Sprintf("Volume %.1fM < %.0fM", volume/1e6, filters.MinVolume/1e6))
	}

	return reasons
}
