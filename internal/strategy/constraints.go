package strategy

import (
	"stock-strategy/internal/dto"
	"stock-strategy/pkg/common"
)

// SectorExposure returns each sector's share of total position value.
func SectorExposure(positions []dto.Position) map[string]float64 {
	sectorValues := make(map[string]float64)
	var totalValue float64

	for i := range positions {
		sector := positions[i].Sector
		if sector == "" {
			sector = common.SectorOf(positions[i].Symbol)
		}
		value := positions[i].Value()
		totalValue += value
		sectorValues[sector] += value
	}

	exposure := make(map[string]float64, len(sectorValues))
	for sector, value := range sectorValues {
		if totalValue > 0 {
			exposure[sector] = value / totalValue
		} else {
			exposure[sector] = 0
		}
	}
	return exposure
}

// WouldExceedSectorLimit reports whether adding positionValue of symbol would
// push its sector past maxSectorExposure of the whole portfolio.
func WouldExceedSectorLimit(symbol string, positionValue float64, positions []dto.Position, portfolioValue, maxSectorExposure float64) bool {
	if portfolioValue <= 0 {
		return false
	}

	sector := common.SectorOf(symbol)

	sectorValue := positionValue
	for i := range positions {
		if common.SectorOf(positions[i].Symbol) == sector {
			sectorValue += positions[i].Value()
		}
	}

	return sectorValue/portfolioValue > maxSectorExposure
}

// FilterByPortfolioConstraints trims ranked buy signals to what the portfolio
// can actually take: held symbols are skipped, sector caps enforced, and the
// list cut to the free position slots. Input order is preserved, so equal
// scores keep their incoming precedence.
func FilterByPortfolioConstraints(signals []dto.TradingSignal, positions []dto.Position, portfolioValue float64, cfg dto.StrategyConfig) []dto.TradingSignal {
	if len(positions) >= cfg.Allocation.MaxPositions {
		return nil
	}

	positionValue := portfolioValue * cfg.Allocation.PositionSizeFraction
	held := make(map[string]bool, len(positions))
	for i := range positions {
		held[positions[i].Symbol] = true
	}

	var filtered []dto.TradingSignal
	freeSlots := cfg.Allocation.MaxPositions - len(positions)

	for _, signal := range signals {
		if held[signal.Symbol] {
			continue
		}

		if WouldExceedSectorLimit(signal.Symbol, positionValue, positions, portfolioValue, cfg.Allocation.MaxSectorExposure) {
			continue
		}

		filtered = append(filtered, signal)
		if len(filtered) >= freeSlots {
			break
		}
	}

	return filtered
}
