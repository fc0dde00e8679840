package strategy

import (
	"testing"

	"stock-strategy/internal/dto"

	"github.com/stretchr/testify/assert"
)

func buySignalFor(symbol string) dto.TradingSignal {
	return dto.TradingSignal{
		Symbol:     symbol,
		SignalType: dto.SignalBuy,
		EntryPrice: 100,
	}
}

func TestSectorExposure(t *testing.T) {
	positions := []dto.Position{
		{Symbol: "AAPL", Sector: "Technology", CurrentPrice: 60, Shares: 1},
		{Symbol: "XOM", Sector: "Energy", CurrentPrice: 40, Shares: 1},
	}

	exposure := SectorExposure(positions)

	assert.InDelta(t, 0.6, exposure["Technology"], 1e-9)
	assert.InDelta(t, 0.4, exposure["Energy"], 1e-9)
}

func TestSectorExposure_EmptyBook(t *testing.T) {
	assert.Empty(t, SectorExposure(nil))
}

func TestWouldExceedSectorLimit(t *testing.T) {
	positions := []dto.Position{
		{Symbol: "MSFT", CurrentPrice: 4, Shares: 10}, // Technology, value 40
	}

	// Adding 10 of AAPL makes Technology 50 of a 100 portfolio.
	assert.True(t, WouldExceedSectorLimit("AAPL", 10, positions, 100, 0.3))
	// Energy has no existing exposure.
	assert.False(t, WouldExceedSectorLimit("XOM", 10, positions, 100, 0.3))
	// Zero portfolio value never blocks.
	assert.False(t, WouldExceedSectorLimit("AAPL", 10, positions, 0, 0.3))
}

func TestFilterByPortfolioConstraints(t *testing.T) {
	cfg := dto.DefaultStrategyConfig()

	t.Run("full book rejects everything", func(t *testing.T) {
		positions := make([]dto.Position, cfg.Allocation.MaxPositions)
		for i := range positions {
			positions[i] = dto.Position{Symbol: "SYM", CurrentPrice: 10, Shares: 1}
		}

		got := FilterByPortfolioConstraints([]dto.TradingSignal{buySignalFor("AAPL")}, positions, 1000, cfg)
		assert.Nil(t, got)
	})

	t.Run("held symbols are skipped", func(t *testing.T) {
		positions := []dto.Position{{Symbol: "AAPL", CurrentPrice: 10, Shares: 1}}

		got := FilterByPortfolioConstraints(
			[]dto.TradingSignal{buySignalFor("AAPL"), buySignalFor("XOM")},
			positions, 1000, cfg,
		)

		assert.Len(t, got, 1)
		assert.Equal(t, "XOM", got[0].Symbol)
	})

	t.Run("capped to free slots preserving order", func(t *testing.T) {
		limited := cfg
		limited.Allocation.MaxPositions = 3

		positions := []dto.Position{
			{Symbol: "JNJ", CurrentPrice: 10, Shares: 1},
			{Symbol: "XOM", CurrentPrice: 10, Shares: 1},
		}

		got := FilterByPortfolioConstraints(
			[]dto.TradingSignal{buySignalFor("CVX"), buySignalFor("PG"), buySignalFor("KO")},
			positions, 0, limited,
		)

		assert.Len(t, got, 1)
		assert.Equal(t, "CVX", got[0].Symbol)
	})

	t.Run("sector limit filters concentrated candidates", func(t *testing.T) {
		positions := []dto.Position{
			{Symbol: "MSFT", CurrentPrice: 40, Shares: 1}, // Technology, value 40
		}

		got := FilterByPortfolioConstraints(
			[]dto.TradingSignal{buySignalFor("AAPL"), buySignalFor("XOM")},
			positions, 100, cfg,
		)

		assert.Len(t, got, 1)
		assert.Equal(t, "XOM", got[0].Symbol)
	})

	t.Run("empty book passes candidates through", func(t *testing.T) {
		got := FilterByPortfolioConstraints(
			[]dto.TradingSignal{buySignalFor("AAPL"), buySignalFor("XOM")},
			nil, 0, cfg,
		)
		assert.Len(t, got, 2)
	})
}
