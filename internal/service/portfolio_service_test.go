package service

import (
	"testing"
	"time"

	"stock-strategy/internal/dto"
	"stock-strategy/internal/strategy"

	"github.com/stretchr/testify/assert"
)

func TestFormatSellMessage(t *testing.T) {
	entryDate := time.Date(2026, 7, 1, 0, 0, 0, 0, time.UTC)
	position := dto.Position{
		ID:         "AAPL-1",
		Symbol:     "AAPL",
		EntryPrice: 100,
		Shares:     50,
		EntryDate:  entryDate,
	}
	snapshot := dto.StockSnapshot{
		Symbol:    "AAPL",
		Price:     111.5,
		RSI:       55,
		Timestamp: entryDate.AddDate(0, 0, 5),
	}

	signal := strategy.SellSignal(&position, &snapshot, dto.DefaultStrategyConfig())
	message := formatSellMessage(signal, position.EntryPrice)

	assert.Contains(t, message, "*SELL AAPL*")
	assert.Contains(t, message, "$111.50")
	assert.Contains(t, message, "entry $100.00")
	// 111.5 clears the +10% target, so the signal carries that reason.
	assert.Contains(t, message, "Target")
	assert.Equal(t, dto.SignalSell, signal.SignalType)
	assert.Equal(t, 100, signal.SignalStrength)
}
