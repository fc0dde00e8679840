package strategy

import (
	"fmt"
	"testing"
	"time"

	"stock-strategy/internal/dto"

	"github.com/stretchr/testify/assert"
)

func TestSignalStrength(t *testing.T) {
	tests := []struct {
		name        string
		rsi         float64
		dipPercent  float64
		volumeRatio float64
		aboveMA     bool
		want        int
	}{
		{
			name:        "moderate setup",
			rsi:         25,
			dipPercent:  -5,
			volumeRatio: 1,
			aboveMA:     true,
			// (30-25) + 15 + 10 + 20
			want: 50,
		},
		{
			name:        "rsi at 30 scores no oversold points",
			rsi:         30,
			dipPercent:  -5,
			volumeRatio: 1,
			aboveMA:     false,
			want:        25,
		},
		{
			name:        "deep dip capped at 30",
			rsi:         50,
			dipPercent:  -25,
			volumeRatio: 0,
			aboveMA:     false,
			want:        30,
		},
		{
			name:        "volume component capped at 20",
			rsi:         50,
			dipPercent:  0,
			volumeRatio: 10,
			aboveMA:     false,
			want:        20,
		},
		{
			name:        "everything maxed caps at 100",
			rsi:         0,
			dipPercent:  -50,
			volumeRatio: 10,
			aboveMA:     true,
			want:        100,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := SignalStrength(tt.rsi, tt.dipPercent, tt.volumeRatio, tt.aboveMA)
			assert.Equal(t, tt.want, got)
			assert.GreaterOrEqual(t, got, 0)
			assert.LessOrEqual(t, got, 100)
		})
	}
}

func TestTargetAndStopPrices(t *testing.T) {
	assert.InDelta(t, 110, TargetPrice(100, 10), 1e-9)
	assert.InDelta(t, 92, StopLossPrice(100, 8), 1e-9)
	assert.InDelta(t, 55, TargetPrice(50, 10), 1e-9)
	assert.InDelta(t, 46, StopLossPrice(50, 8), 1e-9)
}

func TestBuySignal(t *testing.T) {
	cfg := dto.DefaultStrategyConfig()
	timestamp := time.Date(2024, 6, 3, 15, 0, 0, 0, time.UTC)

	snapshot := qualifyingSnapshot()
	snapshot.Timestamp = timestamp

	signal := BuySignal(snapshot, cfg)

	assert.Equal(t, dto.SignalBuy, signal.SignalType)
	assert.Equal(t, "AAPL", signal.Symbol)
	assert.Equal(t, fmt.Sprintf("AAPL-%d", timestamp.Unix()), signal.ID)
	assert.InDelta(t, 121, signal.TargetPrice, 1e-9)
	assert.InDelta(t, 101.2, signal.StopLoss, 1e-9)
	assert.NotEmpty(t, signal.Reasons)
	assert.Greater(t, signal.SignalStrength, 0)
}

func TestSellSignal_AlwaysFullStrength(t *testing.T) {
	cfg := dto.DefaultStrategyConfig()
	timestamp := time.Date(2024, 6, 3, 15, 0, 0, 0, time.UTC)

	position := &dto.Position{
		Symbol:     "AAPL",
		EntryPrice: 100,
		Shares:     10,
		EntryDate:  timestamp.AddDate(0, 0, -10),
	}
	snapshot := &dto.StockSnapshot{Symbol: "AAPL", Price: 112, RSI: 60, Timestamp: timestamp}

	signal := SellSignal(position, snapshot, cfg)

	assert.Equal(t, dto.SignalSell, signal.SignalType)
	assert.Equal(t, 100, signal.SignalStrength)
	assert.NotEmpty(t, signal.Reasons)
}
