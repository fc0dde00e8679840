package repository

import (
	"context"
	"testing"

	"stock-strategy/pkg/utils"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestSyntheticRepository_Deterministic(t *testing.T) {
	repo := NewSyntheticRepository()
	ctx := context.Background()

	first, err := repo.GetHistorical(ctx, "AAPL", 300)
	require.NoError(t, err)
	second, err := repo.GetHistorical(ctx, "AAPL", 300)
	require.NoError(t, err)

	assert.Equal(t, first, second)
}

func TestSyntheticRepository_DifferentSymbolsDiffer(t *testing.T) {
	repo := NewSyntheticRepository()
	ctx := context.Background()

	aapl, err := repo.GetHistorical(ctx, "AAPL", 100)
	require.NoError(t, err)
	msft, err := repo.GetHistorical(ctx, "MSFT", 100)
	require.NoError(t, err)

	assert.NotEqual(t, aapl[len(aapl)-1].Close, msft[len(msft)-1].Close)
}

func TestSyntheticRepository_BarShape(t *testing.T) {
	repo := NewSyntheticRepository()

	bars, err := repo.GetHistorical(context.Background(), "NVDA", 400)
	require.NoError(t, err)
	require.NotEmpty(t, bars)

	for i, bar := range bars {
		assert.False(t, utils.IsWeekend(bar.Date), "bar %d falls on a weekend", i)
		assert.Greater(t, bar.Close, 0.0)
		assert.GreaterOrEqual(t, bar.High, bar.Low)
		assert.GreaterOrEqual(t, bar.Volume, 1e6)
		if i > 0 {
			assert.True(t, bar.Date.After(bars[i-1].Date), "dates must be strictly ascending")
		}
	}
}

func TestSyntheticRepository_Quote(t *testing.T) {
	repo := NewSyntheticRepository()

	quote, err := repo.GetQuote(context.Background(), "AAPL")
	require.NoError(t, err)

	assert.Greater(t, quote.Price, 0.0)
	assert.GreaterOrEqual(t, quote.MarketCap, 50e9)
	assert.Greater(t, quote.PERatio, 0.0)
}
