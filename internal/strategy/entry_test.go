package strategy

import (
	"strings"
	"testing"

	"stock-strategy/internal/dto"

	"github.com/stretchr/testify/assert"
)

func qualifyingSnapshot() *dto.StockSnapshot {
	return &dto.StockSnapshot{
		Symbol:        "AAPL",
		Price:         110,
		ChangePercent: -6,
		Volume:        2_000_000,
		MA200:         100,
		RSI:           25,
		MarketCap:     50_000_000_000,
		PERatio:       20,
	}
}

func TestEvaluateEntry(t *testing.T) {
	cfg := dto.DefaultStrategyConfig()

	tests := []struct {
		name     string
		mutate   func(*dto.StockSnapshot)
		want     bool
		contains string
	}{
		{
			name:   "all conditions met",
			mutate: func(s *dto.StockSnapshot) {},
			want:   true,
		},
		{
			name:     "no dip",
			mutate:   func(s *dto.StockSnapshot) { s.ChangePercent = -2 },
			want:     false,
			contains: "No significant dip",
		},
		{
			name:     "price below trend MA",
			mutate:   func(s *dto.StockSnapshot) { s.Price = 90 },
			want:     false,
			contains: "below 200-MA",
		},
		{
			name:     "missing trend MA counts against entry",
			mutate:   func(s *dto.StockSnapshot) { s.MA200 = 0 },
			want:     false,
			contains: "below 200-MA",
		},
		{
			name:     "not oversold",
			mutate:   func(s *dto.StockSnapshot) { s.RSI = 45 },
			want:     false,
			contains: "not oversold",
		},
		{
			name:     "market cap too small",
			mutate:   func(s *dto.StockSnapshot) { s.MarketCap = 5_000_000_000 },
			want:     false,
			contains: "Market cap",
		},
		{
			name:     "pe ratio too high",
			mutate:   func(s *dto.StockSnapshot) { s.PERatio = 60 },
			want:     false,
			contains: "P/E ratio",
		},
		{
			name:   "negative pe passes as unavailable",
			mutate: func(s *dto.StockSnapshot) { s.PERatio = -1 },
			want:   true,
		},
		{
			name:     "volume too thin",
			mutate:   func(s *dto.StockSnapshot) { s.Volume = 100_000 },
			want:     false,
			contains: "Volume",
		},
		{
			name:     "dip exactly at threshold qualifies",
			mutate:   func(s *dto.StockSnapshot) { s.ChangePercent = -5 },
			want:     true,
			contains: "Dropped",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			snapshot := qualifyingSnapshot()
			tt.mutate(snapshot)

			got := EvaluateEntry(snapshot, cfg)
			assert.Equal(t, tt.want, got.Meets)
			assert.NotEmpty(t, got.Reasons)
			if tt.contains != "" {
				found := false
				for _, reason := range got.Reasons {
					if strings.Contains(reason, tt.contains) {
						found = true
					}
				}
				assert.True(t, found, "expected a reason containing %q, got %v", tt.contains, got.Reasons)
			}
		})
	}
}

func TestEvaluateEntry_ReasonsOnSuccess(t *testing.T) {
	got := EvaluateEntry(qualifyingSnapshot(), dto.DefaultStrategyConfig())

	assert.True(t, got.Meets)
	assert.Len(t, got.Reasons, 4)
}
