package repository

import (
	"context"
	"fmt"
	"math"
	"time"

	"stock-strategy/internal/dto"
	"stock-strategy/pkg/utils"
)

// SyntheticRepository generates deterministic price history so the system
// stays usable when every real vendor is unreachable. The same symbol always
// produces the same series for a given start date.
type SyntheticRepository interface {
	GetQuote(ctx context.Context, symbol string) (*dto.Quote, error)
	GetHistorical(ctx context.Context, symbol string, days int) ([]dto.PriceBar, error)
}

type syntheticRepository struct {
	now func() time.Time
}

func NewSyntheticRepository() SyntheticRepository {
	return &syntheticRepository{now: time.Now}
}

func (r *syntheticRepository) GetQuote(_ context.Context, symbol string) (*dto.Quote, error) {
	bars, err := r.GetHistorical(context.Background(), symbol, 10)
	if err != nil {
		return nil, err
	}
	if len(bars) < 2 {
		return nil, fmt.Errorf("synthetic series too short for %s", symbol)
	}

	last := bars[len(bars)-1]
	prev := bars[len(bars)-2]
	change := last.Close - prev.Close

	seed := symbolSeed(symbol)
	return &dto.Quote{
		Price:         last.Close,
		Change:        change,
		ChangePercent: change / prev.Close * 100,
		Volume:        last.Volume,
		MarketCap:     float64(50+seed%250) * 1e9,
		PERatio:       float64(10 + seed%25),
	}, nil
}

func (r *syntheticRepository) GetHistorical(_ context.Context, symbol string, days int) ([]dto.PriceBar, error) {
	seed := symbolSeed(symbol)
	price := float64(100 + seed%400)
	today := utils.TruncateToDay(r.now().UTC())

	bars := make([]dto.PriceBar, 0, days)
	for i := days; i >= 0; i-- {
		date := today.AddDate(0, 0, -i)
		if utils.IsWeekend(date) {
			continue
		}

		// Slight upward bias keeps long synthetic series trending like a
		// broad equity index.
		changePct := (seededRandom(seed+i) - 0.48) * 3
		price = price * (1 + changePct/100)

		open := price * (1 + (seededRandom(seed+i*2)-0.5)*0.01)
		high := math.Max(open, price) * (1 + seededRandom(seed+i*3)*0.015)
		low := math.Min(open, price) * (1 - seededRandom(seed+i*4)*0.015)
		volume := math.Floor(1e6 + seededRandom(seed+i*5)*9e6)

		bars = append(bars, dto.PriceBar{
			Date:   date,
			Open:   round2(open),
			High:   round2(high),
			Low:    round2(low),
			Close:  round2(price),
			Volume: volume,
		})
	}
	return bars, nil
}

func symbolSeed(symbol string) int {
	seed := 0
	for _, ch := range symbol {
		seed += int(ch)
	}
	return seed
}

// seededRandom maps an integer seed to a pseudo-random value in [0, 1).
func seededRandom(seed int) float64 {
	x := math.Sin(float64(seed)) * 10000
	return x - math.Floor(x)
}

func round2(v float64) float64 {
	return math.Round(v*100) / 100
}
