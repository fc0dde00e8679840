package repository

import (
	"stock-strategy/config"
	"stock-strategy/pkg/cache"
	"stock-strategy/pkg/logger"

	"gorm.io/gorm"
)

type Repository struct {
	FinnhubRepo        FinnhubRepository
	StooqRepo          StooqRepository
	YahooFinanceRepo   YahooFinanceRepository
	SyntheticRepo      SyntheticRepository
	MarketDataRepo     MarketDataRepository
	BacktestRepo       BacktestRepository
	StockPositionsRepo StockPositionsRepository
}

func NewRepository(cfg *config.Config, db *gorm.DB, log *logger.Logger, memCache cache.Cache) *Repository {
	finnhub := NewFinnhubRepository(cfg, log)
	stooq := NewStooqRepository(cfg, log)
	yahoo := NewYahooFinanceRepository(cfg, log)
	synthetic := NewSyntheticRepository()

	return &Repository{
		FinnhubRepo:        finnhub,
		StooqRepo:          stooq,
		YahooFinanceRepo:   yahoo,
		SyntheticRepo:      synthetic,
		MarketDataRepo:     NewMarketDataRepository(cfg, log, memCache, finnhub, stooq, yahoo, synthetic),
		BacktestRepo:       NewBacktestRepository(db),
		StockPositionsRepo: NewStockPositionsRepository(db),
	}
}
