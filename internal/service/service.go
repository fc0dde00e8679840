package service

import (
	"stock-strategy/config"
	"stock-strategy/internal/repository"
	"stock-strategy/pkg/cache"
	"stock-strategy/pkg/logger"
	"stock-strategy/pkg/telegram"
)

type Service struct {
	BacktestService  BacktestService
	ScannerService   ScannerService
	PortfolioService PortfolioService
	SchedulerService SchedulerService
}

func NewService(
	cfg *config.Config,
	log *logger.Logger,
	repo *repository.Repository,
	inmemoryCache cache.Cache,
	notifier *telegram.Notifier,
) *Service {
	backtestService := NewBacktestService(cfg, log, repo.MarketDataRepo, repo.BacktestRepo)
	portfolioService := NewPortfolioService(cfg, log, repo.StockPositionsRepo, repo.MarketDataRepo, notifier)
	scannerService := NewScannerService(cfg, log, inmemoryCache, repo.MarketDataRepo, portfolioService, notifier)
	schedulerService := NewSchedulerService(cfg, log, scannerService, portfolioService)

	return &Service{
		BacktestService:  backtestService,
		ScannerService:   scannerService,
		PortfolioService: portfolioService,
		SchedulerService: schedulerService,
	}
}
