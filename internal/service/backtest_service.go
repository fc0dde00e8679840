package service

import (
	"context"
	"time"

	"stock-strategy/config"
	"stock-strategy/internal/backtest"
	"stock-strategy/internal/dto"
	"stock-strategy/internal/model"
	"stock-strategy/internal/repository"
	"stock-strategy/pkg/common"
	"stock-strategy/pkg/logger"
)

type BacktestService interface {
	RunBacktest(ctx context.Context, req dto.BacktestRequest) (*dto.BacktestResult, uint, error)
	GetRun(ctx context.Context, id uint) (*model.BacktestRun, error)
	GetRecentRuns(ctx context.Context, limit int) ([]model.BacktestRun, error)
}

type backtestService struct {
	cfg            *config.Config
	log            *logger.Logger
	marketDataRepo repository.MarketDataRepository
	backtestRepo   repository.BacktestRepository
}

func NewBacktestService(
	cfg *config.Config,
	log *logger.Logger,
	marketDataRepo repository.MarketDataRepository,
	backtestRepo repository.BacktestRepository,
) BacktestService {
	return &backtestService{
		cfg:            cfg,
		log:            log,
		marketDataRepo: marketDataRepo,
		backtestRepo:   backtestRepo,
	}
}

// RunBacktest fetches history for the requested symbols, simulates the
// strategy over it and persists the run. Returns the result and the stored
// run ID.
func (s *backtestService) RunBacktest(ctx context.Context, req dto.BacktestRequest) (*dto.BacktestResult, uint, error) {
	cfg := dto.DefaultStrategyConfig()
	if req.Config != nil {
		cfg = *req.Config
	}
	if cfg.RiskFreeRate <= 0 {
		cfg.RiskFreeRate = s.cfg.Backtest.RiskFreeRate
	}

	initialCapital := req.InitialCapital
	if initialCapital <= 0 {
		initialCapital = s.cfg.Backtest.InitialCapital
	}

	start := time.Now()
	instruments := make([]dto.Instrument, 0, len(req.Symbols))
	for _, symbol := range req.Symbols {
		bars, _, err := s.marketDataRepo.GetHistorical(ctx, symbol)
		if err != nil {
			s.log.ErrorContext(ctx, "Failed to fetch history for backtest",
				logger.StringField("symbol", symbol),
				logger.ErrorField(err),
			)
			return nil, 0, err
		}

		quote, _, err := s.marketDataRepo.GetQuote(ctx, symbol)
		if err != nil {
			s.log.WarnContext(ctx, "No fundamentals for backtest symbol",
				logger.StringField("symbol", symbol),
				logger.ErrorField(err),
			)
			quote = &dto.Quote{}
		}

		instruments = append(instruments, dto.Instrument{
			Symbol:    symbol,
			Sector:    common.SectorOf(symbol),
			MarketCap: quote.MarketCap,
			PERatio:   quote.PERatio,
			Bars:      bars,
		})
	}

	result, err := backtest.Run(instruments, initialCapital, cfg)
	if err != nil {
		s.log.ErrorContext(ctx, "Backtest failed", logger.ErrorField(err))
		return nil, 0, err
	}

	run, err := s.backtestRepo.Save(ctx, req.Symbols, initialCapital, cfg, result)
	if err != nil {
		s.log.ErrorContext(ctx, "Failed to persist backtest run", logger.ErrorField(err))
		return nil, 0, err
	}

	s.log.InfoContext(ctx, "Backtest completed",
		logger.IntField("run_id", int(run.ID)),
		logger.IntField("symbols", len(req.Symbols)),
		logger.IntField("trades", result.TotalTrades),
		logger.Float64Field("total_return_pct", result.TotalReturn),
		logger.Field("duration", time.Since(start).String()),
	)
	return result, run.ID, nil
}

func (s *backtestService) GetRun(ctx context.Context, id uint) (*model.BacktestRun, error) {
	return s.backtestRepo.GetByID(ctx, id)
}

func (s *backtestService) GetRecentRuns(ctx context.Context, limit int) ([]model.BacktestRun, error) {
	if limit <= 0 {
		limit = 20
	}
	return s.backtestRepo.GetRecent(ctx, limit)
}
