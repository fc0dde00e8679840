package repository

import (
	"context"
	"encoding/json"
	"strings"

	"stock-strategy/internal/dto"
	"stock-strategy/internal/model"

	"gorm.io/gorm"
)

type BacktestRepository interface {
	Save(ctx context.Context, symbols []string, initialCapital float64, cfg dto.StrategyConfig, result *dto.BacktestResult) (*model.BacktestRun, error)
	GetByID(ctx context.Context, id uint) (*model.BacktestRun, error)
	GetRecent(ctx context.Context, limit int) ([]model.BacktestRun, error)
}

type backtestRepository struct {
	db *gorm.DB
}

func NewBacktestRepository(db *gorm.DB) BacktestRepository {
	return &backtestRepository{db: db}
}

// Save persists the run summary and its trade ledger in one transaction.
func (r *backtestRepository) Save(ctx context.Context, symbols []string, initialCapital float64, cfg dto.StrategyConfig, result *dto.BacktestResult) (*model.BacktestRun, error) {
	configJSON, err := json.Marshal(cfg)
	if err != nil {
		return nil, err
	}
	curveJSON, err := json.Marshal(result.EquityCurve)
	if err != nil {
		return nil, err
	}

	run := &model.BacktestRun{
		Symbols:          strings.Join(symbols, ","),
		InitialCapital:   initialCapital,
		TotalReturn:      result.TotalReturn,
		AnnualizedReturn: result.AnnualizedReturn,
		SharpeRatio:      result.SharpeRatio,
		MaxDrawdown:      result.MaxDrawdown,
		WinRate:          result.WinRate,
		TotalTrades:      result.TotalTrades,
		ProfitableTrades: result.ProfitableTrades,
		Config:           configJSON,
		EquityCurve:      curveJSON,
	}

	for _, trade := range result.Trades {
		run.Trades = append(run.Trades, model.BacktestTrade{
			Symbol:      trade.Symbol,
			Side:        string(trade.Side),
			Price:       trade.Price,
			Shares:      trade.Shares,
			TradeDate:   trade.Date,
			PnL:         trade.PnL,
			PercentGain: trade.PercentGain,
		})
	}

	if err := r.db.WithContext(ctx).Create(run).Error; err != nil {
		return nil, err
	}
	return run, nil
}

func (r *backtestRepository) GetByID(ctx context.Context, id uint) (*model.BacktestRun, error) {
	var run model.BacktestRun
	err := r.db.WithContext(ctx).Preload("Trades").First(&run, id).Error
	if err != nil {
		return nil, err
	}
	return &run, nil
}

func (r *backtestRepository) GetRecent(ctx context.Context, limit int) ([]model.BacktestRun, error) {
	var runs []model.BacktestRun
	err := r.db.WithContext(ctx).Order("created_at DESC").Limit(limit).Find(&runs).Error
	if err != nil {
		return nil, err
	}
	return runs, nil
}
