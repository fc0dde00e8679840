package service

import (
	"context"
	"fmt"
	"strings"
	"time"

	"stock-strategy/config"
	"stock-strategy/internal/dto"
	"stock-strategy/internal/model"
	"stock-strategy/internal/repository"
	"stock-strategy/internal/strategy"
	"stock-strategy/pkg/common"
	"stock-strategy/pkg/logger"
	"stock-strategy/pkg/telegram"
	"stock-strategy/pkg/utils"
)

type OpenPositionRequest struct {
	Symbol     string  `json:"symbol" validate:"required"`
	EntryPrice float64 `json:"entry_price" validate:"gt=0"`
	Shares     int64   `json:"shares" validate:"gt=0"`
}

type PortfolioService interface {
	OpenPosition(ctx context.Context, req OpenPositionRequest) (*model.StockPosition, error)
	ClosePosition(ctx context.Context, symbol string, reasons string) (*model.StockPosition, error)
	ActivePositions(ctx context.Context) ([]dto.Position, float64, error)
	SectorBreakdown(ctx context.Context) (map[string]float64, error)
	History(ctx context.Context, limit int) ([]model.StockPosition, error)
	MonitorPositions(ctx context.Context) error
}

type portfolioService struct {
	cfg            *config.Config
	log            *logger.Logger
	positionsRepo  repository.StockPositionsRepository
	marketDataRepo repository.MarketDataRepository
	notifier       *telegram.Notifier
}

func NewPortfolioService(
	cfg *config.Config,
	log *logger.Logger,
	positionsRepo repository.StockPositionsRepository,
	marketDataRepo repository.MarketDataRepository,
	notifier *telegram.Notifier,
) PortfolioService {
	return &portfolioService{
		cfg:            cfg,
		log:            log,
		positionsRepo:  positionsRepo,
		marketDataRepo: marketDataRepo,
		notifier:       notifier,
	}
}

func (s *portfolioService) OpenPosition(ctx context.Context, req OpenPositionRequest) (*model.StockPosition, error) {
	if req.EntryPrice <= 0 {
		return nil, fmt.Errorf("entry price must be positive")
	}
	if existing, err := s.positionsRepo.GetActiveBySymbol(ctx, req.Symbol); err == nil && existing != nil {
		return nil, fmt.Errorf("position already open for %s", req.Symbol)
	}

	position := &model.StockPosition{
		Symbol:     req.Symbol,
		Sector:     common.SectorOf(req.Symbol),
		EntryPrice: req.EntryPrice,
		Shares:     req.Shares,
		EntryDate:  time.Now().UTC(),
		IsActive:   utils.ToPointer(true),
	}
	if err := s.positionsRepo.Create(ctx, position); err != nil {
		return nil, err
	}

	s.log.InfoContext(ctx, "Opened position",
		logger.StringField("symbol", req.Symbol),
		logger.Float64Field("entry_price", req.EntryPrice),
		logger.IntField("shares", int(req.Shares)),
	)
	return position, nil
}

func (s *portfolioService) ClosePosition(ctx context.Context, symbol string, reasons string) (*model.StockPosition, error) {
	position, err := s.positionsRepo.GetActiveBySymbol(ctx, symbol)
	if err != nil {
		return nil, fmt.Errorf("no active position for %s: %w", symbol, err)
	}

	quote, _, err := s.marketDataRepo.GetQuote(ctx, symbol)
	if err != nil {
		return nil, fmt.Errorf("quote %s: %w", symbol, err)
	}
	if quote.Price <= 0 {
		return nil, fmt.Errorf("refusing to close %s at non-positive price", symbol)
	}

	exitDate := time.Now().UTC()
	if err := s.positionsRepo.Close(ctx, position.ID, quote.Price, exitDate, reasons); err != nil {
		return nil, err
	}

	position.IsActive = utils.ToPointer(false)
	position.ExitPrice = utils.ToPointer(quote.Price)
	position.ExitDate = utils.ToPointer(exitDate)
	position.ExitReasons = utils.ToPointer(reasons)

	s.log.InfoContext(ctx, "Closed position",
		logger.StringField("symbol", symbol),
		logger.Float64Field("exit_price", quote.Price),
		logger.StringField("reasons", reasons),
	)
	return position, nil
}

// ActivePositions returns open positions marked to the latest quotes, plus the
// total portfolio value. A symbol whose quote fails is marked at its entry
// price rather than dropped.
func (s *portfolioService) ActivePositions(ctx context.Context) ([]dto.Position, float64, error) {
	records, err := s.positionsRepo.GetActive(ctx)
	if err != nil {
		return nil, 0, err
	}

	positions := make([]dto.Position, 0, len(records))
	var totalValue float64
	for _, record := range records {
		currentPrice := record.EntryPrice
		if quote, _, err := s.marketDataRepo.GetQuote(ctx, record.Symbol); err == nil && quote.Price > 0 {
			currentPrice = quote.Price
		}

		position := dto.Position{
			ID:           fmt.Sprintf("%d", record.ID),
			Symbol:       record.Symbol,
			Sector:       record.Sector,
			EntryPrice:   record.EntryPrice,
			CurrentPrice: currentPrice,
			Shares:       record.Shares,
			EntryDate:    record.EntryDate,
		}
		position.UnrealizedPnL = (currentPrice - record.EntryPrice) * float64(record.Shares)
		if record.EntryPrice > 0 {
			position.PercentGain = (currentPrice - record.EntryPrice) / record.EntryPrice * 100
		}

		totalValue += position.Value()
		positions = append(positions, position)
	}
	return positions, totalValue, nil
}

func (s *portfolioService) SectorBreakdown(ctx context.Context) (map[string]float64, error) {
	positions, _, err := s.ActivePositions(ctx)
	if err != nil {
		return nil, err
	}
	return strategy.SectorExposure(positions), nil
}

// History returns the most recently entered positions, open and closed.
func (s *portfolioService) History(ctx context.Context, limit int) ([]model.StockPosition, error) {
	if limit <= 0 {
		limit = 50
	}
	return s.positionsRepo.GetHistory(ctx, limit)
}

// MonitorPositions evaluates every open position against the exit rules and
// sends an alert for each one that should be sold. Positions are not closed
// automatically; the operator decides.
func (s *portfolioService) MonitorPositions(ctx context.Context) error {
	positions, _, err := s.ActivePositions(ctx)
	if err != nil {
		return err
	}
	if len(positions) == 0 {
		return nil
	}

	strategyConfig := dto.DefaultStrategyConfig()
	now := time.Now().UTC()

	for i := range positions {
		snapshot, err := s.marketDataRepo.GetSnapshot(ctx, positions[i].Symbol)
		if err != nil {
			s.log.WarnContext(ctx, "Skipping position check",
				logger.StringField("symbol", positions[i].Symbol),
				logger.ErrorField(err),
			)
			continue
		}

		evaluation := strategy.EvaluateExit(&positions[i], snapshot, now, strategyConfig)
		if !evaluation.Meets {
			continue
		}

		signal := strategy.SellSignal(&positions[i], snapshot, strategyConfig)
		s.log.InfoContext(ctx, "Exit condition met",
			logger.StringField("symbol", signal.Symbol),
			logger.StringField("reasons", strings.Join(signal.Reasons, "; ")),
		)
		if s.notifier != nil && s.notifier.Enabled() {
			if err := s.notifier.SendMessage(ctx, formatSellMessage(signal, positions[i].EntryPrice)); err != nil {
				s.log.ErrorContext(ctx, "Failed to send exit alert", logger.ErrorField(err))
			}
		}
	}
	return nil
}

// formatSellMessage renders a sell signal as a Telegram markdown alert.
func formatSellMessage(signal dto.TradingSignal, entryPrice float64) string {
	var b strings.Builder
	fmt.Fprintf(&b, "*SELL %s* at $%.2f (entry $%.2f)", signal.Symbol, signal.TargetPrice, entryPrice)
	for _, reason := range signal.Reasons {
		fmt.Fprintf(&b, "\n- %s", reason)
	}
	return b.String()
}
