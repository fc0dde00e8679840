package service

import (
	"context"
	"fmt"
	"sort"
	"strings"
	"time"

	"stock-strategy/config"
	"stock-strategy/internal/dto"
	"stock-strategy/internal/repository"
	"stock-strategy/internal/strategy"
	"stock-strategy/pkg/cache"
	"stock-strategy/pkg/common"
	"stock-strategy/pkg/logger"
	"stock-strategy/pkg/telegram"
	"stock-strategy/pkg/utils"
)

type ScannerService interface {
	Scan(ctx context.Context) ([]dto.TradingSignal, error)
	LatestSignals() []dto.TradingSignal
}

type scannerService struct {
	cfg              *config.Config
	log              *logger.Logger
	cache            cache.Cache
	marketDataRepo   repository.MarketDataRepository
	portfolioService PortfolioService
	notifier         *telegram.Notifier
}

func NewScannerService(
	cfg *config.Config,
	log *logger.Logger,
	memCache cache.Cache,
	marketDataRepo repository.MarketDataRepository,
	portfolioService PortfolioService,
	notifier *telegram.Notifier,
) ScannerService {
	return &scannerService{
		cfg:              cfg,
		log:              log,
		cache:            memCache,
		marketDataRepo:   marketDataRepo,
		portfolioService: portfolioService,
		notifier:         notifier,
	}
}

// Scan evaluates the watchlist against the entry rules, ranks the qualifying
// buy signals by strength, trims them to what the live portfolio can take, and
// pushes alerts for the strongest ones.
func (s *scannerService) Scan(ctx context.Context) ([]dto.TradingSignal, error) {
	configured := s.cfg.Scanner.Watchlist
	if len(configured) == 0 {
		configured = common.DefaultWatchlist()
	}

	// Operator-supplied watchlists may repeat symbols; fetch each once.
	watchlist := make([]string, 0, len(configured))
	for _, symbol := range configured {
		if !utils.ContainsString(watchlist, symbol) {
			watchlist = append(watchlist, symbol)
		}
	}

	start := time.Now()
	s.log.InfoContext(ctx, "Starting watchlist scan", logger.IntField("symbols", len(watchlist)))

	snapshots, err := s.marketDataRepo.GetSnapshots(ctx, watchlist)
	if err != nil {
		return nil, err
	}

	strategyConfig := dto.DefaultStrategyConfig()

	var signals []dto.TradingSignal
	for i := range snapshots {
		evaluation := strategy.EvaluateEntry(&snapshots[i], strategyConfig)
		if !evaluation.Meets {
			continue
		}
		signals = append(signals, strategy.BuySignal(&snapshots[i], strategyConfig))
	}

	sort.SliceStable(signals, func(i, j int) bool {
		return signals[i].SignalStrength > signals[j].SignalStrength
	})

	positions, portfolioValue, err := s.portfolioService.ActivePositions(ctx)
	if err != nil {
		s.log.WarnContext(ctx, "Could not load positions, skipping portfolio constraints", logger.ErrorField(err))
	} else {
		signals = strategy.FilterByPortfolioConstraints(signals, positions, portfolioValue, strategyConfig)
	}

	s.cache.Set(common.KEY_SIGNAL_SCAN, signals, s.cfg.Cache.DefaultExpiration)

	s.log.InfoContext(ctx, "Scan completed",
		logger.IntField("scanned", len(snapshots)),
		logger.IntField("signals", len(signals)),
		logger.Field("duration", time.Since(start).String()),
	)

	s.notifySignals(ctx, signals)
	return signals, nil
}

// LatestSignals returns the most recent scan result still in cache.
func (s *scannerService) LatestSignals() []dto.TradingSignal {
	signals, ok := cache.GetTyped[[]dto.TradingSignal](s.cache, common.KEY_SIGNAL_SCAN)
	if !ok {
		return nil
	}
	return signals
}

func (s *scannerService) notifySignals(ctx context.Context, signals []dto.TradingSignal) {
	if s.notifier == nil || !s.notifier.Enabled() {
		return
	}

	for _, signal := range signals {
		if signal.SignalStrength < s.cfg.Scanner.MinNotifyScore {
			continue
		}
		if err := s.notifier.SendMessage(ctx, formatSignalMessage(signal)); err != nil {
			s.log.ErrorContext(ctx, "Failed to send signal alert",
				logger.StringField("symbol", signal.Symbol),
				logger.ErrorField(err),
			)
		}
	}
}

func formatSignalMessage(signal dto.TradingSignal) string {
	var b strings.Builder
	fmt.Fprintf(&b, "*%s Signal: %s* (strength %d)\n", signal.SignalType, signal.Symbol, signal.SignalStrength)
	fmt.Fprintf(&b, "Entry: $%.2f | Target: $%.2f | Stop: $%.2f\n", signal.EntryPrice, signal.TargetPrice, signal.StopLoss)
	for _, reason := range signal.Reasons {
		fmt.Fprintf(&b, "- %s\n", reason)
	}
	return b.String()
}
