package repository

import (
	"context"
	"fmt"
	"time"

	"stock-strategy/config"
	"stock-strategy/internal/dto"
	"stock-strategy/internal/indicator"
	"stock-strategy/pkg/cache"
	"stock-strategy/pkg/common"
	"stock-strategy/pkg/logger"
	"stock-strategy/pkg/ratelimit"

	"golang.org/x/sync/errgroup"
	"golang.org/x/time/rate"
)

// MarketDataRepository fronts the vendor clients with a fallback chain:
// Finnhub, then Stooq, then Yahoo, then the synthetic generator. Results are
// cached so repeated scans within the TTL never hit a vendor twice.
type MarketDataRepository interface {
	GetQuote(ctx context.Context, symbol string) (*dto.Quote, string, error)
	GetHistorical(ctx context.Context, symbol string) ([]dto.PriceBar, string, error)
	GetSnapshot(ctx context.Context, symbol string) (*dto.StockSnapshot, error)
	GetSnapshots(ctx context.Context, symbols []string) ([]dto.StockSnapshot, error)
}

type marketDataRepository struct {
	finnhub        FinnhubRepository
	stooq          StooqRepository
	yahoo          YahooFinanceRepository
	synthetic      SyntheticRepository
	cache          cache.Cache
	limiter        *ratelimit.TokenLimiter
	vendorLimiters *ratelimit.LimiterStore
	cfg            *config.Config
	logger         *logger.Logger
}

func NewMarketDataRepository(
	cfg *config.Config,
	log *logger.Logger,
	memCache cache.Cache,
	finnhub FinnhubRepository,
	stooq StooqRepository,
	yahoo YahooFinanceRepository,
	synthetic SyntheticRepository,
) MarketDataRepository {
	return &marketDataRepository{
		finnhub:   finnhub,
		stooq:     stooq,
		yahoo:     yahoo,
		synthetic: synthetic,
		cache:     memCache,
		limiter:   ratelimit.NewTokenLimiter(cfg.MarketData.MaxRequestPerMin),
		// Fallback vendors have no API keys; pace them gently per vendor so a
		// full-watchlist fallback never looks like scraping.
		vendorLimiters: ratelimit.NewLimiterStore(rate.Limit(2), 5),
		cfg:            cfg,
		logger:         log,
	}
}

func (r *marketDataRepository) GetQuote(ctx context.Context, symbol string) (*dto.Quote, string, error) {
	cacheKey := fmt.Sprintf(common.KEY_QUOTE_CACHE, symbol)
	if cached, ok := cache.GetTyped[*dto.Quote](r.cache, cacheKey); ok {
		return cached, "", nil
	}

	quote, source, err := r.fetchQuote(ctx, symbol)
	if err != nil {
		return nil, "", err
	}

	r.cache.Set(cacheKey, quote, r.cfg.Cache.QuoteExpiration)
	return quote, source, nil
}

func (r *marketDataRepository) fetchQuote(ctx context.Context, symbol string) (*dto.Quote, string, error) {
	if r.cfg.MarketData.UseSynthetic {
		quote, err := r.synthetic.GetQuote(ctx, symbol)
		return quote, common.SOURCE_SYNTHETIC, err
	}

	if r.finnhub.Enabled() {
		if err := r.limiter.Wait(ctx, 1); err != nil {
			return nil, "", err
		}
		quote, err := r.finnhub.GetQuote(ctx, symbol)
		if err == nil {
			return quote, common.SOURCE_FINNHUB, nil
		}
		r.logVendorMiss(ctx, common.SOURCE_FINNHUB, symbol, err)
	}

	if err := r.vendorLimiters.GetLimiter(common.SOURCE_STOOQ).Wait(ctx); err != nil {
		return nil, "", err
	}
	if quote, err := r.stooq.GetQuote(ctx, symbol); err == nil {
		return quote, common.SOURCE_STOOQ, nil
	} else {
		r.logVendorMiss(ctx, common.SOURCE_STOOQ, symbol, err)
	}

	if err := r.vendorLimiters.GetLimiter(common.SOURCE_YAHOO).Wait(ctx); err != nil {
		return nil, "", err
	}
	if quote, err := r.yahoo.GetQuote(ctx, symbol); err == nil {
		return quote, common.SOURCE_YAHOO, nil
	} else {
		r.logVendorMiss(ctx, common.SOURCE_YAHOO, symbol, err)
	}

	quote, err := r.synthetic.GetQuote(ctx, symbol)
	return quote, common.SOURCE_SYNTHETIC, err
}

func (r *marketDataRepository) GetHistorical(ctx context.Context, symbol string) ([]dto.PriceBar, string, error) {
	cacheKey := fmt.Sprintf(common.KEY_HISTORICAL_CACHE, symbol)
	if cached, ok := cache.GetTyped[[]dto.PriceBar](r.cache, cacheKey); ok {
		return cached, "", nil
	}

	bars, source, err := r.fetchHistorical(ctx, symbol)
	if err != nil {
		return nil, "", err
	}

	r.cache.Set(cacheKey, bars, r.cfg.Cache.HistoricalExpiration)
	return bars, source, nil
}

func (r *marketDataRepository) fetchHistorical(ctx context.Context, symbol string) ([]dto.PriceBar, string, error) {
	days := r.cfg.MarketData.HistoryDays

	if r.cfg.MarketData.UseSynthetic {
		bars, err := r.synthetic.GetHistorical(ctx, symbol, days)
		return bars, common.SOURCE_SYNTHETIC, err
	}

	if r.finnhub.Enabled() {
		if err := r.limiter.Wait(ctx, 1); err != nil {
			return nil, "", err
		}
		bars, err := r.finnhub.GetHistorical(ctx, symbol, days)
		if err == nil {
			return bars, common.SOURCE_FINNHUB, nil
		}
		r.logVendorMiss(ctx, common.SOURCE_FINNHUB, symbol, err)
	}

	if err := r.vendorLimiters.GetLimiter(common.SOURCE_STOOQ).Wait(ctx); err != nil {
		return nil, "", err
	}
	if bars, err := r.stooq.GetHistorical(ctx, symbol, days); err == nil {
		return bars, common.SOURCE_STOOQ, nil
	} else {
		r.logVendorMiss(ctx, common.SOURCE_STOOQ, symbol, err)
	}

	if err := r.vendorLimiters.GetLimiter(common.SOURCE_YAHOO).Wait(ctx); err != nil {
		return nil, "", err
	}
	if bars, err := r.yahoo.GetHistorical(ctx, symbol, days); err == nil {
		return bars, common.SOURCE_YAHOO, nil
	} else {
		r.logVendorMiss(ctx, common.SOURCE_YAHOO, symbol, err)
	}

	bars, err := r.synthetic.GetHistorical(ctx, symbol, days)
	return bars, common.SOURCE_SYNTHETIC, err
}

// GetSnapshot fetches the quote and history for one symbol and derives the
// indicators the signal engine reads.
func (r *marketDataRepository) GetSnapshot(ctx context.Context, symbol string) (*dto.StockSnapshot, error) {
	quote, quoteSource, err := r.GetQuote(ctx, symbol)
	if err != nil {
		return nil, fmt.Errorf("quote %s: %w", symbol, err)
	}

	bars, barsSource, err := r.GetHistorical(ctx, symbol)
	if err != nil {
		return nil, fmt.Errorf("historical %s: %w", symbol, err)
	}

	if quoteSource != "" || barsSource != "" {
		r.logger.DebugContext(ctx, "Fetched market data",
			logger.StringField("symbol", symbol),
			logger.StringField("quote_source", quoteSource),
			logger.StringField("historical_source", barsSource),
		)
	}

	snapshot := &dto.StockSnapshot{
		Symbol:         symbol,
		Price:          quote.Price,
		Change:         quote.Change,
		ChangePercent:  quote.ChangePercent,
		Volume:         quote.Volume,
		MA200:          indicator.MovingAverage(bars, 200),
		MA50:           indicator.MovingAverage(bars, 50),
		RSI:            indicator.RelativeStrengthIndex(bars, indicator.DefaultRSIPeriod),
		MarketCap:      quote.MarketCap,
		PERatio:        quote.PERatio,
		Timestamp:      time.Now().UTC(),
		HistoricalData: bars,
	}
	if snapshot.Volume == 0 && len(bars) > 0 {
		snapshot.Volume = bars[len(bars)-1].Volume
	}
	return snapshot, nil
}

// GetSnapshots fetches symbols concurrently, bounded by the scanner
// concurrency limit. A failed symbol is logged and skipped rather than
// failing the whole batch.
func (r *marketDataRepository) GetSnapshots(ctx context.Context, symbols []string) ([]dto.StockSnapshot, error) {
	results := make([]*dto.StockSnapshot, len(symbols))

	g, gCtx := errgroup.WithContext(ctx)
	g.SetLimit(r.cfg.Scanner.MaxConcurrency)

	for i, symbol := range symbols {
		g.Go(func() error {
			snapshot, err := r.GetSnapshot(gCtx, symbol)
			if err != nil {
				r.logger.WarnContext(gCtx, "Skipping symbol",
					logger.StringField("symbol", symbol),
					logger.ErrorField(err),
				)
				return nil
			}
			results[i] = snapshot
			return nil
		})
	}
	if err := g.Wait(); err != nil {
		return nil, err
	}

	snapshots := make([]dto.StockSnapshot, 0, len(symbols))
	for _, snapshot := range results {
		if snapshot != nil {
			snapshots = append(snapshots, *snapshot)
		}
	}
	return snapshots, nil
}

func (r *marketDataRepository) logVendorMiss(ctx context.Context, source, symbol string, err error) {
	r.logger.WarnContext(ctx, "Vendor fetch failed, trying next source",
		logger.StringField("source", source),
		logger.StringField("symbol", symbol),
		logger.ErrorField(err),
	)
}
