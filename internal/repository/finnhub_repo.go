package repository

import (
	"context"
	"fmt"
	"net/http"
	"time"

	"stock-strategy/config"
	"stock-strategy/internal/dto"
	"stock-strategy/pkg/httpclient"
	"stock-strategy/pkg/logger"
	"stock-strategy/pkg/utils"

	"golang.org/x/time/rate"
)

const (
	finnhubMaxRateLimitRetries = 3
	finnhubRateLimitBackoff    = time.Second
)

type FinnhubRepository interface {
	GetQuote(ctx context.Context, symbol string) (*dto.Quote, error)
	GetHistorical(ctx context.Context, symbol string, days int) ([]dto.PriceBar, error)
	Enabled() bool
}

type finnhubRepository struct {
	httpClient     httpclient.HTTPClient
	cfg            *config.Config
	logger         *logger.Logger
	requestLimiter *rate.Limiter
}

// NewFinnhubRepository creates the primary vendor client. It is disabled when
// no API key is configured and the fetch chain skips straight to the fallback
// vendors.
func NewFinnhubRepository(cfg *config.Config, log *logger.Logger) FinnhubRepository {
	maxPerMin := cfg.MarketData.MaxRequestPerMin
	if maxPerMin <= 0 {
		maxPerMin = 1
	}
	secondsPerRequest := time.Minute / time.Duration(maxPerMin)
	return &finnhubRepository{
		httpClient:     httpclient.New(cfg.MarketData.FinnhubBaseURL, cfg.MarketData.BaseTimeout),
		cfg:            cfg,
		logger:         log,
		requestLimiter: rate.NewLimiter(rate.Every(secondsPerRequest), 1),
	}
}

func (r *finnhubRepository) Enabled() bool {
	return r.cfg.MarketData.FinnhubAPIKey != ""
}

func (r *finnhubRepository) GetQuote(ctx context.Context, symbol string) (*dto.Quote, error) {
	var quoteResp dto.FinnhubQuoteResponse
	if err := r.get(ctx, "/quote", map[string]string{"symbol": symbol}, &quoteResp); err != nil {
		return nil, err
	}

	var metricResp dto.FinnhubMetricResponse
	if err := r.get(ctx, "/stock/metric", map[string]string{"symbol": symbol, "metric": "valuation"}, &metricResp); err != nil {
		return nil, err
	}

	// Finnhub reports market cap in millions of dollars.
	return &dto.Quote{
		Price:         quoteResp.Current,
		Change:        quoteResp.Change,
		ChangePercent: quoteResp.ChangePercent,
		Volume:        0,
		MarketCap:     metricResp.Metric.MarketCapitalization * 1e6,
		PERatio:       metricResp.Metric.PEBasicExclExtraTTM,
	}, nil
}

func (r *finnhubRepository) GetHistorical(ctx context.Context, symbol string, days int) ([]dto.PriceBar, error) {
	now := time.Now()
	from := now.AddDate(0, 0, -days)

	var candleResp dto.FinnhubCandleResponse
	err := r.get(ctx, "/stock/candle", map[string]string{
		"symbol":     symbol,
		"resolution": "D",
		"from":       fmt.Sprintf("%d", from.Unix()),
		"to":         fmt.Sprintf("%d", now.Unix()),
	}, &candleResp)
	if err != nil {
		return nil, err
	}

	if candleResp.Status != "ok" || len(candleResp.Timestamp) == 0 {
		return nil, fmt.Errorf("finnhub historical data unavailable for %s", symbol)
	}

	bars := make([]dto.PriceBar, 0, len(candleResp.Timestamp))
	for i, ts := range candleResp.Timestamp {
		bars = append(bars, dto.PriceBar{
			Date:   utils.TruncateToDay(time.Unix(ts, 0).UTC()),
			Open:   candleResp.Open[i],
			High:   candleResp.High[i],
			Low:    candleResp.Low[i],
			Close:  candleResp.Close[i],
			Volume: candleResp.Volume[i],
		})
	}
	return bars, nil
}

// get performs a rate-limited request, retrying 429 responses with linear
// backoff up to finnhubMaxRateLimitRetries.
func (r *finnhubRepository) get(ctx context.Context, endpoint string, params map[string]string, result interface{}) error {
	if !r.Enabled() {
		return fmt.Errorf("missing finnhub api key")
	}

	params["token"] = r.cfg.MarketData.FinnhubAPIKey

	for attempt := 0; ; attempt++ {
		if err := r.requestLimiter.Wait(ctx); err != nil {
			return err
		}

		resp, err := r.httpClient.Get(ctx, endpoint, params, nil, result)
		if err != nil {
			return err
		}

		if resp.StatusCode == http.StatusTooManyRequests {
			if attempt >= finnhubMaxRateLimitRetries {
				return fmt.Errorf("finnhub rate limit exceeded for %s", endpoint)
			}
			r.logger.WarnContext(ctx, "Finnhub rate limited, backing off",
				logger.StringField("endpoint", endpoint),
				logger.IntField("attempt", attempt+1),
			)
			select {
			case <-ctx.Done():
				return ctx.Err()
			case <-time.After(finnhubRateLimitBackoff * time.Duration(attempt+1)):
			}
			continue
		}

		if resp.StatusCode != http.StatusOK {
			return fmt.Errorf("finnhub request failed (%d)", resp.StatusCode)
		}
		return nil
	}
}
