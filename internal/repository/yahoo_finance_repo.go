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
)

type YahooFinanceRepository interface {
	GetQuote(ctx context.Context, symbol string) (*dto.Quote, error)
	GetHistorical(ctx context.Context, symbol string, days int) ([]dto.PriceBar, error)
}

type yahooFinanceRepository struct {
	httpClient httpclient.HTTPClient
	cfg        *config.Config
	logger     *logger.Logger
}

func NewYahooFinanceRepository(cfg *config.Config, log *logger.Logger) YahooFinanceRepository {
	return &yahooFinanceRepository{
		httpClient: httpclient.New(cfg.MarketData.YahooBaseURL, cfg.MarketData.BaseTimeout),
		cfg:        cfg,
		logger:     log,
	}
}

func (r *yahooFinanceRepository) GetQuote(ctx context.Context, symbol string) (*dto.Quote, error) {
	var resp dto.YahooQuoteResponse
	baseResp, err := r.httpClient.Get(ctx, "/v6/finance/quote", map[string]string{"symbols": symbol}, yahooHeaders(), &resp)
	if err != nil {
		return nil, err
	}
	if baseResp.StatusCode != http.StatusOK {
		return nil, fmt.Errorf("yahoo quote request failed (%d)", baseResp.StatusCode)
	}
	if len(resp.QuoteResponse.Result) == 0 {
		return nil, fmt.Errorf("yahoo quote empty for %s", symbol)
	}

	result := resp.QuoteResponse.Result[0]
	peRatio := result.TrailingPE
	if peRatio == 0 {
		peRatio = result.ForwardPE
	}

	return &dto.Quote{
		Price:         result.RegularMarketPrice,
		Change:        result.RegularMarketChange,
		ChangePercent: result.RegularMarketChangePercent,
		Volume:        result.RegularMarketVolume,
		MarketCap:     result.MarketCap,
		PERatio:       peRatio,
	}, nil
}

func (r *yahooFinanceRepository) GetHistorical(ctx context.Context, symbol string, days int) ([]dto.PriceBar, error) {
	var resp dto.YahooChartResponse
	params := map[string]string{
		"range":    rangeForDays(days),
		"interval": "1d",
	}
	baseResp, err := r.httpClient.Get(ctx, "/v8/finance/chart/"+symbol, params, yahooHeaders(), &resp)
	if err != nil {
		return nil, err
	}
	if baseResp.StatusCode != http.StatusOK {
		return nil, fmt.Errorf("yahoo chart request failed (%d)", baseResp.StatusCode)
	}
	if len(resp.Chart.Result) == 0 || len(resp.Chart.Result[0].Indicators.Quote) == 0 {
		return nil, fmt.Errorf("yahoo chart empty for %s", symbol)
	}

	result := resp.Chart.Result[0]
	quote := result.Indicators.Quote[0]

	bars := make([]dto.PriceBar, 0, len(result.Timestamp))
	for i, ts := range result.Timestamp {
		// Yahoo nulls out fields for halted or partial sessions.
		if i >= len(quote.Close) || quote.Close[i] == nil {
			continue
		}
		bar := dto.PriceBar{
			Date:  utils.TruncateToDay(time.Unix(ts, 0).UTC()),
			Close: *quote.Close[i],
		}
		if i < len(quote.Open) && quote.Open[i] != nil {
			bar.Open = *quote.Open[i]
		} else {
			bar.Open = bar.Close
		}
		if i < len(quote.High) && quote.High[i] != nil {
			bar.High = *quote.High[i]
		} else {
			bar.High = bar.Close
		}
		if i < len(quote.Low) && quote.Low[i] != nil {
			bar.Low = *quote.Low[i]
		} else {
			bar.Low = bar.Close
		}
		if i < len(quote.Volume) && quote.Volume[i] != nil {
			bar.Volume = *quote.Volume[i]
		}
		bars = append(bars, bar)
	}

	if len(bars) == 0 {
		return nil, fmt.Errorf("yahoo chart has no usable bars for %s", symbol)
	}
	return bars, nil
}

// Yahoo rejects requests without a browser-like user agent.
func yahooHeaders() map[string]string {
	return map[string]string{
		"User-Agent": "Mozilla/5.0 (Windows NT 10.0; Win64; x64) AppleWebKit/537.36",
	}
}

func rangeForDays(days int) string {
	switch {
	case days <= 30:
		return "1mo"
	case days <= 90:
		return "3mo"
	case days <= 180:
		return "6mo"
	case days <= 365:
		return "1y"
	default:
		return "2y"
	}
}
