// Package backtest replays the dip-buying strategy over historical daily bars:
// a time-stepped portfolio simulation with strict point-in-time truncation,
// followed by performance metrics over the resulting trade ledger and equity
// curve. The engine performs no I/O, reads no clocks, and is fully
// deterministic for identical inputs.
package backtest

import (
	"errors"
	"fmt"
	"math"
	"sort"
	"time"

	"stock-strategy/internal/dto"
	"stock-strategy/internal/indicator"
	"stock-strategy/internal/strategy"
	"stock-strategy/pkg/common"
	"stock-strategy/pkg/utils"
)

var (
	// ErrNoData means no instrument can ever satisfy the trend-filter window,
	// so there is nothing to simulate.
	ErrNoData = errors.New("no data to simulate: no instrument reaches the minimum history window")
	// ErrUnorderedSeries means an input series is not strictly ascending by date.
	ErrUnorderedSeries = errors.New("price series must be strictly ascending by date")
)

// minHistoryBars is the trend-filter warmup: simulation starts on the day
// after a full 200-bar window can exist.
const minHistoryBars = 200

// DefaultRiskFreeRate is the annual rate subtracted in the Sharpe ratio when
// the strategy config leaves it unset.
const DefaultRiskFreeRate = 0.05

type simulationState struct {
	cash        float64
	book        *positionBook
	trades      []dto.Trade
	equityCurve []dto.EquityCurvePoint
}

// Run simulates the strategy over every supplied instrument. Instruments are
// processed in the order given; that order breaks score ties during entry
// ranking.
func Run(instruments []dto.Instrument, initialCapital float64, cfg dto.StrategyConfig) (*dto.BacktestResult, error) {
	if err := validateInstruments(instruments); err != nil {
		return nil, err
	}

	days := tradingDays(instruments)
	if len(days) <= minHistoryBars || longestSeries(instruments) < minHistoryBars {
		return nil, ErrNoData
	}

	state := &simulationState{
		cash: initialCapital,
		book: newPositionBook(),
	}

	// cursor[i] = number of bars of instruments[i] dated <= current day.
	cursor := make([]int, len(instruments))

	for di := minHistoryBars; di < len(days); di++ {
		day := days[di]
		advanceCursors(instruments, cursor, day)

		processExits(state, instruments, cursor, day, cfg)
		processEntries(state, instruments, cursor, day, cfg)

		state.equityCurve = append(state.equityCurve, dto.EquityCurvePoint{
			Date:  day,
			Value: portfolioValue(state, instruments, cursor),
		})
	}

	finalizeOpenPositions(state, instruments, days[len(days)-1])

	riskFreeRate := cfg.RiskFreeRate
	if riskFreeRate <= 0 {
		riskFreeRate = DefaultRiskFreeRate
	}
	return calculateMetrics(state, initialCapital, riskFreeRate), nil
}

// RunSeries is the mapping form of Run: instruments are ordered by symbol so
// iteration, and therefore tie-breaking, is reproducible.
func RunSeries(seriesBySymbol map[string][]dto.PriceBar, initialCapital float64, cfg dto.StrategyConfig) (*dto.BacktestResult, error) {
	symbols := make([]string, 0, len(seriesBySymbol))
	for symbol := range seriesBySymbol {
		symbols = append(symbols, symbol)
	}
	sort.Strings(symbols)

	instruments := make([]dto.Instrument, 0, len(symbols))
	for _, symbol := range symbols {
		instruments = append(instruments, dto.Instrument{
			Symbol: symbol,
			Sector: common.SectorOf(symbol),
			Bars:   seriesBySymbol[symbol],
		})
	}
	return Run(instruments, initialCapital, cfg)
}

// RunSingle is a convenience wrapper over Run with one instrument.
func RunSingle(symbol string, bars []dto.PriceBar, initialCapital float64, cfg dto.StrategyConfig) (*dto.BacktestResult, error) {
	return Run([]dto.Instrument{{Symbol: symbol, Sector: common.SectorOf(symbol), Bars: bars}}, initialCapital, cfg)
}

func validateInstruments(instruments []dto.Instrument) error {
	if len(instruments) == 0 {
		return ErrNoData
	}
	for _, inst := range instruments {
		if len(inst.Bars) == 0 {
			return fmt.Errorf("instrument %s: empty price series", inst.Symbol)
		}
		for i := 1; i < len(inst.Bars); i++ {
			prev := utils.TruncateToDay(inst.Bars[i-1].Date)
			curr := utils.TruncateToDay(inst.Bars[i].Date)
			if !curr.After(prev) {
				return fmt.Errorf("instrument %s at bar %d (%s): %w", inst.Symbol, i, utils.FormatDay(curr), ErrUnorderedSeries)
			}
		}
	}
	return nil
}

// tradingDays returns the sorted union of calendar dates across all series.
func tradingDays(instruments []dto.Instrument) []time.Time {
	seen := make(map[time.Time]bool)
	var days []time.Time
	for _, inst := range instruments {
		for _, bar := range inst.Bars {
			day := utils.TruncateToDay(bar.Date)
			if !seen[day] {
				seen[day] = true
				days = append(days, day)
			}
		}
	}
	sort.Slice(days, func(i, j int) bool { return days[i].Before(days[j]) })
	return days
}

func longestSeries(instruments []dto.Instrument) int {
	longest := 0
	for _, inst := range instruments {
		if len(inst.Bars) > longest {
			longest = len(inst.Bars)
		}
	}
	return longest
}

func advanceCursors(instruments []dto.Instrument, cursor []int, day time.Time) {
	for i := range instruments {
		bars := instruments[i].Bars
		for cursor[i] < len(bars) && !utils.TruncateToDay(bars[cursor[i]].Date).After(day) {
			cursor[i]++
		}
	}
}

// processExits closes every open position with a triggered exit condition and
// marks the rest to the latest close. Histories are truncated to the current
// day; no later bar is ever read.
func processExits(state *simulationState, instruments []dto.Instrument, cursor []int, day time.Time, cfg dto.StrategyConfig) {
	for _, symbol := range state.book.Symbols() {
		idx := instrumentIndex(instruments, symbol)
		if idx < 0 || cursor[idx] == 0 {
			continue
		}
		history := instruments[idx].Bars[:cursor[idx]]
		currentPrice := history[len(history)-1].Close

		position, _ := state.book.Get(symbol)
		snapshot := &dto.StockSnapshot{
			Symbol:    symbol,
			Price:     currentPrice,
			RSI:       indicator.RelativeStrengthIndex(history, indicator.DefaultRSIPeriod),
			Timestamp: day,
		}

		eval := strategy.EvaluateExit(position, snapshot, day, cfg)
		if eval.Meets {
			closePosition(state, position, currentPrice, day)
			continue
		}

		position.CurrentPrice = currentPrice
		position.UnrealizedPnL = (currentPrice - position.EntryPrice) * float64(position.Shares)
		position.PercentGain = (currentPrice - position.EntryPrice) / position.EntryPrice * 100
	}
}

type entryCandidate struct {
	index int
	score int
	price float64
}

// processEntries scans instruments not already held for dip-buy eligibility
// and opens the best-scoring candidates into the free position slots.
func processEntries(state *simulationState, instruments []dto.Instrument, cursor []int, day time.Time, cfg dto.StrategyConfig) {
	if state.book.Len() >= cfg.Allocation.MaxPositions {
		return
	}

	var candidates []entryCandidate
	for i := range instruments {
		if state.book.Has(instruments[i].Symbol) {
			continue
		}
		if cursor[i] < minHistoryBars {
			continue
		}
		history := instruments[i].Bars[:cursor[i]]

		if candidate, ok := evaluateEntryPoint(&instruments[i], history, cfg); ok {
			candidate.index = i
			candidates = append(candidates, candidate)
		}
	}

	// Stable sort keeps input order as the tie-break for equal scores.
	sort.SliceStable(candidates, func(a, b int) bool {
		return candidates[a].score > candidates[b].score
	})

	positionValue := state.cash * cfg.Allocation.PositionSizeFraction
	freeSlots := cfg.Allocation.MaxPositions - state.book.Len()

	for _, candidate := range candidates {
		if freeSlots <= 0 {
			break
		}

		shares := int64(math.Floor(positionValue / candidate.price))
		if shares <= 0 {
			continue
		}
		cost := float64(shares) * candidate.price
		if cost > state.cash {
			continue
		}

		inst := &instruments[candidate.index]
		position := &dto.Position{
			ID:           fmt.Sprintf("%s-%d", inst.Symbol, day.Unix()),
			Symbol:       inst.Symbol,
			EntryPrice:   candidate.price,
			CurrentPrice: candidate.price,
			Shares:       shares,
			EntryDate:    day,
			Sector:       inst.Sector,
		}
		if err := state.book.Open(position); err != nil {
			continue
		}

		state.trades = append(state.trades, dto.Trade{
			ID:     fmt.Sprintf("%s-buy-%d", inst.Symbol, day.Unix()),
			Symbol: inst.Symbol,
			Side:   dto.TradeBuy,
			Price:  candidate.price,
			Shares: shares,
			Date:   day,
		})
		state.cash -= cost
		freeSlots--
	}
}

// evaluateEntryPoint applies the entry rules to a truncated history: dip,
// trend filter, oversold RSI, and the quality filters for whichever
// fundamentals the instrument carries. Historical series have no market cap
// or P/E of their own day, so a missing fundamental does not veto the entry.
func evaluateEntryPoint(inst *dto.Instrument, history []dto.PriceBar, cfg dto.StrategyConfig) (entryCandidate, bool) {
	currentPrice := history[len(history)-1].Close
	previousPrice := history[len(history)-2].Close
	if previousPrice == 0 || currentPrice <= 0 {
		return entryCandidate{}, false
	}
	changePercent := (currentPrice - previousPrice) / previousPrice * 100

	ma := indicator.MovingAverage(history, cfg.TrendFilterPeriod)
	rsi := indicator.RelativeStrengthIndex(history, indicator.DefaultRSIPeriod)

	hasDip := changePercent <= cfg.DipThreshold
	aboveMA := ma > 0 && currentPrice > ma
	isOversold := rsi < cfg.RSIOversold
	if !hasDip || !aboveMA || !isOversold {
		return entryCandidate{}, false
	}

	if inst.MarketCap > 0 && inst.MarketCap < cfg.QualityFilters.MinMarketCap {
		return entryCandidate{}, false
	}
	if inst.PERatio > cfg.QualityFilters.MaxPERatio && inst.PERatio > 0 {
		return entryCandidate{}, false
	}
	currentVolume := history[len(history)-1].Volume
	if currentVolume < cfg.QualityFilters.MinVolume {
		return entryCandidate{}, false
	}

	volumeRatio := 1.0
	if avg := averageVolume(history, 20); avg > 0 {
		volumeRatio = currentVolume / avg
	}

	return entryCandidate{
		score: strategy.SignalStrength(rsi, changePercent, volumeRatio, aboveMA),
		price: currentPrice,
	}, true
}

func averageVolume(history []dto.PriceBar, lookback int) float64 {
	if len(history) < lookback {
		return history[len(history)-1].Volume
	}
	var sum float64
	for _, bar := range history[len(history)-lookback:] {
		sum += bar.Volume
	}
	return sum / float64(lookback)
}

// portfolioValue marks the book to the latest available close as of the
// current cursors, falling back to entry price when an instrument has no bar
// yet.
func portfolioValue(state *simulationState, instruments []dto.Instrument, cursor []int) float64 {
	value := state.cash
	for _, position := range state.book.Positions() {
		idx := instrumentIndex(instruments, position.Symbol)
		if idx < 0 || cursor[idx] == 0 {
			value += position.EntryPrice * float64(position.Shares)
			continue
		}
		latest := instruments[idx].Bars[cursor[idx]-1].Close
		value += latest * float64(position.Shares)
	}
	return value
}

// finalizeOpenPositions force-closes the remaining book at each instrument's
// last available close, dated to the final simulated day.
func finalizeOpenPositions(state *simulationState, instruments []dto.Instrument, lastDay time.Time) {
	for _, symbol := range state.book.Symbols() {
		idx := instrumentIndex(instruments, symbol)
		if idx < 0 {
			continue
		}
		bars := instruments[idx].Bars
		lastPrice := bars[len(bars)-1].Close

		position, _ := state.book.Get(symbol)
		closePosition(state, position, lastPrice, lastDay)
	}
}

func closePosition(state *simulationState, position *dto.Position, exitPrice float64, day time.Time) {
	pnl := (exitPrice - position.EntryPrice) * float64(position.Shares)
	percentGain := (exitPrice - position.EntryPrice) / position.EntryPrice * 100

	state.trades = append(state.trades, dto.Trade{
		ID:          fmt.Sprintf("%s-sell-%d", position.Symbol, day.Unix()),
		Symbol:      position.Symbol,
		Side:        dto.TradeSell,
		Price:       exitPrice,
		Shares:      position.Shares,
		Date:        day,
		PnL:         utils.ToPointer(pnl),
		PercentGain: utils.ToPointer(percentGain),
	})

	state.cash += exitPrice * float64(position.Shares)
	state.book.Remove(position.Symbol)
}

func instrumentIndex(instruments []dto.Instrument, symbol string) int {
	for i := range instruments {
		if instruments[i].Symbol == symbol {
			return i
		}
	}
	return -1
}
