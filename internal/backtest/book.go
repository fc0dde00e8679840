package backtest

import (
	"fmt"

	"stock-strategy/internal/dto"
)

// positionBook is the simulator's open-position manager: at most one position
// per symbol, iteration in open order so replays are reproducible.
type positionBook struct {
	order    []string
	bySymbol map[string]*dto.Position
}

func newPositionBook() *positionBook {
	return &positionBook{
		bySymbol: make(map[string]*dto.Position),
	}
}

// Open adds a position to the book. Entry price must be a real market price;
// a non-positive price is refused here so percent-gain math downstream can
// never divide by zero.
func (b *positionBook) Open(pos *dto.Position) error {
	if pos.EntryPrice <= 0 {
		return fmt.Errorf("refusing to open %s at non-positive price %.4f", pos.Symbol, pos.EntryPrice)
	}
	if _, exists := b.bySymbol[pos.Symbol]; exists {
		return fmt.Errorf("position for %s already open", pos.Symbol)
	}
	b.order = append(b.order, pos.Symbol)
	b.bySymbol[pos.Symbol] = pos
	return nil
}

func (b *positionBook) Get(symbol string) (*dto.Position, bool) {
	pos, ok := b.bySymbol[symbol]
	return pos, ok
}

func (b *positionBook) Has(symbol string) bool {
	_, ok := b.bySymbol[symbol]
	return ok
}

func (b *positionBook) Remove(symbol string) {
	if _, ok := b.bySymbol[symbol]; !ok {
		return
	}
	delete(b.bySymbol, symbol)
	for i, s := range b.order {
		if s == symbol {
			b.order = append(b.order[:i], b.order[i+1:]...)
			break
		}
	}
}

func (b *positionBook) Len() int {
	return len(b.bySymbol)
}

// Symbols returns the held symbols in open order.
func (b *positionBook) Symbols() []string {
	out := make([]string, len(b.order))
	copy(out, b.order)
	return out
}

// Positions returns copies of the open positions in open order.
func (b *positionBook) Positions() []dto.Position {
	out := make([]dto.Position, 0, len(b.order))
	for _, symbol := range b.order {
		out = append(out, *b.bySymbol[symbol])
	}
	return out
}
