package holdings

import (
	"fmt"
	"log/slog"

	"tycoon/internal/ledger"
	"tycoon/internal/market"
	"tycoon/internal/simerr"
)

// dustQuantity is the remaining quantity below which a position is closed.
const dustQuantity = 1e-4

var (
	ErrInvalidAmount      = fmt.Errorf("%w: quantity and price must be > 0", simerr.ErrValidation)
	ErrInsufficientFunds  = fmt.Errorf("%w: insufficient funds", simerr.ErrValidation)
	ErrInsufficientShares = fmt.Errorf("%w: insufficient quantity held", simerr.ErrValidation)
	ErrKindMismatch       = fmt.Errorf("%w: instrument type mismatch", simerr.ErrValidation)
	ErrNotAStock          = fmt.Errorf("%w: only stocks can be acquired", simerr.ErrValidation)
	ErrAlreadyAcquired    = fmt.Errorf("%w: company already acquired", simerr.ErrValidation)
	ErrUnknownSymbol      = fmt.Errorf("%w: unknown symbol", simerr.ErrLookup)
	ErrUnknownInstrument  = fmt.Errorf("%w: unknown instrument", simerr.ErrLookup)
	ErrNoHolding          = fmt.Errorf("%w: no holding for symbol", simerr.ErrLookup)
)

// Registration is what the subsidiary registry receives when a company is bought.
type Registration struct {
	ID              string
	Name            string
	Symbol          string
	Category        string
	AcquisitionBuff string
	MarketCap       float64
}

type Registrar interface {
	HasSubsidiary(id string) bool
	RegisterSubsidiary(r Registration)
}

// Ledger tracks the player's positions. It settles through the money ledger and
// values positions through the price engine.
type Ledger struct {
	state     *market.State
	prices    *market.Engine
	wallet    ledger.Account
	registrar Registrar
	premium   float64
	log       *slog.Logger
}

func New(st *market.State, prices *market.Engine, wallet ledger.Account, registrar Registrar, acquisitionPremium float64, logger *slog.Logger) *Ledger {
	if logger == nil {
		logger = slog.Default()
	}
	return &Ledger{
		state:     st,
		prices:    prices,
		wallet:    wallet,
		registrar: registrar,
		premium:   acquisitionPremium,
		log:       logger,
	}
}

func (l *Ledger) Buy(symbol string, price, qty float64, kind market.Kind) error {
	if qty <= 0 || price <= 0 {
		return ErrInvalidAmount
	}
	it, ok := l.prices.Catalog().BySymbol(symbol)
	if !ok {
		l.log.Warn("buy: unknown symbol", "symbol", symbol)
		return ErrUnknownSymbol
	}
	if kind != "" && kind != it.Kind() {
		return ErrKindMismatch
	}
	total := qty * price
	if !l.wallet.Spend(ledger.FromFloat(total)) {
		return ErrInsufficientFunds
	}

	info := it.Info()
	if idx := l.state.HoldingIndex(info.ID); idx >= 0 {
		h := &l.state.Holdings[idx]
		h.AverageCost = (h.Quantity*h.AverageCost + qty*price) / (h.Quantity + qty)
		h.Quantity += qty
		return nil
	}
	l.state.Holdings = append(l.state.Holdings, market.Holding{
		ID:          info.ID,
		Symbol:      info.Symbol,
		Quantity:    qty,
		AverageCost: price,
		Type:        it.Kind(),
	})
	return nil
}

// Sell returns the proceeds credited to the wallet.
func (l *Ledger) Sell(symbol string, qty, currentPrice float64) (float64, error) {
	if qty <= 0 || currentPrice <= 0 {
		return 0, ErrInvalidAmount
	}
	idx := l.indexBySymbol(symbol)
	if idx < 0 {
		l.log.Warn("sell: no holding", "symbol", symbol)
		return 0, ErrNoHolding
	}
	h := &l.state.Holdings[idx]
	if qty > h.Quantity {
		return 0, ErrInsufficientShares
	}
	revenue := qty * currentPrice
	l.wallet.Earn(ledger.FromFloat(revenue))

	if h.Quantity-qty <= dustQuantity {
		l.removeAt(idx)
	} else {
		h.Quantity -= qty
	}
	return revenue, nil
}

// LiquidateAll sells every position at the live price, or average cost when no
// live price exists, and returns the realized total.
func (l *Ledger) LiquidateAll() float64 {
	total := 0.0
	for _, h := range l.state.Holdings {
		price, ok := l.state.Prices[h.ID]
		if !ok {
			price = h.AverageCost
		}
		total += h.Quantity * price
	}
	if total != 0 {
		l.wallet.Earn(ledger.FromFloat(total))
	}
	l.state.Holdings = []market.Holding{}
	return total
}

type Acquisition struct {
	ID       string  `json:"id"`
	Symbol   string  `json:"symbol"`
	Cost     float64 `json:"cost"`
	Proceeds float64 `json:"proceeds"`
}

// AcquireCompany buys a listed company outright at its list price plus premium and
// hands it to the subsidiary registry. Shares the player held are cashed out.
func (l *Ledger) AcquireCompany(id string) (Acquisition, error) {
	var out Acquisition
	it, ok := l.prices.Catalog().ByID(id)
	if !ok {
		l.log.Warn("acquire: unknown instrument", "id", id)
		return out, ErrUnknownInstrument
	}
	stock, ok := it.(market.Stock)
	if !ok {
		return out, ErrNotAStock
	}
	if l.registrar.HasSubsidiary(stock.ID) {
		return out, ErrAlreadyAcquired
	}
	cost := stock.MarketCap * l.premium
	if !l.wallet.Spend(ledger.FromFloat(cost)) {
		return out, ErrInsufficientFunds
	}
	l.registrar.RegisterSubsidiary(Registration{
		ID:              stock.ID,
		Name:            stock.Name,
		Symbol:          stock.Symbol,
		Category:        stock.Sector,
		AcquisitionBuff: stock.AcquisitionBuff,
		MarketCap:       stock.MarketCap,
	})

	out = Acquisition{ID: stock.ID, Symbol: stock.Symbol, Cost: cost}
	if idx := l.state.HoldingIndex(stock.ID); idx >= 0 {
		price, _ := l.prices.Price(l.state, stock.ID)
		out.Proceeds = l.state.Holdings[idx].Quantity * price
		l.wallet.Earn(ledger.FromFloat(out.Proceeds))
		l.removeAt(idx)
	}
	l.log.Info("company acquired", "id", stock.ID, "cost", cost, "proceeds", out.Proceeds)
	return out, nil
}

type Position struct {
	market.Holding
	Price      float64 `json:"price"`
	Value      float64 `json:"value"`
	Unrealized float64 `json:"unrealized"`
}

func (l *Ledger) Positions() []Position {
	out := make([]Position, 0, len(l.state.Holdings))
	for _, h := range l.state.Holdings {
		price, ok := l.prices.Price(l.state, h.ID)
		if !ok {
			price = h.AverageCost
		}
		value := h.Quantity * price
		out = append(out, Position{
			Holding:    h,
			Price:      price,
			Value:      value,
			Unrealized: value - h.Quantity*h.AverageCost,
		})
	}
	return out
}

// Value is the market value of every open position.
func (l *Ledger) Value() float64 {
	total := 0.0
	for _, p := range l.Positions() {
		total += p.Value
	}
	return total
}

func (l *Ledger) indexBySymbol(symbol string) int {
	if it, ok := l.prices.Catalog().BySymbol(symbol); ok {
		return l.state.HoldingIndex(it.Info().ID)
	}
	for i, h := range l.state.Holdings {
		if h.Symbol == symbol {
			return i
		}
	}
	return -1
}

func (l *Ledger) removeAt(idx int) {
	l.state.Holdings = append(l.state.Holdings[:idx], l.state.Holdings[idx+1:]...)
}
