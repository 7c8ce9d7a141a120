package game

import (
	"fmt"

	"tycoon/internal/company"
	"tycoon/internal/holdings"
	"tycoon/internal/ledger"
	"tycoon/internal/market"
)

type CompanyView struct {
	company.State
	Financials     company.Financials `json:"financials"`
	BorrowCapacity float64            `json:"borrow_capacity"`
	PlayerEquity   float64            `json:"player_equity"`
}

type PortfolioView struct {
	Money         float64             `json:"money"`
	Positions     []holdings.Position `json:"positions"`
	HoldingsValue float64             `json:"holdings_value"`
	NetWorth      float64             `json:"net_worth"`
}

type InstrumentView struct {
	Instrument market.Instrument `json:"instrument"`
	Kind       market.Kind       `json:"kind"`
	Price      float64           `json:"price"`
	ChangePct  float64           `json:"change_pct"`
}

type InstrumentDetail struct {
	InstrumentView
	History []market.PricePoint `json:"history"`
	Held    *holdings.Position  `json:"held,omitempty"`
	Owned   bool                `json:"owned"`
}

// read runs fn against a throwaway world built on a clone; nothing is committed.
func read[T any](e *Engine, fn func(w *world) T) T {
	e.mu.Lock()
	defer e.mu.Unlock()
	st := e.state.Clone()
	return fn(e.newWorld(&st))
}

func (e *Engine) Company() CompanyView {
	return read(e, func(w *world) CompanyView {
		return CompanyView{
			State:          w.st.CompanyState,
			Financials:     w.company.Financials(),
			BorrowCapacity: w.company.BorrowCapacity(),
			PlayerEquity:   w.company.EquityValue(),
		}
	})
}

func (e *Engine) Portfolio() PortfolioView {
	return read(e, func(w *world) PortfolioView {
		return PortfolioView{
			Money:         ledger.ToFloat(w.st.Money),
			Positions:     w.holdings.Positions(),
			HoldingsValue: w.holdings.Value(),
			NetWorth:      w.st.NetWorth,
		}
	})
}

func (e *Engine) Instruments(kind market.Kind) []InstrumentView {
	return read(e, func(w *world) []InstrumentView {
		items := e.catalog.All()
		if kind != "" {
			items = e.catalog.OfKind(kind)
		}
		out := make([]InstrumentView, 0, len(items))
		for _, it := range items {
			out = append(out, w.instrumentView(it))
		}
		return out
	})
}

// Instrument looks up by id first, then by symbol.
func (e *Engine) Instrument(ref string) (InstrumentDetail, error) {
	it, ok := e.catalog.ByID(ref)
	if !ok {
		it, ok = e.catalog.BySymbol(ref)
	}
	if !ok {
		e.log.Warn("instrument: unknown reference", "ref", ref)
		return InstrumentDetail{}, fmt.Errorf("%w: %s", holdings.ErrUnknownInstrument, ref)
	}
	id := it.Info().ID
	return read(e, func(w *world) InstrumentDetail {
		d := InstrumentDetail{
			InstrumentView: w.instrumentView(it),
			History:        append([]market.PricePoint{}, w.st.History[id]...),
			Owned:          w.company.HasSubsidiary(id),
		}
		for _, p := range w.holdings.Positions() {
			if p.ID == id {
				held := p
				d.Held = &held
			}
		}
		return d
	}), nil
}

// instrumentView reports the change against the last recorded quarter, or the
// base price before any quarter has run.
func (w *world) instrumentView(it market.Instrument) InstrumentView {
	info := it.Info()
	price, _ := w.prices.Price(&w.st.MarketState, info.ID)
	ref := info.BasePrice
	if hist := w.st.History[info.ID]; len(hist) > 0 {
		ref = hist[len(hist)-1].Price
	}
	change := 0.0
	if ref > 0 {
		change = (price - ref) / ref * 100
	}
	return InstrumentView{Instrument: it, Kind: it.Kind(), Price: price, ChangePct: change}
}
