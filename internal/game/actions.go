package game

import (
	"context"

	"tycoon/internal/company"
	"tycoon/internal/holdings"
	"tycoon/internal/market"
)

type none = struct{}

func (e *Engine) IPO(ctx context.Context, key string) error {
	_, err := act(e, ctx, key, "ipo", func(w *world) (none, error) {
		return none{}, w.company.IPO()
	})
	return err
}

func (e *Engine) StockSplit(ctx context.Context, key string) error {
	_, err := act(e, ctx, key, "split", func(w *world) (none, error) {
		return none{}, w.company.StockSplit()
	})
	return err
}

// Dilute returns the capital raised.
func (e *Engine) Dilute(ctx context.Context, key string, pct float64) (float64, error) {
	return act(e, ctx, key, "dilute", func(w *world) (float64, error) {
		return w.company.Dilute(pct)
	})
}

// Buyback returns the capital spent.
func (e *Engine) Buyback(ctx context.Context, key string, pct float64) (float64, error) {
	return act(e, ctx, key, "buyback", func(w *world) (float64, error) {
		return w.company.Buyback(pct)
	})
}

// PayDividend returns the player's cut.
func (e *Engine) PayDividend(ctx context.Context, key string, pct float64) (float64, error) {
	return act(e, ctx, key, "dividend", func(w *world) (float64, error) {
		return w.company.PayDividend(pct)
	})
}

func (e *Engine) UpdateShareholderRelationship(ctx context.Context, key, id string, delta float64) error {
	_, err := act(e, ctx, key, "relationship", func(w *world) (none, error) {
		return none{}, w.company.UpdateShareholderRelationship(id, delta)
	})
	return err
}

func (e *Engine) Borrow(ctx context.Context, key string, amount, rate float64) error {
	_, err := act(e, ctx, key, "borrow", func(w *world) (none, error) {
		return none{}, w.company.Borrow(amount, rate)
	})
	return err
}

// Repay returns the amount actually repaid.
func (e *Engine) Repay(ctx context.Context, key string, amount float64) (float64, error) {
	return act(e, ctx, key, "repay", func(w *world) (float64, error) {
		return w.company.Repay(amount)
	})
}

func (e *Engine) Hire(ctx context.Context, key string, n int) error {
	_, err := act(e, ctx, key, "hire", func(w *world) (none, error) {
		return none{}, w.company.Hire(n)
	})
	return err
}

func (e *Engine) BuildFactories(ctx context.Context, key string, n int) (float64, error) {
	return act(e, ctx, key, "factories", func(w *world) (float64, error) {
		return w.company.BuildFactories(n)
	})
}

func (e *Engine) SetSalaryTier(ctx context.Context, key string, tier company.SalaryTier) error {
	_, err := act(e, ctx, key, "salary", func(w *world) (none, error) {
		return none{}, w.company.SetSalaryTier(tier)
	})
	return err
}

func (e *Engine) UpgradeTech(ctx context.Context, key string, track company.TechTrack) (float64, error) {
	return act(e, ctx, key, "tech", func(w *world) (float64, error) {
		return w.company.UpgradeTech(track)
	})
}

func (e *Engine) MonthlyTick(ctx context.Context, key string) (company.TickReport, error) {
	return act(e, ctx, key, "monthly_tick", func(w *world) (company.TickReport, error) {
		r := w.company.MonthlyTick()
		e.log.Info("monthly tick",
			"revenue", r.Revenue,
			"expenses", r.Expenses,
			"morale", r.Morale,
			"share_price", r.SharePrice,
		)
		return r, nil
	})
}

// Trade is the settled result of a buy or sell.
type Trade struct {
	Symbol   string  `json:"symbol"`
	Quantity float64 `json:"quantity"`
	Price    float64 `json:"price"`
	Total    float64 `json:"total"`
}

// Buy purchases qty of symbol. A zero price settles at the live price.
func (e *Engine) Buy(ctx context.Context, key, symbol string, price, qty float64, kind market.Kind) (Trade, error) {
	return act(e, ctx, key, "buy", func(w *world) (Trade, error) {
		if price == 0 {
			p, err := w.livePrice(symbol)
			if err != nil {
				return Trade{}, err
			}
			price = p
		}
		if err := w.holdings.Buy(symbol, price, qty, kind); err != nil {
			return Trade{}, err
		}
		return Trade{Symbol: symbol, Quantity: qty, Price: price, Total: qty * price}, nil
	})
}

// Sell sells qty of symbol. A zero price settles at the live price.
func (e *Engine) Sell(ctx context.Context, key, symbol string, qty, price float64) (Trade, error) {
	return act(e, ctx, key, "sell", func(w *world) (Trade, error) {
		if price == 0 {
			p, err := w.livePrice(symbol)
			if err != nil {
				return Trade{}, err
			}
			price = p
		}
		total, err := w.holdings.Sell(symbol, qty, price)
		if err != nil {
			return Trade{}, err
		}
		return Trade{Symbol: symbol, Quantity: qty, Price: price, Total: total}, nil
	})
}

// LiquidateAll returns the realized total.
func (e *Engine) LiquidateAll(ctx context.Context, key string) (float64, error) {
	return act(e, ctx, key, "liquidate", func(w *world) (float64, error) {
		return w.holdings.LiquidateAll(), nil
	})
}

func (e *Engine) AcquireCompany(ctx context.Context, key, id string) (holdings.Acquisition, error) {
	return act(e, ctx, key, "acquire", func(w *world) (holdings.Acquisition, error) {
		return w.holdings.AcquireCompany(id)
	})
}

// UpdatePrices is the per-tick price refresh.
func (e *Engine) UpdatePrices(ctx context.Context, key string) error {
	_, err := act(e, ctx, key, "update_prices", func(w *world) (none, error) {
		w.prices.UpdatePrices(&w.st.MarketState)
		return none{}, nil
	})
	return err
}

// SimulateQuarter runs the quarterly market tick and returns the quarter it recorded.
func (e *Engine) SimulateQuarter(ctx context.Context, key string) (int, error) {
	return act(e, ctx, key, "simulate_quarter", func(w *world) (int, error) {
		q := w.st.CurrentQuarter
		w.prices.SimulateQuarter(&w.st.MarketState)
		e.log.Info("quarter simulated", "quarter", q, "trend", w.st.Trend)
		return q, nil
	})
}

func (w *world) livePrice(symbol string) (float64, error) {
	it, ok := w.prices.Catalog().BySymbol(symbol)
	if !ok {
		return 0, holdings.ErrUnknownSymbol
	}
	p, _ := w.prices.Price(&w.st.MarketState, it.Info().ID)
	return p, nil
}
