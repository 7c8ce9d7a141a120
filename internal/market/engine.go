package market

import (
	"log/slog"

	"tycoon/internal/config"
)

// Rand is the uniform [0,1) source the engine draws from.
type Rand interface {
	Float64() float64
}

// Engine moves prices for a fixed catalog on two cadences: UpdatePrices for the
// lightweight per-tick refresh and SimulateQuarter for the trend-driven quarter.
// Both write the same price map; the caller's clock decides which one runs.
type Engine struct {
	catalog *Catalog
	bal     config.MarketBalance
	rand    Rand
	log     *slog.Logger
}

func NewEngine(catalog *Catalog, bal config.MarketBalance, rnd Rand, logger *slog.Logger) *Engine {
	if logger == nil {
		logger = slog.Default()
	}
	return &Engine{catalog: catalog, bal: bal, rand: rnd, log: logger}
}

func (e *Engine) Catalog() *Catalog {
	return e.catalog
}

// Price is the live price of id, falling back to the catalog base price.
func (e *Engine) Price(st *State, id string) (float64, bool) {
	if p, ok := st.Prices[id]; ok {
		return p, true
	}
	it, ok := e.catalog.ByID(id)
	if !ok {
		return 0, false
	}
	return it.Info().BasePrice, true
}

func (e *Engine) UpdatePrices(st *State) {
	if st.Prices == nil {
		st.Prices = make(map[string]float64)
	}
	for _, it := range e.catalog.items {
		id := it.Info().ID
		price, _ := e.Price(st, id)
		band := e.bal.TickBands[string(it.Kind())]
		change := e.uniform(-band, band)
		st.Prices[id] = floorAt(price*(1+change), e.bal.PriceFloor)
	}
}

func (e *Engine) SimulateQuarter(st *State) {
	if st.Prices == nil {
		st.Prices = make(map[string]float64)
	}
	if st.History == nil {
		st.History = make(map[string][]PricePoint)
	}
	if st.Trend == "" {
		st.Trend = TrendFlat
	}
	if e.rand.Float64()*100 < e.bal.TrendSwitchPercent {
		prev := st.Trend
		st.Trend = e.otherTrend(prev)
		e.log.Info("market trend switched", "from", prev, "to", st.Trend, "quarter", st.CurrentQuarter)
	}

	base := e.trendDrift(st.Trend)
	for _, it := range e.catalog.items {
		id := it.Info().ID
		price, _ := e.Price(st, id)
		vol := e.VolatilityMultiplier(it)
		noise := e.uniform(-e.bal.QuarterNoise, e.bal.QuarterNoise) * vol
		total := base*vol + noise

		floor := e.bal.PriceFloor
		if it.Kind() == KindCrypto {
			floor = e.bal.CryptoFloor
		}
		next := floorAt(price*(1+total), floor)
		st.Prices[id] = next

		hist := append(st.History[id], PricePoint{Quarter: st.CurrentQuarter, Price: next})
		if over := len(hist) - e.bal.HistoryCap; over > 0 {
			hist = append([]PricePoint(nil), hist[over:]...)
		}
		st.History[id] = hist
	}
	st.CurrentQuarter++
}

// VolatilityMultiplier scales the quarterly drift and noise by instrument kind and size.
func (e *Engine) VolatilityMultiplier(it Instrument) float64 {
	switch in := it.(type) {
	case Crypto:
		return e.bal.CryptoVolatility
	case Bond:
		return e.bal.BondVolatility
	case Fund:
		if in.MarketCap <= 0 {
			return e.bal.UncappedFundVol
		}
		return e.capTier(in.MarketCap)
	case Stock:
		return e.capTier(in.MarketCap)
	default:
		return e.bal.MidCapVolatility
	}
}

func (e *Engine) capTier(marketCap float64) float64 {
	switch {
	case marketCap > e.bal.MegaCapAbove:
		return e.bal.MegaCapVolatility
	case marketCap < e.bal.MicroCapBelow:
		return e.bal.MicroCapVolatility
	case marketCap < e.bal.SmallCapBelow:
		return e.bal.SmallCapVolatility
	default:
		return e.bal.MidCapVolatility
	}
}

func (e *Engine) trendDrift(t Trend) float64 {
	switch t {
	case TrendBull:
		return e.bal.TrendDrift
	case TrendBear:
		return -e.bal.TrendDrift
	default:
		return 0
	}
}

func (e *Engine) otherTrend(current Trend) Trend {
	others := make([]Trend, 0, 2)
	for _, t := range trends {
		if t != current {
			others = append(others, t)
		}
	}
	idx := int(e.rand.Float64() * float64(len(others)))
	if idx >= len(others) {
		idx = len(others) - 1
	}
	return others[idx]
}

func (e *Engine) uniform(lo, hi float64) float64 {
	return lo + (hi-lo)*e.rand.Float64()
}

func floorAt(v, floor float64) float64 {
	if v < floor {
		return floor
	}
	return v
}
