package market

type Trend string

const (
	TrendBull Trend = "BULL"
	TrendBear Trend = "BEAR"
	TrendFlat Trend = "FLAT"
)

var trends = []Trend{TrendBull, TrendBear, TrendFlat}

type Holding struct {
	ID          string  `json:"id"`
	Symbol      string  `json:"symbol"`
	Quantity    float64 `json:"quantity"`
	AverageCost float64 `json:"averageCost"`
	Type        Kind    `json:"type"`
}

type PricePoint struct {
	Quarter int     `json:"quarter"`
	Price   float64 `json:"price"`
}

// State is the market side of a save.
type State struct {
	Holdings       []Holding               `json:"holdings"`
	Prices         map[string]float64      `json:"marketPrices"`
	Trend          Trend                   `json:"marketTrend"`
	History        map[string][]PricePoint `json:"priceHistory"`
	CurrentQuarter int                     `json:"currentQuarter"`
}

// SeedState prices every instrument at its base price in a flat market.
func SeedState(c *Catalog) State {
	st := State{
		Holdings:       []Holding{},
		Prices:         make(map[string]float64, len(c.items)),
		Trend:          TrendFlat,
		History:        make(map[string][]PricePoint, len(c.items)),
		CurrentQuarter: 1,
	}
	for _, it := range c.items {
		info := it.Info()
		st.Prices[info.ID] = info.BasePrice
	}
	return st
}

func (s State) Clone() State {
	out := s
	out.Holdings = append([]Holding(nil), s.Holdings...)
	if out.Holdings == nil {
		out.Holdings = []Holding{}
	}
	out.Prices = make(map[string]float64, len(s.Prices))
	for k, v := range s.Prices {
		out.Prices[k] = v
	}
	out.History = make(map[string][]PricePoint, len(s.History))
	for k, v := range s.History {
		out.History[k] = append([]PricePoint(nil), v...)
	}
	return out
}

// HoldingIndex returns the row for id, or -1.
func (s *State) HoldingIndex(id string) int {
	for i, h := range s.Holdings {
		if h.ID == id {
			return i
		}
	}
	return -1
}
