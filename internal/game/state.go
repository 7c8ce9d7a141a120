package game

import (
	"tycoon/internal/company"
	"tycoon/internal/market"
	"tycoon/internal/products"

	"github.com/shopspring/decimal"
)

type (
	CompanyState = company.State
	MarketState  = market.State
)

// State is the whole simulation. Its JSON form is the save snapshot: money plus
// the flattened company and market fields, and the product lines.
type State struct {
	Money decimal.Decimal `json:"money"`
	CompanyState
	MarketState
	Products []products.Line `json:"products"`
}

func (s State) Clone() State {
	return State{
		Money:        s.Money,
		CompanyState: s.CompanyState.Clone(),
		MarketState:  s.MarketState.Clone(),
		Products:     append([]products.Line(nil), s.Products...),
	}
}

// normalize fills collections a decoded snapshot may have left nil.
func (s *State) normalize(c *market.Catalog) {
	if s.Acquisitions == nil {
		s.Acquisitions = []string{}
	}
	if s.Subsidiaries == nil {
		s.Subsidiaries = map[string]company.Subsidiary{}
	}
	if s.Holdings == nil {
		s.Holdings = []market.Holding{}
	}
	if s.Prices == nil {
		s.Prices = market.SeedState(c).Prices
	}
	if s.History == nil {
		s.History = map[string][]market.PricePoint{}
	}
	if s.Trend == "" {
		s.Trend = market.TrendFlat
	}
	if s.CurrentQuarter < 1 {
		s.CurrentQuarter = 1
	}
	if len(s.Products) == 0 {
		s.Products = products.DefaultLines()
	}
}
