package market

import (
	"sort"
	"strings"
)

type Kind string

const (
	KindStock  Kind = "stock"
	KindBond   Kind = "bond"
	KindFund   Kind = "fund"
	KindCrypto Kind = "crypto"
)

func (k Kind) Valid() bool {
	switch k {
	case KindStock, KindBond, KindFund, KindCrypto:
		return true
	}
	return false
}

// Listing is the part every instrument shares.
type Listing struct {
	ID        string  `json:"id"`
	Symbol    string  `json:"symbol"`
	Name      string  `json:"name"`
	BasePrice float64 `json:"base_price"`
}

// Instrument is one of Stock, Bond, Fund or Crypto.
type Instrument interface {
	Kind() Kind
	Info() Listing
}

type Stock struct {
	Listing
	MarketCap       float64 `json:"market_cap"`
	Sector          string  `json:"sector"`
	AcquisitionBuff string  `json:"acquisition_buff,omitempty"`
}

type Bond struct {
	Listing
	CouponRate    float64 `json:"coupon_rate"`
	MaturityYears int     `json:"maturity_years"`
}

// Fund.MarketCap is zero when the fund does not report assets under management.
type Fund struct {
	Listing
	MarketCap    float64 `json:"market_cap,omitempty"`
	ExpenseRatio float64 `json:"expense_ratio"`
}

type Crypto struct {
	Listing
	Chain string `json:"chain"`
}

func (Stock) Kind() Kind  { return KindStock }
func (Bond) Kind() Kind   { return KindBond }
func (Fund) Kind() Kind   { return KindFund }
func (Crypto) Kind() Kind { return KindCrypto }

func (s Stock) Info() Listing  { return s.Listing }
func (b Bond) Info() Listing   { return b.Listing }
func (f Fund) Info() Listing   { return f.Listing }
func (c Crypto) Info() Listing { return c.Listing }

// Catalog is the fixed, ordered set of tradable instruments.
type Catalog struct {
	items    []Instrument
	byID     map[string]Instrument
	bySymbol map[string]Instrument
}

func NewCatalog(items ...Instrument) *Catalog {
	c := &Catalog{
		items:    make([]Instrument, 0, len(items)),
		byID:     make(map[string]Instrument, len(items)),
		bySymbol: make(map[string]Instrument, len(items)),
	}
	for _, it := range items {
		info := it.Info()
		if _, dup := c.byID[info.ID]; dup {
			continue
		}
		c.items = append(c.items, it)
		c.byID[info.ID] = it
		c.bySymbol[normalizeSymbol(info.Symbol)] = it
	}
	return c
}

func (c *Catalog) All() []Instrument {
	out := make([]Instrument, len(c.items))
	copy(out, c.items)
	return out
}

func (c *Catalog) ByID(id string) (Instrument, bool) {
	it, ok := c.byID[id]
	return it, ok
}

func (c *Catalog) BySymbol(symbol string) (Instrument, bool) {
	it, ok := c.bySymbol[normalizeSymbol(symbol)]
	return it, ok
}

// OfKind returns the instruments of one kind ordered by symbol.
func (c *Catalog) OfKind(k Kind) []Instrument {
	var out []Instrument
	for _, it := range c.items {
		if it.Kind() == k {
			out = append(out, it)
		}
	}
	sort.Slice(out, func(i, j int) bool { return out[i].Info().Symbol < out[j].Info().Symbol })
	return out
}

func normalizeSymbol(s string) string {
	return strings.ToUpper(strings.TrimSpace(s))
}

// DefaultCatalog is the instrument set every new game starts with.
func DefaultCatalog() *Catalog {
	return NewCatalog(
		Stock{Listing: Listing{ID: "orbix-cloud", Symbol: "ORBX", Name: "Orbix Cloud", BasePrice: 310.00}, MarketCap: 820e9, Sector: "software"},
		Stock{Listing: Listing{ID: "helix-systems", Symbol: "HLXS", Name: "Helix Systems", BasePrice: 188.40}, MarketCap: 240e9, Sector: "hardware"},
		Stock{Listing: Listing{ID: "verdant-energy", Symbol: "VRDN", Name: "Verdant Energy", BasePrice: 74.10}, MarketCap: 42e9, Sector: "energy", AcquisitionBuff: "greenGrid"},
		Stock{Listing: Listing{ID: "qubitron-chips", Symbol: "QBIT", Name: "Qubitron Chips", BasePrice: 38.20}, MarketCap: 6.5e9, Sector: "hardware", AcquisitionBuff: "chipMaster"},
		Stock{Listing: Listing{ID: "pixelworks-studio", Symbol: "PXLW", Name: "Pixelworks Studio", BasePrice: 21.75}, MarketCap: 3.2e9, Sector: "media", AcquisitionBuff: "studioTalent"},
		Stock{Listing: Listing{ID: "nanolume-labs", Symbol: "NANO", Name: "Nanolume Labs", BasePrice: 4.80}, MarketCap: 0.65e9, Sector: "future", AcquisitionBuff: "labSynergy"},
		Stock{Listing: Listing{ID: "bytecraft-software", Symbol: "BYTE", Name: "Bytecraft Software", BasePrice: 2.35}, MarketCap: 0.42e9, Sector: "software", AcquisitionBuff: "devPipeline"},
		Bond{Listing: Listing{ID: "treasury-10y", Symbol: "UST10", Name: "Treasury 10Y", BasePrice: 100.00}, CouponRate: 0.042, MaturityYears: 10},
		Bond{Listing: Listing{ID: "corporate-5y", Symbol: "CORP5", Name: "Investment Grade 5Y", BasePrice: 98.50}, CouponRate: 0.055, MaturityYears: 5},
		Fund{Listing: Listing{ID: "index-500", Symbol: "IDX500", Name: "Total Market Index", BasePrice: 452.00}, MarketCap: 380e9, ExpenseRatio: 0.0003},
		Fund{Listing: Listing{ID: "growth-fund", Symbol: "GROWF", Name: "Frontier Growth Fund", BasePrice: 88.00}, ExpenseRatio: 0.0085},
		Crypto{Listing: Listing{ID: "bitex", Symbol: "BTX", Name: "Bitex", BasePrice: 61_000}, Chain: "bitex"},
		Crypto{Listing: Listing{ID: "ethereal", Symbol: "ETHR", Name: "Ethereal", BasePrice: 3_200}, Chain: "ethereal"},
		Crypto{Listing: Listing{ID: "dogo", Symbol: "DOGO", Name: "Dogo", BasePrice: 0.12}, Chain: "ethereal"},
	)
}
