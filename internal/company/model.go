package company

import (
	"log/slog"
	"math"

	"tycoon/internal/config"
	"tycoon/internal/ledger"
)

type Rand interface {
	Float64() float64
}

// Product is one externally reported product line.
type Product struct {
	ID      string  `json:"id"`
	Name    string  `json:"name"`
	Status  string  `json:"status"`
	Revenue float64 `json:"revenue"`
}

const ProductActive = "active"

type SalesContext struct {
	Morale       float64
	TechLevels   TechLevels
	Acquisitions []string
}

// ProductFeed is the external product-sales system the company reads revenue from.
type ProductFeed interface {
	ComputeMonthlySales(ctx SalesContext)
	Products() []Product
}

// Financials is the output of one recalculation.
type Financials struct {
	SalaryCost   float64 `json:"salaryCost"`
	FactoryCost  float64 `json:"factoryCost"`
	DebtInterest float64 `json:"debtInterest"`
	Expenses     float64 `json:"expenses"`
	Revenue      float64 `json:"revenue"`
	TechBonus    float64 `json:"techBonus"`
	Multiplier   float64 `json:"multiplier"`
	Valuation    float64 `json:"valuation"`
	TotalShares  float64 `json:"totalShares"`
	SharePrice   float64 `json:"sharePrice"`
}

// Recalculate derives expenses, revenue, valuation and share price from the current
// inputs. It reads only, so calling it twice yields the same result.
func Recalculate(st *State, feed ProductFeed, bal config.CompanyBalance) Financials {
	var f Financials
	f.SalaryCost = float64(st.EmployeeCount) * bal.SalaryRates[string(st.SalaryTier)]
	f.FactoryCost = float64(st.FactoryCount) * bal.FactoryMonthlyCost
	if st.HasAcquisition(bal.ChipMasterPerk) {
		f.FactoryCost *= bal.ChipMasterDiscount
	}
	f.DebtInterest = st.DebtTotal * bal.DebtAnnualRate / 12
	f.Expenses = f.SalaryCost + f.FactoryCost + f.DebtInterest

	if feed != nil {
		for _, p := range feed.Products() {
			if p.Status == ProductActive {
				f.Revenue += p.Revenue
			}
		}
	}

	f.TechBonus = float64(st.TechLevels.Sum())
	base := bal.PrivateMultiplier
	if st.IsPublic {
		base = bal.PublicMultiplier
	}
	f.Multiplier = base + f.TechBonus
	f.Valuation = f.Revenue*12*f.Multiplier + st.Capital
	f.TotalShares = bal.BaseShares * math.Pow(10, float64(st.StockSplitCount))
	f.SharePrice = math.Max(bal.MinSharePrice, f.Valuation/f.TotalShares)
	return f
}

// Company applies player actions and ticks to one company State.
type Company struct {
	state  *State
	feed   ProductFeed
	wallet ledger.Account
	bal    config.CompanyBalance
	rand   Rand
	log    *slog.Logger
}

func New(st *State, feed ProductFeed, wallet ledger.Account, bal config.CompanyBalance, rnd Rand, logger *slog.Logger) *Company {
	if logger == nil {
		logger = slog.Default()
	}
	return &Company{state: st, feed: feed, wallet: wallet, bal: bal, rand: rnd, log: logger}
}

func (c *Company) State() *State {
	return c.state
}

// Recalculate re-runs the financial model and stores its outputs on the state.
func (c *Company) Recalculate() Financials {
	f := Recalculate(c.state, c.feed, c.bal)
	c.state.ExpensesMonthly = f.Expenses
	c.state.RevenueMonthly = f.Revenue
	c.state.Value = f.Valuation
	c.state.SharePrice = f.SharePrice
	return f
}

func (c *Company) Financials() Financials {
	return Recalculate(c.state, c.feed, c.bal)
}

func clamp(v, lo, hi float64) float64 {
	return math.Min(hi, math.Max(lo, v))
}
