package company

import (
	"sort"
)

type SalaryTier string

const (
	TierLow          SalaryTier = "low"
	TierAverage      SalaryTier = "average"
	TierAboveAverage SalaryTier = "above_average"
)

func (t SalaryTier) Valid() bool {
	switch t {
	case TierLow, TierAverage, TierAboveAverage:
		return true
	}
	return false
}

type TechLevels struct {
	Hardware int `json:"hardware"`
	Software int `json:"software"`
	Future   int `json:"future"`
}

func (t TechLevels) Sum() int {
	return t.Hardware + t.Software + t.Future
}

type HolderType string

const (
	HolderPlayer   HolderType = "player"
	HolderFamily   HolderType = "family"
	HolderInvestor HolderType = "investor"
)

const PlayerHolderID = "player"

type Shareholder struct {
	ID           string     `json:"id"`
	Name         string     `json:"name"`
	Type         HolderType `json:"type"`
	Percentage   float64    `json:"percentage"`
	Relationship *float64   `json:"relationship,omitempty"`
}

type Subsidiary struct {
	ID                   string  `json:"id"`
	Name                 string  `json:"name"`
	MarketCap            float64 `json:"marketCap"`
	BaseProfit           float64 `json:"baseProfit"`
	CurrentProfit        float64 `json:"currentProfit"`
	IsLossMaking         bool    `json:"isLossMaking"`
	InitialPurchasePrice float64 `json:"initialPurchasePrice"`
}

// State is the company side of a save. The player's cash lives in the money ledger.
type State struct {
	NetWorth        float64 `json:"netWorth"`
	MonthlyIncome   float64 `json:"monthlyIncome"`
	MonthlyExpenses float64 `json:"monthlyExpenses"`

	Value           float64 `json:"companyValue"`
	SharePrice      float64 `json:"companySharePrice"`
	DailyChange     float64 `json:"companyDailyChange"`
	Debt            float64 `json:"companyDebt"`
	DebtTotal       float64 `json:"companyDebtTotal"`
	Ownership       float64 `json:"companyOwnership"`
	Capital         float64 `json:"companyCapital"`
	RevenueMonthly  float64 `json:"companyRevenueMonthly"`
	ExpensesMonthly float64 `json:"companyExpensesMonthly"`

	FactoryCount    int        `json:"factoryCount"`
	EmployeeCount   int        `json:"employeeCount"`
	EmployeeMorale  float64    `json:"employeeMorale"`
	SalaryTier      SalaryTier `json:"salaryTier"`
	TechLevels      TechLevels `json:"techLevels"`
	IsPublic        bool       `json:"isPublic"`
	StockSplitCount int        `json:"stockSplitCount"`

	Acquisitions []string              `json:"acquisitions"`
	Subsidiaries map[string]Subsidiary `json:"subsidiaryStates"`
	Shareholders []Shareholder         `json:"shareholders"`
}

func relationship(v float64) *float64 {
	return &v
}

// SeedState is the company every new game starts with. Valuation fields are zero
// until the first recalculation.
func SeedState() State {
	return State{
		Ownership:      72,
		Capital:        500_000,
		FactoryCount:   1,
		EmployeeCount:  12,
		EmployeeMorale: 70,
		SalaryTier:     TierAverage,
		Acquisitions:   []string{},
		Subsidiaries:   map[string]Subsidiary{},
		Shareholders: []Shareholder{
			{ID: PlayerHolderID, Name: "You", Type: HolderPlayer, Percentage: 72},
			{ID: "family-trust", Name: "Family Trust", Type: HolderFamily, Percentage: 10, Relationship: relationship(70)},
			{ID: "seed-partners", Name: "Seed Capital Partners", Type: HolderInvestor, Percentage: 18, Relationship: relationship(55)},
		},
	}
}

func (s State) Clone() State {
	out := s
	out.Acquisitions = append([]string{}, s.Acquisitions...)
	out.Subsidiaries = make(map[string]Subsidiary, len(s.Subsidiaries))
	for k, v := range s.Subsidiaries {
		out.Subsidiaries[k] = v
	}
	out.Shareholders = make([]Shareholder, len(s.Shareholders))
	for i, sh := range s.Shareholders {
		if sh.Relationship != nil {
			sh.Relationship = relationship(*sh.Relationship)
		}
		out.Shareholders[i] = sh
	}
	return out
}

func (s *State) HasAcquisition(perk string) bool {
	for _, a := range s.Acquisitions {
		if a == perk {
			return true
		}
	}
	return false
}

func (s *State) addAcquisition(perk string) {
	if perk == "" || s.HasAcquisition(perk) {
		return
	}
	s.Acquisitions = append(s.Acquisitions, perk)
	sort.Strings(s.Acquisitions)
}

// ShareholderTotal is the sum of every row's percentage; it stays at 100.
func (s *State) ShareholderTotal() float64 {
	total := 0.0
	for _, sh := range s.Shareholders {
		total += sh.Percentage
	}
	return total
}

func (s *State) shareholderIndex(id string) int {
	for i, sh := range s.Shareholders {
		if sh.ID == id {
			return i
		}
	}
	return -1
}

func (s *State) subsidiaryIDs() []string {
	ids := make([]string, 0, len(s.Subsidiaries))
	for id := range s.Subsidiaries {
		ids = append(ids, id)
	}
	sort.Strings(ids)
	return ids
}
