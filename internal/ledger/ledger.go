package ledger

import (
	"encoding/json"

	"github.com/shopspring/decimal"
)

// Account is the spend/earn surface other components are handed.
type Account interface {
	Spend(amount decimal.Decimal) bool
	Earn(amount decimal.Decimal)
	Balance() decimal.Decimal
}

// Ledger is the single source of truth for the player's spendable cash.
type Ledger struct {
	balance decimal.Decimal
}

func New(initial decimal.Decimal) *Ledger {
	return &Ledger{balance: initial}
}

func (l *Ledger) Balance() decimal.Decimal {
	return l.balance
}

// Spend fails without mutating when the balance does not cover amount.
func (l *Ledger) Spend(amount decimal.Decimal) bool {
	if amount.IsNegative() || l.balance.LessThan(amount) {
		return false
	}
	l.balance = l.balance.Sub(amount)
	return true
}

func (l *Ledger) Earn(amount decimal.Decimal) {
	l.balance = l.balance.Add(amount)
}

// SetAbsolute overrides the balance with no lower bound check. Used by load and cheats.
func (l *Ledger) SetAbsolute(amount decimal.Decimal) {
	l.balance = amount
}

func (l *Ledger) MarshalJSON() ([]byte, error) {
	return json.Marshal(l.balance)
}

func (l *Ledger) UnmarshalJSON(raw []byte) error {
	return json.Unmarshal(raw, &l.balance)
}

func FromFloat(v float64) decimal.Decimal {
	return decimal.NewFromFloat(v)
}

func ToFloat(v decimal.Decimal) float64 {
	f, _ := v.Float64()
	return f
}
