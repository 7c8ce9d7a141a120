package company

import "math"

// BorrowCapacity is how much more the company may borrow right now.
func (c *Company) BorrowCapacity() float64 {
	st := c.state
	limit := c.bal.BorrowCapacityRatio * math.Max(st.Value, c.bal.BorrowCapacityFloor)
	return math.Max(0, limit-st.Debt)
}

// Borrow draws amount into company capital. Interest accrues through the
// financial model's debt term at the configured rate; rate is recorded only.
func (c *Company) Borrow(amount, rate float64) error {
	if amount <= 0 || rate < 0 {
		return ErrInvalidAmount
	}
	if amount > c.BorrowCapacity() {
		return ErrBorrowLimit
	}
	st := c.state
	st.Capital += amount
	st.Debt += amount
	st.DebtTotal += amount
	c.Recalculate()
	c.log.Info("capital borrowed", "amount", amount, "quoted_rate", rate, "debt", st.Debt)
	return nil
}

// Repay pays down debt from capital and returns the amount actually repaid.
func (c *Company) Repay(amount float64) (float64, error) {
	if amount <= 0 {
		return 0, ErrInvalidAmount
	}
	st := c.state
	if st.Debt <= 0 {
		return 0, ErrNoDebt
	}
	pay := math.Min(amount, st.Debt)
	if st.Capital < pay {
		return 0, ErrInsufficientCapital
	}
	st.Capital -= pay
	st.Debt -= pay
	st.DebtTotal = math.Max(0, st.DebtTotal-pay)
	c.Recalculate()
	return pay, nil
}
