package company

// TickReport summarizes one monthly tick.
type TickReport struct {
	Revenue        float64 `json:"revenue"`
	Expenses       float64 `json:"expenses"`
	Profit         float64 `json:"profit"`
	SubsidiaryNet  float64 `json:"subsidiaryNet"`
	MoraleDelta    float64 `json:"moraleDelta"`
	Morale         float64 `json:"morale"`
	PriceChangePct float64 `json:"priceChangePct"`
	SharePrice     float64 `json:"sharePrice"`
	Valuation      float64 `json:"valuation"`
}

// MonthlyTick runs the fixed monthly order: product sales, subsidiaries, the
// financial model on the pre-tick state, the subsidiary fold, morale, then the
// public share price move.
func (c *Company) MonthlyTick() TickReport {
	st := c.state
	if c.feed != nil {
		c.feed.ComputeMonthlySales(SalesContext{
			Morale:       st.EmployeeMorale,
			TechLevels:   st.TechLevels,
			Acquisitions: append([]string(nil), st.Acquisitions...),
		})
	}

	subs, net := c.stepSubsidiaries()
	f := Recalculate(st, c.feed, c.bal)

	var r TickReport
	r.SubsidiaryNet = net
	r.Revenue, r.Expenses = f.Revenue, f.Expenses
	if net > 0 {
		r.Revenue += net
	} else {
		r.Expenses += -net
	}
	st.Subsidiaries = subs

	r.Profit = r.Revenue - r.Expenses
	if r.Profit > 0 {
		r.MoraleDelta = c.bal.ProfitMoraleDelta
	} else {
		r.MoraleDelta = c.bal.LossMoraleDelta
	}
	switch st.SalaryTier {
	case TierLow:
		r.MoraleDelta += c.bal.LowTierMoraleDelta
	case TierAboveAverage:
		r.MoraleDelta += c.bal.AboveTierMoraleDelta
	}
	st.EmployeeMorale = clamp(st.EmployeeMorale+r.MoraleDelta, 0, 100)
	r.Morale = st.EmployeeMorale

	r.Valuation, r.SharePrice = f.Valuation, f.SharePrice
	if st.IsPublic {
		margin := c.bal.NoRevenueMargin
		if r.Revenue > 0 {
			margin = r.Profit / r.Revenue
		}
		noise := c.bal.PriceNoisePercent
		r.PriceChangePct = margin*c.bal.MarginWeight + (-noise + 2*noise*c.rand.Float64())
		move := 1 + r.PriceChangePct/100
		r.SharePrice *= move
		r.Valuation *= move
		st.DailyChange = r.PriceChangePct
	}

	st.RevenueMonthly = r.Revenue
	st.ExpensesMonthly = r.Expenses
	st.Value = r.Valuation
	st.SharePrice = r.SharePrice
	return r
}
