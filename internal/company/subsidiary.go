package company

import (
	"tycoon/internal/holdings"
)

func (c *Company) HasSubsidiary(id string) bool {
	_, ok := c.state.Subsidiaries[id]
	return ok
}

// RegisterSubsidiary records a freshly acquired company. Subsidiaries are never removed.
func (c *Company) RegisterSubsidiary(r holdings.Registration) {
	st := c.state
	if st.Subsidiaries == nil {
		st.Subsidiaries = map[string]Subsidiary{}
	}
	if _, ok := st.Subsidiaries[r.ID]; ok {
		return
	}
	base := r.MarketCap * c.bal.SubsidiaryProfitYield
	st.Subsidiaries[r.ID] = Subsidiary{
		ID:                   r.ID,
		Name:                 r.Name,
		MarketCap:            r.MarketCap,
		BaseProfit:           base,
		CurrentProfit:        base,
		InitialPurchasePrice: r.MarketCap * c.bal.AcquisitionPremium,
	}
	st.addAcquisition(r.AcquisitionBuff)
	c.Recalculate()
	c.log.Info("subsidiary registered", "id", r.ID, "symbol", r.Symbol, "category", r.Category, "buff", r.AcquisitionBuff)
}

// stepSubsidiaries advances every subsidiary one month through the healthy/failing
// chain and returns the new map with the aggregate profit.
func (c *Company) stepSubsidiaries() (map[string]Subsidiary, float64) {
	st := c.state
	next := make(map[string]Subsidiary, len(st.Subsidiaries))
	net := 0.0
	for _, id := range st.subsidiaryIDs() {
		sub := st.Subsidiaries[id]
		roll := c.rand.Float64() * 100
		switch {
		case !sub.IsLossMaking && roll < c.bal.FailPercent:
			sub.IsLossMaking = true
			sub.CurrentProfit = -c.bal.FailingLossRatio * sub.MarketCap
			c.log.Info("subsidiary failing", "id", id, "profit", sub.CurrentProfit)
		case sub.IsLossMaking && roll < c.bal.RecoverPercent:
			sub.IsLossMaking = false
			sub.CurrentProfit = sub.BaseProfit
			c.log.Info("subsidiary recovered", "id", id, "profit", sub.CurrentProfit)
		}
		next[id] = sub
		net += sub.CurrentProfit
	}
	return next, net
}
