package company

import (
	"fmt"
	"math"

	"tycoon/internal/ledger"

	"github.com/google/uuid"
)

// PublicFloatID is the shareholder row that absorbs shares issued after the IPO.
const PublicFloatID = "public-float"

// IPO lists the company. The premium only feeds the capital raise; the following
// recalculation prices the company with the public multiplier.
func (c *Company) IPO() error {
	st := c.state
	if st.IsPublic {
		return ErrAlreadyPublic
	}
	st.Value += st.Value * c.bal.IPOPremium
	raised := st.Value * c.bal.IPOCapitalShare
	st.Capital += raised
	st.IsPublic = true
	f := c.Recalculate()
	c.log.Info("company listed", "raised", raised, "valuation", f.Valuation, "share_price", f.SharePrice)
	return nil
}

func (c *Company) StockSplit() error {
	st := c.state
	if st.SharePrice <= c.bal.SplitThreshold {
		return ErrSplitThreshold
	}
	st.StockSplitCount++
	c.Recalculate()
	return nil
}

// Dilute issues new equity worth pct of the valuation into company capital.
func (c *Company) Dilute(pct float64) (float64, error) {
	if pct <= 0 || pct >= 100 {
		return 0, ErrInvalidPercent
	}
	st := c.state
	raised := st.Value * pct / 100
	st.Capital += raised
	st.SharePrice *= c.bal.DilutionPriceImpact
	c.setOwnership(st.Ownership * (1 - pct/100))
	return raised, nil
}

// Buyback retires pct of the valuation in shares using company capital.
func (c *Company) Buyback(pct float64) (float64, error) {
	if pct <= 0 || pct >= 100 {
		return 0, ErrInvalidPercent
	}
	st := c.state
	cost := st.Value * pct / 100
	if st.Capital < cost {
		return 0, ErrInsufficientCapital
	}
	st.Capital -= cost
	st.SharePrice *= c.bal.BuybackPriceImpact
	c.setOwnership(math.Min(100, st.Ownership/(1-pct/100)))
	return cost, nil
}

// PayDividend distributes pct of capital; the player's cut lands in the wallet.
func (c *Company) PayDividend(pct float64) (float64, error) {
	if pct <= 0 || pct > 100 {
		return 0, ErrInvalidPercent
	}
	st := c.state
	pool := st.Capital * pct / 100
	playerShare := pool * st.Ownership / 100
	st.Capital -= pool
	c.wallet.Earn(ledger.FromFloat(playerShare))
	st.SharePrice *= c.bal.DividendPriceImpact
	return playerShare, nil
}

func (c *Company) UpdateShareholderRelationship(id string, delta float64) error {
	st := c.state
	idx := st.shareholderIndex(id)
	if idx < 0 {
		c.log.Warn("relationship: unknown shareholder", "id", id)
		return ErrUnknownShareholder
	}
	sh := &st.Shareholders[idx]
	if sh.Type == HolderPlayer {
		return ErrPlayerRow
	}
	cur := 0.0
	if sh.Relationship != nil {
		cur = *sh.Relationship
	}
	sh.Relationship = relationship(clamp(cur+delta, 0, 100))
	return nil
}

// setOwnership moves the player's stake and rebalances the other rows so the
// table keeps summing to 100. Shares given up go to new investors; shares bought
// back come out of every other holder pro rata.
func (c *Company) setOwnership(next float64) {
	st := c.state
	next = clamp(next, 0, 100)
	pi := st.shareholderIndex(PlayerHolderID)
	if pi < 0 {
		st.Shareholders = append([]Shareholder{{ID: PlayerHolderID, Name: "You", Type: HolderPlayer}}, st.Shareholders...)
		pi = 0
	}
	delta := next - st.Shareholders[pi].Percentage
	st.Ownership = next
	st.Shareholders[pi].Percentage = next

	switch {
	case delta < 0:
		c.issueTo(-delta)
	case delta > 0:
		others := 100 - next + delta
		if others > 0 {
			scale := (others - delta) / others
			for i := range st.Shareholders {
				if i != pi {
					st.Shareholders[i].Percentage *= scale
				}
			}
		}
	}
	c.normalizeShareholders(pi)
}

func (c *Company) issueTo(pct float64) {
	st := c.state
	if st.IsPublic {
		if idx := st.shareholderIndex(PublicFloatID); idx >= 0 {
			st.Shareholders[idx].Percentage += pct
			return
		}
		st.Shareholders = append(st.Shareholders, Shareholder{
			ID:           PublicFloatID,
			Name:         "Public Float",
			Type:         HolderInvestor,
			Percentage:   pct,
			Relationship: relationship(50),
		})
		return
	}
	round := 1
	for _, sh := range st.Shareholders {
		if sh.Type == HolderInvestor {
			round++
		}
	}
	st.Shareholders = append(st.Shareholders, Shareholder{
		ID:           uuid.NewString(),
		Name:         fmt.Sprintf("Round %d Investors", round),
		Type:         HolderInvestor,
		Percentage:   pct,
		Relationship: relationship(50),
	})
}

// normalizeShareholders absorbs float drift into the non-player rows.
func (c *Company) normalizeShareholders(pi int) {
	st := c.state
	others := st.ShareholderTotal() - st.Shareholders[pi].Percentage
	want := 100 - st.Shareholders[pi].Percentage
	if others <= 0 || math.Abs(others-want) < 1e-12 {
		return
	}
	scale := want / others
	for i := range st.Shareholders {
		if i != pi {
			st.Shareholders[i].Percentage *= scale
		}
	}
}
