package company

import "math"

type TechTrack string

const (
	TechHardware TechTrack = "hardware"
	TechSoftware TechTrack = "software"
	TechFuture   TechTrack = "future"
)

// Hire changes headcount by n; negative n lays people off.
func (c *Company) Hire(n int) error {
	st := c.state
	if n == 0 {
		return ErrInvalidAmount
	}
	if st.EmployeeCount+n < 0 {
		return ErrHeadcount
	}
	st.EmployeeCount += n
	c.Recalculate()
	return nil
}

// BuildFactories pays for n factories out of company capital.
func (c *Company) BuildFactories(n int) (float64, error) {
	if n <= 0 {
		return 0, ErrInvalidAmount
	}
	st := c.state
	cost := float64(n) * c.bal.FactoryBuildCost
	if st.Capital < cost {
		return 0, ErrInsufficientCapital
	}
	st.Capital -= cost
	st.FactoryCount += n
	c.Recalculate()
	return cost, nil
}

func (c *Company) SetSalaryTier(tier SalaryTier) error {
	if !tier.Valid() {
		return ErrInvalidTier
	}
	c.state.SalaryTier = tier
	c.Recalculate()
	return nil
}

// TechUpgradeCost grows linearly with the track's current level.
func (c *Company) TechUpgradeCost(track TechTrack) (float64, error) {
	level, err := c.techLevel(track)
	if err != nil {
		return 0, err
	}
	return c.bal.TechUpgradeBaseCost * float64(*level+1), nil
}

func (c *Company) UpgradeTech(track TechTrack) (float64, error) {
	cost, err := c.TechUpgradeCost(track)
	if err != nil {
		return 0, err
	}
	st := c.state
	if st.Capital < cost {
		return 0, ErrInsufficientCapital
	}
	level, _ := c.techLevel(track)
	st.Capital -= cost
	*level++
	c.Recalculate()
	return cost, nil
}

func (c *Company) techLevel(track TechTrack) (*int, error) {
	switch track {
	case TechHardware:
		return &c.state.TechLevels.Hardware, nil
	case TechSoftware:
		return &c.state.TechLevels.Software, nil
	case TechFuture:
		return &c.state.TechLevels.Future, nil
	}
	return nil, ErrInvalidTech
}

// PlayerShare is the player's ownership-weighted share of v.
func (c *Company) PlayerShare(v float64) float64 {
	return v * c.state.Ownership / 100
}

// EquityValue is the player's stake in the company at the current valuation.
func (c *Company) EquityValue() float64 {
	return math.Max(0, c.PlayerShare(c.state.Value))
}
