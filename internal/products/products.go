// Package products is the product-sales system the company model reads revenue from.
// Lines sell each month according to morale, tech and acquired perks; development
// lines launch once the company's combined tech level reaches their requirement.
package products

import (
	"math"

	"tycoon/internal/company"
)

const (
	StatusActive       = company.ProductActive
	StatusDevelopment  = "development"
	StatusDiscontinued = "discontinued"
)

const (
	techBoostPerLevel = 0.05
	perkBoost         = 1.10
	moraleFloor       = 0.5
)

// perkCategories maps an acquisition perk to the product category it boosts.
var perkCategories = map[string]string{
	"chipMaster":   "hardware",
	"devPipeline":  "software",
	"studioTalent": "entertainment",
	"greenGrid":    "energy",
	"labSynergy":   "research",
}

type Line struct {
	ID          string  `json:"id"`
	Name        string  `json:"name"`
	Category    string  `json:"category"`
	Status      string  `json:"status"`
	BaseRevenue float64 `json:"baseRevenue"`
	Revenue     float64 `json:"revenue"`
	UnlockTech  int     `json:"unlockTech,omitempty"`
}

func DefaultLines() []Line {
	return []Line{
		{ID: "pulse-phone", Name: "Pulse Phone", Category: "hardware", Status: StatusActive, BaseRevenue: 90_000, Revenue: 90_000},
		{ID: "nimbus-os", Name: "Nimbus OS", Category: "software", Status: StatusActive, BaseRevenue: 60_000, Revenue: 60_000},
		{ID: "arcade-cloud", Name: "Arcade Cloud", Category: "entertainment", Status: StatusDevelopment, BaseRevenue: 45_000, UnlockTech: 1},
		{ID: "solar-kit", Name: "SolarGrid Kit", Category: "energy", Status: StatusDevelopment, BaseRevenue: 70_000, UnlockTech: 3},
		{ID: "legacy-pager", Name: "Legacy Pager", Category: "hardware", Status: StatusDiscontinued, BaseRevenue: 5_000, Revenue: 5_000},
	}
}

// Feed implements company.ProductFeed over a set of product lines.
type Feed struct {
	lines []Line
}

func NewFeed(lines []Line) *Feed {
	return &Feed{lines: append([]Line(nil), lines...)}
}

// ComputeMonthlySales launches lines whose tech requirement is met and sets this
// month's revenue on every active line.
func (f *Feed) ComputeMonthlySales(ctx company.SalesContext) {
	tech := ctx.TechLevels.Sum()
	morale := math.Max(moraleFloor, 0.5+ctx.Morale/100)
	boosted := map[string]bool{}
	for _, perk := range ctx.Acquisitions {
		if cat, ok := perkCategories[perk]; ok {
			boosted[cat] = true
		}
	}
	for i := range f.lines {
		l := &f.lines[i]
		if l.Status == StatusDevelopment && tech >= l.UnlockTech {
			l.Status = StatusActive
		}
		if l.Status != StatusActive {
			continue
		}
		rev := l.BaseRevenue * morale * (1 + techBoostPerLevel*float64(tech))
		if boosted[l.Category] {
			rev *= perkBoost
		}
		l.Revenue = rev
	}
}

func (f *Feed) Products() []company.Product {
	out := make([]company.Product, 0, len(f.lines))
	for _, l := range f.lines {
		out = append(out, company.Product{ID: l.ID, Name: l.Name, Status: l.Status, Revenue: l.Revenue})
	}
	return out
}

// Lines returns a copy of the current lines for persistence.
func (f *Feed) Lines() []Line {
	return append([]Line(nil), f.lines...)
}
