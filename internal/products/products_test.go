package products

import (
	"math"
	"testing"

	"tycoon/internal/company"
	"tycoon/internal/config"
)

func TestComputeMonthlySales(t *testing.T) {
	tests := []struct {
		name  string
		ctx   company.SalesContext
		phone float64
		os    float64
	}{
		{name: "neutral morale", ctx: company.SalesContext{Morale: 50}, phone: 90_000, os: 60_000},
		{name: "zero morale floors at half", ctx: company.SalesContext{Morale: 0}, phone: 45_000, os: 30_000},
		{name: "tech boost", ctx: company.SalesContext{Morale: 50, TechLevels: company.TechLevels{Hardware: 2}}, phone: 99_000, os: 66_000},
		{name: "perk boosts its category only", ctx: company.SalesContext{Morale: 50, Acquisitions: []string{"chipMaster"}}, phone: 99_000, os: 60_000},
	}
	for _, tc := range tests {
		t.Run(tc.name, func(t *testing.T) {
			f := NewFeed(DefaultLines())
			f.ComputeMonthlySales(tc.ctx)
			got := map[string]float64{}
			for _, p := range f.Products() {
				got[p.ID] = p.Revenue
			}
			if math.Abs(got["pulse-phone"]-tc.phone) > 1e-6 || math.Abs(got["nimbus-os"]-tc.os) > 1e-6 {
				t.Fatalf("got phone=%v os=%v want %v/%v", got["pulse-phone"], got["nimbus-os"], tc.phone, tc.os)
			}
			if got["legacy-pager"] != 5_000 {
				t.Fatalf("discontinued line revenue moved: %v", got["legacy-pager"])
			}
		})
	}
}

func TestDevelopmentLinesLaunch(t *testing.T) {
	f := NewFeed(DefaultLines())
	f.ComputeMonthlySales(company.SalesContext{Morale: 50})
	if status(f, "arcade-cloud") != StatusDevelopment {
		t.Fatalf("launched without tech")
	}
	f.ComputeMonthlySales(company.SalesContext{Morale: 50, TechLevels: company.TechLevels{Software: 1}})
	if status(f, "arcade-cloud") != StatusActive {
		t.Fatalf("arcade-cloud not launched")
	}
	if status(f, "solar-kit") != StatusDevelopment {
		t.Fatalf("solar-kit launched early")
	}
}

func TestOnlyActiveRevenueCounts(t *testing.T) {
	st := company.SeedState()
	f := NewFeed(DefaultLines())
	got := company.Recalculate(&st, f, config.DefaultBalance().Company)
	if got.Revenue != 150_000 {
		t.Fatalf("revenue = %v want 150000", got.Revenue)
	}
}

func TestLinesAreCopied(t *testing.T) {
	seed := DefaultLines()
	f := NewFeed(seed)
	f.ComputeMonthlySales(company.SalesContext{Morale: 100})
	if seed[0].Revenue != 90_000 {
		t.Fatalf("feed mutated caller's lines")
	}
	lines := f.Lines()
	lines[0].Revenue = 1
	if f.Lines()[0].Revenue == 1 {
		t.Fatalf("Lines leaked internal slice")
	}
}

func status(f *Feed, id string) string {
	for _, p := range f.Products() {
		if p.ID == id {
			return p.Status
		}
	}
	return ""
}
