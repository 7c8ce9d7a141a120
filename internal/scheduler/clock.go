package scheduler

import (
	"context"
	"errors"
	"fmt"
	"time"

	"tycoon/internal/company"
	"tycoon/internal/config"
)

const (
	JobPriceTick = "price_tick"
	JobMonth     = "monthly_tick"
	JobQuarter   = "quarterly_market"
)

// Simulation is the set of clock-driven actions.
type Simulation interface {
	UpdatePrices(ctx context.Context, key string) error
	MonthlyTick(ctx context.Context, key string) (company.TickReport, error)
	SimulateQuarter(ctx context.Context, key string) (int, error)
}

// AddClock registers one job per enabled cadence. Zero intervals are skipped.
func (s *Scheduler) AddClock(sim Simulation, c config.Clock) error {
	jobs := []struct {
		name  string
		every time.Duration
		fn    taskFn
	}{
		{JobPriceTick, c.PriceEvery, func(ctx context.Context) error { return sim.UpdatePrices(ctx, "") }},
		{JobMonth, c.MonthEvery, func(ctx context.Context) error { _, err := sim.MonthlyTick(ctx, ""); return err }},
		{JobQuarter, c.QuarterEvery, func(ctx context.Context) error { _, err := sim.SimulateQuarter(ctx, ""); return err }},
	}
	for _, j := range jobs {
		if j.every <= 0 {
			s.log.Info("clock disabled", "job", j.name)
			continue
		}
		if err := s.NewIntervalJob(j.name, j.fn, j.every, false); err != nil {
			return err
		}
		s.log.Info("clock registered", "job", j.name, "every", j.every.String())
	}
	return nil
}

// RunOnce advances every cadence a single step, in month, quarter, price order.
func RunOnce(ctx context.Context, sim Simulation) error {
	var errs []error
	if _, err := sim.MonthlyTick(ctx, ""); err != nil {
		errs = append(errs, fmt.Errorf("monthly tick: %w", err))
	}
	if _, err := sim.SimulateQuarter(ctx, ""); err != nil {
		errs = append(errs, fmt.Errorf("quarter: %w", err))
	}
	if err := sim.UpdatePrices(ctx, ""); err != nil {
		errs = append(errs, fmt.Errorf("prices: %w", err))
	}
	return errors.Join(errs...)
}
