package scheduler

import (
	"context"
	"errors"
	"log/slog"
	"sort"
	"testing"
	"time"

	"tycoon/internal/company"
	"tycoon/internal/config"
)

type fakeSim struct {
	calls []string
	fail  string
}

func (f *fakeSim) UpdatePrices(context.Context, string) error {
	f.calls = append(f.calls, JobPriceTick)
	if f.fail == JobPriceTick {
		return errors.New("boom")
	}
	return nil
}

func (f *fakeSim) MonthlyTick(context.Context, string) (company.TickReport, error) {
	f.calls = append(f.calls, JobMonth)
	if f.fail == JobMonth {
		return company.TickReport{}, errors.New("boom")
	}
	return company.TickReport{}, nil
}

func (f *fakeSim) SimulateQuarter(context.Context, string) (int, error) {
	f.calls = append(f.calls, JobQuarter)
	return 1, nil
}

func TestRunOnceOrder(t *testing.T) {
	sim := &fakeSim{}
	if err := RunOnce(context.Background(), sim); err != nil {
		t.Fatalf("run once: %v", err)
	}
	want := []string{JobMonth, JobQuarter, JobPriceTick}
	for i := range want {
		if sim.calls[i] != want[i] {
			t.Fatalf("calls = %v want %v", sim.calls, want)
		}
	}
}

func TestRunOnceKeepsGoingAfterFailure(t *testing.T) {
	sim := &fakeSim{fail: JobMonth}
	err := RunOnce(context.Background(), sim)
	if err == nil {
		t.Fatalf("expected error")
	}
	if len(sim.calls) != 3 {
		t.Fatalf("calls = %v", sim.calls)
	}
}

func TestAddClockSkipsDisabledCadences(t *testing.T) {
	s, err := New(slog.Default())
	if err != nil {
		t.Fatalf("new: %v", err)
	}
	defer s.Stop()

	err = s.AddClock(&fakeSim{}, config.Clock{MonthEvery: time.Minute, QuarterEvery: 3 * time.Minute})
	if err != nil {
		t.Fatalf("add clock: %v", err)
	}
	names := s.JobNames()
	sort.Strings(names)
	if len(names) != 2 || names[0] != JobMonth || names[1] != JobQuarter {
		t.Fatalf("jobs = %v", names)
	}
}

func TestTaskRecoversPanics(t *testing.T) {
	s, err := New(nil)
	if err != nil {
		t.Fatalf("new: %v", err)
	}
	defer s.Stop()

	ran := false
	task := s.taskWithRecover(func(context.Context) error {
		ran = true
		panic("tick exploded")
	}, "panicky")
	task(context.Background())
	if !ran {
		t.Fatalf("task did not run")
	}
}
