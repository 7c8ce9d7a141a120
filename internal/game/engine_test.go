package game

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"math"
	"sync"
	"testing"

	"tycoon/internal/company"
	"tycoon/internal/holdings"
	"tycoon/internal/market"
	"tycoon/internal/simerr"
	"tycoon/internal/store"

	"github.com/shopspring/decimal"
)

type constRand struct{ v float64 }

func (r constRand) Float64() float64 { return r.v }

type failingStore struct {
	store.Memory
	saves int
}

func (f *failingStore) Save(context.Context, string, []byte) error {
	f.saves++
	return errors.New("disk on fire")
}

func (f *failingStore) Load(context.Context, string) ([]byte, error) {
	return nil, store.ErrNotFound
}

func newTestEngine(t *testing.T, rnd float64) (*Engine, *store.Memory) {
	t.Helper()
	mem := store.NewMemory()
	e := New(Options{Store: mem, SaveKey: "save:test", Rand: constRand{rnd}})
	if err := e.Load(context.Background()); err != nil {
		t.Fatalf("load: %v", err)
	}
	return e, mem
}

func near(a, b float64) bool {
	return math.Abs(a-b) <= 1e-6*math.Max(1, math.Abs(b))
}

func mustJSON(t *testing.T, st State) []byte {
	t.Helper()
	blob, err := EncodeSnapshot(st)
	if err != nil {
		t.Fatalf("encode: %v", err)
	}
	return blob
}

func TestSeedDerivedFields(t *testing.T) {
	e, _ := newTestEngine(t, 0.5)
	st := e.Snapshot()

	if !st.Money.Equal(decimal.NewFromInt(450_000)) {
		t.Fatalf("money = %s", st.Money)
	}
	value := 150_000.0*12*3 + 500_000
	if !near(st.Value, value) {
		t.Fatalf("company value = %v want %v", st.Value, value)
	}
	if !near(st.NetWorth, 450_000+value*0.72) {
		t.Fatalf("net worth = %v", st.NetWorth)
	}
	if !near(st.MonthlyIncome, 150_000*0.72) || !near(st.MonthlyExpenses, 110_000*0.72) {
		t.Fatalf("income/expenses = %v/%v", st.MonthlyIncome, st.MonthlyExpenses)
	}
}

func TestFailedActionLeavesStateUntouched(t *testing.T) {
	e, _ := newTestEngine(t, 0.5)
	before := mustJSON(t, e.Snapshot())

	failures := []func() error{
		func() error { _, err := e.Buy(context.Background(), "", "BTX", 0, 100, ""); return err },
		func() error { _, err := e.Sell(context.Background(), "", "ORBX", 1, 0); return err },
		func() error { _, err := e.Buyback(context.Background(), "", 90); return err },
		func() error { return e.StockSplit(context.Background(), "") },
		func() error { _, err := e.AcquireCompany(context.Background(), "", "orbix-cloud"); return err },
		func() error { _, err := e.AcquireCompany(context.Background(), "", "treasury-10y"); return err },
		func() error { return e.UpdateShareholderRelationship(context.Background(), "", "nobody", 5) },
		func() error { _, err := e.Buy(context.Background(), "", "NOPE", 0, 1, ""); return err },
	}
	for i, f := range failures {
		if err := f(); err == nil {
			t.Fatalf("action %d unexpectedly succeeded", i)
		}
		if after := mustJSON(t, e.Snapshot()); !bytes.Equal(before, after) {
			t.Fatalf("action %d changed state", i)
		}
	}
}

func TestErrorCategories(t *testing.T) {
	e, _ := newTestEngine(t, 0.5)
	ctx := context.Background()
	if _, err := e.Buy(ctx, "", "NOPE", 0, 1, ""); !errors.Is(err, simerr.ErrLookup) {
		t.Fatalf("unknown symbol: %v", err)
	}
	if _, err := e.Buy(ctx, "", "BTX", 0, 100, ""); !errors.Is(err, simerr.ErrValidation) {
		t.Fatalf("insufficient funds: %v", err)
	}
	if _, err := e.Instrument("nope"); !errors.Is(err, holdings.ErrUnknownInstrument) {
		t.Fatalf("instrument lookup: %v", err)
	}
}

func TestBuySellAtLivePrice(t *testing.T) {
	e, _ := newTestEngine(t, 0.5)
	ctx := context.Background()
	start := e.Snapshot()

	tr, err := e.Buy(ctx, "", "ORBX", 0, 10, market.KindStock)
	if err != nil {
		t.Fatalf("buy: %v", err)
	}
	if tr.Price != 310 || tr.Total != 3100 {
		t.Fatalf("trade = %+v", tr)
	}
	st := e.Snapshot()
	if !st.Money.Equal(decimal.NewFromInt(450_000 - 3_100)) {
		t.Fatalf("money = %s", st.Money)
	}
	if !near(st.NetWorth, start.NetWorth) {
		t.Fatalf("net worth moved on a fair buy: %v -> %v", start.NetWorth, st.NetWorth)
	}

	if _, err := e.Sell(ctx, "", "orbx", 4, 0); err != nil {
		t.Fatalf("sell: %v", err)
	}
	p := e.Portfolio()
	if len(p.Positions) != 1 || p.Positions[0].Quantity != 6 || p.HoldingsValue != 1860 {
		t.Fatalf("portfolio = %+v", p)
	}
	if p.Money != 450_000-3_100+1_240 {
		t.Fatalf("money = %v", p.Money)
	}
}

func TestIdempotencyKeys(t *testing.T) {
	e, _ := newTestEngine(t, 0.5)
	ctx := context.Background()

	if err := e.IPO(ctx, "k1"); err != nil {
		t.Fatalf("ipo: %v", err)
	}
	if _, err := e.Dilute(ctx, "k1", 5); !errors.Is(err, ErrDuplicateAction) {
		t.Fatalf("got %v want ErrDuplicateAction", err)
	}
	if e.Snapshot().Ownership != 72 {
		t.Fatalf("duplicate action applied")
	}

	if _, err := e.Buy(ctx, "k2", "BTX", 0, 100, ""); err == nil {
		t.Fatalf("expected insufficient funds")
	}
	if _, err := e.Buy(ctx, "k2", "BTX", 0, 1, ""); err != nil {
		t.Fatalf("a failed action must not burn its key: %v", err)
	}
}

func TestPersistAndReload(t *testing.T) {
	e, mem := newTestEngine(t, 0.75)
	ctx := context.Background()

	if _, err := e.Buy(ctx, "", "VRDN", 0, 20, ""); err != nil {
		t.Fatalf("buy: %v", err)
	}
	if _, err := e.SimulateQuarter(ctx, ""); err != nil {
		t.Fatalf("quarter: %v", err)
	}
	if _, err := e.MonthlyTick(ctx, ""); err != nil {
		t.Fatalf("tick: %v", err)
	}

	blob, err := mem.Load(ctx, "save:test")
	if err != nil {
		t.Fatalf("no snapshot persisted: %v", err)
	}
	if !bytes.Equal(blob, mustJSON(t, e.Snapshot())) {
		t.Fatalf("persisted snapshot is stale")
	}

	reloaded := New(Options{Store: mem, SaveKey: "save:test", Rand: constRand{0.5}})
	if err := reloaded.Load(ctx); err != nil {
		t.Fatalf("reload: %v", err)
	}
	if !bytes.Equal(mustJSON(t, reloaded.Snapshot()), blob) {
		t.Fatalf("reloaded state differs")
	}
}

func TestPersistFailureKeepsState(t *testing.T) {
	fs := &failingStore{}
	e := New(Options{Store: fs, Rand: constRand{0.5}})
	if err := e.Load(context.Background()); err != nil {
		t.Fatalf("load: %v", err)
	}
	if err := e.IPO(context.Background(), ""); err != nil {
		t.Fatalf("ipo must succeed even when persistence fails: %v", err)
	}
	if !e.Snapshot().IsPublic {
		t.Fatalf("state rolled back after a persistence failure")
	}
	if fs.saves != 2 {
		t.Fatalf("saves = %d want one attempt per state change", fs.saves)
	}
}

func TestSnapshotFields(t *testing.T) {
	e, _ := newTestEngine(t, 0.5)
	var raw map[string]json.RawMessage
	if err := json.Unmarshal(mustJSON(t, e.Snapshot()), &raw); err != nil {
		t.Fatalf("unmarshal: %v", err)
	}
	want := []string{
		"money", "netWorth", "monthlyIncome", "monthlyExpenses", "holdings", "marketPrices",
		"companyValue", "companySharePrice", "companyDebt", "companyDebtTotal", "companyOwnership",
		"companyCapital", "companyRevenueMonthly", "companyExpensesMonthly", "factoryCount",
		"employeeCount", "employeeMorale", "salaryTier", "techLevels", "isPublic",
		"stockSplitCount", "acquisitions", "shareholders", "marketTrend", "priceHistory",
		"currentQuarter", "subsidiaryStates", "companyDailyChange",
	}
	for _, k := range want {
		if _, ok := raw[k]; !ok {
			t.Errorf("snapshot missing %q", k)
		}
	}
}

func TestDecodeSnapshotFillsGaps(t *testing.T) {
	st, err := DecodeSnapshot([]byte(`{"money":"12.5","companyOwnership":60}`), market.DefaultCatalog())
	if err != nil {
		t.Fatalf("decode: %v", err)
	}
	if !st.Money.Equal(decimal.RequireFromString("12.5")) || st.Ownership != 60 {
		t.Fatalf("decoded %+v", st)
	}
	if st.Subsidiaries == nil || st.Holdings == nil || st.CurrentQuarter != 1 || st.Trend != market.TrendFlat {
		t.Fatalf("gaps not filled: %+v", st.MarketState)
	}
	if st.Prices["orbix-cloud"] != 310 {
		t.Fatalf("prices not seeded")
	}
	if _, err := DecodeSnapshot([]byte(`{`), market.DefaultCatalog()); err == nil {
		t.Fatalf("expected decode error")
	}
}

func TestReset(t *testing.T) {
	e, _ := newTestEngine(t, 0.75)
	ctx := context.Background()
	seed := mustJSON(t, e.Snapshot())

	if _, err := e.Buy(ctx, "", "IDX500", 0, 3, ""); err != nil {
		t.Fatalf("buy: %v", err)
	}
	if err := e.IPO(ctx, ""); err != nil {
		t.Fatalf("ipo: %v", err)
	}
	if _, err := e.SimulateQuarter(ctx, ""); err != nil {
		t.Fatalf("quarter: %v", err)
	}
	if err := e.Reset(ctx, ""); err != nil {
		t.Fatalf("reset: %v", err)
	}
	if got := mustJSON(t, e.Snapshot()); !bytes.Equal(got, seed) {
		t.Fatalf("reset did not restore the seed game")
	}
}

func TestAcquireCompany(t *testing.T) {
	e, _ := newTestEngine(t, 0.5)
	ctx := context.Background()
	e.state.Money = decimal.NewFromInt(1_000_000_000)

	if _, err := e.Buy(ctx, "", "BYTE", 0, 100, ""); err != nil {
		t.Fatalf("buy: %v", err)
	}
	acq, err := e.AcquireCompany(ctx, "", "bytecraft-software")
	if err != nil {
		t.Fatalf("acquire: %v", err)
	}
	if !near(acq.Proceeds, 235) {
		t.Fatalf("proceeds = %v", acq.Proceeds)
	}
	st := e.Snapshot()
	if _, ok := st.Subsidiaries["bytecraft-software"]; !ok {
		t.Fatalf("subsidiary not registered")
	}
	if !st.HasAcquisition("devPipeline") {
		t.Fatalf("perk not recorded: %v", st.Acquisitions)
	}
	if len(st.Holdings) != 0 {
		t.Fatalf("held shares not cashed out")
	}
	d, err := e.Instrument("BYTE")
	if err != nil || !d.Owned {
		t.Fatalf("instrument detail: %+v %v", d, err)
	}
	if _, err := e.AcquireCompany(ctx, "", "bytecraft-software"); !errors.Is(err, holdings.ErrAlreadyAcquired) {
		t.Fatalf("second acquisition: %v", err)
	}
}

func TestPriceCadences(t *testing.T) {
	e, _ := newTestEngine(t, 0.75)
	ctx := context.Background()

	if err := e.UpdatePrices(ctx, ""); err != nil {
		t.Fatalf("update prices: %v", err)
	}
	st := e.Snapshot()
	if !near(st.Prices["orbix-cloud"], 310*1.025) {
		t.Fatalf("stock refresh = %v", st.Prices["orbix-cloud"])
	}
	if st.CurrentQuarter != 1 || len(st.History) != 0 {
		t.Fatalf("per-tick refresh touched the quarter")
	}

	q, err := e.SimulateQuarter(ctx, "")
	if err != nil || q != 1 {
		t.Fatalf("quarter = %d err %v", q, err)
	}
	d, err := e.Instrument("orbix-cloud")
	if err != nil {
		t.Fatalf("instrument: %v", err)
	}
	if len(d.History) != 1 || d.History[0].Quarter != 1 || e.Snapshot().CurrentQuarter != 2 {
		t.Fatalf("history = %+v", d.History)
	}
}

func TestMonthlyTickUpdatesDerivedFields(t *testing.T) {
	e, _ := newTestEngine(t, 0.5)
	r, err := e.MonthlyTick(context.Background(), "")
	if err != nil {
		t.Fatalf("tick: %v", err)
	}
	st := e.Snapshot()
	// Morale 70 scales the seed lines by 1.2.
	if !near(r.Revenue, 150_000*1.2) || !near(st.RevenueMonthly, r.Revenue) {
		t.Fatalf("revenue = %v", r.Revenue)
	}
	if !near(st.MonthlyIncome, r.Revenue*0.72) {
		t.Fatalf("monthly income = %v", st.MonthlyIncome)
	}
	if st.EmployeeMorale != 71 {
		t.Fatalf("morale = %v", st.EmployeeMorale)
	}
	if !near(st.Products[0].Revenue, 90_000*1.2) {
		t.Fatalf("product lines not persisted: %+v", st.Products[0])
	}
}

func TestCompanyActions(t *testing.T) {
	e, _ := newTestEngine(t, 0.5)
	ctx := context.Background()

	if err := e.Borrow(ctx, "", 1_000_000, 0.05); err != nil {
		t.Fatalf("borrow: %v", err)
	}
	if _, err := e.BuildFactories(ctx, "", 2); err != nil {
		t.Fatalf("factories: %v", err)
	}
	if err := e.Hire(ctx, "", 5); err != nil {
		t.Fatalf("hire: %v", err)
	}
	if err := e.SetSalaryTier(ctx, "", company.TierAboveAverage); err != nil {
		t.Fatalf("salary: %v", err)
	}
	if _, err := e.UpgradeTech(ctx, "", company.TechFuture); err != nil {
		t.Fatalf("tech: %v", err)
	}
	if _, err := e.PayDividend(ctx, "", 10); err != nil {
		t.Fatalf("dividend: %v", err)
	}
	if _, err := e.Repay(ctx, "", 100_000); err != nil {
		t.Fatalf("repay: %v", err)
	}

	v := e.Company()
	if v.FactoryCount != 3 || v.EmployeeCount != 17 || v.TechLevels.Future != 1 || v.Debt != 900_000 {
		t.Fatalf("company = %+v", v.State)
	}
	if v.Financials.Expenses != v.ExpensesMonthly {
		t.Fatalf("view financials disagree with state")
	}
	if !near(v.ShareholderTotal(), 100) {
		t.Fatalf("shareholders sum to %v", v.ShareholderTotal())
	}
}

func TestConcurrentActionsSerialize(t *testing.T) {
	e, _ := newTestEngine(t, 0.5)
	ctx := context.Background()
	var wg sync.WaitGroup
	for i := 0; i < 20; i++ {
		wg.Add(2)
		go func() {
			defer wg.Done()
			_, _ = e.Buy(ctx, "", "DOGO", 0, 10, "")
		}()
		go func() {
			defer wg.Done()
			_ = e.UpdatePrices(ctx, "")
			_ = e.Portfolio()
		}()
	}
	wg.Wait()
	p := e.Portfolio()
	if len(p.Positions) != 1 || !near(p.Positions[0].Quantity, 200) {
		t.Fatalf("positions = %+v", p.Positions)
	}
}
