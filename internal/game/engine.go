package game

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"log/slog"
	mathrand "math/rand"
	"strings"
	"sync"
	"time"

	"tycoon/internal/company"
	"tycoon/internal/config"
	"tycoon/internal/holdings"
	"tycoon/internal/ledger"
	"tycoon/internal/market"
	"tycoon/internal/products"
	"tycoon/internal/simerr"
	"tycoon/internal/store"

	"github.com/shopspring/decimal"
)

// StartingMoney is the player's cash in a fresh game.
var StartingMoney = decimal.NewFromInt(450_000)

const (
	persistTimeout  = 5 * time.Second
	recentKeysLimit = 512
)

var ErrDuplicateAction = fmt.Errorf("%w: duplicate idempotency key", simerr.ErrValidation)

type Rand interface {
	Float64() float64
}

type Options struct {
	Store   store.Store
	SaveKey string
	Balance config.Balance
	Catalog *market.Catalog
	Rand    Rand
	Logger  *slog.Logger
}

// Engine owns the one simulation State. Actions run one at a time against a clone
// that replaces the state only when the action succeeds.
type Engine struct {
	mu      sync.Mutex
	state   State
	catalog *market.Catalog
	prices  *market.Engine
	bal     config.Balance
	rand    Rand
	store   store.Store
	saveKey string
	log     *slog.Logger

	recent    map[string]struct{}
	recentLog []string
}

func New(opts Options) *Engine {
	if opts.Logger == nil {
		opts.Logger = slog.Default()
	}
	if opts.Catalog == nil {
		opts.Catalog = market.DefaultCatalog()
	}
	if opts.Rand == nil {
		opts.Rand = mathrand.New(mathrand.NewSource(time.Now().UnixNano()))
	}
	if opts.Store == nil {
		opts.Store = store.NewMemory()
	}
	if opts.SaveKey == "" {
		opts.SaveKey = "save:default"
	}
	if opts.Balance.Company.BaseShares == 0 {
		opts.Balance = config.DefaultBalance()
	}
	e := &Engine{
		catalog: opts.Catalog,
		prices:  market.NewEngine(opts.Catalog, opts.Balance.Market, opts.Rand, opts.Logger),
		bal:     opts.Balance,
		rand:    opts.Rand,
		store:   opts.Store,
		saveKey: opts.SaveKey,
		log:     opts.Logger,
		recent:  map[string]struct{}{},
	}
	e.state = e.seed()
	return e
}

// Load restores the saved snapshot, or seeds and saves a new game when none exists.
func (e *Engine) Load(ctx context.Context) error {
	e.mu.Lock()
	defer e.mu.Unlock()

	blob, err := e.store.Load(ctx, e.saveKey)
	if errors.Is(err, store.ErrNotFound) {
		e.log.Info("no save found, starting a new game", "key", e.saveKey)
		e.state = e.seed()
		e.persist(ctx)
		return nil
	}
	if err != nil {
		return fmt.Errorf("load snapshot: %w", err)
	}
	st, err := DecodeSnapshot(blob, e.catalog)
	if err != nil {
		return err
	}
	e.state = st
	e.log.Info("save loaded", "key", e.saveKey, "quarter", st.CurrentQuarter, "net_worth", st.NetWorth)
	return nil
}

func (e *Engine) Snapshot() State {
	e.mu.Lock()
	defer e.mu.Unlock()
	return e.state.Clone()
}

func (e *Engine) Catalog() *market.Catalog {
	return e.catalog
}

// Reset restores the seed game. Holdings, subsidiaries and price history are gone.
func (e *Engine) Reset(ctx context.Context, key string) error {
	_, err := act(e, ctx, key, "reset", func(w *world) (struct{}, error) {
		*w.st = e.seed()
		w.bind(e)
		return struct{}{}, nil
	})
	return err
}

func EncodeSnapshot(st State) ([]byte, error) {
	return json.Marshal(st)
}

func DecodeSnapshot(blob []byte, c *market.Catalog) (State, error) {
	var st State
	if err := json.Unmarshal(blob, &st); err != nil {
		return State{}, fmt.Errorf("decode snapshot: %w", err)
	}
	st.normalize(c)
	return st, nil
}

// world wires the components against one working copy of the state.
type world struct {
	st       *State
	wallet   *ledger.Ledger
	feed     *products.Feed
	company  *company.Company
	holdings *holdings.Ledger
	prices   *market.Engine
}

func (e *Engine) newWorld(st *State) *world {
	w := &world{st: st}
	w.bind(e)
	return w
}

func (w *world) bind(e *Engine) {
	w.wallet = ledger.New(w.st.Money)
	w.feed = products.NewFeed(w.st.Products)
	w.company = company.New(&w.st.CompanyState, w.feed, w.wallet, e.bal.Company, e.rand, e.log)
	w.prices = e.prices
	w.holdings = holdings.New(&w.st.MarketState, e.prices, w.wallet, w.company, e.bal.Company.AcquisitionPremium, e.log)
}

// commit folds the component-held pieces back into the state and refreshes the
// player-level derived fields.
func (w *world) commit() {
	w.st.Money = w.wallet.Balance()
	w.st.Products = w.feed.Lines()
	c := &w.st.CompanyState
	c.NetWorth = ledger.ToFloat(w.st.Money) + w.holdings.Value() + w.company.EquityValue()
	c.MonthlyIncome = w.company.PlayerShare(c.RevenueMonthly)
	c.MonthlyExpenses = w.company.PlayerShare(c.ExpensesMonthly)
}

func (e *Engine) seed() State {
	st := State{
		Money:        StartingMoney,
		CompanyState: company.SeedState(),
		MarketState:  market.SeedState(e.catalog),
		Products:     products.DefaultLines(),
	}
	w := e.newWorld(&st)
	w.company.Recalculate()
	w.commit()
	return st
}

// act runs fn against a clone of the state. On success the clone becomes the state
// and is persisted; on failure it is dropped and the state is untouched.
func act[T any](e *Engine, ctx context.Context, key, name string, fn func(w *world) (T, error)) (T, error) {
	e.mu.Lock()
	defer e.mu.Unlock()

	var zero T
	key = strings.TrimSpace(key)
	if key != "" {
		if _, seen := e.recent[key]; seen {
			return zero, ErrDuplicateAction
		}
	}

	next := e.state.Clone()
	w := e.newWorld(&next)
	out, err := fn(w)
	if err != nil {
		e.log.Debug("action rejected", "action", name, "err", err)
		return zero, err
	}
	w.commit()
	e.state = next
	e.remember(key)
	e.persist(ctx)
	return out, nil
}

func (e *Engine) remember(key string) {
	if key == "" {
		return
	}
	e.recent[key] = struct{}{}
	e.recentLog = append(e.recentLog, key)
	if len(e.recentLog) > recentKeysLimit {
		delete(e.recent, e.recentLog[0])
		e.recentLog = e.recentLog[1:]
	}
}

// persist writes the snapshot. Failures are logged and never undo the action.
func (e *Engine) persist(ctx context.Context) {
	blob, err := EncodeSnapshot(e.state)
	if err != nil {
		e.log.Error("encode snapshot failed", "err", err)
		return
	}
	ctx, cancel := context.WithTimeout(context.WithoutCancel(ctx), persistTimeout)
	defer cancel()
	if err := e.store.Save(ctx, e.saveKey, blob); err != nil {
		e.log.Error("persist snapshot failed", "key", e.saveKey, "err", err)
	}
}
