package api

import (
	"encoding/json"
	"errors"
	"log/slog"
	"net/http"
	"strings"
	"time"

	"tycoon/internal/company"
	"tycoon/internal/game"
	"tycoon/internal/holdings"
	"tycoon/internal/market"
	"tycoon/internal/simerr"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"
	"github.com/google/uuid"
)

type Server struct {
	log  *slog.Logger
	game *game.Engine
	mux  *chi.Mux
}

func New(logger *slog.Logger, engine *game.Engine) *Server {
	if logger == nil {
		logger = slog.Default()
	}
	s := &Server{
		log:  logger,
		game: engine,
		mux:  chi.NewRouter(),
	}
	s.routes()
	return s
}

func (s *Server) Handler() http.Handler {
	return s.mux
}

func (s *Server) routes() {
	r := s.mux
	r.Use(middleware.RequestID)
	r.Use(middleware.RealIP)
	r.Use(middleware.Recoverer)
	r.Use(middleware.Timeout(30 * time.Second))

	r.Get("/healthz", func(w http.ResponseWriter, _ *http.Request) {
		writeJSON(w, http.StatusOK, map[string]any{"ok": true})
	})

	r.Route("/v1", func(r chi.Router) {
		r.Get("/state", s.handleState)
		r.Get("/company", s.handleCompany)
		r.Get("/portfolio", s.handlePortfolio)
		r.Get("/instruments", s.handleInstruments)
		r.Get("/instruments/{id}", s.handleInstrument)
		r.Post("/reset", s.handleReset)

		r.Route("/company", func(r chi.Router) {
			r.Post("/ipo", s.handleIPO)
			r.Post("/split", s.handleSplit)
			r.Post("/dilute", s.handleDilute)
			r.Post("/buyback", s.handleBuyback)
			r.Post("/dividend", s.handleDividend)
			r.Post("/borrow", s.handleBorrow)
			r.Post("/repay", s.handleRepay)
			r.Post("/hire", s.handleHire)
			r.Post("/factories", s.handleFactories)
			r.Post("/salary", s.handleSalary)
			r.Post("/tech", s.handleTech)
			r.Post("/tick", s.handleMonthlyTick)
		})
		r.Post("/shareholders/{id}/relationship", s.handleRelationship)

		r.Route("/market", func(r chi.Router) {
			r.Post("/buy", s.handleBuy)
			r.Post("/sell", s.handleSell)
			r.Post("/liquidate", s.handleLiquidate)
			r.Post("/refresh", s.handleRefresh)
			r.Post("/quarter", s.handleQuarter)
			r.Post("/acquire/{id}", s.handleAcquire)
		})
	})
}

func (s *Server) handleState(w http.ResponseWriter, _ *http.Request) {
	writeJSON(w, http.StatusOK, s.game.Snapshot())
}

func (s *Server) handleCompany(w http.ResponseWriter, _ *http.Request) {
	writeJSON(w, http.StatusOK, s.game.Company())
}

func (s *Server) handlePortfolio(w http.ResponseWriter, _ *http.Request) {
	writeJSON(w, http.StatusOK, s.game.Portfolio())
}

func (s *Server) handleInstruments(w http.ResponseWriter, r *http.Request) {
	kind := market.Kind(strings.ToLower(strings.TrimSpace(r.URL.Query().Get("kind"))))
	if kind != "" && !kind.Valid() {
		writeError(w, http.StatusBadRequest, "kind must be one of stock, bond, fund, crypto")
		return
	}
	writeJSON(w, http.StatusOK, map[string]any{"instruments": s.game.Instruments(kind)})
}

func (s *Server) handleInstrument(w http.ResponseWriter, r *http.Request) {
	detail, err := s.game.Instrument(chi.URLParam(r, "id"))
	if err != nil {
		writeDomainError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, detail)
}

func (s *Server) handleReset(w http.ResponseWriter, r *http.Request) {
	if err := s.game.Reset(r.Context(), idempotencyKey(r)); err != nil {
		writeDomainError(w, err)
		return
	}
	s.log.Info("game reset")
	writeJSON(w, http.StatusOK, s.game.Snapshot())
}

func (s *Server) handleIPO(w http.ResponseWriter, r *http.Request) {
	if err := s.game.IPO(r.Context(), idempotencyKey(r)); err != nil {
		writeDomainError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, s.game.Company())
}

func (s *Server) handleSplit(w http.ResponseWriter, r *http.Request) {
	if err := s.game.StockSplit(r.Context(), idempotencyKey(r)); err != nil {
		writeDomainError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, s.game.Company())
}

type percentInput struct {
	Percent float64 `json:"percent"`
}

func (s *Server) handleDilute(w http.ResponseWriter, r *http.Request) {
	var in percentInput
	if err := decodeJSON(r, &in); err != nil {
		writeError(w, http.StatusBadRequest, err.Error())
		return
	}
	raised, err := s.game.Dilute(r.Context(), idempotencyKey(r), in.Percent)
	if err != nil {
		writeDomainError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, map[string]any{"raised": raised, "company": s.game.Company()})
}

func (s *Server) handleBuyback(w http.ResponseWriter, r *http.Request) {
	var in percentInput
	if err := decodeJSON(r, &in); err != nil {
		writeError(w, http.StatusBadRequest, err.Error())
		return
	}
	cost, err := s.game.Buyback(r.Context(), idempotencyKey(r), in.Percent)
	if err != nil {
		writeDomainError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, map[string]any{"cost": cost, "company": s.game.Company()})
}

func (s *Server) handleDividend(w http.ResponseWriter, r *http.Request) {
	var in percentInput
	if err := decodeJSON(r, &in); err != nil {
		writeError(w, http.StatusBadRequest, err.Error())
		return
	}
	paid, err := s.game.PayDividend(r.Context(), idempotencyKey(r), in.Percent)
	if err != nil {
		writeDomainError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, map[string]any{"player_share": paid, "company": s.game.Company()})
}

func (s *Server) handleBorrow(w http.ResponseWriter, r *http.Request) {
	var in struct {
		Amount float64 `json:"amount"`
		Rate   float64 `json:"rate"`
	}
	if err := decodeJSON(r, &in); err != nil {
		writeError(w, http.StatusBadRequest, err.Error())
		return
	}
	if err := s.game.Borrow(r.Context(), idempotencyKey(r), in.Amount, in.Rate); err != nil {
		writeDomainError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, s.game.Company())
}

func (s *Server) handleRepay(w http.ResponseWriter, r *http.Request) {
	var in struct {
		Amount float64 `json:"amount"`
	}
	if err := decodeJSON(r, &in); err != nil {
		writeError(w, http.StatusBadRequest, err.Error())
		return
	}
	paid, err := s.game.Repay(r.Context(), idempotencyKey(r), in.Amount)
	if err != nil {
		writeDomainError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, map[string]any{"repaid": paid, "company": s.game.Company()})
}

type countInput struct {
	Count int `json:"count"`
}

func (s *Server) handleHire(w http.ResponseWriter, r *http.Request) {
	var in countInput
	if err := decodeJSON(r, &in); err != nil {
		writeError(w, http.StatusBadRequest, err.Error())
		return
	}
	if err := s.game.Hire(r.Context(), idempotencyKey(r), in.Count); err != nil {
		writeDomainError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, s.game.Company())
}

func (s *Server) handleFactories(w http.ResponseWriter, r *http.Request) {
	var in countInput
	if err := decodeJSON(r, &in); err != nil {
		writeError(w, http.StatusBadRequest, err.Error())
		return
	}
	cost, err := s.game.BuildFactories(r.Context(), idempotencyKey(r), in.Count)
	if err != nil {
		writeDomainError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, map[string]any{"cost": cost, "company": s.game.Company()})
}

func (s *Server) handleSalary(w http.ResponseWriter, r *http.Request) {
	var in struct {
		Tier string `json:"tier"`
	}
	if err := decodeJSON(r, &in); err != nil {
		writeError(w, http.StatusBadRequest, err.Error())
		return
	}
	tier := company.SalaryTier(strings.ToLower(strings.TrimSpace(in.Tier)))
	if err := s.game.SetSalaryTier(r.Context(), idempotencyKey(r), tier); err != nil {
		writeDomainError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, s.game.Company())
}

func (s *Server) handleTech(w http.ResponseWriter, r *http.Request) {
	var in struct {
		Track string `json:"track"`
	}
	if err := decodeJSON(r, &in); err != nil {
		writeError(w, http.StatusBadRequest, err.Error())
		return
	}
	track := company.TechTrack(strings.ToLower(strings.TrimSpace(in.Track)))
	cost, err := s.game.UpgradeTech(r.Context(), idempotencyKey(r), track)
	if err != nil {
		writeDomainError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, map[string]any{"cost": cost, "company": s.game.Company()})
}

func (s *Server) handleMonthlyTick(w http.ResponseWriter, r *http.Request) {
	report, err := s.game.MonthlyTick(r.Context(), idempotencyKey(r))
	if err != nil {
		writeDomainError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, report)
}

func (s *Server) handleRelationship(w http.ResponseWriter, r *http.Request) {
	var in struct {
		Delta float64 `json:"delta"`
	}
	if err := decodeJSON(r, &in); err != nil {
		writeError(w, http.StatusBadRequest, err.Error())
		return
	}
	id := chi.URLParam(r, "id")
	if err := s.game.UpdateShareholderRelationship(r.Context(), idempotencyKey(r), id, in.Delta); err != nil {
		writeDomainError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, map[string]any{"shareholders": s.game.Company().Shareholders})
}

type tradeInput struct {
	Symbol   string  `json:"symbol"`
	Quantity float64 `json:"quantity"`
	Price    float64 `json:"price"`
	Type     string  `json:"type"`
}

func (s *Server) handleBuy(w http.ResponseWriter, r *http.Request) {
	var in tradeInput
	if err := decodeJSON(r, &in); err != nil {
		writeError(w, http.StatusBadRequest, err.Error())
		return
	}
	kind := market.Kind(strings.ToLower(strings.TrimSpace(in.Type)))
	if kind != "" && !kind.Valid() {
		writeError(w, http.StatusBadRequest, "type must be one of stock, bond, fund, crypto")
		return
	}
	trade, err := s.game.Buy(r.Context(), idempotencyKey(r), in.Symbol, in.Price, in.Quantity, kind)
	if err != nil {
		writeDomainError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, trade)
}

func (s *Server) handleSell(w http.ResponseWriter, r *http.Request) {
	var in tradeInput
	if err := decodeJSON(r, &in); err != nil {
		writeError(w, http.StatusBadRequest, err.Error())
		return
	}
	trade, err := s.game.Sell(r.Context(), idempotencyKey(r), in.Symbol, in.Quantity, in.Price)
	if err != nil {
		writeDomainError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, trade)
}

func (s *Server) handleLiquidate(w http.ResponseWriter, r *http.Request) {
	total, err := s.game.LiquidateAll(r.Context(), idempotencyKey(r))
	if err != nil {
		writeDomainError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, map[string]any{"proceeds": total})
}

func (s *Server) handleRefresh(w http.ResponseWriter, r *http.Request) {
	if err := s.game.UpdatePrices(r.Context(), idempotencyKey(r)); err != nil {
		writeDomainError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, map[string]any{"instruments": s.game.Instruments("")})
}

func (s *Server) handleQuarter(w http.ResponseWriter, r *http.Request) {
	quarter, err := s.game.SimulateQuarter(r.Context(), idempotencyKey(r))
	if err != nil {
		writeDomainError(w, err)
		return
	}
	st := s.game.Snapshot()
	writeJSON(w, http.StatusOK, map[string]any{"quarter": quarter, "trend": st.Trend})
}

func (s *Server) handleAcquire(w http.ResponseWriter, r *http.Request) {
	acq, err := s.game.AcquireCompany(r.Context(), idempotencyKey(r), chi.URLParam(r, "id"))
	if err != nil {
		writeDomainError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, acq)
}

func writeDomainError(w http.ResponseWriter, err error) {
	switch {
	case errors.Is(err, game.ErrDuplicateAction),
		errors.Is(err, company.ErrAlreadyPublic),
		errors.Is(err, holdings.ErrAlreadyAcquired):
		writeError(w, http.StatusConflict, err.Error())
	case errors.Is(err, simerr.ErrValidation):
		writeError(w, http.StatusBadRequest, err.Error())
	case errors.Is(err, simerr.ErrLookup):
		writeError(w, http.StatusNotFound, err.Error())
	default:
		writeError(w, http.StatusInternalServerError, err.Error())
	}
}

func decodeJSON(r *http.Request, out any) error {
	dec := json.NewDecoder(r.Body)
	dec.DisallowUnknownFields()
	return dec.Decode(out)
}

func writeJSON(w http.ResponseWriter, status int, payload any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	_ = json.NewEncoder(w).Encode(payload)
}

func writeError(w http.ResponseWriter, status int, message string) {
	writeJSON(w, status, map[string]any{"error": strings.TrimSpace(message)})
}

// idempotencyKey falls back to a fresh key so header-less calls never collide.
func idempotencyKey(r *http.Request) string {
	key := strings.TrimSpace(r.Header.Get("Idempotency-Key"))
	if key != "" {
		return key
	}
	return uuid.NewString()
}
