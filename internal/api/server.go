package api

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"log/slog"
	"net/http"
	"strconv"
	"sync"
	"time"

	"github.com/google/uuid"
	"github.com/gorilla/mux"

	"github.com/udisondev/squadfall/internal/config"
	"github.com/udisondev/squadfall/internal/data"
	"github.com/udisondev/squadfall/internal/db"
	"github.com/udisondev/squadfall/internal/game/battle"
	"github.com/udisondev/squadfall/internal/game/campaign"
	"github.com/udisondev/squadfall/internal/game/event"
	"github.com/udisondev/squadfall/internal/sim"
)

// Options wires optional collaborators into the server.
type Options struct {
	Battles   BattleStore   // nil keeps results in memory
	Campaigns CampaignStore // nil disables campaign persistence
	Campaign  *campaign.Campaign
}

// Server exposes the campaign and battle runs over HTTP and streams battle
// events over a websocket.
type Server struct {
	cfg      config.Simulation
	scenario *sim.Scenario
	table    *data.Table
	hub      *Hub
	router   *mux.Router

	battles   BattleStore
	campaigns CampaignStore

	// mu serializes campaign battles.
	mu       sync.Mutex
	campaign *campaign.Campaign
	runs     int
}

func NewServer(cfg config.Simulation, sc *sim.Scenario, table *data.Table, opts Options) *Server {
	s := &Server{
		cfg:       cfg,
		scenario:  sc,
		table:     table,
		hub:       NewHub(),
		battles:   opts.Battles,
		campaigns: opts.Campaigns,
		campaign:  opts.Campaign,
	}
	if s.battles == nil {
		s.battles = NewMemoryBattles()
	}
	if s.campaign == nil {
		s.campaign = campaign.New(cfg.Campaign)
	}

	r := mux.NewRouter()
	r.HandleFunc("/api/health", s.handleHealth).Methods(http.MethodGet)
	r.HandleFunc("/api/campaign", s.handleCampaign).Methods(http.MethodGet)
	r.HandleFunc("/api/campaign/reset", s.handleCampaignReset).Methods(http.MethodPost)
	r.HandleFunc("/api/battles", s.handleListBattles).Methods(http.MethodGet)
	r.HandleFunc("/api/battles", s.handleRunBattle).Methods(http.MethodPost)
	r.HandleFunc("/api/battles/{id}", s.handleGetBattle).Methods(http.MethodGet)
	r.HandleFunc("/ws/events", s.hub.ServeWS)
	s.router = r
	return s
}

// Handler returns the root HTTP handler.
func (s *Server) Handler() http.Handler { return s.router }

// Hub returns the event hub.
func (s *Server) Hub() *Hub { return s.hub }

// ListenAndServe serves on cfg.API.Addr() until ctx is done.
func (s *Server) ListenAndServe(ctx context.Context) error {
	srv := &http.Server{
		Addr:              s.cfg.API.Addr(),
		Handler:           s.router,
		ReadHeaderTimeout: 10 * time.Second,
	}

	go func() {
		<-ctx.Done()
		s.hub.Close()
		shutdownCtx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
		defer cancel()
		if err := srv.Shutdown(shutdownCtx); err != nil {
			slog.Error("api shutdown", "error", err)
		}
	}()

	slog.Info("api listening", "address", srv.Addr)
	if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
		return fmt.Errorf("serving api: %w", err)
	}
	return nil
}

type runRequest struct {
	Seed *uint64 `json:"seed,omitempty"`
}

type runResponse struct {
	Battle   battleJSON   `json:"battle"`
	Campaign campaignJSON `json:"campaign"`
}

func (s *Server) handleHealth(w http.ResponseWriter, _ *http.Request) {
	writeJSON(w, http.StatusOK, map[string]any{
		"status":      "ok",
		"subscribers": s.hub.Len(),
	})
}

func (s *Server) handleCampaign(w http.ResponseWriter, _ *http.Request) {
	s.mu.Lock()
	snap := s.campaign.Snapshot()
	s.mu.Unlock()
	writeJSON(w, http.StatusOK, newCampaignJSON(snap))
}

func (s *Server) handleCampaignReset(w http.ResponseWriter, r *http.Request) {
	s.mu.Lock()
	defer s.mu.Unlock()

	s.campaign = campaign.New(s.cfg.Campaign)
	snap := s.campaign.Snapshot()
	if s.campaigns != nil {
		if err := s.campaigns.Save(r.Context(), snap); err != nil {
			writeError(w, http.StatusInternalServerError, err)
			return
		}
	}
	slog.Info("campaign reset", "campaign", snap.ID)
	writeJSON(w, http.StatusOK, newCampaignJSON(snap))
}

// handleRunBattle plays the next campaign battle to completion.
// A battle that hits the tick limit undecided counts as a defeat; an
// interrupted one is aborted and leaves the campaign untouched.
func (s *Server) handleRunBattle(w http.ResponseWriter, r *http.Request) {
	var req runRequest
	if r.ContentLength != 0 {
		if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
			writeError(w, http.StatusBadRequest, fmt.Errorf("decoding request: %w", err))
			return
		}
	}

	s.mu.Lock()
	defer s.mu.Unlock()

	ctx := r.Context()
	c := s.campaign
	switch c.Phase() {
	case campaign.PhaseVictory, campaign.PhaseDefeat:
		if err := c.NextRound(ctx); err != nil {
			writeError(w, http.StatusInternalServerError, err)
			return
		}
	}
	if c.Phase() == campaign.PhaseGameOver {
		writeError(w, http.StatusConflict, campaign.ErrGameOver)
		return
	}
	if err := c.StartBattle(ctx); err != nil {
		if errors.Is(err, campaign.ErrGameOver) {
			writeError(w, http.StatusConflict, err)
			return
		}
		writeError(w, http.StatusInternalServerError, err)
		return
	}

	seed := s.nextSeed()
	if req.Seed != nil {
		seed = *req.Seed
	}

	bus := event.NewBus()
	b, err := sim.NewBattle(s.scenario, s.table, s.cfg, seed, bus)
	if err != nil {
		s.abort(ctx, c)
		writeError(w, http.StatusInternalServerError, err)
		return
	}
	s.hub.Attach(bus, b.ID, b.Tick)

	res, err := b.Run(ctx, uint64(s.cfg.Runner.MaxTicks), s.cfg.Runner.FrameDelta())
	if err != nil {
		s.abort(ctx, c)
		writeError(w, http.StatusServiceUnavailable, err)
		return
	}
	outcome := res.Outcome
	if outcome == battle.Ongoing {
		outcome = battle.Defeat
	}
	score, err := c.FinishBattle(ctx, outcome, res.PlayerRemaining)
	if err != nil {
		writeError(w, http.StatusInternalServerError, err)
		return
	}
	res.Score = score

	if env, err := event.Encode(b.ID, b.Tick(), event.BattleEndPayload{Outcome: res.Outcome.String(), Score: score}); err == nil {
		s.hub.Broadcast(env)
	}

	snap := c.Snapshot()
	if err := s.persist(ctx, snap, res); err != nil {
		writeError(w, http.StatusInternalServerError, err)
		return
	}

	slog.Info("campaign battle played",
		"battle", res.ID,
		"seed", seed,
		"outcome", res.Outcome.String(),
		"ticks", res.Ticks,
		"score", score,
		"round", snap.Round)

	writeJSON(w, http.StatusCreated, runResponse{
		Battle:   newBattleJSON(res),
		Campaign: newCampaignJSON(snap),
	})
}

// abort puts the campaign back in preparation after a battle that did not run
// to the end. It must succeed even when the request context is gone.
func (s *Server) abort(ctx context.Context, c *campaign.Campaign) {
	if err := c.AbortBattle(context.WithoutCancel(ctx)); err != nil {
		slog.Error("aborting campaign battle", "campaign", c.ID, "error", err)
	}
}

func (s *Server) persist(ctx context.Context, snap campaign.Snapshot, res sim.Result) error {
	if s.campaigns != nil {
		if err := s.campaigns.SaveRound(ctx, snap, res); err != nil {
			return err
		}
		// Keep the in-memory index in sync when the battle store is not the database.
		if _, ok := s.battles.(*MemoryBattles); !ok {
			return nil
		}
	}
	return s.battles.Save(ctx, res)
}

func (s *Server) nextSeed() uint64 {
	seed := uint64(s.cfg.Runner.SeedBase + int64(s.runs)*s.cfg.Runner.SeedStep)
	s.runs++
	return seed
}

func (s *Server) handleListBattles(w http.ResponseWriter, r *http.Request) {
	limit := 20
	if v := r.URL.Query().Get("limit"); v != "" {
		n, err := strconv.Atoi(v)
		if err != nil || n <= 0 {
			writeError(w, http.StatusBadRequest, fmt.Errorf("invalid limit %q", v))
			return
		}
		limit = n
	}

	results, err := s.battles.ListRecent(r.Context(), limit)
	if err != nil {
		writeError(w, http.StatusInternalServerError, err)
		return
	}
	out := make([]battleJSON, 0, len(results))
	for _, res := range results {
		out = append(out, newBattleJSON(res))
	}
	writeJSON(w, http.StatusOK, map[string]any{"battles": out, "count": len(out)})
}

func (s *Server) handleGetBattle(w http.ResponseWriter, r *http.Request) {
	id, err := uuid.Parse(mux.Vars(r)["id"])
	if err != nil {
		writeError(w, http.StatusBadRequest, fmt.Errorf("invalid battle id: %w", err))
		return
	}

	res, err := s.battles.Get(r.Context(), id)
	if errors.Is(err, db.ErrBattleNotFound) {
		writeError(w, http.StatusNotFound, err)
		return
	}
	if err != nil {
		writeError(w, http.StatusInternalServerError, err)
		return
	}
	writeJSON(w, http.StatusOK, newBattleJSON(res))
}

func writeJSON(w http.ResponseWriter, status int, v any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	if err := json.NewEncoder(w).Encode(v); err != nil {
		slog.Warn("writing response", "error", err)
	}
}

func writeError(w http.ResponseWriter, status int, err error) {
	if status >= http.StatusInternalServerError {
		slog.Error("api request failed", "status", status, "error", err)
	}
	writeJSON(w, status, map[string]string{"error": err.Error()})
}
