package api

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/gorilla/websocket"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/udisondev/squadfall/internal/config"
	"github.com/udisondev/squadfall/internal/data"
	"github.com/udisondev/squadfall/internal/game/event"
	"github.com/udisondev/squadfall/internal/sim"
)

// Cavalry rides down a lone archer.
const duelYAML = `
name: duel
spacing: 1
gold: 3
squads:
  - faction: player
    kind: Cavalry
    count: 1
    origin: {x: -2, y: 0}
  - faction: enemy
    kind: Archer
    count: 1
    origin: {x: 2, y: 0}
`

// Too far apart to engage before the tick limit.
const standoffYAML = `
name: standoff
squads:
  - faction: player
    kind: Shield
    count: 1
    origin: {x: -100, y: 0}
  - faction: enemy
    kind: Spear
    count: 1
    origin: {x: 100, y: 0}
`

func newTestServer(t *testing.T, body string, mutate func(*config.Simulation)) *Server {
	t.Helper()
	sc, err := sim.ParseScenario([]byte(body))
	require.NoError(t, err)
	table, err := data.LoadDefault()
	require.NoError(t, err)

	cfg := config.DefaultSimulation()
	if mutate != nil {
		mutate(&cfg)
	}
	return NewServer(cfg, sc, table, Options{})
}

func do(t *testing.T, h http.Handler, method, path, body string) *httptest.ResponseRecorder {
	t.Helper()
	req := httptest.NewRequest(method, path, strings.NewReader(body))
	rec := httptest.NewRecorder()
	h.ServeHTTP(rec, req)
	return rec
}

func decode[T any](t *testing.T, rec *httptest.ResponseRecorder) T {
	t.Helper()
	var v T
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &v))
	return v
}

func TestServer_Health(t *testing.T) {
	s := newTestServer(t, duelYAML, nil)

	rec := do(t, s.Handler(), http.MethodGet, "/api/health", "")
	assert.Equal(t, http.StatusOK, rec.Code)
	assert.Equal(t, "application/json", rec.Header().Get("Content-Type"))
	assert.Equal(t, "ok", decode[map[string]any](t, rec)["status"])
}

func TestServer_RunBattleAdvancesCampaign(t *testing.T) {
	s := newTestServer(t, duelYAML, nil)
	h := s.Handler()

	rec := do(t, h, http.MethodPost, "/api/battles", `{"seed": 7}`)
	require.Equal(t, http.StatusCreated, rec.Code, rec.Body.String())
	run := decode[runResponse](t, rec)

	assert.Equal(t, "victory", run.Battle.Outcome)
	assert.Equal(t, uint64(7), run.Battle.Seed)
	assert.Equal(t, uint32(1), run.Battle.PlayerRemaining)
	assert.Equal(t, "victory", run.Campaign.Phase)
	assert.Equal(t, 1, run.Campaign.Wins)
	assert.Equal(t, []string{"victory"}, run.Campaign.History)
	assert.Equal(t, run.Battle.Score, run.Campaign.LastScore)

	rec = do(t, h, http.MethodGet, "/api/battles/"+run.Battle.ID.String(), "")
	require.Equal(t, http.StatusOK, rec.Code)
	assert.Equal(t, run.Battle.ID, decode[battleJSON](t, rec).ID)

	// Second battle moves the campaign through next_round first.
	rec = do(t, h, http.MethodPost, "/api/battles", "")
	require.Equal(t, http.StatusCreated, rec.Code, rec.Body.String())
	run = decode[runResponse](t, rec)
	assert.Equal(t, 2, run.Campaign.Wins)
	assert.Equal(t, 3, run.Campaign.Round)

	rec = do(t, h, http.MethodGet, "/api/battles?limit=5", "")
	require.Equal(t, http.StatusOK, rec.Code)
	list := decode[struct {
		Battles []battleJSON `json:"battles"`
		Count   int          `json:"count"`
	}](t, rec)
	assert.Equal(t, 2, list.Count)
	assert.Equal(t, run.Battle.ID, list.Battles[0].ID)
}

func TestServer_UndecidedBattleIsDefeatAndEndsCampaign(t *testing.T) {
	s := newTestServer(t, standoffYAML, func(cfg *config.Simulation) {
		cfg.Runner.MaxTicks = 10
		cfg.Campaign.MaxLosses = 1
	})
	h := s.Handler()

	rec := do(t, h, http.MethodPost, "/api/battles", "")
	require.Equal(t, http.StatusCreated, rec.Code, rec.Body.String())
	run := decode[runResponse](t, rec)
	assert.Equal(t, "pending", run.Battle.Outcome)
	assert.Equal(t, "defeat", run.Campaign.Phase)
	assert.Equal(t, 1, run.Campaign.Losses)

	rec = do(t, h, http.MethodPost, "/api/battles", "")
	assert.Equal(t, http.StatusConflict, rec.Code)

	rec = do(t, h, http.MethodGet, "/api/campaign", "")
	assert.Equal(t, "game_over", decode[campaignJSON](t, rec).Phase)

	rec = do(t, h, http.MethodPost, "/api/campaign/reset", "")
	require.Equal(t, http.StatusOK, rec.Code)
	fresh := decode[campaignJSON](t, rec)
	assert.Equal(t, "preparation", fresh.Phase)
	assert.Empty(t, fresh.History)
}

// cancelAfter reports context.Canceled once Err has been polled n times.
type cancelAfter struct {
	context.Context
	n     int
	calls int
}

func (c *cancelAfter) Err() error {
	c.calls++
	if c.calls > c.n {
		return context.Canceled
	}
	return nil
}

func TestServer_InterruptedBattleLeavesCampaignUntouched(t *testing.T) {
	s := newTestServer(t, standoffYAML, func(cfg *config.Simulation) {
		cfg.Runner.MaxTicks = 1000
	})
	h := s.Handler()

	ctx := &cancelAfter{Context: context.Background(), n: 3}
	req := httptest.NewRequest(http.MethodPost, "/api/battles", strings.NewReader("")).WithContext(ctx)
	rec := httptest.NewRecorder()
	h.ServeHTTP(rec, req)

	require.Equal(t, http.StatusServiceUnavailable, rec.Code, rec.Body.String())
	assert.Contains(t, rec.Body.String(), "context canceled")

	rec = do(t, h, http.MethodGet, "/api/campaign", "")
	got := decode[campaignJSON](t, rec)
	assert.Equal(t, "preparation", got.Phase)
	assert.Zero(t, got.Losses)
	assert.Empty(t, got.History)
	assert.Zero(t, got.TotalScore)

	rec = do(t, h, http.MethodGet, "/api/battles", "")
	assert.Equal(t, float64(0), decode[map[string]any](t, rec)["count"])

	// The next request plays the round normally; the tick limit makes it a defeat.
	rec = do(t, h, http.MethodPost, "/api/battles", "")
	require.Equal(t, http.StatusCreated, rec.Code, rec.Body.String())
	run := decode[runResponse](t, rec)
	assert.Equal(t, 1, run.Campaign.Losses)
	assert.Equal(t, []string{"defeat"}, run.Campaign.History)
}

func TestServer_BadRequests(t *testing.T) {
	s := newTestServer(t, duelYAML, nil)
	h := s.Handler()

	assert.Equal(t, http.StatusBadRequest, do(t, h, http.MethodGet, "/api/battles/nope", "").Code)
	assert.Equal(t, http.StatusNotFound, do(t, h, http.MethodGet, "/api/battles/"+uuid.NewString(), "").Code)
	assert.Equal(t, http.StatusBadRequest, do(t, h, http.MethodGet, "/api/battles?limit=-1", "").Code)
	assert.Equal(t, http.StatusBadRequest, do(t, h, http.MethodPost, "/api/battles", "{").Code)
	assert.Equal(t, http.StatusMethodNotAllowed, do(t, h, http.MethodDelete, "/api/campaign", "").Code)
}

func TestServer_StreamsBattleEvents(t *testing.T) {
	s := newTestServer(t, duelYAML, nil)
	ts := httptest.NewServer(s.Handler())
	defer ts.Close()
	defer s.Hub().Close()

	conn, _, err := websocket.DefaultDialer.Dial("ws"+strings.TrimPrefix(ts.URL, "http")+"/ws/events", nil)
	require.NoError(t, err)
	defer conn.Close()
	require.Eventually(t, func() bool { return s.Hub().Len() == 1 }, time.Second, 10*time.Millisecond)

	resp, err := http.Post(ts.URL+"/api/battles", "application/json", strings.NewReader(""))
	require.NoError(t, err)
	resp.Body.Close()
	require.Equal(t, http.StatusCreated, resp.StatusCode)

	seen := map[string]int{}
	require.NoError(t, conn.SetReadDeadline(time.Now().Add(5*time.Second)))
	for {
		var env event.Envelope
		require.NoError(t, conn.ReadJSON(&env))
		seen[env.Type]++
		if env.Type == event.TypeBattleEnd {
			var end event.BattleEndPayload
			require.NoError(t, json.Unmarshal(env.Payload, &end))
			assert.Equal(t, "victory", end.Outcome)
			break
		}
	}
	assert.Positive(t, seen[event.TypeTakeDamage])
	assert.Equal(t, 1, seen[event.TypeUnitDeath])
}

func TestMemoryBattles_ListRecent(t *testing.T) {
	m := NewMemoryBattles()
	ctx := context.Background()
	a, b, c := sim.Result{ID: uuid.New()}, sim.Result{ID: uuid.New()}, sim.Result{ID: uuid.New()}
	for _, r := range []sim.Result{a, b, c} {
		require.NoError(t, m.Save(ctx, r))
	}
	// Re-saving keeps the original position.
	require.NoError(t, m.Save(ctx, a))

	list, err := m.ListRecent(ctx, 2)
	require.NoError(t, err)
	require.Len(t, list, 2)
	assert.Equal(t, c.ID, list[0].ID)
	assert.Equal(t, b.ID, list[1].ID)
}
