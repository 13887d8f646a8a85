package api

import (
	"context"
	"slices"
	"sync"

	"github.com/google/uuid"

	"github.com/udisondev/squadfall/internal/db"
	"github.com/udisondev/squadfall/internal/game/campaign"
	"github.com/udisondev/squadfall/internal/sim"
)

// BattleStore is implemented by db.BattleRepository and MemoryBattles.
type BattleStore interface {
	Save(ctx context.Context, res sim.Result) error
	Get(ctx context.Context, id uuid.UUID) (sim.Result, error)
	ListRecent(ctx context.Context, limit int) ([]sim.Result, error)
}

// CampaignStore is implemented by db.CampaignRepository.
type CampaignStore interface {
	Save(ctx context.Context, s campaign.Snapshot) error
	SaveRound(ctx context.Context, s campaign.Snapshot, res sim.Result) error
}

// MemoryBattles keeps results in process when no database is configured.
type MemoryBattles struct {
	mu    sync.RWMutex
	byID  map[uuid.UUID]sim.Result
	order []uuid.UUID
}

func NewMemoryBattles() *MemoryBattles {
	return &MemoryBattles{byID: make(map[uuid.UUID]sim.Result)}
}

func (m *MemoryBattles) Save(_ context.Context, res sim.Result) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	if _, ok := m.byID[res.ID]; !ok {
		m.order = append(m.order, res.ID)
	}
	m.byID[res.ID] = res
	return nil
}

func (m *MemoryBattles) Get(_ context.Context, id uuid.UUID) (sim.Result, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()
	res, ok := m.byID[id]
	if !ok {
		return sim.Result{}, db.ErrBattleNotFound
	}
	return res, nil
}

// ListRecent returns up to limit results, most recently saved first.
func (m *MemoryBattles) ListRecent(_ context.Context, limit int) ([]sim.Result, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()
	if limit <= 0 {
		limit = 20
	}
	out := make([]sim.Result, 0, min(limit, len(m.order)))
	for _, id := range slices.Backward(m.order) {
		if len(out) == limit {
			break
		}
		out = append(out, m.byID[id])
	}
	return out, nil
}
