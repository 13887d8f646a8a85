package api

import (
	"time"

	"github.com/google/uuid"

	"github.com/udisondev/squadfall/internal/game/campaign"
	"github.com/udisondev/squadfall/internal/sim"
)

type battleJSON struct {
	ID              uuid.UUID `json:"id"`
	Scenario        string    `json:"scenario"`
	Seed            uint64    `json:"seed"`
	Outcome         string    `json:"outcome"`
	Ticks           uint64    `json:"ticks"`
	ElapsedMS       int64     `json:"elapsed_ms"`
	PlayerRemaining uint32    `json:"player_remaining"`
	EnemyRemaining  uint32    `json:"enemy_remaining"`
	Score           float32   `json:"score"`
	Deaths          int       `json:"deaths"`
	SquadLosses     int       `json:"squad_losses"`
	CombatEvents    int       `json:"combat_events"`
	AttackDamage    float32   `json:"attack_damage"`
	PoisonDamage    float32   `json:"poison_damage"`
	FinishedAt      time.Time `json:"finished_at"`
}

func newBattleJSON(r sim.Result) battleJSON {
	return battleJSON{
		ID:              r.ID,
		Scenario:        r.Scenario,
		Seed:            r.Seed,
		Outcome:         r.Outcome.String(),
		Ticks:           r.Ticks,
		ElapsedMS:       r.Elapsed.Milliseconds(),
		PlayerRemaining: r.PlayerRemaining,
		EnemyRemaining:  r.EnemyRemaining,
		Score:           r.Score,
		Deaths:          r.Deaths,
		SquadLosses:     r.SquadLosses,
		CombatEvents:    r.CombatEvents,
		AttackDamage:    r.AttackDamage,
		PoisonDamage:    r.PoisonDamage,
		FinishedAt:      r.FinishedAt,
	}
}

type campaignJSON struct {
	ID         uuid.UUID `json:"id"`
	Phase      string    `json:"phase"`
	Round      int       `json:"round"`
	Wins       int       `json:"wins"`
	Losses     int       `json:"losses"`
	History    []string  `json:"history"` // played battles only
	Gold       int       `json:"gold"`
	LastScore  float32   `json:"last_score"`
	TotalScore float32   `json:"total_score"`
}

func newCampaignJSON(s campaign.Snapshot) campaignJSON {
	played := min(s.Wins+s.Losses, campaign.HistoryLen)
	history := make([]string, 0, played)
	for _, o := range s.History[:played] {
		history = append(history, o.String())
	}
	return campaignJSON{
		ID:         s.ID,
		Phase:      s.Phase,
		Round:      s.Round,
		Wins:       s.Wins,
		Losses:     s.Losses,
		History:    history,
		Gold:       s.Gold,
		LastScore:  s.LastScore,
		TotalScore: s.TotalScore,
	}
}
