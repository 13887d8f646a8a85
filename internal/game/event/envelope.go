package event

import (
	"encoding/json"
	"fmt"

	"github.com/google/uuid"

	"github.com/udisondev/squadfall/internal/model"
)

// Envelope types.
const (
	TypeTakeDamage = "take_damage"
	TypeUnitDeath  = "unit_death"
	TypeSquadLoss  = "squad_loss"
	TypeCombat     = "combat"
	TypeBattleEnd  = "battle_end"
)

// Envelope is the JSON wire form of a message on the event stream.
type Envelope struct {
	Battle  uuid.UUID       `json:"battle"`
	Tick    uint64          `json:"tick"`
	Type    string          `json:"type"`
	Payload json.RawMessage `json:"payload"`
}

// TakeDamagePayload is the payload of a take_damage envelope.
type TakeDamagePayload struct {
	Attacker *uint32 `json:"attacker,omitempty"`
	Target   uint32  `json:"target"`
	Damage   float32 `json:"damage"`
}

// UnitDeathPayload is the payload of a unit_death envelope.
type UnitDeathPayload struct {
	Entity  uint32  `json:"entity"`
	Squad   uint32  `json:"squad,omitempty"`
	X       float32 `json:"x"`
	Y       float32 `json:"y"`
	IsEnemy bool    `json:"is_enemy"`
}

// SquadLossPayload is the payload of a squad_loss envelope.
type SquadLossPayload struct {
	Squad          uint32 `json:"squad"`
	LossPercentage uint32 `json:"loss_percentage"`
	RemainingUnits uint32 `json:"remaining_units"`
	MaxUnits       uint32 `json:"max_units"`
}

// CombatPayload is the payload of a combat envelope.
type CombatPayload struct {
	Trigger string  `json:"trigger"`
	Source  string  `json:"source"`
	Value   float32 `json:"value"`
}

// BattleEndPayload is the payload of a battle_end envelope.
type BattleEndPayload struct {
	Outcome string  `json:"outcome"`
	Score   float32 `json:"score"`
}

// Encode wraps one of the model messages (or a BattleEndPayload) into an envelope.
func Encode(battle uuid.UUID, tick uint64, msg any) (Envelope, error) {
	var (
		typ     string
		payload any
	)
	switch m := msg.(type) {
	case model.TakeDamageMessage:
		p := TakeDamagePayload{Target: uint32(m.Target), Damage: m.Damage}
		if m.HasAttacker() {
			a := uint32(m.Attacker)
			p.Attacker = &a
		}
		typ, payload = TypeTakeDamage, p
	case model.UnitDeathMessage:
		typ, payload = TypeUnitDeath, UnitDeathPayload{
			Entity:  uint32(m.Entity),
			Squad:   uint32(m.Squad),
			X:       m.Location.X,
			Y:       m.Location.Y,
			IsEnemy: m.IsEnemy,
		}
	case model.SquadLossThresholdMessage:
		typ, payload = TypeSquadLoss, SquadLossPayload{
			Squad:          uint32(m.Squad),
			LossPercentage: m.LossPercentage,
			RemainingUnits: m.RemainingUnits,
			MaxUnits:       m.MaxUnits,
		}
	case model.CombatMessage:
		typ, payload = TypeCombat, CombatPayload{
			Trigger: m.Trigger.String(),
			Source:  m.Source.String(),
			Value:   m.Value,
		}
	case BattleEndPayload:
		typ, payload = TypeBattleEnd, m
	default:
		return Envelope{}, fmt.Errorf("encoding envelope: unsupported message %T", msg)
	}

	raw, err := json.Marshal(payload)
	if err != nil {
		return Envelope{}, fmt.Errorf("encoding %s payload: %w", typ, err)
	}
	return Envelope{Battle: battle, Tick: tick, Type: typ, Payload: raw}, nil
}
