// Package event carries outbound combat messages from the battle systems to
// their subscribers (VFX/audio glue, the websocket stream, tests).
package event

import "github.com/udisondev/squadfall/internal/model"

// Bus is a synchronous fan-out of typed combat messages.
// Handlers run on the publisher's goroutine, in subscription order.
// A Bus is owned by a single battle and is not safe for concurrent use.
type Bus struct {
	takeDamage []func(model.TakeDamageMessage)
	unitDeath  []func(model.UnitDeathMessage)
	squadLoss  []func(model.SquadLossThresholdMessage)
	combat     []func(model.CombatMessage)
}

// NewBus creates a bus without subscribers.
func NewBus() *Bus { return &Bus{} }

func (b *Bus) OnTakeDamage(fn func(model.TakeDamageMessage)) { b.takeDamage = append(b.takeDamage, fn) }
func (b *Bus) OnUnitDeath(fn func(model.UnitDeathMessage))   { b.unitDeath = append(b.unitDeath, fn) }
func (b *Bus) OnSquadLoss(fn func(model.SquadLossThresholdMessage)) {
	b.squadLoss = append(b.squadLoss, fn)
}
func (b *Bus) OnCombat(fn func(model.CombatMessage)) { b.combat = append(b.combat, fn) }

// PublishTakeDamage delivers msg to every TakeDamage subscriber.
// A nil bus drops the message.
func (b *Bus) PublishTakeDamage(msg model.TakeDamageMessage) {
	if b == nil {
		return
	}
	for _, fn := range b.takeDamage {
		fn(msg)
	}
}

func (b *Bus) PublishUnitDeath(msg model.UnitDeathMessage) {
	if b == nil {
		return
	}
	for _, fn := range b.unitDeath {
		fn(msg)
	}
}

func (b *Bus) PublishSquadLoss(msg model.SquadLossThresholdMessage) {
	if b == nil {
		return
	}
	for _, fn := range b.squadLoss {
		fn(msg)
	}
}

func (b *Bus) PublishCombat(msg model.CombatMessage) {
	if b == nil {
		return
	}
	for _, fn := range b.combat {
		fn(msg)
	}
}
