// Package world is the entity store of one battle: an id-indexed arena of
// units and squads with creation-ordered iteration.
package world

import (
	"slices"

	"github.com/udisondev/squadfall/internal/model"
)

// World holds every live entity of a battle.
// Not safe for concurrent use: a battle is stepped by a single goroutine.
type World struct {
	nextID model.EntityID

	units     map[model.EntityID]*Unit
	unitOrder []model.EntityID

	squads     map[model.EntityID]*SquadRecord
	squadOrder []model.EntityID
}

// New creates an empty world.
func New() *World {
	return &World{
		units:  make(map[model.EntityID]*Unit),
		squads: make(map[model.EntityID]*SquadRecord),
	}
}

func (w *World) allocID() model.EntityID {
	w.nextID++
	return w.nextID
}

// CreateSquad registers a new squad entity. The squad's current count is
// initialized later, on the first accounting tick.
func (w *World) CreateSquad(faction model.Faction, prefab string, maxUnits uint32, origin model.Location) *SquadRecord {
	rec := &SquadRecord{
		ID:     w.allocID(),
		Squad:  model.NewSquad(prefab, faction, maxUnits),
		Origin: origin,
	}
	w.squads[rec.ID] = rec
	w.squadOrder = append(w.squadOrder, rec.ID)
	return rec
}

// CreateUnit registers a new unit. squad may be NoEntity.
func (w *World) CreateUnit(kind model.UnitKind, faction model.Faction, squad model.EntityID, loc model.Location) *Unit {
	u := &Unit{
		ID:       w.allocID(),
		Kind:     kind,
		Faction:  faction,
		Squad:    squad,
		Location: loc,
		State:    model.StateIdle,
	}
	w.units[u.ID] = u
	w.unitOrder = append(w.unitOrder, u.ID)
	return u
}

// Unit returns a live unit by id.
func (w *World) Unit(id model.EntityID) (*Unit, bool) {
	u, ok := w.units[id]
	return u, ok
}

// Squad returns a live squad by id.
func (w *World) Squad(id model.EntityID) (*SquadRecord, bool) {
	s, ok := w.squads[id]
	return s, ok
}

// SquadOf returns the squad a unit belongs to.
// Fails if the unit is gone, has no squad, or its squad was despawned.
func (w *World) SquadOf(unitID model.EntityID) (*SquadRecord, bool) {
	u, ok := w.units[unitID]
	if !ok || u.Squad == model.NoEntity {
		return nil, false
	}
	return w.Squad(u.Squad)
}

// Valid reports whether id refers to a live unit or squad.
func (w *World) Valid(id model.EntityID) bool {
	if _, ok := w.units[id]; ok {
		return true
	}
	_, ok := w.squads[id]
	return ok
}

// RemoveUnit despawns a unit. Returns false if it was already gone.
func (w *World) RemoveUnit(id model.EntityID) bool {
	if _, ok := w.units[id]; !ok {
		return false
	}
	delete(w.units, id)
	if i := slices.Index(w.unitOrder, id); i >= 0 {
		w.unitOrder = slices.Delete(w.unitOrder, i, i+1)
	}
	return true
}

// RemoveSquad despawns a squad entity (its members are left untouched).
func (w *World) RemoveSquad(id model.EntityID) bool {
	if _, ok := w.squads[id]; !ok {
		return false
	}
	delete(w.squads, id)
	if i := slices.Index(w.squadOrder, id); i >= 0 {
		w.squadOrder = slices.Delete(w.squadOrder, i, i+1)
	}
	return true
}

// Units returns live units in creation order.
// The slice is a snapshot: removing units while iterating it is safe.
func (w *World) Units() []*Unit {
	out := make([]*Unit, 0, len(w.unitOrder))
	for _, id := range w.unitOrder {
		out = append(out, w.units[id])
	}
	return out
}

// Squads returns live squads in creation order.
func (w *World) Squads() []*SquadRecord {
	out := make([]*SquadRecord, 0, len(w.squadOrder))
	for _, id := range w.squadOrder {
		out = append(out, w.squads[id])
	}
	return out
}

// UnitCount returns the number of live units.
func (w *World) UnitCount() int { return len(w.units) }

// LiveCount counts live units of a faction.
func (w *World) LiveCount(f model.Faction) uint32 {
	var n uint32
	for _, u := range w.units {
		if u.Faction == f && u.Alive() {
			n++
		}
	}
	return n
}
