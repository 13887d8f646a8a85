package world

import "github.com/udisondev/squadfall/internal/model"

// squadColumns is the formation width used when laying out squad members.
const squadColumns = 5

// SpawnSquad creates a squad of count units of one kind, laid out in rows
// of squadColumns around origin with the given spacing.
// Player squads face +X, enemy squads face -X (rows extend away from the enemy).
func (w *World) SpawnSquad(faction model.Faction, kind model.UnitKind, count int, origin model.Location, spacing float32) (*SquadRecord, []*Unit) {
	if count < 0 {
		count = 0
	}
	rec := w.CreateSquad(faction, kind.String(), uint32(count), origin)

	dir := float32(-1)
	if faction == model.FactionEnemy {
		dir = 1
	}

	units := make([]*Unit, 0, count)
	for i := range count {
		row := i / squadColumns
		col := i % squadColumns
		loc := model.Location{
			X: origin.X + dir*float32(row)*spacing,
			Y: origin.Y + (float32(col)-float32(squadColumns-1)/2)*spacing,
		}
		units = append(units, w.CreateUnit(kind, faction, rec.ID, loc))
	}
	return rec, units
}
