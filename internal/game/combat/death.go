package combat

import (
	"log/slog"

	"github.com/udisondev/squadfall/internal/model"
)

// ProcessDeaths despawns every unit whose health dropped to zero.
// The squad id is captured before removal so accounting can run afterwards.
// Last-death positions are recorded on the battle status by faction.
func (p *Pipeline) ProcessDeaths() []model.UnitDeathMessage {
	var deaths []model.UnitDeathMessage
	for _, u := range p.world.Units() {
		if u.Health == nil || u.Health.IsAlive() {
			continue
		}
		msg := model.UnitDeathMessage{
			Entity:   u.ID,
			Squad:    u.Squad,
			Location: u.Location,
			IsEnemy:  u.IsEnemy(),
		}
		p.world.RemoveUnit(u.ID)
		if p.status != nil {
			p.status.RecordDeath(msg.Location, msg.IsEnemy)
		}
		p.bus.PublishUnitDeath(msg)
		deaths = append(deaths, msg)

		slog.Debug("unit died", "unit", u.ID, "kind", u.Kind.String(), "faction", u.Faction.String(), "squad", u.Squad)
	}
	return deaths
}
