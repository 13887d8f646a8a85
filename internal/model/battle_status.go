package model

// FactionCounts holds max/current live unit counts of one side.
type FactionCounts struct {
	Max     uint32
	Current uint32
}

// BattleStatus хранит численность сторон и позиции последних смертей.
// Re-initialized once per battle start, updated incrementally afterwards.
type BattleStatus struct {
	Player FactionCounts
	Enemy  FactionCounts
	Total  FactionCounts

	LastDeath       Location
	LastPlayerDeath Location
	LastEnemyDeath  Location
	HasDeath        bool
}

// Reset re-initializes the snapshot from live unit counts.
func (b *BattleStatus) Reset(player, enemy uint32) {
	*b = BattleStatus{
		Player: FactionCounts{Max: player, Current: player},
		Enemy:  FactionCounts{Max: enemy, Current: enemy},
		Total:  FactionCounts{Max: player + enemy, Current: player + enemy},
	}
}

// SetCounts updates the current counts; max values are raised if exceeded.
func (b *BattleStatus) SetCounts(player, enemy uint32) {
	b.Player.Current = player
	b.Enemy.Current = enemy
	b.Total.Current = player + enemy
	b.Player.Max = max(b.Player.Max, player)
	b.Enemy.Max = max(b.Enemy.Max, enemy)
	b.Total.Max = max(b.Total.Max, b.Total.Current)
}

// Counts returns the counts of a faction.
func (b *BattleStatus) Counts(f Faction) FactionCounts {
	if f == FactionEnemy {
		return b.Enemy
	}
	return b.Player
}

// RecordDeath stores the last death position overall and for the dying unit's side.
func (b *BattleStatus) RecordDeath(loc Location, isEnemy bool) {
	b.LastDeath = loc
	b.HasDeath = true
	if isEnemy {
		b.LastEnemyDeath = loc
	} else {
		b.LastPlayerDeath = loc
	}
}
