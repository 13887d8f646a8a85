package model

// Squad описывает группу юнитов одного типа с общей точкой появления.
// Invariant: 0 <= CurrentUnitCount <= MaxUnitCount. Squads only shrink.
type Squad struct {
	ChildPrefabName  string // unit-type id of the members
	Faction          Faction
	MaxUnitCount     uint32
	CurrentUnitCount uint32

	// counted is set once CurrentUnitCount has been initialized from MaxUnitCount.
	counted bool
}

// NewSquad creates a squad that has not yet been counted.
func NewSquad(prefab string, faction Faction, maxUnits uint32) *Squad {
	return &Squad{ChildPrefabName: prefab, Faction: faction, MaxUnitCount: maxUnits}
}

// Counted reports whether the first-tick initialization has run.
func (s *Squad) Counted() bool { return s.counted }

// InitCount sets CurrentUnitCount to MaxUnitCount on the first call only.
// Returns true if the count was initialized by this call.
func (s *Squad) InitCount() bool {
	if s.counted {
		return false
	}
	s.CurrentUnitCount = s.MaxUnitCount
	s.counted = true
	return true
}

// RemoveUnit decrements the current count if it is above zero.
// Returns false when the squad was already empty.
func (s *Squad) RemoveUnit() bool {
	if s.CurrentUnitCount == 0 {
		return false
	}
	s.CurrentUnitCount--
	return true
}

// LossPercentage returns floor((max-current)*100/max), 0 when max is 0.
func (s *Squad) LossPercentage() uint32 {
	if s.MaxUnitCount == 0 {
		return 0
	}
	current := min(s.CurrentUnitCount, s.MaxUnitCount)
	return (s.MaxUnitCount - current) * 100 / s.MaxUnitCount
}

// LossThresholds are the loss percentages that raise a one-time notification,
// in ascending order.
var LossThresholds = [...]uint32{30, 60, 90}

// SquadLossTracker latches which loss thresholds have already fired.
// A latch never resets for the squad's lifetime.
type SquadLossTracker struct {
	Threshold30Crossed bool
	Threshold60Crossed bool
	Threshold90Crossed bool
}

// latch returns a pointer to the latch of the given threshold (nil if unknown).
func (t *SquadLossTracker) latch(threshold uint32) *bool {
	switch threshold {
	case 30:
		return &t.Threshold30Crossed
	case 60:
		return &t.Threshold60Crossed
	case 90:
		return &t.Threshold90Crossed
	default:
		return nil
	}
}

// Crossed reports whether threshold has fired.
func (t *SquadLossTracker) Crossed(threshold uint32) bool {
	l := t.latch(threshold)
	return l != nil && *l
}

// Cross sets the latch for threshold and returns true if it was not set before.
func (t *SquadLossTracker) Cross(threshold uint32) bool {
	l := t.latch(threshold)
	if l == nil || *l {
		return false
	}
	*l = true
	return true
}

// SquadHitCount counts successful attacks landed by members of a squad.
type SquadHitCount uint32

// SquadTakeHitCount counts hits received by members of a squad.
type SquadTakeHitCount uint32
