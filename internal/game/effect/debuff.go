package effect

// PoisonDebuff deals DamagePerTick*Stacks every tick period, then loses one stack.
// At zero stacks it stays attached but inert.
type PoisonDebuff struct {
	Stacks        int
	MaxStacks     int
	DamagePerTick float32
	Tick          Timer
}

// StunDebuff keeps a unit out of the attacking state while Stunning is true.
type StunDebuff struct {
	Stunning bool
	Duration Timer
}

// DebuffStack holds the debuffs applied to one unit (at most one of each kind).
type DebuffStack struct {
	poison *PoisonDebuff
	stun   *StunDebuff
	rules  Rules
}

// NewDebuffStack creates an empty stack governed by rules.
func NewDebuffStack(rules Rules) *DebuffStack {
	return &DebuffStack{rules: rules}
}

// Poison returns the poison debuff, or nil.
func (d *DebuffStack) Poison() *PoisonDebuff { return d.poison }

// Stun returns the stun debuff, or nil.
func (d *DebuffStack) Stun() *StunDebuff { return d.stun }

// Empty reports whether no debuff is attached.
func (d *DebuffStack) Empty() bool { return d.poison == nil && d.stun == nil }

// ApplyPoison attaches stacks of poison (capped at MaxStacks).
// An existing poison gains the stacks and restarts its tick timer.
// Non-positive stacks are ignored.
func (d *DebuffStack) ApplyPoison(stacks int) {
	if stacks <= 0 {
		return
	}
	if d.poison == nil {
		d.poison = &PoisonDebuff{
			Stacks:        clampStacks(stacks, d.rules.MaxStacks),
			MaxStacks:     d.rules.MaxStacks,
			DamagePerTick: d.rules.PoisonDamagePerTick,
			Tick:          NewTimer(d.rules.PoisonTickTime, TimerRepeating),
		}
		return
	}
	d.poison.Stacks = clampStacks(d.poison.Stacks+stacks, d.poison.MaxStacks)
	d.poison.Tick.Reset()
}

// ApplyStun stuns the unit for the configured duration.
// An existing stun restarts its duration.
func (d *DebuffStack) ApplyStun() {
	if d.stun == nil {
		d.stun = &StunDebuff{
			Stunning: true,
			Duration: NewTimer(d.rules.StunDuration, TimerOnce),
		}
		return
	}
	d.stun.Duration.Reset()
	d.stun.Stunning = true
}

// IsStunned reports whether an active stun is attached.
func (d *DebuffStack) IsStunned() bool {
	return d.stun != nil && d.stun.Stunning
}

// Tick advances debuff timers by dt and returns the poison damage due this frame.
func (d *DebuffStack) Tick(dt float32) float32 {
	var damage float32
	if p := d.poison; p != nil {
		if p.Tick.Tick(dt) && p.Stacks > 0 {
			damage = p.DamagePerTick * float32(p.Stacks)
			p.Stacks--
		}
	}
	if s := d.stun; s != nil {
		if s.Duration.Tick(dt) {
			s.Stunning = false
		}
	}
	return damage
}
