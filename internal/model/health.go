package model

// Health хранит текущее и максимальное HP юнита.
// Invariant: 0 <= Current <= Max.
type Health struct {
	Current float32
	Max     float32
}

// NewHealth creates full health with the given maximum (negative max is clamped to 0).
func NewHealth(maxHP float32) Health {
	if maxHP < 0 {
		maxHP = 0
	}
	return Health{Current: maxHP, Max: maxHP}
}

// TakeDamage reduces current HP, clamped at 0.
// Negative amounts are treated as zero damage.
func (h *Health) TakeDamage(amount float32) {
	if amount <= 0 {
		return
	}
	h.Current -= amount
	if h.Current < 0 {
		h.Current = 0
	}
}

// IsAlive reports whether current HP is above zero.
func (h Health) IsAlive() bool {
	return h.Current > 0
}

// Ratio returns Current/Max in [0, 1]; 0 when Max is 0.
func (h Health) Ratio() float32 {
	if h.Max <= 0 {
		return 0
	}
	return h.Current / h.Max
}
