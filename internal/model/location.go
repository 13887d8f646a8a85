package model

import "math"

// Location представляет координаты на поле боя (в игровых единицах).
// Value type, передаётся по значению (immutable).
type Location struct {
	X float32
	Y float32
}

// NewLocation создаёт Location с указанными координатами.
func NewLocation(x, y float32) Location {
	return Location{X: x, Y: y}
}

// DistanceSquared возвращает квадрат расстояния до другой точки (без sqrt для производительности).
func (l Location) DistanceSquared(other Location) float32 {
	dx := l.X - other.X
	dy := l.Y - other.Y
	return dx*dx + dy*dy
}

// Distance returns the euclidean distance to other.
func (l Location) Distance(other Location) float32 {
	return float32(math.Sqrt(float64(l.DistanceSquared(other))))
}

// MoveTowards returns a location advanced by at most step toward target.
// Never overshoots: when target is closer than step, target is returned.
func (l Location) MoveTowards(target Location, step float32) Location {
	if step <= 0 {
		return l
	}
	dist := l.Distance(target)
	if dist <= step || dist == 0 {
		return target
	}
	k := step / dist
	return Location{
		X: l.X + (target.X-l.X)*k,
		Y: l.Y + (target.Y-l.Y)*k,
	}
}
