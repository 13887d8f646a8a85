package world

import "math"

// DefaultCellSize is the side of one spatial index cell in world units.
// Roughly two attack ranges of a melee unit.
const DefaultCellSize float32 = 8

// Cell identifies one square of the spatial index.
type Cell struct {
	X, Y int32
}

// CoordToCell converts a world coordinate to its cell.
// Formula: floor(coord / cellSize)
func CoordToCell(x, y, cellSize float32) Cell {
	return Cell{
		X: int32(math.Floor(float64(x / cellSize))),
		Y: int32(math.Floor(float64(y / cellSize))),
	}
}

// ringCells returns the cells at Chebyshev distance r from c (r=0 is c itself).
func ringCells(c Cell, r int32) []Cell {
	if r == 0 {
		return []Cell{c}
	}
	out := make([]Cell, 0, 8*r)
	for dx := -r; dx <= r; dx++ {
		out = append(out, Cell{c.X + dx, c.Y - r}, Cell{c.X + dx, c.Y + r})
	}
	for dy := -r + 1; dy <= r-1; dy++ {
		out = append(out, Cell{c.X - r, c.Y + dy}, Cell{c.X + r, c.Y + dy})
	}
	return out
}
