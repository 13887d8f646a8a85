package world

import "github.com/udisondev/squadfall/internal/model"

// Region is one cell of the spatial index with the units standing in it.
type Region struct {
	cell  Cell
	units []*Unit // creation order
}

// Cell returns the region's cell coordinates.
func (r *Region) Cell() Cell { return r.cell }

// Units returns the units in the region. Do not modify the slice.
func (r *Region) Units() []*Unit { return r.units }

// SpatialIndex buckets live units by cell for neighbourhood queries.
// It is a per-frame snapshot: rebuild after units move or die.
type SpatialIndex struct {
	cellSize float32
	regions  map[Cell]*Region
	min, max Cell
}

// BuildIndex snapshots the positions of all live units.
func (w *World) BuildIndex(cellSize float32) *SpatialIndex {
	if cellSize <= 0 {
		cellSize = DefaultCellSize
	}
	ix := &SpatialIndex{cellSize: cellSize, regions: make(map[Cell]*Region)}
	first := true
	for _, u := range w.Units() {
		if !u.Alive() {
			continue
		}
		c := CoordToCell(u.Location.X, u.Location.Y, cellSize)
		r, ok := ix.regions[c]
		if !ok {
			r = &Region{cell: c}
			ix.regions[c] = r
		}
		r.units = append(r.units, u)

		if first {
			ix.min, ix.max = c, c
			first = false
			continue
		}
		ix.min.X, ix.min.Y = min(ix.min.X, c.X), min(ix.min.Y, c.Y)
		ix.max.X, ix.max.Y = max(ix.max.X, c.X), max(ix.max.Y, c.Y)
	}
	return ix
}

// Region returns the region at a cell, or nil if it holds no units.
func (ix *SpatialIndex) Region(c Cell) *Region { return ix.regions[c] }

// Len returns the number of non-empty regions.
func (ix *SpatialIndex) Len() int { return len(ix.regions) }

// Nearest finds the accepted unit closest to from, searching rings of cells
// outward. Ties go to the lower entity id so results are deterministic.
func (ix *SpatialIndex) Nearest(from model.Location, accept func(*Unit) bool) (*Unit, bool) {
	if len(ix.regions) == 0 {
		return nil, false
	}
	center := CoordToCell(from.X, from.Y, ix.cellSize)
	maxRing := max(
		abs32(center.X-ix.min.X), abs32(ix.max.X-center.X),
		abs32(center.Y-ix.min.Y), abs32(ix.max.Y-center.Y),
	)

	var best *Unit
	var bestDist float32
	for r := int32(0); r <= maxRing; r++ {
		// Every unit in ring r is at least (r-1)*cellSize away.
		if best != nil {
			bound := float32(r-1) * ix.cellSize
			if bound > 0 && bound*bound > bestDist {
				break
			}
		}
		for _, c := range ringCells(center, r) {
			reg := ix.regions[c]
			if reg == nil {
				continue
			}
			for _, u := range reg.units {
				if accept != nil && !accept(u) {
					continue
				}
				d := from.DistanceSquared(u.Location)
				if best == nil || d < bestDist || (d == bestDist && u.ID < best.ID) {
					best, bestDist = u, d
				}
			}
		}
	}
	return best, best != nil
}

func abs32(v int32) int32 {
	if v < 0 {
		return -v
	}
	return v
}
