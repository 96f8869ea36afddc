package world

import (
	"math"

	"github.com/udisondev/arena/internal/model"
)

// DefaultCellSize is the broad-phase cell edge in arena units.
const DefaultCellSize = 4.0

// CellKey identifies a grid cell on the X/Z floor plane.
type CellKey struct {
	X int32
	Z int32
}

// grid buckets entity IDs by the floor cell containing their position.
// Entities are points in the grid; queries widen their cell range by the
// largest registered entity radius.
type grid struct {
	cellSize float64
	inv      float64
	cells    map[CellKey]map[model.ObjectID]struct{}
}

func newGrid(cellSize float64) *grid {
	if cellSize <= 0 {
		cellSize = DefaultCellSize
	}
	return &grid{
		cellSize: cellSize,
		inv:      1 / cellSize,
		cells:    make(map[CellKey]map[model.ObjectID]struct{}),
	}
}

// CoordToCell converts a floor coordinate pair to a cell key.
func (g *grid) CoordToCell(x, z float64) CellKey {
	return CellKey{
		X: int32(math.Floor(x * g.inv)),
		Z: int32(math.Floor(z * g.inv)),
	}
}

func (g *grid) insert(id model.ObjectID, cell CellKey) {
	bucket, ok := g.cells[cell]
	if !ok {
		bucket = make(map[model.ObjectID]struct{})
		g.cells[cell] = bucket
	}
	bucket[id] = struct{}{}
}

func (g *grid) remove(id model.ObjectID, cell CellKey) {
	bucket, ok := g.cells[cell]
	if !ok {
		return
	}
	delete(bucket, id)
	if len(bucket) == 0 {
		delete(g.cells, cell)
	}
}

// forEachInRange visits every id in cells overlapping the square
// [minX,maxX]×[minZ,maxZ].
func (g *grid) forEachInRange(minX, minZ, maxX, maxZ float64, fn func(id model.ObjectID)) {
	lo := g.CoordToCell(minX, minZ)
	hi := g.CoordToCell(maxX, maxZ)
	for cx := lo.X; cx <= hi.X; cx++ {
		for cz := lo.Z; cz <= hi.Z; cz++ {
			for id := range g.cells[CellKey{X: cx, Z: cz}] {
				fn(id)
			}
		}
	}
}

func (g *grid) clear() {
	g.cells = make(map[CellKey]map[model.ObjectID]struct{})
}
