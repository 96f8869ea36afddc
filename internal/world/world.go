package world

import (
	"fmt"
	"slices"

	"github.com/udisondev/arena/internal/model"
)

// World owns every entity placed in the arena and answers overlap queries.
// There is no global instance: the arena constructs one and passes it to the
// systems that need it.
//
// Single-writer: all mutation happens on the tick goroutine. Callers that read
// from other goroutines must serialize through the owner (sim.Arena).
type World struct {
	entities  map[model.ObjectID]*model.Entity
	cellOf    map[model.ObjectID]CellKey
	grid      *grid
	maxRadius float64
}

// New creates an empty world with the given broad-phase cell size
// (<= 0 selects DefaultCellSize).
func New(cellSize float64) *World {
	return &World{
		entities: make(map[model.ObjectID]*model.Entity),
		cellOf:   make(map[model.ObjectID]CellKey),
		grid:     newGrid(cellSize),
	}
}

// AddEntity places an entity in the world.
// Returns error if the ID is invalid or already present.
func (w *World) AddEntity(e *model.Entity) error {
	if e == nil || e.ID() == 0 {
		return fmt.Errorf("invalid entity")
	}
	if _, exists := w.entities[e.ID()]; exists {
		return fmt.Errorf("entity %d already in world", e.ID())
	}

	pos := e.Position()
	cell := w.grid.CoordToCell(pos.X, pos.Z)
	w.entities[e.ID()] = e
	w.cellOf[e.ID()] = cell
	w.grid.insert(e.ID(), cell)
	w.maxRadius = max(w.maxRadius, e.Radius())
	return nil
}

// RemoveEntity removes an entity. Unknown IDs are ignored.
func (w *World) RemoveEntity(id model.ObjectID) {
	if _, ok := w.entities[id]; !ok {
		return
	}
	w.grid.remove(id, w.cellOf[id])
	delete(w.cellOf, id)
	delete(w.entities, id)
}

// GetEntity returns the entity by ID.
func (w *World) GetEntity(id model.ObjectID) (*model.Entity, bool) {
	e, ok := w.entities[id]
	return e, ok
}

// Count returns the number of entities in the world.
func (w *World) Count() int {
	return len(w.entities)
}

// ForEach visits entities in ascending ID order. If fn returns false,
// iteration stops.
func (w *World) ForEach(fn func(*model.Entity) bool) {
	for _, id := range w.sortedIDs() {
		if !fn(w.entities[id]) {
			return
		}
	}
}

// SetPosition teleports an entity and updates its grid cell.
func (w *World) SetPosition(id model.ObjectID, pos model.Vec3) {
	e, ok := w.entities[id]
	if !ok {
		return
	}
	e.SetPosition(pos)

	cell := w.grid.CoordToCell(pos.X, pos.Z)
	if old := w.cellOf[id]; old != cell {
		w.grid.remove(id, old)
		w.grid.insert(id, cell)
		w.cellOf[id] = cell
	}
}

// MoveEntity displaces an entity by delta. Implements locomotion.Mover.
func (w *World) MoveEntity(id model.ObjectID, delta model.Vec3) {
	e, ok := w.entities[id]
	if !ok {
		return
	}
	w.SetPosition(id, e.Position().Add(delta))
}

// Reset removes every entity (scene change, test isolation).
func (w *World) Reset() {
	w.entities = make(map[model.ObjectID]*model.Entity)
	w.cellOf = make(map[model.ObjectID]CellKey)
	w.grid.clear()
	w.maxRadius = 0
}

func (w *World) sortedIDs() []model.ObjectID {
	ids := make([]model.ObjectID, 0, len(w.entities))
	for id := range w.entities {
		ids = append(ids, id)
	}
	slices.Sort(ids)
	return ids
}
