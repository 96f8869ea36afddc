package ai

import (
	"time"

	"github.com/udisondev/arena/internal/model"
)

// Controller drives one non-player actor. Tick is called once per arena tick
// before executors are updated.
type Controller interface {
	Tick(dt time.Duration)
	Intention() model.Intention
}

// TargetFunc returns the entity an enemy should pursue.
// Injected by the arena to avoid an import cycle with sim.
type TargetFunc func() (*model.Entity, bool)

// EnemiesFunc returns the live enemies the player bot may engage.
type EnemiesFunc func() []*model.Entity

// Mover applies a displacement to an entity. world.World implements it.
type Mover interface {
	MoveEntity(id model.ObjectID, delta model.Vec3)
}

// isAlive reports whether an entity's capability holder is not dead.
// Entities without health are treated as alive.
func isAlive(e *model.Entity) bool {
	if h, ok := e.Data.(interface{ IsDead() bool }); ok {
		return !h.IsDead()
	}
	return true
}
