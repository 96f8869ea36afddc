package effect

import (
	"time"

	"github.com/google/uuid"

	"github.com/udisondev/arena/internal/data"
	"github.com/udisondev/arena/internal/model"
)

// Instance is a live spatial effect placed in the world by a dispatched ability.
// Geometry and payload are copied from the EffectSpec at spawn time.
//
// Resolution and expiry are independent: an instance is resolved at most once
// and stays in the registry, inert, until its lifetime elapses.
type Instance struct {
	ID   uuid.UUID
	Name string
	Kind data.EffectKind

	Shape    data.HitboxShape
	Size     model.Vec3 // full box extents
	Radius   float64
	ArcAngle float64
	Damage   float64

	Position  model.Vec3
	Direction model.Vec3
	Yaw       float64

	SourceID  model.ObjectID
	SpawnedAt time.Duration
	Lifetime  time.Duration
	Elapsed   time.Duration

	resolved bool
}

// Resolved reports whether damage has already been applied for this instance.
func (i *Instance) Resolved() bool {
	return i.resolved
}

// Expired reports whether the lifetime has elapsed.
func (i *Instance) Expired() bool {
	return i.Elapsed >= i.Lifetime
}

// Remaining returns the lifetime left (0 once expired).
func (i *Instance) Remaining() time.Duration {
	return max(i.Lifetime-i.Elapsed, 0)
}

// HalfExtents returns half of the box size.
func (i *Instance) HalfExtents() model.Vec3 {
	return i.Size.Scale(0.5)
}
