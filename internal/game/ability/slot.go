package ability

import (
	"time"

	"github.com/udisondev/arena/internal/data"
	"github.com/udisondev/arena/internal/model"
)

// Slot binds an ability to an actor and tracks its cooldown.
// A slot with a nil Ability is legal and never activates.
type Slot struct {
	Ability           *data.AbilitySpec
	CooldownRemaining time.Duration
}

// IsOnCooldown reports whether the slot is still cooling down.
func (s *Slot) IsOnCooldown() bool {
	return s.CooldownRemaining > 0
}

// tick counts the cooldown down by dt, clamping at zero.
func (s *Slot) tick(dt time.Duration) {
	if !s.IsOnCooldown() {
		return
	}
	s.CooldownRemaining = max(s.CooldownRemaining-dt, 0)
}

// Context is the snapshot taken at activation. It stays unchanged until the
// executor returns to Idle.
type Context struct {
	CasterID       model.ObjectID
	Origin         model.Vec3 // caster position at activation
	TargetPosition model.Vec3
	Direction      model.Vec3 // unit aim direction on the floor plane
	ActivatedAt    time.Duration
}

// Dispatcher turns an ability's effects into world instances at the
// WindUp→Active edge.
type Dispatcher interface {
	Dispatch(spec *data.AbilitySpec, ctx Context)
}
