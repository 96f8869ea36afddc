package ability

import (
	"log/slog"
	"time"

	"github.com/udisondev/arena/internal/data"
	"github.com/udisondev/arena/internal/model"
)

// Executor runs one actor's abilities: cooldowns, phase timing and input gating.
//
// State machine (single timer):
//
//	Idle --TryActivate--> WindUp --timer--> Active --timer--> Recovery --timer--> Idle
//
// Effects are dispatched once, on the WindUp→Active edge. The cooldown starts
// at activation, so an ability with cooldown 2s is ready 2s after it was
// triggered regardless of its phase durations.
//
// Not thread-safe: owned by the tick goroutine.
type Executor struct {
	caster     *model.Entity
	dispatcher Dispatcher
	slots      []Slot

	phase   Phase
	timer   time.Duration
	current *data.AbilitySpec
	ctx     Context

	now time.Duration
}

// NewExecutor creates an executor with one slot per spec, in order.
// Nil specs produce empty slots.
func NewExecutor(caster *model.Entity, dispatcher Dispatcher, specs ...*data.AbilitySpec) *Executor {
	slots := make([]Slot, len(specs))
	for i, spec := range specs {
		slots[i].Ability = spec
	}
	return &Executor{
		caster:     caster,
		dispatcher: dispatcher,
		slots:      slots,
	}
}

// TryActivate starts the ability in slot index. It returns false and changes
// nothing unless the executor is Idle, the index is valid, the slot holds an
// ability and that ability is off cooldown.
func (e *Executor) TryActivate(index int, target, direction model.Vec3) bool {
	if e.phase != PhaseIdle {
		return false
	}
	if index < 0 || index >= len(e.slots) {
		return false
	}
	slot := &e.slots[index]
	if slot.Ability == nil || slot.IsOnCooldown() {
		return false
	}

	dir := direction.Flat().Normalized()
	if dir.IsZero() {
		dir = e.caster.Forward()
	}

	e.current = slot.Ability
	e.ctx = Context{
		CasterID:       e.caster.ID(),
		Origin:         e.caster.Position(),
		TargetPosition: target,
		Direction:      dir,
		ActivatedAt:    e.now,
	}

	if e.current.OnActivate != nil {
		e.current.OnActivate(e.ctx.CasterID, target, dir)
	}

	e.phase = PhaseWindUp
	e.timer = e.current.WindUp
	slot.CooldownRemaining = e.current.Cooldown

	slog.Debug("ability activated",
		"caster", e.caster.Name(),
		"casterID", e.ctx.CasterID,
		"ability", e.current.Name,
		"slot", index,
		"windUp", e.current.WindUp,
		"cooldown", e.current.Cooldown)

	return true
}

// Update advances cooldowns and the phase timer by dt. At most one phase
// transition happens per call; a large dt never skips a phase.
func (e *Executor) Update(dt time.Duration) {
	for i := range e.slots {
		e.slots[i].tick(dt)
	}
	e.now += dt

	if e.phase == PhaseIdle {
		return
	}

	e.timer -= dt
	if e.timer > 0 {
		return
	}

	switch e.phase {
	case PhaseWindUp:
		e.toActive()
	case PhaseActive:
		e.toRecovery()
	case PhaseRecovery:
		e.toIdle()
	}
}

func (e *Executor) toActive() {
	e.setPhase(PhaseActive, e.current.Active)
	if e.dispatcher != nil {
		e.dispatcher.Dispatch(e.current, e.ctx)
	}
}

func (e *Executor) toRecovery() {
	e.setPhase(PhaseRecovery, e.current.Recovery)
}

func (e *Executor) toIdle() {
	e.setPhase(PhaseIdle, 0)
	e.current = nil
	e.ctx = Context{}
}

func (e *Executor) setPhase(next Phase, timer time.Duration) {
	slog.Debug("ability phase changed",
		"casterID", e.caster.ID(),
		"ability", e.current.Name,
		"from", e.phase,
		"to", next)
	e.phase = next
	e.timer = timer
}

// IsReady reports whether slot index could be activated if the executor were Idle.
func (e *Executor) IsReady(index int) bool {
	if index < 0 || index >= len(e.slots) {
		return false
	}
	slot := &e.slots[index]
	return slot.Ability != nil && !slot.IsOnCooldown()
}

// CooldownFraction returns remaining/cooldown in (0, 1] while cooling down,
// and 0 otherwise (including a zero-length cooldown).
func (e *Executor) CooldownFraction(index int) float64 {
	if index < 0 || index >= len(e.slots) {
		return 0
	}
	slot := &e.slots[index]
	if slot.Ability == nil || !slot.IsOnCooldown() || slot.Ability.Cooldown <= 0 {
		return 0
	}
	return float64(slot.CooldownRemaining) / float64(slot.Ability.Cooldown)
}

// IndexOf returns the slot index holding the named ability, or -1.
func (e *Executor) IndexOf(name string) int {
	for i := range e.slots {
		if a := e.slots[i].Ability; a != nil && a.Name == name {
			return i
		}
	}
	return -1
}

// Phase returns the current phase.
func (e *Executor) Phase() Phase {
	return e.phase
}

// Timer returns the time left in the current phase.
func (e *Executor) Timer() time.Duration {
	return e.timer
}

// Current returns the in-flight ability, nil when Idle.
func (e *Executor) Current() *data.AbilitySpec {
	return e.current
}

// Context returns the activation snapshot of the in-flight ability.
// The zero Context is returned when Idle.
func (e *Executor) Context() Context {
	return e.ctx
}

// SlotCount returns the number of slots.
func (e *Executor) SlotCount() int {
	return len(e.slots)
}

// Slot returns a copy of slot index.
func (e *Executor) Slot(index int) (Slot, bool) {
	if index < 0 || index >= len(e.slots) {
		return Slot{}, false
	}
	return e.slots[index], true
}

// Now returns the executor's accumulated game time.
func (e *Executor) Now() time.Duration {
	return e.now
}

// Caster returns the owning entity.
func (e *Executor) Caster() *model.Entity {
	return e.caster
}
