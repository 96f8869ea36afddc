package locomotion

import (
	"log/slog"
	"time"

	"github.com/udisondev/arena/internal/game/ability"
	"github.com/udisondev/arena/internal/model"
)

// minMoveInput is the stick magnitude below which move input is treated as none.
const minMoveInput = 0.1

// NoAbility marks an Input without an ability press.
const NoAbility = -1

// Input is one frame of player intent.
type Input struct {
	Move    model.Vec3  // desired direction on the floor plane, any length
	Dodge   bool        // dodge pressed this frame
	Ability int         // slot pressed this frame, NoAbility for none
	Target  *model.Vec3 // explicit ground target; nil aims ahead of the actor
}

// Idle returns an Input with nothing pressed.
func Idle() Input {
	return Input{Ability: NoAbility}
}

// Mover applies a displacement to an entity. world.World implements it.
type Mover interface {
	MoveEntity(id model.ObjectID, delta model.Vec3)
}

type bufferedInput struct {
	index  int
	target *model.Vec3
	at     time.Duration
}

// Controller gates an actor's movement, dodge and ability input on top of its
// ability executor. Only ability presses made during Recovery are buffered;
// presses during WindUp, Active or a dodge are dropped.
//
// Not thread-safe: owned by the tick goroutine.
type Controller struct {
	entity   *model.Entity
	executor *ability.Executor
	mover    Mover
	cfg      Config

	facing model.Vec3
	move   model.Vec3

	dodging       bool
	dodgeTimer    time.Duration
	dodgeCooldown time.Duration
	dodgeDir      model.Vec3

	buffer *bufferedInput
	now    time.Duration
}

// NewController builds a controller for the executor's caster.
func NewController(executor *ability.Executor, mover Mover, cfg Config) *Controller {
	entity := executor.Caster()
	return &Controller{
		entity:   entity,
		executor: executor,
		mover:    mover,
		cfg:      cfg,
		facing:   entity.Forward(),
	}
}

// Tick processes one frame of input and advances dodge and movement by dt.
// The executor itself is updated by the caller.
func (c *Controller) Tick(dt time.Duration, in Input) {
	c.now += dt

	c.handleInput(in)
	c.updateDodge(dt)
	c.updateMovement(dt)
	c.updateBuffer()
}

func (c *Controller) canMove() bool {
	return !c.dodging && c.executor.Phase() == ability.PhaseIdle
}

func (c *Controller) handleInput(in Input) {
	if c.canMove() {
		c.move = in.Move.Flat()
		if c.move.Length() > minMoveInput {
			c.move = c.move.Normalized()
			c.setFacing(c.move)
		} else {
			c.move = model.Zero
		}
	} else {
		c.move = model.Zero
	}

	if in.Dodge && c.canMove() && c.dodgeCooldown <= 0 {
		c.startDodge()
	}

	if in.Ability != NoAbility {
		c.useAbility(in.Ability, in.Target)
	}
}

func (c *Controller) useAbility(index int, target *model.Vec3) bool {
	if c.canMove() {
		aim := c.entity.Position().Add(c.facing.Scale(c.cfg.DefaultTargetDistance))
		if target != nil {
			aim = *target
		}
		if !c.executor.TryActivate(index, aim, c.facing) {
			return false
		}
		c.buffer = nil
		return true
	}

	if !c.dodging && c.executor.Phase() == ability.PhaseRecovery {
		c.buffer = &bufferedInput{index: index, target: target, at: c.now}
		slog.Debug("ability input buffered",
			"actor", c.entity.ID(),
			"slot", index)
		return false
	}

	slog.Debug("ability input dropped",
		"actor", c.entity.ID(),
		"slot", index,
		"state", c.State(),
		"phase", c.executor.Phase())
	return false
}

func (c *Controller) startDodge() {
	c.dodging = true
	c.dodgeTimer = c.cfg.DodgeDuration
	c.dodgeCooldown = c.cfg.DodgeCooldown
	if c.move.Length() > minMoveInput {
		c.dodgeDir = c.move
	} else {
		c.dodgeDir = c.facing
	}

	slog.Debug("dodge started",
		"actor", c.entity.ID(),
		"direction", c.dodgeDir)
}

// updateDodge ticks the dodge cooldown every frame and moves a dodging actor.
// The final step is clipped so a dodge covers exactly DodgeDistance.
func (c *Controller) updateDodge(dt time.Duration) {
	if c.dodgeCooldown > 0 {
		c.dodgeCooldown = max(c.dodgeCooldown-dt, 0)
	}
	if !c.dodging {
		return
	}

	step := min(dt, c.dodgeTimer)
	if step > 0 && c.cfg.DodgeDuration > 0 {
		speed := c.cfg.DodgeDistance / c.cfg.DodgeDuration.Seconds()
		c.mover.MoveEntity(c.entity.ID(), c.dodgeDir.Scale(speed*step.Seconds()))
	}

	c.dodgeTimer -= dt
	if c.dodgeTimer <= 0 {
		c.dodging = false
		c.dodgeTimer = 0
	}
}

func (c *Controller) updateMovement(dt time.Duration) {
	if !c.canMove() || c.move.IsZero() {
		return
	}
	c.mover.MoveEntity(c.entity.ID(), c.move.Scale(c.cfg.MoveSpeed*dt.Seconds()))
}

func (c *Controller) updateBuffer() {
	if c.buffer == nil {
		return
	}
	if c.now-c.buffer.at > c.cfg.BufferWindow {
		slog.Debug("buffered input expired",
			"actor", c.entity.ID(),
			"slot", c.buffer.index)
		c.buffer = nil
		return
	}
	if c.canMove() {
		buf := c.buffer
		c.buffer = nil
		c.useAbility(buf.index, buf.target)
	}
}

func (c *Controller) setFacing(dir model.Vec3) {
	c.facing = dir
	c.entity.SetForward(dir)
}

// Face turns the actor without moving it. Zero directions are ignored.
func (c *Controller) Face(dir model.Vec3) {
	dir = dir.Flat().Normalized()
	if dir.IsZero() {
		return
	}
	c.setFacing(dir)
}

// State returns Dodging while a dodge runs, Acting while an ability is in
// flight, Idle otherwise.
func (c *Controller) State() State {
	switch {
	case c.dodging:
		return StateDodging
	case c.executor.Phase() != ability.PhaseIdle:
		return StateActing
	default:
		return StateIdle
	}
}

// IsDodgeReady reports whether the dodge cooldown has elapsed.
func (c *Controller) IsDodgeReady() bool {
	return c.dodgeCooldown <= 0
}

// DodgeCooldownFraction returns remaining/total dodge cooldown, 0 when ready.
func (c *Controller) DodgeCooldownFraction() float64 {
	if c.dodgeCooldown <= 0 || c.cfg.DodgeCooldown <= 0 {
		return 0
	}
	return float64(c.dodgeCooldown) / float64(c.cfg.DodgeCooldown)
}

// Facing returns the current unit facing.
func (c *Controller) Facing() model.Vec3 {
	return c.facing
}

// Buffered returns the buffered slot index, if any.
func (c *Controller) Buffered() (int, bool) {
	if c.buffer == nil {
		return NoAbility, false
	}
	return c.buffer.index, true
}

// Executor returns the underlying ability executor.
func (c *Controller) Executor() *ability.Executor {
	return c.executor
}

// Entity returns the controlled entity.
func (c *Controller) Entity() *model.Entity {
	return c.entity
}
