package effect

import (
	"log/slog"

	"github.com/google/uuid"

	"github.com/udisondev/arena/internal/data"
	"github.com/udisondev/arena/internal/game/ability"
	"github.com/udisondev/arena/internal/model"
)

// Dispatcher instantiates an ability's effects in the world. It implements
// ability.Dispatcher and is invoked once per activation, at the WindUp→Active
// edge. It never computes damage.
type Dispatcher struct {
	registry *Registry
	onSpawn  func(*Instance)
}

// NewDispatcher creates a dispatcher writing into registry.
func NewDispatcher(registry *Registry) *Dispatcher {
	return &Dispatcher{registry: registry}
}

// OnSpawn sets a callback invoked for every registered instance.
// Used by the arena to resolve reactively and by spectators.
func (d *Dispatcher) OnSpawn(fn func(*Instance)) {
	d.onSpawn = fn
}

// Dispatch implements ability.Dispatcher.
func (d *Dispatcher) Dispatch(spec *data.AbilitySpec, ctx ability.Context) {
	d.Spawn(spec, ctx)
}

// Spawn creates and registers one instance per EffectSpec, in order, and
// returns them. An ability without effects spawns nothing.
func (d *Dispatcher) Spawn(spec *data.AbilitySpec, ctx ability.Context) []*Instance {
	if spec == nil || len(spec.Effects) == 0 {
		return nil
	}

	origin := placementOrigin(spec.EffectivePlacement(), ctx)
	yaw := model.YawFromDirection(ctx.Direction)
	spawnedAt := ctx.ActivatedAt + spec.WindUp

	out := make([]*Instance, 0, len(spec.Effects))
	for i := range spec.Effects {
		es := &spec.Effects[i]
		inst := &Instance{
			ID:        uuid.New(),
			Name:      es.Name,
			Kind:      es.Kind,
			Shape:     es.Shape,
			Size:      es.Size,
			Radius:    es.Radius,
			ArcAngle:  es.ArcAngle,
			Damage:    es.Damage,
			Position:  origin.Add(ctx.Direction.Scale(es.Offset)),
			Direction: ctx.Direction,
			Yaw:       yaw,
			SourceID:  ctx.CasterID,
			SpawnedAt: spawnedAt,
			Lifetime:  es.Lifetime,
		}
		if es.Kind == data.EffectArea {
			// Areas are always spheres.
			inst.Shape = data.ShapeSphere
		}

		if !d.registry.Register(inst) {
			slog.Error("effect registration rejected",
				"ability", spec.Name,
				"effect", es.Name,
				"id", inst.ID)
			continue
		}
		out = append(out, inst)

		slog.Debug("effect dispatched",
			"ability", spec.Name,
			"effect", es.Name,
			"kind", es.Kind,
			"shape", inst.Shape,
			"source", ctx.CasterID,
			"position", inst.Position)

		if d.onSpawn != nil {
			d.onSpawn(inst)
		}
	}
	return out
}

// placementOrigin picks the cast origin or the resolved target position.
func placementOrigin(p data.Placement, ctx ability.Context) model.Vec3 {
	if p == data.PlaceTarget {
		return ctx.TargetPosition
	}
	return ctx.Origin
}
