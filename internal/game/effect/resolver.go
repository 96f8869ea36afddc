package effect

import (
	"context"
	"log/slog"

	"github.com/google/uuid"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/trace"

	"github.com/udisondev/arena/internal/data"
	"github.com/udisondev/arena/internal/model"
	"github.com/udisondev/arena/internal/telemetry"
)

// coneAngleEpsilon absorbs acos rounding so that a target exactly on the cone
// edge counts as inside.
const coneAngleEpsilon = 1e-6

// SpatialQuery answers overlap queries against world entities.
// Implemented by world.World; tests use fakes.
type SpatialQuery interface {
	OverlapSphere(center model.Vec3, radius float64) []*model.Entity
	OverlapBox(center, halfExtents model.Vec3, yaw float64) []*model.Entity
}

// Damageable is the damage receiver contract. Combat code discovers it on
// Entity.Data; entities without it are skipped silently.
type Damageable interface {
	TakeDamage(amount float64, hitPoint model.Vec3)
}

// Hit records one damage application.
type Hit struct {
	EffectID   uuid.UUID
	EffectName string
	SourceID   model.ObjectID
	TargetID   model.ObjectID
	Amount     float64
	Point      model.Vec3
}

// Resolver converts live effect instances into damage, exactly once each.
type Resolver struct {
	registry *Registry
	query    SpatialQuery
	tracer   trace.Tracer
	onHit    func(Hit)
	filter   func(inst *Instance, candidate *model.Entity) bool
}

// Option configures a Resolver.
type Option func(*Resolver)

// WithTracer sets the tracer used for resolution spans.
func WithTracer(t trace.Tracer) Option {
	return func(r *Resolver) { r.tracer = t }
}

// WithHitObserver registers a callback invoked after each damage application.
func WithHitObserver(fn func(Hit)) Option {
	return func(r *Resolver) { r.onHit = fn }
}

// WithTargetFilter restricts which candidates an instance may damage. The
// source entity is excluded regardless of the filter.
func WithTargetFilter(fn func(inst *Instance, candidate *model.Entity) bool) Option {
	return func(r *Resolver) { r.filter = fn }
}

// NewResolver creates a resolver over registry using query for overlap tests.
func NewResolver(registry *Registry, query SpatialQuery, opts ...Option) *Resolver {
	r := &Resolver{
		registry: registry,
		query:    query,
		tracer:   telemetry.Tracer("effect"),
	}
	for _, opt := range opts {
		opt(r)
	}
	return r
}

// ResolvePass resolves every unresolved live instance, in spawn order.
// Already-resolved instances are never reprocessed.
func (r *Resolver) ResolvePass(ctx context.Context) []Hit {
	pending := r.registry.Unresolved()
	if len(pending) == 0 {
		return nil
	}

	_, span := r.tracer.Start(ctx, "effect.resolve")
	defer span.End()

	var hits []Hit
	for _, inst := range pending {
		hits = append(hits, r.Resolve(inst)...)
	}

	span.SetAttributes(
		attribute.Int("effects", len(pending)),
		attribute.Int("hits", len(hits)),
	)
	return hits
}

// Resolve applies inst's damage to every overlapping damageable entity except
// its source, then marks it resolved. A resolved instance yields no hits.
func (r *Resolver) Resolve(inst *Instance) []Hit {
	if inst == nil || inst.resolved {
		return nil
	}
	inst.resolved = true

	var hits []Hit
	seen := make(map[model.ObjectID]struct{})
	for _, candidate := range r.candidates(inst) {
		id := candidate.ID()
		if id == inst.SourceID {
			continue
		}
		if _, dup := seen[id]; dup {
			continue
		}
		seen[id] = struct{}{}

		if r.filter != nil && !r.filter(inst, candidate) {
			continue
		}

		target, ok := candidate.Data.(Damageable)
		if !ok {
			continue
		}

		point := candidate.Position()
		target.TakeDamage(inst.Damage, point)

		hit := Hit{
			EffectID:   inst.ID,
			EffectName: inst.Name,
			SourceID:   inst.SourceID,
			TargetID:   id,
			Amount:     inst.Damage,
			Point:      point,
		}
		hits = append(hits, hit)
		if r.onHit != nil {
			r.onHit(hit)
		}
	}

	slog.Debug("effect resolved",
		"effect", inst.Name,
		"id", inst.ID,
		"source", inst.SourceID,
		"hits", len(hits))

	return hits
}

// candidates runs the shape-specific overlap query.
func (r *Resolver) candidates(inst *Instance) []*model.Entity {
	if inst.Kind == data.EffectArea {
		return r.query.OverlapSphere(inst.Position, inst.Radius)
	}

	switch inst.Shape {
	case data.ShapeBox:
		return r.query.OverlapBox(inst.Position, inst.HalfExtents(), inst.Yaw)
	case data.ShapeCone:
		return filterCone(inst, r.query.OverlapSphere(inst.Position, inst.Radius))
	default:
		return r.query.OverlapSphere(inst.Position, inst.Radius)
	}
}

// filterCone keeps candidates whose direction from the cone origin is within
// ArcAngle/2 of the cone direction (inclusive).
func filterCone(inst *Instance, in []*model.Entity) []*model.Entity {
	half := inst.ArcAngle / 2
	out := in[:0:0]
	for _, e := range in {
		toTarget := e.Position().Sub(inst.Position)
		if inst.Direction.AngleTo(toTarget) <= half+coneAngleEpsilon {
			out = append(out, e)
		}
	}
	return out
}
