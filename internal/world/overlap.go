package world

import (
	"cmp"
	"math"
	"slices"

	"github.com/udisondev/arena/internal/model"
)

// OverlapSphere returns every entity whose collision sphere intersects the
// query sphere, ordered by ID. Touching counts as overlap.
func (w *World) OverlapSphere(center model.Vec3, radius float64) []*model.Entity {
	if radius < 0 {
		return nil
	}
	reach := radius + w.maxRadius

	var hits []*model.Entity
	w.grid.forEachInRange(center.X-reach, center.Z-reach, center.X+reach, center.Z+reach, func(id model.ObjectID) {
		e := w.entities[id]
		r := radius + e.Radius()
		if e.Position().DistanceSquared(center) <= r*r {
			hits = append(hits, e)
		}
	})
	sortByID(hits)
	return hits
}

// OverlapBox returns every entity whose collision sphere intersects the box
// centered at center with the given half extents, rotated yaw degrees about +Y.
// Ordered by ID.
func (w *World) OverlapBox(center, halfExtents model.Vec3, yaw float64) []*model.Entity {
	if halfExtents.X < 0 || halfExtents.Y < 0 || halfExtents.Z < 0 {
		return nil
	}
	// Horizontal bounding radius of the rotated box.
	reach := math.Hypot(halfExtents.X, halfExtents.Z) + w.maxRadius

	var hits []*model.Entity
	w.grid.forEachInRange(center.X-reach, center.Z-reach, center.X+reach, center.Z+reach, func(id model.ObjectID) {
		e := w.entities[id]
		if sphereIntersectsBox(e.Position(), e.Radius(), center, halfExtents, yaw) {
			hits = append(hits, e)
		}
	})
	sortByID(hits)
	return hits
}

// sphereIntersectsBox tests a sphere against an oriented box by clamping the
// sphere center into box-local space.
func sphereIntersectsBox(p model.Vec3, r float64, center, half model.Vec3, yaw float64) bool {
	local := p.Sub(center).RotateYaw(-yaw)
	closest := model.Vec3{
		X: clamp(local.X, -half.X, half.X),
		Y: clamp(local.Y, -half.Y, half.Y),
		Z: clamp(local.Z, -half.Z, half.Z),
	}
	return local.DistanceSquared(closest) <= r*r
}

func clamp(value, lo, hi float64) float64 {
	if value < lo {
		return lo
	}
	if value > hi {
		return hi
	}
	return value
}

func sortByID(entities []*model.Entity) {
	slices.SortFunc(entities, func(a, b *model.Entity) int {
		return cmp.Compare(a.ID(), b.ID())
	})
}
