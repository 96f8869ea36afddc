package effect

import (
	"time"

	"github.com/udisondev/arena/internal/data"
	"github.com/udisondev/arena/internal/model"
)

// target is a Damageable recording every hit it receives.
type target struct {
	hits []float64
	at   []model.Vec3
}

func (t *target) TakeDamage(amount float64, hitPoint model.Vec3) {
	t.hits = append(t.hits, amount)
	t.at = append(t.at, hitPoint)
}

func (t *target) total() float64 {
	var sum float64
	for _, h := range t.hits {
		sum += h
	}
	return sum
}

// fakeQuery returns preset candidates regardless of geometry and counts calls.
type fakeQuery struct {
	sphere      []*model.Entity
	box         []*model.Entity
	sphereCalls int
	boxCalls    int
	lastYaw     float64
	lastHalf    model.Vec3
}

func (q *fakeQuery) OverlapSphere(_ model.Vec3, _ float64) []*model.Entity {
	q.sphereCalls++
	return q.sphere
}

func (q *fakeQuery) OverlapBox(_, halfExtents model.Vec3, yaw float64) []*model.Entity {
	q.boxCalls++
	q.lastHalf = halfExtents
	q.lastYaw = yaw
	return q.box
}

func damageable(id model.ObjectID, pos model.Vec3) (*model.Entity, *target) {
	e := model.NewEntity(id, "dummy", model.KindEnemy, pos, 0.5)
	t := &target{}
	e.Data = t
	return e, t
}

func sphereSpec(radius, damage float64) *data.AbilitySpec {
	return &data.AbilitySpec{
		Name:       "strike",
		Cooldown:   time.Second,
		WindUp:     200 * time.Millisecond,
		Active:     300 * time.Millisecond,
		Recovery:   300 * time.Millisecond,
		TargetType: data.TargetDirection,
		Effects: []data.EffectSpec{{
			Name:     "hit",
			Kind:     data.EffectHitbox,
			Shape:    data.ShapeSphere,
			Radius:   radius,
			Damage:   damage,
			Lifetime: 100 * time.Millisecond,
		}},
	}
}
