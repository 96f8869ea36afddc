package model

import "sync"

// ObjectID identifies an entity in the arena. 0 is invalid.
type ObjectID uint32

// EntityKind classifies an entity for spawning and snapshots.
type EntityKind uint8

const (
	KindProp EntityKind = iota
	KindPlayer
	KindEnemy
)

// String returns the kind name used in logs and snapshots.
func (k EntityKind) String() string {
	switch k {
	case KindPlayer:
		return "player"
	case KindEnemy:
		return "enemy"
	default:
		return "prop"
	}
}

// Entity is anything placed in the arena: players, enemies, scenery.
// Every entity has an ID, a position, a facing and a collision radius.
// Data holds the capability object (for example *Health) that combat code
// discovers via type assertion.
type Entity struct {
	id     ObjectID
	name   string
	kind   EntityKind
	radius float64

	mu       sync.RWMutex
	position Vec3
	forward  Vec3

	Data any
}

// NewEntity creates a new entity facing +Z.
func NewEntity(id ObjectID, name string, kind EntityKind, pos Vec3, radius float64) *Entity {
	return &Entity{
		id:       id,
		name:     name,
		kind:     kind,
		radius:   radius,
		position: pos,
		forward:  Forward,
	}
}

// ID returns the entity identity (immutable after creation).
func (e *Entity) ID() ObjectID {
	return e.id
}

// Name returns the entity name.
func (e *Entity) Name() string {
	return e.name
}

// Kind returns the entity kind.
func (e *Entity) Kind() EntityKind {
	return e.kind
}

// Radius returns the collision radius used by overlap queries.
func (e *Entity) Radius() float64 {
	return e.radius
}

// Position returns a copy of the entity position.
func (e *Entity) Position() Vec3 {
	e.mu.RLock()
	defer e.mu.RUnlock()
	return e.position
}

// SetPosition moves the entity. World.MoveEntity should be preferred so the
// spatial grid stays in sync.
func (e *Entity) SetPosition(pos Vec3) {
	e.mu.Lock()
	defer e.mu.Unlock()
	e.position = pos
}

// Forward returns the unit facing direction.
func (e *Entity) Forward() Vec3 {
	e.mu.RLock()
	defer e.mu.RUnlock()
	return e.forward
}

// SetForward sets the facing direction. Near-zero directions are ignored.
func (e *Entity) SetForward(dir Vec3) {
	n := dir.Flat().Normalized()
	if n.IsZero() {
		return
	}
	e.mu.Lock()
	defer e.mu.Unlock()
	e.forward = n
}
