package world

import (
	"sync/atomic"

	"github.com/udisondev/arena/internal/model"
)

// ObjectIDGenerator generates unique object IDs for all arena entities.
//
// ID ranges (convention):
//
//	0x00000000 - 0x0FFFFFFF: Reserved (0 = invalid)
//	0x10000000 - 0x1FFFFFFF: Players
//	0x20000000 - 0x2FFFFFFF: Enemies
//	0x30000000 - 0x3FFFFFFF: Props (scenery, destructibles)
type ObjectIDGenerator struct {
	nextPlayerID atomic.Uint32
	nextEnemyID  atomic.Uint32
	nextPropID   atomic.Uint32
}

// NewObjectIDGenerator creates a new ID generator.
func NewObjectIDGenerator() *ObjectIDGenerator {
	gen := &ObjectIDGenerator{}
	gen.nextPlayerID.Store(0x10000000)
	gen.nextEnemyID.Store(0x20000000)
	gen.nextPropID.Store(0x30000000)
	return gen
}

// NextPlayerID generates next unique player ID.
func (g *ObjectIDGenerator) NextPlayerID() model.ObjectID {
	return model.ObjectID(g.nextPlayerID.Add(1))
}

// NextEnemyID generates next unique enemy ID.
func (g *ObjectIDGenerator) NextEnemyID() model.ObjectID {
	return model.ObjectID(g.nextEnemyID.Add(1))
}

// NextPropID generates next unique prop ID.
func (g *ObjectIDGenerator) NextPropID() model.ObjectID {
	return model.ObjectID(g.nextPropID.Add(1))
}

// Next dispatches on entity kind.
func (g *ObjectIDGenerator) Next(kind model.EntityKind) model.ObjectID {
	switch kind {
	case model.KindPlayer:
		return g.NextPlayerID()
	case model.KindEnemy:
		return g.NextEnemyID()
	default:
		return g.NextPropID()
	}
}
