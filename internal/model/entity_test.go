package model

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestNewEntity(t *testing.T) {
	e := NewEntity(7, "Rat", KindEnemy, NewVec3(1, 0, 2), 0.5)

	assert.Equal(t, ObjectID(7), e.ID())
	assert.Equal(t, "Rat", e.Name())
	assert.Equal(t, KindEnemy, e.Kind())
	assert.Equal(t, NewVec3(1, 0, 2), e.Position())
	assert.Equal(t, Forward, e.Forward())
	assert.Equal(t, 0.5, e.Radius())
}

func TestEntity_SetForward(t *testing.T) {
	e := NewEntity(1, "p", KindPlayer, Zero, 0.5)

	e.SetForward(NewVec3(2, 5, 0))
	assert.Equal(t, Right, e.Forward(), "vertical component dropped and normalized")

	e.SetForward(Up)
	assert.Equal(t, Right, e.Forward(), "pure vertical direction ignored")
}

func TestEntityKind_String(t *testing.T) {
	assert.Equal(t, "player", KindPlayer.String())
	assert.Equal(t, "enemy", KindEnemy.String())
	assert.Equal(t, "prop", KindProp.String())
}
