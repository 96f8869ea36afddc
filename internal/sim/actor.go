package sim

import (
	"github.com/udisondev/arena/internal/ai"
	"github.com/udisondev/arena/internal/game/ability"
	"github.com/udisondev/arena/internal/game/locomotion"
	"github.com/udisondev/arena/internal/model"
)

// InputSource produces one frame of player input per tick.
type InputSource interface {
	Next() locomotion.Input
}

// InputFactory builds the input source for a freshly spawned player.
type InputFactory func(executor *ability.Executor, enemies ai.EnemiesFunc) InputSource

// player is the controlled actor. Its executor and locomotion are rebuilt on
// every scene load; the entity and health persist.
type player struct {
	entity   *model.Entity
	health   *model.Health
	executor *ability.Executor
	loco     *locomotion.Controller
	input    InputSource
	dead     bool
}

// enemy pairs an AI controller with its entity.
type enemy struct {
	ai       *ai.EnemyAI
	template string
}
