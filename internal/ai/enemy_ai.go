package ai

import (
	"log/slog"
	"time"

	"github.com/udisondev/arena/internal/game/ability"
	"github.com/udisondev/arena/internal/model"
)

// minFacingDistance is the horizontal offset below which an enemy keeps its
// current facing.
const minFacingDistance = 0.1

// EnemyConfig is per-enemy tuning.
type EnemyConfig struct {
	MaxHealth      float64 `yaml:"max_health"`
	DetectionRange float64 `yaml:"detection_range"`
	AttackRange    float64 `yaml:"attack_range"`
	MoveSpeed      float64 `yaml:"move_speed"`
	Ability        string  `yaml:"ability"`
}

// DefaultEnemyConfig returns the stock grunt tuning.
func DefaultEnemyConfig() EnemyConfig {
	return EnemyConfig{
		MaxHealth:      50,
		DetectionRange: 10,
		AttackRange:    2,
		MoveSpeed:      2,
		Ability:        "enemy_strike",
	}
}

// EnemyAI implements a melee enemy.
// State machine: IDLE → CHASE (target inside detection range) → ATTACK
// (target inside attack range) → DEAD. Attacks go through the enemy's own
// ability executor, so they are dispatched and resolved like player abilities.
type EnemyAI struct {
	entity   *model.Entity
	health   *model.Health
	executor *ability.Executor
	mover    Mover
	target   TargetFunc
	cfg      EnemyConfig
	slot     int

	intention model.Intention
}

// NewEnemyAI creates an enemy controller. The attack slot is looked up by
// cfg.Ability; a missing ability leaves the enemy unable to attack.
func NewEnemyAI(executor *ability.Executor, health *model.Health, mover Mover, target TargetFunc, cfg EnemyConfig) *EnemyAI {
	return &EnemyAI{
		entity:    executor.Caster(),
		health:    health,
		executor:  executor,
		mover:     mover,
		target:    target,
		cfg:       cfg,
		slot:      executor.IndexOf(cfg.Ability),
		intention: model.IntentionIdle,
	}
}

// Tick performs one AI step.
func (ai *EnemyAI) Tick(dt time.Duration) {
	if ai.health.IsDead() {
		ai.setIntention(model.IntentionDead)
		return
	}

	target, ok := ai.target()
	if !ok || target == nil || !isAlive(target) {
		ai.setIntention(model.IntentionIdle)
		return
	}

	offset := target.Position().Sub(ai.entity.Position()).Flat()
	distance := offset.Length()
	if distance > ai.cfg.DetectionRange {
		ai.setIntention(model.IntentionIdle)
		return
	}

	dir := offset.Normalized()
	if distance > minFacingDistance {
		ai.entity.SetForward(dir)
	}

	// An attack in flight runs to completion in place.
	if ai.executor.Phase() != ability.PhaseIdle {
		ai.setIntention(model.IntentionAttack)
		return
	}

	if distance > ai.cfg.AttackRange {
		ai.setIntention(model.IntentionChase)
		step := min(ai.cfg.MoveSpeed*dt.Seconds(), distance-ai.cfg.AttackRange)
		ai.mover.MoveEntity(ai.entity.ID(), dir.Scale(step))
		return
	}

	ai.setIntention(model.IntentionAttack)
	if ai.slot >= 0 && ai.executor.TryActivate(ai.slot, target.Position(), dir) {
		if IsDebugEnabled() {
			slog.Debug("enemy attacking",
				"enemy", ai.entity.Name(),
				"objectID", ai.entity.ID(),
				"target", target.ID(),
				"distance", distance)
		}
	}
}

func (ai *EnemyAI) setIntention(next model.Intention) {
	if ai.intention == next {
		return
	}
	if IsDebugEnabled() {
		slog.Debug("enemy intention changed",
			"enemy", ai.entity.Name(),
			"objectID", ai.entity.ID(),
			"from", ai.intention,
			"to", next)
	}
	ai.intention = next
}

// Intention returns the current AI intention.
func (ai *EnemyAI) Intention() model.Intention {
	return ai.intention
}

// Entity returns the controlled entity.
func (ai *EnemyAI) Entity() *model.Entity {
	return ai.entity
}

// Health returns the enemy's health.
func (ai *EnemyAI) Health() *model.Health {
	return ai.health
}

// Executor returns the enemy's ability executor.
func (ai *EnemyAI) Executor() *ability.Executor {
	return ai.executor
}
