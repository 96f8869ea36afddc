package ai

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/udisondev/arena/internal/data"
	"github.com/udisondev/arena/internal/game/ability"
	"github.com/udisondev/arena/internal/model"
	"github.com/udisondev/arena/internal/world"
)

const step = 100 * time.Millisecond

type countingDispatcher struct {
	count int
}

func (d *countingDispatcher) Dispatch(*data.AbilitySpec, ability.Context) {
	d.count++
}

func strikeSpec() *data.AbilitySpec {
	return &data.AbilitySpec{
		Name:       "enemy_strike",
		Cooldown:   2 * time.Second,
		WindUp:     300 * time.Millisecond,
		Active:     100 * time.Millisecond,
		Recovery:   300 * time.Millisecond,
		TargetType: data.TargetDirection,
	}
}

type enemyFixture struct {
	w      *world.World
	player *model.Entity
	enemy  *EnemyAI
	disp   *countingDispatcher
}

func newEnemyFixture(t *testing.T, enemyPos model.Vec3) *enemyFixture {
	t.Helper()
	w := world.New(world.DefaultCellSize)

	player := model.NewEntity(0x10000001, "hero", model.KindPlayer, model.Zero, 0.5)
	player.Data = model.NewHealth(100)
	require.NoError(t, w.AddEntity(player))

	e := model.NewEntity(0x20000001, "grunt", model.KindEnemy, enemyPos, 0.5)
	hp := model.NewHealth(50)
	e.Data = hp
	require.NoError(t, w.AddEntity(e))

	disp := &countingDispatcher{}
	ex := ability.NewExecutor(e, disp, strikeSpec())
	target := func() (*model.Entity, bool) { return player, true }

	return &enemyFixture{
		w:      w,
		player: player,
		enemy:  NewEnemyAI(ex, hp, w, target, DefaultEnemyConfig()),
		disp:   disp,
	}
}

func (f *enemyFixture) tick() {
	f.enemy.Tick(step)
	f.enemy.Executor().Update(step)
}

func TestEnemyAI_IdleOutsideDetection(t *testing.T) {
	f := newEnemyFixture(t, model.NewVec3(20, 0, 0))

	f.tick()

	assert.Equal(t, model.IntentionIdle, f.enemy.Intention())
	assert.Equal(t, model.NewVec3(20, 0, 0), f.enemy.Entity().Position())
}

func TestEnemyAI_ChasesAndFaces(t *testing.T) {
	f := newEnemyFixture(t, model.NewVec3(6, 0, 0))

	f.tick()

	assert.Equal(t, model.IntentionChase, f.enemy.Intention())
	assert.InDelta(t, 5.8, f.enemy.Entity().Position().X, 1e-9)
	assert.InDelta(t, -1.0, f.enemy.Entity().Forward().X, 1e-9)
}

func TestEnemyAI_StopsAtAttackRange(t *testing.T) {
	f := newEnemyFixture(t, model.NewVec3(2.1, 0, 0))

	f.tick()

	assert.InDelta(t, 2.0, f.enemy.Entity().Position().X, 1e-9, "no overshoot")
}

func TestEnemyAI_AttacksThroughExecutor(t *testing.T) {
	f := newEnemyFixture(t, model.NewVec3(1.5, 0, 0))

	f.tick()
	assert.Equal(t, model.IntentionAttack, f.enemy.Intention())
	assert.Equal(t, ability.PhaseWindUp, f.enemy.Executor().Phase())

	for range 3 {
		f.tick()
	}
	assert.Equal(t, 1, f.disp.count, "strike dispatched after wind-up")

	// Cooldown of 2s blocks a second strike until it elapses.
	for range 15 {
		f.tick()
	}
	assert.Equal(t, 1, f.disp.count)
	for range 5 {
		f.tick()
	}
	assert.Equal(t, 2, f.disp.count)
}

func TestEnemyAI_DeadDoesNothing(t *testing.T) {
	f := newEnemyFixture(t, model.NewVec3(1.5, 0, 0))
	f.enemy.Health().TakeDamage(100, model.Zero)

	f.tick()

	assert.Equal(t, model.IntentionDead, f.enemy.Intention())
	assert.Equal(t, ability.PhaseIdle, f.enemy.Executor().Phase())
}

func TestEnemyAI_IgnoresDeadTarget(t *testing.T) {
	f := newEnemyFixture(t, model.NewVec3(1.5, 0, 0))
	f.player.Data.(*model.Health).TakeDamage(1000, model.Zero)

	f.tick()

	assert.Equal(t, model.IntentionIdle, f.enemy.Intention())
	assert.Zero(t, f.disp.count)
}

func TestEnemyAI_MissingAbilityNeverAttacks(t *testing.T) {
	f := newEnemyFixture(t, model.NewVec3(1.5, 0, 0))
	cfg := DefaultEnemyConfig()
	cfg.Ability = "nope"
	f.enemy = NewEnemyAI(f.enemy.Executor(), f.enemy.Health(), f.w, func() (*model.Entity, bool) { return f.player, true }, cfg)

	f.tick()

	assert.Equal(t, model.IntentionAttack, f.enemy.Intention())
	assert.Equal(t, ability.PhaseIdle, f.enemy.Executor().Phase())
}
