package ability

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/udisondev/arena/internal/data"
	"github.com/udisondev/arena/internal/model"
)

const tick = 100 * time.Millisecond

type recordingDispatcher struct {
	calls []dispatchCall
}

type dispatchCall struct {
	spec *data.AbilitySpec
	ctx  Context
}

func (d *recordingDispatcher) Dispatch(spec *data.AbilitySpec, ctx Context) {
	d.calls = append(d.calls, dispatchCall{spec: spec, ctx: ctx})
}

func testSpec() *data.AbilitySpec {
	return &data.AbilitySpec{
		Name:       "strike",
		Cooldown:   time.Second,
		WindUp:     200 * time.Millisecond,
		Active:     300 * time.Millisecond,
		Recovery:   300 * time.Millisecond,
		TargetType: data.TargetDirection,
		Effects: []data.EffectSpec{{
			Name: "hit", Kind: data.EffectHitbox, Shape: data.ShapeSphere,
			Radius: 2, Damage: 10, Lifetime: 100 * time.Millisecond,
		}},
	}
}

func makeExecutor(t *testing.T, specs ...*data.AbilitySpec) (*Executor, *recordingDispatcher) {
	t.Helper()
	caster := model.NewEntity(1, "caster", model.KindPlayer, model.Zero, 0.5)
	d := &recordingDispatcher{}
	return NewExecutor(caster, d, specs...), d
}

func TestTryActivate_StartsWindUpAndCooldown(t *testing.T) {
	spec := testSpec()
	ex, _ := makeExecutor(t, spec)

	require.True(t, ex.TryActivate(0, model.NewVec3(5, 0, 0), model.NewVec3(2, 0, 0)))

	assert.Equal(t, PhaseWindUp, ex.Phase())
	assert.Equal(t, spec.WindUp, ex.Timer())
	assert.Same(t, spec, ex.Current())

	slot, _ := ex.Slot(0)
	assert.Equal(t, spec.Cooldown, slot.CooldownRemaining)
	assert.True(t, slot.IsOnCooldown())

	ctx := ex.Context()
	assert.Equal(t, model.ObjectID(1), ctx.CasterID)
	assert.Equal(t, model.Right, ctx.Direction, "direction normalized")
	assert.Equal(t, model.NewVec3(5, 0, 0), ctx.TargetPosition)
}

func TestTryActivate_InvokesHook(t *testing.T) {
	spec := testSpec()
	var hooked model.ObjectID
	spec.OnActivate = func(caster model.ObjectID, _, _ model.Vec3) { hooked = caster }
	ex, _ := makeExecutor(t, spec)

	require.True(t, ex.TryActivate(0, model.Zero, model.Right))
	assert.Equal(t, model.ObjectID(1), hooked)
}

func TestTryActivate_ZeroDirectionUsesFacing(t *testing.T) {
	ex, _ := makeExecutor(t, testSpec())
	ex.Caster().SetForward(model.Right)

	require.True(t, ex.TryActivate(0, model.Zero, model.Zero))
	assert.Equal(t, model.Right, ex.Context().Direction)
}

func TestTryActivate_Rejections(t *testing.T) {
	tests := []struct {
		name  string
		index int
		specs []*data.AbilitySpec
	}{
		{"negative index", -1, []*data.AbilitySpec{testSpec()}},
		{"index out of range", 1, []*data.AbilitySpec{testSpec()}},
		{"empty slot", 0, []*data.AbilitySpec{nil}},
		{"no slots", 0, nil},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			ex, _ := makeExecutor(t, tt.specs...)
			assert.False(t, ex.TryActivate(tt.index, model.Zero, model.Right))
			assert.Equal(t, PhaseIdle, ex.Phase())
			assert.Nil(t, ex.Current())
		})
	}
}

func TestTryActivate_RejectedWhileBusyLeavesStateUnchanged(t *testing.T) {
	other := testSpec()
	other.Name = "other"
	ex, _ := makeExecutor(t, testSpec(), other)

	require.True(t, ex.TryActivate(0, model.Zero, model.Right))

	for _, want := range []Phase{PhaseWindUp, PhaseActive, PhaseRecovery} {
		for ex.Phase() != want {
			ex.Update(tick)
		}
		phase, timer := ex.Phase(), ex.Timer()
		slot0, _ := ex.Slot(0)
		slot1, _ := ex.Slot(1)

		assert.False(t, ex.TryActivate(1, model.Zero, model.Right), "phase %s", want)
		assert.False(t, ex.TryActivate(0, model.Zero, model.Right), "phase %s", want)

		assert.Equal(t, phase, ex.Phase())
		assert.Equal(t, timer, ex.Timer())
		after0, _ := ex.Slot(0)
		after1, _ := ex.Slot(1)
		assert.Equal(t, slot0, after0)
		assert.Equal(t, slot1, after1)
	}
}

func TestTryActivate_RejectedOnCooldown(t *testing.T) {
	spec := testSpec()
	spec.Cooldown = 5 * time.Second
	ex, _ := makeExecutor(t, spec)

	require.True(t, ex.TryActivate(0, model.Zero, model.Right))
	for range 10 {
		ex.Update(tick)
	}
	require.Equal(t, PhaseIdle, ex.Phase())

	before, _ := ex.Slot(0)
	assert.False(t, ex.TryActivate(0, model.Zero, model.Right))
	after, _ := ex.Slot(0)
	assert.Equal(t, before, after)
	assert.Equal(t, PhaseIdle, ex.Phase())
}

func TestUpdate_PhaseCycleAndTimeline(t *testing.T) {
	ex, d := makeExecutor(t, testSpec())
	require.True(t, ex.TryActivate(0, model.NewVec3(5, 0, 0), model.Right))

	// t = 0.1 .. 1.0 in 100ms steps
	want := []Phase{
		PhaseWindUp,   // 0.1
		PhaseActive,   // 0.2 dispatch
		PhaseActive,   // 0.3
		PhaseActive,   // 0.4
		PhaseRecovery, // 0.5
		PhaseRecovery, // 0.6
		PhaseRecovery, // 0.7
		PhaseIdle,     // 0.8
		PhaseIdle,     // 0.9
		PhaseIdle,     // 1.0
	}

	for i, phase := range want {
		ex.Update(tick)
		assert.Equal(t, phase, ex.Phase(), "step %d", i+1)
		if i == 1 {
			require.Len(t, d.calls, 1, "dispatch at the WindUp→Active edge")
		}
		if i == 8 {
			assert.False(t, ex.IsReady(0), "still cooling down at t=0.9")
			assert.False(t, ex.TryActivate(0, model.Zero, model.Right))
		}
	}

	assert.Len(t, d.calls, 1, "dispatched exactly once")
	assert.Nil(t, ex.Current())
	assert.Equal(t, Context{}, ex.Context())
	assert.True(t, ex.IsReady(0), "ready again at t=1.0")
	assert.True(t, ex.TryActivate(0, model.Zero, model.Right))
}

func TestUpdate_CooldownStartsAtActivation(t *testing.T) {
	spec := testSpec()
	spec.Cooldown = 2 * time.Second
	spec.WindUp, spec.Active, spec.Recovery = 300*time.Millisecond, 300*time.Millisecond, 400*time.Millisecond
	ex, _ := makeExecutor(t, spec)

	require.True(t, ex.TryActivate(0, model.Zero, model.Right))
	for range 19 {
		ex.Update(tick)
	}
	assert.False(t, ex.IsReady(0), "not ready at 1.9s")

	ex.Update(tick)
	assert.True(t, ex.IsReady(0), "ready exactly 2s after activation, not 3s")
}

func TestUpdate_LargeDeltaDoesNotSkipPhases(t *testing.T) {
	ex, d := makeExecutor(t, testSpec())
	require.True(t, ex.TryActivate(0, model.Zero, model.Right))

	seen := []Phase{ex.Phase()}
	for range 3 {
		ex.Update(10 * time.Second)
		seen = append(seen, ex.Phase())
	}

	assert.Equal(t, []Phase{PhaseWindUp, PhaseActive, PhaseRecovery, PhaseIdle}, seen)
	assert.Len(t, d.calls, 1)
}

func TestUpdate_InFlightInvariant(t *testing.T) {
	ex, _ := makeExecutor(t, testSpec())
	require.True(t, ex.TryActivate(0, model.Zero, model.Right))

	for range 20 {
		ex.Update(37 * time.Millisecond)
		assert.Equal(t, ex.Phase() != PhaseIdle, ex.Current() != nil)
	}
}

func TestUpdate_ZeroDurationAbility(t *testing.T) {
	spec := &data.AbilitySpec{Name: "instant"}
	ex, d := makeExecutor(t, spec)

	require.True(t, ex.TryActivate(0, model.Zero, model.Right))
	ex.Update(tick)
	assert.Equal(t, PhaseActive, ex.Phase())
	ex.Update(tick)
	assert.Equal(t, PhaseRecovery, ex.Phase())
	ex.Update(tick)
	assert.Equal(t, PhaseIdle, ex.Phase())

	require.Len(t, d.calls, 1)
	assert.Empty(t, d.calls[0].spec.Effects, "pure timing ability dispatches nothing")
}

func TestUpdate_ContextHeldUntilIdle(t *testing.T) {
	ex, d := makeExecutor(t, testSpec())
	ex.Update(tick) // advance clock before activation
	require.True(t, ex.TryActivate(0, model.NewVec3(1, 0, 0), model.Right))
	activated := ex.Context()
	assert.Equal(t, tick, activated.ActivatedAt)

	ex.Caster().SetPosition(model.NewVec3(9, 0, 9))
	ex.Update(tick)
	ex.Update(tick)

	require.Len(t, d.calls, 1)
	assert.Equal(t, activated, d.calls[0].ctx)
	assert.Equal(t, model.Zero, d.calls[0].ctx.Origin, "origin snapshotted at activation")
}

func TestCooldownFraction(t *testing.T) {
	spec := testSpec()
	free := &data.AbilitySpec{Name: "free"}
	ex, _ := makeExecutor(t, spec, free, nil)

	assert.Equal(t, 0.0, ex.CooldownFraction(0))
	assert.Equal(t, 0.0, ex.CooldownFraction(5))
	assert.Equal(t, 0.0, ex.CooldownFraction(2))

	require.True(t, ex.TryActivate(0, model.Zero, model.Right))
	assert.Equal(t, 1.0, ex.CooldownFraction(0))

	for range 4 {
		ex.Update(tick)
	}
	assert.InDelta(t, 0.6, ex.CooldownFraction(0), 1e-12)

	for range 10 {
		ex.Update(tick)
	}
	require.True(t, ex.TryActivate(1, model.Zero, model.Right))
	assert.Equal(t, 0.0, ex.CooldownFraction(1), "zero cooldown guarded")
}

func TestIndexOf(t *testing.T) {
	ex, _ := makeExecutor(t, nil, testSpec())
	assert.Equal(t, 1, ex.IndexOf("strike"))
	assert.Equal(t, -1, ex.IndexOf("missing"))
	assert.Equal(t, 2, ex.SlotCount())
}

func TestPhase_String(t *testing.T) {
	assert.Equal(t, "IDLE", PhaseIdle.String())
	assert.Equal(t, "WIND_UP", PhaseWindUp.String())
	assert.Equal(t, "ACTIVE", PhaseActive.String())
	assert.Equal(t, "RECOVERY", PhaseRecovery.String())
	assert.Equal(t, "UNKNOWN", Phase(42).String())
}
