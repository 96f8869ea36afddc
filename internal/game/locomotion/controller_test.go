package locomotion

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

type nopDispatcher struct{}

func (nopDispatcher) Dispatch(*data.AbilitySpec, ability.Context) {}

func attackSpec() *data.AbilitySpec {
	return &data.AbilitySpec{
		Name:       "attack",
		Cooldown:   500 * time.Millisecond,
		WindUp:     200 * time.Millisecond,
		Active:     300 * time.Millisecond,
		Recovery:   300 * time.Millisecond,
		TargetType: data.TargetDirection,
	}
}

type harness struct {
	ctrl *Controller
	ex   *ability.Executor
	hero *model.Entity
}

func newHarness(t *testing.T, cfg Config) *harness {
	t.Helper()
	w := world.New(world.DefaultCellSize)
	hero := model.NewEntity(1, "hero", model.KindPlayer, model.Zero, 0.5)
	require.NoError(t, w.AddEntity(hero))

	ex := ability.NewExecutor(hero, nopDispatcher{}, attackSpec())
	return &harness{ctrl: NewController(ex, w, cfg), ex: ex, hero: hero}
}

// frame runs locomotion then the executor, in arena order.
func (h *harness) frame(in Input) {
	h.ctrl.Tick(step, in)
	h.ex.Update(step)
}

func press(slot int) Input {
	return Input{Ability: slot}
}

func TestController_MovesWhenIdle(t *testing.T) {
	h := newHarness(t, DefaultConfig())

	h.frame(Input{Move: model.NewVec3(2, 0, 0), Ability: NoAbility})

	assert.InDelta(t, 0.5, h.hero.Position().X, 1e-9)
	assert.Equal(t, model.Right, h.ctrl.Facing())
	assert.Equal(t, model.Right, h.hero.Forward())
	assert.Equal(t, StateIdle, h.ctrl.State())
}

func TestController_SmallMoveInputIgnored(t *testing.T) {
	h := newHarness(t, DefaultConfig())

	h.frame(Input{Move: model.NewVec3(0.05, 0, 0), Ability: NoAbility})

	assert.Equal(t, model.Zero, h.hero.Position())
	assert.Equal(t, model.Forward, h.ctrl.Facing())
}

func TestController_NoMovementWhileActing(t *testing.T) {
	h := newHarness(t, DefaultConfig())

	h.frame(press(0))
	require.Equal(t, StateActing, h.ctrl.State())

	h.frame(Input{Move: model.Right, Ability: NoAbility})
	assert.Equal(t, model.Zero, h.hero.Position())
	assert.Equal(t, model.Forward, h.ctrl.Facing())
}

func TestController_AbilityAimsAhead(t *testing.T) {
	h := newHarness(t, DefaultConfig())

	h.ctrl.Tick(step, press(0))
	assert.Equal(t, model.NewVec3(0, 0, 5), h.ex.Context().TargetPosition)

	h = newHarness(t, DefaultConfig())
	target := model.NewVec3(3, 0, 3)
	h.ctrl.Tick(step, Input{Ability: 0, Target: &target})
	assert.Equal(t, target, h.ex.Context().TargetPosition)
}

func TestController_Dodge(t *testing.T) {
	h := newHarness(t, DefaultConfig())

	h.frame(Input{Move: model.Right, Dodge: true, Ability: NoAbility})
	assert.Equal(t, StateDodging, h.ctrl.State())
	assert.False(t, h.ctrl.IsDodgeReady())

	h.frame(press(0))
	assert.Equal(t, ability.PhaseIdle, h.ex.Phase(), "dodge blocks abilities")
	_, buffered := h.ctrl.Buffered()
	assert.False(t, buffered, "dodge presses are not buffered")

	h.frame(Idle())
	assert.Equal(t, StateIdle, h.ctrl.State())
	assert.InDelta(t, 3.0, h.hero.Position().X, 1e-9, "dodge covers its distance")
	assert.InDelta(t, 0.7, h.ctrl.DodgeCooldownFraction(), 1e-9)
}

func TestController_DodgeUsesFacingWithoutMoveInput(t *testing.T) {
	h := newHarness(t, DefaultConfig())

	for range 3 {
		h.frame(Input{Dodge: true, Ability: NoAbility})
	}
	assert.InDelta(t, 3.0, h.hero.Position().Z, 1e-9)
}

func TestController_DodgeCooldown(t *testing.T) {
	h := newHarness(t, DefaultConfig())

	h.frame(Input{Dodge: true, Ability: NoAbility})
	for range 8 {
		h.frame(Input{Dodge: true, Ability: NoAbility})
		assert.False(t, h.ctrl.IsDodgeReady())
	}
	h.frame(Idle())

	// 1s elapsed since the dodge.
	assert.True(t, h.ctrl.IsDodgeReady())
	assert.Zero(t, h.ctrl.DodgeCooldownFraction())

	h.frame(Input{Dodge: true, Ability: NoAbility})
	assert.Equal(t, StateDodging, h.ctrl.State())
}

func TestController_NoDodgeWhileActing(t *testing.T) {
	h := newHarness(t, DefaultConfig())

	h.frame(press(0))
	h.frame(Input{Dodge: true, Ability: NoAbility})

	assert.Equal(t, StateActing, h.ctrl.State())
	assert.True(t, h.ctrl.IsDodgeReady())
}

func TestController_InputBuffering(t *testing.T) {
	tests := []struct {
		name      string
		window    time.Duration
		pressAt   int // frame index of the second press
		wantFires bool
		wantBuf   bool
	}{
		{"recovery press within window fires", 300 * time.Millisecond, 6, true, true},
		{"recovery press past window dropped", 200 * time.Millisecond, 6, false, true},
		{"windup press dropped", 300 * time.Millisecond, 2, false, false},
		{"active press dropped", 300 * time.Millisecond, 4, false, false},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			cfg := DefaultConfig()
			cfg.BufferWindow = tt.window
			h := newHarness(t, cfg)

			// Frame 1 activates; Recovery spans frames 6-8; Idle from frame 8 on.
			activations := 0
			for f := 1; f <= 10; f++ {
				in := Idle()
				if f == 1 || f == tt.pressAt {
					in = press(0)
				}
				before := h.ex.Phase()
				h.ctrl.Tick(step, in)
				if before == ability.PhaseIdle && h.ex.Phase() == ability.PhaseWindUp {
					activations++
				}
				if f == tt.pressAt {
					_, buffered := h.ctrl.Buffered()
					assert.Equal(t, tt.wantBuf, buffered)
				}
				h.ex.Update(step)
			}

			want := 1
			if tt.wantFires {
				want = 2
			}
			assert.Equal(t, want, activations)
			_, buffered := h.ctrl.Buffered()
			assert.False(t, buffered, "buffer cleared")
		})
	}
}

func TestState_String(t *testing.T) {
	assert.Equal(t, "IDLE", StateIdle.String())
	assert.Equal(t, "DODGING", StateDodging.String())
	assert.Equal(t, "ACTING", StateActing.String())
	assert.Equal(t, "UNKNOWN", State(9).String())
}
