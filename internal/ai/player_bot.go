package ai

import (
	"cmp"
	"slices"

	"github.com/udisondev/arena/internal/game/ability"
	"github.com/udisondev/arena/internal/game/locomotion"
	"github.com/udisondev/arena/internal/model"
)

// BotConfig tunes the headless player.
type BotConfig struct {
	EngageRange float64  `yaml:"engage_range"`
	Rotation    []string `yaml:"rotation"` // ability names, highest priority first
}

// DefaultBotConfig returns the stock autopilot tuning.
func DefaultBotConfig() BotConfig {
	return BotConfig{
		EngageRange: 2,
		Rotation:    []string{"ground_slam", "heavy_attack", "light_attack"},
	}
}

// PlayerBot produces player input without a human: it walks to the nearest
// live enemy and presses the first ready ability of its rotation.
type PlayerBot struct {
	self     *model.Entity
	executor *ability.Executor
	enemies  EnemiesFunc
	cfg      BotConfig
	rotation []int
}

// NewPlayerBot creates an autopilot over the player's executor.
// Rotation entries that the executor does not hold are ignored.
func NewPlayerBot(executor *ability.Executor, enemies EnemiesFunc, cfg BotConfig) *PlayerBot {
	var rotation []int
	for _, name := range cfg.Rotation {
		if i := executor.IndexOf(name); i >= 0 {
			rotation = append(rotation, i)
		}
	}
	return &PlayerBot{
		self:     executor.Caster(),
		executor: executor,
		enemies:  enemies,
		cfg:      cfg,
		rotation: rotation,
	}
}

// Next returns this frame's input.
func (b *PlayerBot) Next() locomotion.Input {
	in := locomotion.Idle()

	target, ok := b.nearest()
	if !ok {
		return in
	}

	offset := target.Position().Sub(b.self.Position()).Flat()
	in.Move = offset.Normalized()
	if offset.Length() > b.cfg.EngageRange {
		return in
	}

	// In range: stand still unless pressing an ability, where the move
	// input only turns the actor toward the target.
	dir := in.Move
	in.Move = model.Zero
	if b.executor.Phase() != ability.PhaseIdle {
		return in
	}

	for _, slot := range b.rotation {
		if b.executor.IsReady(slot) {
			pos := target.Position()
			in.Move = dir
			in.Ability = slot
			in.Target = &pos
			break
		}
	}
	return in
}

// nearest returns the closest live enemy, ties broken by ID.
func (b *PlayerBot) nearest() (*model.Entity, bool) {
	var live []*model.Entity
	for _, e := range b.enemies() {
		if isAlive(e) {
			live = append(live, e)
		}
	}
	if len(live) == 0 {
		return nil, false
	}

	origin := b.self.Position()
	best := slices.MinFunc(live, func(a, c *model.Entity) int {
		if d := cmp.Compare(a.Position().DistanceSquared(origin), c.Position().DistanceSquared(origin)); d != 0 {
			return d
		}
		return cmp.Compare(a.ID(), c.ID())
	})
	return best, true
}
