package sim

import (
	"github.com/udisondev/arena/internal/game/ability"
	"github.com/udisondev/arena/internal/model"
)

// Snapshot is a read-only view of the arena for spectators.
type Snapshot struct {
	Tick      uint64             `json:"tick"`
	TimeMS    int64              `json:"time_ms"`
	Scene     string             `json:"scene"`
	Loops     int                `json:"loops"`
	Entities  []EntitySnapshot   `json:"entities"`
	Effects   []EffectSnapshot   `json:"effects"`
	Hits      []HitSnapshot      `json:"hits,omitempty"`
	Encounter *EncounterSnapshot `json:"encounter,omitempty"`
}

// EntitySnapshot describes one actor.
type EntitySnapshot struct {
	ID        model.ObjectID `json:"id"`
	Name      string         `json:"name"`
	Kind      string         `json:"kind"`
	Position  model.Vec3     `json:"position"`
	Forward   model.Vec3     `json:"forward"`
	Health    float64        `json:"health"`
	MaxHealth float64        `json:"max_health"`
	Phase     string         `json:"phase,omitempty"`
	Ability   string         `json:"ability,omitempty"`
	State     string         `json:"state,omitempty"`
}

// EffectSnapshot describes one live effect instance.
type EffectSnapshot struct {
	ID          string         `json:"id"`
	Name        string         `json:"name"`
	Shape       string         `json:"shape"`
	Position    model.Vec3     `json:"position"`
	Radius      float64        `json:"radius"`
	Size        model.Vec3     `json:"size"`
	Yaw         float64        `json:"yaw"`
	Source      model.ObjectID `json:"source"`
	Resolved    bool           `json:"resolved"`
	RemainingMS int64          `json:"remaining_ms"`
}

// HitSnapshot is one damage application from the last tick.
type HitSnapshot struct {
	Effect string         `json:"effect"`
	Source model.ObjectID `json:"source"`
	Target model.ObjectID `json:"target"`
	Amount float64        `json:"amount"`
}

// EncounterSnapshot is the active encounter's progress.
type EncounterSnapshot struct {
	Name      string `json:"name"`
	Remaining int    `json:"remaining"`
	Complete  bool   `json:"complete"`
}

// Snapshot captures the current state.
func (a *Arena) Snapshot() Snapshot {
	a.mu.Lock()
	defer a.mu.Unlock()

	snap := Snapshot{
		Tick:   a.ticks,
		TimeMS: a.now.Milliseconds(),
		Scene:  a.scene.String(),
		Loops:  a.flow.Loops(),
	}

	executors := make(map[model.ObjectID]*ability.Executor, len(a.enemies)+1)
	if a.player.executor != nil {
		executors[a.player.entity.ID()] = a.player.executor
	}
	for _, e := range a.enemies {
		executors[e.ai.Entity().ID()] = e.ai.Executor()
	}

	a.world.ForEach(func(e *model.Entity) bool {
		es := EntitySnapshot{
			ID:       e.ID(),
			Name:     e.Name(),
			Kind:     e.Kind().String(),
			Position: e.Position(),
			Forward:  e.Forward(),
		}
		if h, ok := e.Data.(*model.Health); ok {
			es.Health = h.Current()
			es.MaxHealth = h.Max()
		}
		if ex, ok := executors[e.ID()]; ok {
			es.Phase = ex.Phase().String()
			if cur := ex.Current(); cur != nil {
				es.Ability = cur.Name
			}
		}
		if e.ID() == a.player.entity.ID() && a.player.loco != nil {
			es.State = a.player.loco.State().String()
		}
		snap.Entities = append(snap.Entities, es)
		return true
	})

	for _, inst := range a.registry.Live() {
		snap.Effects = append(snap.Effects, EffectSnapshot{
			ID:          inst.ID.String(),
			Name:        inst.Name,
			Shape:       inst.Shape.String(),
			Position:    inst.Position,
			Radius:      inst.Radius,
			Size:        inst.Size,
			Yaw:         inst.Yaw,
			Source:      inst.SourceID,
			Resolved:    inst.Resolved(),
			RemainingMS: inst.Remaining().Milliseconds(),
		})
	}

	for _, h := range a.lastHits {
		snap.Hits = append(snap.Hits, HitSnapshot{
			Effect: h.EffectName,
			Source: h.SourceID,
			Target: h.TargetID,
			Amount: h.Amount,
		})
	}

	if a.encounter != nil {
		snap.Encounter = &EncounterSnapshot{
			Name:      a.encounter.Name(),
			Remaining: a.encounter.Remaining(),
			Complete:  a.encounter.IsComplete(),
		}
	}
	return snap
}
