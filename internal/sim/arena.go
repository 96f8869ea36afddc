package sim

import (
	"context"
	"fmt"
	"log/slog"
	"sync"
	"time"

	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/trace"

	"github.com/udisondev/arena/internal/ai"
	"github.com/udisondev/arena/internal/config"
	"github.com/udisondev/arena/internal/data"
	"github.com/udisondev/arena/internal/game/ability"
	"github.com/udisondev/arena/internal/game/effect"
	"github.com/udisondev/arena/internal/game/encounter"
	"github.com/udisondev/arena/internal/game/flow"
	"github.com/udisondev/arena/internal/game/locomotion"
	"github.com/udisondev/arena/internal/model"
	"github.com/udisondev/arena/internal/telemetry"
	"github.com/udisondev/arena/internal/world"
)

// EncounterResult is reported when a combat scene's encounter completes.
type EncounterResult struct {
	Scene   flow.Scene
	Loop    int
	Summary encounter.Summary
}

// Arena composes the world, the effect pipeline, the actors and the scene
// flow, and advances them one tick at a time.
//
// Tick order:
//
//	encounter clock → registry.Advance → player locomotion → enemy AI → executors (dispatch)
//	→ resolver pass → deaths/encounter → scene completion
//
// Every mutation happens inside Tick or Start under mu; Snapshot takes the same lock.
type Arena struct {
	mu sync.Mutex

	cfg    config.Arena
	tracer trace.Tracer

	world      *world.World
	ids        *world.ObjectIDGenerator
	registry   *effect.Registry
	dispatcher *effect.Dispatcher
	resolver   *effect.Resolver

	inputs  InputFactory
	player  *player
	enemies []*enemy
	deaths  []model.ObjectID

	encounter *encounter.Encounter
	events    *flow.Events
	flow      *flow.Controller
	scene     flow.Scene

	now       time.Duration
	sceneTime time.Duration
	ticks     uint64
	lastHits  []effect.Hit

	onEncounter func(EncounterResult)
}

// Option configures an Arena.
type Option func(*Arena)

// WithInput replaces the autopilot with another input source.
func WithInput(f InputFactory) Option {
	return func(a *Arena) { a.inputs = f }
}

// WithTracer sets the tracer for arena and resolver spans.
func WithTracer(t trace.Tracer) Option {
	return func(a *Arena) { a.tracer = t }
}

// OnEncounterComplete registers a callback for completed encounters. It runs
// on the tick goroutine and must not block.
func OnEncounterComplete(fn func(EncounterResult)) Option {
	return func(a *Arena) { a.onEncounter = fn }
}

// New builds an arena. Abilities are looked up in data.AbilityTable, which
// must be loaded first. Call Start to load the Home scene.
func New(cfg config.Arena, opts ...Option) (*Arena, error) {
	if err := cfg.Validate(); err != nil {
		return nil, fmt.Errorf("invalid arena config: %w", err)
	}

	a := &Arena{
		cfg:      cfg,
		tracer:   telemetry.Tracer("sim"),
		world:    world.New(cfg.CellSize),
		ids:      world.NewObjectIDGenerator(),
		registry: effect.NewRegistry(),
		events:   flow.NewEvents(),
		inputs: func(ex *ability.Executor, enemies ai.EnemiesFunc) InputSource {
			return ai.NewPlayerBot(ex, enemies, cfg.Player.Bot)
		},
	}
	for _, opt := range opts {
		opt(a)
	}

	a.dispatcher = effect.NewDispatcher(a.registry)
	a.resolver = effect.NewResolver(a.registry, a.world,
		effect.WithTracer(a.tracer),
		effect.WithTargetFilter(a.hostile))

	entity := model.NewEntity(a.ids.NextPlayerID(), cfg.Player.Name, model.KindPlayer, model.Zero, cfg.Player.Radius)
	health := model.NewHealth(cfg.Player.MaxHealth)
	entity.Data = health
	a.player = &player{entity: entity, health: health}
	health.OnDeath(func() {
		a.player.dead = true
		slog.Info("player died", "scene", a.scene, "loop", a.flow.Loops())
	})

	a.flow = flow.NewController(a.events, sceneLoader{a})
	return a, nil
}

// Start loads the Home scene.
func (a *Arena) Start() error {
	a.mu.Lock()
	defer a.mu.Unlock()
	return a.flow.Start()
}

// Tick advances the simulation by dt.
func (a *Arena) Tick(ctx context.Context, dt time.Duration) {
	a.mu.Lock()
	defer a.mu.Unlock()

	a.ticks++
	a.now += dt
	a.sceneTime += dt
	if a.encounter != nil {
		a.encounter.Advance(dt)
	}

	a.registry.Advance(dt)

	p := a.player
	if p.executor != nil && !p.dead {
		p.loco.Tick(dt, p.input.Next())
	}
	for _, e := range a.enemies {
		e.ai.Tick(dt)
	}

	if p.executor != nil {
		p.executor.Update(dt)
	}
	for _, e := range a.enemies {
		e.ai.Executor().Update(dt)
	}

	a.lastHits = a.resolver.ResolvePass(ctx)
	if a.encounter != nil {
		for _, h := range a.lastHits {
			a.encounter.RecordHit(h.SourceID, h.TargetID, h.Amount)
		}
	}

	a.processDeaths()
	a.checkScene()
}

// processDeaths removes enemies killed this tick and reports them to the
// encounter.
func (a *Arena) processDeaths() {
	if len(a.deaths) == 0 {
		return
	}
	for _, id := range a.deaths {
		a.world.RemoveEntity(id)
		a.enemies = removeEnemy(a.enemies, id)
		if a.encounter != nil {
			a.encounter.Defeated(id)
		}
		slog.Debug("enemy removed", "objectID", id, "scene", a.scene)
	}
	a.deaths = a.deaths[:0]
}

func removeEnemy(enemies []*enemy, id model.ObjectID) []*enemy {
	for i, e := range enemies {
		if e.ai.Entity().ID() == id {
			return append(enemies[:i], enemies[i+1:]...)
		}
	}
	return enemies
}

// checkScene emits scene completion events. Event handlers load the next
// scene synchronously.
func (a *Arena) checkScene() {
	if a.player.dead {
		if err := a.flow.ReturnHome(); err != nil {
			slog.Error("returning home", "error", err)
		}
		return
	}

	switch a.scene {
	case flow.SceneHome:
		if a.sceneTime >= a.cfg.HomeDuration {
			a.events.TriggerHomeComplete()
		}
	case flow.SceneAdventure, flow.SceneBoss:
		if a.encounter == nil {
			return
		}
		if a.encounter.IsComplete() || a.encounter.Summary().Enemies == 0 {
			a.events.TriggerComplete(a.scene)
		}
	}
}

// sceneLoader adapts the arena to flow.SceneLoader. The flow controller only
// calls it from Start or Tick, so the arena lock is already held.
type sceneLoader struct {
	a *Arena
}

func (l sceneLoader) LoadScene(s flow.Scene) error {
	return l.a.loadScene(s)
}

func (a *Arena) loadScene(s flow.Scene) error {
	_, span := a.tracer.Start(context.Background(), "arena.load_scene",
		trace.WithAttributes(attribute.String("scene", s.String())))
	defer span.End()

	roster, err := a.roster(s)
	if err != nil {
		span.RecordError(err)
		return err
	}

	a.registry.Reset()
	a.world.Reset()
	a.enemies = nil
	a.deaths = a.deaths[:0]
	a.sceneTime = 0
	a.scene = s

	if s == flow.SceneHome {
		a.player.health.Reset()
		a.player.dead = false
	}
	if err := a.spawnPlayer(); err != nil {
		return err
	}

	a.encounter = nil
	if s != flow.SceneHome {
		a.encounter = encounter.New(s.String())
		scene, loop := s, a.flow.Loops()
		a.encounter.OnComplete(func(sum encounter.Summary) {
			if a.onEncounter != nil {
				a.onEncounter(EncounterResult{Scene: scene, Loop: loop, Summary: sum})
			}
		})
	}

	for _, sp := range roster {
		if err := a.spawnEnemy(sp); err != nil {
			return err
		}
	}

	span.SetAttributes(attribute.Int("enemies", len(a.enemies)))
	slog.Info("scene loaded",
		"scene", s,
		"enemies", len(a.enemies),
		"loop", a.flow.Loops())
	return nil
}

func (a *Arena) roster(s flow.Scene) ([]config.SpawnConfig, error) {
	switch s {
	case flow.SceneHome:
		return nil, nil
	case flow.SceneAdventure:
		return a.cfg.Scenes.Adventure, nil
	case flow.SceneBoss:
		return a.cfg.Scenes.Boss, nil
	default:
		return nil, fmt.Errorf("unknown scene %d", s)
	}
}

func (a *Arena) spawnPlayer() error {
	p := a.player
	p.entity.SetPosition(model.Zero)
	p.entity.SetForward(model.Forward)
	if err := a.world.AddEntity(p.entity); err != nil {
		return fmt.Errorf("spawning player: %w", err)
	}

	specs := make([]*data.AbilitySpec, len(a.cfg.Player.Abilities))
	for i, name := range a.cfg.Player.Abilities {
		specs[i] = data.GetAbility(name)
		if specs[i] == nil {
			slog.Warn("player ability not found", "ability", name, "slot", i)
		}
	}

	p.executor = ability.NewExecutor(p.entity, a.dispatcher, specs...)
	p.loco = locomotion.NewController(p.executor, a.world, a.cfg.Player.Locomotion)
	p.input = a.inputs(p.executor, a.liveEnemies)
	return nil
}

func (a *Arena) spawnEnemy(sp config.SpawnConfig) error {
	tmpl, ok := a.cfg.Enemies[sp.Template]
	if !ok {
		return fmt.Errorf("spawn %q: unknown template %q", sp.Name, sp.Template)
	}

	radius := sp.Radius
	if radius <= 0 {
		radius = 0.5
	}
	id := a.ids.NextEnemyID()
	entity := model.NewEntity(id, sp.Name, model.KindEnemy, sp.Position, radius)
	health := model.NewHealth(tmpl.MaxHealth)
	entity.Data = health
	if err := a.world.AddEntity(entity); err != nil {
		return fmt.Errorf("spawning %s: %w", sp.Name, err)
	}

	spec := data.GetAbility(tmpl.Ability)
	if spec == nil {
		slog.Warn("enemy ability not found", "enemy", sp.Name, "ability", tmpl.Ability)
	}
	ex := ability.NewExecutor(entity, a.dispatcher, spec)
	ctrl := ai.NewEnemyAI(ex, health, a.world, a.playerTarget, tmpl)

	health.OnDeath(func() {
		a.deaths = append(a.deaths, id)
	})

	a.enemies = append(a.enemies, &enemy{ai: ctrl, template: sp.Template})
	if a.encounter != nil {
		a.encounter.Register(id)
	}
	return nil
}

// hostile reports whether an effect may damage candidate: enemies never hurt
// enemies, and the player never hurts itself. Effects whose source has left
// the world still land.
func (a *Arena) hostile(inst *effect.Instance, candidate *model.Entity) bool {
	source, ok := a.world.GetEntity(inst.SourceID)
	if !ok {
		return true
	}
	return source.Kind() != candidate.Kind()
}

func (a *Arena) playerTarget() (*model.Entity, bool) {
	if a.player.dead {
		return nil, false
	}
	return a.player.entity, true
}

func (a *Arena) liveEnemies() []*model.Entity {
	out := make([]*model.Entity, 0, len(a.enemies))
	for _, e := range a.enemies {
		if !e.ai.Health().IsDead() {
			out = append(out, e.ai.Entity())
		}
	}
	return out
}

// Scene returns the active scene.
func (a *Arena) Scene() flow.Scene {
	a.mu.Lock()
	defer a.mu.Unlock()
	return a.scene
}

// Loops returns the number of completed Home → Adventure → Boss cycles.
func (a *Arena) Loops() int {
	a.mu.Lock()
	defer a.mu.Unlock()
	return a.flow.Loops()
}

// Close detaches the flow controller from scene events.
func (a *Arena) Close() {
	a.mu.Lock()
	defer a.mu.Unlock()
	a.flow.Close()
}
