// Package encounter tracks a group of enemies and signals when all of them
// are defeated.
package encounter

import (
	"log/slog"
	"time"

	"github.com/udisondev/arena/internal/model"
)

// Summary is the outcome of a completed encounter.
type Summary struct {
	Name     string
	Enemies  int
	Hits     int
	Damage   float64 // dealt to registered enemies
	Taken    float64 // dealt by registered enemies
	Duration time.Duration
}

// Encounter completes exactly once, when the last registered enemy is
// defeated. An encounter with no registered enemies never completes.
//
// Not thread-safe: owned by the tick goroutine.
type Encounter struct {
	name       string
	active     map[model.ObjectID]struct{}
	registered map[model.ObjectID]struct{}
	completed  bool
	onComplete []func(Summary)

	hits     int
	damage   float64
	taken    float64
	duration time.Duration
}

// New creates an empty encounter.
func New(name string) *Encounter {
	return &Encounter{
		name:       name,
		active:     make(map[model.ObjectID]struct{}),
		registered: make(map[model.ObjectID]struct{}),
	}
}

// Register adds an enemy. Ignored once the encounter is complete.
func (e *Encounter) Register(id model.ObjectID) {
	if e.completed {
		return
	}
	e.active[id] = struct{}{}
	e.registered[id] = struct{}{}
}

// Defeated removes an enemy and completes the encounter when none remain.
// Unknown or repeated IDs are ignored.
func (e *Encounter) Defeated(id model.ObjectID) {
	if e.completed {
		return
	}
	if _, ok := e.active[id]; !ok {
		return
	}
	delete(e.active, id)

	if len(e.registered) > 0 && len(e.active) == 0 {
		e.complete()
	}
}

func (e *Encounter) complete() {
	e.completed = true
	summary := e.Summary()

	slog.Info("encounter complete",
		"encounter", e.name,
		"enemies", summary.Enemies,
		"hits", summary.Hits,
		"damage", summary.Damage,
		"duration", summary.Duration)

	for _, fn := range e.onComplete {
		fn(summary)
	}
}

// OnComplete registers a completion callback.
func (e *Encounter) OnComplete(fn func(Summary)) {
	e.onComplete = append(e.onComplete, fn)
}

// Advance accumulates encounter time until completion.
func (e *Encounter) Advance(dt time.Duration) {
	if !e.completed {
		e.duration += dt
	}
}

// RecordHit updates damage statistics. Hits that involve no registered enemy
// are ignored.
func (e *Encounter) RecordHit(source, target model.ObjectID, amount float64) {
	if _, ok := e.registered[target]; ok {
		e.hits++
		e.damage += amount
		return
	}
	if _, ok := e.registered[source]; ok {
		e.taken += amount
	}
}

// Remaining returns the number of enemies still alive.
func (e *Encounter) Remaining() int {
	return len(e.active)
}

// IsComplete reports whether every registered enemy was defeated.
func (e *Encounter) IsComplete() bool {
	return e.completed
}

// Name returns the encounter name.
func (e *Encounter) Name() string {
	return e.name
}

// Summary returns the statistics gathered so far.
func (e *Encounter) Summary() Summary {
	return Summary{
		Name:     e.name,
		Enemies:  len(e.registered),
		Hits:     e.hits,
		Damage:   e.damage,
		Taken:    e.taken,
		Duration: e.duration,
	}
}
