// Package flow owns scene progression: Home → Adventure → Boss → Home.
package flow

import (
	"fmt"
	"log/slog"
)

// SceneLoader replaces the active scene. Loading mechanics are opaque to the
// flow controller.
type SceneLoader interface {
	LoadScene(s Scene) error
}

// Controller is the single source of truth for scene progression. Scenes
// never pick their successor; they trigger completion events.
type Controller struct {
	events *Events
	loader SceneLoader

	current Scene
	loaded  bool
	loops   int

	unsubscribe []func()
}

// NewController subscribes to events and returns a controller with no scene
// loaded yet.
func NewController(events *Events, loader SceneLoader) *Controller {
	c := &Controller{events: events, loader: loader}
	c.unsubscribe = []func(){
		events.OnHomeComplete(func() { c.advance(SceneHome) }),
		events.OnAdventureComplete(func() { c.advance(SceneAdventure) }),
		events.OnBossComplete(func() { c.advance(SceneBoss) }),
	}
	return c
}

// Start loads Home unless it is already the active scene.
func (c *Controller) Start() error {
	if c.loaded && c.current == SceneHome {
		return nil
	}
	return c.load(SceneHome)
}

// advance moves past the completed scene. Completions of a scene that is not
// active are ignored.
func (c *Controller) advance(completed Scene) {
	if !c.loaded || c.current != completed {
		slog.Warn("stale scene completion ignored",
			"completed", completed,
			"current", c.current)
		return
	}

	next := completed.Next()
	slog.Info("scene complete", "scene", completed, "next", next)
	if completed == SceneBoss {
		c.loops++
	}
	if err := c.load(next); err != nil {
		slog.Error("scene load failed", "scene", next, "error", err)
	}
}

// ReturnHome abandons the current scene and loads Home without counting a
// completed loop. Used when the player dies.
func (c *Controller) ReturnHome() error {
	slog.Info("returning home", "from", c.current)
	return c.load(SceneHome)
}

func (c *Controller) load(s Scene) error {
	if err := c.loader.LoadScene(s); err != nil {
		return fmt.Errorf("loading scene %s: %w", s, err)
	}
	c.current = s
	c.loaded = true
	return nil
}

// Current returns the active scene and whether any scene is loaded.
func (c *Controller) Current() (Scene, bool) {
	return c.current, c.loaded
}

// Loops returns how many times the Boss → Home transition happened.
func (c *Controller) Loops() int {
	return c.loops
}

// Close unsubscribes from events.
func (c *Controller) Close() {
	for _, fn := range c.unsubscribe {
		fn()
	}
	c.unsubscribe = nil
}
