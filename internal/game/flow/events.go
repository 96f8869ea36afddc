package flow

import (
	"slices"
	"sync"
)

// Events carries scene completion signals. Scenes trigger them instead of
// deciding what comes next; the Controller listens and loads the next scene.
type Events struct {
	mu       sync.Mutex
	nextID   int
	handlers map[Scene]map[int]func()
}

// NewEvents creates an event bus with no subscribers.
func NewEvents() *Events {
	return &Events{handlers: make(map[Scene]map[int]func())}
}

// OnHomeComplete subscribes fn. The returned func unsubscribes.
func (ev *Events) OnHomeComplete(fn func()) (unsubscribe func()) {
	return ev.subscribe(SceneHome, fn)
}

// OnAdventureComplete subscribes fn. The returned func unsubscribes.
func (ev *Events) OnAdventureComplete(fn func()) (unsubscribe func()) {
	return ev.subscribe(SceneAdventure, fn)
}

// OnBossComplete subscribes fn. The returned func unsubscribes.
func (ev *Events) OnBossComplete(fn func()) (unsubscribe func()) {
	return ev.subscribe(SceneBoss, fn)
}

// TriggerHomeComplete notifies Home completion subscribers.
func (ev *Events) TriggerHomeComplete() { ev.trigger(SceneHome) }

// TriggerAdventureComplete notifies Adventure completion subscribers.
func (ev *Events) TriggerAdventureComplete() { ev.trigger(SceneAdventure) }

// TriggerBossComplete notifies Boss completion subscribers.
func (ev *Events) TriggerBossComplete() { ev.trigger(SceneBoss) }

// TriggerComplete notifies the subscribers of the given scene.
func (ev *Events) TriggerComplete(s Scene) { ev.trigger(s) }

func (ev *Events) subscribe(s Scene, fn func()) func() {
	ev.mu.Lock()
	defer ev.mu.Unlock()

	id := ev.nextID
	ev.nextID++
	if ev.handlers[s] == nil {
		ev.handlers[s] = make(map[int]func())
	}
	ev.handlers[s][id] = fn

	var once sync.Once
	return func() {
		once.Do(func() {
			ev.mu.Lock()
			delete(ev.handlers[s], id)
			ev.mu.Unlock()
		})
	}
}

// trigger calls handlers in subscription order, outside the lock so handlers
// may subscribe, unsubscribe or trigger further events.
func (ev *Events) trigger(s Scene) {
	ev.mu.Lock()
	ids := make([]int, 0, len(ev.handlers[s]))
	for id := range ev.handlers[s] {
		ids = append(ids, id)
	}
	fns := make(map[int]func(), len(ids))
	for _, id := range ids {
		fns[id] = ev.handlers[s][id]
	}
	ev.mu.Unlock()

	slices.Sort(ids)
	for _, id := range ids {
		fns[id]()
	}
}
