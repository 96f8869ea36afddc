package effect

import (
	"log/slog"
	"time"

	"github.com/google/uuid"
)

// Registry owns every live effect instance in one world. The dispatcher
// registers, the resolver reads, and Advance removes expired instances.
//
// Single-writer: all calls happen on the tick goroutine, no locking.
type Registry struct {
	live []*Instance // spawn order
	byID map[uuid.UUID]*Instance
}

// NewRegistry creates an empty registry.
func NewRegistry() *Registry {
	return &Registry{
		byID: make(map[uuid.UUID]*Instance),
	}
}

// Register adds an instance. It returns false for nil instances, nil IDs and
// duplicates.
func (r *Registry) Register(inst *Instance) bool {
	if inst == nil || inst.ID == uuid.Nil {
		return false
	}
	if _, exists := r.byID[inst.ID]; exists {
		return false
	}
	r.live = append(r.live, inst)
	r.byID[inst.ID] = inst
	return true
}

// Get returns the registered instance with the given ID, or nil.
func (r *Registry) Get(id uuid.UUID) *Instance {
	return r.byID[id]
}

// Live returns a copy of all live instances in spawn order.
func (r *Registry) Live() []*Instance {
	out := make([]*Instance, len(r.live))
	copy(out, r.live)
	return out
}

// Unresolved returns live instances that have not been resolved yet, in spawn order.
func (r *Registry) Unresolved() []*Instance {
	var out []*Instance
	for _, inst := range r.live {
		if !inst.resolved {
			out = append(out, inst)
		}
	}
	return out
}

// Len returns the number of live instances.
func (r *Registry) Len() int {
	return len(r.live)
}

// Advance ages every instance by dt and removes the ones whose lifetime has
// elapsed. The slice is compacted in place; removed instances are returned.
func (r *Registry) Advance(dt time.Duration) []*Instance {
	var expired []*Instance
	kept := r.live[:0]
	for _, inst := range r.live {
		inst.Elapsed += dt
		if inst.Expired() {
			expired = append(expired, inst)
			delete(r.byID, inst.ID)
			continue
		}
		kept = append(kept, inst)
	}
	// Drop references held past the new length.
	for i := len(kept); i < len(r.live); i++ {
		r.live[i] = nil
	}
	r.live = kept

	for _, inst := range expired {
		if !inst.resolved {
			slog.Debug("effect expired unresolved",
				"effect", inst.Name,
				"id", inst.ID,
				"source", inst.SourceID)
		}
	}
	return expired
}

// Reset drops every instance (scene change).
func (r *Registry) Reset() {
	r.live = nil
	r.byID = make(map[uuid.UUID]*Instance)
}
