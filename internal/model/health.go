package model

import "sync"

// Health is the damage receiver attached to players and enemies via Entity.Data.
// It implements the Damageable contract used by effect resolution.
//
// Thread-safe: all methods are protected by mu.
type Health struct {
	mu      sync.Mutex
	max     float64
	current float64
	lastHit Vec3

	deathOnce sync.Once
	onDeath   []func()
}

// NewHealth creates a Health at full HP.
func NewHealth(maxHP float64) *Health {
	return &Health{max: maxHP, current: maxHP}
}

// TakeDamage reduces HP by amount (minimum 0). Damage to a dead receiver is
// ignored. Death callbacks run once, after the lock is released.
func (h *Health) TakeDamage(amount float64, hitPoint Vec3) {
	if amount < 0 {
		return
	}

	h.mu.Lock()
	if h.current <= 0 {
		h.mu.Unlock()
		return
	}
	h.current = max(h.current-amount, 0)
	h.lastHit = hitPoint
	dead := h.current <= 0
	h.mu.Unlock()

	if dead {
		h.die()
	}
}

// Heal restores HP up to max. Dead receivers cannot be healed; use Reset.
func (h *Health) Heal(amount float64) {
	h.mu.Lock()
	defer h.mu.Unlock()

	if h.current <= 0 || amount <= 0 {
		return
	}
	h.current = min(h.current+amount, h.max)
}

// OnDeath registers a callback fired exactly once when HP reaches 0.
func (h *Health) OnDeath(fn func()) {
	h.mu.Lock()
	defer h.mu.Unlock()
	h.onDeath = append(h.onDeath, fn)
}

func (h *Health) die() {
	h.deathOnce.Do(func() {
		h.mu.Lock()
		callbacks := make([]func(), len(h.onDeath))
		copy(callbacks, h.onDeath)
		h.mu.Unlock()

		for _, fn := range callbacks {
			fn()
		}
	})
}

// Current returns current HP.
func (h *Health) Current() float64 {
	h.mu.Lock()
	defer h.mu.Unlock()
	return h.current
}

// Max returns max HP.
func (h *Health) Max() float64 {
	h.mu.Lock()
	defer h.mu.Unlock()
	return h.max
}

// LastHitPoint returns where the most recent damage landed.
func (h *Health) LastHitPoint() Vec3 {
	h.mu.Lock()
	defer h.mu.Unlock()
	return h.lastHit
}

// IsDead reports whether HP is 0.
func (h *Health) IsDead() bool {
	h.mu.Lock()
	defer h.mu.Unlock()
	return h.current <= 0
}

// Percent returns current/max in [0, 1].
func (h *Health) Percent() float64 {
	h.mu.Lock()
	defer h.mu.Unlock()
	if h.max <= 0 {
		return 0
	}
	return h.current / h.max
}

// Reset restores full HP and re-arms death callbacks (respawn).
func (h *Health) Reset() {
	h.mu.Lock()
	defer h.mu.Unlock()
	h.current = h.max
	h.deathOnce = sync.Once{}
}
