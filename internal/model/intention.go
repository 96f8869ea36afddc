package model

// Intention represents AI state for enemies.
type Intention int32

const (
	// IntentionIdle - enemy has no target in detection range
	IntentionIdle Intention = iota
	// IntentionChase - enemy is moving toward its target
	IntentionChase
	// IntentionAttack - enemy is within attack range and swinging
	IntentionAttack
	// IntentionDead - enemy has died and no longer acts
	IntentionDead
)

// String returns human-readable intention name
func (i Intention) String() string {
	switch i {
	case IntentionIdle:
		return "IDLE"
	case IntentionChase:
		return "CHASE"
	case IntentionAttack:
		return "ATTACK"
	case IntentionDead:
		return "DEAD"
	default:
		return "UNKNOWN"
	}
}
