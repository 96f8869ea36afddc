package ability

// Phase is the execution phase of an actor's ability state machine.
type Phase int8

const (
	PhaseIdle Phase = iota
	PhaseWindUp
	PhaseActive
	PhaseRecovery
)

// String returns human-readable phase name
func (p Phase) String() string {
	switch p {
	case PhaseIdle:
		return "IDLE"
	case PhaseWindUp:
		return "WIND_UP"
	case PhaseActive:
		return "ACTIVE"
	case PhaseRecovery:
		return "RECOVERY"
	default:
		return "UNKNOWN"
	}
}
