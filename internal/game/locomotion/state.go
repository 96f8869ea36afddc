package locomotion

// State is the locomotion state, orthogonal to the ability phase.
type State uint8

const (
	StateIdle State = iota
	StateDodging
	StateActing // executor phase is not Idle
)

// String returns the state name.
func (s State) String() string {
	switch s {
	case StateIdle:
		return "IDLE"
	case StateDodging:
		return "DODGING"
	case StateActing:
		return "ACTING"
	default:
		return "UNKNOWN"
	}
}
