package locomotion

import "time"

// Config holds movement, dodge and input-buffer tuning.
type Config struct {
	MoveSpeed             float64       `yaml:"move_speed"`
	DodgeDistance         float64       `yaml:"dodge_distance"`
	DodgeDuration         time.Duration `yaml:"dodge_duration"`
	DodgeCooldown         time.Duration `yaml:"dodge_cooldown"`
	BufferWindow          time.Duration `yaml:"buffer_window"`
	DefaultTargetDistance float64       `yaml:"default_target_distance"`
}

// DefaultConfig returns the stock player tuning.
func DefaultConfig() Config {
	return Config{
		MoveSpeed:             5,
		DodgeDistance:         3,
		DodgeDuration:         300 * time.Millisecond,
		DodgeCooldown:         time.Second,
		BufferWindow:          300 * time.Millisecond,
		DefaultTargetDistance: 5,
	}
}
