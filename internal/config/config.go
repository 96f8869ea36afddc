package config

import (
	"errors"
	"fmt"
	"os"
	"time"

	"gopkg.in/yaml.v3"

	"github.com/udisondev/arena/internal/ai"
	"github.com/udisondev/arena/internal/game/locomotion"
	"github.com/udisondev/arena/internal/model"
	"github.com/udisondev/arena/internal/telemetry"
)

// Arena holds all configuration for the arena server.
type Arena struct {
	LogLevel string `yaml:"log_level"` // debug, info, warn, error

	// Simulation
	TickRate      int           `yaml:"tick_rate"` // ticks per second
	CellSize      float64       `yaml:"cell_size"`
	AbilitiesPath string        `yaml:"abilities_path"` // optional catalog overrides
	HomeDuration  time.Duration `yaml:"home_duration"`  // idle time before leaving Home

	Player  PlayerConfig              `yaml:"player"`
	Enemies map[string]ai.EnemyConfig `yaml:"enemies"` // template name → tuning
	Scenes  ScenesConfig              `yaml:"scenes"`

	Spectator SpectatorConfig  `yaml:"spectator"`
	Database  DatabaseConfig   `yaml:"database"`
	Telemetry telemetry.Config `yaml:"telemetry"`
}

// PlayerConfig holds player tuning.
type PlayerConfig struct {
	Name       string            `yaml:"name"`
	MaxHealth  float64           `yaml:"max_health"`
	Radius     float64           `yaml:"radius"`
	Abilities  []string          `yaml:"abilities"` // slot order
	Locomotion locomotion.Config `yaml:"locomotion"`
	Bot        ai.BotConfig      `yaml:"bot"`
}

// ScenesConfig lists enemy rosters per combat scene.
type ScenesConfig struct {
	Adventure []SpawnConfig `yaml:"adventure"`
	Boss      []SpawnConfig `yaml:"boss"`
}

// SpawnConfig places one enemy.
type SpawnConfig struct {
	Name     string     `yaml:"name"`
	Template string     `yaml:"template"`
	Position model.Vec3 `yaml:"position"`
	Radius   float64    `yaml:"radius"`
}

// SpectatorConfig controls the read-only websocket stream.
type SpectatorConfig struct {
	Enabled       bool          `yaml:"enabled"`
	ListenAddress string        `yaml:"listen_address"`
	Interval      time.Duration `yaml:"interval"`
}

// DatabaseConfig holds PostgreSQL connection parameters.
type DatabaseConfig struct {
	Enabled  bool   `yaml:"enabled"`
	Host     string `yaml:"host"`
	Port     int    `yaml:"port"`
	User     string `yaml:"user"`
	Password string `yaml:"password"`
	DBName   string `yaml:"dbname"`
	SSLMode  string `yaml:"sslmode"`
}

// DSN returns the PostgreSQL connection string.
func (d DatabaseConfig) DSN() string {
	return fmt.Sprintf(
		"postgres://%s:%s@%s:%d/%s?sslmode=%s",
		d.User, d.Password, d.Host, d.Port, d.DBName, d.SSLMode,
	)
}

// TickInterval returns the duration of one simulation tick.
func (a Arena) TickInterval() time.Duration {
	return time.Second / time.Duration(a.TickRate)
}

// DefaultArena returns Arena config with sensible defaults.
func DefaultArena() Arena {
	grunt := ai.DefaultEnemyConfig()
	boss := ai.EnemyConfig{
		MaxHealth:      200,
		DetectionRange: 15,
		AttackRange:    3.5,
		MoveSpeed:      1.5,
		Ability:        "boss_quake",
	}

	return Arena{
		LogLevel:     "info",
		TickRate:     30,
		CellSize:     4,
		HomeDuration: 3 * time.Second,
		Player: PlayerConfig{
			Name:       "hero",
			MaxHealth:  100,
			Radius:     0.5,
			Abilities:  []string{"light_attack", "heavy_attack", "ground_slam"},
			Locomotion: locomotion.DefaultConfig(),
			Bot:        ai.DefaultBotConfig(),
		},
		Enemies: map[string]ai.EnemyConfig{
			"grunt": grunt,
			"boss":  boss,
		},
		Scenes: ScenesConfig{
			Adventure: []SpawnConfig{
				{Name: "grunt-1", Template: "grunt", Position: model.NewVec3(6, 0, 4), Radius: 0.5},
				{Name: "grunt-2", Template: "grunt", Position: model.NewVec3(-5, 0, 6), Radius: 0.5},
				{Name: "grunt-3", Template: "grunt", Position: model.NewVec3(0, 0, -7), Radius: 0.5},
			},
			Boss: []SpawnConfig{
				{Name: "warden", Template: "boss", Position: model.NewVec3(0, 0, 8), Radius: 1},
			},
		},
		Spectator: SpectatorConfig{
			Enabled:       true,
			ListenAddress: "127.0.0.1:8080",
			Interval:      100 * time.Millisecond,
		},
		Database: DatabaseConfig{
			Enabled:  false,
			Host:     "127.0.0.1",
			Port:     5432,
			User:     "arena",
			Password: "arena",
			DBName:   "arena",
			SSLMode:  "disable",
		},
		Telemetry: telemetry.Config{
			Enabled:     false,
			Endpoint:    "localhost:4318",
			Insecure:    true,
			SampleRatio: 1,
		},
	}
}

// LoadArena loads arena config from a YAML file.
// If the file doesn't exist, returns defaults.
func LoadArena(path string) (Arena, error) {
	cfg := DefaultArena()

	data, err := os.ReadFile(path)
	if err != nil {
		if os.IsNotExist(err) {
			return cfg, nil
		}
		return cfg, fmt.Errorf("reading config %s: %w", path, err)
	}

	if err := yaml.Unmarshal(data, &cfg); err != nil {
		return cfg, fmt.Errorf("parsing config %s: %w", path, err)
	}

	if err := cfg.Validate(); err != nil {
		return cfg, fmt.Errorf("validating config %s: %w", path, err)
	}

	return cfg, nil
}

// Validate checks values the simulation cannot run with.
func (a Arena) Validate() error {
	var errs []error
	if a.TickRate <= 0 {
		errs = append(errs, errors.New("tick_rate must be > 0"))
	}
	if a.CellSize <= 0 {
		errs = append(errs, errors.New("cell_size must be > 0"))
	}
	if a.Player.MaxHealth <= 0 {
		errs = append(errs, errors.New("player.max_health must be > 0"))
	}
	if a.Spectator.Enabled && a.Spectator.Interval <= 0 {
		errs = append(errs, errors.New("spectator.interval must be > 0"))
	}
	for _, roster := range [][]SpawnConfig{a.Scenes.Adventure, a.Scenes.Boss} {
		for _, sp := range roster {
			if _, ok := a.Enemies[sp.Template]; !ok {
				errs = append(errs, fmt.Errorf("spawn %q: unknown template %q", sp.Name, sp.Template))
			}
		}
	}
	return errors.Join(errs...)
}
