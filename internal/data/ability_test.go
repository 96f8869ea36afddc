package data

import (
	"strings"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/udisondev/arena/internal/model"
)

func TestLoadAbilities_Builtin(t *testing.T) {
	require.NoError(t, LoadAbilities())

	for _, name := range []string{"light_attack", "heavy_attack", "ground_slam", "enemy_strike", "boss_quake"} {
		assert.NotNil(t, GetAbility(name), "ability %s", name)
	}
	assert.Nil(t, GetAbility("missing"))

	slam := GetAbility("ground_slam")
	require.NotNil(t, slam)
	assert.Equal(t, TargetGround, slam.TargetType)
	assert.Equal(t, PlaceTarget, slam.EffectivePlacement())
	assert.Equal(t, time.Second, slam.TotalDuration())
	require.Len(t, slam.Effects, 1)
	assert.Equal(t, EffectArea, slam.Effects[0].Kind)

	heavy := GetAbility("heavy_attack")
	require.NotNil(t, heavy)
	assert.Equal(t, ShapeBox, heavy.Effects[0].Shape)
	assert.Equal(t, model.NewVec3(2, 2, 4), heavy.Effects[0].Size)
	assert.Equal(t, PlaceCaster, heavy.EffectivePlacement())
}

func TestLoadAbilitiesFrom(t *testing.T) {
	tests := []struct {
		name    string
		yaml    string
		wantErr string
	}{
		{
			name: "pure timing ability",
			yaml: `
abilities:
  - name: feint
    cooldown: 1s
    wind_up: 100ms
`,
		},
		{
			name: "explicit placement override",
			yaml: `
abilities:
  - name: lob
    target_type: direction
    placement: target
    effects:
      - {name: splash, kind: area, radius: 2, damage: 5, lifetime: 1s}
`,
		},
		{
			name: "zero lifetime",
			yaml: `
abilities:
  - name: bad
    effects:
      - {name: e, kind: area, radius: 2, damage: 5, lifetime: 0s}
`,
			wantErr: "lifetime must be > 0",
		},
		{
			name: "negative damage",
			yaml: `
abilities:
  - name: bad
    effects:
      - {name: e, kind: area, radius: 2, damage: -1, lifetime: 1s}
`,
			wantErr: "damage must be >= 0",
		},
		{
			name: "cone without arc",
			yaml: `
abilities:
  - name: bad
    effects:
      - {name: e, kind: hitbox, shape: cone, radius: 2, lifetime: 1s}
`,
			wantErr: "arc angle",
		},
		{
			name: "negative cooldown",
			yaml: `
abilities:
  - name: bad
    cooldown: -1s
`,
			wantErr: "durations must be >= 0",
		},
		{
			name: "unknown shape",
			yaml: `
abilities:
  - name: bad
    effects:
      - {name: e, kind: hitbox, shape: torus, radius: 2, lifetime: 1s}
`,
			wantErr: "unknown value",
		},
		{
			name: "duplicate",
			yaml: `
abilities:
  - name: a
  - name: a
`,
			wantErr: "duplicate ability",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			table, err := LoadAbilitiesFrom(strings.NewReader(tt.yaml))
			if tt.wantErr != "" {
				require.Error(t, err)
				assert.Contains(t, err.Error(), tt.wantErr)
				return
			}
			require.NoError(t, err)
			assert.NotEmpty(t, table)
		})
	}
}

func TestLoadAbilitiesFrom_PlacementOverride(t *testing.T) {
	table, err := LoadAbilitiesFrom(strings.NewReader(`
abilities:
  - name: lob
    target_type: direction
    placement: target
`))
	require.NoError(t, err)
	assert.Equal(t, PlaceTarget, table["lob"].EffectivePlacement())
}

func TestTargetType_Placement(t *testing.T) {
	assert.Equal(t, PlaceCaster, TargetSelf.Placement())
	assert.Equal(t, PlaceCaster, TargetDirection.Placement())
	assert.Equal(t, PlaceTarget, TargetGround.Placement())
}

func TestEffectSpec_Validate_Box(t *testing.T) {
	e := EffectSpec{Name: "b", Kind: EffectHitbox, Shape: ShapeBox, Lifetime: time.Second}
	assert.Error(t, e.Validate(), "zero box size rejected")

	e.Size = model.NewVec3(1, 1, 1)
	assert.NoError(t, e.Validate())
}
