package data

import (
	"errors"
	"fmt"
	"time"

	"gopkg.in/yaml.v3"

	"github.com/udisondev/arena/internal/model"
)

// TargetType определяет, как способность выбирает цель.
type TargetType int8

const (
	TargetSelf      TargetType = iota // centered on the caster
	TargetDirection                   // aimed along the caster's facing
	TargetGround                      // aimed at a ground position
)

var targetTypeNames = map[TargetType]string{
	TargetSelf:      "self",
	TargetDirection: "direction",
	TargetGround:    "ground",
}

// String returns the catalog name of the target type.
func (t TargetType) String() string {
	if s, ok := targetTypeNames[t]; ok {
		return s
	}
	return "unknown"
}

// UnmarshalYAML decodes a target type by name.
func (t *TargetType) UnmarshalYAML(node *yaml.Node) error {
	return decodeEnum(node, targetTypeNames, t)
}

// Placement выбирает точку, в которой появляются эффекты способности.
type Placement int8

const (
	// PlaceDefault defers to the ability's TargetType.
	PlaceDefault Placement = iota
	// PlaceCaster centers effects at the caster's position at activation.
	PlaceCaster
	// PlaceTarget centers effects at the resolved target position.
	PlaceTarget
)

var placementNames = map[Placement]string{
	PlaceDefault: "default",
	PlaceCaster:  "caster",
	PlaceTarget:  "target",
}

// String returns the catalog name of the placement.
func (p Placement) String() string {
	if s, ok := placementNames[p]; ok {
		return s
	}
	return "unknown"
}

// UnmarshalYAML decodes a placement by name.
func (p *Placement) UnmarshalYAML(node *yaml.Node) error {
	return decodeEnum(node, placementNames, p)
}

// Placement maps a target type to its default placement policy.
func (t TargetType) Placement() Placement {
	if t == TargetGround {
		return PlaceTarget
	}
	return PlaceCaster
}

// EffectKind is the variant tag of an EffectSpec.
type EffectKind int8

const (
	EffectHitbox EffectKind = iota
	EffectArea
)

var effectKindNames = map[EffectKind]string{
	EffectHitbox: "hitbox",
	EffectArea:   "area",
}

// String returns the catalog name of the effect kind.
func (k EffectKind) String() string {
	if s, ok := effectKindNames[k]; ok {
		return s
	}
	return "unknown"
}

// UnmarshalYAML decodes an effect kind by name.
func (k *EffectKind) UnmarshalYAML(node *yaml.Node) error {
	return decodeEnum(node, effectKindNames, k)
}

// HitboxShape is the overlap geometry of a hitbox effect.
type HitboxShape int8

const (
	ShapeSphere HitboxShape = iota
	ShapeBox
	ShapeCone
)

var hitboxShapeNames = map[HitboxShape]string{
	ShapeSphere: "sphere",
	ShapeBox:    "box",
	ShapeCone:   "cone",
}

// String returns the catalog name of the shape.
func (s HitboxShape) String() string {
	if n, ok := hitboxShapeNames[s]; ok {
		return n
	}
	return "unknown"
}

// UnmarshalYAML decodes a shape by name.
func (s *HitboxShape) UnmarshalYAML(node *yaml.Node) error {
	return decodeEnum(node, hitboxShapeNames, s)
}

// EffectSpec - immutable описание пространственного эффекта (hitbox или area).
// Area effects always use a sphere of Radius; Shape, Size and ArcAngle apply
// to hitboxes only.
type EffectSpec struct {
	Name     string        `yaml:"name"`
	Kind     EffectKind    `yaml:"kind"`
	Shape    HitboxShape   `yaml:"shape"`
	Size     model.Vec3    `yaml:"size"`      // full box extents
	Radius   float64       `yaml:"radius"`    // sphere/cone/area radius
	Offset   float64       `yaml:"offset"`    // shift along the aim direction from the placement point
	ArcAngle float64       `yaml:"arc_angle"` // cone arc, degrees
	Damage   float64       `yaml:"damage"`
	Lifetime time.Duration `yaml:"lifetime"`
}

// Validate checks the effect invariants.
func (e *EffectSpec) Validate() error {
	if e.Lifetime <= 0 {
		return fmt.Errorf("effect %q: lifetime must be > 0, got %s", e.Name, e.Lifetime)
	}
	if e.Damage < 0 {
		return fmt.Errorf("effect %q: damage must be >= 0, got %v", e.Name, e.Damage)
	}
	if e.Radius < 0 {
		return fmt.Errorf("effect %q: radius must be >= 0, got %v", e.Name, e.Radius)
	}
	if e.Kind != EffectHitbox {
		return nil
	}
	switch e.Shape {
	case ShapeCone:
		if e.ArcAngle <= 0 || e.ArcAngle > 360 {
			return fmt.Errorf("effect %q: cone arc angle must be in (0, 360], got %v", e.Name, e.ArcAngle)
		}
	case ShapeBox:
		if e.Size.X <= 0 || e.Size.Y <= 0 || e.Size.Z <= 0 {
			return fmt.Errorf("effect %q: box size must be positive, got %+v", e.Name, e.Size)
		}
	}
	return nil
}

// ActivateHook is invoked when an ability is successfully activated.
// It must not change game state; it exists for extensions (sounds, logs).
type ActivateHook func(caster model.ObjectID, target, direction model.Vec3)

// AbilitySpec - immutable шаблон способности, загруженный из каталога.
// Shared across all actors - НЕ модифицировать после загрузки.
type AbilitySpec struct {
	Name        string        `yaml:"name"`
	Description string        `yaml:"description"`
	Cooldown    time.Duration `yaml:"cooldown"`
	WindUp      time.Duration `yaml:"wind_up"`
	Active      time.Duration `yaml:"active"`
	Recovery    time.Duration `yaml:"recovery"`
	TargetType  TargetType    `yaml:"target_type"`
	Placement   Placement     `yaml:"placement"`
	Range       float64       `yaml:"range"` // AI/autopilot hint, not enforced by dispatch
	Effects     []EffectSpec  `yaml:"effects"`

	OnActivate ActivateHook `yaml:"-"`
}

// TotalDuration returns windUp + active + recovery.
func (a *AbilitySpec) TotalDuration() time.Duration {
	return a.WindUp + a.Active + a.Recovery
}

// EffectivePlacement resolves PlaceDefault through the target type.
func (a *AbilitySpec) EffectivePlacement() Placement {
	if a.Placement == PlaceDefault {
		return a.TargetType.Placement()
	}
	return a.Placement
}

// Validate checks timing invariants and every effect. Zero effects is legal.
func (a *AbilitySpec) Validate() error {
	if a.Name == "" {
		return errors.New("ability name is empty")
	}
	if a.Cooldown < 0 || a.WindUp < 0 || a.Active < 0 || a.Recovery < 0 {
		return fmt.Errorf("ability %q: durations must be >= 0", a.Name)
	}
	for i := range a.Effects {
		if err := a.Effects[i].Validate(); err != nil {
			return fmt.Errorf("ability %q: %w", a.Name, err)
		}
	}
	return nil
}

func decodeEnum[T comparable](node *yaml.Node, names map[T]string, out *T) error {
	var s string
	if err := node.Decode(&s); err != nil {
		return err
	}
	for v, name := range names {
		if name == s {
			*out = v
			return nil
		}
	}
	return fmt.Errorf("line %d: unknown value %q", node.Line, s)
}
