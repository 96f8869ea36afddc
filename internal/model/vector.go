package model

import "math"

// Vec3 is a point or direction in arena space. Y is up; the arena floor is X/Z.
// Value type, passed by value.
type Vec3 struct {
	X float64 `json:"x" yaml:"x"`
	Y float64 `json:"y" yaml:"y"`
	Z float64 `json:"z" yaml:"z"`
}

// Common directions.
var (
	Zero    = Vec3{}
	Right   = Vec3{X: 1}
	Up      = Vec3{Y: 1}
	Forward = Vec3{Z: 1}
)

// NewVec3 creates a Vec3.
func NewVec3(x, y, z float64) Vec3 {
	return Vec3{X: x, Y: y, Z: z}
}

// Add returns v+o.
func (v Vec3) Add(o Vec3) Vec3 {
	return Vec3{X: v.X + o.X, Y: v.Y + o.Y, Z: v.Z + o.Z}
}

// Sub returns v-o.
func (v Vec3) Sub(o Vec3) Vec3 {
	return Vec3{X: v.X - o.X, Y: v.Y - o.Y, Z: v.Z - o.Z}
}

// Scale returns v*s.
func (v Vec3) Scale(s float64) Vec3 {
	return Vec3{X: v.X * s, Y: v.Y * s, Z: v.Z * s}
}

// Dot returns the dot product.
func (v Vec3) Dot(o Vec3) float64 {
	return v.X*o.X + v.Y*o.Y + v.Z*o.Z
}

// LengthSquared returns |v|² (no sqrt for hot paths).
func (v Vec3) LengthSquared() float64 {
	return v.Dot(v)
}

// Length returns |v|.
func (v Vec3) Length() float64 {
	return math.Sqrt(v.LengthSquared())
}

// DistanceSquared returns the squared distance to o.
func (v Vec3) DistanceSquared(o Vec3) float64 {
	return v.Sub(o).LengthSquared()
}

// Distance returns the distance to o.
func (v Vec3) Distance(o Vec3) float64 {
	return math.Sqrt(v.DistanceSquared(o))
}

// Normalized returns the unit vector in v's direction, or Zero for a
// near-zero vector.
func (v Vec3) Normalized() Vec3 {
	l := v.Length()
	if l < 1e-9 {
		return Zero
	}
	return v.Scale(1 / l)
}

// Flat drops the vertical component.
func (v Vec3) Flat() Vec3 {
	return Vec3{X: v.X, Z: v.Z}
}

// IsZero reports whether every component is exactly zero.
func (v Vec3) IsZero() bool {
	return v == Zero
}

// AngleTo returns the unsigned angle between v and o in degrees, in [0, 180].
// A zero vector on either side yields 0.
func (v Vec3) AngleTo(o Vec3) float64 {
	denom := v.Length() * o.Length()
	if denom < 1e-12 {
		return 0
	}
	cos := v.Dot(o) / denom
	// Clamp: rounding can push |cos| past 1.
	cos = max(-1, min(1, cos))
	return math.Acos(cos) * 180 / math.Pi
}

// YawFromDirection returns the yaw (degrees about +Y) that rotates Forward
// onto dir's horizontal projection. A zero direction yields 0.
func YawFromDirection(dir Vec3) float64 {
	if dir.X == 0 && dir.Z == 0 {
		return 0
	}
	return math.Atan2(dir.X, dir.Z) * 180 / math.Pi
}

// RotateYaw rotates v about +Y by yaw degrees. RotateYaw(Forward, YawFromDirection(d))
// points along d.
func (v Vec3) RotateYaw(yaw float64) Vec3 {
	rad := yaw * math.Pi / 180
	sin, cos := math.Sincos(rad)
	return Vec3{
		X: v.X*cos + v.Z*sin,
		Y: v.Y,
		Z: -v.X*sin + v.Z*cos,
	}
}
