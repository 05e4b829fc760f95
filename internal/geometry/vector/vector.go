// Package vector provides 3D vector operations
package vector

import "math"

// NewVec3 creates a new 3D vector with the given components
func NewVec3(x, y, z float64) Vec3 {
	return Vec3{X: x, Y: y, Z: z}
}

// Vec3 represents a 3D vector in world coordinates with Y pointing up
type Vec3 struct{ X, Y, Z float64 }

// Up is the world up direction
var Up = Vec3{Y: 1}

// Add returns the sum of two vectors
func (v Vec3) Add(o Vec3) Vec3 { return Vec3{v.X + o.X, v.Y + o.Y, v.Z + o.Z} }

// Sub returns the difference between two vectors
func (v Vec3) Sub(o Vec3) Vec3 { return Vec3{v.X - o.X, v.Y - o.Y, v.Z - o.Z} }

// Mul scales a vector by a scalar
func (v Vec3) Mul(k float64) Vec3 { return Vec3{v.X * k, v.Y * k, v.Z * k} }

// Dot returns the dot product of two vectors
func (v Vec3) Dot(o Vec3) float64 { return v.X*o.X + v.Y*o.Y + v.Z*o.Z }

// Norm returns the vector's magnitude (Euclidean norm)
func (v Vec3) Norm() float64 { return math.Sqrt(v.Dot(v)) }

// Cross returns the cross product of two vectors
func (v Vec3) Cross(o Vec3) Vec3 {
	return Vec3{
		X: v.Y*o.Z - v.Z*o.Y,
		Y: v.Z*o.X - v.X*o.Z,
		Z: v.X*o.Y - v.Y*o.X,
	}
}

// Normalize returns a unit vector in the same direction.
// The zero vector normalizes to itself.
func (v Vec3) Normalize() Vec3 {
	n := v.Norm()
	if n == 0 {
		return Vec3{}
	}
	return v.Mul(1 / n)
}

// Lerp returns the linear interpolation between v and o at parameter k,
// where k=0 yields v and k=1 yields o
func (v Vec3) Lerp(o Vec3, k float64) Vec3 {
	return v.Add(o.Sub(v).Mul(k))
}

// RotateAround rotates v around the given axis by angle radians using
// Rodrigues' formula. The axis must be unit length.
func (v Vec3) RotateAround(axis Vec3, angle float64) Vec3 {
	cos := math.Cos(angle)
	sin := math.Sin(angle)
	return v.Mul(cos).
		Add(axis.Cross(v).Mul(sin)).
		Add(axis.Mul(axis.Dot(v) * (1 - cos)))
}
