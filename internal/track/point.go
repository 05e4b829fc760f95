package track

import "coastersim/internal/geometry/vector"

// Point is a single track control point: a world position plus the
// designer-specified banking at that point, in degrees.
type Point struct {
	Pos     vector.Vec3 `json:"pos"`
	TiltDeg float64     `json:"tiltDeg,omitempty"`
}

// Positions extracts the position component of each point.
func Positions(points []Point) []vector.Vec3 {
	out := make([]vector.Vec3, len(points))
	for i, p := range points {
		out[i] = p.Pos
	}
	return out
}
