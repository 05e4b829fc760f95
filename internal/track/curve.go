// Package track builds the spline geometry a ride runs on: a Catmull-Rom
// curve over ordered control points, plus the per-point tilt lookup.
package track

import (
	"math"

	"coastersim/internal/geometry/vector"
)

// arcLengthSamples is the polyline resolution used to estimate curve length.
const arcLengthSamples = 512

// Curve is an immutable parametric curve over t in [0,1], built from an
// ordered sequence of control points. A looped curve wraps t modulo 1;
// a non-looped curve clamps t to [0,1].
type Curve struct {
	points    []vector.Vec3
	looped    bool
	arcLength float64
}

// NewCurve builds a Catmull-Rom curve through the given positions.
// Returns nil when fewer than 2 points are supplied; callers treat a nil
// curve as "no track" and skip all computation.
func NewCurve(positions []vector.Vec3, looped bool) *Curve {
	if len(positions) < 2 {
		return nil
	}
	pts := make([]vector.Vec3, len(positions))
	copy(pts, positions)

	c := &Curve{points: pts, looped: looped}
	c.arcLength = c.measure()
	return c
}

// Looped reports whether the curve wraps at t=1.
func (c *Curve) Looped() bool { return c.looped }

// ArcLength returns the curve's total length, estimated once at
// construction from a dense polyline.
func (c *Curve) ArcLength() float64 { return c.arcLength }

// PointAt evaluates the curve position at parameter t.
func (c *Curve) PointAt(t float64) vector.Vec3 {
	p0, p1, p2, p3, u := c.segment(t)
	u2 := u * u
	u3 := u2 * u
	return p1.Mul(2).
		Add(p2.Sub(p0).Mul(u)).
		Add(p0.Mul(2).Sub(p1.Mul(5)).Add(p2.Mul(4)).Sub(p3).Mul(u2)).
		Add(p1.Mul(3).Sub(p0).Sub(p2.Mul(3)).Add(p3).Mul(u3)).
		Mul(0.5)
}

// TangentAt returns the unit tangent at parameter t.
func (c *Curve) TangentAt(t float64) vector.Vec3 {
	p0, p1, p2, p3, u := c.segment(t)
	u2 := u * u
	d := p2.Sub(p0).
		Add(p0.Mul(2).Sub(p1.Mul(5)).Add(p2.Mul(4)).Sub(p3).Mul(2 * u)).
		Add(p1.Mul(3).Sub(p0).Sub(p2.Mul(3)).Add(p3).Mul(3 * u2)).
		Mul(0.5)
	if d.Norm() < 1e-12 {
		// Coincident control points; nudge forward for a usable direction.
		return c.PointAt(wrapParam(t+1e-4, c.looped)).Sub(c.PointAt(t)).Normalize()
	}
	return d.Normalize()
}

// segment maps t to the Catmull-Rom control quad and local parameter.
func (c *Curve) segment(t float64) (p0, p1, p2, p3 vector.Vec3, u float64) {
	t = wrapParam(t, c.looped)
	n := len(c.points)

	segments := n - 1
	if c.looped {
		segments = n
	}

	scaled := t * float64(segments)
	i := int(scaled)
	if i >= segments {
		i = segments - 1
	}
	u = scaled - float64(i)

	return c.control(i - 1), c.control(i), c.control(i + 1), c.control(i + 2), u
}

// control resolves a control-point index, wrapping on looped curves and
// clamping to the ends otherwise.
func (c *Curve) control(i int) vector.Vec3 {
	n := len(c.points)
	if c.looped {
		return c.points[((i%n)+n)%n]
	}
	if i < 0 {
		i = 0
	}
	if i >= n {
		i = n - 1
	}
	return c.points[i]
}

func (c *Curve) measure() float64 {
	total := 0.0
	prev := c.PointAt(0)
	for i := 1; i <= arcLengthSamples; i++ {
		t := float64(i) / arcLengthSamples
		p := c.PointAt(t)
		total += p.Sub(prev).Norm()
		prev = p
	}
	return total
}

// wrapParam normalizes a curve parameter: modulo 1 when looped, clamped
// to [0,1] otherwise.
func wrapParam(t float64, looped bool) float64 {
	if looped {
		t = math.Mod(t, 1)
		if t < 0 {
			t += 1
		}
		return t
	}
	if t < 0 {
		return 0
	}
	if t > 1 {
		return 1
	}
	return t
}
