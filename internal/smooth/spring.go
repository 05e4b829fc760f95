package smooth

import (
	"github.com/charmbracelet/harmonica"

	"coastersim/internal/geometry/vector"
)

// Spring is a damped-spring filter built on harmonica. Unlike the
// exponential filters it carries velocity, so the camera can overshoot
// slightly and settle; the viewer HUD uses it for marker motion.
// Harmonica springs are tuned for a fixed timestep, so Spring assumes
// frames arrive near the configured FPS.
type Spring struct {
	spring harmonica.Spring
	vel    vector.Vec3
}

// NewSpring creates a spring filter tuned for the given frame rate.
// frequency controls stiffness, damping in (0,1) allows overshoot and
// 1.0 is critically damped.
func NewSpring(fps int, frequency, damping float64) *Spring {
	return &Spring{spring: harmonica.NewSpring(harmonica.FPS(fps), frequency, damping)}
}

func (s *Spring) Apply(dt float64, current, target vector.Vec3) vector.Vec3 {
	var next vector.Vec3
	next.X, s.vel.X = s.spring.Update(current.X, s.vel.X, target.X)
	next.Y, s.vel.Y = s.spring.Update(current.Y, s.vel.Y, target.Y)
	next.Z, s.vel.Z = s.spring.Update(current.Z, s.vel.Z, target.Z)
	return next
}
