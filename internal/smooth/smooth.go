// Package smooth provides pose smoothing filters for camera motion.
// Each filter blends a current vector toward a target vector once per
// frame; the choice of filter controls how the camera settles.
package smooth

import (
	"math"

	"coastersim/internal/geometry/vector"
)

// Filter blends current toward target for one frame of dt seconds.
type Filter interface {
	Apply(dt float64, current, target vector.Vec3) vector.Vec3
}

// Snap is a filter that jumps straight to the target.
var Snap Filter = snapFilter{}

type snapFilter struct{}

func (snapFilter) Apply(dt float64, current, target vector.Vec3) vector.Vec3 {
	return target
}

// Exponential blends a fixed fraction of the remaining distance each
// frame, regardless of frame rate. Simple and stable, but a faster frame
// rate converges faster.
type Exponential struct {
	// Factor is the per-frame blend fraction in (0,1].
	Factor float64
}

func (e Exponential) Apply(dt float64, current, target vector.Vec3) vector.Vec3 {
	return current.Lerp(target, e.Factor)
}

// TimeScaled blends with a factor of 1-exp(-Rate*dt), so convergence
// speed is independent of frame rate. A Rate of 17.3 matches a 0.25
// per-frame blend at 60 fps.
type TimeScaled struct {
	// Rate is the exponential decay rate in 1/seconds.
	Rate float64
}

func (s TimeScaled) Apply(dt float64, current, target vector.Vec3) vector.Vec3 {
	if dt <= 0 {
		return current
	}
	return current.Lerp(target, 1-math.Exp(-s.Rate*dt))
}
