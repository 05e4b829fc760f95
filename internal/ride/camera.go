package ride

import (
	"math"

	"coastersim/internal/geometry/vector"
	"coastersim/internal/track"
)

const (
	// cameraHeight offsets the camera from the rail along the banked
	// up direction.
	cameraHeight = 1.5

	// lookAhead is how far along the curve (in parameter space) the
	// camera aims.
	lookAhead = 0.03

	// lookAtHeightRatio lowers the look target relative to the camera,
	// giving a slight downward-forward gaze.
	lookAtHeightRatio = 0.8

	// basisEpsilon detects a tangent parallel to world up.
	basisEpsilon = 1e-6
)

// orient builds the smoothed camera pose at parameter t, updating the
// persistent smoothing state.
func (r *Ride) orient(dt float64, t float64) (camPos, lookAt vector.Vec3) {
	pos := r.curve.PointAt(t)
	tangent := r.curve.TangentAt(t)

	_, baseUp := frameBasis(tangent)

	tilt := track.TiltAt(r.points, t, r.curve.Looped()) * math.Pi / 180
	up := baseUp.RotateAround(tangent, tilt)

	targetPos := pos.Add(up.Mul(cameraHeight))

	aheadT := t + lookAhead
	if r.curve.Looped() {
		aheadT = math.Mod(aheadT, 1)
	} else if aheadT > 0.999 {
		aheadT = 0.999
	}
	targetLook := r.curve.PointAt(aheadT).Add(up.Mul(cameraHeight * lookAtHeightRatio))

	if !r.primed {
		// First frame of a ride: jump to the target pose so the camera
		// does not sweep in from wherever the last ride ended.
		r.camPos = targetPos
		r.camLook = targetLook
		r.primed = true
		return r.camPos, r.camLook
	}

	r.camPos = r.posFilter.Apply(dt, r.camPos, targetPos)
	r.camLook = r.lookFilter.Apply(dt, r.camLook, targetLook)
	return r.camPos, r.camLook
}

// frameBasis derives a right/up pair orthogonal to the tangent from the
// world up direction. Rebuilding the basis every frame from world up
// avoids the roll drift a parallel-transport frame accumulates over
// long curves, at the cost of a roll snap on vertical sections.
func frameBasis(tangent vector.Vec3) (right, baseUp vector.Vec3) {
	right = tangent.Cross(vector.Up)
	if right.Norm() < basisEpsilon {
		// Tangent is (anti)parallel to world up; pick a fixed lateral.
		right = vector.Vec3{X: 1}
	} else {
		right = right.Normalize()
	}
	baseUp = right.Cross(tangent).Normalize()
	return right, baseUp
}
