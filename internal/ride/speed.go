package ride

import "math"

// integrate computes the next progress value for a frame of dt seconds.
// It returns the new progress, the speed used, whether the chain lift
// was engaged this frame, and whether a non-looped ride just finished.
//
// The energy tracker follows conservation of energy for a unit mass: all
// height lost since the highest point reached converts to speed, with no
// friction term.
func (r *Ride) integrate(dt float64) (next, speed float64, chainPhase, finished bool) {
	currentHeight := r.curve.PointAt(r.progress).Y

	if r.chainLift && r.progress < r.firstPeak {
		chainPhase = true
		speed = chainSpeed * r.speedScale
		r.maxHeight = math.Max(r.maxHeight, currentHeight)
	} else {
		r.maxHeight = math.Max(r.maxHeight, currentHeight)
		drop := math.Max(0, r.maxHeight-currentHeight)
		speed = math.Max(minSpeed, energySpeed(drop)) * r.speedScale
	}

	next = r.progress + speed*dt/r.curve.ArcLength()

	if next >= 1 {
		if !r.curve.Looped() {
			return r.progress, speed, chainPhase, true
		}
		next = math.Mod(next, 1)
		r.lap++
		// Lap wrap: the energy tracker restarts from the station height
		// so each lap descends from its own high point. With a chain
		// lift this models the lift re-engaging; without one it keeps a
		// multi-lap ride from treating all laps as one long descent.
		r.maxHeight = r.curve.PointAt(0).Y
	}
	return next, speed, chainPhase, false
}

// energySpeed converts a height drop to speed via v = sqrt(2*g*dh).
func energySpeed(drop float64) float64 {
	if drop <= 0 {
		return 0
	}
	return math.Sqrt(2 * gravity * drop)
}
