package ride

import "coastersim/internal/track"

const (
	// peakScanStep and peakScanEnd bound the first-half scan for the
	// initial climb's apex.
	peakScanStep = 0.01
	peakScanEnd  = 0.5

	// climbThreshold is the tangent vertical component that counts as
	// climbing (positive) or descending (negative).
	climbThreshold = 0.1

	// fallbackPeak is returned when the first half contains no climb.
	fallbackPeak = 0.2
)

// FirstPeak scans the first half of the curve for the apex of the
// initial climb and returns its parameter. The chain lift disengages
// once progress passes this value.
//
// Tracks that never climb in the first half fall back to 0.2. A nil
// curve (fewer than 2 track points) returns 0, which callers treat as
// chain lift inactive.
func FirstPeak(curve *track.Curve) float64 {
	if curve == nil {
		return 0
	}

	foundClimb := false
	peakT := 0.0
	maxHeight := 0.0

	for t := 0.0; t <= peakScanEnd; t += peakScanStep {
		vertical := curve.TangentAt(t).Y
		if !foundClimb {
			if vertical > climbThreshold {
				foundClimb = true
			} else {
				continue
			}
		}

		h := curve.PointAt(t).Y
		if peakT == 0 || h > maxHeight {
			maxHeight = h
			peakT = t
		}

		// Descent after the recorded apex ends the initial climb.
		if vertical < -climbThreshold && t > peakT {
			break
		}
	}

	if peakT > 0 {
		return peakT
	}
	return fallbackPeak
}
