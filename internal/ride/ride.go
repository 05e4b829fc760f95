// Package ride implements the ride progression core: chain-lift and
// gravity speed integration along a track curve, and construction of a
// smoothed camera pose that follows the curve.
package ride

import (
	"coastersim/internal/geometry/vector"
	"coastersim/internal/smooth"
	"coastersim/internal/track"
)

const (
	// chainSpeed is the assisted climb rate, in world units per second
	// before the speed scale is applied.
	chainSpeed = 0.9

	// gravity is the gravitational constant used by energy conservation.
	gravity = 9.8

	// minSpeed is the pre-scale speed floor in the gravity phase. Keeps
	// the car from stalling at the peak or on flat sections.
	minSpeed = 1.0

	// maxFrameTime caps dt so a long stall (paused process, suspended
	// machine) cannot skip whole laps in one frame.
	maxFrameTime = 0.1

	// smoothingRate matches a 0.25 per-frame blend at 60 fps.
	smoothingRate = 17.3
)

// Config tunes a Ride. Zero values select the defaults above.
type Config struct {
	// SpeedScale is the designer multiplier on all speeds. Defaults to 1.
	SpeedScale float64

	// ChainLift enables the assisted initial climb.
	ChainLift bool

	// PositionFilter and LookFilter smooth the camera pose between
	// frames. Default is a frame-rate-independent exponential filter.
	PositionFilter smooth.Filter
	LookFilter     smooth.Filter
}

// Frame is the per-frame output of a ride step.
type Frame struct {
	Progress   float64     `json:"progress"`
	Speed      float64     `json:"speed"`
	ChainPhase bool        `json:"chainPhase"`
	Lap        int         `json:"lap"`
	CameraPos  vector.Vec3 `json:"cameraPos"`
	LookAt     vector.Vec3 `json:"lookAt"`
	Riding     bool        `json:"riding"`
}

// Ride holds all progression state for one car on one track. It is not
// safe for concurrent use; a single frame-driven caller owns it.
type Ride struct {
	points []track.Point
	curve  *track.Curve

	firstPeak float64

	speedScale float64
	chainLift  bool

	riding   bool
	progress float64
	lap      int

	maxHeight float64

	posFilter  smooth.Filter
	lookFilter smooth.Filter
	camPos     vector.Vec3
	camLook    vector.Vec3
	primed     bool

	lastFrame Frame
}

// New creates a Ride with no track loaded.
func New(cfg Config) *Ride {
	if cfg.SpeedScale <= 0 {
		cfg.SpeedScale = 1
	}
	if cfg.PositionFilter == nil {
		cfg.PositionFilter = smooth.TimeScaled{Rate: smoothingRate}
	}
	if cfg.LookFilter == nil {
		cfg.LookFilter = smooth.TimeScaled{Rate: smoothingRate}
	}
	return &Ride{
		speedScale: cfg.SpeedScale,
		chainLift:  cfg.ChainLift,
		posFilter:  cfg.PositionFilter,
		lookFilter: cfg.LookFilter,
	}
}

// SetTrack replaces the track. The curve and the cached first-peak
// parameter are rebuilt; an active ride is stopped.
func (r *Ride) SetTrack(points []track.Point, looped bool) {
	r.points = append(r.points[:0:0], points...)
	r.curve = track.NewCurve(track.Positions(points), looped)
	r.firstPeak = FirstPeak(r.curve)
	r.riding = false
	r.progress = 0
	r.lap = 0
}

// SetSpeedScale updates the designer speed multiplier.
func (r *Ride) SetSpeedScale(scale float64) {
	if scale > 0 {
		r.speedScale = scale
	}
}

// SetChainLift toggles the assisted initial climb.
func (r *Ride) SetChainLift(on bool) { r.chainLift = on }

// SpeedScale returns the designer speed multiplier.
func (r *Ride) SpeedScale() float64 { return r.speedScale }

// ChainLift reports whether the assisted initial climb is enabled.
func (r *Ride) ChainLift() bool { return r.chainLift }

// Looped reports whether the loaded track wraps at t=1.
func (r *Ride) Looped() bool { return r.curve != nil && r.curve.Looped() }

// Curve returns the current curve, nil when no usable track is loaded.
func (r *Ride) Curve() *track.Curve { return r.curve }

// FirstPeakProgress returns the cached climb-peak parameter.
func (r *Ride) FirstPeakProgress() float64 { return r.firstPeak }

// Riding reports whether a ride is active.
func (r *Ride) Riding() bool { return r.riding }

// Progress returns the current normalized position along the curve.
func (r *Ride) Progress() float64 { return r.progress }

// Start begins a ride from the current progress. The energy tracker is
// reset to the start-of-curve height and the pose smoother re-primes on
// the next frame. No-op without a usable track.
func (r *Ride) Start() {
	if r.curve == nil {
		return
	}
	r.riding = true
	r.maxHeight = r.curve.PointAt(0).Y
	r.primed = false
	r.lap = 0
}

// Stop ends the ride. Progress is kept so a later Start resumes in place.
func (r *Ride) Stop() { r.riding = false }

// LastFrame returns the most recent frame without advancing the ride.
func (r *Ride) LastFrame() Frame {
	f := r.lastFrame
	f.Riding = r.riding
	return f
}

// Step advances the ride by dt seconds and returns the frame to render.
// When the ride is inactive or no track is loaded the previous frame is
// returned unchanged.
func (r *Ride) Step(dt float64) Frame {
	if !r.riding || r.curve == nil {
		r.lastFrame.Riding = r.riding
		return r.lastFrame
	}
	if dt < 0 {
		dt = 0
	}
	if dt > maxFrameTime {
		dt = maxFrameTime
	}

	next, speed, chainPhase, finished := r.integrate(dt)
	if finished {
		// Non-looped completion: freeze the pose, signal stop.
		r.riding = false
		r.lastFrame.Riding = false
		return r.lastFrame
	}
	r.progress = next

	camPos, lookAt := r.orient(dt, next)

	r.lastFrame = Frame{
		Progress:   next,
		Speed:      speed,
		ChainPhase: chainPhase,
		Lap:        r.lap,
		CameraPos:  camPos,
		LookAt:     lookAt,
		Riding:     true,
	}
	return r.lastFrame
}
