package sim

import (
	"time"

	"coastersim/internal/ride"
)

// Snapshot is the engine state published to subscribers once per tick.
type Snapshot struct {
	ride.Frame

	Looped     bool    `json:"looped"`
	ChainLift  bool    `json:"chainLift"`
	SpeedScale float64 `json:"speedScale"`
	FirstPeak  float64 `json:"firstPeak"`
	ArcLength  float64 `json:"arcLength,omitempty"`
	Points     int     `json:"points"`

	TS time.Time `json:"ts"`
}
