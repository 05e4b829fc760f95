package sim

import (
	"time"

	"coastersim/internal/track"
)

type CommandType string

const (
	CmdLoadTrack CommandType = "track"
	CmdStart     CommandType = "start"
	CmdStop      CommandType = "stop"
	CmdSpeed     CommandType = "speed"
)

type Command interface {
	Type() CommandType
	ReceivedAt() time.Time
}

type LoadTrackCommand struct {
	At        time.Time
	Points    []track.Point `json:"points"`
	Looped    bool          `json:"looped,omitempty"`
	ChainLift bool          `json:"chainLift,omitempty"`
}

func (c LoadTrackCommand) Type() CommandType     { return CmdLoadTrack }
func (c LoadTrackCommand) ReceivedAt() time.Time { return c.At }

type StartCommand struct{ At time.Time }

func (c StartCommand) Type() CommandType     { return CmdStart }
func (c StartCommand) ReceivedAt() time.Time { return c.At }

type StopCommand struct{ At time.Time }

func (c StopCommand) Type() CommandType     { return CmdStop }
func (c StopCommand) ReceivedAt() time.Time { return c.At }

type SpeedCommand struct {
	At    time.Time
	Scale float64 `json:"scale"`
}

func (c SpeedCommand) Type() CommandType     { return CmdSpeed }
func (c SpeedCommand) ReceivedAt() time.Time { return c.At }
