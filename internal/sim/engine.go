// Package sim runs the ride core on an actor loop: one goroutine owns
// all ride state, driven by a frame ticker, and talks to the outside
// world over channels.
package sim

import (
	"context"
	"time"

	"github.com/rs/zerolog"

	"coastersim/internal/ride"
)

type stateReq struct {
	reply chan Snapshot
}

type subscribeReq struct {
	ch chan Snapshot
}

type Engine struct {
	// Actor channels
	cmdCh       chan Command
	stateReqCh  chan stateReq
	subscribeCh chan subscribeReq
	unsubCh     chan chan Snapshot

	tickHz  float64
	rideCfg ride.Config
	log     zerolog.Logger
}

type Config struct {
	TickHz float64
	Ride   ride.Config
	Logger zerolog.Logger
}

func New(cfg Config) *Engine {
	if cfg.TickHz <= 0 {
		cfg.TickHz = 60
	}
	return &Engine{
		cmdCh:       make(chan Command, 128),
		stateReqCh:  make(chan stateReq, 32),
		subscribeCh: make(chan subscribeReq, 32),
		unsubCh:     make(chan chan Snapshot, 32),
		tickHz:      cfg.TickHz,
		rideCfg:     cfg.Ride,
		log:         cfg.Logger,
	}
}

func (e *Engine) Submit(cmd Command) {
	select {
	case e.cmdCh <- cmd:
	default:
		e.log.Warn().Str("type", string(cmd.Type())).Msg("command queue full, dropped")
	}
}

func (e *Engine) GetState(ctx context.Context) (Snapshot, error) {
	req := stateReq{reply: make(chan Snapshot, 1)}
	select {
	case e.stateReqCh <- req:
	case <-ctx.Done():
		return Snapshot{}, ctx.Err()
	}

	select {
	case st := <-req.reply:
		return st, nil
	case <-ctx.Done():
		return Snapshot{}, ctx.Err()
	}
}

func (e *Engine) Subscribe(ctx context.Context) (<-chan Snapshot, func()) {
	ch := make(chan Snapshot, 32)

	select {
	case e.subscribeCh <- subscribeReq{ch: ch}:
	case <-ctx.Done():
		close(ch)
		return ch, func() {}
	}

	unsub := func() {
		select {
		case e.unsubCh <- ch:
		default:
		}
	}
	return ch, unsub
}

func (e *Engine) Run(ctx context.Context) error {
	// Actor-owned state
	now := time.Now()

	car := ride.New(e.rideCfg)
	pointCount := 0
	wasRiding := false

	subs := map[chan Snapshot]struct{}{}

	buildSnapshot := func(ts time.Time, frame ride.Frame) Snapshot {
		st := Snapshot{
			Frame:      frame,
			Looped:     car.Looped(),
			ChainLift:  car.ChainLift(),
			SpeedScale: car.SpeedScale(),
			FirstPeak:  car.FirstPeakProgress(),
			Points:     pointCount,
			TS:         ts,
		}
		if c := car.Curve(); c != nil {
			st.ArcLength = c.ArcLength()
		}
		return st
	}

	publish := func(st Snapshot) {
		for ch := range subs {
			select {
			case ch <- st:
			default:
				// slow subscriber -> drop frame
			}
		}
	}

	tick := time.NewTicker(time.Duration(float64(time.Second) / e.tickHz))
	defer tick.Stop()

	for {
		select {
		case <-ctx.Done():
			for ch := range subs {
				close(ch)
			}
			return nil

		case req := <-e.subscribeCh:
			subs[req.ch] = struct{}{}
			req.ch <- buildSnapshot(now, car.LastFrame())

		case ch := <-e.unsubCh:
			if _, ok := subs[ch]; ok {
				delete(subs, ch)
				close(ch)
			}

		case req := <-e.stateReqCh:
			req.reply <- buildSnapshot(now, car.LastFrame())

		case cmd := <-e.cmdCh:
			switch c := cmd.(type) {
			case LoadTrackCommand:
				car.SetTrack(c.Points, c.Looped)
				car.SetChainLift(c.ChainLift)
				pointCount = len(c.Points)
				wasRiding = false
				e.log.Info().
					Int("points", pointCount).
					Bool("looped", c.Looped).
					Bool("chainLift", c.ChainLift).
					Float64("firstPeak", car.FirstPeakProgress()).
					Msg("track loaded")

			case StartCommand:
				car.Start()
				wasRiding = car.Riding()
				if !wasRiding {
					e.log.Warn().Msg("start ignored, no usable track")
				} else {
					e.log.Info().Float64("progress", car.Progress()).Msg("ride started")
				}

			case StopCommand:
				car.Stop()
				wasRiding = false
				e.log.Info().Float64("progress", car.Progress()).Msg("ride stopped")

			case SpeedCommand:
				car.SetSpeedScale(c.Scale)
				e.log.Debug().Float64("scale", c.Scale).Msg("speed scale set")
			}

		case t := <-tick.C:
			dt := t.Sub(now).Seconds()
			if dt <= 0 {
				dt = 1.0 / e.tickHz
			}
			now = t

			frame := car.Step(dt)
			if wasRiding && !car.Riding() {
				// Non-looped track reached the end this frame.
				wasRiding = false
				e.log.Info().Float64("progress", car.Progress()).Msg("ride complete")
			}

			publish(buildSnapshot(now, frame))
		}
	}
}
