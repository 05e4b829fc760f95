// Command viewer runs a ride locally and draws it in the terminal: the
// track's height profile, a marker for the car, and a live pose HUD.
//
// Keys: space start/stop, +/- speed scale, l toggle loop, c toggle
// chain lift, q or Esc quit.
package main

import (
	"fmt"
	"os"
	"time"

	"github.com/gdamore/tcell/v2"

	"coastersim/internal/geometry/vector"
	"coastersim/internal/ride"
	"coastersim/internal/smooth"
	"coastersim/internal/track"
)

const frameRate = 30

func main() {
	screen, err := tcell.NewScreen()
	if err != nil {
		fmt.Fprintln(os.Stderr, "viewer:", err)
		os.Exit(1)
	}
	if err := screen.Init(); err != nil {
		fmt.Fprintln(os.Stderr, "viewer:", err)
		os.Exit(1)
	}
	defer screen.Fini()

	v := newViewer(screen)
	v.run()
}

type viewer struct {
	screen tcell.Screen

	points []track.Point
	looped bool
	chain  bool
	scale  float64

	car *ride.Ride

	// markerSpring smooths the on-screen marker independently of the
	// camera pose, so the HUD marker glides even at low frame rates.
	markerSpring *smooth.Spring
	markerPos    vector.Vec3
}

func newViewer(screen tcell.Screen) *viewer {
	v := &viewer{
		screen: screen,
		points: demoTrack(),
		looped: true,
		chain:  true,
		scale:  1.0,
	}
	v.rebuild()
	return v
}

// rebuild recreates the ride whenever track topology flags change.
func (v *viewer) rebuild() {
	v.car = ride.New(ride.Config{
		SpeedScale: v.scale,
		ChainLift:  v.chain,
	})
	v.car.SetTrack(v.points, v.looped)
	v.markerSpring = smooth.NewSpring(frameRate, 7.0, 0.9)
	v.markerPos = vector.Vec3{}
}

func (v *viewer) run() {
	events := make(chan tcell.Event, 16)
	go func() {
		for {
			events <- v.screen.PollEvent()
		}
	}()

	tick := time.NewTicker(time.Second / frameRate)
	defer tick.Stop()

	last := time.Now()
	for {
		select {
		case ev := <-events:
			switch ev := ev.(type) {
			case *tcell.EventResize:
				v.screen.Sync()
			case *tcell.EventKey:
				if !v.handleKey(ev) {
					return
				}
			}

		case now := <-tick.C:
			dt := now.Sub(last).Seconds()
			last = now
			frame := v.car.Step(dt)
			v.draw(frame, dt)
		}
	}
}

// handleKey returns false when the viewer should exit.
func (v *viewer) handleKey(ev *tcell.EventKey) bool {
	switch {
	case ev.Key() == tcell.KeyEscape, ev.Rune() == 'q':
		return false
	case ev.Rune() == ' ':
		if v.car.Riding() {
			v.car.Stop()
		} else {
			v.car.Start()
		}
	case ev.Rune() == '+', ev.Rune() == '=':
		v.scale += 0.25
		v.car.SetSpeedScale(v.scale)
	case ev.Rune() == '-':
		if v.scale > 0.25 {
			v.scale -= 0.25
		}
		v.car.SetSpeedScale(v.scale)
	case ev.Rune() == 'l':
		v.looped = !v.looped
		v.rebuild()
	case ev.Rune() == 'c':
		v.chain = !v.chain
		v.rebuild()
	}
	return true
}

func (v *viewer) draw(frame ride.Frame, dt float64) {
	v.screen.Clear()
	w, h := v.screen.Size()
	if w < 20 || h < 8 {
		v.screen.Show()
		return
	}

	curve := v.car.Curve()
	plotH := h - 3

	// Height profile: column = t, row = height.
	minY, maxY := heightRange(curve)
	span := maxY - minY
	if span <= 0 {
		span = 1
	}

	trackStyle := tcell.StyleDefault.Foreground(tcell.ColorGray)
	for col := 0; col < w; col++ {
		t := float64(col) / float64(w-1)
		y := curve.PointAt(t).Y
		row := plotH - 1 - int((y-minY)/span*float64(plotH-1))
		v.screen.SetContent(col, row, '=', nil, trackStyle)
	}

	// Peak marker.
	peakCol := int(v.car.FirstPeakProgress() * float64(w-1))
	peakRow := plotH - 1 - int((curve.PointAt(v.car.FirstPeakProgress()).Y-minY)/span*float64(plotH-1))
	v.screen.SetContent(peakCol, peakRow, '^', nil, tcell.StyleDefault.Foreground(tcell.ColorYellow))

	// Car marker, spring-smoothed toward the current frame position.
	target := vector.Vec3{X: frame.Progress, Y: frame.CameraPos.Y}
	v.markerPos = v.markerSpring.Apply(dt, v.markerPos, target)
	carCol := int(v.markerPos.X * float64(w-1))
	carRow := plotH - 1 - int((v.markerPos.Y-minY)/span*float64(plotH-1))
	carRow = clampInt(carRow, 0, plotH-1)
	carCol = clampInt(carCol, 0, w-1)
	v.screen.SetContent(carCol, carRow, '@', nil, tcell.StyleDefault.Foreground(tcell.ColorRed).Bold(true))

	// HUD.
	phase := "gravity"
	if frame.ChainPhase {
		phase = "chain"
	}
	if !frame.Riding {
		phase = "idle"
	}
	hud := fmt.Sprintf("progress %.3f  lap %d  speed %5.2f  scale %.2f  phase %-7s  loop %v  lift %v",
		frame.Progress, frame.Lap, frame.Speed, v.scale, phase, v.looped, v.chain)
	pose := fmt.Sprintf("cam (%6.1f %6.1f %6.1f)  look (%6.1f %6.1f %6.1f)",
		frame.CameraPos.X, frame.CameraPos.Y, frame.CameraPos.Z,
		frame.LookAt.X, frame.LookAt.Y, frame.LookAt.Z)

	drawText(v.screen, 0, h-2, hud)
	drawText(v.screen, 0, h-1, pose)

	v.screen.Show()
}

func drawText(s tcell.Screen, x, y int, text string) {
	for i, r := range text {
		s.SetContent(x+i, y, r, nil, tcell.StyleDefault)
	}
}

func heightRange(c *track.Curve) (minY, maxY float64) {
	minY = c.PointAt(0).Y
	maxY = minY
	for i := 1; i <= 100; i++ {
		y := c.PointAt(float64(i) / 100).Y
		if y < minY {
			minY = y
		}
		if y > maxY {
			maxY = y
		}
	}
	return minY, maxY
}

func clampInt(v, lo, hi int) int {
	if v < lo {
		return lo
	}
	if v > hi {
		return hi
	}
	return v
}

func demoTrack() []track.Point {
	return []track.Point{
		{Pos: vector.NewVec3(0, 0, 0)},
		{Pos: vector.NewVec3(10, 10, 0)},
		{Pos: vector.NewVec3(20, 22, 0)},
		{Pos: vector.NewVec3(30, 30, 0)},
		{Pos: vector.NewVec3(45, 8, 5), TiltDeg: 20},
		{Pos: vector.NewVec3(60, 2, 20), TiltDeg: 35},
		{Pos: vector.NewVec3(50, 6, 40), TiltDeg: 10},
		{Pos: vector.NewVec3(25, 12, 45)},
		{Pos: vector.NewVec3(5, 4, 25)},
	}
}
