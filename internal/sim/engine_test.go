package sim

import (
	"context"
	"testing"
	"time"

	"github.com/rs/zerolog"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"coastersim/internal/geometry/vector"
	"coastersim/internal/track"
)

func testTrack() []track.Point {
	return []track.Point{
		{Pos: vector.NewVec3(0, 0, 0)},
		{Pos: vector.NewVec3(10, 8, 0)},
		{Pos: vector.NewVec3(20, 16, 0)},
		{Pos: vector.NewVec3(30, 8, 0)},
		{Pos: vector.NewVec3(40, 0, 0)},
	}
}

func startEngine(t *testing.T) *Engine {
	t.Helper()

	eng := New(Config{TickHz: 200, Logger: zerolog.Nop()})
	ctx, cancel := context.WithCancel(context.Background())
	t.Cleanup(cancel)
	go func() { _ = eng.Run(ctx) }()
	return eng
}

func TestEngine_LoadStartStop(t *testing.T) {
	t.Parallel()

	eng := startEngine(t)

	eng.Submit(LoadTrackCommand{At: time.Now(), Points: testTrack(), Looped: true, ChainLift: true})
	eng.Submit(StartCommand{At: time.Now()})

	require.Eventually(t, func() bool {
		ctx, cancel := context.WithTimeout(context.Background(), time.Second)
		defer cancel()
		st, err := eng.GetState(ctx)
		return err == nil && st.Riding && st.Progress > 0
	}, 5*time.Second, 10*time.Millisecond, "ride should start and advance")

	ctx, cancel := context.WithTimeout(context.Background(), time.Second)
	defer cancel()
	st, err := eng.GetState(ctx)
	require.NoError(t, err)
	assert.Equal(t, len(testTrack()), st.Points)
	assert.True(t, st.Looped)
	assert.True(t, st.ChainLift)
	assert.Greater(t, st.ArcLength, 0.0)
	assert.Greater(t, st.FirstPeak, 0.0)

	eng.Submit(StopCommand{At: time.Now()})
	require.Eventually(t, func() bool {
		ctx, cancel := context.WithTimeout(context.Background(), time.Second)
		defer cancel()
		st, err := eng.GetState(ctx)
		return err == nil && !st.Riding
	}, 5*time.Second, 10*time.Millisecond)
}

func TestEngine_StartWithoutTrackIgnored(t *testing.T) {
	t.Parallel()

	eng := startEngine(t)
	eng.Submit(StartCommand{At: time.Now()})

	// Give the actor time to process, then confirm nothing is riding.
	time.Sleep(100 * time.Millisecond)
	ctx, cancel := context.WithTimeout(context.Background(), time.Second)
	defer cancel()
	st, err := eng.GetState(ctx)
	require.NoError(t, err)
	assert.False(t, st.Riding)
	assert.Zero(t, st.Points)
}

func TestEngine_SubscribeReceivesFrames(t *testing.T) {
	t.Parallel()

	eng := startEngine(t)
	eng.Submit(LoadTrackCommand{At: time.Now(), Points: testTrack(), Looped: true})
	eng.Submit(StartCommand{At: time.Now()})

	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()

	ch, unsub := eng.Subscribe(ctx)
	defer unsub()

	sawAdvance := false
	deadline := time.After(5 * time.Second)
	for !sawAdvance {
		select {
		case st, ok := <-ch:
			require.True(t, ok)
			if st.Riding && st.Progress > 0 {
				sawAdvance = true
			}
		case <-deadline:
			t.Fatal("no advancing frame received")
		}
	}
}

func TestEngine_SpeedScaleCommand(t *testing.T) {
	t.Parallel()

	eng := startEngine(t)
	eng.Submit(LoadTrackCommand{At: time.Now(), Points: testTrack(), Looped: true})
	eng.Submit(SpeedCommand{At: time.Now(), Scale: 2.5})

	require.Eventually(t, func() bool {
		ctx, cancel := context.WithTimeout(context.Background(), time.Second)
		defer cancel()
		st, err := eng.GetState(ctx)
		return err == nil && st.SpeedScale == 2.5
	}, 5*time.Second, 10*time.Millisecond)
}
