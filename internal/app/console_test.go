package app

import (
	"bytes"
	"strings"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/relabs-tech/ratonaut/internal/clock"
	"github.com/relabs-tech/ratonaut/internal/feedback"
	"github.com/relabs-tech/ratonaut/internal/profile"
	"github.com/relabs-tech/ratonaut/internal/stability"
	"github.com/relabs-tech/ratonaut/internal/stream"
	"github.com/relabs-tech/ratonaut/internal/telemetry"
)

func TestConsolePrinter(t *testing.T) {
	var out bytes.Buffer
	clk := clock.NewManual(monitorT0)
	bus := stream.NewMemoryBus()
	topics := DefaultTopics()

	p := newConsolePrinter(&out, clk, time.Second)
	require.NoError(t, p.subscribe(bus, topics))

	require.NoError(t, bus.Publish(topics.Telemetry, telemetry.Reading{
		Sample: telemetry.Sample{Speed: 1.25, Cadence: 9.1, Acceleration: 0.33, TotalSteps: 42},
		Added:  2,
	}))

	s := stability.Sample{TiltX: -1.2, TiltY: 2.5, Vibration: 1.07, SymmetryScore: 93}
	require.NoError(t, bus.Publish(topics.Stability, s))
	clk.Advance(500 * time.Millisecond)
	require.NoError(t, bus.Publish(topics.Stability, s)) // throttled
	clk.Advance(500 * time.Millisecond)
	require.NoError(t, bus.Publish(topics.Stability, s))

	tone := feedback.SpeedTone
	require.NoError(t, bus.Publish(topics.Cue, feedback.Cue{Kind: feedback.KindSpeed, Tone: &tone}))
	require.NoError(t, bus.Publish(topics.Cue, feedback.Cue{Kind: feedback.KindHaptic, Pulse: feedback.StepPulse}))
	require.NoError(t, bus.Publish(topics.Profile, profile.Default()))

	lines := strings.Split(strings.TrimSpace(out.String()), "\n")
	require.Len(t, lines, 6)
	assert.Equal(t, "[WHEEL] speed= 1.25m/s  pps= 9.1  accel=0.33  steps=    42 (+2)", lines[0])
	assert.Equal(t, "[GAIT ] tiltX= -1.2  tiltY=  2.5  vib=1.07  symmetry= 93%", lines[1])
	assert.Equal(t, lines[1], lines[2])
	assert.Equal(t, "[CUE  ] speed 1200Hz sine 300ms", lines[3])
	assert.Equal(t, "[CUE  ] haptic pulse 5ms", lines[4])
	assert.Contains(t, lines[5], "Nibbles (Syrian Hamster)")
}
