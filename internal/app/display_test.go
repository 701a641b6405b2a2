package app

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"periph.io/x/devices/v3/ssd1306/image1bit"

	"github.com/relabs-tech/ratonaut/internal/feedback"
	"github.com/relabs-tech/ratonaut/internal/stability"
	"github.com/relabs-tech/ratonaut/internal/stream"
	"github.com/relabs-tech/ratonaut/internal/telemetry"
)

func litPixels(img *image1bit.VerticalLSB) int {
	n := 0
	for x := 0; x < displayWidth; x++ {
		for y := 0; y < displayHeight; y++ {
			if img.BitAt(x, y) == image1bit.On {
				n++
			}
		}
	}
	return n
}

func TestDisplayDataFollowsBus(t *testing.T) {
	bus := stream.NewMemoryBus()
	topics := DefaultTopics()

	tel := &DisplayData{}
	require.NoError(t, tel.subscribe(bus, topics, "telemetry"))
	stab := &DisplayData{}
	require.NoError(t, stab.subscribe(bus, topics, "stability"))
	require.Error(t, (&DisplayData{}).subscribe(bus, topics, "gps"))

	r := telemetry.Reading{Sample: telemetry.Sample{Speed: 1.3, Cadence: 9.2, TotalSteps: 17}}
	require.NoError(t, bus.Publish(topics.Telemetry, r))
	tone := feedback.CadenceTone
	require.NoError(t, bus.Publish(topics.Cue, feedback.Cue{Kind: feedback.KindCadence, Tone: &tone}))
	require.NoError(t, bus.Publish(topics.Cue, feedback.Cue{Kind: feedback.KindHaptic, Pulse: feedback.StepPulse}))
	s := stability.Sample{TiltX: 1, TiltY: -2, Vibration: 0.5, SymmetryScore: 94}
	require.NoError(t, bus.Publish(topics.Stability, s))

	snap := tel.snapshot()
	assert.True(t, snap.haveReading)
	assert.Equal(t, 17, snap.reading.TotalSteps)
	require.True(t, snap.haveLastCue)
	assert.Equal(t, feedback.KindCadence, snap.lastCue.Kind)
	assert.False(t, snap.haveStability)

	snap = stab.snapshot()
	assert.True(t, snap.haveStability)
	assert.Equal(t, s, snap.stability)
	assert.False(t, snap.haveReading)
}

func TestRenderFrames(t *testing.T) {
	waiting := renderTelemetry(telemetry.Reading{}, false, feedback.Cue{}, false)
	live := renderTelemetry(telemetry.Reading{Sample: telemetry.Sample{Speed: 1.2, Cadence: 8, TotalSteps: 99}}, true,
		feedback.Cue{Kind: feedback.KindSpeed}, true)
	assert.Positive(t, litPixels(waiting))
	assert.Greater(t, litPixels(live), litPixels(waiting))

	full := renderStability(stability.Sample{SymmetryScore: 100}, true)
	empty := renderStability(stability.Sample{SymmetryScore: 0}, true)
	assert.Equal(t, image1bit.On, full.BitAt(displayWidth-1, 0))
	assert.Equal(t, image1bit.Off, empty.BitAt(displayWidth-1, 0))

	assert.Positive(t, litPixels(renderSplash()))
	assert.Equal(t, litPixels(renderStability(stability.Sample{}, false)),
		litPixels(renderContent("stability", displaySnapshot{})))
}
