package telemetry_test

import (
	"math/rand"
	"testing"
	"time"

	"github.com/relabs-tech/ratonaut/internal/telemetry"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// zeroSource makes every uniform draw return 0.
type zeroSource struct{}

func (zeroSource) Int63() int64 { return 0 }
func (zeroSource) Seed(int64)   {}

func TestNextAtZeroPhase(t *testing.T) {
	sim := telemetry.NewSimulator(rand.New(zeroSource{}))

	s, added := sim.Next(time.UnixMilli(0))

	// sin(0) = 0: speed 0.5, pps 4+2, accel 0.2, round(6/4) = 2 steps.
	assert.Equal(t, 0.5, s.Speed)
	assert.Equal(t, 6.0, s.Cadence)
	assert.Equal(t, 0.2, s.Acceleration)
	assert.Equal(t, 2, added)
	assert.Equal(t, 2, s.TotalSteps)
}

func TestNextIdleWheel(t *testing.T) {
	sim := telemetry.NewSimulator(rand.New(zeroSource{}))

	// Trough of the sinusoid: 0.5 - 0.8 < 0, clamped to 0.
	troughMs := 1500 * 3 * 3.141592653589793 / 2
	trough := time.UnixMilli(int64(troughMs))
	s, added := sim.Next(trough)

	assert.Equal(t, 0.0, s.Speed)
	assert.Equal(t, 0.0, s.Cadence)
	assert.Equal(t, 0.0, s.Acceleration)
	assert.Equal(t, 0, added)
	assert.Equal(t, 0, s.TotalSteps)
}

func TestStepsNeverDecrease(t *testing.T) {
	sim := telemetry.NewSimulator(rand.New(rand.NewSource(42)))
	now := time.UnixMilli(1_700_000_000_000)

	prev := 0
	for i := 0; i < 2000; i++ {
		s, added := sim.Next(now)
		require.GreaterOrEqual(t, added, 0)
		require.GreaterOrEqual(t, s.TotalSteps, prev)
		require.Equal(t, prev+added, s.TotalSteps)
		require.GreaterOrEqual(t, s.Speed, 0.0)
		require.GreaterOrEqual(t, s.Cadence, 0.0)
		require.GreaterOrEqual(t, s.Acceleration, 0.0)
		prev = s.TotalSteps
		now = now.Add(telemetry.Interval)
	}
}

func TestSeededSequencesMatch(t *testing.T) {
	a := telemetry.NewSimulator(rand.New(rand.NewSource(7)))
	b := telemetry.NewSimulator(rand.New(rand.NewSource(7)))
	now := time.UnixMilli(1_700_000_000_000)

	for i := 0; i < 50; i++ {
		sa, _ := a.Next(now)
		sb, _ := b.Next(now)
		require.Equal(t, sa, sb)
		now = now.Add(telemetry.Interval)
	}
}

func TestReset(t *testing.T) {
	sim := telemetry.NewSimulator(rand.New(zeroSource{}))
	sim.Next(time.UnixMilli(0))
	require.Equal(t, 2, sim.Total())

	sim.Reset()
	s, _ := sim.Next(time.UnixMilli(0))
	assert.Equal(t, 2, s.TotalSteps)
}

func TestChart(t *testing.T) {
	at := time.UnixMilli(5000)
	pts := telemetry.Chart([]telemetry.Reading{
		{Sample: telemetry.Sample{Speed: 1.1, Cadence: 8.2}, Time: at},
	})
	require.Len(t, pts, 1)
	assert.Equal(t, telemetry.ChartPoint{Time: 5000, Speed: 1.1, Cadence: 8.2}, pts[0])
}
