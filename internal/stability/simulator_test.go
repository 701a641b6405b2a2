package stability_test

import (
	"math"
	"math/rand"
	"testing"
	"time"

	"github.com/relabs-tech/ratonaut/internal/stability"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type zeroSource struct{}

func (zeroSource) Int63() int64 { return 0 }
func (zeroSource) Seed(int64)   {}

func TestSymmetryClamps(t *testing.T) {
	assert.Equal(t, 100.0, stability.Symmetry(0, 0))
	assert.Equal(t, 90.0, stability.Symmetry(3, -2))
	assert.Equal(t, 0.0, stability.Symmetry(1000, 0))
	assert.Equal(t, 0.0, stability.Symmetry(-40, -40))
	assert.Equal(t, 0.0, stability.Symmetry(math.Inf(1), 0))
}

func TestNextAtZeroPhase(t *testing.T) {
	sim := stability.NewSimulator(rand.New(zeroSource{}))

	s := sim.Next(time.UnixMilli(0))

	// sin(0)*5 - 1, cos(0)*3 - 0.5, |sin(0)|*2 + 0.
	assert.Equal(t, -1.0, s.TiltX)
	assert.Equal(t, 2.5, s.TiltY)
	assert.Equal(t, 0.0, s.Vibration)
	assert.Equal(t, 93.0, s.SymmetryScore)
	assert.Equal(t, time.UnixMilli(0), s.Time)
}

func TestSamplesStayInRange(t *testing.T) {
	sim := stability.NewSimulator(rand.New(rand.NewSource(3)))
	now := time.UnixMilli(1_700_000_000_000)

	for i := 0; i < 5000; i++ {
		s := sim.Next(now)
		require.GreaterOrEqual(t, s.SymmetryScore, 0.0)
		require.LessOrEqual(t, s.SymmetryScore, 100.0)
		require.GreaterOrEqual(t, s.Vibration, 0.0)
		require.LessOrEqual(t, math.Abs(s.TiltX), 6.0)
		require.LessOrEqual(t, math.Abs(s.TiltY), 3.5)
		now = now.Add(stability.Interval)
	}
}

func TestSeededSequencesMatch(t *testing.T) {
	a := stability.NewSimulator(rand.New(rand.NewSource(11)))
	b := stability.NewSimulator(rand.New(rand.NewSource(11)))
	now := time.UnixMilli(1_700_000_000_000)
	for i := 0; i < 100; i++ {
		require.Equal(t, a.Next(now), b.Next(now))
		now = now.Add(stability.Interval)
	}
}
