package gait

import (
	"strings"
	"testing"

	"github.com/relabs-tech/ratonaut/internal/stability"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func samples(n int) []stability.Sample {
	out := make([]stability.Sample, n)
	for i := range out {
		out[i] = stability.Sample{TiltX: 1, TiltY: 0.5, Vibration: 1, SymmetryScore: 97}
	}
	return out
}

func TestAnalyzeNeedsTenSamples(t *testing.T) {
	_, err := Analyze(samples(9))
	require.ErrorIs(t, err, ErrNotEnoughSamples)

	_, err = Analyze(nil)
	require.ErrorIs(t, err, ErrNotEnoughSamples)
}

func TestAnalyze(t *testing.T) {
	in := samples(10)
	in[3] = stability.Sample{TiltX: -6.3, TiltY: 2, Vibration: 2.5, SymmetryScore: 75.4}

	st, err := Analyze(in)
	require.NoError(t, err)

	assert.Equal(t, 10, st.Samples)
	assert.InDelta(t, (97*9+75.4)/10, st.AvgSymmetry, 1e-9)
	assert.InDelta(t, 6.3, st.MaxTilt, 1e-9)
	assert.InDelta(t, 1.15, st.AvgVibration, 1e-9)
}

func TestPromptFormatting(t *testing.T) {
	p := Prompt(Stats{AvgSymmetry: 94.86, MaxTilt: 6.34, AvgVibration: 1.2349})

	assert.True(t, strings.HasPrefix(p, "Analyze this rodent gait data:"))
	assert.Contains(t, p, "- Average Symmetry: 94.9%\n")
	assert.Contains(t, p, "- Max Lateral Tilt: 6.3 degrees\n")
	assert.Contains(t, p, "- Vertical Vibration Factor: 1.23\n")
	assert.Contains(t, p, "biomechanical assessment")
}

func TestBuild(t *testing.T) {
	r, err := Build(samples(12))
	require.NoError(t, err)
	assert.Equal(t, 12, r.Stats.Samples)
	assert.Equal(t, Prompt(r.Stats), r.Prompt)
	assert.Equal(t, CoachContext, r.CoachContext)
	assert.Equal(t, AnalysisFailedMessage, r.AnalysisFail)
	assert.Equal(t, CoachFailedMessage, r.CoachFail)
}
