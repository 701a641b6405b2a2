package history_test

import (
	"testing"

	"github.com/relabs-tech/ratonaut/internal/history"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestBufferKeepsLastCapacityValuesInOrder(t *testing.T) {
	b := history.New[int](history.TelemetryCapacity)
	const extra = 17
	for i := 0; i < history.TelemetryCapacity+extra; i++ {
		b.Append(i)
		require.LessOrEqual(t, b.Len(), b.Cap())
	}

	got := b.Read()
	require.Len(t, got, history.TelemetryCapacity)
	for i, v := range got {
		assert.Equal(t, extra+i, v)
	}

	last, ok := b.Last()
	require.True(t, ok)
	assert.Equal(t, history.TelemetryCapacity+extra-1, last)
}

func TestBufferPartialFill(t *testing.T) {
	b := history.New[string](3)
	b.Append("a")
	b.Append("b")
	assert.Equal(t, []string{"a", "b"}, b.Read())
}

func TestBufferClearAndReuse(t *testing.T) {
	b := history.New[int](history.StabilityCapacity)
	for i := 0; i < 80; i++ {
		b.Append(i)
	}
	b.Clear()
	require.Equal(t, 0, b.Len())
	_, ok := b.Last()
	require.False(t, ok)
	assert.Empty(t, b.Read())

	b.Append(7)
	b.Append(8)
	assert.Equal(t, []int{7, 8}, b.Read())
}

func TestReadReturnsCopy(t *testing.T) {
	b := history.New[int](2)
	b.Append(1)
	out := b.Read()
	out[0] = 99
	assert.Equal(t, []int{1}, b.Read())
}

func TestSummarize(t *testing.T) {
	s := history.Summarize([]float64{1, 4, 2, 5})
	assert.Equal(t, 4, s.Count)
	assert.InDelta(t, 3.0, s.Mean, 1e-9)
	assert.Equal(t, 1.0, s.Min)
	assert.Equal(t, 5.0, s.Max)
	assert.Equal(t, 5.0, s.Last)

	assert.Equal(t, history.Summary{}, history.Summarize(nil))
}

func TestSummarizeBy(t *testing.T) {
	type point struct{ v float64 }
	s := history.SummarizeBy([]point{{2}, {6}}, func(p point) float64 { return p.v })
	assert.InDelta(t, 4.0, s.Mean, 1e-9)
	assert.Equal(t, 6.0, s.Max)
}
