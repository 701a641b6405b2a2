// Copyright (c) 2026 Daniel Alarcon Rubio / Relabs Tech
// SPDX-License-Identifier: MIT
// See LICENSE file for full license text

package history

import "math"

// Summary holds descriptive statistics over one field of a stream.
type Summary struct {
	Count int     `json:"count" yaml:"count"`
	Mean  float64 `json:"mean" yaml:"mean"`
	Min   float64 `json:"min" yaml:"min"`
	Max   float64 `json:"max" yaml:"max"`
	Last  float64 `json:"last" yaml:"last"`
}

// Summarize computes a Summary over values. An empty input yields the zero
// Summary.
func Summarize(values []float64) Summary {
	if len(values) == 0 {
		return Summary{}
	}
	s := Summary{
		Count: len(values),
		Min:   math.Inf(1),
		Max:   math.Inf(-1),
		Last:  values[len(values)-1],
	}
	var sum float64
	for _, v := range values {
		sum += v
		s.Min = math.Min(s.Min, v)
		s.Max = math.Max(s.Max, v)
	}
	s.Mean = sum / float64(len(values))
	return s
}

// SummarizeBy extracts one field from every buffered value and summarizes it.
func SummarizeBy[T any](values []T, field func(T) float64) Summary {
	xs := make([]float64, len(values))
	for i, v := range values {
		xs[i] = field(v)
	}
	return Summarize(xs)
}
