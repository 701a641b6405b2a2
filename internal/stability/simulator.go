// Copyright (c) 2026 Daniel Alarcon Rubio / Relabs Tech
// SPDX-License-Identifier: MIT
// See LICENSE file for full license text

// Package stability simulates the postural sway of a running hamster: two
// tilt axes, vertical vibration and a derived symmetry score.
package stability

import (
	"math"
	"math/rand"
	"time"
)

// Interval is the stability tick period (20 Hz).
const Interval = 50 * time.Millisecond

const (
	swayFreq = 8.0

	tiltXAmplitude = 5.0
	tiltXPeriodMs  = 100.0
	tiltXNoise     = 2.0
	tiltYAmplitude = 3.0
	tiltYPeriodMs  = 120.0
	tiltYNoise     = 1.0

	vibrationAmplitude = 2.0
	vibrationPeriodMs  = 50.0

	symmetryPerDegree = 2.0
)

// Sample is one balance measurement.
type Sample struct {
	TiltX         float64   `json:"tiltX"`         // lateral tilt, degrees
	TiltY         float64   `json:"tiltY"`         // forward/back tilt, degrees
	Vibration     float64   `json:"vibration"`     // vertical jitter
	SymmetryScore float64   `json:"symmetryScore"` // 0-100
	Time          time.Time `json:"time"`          // tick time
}

// Simulator produces Samples from sinusoids of wall-clock time with
// independent uniform noise per axis.
type Simulator struct {
	rng *rand.Rand
}

// NewSimulator returns a simulator drawing noise from rng.
func NewSimulator(rng *rand.Rand) *Simulator {
	if rng == nil {
		rng = rand.New(rand.NewSource(time.Now().UnixNano()))
	}
	return &Simulator{rng: rng}
}

// Next computes the sample for the tick at now.
func (s *Simulator) Next(now time.Time) Sample {
	ms := float64(now.UnixMilli())

	tiltX := math.Sin(ms/tiltXPeriodMs*swayFreq)*tiltXAmplitude + (s.rng.Float64()-0.5)*tiltXNoise
	tiltY := math.Cos(ms/tiltYPeriodMs*swayFreq)*tiltYAmplitude + (s.rng.Float64()-0.5)*tiltYNoise
	vibration := math.Abs(math.Sin(ms/vibrationPeriodMs))*vibrationAmplitude + s.rng.Float64()

	return Sample{
		TiltX:         round(tiltX, 1),
		TiltY:         round(tiltY, 1),
		Vibration:     round(vibration, 2),
		SymmetryScore: round(Symmetry(tiltX, tiltY), 0),
		Time:          now,
	}
}

// Symmetry scores how level the body is: 100 when upright, falling by two
// points per degree of combined tilt, clamped to [0, 100].
func Symmetry(tiltX, tiltY float64) float64 {
	score := 100 - (math.Abs(tiltX)+math.Abs(tiltY))*symmetryPerDegree
	return math.Max(0, math.Min(100, score))
}

func round(v float64, places int) float64 {
	p := math.Pow(10, float64(places))
	return math.Round(v*p) / p
}
