// Copyright (c) 2026 Daniel Alarcon Rubio / Relabs Tech
// SPDX-License-Identifier: MIT
// See LICENSE file for full license text

package telemetry

import (
	"math"
	"math/rand"
	"time"
)

// Interval is the telemetry tick period (4 Hz).
const Interval = 250 * time.Millisecond

// Wheel running model. Hamsters run roughly 0.8-1.6 m/s with paw rates of
// 6-12 Hz.
const (
	speedOffset    = 0.5
	speedAmplitude = 0.8
	speedPeriodMs  = 1500.0
	speedJitter    = 0.1

	activeSpeed   = 0.1 // below this the wheel is considered idle
	ppsBase       = 4.0
	ppsPerSpeed   = 4.0
	ppsJitter     = 1.0
	accelBase     = 0.2
	accelJitter   = 0.3
	pawsPerStride = 4.0
)

// Simulator produces synthetic wheel-running samples following a sinusoid
// of wall-clock time plus uniform jitter.
type Simulator struct {
	rng   *rand.Rand
	total int
}

// NewSimulator returns a simulator drawing jitter from rng. Pass a seeded
// source for reproducible sequences.
func NewSimulator(rng *rand.Rand) *Simulator {
	if rng == nil {
		rng = rand.New(rand.NewSource(time.Now().UnixNano()))
	}
	return &Simulator{rng: rng}
}

// Next computes the sample for the tick at now and returns it with the number
// of steps added by this tick.
func (s *Simulator) Next(now time.Time) (Sample, int) {
	ms := float64(now.UnixMilli())

	base := speedOffset + math.Sin(ms/speedPeriodMs)*speedAmplitude
	speed := math.Max(0, base+s.rng.Float64()*speedJitter)

	var pps float64
	if speed > activeSpeed {
		pps = ppsBase + speed*ppsPerSpeed + s.rng.Float64()*ppsJitter
	}

	var accel float64
	if speed > 0 {
		accel = accelBase + s.rng.Float64()*accelJitter
	}

	var added int
	if pps > 0 {
		added = max(1, int(math.Round(pps/pawsPerStride)))
	}
	s.total += added

	return Sample{
		Speed:        round(speed, 2),
		Cadence:      round(pps, 1),
		Acceleration: round(accel, 2),
		TotalSteps:   s.total,
	}, added
}

// Reset zeroes the cumulative step count for a new session.
func (s *Simulator) Reset() {
	s.total = 0
}

// Total returns the cumulative step count so far.
func (s *Simulator) Total() int {
	return s.total
}

func round(v float64, places int) float64 {
	p := math.Pow(10, float64(places))
	return math.Round(v*p) / p
}
