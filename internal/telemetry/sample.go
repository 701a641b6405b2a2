// Copyright (c) 2026 Daniel Alarcon Rubio / Relabs Tech
// SPDX-License-Identifier: MIT
// See LICENSE file for full license text

package telemetry

import "time"

// Sample is one wheel-running measurement.
type Sample struct {
	Speed        float64 `json:"speed"`        // m/s
	Cadence      float64 `json:"pps"`          // paws per second
	Acceleration float64 `json:"acceleration"` // m/s^2
	TotalSteps   int     `json:"totalSteps"`
}

// Reading is a Sample stamped with its tick time and the steps it added.
// It is what the telemetry session buffers and publishes.
type Reading struct {
	Sample
	Added int       `json:"addedSteps"`
	Time  time.Time `json:"time"`
}

// ChartPoint is the reduced form plotted by the dashboard chart.
type ChartPoint struct {
	Time    int64   `json:"time"` // unix milliseconds
	Speed   float64 `json:"speed"`
	Cadence float64 `json:"pps"`
}

// Chart reduces readings to chart points.
func Chart(readings []Reading) []ChartPoint {
	out := make([]ChartPoint, len(readings))
	for i, r := range readings {
		out[i] = ChartPoint{Time: r.Time.UnixMilli(), Speed: r.Speed, Cadence: r.Cadence}
	}
	return out
}
