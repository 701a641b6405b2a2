// Copyright (c) 2026 Daniel Alarcon Rubio / Relabs Tech
// SPDX-License-Identifier: MIT
// See LICENSE file for full license text

// Package gait condenses stability history into the statistics and prompt
// handed to the external gait analysis collaborator.
package gait

import (
	"errors"
	"fmt"
	"math"

	"github.com/relabs-tech/ratonaut/internal/stability"
)

// MinSamples is the smallest history a report is built from.
const MinSamples = 10

var ErrNotEnoughSamples = errors.New("gait: not enough stability samples")

// Messages shown by the consumer when the collaborator is unavailable.
const (
	AnalysisFailedMessage = "Analysis failed. Sensors interference detected."
	CoachFailedMessage    = "Connection to the habitat data stream failed. Please retry."
)

// CoachContext is the system context for the coaching collaborator.
const CoachContext = "You are a helpful AI expert in hamster care, rodent biomechanics, and small pet health. " +
	"The user is using an app called RATONAUT to monitor their hamster's wheel speed and activity. " +
	"Provide advice tailored to hamsters/mice/gerbils."

// Stats summarises a stability history.
type Stats struct {
	Samples      int     `json:"samples" yaml:"samples"`
	AvgSymmetry  float64 `json:"avgSymmetry" yaml:"avg_symmetry"`
	MaxTilt      float64 `json:"maxTilt" yaml:"max_tilt"`
	AvgVibration float64 `json:"avgVibration" yaml:"avg_vibration"`
}

// Analyze computes Stats over samples. MaxTilt is the largest lateral
// (tiltX) magnitude.
func Analyze(samples []stability.Sample) (Stats, error) {
	if len(samples) < MinSamples {
		return Stats{}, fmt.Errorf("%w: have %d, need %d", ErrNotEnoughSamples, len(samples), MinSamples)
	}

	var sym, vib, maxTilt float64
	for _, s := range samples {
		sym += s.SymmetryScore
		vib += s.Vibration
		maxTilt = math.Max(maxTilt, math.Abs(s.TiltX))
	}
	n := float64(len(samples))
	return Stats{
		Samples:      len(samples),
		AvgSymmetry:  sym / n,
		MaxTilt:      maxTilt,
		AvgVibration: vib / n,
	}, nil
}

// Prompt renders the analysis request for st.
func Prompt(st Stats) string {
	return fmt.Sprintf(`Analyze this rodent gait data:
- Average Symmetry: %.1f%%
- Max Lateral Tilt: %.1f degrees
- Vertical Vibration Factor: %.2f

Provide a brief biomechanical assessment of the hamster's running form. Is there signs of injury, wobbling, or good health?`,
		st.AvgSymmetry, st.MaxTilt, st.AvgVibration)
}

// Report is the payload served to the analysis consumer. It carries the
// coach context and the messages to show when the collaborator fails, so
// the consumer does not hardcode its own wording.
type Report struct {
	Stats        Stats  `json:"stats"`
	Prompt       string `json:"prompt"`
	CoachContext string `json:"coachContext"`
	AnalysisFail string `json:"analysisFailedMessage"`
	CoachFail    string `json:"coachFailedMessage"`
}

// Build analyses samples and renders the prompt.
func Build(samples []stability.Sample) (Report, error) {
	st, err := Analyze(samples)
	if err != nil {
		return Report{}, err
	}
	return Report{
		Stats:        st,
		Prompt:       Prompt(st),
		CoachContext: CoachContext,
		AnalysisFail: AnalysisFailedMessage,
		CoachFail:    CoachFailedMessage,
	}, nil
}
