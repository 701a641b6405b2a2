// Copyright (c) 2026 Daniel Alarcon Rubio / Relabs Tech
// SPDX-License-Identifier: MIT
// See LICENSE file for full license text

// Package feedback turns telemetry samples into sensory cues when the
// subject meets its goals.
package feedback

import (
	"time"

	"github.com/relabs-tech/ratonaut/internal/actuation"
	"github.com/relabs-tech/ratonaut/internal/clock"
	"github.com/relabs-tech/ratonaut/internal/profile"
	"github.com/relabs-tech/ratonaut/internal/telemetry"
)

// Cooldown is the minimum time between two audio cues.
const Cooldown = 4000 * time.Millisecond

// Cue parameters. Hamster cues are short, high chirps.
var (
	SpeedTone   = actuation.Tone{Frequency: 1200, Waveform: actuation.Sine, Duration: 300 * time.Millisecond, Gain: 0.05}
	CadenceTone = actuation.Tone{Frequency: 800, Waveform: actuation.Triangle, Duration: 300 * time.Millisecond, Gain: 0.05}
	StepPulse   = 5 * time.Millisecond
)

// Kind identifies a cue.
type Kind string

const (
	KindSpeed   Kind = "speed"
	KindCadence Kind = "cadence"
	KindHaptic  Kind = "haptic"
)

// Cue is one request sent to the actuator.
type Cue struct {
	Kind  Kind            `json:"kind"`
	Tone  *actuation.Tone `json:"tone,omitempty"`
	Pulse time.Duration   `json:"pulse,omitempty"`
	Time  time.Time       `json:"time"`
}

// Notifier decides which cues a sample earns. It is driven from a single
// session goroutine and is not safe for concurrent use.
type Notifier struct {
	act      actuation.Actuator
	clk      clock.Clock
	cooldown time.Duration
	lastTone time.Time

	// OnCue, when set, observes every cue that was requested.
	OnCue func(Cue)
}

// NewNotifier returns a notifier firing cues on act. A nil actuator or clock
// falls back to actuation.Nop and the wall clock.
func NewNotifier(act actuation.Actuator, clk clock.Clock) *Notifier {
	if act == nil {
		act = actuation.Nop{}
	}
	if clk == nil {
		clk = clock.Real
	}
	return &Notifier{act: act, clk: clk, cooldown: Cooldown}
}

// SetCooldown overrides the audio cooldown.
func (n *Notifier) SetCooldown(d time.Duration) {
	n.cooldown = d
}

// Evaluate inspects a sample that added the given number of steps and
// returns the cues it fired.
//
// A haptic pulse fires for every tick that added steps. At most one tone
// fires per cooldown window; the speed goal is checked first and the cadence
// goal only when speed falls short.
func (n *Notifier) Evaluate(s telemetry.Sample, added int, goals profile.Goals, prefs profile.Preferences) []Cue {
	now := n.clk.Now()
	caps := n.act.Capabilities()

	var cues []Cue
	if added > 0 && prefs.Haptics && caps.Haptics {
		n.act.Pulse(StepPulse)
		cues = append(cues, Cue{Kind: KindHaptic, Pulse: StepPulse, Time: now})
	}

	var kind Kind
	var tone actuation.Tone
	switch {
	case s.Speed >= goals.Speed:
		kind, tone = KindSpeed, SpeedTone
	case s.Cadence >= goals.PPS:
		kind, tone = KindCadence, CadenceTone
	}

	if kind != "" && n.toneAllowed(now, prefs, caps) {
		n.act.Tone(tone)
		n.lastTone = now
		cues = append(cues, Cue{Kind: kind, Tone: &tone, Time: now})
	}

	if n.OnCue != nil {
		for _, c := range cues {
			n.OnCue(c)
		}
	}
	return cues
}

func (n *Notifier) toneAllowed(now time.Time, prefs profile.Preferences, caps actuation.Capabilities) bool {
	if !prefs.Audio || !caps.Audio {
		return false
	}
	return n.lastTone.IsZero() || now.Sub(n.lastTone) >= n.cooldown
}

// Reset forgets the last cue so a restarted session may chirp immediately.
func (n *Notifier) Reset() {
	n.lastTone = time.Time{}
}
