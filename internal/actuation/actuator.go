// Copyright (c) 2026 Daniel Alarcon Rubio / Relabs Tech
// SPDX-License-Identifier: MIT
// See LICENSE file for full license text

// Package actuation drives the sensory outputs requested by the feedback
// notifier: a short tone and a haptic pulse. Requests are fire-and-forget;
// implementations log their own failures.
package actuation

import (
	"log"
	"time"
)

// Waveform is the oscillator shape of a tone.
type Waveform string

const (
	Sine     Waveform = "sine"
	Triangle Waveform = "triangle"
	Square   Waveform = "square"
)

// Tone describes one audio cue.
type Tone struct {
	Frequency float64       `json:"frequency"` // Hz
	Waveform  Waveform      `json:"waveform"`
	Duration  time.Duration `json:"duration"`
	Gain      float64       `json:"gain"`
}

// Capabilities reports which outputs an actuator can drive.
type Capabilities struct {
	Audio   bool `json:"audio"`
	Haptics bool `json:"haptics"`
}

// Actuator is the collaborator that turns cue requests into sound and
// vibration.
type Actuator interface {
	Capabilities() Capabilities
	Tone(t Tone)
	Pulse(d time.Duration)
}

// Nop accepts every request and does nothing. It reports full capabilities
// so headless runs exercise the same decision path as real hardware.
type Nop struct{}

func (Nop) Capabilities() Capabilities { return Capabilities{Audio: true, Haptics: true} }
func (Nop) Tone(Tone)                  {}
func (Nop) Pulse(time.Duration)        {}

// Logger writes every request to the standard logger.
type Logger struct {
	Prefix string
}

func (Logger) Capabilities() Capabilities { return Capabilities{Audio: true, Haptics: true} }

func (l Logger) Tone(t Tone) {
	log.Printf("%s: tone %.0fHz %s %s", l.prefix(), t.Frequency, t.Waveform, t.Duration)
}

func (l Logger) Pulse(d time.Duration) {
	log.Printf("%s: haptic pulse %s", l.prefix(), d)
}

func (l Logger) prefix() string {
	if l.Prefix == "" {
		return "actuation"
	}
	return l.Prefix
}

// Multi fans requests out to every member that supports them.
type Multi []Actuator

func (m Multi) Capabilities() Capabilities {
	var c Capabilities
	for _, a := range m {
		ac := a.Capabilities()
		c.Audio = c.Audio || ac.Audio
		c.Haptics = c.Haptics || ac.Haptics
	}
	return c
}

func (m Multi) Tone(t Tone) {
	for _, a := range m {
		if a.Capabilities().Audio {
			a.Tone(t)
		}
	}
}

func (m Multi) Pulse(d time.Duration) {
	for _, a := range m {
		if a.Capabilities().Haptics {
			a.Pulse(d)
		}
	}
}
