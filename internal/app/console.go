// Copyright (c) 2026 Daniel Alarcon Rubio / Relabs Tech
// SPDX-License-Identifier: MIT
// See LICENSE file for full license text

package app

import (
	"fmt"
	"io"
	"sync"
	"time"

	"github.com/relabs-tech/ratonaut/internal/clock"
	"github.com/relabs-tech/ratonaut/internal/feedback"
	"github.com/relabs-tech/ratonaut/internal/profile"
	"github.com/relabs-tech/ratonaut/internal/stability"
	"github.com/relabs-tech/ratonaut/internal/stream"
	"github.com/relabs-tech/ratonaut/internal/telemetry"
)

// consolePrinter renders bus messages as one line each. Stability arrives
// at 20 Hz, so it is printed at most once per interval.
type consolePrinter struct {
	out      io.Writer
	clk      clock.Clock
	interval time.Duration

	mu            sync.Mutex
	lastStability time.Time
}

func newConsolePrinter(out io.Writer, clk clock.Clock, interval time.Duration) *consolePrinter {
	if clk == nil {
		clk = clock.Real
	}
	return &consolePrinter{out: out, clk: clk, interval: interval}
}

func (p *consolePrinter) subscribe(bus stream.Bus, topics Topics) error {
	subs := []struct {
		topic string
		h     stream.Handler
	}{
		{topics.Telemetry, func(b []byte) {
			if r, ok := stream.Decode[telemetry.Reading]("console", topics.Telemetry, b); ok {
				p.telemetry(r)
			}
		}},
		{topics.Stability, func(b []byte) {
			if s, ok := stream.Decode[stability.Sample]("console", topics.Stability, b); ok {
				p.stability(s)
			}
		}},
		{topics.Cue, func(b []byte) {
			if c, ok := stream.Decode[feedback.Cue]("console", topics.Cue, b); ok {
				p.cue(c)
			}
		}},
		{topics.Profile, func(b []byte) {
			if pr, ok := stream.Decode[profile.Profile]("console", topics.Profile, b); ok {
				p.profile(pr)
			}
		}},
	}
	for _, s := range subs {
		if err := bus.Subscribe(s.topic, s.h); err != nil {
			return fmt.Errorf("console: subscribe %s: %w", s.topic, err)
		}
	}
	return nil
}

func (p *consolePrinter) printf(format string, args ...any) {
	p.mu.Lock()
	defer p.mu.Unlock()
	fmt.Fprintf(p.out, format, args...)
}

func (p *consolePrinter) telemetry(r telemetry.Reading) {
	p.printf("[WHEEL] speed=%5.2fm/s  pps=%4.1f  accel=%4.2f  steps=%6d (+%d)\n",
		r.Speed, r.Cadence, r.Acceleration, r.TotalSteps, r.Added)
}

func (p *consolePrinter) stability(s stability.Sample) {
	now := p.clk.Now()
	p.mu.Lock()
	if !p.lastStability.IsZero() && now.Sub(p.lastStability) < p.interval {
		p.mu.Unlock()
		return
	}
	p.lastStability = now
	p.mu.Unlock()

	p.printf("[GAIT ] tiltX=%5.1f  tiltY=%5.1f  vib=%4.2f  symmetry=%3.0f%%\n",
		s.TiltX, s.TiltY, s.Vibration, s.SymmetryScore)
}

func (p *consolePrinter) cue(c feedback.Cue) {
	if c.Tone != nil {
		p.printf("[CUE  ] %s %.0fHz %s %s\n", c.Kind, c.Tone.Frequency, c.Tone.Waveform, c.Tone.Duration)
		return
	}
	p.printf("[CUE  ] %s pulse %s\n", c.Kind, c.Pulse)
}

func (p *consolePrinter) profile(pr profile.Profile) {
	p.printf("[PROF ] %s (%s) goals pps=%.1f speed=%.1f haptics=%t audio=%t\n",
		pr.Name, pr.Species, pr.Goals.PPS, pr.Goals.Speed, pr.Preferences.Haptics, pr.Preferences.Audio)
}
