// Copyright (c) 2026 Daniel Alarcon Rubio / Relabs Tech
// SPDX-License-Identifier: MIT
// See LICENSE file for full license text

package actuation

import (
	"fmt"
	"log"
	"math"
	"sync"
	"time"

	"periph.io/x/conn/v3/gpio"
	"periph.io/x/conn/v3/gpio/gpioreg"
	"periph.io/x/conn/v3/physic"
	"periph.io/x/host/v3"
)

// GPIO drives a piezo buzzer with hardware PWM and a vibration motor with a
// plain output pin. Either pin may be absent. PWM only produces square
// waves, so the requested waveform is ignored.
type GPIO struct {
	mu      sync.Mutex
	buzzer  gpio.PinIO
	vibrate gpio.PinIO
}

// OpenGPIO initializes periph and resolves the named pins. An empty name
// leaves that output unavailable.
func OpenGPIO(buzzerPin, vibrationPin string) (*GPIO, error) {
	if _, err := host.Init(); err != nil {
		return nil, fmt.Errorf("actuation: periph host init: %w", err)
	}

	g := &GPIO{}
	if buzzerPin != "" {
		g.buzzer = gpioreg.ByName(buzzerPin)
		if g.buzzer == nil {
			return nil, fmt.Errorf("actuation: buzzer pin %q not found", buzzerPin)
		}
		if err := g.buzzer.Out(gpio.Low); err != nil {
			return nil, fmt.Errorf("actuation: buzzer pin %s: %w", buzzerPin, err)
		}
	}
	if vibrationPin != "" {
		g.vibrate = gpioreg.ByName(vibrationPin)
		if g.vibrate == nil {
			return nil, fmt.Errorf("actuation: vibration pin %q not found", vibrationPin)
		}
		if err := g.vibrate.Out(gpio.Low); err != nil {
			return nil, fmt.Errorf("actuation: vibration pin %s: %w", vibrationPin, err)
		}
	}
	log.Printf("actuation: gpio buzzer=%q vibration=%q", buzzerPin, vibrationPin)
	return g, nil
}

func (g *GPIO) Capabilities() Capabilities {
	return Capabilities{Audio: g.buzzer != nil, Haptics: g.vibrate != nil}
}

func (g *GPIO) Tone(t Tone) {
	if g.buzzer == nil {
		return
	}
	freq := physic.Frequency(math.Round(t.Frequency)) * physic.Hertz

	g.mu.Lock()
	err := g.buzzer.PWM(gpio.DutyHalf, freq)
	g.mu.Unlock()
	if err != nil {
		log.Printf("actuation: buzzer pwm error: %v", err)
		return
	}
	time.AfterFunc(t.Duration, func() { g.release(g.buzzer, "buzzer") })
}

func (g *GPIO) Pulse(d time.Duration) {
	if g.vibrate == nil {
		return
	}
	g.mu.Lock()
	err := g.vibrate.Out(gpio.High)
	g.mu.Unlock()
	if err != nil {
		log.Printf("actuation: vibration pin error: %v", err)
		return
	}
	time.AfterFunc(d, func() { g.release(g.vibrate, "vibration") })
}

func (g *GPIO) release(p gpio.PinIO, name string) {
	g.mu.Lock()
	defer g.mu.Unlock()
	if err := p.Out(gpio.Low); err != nil {
		log.Printf("actuation: %s release error: %v", name, err)
	}
}
