// Copyright (c) 2026 Daniel Alarcon Rubio / Relabs Tech
// SPDX-License-Identifier: MIT
// See LICENSE file for full license text

package app

import (
	"fmt"
	"image"
	"log"
	"os"
	"os/signal"
	"sync"
	"syscall"
	"time"

	"golang.org/x/image/font"
	"golang.org/x/image/font/basicfont"
	"golang.org/x/image/math/fixed"
	"periph.io/x/conn/v3/i2c/i2creg"
	"periph.io/x/devices/v3/ssd1306"
	"periph.io/x/devices/v3/ssd1306/image1bit"
	"periph.io/x/host/v3"

	"github.com/relabs-tech/ratonaut/internal/config"
	"github.com/relabs-tech/ratonaut/internal/feedback"
	"github.com/relabs-tech/ratonaut/internal/stability"
	"github.com/relabs-tech/ratonaut/internal/stream"
	"github.com/relabs-tech/ratonaut/internal/telemetry"
)

const (
	displayWidth  = 128
	displayHeight = 64
)

// DisplayData holds the latest data for display
type DisplayData struct {
	mu sync.RWMutex

	reading     telemetry.Reading
	haveReading bool

	stability     stability.Sample
	haveStability bool

	lastCue     feedback.Cue
	haveLastCue bool
}

// displaySnapshot is a lock-free copy of DisplayData.
type displaySnapshot struct {
	reading       telemetry.Reading
	haveReading   bool
	stability     stability.Sample
	haveStability bool
	lastCue       feedback.Cue
	haveLastCue   bool
}

func (d *DisplayData) snapshot() displaySnapshot {
	d.mu.RLock()
	defer d.mu.RUnlock()
	return displaySnapshot{
		reading:       d.reading,
		haveReading:   d.haveReading,
		stability:     d.stability,
		haveStability: d.haveStability,
		lastCue:       d.lastCue,
		haveLastCue:   d.haveLastCue,
	}
}

// subscribe feeds d from the bus topics the content needs.
func (d *DisplayData) subscribe(bus stream.Bus, topics Topics, content string) error {
	switch content {
	case "telemetry":
		if err := bus.Subscribe(topics.Telemetry, func(b []byte) {
			r, ok := stream.Decode[telemetry.Reading]("display", topics.Telemetry, b)
			if !ok {
				return
			}
			d.mu.Lock()
			d.reading = r
			d.haveReading = true
			d.mu.Unlock()
		}); err != nil {
			return err
		}
		if err := bus.Subscribe(topics.Cue, func(b []byte) {
			c, ok := stream.Decode[feedback.Cue]("display", topics.Cue, b)
			if !ok || c.Kind == feedback.KindHaptic {
				return
			}
			d.mu.Lock()
			d.lastCue = c
			d.haveLastCue = true
			d.mu.Unlock()
		}); err != nil {
			return err
		}
		log.Printf("display: subscribed to %s and %s", topics.Telemetry, topics.Cue)

	case "stability":
		if err := bus.Subscribe(topics.Stability, func(b []byte) {
			s, ok := stream.Decode[stability.Sample]("display", topics.Stability, b)
			if !ok {
				return
			}
			d.mu.Lock()
			d.stability = s
			d.haveStability = true
			d.mu.Unlock()
		}); err != nil {
			return err
		}
		log.Printf("display: subscribed to %s", topics.Stability)

	default:
		return fmt.Errorf("unknown display content %q", content)
	}
	return nil
}

func RunDisplay() error {
	cfg := config.Get()

	// Initialize periph
	if _, err := host.Init(); err != nil {
		return fmt.Errorf("failed to initialize periph: %w", err)
	}

	// Open I2C bus
	i2cBus, err := i2creg.Open(cfg.DisplayI2CBus)
	if err != nil {
		return fmt.Errorf("failed to open I2C bus: %w", err)
	}
	defer i2cBus.Close()

	dev, err := ssd1306.NewI2C(i2cBus, &ssd1306.DefaultOpts)
	if err != nil {
		return fmt.Errorf("failed to initialize display: %w", err)
	}
	defer dev.Halt()
	log.Printf("display: initialized, showing %s", cfg.DisplayContent)

	if err := dev.Draw(dev.Bounds(), renderSplash(), image.Point{}); err != nil {
		log.Printf("display: error showing splash: %v", err)
	}

	bus, err := openBus(cfg, cfg.MQTTClientIDDisplay)
	if err != nil {
		return err
	}
	defer bus.Close()

	data := &DisplayData{}
	if err := data.subscribe(bus, topicsFromConfig(cfg), cfg.DisplayContent); err != nil {
		return fmt.Errorf("failed to subscribe for display: %w", err)
	}

	sigCh := make(chan os.Signal, 1)
	signal.Notify(sigCh, os.Interrupt, syscall.SIGTERM)

	// Display update loop
	ticker := time.NewTicker(time.Duration(cfg.DisplayUpdateInterval) * time.Millisecond)
	defer ticker.Stop()

	log.Println("display: starting update loop")

	for {
		select {
		case <-sigCh:
			log.Println("display: shutting down")
			return nil
		case <-ticker.C:
			img := renderContent(cfg.DisplayContent, data.snapshot())
			if err := dev.Draw(dev.Bounds(), img, image.Point{}); err != nil {
				log.Printf("display: error updating display: %v", err)
			}
		}
	}
}

func renderContent(content string, snap displaySnapshot) *image1bit.VerticalLSB {
	if content == "stability" {
		return renderStability(snap.stability, snap.haveStability)
	}
	return renderTelemetry(snap.reading, snap.haveReading, snap.lastCue, snap.haveLastCue)
}

// newCanvas returns a blank frame and a drawer writing 7x13 text on it.
func newCanvas() (*image1bit.VerticalLSB, *font.Drawer) {
	img := image1bit.NewVerticalLSB(image.Rect(0, 0, displayWidth, displayHeight))
	drawer := &font.Drawer{
		Dst:  img,
		Src:  &image.Uniform{image1bit.On},
		Face: basicfont.Face7x13,
	}
	return img, drawer
}

func drawLine(d *font.Drawer, x, y int, text string) {
	d.Dot = fixed.P(x, y)
	d.DrawString(text)
}

func renderTelemetry(r telemetry.Reading, haveData bool, cue feedback.Cue, haveCue bool) *image1bit.VerticalLSB {
	img, d := newCanvas()

	if !haveData {
		drawLine(d, 0, 26, "Wheel")
		drawLine(d, 0, 39, "Waiting...")
		return img
	}

	drawLine(d, 0, 13, fmt.Sprintf("SPD %4.2f m/s", r.Speed))
	drawLine(d, 0, 26, fmt.Sprintf("PPS %4.1f", r.Cadence))
	drawLine(d, 0, 39, fmt.Sprintf("STP %d", r.TotalSteps))
	if haveCue {
		drawLine(d, 0, 52, fmt.Sprintf("CUE %s", cue.Kind))
	}
	return img
}

func renderStability(s stability.Sample, haveData bool) *image1bit.VerticalLSB {
	img, d := newCanvas()

	if !haveData {
		drawLine(d, 0, 26, "Stability")
		drawLine(d, 0, 39, "Waiting...")
		return img
	}

	drawLine(d, 0, 13, fmt.Sprintf("X: %5.1f", s.TiltX))
	drawLine(d, 0, 26, fmt.Sprintf("Y: %5.1f", s.TiltY))
	drawLine(d, 0, 39, fmt.Sprintf("V: %5.2f", s.Vibration))
	drawLine(d, 0, 52, fmt.Sprintf("SYM %3.0f%%", s.SymmetryScore))

	// symmetry bar along the right edge, bottom up
	h := int(s.SymmetryScore / 100 * displayHeight)
	for y := displayHeight - h; y < displayHeight; y++ {
		for x := displayWidth - 6; x < displayWidth; x++ {
			img.SetBit(x, y, image1bit.On)
		}
	}
	return img
}

func renderSplash() *image1bit.VerticalLSB {
	img, d := newCanvas()
	drawLine(d, 30, 26, "RATONAUT")
	drawLine(d, 10, 43, "wheel monitor")
	return img
}
