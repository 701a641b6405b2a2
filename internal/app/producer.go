// Copyright (c) 2026 Daniel Alarcon Rubio / Relabs Tech
// SPDX-License-Identifier: MIT
// See LICENSE file for full license text

package app

import (
	"context"
	"log"
	"os"
	"os/signal"
	"syscall"

	"github.com/relabs-tech/ratonaut/internal/config"
	"github.com/relabs-tech/ratonaut/internal/feedback"
)

// RunProducer runs both sessions headless and publishes every sample on the
// configured bus until interrupted.
func RunProducer() error {
	log.Println("starting ratonaut producer")

	cfg := config.Get()

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	mon, cleanup, err := newMonitorFromConfig(cfg, cfg.MQTTClientIDProducer)
	if err != nil {
		return err
	}
	defer cleanup()

	mon.ObserveCues(func(c feedback.Cue) {
		log.Printf("producer: cue %s", c.Kind)
	})

	p := mon.Profile()
	log.Printf("producer: profile %s (%s), goals pps=%.1f speed=%.1f", p.Name, p.Species, p.Goals.PPS, p.Goals.Speed)

	if err := mon.StartTelemetry(ctx); err != nil {
		return err
	}
	if err := mon.StartStability(ctx); err != nil {
		return err
	}

	<-ctx.Done()
	log.Println("producer: shutting down")
	return nil
}
