// Copyright (c) 2026 Daniel Alarcon Rubio / Relabs Tech
// SPDX-License-Identifier: MIT
// See LICENSE file for full license text

package app

import (
	"fmt"
	"io"
	"log"
	"time"

	"github.com/relabs-tech/ratonaut/internal/actuation"
	"github.com/relabs-tech/ratonaut/internal/config"
	"github.com/relabs-tech/ratonaut/internal/kv"
	"github.com/relabs-tech/ratonaut/internal/record"
	"github.com/relabs-tech/ratonaut/internal/stream"
)

func topicsFromConfig(cfg *config.Config) Topics {
	return Topics{
		Telemetry: cfg.TopicTelemetry,
		Stability: cfg.TopicStability,
		Cue:       cfg.TopicCue,
		Profile:   cfg.TopicProfile,
	}
}

func openBus(cfg *config.Config, clientID string) (stream.Bus, error) {
	return stream.Open(cfg.Bus, cfg.MQTTBroker, cfg.NATSURL, clientID)
}

// openActuators builds the actuator chain named by ACTUATORS. The returned
// closer releases serial ports.
func openActuators(cfg *config.Config) (actuation.Actuator, func(), error) {
	var (
		chain   actuation.Multi
		closers []io.Closer
	)
	closeAll := func() {
		for _, c := range closers {
			if err := c.Close(); err != nil {
				log.Printf("actuation: close error: %v", err)
			}
		}
	}

	for _, name := range cfg.Actuators {
		switch name {
		case "none":
		case "log":
			chain = append(chain, actuation.Logger{})
		case "serial":
			s, err := actuation.OpenSerial(cfg.ActuatorSerialPort, cfg.ActuatorBaudRate)
			if err != nil {
				closeAll()
				return nil, nil, err
			}
			chain = append(chain, s)
			closers = append(closers, s)
		case "gpio":
			g, err := actuation.OpenGPIO(cfg.GPIOBuzzerPin, cfg.GPIOVibrationPin)
			if err != nil {
				closeAll()
				return nil, nil, err
			}
			chain = append(chain, g)
		default:
			closeAll()
			return nil, nil, fmt.Errorf("unknown actuator %q", name)
		}
	}
	return chain, closeAll, nil
}

// newMonitorFromConfig wires a Monitor and its collaborators from the
// global configuration. The cleanup stops sessions before closing the bus.
func newMonitorFromConfig(cfg *config.Config, clientID string) (*Monitor, func(), error) {
	bus, err := openBus(cfg, clientID)
	if err != nil {
		return nil, nil, err
	}

	act, closeActuators, err := openActuators(cfg)
	if err != nil {
		bus.Close()
		return nil, nil, err
	}

	opts := MonitorOptions{
		Seed:              cfg.RandomSeed,
		Bus:               bus,
		Topics:            topicsFromConfig(cfg),
		Actuator:          act,
		Store:             kv.NewFileStore(cfg.ProfileStorePath),
		TelemetryInterval: time.Duration(cfg.TelemetryInterval) * time.Millisecond,
		StabilityInterval: time.Duration(cfg.StabilityInterval) * time.Millisecond,
		TelemetryHistory:  cfg.TelemetryHistory,
		StabilityHistory:  cfg.StabilityHistory,
		Cooldown:          time.Duration(cfg.AlertCooldown) * time.Millisecond,
	}
	if cfg.RecordDir != "" {
		opts.Recorder = record.New(cfg.RecordDir)
	}

	mon := NewMonitor(opts)
	cleanup := func() {
		mon.Close()
		closeActuators()
		bus.Close()
	}
	return mon, cleanup, nil
}
