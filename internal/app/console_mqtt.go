// Copyright (c) 2026 Daniel Alarcon Rubio / Relabs Tech
// SPDX-License-Identifier: MIT
// See LICENSE file for full license text

package app

import (
	"log"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/relabs-tech/ratonaut/internal/config"
)

// RunConsoleMQTT prints everything the producer publishes on the
// configured bus until interrupted.
func RunConsoleMQTT() error {
	cfg := config.Get()

	bus, err := openBus(cfg, cfg.MQTTClientIDConsole)
	if err != nil {
		return err
	}
	defer bus.Close()

	printer := newConsolePrinter(os.Stdout, nil, time.Duration(cfg.ConsoleLogInterval)*time.Millisecond)
	if err := printer.subscribe(bus, topicsFromConfig(cfg)); err != nil {
		return err
	}
	log.Printf("console: listening on %s bus", cfg.Bus)

	// Wait for Ctrl+C
	sigCh := make(chan os.Signal, 1)
	signal.Notify(sigCh, os.Interrupt, syscall.SIGTERM)
	<-sigCh

	log.Println("console: shutting down")
	return nil
}
