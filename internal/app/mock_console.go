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
	"time"

	"github.com/relabs-tech/ratonaut/internal/actuation"
	"github.com/relabs-tech/ratonaut/internal/kv"
	"github.com/relabs-tech/ratonaut/internal/stream"
)

// RunMockConsole runs both sessions in-process on a memory bus and prints
// them, with no broker, config file or hardware.
func RunMockConsole() error {
	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	bus := stream.NewMemoryBus()
	printer := newConsolePrinter(os.Stdout, nil, time.Second)
	if err := printer.subscribe(bus, DefaultTopics()); err != nil {
		return err
	}

	mon := NewMonitor(MonitorOptions{
		Bus:      bus,
		Actuator: actuation.Logger{Prefix: "mock"},
		Store:    kv.NewMemoryStore(),
	})
	defer mon.Close()

	if err := mon.StartTelemetry(ctx); err != nil {
		return err
	}
	if err := mon.StartStability(ctx); err != nil {
		return err
	}

	<-ctx.Done()
	log.Println("console: shutting down")
	return nil
}
