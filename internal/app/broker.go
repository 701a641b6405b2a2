// Copyright (c) 2026 Daniel Alarcon Rubio / Relabs Tech
// SPDX-License-Identifier: MIT
// See LICENSE file for full license text

package app

import (
	"fmt"
	"log"
	"os"
	"os/signal"
	"syscall"

	mochi "github.com/mochi-mqtt/server/v2"
	"github.com/mochi-mqtt/server/v2/hooks/auth"
	"github.com/mochi-mqtt/server/v2/listeners"

	"github.com/relabs-tech/ratonaut/internal/config"
)

// StartBroker serves an open MQTT broker on addr (e.g. ":1883") so a
// ratonaut install needs no external mosquitto. Close the returned server
// to stop it.
func StartBroker(addr string) (*mochi.Server, error) {
	server := mochi.New(nil)
	if err := server.AddHook(new(auth.AllowHook), nil); err != nil {
		return nil, fmt.Errorf("broker: add auth hook: %w", err)
	}

	tcp := listeners.NewTCP(listeners.Config{
		ID:      "ratonaut-tcp",
		Type:    "tcp",
		Address: addr,
	})
	if err := server.AddListener(tcp); err != nil {
		return nil, fmt.Errorf("broker: listen on %s: %w", addr, err)
	}
	if err := server.Serve(); err != nil {
		return nil, fmt.Errorf("broker: serve: %w", err)
	}
	log.Printf("broker: MQTT listening on %s", addr)
	return server, nil
}

func RunBroker() error {
	cfg := config.Get()

	server, err := StartBroker(cfg.BrokerListen)
	if err != nil {
		return err
	}

	sigCh := make(chan os.Signal, 1)
	signal.Notify(sigCh, os.Interrupt, syscall.SIGTERM)
	<-sigCh

	log.Println("broker: shutting down")
	return server.Close()
}
