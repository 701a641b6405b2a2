// Copyright (c) 2026 Daniel Alarcon Rubio / Relabs Tech
// SPDX-License-Identifier: MIT
// See LICENSE file for full license text

package stream

import (
	"fmt"
	"log"
	"strings"
	"time"

	"github.com/nats-io/nats.go"
)

// NATSBus maps topics to NATS subjects ("ratonaut/telemetry" becomes
// "ratonaut.telemetry").
type NATSBus struct {
	nc *nats.Conn
}

// DialNATS connects to url with unlimited reconnects.
func DialNATS(url, name string) (*NATSBus, error) {
	nc, err := nats.Connect(
		url,
		nats.Name(name),
		nats.Timeout(3*time.Second),
		nats.ReconnectWait(500*time.Millisecond),
		nats.MaxReconnects(-1),
	)
	if err != nil {
		return nil, fmt.Errorf("stream: NATS connect to %s: %w", url, err)
	}
	log.Printf("stream: connected to NATS at %s as %s", url, name)
	return &NATSBus{nc: nc}, nil
}

// Subject converts a topic to a NATS subject.
func Subject(topic string) string {
	return strings.ReplaceAll(topic, "/", ".")
}

func (b *NATSBus) Publish(topic string, v any) error {
	payload, err := encode(topic, v)
	if err != nil {
		return err
	}
	if err := b.nc.Publish(Subject(topic), payload); err != nil {
		return fmt.Errorf("stream: NATS publish %s: %w", topic, err)
	}
	return nil
}

func (b *NATSBus) Subscribe(topic string, h Handler) error {
	_, err := b.nc.Subscribe(Subject(topic), func(m *nats.Msg) {
		h(m.Data)
	})
	if err != nil {
		return fmt.Errorf("stream: NATS subscribe %s: %w", topic, err)
	}
	log.Printf("stream: subscribed to NATS subject %s", Subject(topic))
	return nil
}

func (b *NATSBus) Close() {
	if err := b.nc.Drain(); err != nil {
		log.Printf("stream: NATS drain error: %v", err)
	}
}
