// Copyright (c) 2026 Daniel Alarcon Rubio / Relabs Tech
// SPDX-License-Identifier: MIT
// See LICENSE file for full license text

// Package stream carries samples, cues and profile updates between the
// producer and its consumers as JSON messages.
package stream

import (
	"encoding/json"
	"fmt"
	"log"
	"sync"
)

// Default topics. NATS subjects use the same names with dots.
const (
	TopicTelemetry = "ratonaut/telemetry"
	TopicStability = "ratonaut/stability"
	TopicCue       = "ratonaut/cue"
	TopicProfile   = "ratonaut/profile"
)

// Handler receives the raw JSON payload of a message.
type Handler func(payload []byte)

// Bus publishes and subscribes JSON messages by topic.
type Bus interface {
	Publish(topic string, v any) error
	Subscribe(topic string, h Handler) error
	Close()
}

func encode(topic string, v any) ([]byte, error) {
	payload, err := json.Marshal(v)
	if err != nil {
		return nil, fmt.Errorf("stream: marshal for %s: %w", topic, err)
	}
	return payload, nil
}

// Decode unmarshals a payload, logging failures the way every subscriber
// wants to handle them.
func Decode[T any](component, topic string, payload []byte) (T, bool) {
	var v T
	if err := json.Unmarshal(payload, &v); err != nil {
		log.Printf("%s: %s unmarshal error: %v", component, topic, err)
		return v, false
	}
	return v, true
}

// MemoryBus delivers messages synchronously to in-process subscribers. It
// backs the mock console and runs without a broker.
type MemoryBus struct {
	mu   sync.RWMutex
	subs map[string][]Handler
}

func NewMemoryBus() *MemoryBus {
	return &MemoryBus{subs: make(map[string][]Handler)}
}

func (b *MemoryBus) Publish(topic string, v any) error {
	payload, err := encode(topic, v)
	if err != nil {
		return err
	}
	b.mu.RLock()
	handlers := b.subs[topic]
	b.mu.RUnlock()
	for _, h := range handlers {
		h(payload)
	}
	return nil
}

func (b *MemoryBus) Subscribe(topic string, h Handler) error {
	b.mu.Lock()
	defer b.mu.Unlock()
	b.subs[topic] = append(b.subs[topic], h)
	return nil
}

func (b *MemoryBus) Close() {}
