// Copyright (c) 2026 Daniel Alarcon Rubio / Relabs Tech
// SPDX-License-Identifier: MIT
// See LICENSE file for full license text

package stream

import (
	"fmt"
	"log"

	mqtt "github.com/eclipse/paho.mqtt.golang"
)

// MQTTBus publishes retained QoS 0 messages, matching what the consoles and
// display expect when they join mid-session.
type MQTTBus struct {
	client mqtt.Client
}

// DialMQTT connects to broker (e.g. "tcp://localhost:1883").
func DialMQTT(broker, clientID string) (*MQTTBus, error) {
	opts := mqtt.NewClientOptions().
		AddBroker(broker).
		SetClientID(clientID).
		SetAutoReconnect(true)

	client := mqtt.NewClient(opts)
	if token := client.Connect(); token.Wait() && token.Error() != nil {
		return nil, fmt.Errorf("stream: MQTT connect to %s: %w", broker, token.Error())
	}
	log.Printf("stream: connected to MQTT broker at %s as %s", broker, clientID)
	return &MQTTBus{client: client}, nil
}

func (b *MQTTBus) Publish(topic string, v any) error {
	payload, err := encode(topic, v)
	if err != nil {
		return err
	}
	if token := b.client.Publish(topic, 0, true, payload); token.Wait() && token.Error() != nil {
		return fmt.Errorf("stream: MQTT publish %s: %w", topic, token.Error())
	}
	return nil
}

func (b *MQTTBus) Subscribe(topic string, h Handler) error {
	token := b.client.Subscribe(topic, 0, func(_ mqtt.Client, msg mqtt.Message) {
		h(msg.Payload())
	})
	token.Wait()
	if token.Error() != nil {
		return fmt.Errorf("stream: MQTT subscribe %s: %w", topic, token.Error())
	}
	log.Printf("stream: subscribed to MQTT topic %s", topic)
	return nil
}

func (b *MQTTBus) Close() {
	b.client.Disconnect(250)
}
