// Copyright (c) 2026 Daniel Alarcon Rubio / Relabs Tech
// SPDX-License-Identifier: MIT
// See LICENSE file for full license text

package stream

import "fmt"

// Bus kinds accepted by Open.
const (
	KindMQTT = "mqtt"
	KindNATS = "nats"
	KindNone = "none"
)

// Open connects the bus selected by kind. KindNone returns a MemoryBus so a
// process can run without any broker.
func Open(kind, mqttBroker, natsURL, clientID string) (Bus, error) {
	switch kind {
	case KindMQTT:
		return DialMQTT(mqttBroker, clientID)
	case KindNATS:
		return DialNATS(natsURL, clientID)
	case KindNone, "":
		return NewMemoryBus(), nil
	default:
		return nil, fmt.Errorf("stream: unknown bus %q", kind)
	}
}
