// Copyright (c) 2026 Daniel Alarcon Rubio / Relabs Tech
// SPDX-License-Identifier: MIT
// See LICENSE file for full license text

package actuation

import (
	"fmt"
	"io"
	"log"
	"sync"
	"time"

	serial "github.com/jacobsa/go-serial/serial"
)

// serialQueue bounds the number of commands waiting for the UART. Commands
// beyond it are dropped; a late cue is worse than a missing one.
const serialQueue = 8

// Serial drives a buzzer/vibration board over a UART using a line protocol:
//
//	TONE <hz> <waveform> <ms> <gain>
//	PULSE <ms>
type Serial struct {
	port io.WriteCloser
	cmds chan string
	done chan struct{}

	mu     sync.Mutex
	closed bool
}

// OpenSerial opens the board's serial port.
func OpenSerial(portName string, baudRate int) (*Serial, error) {
	opts := serial.OpenOptions{
		PortName:              portName,
		BaudRate:              uint(baudRate),
		DataBits:              8,
		StopBits:              1,
		MinimumReadSize:       1,
		ParityMode:            serial.PARITY_NONE,
		InterCharacterTimeout: 0,
	}

	port, err := serial.Open(opts)
	if err != nil {
		return nil, fmt.Errorf("actuation: open serial %s: %w", portName, err)
	}
	log.Printf("actuation: serial board on %s at %d baud", portName, baudRate)
	return NewSerial(port), nil
}

// NewSerial wraps an already open port.
func NewSerial(port io.WriteCloser) *Serial {
	s := &Serial{
		port: port,
		cmds: make(chan string, serialQueue),
		done: make(chan struct{}),
	}
	go s.run()
	return s
}

func (s *Serial) run() {
	defer close(s.done)
	for cmd := range s.cmds {
		if _, err := io.WriteString(s.port, cmd); err != nil {
			log.Printf("actuation: serial write error: %v", err)
		}
	}
}

func (s *Serial) Capabilities() Capabilities { return Capabilities{Audio: true, Haptics: true} }

func (s *Serial) Tone(t Tone) {
	s.send(fmt.Sprintf("TONE %.0f %s %d %.3f\n", t.Frequency, t.Waveform, t.Duration.Milliseconds(), t.Gain))
}

func (s *Serial) Pulse(d time.Duration) {
	s.send(fmt.Sprintf("PULSE %d\n", d.Milliseconds()))
}

func (s *Serial) send(cmd string) {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.closed {
		return
	}
	select {
	case s.cmds <- cmd:
	default:
		log.Printf("actuation: serial queue full, dropping %q", cmd)
	}
}

// Close flushes queued commands and closes the port.
func (s *Serial) Close() error {
	s.mu.Lock()
	if s.closed {
		s.mu.Unlock()
		return nil
	}
	s.closed = true
	close(s.cmds)
	s.mu.Unlock()

	<-s.done
	return s.port.Close()
}
