// Copyright (c) 2026 Daniel Alarcon Rubio / Relabs Tech
// SPDX-License-Identifier: MIT
// See LICENSE file for full license text

// Package session runs a periodic sample generator for the lifetime of a
// monitoring session. A session is either idle or running; starting it
// clears its history and spawns one tick goroutine, stopping it cancels the
// goroutine and waits for it to exit.
package session

import (
	"context"
	"errors"
	"log"
	"sync"
	"time"

	"github.com/google/uuid"

	"github.com/relabs-tech/ratonaut/internal/clock"
	"github.com/relabs-tech/ratonaut/internal/history"
)

var (
	ErrAlreadyRunning = errors.New("session already running")
	ErrNotRunning     = errors.New("session not running")
)

// Config describes a session.
type Config[T any] struct {
	Name     string
	Interval time.Duration
	Capacity int
	Clock    clock.Clock

	// Generate produces the sample for the tick at now.
	Generate func(now time.Time) T

	// OnStart runs before the first tick of every run, OnStop after the
	// last one with the final history.
	OnStart func(info Info)
	OnStop  func(info Info, history []T)
}

// Info identifies one run of a session.
type Info struct {
	ID        string    `json:"id"`
	Name      string    `json:"name"`
	Running   bool      `json:"running"`
	StartedAt time.Time `json:"startedAt,omitempty"`
	Ticks     int       `json:"ticks"`
}

// Session owns the timer, the history buffer and the sample observers of
// one stream.
type Session[T any] struct {
	cfg Config[T]

	mu        sync.Mutex
	buf       *history.Buffer[T]
	observers []func(T)
	info      Info
	cancel    context.CancelFunc
	done      chan struct{}
}

// New returns an idle session.
func New[T any](cfg Config[T]) *Session[T] {
	if cfg.Clock == nil {
		cfg.Clock = clock.Real
	}
	return &Session[T]{
		cfg:  cfg,
		buf:  history.New[T](cfg.Capacity),
		info: Info{Name: cfg.Name},
	}
}

// Observe registers fn to receive every sample. Observers run on the tick
// goroutine in registration order and must not call Stop.
func (s *Session[T]) Observe(fn func(T)) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.observers = append(s.observers, fn)
}

// Start transitions the session to running. The session stops by itself if
// ctx is cancelled.
func (s *Session[T]) Start(ctx context.Context) error {
	s.mu.Lock()
	if s.isRunning() {
		s.mu.Unlock()
		return ErrAlreadyRunning
	}
	if s.done != nil {
		// previous run ended through ctx; finish its bookkeeping first
		s.mu.Unlock()
		s.finish()
		s.mu.Lock()
	}

	s.buf.Clear()
	s.info = Info{
		ID:        uuid.NewString(),
		Name:      s.cfg.Name,
		Running:   true,
		StartedAt: s.cfg.Clock.Now(),
	}
	info := s.info

	runCtx, cancel := context.WithCancel(ctx)
	s.cancel = cancel
	s.done = make(chan struct{})
	ticker := s.cfg.Clock.NewTicker(s.cfg.Interval)
	s.mu.Unlock()

	if s.cfg.OnStart != nil {
		s.cfg.OnStart(info)
	}
	log.Printf("session: %s started (%s, every %s)", s.cfg.Name, info.ID, s.cfg.Interval)

	go s.run(runCtx, ticker, s.done)
	return nil
}

func (s *Session[T]) run(ctx context.Context, ticker clock.Ticker, done chan struct{}) {
	defer close(done)
	defer ticker.Stop()

	for {
		select {
		case <-ctx.Done():
			return
		case now := <-ticker.C():
			if ctx.Err() != nil {
				return
			}
			s.tick(now)
		}
	}
}

func (s *Session[T]) tick(now time.Time) {
	sample := s.cfg.Generate(now)

	s.mu.Lock()
	s.buf.Append(sample)
	s.info.Ticks++
	observers := s.observers
	s.mu.Unlock()

	for _, fn := range observers {
		fn(sample)
	}
}

// Stop cancels the tick goroutine and blocks until it has exited, so no
// sample is produced after Stop returns.
func (s *Session[T]) Stop() error {
	s.mu.Lock()
	if s.done == nil {
		s.mu.Unlock()
		return ErrNotRunning
	}
	s.mu.Unlock()

	s.finish()
	return nil
}

// finish cancels and joins the current run, then runs OnStop once.
func (s *Session[T]) finish() {
	s.mu.Lock()
	cancel, done := s.cancel, s.done
	s.mu.Unlock()
	if done == nil {
		return
	}

	cancel()
	<-done

	s.mu.Lock()
	if s.done != done {
		// another caller finished this run
		s.mu.Unlock()
		return
	}
	s.done = nil
	s.cancel = nil
	s.info.Running = false
	info := s.info
	hist := s.buf.Read()
	s.mu.Unlock()

	log.Printf("session: %s stopped (%s, %d ticks)", s.cfg.Name, info.ID, info.Ticks)
	if s.cfg.OnStop != nil {
		s.cfg.OnStop(info, hist)
	}
}

// isRunning reports whether the tick goroutine is alive. Callers hold mu.
func (s *Session[T]) isRunning() bool {
	if s.done == nil {
		return false
	}
	select {
	case <-s.done:
		return false
	default:
		return true
	}
}

// Running reports whether the session is producing samples.
func (s *Session[T]) Running() bool {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.isRunning()
}

// Info describes the current or most recent run.
func (s *Session[T]) Info() Info {
	s.mu.Lock()
	defer s.mu.Unlock()
	info := s.info
	info.Running = s.isRunning()
	return info
}

// History returns the buffered samples, oldest first.
func (s *Session[T]) History() []T {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.buf.Read()
}

// Latest returns the newest sample of the current or most recent run.
func (s *Session[T]) Latest() (T, bool) {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.buf.Last()
}
