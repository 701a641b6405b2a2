// Copyright (c) 2026 Daniel Alarcon Rubio / Relabs Tech
// SPDX-License-Identifier: MIT
// See LICENSE file for full license text

package app

import (
	"context"
	"log"
	"math/rand"
	"strconv"
	"sync"
	"time"

	"github.com/relabs-tech/ratonaut/internal/actuation"
	"github.com/relabs-tech/ratonaut/internal/clock"
	"github.com/relabs-tech/ratonaut/internal/feedback"
	"github.com/relabs-tech/ratonaut/internal/gait"
	"github.com/relabs-tech/ratonaut/internal/history"
	"github.com/relabs-tech/ratonaut/internal/kv"
	"github.com/relabs-tech/ratonaut/internal/profile"
	"github.com/relabs-tech/ratonaut/internal/record"
	"github.com/relabs-tech/ratonaut/internal/session"
	"github.com/relabs-tech/ratonaut/internal/stability"
	"github.com/relabs-tech/ratonaut/internal/stream"
	"github.com/relabs-tech/ratonaut/internal/telemetry"
)

// Topics names the bus topics the monitor publishes on.
type Topics struct {
	Telemetry string
	Stability string
	Cue       string
	Profile   string
}

func DefaultTopics() Topics {
	return Topics{
		Telemetry: stream.TopicTelemetry,
		Stability: stream.TopicStability,
		Cue:       stream.TopicCue,
		Profile:   stream.TopicProfile,
	}
}

// MonitorOptions wires a Monitor. Zero values fall back to the defaults of
// each component.
type MonitorOptions struct {
	Clock    clock.Clock
	Seed     int64 // 0 seeds from the clock
	Bus      stream.Bus
	Topics   Topics
	Actuator actuation.Actuator
	Store    kv.Store
	Recorder *record.Recorder // nil disables recording

	TelemetryInterval time.Duration
	StabilityInterval time.Duration
	TelemetryHistory  int
	StabilityHistory  int
	Cooldown          time.Duration
}

// Monitor owns the telemetry and stability sessions and everything a tick
// feeds: the notifier, the bus and the recorder.
type Monitor struct {
	opts MonitorOptions

	telemetry *session.Session[telemetry.Reading]
	stability *session.Session[stability.Sample]
	telSim    *telemetry.Simulator
	stabSim   *stability.Simulator
	notifier  *feedback.Notifier
	profiles  *profile.Store

	mu      sync.RWMutex
	profile profile.Profile
	telRun  *record.Run
	stabRun *record.Run
	cueObs  []func(feedback.Cue)
}

// NewMonitor builds an idle monitor and loads the persisted profile.
func NewMonitor(opts MonitorOptions) *Monitor {
	if opts.Clock == nil {
		opts.Clock = clock.Real
	}
	if opts.Seed == 0 {
		opts.Seed = opts.Clock.Now().UnixNano()
	}
	if opts.Bus == nil {
		opts.Bus = stream.NewMemoryBus()
	}
	if opts.Topics == (Topics{}) {
		opts.Topics = DefaultTopics()
	}
	if opts.Store == nil {
		opts.Store = kv.NewMemoryStore()
	}
	if opts.TelemetryInterval <= 0 {
		opts.TelemetryInterval = telemetry.Interval
	}
	if opts.StabilityInterval <= 0 {
		opts.StabilityInterval = stability.Interval
	}
	if opts.TelemetryHistory <= 0 {
		opts.TelemetryHistory = history.TelemetryCapacity
	}
	if opts.StabilityHistory <= 0 {
		opts.StabilityHistory = history.StabilityCapacity
	}

	m := &Monitor{
		opts: opts,
		// each session goroutine gets its own source
		telSim:   telemetry.NewSimulator(rand.New(rand.NewSource(opts.Seed))),
		stabSim:  stability.NewSimulator(rand.New(rand.NewSource(opts.Seed + 1))),
		notifier: feedback.NewNotifier(opts.Actuator, opts.Clock),
		profiles: profile.NewStore(opts.Store),
	}
	if opts.Cooldown > 0 {
		m.notifier.SetCooldown(opts.Cooldown)
	}
	m.notifier.OnCue = m.publishCue
	m.profile = m.profiles.Load()

	m.telemetry = session.New(session.Config[telemetry.Reading]{
		Name:     "telemetry",
		Interval: opts.TelemetryInterval,
		Capacity: opts.TelemetryHistory,
		Clock:    opts.Clock,
		Generate: func(now time.Time) telemetry.Reading {
			s, added := m.telSim.Next(now)
			return telemetry.Reading{Sample: s, Added: added, Time: now}
		},
		OnStart: m.telemetryStarted,
		OnStop:  m.telemetryStopped,
	})
	m.telemetry.Observe(m.onReading)

	m.stability = session.New(session.Config[stability.Sample]{
		Name:     "stability",
		Interval: opts.StabilityInterval,
		Capacity: opts.StabilityHistory,
		Clock:    opts.Clock,
		Generate: m.stabSim.Next,
		OnStart:  m.stabilityStarted,
		OnStop:   m.stabilityStopped,
	})
	m.stability.Observe(m.onStability)

	return m
}

// ObserveTelemetry registers fn for every telemetry reading.
func (m *Monitor) ObserveTelemetry(fn func(telemetry.Reading)) { m.telemetry.Observe(fn) }

// ObserveStability registers fn for every stability sample.
func (m *Monitor) ObserveStability(fn func(stability.Sample)) { m.stability.Observe(fn) }

// ObserveCues registers fn for every fired cue.
func (m *Monitor) ObserveCues(fn func(feedback.Cue)) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.cueObs = append(m.cueObs, fn)
}

func (m *Monitor) StartTelemetry(ctx context.Context) error { return m.telemetry.Start(ctx) }
func (m *Monitor) StopTelemetry() error                     { return m.telemetry.Stop() }
func (m *Monitor) StartStability(ctx context.Context) error { return m.stability.Start(ctx) }
func (m *Monitor) StopStability() error                     { return m.stability.Stop() }

// Close stops whichever sessions are running.
func (m *Monitor) Close() {
	_ = m.telemetry.Stop()
	_ = m.stability.Stop()
}

// --- telemetry ---

func (m *Monitor) telemetryStarted(info session.Info) {
	m.telSim.Reset()
	m.notifier.Reset()
	m.reloadProfile()

	run := m.beginRun(info, []string{"time", "speed", "pps", "acceleration", "total_steps", "added_steps"})
	m.mu.Lock()
	m.telRun = run
	m.mu.Unlock()
}

func (m *Monitor) onReading(r telemetry.Reading) {
	p := m.Profile()
	m.notifier.Evaluate(r.Sample, r.Added, p.Goals, p.Preferences)

	if err := m.opts.Bus.Publish(m.opts.Topics.Telemetry, r); err != nil {
		log.Printf("monitor: publish telemetry: %v", err)
	}

	m.mu.RLock()
	run := m.telRun
	m.mu.RUnlock()
	if run != nil {
		run.WriteRow([]string{
			strconv.FormatInt(r.Time.UnixMilli(), 10),
			formatFloat(r.Speed, 2),
			formatFloat(r.Cadence, 1),
			formatFloat(r.Acceleration, 2),
			strconv.Itoa(r.TotalSteps),
			strconv.Itoa(r.Added),
		})
	}
}

func (m *Monitor) telemetryStopped(info session.Info, hist []telemetry.Reading) {
	m.mu.Lock()
	run := m.telRun
	m.telRun = nil
	m.mu.Unlock()
	if run == nil {
		return
	}
	m.finishRun(run, info, telemetrySummary(hist), nil)
}

func telemetrySummary(hist []telemetry.Reading) map[string]history.Summary {
	return map[string]history.Summary{
		"speed":        history.SummarizeBy(hist, func(r telemetry.Reading) float64 { return r.Speed }),
		"pps":          history.SummarizeBy(hist, func(r telemetry.Reading) float64 { return r.Cadence }),
		"acceleration": history.SummarizeBy(hist, func(r telemetry.Reading) float64 { return r.Acceleration }),
	}
}

// --- stability ---

func (m *Monitor) stabilityStarted(info session.Info) {
	run := m.beginRun(info, []string{"time", "tilt_x", "tilt_y", "vibration", "symmetry"})
	m.mu.Lock()
	m.stabRun = run
	m.mu.Unlock()
}

func (m *Monitor) onStability(s stability.Sample) {
	if err := m.opts.Bus.Publish(m.opts.Topics.Stability, s); err != nil {
		log.Printf("monitor: publish stability: %v", err)
	}

	m.mu.RLock()
	run := m.stabRun
	m.mu.RUnlock()
	if run != nil {
		run.WriteRow([]string{
			strconv.FormatInt(s.Time.UnixMilli(), 10),
			formatFloat(s.TiltX, 1),
			formatFloat(s.TiltY, 1),
			formatFloat(s.Vibration, 2),
			formatFloat(s.SymmetryScore, 0),
		})
	}
}

func (m *Monitor) stabilityStopped(info session.Info, hist []stability.Sample) {
	m.mu.Lock()
	run := m.stabRun
	m.stabRun = nil
	m.mu.Unlock()
	if run == nil {
		return
	}

	var extra any
	if st, err := gait.Analyze(hist); err == nil {
		extra = st
	}
	m.finishRun(run, info, stabilitySummary(hist), extra)
}

func stabilitySummary(hist []stability.Sample) map[string]history.Summary {
	return map[string]history.Summary{
		"tiltX":         history.SummarizeBy(hist, func(s stability.Sample) float64 { return s.TiltX }),
		"tiltY":         history.SummarizeBy(hist, func(s stability.Sample) float64 { return s.TiltY }),
		"vibration":     history.SummarizeBy(hist, func(s stability.Sample) float64 { return s.Vibration }),
		"symmetryScore": history.SummarizeBy(hist, func(s stability.Sample) float64 { return s.SymmetryScore }),
	}
}

// --- recording ---

func (m *Monitor) beginRun(info session.Info, header []string) *record.Run {
	if m.opts.Recorder == nil {
		return nil
	}
	run, err := m.opts.Recorder.Begin(info.ID, header)
	if err != nil {
		log.Printf("monitor: %s recording disabled: %v", info.Name, err)
		return nil
	}
	log.Printf("monitor: recording %s to %s", info.Name, run.Dir())
	return run
}

func (m *Monitor) finishRun(run *record.Run, info session.Info, fields map[string]history.Summary, extra any) {
	err := run.Finish(record.Summary{
		Session:   info.ID,
		Stream:    info.Name,
		StartedAt: info.StartedAt,
		StoppedAt: m.opts.Clock.Now(),
		Fields:    fields,
		Extra:     extra,
	})
	if err != nil {
		log.Printf("monitor: finish %s recording: %v", info.Name, err)
	}
}

// --- cues ---

func (m *Monitor) publishCue(c feedback.Cue) {
	if err := m.opts.Bus.Publish(m.opts.Topics.Cue, c); err != nil {
		log.Printf("monitor: publish cue: %v", err)
	}
	m.mu.RLock()
	obs := m.cueObs
	m.mu.RUnlock()
	for _, fn := range obs {
		fn(c)
	}
}

// --- profile ---

// Profile returns the profile the notifier currently evaluates against.
func (m *Monitor) Profile() profile.Profile {
	m.mu.RLock()
	defer m.mu.RUnlock()
	return m.profile
}

// SaveProfile persists p, makes it current and announces it on the bus.
func (m *Monitor) SaveProfile(p profile.Profile) error {
	if err := m.profiles.Save(p); err != nil {
		return err
	}
	m.mu.Lock()
	m.profile = p
	m.mu.Unlock()

	if err := m.opts.Bus.Publish(m.opts.Topics.Profile, p); err != nil {
		log.Printf("monitor: publish profile: %v", err)
	}
	return nil
}

func (m *Monitor) reloadProfile() {
	p := m.profiles.Load()
	m.mu.Lock()
	m.profile = p
	m.mu.Unlock()
}

// --- snapshots ---

// TelemetrySnapshot is the state served by GET /api/telemetry.
type TelemetrySnapshot struct {
	Session session.Info               `json:"session"`
	Latest  *telemetry.Reading         `json:"latest,omitempty"`
	History []telemetry.Reading        `json:"history"`
	Chart   []telemetry.ChartPoint     `json:"chart"`
	Summary map[string]history.Summary `json:"summary"`
}

func (m *Monitor) Telemetry() TelemetrySnapshot {
	hist := m.telemetry.History()
	snap := TelemetrySnapshot{
		Session: m.telemetry.Info(),
		History: hist,
		Chart:   telemetry.Chart(hist),
		Summary: telemetrySummary(hist),
	}
	if len(hist) > 0 {
		last := hist[len(hist)-1]
		snap.Latest = &last
	}
	return snap
}

// StabilitySnapshot is the state served by GET /api/stability.
type StabilitySnapshot struct {
	Session session.Info               `json:"session"`
	Latest  *stability.Sample          `json:"latest,omitempty"`
	History []stability.Sample         `json:"history"`
	Summary map[string]history.Summary `json:"summary"`
}

func (m *Monitor) Stability() StabilitySnapshot {
	hist := m.stability.History()
	snap := StabilitySnapshot{
		Session: m.stability.Info(),
		History: hist,
		Summary: stabilitySummary(hist),
	}
	if len(hist) > 0 {
		last := hist[len(hist)-1]
		snap.Latest = &last
	}
	return snap
}

// GaitReport builds the analysis prompt from the stability history.
func (m *Monitor) GaitReport() (gait.Report, error) {
	return gait.Build(m.stability.History())
}

func formatFloat(v float64, places int) string {
	return strconv.FormatFloat(v, 'f', places, 64)
}
