// Copyright (c) 2026 Daniel Alarcon Rubio / Relabs Tech
// SPDX-License-Identifier: MIT
// See LICENSE file for full license text

package app

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"log"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/relabs-tech/ratonaut/internal/config"
	"github.com/relabs-tech/ratonaut/internal/feedback"
	"github.com/relabs-tech/ratonaut/internal/gait"
	"github.com/relabs-tech/ratonaut/internal/session"
	"github.com/relabs-tech/ratonaut/internal/stability"
	"github.com/relabs-tech/ratonaut/internal/telemetry"
)

// Event is the envelope pushed to websocket clients.
type Event struct {
	Type string `json:"type"` // "telemetry", "stability" or "cue"
	Data any    `json:"data"`
}

// WebServer serves the monitoring API and pushes live events over /ws.
type WebServer struct {
	mon *Monitor
	hub *Hub
	mux *http.ServeMux

	// sessions started over HTTP outlive the request
	ctx context.Context
}

// NewWebServer registers the API on a fresh mux. Sessions started through
// the API stop when ctx is cancelled.
func NewWebServer(ctx context.Context, mon *Monitor, staticDir string) *WebServer {
	s := &WebServer{mon: mon, hub: NewHub(), mux: http.NewServeMux(), ctx: ctx}

	mon.ObserveTelemetry(func(r telemetry.Reading) { s.hub.BroadcastJSON(Event{Type: "telemetry", Data: r}) })
	mon.ObserveStability(func(st stability.Sample) { s.hub.BroadcastJSON(Event{Type: "stability", Data: st}) })
	mon.ObserveCues(func(c feedback.Cue) { s.hub.BroadcastJSON(Event{Type: "cue", Data: c}) })

	s.mux.HandleFunc("GET /api/telemetry", func(w http.ResponseWriter, r *http.Request) {
		writeJSON(w, http.StatusOK, mon.Telemetry())
	})
	s.mux.HandleFunc("POST /api/telemetry/start", s.control(mon.StartTelemetry, nil))
	s.mux.HandleFunc("POST /api/telemetry/stop", s.control(nil, mon.StopTelemetry))

	s.mux.HandleFunc("GET /api/stability", func(w http.ResponseWriter, r *http.Request) {
		writeJSON(w, http.StatusOK, mon.Stability())
	})
	s.mux.HandleFunc("POST /api/stability/start", s.control(mon.StartStability, nil))
	s.mux.HandleFunc("POST /api/stability/stop", s.control(nil, mon.StopStability))
	s.mux.HandleFunc("GET /api/stability/report", s.handleReport)

	s.mux.HandleFunc("GET /api/profile", func(w http.ResponseWriter, r *http.Request) {
		writeJSON(w, http.StatusOK, mon.Profile())
	})
	s.mux.HandleFunc("PUT /api/profile", s.handleSaveProfile)

	s.mux.HandleFunc("/ws", s.hub.ServeWS)

	if staticDir != "" {
		s.mux.Handle("/", http.FileServer(http.Dir(staticDir)))
	}
	return s
}

func (s *WebServer) Handler() http.Handler { return s.mux }

// Hub exposes the websocket hub, mostly for tests.
func (s *WebServer) Hub() *Hub { return s.hub }

// control adapts a start or stop operation to a POST handler. Invalid state
// transitions map to 409.
func (s *WebServer) control(start func(context.Context) error, stop func() error) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		var err error
		if start != nil {
			err = start(s.ctx)
		} else {
			err = stop()
		}
		switch {
		case errors.Is(err, session.ErrAlreadyRunning), errors.Is(err, session.ErrNotRunning):
			http.Error(w, err.Error(), http.StatusConflict)
		case err != nil:
			http.Error(w, err.Error(), http.StatusInternalServerError)
		default:
			w.WriteHeader(http.StatusNoContent)
		}
	}
}

func (s *WebServer) handleReport(w http.ResponseWriter, r *http.Request) {
	report, err := s.mon.GaitReport()
	if errors.Is(err, gait.ErrNotEnoughSamples) {
		http.Error(w, err.Error(), http.StatusConflict)
		return
	}
	if err != nil {
		http.Error(w, err.Error(), http.StatusInternalServerError)
		return
	}
	writeJSON(w, http.StatusOK, report)
}

func (s *WebServer) handleSaveProfile(w http.ResponseWriter, r *http.Request) {
	p := s.mon.Profile()
	if err := json.NewDecoder(r.Body).Decode(&p); err != nil {
		http.Error(w, fmt.Sprintf("invalid profile: %v", err), http.StatusBadRequest)
		return
	}
	if err := s.mon.SaveProfile(p); err != nil {
		http.Error(w, err.Error(), http.StatusBadRequest)
		return
	}
	writeJSON(w, http.StatusOK, p)
}

func writeJSON(w http.ResponseWriter, status int, v any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	if err := json.NewEncoder(w).Encode(v); err != nil {
		log.Printf("web: json encode error: %v", err)
	}
}

func RunWeb() error {
	cfg := config.Get()

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	mon, cleanup, err := newMonitorFromConfig(cfg, cfg.MQTTClientIDWeb)
	if err != nil {
		return err
	}
	defer cleanup()

	web := NewWebServer(ctx, mon, cfg.WebStaticDir)
	server := &http.Server{
		Addr:              fmt.Sprintf(":%d", cfg.WebServerPort),
		Handler:           web.Handler(),
		ReadHeaderTimeout: 5 * time.Second,
	}

	go func() {
		<-ctx.Done()
		log.Println("web: shutting down")
		shutdownCtx, cancel := context.WithTimeout(context.Background(), 3*time.Second)
		defer cancel()
		_ = server.Shutdown(shutdownCtx)
		web.Hub().CloseAll()
	}()

	log.Printf("web: server listening on %s", server.Addr)
	if err := server.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
		return err
	}
	return nil
}
