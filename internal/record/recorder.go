// Copyright (c) 2026 Daniel Alarcon Rubio / Relabs Tech
// SPDX-License-Identifier: MIT
// See LICENSE file for full license text

// Package record persists a monitoring run to disk: one CSV row per sample
// and a YAML summary written when the run stops.
package record

import (
	"bufio"
	"encoding/csv"
	"fmt"
	"os"
	"path/filepath"
	"sync"
	"time"

	"gopkg.in/yaml.v3"

	"github.com/relabs-tech/ratonaut/internal/history"
)

const (
	SamplesFile = "samples.csv"
	SummaryFile = "summary.yaml"
)

// Recorder creates run directories under a root directory.
type Recorder struct {
	dir string
}

func New(dir string) *Recorder {
	return &Recorder{dir: dir}
}

// Summary is the document written to summary.yaml.
type Summary struct {
	Session   string                     `yaml:"session"`
	Stream    string                     `yaml:"stream"`
	StartedAt time.Time                  `yaml:"started_at"`
	StoppedAt time.Time                  `yaml:"stopped_at"`
	Rows      uint64                     `yaml:"rows"`
	Fields    map[string]history.Summary `yaml:"fields"`
	Extra     any                        `yaml:"extra,omitempty"`
}

// Run is an open recording. WriteRow is safe for concurrent use.
type Run struct {
	mu   sync.Mutex
	dir  string
	file *os.File
	buf  *bufio.Writer
	csv  *csv.Writer
	rows uint64
}

// Begin creates <dir>/<session> and writes the CSV header.
func (r *Recorder) Begin(session string, header []string) (*Run, error) {
	runDir := filepath.Join(r.dir, session)
	if err := os.MkdirAll(runDir, 0o755); err != nil {
		return nil, fmt.Errorf("record: create %s: %w", runDir, err)
	}

	path := filepath.Join(runDir, SamplesFile)
	f, err := os.Create(path)
	if err != nil {
		return nil, fmt.Errorf("record: create %s: %w", path, err)
	}

	bw := bufio.NewWriterSize(f, 64*1024)
	cw := csv.NewWriter(bw)
	if err := cw.Write(header); err != nil {
		f.Close()
		return nil, fmt.Errorf("record: write header: %w", err)
	}

	return &Run{dir: runDir, file: f, buf: bw, csv: cw}, nil
}

// Dir is the run directory.
func (run *Run) Dir() string { return run.dir }

// WriteRow appends one sample row. Write errors surface on Finish.
func (run *Run) WriteRow(row []string) {
	run.mu.Lock()
	defer run.mu.Unlock()
	if run.file == nil {
		return
	}
	_ = run.csv.Write(row)
	run.rows++
}

// Rows returns the number of data rows written.
func (run *Run) Rows() uint64 {
	run.mu.Lock()
	defer run.mu.Unlock()
	return run.rows
}

// Finish flushes and closes the CSV file, then writes summary.yaml. The
// summary's Rows field is filled in from the run.
func (run *Run) Finish(sum Summary) error {
	run.mu.Lock()
	defer run.mu.Unlock()
	if run.file == nil {
		return fmt.Errorf("record: run %s already finished", run.dir)
	}

	run.csv.Flush()
	err := run.csv.Error()
	if ferr := run.buf.Flush(); err == nil {
		err = ferr
	}
	if cerr := run.file.Close(); err == nil {
		err = cerr
	}
	run.file = nil
	if err != nil {
		return fmt.Errorf("record: flush samples: %w", err)
	}

	sum.Rows = run.rows
	out, err := yaml.Marshal(sum)
	if err != nil {
		return fmt.Errorf("record: encode summary: %w", err)
	}
	path := filepath.Join(run.dir, SummaryFile)
	if err := os.WriteFile(path, out, 0o644); err != nil {
		return fmt.Errorf("record: write %s: %w", path, err)
	}
	return nil
}
