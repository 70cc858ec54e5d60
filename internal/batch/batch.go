// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

// Package batch scores a list of identifiers read from a YAML file and
// writes the reports, with any degraded signals, back out as YAML.
package batch

import (
	"context"
	"fmt"
	"os"
	"strings"
	"time"

	"go.yaml.in/yaml/v3"

	"github.com/pdiddy/pub-reputation/internal/reputation"
)

// Request is the on-disk input:
//
//	identifiers:
//	  - "31452104"
//	  - https://pubmed.ncbi.nlm.nih.gov/29561432/
type Request struct {
	Identifiers []string `yaml:"identifiers"`
}

// Entry is the outcome for one identifier. Exactly one of Evaluation and
// Error is set.
type Entry struct {
	Identifier string                 `yaml:"identifier"`
	Evaluation *reputation.Evaluation `yaml:"evaluation,omitempty"`
	Error      string                 `yaml:"error,omitempty"`
}

// Summary counts outcomes across the batch.
type Summary struct {
	Total     int       `yaml:"total"`
	Scored    int       `yaml:"scored"`
	Failed    int       `yaml:"failed"`
	Degraded  int       `yaml:"degraded"`
	Timestamp time.Time `yaml:"timestamp"`
}

// File is the on-disk output.
type File struct {
	Results []Entry `yaml:"results"`
	Summary Summary `yaml:"summary"`
}

// Scorer is satisfied by *reputation.Engine.
type Scorer interface {
	Evaluate(ctx context.Context, id string) (reputation.Evaluation, error)
}

// Run scores ids in order. A failed identifier does not stop the batch;
// a cancelled context marks the remaining identifiers failed.
func Run(ctx context.Context, s Scorer, ids []string, now func() time.Time) File {
	if now == nil {
		now = time.Now
	}
	f := File{Results: make([]Entry, 0, len(ids))}
	for _, id := range ids {
		entry := Entry{Identifier: id}
		if err := ctx.Err(); err != nil {
			entry.Error = err.Error()
		} else if ev, err := s.Evaluate(ctx, id); err != nil {
			entry.Error = err.Error()
		} else {
			entry.Evaluation = &ev
		}

		switch {
		case entry.Error != "":
			f.Summary.Failed++
		default:
			f.Summary.Scored++
			if len(entry.Evaluation.Degraded) > 0 {
				f.Summary.Degraded++
			}
		}
		f.Results = append(f.Results, entry)
	}
	f.Summary.Total = len(ids)
	f.Summary.Timestamp = now().UTC()
	return f
}

// HasFailures reports whether any identifier failed.
func (f File) HasFailures() bool {
	return f.Summary.Failed > 0
}

// ReadRequest loads a batch request. Blank entries are dropped.
func ReadRequest(path string) (Request, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return Request{}, fmt.Errorf("reading batch file: %w", err)
	}
	var req Request
	if err := yaml.Unmarshal(data, &req); err != nil {
		return Request{}, fmt.Errorf("parsing batch file: %w", err)
	}
	ids := req.Identifiers[:0]
	for _, id := range req.Identifiers {
		if id = strings.TrimSpace(id); id != "" {
			ids = append(ids, id)
		}
	}
	req.Identifiers = ids
	if len(req.Identifiers) == 0 {
		return Request{}, fmt.Errorf("batch file %s lists no identifiers", path)
	}
	return req, nil
}

// Marshal renders f as YAML.
func Marshal(f File) ([]byte, error) {
	data, err := yaml.Marshal(&f)
	if err != nil {
		return nil, fmt.Errorf("marshaling batch results: %w", err)
	}
	return data, nil
}

// WriteFile saves f to path as YAML.
func WriteFile(path string, f File) error {
	data, err := Marshal(f)
	if err != nil {
		return err
	}
	return os.WriteFile(path, data, 0o644)
}

// ReadFile loads results previously written by WriteFile.
func ReadFile(path string) (*File, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("reading batch results: %w", err)
	}
	var f File
	if err := yaml.Unmarshal(data, &f); err != nil {
		return nil, fmt.Errorf("parsing batch results: %w", err)
	}
	return &f, nil
}
