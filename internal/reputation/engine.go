// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

// Package reputation computes the five-facet reputation report for a
// publication. The registry lookup gates everything; the citation, venue
// and author lookups run concurrently afterwards, each under its own
// timeout, and a failure in any of them zeroes only its own facet.
package reputation

import (
	"context"
	"fmt"
	"log/slog"
	"strings"
	"sync"
	"time"

	"github.com/pdiddy/pub-reputation/internal/normalize"
	"github.com/pdiddy/pub-reputation/pkg/types"
)

// DefaultTimeout bounds each upstream lookup when the config leaves it zero.
const DefaultTimeout = 15 * time.Second

// Degradation records an optional signal that fell back to its default.
type Degradation struct {
	Signal string `json:"signal" yaml:"signal"`
	Reason string `json:"reason" yaml:"reason"`
}

// Evaluation is a report together with the inputs that produced it.
type Evaluation struct {
	Identifier string                  `json:"identifier" yaml:"identifier"`
	Record     types.PublicationRecord `json:"record" yaml:"record"`
	Citations  types.CitationSignal    `json:"citations" yaml:"citations"`
	Authority  types.AuthoritySignal   `json:"authority" yaml:"authority"`
	Report     types.Report            `json:"report" yaml:"report"`
	Degraded   []Degradation           `json:"degraded,omitempty" yaml:"degraded,omitempty"`
}

// Engine scores publications. It holds no per-request state and is safe
// for concurrent use.
type Engine struct {
	registry  MetadataRegistry
	citations CitationProvider
	authority AuthorityProvider
	cfg       types.ReputationConfig
	clock     func() time.Time
	logger    *slog.Logger
}

// Option configures an Engine.
type Option func(*Engine)

// WithClock sets the source of the current date. Recency is computed from
// its year.
func WithClock(now func() time.Time) Option {
	return func(e *Engine) {
		if now != nil {
			e.clock = now
		}
	}
}

// WithLogger sets the logger for degradation warnings.
func WithLogger(l *slog.Logger) Option {
	return func(e *Engine) {
		if l != nil {
			e.logger = l
		}
	}
}

// NewEngine wires the collaborators. Zero timeouts take DefaultTimeout; a
// zero calibration takes types.DefaultCalibration.
func NewEngine(registry MetadataRegistry, citations CitationIndex, authority AuthorityIndex,
	cfg types.ReputationConfig, opts ...Option) (*Engine, error) {
	if cfg.MetadataTimeout <= 0 {
		cfg.MetadataTimeout = DefaultTimeout
	}
	if cfg.SignalTimeout <= 0 {
		cfg.SignalTimeout = DefaultTimeout
	}
	if cfg.Calibration == (types.Calibration{}) {
		cfg.Calibration = types.DefaultCalibration()
	}
	if err := cfg.Calibration.Validate(); err != nil {
		return nil, err
	}

	e := &Engine{
		registry:  registry,
		citations: CitationProvider{Index: citations},
		authority: AuthorityProvider{Index: authority},
		cfg:       cfg,
		clock:     time.Now,
		logger:    slog.New(slog.DiscardHandler),
	}
	for _, opt := range opts {
		opt(e)
	}
	return e, nil
}

// Score returns the report for id. The only errors are
// ErrInvalidIdentifier and ErrMetadataUnavailable.
func (e *Engine) Score(ctx context.Context, id string) (types.Report, error) {
	ev, err := e.Evaluate(ctx, id)
	if err != nil {
		return types.Report{}, err
	}
	return ev.Report, nil
}

// Evaluate is Score with the intermediate record, raw signals and any
// degradations attached.
func (e *Engine) Evaluate(ctx context.Context, id string) (Evaluation, error) {
	id = strings.TrimSpace(id)
	if id == "" {
		return Evaluation{}, ErrInvalidIdentifier
	}

	record, err := e.fetchRecord(ctx, id)
	if err != nil {
		e.logger.Warn("metadata lookup failed", "pmid", id, "err", err)
		return Evaluation{}, fmt.Errorf("%w: %s: %w", ErrMetadataUnavailable, id, err)
	}

	var (
		wg                   sync.WaitGroup
		cites, venue, author Signal
	)
	run := func(dst *Signal, fetch func(context.Context) Signal) {
		defer wg.Done()
		sctx, cancel := context.WithTimeout(ctx, e.cfg.SignalTimeout)
		defer cancel()
		*dst = fetch(sctx)
	}
	wg.Add(3)
	go run(&cites, func(c context.Context) Signal { return e.citations.Fetch(c, id) })
	go run(&venue, func(c context.Context) Signal { return e.authority.FetchVenueActivity(c, record.VenueName) })
	go run(&author, func(c context.Context) Signal { return e.authority.FetchAuthorActivity(c, record.PrimaryAuthorName) })
	wg.Wait()

	ev := Evaluation{
		Identifier: id,
		Record:     record,
		Citations:  types.CitationSignal{Count: cites.Value},
		Authority: types.AuthoritySignal{
			VenueOutputVolume:  venue.Value,
			AuthorOutputVolume: author.Value,
		},
	}
	for _, s := range []struct {
		name string
		sig  Signal
	}{
		{SignalCitations, cites},
		{SignalVenueWorks, venue},
		{SignalAuthorWorks, author},
	} {
		if s.sig.Degraded == nil {
			continue
		}
		e.logger.Warn("signal degraded", "pmid", id, "signal", s.name, "err", s.sig.Degraded)
		ev.Degraded = append(ev.Degraded, Degradation{Signal: s.name, Reason: s.sig.Degraded.Error()})
	}

	ev.Report = Compute(record, ev.Citations, ev.Authority, e.clock().Year(), e.cfg.Calibration)
	e.logger.Debug("report computed", "pmid", id,
		"citations", ev.Report.Citations,
		"open_access", ev.Report.OpenAccess,
		"recency", ev.Report.Recency,
		"journal_activity", ev.Report.JournalActivity,
		"author_activity", ev.Report.AuthorActivity)
	return ev, nil
}

func (e *Engine) fetchRecord(ctx context.Context, id string) (types.PublicationRecord, error) {
	mctx, cancel := context.WithTimeout(ctx, e.cfg.MetadataTimeout)
	defer cancel()
	return e.registry.Summary(mctx, id)
}

// Compute derives the report from its inputs alone.
func Compute(record types.PublicationRecord, cites types.CitationSignal, auth types.AuthoritySignal,
	currentYear int, cal types.Calibration) types.Report {
	return types.Report{
		Citations:       normalize.ScaleLogarithmic(cites.Count, cal.CitationCap),
		OpenAccess:      normalize.OpenAccessScore(record.IsOpenAccess),
		Recency:         normalize.RecencyScore(record.PublicationYear, currentYear),
		JournalActivity: normalize.ScaleLogarithmic(auth.VenueOutputVolume, cal.VenueWorksCap),
		AuthorActivity:  normalize.ScaleLogarithmic(auth.AuthorOutputVolume, cal.AuthorWorksCap),
	}
}
