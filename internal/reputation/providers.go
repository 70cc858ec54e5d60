// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

package reputation

import (
	"context"
	"fmt"
	"strings"

	"github.com/pdiddy/pub-reputation/internal/openalex"
	"github.com/pdiddy/pub-reputation/pkg/types"
)

// MetadataRegistry resolves an identifier to its canonical record.
// *pubmed.Client implements it.
type MetadataRegistry interface {
	Summary(ctx context.Context, id string) (types.PublicationRecord, error)
}

// CitationIndex counts records citing an identifier. *pubmed.Client
// implements it.
type CitationIndex interface {
	CitedByCount(ctx context.Context, id string) (int, error)
}

// AuthorityIndex finds venues and authors by display name and reports their
// output volume. *openalex.Client implements it. A nil entity with a nil
// error means no match.
type AuthorityIndex interface {
	SearchSource(ctx context.Context, name string) (*openalex.Entity, error)
	SearchAuthor(ctx context.Context, name string) (*openalex.Entity, error)
}

// Signal names used in degradation reports and logs.
const (
	SignalCitations   = "citations"
	SignalVenueWorks  = "venue_activity"
	SignalAuthorWorks = "author_activity"
)

// Signal is the result of an optional lookup. It always carries a usable
// Value; Degraded is non-nil when Value is a default substituted for a
// failed lookup.
type Signal struct {
	Value    int
	Degraded error
}

func observed(v int) Signal { return Signal{Value: max(0, v)} }

func degraded(name string, err error) Signal {
	return Signal{Degraded: fmt.Errorf("%s: %w", name, err)}
}

// CitationProvider turns citation lookups into signals that never fail.
type CitationProvider struct {
	Index CitationIndex
}

// Fetch returns the cited-by count for id, or a degraded zero.
func (p CitationProvider) Fetch(ctx context.Context, id string) Signal {
	n, err := p.Index.CitedByCount(ctx, id)
	if err != nil {
		return degraded(SignalCitations, err)
	}
	return observed(n)
}

// AuthorityProvider turns venue and author lookups into signals that never
// fail. The two lookups share nothing.
type AuthorityProvider struct {
	Index AuthorityIndex
}

// FetchVenueActivity returns the venue's output volume. A blank name or no
// match is a plain zero; a failed lookup is a degraded zero.
func (p AuthorityProvider) FetchVenueActivity(ctx context.Context, venueName string) Signal {
	return p.fetch(ctx, SignalVenueWorks, venueName, p.Index.SearchSource)
}

// FetchAuthorActivity returns the author's output volume, with the same
// defaults as FetchVenueActivity.
func (p AuthorityProvider) FetchAuthorActivity(ctx context.Context, authorName string) Signal {
	return p.fetch(ctx, SignalAuthorWorks, authorName, p.Index.SearchAuthor)
}

func (p AuthorityProvider) fetch(ctx context.Context, signal, name string,
	search func(context.Context, string) (*openalex.Entity, error)) Signal {
	if strings.TrimSpace(name) == "" {
		return observed(0)
	}
	e, err := search(ctx, name)
	if err != nil {
		return degraded(signal, err)
	}
	if e == nil {
		return observed(0)
	}
	return observed(e.WorksCount)
}
