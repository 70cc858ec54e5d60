// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

// Package types defines shared data structures for the pub-reputation engine:
// the publication record resolved from the primary registry, the raw
// enrichment signals, and the five-facet report returned to callers.
package types

import (
	"encoding/json"
	"fmt"
)

// FallbackPublicationYear is used when the registry's publication date does
// not begin with a parseable year. It deliberately scores as very old.
const FallbackPublicationYear = 1900

// PublicationRecord is the canonical metadata for one publication.
// Empty VenueName or PrimaryAuthorName means the registry did not report one.
type PublicationRecord struct {
	VenueName         string `json:"venue_name,omitempty" yaml:"venue_name,omitempty"`
	PublicationYear   int    `json:"publication_year" yaml:"publication_year"`
	PrimaryAuthorName string `json:"primary_author_name,omitempty" yaml:"primary_author_name,omitempty"`
	IsOpenAccess      bool   `json:"is_open_access" yaml:"is_open_access"`
}

// CitationSignal is the number of distinct records citing the publication.
type CitationSignal struct {
	Count int `json:"count" yaml:"count"`
}

// AuthoritySignal holds the output volumes of the publication's venue and
// primary author as reported by the secondary index.
type AuthoritySignal struct {
	VenueOutputVolume  int `json:"venue_output_volume" yaml:"venue_output_volume"`
	AuthorOutputVolume int `json:"author_output_volume" yaml:"author_output_volume"`
}

// Report facet names. These are the externally observable keys.
const (
	FacetCitations       = "Citations"
	FacetOpenAccess      = "Open Access"
	FacetRecency         = "Recency"
	FacetJournalActivity = "Journal Activity"
	FacetAuthorActivity  = "Author Activity"
)

// Report is the composite reputation of a publication. Every field is an
// integer in [0, 100].
type Report struct {
	Citations       int
	OpenAccess      int
	Recency         int
	JournalActivity int
	AuthorActivity  int
}

// Components returns the report keyed by facet name.
func (r Report) Components() map[string]int {
	return map[string]int{
		FacetCitations:       r.Citations,
		FacetOpenAccess:      r.OpenAccess,
		FacetRecency:         r.Recency,
		FacetJournalActivity: r.JournalActivity,
		FacetAuthorActivity:  r.AuthorActivity,
	}
}

// reportWire is the serialized shape shared by JSON and YAML.
type reportWire struct {
	Components reportComponents `json:"components" yaml:"components"`
}

type reportComponents struct {
	Citations       int `json:"Citations" yaml:"Citations"`
	OpenAccess      int `json:"Open Access" yaml:"Open Access"`
	Recency         int `json:"Recency" yaml:"Recency"`
	JournalActivity int `json:"Journal Activity" yaml:"Journal Activity"`
	AuthorActivity  int `json:"Author Activity" yaml:"Author Activity"`
}

func (r Report) wire() reportWire {
	return reportWire{Components: reportComponents{
		Citations:       r.Citations,
		OpenAccess:      r.OpenAccess,
		Recency:         r.Recency,
		JournalActivity: r.JournalActivity,
		AuthorActivity:  r.AuthorActivity,
	}}
}

func (w reportWire) report() Report {
	c := w.Components
	return Report{
		Citations:       c.Citations,
		OpenAccess:      c.OpenAccess,
		Recency:         c.Recency,
		JournalActivity: c.JournalActivity,
		AuthorActivity:  c.AuthorActivity,
	}
}

// MarshalJSON writes the report as {"components": {...}}.
func (r Report) MarshalJSON() ([]byte, error) {
	return json.Marshal(r.wire())
}

// UnmarshalJSON reads the {"components": {...}} shape.
func (r *Report) UnmarshalJSON(data []byte) error {
	var w reportWire
	if err := json.Unmarshal(data, &w); err != nil {
		return fmt.Errorf("decoding report: %w", err)
	}
	*r = w.report()
	return nil
}

// MarshalYAML writes the report with the same keys as the JSON form.
func (r Report) MarshalYAML() (any, error) {
	return r.wire(), nil
}

// UnmarshalYAML reads the same shape MarshalYAML writes.
func (r *Report) UnmarshalYAML(unmarshal func(any) error) error {
	var w reportWire
	if err := unmarshal(&w); err != nil {
		return err
	}
	*r = w.report()
	return nil
}
