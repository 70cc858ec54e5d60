// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

// Package pubmed reads the primary registry through the NCBI E-utilities:
// esummary for record metadata, elink for the cited-by graph, esearch for
// queries, and efetch for titles and abstracts.
package pubmed

import (
	"errors"
	"net/url"
	"regexp"
	"strings"

	"github.com/pdiddy/pub-reputation/internal/httputil"
	"github.com/pdiddy/pub-reputation/pkg/types"
)

// DefaultBaseURL is the E-utilities root.
const DefaultBaseURL = "https://eutils.ncbi.nlm.nih.gov/entrez/eutils"

// DefaultTool names this process to NCBI.
const DefaultTool = "pub-reputation"

// NCBI request ceilings, per second.
const (
	rateAnonymous = 3.0
	rateWithKey   = 10.0
)

// ErrNotFound is returned when the registry has no record for an identifier.
var ErrNotFound = errors.New("pubmed: record not found")

// ErrEmptyQuery is returned by Search for a blank query.
var ErrEmptyQuery = errors.New("pubmed: empty query")

// Client calls E-utilities. It is safe for concurrent use.
type Client struct {
	http    *httputil.Client
	baseURL string
	ident   url.Values
}

// NewClient creates a registry client. The rate limit follows NCBI policy
// for cfg.APIKey; opts may override it and the transport.
func NewClient(cfg types.NCBIConfig, opts ...httputil.ClientOption) *Client {
	limit := rateAnonymous
	if cfg.APIKey != "" {
		limit = rateWithKey
	}
	base := strings.TrimRight(cfg.BaseURL, "/")
	if base == "" {
		base = DefaultBaseURL
	}
	tool := cfg.Tool
	if tool == "" {
		tool = DefaultTool
	}

	ident := url.Values{"tool": {tool}}
	if cfg.Email != "" {
		ident.Set("email", cfg.Email)
	}
	if cfg.APIKey != "" {
		ident.Set("api_key", cfg.APIKey)
	}

	all := append([]httputil.ClientOption{httputil.WithRateLimit(limit)}, opts...)
	return &Client{
		http:    httputil.NewClient("PubMed", all...),
		baseURL: base,
		ident:   ident,
	}
}

// params merges the identifying parameters into p.
func (c *Client) params(p url.Values) url.Values {
	for k, v := range c.ident {
		p[k] = v
	}
	return p
}

func (c *Client) endpoint(name string) string {
	return c.baseURL + "/" + name
}

var pubmedURLPattern = regexp.MustCompile(`pubmed\.ncbi\.nlm\.nih\.gov/(\d+)`)

// ParsePMID extracts the PMID from a PubMed article URL. Any other input is
// returned trimmed, unchanged.
func ParsePMID(s string) string {
	s = strings.TrimSpace(s)
	if m := pubmedURLPattern.FindStringSubmatch(s); m != nil {
		return m[1]
	}
	return s
}

// ArticleURL returns the public page for pmid.
func ArticleURL(pmid string) string {
	return "https://pubmed.ncbi.nlm.nih.gov/" + pmid + "/"
}
