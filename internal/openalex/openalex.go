// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

// Package openalex reads venue and author output volumes from the OpenAlex
// scholarly graph.
package openalex

import (
	"context"
	"net/url"
	"strings"

	"github.com/pdiddy/pub-reputation/internal/httputil"
	"github.com/pdiddy/pub-reputation/pkg/types"
)

// DefaultBaseURL is the OpenAlex API root.
const DefaultBaseURL = "https://api.openalex.org"

// OpenAlex asks clients to stay under 10 requests per second.
const defaultRate = 10.0

// Entity is the subset of an OpenAlex source or author record we use.
type Entity struct {
	ID          string `json:"id"`
	DisplayName string `json:"display_name"`
	WorksCount  int    `json:"works_count"`
}

type listResponse struct {
	Meta struct {
		Count int `json:"count"`
	} `json:"meta"`
	Results []Entity `json:"results"`
}

// Client queries OpenAlex. It is safe for concurrent use.
type Client struct {
	http    *httputil.Client
	baseURL string
	email   string
}

// NewClient creates an index client.
func NewClient(cfg types.OpenAlexConfig, opts ...httputil.ClientOption) *Client {
	base := strings.TrimRight(cfg.BaseURL, "/")
	if base == "" {
		base = DefaultBaseURL
	}
	all := append([]httputil.ClientOption{httputil.WithRateLimit(defaultRate)}, opts...)
	return &Client{
		http:    httputil.NewClient("OpenAlex", all...),
		baseURL: base,
		email:   cfg.Email,
	}
}

// SearchSource returns the best display-name match among sources
// (journals, repositories, conferences), or nil when nothing matches.
func (c *Client) SearchSource(ctx context.Context, name string) (*Entity, error) {
	return c.firstMatch(ctx, "sources", name)
}

// SearchAuthor returns the best display-name match among authors, or nil
// when nothing matches.
func (c *Client) SearchAuthor(ctx context.Context, name string) (*Entity, error) {
	return c.firstMatch(ctx, "authors", name)
}

func (c *Client) firstMatch(ctx context.Context, entity, name string) (*Entity, error) {
	name = filterValue(name)
	if name == "" {
		return nil, nil
	}

	params := url.Values{
		"filter":   {"display_name.search:" + name},
		"per-page": {"1"},
	}
	if c.email != "" {
		params.Set("mailto", c.email)
	}

	var resp listResponse
	if err := c.http.GetJSON(ctx, c.baseURL+"/"+entity, params, &resp); err != nil {
		return nil, err
	}
	if len(resp.Results) == 0 {
		return nil, nil
	}
	e := resp.Results[0]
	return &e, nil
}

// filterValue strips the filter syntax characters OpenAlex treats as
// separators (",") and alternation ("|") and collapses whitespace.
func filterValue(name string) string {
	name = strings.NewReplacer(",", " ", "|", " ").Replace(name)
	return strings.Join(strings.Fields(name), " ")
}
