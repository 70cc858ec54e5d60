// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

package pubmed

import (
	"context"
	"net/url"
	"strconv"
	"strings"

	"github.com/pdiddy/pub-reputation/pkg/types"
)

const (
	defaultSearchResults = 20
	maxSearchResults     = 200

	fallbackDate    = "1900-01-01"
	untitledArticle = "No Title Available"
)

type esearchResponse struct {
	Result struct {
		IDList []string `json:"idlist"`
	} `json:"esearchresult"`
}

// Search runs a relevance-sorted esearch for query and resolves the hits
// through a single batched esummary call. Order follows the registry's
// relevance ranking.
func (c *Client) Search(ctx context.Context, query string, maxResults int) ([]types.ArticleSummary, error) {
	query = strings.TrimSpace(query)
	if query == "" {
		return nil, ErrEmptyQuery
	}
	if maxResults <= 0 {
		maxResults = defaultSearchResults
	}
	if maxResults > maxSearchResults {
		maxResults = maxSearchResults
	}

	params := c.params(url.Values{
		"db":      {"pubmed"},
		"term":    {query},
		"retmax":  {strconv.Itoa(maxResults)},
		"retmode": {"json"},
		"sort":    {"relevance"},
	})

	var sr esearchResponse
	if err := c.http.GetJSON(ctx, c.endpoint("esearch.fcgi"), params, &sr); err != nil {
		return nil, err
	}
	ids := sr.Result.IDList
	if len(ids) == 0 {
		return []types.ArticleSummary{}, nil
	}

	docs, err := c.summaries(ctx, ids)
	if err != nil {
		return nil, err
	}

	results := make([]types.ArticleSummary, 0, len(ids))
	for _, id := range ids {
		doc, ok := docs[id]
		if !ok {
			continue
		}
		title := strings.TrimSpace(doc.Title)
		if title == "" {
			title = untitledArticle
		}
		results = append(results, types.ArticleSummary{
			PMID:  id,
			Title: title,
			Link:  ArticleURL(id),
			Date:  searchDate(doc.PubDate),
		})
	}
	return results, nil
}

// searchDate renders a year-only registry date as YYYY-01-01. Dates that do
// not start with a bare year fall back to 1900-01-01.
func searchDate(pubdate string) string {
	fields := strings.Fields(pubdate)
	if len(fields) == 0 || len(fields[0]) != 4 {
		return fallbackDate
	}
	if _, err := strconv.Atoi(fields[0]); err != nil {
		return fallbackDate
	}
	return fields[0] + "-01-01"
}
