// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

package pubmed

import (
	"context"
	"encoding/json"
	"fmt"
	"net/url"
	"strconv"
	"strings"

	"github.com/pdiddy/pub-reputation/pkg/types"
)

// esummaryResponse wraps the per-ID documents. The result object also
// carries a "uids" array, so documents are decoded lazily by key.
type esummaryResponse struct {
	Result map[string]json.RawMessage `json:"result"`
}

type esummaryDoc struct {
	UID             string            `json:"uid"`
	Error           string            `json:"error"`
	Title           string            `json:"title"`
	PubDate         string            `json:"pubdate"`
	FullJournalName string            `json:"fulljournalname"`
	Authors         []esummaryAuthor  `json:"authors"`
	ArticleIDs      []esummaryArticle `json:"articleids"`
}

type esummaryAuthor struct {
	Name string `json:"name"`
}

type esummaryArticle struct {
	IDType string `json:"idtype"`
	Value  string `json:"value"`
}

// Summary resolves pmid to its publication record. A PMC identifier among
// the article IDs marks the record open access.
func (c *Client) Summary(ctx context.Context, pmid string) (types.PublicationRecord, error) {
	docs, err := c.summaries(ctx, []string{pmid})
	if err != nil {
		return types.PublicationRecord{}, err
	}
	doc, ok := docs[pmid]
	if !ok {
		return types.PublicationRecord{}, fmt.Errorf("%w: %s", ErrNotFound, pmid)
	}
	return doc.record(), nil
}

// summaries fetches esummary documents for ids in one batch. IDs the
// registry reports as errors are omitted.
func (c *Client) summaries(ctx context.Context, ids []string) (map[string]esummaryDoc, error) {
	params := c.params(url.Values{
		"db":      {"pubmed"},
		"id":      {strings.Join(ids, ",")},
		"retmode": {"json"},
	})

	var resp esummaryResponse
	if err := c.http.GetJSON(ctx, c.endpoint("esummary.fcgi"), params, &resp); err != nil {
		return nil, err
	}

	docs := make(map[string]esummaryDoc, len(ids))
	for _, id := range ids {
		raw, ok := resp.Result[id]
		if !ok {
			continue
		}
		var doc esummaryDoc
		if err := json.Unmarshal(raw, &doc); err != nil {
			return nil, fmt.Errorf("parsing PubMed summary for %s: %w", id, err)
		}
		if doc.Error != "" {
			continue
		}
		docs[id] = doc
	}
	return docs, nil
}

func (d esummaryDoc) record() types.PublicationRecord {
	rec := types.PublicationRecord{
		VenueName:       strings.TrimSpace(d.FullJournalName),
		PublicationYear: parseYear(d.PubDate),
	}
	if len(d.Authors) > 0 {
		rec.PrimaryAuthorName = strings.TrimSpace(d.Authors[0].Name)
	}
	for _, aid := range d.ArticleIDs {
		if aid.IDType == "pmcid" {
			rec.IsOpenAccess = true
			break
		}
	}
	return rec
}

// parseYear reads the leading year of a registry date such as "2020 Mar 15"
// or "2019-2020". Anything else yields types.FallbackPublicationYear.
func parseYear(pubdate string) int {
	fields := strings.Fields(pubdate)
	if len(fields) == 0 {
		return types.FallbackPublicationYear
	}
	tok := fields[0]
	if y, err := strconv.Atoi(tok); err == nil && y > 0 {
		return y
	}
	if len(tok) >= 4 {
		if y, err := strconv.Atoi(tok[:4]); err == nil && y > 0 {
			return y
		}
	}
	return types.FallbackPublicationYear
}
