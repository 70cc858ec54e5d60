// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

package pubmed

import (
	"context"
	"net/url"
)

// citedInLink is the elink relation from a PubMed record to the records
// that cite it.
const citedInLink = "pubmed_pubmed_citedin"

type elinkResponse struct {
	LinkSets []elinkSet `json:"linksets"`
}

type elinkSet struct {
	DBFrom     string       `json:"dbfrom"`
	LinkSetDBs []elinkSetDB `json:"linksetdbs"`
}

type elinkSetDB struct {
	DBTo     string   `json:"dbto"`
	LinkName string   `json:"linkname"`
	Links    []string `json:"links"`
}

// CitedByCount returns the number of distinct records linked to pmid by the
// cited-in relation. A record with no citations yields 0 and no error.
func (c *Client) CitedByCount(ctx context.Context, pmid string) (int, error) {
	params := c.params(url.Values{
		"dbfrom":   {"pubmed"},
		"linkname": {citedInLink},
		"id":       {pmid},
		"retmode":  {"json"},
	})

	var resp elinkResponse
	if err := c.http.GetJSON(ctx, c.endpoint("elink.fcgi"), params, &resp); err != nil {
		return 0, err
	}
	if len(resp.LinkSets) == 0 {
		return 0, nil
	}

	seen := make(map[string]struct{})
	for _, db := range resp.LinkSets[0].LinkSetDBs {
		if db.LinkName != "" && db.LinkName != citedInLink {
			continue
		}
		for _, id := range db.Links {
			seen[id] = struct{}{}
		}
	}
	return len(seen), nil
}
