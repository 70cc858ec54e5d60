// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

package pubmed

import (
	"context"
	"encoding/xml"
	"fmt"
	"net/url"
	"strings"

	"github.com/pdiddy/pub-reputation/pkg/types"
)

const (
	missingTitle    = "Title not found"
	missingAbstract = "Abstract not available."
)

// efetchSet accepts any root element: unknown ids come back as
// <eFetchResult><ERROR>...</ERROR></eFetchResult> rather than an article set.
type efetchSet struct {
	XMLName  xml.Name
	Articles []efetchArticle `xml:"PubmedArticle"`
	Errors   []string        `xml:"ERROR"`
}

type efetchArticle struct {
	Title    *innerXML           `xml:"MedlineCitation>Article>ArticleTitle"`
	Abstract []efetchAbstractTxt `xml:"MedlineCitation>Article>Abstract>AbstractText"`
}

type efetchAbstractTxt struct {
	Label string `xml:"Label,attr"`
	Inner string `xml:",innerxml"`
}

type innerXML struct {
	Inner string `xml:",innerxml"`
}

// FetchDetails retrieves the title and abstract for pmid. Structured
// abstracts are joined as "**Label:** text" paragraphs.
func (c *Client) FetchDetails(ctx context.Context, pmid string) (types.ArticleDetails, error) {
	params := c.params(url.Values{
		"db":      {"pubmed"},
		"id":      {pmid},
		"retmode": {"xml"},
	})

	resp, err := c.http.Get(ctx, c.endpoint("efetch.fcgi"), params)
	if err != nil {
		return types.ArticleDetails{}, err
	}
	defer resp.Body.Close()

	var set efetchSet
	if err := xml.NewDecoder(resp.Body).Decode(&set); err != nil {
		return types.ArticleDetails{}, fmt.Errorf("parsing PubMed article XML: %w", err)
	}
	if len(set.Articles) == 0 {
		if len(set.Errors) > 0 {
			return types.ArticleDetails{}, fmt.Errorf("%w: %s: %s", ErrNotFound, pmid, strings.TrimSpace(set.Errors[0]))
		}
		return types.ArticleDetails{}, fmt.Errorf("%w: %s", ErrNotFound, pmid)
	}

	a := set.Articles[0]
	details := types.ArticleDetails{PMID: pmid, Title: missingTitle, Abstract: missingAbstract}
	if a.Title != nil {
		if t := plainText(a.Title.Inner); t != "" {
			details.Title = t
		}
	}

	var parts []string
	for _, at := range a.Abstract {
		text := plainText(at.Inner)
		if at.Label != "" {
			parts = append(parts, fmt.Sprintf("**%s:** %s", at.Label, text))
		} else {
			parts = append(parts, text)
		}
	}
	if len(parts) > 0 {
		details.Abstract = strings.Join(parts, "\n\n")
	}
	return details, nil
}

// plainText drops inline markup (<i>, <sup>, ...) from an XML fragment and
// collapses whitespace.
func plainText(fragment string) string {
	dec := xml.NewDecoder(strings.NewReader("<t>" + fragment + "</t>"))
	var b strings.Builder
	for {
		tok, err := dec.Token()
		if err != nil {
			break
		}
		if cd, ok := tok.(xml.CharData); ok {
			b.Write(cd)
		}
	}
	return strings.Join(strings.Fields(b.String()), " ")
}
