// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

package types

// ArticleSummary is one registry search hit.
type ArticleSummary struct {
	// PMID is the registry identifier.
	PMID string `json:"pmid" yaml:"pmid"`

	// Title is the article title as returned by the registry.
	Title string `json:"title" yaml:"title"`

	// Link is the canonical article page.
	Link string `json:"link" yaml:"link"`

	// Date is the publication date as YYYY-MM-DD. Only the year is reliable;
	// it falls back to 1900-01-01 when the registry date has no leading year.
	Date string `json:"date" yaml:"date"`
}

// ArticleDetails is the title and abstract of one article.
type ArticleDetails struct {
	PMID     string `json:"pmid" yaml:"pmid"`
	Title    string `json:"title" yaml:"title"`
	Abstract string `json:"abstract" yaml:"abstract"`
}
