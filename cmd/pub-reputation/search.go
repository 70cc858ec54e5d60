// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

package main

import (
	"encoding/json"
	"fmt"
	"io"
	"strings"

	"github.com/spf13/cobra"

	"github.com/pdiddy/pub-reputation/pkg/types"
)

var searchCmd = &cobra.Command{
	Use:   "search",
	Short: "Search PubMed for candidate publications",
	Long: `Search runs a relevance-sorted PubMed query and prints the PMID, title,
link and publication date (YYYY-01-01) of each hit. Feed the PMIDs to score
or batch.`,
	RunE: runSearch,
}

func init() {
	searchCmd.Flags().String("query", "", "free-text PubMed query")
	searchCmd.Flags().Int("max-results", 20, "maximum number of results to return")
	searchCmd.Flags().Bool("json", false, "output results as JSON")
	_ = searchCmd.MarkFlagRequired("query")

	rootCmd.AddCommand(searchCmd)
}

func runSearch(cmd *cobra.Command, args []string) error {
	query, _ := cmd.Flags().GetString("query")
	maxResults, _ := cmd.Flags().GetInt("max-results")
	asJSON, _ := cmd.Flags().GetBool("json")

	query = strings.TrimSpace(query)
	if query == "" {
		return fmt.Errorf("provide a non-empty --query")
	}

	cfg, err := currentConfig()
	if err != nil {
		return err
	}
	ctx, cancel := commandContext()
	defer cancel()

	articles, err := newPubMed(cfg, logger).Search(ctx, query, maxResults)
	if err != nil {
		return err
	}
	if asJSON {
		enc := json.NewEncoder(cmd.OutOrStdout())
		enc.SetIndent("", "  ")
		if articles == nil {
			articles = []types.ArticleSummary{}
		}
		return enc.Encode(articles)
	}
	printArticles(cmd.OutOrStdout(), articles)
	return nil
}

func printArticles(w io.Writer, articles []types.ArticleSummary) {
	if len(articles) == 0 {
		fmt.Fprintln(w, "No results.")
		return
	}
	for i, a := range articles {
		fmt.Fprintf(w, "%2d. [%s] %s\n    %s  %s\n", i+1, a.PMID, a.Title, a.Date, a.Link)
	}
}
