// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

package main

import (
	"encoding/json"
	"fmt"

	"github.com/spf13/cobra"

	"github.com/pdiddy/pub-reputation/internal/pubmed"
)

var detailsCmd = &cobra.Command{
	Use:   "details <pmid|pubmed-url>",
	Short: "Print the title and abstract of a publication",
	Args:  cobra.ExactArgs(1),
	RunE:  runDetails,
}

func init() {
	detailsCmd.Flags().Bool("json", false, "output details as JSON")

	rootCmd.AddCommand(detailsCmd)
}

func runDetails(cmd *cobra.Command, args []string) error {
	asJSON, _ := cmd.Flags().GetBool("json")

	cfg, err := currentConfig()
	if err != nil {
		return err
	}
	ctx, cancel := commandContext()
	defer cancel()

	id := pubmed.ParsePMID(args[0])
	d, err := newPubMed(cfg, logger).FetchDetails(ctx, id)
	if err != nil {
		return err
	}

	out := cmd.OutOrStdout()
	if asJSON {
		enc := json.NewEncoder(out)
		enc.SetIndent("", "  ")
		return enc.Encode(d)
	}
	fmt.Fprintf(out, "%s\n%s\n\n%s\n", d.Title, pubmed.ArticleURL(d.PMID), d.Abstract)
	return nil
}
