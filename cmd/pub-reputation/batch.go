// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

package main

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/pdiddy/pub-reputation/internal/batch"
	"github.com/pdiddy/pub-reputation/internal/pubmed"
)

var batchCmd = &cobra.Command{
	Use:   "batch",
	Short: "Score every identifier in a YAML file",
	Long: `Batch reads a YAML file with an "identifiers" list (PMIDs or PubMed URLs),
scores each one in order, and writes the evaluations, degraded signals and a
summary to the output file. A publication that fails does not stop the batch.`,
	RunE: runBatch,
}

func init() {
	batchCmd.Flags().String("in", "", "input YAML file with an identifiers list")
	batchCmd.Flags().String("out", "reports.yaml", "output YAML file")
	_ = batchCmd.MarkFlagRequired("in")

	rootCmd.AddCommand(batchCmd)
}

func runBatch(cmd *cobra.Command, args []string) error {
	in, _ := cmd.Flags().GetString("in")
	out, _ := cmd.Flags().GetString("out")

	req, err := batch.ReadRequest(in)
	if err != nil {
		return err
	}
	ids := make([]string, len(req.Identifiers))
	for i, raw := range req.Identifiers {
		ids[i] = pubmed.ParsePMID(raw)
	}

	cfg, err := currentConfig()
	if err != nil {
		return err
	}
	engine, _, err := newEngine(cfg, logger)
	if err != nil {
		return err
	}

	ctx, cancel := commandContext()
	defer cancel()

	result := batch.Run(ctx, engine, ids, nil)
	if err := batch.WriteFile(out, result); err != nil {
		return err
	}
	s := result.Summary
	fmt.Fprintf(cmd.OutOrStdout(), "Scored %d of %d (%d degraded, %d failed) -> %s\n",
		s.Scored, s.Total, s.Degraded, s.Failed, out)
	if result.HasFailures() {
		return fmt.Errorf("%d publication(s) failed scoring", s.Failed)
	}
	return nil
}
