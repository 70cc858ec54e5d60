// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

package main

import (
	"context"
	"encoding/json"
	"fmt"
	"io"
	"os"
	"os/signal"
	"strings"

	"github.com/charmbracelet/lipgloss"
	"github.com/spf13/cobra"
	"go.yaml.in/yaml/v3"

	"github.com/pdiddy/pub-reputation/internal/pubmed"
	"github.com/pdiddy/pub-reputation/internal/reputation"
	"github.com/pdiddy/pub-reputation/pkg/types"
)

var scoreCmd = &cobra.Command{
	Use:   "score [pmid|pubmed-url...]",
	Short: "Print the reputation report for one or more publications",
	Long: `Score resolves each identifier in PubMed, gathers citation, venue and
author signals, and prints the five-facet report. Optional signals that
cannot be fetched score 0 and are listed as degraded; a publication PubMed
cannot resolve produces no report.`,
	Args: cobra.MinimumNArgs(1),
	RunE: runScore,
}

func init() {
	scoreCmd.Flags().Bool("json", false, "output reports as JSON")
	scoreCmd.Flags().Bool("yaml", false, "output full evaluations as YAML")
	scoreCmd.MarkFlagsMutuallyExclusive("json", "yaml")

	rootCmd.AddCommand(scoreCmd)
}

// commandContext is cancelled on interrupt.
func commandContext() (context.Context, context.CancelFunc) {
	return signal.NotifyContext(context.Background(), os.Interrupt)
}

func runScore(cmd *cobra.Command, args []string) error {
	asJSON, _ := cmd.Flags().GetBool("json")
	asYAML, _ := cmd.Flags().GetBool("yaml")

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

	out := cmd.OutOrStdout()
	failed := 0
	for _, arg := range args {
		id := pubmed.ParsePMID(arg)
		ev, err := engine.Evaluate(ctx, id)
		if err != nil {
			fmt.Fprintf(cmd.ErrOrStderr(), "%s: %v\n", arg, err)
			failed++
			continue
		}

		switch {
		case asJSON:
			err = writeReportJSON(out, ev.Report)
		case asYAML:
			err = writeEvaluationYAML(out, ev)
		default:
			renderEvaluation(out, ev)
		}
		if err != nil {
			return err
		}
	}
	if failed > 0 {
		return fmt.Errorf("%d of %d publication(s) could not be scored", failed, len(args))
	}
	return nil
}

func writeReportJSON(w io.Writer, r types.Report) error {
	enc := json.NewEncoder(w)
	enc.SetIndent("", "  ")
	return enc.Encode(r)
}

func writeEvaluationYAML(w io.Writer, ev reputation.Evaluation) error {
	enc := yaml.NewEncoder(w)
	enc.SetIndent(2)
	if err := enc.Encode(&ev); err != nil {
		return fmt.Errorf("encoding evaluation: %w", err)
	}
	return enc.Close()
}

// reportStyles holds the styles for the terminal report.
type reportStyles struct {
	header lipgloss.Style
	high   lipgloss.Style
	mid    lipgloss.Style
	low    lipgloss.Style
	dim    lipgloss.Style
	warn   lipgloss.Style
}

func newReportStyles() reportStyles {
	return reportStyles{
		header: lipgloss.NewStyle().Bold(true).Foreground(lipgloss.Color("12")),
		high:   lipgloss.NewStyle().Foreground(lipgloss.Color("10")),
		mid:    lipgloss.NewStyle().Foreground(lipgloss.Color("3")),
		low:    lipgloss.NewStyle().Foreground(lipgloss.Color("9")),
		dim:    lipgloss.NewStyle().Foreground(lipgloss.Color("8")),
		warn:   lipgloss.NewStyle().Foreground(lipgloss.Color("3")),
	}
}

func (s reportStyles) forScore(v int) lipgloss.Style {
	switch {
	case v >= 70:
		return s.high
	case v >= 40:
		return s.mid
	default:
		return s.low
	}
}

// facetOrder fixes the printed order of the report.
var facetOrder = []string{
	types.FacetCitations,
	types.FacetOpenAccess,
	types.FacetRecency,
	types.FacetJournalActivity,
	types.FacetAuthorActivity,
}

func renderEvaluation(w io.Writer, ev reputation.Evaluation) {
	styles := newReportStyles()
	components := ev.Report.Components()

	title := "PMID " + ev.Identifier
	if ev.Record.VenueName != "" {
		title += fmt.Sprintf("  %s (%d)", ev.Record.VenueName, ev.Record.PublicationYear)
	}
	fmt.Fprintln(w, styles.header.Render(title))
	for _, facet := range facetOrder {
		v := components[facet]
		fmt.Fprintf(w, "  %-17s %3d  %s\n", facet, v, renderBar(v, styles.forScore(v), styles.dim))
	}
	for _, d := range ev.Degraded {
		fmt.Fprintln(w, styles.warn.Render("  degraded "+d.Signal+": "+d.Reason))
	}
	fmt.Fprintln(w)
}

// renderBar draws v out of 100 as a 20-cell bar.
func renderBar(v int, fill, empty lipgloss.Style) string {
	const width = 20
	filled := v * width / 100
	if v > 0 && filled == 0 {
		filled = 1
	}
	return fill.Render(strings.Repeat("█", filled)) + empty.Render(strings.Repeat("░", width-filled))
}
