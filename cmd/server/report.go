package main

import (
	"errors"
	"fmt"
	"io"
	"strings"
	"text/tabwriter"

	"slaanalyzer/internal/config"
	"slaanalyzer/internal/engine"

	"github.com/spf13/cobra"
)

func newReportCmd() *cobra.Command {
	var (
		kindName string
		file     string
		filters  []string
		rows     int
	)

	cmd := &cobra.Command{
		Use:   "report",
		Short: "Print metrics and a row preview for one export",
		Long: `Load a GRNI or Match Exceptions export, apply filters and print the metrics.

Example: slaanalyzer report --kind grni --file grni.xlsx --filter Buyer=Acme --filter Team=East`,
		Args: cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			kind, err := engine.ParseReportKind(kindName)
			if err != nil {
				return err
			}
			sel, err := parseFilters(filters)
			if err != nil {
				return err
			}
			cfg, err := config.Load()
			if err != nil {
				return err
			}

			ds, err := engine.LoadFile(file)
			if err != nil {
				return err
			}
			a, err := engine.Analyze(ds, kind, sel, engine.WithLocation(cfg.Report.Location))
			if err != nil {
				return err
			}
			return printAnalysis(cmd.OutOrStdout(), a, rows)
		},
	}

	cmd.Flags().StringVar(&kindName, "kind", "grni", "Report kind: grni or me")
	cmd.Flags().StringVar(&file, "file", "", "Path to the .xlsx or .csv export")
	cmd.Flags().StringArrayVar(&filters, "filter", nil, "Column=Value selection, repeatable")
	cmd.Flags().IntVar(&rows, "rows", 20, "Preview rows to print (0 for none)")
	_ = cmd.MarkFlagRequired("file")

	return cmd
}

func parseFilters(raw []string) (engine.FilterSelection, error) {
	sel := make(engine.FilterSelection, len(raw))
	for _, f := range raw {
		col, val, ok := strings.Cut(f, "=")
		if !ok || strings.TrimSpace(col) == "" {
			return nil, errors.New("filter must look like Column=Value: " + f)
		}
		sel[strings.TrimSpace(col)] = val
	}
	return sel, nil
}

func printAnalysis(out io.Writer, a *engine.Analysis, rows int) error {
	fmt.Fprintf(out, "%s: %d of %d rows\n", a.Kind.Title(), a.Filtered.Len(), a.Source.Len())
	for _, col := range a.Kind.FilterableColumns() {
		fmt.Fprintf(out, "  %s = %s\n", col, a.Selection.Value(col))
	}
	for _, def := range a.Kind.Metrics() {
		fmt.Fprintf(out, "%-48s %6.2f%%\n", def.Label, a.Metrics[def.Key])
	}
	if rows <= 0 || a.Filtered.Len() == 0 {
		return nil
	}

	fmt.Fprintln(out)
	tw := tabwriter.NewWriter(out, 0, 0, 2, ' ', 0)
	fmt.Fprintln(tw, strings.Join(a.Filtered.Columns, "\t"))
	for i, row := range a.Filtered.Rows {
		if i == rows {
			break
		}
		cells := make([]string, len(a.Filtered.Columns))
		for j, col := range a.Filtered.Columns {
			cells[j] = engine.FormatValue(row[col])
		}
		fmt.Fprintln(tw, strings.Join(cells, "\t"))
	}
	return tw.Flush()
}
