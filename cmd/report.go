package main

import (
	"io"
	"os"
	"strings"

	"github.com/rotisserie/eris"
	"github.com/spf13/cobra"
	"go.uber.org/zap"

	"github.com/sells-group/needlebench/internal/report"
)

var reportCmd = &cobra.Command{
	Use:   "report",
	Short: "Pivot stored results into a depth by context length grid",
	Long: `Reads every record from the result store and prints the mean score per
(depth percent, context length) cell.

Examples:
  # Table for the configured model and version
  report

  # Heat map spreadsheet for another model
  report --model claude-2.1 --format xlsx --output claude.xlsx

  # All models and versions as CSV
  report --all --format csv`,
	RunE: runReport,
}

func init() {
	f := reportCmd.Flags()
	f.String("format", report.FormatTable, "output format: "+strings.Join(report.Formats, ", "))
	f.String("output", "", "output file path (default: stdout; required for xlsx)")
	f.String("model", "", "model to report (default: configured model)")
	f.Int("version", 0, "result version to report (default: configured version)")
	f.Bool("all", false, "include every model and version")
	f.String("results", "", "result store path (overrides config)")

	rootCmd.AddCommand(reportCmd)
}

func runReport(cmd *cobra.Command, _ []string) error {
	ctx := cmd.Context()

	format, _ := cmd.Flags().GetString("format")
	output, _ := cmd.Flags().GetString("output")
	all, _ := cmd.Flags().GetBool("all")
	if p, _ := cmd.Flags().GetString("results"); p != "" {
		cfg.Store.Path = p
	}

	filter := report.Filter{Model: cfg.Model.Name, Version: cfg.Sweep.Version}
	if m, _ := cmd.Flags().GetString("model"); m != "" {
		filter.Model = m
	}
	if v, _ := cmd.Flags().GetInt("version"); v > 0 {
		filter.Version = v
	}
	if all {
		filter = report.Filter{}
	}

	if format == report.FormatXLSX && output == "" {
		return eris.New("--output is required for xlsx")
	}

	st, err := initStore(ctx)
	if err != nil {
		return err
	}
	defer st.Close() //nolint:errcheck

	recs, err := st.List(ctx)
	if err != nil {
		return eris.Wrap(err, "list results")
	}

	tbl := report.Pivot(recs, filter)
	if tbl.Empty() {
		zap.L().Warn("no results match",
			zap.String("model", filter.Model),
			zap.Int("version", filter.Version),
			zap.Int("records", len(recs)),
		)
	}

	var w io.Writer = cmd.OutOrStdout()
	if output != "" {
		f, err := os.Create(output)
		if err != nil {
			return eris.Wrap(err, "create output file")
		}
		defer f.Close() //nolint:errcheck
		w = f
	}

	return report.Render(w, format, tbl)
}
