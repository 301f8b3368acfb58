package main

import (
	"fmt"
	"os/signal"
	"syscall"

	"github.com/spf13/cobra"
	"go.uber.org/zap"

	"github.com/sells-group/needlebench/internal/evaluate"
	"github.com/sells-group/needlebench/internal/pace"
	"github.com/sells-group/needlebench/internal/provider"
	"github.com/sells-group/needlebench/internal/sweep"
	"github.com/sells-group/needlebench/pkg/llm"
)

var sweepCmd = &cobra.Command{
	Use:   "sweep",
	Short: "Run the context length by depth retrieval sweep",
	Long: `Runs one trial per (context length, depth percent) cell: builds the
haystack, asks the model under test the retrieval question, scores the answer
with the judge model, and appends the record to the result store.

Cells that already have a record for the model and version are skipped, so an
interrupted sweep resumes where it stopped. Bump --version to rerun the grid.

Examples:
  # Run the configured sweep
  sweep

  # Rerun everything as version 2 into a separate file
  sweep --version 2 --results results-v2.json

  # Build every context and log needle placement without calling models
  sweep --dry-run`,
	RunE: runSweep,
}

func init() {
	f := sweepCmd.Flags()
	f.Int("version", 0, "result version to record and check (overrides config)")
	f.Bool("dry-run", false, "build contexts and log placement without calling models")
	f.String("results", "", "result store path (overrides config)")

	rootCmd.AddCommand(sweepCmd)
}

func runSweep(cmd *cobra.Command, _ []string) error {
	ctx, stop := signal.NotifyContext(cmd.Context(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	if v, _ := cmd.Flags().GetInt("version"); v > 0 {
		cfg.Sweep.Version = v
	}
	if p, _ := cmd.Flags().GetString("results"); p != "" {
		cfg.Store.Path = p
	}
	dryRun, _ := cmd.Flags().GetBool("dry-run")

	if err := cfg.Validate(); err != nil {
		return err
	}

	builder, err := initBuilder()
	if err != nil {
		return err
	}

	st, err := initStore(ctx)
	if err != nil {
		return err
	}
	defer st.Close() //nolint:errcheck

	var (
		chat  llm.Chat
		judge sweep.Judge
		pacer pace.Pacer
	)
	if !dryRun {
		chat, err = provider.New(cfg.Model)
		if err != nil {
			return err
		}
		judgeChat, err := provider.New(cfg.Judge)
		if err != nil {
			return err
		}
		judge = evaluate.New(judgeChat, cfg.Judge)
		pacer = pace.NewLimiter(pace.Limits{RPM: cfg.Rate.RPM, TPM: cfg.Rate.TPM}, cfg.Rate.TimeBased, cfg.Rate.Verbose)
	}

	d := sweep.New(sweep.Options{
		Plan:    sweep.NewPlan(cfg.Sweep),
		Model:   cfg.Model,
		Judge:   cfg.Judge,
		Needle:  cfg.Needle,
		Version: cfg.Sweep.Version,
		DryRun:  dryRun,
	}, builder, chat, judge, st, pacer, initCosts())

	sum, err := d.Run(ctx)
	if sum != nil {
		zap.L().Info("sweep summary",
			zap.String("run_id", sum.RunID),
			zap.Int("total", sum.Total),
			zap.Int("completed", sum.Completed),
			zap.Int("skipped", sum.Skipped),
			zap.Float64("cost_usd", sum.Cost),
		)
	}
	if err != nil {
		return err
	}

	out := cmd.OutOrStdout()
	if dryRun {
		fmt.Fprintf(out, "dry run: built %d/%d contexts\n", sum.Built, sum.Total)
		return nil
	}
	fmt.Fprintf(out, "run %s: %d completed, %d skipped of %d cells, est. cost $%.4f\n",
		sum.RunID, sum.Completed, sum.Skipped, sum.Total, sum.Cost)
	return nil
}
