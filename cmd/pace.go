package main

import (
	"fmt"
	"time"

	"github.com/spf13/cobra"

	"github.com/sells-group/needlebench/internal/pace"
)

var paceCmd = &cobra.Command{
	Use:   "pace",
	Short: "Print the pause the sweep would take after a call",
	Long: `Computes the rate limit pause for one call from the configured (or given)
RPM and TPM limits, the call's token count, and how long it took.

Examples:
  pace --tokens 128000 --elapsed 20s
  pace --rpm 60 --tpm 0 --tokens 1000`,
	RunE: runPace,
}

func init() {
	f := paceCmd.Flags()
	f.Int("tokens", 1000, "tokens consumed by the call")
	f.Duration("elapsed", 0, "how long the call took")
	f.Int("rpm", -1, "requests per minute (default: config)")
	f.Int("tpm", -1, "tokens per minute (default: config)")
	f.Bool("raw", false, "use the raw token delay instead of the time-based pause")

	rootCmd.AddCommand(paceCmd)
}

func runPace(cmd *cobra.Command, _ []string) error {
	tokens, _ := cmd.Flags().GetInt("tokens")
	elapsed, _ := cmd.Flags().GetDuration("elapsed")
	raw, _ := cmd.Flags().GetBool("raw")

	lim := pace.Limits{RPM: cfg.Rate.RPM, TPM: cfg.Rate.TPM}
	if v, _ := cmd.Flags().GetInt("rpm"); v >= 0 {
		lim.RPM = v
	}
	if v, _ := cmd.Flags().GetInt("tpm"); v >= 0 {
		lim.TPM = v
	}
	timeBased := cfg.Rate.TimeBased && !raw

	d, b := pace.Explain(lim, tokens, elapsed, timeBased)
	out := cmd.OutOrStdout()
	fmt.Fprintf(out, "rpm=%d tpm=%d tokens=%d elapsed=%s time_based=%t\n", lim.RPM, lim.TPM, tokens, elapsed, timeBased)
	fmt.Fprintf(out, "rpm_pause=%s tpm_pause=%s raw=%s\n", b.RPMPause, b.TPMPause, b.Raw.Round(time.Millisecond))
	fmt.Fprintf(out, "pause=%s\n", d)
	return nil
}
