package main

import (
	"fmt"

	"github.com/rotisserie/eris"
	"github.com/spf13/cobra"
)

var contextCmd = &cobra.Command{
	Use:   "context",
	Short: "Build and print one needle-bearing context",
	Long: `Builds the haystack for a single (length, depth) cell exactly as the sweep
would and prints it, followed by its token count and needle position on stderr.

Examples:
  context --length 2000 --depth 50
  context --length 128000 --depth 0 --stats`,
	RunE: runContext,
}

func init() {
	f := contextCmd.Flags()
	f.Int("length", 1000, "context length in tokens")
	f.Int("depth", 50, "needle depth percent (0-100)")
	f.Bool("stats", false, "print only the token statistics")

	rootCmd.AddCommand(contextCmd)
}

func runContext(cmd *cobra.Command, _ []string) error {
	length, _ := cmd.Flags().GetInt("length")
	depth, _ := cmd.Flags().GetInt("depth")
	statsOnly, _ := cmd.Flags().GetBool("stats")

	if length <= 0 {
		return eris.New("--length must be > 0")
	}

	builder, err := initBuilder()
	if err != nil {
		return err
	}

	p, err := builder.BuildTokens(cmd.Context(), cfg.Needle.Text, length, depth)
	if err != nil {
		return err
	}

	if !statsOnly {
		fmt.Fprintln(cmd.OutOrStdout(), builder.Tokenizer().Decode(p.Tokens))
	}
	fmt.Fprintf(cmd.ErrOrStderr(), "tokens=%d needle_start=%d needle_len=%d truncated=%t\n",
		len(p.Tokens), p.NeedleStart, p.NeedleLen, p.Truncated)
	return nil
}
