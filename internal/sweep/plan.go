package sweep

import (
	"math"

	"github.com/sells-group/needlebench/internal/config"
)

// Plan is the grid of trials: every context length crossed with every depth.
type Plan struct {
	ContextLengths []int
	DepthPercents  []int
}

// NewPlan spaces lengths and depths evenly over the configured ranges.
func NewPlan(cfg config.SweepConfig) Plan {
	return Plan{
		ContextLengths: Linspace(cfg.MinLength, cfg.MaxLength, cfg.LengthIntervals),
		DepthPercents:  Linspace(cfg.MinDepth, cfg.MaxDepth, cfg.DepthIntervals),
	}
}

// Cells returns the number of trials in the plan.
func (p Plan) Cells() int {
	return len(p.ContextLengths) * len(p.DepthPercents)
}

// Linspace returns n evenly spaced values from lo to hi inclusive, each
// rounded to the nearest integer with ties to even. n == 1 yields [lo].
// Duplicates produced by rounding narrow ranges are kept.
func Linspace(lo, hi, n int) []int {
	if n <= 0 {
		return nil
	}
	if n == 1 {
		return []int{lo}
	}
	out := make([]int, n)
	step := float64(hi-lo) / float64(n-1)
	for i := range out {
		out[i] = int(math.RoundToEven(float64(lo) + float64(i)*step))
	}
	out[n-1] = hi
	return out
}
