// Package sweep runs the needle retrieval trial grid against a model and
// records one judged result per cell.
package sweep

import (
	"context"
	"fmt"
	"time"

	"github.com/google/uuid"
	"github.com/rotisserie/eris"
	"go.uber.org/zap"

	"github.com/sells-group/needlebench/internal/config"
	"github.com/sells-group/needlebench/internal/cost"
	"github.com/sells-group/needlebench/internal/evaluate"
	"github.com/sells-group/needlebench/internal/haystack"
	"github.com/sells-group/needlebench/internal/pace"
	"github.com/sells-group/needlebench/internal/provider"
	"github.com/sells-group/needlebench/internal/results"
	"github.com/sells-group/needlebench/internal/tokenizer"
	"github.com/sells-group/needlebench/pkg/llm"
)

// ContextBuilder produces needle-bearing contexts.
type ContextBuilder interface {
	BuildTokens(ctx context.Context, needle string, contextLength, depthPercent int) (*haystack.Placement, error)
	Tokenizer() tokenizer.Tokenizer
}

// Judge grades a model response against the needle.
type Judge interface {
	Evaluate(ctx context.Context, reference, candidate, question string) (*evaluate.Verdict, error)
}

// Options configures a Driver.
type Options struct {
	Plan    Plan
	Model   config.ModelConfig
	Judge   config.ModelConfig
	Needle  config.NeedleConfig
	Version int
	// DryRun builds every context and logs its placement without calling
	// any model or writing results.
	DryRun bool
}

// Driver executes a Plan.
type Driver struct {
	opts    Options
	builder ContextBuilder
	chat    llm.Chat
	judge   Judge
	store   results.Store
	pacer   pace.Pacer
	costs   *cost.Calculator
	now     func() time.Time
}

// New creates a Driver. chat, judge and pacer may be nil in dry-run mode.
func New(opts Options, builder ContextBuilder, chat llm.Chat, judge Judge, store results.Store, pacer pace.Pacer, costs *cost.Calculator) *Driver {
	if opts.Version == 0 {
		opts.Version = results.DefaultVersion
	}
	if costs == nil {
		costs = cost.NewCalculator(nil)
	}
	return &Driver{
		opts:    opts,
		builder: builder,
		chat:    chat,
		judge:   judge,
		store:   store,
		pacer:   pacer,
		costs:   costs,
		now:     time.Now,
	}
}

// Run walks context lengths in ascending order and, within each, depths in
// ascending order. Cells with an existing record are skipped, so a rerun after
// an interruption resumes where it stopped. The first build, model, judge, or
// store failure aborts the run; the Summary covers the cells seen so far.
func (d *Driver) Run(ctx context.Context) (*Summary, error) {
	sum := &Summary{
		RunID: uuid.NewString(),
		Total: d.opts.Plan.Cells(),
	}
	log := zap.L().With(
		zap.String("run_id", sum.RunID),
		zap.String("model", d.opts.Model.Name),
		zap.Int("version", d.opts.Version),
	)
	log.Info("sweep: starting",
		zap.Int("cells", sum.Total),
		zap.Ints("context_lengths", d.opts.Plan.ContextLengths),
		zap.Ints("depth_percents", d.opts.Plan.DepthPercents),
		zap.Bool("dry_run", d.opts.DryRun),
	)

	n := 0
	for _, length := range d.opts.Plan.ContextLengths {
		for _, depth := range d.opts.Plan.DepthPercents {
			n++
			if err := ctx.Err(); err != nil {
				return sum, eris.Wrap(err, "sweep: run")
			}

			cell := Cell{ContextLength: length, DepthPercent: depth}
			cellLog := log.With(
				zap.String("progress", fmt.Sprintf("%d/%d", n, sum.Total)),
				zap.Int("context_length", length),
				zap.Int("depth_percent", depth),
			)

			var err error
			if d.opts.DryRun {
				err = d.dryRun(ctx, cellLog, &cell)
				if err == nil {
					sum.Built++
				}
			} else {
				err = d.trial(ctx, cellLog, &cell)
			}
			if err != nil {
				return sum, eris.Wrapf(err, "sweep: cell length=%d depth=%d", length, depth)
			}

			switch cell.State {
			case Skipped:
				sum.Skipped++
			case Completed:
				sum.Completed++
				sum.Cost += cell.Cost
			}
			sum.Cells = append(sum.Cells, cell)
		}
	}

	log.Info("sweep: finished",
		zap.Int("completed", sum.Completed),
		zap.Int("skipped", sum.Skipped),
		zap.Int("built", sum.Built),
		zap.Float64("cost_usd", sum.Cost),
	)
	return sum, nil
}

func (d *Driver) key(length, depth int) results.Key {
	return results.Key{
		Model:         d.opts.Model.Name,
		ContextLength: length,
		DepthPercent:  depth,
		Version:       d.opts.Version,
	}
}

func (d *Driver) trial(ctx context.Context, log *zap.Logger, cell *Cell) error {
	key := d.key(cell.ContextLength, cell.DepthPercent)

	exists, err := d.store.Exists(ctx, key)
	if err != nil {
		return err
	}
	if exists {
		cell.State = Skipped
		log.Debug("sweep: result exists, skipping")
		return nil
	}

	p, err := d.builder.BuildTokens(ctx, d.opts.Needle.Text, cell.ContextLength, cell.DepthPercent)
	if err != nil {
		return err
	}
	haystackText := d.builder.Tokenizer().Decode(p.Tokens)

	start := d.now()

	req := provider.Request(d.opts.Model,
		llm.System(d.opts.Needle.SystemPrompt),
		llm.User(haystackText),
		llm.User(d.opts.Needle.RetrievalPrompt),
	)
	resp, err := d.chat.Complete(ctx, req)
	if err != nil {
		return eris.Wrap(err, "sweep: query model")
	}

	verdict, err := d.judge.Evaluate(ctx, d.opts.Needle.Text, resp.Text, d.opts.Needle.Question)
	if err != nil {
		return err
	}

	rec := results.Record{
		Model:         key.Model,
		ContextLength: key.ContextLength,
		DepthPercent:  key.DepthPercent,
		Version:       key.Version,
		Needle:        d.opts.Needle.Text,
		ModelResponse: resp.Text,
		Score:         verdict.Score,
	}
	if err := d.store.Append(ctx, rec); err != nil {
		return err
	}

	cell.State = Completed
	cell.Score = verdict.Score
	cell.Cost = d.costs.Chat(d.opts.Model.Name, resp.Usage.InputTokens, resp.Usage.OutputTokens) +
		d.costs.Chat(d.opts.Judge.Name, verdict.Usage.InputTokens, verdict.Usage.OutputTokens)

	log.Info("sweep: trial complete",
		zap.Int("score", verdict.Score),
		zap.String("response", resp.Text),
		zap.Int64("input_tokens", resp.Usage.InputTokens),
		zap.Int64("output_tokens", resp.Usage.OutputTokens),
		zap.Float64("cost_usd", cell.Cost),
	)

	if d.pacer == nil {
		return nil
	}
	// The model's quota is charged for the whole context window.
	if _, err := d.pacer.Wait(ctx, cell.ContextLength, d.now().Sub(start)); err != nil {
		return eris.Wrap(err, "sweep: pace")
	}
	return nil
}

func (d *Driver) dryRun(ctx context.Context, log *zap.Logger, cell *Cell) error {
	p, err := d.builder.BuildTokens(ctx, d.opts.Needle.Text, cell.ContextLength, cell.DepthPercent)
	if err != nil {
		return err
	}
	log.Info("sweep: dry run context",
		zap.Int("tokens", len(p.Tokens)),
		zap.Int("needle_start", p.NeedleStart),
		zap.Int("needle_len", p.NeedleLen),
		zap.Bool("truncated", p.Truncated),
	)
	return nil
}
