// Package evaluate grades a model's answer against the reference needle using
// a second model as judge.
package evaluate

import (
	"context"
	"fmt"
	"regexp"
	"strconv"
	"strings"

	"github.com/rotisserie/eris"
	"go.uber.org/zap"

	"github.com/sells-group/needlebench/internal/config"
	"github.com/sells-group/needlebench/internal/provider"
	"github.com/sells-group/needlebench/pkg/llm"
)

// Score bounds accepted in a verdict.
const (
	MinScore = 1
	MaxScore = 10
)

// ErrNoVerdict is returned when the judge reply has no usable [[n]] rating.
var ErrNoVerdict = eris.New("evaluate: no verdict in judge reply")

// AccuracyCriterion is the rubric the judge scores against.
const AccuracyCriterion = `accuracy:
Score 1: The answer is completely unrelated to the reference.
Score 3: The answer has minor relevance but does not align with the reference.
Score 5: The answer has moderate relevance but contains inaccuracies.
Score 7: The answer aligns with the reference but has minor omissions.
Score 10: The answer is completely accurate and aligns perfectly with the reference.
Keep your explanations extremely short, just give the score`

const judgeSystemPrompt = "You are a helpful assistant."

const judgeUserPrompt = `[Instruction]
Please act as an impartial judge and evaluate the quality of the response provided by an AI assistant to the user question displayed below. For this evaluation, you should primarily consider the following criteria:
%s
[Ground truth]
%s
Begin your evaluation by providing a short explanation. Be as objective as possible. After providing your explanation, you must rate the response on a scale of 1 to 10 by strictly following this format: "[[rating]]", for example: "Rating: [[5]]".

[Question]
%s

[The Start of Assistant's Answer]
%s
[The End of Assistant's Answer]`

var verdictRe = regexp.MustCompile(`\[\[(.*?)\]\]`)

// Verdict is a parsed judge reply.
type Verdict struct {
	Score     int
	Reasoning string
	Usage     llm.Usage
}

// Evaluator sends judge prompts through an llm.Chat.
type Evaluator struct {
	chat  llm.Chat
	model config.ModelConfig
}

// New creates an Evaluator that asks model through chat.
func New(chat llm.Chat, model config.ModelConfig) *Evaluator {
	return &Evaluator{chat: chat, model: model}
}

// Prompt renders the judge user message.
func Prompt(reference, candidate, question string) string {
	return fmt.Sprintf(judgeUserPrompt, AccuracyCriterion, reference, question, candidate)
}

// Score grades candidate against reference for question and returns 1..10.
func (e *Evaluator) Score(ctx context.Context, reference, candidate, question string) (int, error) {
	v, err := e.Evaluate(ctx, reference, candidate, question)
	if err != nil {
		return 0, err
	}
	return v.Score, nil
}

// Evaluate grades candidate and returns the full verdict.
func (e *Evaluator) Evaluate(ctx context.Context, reference, candidate, question string) (*Verdict, error) {
	req := provider.Request(e.model,
		llm.System(judgeSystemPrompt),
		llm.User(Prompt(reference, candidate, question)),
	)

	resp, err := e.chat.Complete(ctx, req)
	if err != nil {
		return nil, eris.Wrap(err, "evaluate: judge call")
	}

	score, err := ParseVerdict(resp.Text)
	if err != nil {
		zap.L().Warn("evaluate: unparseable judge reply",
			zap.String("model", e.model.Name),
			zap.String("reply", resp.Text),
		)
		return nil, err
	}

	return &Verdict{
		Score:     score,
		Reasoning: strings.TrimSpace(verdictRe.ReplaceAllString(resp.Text, "")),
		Usage:     resp.Usage,
	}, nil
}

// ParseVerdict extracts the first [[n]] rating from a judge reply. Anything
// other than an integer in MinScore..MaxScore is ErrNoVerdict.
func ParseVerdict(reply string) (int, error) {
	m := verdictRe.FindStringSubmatch(reply)
	if m == nil {
		return 0, eris.Wrap(ErrNoVerdict, "evaluate: missing [[rating]]")
	}
	n, err := strconv.Atoi(m[1])
	if err != nil || n < MinScore || n > MaxScore {
		return 0, eris.Wrapf(ErrNoVerdict, "evaluate: invalid rating %q", m[1])
	}
	return n, nil
}
