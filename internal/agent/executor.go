package agent

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/askagent/askagent/internal/llm"
	"github.com/askagent/askagent/internal/metrics"
	"github.com/askagent/askagent/internal/tools"
	"github.com/rs/zerolog/log"
)

const (
	invalidResponseObservation = "Invalid or incomplete response"
	exceptionTool              = "_Exception"
)

// Outcome classifies how an agent run ended
type Outcome int

const (
	// OutcomeAnswer carries a final answer in Result.Output.
	OutcomeAnswer Outcome = iota
	// OutcomeNeedsFallback means the model's output could not be parsed and a
	// direct, tool-free call should answer instead.
	OutcomeNeedsFallback
	// OutcomeFatal means the run failed; Result.Err says why.
	OutcomeFatal
)

func (o Outcome) String() string {
	switch o {
	case OutcomeAnswer:
		return "answer"
	case OutcomeNeedsFallback:
		return "needs_fallback"
	case OutcomeFatal:
		return "fatal"
	default:
		return fmt.Sprintf("outcome(%d)", int(o))
	}
}

// Result is the explicit three-way result of Executor.Run
type Result struct {
	Outcome    Outcome
	Output     string
	Err        error
	Steps      []Step
	Iterations int
}

// ToolsUsed lists the tools called, in order, excluding parse-error steps
func (r Result) ToolsUsed() []string {
	var used []string
	for _, s := range r.Steps {
		if s.Tool != exceptionTool {
			used = append(used, s.Tool)
		}
	}
	return used
}

// ExecutorOptions bounds the loop
type ExecutorOptions struct {
	MaxIterations       int
	HandleParsingErrors bool
}

// Executor runs a zero-shot ReAct loop: the model picks a tool by its
// description, sees the observation, and repeats until it writes a final
// answer or the iteration budget runs out.
type Executor struct {
	model llm.Model
	tools []tools.Tool
	opts  ExecutorOptions
}

func NewExecutor(model llm.Model, ts []tools.Tool, opts ExecutorOptions) *Executor {
	if opts.MaxIterations <= 0 {
		opts.MaxIterations = 3
	}
	return &Executor{model: model, tools: ts, opts: opts}
}

// Run answers the question. When the iteration cap is hit the model is asked
// once more for its best answer instead of failing.
func (e *Executor) Run(ctx context.Context, question string) Result {
	var steps []Step

	for iter := 0; iter < e.opts.MaxIterations; iter++ {
		if err := ctx.Err(); err != nil {
			return Result{Outcome: OutcomeFatal, Err: err, Steps: steps, Iterations: iter}
		}

		text, err := e.model.Generate(ctx, llm.Prompt{
			User: buildPrompt(question, e.tools, steps, ""),
			Stop: stopSequences,
		})
		if err != nil {
			return Result{Outcome: OutcomeFatal, Err: err, Steps: steps, Iterations: iter + 1}
		}

		action, finish, perr := ParseOutput(text)

		log.Debug().
			Int("iter", iter).
			Str("text_preview", preview(text, 80)).
			Bool("final", finish != nil).
			Bool("parse_error", perr != nil).
			Msg("agent iteration")

		if perr != nil {
			if !e.opts.HandleParsingErrors {
				return Result{Outcome: OutcomeNeedsFallback, Err: perr, Steps: steps, Iterations: iter + 1}
			}
			steps = append(steps, exceptionStep(text, perr))
			continue
		}

		if finish != nil {
			return Result{Outcome: OutcomeAnswer, Output: finish.Output, Steps: steps, Iterations: iter + 1}
		}

		observation, err := e.call(ctx, action)
		if err != nil {
			return Result{Outcome: OutcomeFatal, Err: err, Steps: steps, Iterations: iter + 1}
		}
		steps = append(steps, Step{
			Tool:        action.Tool,
			Input:       action.Input,
			Log:         action.Log,
			Observation: observation,
		})
	}

	return e.forceFinal(ctx, question, steps)
}

// forceFinal makes one last call with the scratchpad so far. Output that
// still does not parse is handed back as NeedsFallback.
func (e *Executor) forceFinal(ctx context.Context, question string, steps []Step) Result {
	n := e.opts.MaxIterations
	log.Debug().Int("max_iterations", n).Msg("agent stopped early, generating final answer")

	text, err := e.model.Generate(ctx, llm.Prompt{
		User: buildPrompt(question, e.tools, steps, forceFinalThought),
		Stop: stopSequences,
	})
	if err != nil {
		return Result{Outcome: OutcomeFatal, Err: fmt.Errorf("final answer call failed: %w", err), Steps: steps, Iterations: n}
	}

	_, finish, perr := ParseOutput(text)
	switch {
	case perr != nil:
		return Result{Outcome: OutcomeNeedsFallback, Err: perr, Steps: steps, Iterations: n}
	case finish != nil:
		return Result{Outcome: OutcomeAnswer, Output: finish.Output, Steps: steps, Iterations: n}
	default:
		return Result{Outcome: OutcomeAnswer, Output: text, Steps: steps, Iterations: n}
	}
}

// call runs the named tool. Unknown names become an observation so the model
// can correct itself; tool errors end the run.
func (e *Executor) call(ctx context.Context, action *Action) (string, error) {
	t, ok := tools.Find(e.tools, action.Tool)
	if !ok {
		return fmt.Sprintf("%s is not a valid tool, try one of [%s].",
			action.Tool, strings.Join(tools.Names(e.tools), ", ")), nil
	}

	start := time.Now()
	out, err := t.Execute(ctx, action.Input)
	metrics.RecordToolCall(t.Name, err == nil, time.Since(start))
	if err != nil {
		log.Warn().Err(err).Str("tool", t.Name).Msg("tool execution error")
		return "", fmt.Errorf("tool %s: %w", t.Name, err)
	}
	log.Debug().Str("tool", t.Name).Str("input", action.Input).Str("observation", preview(out, 120)).Msg("tool call")
	return out, nil
}

// exceptionStep records a parse failure as a step. Correctable format errors
// show the model its own output and what was missing; anything else is
// replaced by the error text and a generic observation.
func exceptionStep(text string, err error) Step {
	var pe *ParseError
	if errors.As(err, &pe) && pe.Observation != "" {
		return Step{Tool: exceptionTool, Input: pe.Observation, Log: text, Observation: pe.Observation}
	}
	return Step{
		Tool:        exceptionTool,
		Input:       invalidResponseObservation,
		Log:         err.Error(),
		Observation: invalidResponseObservation,
	}
}

// IsParseFailure reports whether err came from unparseable model output
func IsParseFailure(err error) bool {
	return errors.Is(err, ErrOutputParse)
}

func preview(s string, n int) string {
	if len(s) > n {
		return s[:n]
	}
	return s
}
