package agent

import (
	"context"
	"fmt"
	"time"

	"github.com/askagent/askagent/internal/llm"
	"github.com/askagent/askagent/internal/metrics"
	"github.com/askagent/askagent/internal/security"
	"github.com/askagent/askagent/internal/service"
	"github.com/askagent/askagent/internal/tools"
	"github.com/rs/zerolog/log"
)

const (
	ModeReAct  = "react"
	ModeDirect = "direct"
)

// Stage names where an orchestrated request failed
type Stage string

const (
	StageAgent    Stage = "agent"
	StageFallback Stage = "fallback"
)

// StageError wraps a failure with the stage it happened in
type StageError struct {
	Stage Stage
	Err   error
}

func (e *StageError) Error() string { return e.Err.Error() }
func (e *StageError) Unwrap() error { return e.Err }

// Options configures an Orchestrator
type Options struct {
	Mode                string
	MaxIterations       int
	HandleParsingErrors bool
	Timeout             time.Duration
}

// Reply describes how a question was answered. It is returned even when Ask
// fails so callers can audit partial runs.
type Reply struct {
	Answer       string
	Outcome      Outcome
	FallbackUsed bool
	ToolsUsed    []string
	Iterations   int
	Intent       service.Intent
}

// Orchestrator answers questions with the Calculator, Wikipedia and Reasoning
// tools. The model and lookup clients are shared; tools are rebuilt per call.
type Orchestrator struct {
	model  llm.Model
	wiki   tools.Searcher
	eval   *service.Evaluator
	router *service.IntentRouter
	opts   Options
}

func NewOrchestrator(model llm.Model, wiki tools.Searcher, router *service.IntentRouter, opts Options) *Orchestrator {
	if opts.Mode == "" {
		opts.Mode = ModeReAct
	}
	if router == nil {
		router = service.NewIntentRouter()
	}
	return &Orchestrator{
		model:  model,
		wiki:   wiki,
		eval:   service.NewEvaluator(),
		router: router,
		opts:   opts,
	}
}

// Tools builds a fresh tool set
func (o *Orchestrator) Tools() []tools.Tool {
	return []tools.Tool{
		tools.CalculatorTool(o.model, o.eval),
		tools.WikipediaTool(o.wiki),
		tools.ReasoningTool(o.model),
	}
}

// Ask answers the question. A failure is a *StageError: StageAgent when the
// agent loop or a tool failed, StageFallback when the recovery call failed.
func (o *Orchestrator) Ask(ctx context.Context, question string) (*Reply, error) {
	if o.opts.Timeout > 0 {
		var cancel context.CancelFunc
		ctx, cancel = context.WithTimeout(ctx, o.opts.Timeout)
		defer cancel()
	}

	start := time.Now()
	var (
		reply *Reply
		err   error
	)
	if o.opts.Mode == ModeDirect {
		reply, err = o.direct(ctx, question)
	} else {
		reply, err = o.react(ctx, question)
	}

	outcome := reply.Outcome.String()
	if reply.FallbackUsed && err == nil {
		outcome = "fallback"
	}
	metrics.RecordAgentRun(o.opts.Mode, outcome, reply.Iterations, time.Since(start))
	return reply, err
}

func (o *Orchestrator) react(ctx context.Context, question string) (*Reply, error) {
	exec := NewExecutor(o.model, o.Tools(), ExecutorOptions{
		MaxIterations:       o.opts.MaxIterations,
		HandleParsingErrors: o.opts.HandleParsingErrors,
	})
	res := exec.Run(ctx, question)

	reply := &Reply{
		Outcome:    res.Outcome,
		ToolsUsed:  res.ToolsUsed(),
		Iterations: res.Iterations,
	}

	switch res.Outcome {
	case OutcomeAnswer:
		reply.Answer = security.CleanResponse(res.Output)
		return reply, nil

	case OutcomeNeedsFallback:
		log.Warn().Err(res.Err).Msg("parser error, answering without tools")
		answer, err := o.fallback(ctx, question)
		reply.FallbackUsed = true
		if err != nil {
			reply.Outcome = OutcomeFatal
			return reply, &StageError{Stage: StageFallback, Err: err}
		}
		reply.Outcome = OutcomeAnswer
		reply.Answer = answer
		return reply, nil

	default:
		log.Error().Err(res.Err).Strs("tools_used", reply.ToolsUsed).Msg("agent error")
		return reply, &StageError{Stage: StageAgent, Err: res.Err}
	}
}

// fallback asks the model directly, bypassing tools
func (o *Orchestrator) fallback(ctx context.Context, question string) (string, error) {
	out, err := o.model.Generate(ctx, llm.Prompt{User: fallbackPrompt + question})
	metrics.RecordFallback(err == nil)
	if err != nil {
		return "", err
	}
	return security.CleanResponse(out), nil
}

// direct dispatches the question to exactly one tool chosen by the intent
// router, without an agent loop.
func (o *Orchestrator) direct(ctx context.Context, question string) (*Reply, error) {
	route := o.router.Route(question)

	var name string
	switch route.Intent {
	case service.IntentCalculate:
		name = tools.CalculatorName
	case service.IntentLookup:
		name = tools.WikipediaName
	default:
		name = tools.ReasoningName
	}
	t, _ := tools.Find(o.Tools(), name)

	log.Debug().
		Str("intent", string(route.Intent)).
		Float64("confidence", route.Confidence).
		Str("tool", name).
		Msg("direct dispatch")

	reply := &Reply{Intent: route.Intent, ToolsUsed: []string{name}, Iterations: 1}

	start := time.Now()
	out, err := t.Execute(ctx, question)
	metrics.RecordToolCall(name, err == nil, time.Since(start))
	if err != nil {
		reply.Outcome = OutcomeFatal
		return reply, &StageError{Stage: StageAgent, Err: fmt.Errorf("tool %s: %w", name, err)}
	}
	reply.Outcome = OutcomeAnswer
	reply.Answer = security.CleanResponse(out)
	return reply, nil
}
