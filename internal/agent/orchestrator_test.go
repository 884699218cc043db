package agent_test

import (
	"context"
	"errors"
	"strings"
	"testing"
	"time"

	"github.com/askagent/askagent/internal/agent"
	"github.com/askagent/askagent/internal/llm"
	"github.com/askagent/askagent/internal/llm/llmtest"
	"github.com/askagent/askagent/internal/service"
	"github.com/askagent/askagent/internal/tools"
)

func newOrchestrator(model *llmtest.Model, wiki tools.Searcher, mode string) *agent.Orchestrator {
	return agent.NewOrchestrator(model, wiki, nil, agent.Options{
		Mode:                mode,
		MaxIterations:       3,
		HandleParsingErrors: true,
	})
}

// ─── ReAct mode ────────────────────────────────────────────

func TestAskAnswer(t *testing.T) {
	model := llmtest.Texts(calcStep, finalFour)
	reply, err := newOrchestrator(model, &stubSearcher{}, agent.ModeReAct).Ask(context.Background(), "What is 2+2?")
	if err != nil {
		t.Fatalf("Ask: %v", err)
	}
	if reply.Answer != "4" || reply.FallbackUsed {
		t.Errorf("reply = %+v", reply)
	}
	if len(reply.ToolsUsed) != 1 || reply.ToolsUsed[0] != tools.CalculatorName {
		t.Errorf("tools used = %v", reply.ToolsUsed)
	}
}

func TestAskCleansDeliberation(t *testing.T) {
	model := llmtest.Texts(" Done.\nFinal Answer: <think>let me see\n\nhmm</think>\n\nParis\n\n\nis the capital")
	reply, err := newOrchestrator(model, &stubSearcher{}, "").Ask(context.Background(), "Capital of France?")
	if err != nil {
		t.Fatalf("Ask: %v", err)
	}
	if reply.Answer != "Paris\nis the capital" {
		t.Errorf("answer = %q", reply.Answer)
	}
}

func TestAskFallbackAfterParseFailures(t *testing.T) {
	model := llmtest.Texts(unparseable, unparseable, unparseable, unparseable,
		"<think>short answer</think>\n\nParis is the capital of France.")
	reply, err := newOrchestrator(model, &stubSearcher{}, agent.ModeReAct).Ask(context.Background(), "Capital of France?")
	if err != nil {
		t.Fatalf("Ask: %v", err)
	}
	if !reply.FallbackUsed || reply.Outcome != agent.OutcomeAnswer {
		t.Errorf("reply = %+v", reply)
	}
	if reply.Answer != "Paris is the capital of France." {
		t.Errorf("answer = %q", reply.Answer)
	}

	prompts := model.Prompts()
	last := prompts[len(prompts)-1]
	if last.User != "Please answer this question clearly and concisely: Capital of France?" {
		t.Errorf("fallback prompt = %q", last.User)
	}
	if len(last.Stop) != 0 {
		t.Errorf("fallback call should not use stop sequences: %v", last.Stop)
	}
}

func TestAskFallbackFailure(t *testing.T) {
	boom := errors.New("model unavailable")
	model := llmtest.New(
		llmtest.Reply{Text: unparseable},
		llmtest.Reply{Text: unparseable},
		llmtest.Reply{Text: unparseable},
		llmtest.Reply{Text: unparseable},
		llmtest.Reply{Err: boom},
	)
	reply, err := newOrchestrator(model, &stubSearcher{}, agent.ModeReAct).Ask(context.Background(), "Hmm?")

	var se *agent.StageError
	if !errors.As(err, &se) || se.Stage != agent.StageFallback {
		t.Fatalf("err = %v, want fallback StageError", err)
	}
	if !errors.Is(err, boom) {
		t.Errorf("err should wrap %v", boom)
	}
	if reply == nil || !reply.FallbackUsed || reply.Outcome != agent.OutcomeFatal {
		t.Errorf("reply = %+v", reply)
	}
}

func TestAskAgentFailure(t *testing.T) {
	boom := errors.New("wikipedia down")
	model := llmtest.Texts(" Look.\nAction: Wikipedia\nAction Input: Go")
	reply, err := newOrchestrator(model, &stubSearcher{err: boom}, agent.ModeReAct).Ask(context.Background(), "What is Go?")

	var se *agent.StageError
	if !errors.As(err, &se) || se.Stage != agent.StageAgent {
		t.Fatalf("err = %v, want agent StageError", err)
	}
	if !strings.Contains(err.Error(), "wikipedia down") {
		t.Errorf("err text = %q", err.Error())
	}
	if reply.FallbackUsed {
		t.Error("fatal errors must not fall back")
	}
}

// blockingModel waits for the request context to end
type blockingModel struct{}

func (blockingModel) Name() string { return "blocking" }

func (blockingModel) Generate(ctx context.Context, _ llm.Prompt) (string, error) {
	<-ctx.Done()
	return "", ctx.Err()
}

func TestAskTimeout(t *testing.T) {
	o := agent.NewOrchestrator(blockingModel{}, &stubSearcher{}, nil, agent.Options{Timeout: 20 * time.Millisecond})

	_, err := o.Ask(context.Background(), "What is 2+2?")
	if !errors.Is(err, context.DeadlineExceeded) {
		t.Fatalf("err = %v, want deadline exceeded", err)
	}
}

// ─── Direct mode ───────────────────────────────────────────

func TestAskDirectCalculator(t *testing.T) {
	model := llmtest.Texts("```text\n2+2\n```")
	reply, err := newOrchestrator(model, &stubSearcher{}, agent.ModeDirect).Ask(context.Background(), "What is 2+2?")
	if err != nil {
		t.Fatalf("Ask: %v", err)
	}
	if reply.Intent != service.IntentCalculate {
		t.Errorf("intent = %s", reply.Intent)
	}
	if reply.Answer != "Answer: 4" {
		t.Errorf("answer = %q", reply.Answer)
	}
}

func TestAskDirectLookup(t *testing.T) {
	wiki := &stubSearcher{out: "Page: Ada Lovelace\nSummary: Mathematician."}
	model := llmtest.Texts()
	reply, err := newOrchestrator(model, wiki, agent.ModeDirect).Ask(context.Background(), "Who was Ada Lovelace?")
	if err != nil {
		t.Fatalf("Ask: %v", err)
	}
	if reply.Intent != service.IntentLookup || reply.ToolsUsed[0] != tools.WikipediaName {
		t.Errorf("reply = %+v", reply)
	}
	if model.Calls() != 0 {
		t.Errorf("lookup should not call the model, got %d calls", model.Calls())
	}
}

func TestAskDirectToolError(t *testing.T) {
	wiki := &stubSearcher{err: errors.New("timeout")}
	_, err := newOrchestrator(llmtest.Texts(), wiki, agent.ModeDirect).Ask(context.Background(), "Who was Ada Lovelace?")

	var se *agent.StageError
	if !errors.As(err, &se) || se.Stage != agent.StageAgent {
		t.Fatalf("err = %v", err)
	}
}
