package llm

import (
	"context"
	"fmt"
	"strings"
	"time"

	"github.com/anthropics/anthropic-sdk-go"
	"github.com/anthropics/anthropic-sdk-go/option"
	"github.com/askagent/askagent/internal/metrics"
	"github.com/rs/zerolog/log"
)

// AnthropicModel wraps the Anthropic SDK client for plain text completions
type AnthropicModel struct {
	client      *anthropic.Client
	model       string
	maxTokens   int
	temperature float64
}

// AnthropicOptions configures NewAnthropicModel
type AnthropicOptions struct {
	APIKey      string
	BaseURL     string // compatible providers and proxies
	Model       string
	MaxTokens   int
	Temperature float64
}

// NewAnthropicModel creates the process-wide model client
func NewAnthropicModel(opts AnthropicOptions) *AnthropicModel {
	if opts.Model == "" {
		opts.Model = "claude-3-5-haiku-latest"
	}
	if opts.MaxTokens <= 0 {
		opts.MaxTokens = 1024
	}
	reqOpts := []option.RequestOption{option.WithAPIKey(opts.APIKey)}
	if opts.BaseURL != "" {
		reqOpts = append(reqOpts, option.WithBaseURL(opts.BaseURL))
	}
	return &AnthropicModel{
		client:      anthropic.NewClient(reqOpts...),
		model:       opts.Model,
		maxTokens:   opts.MaxTokens,
		temperature: opts.Temperature,
	}
}

func (m *AnthropicModel) Name() string { return m.model }

// Generate sends the prompt as a single user message and concatenates the
// text blocks of the reply.
func (m *AnthropicModel) Generate(ctx context.Context, p Prompt) (string, error) {
	params := anthropic.MessageNewParams{
		Model:       anthropic.F(anthropic.Model(m.model)),
		MaxTokens:   anthropic.F(int64(m.maxTokens)),
		Temperature: anthropic.F(m.temperature),
		Messages: anthropic.F([]anthropic.MessageParam{
			anthropic.NewUserMessage(anthropic.NewTextBlock(p.User)),
		}),
	}
	if p.System != "" {
		params.System = anthropic.F([]anthropic.TextBlockParam{
			anthropic.NewTextBlock(p.System),
		})
	}
	if len(p.Stop) > 0 {
		params.StopSequences = anthropic.F(p.Stop)
	}

	start := time.Now()
	resp, err := m.client.Messages.New(ctx, params)
	if err != nil {
		metrics.RecordLLMCall(m.model, false, 0, 0)
		return "", fmt.Errorf("LLM call failed: %w", err)
	}
	metrics.RecordLLMCall(m.model, true, resp.Usage.InputTokens, resp.Usage.OutputTokens)

	var sb strings.Builder
	for _, block := range resp.Content {
		if b, ok := block.AsUnion().(anthropic.TextBlock); ok {
			sb.WriteString(b.Text)
		}
	}

	log.Debug().
		Str("model", m.model).
		Str("stop_reason", string(resp.StopReason)).
		Int64("input_tokens", resp.Usage.InputTokens).
		Int64("output_tokens", resp.Usage.OutputTokens).
		Dur("duration", time.Since(start)).
		Msg("llm call")

	return sb.String(), nil
}
