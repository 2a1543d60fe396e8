// Package openai wraps the OpenAI chat completions API behind a small
// interface used by the scoring pipeline.
package openai

import (
	"context"
	"net/http"
	"strings"
	"time"

	"github.com/rotisserie/eris"
	sdk "github.com/sashabaranov/go-openai"
	"go.uber.org/zap"
)

// Client defines the completion operations used by the pipeline.
type Client interface {
	Complete(ctx context.Context, req CompletionRequest) (*CompletionResponse, error)
}

// CompletionRequest is our own request type for Complete.
type CompletionRequest struct {
	Model       string
	System      string
	User        string
	Temperature float64
	MaxTokens   int
	// JSONMode requests the structured json_object response format. Models
	// that reject it return an API error which callers handle by falling
	// back to a plain-text request.
	JSONMode bool
}

// CompletionResponse is our own response type from Complete.
type CompletionResponse struct {
	ID      string
	Model   string
	Content string
	Usage   TokenUsage
}

// TokenUsage tracks token consumption.
type TokenUsage struct {
	PromptTokens     int
	CompletionTokens int
}

// modelPricing holds per-million-token pricing for known models.
var modelPricing = map[string][2]float64{
	// model → {input $/MTok, output $/MTok}
	"gpt-4o-mini": {0.15, 0.60},
	"gpt-4o":      {2.50, 10.00},
}

// EstimateCost computes an estimated cost in USD from a TokenUsage and model ID.
// Returns 0 for unknown models.
func (u TokenUsage) EstimateCost(model string) float64 {
	pricing, ok := modelPricing[model]
	if !ok {
		return 0
	}
	inCost := (float64(u.PromptTokens) / 1e6) * pricing[0]
	outCost := (float64(u.CompletionTokens) / 1e6) * pricing[1]
	return inCost + outCost
}

// LogCost logs token usage and estimated cost with structured zap fields.
func (u TokenUsage) LogCost(model, phase string) {
	zap.L().Info("cost attribution",
		zap.String("model", model),
		zap.String("phase", phase),
		zap.Int("prompt_tokens", u.PromptTokens),
		zap.Int("completion_tokens", u.CompletionTokens),
		zap.Float64("estimated_cost_usd", u.EstimateCost(model)),
	)
}

// EffectiveTemperature returns the temperature to request for a model.
// Models outside the gpt-4o family reject sub-default temperatures, so the
// configured value only applies to gpt-4o variants.
func EffectiveTemperature(model string, configured float64) float64 {
	if !strings.Contains(strings.ToLower(model), "gpt-4o") {
		return 1.0
	}
	return configured
}

// Option configures the client.
type Option func(*sdkClient)

// WithBaseURL overrides the default API base URL (for testing).
func WithBaseURL(url string) Option {
	return func(c *sdkClient) {
		c.baseURL = url
	}
}

// WithHTTPClient overrides the default http.Client.
func WithHTTPClient(hc *http.Client) Option {
	return func(c *sdkClient) {
		c.http = hc
	}
}

// sdkClient implements Client using sashabaranov/go-openai.
type sdkClient struct {
	client  *sdk.Client
	baseURL string
	http    *http.Client
}

// NewClient creates an OpenAI client backed by the SDK.
func NewClient(apiKey string, opts ...Option) Client {
	c := &sdkClient{
		http: &http.Client{Timeout: 120 * time.Second},
	}
	for _, o := range opts {
		o(c)
	}

	cfg := sdk.DefaultConfig(apiKey)
	if c.baseURL != "" {
		cfg.BaseURL = c.baseURL
	}
	cfg.HTTPClient = c.http
	c.client = sdk.NewClientWithConfig(cfg)
	return c
}

func (c *sdkClient) Complete(ctx context.Context, req CompletionRequest) (*CompletionResponse, error) {
	messages := make([]sdk.ChatCompletionMessage, 0, 2)
	if req.System != "" {
		messages = append(messages, sdk.ChatCompletionMessage{
			Role:    sdk.ChatMessageRoleSystem,
			Content: req.System,
		})
	}
	messages = append(messages, sdk.ChatCompletionMessage{
		Role:    sdk.ChatMessageRoleUser,
		Content: req.User,
	})

	params := sdk.ChatCompletionRequest{
		Model:       req.Model,
		Messages:    messages,
		Temperature: float32(req.Temperature),
	}
	if req.MaxTokens > 0 {
		params.MaxTokens = req.MaxTokens
	}
	if req.JSONMode {
		params.ResponseFormat = &sdk.ChatCompletionResponseFormat{
			Type: sdk.ChatCompletionResponseFormatTypeJSONObject,
		}
	}

	resp, err := c.client.CreateChatCompletion(ctx, params)
	if err != nil {
		// Keep the SDK error in the chain so callers can classify it.
		return nil, eris.Wrap(err, "openai: create chat completion")
	}

	if len(resp.Choices) == 0 {
		return nil, eris.New("openai: no response choices returned")
	}

	return &CompletionResponse{
		ID:      resp.ID,
		Model:   resp.Model,
		Content: resp.Choices[0].Message.Content,
		Usage: TokenUsage{
			PromptTokens:     resp.Usage.PromptTokens,
			CompletionTokens: resp.Usage.CompletionTokens,
		},
	}, nil
}
