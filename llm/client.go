package llm

import (
	"context"
	"fmt"
	"log/slog"
	"strings"
	"time"

	"github.com/imkonsowa/restaurant-recommender/config"
	"github.com/imkonsowa/restaurant-recommender/metrics"
	"github.com/tmc/langchaingo/llms"
	"github.com/tmc/langchaingo/llms/googleai"
	"github.com/tmc/langchaingo/llms/ollama"
	"github.com/tmc/langchaingo/llms/openai"
)

const (
	DefaultOllamaURL   = "http://localhost:11434"
	DefaultOllamaModel = "llama3"
	DefaultOpenAIModel = "gpt-4o-mini"
	DefaultGeminiModel = "gemini-2.0-flash"
)

// Client sends a rendered prompt to the configured provider. It never retries;
// every error it returns is a *Failure.
type Client struct {
	model   llms.Model
	options []llms.CallOption
	err     *Failure
}

func NewClient(model llms.Model, options ...llms.CallOption) *Client {
	return &Client{
		model:   model,
		options: options,
	}
}

// New builds a Client for cfg.Provider. A provider that needs a credential but
// has none still yields a Client; its calls fail as unauthorized so the service
// can keep serving structured recommendations.
func New(ctx context.Context, cfg config.LLM) (*Client, error) {
	options := []llms.CallOption{
		llms.WithTemperature(cfg.Temperature),
		llms.WithTopP(cfg.TopP),
		llms.WithMaxTokens(cfg.MaxTokens),
	}

	var (
		model llms.Model
		err   error
	)

	switch cfg.Provider {
	case "ollama":
		model, err = ollama.New(
			ollama.WithServerURL(orDefault(cfg.BaseURL, DefaultOllamaURL)),
			ollama.WithModel(orDefault(cfg.Model, DefaultOllamaModel)),
		)
	case "openai":
		if cfg.APIKey == "" {
			return missingCredential(cfg.Provider), nil
		}
		opts := []openai.Option{
			openai.WithToken(cfg.APIKey),
			openai.WithModel(orDefault(cfg.Model, DefaultOpenAIModel)),
		}
		if cfg.BaseURL != "" {
			opts = append(opts, openai.WithBaseURL(cfg.BaseURL))
		}
		model, err = openai.New(opts...)
	case "gemini":
		if cfg.APIKey == "" {
			return missingCredential(cfg.Provider), nil
		}
		model, err = googleai.New(ctx,
			googleai.WithAPIKey(cfg.APIKey),
			googleai.WithDefaultModel(orDefault(cfg.Model, DefaultGeminiModel)),
		)
	default:
		return nil, fmt.Errorf("unknown llm provider %q", cfg.Provider)
	}
	if err != nil {
		return nil, fmt.Errorf("failed to create %s client: %w", cfg.Provider, err)
	}

	slog.Info("completion client initialised", "provider", cfg.Provider, "model", cfg.Model)

	return NewClient(model, options...), nil
}

func missingCredential(provider string) *Client {
	slog.Warn("llm api key is not set, narratives are disabled", "provider", provider)

	return &Client{err: &Failure{Kind: FailureUnauthorized, Err: ErrMissingCredential}}
}

func orDefault(v, def string) string {
	if v == "" {
		return def
	}
	return v
}

// Complete sends prompt as a single human message. The call is bounded by ctx.
func (c *Client) Complete(ctx context.Context, prompt string) (string, error) {
	text, err := c.complete(ctx, prompt)
	if err != nil {
		f := classify(err)
		metrics.CompletionFailures.WithLabelValues(string(f.Kind)).Inc()

		return "", f
	}

	return text, nil
}

func (c *Client) complete(ctx context.Context, prompt string) (string, error) {
	if c.err != nil {
		return "", c.err
	}

	start := time.Now()
	defer func() {
		metrics.CompletionDuration.Observe(time.Since(start).Seconds())
	}()

	messages := []llms.MessageContent{
		{
			Role: llms.ChatMessageTypeHuman,
			Parts: []llms.ContentPart{
				llms.TextPart(prompt),
			},
		},
	}

	content, err := c.model.GenerateContent(ctx, messages, c.options...)
	if err != nil {
		// Providers wrap cancellation inconsistently; the context is authoritative.
		if ctxErr := ctx.Err(); ctxErr != nil {
			return "", fmt.Errorf("%w: %v", ctxErr, err)
		}
		return "", fmt.Errorf("failed to generate content: %w", err)
	}

	if content == nil || len(content.Choices) == 0 || content.Choices[0] == nil {
		return "", &Failure{Kind: FailureMalformedResponse, Err: ErrEmptyResponse}
	}

	text := strings.TrimSpace(content.Choices[0].Content)
	if text == "" {
		return "", &Failure{Kind: FailureMalformedResponse, Err: ErrEmptyResponse}
	}

	return text, nil
}
