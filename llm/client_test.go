package llm

import (
	"context"
	"errors"
	"fmt"
	"testing"
	"time"

	"github.com/imkonsowa/restaurant-recommender/config"
	"github.com/imkonsowa/restaurant-recommender/metrics"
	"github.com/prometheus/client_golang/prometheus/testutil"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/tmc/langchaingo/llms"
)

type fakeModel struct {
	response *llms.ContentResponse
	err      error
	delay    time.Duration

	messages []llms.MessageContent
	calls    int
}

func (m *fakeModel) GenerateContent(ctx context.Context, messages []llms.MessageContent, _ ...llms.CallOption) (*llms.ContentResponse, error) {
	m.calls++
	m.messages = messages

	if m.delay > 0 {
		select {
		case <-time.After(m.delay):
		case <-ctx.Done():
			return nil, fmt.Errorf("post request: %w", ctx.Err())
		}
	}

	return m.response, m.err
}

func (m *fakeModel) Call(ctx context.Context, prompt string, options ...llms.CallOption) (string, error) {
	return llms.GenerateFromSinglePrompt(ctx, m, prompt, options...)
}

func textResponse(text string) *llms.ContentResponse {
	return &llms.ContentResponse{Choices: []*llms.ContentChoice{{Content: text}}}
}

func TestClient_Complete_Success(t *testing.T) {
	model := &fakeModel{response: textResponse("  1. Truffles is great.\n")}
	client := NewClient(model)

	text, err := client.Complete(context.Background(), "prompt body")
	require.NoError(t, err)
	assert.Equal(t, "1. Truffles is great.", text)

	require.Len(t, model.messages, 1)
	assert.Equal(t, llms.ChatMessageTypeHuman, model.messages[0].Role)
	assert.Equal(t, []llms.ContentPart{llms.TextPart("prompt body")}, model.messages[0].Parts)
}

func TestClient_Complete_Failures(t *testing.T) {
	tests := []struct {
		name  string
		model *fakeModel
		want  FailureKind
	}{
		{
			name:  "no choices",
			model: &fakeModel{response: &llms.ContentResponse{}},
			want:  FailureMalformedResponse,
		},
		{
			name:  "nil response",
			model: &fakeModel{},
			want:  FailureMalformedResponse,
		},
		{
			name:  "blank text",
			model: &fakeModel{response: textResponse(" \n ")},
			want:  FailureMalformedResponse,
		},
		{
			name:  "unauthorized status",
			model: &fakeModel{err: errors.New("API returned unexpected status code: 401: invalid key")},
			want:  FailureUnauthorized,
		},
		{
			name:  "rate limited status",
			model: &fakeModel{err: errors.New("googleapi: Error 429: Resource has been exhausted")},
			want:  FailureRateLimited,
		},
		{
			name:  "server error",
			model: &fakeModel{err: errors.New("API returned unexpected status code: 503")},
			want:  FailureServiceUnavailable,
		},
		{
			name:  "connection refused",
			model: &fakeModel{err: errors.New("dial tcp 127.0.0.1:11434: connect: connection refused")},
			want:  FailureServiceUnavailable,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := NewClient(tt.model).Complete(context.Background(), "prompt")
			require.Error(t, err)

			var f *Failure
			require.ErrorAs(t, err, &f)
			assert.Equal(t, tt.want, f.Kind)
			assert.Equal(t, tt.want, KindOf(err))
		})
	}
}

func TestClient_Complete_Timeout(t *testing.T) {
	model := &fakeModel{delay: time.Second, response: textResponse("late")}

	ctx, cancel := context.WithTimeout(context.Background(), 20*time.Millisecond)
	defer cancel()

	start := time.Now()
	_, err := NewClient(model).Complete(ctx, "prompt")

	assert.Less(t, time.Since(start), 500*time.Millisecond, "call must be aborted by the deadline")
	assert.Equal(t, FailureTimeout, KindOf(err))
	assert.ErrorIs(t, err, context.DeadlineExceeded)
}

func TestNew_MissingCredential(t *testing.T) {
	for _, provider := range []string{"openai", "gemini"} {
		t.Run(provider, func(t *testing.T) {
			client, err := New(context.Background(), config.LLM{Provider: provider})
			require.NoError(t, err)

			_, err = client.Complete(context.Background(), "prompt")
			assert.ErrorIs(t, err, ErrMissingCredential)
			assert.Equal(t, FailureUnauthorized, KindOf(err))
		})
	}
}

func TestNew_UnknownProvider(t *testing.T) {
	_, err := New(context.Background(), config.LLM{Provider: "bard"})
	assert.Error(t, err)
}

func TestNew_Ollama(t *testing.T) {
	client, err := New(context.Background(), config.LLM{Provider: "ollama", Temperature: 0.75, TopP: 0.95, MaxTokens: 512})
	require.NoError(t, err)
	assert.NotNil(t, client.model)
	assert.Len(t, client.options, 3)
}

func TestKindOf(t *testing.T) {
	assert.Equal(t, FailureTimeout, KindOf(context.DeadlineExceeded))
	assert.Equal(t, FailureTimeout, KindOf(fmt.Errorf("wrapped: %w", context.Canceled)))
	assert.Equal(t, FailureRateLimited, KindOf(errors.New("429 Too Many Requests")))
	assert.Equal(t, FailureUnauthorized, KindOf(errors.New("Unauthorized")))
	assert.Equal(t, FailureServiceUnavailable, KindOf(errors.New("boom")))
	assert.Equal(t, FailureMalformedResponse, KindOf(&Failure{Kind: FailureMalformedResponse, Err: ErrEmptyResponse}))
}

func TestClient_Complete_RecordsFailureMetric(t *testing.T) {
	counter := metrics.CompletionFailures.WithLabelValues(string(FailureRateLimited))
	before := testutil.ToFloat64(counter)

	client := NewClient(&fakeModel{err: errors.New("API returned unexpected status code: 429")})
	_, err := client.Complete(context.Background(), "prompt")
	require.Error(t, err)

	assert.Equal(t, before+1, testutil.ToFloat64(counter))
}
