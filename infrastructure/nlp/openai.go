package nlp

import (
	"context"
	"errors"
	"fmt"
	"net"
	"net/http"
	"strings"
	"time"

	openai "github.com/sashabaranov/go-openai"
	"github.com/tidwall/gjson"

	"github.com/aoidb/aoi/domain/fusion"
)

const nerPrompt = `Extract named entities from the user's text.
Reply with a JSON object {"entities":[{"label":"PERSON|ORG|GPE","text":"..."}]}.
Use PERSON for people, ORG for organizations, GPE for places. Copy text spans verbatim.`

// OpenAIConfig holds configuration for the OpenAI-compatible recognizer.
type OpenAIConfig struct {
	APIKey       string
	BaseURL      string
	Model        string
	Timeout      time.Duration
	MaxRetries   int
	InitialDelay time.Duration
	// CacheDir, when set, stores successful responses on disk and replays
	// them for identical requests.
	CacheDir string
}

// OpenAIRecognizer asks a chat model to tag entities. Any OpenAI-compatible
// endpoint works.
type OpenAIRecognizer struct {
	client       *openai.Client
	model        string
	maxRetries   int
	initialDelay time.Duration
}

// NewOpenAIRecognizer creates a recognizer from configuration.
func NewOpenAIRecognizer(cfg OpenAIConfig) (*OpenAIRecognizer, error) {
	if cfg.APIKey == "" && cfg.BaseURL == "" {
		return nil, errors.New("openai recognizer needs an API key or a base URL")
	}

	config := openai.DefaultConfig(cfg.APIKey)
	if cfg.BaseURL != "" {
		config.BaseURL = cfg.BaseURL
	}
	httpClient := &http.Client{Timeout: cfg.Timeout}
	if cfg.CacheDir != "" {
		transport, err := newCachingTransport(cfg.CacheDir, nil)
		if err != nil {
			return nil, err
		}
		httpClient.Transport = transport
	}
	config.HTTPClient = httpClient

	r := &OpenAIRecognizer{
		client:       openai.NewClientWithConfig(config),
		model:        cfg.Model,
		maxRetries:   cfg.MaxRetries,
		initialDelay: cfg.InitialDelay,
	}
	if r.model == "" {
		r.model = openai.GPT4oMini
	}
	if r.initialDelay == 0 {
		r.initialDelay = time.Second
	}
	return r, nil
}

// Recognize sends text to the chat model and parses the entity list.
func (r *OpenAIRecognizer) Recognize(ctx context.Context, text string) ([]fusion.Recognition, error) {
	req := openai.ChatCompletionRequest{
		Model: r.model,
		Messages: []openai.ChatCompletionMessage{
			{Role: openai.ChatMessageRoleSystem, Content: nerPrompt},
			{Role: openai.ChatMessageRoleUser, Content: text},
		},
		ResponseFormat: &openai.ChatCompletionResponseFormat{Type: openai.ChatCompletionResponseFormatTypeJSONObject},
	}

	var resp openai.ChatCompletionResponse
	err := r.withRetry(ctx, func() error {
		var err error
		resp, err = r.client.CreateChatCompletion(ctx, req)
		return err
	})
	if err != nil {
		return nil, fmt.Errorf("chat completion: %w", err)
	}
	if len(resp.Choices) == 0 {
		return nil, errors.New("chat completion returned no choices")
	}

	content := resp.Choices[0].Message.Content
	if !gjson.Valid(content) {
		return nil, fmt.Errorf("chat completion returned invalid JSON: %.80q", content)
	}

	var out []fusion.Recognition
	gjson.Get(content, "entities").ForEach(func(_, v gjson.Result) bool {
		label := strings.TrimSpace(v.Get("label").String())
		span := strings.TrimSpace(v.Get("text").String())
		if label != "" && span != "" {
			out = append(out, fusion.Recognition{Label: label, Text: span})
		}
		return true
	})
	return out, nil
}

// withRetry retries transient failures with exponential backoff.
func (r *OpenAIRecognizer) withRetry(ctx context.Context, fn func() error) error {
	delay := r.initialDelay
	var lastErr error
	for attempt := 0; attempt <= r.maxRetries; attempt++ {
		if err := ctx.Err(); err != nil {
			return err
		}
		lastErr = fn()
		if lastErr == nil || !retryable(lastErr) {
			return lastErr
		}
		if attempt < r.maxRetries {
			select {
			case <-ctx.Done():
				return ctx.Err()
			case <-time.After(delay):
				delay *= 2
			}
		}
	}
	return fmt.Errorf("max retries exceeded: %w", lastErr)
}

func retryable(err error) bool {
	var netErr net.Error
	if errors.As(err, &netErr) && netErr.Timeout() {
		return true
	}
	var apiErr *openai.APIError
	if errors.As(err, &apiErr) {
		switch apiErr.HTTPStatusCode {
		case http.StatusTooManyRequests,
			http.StatusInternalServerError,
			http.StatusBadGateway,
			http.StatusServiceUnavailable,
			http.StatusGatewayTimeout:
			return true
		}
	}
	var reqErr *openai.RequestError
	return errors.As(err, &reqErr)
}
