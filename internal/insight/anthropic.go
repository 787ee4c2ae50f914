package insight

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"strings"
	"time"

	"github.com/anthropics/anthropic-sdk-go"
	"github.com/anthropics/anthropic-sdk-go/option"
)

const (
	DefaultAnthropicModel = "claude-3-haiku-20240307"
	defaultMaxTokens      = 500
)

// AnthropicProvider calls the Anthropic Messages API. BaseURL overrides the
// API host when set.
type AnthropicProvider struct {
	APIKey     string
	Model      string
	MaxTokens  int
	MaxRetries int
	BaseURL    string
	Client     *http.Client
}

func NewAnthropicProvider(apiKey, model string) *AnthropicProvider {
	if model == "" {
		model = DefaultAnthropicModel
	}
	return &AnthropicProvider{
		APIKey:     apiKey,
		Model:      model,
		MaxTokens:  defaultMaxTokens,
		MaxRetries: 1,
		Client:     &http.Client{Timeout: 60 * time.Second},
	}
}

// ListModels returns the models the provider is known to serve.
func (p *AnthropicProvider) ListModels(ctx context.Context) ([]string, error) {
	return []string{
		"claude-3-haiku-20240307",
		"claude-3-5-haiku-latest",
		"claude-3-5-sonnet-latest",
	}, nil
}

func (p *AnthropicProvider) client() anthropic.Client {
	opts := []option.RequestOption{
		option.WithAPIKey(p.APIKey),
		option.WithMaxRetries(p.MaxRetries),
	}
	if p.BaseURL != "" {
		opts = append(opts, option.WithBaseURL(p.BaseURL))
	}
	if p.Client != nil {
		opts = append(opts, option.WithHTTPClient(p.Client))
	}
	return anthropic.NewClient(opts...)
}

// Complete sends prompt as a single user message and returns the first text block.
func (p *AnthropicProvider) Complete(ctx context.Context, prompt string) (string, error) {
	c := p.client()
	msg, err := c.Messages.New(ctx, anthropic.MessageNewParams{
		Model:     anthropic.Model(p.Model),
		MaxTokens: int64(p.MaxTokens),
		Messages: []anthropic.MessageParam{
			anthropic.NewUserMessage(anthropic.NewTextBlock(prompt)),
		},
	})
	if err != nil {
		var apiErr *anthropic.Error
		if errors.As(err, &apiErr) {
			return "", fmt.Errorf("anthropic API returned %d: %w", apiErr.StatusCode, err)
		}
		return "", fmt.Errorf("anthropic request: %w", err)
	}
	for _, block := range msg.Content {
		if block.Type == "text" {
			return strings.TrimSpace(block.Text), nil
		}
	}
	return "", errors.New("anthropic response has no text content")
}
