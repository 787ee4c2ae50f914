package insight

import (
	"context"
	"fmt"
	"strings"

	"github.com/google/generative-ai-go/genai"
	"google.golang.org/api/iterator"
	"google.golang.org/api/option"
)

const DefaultGeminiModel = "gemini-1.5-flash"

// GeminiProvider generates text with the Gemini API.
type GeminiProvider struct {
	client *genai.Client
	model  *genai.GenerativeModel
}

func NewGeminiProvider(ctx context.Context, apiKey, modelName string, opts ...option.ClientOption) (*GeminiProvider, error) {
	opts = append([]option.ClientOption{option.WithAPIKey(apiKey)}, opts...)
	client, err := genai.NewClient(ctx, opts...)
	if err != nil {
		return nil, fmt.Errorf("gemini client: %w", err)
	}
	if modelName == "" {
		modelName = DefaultGeminiModel
	}
	model := client.GenerativeModel(modelName)
	model.SetTemperature(0)
	model.SetMaxOutputTokens(defaultMaxTokens)
	return &GeminiProvider{client: client, model: model}, nil
}

// ListModels returns the gemini models that the key can reach.
func (g *GeminiProvider) ListModels(ctx context.Context) ([]string, error) {
	iter := g.client.ListModels(ctx)
	var names []string
	for {
		m, err := iter.Next()
		if err == iterator.Done {
			break
		}
		if err != nil {
			return nil, err
		}
		if strings.Contains(m.Name, "gemini") {
			names = append(names, strings.TrimPrefix(m.Name, "models/"))
		}
	}
	return names, nil
}

// Complete implements Provider.
func (g *GeminiProvider) Complete(ctx context.Context, prompt string) (string, error) {
	resp, err := g.model.GenerateContent(ctx, genai.Text(prompt))
	if err != nil {
		return "", err
	}
	if len(resp.Candidates) == 0 || resp.Candidates[0].Content == nil {
		return "", fmt.Errorf("no response candidates")
	}
	var b strings.Builder
	for _, part := range resp.Candidates[0].Content.Parts {
		if text, ok := part.(genai.Text); ok {
			b.WriteString(string(text))
		}
	}
	if b.Len() == 0 {
		return "", fmt.Errorf("gemini response has no text")
	}
	return strings.TrimSpace(b.String()), nil
}

func (g *GeminiProvider) Close() error {
	return g.client.Close()
}
