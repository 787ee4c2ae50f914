package insight

import (
	"context"
	"fmt"
)

// ModelLister is implemented by providers that can enumerate their models.
type ModelLister interface {
	ListModels(ctx context.Context) ([]string, error)
}

// Providers lists the accepted provider names.
var Providers = []string{"anthropic", "gemini"}

// NewProvider builds the named provider. An empty apiKey returns a nil
// Provider and no error, which New turns into a silent no-op.
func NewProvider(ctx context.Context, name, apiKey, modelName string) (Provider, error) {
	switch name {
	case "anthropic", "gemini":
	default:
		return nil, fmt.Errorf("unknown provider: %s", name)
	}
	if apiKey == "" {
		return nil, nil
	}
	if name == "gemini" {
		g, err := NewGeminiProvider(ctx, apiKey, modelName)
		if err != nil {
			return nil, err
		}
		return g, nil
	}
	return NewAnthropicProvider(apiKey, modelName), nil
}
