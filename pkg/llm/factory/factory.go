package factory

import (
	"fmt"

	"github.com/saikiransomanagoudar/sonarcare/pkg/llm"
	"github.com/saikiransomanagoudar/sonarcare/pkg/llm/mock"
	"github.com/saikiransomanagoudar/sonarcare/pkg/llm/openai"
	"github.com/saikiransomanagoudar/sonarcare/pkg/llm/perplexity"
)

// NewProvider builds the configured LLM backend. An empty API key always
// selects the offline mock responder regardless of provider type, so the
// service stays runnable in development without credentials.
func NewProvider(providerType, modelName, apiKey string) (llm.Provider, error) {
	if apiKey == "" {
		return mock.NewMockProvider(), nil
	}

	switch providerType {
	case "perplexity":
		if modelName == "" {
			modelName = "sonar" // Default online search model
		}
		return perplexity.NewPerplexityProvider(apiKey, modelName), nil
	case "openai":
		return openai.NewOpenAIProvider(apiKey, modelName), nil
	case "mock":
		return mock.NewMockProvider(), nil
	default:
		return nil, fmt.Errorf("unsupported LLM provider: %s", providerType)
	}
}
