package strategy

import (
	"context"

	"github.com/saikiransomanagoudar/sonarcare/internal/entity"
	"github.com/saikiransomanagoudar/sonarcare/pkg/chat/prompt"
)

// GreetingStrategy answers greetings and introductions. A history of at
// most one message selects the longer first-contact introduction.
// Greetings are short, so this strategy stays batch-only.
type GreetingStrategy struct {
	gateway Generator
}

func NewGreeting(gateway Generator) *GreetingStrategy {
	return &GreetingStrategy{gateway: gateway}
}

func (s *GreetingStrategy) Name() string { return "greeting" }

func (s *GreetingStrategy) Run(ctx context.Context, query string, history []entity.ChatMessage) (*Outcome, error) {
	text, firstTime := prompt.Greeting(len(history))

	response, md, err := s.gateway.Generate(ctx, text, nil)
	if err != nil {
		return nil, err
	}

	greetingType := "returning"
	if firstTime {
		greetingType = "first_time"
	}
	return &Outcome{
		Text:     response,
		Metadata: mergeMetadata(md, map[string]interface{}{"greeting_type": greetingType}),
	}, nil
}
