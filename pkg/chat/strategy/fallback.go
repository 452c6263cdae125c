package strategy

import (
	"context"

	"github.com/saikiransomanagoudar/sonarcare/internal/entity"
	"github.com/saikiransomanagoudar/sonarcare/pkg/chat/stream"
)

// FallbackStrategy sends the raw query straight to the gateway with the
// conversation history. It backs any strategy whose richer flow failed,
// so it must not have failure-prone preparation steps of its own.
type FallbackStrategy struct {
	gateway Generator
}

func NewFallback(gateway Generator) *FallbackStrategy {
	return &FallbackStrategy{gateway: gateway}
}

func (s *FallbackStrategy) Name() string { return "fallback" }

func (s *FallbackStrategy) Run(ctx context.Context, query string, history []entity.ChatMessage) (*Outcome, error) {
	text, md, err := s.gateway.Generate(ctx, query, history)
	if err != nil {
		return nil, err
	}
	return &Outcome{Text: text, Metadata: md}, nil
}

func (s *FallbackStrategy) RunStream(ctx context.Context, query string, history []entity.ChatMessage) <-chan stream.Event {
	return s.gateway.GenerateStream(ctx, query, history)
}
