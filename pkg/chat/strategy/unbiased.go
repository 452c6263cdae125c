package strategy

import (
	"context"
	"strings"

	"github.com/saikiransomanagoudar/sonarcare/internal/constant"
	"github.com/saikiransomanagoudar/sonarcare/internal/entity"
	"github.com/saikiransomanagoudar/sonarcare/pkg/chat/prompt"
	"github.com/saikiransomanagoudar/sonarcare/pkg/chat/stream"
)

// UnbiasedStrategy gives neutral, evidence-based overviews of medical
// topics that may be controversial.
type UnbiasedStrategy struct {
	gateway Generator
}

func NewUnbiased(gateway Generator) *UnbiasedStrategy {
	return &UnbiasedStrategy{gateway: gateway}
}

func (s *UnbiasedStrategy) Name() string { return "unbiased" }

func (s *UnbiasedStrategy) prepare(ctx context.Context, query string) (string, map[string]interface{}, error) {
	topic, _, err := s.gateway.Generate(ctx, prompt.ExtractControversialTopic(query), nil)
	if err != nil {
		return "", nil, err
	}
	topic = strings.TrimSpace(topic)

	return prompt.BalancedOverview(topic), map[string]interface{}{
		"topic":         topic,
		"response_type": "unbiased_factual",
	}, nil
}

func (s *UnbiasedStrategy) Run(ctx context.Context, query string, history []entity.ChatMessage) (*Outcome, error) {
	overviewPrompt, extra, err := s.prepare(ctx, query)
	if err != nil {
		return nil, err
	}

	text, md, err := s.gateway.Generate(ctx, overviewPrompt, nil)
	if err != nil {
		return nil, err
	}
	return &Outcome{Text: text, Metadata: mergeMetadata(md, extra)}, nil
}

func (s *UnbiasedStrategy) RunStream(ctx context.Context, query string, history []entity.ChatMessage) <-chan stream.Event {
	overviewPrompt, extra, err := s.prepare(ctx, query)
	if err != nil {
		return errorStream(constant.MsgGenerationError, err)
	}
	return annotateEnd(ctx, s.gateway.GenerateStream(ctx, overviewPrompt, nil), extra)
}
