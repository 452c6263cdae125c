package strategy

import (
	"context"
	"strings"

	"github.com/saikiransomanagoudar/sonarcare/internal/constant"
	"github.com/saikiransomanagoudar/sonarcare/internal/entity"
	"github.com/saikiransomanagoudar/sonarcare/pkg/chat/prompt"
	"github.com/saikiransomanagoudar/sonarcare/pkg/chat/stream"
)

// ResearchStrategy produces in-depth, expert-level summaries of current
// medical research on a topic.
type ResearchStrategy struct {
	gateway Generator
}

func NewResearch(gateway Generator) *ResearchStrategy {
	return &ResearchStrategy{gateway: gateway}
}

func (s *ResearchStrategy) Name() string { return "research" }

func (s *ResearchStrategy) prepare(ctx context.Context, query string) (string, map[string]interface{}, error) {
	topic, _, err := s.gateway.Generate(ctx, prompt.ExtractResearchTopic(query), nil)
	if err != nil {
		return "", nil, err
	}
	topic = strings.TrimSpace(topic)

	return prompt.DeepResearch(topic), map[string]interface{}{
		"research_topic": topic,
		"research_depth": "comprehensive",
	}, nil
}

func (s *ResearchStrategy) Run(ctx context.Context, query string, history []entity.ChatMessage) (*Outcome, error) {
	researchPrompt, extra, err := s.prepare(ctx, query)
	if err != nil {
		return nil, err
	}

	text, md, err := s.gateway.Generate(ctx, researchPrompt, nil)
	if err != nil {
		return nil, err
	}
	return &Outcome{Text: text, Metadata: mergeMetadata(md, extra)}, nil
}

func (s *ResearchStrategy) RunStream(ctx context.Context, query string, history []entity.ChatMessage) <-chan stream.Event {
	researchPrompt, extra, err := s.prepare(ctx, query)
	if err != nil {
		return errorStream(constant.MsgGenerationError, err)
	}
	return annotateEnd(ctx, s.gateway.GenerateStream(ctx, researchPrompt, nil), extra)
}
