package strategy

import (
	"context"
	"strings"

	"github.com/saikiransomanagoudar/sonarcare/internal/constant"
	"github.com/saikiransomanagoudar/sonarcare/internal/entity"
	"github.com/saikiransomanagoudar/sonarcare/pkg/chat/prompt"
	"github.com/saikiransomanagoudar/sonarcare/pkg/chat/stream"
)

// DepartmentStrategy recommends which medical specialty or department
// fits the user's condition.
type DepartmentStrategy struct {
	gateway Generator
}

func NewDepartment(gateway Generator) *DepartmentStrategy {
	return &DepartmentStrategy{gateway: gateway}
}

func (s *DepartmentStrategy) Name() string { return "department" }

func (s *DepartmentStrategy) prepare(ctx context.Context, query string) (string, map[string]interface{}, error) {
	condition, _, err := s.gateway.Generate(ctx, prompt.ExtractCondition(query), nil)
	if err != nil {
		return "", nil, err
	}
	condition = strings.TrimSpace(condition)

	return prompt.DepartmentGuidance(condition), map[string]interface{}{
		"condition": condition,
	}, nil
}

func (s *DepartmentStrategy) Run(ctx context.Context, query string, history []entity.ChatMessage) (*Outcome, error) {
	guidancePrompt, extra, err := s.prepare(ctx, query)
	if err != nil {
		return nil, err
	}

	text, md, err := s.gateway.Generate(ctx, guidancePrompt, nil)
	if err != nil {
		return nil, err
	}
	return &Outcome{Text: text, Metadata: mergeMetadata(md, extra)}, nil
}

func (s *DepartmentStrategy) RunStream(ctx context.Context, query string, history []entity.ChatMessage) <-chan stream.Event {
	guidancePrompt, extra, err := s.prepare(ctx, query)
	if err != nil {
		return errorStream(constant.MsgGenerationError, err)
	}
	return annotateEnd(ctx, s.gateway.GenerateStream(ctx, guidancePrompt, nil), extra)
}
