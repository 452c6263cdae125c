package strategy

import (
	"context"
	"strings"

	"github.com/saikiransomanagoudar/sonarcare/internal/constant"
	"github.com/saikiransomanagoudar/sonarcare/internal/entity"
	"github.com/saikiransomanagoudar/sonarcare/pkg/chat/prompt"
	"github.com/saikiransomanagoudar/sonarcare/pkg/chat/stream"
)

// MedicineStrategy handles symptom and treatment questions with a
// two-step flow: extract the condition, research it, then turn the
// research into safe user-facing advice.
type MedicineStrategy struct {
	gateway Generator
}

func NewMedicine(gateway Generator) *MedicineStrategy {
	return &MedicineStrategy{gateway: gateway}
}

func (s *MedicineStrategy) Name() string { return "medicine" }

func (s *MedicineStrategy) prepare(ctx context.Context, query string) (advicePrompt string, extra map[string]interface{}, err error) {
	condition, _, err := s.gateway.Generate(ctx, prompt.ExtractCondition(query), nil)
	if err != nil {
		return "", nil, err
	}
	condition = strings.TrimSpace(condition)

	facts, _, err := s.gateway.Generate(ctx, prompt.MedicalFacts(condition), nil)
	if err != nil {
		return "", nil, err
	}

	return prompt.SafeAdvice(query, facts), map[string]interface{}{
		"condition":        condition,
		"two_step_process": true,
	}, nil
}

func (s *MedicineStrategy) Run(ctx context.Context, query string, history []entity.ChatMessage) (*Outcome, error) {
	advicePrompt, extra, err := s.prepare(ctx, query)
	if err != nil {
		return nil, err
	}

	text, md, err := s.gateway.Generate(ctx, advicePrompt, nil)
	if err != nil {
		return nil, err
	}
	return &Outcome{Text: text, Metadata: mergeMetadata(md, extra)}, nil
}

func (s *MedicineStrategy) RunStream(ctx context.Context, query string, history []entity.ChatMessage) <-chan stream.Event {
	advicePrompt, extra, err := s.prepare(ctx, query)
	if err != nil {
		return errorStream(constant.MsgGenerationError, err)
	}
	return annotateEnd(ctx, s.gateway.GenerateStream(ctx, advicePrompt, nil), extra)
}
