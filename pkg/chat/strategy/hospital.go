package strategy

import (
	"context"

	"github.com/saikiransomanagoudar/sonarcare/internal/constant"
	"github.com/saikiransomanagoudar/sonarcare/internal/entity"
	"github.com/saikiransomanagoudar/sonarcare/pkg/chat/prompt"
	"github.com/saikiransomanagoudar/sonarcare/pkg/chat/stream"
)

// HospitalStrategy finds hospitals and medical facilities. It extracts
// the location and specialty from the query, researches matching
// facilities, then produces selection guidance with sources.
type HospitalStrategy struct {
	gateway Generator
}

func NewHospital(gateway Generator) *HospitalStrategy {
	return &HospitalStrategy{gateway: gateway}
}

func (s *HospitalStrategy) Name() string { return "hospital" }

func (s *HospitalStrategy) prepare(ctx context.Context, query string) (guidancePrompt string, extra map[string]interface{}, err error) {
	extraction, _, err := s.gateway.Generate(ctx, prompt.ExtractLocationSpecialty(query), nil)
	if err != nil {
		return "", nil, err
	}
	location, specialty := prompt.ParseLocationSpecialty(extraction)

	facilityInfo, _, err := s.gateway.Generate(ctx, prompt.FacilitySearch(location, specialty), nil)
	if err != nil {
		return "", nil, err
	}

	return prompt.HospitalGuidance(query, facilityInfo), map[string]interface{}{
		"location":      location,
		"specialty":     specialty,
		"research_type": "hospital_and_facility_search",
	}, nil
}

func (s *HospitalStrategy) Run(ctx context.Context, query string, history []entity.ChatMessage) (*Outcome, error) {
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

func (s *HospitalStrategy) RunStream(ctx context.Context, query string, history []entity.ChatMessage) <-chan stream.Event {
	guidancePrompt, extra, err := s.prepare(ctx, query)
	if err != nil {
		return errorStream(constant.MsgGenerationError, err)
	}
	return annotateEnd(ctx, s.gateway.GenerateStream(ctx, guidancePrompt, nil), extra)
}
