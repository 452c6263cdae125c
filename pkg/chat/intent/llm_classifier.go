package intent

import (
	"context"
	"strings"

	"github.com/saikiransomanagoudar/sonarcare/pkg/llm"
)

const classifyPrompt = `Classify the user's medical query intent into exactly one of these categories:
- greeting: Simple greetings, introductions, or small talk
- symptom_inquiry: Questions about symptoms, their causes, or what they might indicate
- treatment_advice: Questions about treatments, medications, or self-care
- hospital_search: Seeking hospitals, clinics, or medical facilities
- department_inquiry: Questions about which medical department or specialist to consult
- deep_medical_inquiry: Requests for in-depth research or detailed medical information
- unbiased_factual_request: Requests for unbiased information on controversial medical topics
- unknown: Queries that don't fit any other category

User query: '%QUERY%'

Response format: Return only the intent category name, nothing else.`

// LLMClassifier asks the language model for a routing label. It is the
// slow path, used when pattern matching is not trusted for a query.
type LLMClassifier struct {
	provider llm.Provider
}

func NewLLMClassifier(provider llm.Provider) *LLMClassifier {
	return &LLMClassifier{provider: provider}
}

// Classify prompts the model for a single category name. Any response
// that is not a recognized label, including "unknown", resolves to
// symptom inquiry so routing always has a workable target.
func (c *LLMClassifier) Classify(ctx context.Context, query string) (Intent, map[string]interface{}, error) {
	prompt := strings.ReplaceAll(classifyPrompt, "%QUERY%", query)

	res, err := c.provider.Generate(ctx, prompt, llm.WithTemperature(0.0), llm.WithMaxTokens(20))
	if err != nil {
		return SymptomInquiry, nil, err
	}

	raw := strings.TrimSpace(res.Text)
	detected := Coerce(sanitizeLabel(raw))

	return detected, map[string]interface{}{
		"intent":                   detected.String(),
		"method":                   "llm",
		"model":                    res.Model,
		"original_intent_response": raw,
	}, nil
}

// sanitizeLabel extracts a category name from the model's reply. The
// instruction asks for the bare label, but models pad it with quotes,
// punctuation or phrasing like "the intent is greeting", so after
// cleaning, the reply is scanned for any known label.
func sanitizeLabel(raw string) string {
	s := strings.ToLower(strings.TrimSpace(raw))
	s = strings.Trim(s, "\"'`.,:;! ")
	if Intent(s).IsKnown() {
		return s
	}
	for _, in := range labelOrder {
		if strings.Contains(s, in.String()) {
			return in.String()
		}
	}
	return s
}
