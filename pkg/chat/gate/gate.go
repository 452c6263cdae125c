// Package gate decides whether a query is on-topic for a medical
// assistant before any model call is spent on it.
package gate

import (
	"context"
	"regexp"
	"strings"

	"github.com/saikiransomanagoudar/sonarcare/pkg/llm"
)

var medicalKeywords = []string{
	"health", "medical", "doctor", "hospital", "clinic", "medicine", "medication",
	"symptoms", "treatment", "diagnosis", "therapy", "pain", "illness", "disease",
	"condition", "surgery", "prescription", "nurse", "physician", "specialist",
	"emergency", "urgent", "fever", "headache", "cough", "injury", "wound",
	"infection", "virus", "bacteria", "cancer", "diabetes", "heart", "blood",
}

var medicalPatterns = []*regexp.Regexp{
	regexp.MustCompile(`\bfeel(ing)?\s+(sick|ill|unwell|bad)\b`),
	regexp.MustCompile(`\bhurt(s|ing)?\b`),
	regexp.MustCompile(`\bpain\b`),
	regexp.MustCompile(`\bache\b`),
	regexp.MustCompile(`\bsymptom\b`),
	regexp.MustCompile(`\bwhat\s+(is|could\s+be)\s+(wrong|causing)\b`),
}

// Greetings and small talk carry no medical signal but still belong to
// the assistant: they route to the greeting strategy downstream. Without
// this pass a plain "hello" would be sent to the topic check and denied.
var smallTalkPatterns = []*regexp.Regexp{
	regexp.MustCompile(`^\s*(hello|hi|hey|good\s+(morning|afternoon|evening)|greetings?)\b`),
	regexp.MustCompile(`^\s*(how are you|what's up)\b`),
	regexp.MustCompile(`^\s*(thanks|thank you|bye|goodbye)\b`),
	regexp.MustCompile(`^\s*(start|begin|let's start)\b`),
}

const topicPrompt = `Is the following message about health, medicine, symptoms, medical facilities, or any other healthcare topic? Answer with only "yes" or "no".

Message: '%s'`

// HealthcareGate screens queries for healthcare relevance. The keyword
// pass answers almost every query locally; the model is consulted only
// when the local pass finds no signal and a provider is configured. Any
// uncertainty resolves to allowing the query, since intent routing
// downstream can still reject it.
type HealthcareGate struct {
	provider llm.Provider
}

func New(provider llm.Provider) *HealthcareGate {
	return &HealthcareGate{provider: provider}
}

// QuickCheck is the local keyword and pattern pass. It never blocks.
func QuickCheck(text string) bool {
	lower := strings.ToLower(text)
	for _, kw := range medicalKeywords {
		if strings.Contains(lower, kw) {
			return true
		}
	}
	for _, re := range medicalPatterns {
		if re.MatchString(lower) {
			return true
		}
	}
	for _, re := range smallTalkPatterns {
		if re.MatchString(lower) {
			return true
		}
	}
	return false
}

// Allow reports whether the query should proceed to response generation.
func (g *HealthcareGate) Allow(ctx context.Context, text string) bool {
	if QuickCheck(text) {
		return true
	}
	if g.provider == nil {
		return true
	}

	res, err := g.provider.Generate(ctx, sprintfTopic(text), llm.WithTemperature(0.0), llm.WithMaxTokens(5))
	if err != nil {
		// Fail open on provider errors.
		return true
	}

	answer := strings.ToLower(strings.TrimSpace(res.Text))
	return !strings.HasPrefix(answer, "no")
}

func sprintfTopic(text string) string {
	return strings.Replace(topicPrompt, "%s", text, 1)
}
