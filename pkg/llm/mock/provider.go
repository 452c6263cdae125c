package mock

import (
	"context"
	"strings"
	"time"

	"github.com/saikiransomanagoudar/sonarcare/pkg/llm"
)

// MockProvider produces deterministic canned answers for development and
// testing without API credentials. Every result is flagged Mock so a
// canned answer can never be mistaken for a grounded one.
type MockProvider struct {
	// Delay simulates network latency; zero in tests.
	Delay time.Duration
}

var _ llm.Provider = &MockProvider{}

func NewMockProvider() *MockProvider {
	return &MockProvider{Delay: 150 * time.Millisecond}
}

const defaultReply = "I'm SonarCare, your medical assistant. For real medical advice, please consult a healthcare professional."

var cannedReplies = []struct {
	keyword string
	reply   string
}{
	{"headache", "Headaches can have many causes including stress, dehydration, lack of sleep, or underlying conditions. For persistent or severe headaches, please consult a healthcare professional. In the meantime, rest, hydration, and over-the-counter pain relievers may help, but this is not a substitute for professional medical advice."},
	{"fever", "Fever is often a sign that your body is fighting an infection. For adults, a temperature above 100.4°F (38°C) is considered a fever. Rest, fluids, and fever-reducing medications may help. If the fever is high, persistent, or accompanied by other concerning symptoms, please seek medical attention immediately."},
	{"diabetes", "Diabetes is a chronic condition that affects how your body processes blood sugar. There are several types, with Type 1 and Type 2 being the most common. Management typically involves monitoring blood sugar, medication, diet, and exercise. Regular medical check-ups are essential. I recommend consulting with a healthcare provider for personalized advice."},
}

func (p *MockProvider) Chat(ctx context.Context, history []llm.Message, opts ...llm.Option) (*llm.Result, error) {
	if p.Delay > 0 {
		select {
		case <-time.After(p.Delay):
		case <-ctx.Done():
			return nil, ctx.Err()
		}
	}

	var query string
	for i := len(history) - 1; i >= 0; i-- {
		if history[i].Role == "user" {
			query = history[i].Content
			break
		}
	}

	text := pickReply(query)
	return &llm.Result{
		Text:  text,
		Model: "mock-model",
		Mock:  true,
		Tokens: llm.TokenUsage{
			Prompt:     len(strings.Fields(query)),
			Completion: len(strings.Fields(text)),
			Total:      len(strings.Fields(query)) + len(strings.Fields(text)),
		},
	}, nil
}

func (p *MockProvider) Generate(ctx context.Context, prompt string, opts ...llm.Option) (*llm.Result, error) {
	return p.Chat(ctx, []llm.Message{{Role: "user", Content: prompt}}, opts...)
}

func pickReply(query string) string {
	lower := strings.ToLower(query)
	for _, c := range cannedReplies {
		if strings.Contains(lower, c.keyword) {
			return c.reply
		}
	}
	return defaultReply
}
