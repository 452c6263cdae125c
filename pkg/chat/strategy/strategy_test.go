package strategy

import (
	"context"
	"errors"
	"strings"
	"testing"

	"github.com/saikiransomanagoudar/sonarcare/internal/constant"
	"github.com/saikiransomanagoudar/sonarcare/internal/entity"
	"github.com/saikiransomanagoudar/sonarcare/pkg/chat/intent"
	"github.com/saikiransomanagoudar/sonarcare/pkg/chat/stream"
)

// scriptedGateway answers each Generate call by matching a substring of
// the prompt, recording the prompts it saw.
type scriptedGateway struct {
	answers map[string]string // prompt substring -> reply
	prompts []string
	err     error
}

func (g *scriptedGateway) Generate(ctx context.Context, prompt string, history []entity.ChatMessage) (string, map[string]interface{}, error) {
	g.prompts = append(g.prompts, prompt)
	if g.err != nil {
		return "", nil, g.err
	}
	for needle, reply := range g.answers {
		if strings.Contains(prompt, needle) {
			return reply, map[string]interface{}{"model": "stub"}, nil
		}
	}
	return "generic answer", map[string]interface{}{"model": "stub"}, nil
}

func (g *scriptedGateway) GenerateStream(ctx context.Context, prompt string, history []entity.ChatMessage) <-chan stream.Event {
	out := make(chan stream.Event, 3)
	text, md, err := g.Generate(ctx, prompt, history)
	if err != nil {
		out <- stream.Error(constant.MsgGenerationError, map[string]interface{}{"error": err.Error()})
		close(out)
		return out
	}
	out <- stream.Start(nil)
	out <- stream.Chunk(text)
	out <- stream.End(text, nil, md)
	close(out)
	return out
}

func (g *scriptedGateway) SupportsStreaming() bool { return true }

func TestGreetingFirstTime(t *testing.T) {
	gw := &scriptedGateway{answers: map[string]string{"comprehensive introduction": "Welcome to SonarCare!"}}
	s := NewGreeting(gw)

	out, err := s.Run(context.Background(), "hello", nil)
	if err != nil {
		t.Fatal(err)
	}
	if out.Text != "Welcome to SonarCare!" {
		t.Errorf("text = %q", out.Text)
	}
	if out.Metadata["greeting_type"] != "first_time" {
		t.Errorf("greeting_type = %v, want first_time", out.Metadata["greeting_type"])
	}
}

func TestGreetingReturning(t *testing.T) {
	gw := &scriptedGateway{answers: map[string]string{"friendly, empathetic greeting": "Hello again!"}}
	s := NewGreeting(gw)

	history := []entity.ChatMessage{
		{Sender: constant.SenderUser, Text: "hi"},
		{Sender: constant.SenderBot, Text: "welcome"},
	}
	out, err := s.Run(context.Background(), "hello", history)
	if err != nil {
		t.Fatal(err)
	}
	if out.Metadata["greeting_type"] != "returning" {
		t.Errorf("greeting_type = %v, want returning", out.Metadata["greeting_type"])
	}
}

func TestMedicineTwoStepFlow(t *testing.T) {
	gw := &scriptedGateway{answers: map[string]string{
		"Extract the primary medical condition": "tension headache",
		"PATHOPHYSIOLOGY AND BACKGROUND":        "headache facts",
		"Comprehensive medical research context": "Here is safe advice.",
	}}
	s := NewMedicine(gw)

	out, err := s.Run(context.Background(), "I have a bad headache", nil)
	if err != nil {
		t.Fatal(err)
	}
	if out.Text != "Here is safe advice." {
		t.Errorf("text = %q", out.Text)
	}
	if out.Metadata["condition"] != "tension headache" {
		t.Errorf("condition = %v", out.Metadata["condition"])
	}
	if out.Metadata["two_step_process"] != true {
		t.Errorf("two_step_process missing: %v", out.Metadata)
	}
	if len(gw.prompts) != 3 {
		t.Errorf("got %d gateway calls, want 3", len(gw.prompts))
	}
}

func TestMedicineStreamAnnotatesEnd(t *testing.T) {
	gw := &scriptedGateway{answers: map[string]string{
		"Extract the primary medical condition": "migraine",
	}}
	s := NewMedicine(gw)

	var events []stream.Event
	for ev := range s.RunStream(context.Background(), "my head is killing me", nil) {
		events = append(events, ev)
	}

	last := events[len(events)-1]
	if last.Type != stream.EventEnd {
		t.Fatalf("terminal event = %s, want end", last.Type)
	}
	if last.Metadata["condition"] != "migraine" {
		t.Errorf("end metadata missing condition: %v", last.Metadata)
	}
}

func TestHospitalExtraction(t *testing.T) {
	gw := &scriptedGateway{answers: map[string]string{
		"Extract the location and medical specialty": "Location: Boston\nSpecialty: cardiology",
		"hospitals and medical facilities":           "facility research",
		"Comprehensive facility research":            "Here is guidance.",
	}}
	s := NewHospital(gw)

	out, err := s.Run(context.Background(), "find a cardiologist near Boston", nil)
	if err != nil {
		t.Fatal(err)
	}
	if out.Metadata["location"] != "Boston" {
		t.Errorf("location = %v", out.Metadata["location"])
	}
	if !strings.Contains(out.Metadata["specialty"].(string), "cardio") {
		t.Errorf("specialty = %v", out.Metadata["specialty"])
	}
	if out.Text != "Here is guidance." {
		t.Errorf("text = %q", out.Text)
	}
}

func TestStrategyErrorPropagates(t *testing.T) {
	gw := &scriptedGateway{err: errors.New("upstream down")}

	if _, err := NewMedicine(gw).Run(context.Background(), "headache", nil); err == nil {
		t.Error("medicine: expected error")
	}
	if _, err := NewResearch(gw).Run(context.Background(), "latest research", nil); err == nil {
		t.Error("research: expected error")
	}
}

func TestStreamPrepFailureEmitsSingleError(t *testing.T) {
	gw := &scriptedGateway{err: errors.New("upstream down")}
	s := NewHospital(gw)

	var events []stream.Event
	for ev := range s.RunStream(context.Background(), "hospital near me", nil) {
		events = append(events, ev)
	}

	if len(events) != 1 || events[0].Type != stream.EventError {
		t.Fatalf("events = %+v, want exactly one error event", events)
	}
	if events[0].Data != constant.MsgGenerationError {
		t.Errorf("user text = %q, want the generic generation error", events[0].Data)
	}
}

func TestRegistryDispatch(t *testing.T) {
	r := NewRegistry(&scriptedGateway{})

	tests := []struct {
		in   intent.Intent
		want string
	}{
		{intent.Greeting, "greeting"},
		{intent.SymptomInquiry, "medicine"},
		{intent.TreatmentAdvice, "medicine"},
		{intent.HospitalSearch, "hospital"},
		{intent.DepartmentInquiry, "department"},
		{intent.DeepMedicalInquiry, "research"},
		{intent.UnbiasedFactualRequest, "unbiased"},
		{intent.ComprehensiveHealthAssessment, "medicine"},
		{intent.Unknown, "medicine"},
		{intent.Intent("garbage"), "medicine"},
	}
	for _, tt := range tests {
		if got := r.Resolve(tt.in).Name(); got != tt.want {
			t.Errorf("Resolve(%s) = %s, want %s", tt.in, got, tt.want)
		}
	}
}

func TestStreamingCapabilityByType(t *testing.T) {
	r := NewRegistry(&scriptedGateway{})

	if _, ok := r.Resolve(intent.Greeting).(StreamingStrategy); ok {
		t.Error("greeting strategy should be batch-only")
	}
	if _, ok := r.Resolve(intent.SymptomInquiry).(StreamingStrategy); !ok {
		t.Error("medicine strategy should support streaming")
	}
}
