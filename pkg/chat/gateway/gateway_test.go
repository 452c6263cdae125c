package gateway

import (
	"context"
	"errors"
	"strings"
	"testing"

	"github.com/saikiransomanagoudar/sonarcare/internal/constant"
	"github.com/saikiransomanagoudar/sonarcare/internal/entity"
	"github.com/saikiransomanagoudar/sonarcare/pkg/chat/stream"
	"github.com/saikiransomanagoudar/sonarcare/pkg/llm"
)

type batchStub struct {
	result   *llm.Result
	err      error
	messages []llm.Message
}

func (s *batchStub) Chat(ctx context.Context, history []llm.Message, options ...llm.Option) (*llm.Result, error) {
	s.messages = history
	if s.err != nil {
		return nil, s.err
	}
	return s.result, nil
}

func (s *batchStub) Generate(ctx context.Context, prompt string, options ...llm.Option) (*llm.Result, error) {
	return s.Chat(ctx, []llm.Message{{Role: "user", Content: prompt}}, options...)
}

type streamStub struct {
	batchStub
	chunks []llm.Chunk
}

func (s *streamStub) ChatStream(ctx context.Context, history []llm.Message, options ...llm.Option) (<-chan llm.Chunk, <-chan error) {
	chunks := make(chan llm.Chunk, len(s.chunks))
	errs := make(chan error, 1)
	for _, c := range s.chunks {
		chunks <- c
	}
	close(chunks)
	close(errs)
	return chunks, errs
}

func collect(t *testing.T, events <-chan stream.Event) []stream.Event {
	t.Helper()
	var out []stream.Event
	for ev := range events {
		out = append(out, ev)
	}
	return out
}

func checkOrdering(t *testing.T, events []stream.Event) {
	t.Helper()
	if len(events) == 0 {
		t.Fatal("no events emitted")
	}
	terminals := 0
	for _, ev := range events {
		if ev.IsTerminal() {
			terminals++
		}
	}
	if terminals != 1 {
		t.Fatalf("got %d terminal events, want exactly 1", terminals)
	}
	if !events[len(events)-1].IsTerminal() {
		t.Fatal("terminal event is not last")
	}
}

func TestBuildMessages(t *testing.T) {
	history := []entity.ChatMessage{
		{Sender: constant.SenderUser, Text: "hi"},
		{Sender: constant.SenderBot, Text: "hello, how can I help"},
	}

	messages := buildMessages("my head hurts", history)

	if len(messages) != 4 {
		t.Fatalf("got %d messages, want 4", len(messages))
	}
	if messages[0].Role != "system" {
		t.Errorf("first message role = %s, want system", messages[0].Role)
	}
	if messages[1].Role != "user" || messages[2].Role != "assistant" {
		t.Errorf("history roles = %s, %s, want user, assistant", messages[1].Role, messages[2].Role)
	}
	if messages[3].Role != "user" || messages[3].Content != "my head hurts" {
		t.Errorf("final message = %+v", messages[3])
	}
}

func TestBuildMessagesCapsHistory(t *testing.T) {
	history := make([]entity.ChatMessage, 25)
	for i := range history {
		history[i] = entity.ChatMessage{Sender: constant.SenderUser, Text: "turn"}
	}

	messages := buildMessages("query", history)
	if len(messages) != historyLimit+2 {
		t.Fatalf("got %d messages, want %d", len(messages), historyLimit+2)
	}
}

func TestGenerateFormatsAndCleans(t *testing.T) {
	g := New(&batchStub{result: &llm.Result{
		Text:      "Drink   water.",
		Model:     "sonar",
		Citations: []string{"https://cdc.gov/hydration"},
		Tokens:    llm.TokenUsage{Prompt: 10, Completion: 5, Total: 15},
	}})

	text, md, err := g.Generate(context.Background(), "prompt", nil)
	if err != nil {
		t.Fatal(err)
	}
	if !strings.Contains(text, "Drink water.") {
		t.Errorf("cleanup not applied: %q", text)
	}
	if !strings.Contains(text, "[1] [CDC](https://cdc.gov/hydration)") {
		t.Errorf("citations not formatted: %q", text)
	}
	if md["has_sources"] != true || md["grounded"] != true {
		t.Errorf("source metadata = %v", md)
	}
	if md["model"] != "sonar" {
		t.Errorf("model = %v", md["model"])
	}
}

func TestGenerateError(t *testing.T) {
	g := New(&batchStub{err: errors.New("upstream down")})

	if _, _, err := g.Generate(context.Background(), "prompt", nil); err == nil {
		t.Fatal("expected error")
	}
}

func TestGenerateStreamRelaysNativeChunks(t *testing.T) {
	stub := &streamStub{chunks: []llm.Chunk{
		{Content: "Drink "},
		{Content: "water."},
		{Done: true, Model: "sonar", Citations: []string{"https://cdc.gov/hydration"}},
	}}
	g := New(stub)
	if !g.SupportsStreaming() {
		t.Fatal("streaming provider not detected")
	}

	events := collect(t, g.GenerateStream(context.Background(), "prompt", nil))
	checkOrdering(t, events)

	if events[0].Type != stream.EventStart {
		t.Errorf("first event = %s, want start", events[0].Type)
	}

	var assembled string
	for _, ev := range events {
		if ev.Type == stream.EventChunk {
			assembled += ev.Data
		}
	}
	if assembled != "Drink water." {
		t.Errorf("assembled chunks = %q", assembled)
	}

	last := events[len(events)-1]
	if last.Type != stream.EventEnd {
		t.Fatalf("terminal event = %s, want end", last.Type)
	}
	if !strings.Contains(last.Data, "[1] [CDC](https://cdc.gov/hydration)") {
		t.Errorf("end event missing formatted citations: %q", last.Data)
	}
}

func TestGenerateStreamSimulatesForBatchProvider(t *testing.T) {
	g := New(&batchStub{result: &llm.Result{
		Text:  "First sentence. Second sentence. Third one!",
		Model: "mock-model",
		Mock:  true,
	}})
	if g.SupportsStreaming() {
		t.Fatal("batch provider detected as streaming")
	}

	events := collect(t, g.GenerateStream(context.Background(), "prompt", nil))
	checkOrdering(t, events)

	var assembled string
	chunkCount := 0
	for _, ev := range events {
		if ev.Type == stream.EventChunk {
			assembled += ev.Data
			chunkCount++
		}
	}
	if chunkCount < 2 {
		t.Errorf("got %d chunks, want a paced multi-chunk stream", chunkCount)
	}

	last := events[len(events)-1]
	if assembled != last.Data {
		t.Errorf("chunks assemble to %q, end carries %q", assembled, last.Data)
	}
	if last.Metadata["mock"] != true {
		t.Errorf("mock flag missing from metadata: %v", last.Metadata)
	}
}

func TestGenerateStreamEmitsSingleErrorEvent(t *testing.T) {
	g := New(&batchStub{err: errors.New("quota exceeded")})

	events := collect(t, g.GenerateStream(context.Background(), "prompt", nil))
	checkOrdering(t, events)

	last := events[len(events)-1]
	if last.Type != stream.EventError {
		t.Fatalf("terminal event = %s, want error", last.Type)
	}
	if strings.Contains(last.Data, "quota") {
		t.Errorf("raw error leaked into user text: %q", last.Data)
	}
	if last.Metadata["error"] != "quota exceeded" {
		t.Errorf("error detail missing from metadata: %v", last.Metadata)
	}
}

