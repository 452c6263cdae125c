package orchestrator

import (
	"context"
	"errors"
	"strings"
	"sync"
	"testing"
	"time"

	"github.com/google/uuid"

	"github.com/saikiransomanagoudar/sonarcare/internal/constant"
	"github.com/saikiransomanagoudar/sonarcare/internal/entity"
	"github.com/saikiransomanagoudar/sonarcare/pkg/chat/cache"
	"github.com/saikiransomanagoudar/sonarcare/pkg/chat/intent"
	"github.com/saikiransomanagoudar/sonarcare/pkg/chat/stream"
	"github.com/saikiransomanagoudar/sonarcare/pkg/chat/strategy"
)

type fixedClassifier struct {
	intent intent.Intent

	mu       sync.Mutex
	seenHist []entity.ChatMessage
}

func (c *fixedClassifier) Classify(ctx context.Context, query string, hist []entity.ChatMessage) (intent.Intent, map[string]interface{}) {
	c.mu.Lock()
	c.seenHist = hist
	c.mu.Unlock()
	return c.intent, map[string]interface{}{"method": "test"}
}

func (c *fixedClassifier) lastHistory() []entity.ChatMessage {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.seenHist
}

type fixedGate struct {
	allow bool
}

func (g *fixedGate) Allow(ctx context.Context, text string) bool { return g.allow }

type stubHistory struct {
	mu       sync.Mutex
	loaded   []entity.ChatMessage
	recorded []entity.ChatMessage
}

func (h *stubHistory) Load(ctx context.Context, sessionID, userID string, limit int) ([]entity.ChatMessage, error) {
	h.mu.Lock()
	defer h.mu.Unlock()
	return h.loaded, nil
}

func (h *stubHistory) Record(msg entity.ChatMessage) {
	h.mu.Lock()
	defer h.mu.Unlock()
	h.recorded = append(h.recorded, msg)
}

type recordingPersister struct {
	mu       sync.Mutex
	messages []entity.ChatMessage
}

func (p *recordingPersister) Persist(msg entity.ChatMessage) {
	p.mu.Lock()
	defer p.mu.Unlock()
	p.messages = append(p.messages, msg)
}

func (p *recordingPersister) count() int {
	p.mu.Lock()
	defer p.mu.Unlock()
	return len(p.messages)
}

// countingGateway returns a fixed reply for every prompt and counts
// calls.
type countingGateway struct {
	mu    sync.Mutex
	calls int
	reply string
	err   error
}

func (g *countingGateway) Generate(ctx context.Context, prompt string, hist []entity.ChatMessage) (string, map[string]interface{}, error) {
	g.mu.Lock()
	g.calls++
	g.mu.Unlock()
	if g.err != nil {
		return "", nil, g.err
	}
	return g.reply, map[string]interface{}{"model": "stub"}, nil
}

func (g *countingGateway) GenerateStream(ctx context.Context, prompt string, hist []entity.ChatMessage) <-chan stream.Event {
	out := make(chan stream.Event, 3)
	text, md, err := g.Generate(ctx, prompt, hist)
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

func (g *countingGateway) SupportsStreaming() bool { return true }

func (g *countingGateway) callCount() int {
	g.mu.Lock()
	defer g.mu.Unlock()
	return g.calls
}

func newTestOrchestrator(gw strategy.Generator, allow bool, in intent.Intent) (*Orchestrator, *recordingPersister) {
	persister := &recordingPersister{}
	o := New(
		&fixedGate{allow: allow},
		&fixedClassifier{intent: in},
		strategy.NewRegistry(gw),
		strategy.NewFallback(gw),
		cache.NewResponseCache(),
		&stubHistory{},
		persister,
	)
	return o, persister
}

func collect(t *testing.T, events <-chan stream.Event) []stream.Event {
	t.Helper()
	var out []stream.Event
	timeout := time.After(5 * time.Second)
	for {
		select {
		case ev, ok := <-events:
			if !ok {
				return out
			}
			out = append(out, ev)
		case <-timeout:
			t.Fatal("timed out waiting for events")
		}
	}
}

func checkTerminal(t *testing.T, events []stream.Event) stream.Event {
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
	last := events[len(events)-1]
	if !last.IsTerminal() {
		t.Fatal("terminal event is not last")
	}
	return last
}

func testQuery(text string) Query {
	return Query{Text: text, SessionID: uuid.New(), UserID: "u1"}
}

func TestProcessHappyPath(t *testing.T) {
	gw := &countingGateway{reply: "Rest and drink fluids."}
	o, persister := newTestOrchestrator(gw, true, intent.SymptomInquiry)

	events := collect(t, o.Process(context.Background(), testQuery("I have a fever")))
	last := checkTerminal(t, events)

	if events[0].Type != stream.EventStatus || events[0].Data != constant.StatusProcessing {
		t.Errorf("first event = %+v, want processing status", events[0])
	}
	if last.Type != stream.EventEnd {
		t.Fatalf("terminal = %s, want end", last.Type)
	}
	if last.Message == nil {
		t.Fatal("end event missing final message")
	}
	if last.Message.Metadata["intent"] != "symptom_inquiry" {
		t.Errorf("final message intent = %v", last.Message.Metadata["intent"])
	}
	if last.Message.Sender != constant.SenderBot {
		t.Errorf("final message sender = %s", last.Message.Sender)
	}
	if persister.count() != 1 {
		t.Errorf("persisted %d messages, want 1", persister.count())
	}
}

func TestProcessRejectsNonMedical(t *testing.T) {
	gw := &countingGateway{reply: "should never be used"}
	o, persister := newTestOrchestrator(gw, false, intent.SymptomInquiry)

	events := collect(t, o.Process(context.Background(), testQuery("what's the best pizza topping")))
	last := checkTerminal(t, events)

	if last.Type != stream.EventEnd {
		t.Fatalf("terminal = %s, want end", last.Type)
	}
	if last.Data != constant.MsgRejection {
		t.Errorf("rejection text = %q", last.Data)
	}
	if last.Message.Metadata["rejected"] != true {
		t.Errorf("rejection metadata = %v", last.Message.Metadata)
	}
	if gw.callCount() != 0 {
		t.Errorf("gateway called %d times for a rejected query, want 0", gw.callCount())
	}
	if persister.count() != 1 {
		t.Errorf("persisted %d messages, want the rejection message", persister.count())
	}
}

func TestProcessServesFromCache(t *testing.T) {
	gw := &countingGateway{reply: "generated answer. with two sentences."}
	o, _ := newTestOrchestrator(gw, true, intent.SymptomInquiry)

	q := testQuery("I have a fever")
	first := collect(t, o.Process(context.Background(), q))
	checkTerminal(t, first)
	callsAfterFirst := gw.callCount()

	second := collect(t, o.Process(context.Background(), q))
	last := checkTerminal(t, second)

	if gw.callCount() != callsAfterFirst {
		t.Errorf("gateway called again on cache hit: %d -> %d", callsAfterFirst, gw.callCount())
	}
	if last.Metadata["cached"] != true {
		t.Errorf("cache hit not flagged: %v", last.Metadata)
	}
	if last.Data != first[len(first)-1].Data {
		t.Errorf("cached text differs from original")
	}

	var sawStart bool
	for _, ev := range second {
		if ev.Type == stream.EventStart {
			sawStart = true
			if ev.Metadata["cached"] != true {
				t.Errorf("cached start metadata = %v", ev.Metadata)
			}
		}
	}
	if !sawStart {
		t.Error("cache replay missing start event")
	}
}

func TestProcessGenerationFailure(t *testing.T) {
	gw := &countingGateway{err: errors.New("upstream down")}
	o, persister := newTestOrchestrator(gw, true, intent.SymptomInquiry)

	events := collect(t, o.Process(context.Background(), testQuery("I have a fever")))
	last := checkTerminal(t, events)

	if last.Type != stream.EventError {
		t.Fatalf("terminal = %s, want error", last.Type)
	}
	if strings.Contains(last.Data, "upstream") {
		t.Errorf("raw error leaked to user text: %q", last.Data)
	}
	if persister.count() != 0 {
		t.Errorf("persisted %d messages after failure, want 0", persister.count())
	}
}

type panickyClassifier struct{}

func (panickyClassifier) Classify(ctx context.Context, query string, hist []entity.ChatMessage) (intent.Intent, map[string]interface{}) {
	panic("classifier exploded")
}

func TestProcessRecoversClassifierPanic(t *testing.T) {
	gw := &countingGateway{reply: "still works"}
	persister := &recordingPersister{}
	o := New(
		&fixedGate{allow: true},
		panickyClassifier{},
		strategy.NewRegistry(gw),
		strategy.NewFallback(gw),
		cache.NewResponseCache(),
		&stubHistory{},
		persister,
	)

	events := collect(t, o.Process(context.Background(), testQuery("I have a fever")))
	last := checkTerminal(t, events)

	if last.Type != stream.EventEnd {
		t.Fatalf("terminal = %s, want end via safe-default intent", last.Type)
	}
	if last.Message.Metadata["intent"] != "symptom_inquiry" {
		t.Errorf("intent = %v, want coerced safe default", last.Message.Metadata["intent"])
	}
}

func TestProcessClassifiesWithLoadedHistory(t *testing.T) {
	gw := &countingGateway{reply: "You're welcome."}
	classifier := &fixedClassifier{intent: intent.SymptomInquiry}
	hist := &stubHistory{loaded: []entity.ChatMessage{
		{Sender: constant.SenderUser, Text: "I have a rash"},
		{Sender: constant.SenderBot, Text: "That may be a treatment_advice follow-up."},
	}}
	o := New(
		&fixedGate{allow: true},
		classifier,
		strategy.NewRegistry(gw),
		strategy.NewFallback(gw),
		cache.NewResponseCache(),
		hist,
		&recordingPersister{},
	)

	events := collect(t, o.Process(context.Background(), testQuery("and what about cream")))
	checkTerminal(t, events)

	seen := classifier.lastHistory()
	if len(seen) != 2 {
		t.Fatalf("classifier saw %d history messages, want 2", len(seen))
	}
	if seen[1].Sender != constant.SenderBot {
		t.Errorf("last history sender = %s, want bot", seen[1].Sender)
	}
}

func TestProcessGreetingBatchPath(t *testing.T) {
	gw := &countingGateway{reply: "Welcome to SonarCare! Ask me anything health related."}
	o, _ := newTestOrchestrator(gw, true, intent.Greeting)

	events := collect(t, o.Process(context.Background(), testQuery("hello")))
	last := checkTerminal(t, events)

	if last.Type != stream.EventEnd {
		t.Fatalf("terminal = %s, want end", last.Type)
	}

	var assembled string
	for _, ev := range events {
		if ev.Type == stream.EventChunk {
			assembled += ev.Data
		}
	}
	if assembled != last.Data {
		t.Errorf("pseudo-stream chunks %q do not assemble to final text %q", assembled, last.Data)
	}
	if last.Message.Metadata["greeting_type"] != "first_time" {
		t.Errorf("greeting_type = %v, want first_time on empty history", last.Message.Metadata["greeting_type"])
	}
}
