// Package orchestrator runs a query through the full pipeline: topic
// gating, intent classification, strategy dispatch, streamed delivery
// and best-effort persistence.
package orchestrator

import (
	"context"
	"fmt"
	"time"

	"github.com/google/uuid"

	"github.com/saikiransomanagoudar/sonarcare/internal/constant"
	"github.com/saikiransomanagoudar/sonarcare/internal/entity"
	"github.com/saikiransomanagoudar/sonarcare/pkg/chat/cache"
	"github.com/saikiransomanagoudar/sonarcare/pkg/chat/history"
	"github.com/saikiransomanagoudar/sonarcare/pkg/chat/intent"
	"github.com/saikiransomanagoudar/sonarcare/pkg/chat/message"
	"github.com/saikiransomanagoudar/sonarcare/pkg/chat/stream"
	"github.com/saikiransomanagoudar/sonarcare/pkg/chat/strategy"
)

// Pacing between chunks when replaying a cached or batch response.
const pseudoStreamDelay = 50 * time.Millisecond

// Query is one immutable unit of work entering the pipeline.
type Query struct {
	Text      string
	SessionID uuid.UUID
	UserID    string
}

// Classifier resolves a query to a routing intent. It never fails.
type Classifier interface {
	Classify(ctx context.Context, query string, hist []entity.ChatMessage) (intent.Intent, map[string]interface{})
}

// Gate screens queries for healthcare relevance.
type Gate interface {
	Allow(ctx context.Context, text string) bool
}

// HistoryLoader reads recent conversation turns and keeps its cache
// consistent as new messages are produced.
type HistoryLoader interface {
	Load(ctx context.Context, sessionID, userID string, limit int) ([]entity.ChatMessage, error)
	Record(msg entity.ChatMessage)
}

// Persister stores a final message. Implementations are best-effort and
// asynchronous; failures never affect the already-delivered response.
type Persister interface {
	Persist(msg entity.ChatMessage)
}

// Orchestrator owns the per-query state machine. All collaborators are
// injected; nothing here is process-global.
type Orchestrator struct {
	gate       Gate
	classifier Classifier
	registry   *strategy.Registry
	fallback   strategy.StreamingStrategy
	responses  *cache.ResponseCache
	history    HistoryLoader
	persister  Persister
}

func New(
	gate Gate,
	classifier Classifier,
	registry *strategy.Registry,
	fallback strategy.StreamingStrategy,
	responses *cache.ResponseCache,
	hist HistoryLoader,
	persister Persister,
) *Orchestrator {
	return &Orchestrator{
		gate:       gate,
		classifier: classifier,
		registry:   registry,
		fallback:   fallback,
		responses:  responses,
		history:    hist,
		persister:  persister,
	}
}

// Process runs one query and returns its ordered event stream. Exactly
// one terminal event is emitted and it is always last.
func (o *Orchestrator) Process(ctx context.Context, q Query) <-chan stream.Event {
	out := make(chan stream.Event)
	go func() {
		defer close(out)
		defer func() {
			if r := recover(); r != nil {
				emit(ctx, out, stream.Error(constant.MsgTechnicalDifficulty, map[string]interface{}{
					"error": fmt.Sprint(r),
				}))
			}
		}()
		o.run(ctx, q, out)
	}()
	return out
}

func (o *Orchestrator) run(ctx context.Context, q Query, out chan<- stream.Event) {
	start := time.Now()

	if !emit(ctx, out, stream.Status(constant.StatusProcessing)) {
		return
	}

	// History retrieval overlaps the gate check, which may spend a model
	// round trip. Classification waits for the history so the last bot
	// reply can bias its scoring.
	historyCh := make(chan []entity.ChatMessage, 1)
	go func() {
		defer func() {
			if r := recover(); r != nil {
				historyCh <- nil
			}
		}()
		hist, err := o.history.Load(ctx, q.SessionID.String(), q.UserID, history.DefaultLimit)
		if err != nil {
			hist = nil
		}
		historyCh <- hist
	}()

	if !o.gate.Allow(ctx, q.Text) {
		o.reject(ctx, q, start, out)
		return
	}

	hist := <-historyCh
	in, classificationMD := o.classify(ctx, q.Text, hist)

	if !emit(ctx, out, stream.Status(constant.StatusGenerating)) {
		return
	}

	if cached, ok := o.responses.Get(in, q.Text); ok {
		o.replayCached(ctx, q, in, cached, start, out)
		return
	}

	flow := flowState{query: q, intent: in, classification: classificationMD, start: start}

	strat := o.registry.Resolve(in)
	if streaming, ok := strat.(strategy.StreamingStrategy); ok {
		o.relay(ctx, flow, streaming, hist, out)
		return
	}
	o.runBatch(ctx, flow, strat, hist, out)
}

// classify resolves the routing intent, falling back to the safe default
// if the classifier panics.
func (o *Orchestrator) classify(ctx context.Context, text string, hist []entity.ChatMessage) (in intent.Intent, md map[string]interface{}) {
	defer func() {
		if r := recover(); r != nil {
			in = intent.SymptomInquiry
			md = map[string]interface{}{"error": fmt.Sprint(r)}
		}
	}()
	return o.classifier.Classify(ctx, text, hist)
}

// reject short-circuits a non-medical query with the fixed redirect
// message. No classification result or generation call is consumed.
func (o *Orchestrator) reject(ctx context.Context, q Query, start time.Time, out chan<- stream.Event) {
	if !emit(ctx, out, stream.Start(nil)) {
		return
	}
	msg := message.NewRejection(q.SessionID, q.UserID, time.Since(start))
	o.store(msg)
	emit(ctx, out, stream.End(msg.Text, &msg, msg.Metadata))
}

// replayCached pseudo-streams a previously generated answer.
func (o *Orchestrator) replayCached(ctx context.Context, q Query, in intent.Intent, text string, start time.Time, out chan<- stream.Event) {
	md := map[string]interface{}{"cached": true, "intent": in.String()}
	if !emit(ctx, out, stream.Start(md)) {
		return
	}
	if !o.pseudoStream(ctx, text, out) {
		return
	}

	msg := o.finalMessage(flowState{query: q, intent: in, start: start}, text, map[string]interface{}{"cached": true})
	o.store(msg)
	emit(ctx, out, stream.End(text, &msg, msg.Metadata))
}

// flowState carries the per-query facts resolved before dispatch.
type flowState struct {
	query          Query
	intent         intent.Intent
	classification map[string]interface{}
	start          time.Time
}

// relay forwards a streaming strategy's events, annotating them with the
// resolved intent and taking over the terminal end event to attach the
// final message. A strategy that fails before producing any text gets
// one retry through the fallback strategy.
func (o *Orchestrator) relay(ctx context.Context, flow flowState, strat strategy.StreamingStrategy, hist []entity.ChatMessage, out chan<- stream.Event) {
	events := strat.RunStream(ctx, flow.query.Text, hist)

	first := true
	for ev := range events {
		switch ev.Type {
		case stream.EventStart:
			first = false
			ev.Metadata = withIntent(ev.Metadata, flow.intent, strat.Name())
			if !emit(ctx, out, ev) {
				return
			}
		case stream.EventEnd:
			text := ev.Data
			o.responses.Put(flow.intent, flow.query.Text, text)
			msg := o.finalMessage(flow, text, ev.Metadata)
			o.store(msg)
			emit(ctx, out, stream.End(text, &msg, msg.Metadata))
			return
		case stream.EventError:
			// Degrade to the fallback flow, once, and only if nothing
			// was delivered yet.
			if first && strat.Name() != o.fallback.Name() {
				o.relay(ctx, flow, o.fallback, hist, out)
				return
			}
			emit(ctx, out, ev)
			return
		default:
			if !emit(ctx, out, ev) {
				return
			}
		}
	}
	// Stream ended without a terminal event; close it out for callers.
	emit(ctx, out, stream.Error(constant.MsgGenerationError, map[string]interface{}{
		"error": "stream closed without terminal event",
	}))
}

// runBatch executes a batch-only strategy and synthesizes the stream
// shape around its complete response.
func (o *Orchestrator) runBatch(ctx context.Context, flow flowState, strat strategy.Strategy, hist []entity.ChatMessage, out chan<- stream.Event) {
	outcome, err := strat.Run(ctx, flow.query.Text, hist)
	if err != nil {
		outcome, err = o.fallback.Run(ctx, flow.query.Text, hist)
	}
	if err != nil {
		emit(ctx, out, stream.Error(constant.MsgGenerationError, map[string]interface{}{
			"error": err.Error(),
		}))
		return
	}

	if !emit(ctx, out, stream.Start(withIntent(nil, flow.intent, strat.Name()))) {
		return
	}
	if !o.pseudoStream(ctx, outcome.Text, out) {
		return
	}

	o.responses.Put(flow.intent, flow.query.Text, outcome.Text)
	msg := o.finalMessage(flow, outcome.Text, outcome.Metadata)
	o.store(msg)
	emit(ctx, out, stream.End(outcome.Text, &msg, msg.Metadata))
}

// pseudoStream emits text as paced sentence chunks. Returns false when
// the context ended mid-stream.
func (o *Orchestrator) pseudoStream(ctx context.Context, text string, out chan<- stream.Event) bool {
	for i, piece := range stream.ChunkText(text) {
		if i > 0 {
			select {
			case <-ctx.Done():
				return false
			case <-time.After(pseudoStreamDelay):
			}
		}
		if !emit(ctx, out, stream.Chunk(piece)) {
			return false
		}
	}
	return true
}

// finalMessage builds the persisted bot reply. Intent and timing are
// always present in metadata, whatever the generation path contributed;
// classification details ride along for diagnostics.
func (o *Orchestrator) finalMessage(flow flowState, text string, md map[string]interface{}) entity.ChatMessage {
	merged := make(map[string]interface{}, len(md)+3)
	for k, v := range md {
		merged[k] = v
	}
	if len(flow.classification) > 0 {
		merged["classification"] = flow.classification
	}
	merged["intent"] = flow.intent.String()
	merged["processing_time_seconds"] = time.Since(flow.start).Seconds()
	return message.NewBot(text, flow.query.SessionID, flow.query.UserID, merged)
}

// store records the message in the history cache and hands it to the
// persister. Persistence is fire-and-forget by contract.
func (o *Orchestrator) store(msg entity.ChatMessage) {
	if o.history != nil {
		o.history.Record(msg)
	}
	if o.persister != nil {
		o.persister.Persist(msg)
	}
}

func withIntent(md map[string]interface{}, in intent.Intent, strategyName string) map[string]interface{} {
	merged := make(map[string]interface{}, len(md)+2)
	for k, v := range md {
		merged[k] = v
	}
	merged["intent"] = in.String()
	merged["strategy"] = strategyName
	return merged
}

func emit(ctx context.Context, out chan<- stream.Event, ev stream.Event) bool {
	select {
	case out <- ev:
		return true
	case <-ctx.Done():
		return false
	}
}
