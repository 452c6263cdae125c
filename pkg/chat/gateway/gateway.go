// Package gateway wraps the language-model provider behind the chat
// pipeline's generation contract: role-tagged message building, history
// trimming, citation formatting and text cleanup, with both single-shot
// and streaming calls.
package gateway

import (
	"context"
	"time"

	"github.com/saikiransomanagoudar/sonarcare/internal/constant"
	"github.com/saikiransomanagoudar/sonarcare/internal/entity"
	"github.com/saikiransomanagoudar/sonarcare/pkg/chat/prompt"
	"github.com/saikiransomanagoudar/sonarcare/pkg/chat/stream"
	"github.com/saikiransomanagoudar/sonarcare/pkg/llm"
)

const (
	// Turns of history sent upstream with each call.
	historyLimit = 10

	// Pacing between synthesized chunks when the provider cannot stream.
	simulatedChunkDelay = 50 * time.Millisecond
)

// Gateway adapts an llm.Provider to the chat pipeline. Streaming support
// is resolved once at construction, not probed per call.
type Gateway struct {
	provider  llm.Provider
	streaming llm.StreamingProvider
}

func New(provider llm.Provider) *Gateway {
	g := &Gateway{provider: provider}
	if sp, ok := provider.(llm.StreamingProvider); ok {
		g.streaming = sp
	}
	return g
}

// SupportsStreaming reports whether the underlying provider delivers
// incremental chunks natively.
func (g *Gateway) SupportsStreaming() bool {
	return g.streaming != nil
}

// buildMessages assembles the role-tagged sequence sent upstream: the
// system persona, the last historyLimit turns, then the prompt as the
// new user message.
func buildMessages(promptText string, history []entity.ChatMessage) []llm.Message {
	if len(history) > historyLimit {
		history = history[len(history)-historyLimit:]
	}

	messages := make([]llm.Message, 0, len(history)+2)
	messages = append(messages, llm.Message{Role: "system", Content: prompt.System})
	for _, msg := range history {
		role := "user"
		if msg.Sender == constant.SenderBot {
			role = "assistant"
		}
		messages = append(messages, llm.Message{Role: role, Content: msg.Text})
	}
	return append(messages, llm.Message{Role: "user", Content: promptText})
}

// Generate performs a single-shot call and returns the cleaned, cited
// text plus call metadata.
func (g *Gateway) Generate(ctx context.Context, promptText string, history []entity.ChatMessage) (string, map[string]interface{}, error) {
	res, err := g.provider.Chat(ctx, buildMessages(promptText, history))
	if err != nil {
		return "", nil, err
	}

	text := Cleanup(FormatCitations(res.Text, res.Citations))
	return text, resultMetadata(res), nil
}

// GenerateStream emits a start event, chunk events as text arrives, and
// a terminal end event carrying the full cleaned text. Providers without
// native streaming get a synthesized sentence-paced stream with the same
// event shape. Failures surface as a terminal error event.
func (g *Gateway) GenerateStream(ctx context.Context, promptText string, history []entity.ChatMessage) <-chan stream.Event {
	out := make(chan stream.Event)
	if g.streaming != nil {
		go g.relayStream(ctx, promptText, history, out)
	} else {
		go g.simulateStream(ctx, promptText, history, out)
	}
	return out
}

func (g *Gateway) relayStream(ctx context.Context, promptText string, history []entity.ChatMessage, out chan<- stream.Event) {
	defer close(out)

	chunks, errs := g.streaming.ChatStream(ctx, buildMessages(promptText, history))

	if !emit(ctx, out, stream.Start(nil)) {
		return
	}

	var full string
	for {
		select {
		case <-ctx.Done():
			emitError(ctx, out, ctx.Err())
			return
		case err, ok := <-errs:
			if !ok {
				errs = nil
				continue
			}
			if err != nil {
				emitError(ctx, out, err)
				return
			}
		case chunk, ok := <-chunks:
			if !ok {
				// Stream closed without a done marker.
				text := Cleanup(full)
				emit(ctx, out, stream.End(text, nil, nil))
				return
			}
			if chunk.Done {
				res := &llm.Result{
					Text:      full,
					Model:     chunk.Model,
					Citations: chunk.Citations,
					Tokens:    chunk.Tokens,
				}
				text := Cleanup(FormatCitations(full, chunk.Citations))
				emit(ctx, out, stream.End(text, nil, resultMetadata(res)))
				return
			}
			full += chunk.Content
			if chunk.Content != "" && !emit(ctx, out, stream.Chunk(chunk.Content)) {
				return
			}
		}
	}
}

func (g *Gateway) simulateStream(ctx context.Context, promptText string, history []entity.ChatMessage, out chan<- stream.Event) {
	defer close(out)

	text, metadata, err := g.Generate(ctx, promptText, history)
	if err != nil {
		emitError(ctx, out, err)
		return
	}

	if !emit(ctx, out, stream.Start(nil)) {
		return
	}
	for i, piece := range stream.ChunkText(text) {
		if i > 0 {
			select {
			case <-ctx.Done():
				emitError(ctx, out, ctx.Err())
				return
			case <-time.After(simulatedChunkDelay):
			}
		}
		if !emit(ctx, out, stream.Chunk(piece)) {
			return
		}
	}
	emit(ctx, out, stream.End(text, nil, metadata))
}

func emit(ctx context.Context, out chan<- stream.Event, ev stream.Event) bool {
	select {
	case out <- ev:
		return true
	case <-ctx.Done():
		return false
	}
}

func emitError(ctx context.Context, out chan<- stream.Event, err error) {
	emit(ctx, out, stream.Error(constant.MsgGenerationError, map[string]interface{}{
		"error": err.Error(),
	}))
}

func resultMetadata(res *llm.Result) map[string]interface{} {
	md := map[string]interface{}{
		"model": res.Model,
		"tokens": map[string]interface{}{
			"prompt":     res.Tokens.Prompt,
			"completion": res.Tokens.Completion,
			"total":      res.Tokens.Total,
		},
		"has_sources": len(res.Citations) > 0,
		"grounded":    len(res.Citations) > 0,
	}
	if len(res.Citations) > 0 {
		md["sources"] = res.Citations
	}
	if res.Mock {
		md["mock"] = true
	}
	return md
}
