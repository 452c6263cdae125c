// Package strategy binds each routing intent to its prompt-building and
// generation flow.
package strategy

import (
	"context"

	"github.com/saikiransomanagoudar/sonarcare/internal/entity"
	"github.com/saikiransomanagoudar/sonarcare/pkg/chat/stream"
)

// Generator is the slice of the gateway strategies consume.
type Generator interface {
	Generate(ctx context.Context, prompt string, history []entity.ChatMessage) (string, map[string]interface{}, error)
	GenerateStream(ctx context.Context, prompt string, history []entity.ChatMessage) <-chan stream.Event
	SupportsStreaming() bool
}

// Outcome is a strategy's completed response.
type Outcome struct {
	Text     string
	Metadata map[string]interface{}
}

// Strategy produces a complete response for one intent.
type Strategy interface {
	Name() string
	Run(ctx context.Context, query string, history []entity.ChatMessage) (*Outcome, error)
}

// StreamingStrategy additionally delivers the response incrementally.
// Whether a strategy implements it is decided by its type, checked once
// at dispatch, never probed per call.
type StreamingStrategy interface {
	Strategy
	RunStream(ctx context.Context, query string, history []entity.ChatMessage) <-chan stream.Event
}

// annotateEnd relays events from in, merging extra into the metadata of
// the terminal end event. Error events pass through untouched.
func annotateEnd(ctx context.Context, in <-chan stream.Event, extra map[string]interface{}) <-chan stream.Event {
	out := make(chan stream.Event)
	go func() {
		defer close(out)
		for ev := range in {
			if ev.Type == stream.EventEnd && len(extra) > 0 {
				md := make(map[string]interface{}, len(ev.Metadata)+len(extra))
				for k, v := range ev.Metadata {
					md[k] = v
				}
				for k, v := range extra {
					md[k] = v
				}
				ev.Metadata = md
			}
			select {
			case out <- ev:
			case <-ctx.Done():
				return
			}
		}
	}()
	return out
}

// errorStream returns a closed-after-one-event stream carrying a single
// terminal error, for failures before generation starts.
func errorStream(userText string, err error) <-chan stream.Event {
	out := make(chan stream.Event, 1)
	out <- stream.Error(userText, map[string]interface{}{"error": err.Error()})
	close(out)
	return out
}

// mergeMetadata folds extra pairs into a generation metadata map.
func mergeMetadata(md, extra map[string]interface{}) map[string]interface{} {
	if md == nil {
		md = make(map[string]interface{}, len(extra))
	}
	for k, v := range extra {
		md[k] = v
	}
	return md
}
