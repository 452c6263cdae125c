package stream

import (
	"github.com/saikiransomanagoudar/sonarcare/internal/entity"
)

// EventType tags one item of a streamed response.
type EventType string

const (
	EventStatus EventType = "status"
	EventStart  EventType = "start"
	EventChunk  EventType = "chunk"
	EventEnd    EventType = "end"
	EventError  EventType = "error"
)

// Event is one item in a query's response stream. For any single query
// exactly one terminal event (end or error) is emitted and it is always
// the last item; chunks never follow a terminal event.
type Event struct {
	Type     EventType              `json:"type"`
	Data     string                 `json:"data"`
	Done     bool                   `json:"done"`
	Metadata map[string]interface{} `json:"metadata,omitempty"`
	Message  *entity.ChatMessage    `json:"message,omitempty"`
}

// IsTerminal reports whether no further events may follow.
func (e Event) IsTerminal() bool {
	return e.Type == EventEnd || e.Type == EventError
}

func Status(text string) Event {
	return Event{Type: EventStatus, Data: text}
}

func Start(metadata map[string]interface{}) Event {
	return Event{Type: EventStart, Metadata: metadata}
}

func Chunk(text string) Event {
	return Event{Type: EventChunk, Data: text}
}

func End(text string, msg *entity.ChatMessage, metadata map[string]interface{}) Event {
	return Event{Type: EventEnd, Data: text, Done: true, Message: msg, Metadata: metadata}
}

func Error(userText string, metadata map[string]interface{}) Event {
	return Event{Type: EventError, Data: userText, Done: true, Metadata: metadata}
}
