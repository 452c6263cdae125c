package history

import (
	"context"
	"testing"

	"github.com/google/uuid"

	"github.com/saikiransomanagoudar/sonarcare/internal/constant"
	"github.com/saikiransomanagoudar/sonarcare/internal/entity"
)

type countingSource struct {
	calls    int
	messages []entity.ChatMessage
}

func (s *countingSource) Messages(ctx context.Context, sessionID, userID string, limit int) ([]entity.ChatMessage, error) {
	s.calls++
	if limit < len(s.messages) {
		return s.messages[len(s.messages)-limit:], nil
	}
	return s.messages, nil
}

func TestLoadCachesPerWindow(t *testing.T) {
	src := &countingSource{messages: []entity.ChatMessage{
		{Sender: constant.SenderUser, Text: "hi"},
		{Sender: constant.SenderBot, Text: "hello"},
	}}
	l := NewLoader(src)

	first, err := l.Load(context.Background(), "s1", "u1", DefaultLimit)
	if err != nil {
		t.Fatal(err)
	}
	second, err := l.Load(context.Background(), "s1", "u1", DefaultLimit)
	if err != nil {
		t.Fatal(err)
	}

	if src.calls != 1 {
		t.Errorf("source called %d times, want 1", src.calls)
	}
	if len(first) != 2 || len(second) != 2 {
		t.Errorf("window lengths = %d, %d, want 2, 2", len(first), len(second))
	}

	// A different limit is a separate cache entry.
	if _, err := l.Load(context.Background(), "s1", "u1", FastLimit); err != nil {
		t.Fatal(err)
	}
	if src.calls != 2 {
		t.Errorf("source called %d times after new window, want 2", src.calls)
	}
}

func TestRecordUpdatesCachedWindows(t *testing.T) {
	sessionID := uuid.New()
	src := &countingSource{}
	l := NewLoader(src)

	if _, err := l.Load(context.Background(), sessionID.String(), "u1", DefaultLimit); err != nil {
		t.Fatal(err)
	}

	l.Record(entity.ChatMessage{
		Id:        uuid.New(),
		SessionId: sessionID,
		UserId:    "u1",
		Sender:    constant.SenderUser,
		Text:      "new message",
	})

	got, err := l.Load(context.Background(), sessionID.String(), "u1", DefaultLimit)
	if err != nil {
		t.Fatal(err)
	}
	if src.calls != 1 {
		t.Errorf("source called %d times, want cached read", src.calls)
	}
	if len(got) != 1 || got[0].Text != "new message" {
		t.Errorf("cached window = %+v", got)
	}
}

func TestRecordCapsAtWindowLimit(t *testing.T) {
	sessionID := uuid.New()
	src := &countingSource{}
	l := NewLoader(src)

	if _, err := l.Load(context.Background(), sessionID.String(), "u1", 2); err != nil {
		t.Fatal(err)
	}
	for i := 0; i < 3; i++ {
		l.Record(entity.ChatMessage{SessionId: sessionID, UserId: "u1", Text: "m"})
	}

	got, _ := l.Load(context.Background(), sessionID.String(), "u1", 2)
	if len(got) != 2 {
		t.Errorf("window length = %d, want capped at 2", len(got))
	}
}

func TestInvalidateForcesReload(t *testing.T) {
	src := &countingSource{}
	l := NewLoader(src)

	if _, err := l.Load(context.Background(), "s1", "u1", DefaultLimit); err != nil {
		t.Fatal(err)
	}
	l.Invalidate("s1", "u1")
	if _, err := l.Load(context.Background(), "s1", "u1", DefaultLimit); err != nil {
		t.Fatal(err)
	}

	if src.calls != 2 {
		t.Errorf("source called %d times, want 2 after invalidation", src.calls)
	}
}
