package service

import (
	"context"
	"sort"
	"testing"
	"time"

	"github.com/saikiransomanagoudar/sonarcare/internal/constant"
	"github.com/saikiransomanagoudar/sonarcare/internal/dto"
	"github.com/saikiransomanagoudar/sonarcare/internal/entity"
	"github.com/saikiransomanagoudar/sonarcare/internal/repository/contract"
	"github.com/saikiransomanagoudar/sonarcare/internal/repository/specification"
	"github.com/saikiransomanagoudar/sonarcare/internal/repository/unitofwork"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// In-memory repositories that interpret the specifications the service
// actually issues.

type fakeStore struct {
	sessions map[uuid.UUID]*entity.ChatSession
	messages []*entity.ChatMessage
}

func newFakeStore() *fakeStore {
	return &fakeStore{sessions: make(map[uuid.UUID]*entity.ChatSession)}
}

type fakeUowFactory struct {
	store *fakeStore
}

func (f *fakeUowFactory) NewUnitOfWork(ctx context.Context) unitofwork.UnitOfWork {
	return &fakeUow{store: f.store}
}

type fakeUow struct {
	store *fakeStore
}

func (u *fakeUow) Begin(ctx context.Context) error { return nil }
func (u *fakeUow) Commit() error                   { return nil }
func (u *fakeUow) Rollback() error                 { return nil }

func (u *fakeUow) ChatSessionRepository() contract.ChatSessionRepository {
	return &fakeSessionRepo{store: u.store}
}

func (u *fakeUow) ChatMessageRepository() contract.ChatMessageRepository {
	return &fakeMessageRepo{store: u.store}
}

type fakeSessionRepo struct {
	store *fakeStore
}

func (r *fakeSessionRepo) Create(ctx context.Context, s *entity.ChatSession) error {
	cp := *s
	r.store.sessions[s.Id] = &cp
	return nil
}

func (r *fakeSessionRepo) Update(ctx context.Context, s *entity.ChatSession) error {
	cp := *s
	r.store.sessions[s.Id] = &cp
	return nil
}

func (r *fakeSessionRepo) Delete(ctx context.Context, id uuid.UUID) error {
	delete(r.store.sessions, id)
	return nil
}

func (r *fakeSessionRepo) FindOne(ctx context.Context, specs ...specification.Specification) (*entity.ChatSession, error) {
	for _, spec := range specs {
		if byID, ok := spec.(specification.ByID); ok {
			if s, found := r.store.sessions[byID.ID]; found {
				cp := *s
				return &cp, nil
			}
			return nil, nil
		}
	}
	return nil, nil
}

func (r *fakeSessionRepo) FindAll(ctx context.Context, specs ...specification.Specification) ([]*entity.ChatSession, error) {
	var out []*entity.ChatSession
	for _, s := range r.store.sessions {
		keep := true
		for _, spec := range specs {
			if byUser, ok := spec.(specification.ByUserID); ok && s.UserId != byUser.UserID {
				keep = false
			}
		}
		if keep {
			cp := *s
			out = append(out, &cp)
		}
	}
	sort.Slice(out, func(i, j int) bool {
		return out[i].LastActivityAt.After(out[j].LastActivityAt)
	})
	return out, nil
}

func (r *fakeSessionRepo) Count(ctx context.Context, specs ...specification.Specification) (int64, error) {
	all, _ := r.FindAll(ctx, specs...)
	return int64(len(all)), nil
}

type fakeMessageRepo struct {
	store *fakeStore
}

func (r *fakeMessageRepo) Create(ctx context.Context, m *entity.ChatMessage) error {
	cp := *m
	r.store.messages = append(r.store.messages, &cp)
	return nil
}

func (r *fakeMessageRepo) Update(ctx context.Context, m *entity.ChatMessage) error {
	for i, existing := range r.store.messages {
		if existing.Id == m.Id {
			cp := *m
			r.store.messages[i] = &cp
		}
	}
	return nil
}

func (r *fakeMessageRepo) Delete(ctx context.Context, id uuid.UUID) error {
	out := r.store.messages[:0]
	for _, m := range r.store.messages {
		if m.Id != id {
			out = append(out, m)
		}
	}
	r.store.messages = out
	return nil
}

func (r *fakeMessageRepo) DeleteByChatSessionId(ctx context.Context, sessionId uuid.UUID) error {
	out := r.store.messages[:0]
	for _, m := range r.store.messages {
		if m.SessionId != sessionId {
			out = append(out, m)
		}
	}
	r.store.messages = out
	return nil
}

func (r *fakeMessageRepo) FindOne(ctx context.Context, specs ...specification.Specification) (*entity.ChatMessage, error) {
	all, _ := r.FindAll(ctx, specs...)
	if len(all) == 0 {
		return nil, nil
	}
	return all[0], nil
}

func (r *fakeMessageRepo) FindAll(ctx context.Context, specs ...specification.Specification) ([]*entity.ChatMessage, error) {
	var out []*entity.ChatMessage
	desc := false
	limit := 0
	var bySession *specification.ByChatSessionID
	for _, spec := range specs {
		switch s := spec.(type) {
		case specification.ByChatSessionID:
			v := s
			bySession = &v
		case specification.OrderBy:
			desc = s.Desc
		case specification.Limit:
			limit = s.N
		}
	}
	for _, m := range r.store.messages {
		if bySession != nil && m.SessionId != bySession.ChatSessionID {
			continue
		}
		cp := *m
		out = append(out, &cp)
	}
	sort.Slice(out, func(i, j int) bool {
		if desc {
			return out[i].Timestamp.After(out[j].Timestamp)
		}
		return out[i].Timestamp.Before(out[j].Timestamp)
	})
	if limit > 0 && len(out) > limit {
		out = out[:limit]
	}
	return out, nil
}

func (r *fakeMessageRepo) Count(ctx context.Context, specs ...specification.Specification) (int64, error) {
	all, _ := r.FindAll(ctx, specs...)
	return int64(len(all)), nil
}

func newTestService() (IChatService, *fakeStore) {
	store := newFakeStore()
	return NewChatService(&fakeUowFactory{store: store}), store
}

func TestCreateSessionRejectsMismatchedUser(t *testing.T) {
	svc, _ := newTestService()

	_, err := svc.CreateSession(context.Background(), "alice", &dto.CreateSessionRequest{UserId: "mallory"})
	assert.ErrorIs(t, err, ErrAccessDenied)
}

func TestCreateSessionDefaultsTitle(t *testing.T) {
	svc, _ := newTestService()

	res, err := svc.CreateSession(context.Background(), "alice", &dto.CreateSessionRequest{UserId: "alice"})
	require.NoError(t, err)
	assert.Equal(t, "New Conversation", res.Title)
	assert.Equal(t, "alice", res.UserId)
}

func TestGetSessionOwnership(t *testing.T) {
	svc, _ := newTestService()

	created, err := svc.CreateSession(context.Background(), "alice", &dto.CreateSessionRequest{UserId: "alice"})
	require.NoError(t, err)

	_, err = svc.GetSession(context.Background(), "bob", created.Id)
	assert.ErrorIs(t, err, ErrAccessDenied)

	_, err = svc.GetSession(context.Background(), "alice", uuid.New())
	assert.ErrorIs(t, err, ErrSessionNotFound)

	got, err := svc.GetSession(context.Background(), "alice", created.Id)
	require.NoError(t, err)
	assert.Equal(t, created.Id, got.Id)
}

func TestCreateMessageAdoptsTitleAndBumpsActivity(t *testing.T) {
	svc, store := newTestService()

	created, err := svc.CreateSession(context.Background(), "alice", &dto.CreateSessionRequest{UserId: "alice"})
	require.NoError(t, err)

	msg := &entity.ChatMessage{
		Text:      "I have a persistent headache and dizziness",
		Sender:    constant.SenderUser,
		SessionId: created.Id,
		UserId:    "alice",
		Timestamp: time.Now().UTC(),
	}
	require.NoError(t, svc.CreateMessage(context.Background(), msg))

	session := store.sessions[created.Id]
	assert.Equal(t, "I have a persistent headache and dizziness", session.Title)
	assert.Equal(t, msg.Timestamp, session.LastActivityAt)
	assert.NotEqual(t, uuid.Nil, msg.Id)

	// A later bot message must not rewrite the title.
	bot := &entity.ChatMessage{
		Text:      "Here is some advice",
		Sender:    constant.SenderBot,
		SessionId: created.Id,
		UserId:    "alice",
		Timestamp: time.Now().UTC(),
	}
	require.NoError(t, svc.CreateMessage(context.Background(), bot))
	assert.Equal(t, "I have a persistent headache and dizziness", store.sessions[created.Id].Title)
}

func TestCreateMessageUnknownSession(t *testing.T) {
	svc, _ := newTestService()

	err := svc.CreateMessage(context.Background(), &entity.ChatMessage{
		Text:      "hello",
		Sender:    constant.SenderUser,
		SessionId: uuid.New(),
		UserId:    "alice",
	})
	assert.ErrorIs(t, err, ErrSessionNotFound)
}

func TestDeleteSessionRemovesMessages(t *testing.T) {
	svc, store := newTestService()

	created, err := svc.CreateSession(context.Background(), "alice", &dto.CreateSessionRequest{UserId: "alice", Title: "Checkup"})
	require.NoError(t, err)

	for i := 0; i < 3; i++ {
		require.NoError(t, svc.CreateMessage(context.Background(), &entity.ChatMessage{
			Text:      "turn",
			Sender:    constant.SenderUser,
			SessionId: created.Id,
			UserId:    "alice",
			Timestamp: time.Now().UTC().Add(time.Duration(i) * time.Second),
		}))
	}

	require.NoError(t, svc.DeleteSession(context.Background(), "alice", created.Id))
	assert.Empty(t, store.sessions)
	assert.Empty(t, store.messages)
}

func TestMessagesReturnsChronologicalWindow(t *testing.T) {
	svc, _ := newTestService()

	created, err := svc.CreateSession(context.Background(), "alice", &dto.CreateSessionRequest{UserId: "alice", Title: "Checkup"})
	require.NoError(t, err)

	base := time.Now().UTC()
	for i := 0; i < 5; i++ {
		require.NoError(t, svc.CreateMessage(context.Background(), &entity.ChatMessage{
			Text:      string(rune('a' + i)),
			Sender:    constant.SenderUser,
			SessionId: created.Id,
			UserId:    "alice",
			Timestamp: base.Add(time.Duration(i) * time.Second),
		}))
	}

	// Limit keeps the newest turns but the result stays oldest-first.
	window, err := svc.Messages(context.Background(), created.Id.String(), "alice", 3)
	require.NoError(t, err)
	require.Len(t, window, 3)
	assert.Equal(t, "c", window[0].Text)
	assert.Equal(t, "e", window[2].Text)

	// A deleted or foreign session yields an empty window, not an error,
	// so generation proceeds without history.
	window, err = svc.Messages(context.Background(), uuid.NewString(), "alice", 3)
	require.NoError(t, err)
	assert.Empty(t, window)
}

func TestGetSessionsSortedByActivity(t *testing.T) {
	svc, _ := newTestService()

	first, err := svc.CreateSession(context.Background(), "alice", &dto.CreateSessionRequest{UserId: "alice", Title: "First"})
	require.NoError(t, err)
	_, err = svc.CreateSession(context.Background(), "bob", &dto.CreateSessionRequest{UserId: "bob", Title: "Other user"})
	require.NoError(t, err)
	second, err := svc.CreateSession(context.Background(), "alice", &dto.CreateSessionRequest{UserId: "alice", Title: "Second"})
	require.NoError(t, err)

	require.NoError(t, svc.CreateMessage(context.Background(), &entity.ChatMessage{
		Text:      "bump",
		Sender:    constant.SenderUser,
		SessionId: first.Id,
		UserId:    "alice",
		Timestamp: time.Now().UTC().Add(time.Minute),
	}))

	sessions, err := svc.GetSessions(context.Background(), "alice")
	require.NoError(t, err)
	require.Len(t, sessions, 2)
	assert.Equal(t, first.Id, sessions[0].Id)
	assert.Equal(t, second.Id, sessions[1].Id)
}
