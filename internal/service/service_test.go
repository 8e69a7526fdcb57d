package service

import (
	"context"
	"sync"
	"time"

	"github.com/google/uuid"
	"github.com/zubaerSumon/ileap-sub000/internal/domain"
	"github.com/zubaerSumon/ileap-sub000/internal/events"
	"github.com/zubaerSumon/ileap-sub000/internal/repository"
	"go.uber.org/zap"
)

// recordingBus captures publishes so tests can assert on fan-out.
type recordingBus struct {
	mu        sync.Mutex
	published []publishedEvent
}

type publishedEvent struct {
	UserID string
	Event  events.Event
}

func (b *recordingBus) Publish(userID string, ev events.Event) {
	b.mu.Lock()
	defer b.mu.Unlock()
	b.published = append(b.published, publishedEvent{UserID: userID, Event: ev})
}

func (b *recordingBus) Subscribe(string) (<-chan events.Event, func()) {
	ch := make(chan events.Event)
	return ch, func() { close(ch) }
}

func (b *recordingBus) events() []publishedEvent {
	b.mu.Lock()
	defer b.mu.Unlock()
	return append([]publishedEvent(nil), b.published...)
}

func (b *recordingBus) reset() {
	b.mu.Lock()
	defer b.mu.Unlock()
	b.published = nil
}

func ctxb() context.Context { return context.Background() }

type testEnv struct {
	msgs   *repository.MemoryMessageRepository
	groups *repository.MemoryGroupRepository
	users  *repository.MemoryUserRepository
	bus    *recordingBus

	messages      *MessageService
	reads         *ReadStateService
	history       *HistoryService
	conversations *ConversationService
	groupSvc      *GroupService
}

func newTestEnv() *testEnv {
	e := &testEnv{
		msgs:   repository.NewMemoryMessageRepository(),
		groups: repository.NewMemoryGroupRepository(),
		users:  repository.NewMemoryUserRepository(),
		bus:    &recordingBus{},
	}
	log := zap.NewNop().Sugar()
	fanout := events.NewFanout(e.bus)
	e.messages = NewMessageService(e.msgs, e.groups, e.users, fanout, nil, log)
	e.reads = NewReadStateService(e.msgs, fanout, log)
	e.history = NewHistoryService(e.msgs, e.groups, e.users, e.reads, log)
	e.conversations = NewConversationService(e.msgs, e.groups, e.users, log)
	e.groupSvc = NewGroupService(e.groups, e.msgs, log)
	return e
}

// seedDirect inserts a direct message with an explicit timestamp, bypassing
// the send path so tests control ordering.
func (e *testEnv) seedDirect(sender, receiver, content string, at time.Time) *domain.Message {
	m := &domain.Message{
		ID:         uuid.NewString(),
		SenderID:   sender,
		ReceiverID: receiver,
		Content:    content,
		CreatedAt:  at,
	}
	_ = e.msgs.Insert(ctxb(), m)
	return m
}

func (e *testEnv) seedGroupMsg(sender, groupID, content string, at time.Time) *domain.Message {
	m := &domain.Message{
		ID:        uuid.NewString(),
		SenderID:  sender,
		GroupID:   groupID,
		Content:   content,
		CreatedAt: at,
		ReadBy:    []domain.ReadReceipt{{UserID: sender, ReadAt: at}},
	}
	_ = e.msgs.Insert(ctxb(), m)
	return m
}

func (e *testEnv) seedGroup(id, createdBy string, members, admins []string, at time.Time) *domain.Group {
	g := &domain.Group{
		ID:        id,
		Name:      "group " + id,
		Members:   members,
		Admins:    admins,
		CreatedBy: createdBy,
		CreatedAt: at,
		UpdatedAt: at,
	}
	_ = e.groups.Insert(ctxb(), g)
	return g
}
