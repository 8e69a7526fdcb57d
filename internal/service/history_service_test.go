package service

import (
	"fmt"
	"testing"
	"time"

	"github.com/stretchr/testify/require"
	"github.com/zubaerSumon/ileap-sub000/internal/apperr"
	"github.com/zubaerSumon/ileap-sub000/internal/events"
)

func TestDirectHistory_Pagination(t *testing.T) {
	req := require.New(t)
	e := newTestEnv()
	base := time.Date(2026, 8, 1, 12, 0, 0, 0, time.UTC)
	for i := 0; i < 25; i++ {
		e.seedDirect("alice", "bob", fmt.Sprintf("msg-%02d", i), base.Add(time.Duration(i)*time.Minute))
	}

	page, err := e.history.DirectHistory(ctxb(), "bob", "alice", 20, "")
	req.NoError(err)
	req.Len(page.Messages, 20)
	req.NotEmpty(page.NextCursor)
	// ascending within the page, newest 20 overall
	req.Equal("msg-05", page.Messages[0].Content)
	req.Equal("msg-24", page.Messages[19].Content)
	for i := 1; i < len(page.Messages); i++ {
		req.False(page.Messages[i].CreatedAt.Before(page.Messages[i-1].CreatedAt))
	}

	rest, err := e.history.DirectHistory(ctxb(), "bob", "alice", 20, page.NextCursor)
	req.NoError(err)
	req.Len(rest.Messages, 5)
	req.Empty(rest.NextCursor)
	req.Equal("msg-00", rest.Messages[0].Content)
	req.Equal("msg-04", rest.Messages[4].Content)
}

func TestDirectHistory_CursorStableUnderInserts(t *testing.T) {
	req := require.New(t)
	e := newTestEnv()
	base := time.Date(2026, 8, 1, 12, 0, 0, 0, time.UTC)
	for i := 0; i < 5; i++ {
		e.seedDirect("alice", "bob", fmt.Sprintf("old-%d", i), base.Add(time.Duration(i)*time.Minute))
	}

	page, err := e.history.DirectHistory(ctxb(), "bob", "alice", 3, "")
	req.NoError(err)
	req.Len(page.Messages, 3)

	// a new message must not shift the remaining page
	e.seedDirect("alice", "bob", "new", base.Add(time.Hour))

	rest, err := e.history.DirectHistory(ctxb(), "bob", "alice", 3, page.NextCursor)
	req.NoError(err)
	req.Len(rest.Messages, 2)
	req.Equal("old-0", rest.Messages[0].Content)
	req.Equal("old-1", rest.Messages[1].Content)
}

func TestDirectHistory_EmptyIsNotAnError(t *testing.T) {
	req := require.New(t)
	e := newTestEnv()

	page, err := e.history.DirectHistory(ctxb(), "alice", "nobody", 20, "")
	req.NoError(err)
	req.Empty(page.Messages)
	req.Empty(page.NextCursor)
}

func TestDirectHistory_MarksCounterpartMessagesRead(t *testing.T) {
	req := require.New(t)
	e := newTestEnv()
	now := time.Now().UTC()
	e.seedDirect("bob", "alice", "one", now.Add(-2*time.Minute))
	e.seedDirect("bob", "alice", "two", now.Add(-time.Minute))
	e.seedDirect("alice", "bob", "mine", now)

	_, err := e.history.DirectHistory(ctxb(), "alice", "bob", 20, "")
	req.NoError(err)

	convs, err := e.conversations.Conversations(ctxb(), "alice")
	req.NoError(err)
	req.Len(convs, 1)
	req.Equal(0, convs[0].UnreadCount)

	// bob was told his messages were read
	var readEvents int
	for _, p := range e.bus.events() {
		if p.Event.Type == events.TypeMessageRead {
			readEvents++
			req.Equal("bob", p.UserID)
		}
	}
	req.Equal(1, readEvents)
}

func TestDirectHistory_InvalidCursor(t *testing.T) {
	e := newTestEnv()
	_, err := e.history.DirectHistory(ctxb(), "alice", "bob", 20, "not-a-cursor!!!")
	require.ErrorIs(t, err, apperr.ErrInvalid)
}

func TestGroupHistory_MembershipGate(t *testing.T) {
	e := newTestEnv()
	e.seedGroup("g1", "alice", []string{"alice", "bob"}, []string{"alice"}, time.Now().UTC())

	t.Run("Should fail when group is absent", func(t *testing.T) {
		_, err := e.history.GroupHistory(ctxb(), "alice", "nope", 20, "")
		require.ErrorIs(t, err, apperr.ErrNotFound)
	})
	t.Run("Should fail for non-members", func(t *testing.T) {
		_, err := e.history.GroupHistory(ctxb(), "mallory", "g1", 20, "")
		require.ErrorIs(t, err, apperr.ErrForbidden)
	})
}

func TestGroupHistory_AppendsReceiptsOnce(t *testing.T) {
	req := require.New(t)
	e := newTestEnv()
	now := time.Now().UTC()
	e.seedGroup("g1", "alice", []string{"alice", "bob"}, []string{"alice"}, now)
	e.seedGroupMsg("alice", "g1", "first", now.Add(time.Second))
	e.seedGroupMsg("alice", "g1", "second", now.Add(2*time.Second))

	for i := 0; i < 2; i++ {
		page, err := e.history.GroupHistory(ctxb(), "bob", "g1", 20, "")
		req.NoError(err)
		req.Len(page.Messages, 2)
	}

	// fetching twice records bob exactly once per message
	page, err := e.history.GroupHistory(ctxb(), "alice", "g1", 20, "")
	req.NoError(err)
	for _, m := range page.Messages {
		var bobReceipts int
		for _, r := range m.ReadBy {
			if r.UserID == "bob" {
				bobReceipts++
			}
		}
		req.Equal(1, bobReceipts, "message %q", m.Content)
	}

	unread, err := e.msgs.CountGroupUnread(ctxb(), "g1", "bob")
	req.NoError(err)
	req.Zero(unread)
}
