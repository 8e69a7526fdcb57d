package service

import (
	"testing"
	"time"

	"github.com/stretchr/testify/require"
	"github.com/zubaerSumon/ileap-sub000/internal/domain"
)

func TestConversations_UnreadCountsAndOrdering(t *testing.T) {
	req := require.New(t)
	e := newTestEnv()
	e.users.Put(&domain.User{ID: "bob", Name: "Bob", Role: domain.RoleVolunteer})
	e.users.Put(&domain.User{ID: "carol", Name: "Carol", Role: domain.RoleMentor})

	base := time.Date(2026, 8, 1, 9, 0, 0, 0, time.UTC)
	e.seedDirect("bob", "alice", "b1", base)
	e.seedDirect("bob", "alice", "b2", base.Add(time.Minute))
	e.seedDirect("bob", "alice", "b3", base.Add(2*time.Minute))
	e.seedDirect("carol", "alice", "c1", base.Add(3*time.Minute))

	convs, err := e.conversations.Conversations(ctxb(), "alice")
	req.NoError(err)
	req.Len(convs, 2)

	// carol last, so carol first
	req.Equal("carol", convs[0].Counterpart.ID)
	req.Equal("Carol", convs[0].Counterpart.Name)
	req.Equal(1, convs[0].UnreadCount)
	req.Equal("c1", convs[0].LastMessage.Content)

	req.Equal("bob", convs[1].Counterpart.ID)
	req.Equal(3, convs[1].UnreadCount)
	req.Equal("b3", convs[1].LastMessage.Content)
}

func TestConversations_SenderNeverCountsOwnMessages(t *testing.T) {
	req := require.New(t)
	e := newTestEnv()
	e.seedDirect("alice", "bob", "hi", time.Now().UTC())

	convs, err := e.conversations.Conversations(ctxb(), "alice")
	req.NoError(err)
	req.Len(convs, 1)
	req.Equal(0, convs[0].UnreadCount)

	// the recipient does see it as unread
	convs, err = e.conversations.Conversations(ctxb(), "bob")
	req.NoError(err)
	req.Equal(1, convs[0].UnreadCount)
}

func TestConversations_UnknownCounterpartDegradesToID(t *testing.T) {
	req := require.New(t)
	e := newTestEnv()
	e.seedDirect("ghost", "alice", "boo", time.Now().UTC())

	convs, err := e.conversations.Conversations(ctxb(), "alice")
	req.NoError(err)
	req.Len(convs, 1)
	req.Equal("ghost", convs[0].Counterpart.ID)
	req.Empty(convs[0].Counterpart.Name)
}

func TestGroups_SummariesAndOrdering(t *testing.T) {
	req := require.New(t)
	e := newTestEnv()
	base := time.Date(2026, 8, 1, 9, 0, 0, 0, time.UTC)
	e.seedGroup("old", "alice", []string{"alice", "bob"}, []string{"alice"}, base)
	e.seedGroup("new", "alice", []string{"alice", "bob"}, []string{"alice"}, base.Add(time.Hour))
	e.seedGroup("other", "carol", []string{"carol"}, []string{"carol"}, base.Add(2*time.Hour))

	// two from bob that alice hasn't read, one from alice herself
	e.seedGroupMsg("bob", "old", "m1", base.Add(time.Minute))
	e.seedGroupMsg("bob", "old", "m2", base.Add(2*time.Minute))
	e.seedGroupMsg("alice", "old", "m3", base.Add(3*time.Minute))

	sums, err := e.conversations.Groups(ctxb(), "alice")
	req.NoError(err)
	req.Len(sums, 2, "non-member groups are excluded")

	// group creation time wins over message recency
	req.Equal("new", sums[0].Group.ID)
	req.Nil(sums[0].LastMessage)
	req.Equal(0, sums[0].UnreadCount)

	req.Equal("old", sums[1].Group.ID)
	req.Equal("m3", sums[1].LastMessage.Content)
	req.Equal(2, sums[1].UnreadCount)
}

func TestDeleteConversation_RemovesOnlyThePair(t *testing.T) {
	req := require.New(t)
	e := newTestEnv()
	now := time.Now().UTC()
	e.seedDirect("alice", "bob", "one", now)
	e.seedDirect("bob", "alice", "two", now.Add(time.Second))
	e.seedDirect("alice", "carol", "keep", now.Add(2*time.Second))

	n, err := e.conversations.DeleteConversation(ctxb(), "alice", "bob")
	req.NoError(err)
	req.EqualValues(2, n)

	convs, err := e.conversations.Conversations(ctxb(), "alice")
	req.NoError(err)
	req.Len(convs, 1)
	req.Equal("carol", convs[0].Counterpart.ID)
}
