package service

import (
	"testing"
	"time"

	"github.com/stretchr/testify/require"
	"github.com/zubaerSumon/ileap-sub000/internal/events"
)

func TestMarkDirectRead_Idempotent(t *testing.T) {
	req := require.New(t)
	e := newTestEnv()
	now := time.Now().UTC()
	for i := 0; i < 3; i++ {
		e.seedDirect("bob", "alice", "hey", now.Add(time.Duration(i)*time.Second))
	}

	n, err := e.reads.MarkDirectRead(ctxb(), "alice", "bob")
	req.NoError(err)
	req.EqualValues(3, n)

	// second pass finds nothing left to update and stays silent
	e.bus.reset()
	n, err = e.reads.MarkDirectRead(ctxb(), "alice", "bob")
	req.NoError(err)
	req.Zero(n)
	req.Empty(e.bus.events())
}

func TestMarkDirectRead_NotifiesCounterpart(t *testing.T) {
	req := require.New(t)
	e := newTestEnv()
	e.seedDirect("bob", "alice", "hey", time.Now().UTC())

	_, err := e.reads.MarkDirectRead(ctxb(), "alice", "bob")
	req.NoError(err)

	got := e.bus.events()
	req.Len(got, 1)
	req.Equal("bob", got[0].UserID)
	req.Equal(events.TypeMessageRead, got[0].Event.Type)
	notice, ok := got[0].Event.Data.(events.ReadNotice)
	req.True(ok)
	req.Equal("alice", notice.ReaderID)
	req.EqualValues(1, notice.Count)
}

func TestMarkDirectRead_LeavesOwnMessagesAlone(t *testing.T) {
	req := require.New(t)
	e := newTestEnv()
	e.seedDirect("alice", "bob", "mine", time.Now().UTC())

	n, err := e.reads.MarkDirectRead(ctxb(), "alice", "bob")
	req.NoError(err)
	req.Zero(n)
}

func TestMarkGroupRead_Idempotent(t *testing.T) {
	req := require.New(t)
	e := newTestEnv()
	now := time.Now().UTC()
	e.seedGroupMsg("alice", "g1", "one", now)
	e.seedGroupMsg("alice", "g1", "two", now.Add(time.Second))

	n, err := e.reads.MarkGroupRead(ctxb(), "bob", "g1")
	req.NoError(err)
	req.EqualValues(2, n)

	n, err = e.reads.MarkGroupRead(ctxb(), "bob", "g1")
	req.NoError(err)
	req.Zero(n)
}
