package events

import (
	"testing"

	"github.com/stretchr/testify/require"
	"github.com/zubaerSumon/ileap-sub000/internal/domain"
)

type captureBus struct {
	published map[string]int
}

func (b *captureBus) Publish(userID string, _ Event) {
	if b.published == nil {
		b.published = map[string]int{}
	}
	b.published[userID]++
}

func (b *captureBus) Subscribe(string) (<-chan Event, func()) {
	ch := make(chan Event)
	return ch, func() { close(ch) }
}

func TestFanout_DirectEchoesToSender(t *testing.T) {
	req := require.New(t)
	bus := &captureBus{}
	f := NewFanout(bus)

	f.PublishDirect(&domain.Message{SenderID: "alice", ReceiverID: "bob"})
	req.Equal(1, bus.published["alice"])
	req.Equal(1, bus.published["bob"])

	// self-message emits once, not twice
	bus.published = nil
	f.PublishDirect(&domain.Message{SenderID: "alice", ReceiverID: "alice"})
	req.Equal(1, bus.published["alice"])
}

func TestFanout_GroupEmitsPerMember(t *testing.T) {
	req := require.New(t)
	bus := &captureBus{}
	f := NewFanout(bus)

	f.PublishGroup([]string{"alice", "bob", "carol"}, &domain.Message{SenderID: "alice", GroupID: "g1"})
	req.Equal(map[string]int{"alice": 1, "bob": 1, "carol": 1}, bus.published)
}
