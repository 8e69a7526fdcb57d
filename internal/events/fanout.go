package events

import (
	"github.com/zubaerSumon/ileap-sub000/internal/domain"
)

// ReadNotice is the message_read payload sent to the author whose messages
// were just read.
type ReadNotice struct {
	ReaderID      string `json:"reader_id"`
	CounterpartID string `json:"counterpart_id"`
	Count         int64  `json:"count"`
}

// Fanout turns persisted messages into per-user bus events.
type Fanout struct {
	bus Bus
}

func NewFanout(bus Bus) *Fanout {
	return &Fanout{bus: bus}
}

// PublishDirect notifies the recipient and echoes to the sender's own
// channel so the sender's open views update without a refetch.
func (f *Fanout) PublishDirect(m *domain.Message) {
	ev := Event{Type: TypeNewMessage, Data: m}
	f.bus.Publish(m.ReceiverID, ev)
	if m.SenderID != m.ReceiverID {
		f.bus.Publish(m.SenderID, ev)
	}
}

// PublishGroup emits to every member channel, sender included. One emission
// per member, no retries.
func (f *Fanout) PublishGroup(memberIDs []string, m *domain.Message) {
	ev := Event{Type: TypeNewMessage, Data: m}
	for _, id := range memberIDs {
		f.bus.Publish(id, ev)
	}
}

// PublishRead tells the original sender their messages were read.
func (f *Fanout) PublishRead(recipientID string, n ReadNotice) {
	f.bus.Publish(recipientID, Event{Type: TypeMessageRead, Data: n})
}
