package events

import (
	"testing"
	"time"

	"github.com/stretchr/testify/require"
)

func TestLocalBus_DeliversToSubscriber(t *testing.T) {
	req := require.New(t)
	bus := NewLocalBus()

	ch, cancel := bus.Subscribe("alice")
	defer cancel()

	bus.Publish("alice", Event{Type: TypeNewMessage, Data: "hi"})

	select {
	case ev := <-ch:
		req.Equal(TypeNewMessage, ev.Type)
		req.Equal("hi", ev.Data)
	case <-time.After(time.Second):
		t.Fatal("no event delivered")
	}
}

func TestLocalBus_PublishWithoutSubscriberDrops(t *testing.T) {
	bus := NewLocalBus()
	// must return immediately, nothing to assert beyond not blocking
	done := make(chan struct{})
	go func() {
		bus.Publish("nobody", Event{Type: TypeNewMessage})
		close(done)
	}()
	select {
	case <-done:
	case <-time.After(time.Second):
		t.Fatal("publish blocked with no subscriber")
	}
}

func TestLocalBus_SlowSubscriberDropsInsteadOfBlocking(t *testing.T) {
	bus := NewLocalBus()
	_, cancel := bus.Subscribe("alice")
	defer cancel()

	done := make(chan struct{})
	go func() {
		// overflow the buffer without anyone draining it
		for i := 0; i < subscriberBuffer*2; i++ {
			bus.Publish("alice", Event{Type: TypeNewMessage, Data: i})
		}
		close(done)
	}()
	select {
	case <-done:
	case <-time.After(time.Second):
		t.Fatal("publish blocked on a slow subscriber")
	}
}

func TestLocalBus_CancelStopsDeliveryAndClosesChannel(t *testing.T) {
	req := require.New(t)
	bus := NewLocalBus()

	ch, cancel := bus.Subscribe("alice")
	cancel()
	// double cancel must be safe
	cancel()

	_, open := <-ch
	req.False(open)

	bus.Publish("alice", Event{Type: TypeNewMessage})
}

func TestLocalBus_IndependentChannelsPerUser(t *testing.T) {
	req := require.New(t)
	bus := NewLocalBus()

	aliceCh, cancelA := bus.Subscribe("alice")
	defer cancelA()
	_, cancelB := bus.Subscribe("bob")
	defer cancelB()

	bus.Publish("alice", Event{Type: TypeNewMessage, Data: "for alice"})

	select {
	case ev := <-aliceCh:
		req.Equal("for alice", ev.Data)
	case <-time.After(time.Second):
		t.Fatal("no event delivered")
	}
}
