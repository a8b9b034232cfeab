package network

import (
	"ecosystem-server/pkg/api"
	"ecosystem-server/pkg/logger"
	"io"
	"os"
	"testing"
)

func TestMain(m *testing.M) {
	logger.Init()
	logger.Log.SetOutput(io.Discard)
	os.Exit(m.Run())
}

func TestBroadcaster_PublishPerEcosystem(t *testing.T) {
	b := NewBroadcaster()
	_, savanna := b.Register("savanna")
	_, tundra := b.Register("tundra")

	b.Publish(api.TickReport{Type: "TICK", EcosystemID: "savanna", Ticks: 1})

	select {
	case msg := <-savanna:
		if msg.Ticks != 1 {
			t.Errorf("Expected 1 tick, got %d", msg.Ticks)
		}
	default:
		t.Fatal("Savanna watcher should have received the report")
	}

	select {
	case <-tundra:
		t.Fatal("Tundra watcher must not receive savanna reports")
	default:
	}
}

func TestBroadcaster_Unregister(t *testing.T) {
	b := NewBroadcaster()
	id, ch := b.Register("savanna")

	if !b.HasSubscriber("savanna") || b.SubscriberCount() != 1 {
		t.Fatal("Expected one subscriber")
	}

	b.Unregister("savanna", id)
	if _, open := <-ch; open {
		t.Error("Channel should be closed after Unregister")
	}
	if b.HasSubscriber("savanna") || b.SubscriberCount() != 0 {
		t.Error("Expected no subscribers")
	}

	// Unknown subscriptions are ignored
	b.Unregister("savanna", id)
}

func TestBroadcaster_FullChannelDoesNotBlock(t *testing.T) {
	b := NewBroadcaster()
	b.Register("savanna")

	for i := 0; i < 250; i++ {
		b.Publish(api.TickReport{EcosystemID: "savanna"})
	}
}
