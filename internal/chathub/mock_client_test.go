package chathub_test

import (
	"sync/atomic"
	"testing"
	"time"

	"aurachat/backend/internal/chathub"
	"aurachat/backend/internal/models"
)

type mockClient struct {
	userID string
	peerID string
	events chan models.OutboundEvent
	closed atomic.Bool
}

func newMockClient(userID, peerID string) *mockClient {
	return newMockClientSize(userID, peerID, 16)
}

func newMockClientSize(userID, peerID string, size int) *mockClient {
	return &mockClient{userID: userID, peerID: peerID, events: make(chan models.OutboundEvent, size)}
}

func (c *mockClient) GetUserID() string                           { return c.userID }
func (c *mockClient) GetPeerID() string                           { return c.peerID }
func (c *mockClient) GetRoomKey() string                          { return chathub.RoomKey(c.userID, c.peerID) }
func (c *mockClient) GetSendChannel() chan<- models.OutboundEvent { return c.events }
func (c *mockClient) Close()                                      { c.closed.Store(true) }

func (c *mockClient) Run() {}

// next waits for the client's next event.
func (c *mockClient) next(t *testing.T) models.OutboundEvent {
	t.Helper()
	select {
	case ev := <-c.events:
		return ev
	case <-time.After(2 * time.Second):
		t.Fatalf("%s: timed out waiting for an event", c.userID)
		return models.OutboundEvent{}
	}
}

// nextOfType skips events until one of the given type arrives.
func (c *mockClient) nextOfType(t *testing.T, typ string) models.OutboundEvent {
	t.Helper()
	for {
		if ev := c.next(t); ev.Type == typ {
			return ev
		}
	}
}
