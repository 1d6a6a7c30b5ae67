package chathub

import "aurachat/backend/internal/models"

// Client is the interface for any type of chat connection.
// It lets the hub manage sessions without knowing the transport.
type Client interface {
	// GetUserID returns the authenticated user behind the connection.
	GetUserID() string
	// GetPeerID returns the user on the other side of the conversation.
	GetPeerID() string
	// GetRoomKey returns the key of the room the session belongs to.
	GetRoomKey() string

	// GetSendChannel returns the channel the room writes outbound events to.
	GetSendChannel() chan<- models.OutboundEvent

	// Run starts the client's read and write pumps.
	Run()
	// Close shuts the outbound side of the connection down. It must be safe to
	// call more than once.
	Close()
}

// RoomKey names the room shared by two users. It does not depend on argument order.
func RoomKey(a, b string) string {
	if a > b {
		a, b = b, a
	}
	return a + "_" + b
}
