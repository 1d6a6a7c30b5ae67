package models

import "time"

// Frame and event types of the chat socket.
const (
	FrameChatMessage = "chat_message"
	FrameMarkAsRead  = "mark_as_read"

	EventChatMessage  = "chat_message"
	EventMessageRead  = "message_read"
	EventUserPresence = "user_presence"
	EventError        = "error"

	PresenceOnline  = "online"
	PresenceOffline = "offline"
)

// InboundFrame is a frame received from a chat client.
type InboundFrame struct {
	Type      string `json:"type"`
	Message   string `json:"message"`
	MessageID uint   `json:"message_id"`
}

// OutboundEvent is a frame sent to chat clients. Only the fields relevant to
// Type are populated.
type OutboundEvent struct {
	Type       string     `json:"type"`
	Message    string     `json:"message,omitempty"`
	SenderID   string     `json:"sender_id,omitempty"`
	ReceiverID string     `json:"receiver_id,omitempty"`
	CreatedAt  *time.Time `json:"created_at,omitempty"`
	MessageID  uint       `json:"message_id,omitempty"`
	IsRead     *bool      `json:"is_read,omitempty"`
	UserID     string     `json:"user_id,omitempty"`
	Status     string     `json:"status,omitempty"`
}

// NewChatMessageEvent mirrors a persisted message onto the wire.
func NewChatMessageEvent(m *Message) OutboundEvent {
	createdAt := m.CreatedAt
	isRead := m.IsRead
	return OutboundEvent{
		Type:       EventChatMessage,
		Message:    m.Body,
		SenderID:   m.SenderID,
		ReceiverID: m.ReceiverID,
		CreatedAt:  &createdAt,
		MessageID:  m.ID,
		IsRead:     &isRead,
	}
}

func NewMessageReadEvent(messageID uint, readerID string) OutboundEvent {
	return OutboundEvent{Type: EventMessageRead, MessageID: messageID, UserID: readerID}
}

func NewPresenceEvent(userID, status string) OutboundEvent {
	return OutboundEvent{Type: EventUserPresence, UserID: userID, Status: status}
}

func NewErrorEvent(message string) OutboundEvent {
	return OutboundEvent{Type: EventError, Message: message}
}

// All returns every persisted model, in migration order.
func All() []any {
	return []any{
		&User{},
		&Rating{},
		&Report{},
		&Streak{},
		&Verification{},
		&AuraScore{},
		&Connection{},
		&Message{},
		&Ban{},
	}
}
