package chathub

import (
	"context"
	"encoding/json"
	"strings"
	"time"

	"aurachat/backend/internal/apperror"
	"aurachat/backend/internal/metrics"
	"aurachat/backend/internal/models"
	"aurachat/backend/internal/notify"

	"github.com/sirupsen/logrus"
)

const (
	storeTimeout  = 5 * time.Second
	notifyTimeout = 10 * time.Second
	inboxSize     = 64
)

// MessageStore persists chat messages and read receipts.
type MessageStore interface {
	SaveMessage(ctx context.Context, msg *models.Message) error
	MarkMessageRead(ctx context.Context, messageID uint, readerID, senderID string, at time.Time) (bool, error)
}

// ActivityRecorder registers a qualifying user action.
type ActivityRecorder interface {
	Record(ctx context.Context, userID string) (*models.Streak, error)
}

// RoomDeps are shared by every room of a registry.
type RoomDeps struct {
	Store    MessageStore
	Activity ActivityRecorder
	Notifier notify.Notifier
	Metrics  *metrics.Metrics
	Log      logrus.FieldLogger
	Now      func() time.Time
}

type commandKind int

const (
	cmdJoin commandKind = iota
	cmdLeave
	cmdFrame
)

type command struct {
	kind   commandKind
	client Client
	raw    []byte
}

// Room owns the membership of one conversation. A single goroutine processes
// its commands, so events of a room are handled one at a time and in order.
type Room struct {
	key     string
	deps    RoomDeps
	members map[Client]struct{}
	inbox   chan command
	done    chan struct{}

	// refs is guarded by the owning Registry's mutex.
	refs int
}

func newRoom(key string, deps RoomDeps) *Room {
	return &Room{
		key:     key,
		deps:    deps,
		members: make(map[Client]struct{}),
		inbox:   make(chan command, inboxSize),
		done:    make(chan struct{}),
	}
}

func (r *Room) run() {
	defer close(r.done)
	r.deps.Metrics.ActiveRooms.Inc()
	defer r.deps.Metrics.ActiveRooms.Dec()

	for cmd := range r.inbox {
		switch cmd.kind {
		case cmdJoin:
			r.join(cmd.client)
		case cmdLeave:
			r.leave(cmd.client)
		case cmdFrame:
			r.handleFrame(cmd.client, cmd.raw)
		}
	}

	for c := range r.members {
		delete(r.members, c)
		c.Close()
	}
}

func (r *Room) join(c Client) {
	r.members[c] = struct{}{}
	r.log().WithField("user_id", c.GetUserID()).Info("client joined room")
	r.broadcast(models.NewPresenceEvent(c.GetUserID(), models.PresenceOnline))
}

func (r *Room) leave(c Client) {
	if _, ok := r.members[c]; !ok {
		return
	}
	defer c.Close()
	delete(r.members, c)
	r.log().WithField("user_id", c.GetUserID()).Info("client left room")
	r.broadcast(models.NewPresenceEvent(c.GetUserID(), models.PresenceOffline))
}

func (r *Room) handleFrame(sender Client, raw []byte) {
	if _, ok := r.members[sender]; !ok {
		return
	}

	var frame models.InboundFrame
	if err := json.Unmarshal(raw, &frame); err != nil {
		r.log().WithError(err).WithField("user_id", sender.GetUserID()).Debug("malformed frame")
		r.reject(sender, apperror.Protocol("invalid message format"))
		return
	}

	switch frame.Type {
	case models.FrameChatMessage:
		r.handleChatMessage(sender, frame.Message)
	case models.FrameMarkAsRead:
		r.handleMarkAsRead(sender, frame.MessageID)
	default:
		r.reject(sender, apperror.Protocol("unknown message type: "+frame.Type))
	}
}

func (r *Room) handleChatMessage(sender Client, body string) {
	body = strings.TrimSpace(body)
	if body == "" {
		return
	}

	ctx, cancel := context.WithTimeout(context.Background(), storeTimeout)
	defer cancel()

	msg := &models.Message{
		SenderID:   sender.GetUserID(),
		ReceiverID: sender.GetPeerID(),
		Body:       body,
		CreatedAt:  r.deps.Now().UTC(),
	}
	if err := r.deps.Store.SaveMessage(ctx, msg); err != nil {
		r.log().WithError(err).WithField("user_id", msg.SenderID).Error("failed to save message")
		r.reject(sender, apperror.New(apperror.KindTransient, "message could not be delivered, try again", err))
		return
	}

	r.deps.Metrics.ChatEventsTotal.WithLabelValues(models.EventChatMessage).Inc()
	r.broadcast(models.NewChatMessageEvent(msg))

	if r.deps.Activity != nil {
		if _, err := r.deps.Activity.Record(ctx, msg.SenderID); err != nil {
			r.log().WithError(err).WithField("user_id", msg.SenderID).Warn("failed to record activity")
		}
	}

	if !r.hasMember(msg.ReceiverID) && r.deps.Notifier != nil {
		go r.notifyAway(*msg)
	}
}

func (r *Room) notifyAway(msg models.Message) {
	ctx, cancel := context.WithTimeout(context.Background(), notifyTimeout)
	defer cancel()
	if err := r.deps.Notifier.MessageWhileAway(ctx, &msg); err != nil {
		r.log().WithError(err).WithField("receiver_id", msg.ReceiverID).Warn("offline notification failed")
	}
}

func (r *Room) handleMarkAsRead(reader Client, messageID uint) {
	if messageID == 0 {
		return
	}

	ctx, cancel := context.WithTimeout(context.Background(), storeTimeout)
	defer cancel()

	updated, err := r.deps.Store.MarkMessageRead(ctx, messageID, reader.GetUserID(), reader.GetPeerID(), r.deps.Now().UTC())
	if err != nil {
		r.log().WithError(err).WithField("message_id", messageID).Error("failed to mark message read")
		return
	}
	if !updated {
		return
	}

	r.deps.Metrics.ChatEventsTotal.WithLabelValues(models.EventMessageRead).Inc()
	r.broadcast(models.NewMessageReadEvent(messageID, reader.GetUserID()))
}

func (r *Room) hasMember(userID string) bool {
	for c := range r.members {
		if c.GetUserID() == userID {
			return true
		}
	}
	return false
}

// broadcast delivers ev to every member. Members whose buffer is full are
// dropped, and the remaining members are told they went offline.
func (r *Room) broadcast(ev models.OutboundEvent) {
	var dropped []Client
	for c := range r.members {
		if !r.trySend(c, ev) {
			dropped = append(dropped, c)
		}
	}
	for _, c := range dropped {
		r.drop(c)
	}
}

// reject answers a single client with an error event. The session stays open.
func (r *Room) reject(c Client, err *apperror.AppError) {
	r.deps.Metrics.ChatEventsTotal.WithLabelValues(models.EventError).Inc()
	if !r.trySend(c, models.NewErrorEvent(apperror.PublicMessage(err))) {
		r.drop(c)
	}
}

func (r *Room) trySend(c Client, ev models.OutboundEvent) bool {
	select {
	case c.GetSendChannel() <- ev:
		return true
	default:
		return false
	}
}

func (r *Room) drop(c Client) {
	if _, ok := r.members[c]; !ok {
		return
	}
	delete(r.members, c)
	c.Close()
	r.deps.Metrics.ChatEventsTotal.WithLabelValues("dropped_client").Inc()
	r.log().WithField("user_id", c.GetUserID()).Warn("dropping slow client")
	r.broadcast(models.NewPresenceEvent(c.GetUserID(), models.PresenceOffline))
}

func (r *Room) log() logrus.FieldLogger {
	return r.deps.Log.WithField("room", r.key)
}
