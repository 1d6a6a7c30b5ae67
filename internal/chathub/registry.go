package chathub

import (
	"sync"
	"time"

	"aurachat/backend/internal/metrics"

	"github.com/sirupsen/logrus"
)

// Registry maps room keys to running rooms. Rooms are created on the first
// Join and stopped when the last session leaves.
type Registry struct {
	mu    sync.Mutex
	rooms map[string]*Room
	deps  RoomDeps
}

func NewRegistry(deps RoomDeps) *Registry {
	if deps.Now == nil {
		deps.Now = time.Now
	}
	if deps.Metrics == nil {
		deps.Metrics = metrics.NewNop()
	}
	if deps.Log == nil {
		deps.Log = logrus.StandardLogger()
	}
	return &Registry{rooms: make(map[string]*Room), deps: deps}
}

// Join adds c to its room, starting the room if needed.
func (r *Registry) Join(c Client) {
	key := c.GetRoomKey()

	r.mu.Lock()
	room, ok := r.rooms[key]
	if !ok {
		room = newRoom(key, r.deps)
		r.rooms[key] = room
		go room.run()
	}
	room.refs++
	r.mu.Unlock()

	room.inbox <- command{kind: cmdJoin, client: c}
}

// Leave removes c from its room. It must be called once per Join.
func (r *Registry) Leave(c Client) {
	key := c.GetRoomKey()

	r.mu.Lock()
	room, ok := r.rooms[key]
	r.mu.Unlock()
	if !ok {
		c.Close()
		return
	}

	// c still holds a reference here, so the inbox cannot be closed yet.
	room.inbox <- command{kind: cmdLeave, client: c}

	r.mu.Lock()
	room.refs--
	if room.refs == 0 {
		delete(r.rooms, key)
		close(room.inbox)
	}
	r.mu.Unlock()
}

// Submit queues a raw inbound frame from c. Frames from clients that have not
// joined are discarded.
func (r *Registry) Submit(c Client, raw []byte) {
	r.mu.Lock()
	room, ok := r.rooms[c.GetRoomKey()]
	r.mu.Unlock()
	if !ok {
		return
	}
	room.inbox <- command{kind: cmdFrame, client: c, raw: raw}
}

// Len returns the number of running rooms.
func (r *Registry) Len() int {
	r.mu.Lock()
	defer r.mu.Unlock()
	return len(r.rooms)
}
