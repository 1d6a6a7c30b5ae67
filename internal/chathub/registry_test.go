package chathub_test

import (
	"strconv"
	"sync"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
)

func TestRegistry_ConcurrentSessions(t *testing.T) {
	store := new(mockMessageStore)
	store.On("SaveMessage", mock.Anything).Return(nil)
	reg := newRegistry(store)

	const (
		workers = 50
		rounds  = 20
	)

	var (
		wg      sync.WaitGroup
		clients = make(chan *mockClient, workers*rounds)
	)
	for w := range workers {
		wg.Add(1)
		go func() {
			defer wg.Done()
			// Ten users over five peers: most rooms are shared by several workers.
			user, peer := "u"+strconv.Itoa(w%10), "p"+strconv.Itoa(w%5)
			for range rounds {
				c := newMockClientSize(user, peer, 4)
				reg.Join(c)
				reg.Submit(c, []byte(`{"type":"chat_message","message":"hi"}`))
				reg.Submit(c, []byte(`{"type":`))
				reg.Submit(c, []byte(`{"type":"mark_as_read","message_id":0}`))
				reg.Leave(c)
				clients <- c
			}
		}()
	}
	wg.Wait()
	close(clients)

	assert.Equal(t, 0, reg.Len())

	var all []*mockClient
	for c := range clients {
		all = append(all, c)
	}
	assert.Len(t, all, workers*rounds)
	assert.Eventually(t, func() bool {
		for _, c := range all {
			if !c.closed.Load() {
				return false
			}
		}
		return true
	}, 2*time.Second, 10*time.Millisecond, "every session is closed once it leaves")
}
