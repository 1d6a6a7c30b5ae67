package chathub_test

import (
	"context"
	"errors"
	"testing"
	"time"

	"aurachat/backend/internal/access"
	"aurachat/backend/internal/apperror"
	"aurachat/backend/internal/chathub"
	"aurachat/backend/internal/config"
	"aurachat/backend/internal/connection"
	"aurachat/backend/internal/logger"
	"aurachat/backend/internal/metrics"
	"aurachat/backend/internal/models"
	"aurachat/backend/internal/storage/storagetest"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/testutil"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type admitFixture struct {
	gate  *access.Gate
	graph *connection.Graph
	users []*models.User
	m     *metrics.Metrics
	hub   func(policy string) *chathub.ManagerService
}

func newAdmitFixture(t *testing.T) *admitFixture {
	t.Helper()
	s, _ := storagetest.NewService(t)
	log := logger.Discard()
	f := &admitFixture{
		gate:  access.NewGate(s, time.Minute, log),
		users: storagetest.CreateUsers(t, s, clock, "ann", "ben", "cy"),
		m:     metrics.New(prometheus.NewRegistry()),
	}
	f.graph = connection.NewGraph(s, f.gate, false, log)
	f.hub = func(policy string) *chathub.ManagerService {
		reg := newRegistry(s)
		return chathub.NewManagerService(reg, s, f.gate, f.graph, policy, f.m, log)
	}
	return f
}

func TestAdmit_Policies(t *testing.T) {
	ctx := context.Background()
	f := newAdmitFixture(t)
	ann, ben, cy := f.users[0].ID, f.users[1].ID, f.users[2].ID

	_, err := f.graph.Connect(ctx, ann, ben)
	require.NoError(t, err)

	tests := []struct {
		name   string
		policy string
		self   string
		peer   string
		want   error
	}{
		{name: "mutual rejects one-way edge", policy: config.AdmissionMutual, self: ann, peer: ben, want: apperror.ErrNotConnected},
		{name: "mutual rejects one-way edge from the other side", policy: config.AdmissionMutual, self: ben, peer: ann, want: apperror.ErrNotConnected},
		{name: "any admits the initiator", policy: config.AdmissionAny, self: ann, peer: ben},
		{name: "any admits the target", policy: config.AdmissionAny, self: ben, peer: ann},
		{name: "any rejects strangers", policy: config.AdmissionAny, self: ann, peer: cy, want: apperror.ErrNotConnected},
		{name: "empty policy defaults to mutual", policy: "", self: ann, peer: ben, want: apperror.ErrNotConnected},
		{name: "self", policy: config.AdmissionAny, self: ann, peer: ann, want: apperror.ErrSelfConnection},
		{name: "unknown peer", policy: config.AdmissionAny, self: ann, peer: "nobody", want: apperror.ErrNotFound},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			err := f.hub(tt.policy).Admit(ctx, tt.self, tt.peer)
			if tt.want == nil {
				assert.NoError(t, err)
				return
			}
			assert.True(t, errors.Is(err, tt.want), "got %v", err)
		})
	}

	_, err = f.graph.Connect(ctx, ben, ann)
	require.NoError(t, err)
	assert.NoError(t, f.hub(config.AdmissionMutual).Admit(ctx, ann, ben))
	assert.NoError(t, f.hub(config.AdmissionMutual).Admit(ctx, ben, ann))
}

func TestAdmit_BannedParticipants(t *testing.T) {
	ctx := context.Background()
	f := newAdmitFixture(t)
	ann, ben := f.users[0].ID, f.users[1].ID
	for _, pair := range [][2]string{{ann, ben}, {ben, ann}} {
		_, err := f.graph.Connect(ctx, pair[0], pair[1])
		require.NoError(t, err)
	}
	hub := f.hub(config.AdmissionMutual)

	require.NoError(t, f.gate.Ban(ctx, ben, "admin", "spam"))
	for _, self := range []string{ann, ben} {
		peer := ann
		if self == ann {
			peer = ben
		}
		err := hub.Admit(ctx, self, peer)
		assert.Equal(t, apperror.KindPolicy, apperror.KindOf(err))
		assert.ErrorIs(t, err, apperror.ErrBanned)
	}

	require.NoError(t, f.gate.Unban(ctx, ben))
	assert.NoError(t, hub.Admit(ctx, ann, ben))

	assert.Equal(t, float64(2), testutil.ToFloat64(f.m.SessionsTotal.WithLabelValues("rejected")))
	assert.Equal(t, float64(1), testutil.ToFloat64(f.m.SessionsTotal.WithLabelValues("admitted")))
}

func TestManager_RegisterSubmitUnregister(t *testing.T) {
	f := newAdmitFixture(t)
	hub := f.hub(config.AdmissionMutual)
	ann, ben := f.users[0].ID, f.users[1].ID

	a := newMockClient(ann, ben)
	b := newMockClient(ben, ann)
	hub.Register(a)
	a.nextOfType(t, models.EventUserPresence)
	hub.Register(b)
	a.nextOfType(t, models.EventUserPresence)
	b.nextOfType(t, models.EventUserPresence)

	hub.Submit(b, []byte(`{"type":"chat_message","message":"hey"}`))
	assert.Equal(t, "hey", a.nextOfType(t, models.EventChatMessage).Message)

	hub.Unregister(b)
	assert.Equal(t, models.NewPresenceEvent(ben, models.PresenceOffline), a.next(t))
	hub.Unregister(a)
	assert.Eventually(t, func() bool { return hub.Registry.Len() == 0 }, time.Second, 10*time.Millisecond)
}
