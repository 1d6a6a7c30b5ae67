package connection_test

import (
	"context"
	"testing"
	"time"

	"aurachat/backend/internal/access"
	"aurachat/backend/internal/apperror"
	"aurachat/backend/internal/connection"
	"aurachat/backend/internal/logger"
	"aurachat/backend/internal/models"
	"aurachat/backend/internal/storage"
	"aurachat/backend/internal/storage/storagetest"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type fixture struct {
	graph *connection.Graph
	gate  *access.Gate
	store *storage.Service
	a, b  string
}

func setup(t *testing.T, requireVerification bool) fixture {
	t.Helper()
	s, _ := storagetest.NewService(t)
	users := storagetest.CreateUsers(t, s, time.Time{}, "a", "b")
	gate := access.NewGate(s, time.Minute, logger.Discard())
	return fixture{
		graph: connection.NewGraph(s, gate, requireVerification, logger.Discard()),
		gate:  gate,
		store: s,
		a:     users[0].ID,
		b:     users[1].ID,
	}
}

func TestGraph_ConnectRules(t *testing.T) {
	ctx := context.Background()
	f := setup(t, false)

	_, err := f.graph.Connect(ctx, f.a, f.b)
	require.NoError(t, err)

	_, err = f.graph.Connect(ctx, f.a, f.b)
	assert.ErrorIs(t, err, apperror.ErrDuplicateEdge)

	_, err = f.graph.Connect(ctx, f.a, f.a)
	assert.ErrorIs(t, err, apperror.ErrSelfConnection)

	_, err = f.graph.Connect(ctx, f.a, "ghost")
	assert.Equal(t, apperror.KindNotFound, apperror.KindOf(err))
}

func TestGraph_MutualDetection(t *testing.T) {
	ctx := context.Background()
	f := setup(t, false)

	_, err := f.graph.Connect(ctx, f.a, f.b)
	require.NoError(t, err)

	mutual, err := f.graph.IsMutuallyConnected(ctx, f.a, f.b)
	require.NoError(t, err)
	assert.False(t, mutual)
	anyEdge, err := f.graph.HasAnyEdge(ctx, f.b, f.a)
	require.NoError(t, err)
	assert.True(t, anyEdge)

	_, err = f.graph.Connect(ctx, f.b, f.a)
	require.NoError(t, err)

	mutual, err = f.graph.IsMutuallyConnected(ctx, f.a, f.b)
	require.NoError(t, err)
	assert.True(t, mutual)

	list, err := f.graph.ListMutualConnections(ctx, f.b)
	require.NoError(t, err)
	assert.Equal(t, []string{f.a}, list)
}

func TestGraph_DisconnectRemovesBothDirections(t *testing.T) {
	ctx := context.Background()
	f := setup(t, false)

	_, _ = f.graph.Connect(ctx, f.a, f.b)
	_, _ = f.graph.Connect(ctx, f.b, f.a)

	require.NoError(t, f.graph.Disconnect(ctx, f.a, f.b))
	require.NoError(t, f.graph.Disconnect(ctx, f.a, f.b))

	anyEdge, err := f.graph.HasAnyEdge(ctx, f.a, f.b)
	require.NoError(t, err)
	assert.False(t, anyEdge)

	list, err := f.graph.ListMutualConnections(ctx, f.a)
	require.NoError(t, err)
	assert.Empty(t, list)
}

func TestGraph_BannedInitiatorIsRejected(t *testing.T) {
	ctx := context.Background()
	f := setup(t, false)
	require.NoError(t, f.gate.Ban(ctx, f.a, "mod", "spam"))

	_, err := f.graph.Connect(ctx, f.a, f.b)
	assert.ErrorIs(t, err, apperror.ErrBanned)
}

func TestGraph_RequireVerification(t *testing.T) {
	tests := []struct {
		name                string
		requireVerification bool
		verifyA, verifyB    bool
		wantErr             error
	}{
		{"flag off, nobody verified", false, false, false, nil},
		{"flag on, nobody verified", true, false, false, apperror.ErrNotVerified},
		{"flag on, only initiator verified", true, true, false, apperror.ErrNotVerified},
		{"flag on, only target verified", true, false, true, apperror.ErrNotVerified},
		{"flag on, both verified", true, true, true, nil},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			ctx := context.Background()
			f := setup(t, tt.requireVerification)
			verify := func(id string) {
				_, err := f.gate.SubmitVerification(ctx, id, models.DocumentPassport, "doc")
				require.NoError(t, err)
				require.NoError(t, f.gate.ReviewVerification(ctx, id, models.VerificationVerified))
			}
			if tt.verifyA {
				verify(f.a)
			}
			if tt.verifyB {
				verify(f.b)
			}

			_, err := f.graph.Connect(ctx, f.a, f.b)
			if tt.wantErr != nil {
				assert.ErrorIs(t, err, tt.wantErr)
				assert.Equal(t, apperror.KindPolicy, apperror.KindOf(err))
				return
			}
			assert.NoError(t, err)
		})
	}
}
