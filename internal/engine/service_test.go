package engine

import (
	"context"
	"testing"
	"time"

	"pursuit-server/internal/network"
	"pursuit-server/pkg/api"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestGameService_SessionLifecycle(t *testing.T) {
	svc := NewService(sessionConfig(), network.NewBroadcaster())
	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	sess, updates, err := svc.StartSession(ctx)
	require.NoError(t, err)

	first := <-updates
	assert.Equal(t, sess.ID, first.SessionID)
	assert.True(t, svc.Hub.HasSubscriber(sess.ID))

	got, ok := svc.Session(sess.ID)
	require.True(t, ok)
	assert.Same(t, sess, got)

	require.Eventually(t, func() bool { return len(svc.Sessions()) == 1 && svc.Sessions()[0].Level == 1 },
		time.Second, 5*time.Millisecond)

	require.NoError(t, svc.ProcessCommand(ctx, sess.ID, api.ClientCommand{Action: "PAUSE"}))

	cancel()
	<-sess.Done()

	// Канал подписки закрывается после остановки сессии
	require.Eventually(t, func() bool {
		for {
			select {
			case _, open := <-updates:
				if !open {
					return true
				}
			default:
				return false
			}
		}
	}, time.Second, 5*time.Millisecond)

	_, ok = svc.Session(sess.ID)
	assert.False(t, ok)
	assert.Empty(t, svc.Sessions())
	assert.ErrorIs(t, svc.ProcessCommand(context.Background(), sess.ID, api.ClientCommand{Action: "INIT"}), ErrSessionClosed)
}

func TestGameService_SessionsGetDistinctSeeds(t *testing.T) {
	cfg := sessionConfig()
	cfg.ClockTick = time.Hour
	cfg.AgentTick = time.Hour
	svc := NewService(cfg, network.NewBroadcaster())
	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	a, _, err := svc.StartSession(ctx)
	require.NoError(t, err)
	b, _, err := svc.StartSession(ctx)
	require.NoError(t, err)

	assert.NotEqual(t, a.ID, b.ID)
	assert.Equal(t, cfg.Seed, a.state.Config().Seed)
	assert.Equal(t, cfg.Seed+1, b.state.Config().Seed)
}
