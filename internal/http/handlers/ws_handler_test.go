package handlers

import (
	"context"
	"sync"
	"testing"

	"github.com/adconnect/backend/internal/auth"
	"github.com/adconnect/backend/internal/events"
	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
)

type captureConn struct {
	mu       sync.Mutex
	messages [][]byte
}

func (c *captureConn) WriteMessage(_ int, data []byte) error {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.messages = append(c.messages, data)
	return nil
}

func (c *captureConn) count() int {
	c.mu.Lock()
	defer c.mu.Unlock()
	return len(c.messages)
}

type fakeSubscriber struct {
	channels []string
	handler  func(events.Event)
}

func (s *fakeSubscriber) Subscribe(_ context.Context, channels []string, handler func(events.Event)) error {
	s.channels = channels
	s.handler = handler
	return nil
}

func TestWSHubRoutesToRecipients(t *testing.T) {
	sub := &fakeSubscriber{}
	hub := NewWSHub(auth.Verifier{Secret: "x"}, sub, zap.NewNop())
	require.NoError(t, hub.Start(context.Background()))
	assert.ElementsMatch(t, []string{events.ChannelAdRequest, events.ChannelModeration}, sub.channels)

	sponsor, influencer, bystander := uuid.New(), uuid.New(), uuid.New()
	sponsorConn, influencerConn, bystanderConn := &captureConn{}, &captureConn{}, &captureConn{}
	hub.register(sponsor, sponsorConn)
	hub.register(influencer, influencerConn)
	hub.register(bystander, bystanderConn)

	sub.handler(events.Event{
		Type:       events.EventAdRequestStatusChanged,
		Recipients: []uuid.UUID{sponsor, influencer},
		Payload:    map[string]any{"status": "Accepted"},
	})

	assert.Equal(t, 1, sponsorConn.count())
	assert.Equal(t, 1, influencerConn.count())
	assert.Zero(t, bystanderConn.count())

	ev, err := events.Decode(sponsorConn.messages[0])
	require.NoError(t, err)
	assert.Equal(t, events.EventAdRequestStatusChanged, ev.Type)
}

func TestWSHubUnregister(t *testing.T) {
	hub := NewWSHub(auth.Verifier{Secret: "x"}, &fakeSubscriber{}, zap.NewNop())
	user := uuid.New()
	first, second := &captureConn{}, &captureConn{}
	hub.register(user, first)
	hub.register(user, second)

	hub.unregister(user, first)
	hub.Dispatch(events.Event{Type: events.EventUserFlagged, Recipients: []uuid.UUID{user}})
	assert.Zero(t, first.count())
	assert.Equal(t, 1, second.count())

	hub.unregister(user, second)
	hub.mu.RLock()
	_, ok := hub.connections[user]
	hub.mu.RUnlock()
	assert.False(t, ok)
}
