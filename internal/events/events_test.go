package events

import (
	"context"
	"encoding/json"
	"testing"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestEventWireFormat(t *testing.T) {
	sponsor, influencer := uuid.New(), uuid.New()
	ev := Event{
		Type:       EventAdRequestStatusChanged,
		Recipients: []uuid.UUID{sponsor, influencer},
		Payload:    map[string]any{"old_status": "Pending", "new_status": "Accepted"},
	}

	data, err := json.Marshal(ev)
	require.NoError(t, err)

	decoded, err := Decode(data)
	require.NoError(t, err)
	assert.Equal(t, ev.Type, decoded.Type)
	assert.Equal(t, ev.Recipients, decoded.Recipients)
	assert.Equal(t, "Accepted", decoded.Payload["new_status"])
}

func TestDecodeInvalid(t *testing.T) {
	_, err := Decode([]byte("not json"))
	assert.Error(t, err)
}

func TestNopPublisher(t *testing.T) {
	var p Publisher = NopPublisher{}
	assert.NoError(t, p.Publish(context.Background(), ChannelAdRequest, Event{Type: EventAdRequestCreated}))
}
