package events

import (
	"context"

	"github.com/google/uuid"
)

// Channels
const (
	ChannelAdRequest  = "events:ad_request"
	ChannelModeration = "events:moderation"
)

// Event types
const (
	EventAdRequestCreated       = "ad_request_created"
	EventAdRequestStatusChanged = "ad_request_status_changed"
	EventAdRequestUpdated       = "ad_request_updated"
	EventAdRequestDeleted       = "ad_request_deleted"
	EventUserFlagged            = "user_flagged"
	EventCampaignFlagged        = "campaign_flagged"
)

type Event struct {
	Type       string         `json:"type"`
	Recipients []uuid.UUID    `json:"recipients,omitempty"`
	Payload    map[string]any `json:"payload"`
}

type Publisher interface {
	Publish(ctx context.Context, channel string, event Event) error
}

type Subscriber interface {
	Subscribe(ctx context.Context, channels []string, handler func(Event)) error
}

// NopPublisher drops every event.
type NopPublisher struct{}

func (NopPublisher) Publish(context.Context, string, Event) error { return nil }
